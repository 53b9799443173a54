package server

import (
	"context"
	"errors"

	"github.com/creachadair/jrpc2"
	"github.com/creachadair/jrpc2/handler"
	"github.com/habitflash/habitflash/common"
	"github.com/habitflash/habitflash/internal/api"
	"github.com/habitflash/habitflash/internal/delivery"
	"github.com/habitflash/habitflash/internal/group"
	"github.com/habitflash/habitflash/internal/pomodoro"
	"github.com/habitflash/habitflash/internal/settings"
)

// JSON-RPC error codes.
const (
	codeNotFound      = jrpc2.Code(-32001)
	codeInvalidParams = jrpc2.Code(-32602)
	codeInternal      = jrpc2.Code(-32603)
)

// EmptyResult is returned by methods with nothing to report.
type EmptyResult struct{}

func (s *Server) methodMap() handler.Map {
	return handler.Map{
		common.MethodVersion: handler.New(s.systemGetVersion),

		common.MethodGroupList:    handler.New(s.groupList),
		common.MethodGroupGet:     handler.New(s.groupGet),
		common.MethodGroupAdd:     handler.New(s.groupAdd),
		common.MethodGroupUpdate:  handler.New(s.groupUpdate),
		common.MethodGroupRemove:  handler.New(s.groupRemove),
		common.MethodGroupPreview: handler.New(s.groupPreview),

		common.MethodSchedulePending: handler.New(s.schedulePending),

		common.MethodPomodoroStart:  handler.New(s.pomodoroStart),
		common.MethodPomodoroPause:  handler.New(s.pomodoroPause),
		common.MethodPomodoroStop:   handler.New(s.pomodoroStop),
		common.MethodPomodoroStatus: handler.New(s.pomodoroStatus),

		common.MethodSettingsGet:   handler.New(s.settingsGet),
		common.MethodSettingsSet:   handler.New(s.settingsSet),
		common.MethodSettingsReset: handler.New(s.settingsReset),

		common.MethodFlashShow:  handler.New(s.flashShow),
		common.MethodFlashState: handler.New(s.flashState),
	}
}

// rpcError maps engine errors onto JSON-RPC codes.
func rpcError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, group.ErrGroupNotFound):
		return &jrpc2.Error{Code: codeNotFound, Message: err.Error()}
	case errors.Is(err, api.ErrInvalidParams),
		errors.Is(err, settings.ErrUnknownSetting),
		errors.Is(err, settings.ErrInvalidValue):
		return &jrpc2.Error{Code: codeInvalidParams, Message: err.Error()}
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	default:
		return &jrpc2.Error{Code: codeInternal, Message: err.Error()}
	}
}

func requireID(id string) error {
	if id == "" {
		return &jrpc2.Error{Code: codeInvalidParams, Message: "missing required param: id"}
	}
	return nil
}

func (s *Server) systemGetVersion(_ context.Context) (common.VersionResult, error) {
	return s.api.Version(), nil
}

func (s *Server) groupList(ctx context.Context) (*common.GroupListResult, error) {
	groups, err := s.api.Groups(ctx)
	if err != nil {
		return nil, rpcError(err)
	}
	if groups == nil {
		groups = []group.ReminderGroup{}
	}
	return &common.GroupListResult{Groups: groups}, nil
}

func (s *Server) groupGet(ctx context.Context, p *common.GroupIDParams) (*group.ReminderGroup, error) {
	if err := requireID(p.ID); err != nil {
		return nil, err
	}
	g, err := s.api.Group(ctx, p.ID)
	if err != nil {
		return nil, rpcError(err)
	}
	return &g, nil
}

func (s *Server) groupAdd(ctx context.Context, p *common.GroupSpec) (*group.ReminderGroup, error) {
	g, err := s.api.AddGroup(ctx, *p)
	if err != nil {
		return nil, rpcError(err)
	}
	return &g, nil
}

func (s *Server) groupUpdate(ctx context.Context, p *common.GroupUpdateParams) (*group.ReminderGroup, error) {
	if err := requireID(p.ID); err != nil {
		return nil, err
	}
	g, err := s.api.UpdateGroup(ctx, p.ID, p.GroupSpec)
	if err != nil {
		return nil, rpcError(err)
	}
	return &g, nil
}

func (s *Server) groupRemove(ctx context.Context, p *common.GroupIDParams) (*EmptyResult, error) {
	if err := requireID(p.ID); err != nil {
		return nil, err
	}
	if err := s.api.RemoveGroup(ctx, p.ID); err != nil {
		return nil, rpcError(err)
	}
	return &EmptyResult{}, nil
}

func (s *Server) groupPreview(ctx context.Context, p *common.GroupIDParams) (*delivery.Request, error) {
	if err := requireID(p.ID); err != nil {
		return nil, err
	}
	req, err := s.api.PreviewGroup(ctx, p.ID)
	if err != nil {
		return nil, rpcError(err)
	}
	return &req, nil
}

func (s *Server) schedulePending(ctx context.Context) (*common.PendingResult, error) {
	res, err := s.api.Pending(ctx)
	if err != nil {
		return nil, rpcError(err)
	}
	return &res, nil
}

func (s *Server) pomodoroStart(ctx context.Context) (*pomodoro.State, error) {
	return pomodoroResult(s.api.PomodoroStart(ctx))
}

func (s *Server) pomodoroPause(ctx context.Context) (*pomodoro.State, error) {
	return pomodoroResult(s.api.PomodoroPause(ctx))
}

func (s *Server) pomodoroStop(ctx context.Context) (*pomodoro.State, error) {
	return pomodoroResult(s.api.PomodoroStop(ctx))
}

func (s *Server) pomodoroStatus(ctx context.Context) (*pomodoro.State, error) {
	return pomodoroResult(s.api.PomodoroStatus(ctx))
}

func pomodoroResult(st pomodoro.State, err error) (*pomodoro.State, error) {
	if err != nil {
		return nil, rpcError(err)
	}
	return &st, nil
}

func (s *Server) settingsGet(ctx context.Context) (*common.SettingsResult, error) {
	return settingsResult(s.api.Settings(ctx))
}

func (s *Server) settingsSet(ctx context.Context, p *common.SettingsSetParams) (*common.SettingsResult, error) {
	if p.Name == "" {
		return nil, &jrpc2.Error{Code: codeInvalidParams, Message: "missing required param: name"}
	}
	return settingsResult(s.api.SetSetting(ctx, p.Name, p.Value))
}

func (s *Server) settingsReset(ctx context.Context) (*common.SettingsResult, error) {
	return settingsResult(s.api.ResetSettings(ctx))
}

func settingsResult(st settings.Settings, err error) (*common.SettingsResult, error) {
	if err != nil {
		return nil, rpcError(err)
	}
	return &common.SettingsResult{Settings: st}, nil
}

func (s *Server) flashShow(ctx context.Context, p *common.FlashShowParams) (*delivery.Request, error) {
	if p.Text == "" {
		return nil, &jrpc2.Error{Code: codeInvalidParams, Message: "missing required param: text"}
	}
	req, err := s.api.Flash(ctx, p.Text)
	if err != nil {
		return nil, rpcError(err)
	}
	return &req, nil
}

func (s *Server) flashState(ctx context.Context) (*delivery.FlashState, error) {
	st, err := s.api.FlashState(ctx)
	if err != nil {
		return nil, rpcError(err)
	}
	return &st, nil
}

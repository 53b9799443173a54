package flashcli

import (
	"context"

	"github.com/habitflash/habitflash/common"
	"github.com/habitflash/habitflash/internal/delivery"
	"github.com/habitflash/habitflash/internal/group"
	"github.com/habitflash/habitflash/internal/pomodoro"
	"github.com/habitflash/habitflash/internal/settings"
)

func (c *Client) GetVersion(ctx context.Context) (*common.VersionResult, error) {
	return invoke[common.VersionResult](ctx, c, common.MethodVersion, nil)
}

func (c *Client) ListGroups(ctx context.Context) (*common.GroupListResult, error) {
	return invoke[common.GroupListResult](ctx, c, common.MethodGroupList, nil)
}

func (c *Client) GetGroup(ctx context.Context, id string) (*group.ReminderGroup, error) {
	return invoke[group.ReminderGroup](ctx, c, common.MethodGroupGet, &common.GroupIDParams{ID: id})
}

func (c *Client) AddGroup(ctx context.Context, spec common.GroupSpec) (*group.ReminderGroup, error) {
	return invoke[group.ReminderGroup](ctx, c, common.MethodGroupAdd, &spec)
}

func (c *Client) UpdateGroup(ctx context.Context, id string, spec common.GroupSpec) (*group.ReminderGroup, error) {
	return invoke[group.ReminderGroup](ctx, c, common.MethodGroupUpdate, &common.GroupUpdateParams{ID: id, GroupSpec: spec})
}

func (c *Client) RemoveGroup(ctx context.Context, id string) error {
	_, err := invoke[struct{}](ctx, c, common.MethodGroupRemove, &common.GroupIDParams{ID: id})
	return err
}

func (c *Client) PreviewGroup(ctx context.Context, id string) (*delivery.Request, error) {
	return invoke[delivery.Request](ctx, c, common.MethodGroupPreview, &common.GroupIDParams{ID: id})
}

func (c *Client) Pending(ctx context.Context) (*common.PendingResult, error) {
	return invoke[common.PendingResult](ctx, c, common.MethodSchedulePending, nil)
}

func (c *Client) PomodoroStart(ctx context.Context) (*pomodoro.State, error) {
	return invoke[pomodoro.State](ctx, c, common.MethodPomodoroStart, nil)
}

func (c *Client) PomodoroPause(ctx context.Context) (*pomodoro.State, error) {
	return invoke[pomodoro.State](ctx, c, common.MethodPomodoroPause, nil)
}

func (c *Client) PomodoroStop(ctx context.Context) (*pomodoro.State, error) {
	return invoke[pomodoro.State](ctx, c, common.MethodPomodoroStop, nil)
}

func (c *Client) PomodoroStatus(ctx context.Context) (*pomodoro.State, error) {
	return invoke[pomodoro.State](ctx, c, common.MethodPomodoroStatus, nil)
}

func (c *Client) GetSettings(ctx context.Context) (*settings.Settings, error) {
	res, err := invoke[common.SettingsResult](ctx, c, common.MethodSettingsGet, nil)
	if err != nil {
		return nil, err
	}
	return &res.Settings, nil
}

func (c *Client) SetSetting(ctx context.Context, name, value string) (*settings.Settings, error) {
	res, err := invoke[common.SettingsResult](ctx, c, common.MethodSettingsSet, &common.SettingsSetParams{Name: name, Value: value})
	if err != nil {
		return nil, err
	}
	return &res.Settings, nil
}

func (c *Client) ResetSettings(ctx context.Context) (*settings.Settings, error) {
	res, err := invoke[common.SettingsResult](ctx, c, common.MethodSettingsReset, nil)
	if err != nil {
		return nil, err
	}
	return &res.Settings, nil
}

func (c *Client) Flash(ctx context.Context, text string) (*delivery.Request, error) {
	return invoke[delivery.Request](ctx, c, common.MethodFlashShow, &common.FlashShowParams{Text: text})
}

func (c *Client) FlashState(ctx context.Context) (*delivery.FlashState, error) {
	return invoke[delivery.FlashState](ctx, c, common.MethodFlashState, nil)
}

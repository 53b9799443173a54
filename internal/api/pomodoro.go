package api

import (
	"context"

	"github.com/habitflash/habitflash/internal/pomodoro"
)

func (a *Api) countdown(ctx context.Context, fn func()) (pomodoro.State, error) {
	var out pomodoro.State
	err := a.exec.Do(ctx, func() error {
		if fn != nil {
			fn()
		}
		out = a.pomo.State()
		return nil
	})
	return out, err
}

// PomodoroStart starts or resumes the countdown.
func (a *Api) PomodoroStart(ctx context.Context) (pomodoro.State, error) {
	return a.countdown(ctx, a.pomo.Start)
}

func (a *Api) PomodoroPause(ctx context.Context) (pomodoro.State, error) {
	return a.countdown(ctx, a.pomo.Pause)
}

func (a *Api) PomodoroStop(ctx context.Context) (pomodoro.State, error) {
	return a.countdown(ctx, a.pomo.Stop)
}

func (a *Api) PomodoroStatus(ctx context.Context) (pomodoro.State, error) {
	return a.countdown(ctx, nil)
}

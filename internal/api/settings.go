package api

import (
	"context"

	"github.com/habitflash/habitflash/internal/settings"
)

func (a *Api) Settings(ctx context.Context) (settings.Settings, error) {
	var out settings.Settings
	err := a.exec.Do(ctx, func() error {
		out = a.settings.Get()
		return nil
	})
	return out, err
}

// SetSetting changes one setting by name. Observers and the confirmation
// message run on the loop.
func (a *Api) SetSetting(ctx context.Context, name, value string) (settings.Settings, error) {
	var out settings.Settings
	err := a.exec.Do(ctx, func() (err error) {
		out, err = a.settings.Set(name, value)
		return err
	})
	return out, err
}

func (a *Api) ResetSettings(ctx context.Context) (settings.Settings, error) {
	var out settings.Settings
	err := a.exec.Do(ctx, func() (err error) {
		out, err = a.settings.Reset()
		return err
	})
	return out, err
}

package api

import (
	"context"

	"github.com/habitflash/habitflash/internal/delivery"
)

// Flash delivers an ad-hoc message through every enabled sink.
func (a *Api) Flash(ctx context.Context, text string) (delivery.Request, error) {
	var out delivery.Request
	err := a.exec.Do(ctx, func() error {
		out = a.pipe.Deliver(delivery.Request{Text: text, Source: delivery.SourceMessage})
		return nil
	})
	return out, err
}

func (a *Api) FlashState(ctx context.Context) (delivery.FlashState, error) {
	var out delivery.FlashState
	err := a.exec.Do(ctx, func() error {
		out = a.pipe.State()
		return nil
	})
	return out, err
}

package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/habitflash/habitflash/cmd/common"
	hfcommon "github.com/habitflash/habitflash/common"
	"github.com/habitflash/habitflash/internal/pomodoro"
	"github.com/habitflash/habitflash/pkg/flashcli"
	"github.com/urfave/cli"
	"github.com/vbauerster/mpb/v8"
)

func pomodoroAction(action string) cli.ActionFunc {
	return func(ctx *cli.Context) error {
		return withClient(ctx, "pomodoro", action, func(c context.Context, client *flashcli.Client) error {
			var (
				st  *pomodoro.State
				err error
			)
			switch action {
			case "start":
				st, err = client.PomodoroStart(c)
			case "pause":
				st, err = client.PomodoroPause(c)
			case "stop":
				st, err = client.PomodoroStop(c)
			default:
				st, err = client.PomodoroStatus(c)
			}
			if err != nil {
				return err
			}
			fmt.Println(describePomodoro(*st))
			return nil
		})
	}
}

func describePomodoro(st pomodoro.State) string {
	switch st.Phase {
	case pomodoro.Running:
		return fmt.Sprintf("Pomodoro running, %s left.", st.Readable)
	case pomodoro.Paused:
		return fmt.Sprintf("Pomodoro paused, %s left.", st.Readable)
	}
	return "Pomodoro stopped."
}

func pomodoroWatch(ctx *cli.Context) error {
	client, err := newClient()
	if err != nil {
		common.PrintRuntimeErr(ctx, "pomodoro", "new_client", err)
		return nil
	}
	defer client.Close()

	sctx, cancel := setupShutdownHandler()
	defer cancel()

	st, err := client.PomodoroStatus(sctx)
	if err != nil {
		common.PrintRuntimeErr(ctx, "pomodoro", "status", err)
		return nil
	}
	if st.Phase == pomodoro.Stopped {
		fmt.Println("Pomodoro stopped, start one with \"habitflash pomodoro start\".")
		return nil
	}

	p := mpb.NewWithContext(sctx)
	w := newCountdownWatch(*st)
	bar := common.NewCountdownBar(p, "Focus", int64(st.Total), w.label)
	bar.SetCurrent(w.elapsed())

	wctx, stop := context.WithCancel(sctx)
	defer stop()
	err = client.Subscribe(wctx, func(push flashcli.Push) {
		if push.Method != hfcommon.PushPomodoroUpdate {
			return
		}
		var next pomodoro.State
		if json.Unmarshal(push.Params, &next) != nil {
			return
		}
		switch w.update(next) {
		case watchTick:
			bar.SetCurrent(w.elapsed())
		case watchDone:
			bar.SetCurrent(int64(st.Total))
			stop()
		case watchAborted:
			bar.Abort(false)
			stop()
		}
	})
	if err != nil {
		bar.Abort(false)
		common.PrintRuntimeErr(ctx, "pomodoro", "subscribe", err)
	}
	p.Wait()
	return nil
}

type watchEvent int

const (
	watchTick watchEvent = iota
	watchDone
	watchAborted
)

// countdownWatch tracks the last pushed state for the progress bar.
type countdownWatch struct {
	mu sync.Mutex
	st pomodoro.State
}

func newCountdownWatch(st pomodoro.State) *countdownWatch {
	return &countdownWatch{st: st}
}

// update records next and classifies it. A stop right after the last
// second is the countdown completing; any other stop was requested.
func (w *countdownWatch) update(next pomodoro.State) watchEvent {
	w.mu.Lock()
	defer w.mu.Unlock()
	prev := w.st
	w.st = next
	if next.Phase != pomodoro.Stopped {
		return watchTick
	}
	if prev.Phase == pomodoro.Running && prev.Remaining <= 1 {
		return watchDone
	}
	return watchAborted
}

func (w *countdownWatch) elapsed() int64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return int64(w.st.Total - w.st.Remaining)
}

func (w *countdownWatch) label() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	switch w.st.Phase {
	case pomodoro.Paused:
		return w.st.Readable + " (paused)"
	case pomodoro.Stopped:
		return pomodoro.CompleteMessage
	}
	return w.st.Readable
}

package cmd

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/habitflash/habitflash/cmd/common"
	hfcommon "github.com/habitflash/habitflash/common"
	"github.com/habitflash/habitflash/internal/delivery"
	"github.com/habitflash/habitflash/internal/pomodoro"
	"github.com/habitflash/habitflash/internal/settings"
	"github.com/habitflash/habitflash/pkg/flashcli"
	"github.com/habitflash/habitflash/pkg/hexcolor"
	"github.com/urfave/cli"
)

type (
	flashMsg     delivery.FlashState
	pomodoroMsg  pomodoro.State
	streamEndMsg struct{ err error }
)

var (
	hintStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
)

type overlayModel struct {
	text    string
	visible bool
	style   lipgloss.Style
	bar     progress.Model
	pomo    pomodoro.State
	counter bool
	width   int
	height  int
	err     error
}

func newOverlayModel(s settings.Settings) overlayModel {
	return overlayModel{
		style:   overlayStyle(s),
		bar:     progress.New(progress.WithDefaultGradient(), progress.WithWidth(40)),
		pomo:    pomodoro.State{Phase: pomodoro.Stopped},
		counter: s.PomodoroCountdownDisplay,
	}
}

// overlayStyle renders reminder text in the configured font color. Font
// shadow becomes a rounded border since terminals have no drop shadow.
func overlayStyle(s settings.Settings) lipgloss.Style {
	st := lipgloss.NewStyle().
		Bold(true).
		Padding(1, 4).
		Foreground(lipgloss.Color("#" + hexcolor.Parse(s.FontColor).Hex()))
	if s.FontShadow {
		st = st.Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240"))
	}
	return st
}

func (m overlayModel) Init() tea.Cmd {
	return nil
}

func (m overlayModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.bar.Width = max(min(msg.Width-8, 60), 10)
	case flashMsg:
		m.visible = msg.Opacity > 0
		if m.visible {
			m.text = msg.Text
		}
	case pomodoroMsg:
		m.pomo = pomodoro.State(msg)
	case streamEndMsg:
		m.err = msg.err
		return m, tea.Quit
	}
	return m, nil
}

func (m overlayModel) View() string {
	var parts []string
	if m.visible && m.text != "" {
		parts = append(parts, m.style.Render(m.text))
	}
	if m.counter && m.pomo.Phase != pomodoro.Stopped && m.pomo.Total > 0 {
		done := float64(m.pomo.Total-m.pomo.Remaining) / float64(m.pomo.Total)
		label := m.pomo.Readable
		if m.pomo.Phase == pomodoro.Paused {
			label += " (paused)"
		}
		parts = append(parts, m.bar.ViewAs(done)+"  "+label)
	}
	if m.err != nil {
		parts = append(parts, errorStyle.Render(m.err.Error()))
	}
	parts = append(parts, hintStyle.Render("q to quit"))
	body := lipgloss.JoinVertical(lipgloss.Center, parts...)
	if m.width == 0 || m.height == 0 {
		return body
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, body)
}

// overlayMsg converts a push into a model message. Unknown pushes map to
// nil.
func overlayMsg(push flashcli.Push) tea.Msg {
	switch push.Method {
	case hfcommon.PushFlashUpdate:
		var fs delivery.FlashState
		if json.Unmarshal(push.Params, &fs) == nil {
			return flashMsg(fs)
		}
	case hfcommon.PushPomodoroUpdate:
		var st pomodoro.State
		if json.Unmarshal(push.Params, &st) == nil {
			return pomodoroMsg(st)
		}
	}
	return nil
}

func overlay(ctx *cli.Context) error {
	client, err := newClient()
	if err != nil {
		common.PrintRuntimeErr(ctx, "overlay", "new_client", err)
		return nil
	}
	defer client.Close()

	c, cancel := context.WithCancel(context.Background())
	defer cancel()
	s, err := client.GetSettings(c)
	if err != nil {
		common.PrintRuntimeErr(ctx, "overlay", "settings", err)
		return nil
	}
	m := newOverlayModel(*s)
	if st, err := client.FlashState(c); err == nil {
		m.text, m.visible = st.Text, st.Opacity > 0
	}
	if st, err := client.PomodoroStatus(c); err == nil {
		m.pomo = *st
	}

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(c))
	go func() {
		err := client.Subscribe(c, func(push flashcli.Push) {
			if msg := overlayMsg(push); msg != nil {
				p.Send(msg)
			}
		})
		if c.Err() == nil {
			p.Send(streamEndMsg{err: err})
		}
	}()
	final, err := p.Run()
	cancel()
	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		common.PrintRuntimeErr(ctx, "overlay", "run", err)
		return nil
	}
	if fm, ok := final.(overlayModel); ok && fm.err != nil {
		common.PrintRuntimeErr(ctx, "overlay", "subscribe", fm.err)
	}
	return nil
}

package pomodoro

import (
	"reflect"
	"testing"
	"time"

	"github.com/habitflash/habitflash/internal/clock"
	"github.com/habitflash/habitflash/internal/eventloop"
)

type fixture struct {
	clk  *clock.Fake
	cfg  Config
	msgs []string
	tm   *Timer
}

func newFixture() *fixture {
	f := &fixture{
		clk: clock.NewFake(time.Date(2026, 10, 12, 9, 0, 0, 0, time.UTC)),
		cfg: Config{DurationMinutes: 25, FrequencyMinutes: 10},
	}
	f.tm = New(f.clk, eventloop.Inline{}, func() Config { return f.cfg }, func(s string) { f.msgs = append(f.msgs, s) }, nil)
	return f
}

func TestReadable(t *testing.T) {
	tests := []struct {
		in   int
		want string
	}{
		{1500, "25 minutes"},
		{60, "1 minute"},
		{61, "1:01"},
		{1499, "24:59"},
		{59, "59 seconds"},
		{1, "1 second"},
		{0, "0 seconds"},
	}
	for _, tt := range tests {
		if got := Readable(tt.in); got != tt.want {
			t.Errorf("Readable(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestTimer_FullRun(t *testing.T) {
	f := newFixture()
	f.tm.Start()
	if s := f.tm.State(); s.Phase != Running || s.Remaining != 1500 {
		t.Fatalf("state after Start = %+v", s)
	}

	for i := 0; i < 1500; i++ {
		if !f.clk.Step() {
			t.Fatalf("no tick armed after %d ticks", i)
		}
	}
	if s := f.tm.State(); s.Phase != Stopped || s.Remaining != 0 {
		t.Fatalf("state after 1500 ticks = %+v", s)
	}
	if f.clk.Pending() != 0 {
		t.Fatal("tick still armed after completion")
	}

	want := []string{"20 minutes to go", "10 minutes to go"}
	for s := 9; s >= 1; s-- {
		want = append(want, Readable(s)+" to go")
	}
	want = append(want, CompleteMessage)
	if !reflect.DeepEqual(f.msgs, want) {
		t.Fatalf("messages = %q\nwant %q", f.msgs, want)
	}
}

func TestTimer_PauseResume(t *testing.T) {
	f := newFixture()
	f.tm.Start()
	f.clk.Advance(100 * time.Second)
	f.tm.Pause()
	if s := f.tm.State(); s.Phase != Paused || s.Remaining != 1400 {
		t.Fatalf("state after pause = %+v", s)
	}
	f.clk.Advance(time.Hour)
	if f.tm.State().Remaining != 1400 {
		t.Fatal("paused timer kept counting")
	}
	f.tm.Start()
	f.clk.Advance(10 * time.Second)
	if s := f.tm.State(); s.Phase != Running || s.Remaining != 1390 {
		t.Fatalf("state after resume = %+v", s)
	}
}

func TestTimer_StartWhileRunningIsNoop(t *testing.T) {
	f := newFixture()
	f.tm.Start()
	f.clk.Advance(5 * time.Second)
	f.tm.Start()
	if f.clk.Pending() != 1 {
		t.Fatalf("pending ticks = %d, want 1", f.clk.Pending())
	}
	if f.tm.State().Remaining != 1495 {
		t.Fatalf("remaining = %d, want 1495", f.tm.State().Remaining)
	}
}

func TestTimer_Stop(t *testing.T) {
	f := newFixture()
	var phases []Phase
	f.tm.OnChange(func(s State) { phases = append(phases, s.Phase) })
	f.tm.Start()
	f.tm.Stop()
	f.clk.Advance(time.Minute)
	if s := f.tm.State(); s.Phase != Stopped || s.Remaining != 0 {
		t.Fatalf("state = %+v", s)
	}
	if len(f.msgs) != 0 {
		t.Fatalf("stopped timer emitted %v", f.msgs)
	}
	if !reflect.DeepEqual(phases, []Phase{Running, Stopped}) {
		t.Fatalf("phases = %v", phases)
	}
	f.tm.Pause()
	if f.tm.State().Phase != Stopped {
		t.Fatal("Pause moved a stopped timer")
	}
}

func TestTimer_LastSecondsAlwaysAnnounced(t *testing.T) {
	f := newFixture()
	f.cfg = Config{DurationMinutes: 1, FrequencyMinutes: 10}
	f.tm.Start()
	f.clk.Advance(2 * time.Minute)
	want := []string{
		"9 seconds to go", "8 seconds to go", "7 seconds to go",
		"6 seconds to go", "5 seconds to go", "4 seconds to go",
		"3 seconds to go", "2 seconds to go", "1 second to go",
		CompleteMessage,
	}
	if !reflect.DeepEqual(f.msgs, want) {
		t.Fatalf("messages = %q", f.msgs)
	}
}

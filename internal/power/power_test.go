package power

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/godbus/dbus/v5"
	"github.com/habitflash/habitflash/pkg/logger"
)

type recorder struct {
	mu     sync.Mutex
	events []string
}

func (r *recorder) handler() Handler {
	return Handler{
		OnSleep: func() { r.add("sleep") },
		OnWake:  func() { r.add("wake") },
	}
}

func (r *recorder) add(s string) {
	r.mu.Lock()
	r.events = append(r.events, s)
	r.mu.Unlock()
}

func (r *recorder) get() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.events...)
}

func TestDispatch(t *testing.T) {
	r := &recorder{}
	h := r.handler()
	name := "org.freedesktop.login1.Manager.PrepareForSleep"

	dispatch(&dbus.Signal{Name: name, Body: []interface{}{true}}, h)
	dispatch(&dbus.Signal{Name: name, Body: []interface{}{false}}, h)
	dispatch(&dbus.Signal{Name: "org.example.Other", Body: []interface{}{true}}, h)
	dispatch(&dbus.Signal{Name: name}, h)
	dispatch(&dbus.Signal{Name: name, Body: []interface{}{"yes"}}, h)
	dispatch(nil, h)

	got := r.get()
	if len(got) != 2 || got[0] != "sleep" || got[1] != "wake" {
		t.Fatalf("events = %v", got)
	}
}

func TestSlept(t *testing.T) {
	base := Sample{Wall: time.Date(2026, 10, 12, 9, 0, 0, 0, time.UTC), Mono: time.Hour}
	tests := []struct {
		name string
		cur  Sample
		want bool
	}{
		{"normal tick", Sample{base.Wall.Add(5 * time.Second), base.Mono + 5*time.Second}, false},
		{"small ntp step", Sample{base.Wall.Add(15 * time.Second), base.Mono + 5*time.Second}, false},
		{"suspended an hour", Sample{base.Wall.Add(time.Hour), base.Mono + 5*time.Second}, true},
		{"clock set back", Sample{base.Wall.Add(-time.Hour), base.Mono + 5*time.Second}, false},
	}
	for _, tt := range tests {
		if got := Slept(base, tt.cur, 30*time.Second); got != tt.want {
			t.Errorf("%s: Slept = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestDriftMonitor_Run(t *testing.T) {
	var mu sync.Mutex
	wall := time.Date(2026, 10, 12, 9, 0, 0, 0, time.UTC)
	mono := time.Duration(0)
	calls := 0
	m := NewDriftMonitor(logger.NewNopLogger())
	m.Interval = time.Millisecond
	m.sample = func() Sample {
		mu.Lock()
		defer mu.Unlock()
		calls++
		mono += time.Second
		wall = wall.Add(time.Second)
		if calls == 3 {
			wall = wall.Add(2 * time.Hour)
		}
		return Sample{Wall: wall, Mono: mono}
	}

	r := &recorder{}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- m.Run(ctx, r.handler()) }()

	deadline := time.Now().Add(2 * time.Second)
	for len(r.get()) < 2 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	cancel()
	if err := <-done; err != nil {
		t.Fatalf("Run: %v", err)
	}
	got := r.get()
	if len(got) != 2 || got[0] != "sleep" || got[1] != "wake" {
		t.Fatalf("events = %v", got)
	}
}

func TestNew_Modes(t *testing.T) {
	if m, err := New(ModeNone, nil); err != nil {
		t.Fatal(err)
	} else if _, ok := m.(None); !ok {
		t.Fatalf("none mode = %T", m)
	}
	if m, err := New(ModeDrift, nil); err != nil {
		t.Fatal(err)
	} else if _, ok := m.(*DriftMonitor); !ok {
		t.Fatalf("drift mode = %T", m)
	}
	if _, err := New("bogus", nil); err == nil {
		t.Fatal("expected error for unknown mode")
	}
}

func TestNone_ReturnsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := (None{}).Run(ctx, Handler{}); err != nil {
		t.Fatal(err)
	}
}

package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestStandardLogger_Prefixes(t *testing.T) {
	tests := []struct {
		name   string
		log    func(Logger)
		prefix string
		body   string
	}{
		{"info", func(l Logger) { l.Info("group %d armed", 3) }, "[INFO]", "group 3 armed"},
		{"warning", func(l Logger) { l.Warning("sound %q missing", "Purr") }, "[WARNING]", `sound "Purr" missing`},
		{"error", func(l Logger) { l.Error("save failed: %v", "disk full") }, "[ERROR]", "save failed: disk full"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			tt.log(NewStandardLogger(log.New(buf, "", 0)))
			out := buf.String()
			if !strings.Contains(out, tt.prefix) || !strings.Contains(out, tt.body) {
				t.Errorf("output %q; want prefix %s and body %q", out, tt.prefix, tt.body)
			}
		})
	}
}

func TestMockLogger_RecordsCalls(t *testing.T) {
	m := NewMockLogger()
	m.Info("a %d", 1)
	m.Warning("b")
	m.Error("c %s", "x")
	m.Error("d")

	if len(m.InfoCalls) != 1 || m.InfoCalls[0] != "a 1" {
		t.Errorf("InfoCalls = %v", m.InfoCalls)
	}
	if got := m.Warnings(); len(got) != 1 || got[0] != "b" {
		t.Errorf("Warnings() = %v", got)
	}
	if got := m.Errors(); len(got) != 2 || got[0] != "c x" {
		t.Errorf("Errors() = %v", got)
	}
	_ = m.Close()
	if !m.CloseCalled {
		t.Error("expected CloseCalled")
	}
}

func TestZerologLogger_WritesJSONLines(t *testing.T) {
	buf := &bytes.Buffer{}
	z := NewZerologLogger(buf, "scheduler")
	z.Info("fired %s", "g1")
	z.Warning("deferred")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines; want 2: %q", len(lines), buf.String())
	}
	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if entry["level"] != "info" || entry["message"] != "fired g1" || entry["component"] != "scheduler" {
		t.Errorf("unexpected entry: %v", entry)
	}
	if err := z.Close(); err != nil {
		t.Errorf("Close() on non-closer writer = %v", err)
	}
}

func TestNewFileLogger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "habitflash.log")
	z, err := NewFileLogger(path, "daemon")
	if err != nil {
		t.Fatalf("NewFileLogger: %v", err)
	}
	z.Error("boom")
	if err := z.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := z.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.Contains(string(data), `"level":"error"`) {
		t.Errorf("log file missing error entry: %s", data)
	}
}

func TestToStdLogger(t *testing.T) {
	m := NewMockLogger()
	ToStdLogger(m).Println("from stdlib")
	if len(m.InfoCalls) != 1 || m.InfoCalls[0] != "from stdlib" {
		t.Fatalf("InfoCalls = %v", m.InfoCalls)
	}
}

func TestMultiLogger_BroadcastsToAll(t *testing.T) {
	a, b := NewMockLogger(), NewMockLogger()
	multi := NewMultiLogger(a, b)
	multi.Info("i")
	multi.Warning("w")
	multi.Error("e")
	for i, m := range []*MockLogger{a, b} {
		if len(m.InfoCalls) != 1 || len(m.WarningCalls) != 1 || len(m.ErrorCalls) != 1 {
			t.Errorf("logger %d missed messages: %+v", i, m)
		}
	}
	NewMultiLogger().Info("no backends is fine")
	NewMultiLogger(nil, a).Info("nil backends are skipped")
	if len(a.InfoCalls) != 2 {
		t.Errorf("expected 2 info calls, got %d", len(a.InfoCalls))
	}
}

// failingCloseLogger returns an error on Close.
type failingCloseLogger struct {
	NopLogger
	closeErr error
}

func (f *failingCloseLogger) Close() error { return f.closeErr }

func TestMultiLogger_CloseJoinsErrors(t *testing.T) {
	err1 := errors.New("first")
	err2 := errors.New("second")
	mock := NewMockLogger()

	multi := NewMultiLogger(&failingCloseLogger{closeErr: err1}, mock, &failingCloseLogger{closeErr: err2})
	err := multi.Close()
	if !errors.Is(err, err1) || !errors.Is(err, err2) {
		t.Errorf("Close() = %v; want both %v and %v", err, err1, err2)
	}
	if !mock.CloseCalled {
		t.Error("backends after a failure must still be closed")
	}
}

package sound

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/spf13/afero"
)

func newFs(t *testing.T, files ...string) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()
	for _, f := range files {
		if err := afero.WriteFile(fs, f, []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return fs
}

func TestResolve(t *testing.T) {
	fs := newFs(t,
		"/user/Purr.aiff",
		"/sys/Submarine.aiff",
		"/sys/bell.oga",
		"/sys/Glass.aiff",
	)
	p := NewCommandPlayer(fs, []string{"/user", "/sys"})

	tests := []struct {
		name string
		want string
	}{
		{"Default", "/user/Purr.aiff"},
		{"", "/user/Purr.aiff"},
		{"Chime", "/sys/Submarine.aiff"},
		{"Glass", "/sys/Glass.aiff"},
		{"Bell", "/sys/bell.oga"},
	}
	for _, tt := range tests {
		got, err := p.Resolve(tt.name)
		if err != nil {
			t.Errorf("Resolve(%q): %v", tt.name, err)
			continue
		}
		if got != filepath.FromSlash(tt.want) {
			t.Errorf("Resolve(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}

	if _, err := p.Resolve("Nope"); !errors.Is(err, ErrSoundNotFound) {
		t.Errorf("Resolve(Nope) err = %v, want ErrSoundNotFound", err)
	}
}

func TestPlay_Commands(t *testing.T) {
	fs := newFs(t, "/s/Purr.aiff")
	var gotName string
	var gotArgs []string
	run := func(_ context.Context, name string, args ...string) error {
		gotName, gotArgs = name, args
		return nil
	}

	mac := NewCommandPlayer(fs, []string{"/s"}, WithRunner(run), WithGOOS("darwin"))
	if err := mac.Play(context.Background(), "Default", 0.5); err != nil {
		t.Fatal(err)
	}
	if gotName != "afplay" || !reflect.DeepEqual(gotArgs, []string{"-v", "0.50", filepath.FromSlash("/s/Purr.aiff")}) {
		t.Errorf("darwin: %s %v", gotName, gotArgs)
	}

	linux := NewCommandPlayer(fs, []string{"/s"}, WithRunner(run), WithGOOS("linux"))
	if err := linux.Play(context.Background(), "Default", 2); err != nil {
		t.Fatal(err)
	}
	if gotName != "paplay" || gotArgs[0] != "--volume=65536" {
		t.Errorf("linux: %s %v", gotName, gotArgs)
	}
}

func TestPlay_Errors(t *testing.T) {
	fs := newFs(t, "/s/Purr.aiff")
	boom := errors.New("exit 1")
	p := NewCommandPlayer(fs, []string{"/s"}, WithRunner(func(context.Context, string, ...string) error { return boom }))

	if err := p.Play(context.Background(), "Default", 1); !errors.Is(err, boom) {
		t.Errorf("err = %v, want runner error", err)
	}
	if err := p.Play(context.Background(), "Missing", 1); !errors.Is(err, ErrSoundNotFound) {
		t.Errorf("err = %v, want ErrSoundNotFound", err)
	}
}

func TestAvailable(t *testing.T) {
	fs := newFs(t, "/a/Purr.aiff", "/b/Purr.aiff", "/b/bell.oga", "/b/readme.txt")
	p := NewCommandPlayer(fs, []string{"/a", "/b", "/missing"})
	want := []string{"Purr", "bell"}
	if got := p.Available(); !reflect.DeepEqual(got, want) {
		t.Errorf("Available() = %v, want %v", got, want)
	}
}

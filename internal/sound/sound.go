// Package sound plays named system sounds through the platform's command
// line player.
package sound

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path"
	"path/filepath"
	"runtime"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/afero"
)

// DefaultSound is played when no sound is selected.
const DefaultSound = "Default"

// ErrSoundNotFound is returned when no file matches a sound name.
var ErrSoundNotFound = errors.New("sound not found")

var aliases = map[string]string{
	"Default": "Purr",
	"Chime":   "Submarine",
	"Bell":    "Ping",
}

var extensions = []string{"", ".aiff", ".oga", ".ogg", ".wav"}

// Runner starts an external command and waits for it.
type Runner func(ctx context.Context, name string, args ...string) error

func execRunner(ctx context.Context, name string, args ...string) error {
	return exec.CommandContext(ctx, name, args...).Run()
}

// CommandPlayer resolves sound names to files and plays them.
type CommandPlayer struct {
	fs   afero.Fs
	dirs []string
	goos string
	run  Runner
}

// Option configures a CommandPlayer.
type Option func(*CommandPlayer)

// WithRunner replaces the command runner.
func WithRunner(r Runner) Option {
	return func(p *CommandPlayer) { p.run = r }
}

// WithGOOS selects the player command for another platform.
func WithGOOS(goos string) Option {
	return func(p *CommandPlayer) { p.goos = goos }
}

// NewCommandPlayer searches dirs, in order, on fs.
func NewCommandPlayer(fs afero.Fs, dirs []string, opts ...Option) *CommandPlayer {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	p := &CommandPlayer{fs: fs, dirs: dirs, goos: runtime.GOOS, run: execRunner}
	for _, o := range opts {
		o(p)
	}
	return p
}

// DefaultDirs returns the system sound directories for the current
// platform, followed by extra.
func DefaultDirs(extra ...string) []string {
	home, _ := os.UserHomeDir()
	var dirs []string
	if runtime.GOOS == "darwin" {
		dirs = []string{filepath.Join(home, "Library", "Sounds"), "/System/Library/Sounds"}
	} else {
		dirs = []string{
			filepath.Join(home, ".local", "share", "sounds"),
			"/usr/share/sounds/freedesktop/stereo",
			"/usr/share/sounds",
		}
	}
	return append(extra, dirs...)
}

// Resolve returns the file for name.
func (p *CommandPlayer) Resolve(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = DefaultSound
	}
	candidates := []string{name}
	if a, ok := aliases[name]; ok {
		candidates = append(candidates, a)
	}
	for _, c := range slices.Clone(candidates) {
		if l := strings.ToLower(c); l != c {
			candidates = append(candidates, l)
		}
	}
	for _, dir := range p.dirs {
		for _, c := range candidates {
			for _, ext := range extensions {
				f := filepath.Join(dir, c+ext)
				if fi, err := p.fs.Stat(f); err == nil && !fi.IsDir() {
					return f, nil
				}
			}
		}
	}
	return "", fmt.Errorf("%w: %q", ErrSoundNotFound, name)
}

// Available lists the sound names found in the search directories.
func (p *CommandPlayer) Available() []string {
	seen := map[string]bool{}
	var out []string
	for _, dir := range p.dirs {
		entries, err := afero.ReadDir(p.fs, dir)
		if err != nil {
			continue
		}
		for _, e := range entries {
			ext := path.Ext(e.Name())
			if e.IsDir() || !slices.Contains(extensions[1:], ext) {
				continue
			}
			n := strings.TrimSuffix(e.Name(), ext)
			if !seen[n] {
				seen[n] = true
				out = append(out, n)
			}
		}
	}
	slices.Sort(out)
	return out
}

// Play resolves name and plays it at volume (0..1), waiting for the player
// to exit.
func (p *CommandPlayer) Play(ctx context.Context, name string, volume float64) error {
	file, err := p.Resolve(name)
	if err != nil {
		return err
	}
	cmd, args := command(p.goos, file, volume)
	if err := p.run(ctx, cmd, args...); err != nil {
		return fmt.Errorf("play %s: %w", file, err)
	}
	return nil
}

func command(goos, file string, volume float64) (string, []string) {
	volume = min(max(volume, 0), 1)
	if goos == "darwin" {
		return "afplay", []string{"-v", strconv.FormatFloat(volume, 'f', 2, 64), file}
	}
	// paplay volume is linear, 65536 = 100%.
	return "paplay", []string{"--volume=" + strconv.Itoa(int(volume*65536)), file}
}

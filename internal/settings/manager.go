package settings

import (
	"fmt"
	"sync"

	"github.com/habitflash/habitflash/pkg/logger"
)

// Persister loads and saves the settings document.
type Persister interface {
	// Load returns the saved settings laid over Defaults.
	Load() (Settings, error)
	Save(Settings) error
}

// Manager owns the current settings.
type Manager struct {
	mu        sync.RWMutex
	cur       Settings
	db        Persister
	log       logger.Logger
	observers []func(Settings)
	announce  func(string)
}

// NewManager loads saved settings. Missing or unreadable settings fall back
// to Defaults.
func NewManager(db Persister, l logger.Logger) *Manager {
	if l == nil {
		l = logger.NewNopLogger()
	}
	m := &Manager{cur: Defaults(), db: db, log: l}
	if db == nil {
		return m
	}
	s, err := db.Load()
	if err != nil {
		l.Warning("settings: load failed, using defaults: %v", err)
		return m
	}
	s.clamp()
	m.cur = s
	return m
}

// OnChange registers fn for every change. fn runs after the change is
// saved.
func (m *Manager) OnChange(fn func(Settings)) {
	m.mu.Lock()
	m.observers = append(m.observers, fn)
	m.mu.Unlock()
}

// OnAnnounce sets the sink for confirmation messages such as
// "Fade enabled".
func (m *Manager) OnAnnounce(fn func(string)) {
	m.mu.Lock()
	m.announce = fn
	m.mu.Unlock()
}

// Get returns the current settings.
func (m *Manager) Get() Settings {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.cur
}

// Names lists every setting name in display order.
func (m *Manager) Names() []string {
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.name
	}
	return names
}

// Value returns one setting formatted as a string.
func (m *Manager) Value(name string) (string, error) {
	f, ok := lookup(name)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownSetting, name)
	}
	s := m.Get()
	return f.get(&s), nil
}

// Set parses value into the named setting. Out-of-range numbers are
// clamped. The change is kept in memory even if saving fails.
func (m *Manager) Set(name, value string) (Settings, error) {
	f, ok := lookup(name)
	if !ok {
		return m.Get(), fmt.Errorf("%w: %q", ErrUnknownSetting, name)
	}
	m.mu.Lock()
	next := m.cur
	if err := f.set(&next, value); err != nil {
		m.mu.Unlock()
		return m.Get(), err
	}
	if next == m.cur {
		m.mu.Unlock()
		return next, nil
	}
	m.cur = next
	m.mu.Unlock()

	err := m.save(next)
	m.changed(next)
	if f.announce != nil {
		m.say(f.announce(next))
	}
	return next, err
}

// Reset restores Defaults.
func (m *Manager) Reset() (Settings, error) {
	d := Defaults()
	m.mu.Lock()
	m.cur = d
	m.mu.Unlock()
	err := m.save(d)
	m.changed(d)
	return d, err
}

func (m *Manager) save(s Settings) error {
	if m.db == nil {
		return nil
	}
	if err := m.db.Save(s); err != nil {
		m.log.Error("settings: save failed: %v", err)
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}

func (m *Manager) changed(s Settings) {
	m.mu.RLock()
	obs := append([]func(Settings){}, m.observers...)
	m.mu.RUnlock()
	for _, fn := range obs {
		fn(s)
	}
}

func (m *Manager) say(msg string) {
	m.mu.RLock()
	fn := m.announce
	m.mu.RUnlock()
	if msg != "" && fn != nil {
		fn(msg)
	}
}

package logger

import "errors"

// MultiLogger fans every entry out to several backends. The daemon pairs
// the JSON log file with stderr through it when debugging.
type MultiLogger struct {
	backends []Logger
}

// NewMultiLogger skips nil backends. With none left it behaves like
// NopLogger.
func NewMultiLogger(backends ...Logger) *MultiLogger {
	m := &MultiLogger{}
	for _, l := range backends {
		if l != nil {
			m.backends = append(m.backends, l)
		}
	}
	return m
}

func (m *MultiLogger) each(fn func(Logger)) {
	for _, l := range m.backends {
		fn(l)
	}
}

func (m *MultiLogger) Info(format string, args ...interface{}) {
	m.each(func(l Logger) { l.Info(format, args...) })
}

func (m *MultiLogger) Warning(format string, args ...interface{}) {
	m.each(func(l Logger) { l.Warning(format, args...) })
}

func (m *MultiLogger) Error(format string, args ...interface{}) {
	m.each(func(l Logger) { l.Error(format, args...) })
}

// Close closes every backend and joins their errors.
func (m *MultiLogger) Close() error {
	var errs []error
	m.each(func(l Logger) {
		if err := l.Close(); err != nil {
			errs = append(errs, err)
		}
	})
	return errors.Join(errs...)
}

var _ Logger = (*MultiLogger)(nil)

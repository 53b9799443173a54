package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// ZerologLogger writes JSON log lines through zerolog. The daemon uses it
// for the persistent log file next to its database.
type ZerologLogger struct {
	zl     zerolog.Logger
	closer io.Closer
	once   sync.Once
}

// NewZerologLogger logs to w. If w is also an io.Closer it is closed by
// Close.
func NewZerologLogger(w io.Writer, component string) *ZerologLogger {
	zl := zerolog.New(w).With().
		Timestamp().
		Str("component", component).
		Logger()
	z := &ZerologLogger{zl: zl}
	if c, ok := w.(io.Closer); ok {
		z.closer = c
	}
	return z
}

// NewFileLogger opens (or creates) path in append mode and returns a
// ZerologLogger writing to it.
func NewFileLogger(path, component string) (*ZerologLogger, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	return NewZerologLogger(f, component), nil
}

func init() {
	zerolog.TimeFieldFormat = time.RFC3339Nano
}

func (z *ZerologLogger) Info(format string, args ...interface{}) {
	z.zl.Info().Msgf(format, args...)
}

func (z *ZerologLogger) Warning(format string, args ...interface{}) {
	z.zl.Warn().Msgf(format, args...)
}

func (z *ZerologLogger) Error(format string, args ...interface{}) {
	z.zl.Error().Msgf(format, args...)
}

// Close closes the underlying writer once.
func (z *ZerologLogger) Close() error {
	var err error
	z.once.Do(func() {
		if z.closer != nil {
			err = z.closer.Close()
		}
	})
	return err
}

var _ Logger = (*ZerologLogger)(nil)

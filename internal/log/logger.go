package log

import (
	"io"

	"github.com/sirupsen/logrus"
)

// Logger writes progress and verbose diagnostic messages through logrus.
// Debug output (Printf) is only emitted when Enabled is true. Output goes
// to the configured writer (typically stderr). A nil *Logger discards
// everything.
type Logger struct {
	Enabled bool
	L       *logrus.Logger
}

// New returns a Logger writing to w. Color forces ANSI level colors on or
// off regardless of whether w is a terminal.
func New(w io.Writer, verbose, color bool) *Logger {
	l := logrus.New()
	l.SetOutput(w)
	l.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp: true,
		ForceColors:      color,
		DisableColors:    !color,
	})
	l.SetLevel(logrus.InfoLevel)
	if verbose {
		l.SetLevel(logrus.DebugLevel)
	}
	return &Logger{Enabled: verbose, L: l}
}

// Printf writes a formatted debug message when Enabled is true.
// It is a no-op when Enabled is false.
func (l *Logger) Printf(format string, args ...any) {
	if l == nil || !l.Enabled || l.L == nil {
		return
	}
	l.L.Debugf(format, args...)
}

// Infof writes an informational message.
func (l *Logger) Infof(format string, args ...any) {
	if l == nil || l.L == nil {
		return
	}
	l.L.Infof(format, args...)
}

// Warnf writes a warning.
func (l *Logger) Warnf(format string, args ...any) {
	if l == nil || l.L == nil {
		return
	}
	l.L.Warnf(format, args...)
}

// Errorf writes an error message. It does not exit.
func (l *Logger) Errorf(format string, args ...any) {
	if l == nil || l.L == nil {
		return
	}
	l.L.Errorf(format, args...)
}

// WithField returns a logrus entry carrying key=value, for callers that
// attach per-file context.
func (l *Logger) WithField(key string, value any) *logrus.Entry {
	if l == nil || l.L == nil {
		discard := logrus.New()
		discard.SetOutput(io.Discard)
		return logrus.NewEntry(discard)
	}
	return l.L.WithField(key, value)
}

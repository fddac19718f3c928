// logging.go - lifecycle logging collaborator (§1 Non-goals: logging is an
// external collaborator behind a minimal interface, not a subsystem this
// package owns)

package alengine

import "github.com/charmbracelet/log"

// Logger is the minimal surface this package calls into for lifecycle
// events (device open, close and disconnection). Callers
// supply their own implementation; NopLogger is used when none is given.
type Logger interface {
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

// NopLogger discards every call, the default when OpenDevice is given a
// nil Logger.
type NopLogger struct{}

func (NopLogger) Infof(string, ...any)  {}
func (NopLogger) Warnf(string, ...any)  {}
func (NopLogger) Errorf(string, ...any) {}

// CharmLogger adapts charmbracelet/log to the Logger interface, the
// logging library this module's ambient stack standardizes on.
type CharmLogger struct {
	l *log.Logger
}

// NewCharmLogger wraps the given charmbracelet/log logger, or the
// package-level default logger if l is nil.
func NewCharmLogger(l *log.Logger) *CharmLogger {
	if l == nil {
		l = log.Default()
	}
	return &CharmLogger{l: l}
}

func (c *CharmLogger) Infof(format string, args ...any)  { c.l.Infof(format, args...) }
func (c *CharmLogger) Warnf(format string, args ...any)  { c.l.Warnf(format, args...) }
func (c *CharmLogger) Errorf(format string, args ...any) { c.l.Errorf(format, args...) }

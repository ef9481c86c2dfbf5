package app

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"
)

// Logger interface and implementations
type Logger interface {
	Debugf(component string, format string, args ...interface{})
	Infof(component string, format string, args ...interface{})
	Errorf(component string, format string, args ...interface{})
}

type NoopLogger struct{}

func (NoopLogger) Debugf(component, format string, args ...interface{}) {}
func (NoopLogger) Infof(component, format string, args ...interface{})  {}
func (NoopLogger) Errorf(component, format string, args ...interface{}) {}

// CharmLogger writes levelled, timestamped lines tagged with a component.
type CharmLogger struct{ l *log.Logger }

// NewLogger logs to w at info level, or debug level when verbose.
func NewLogger(w io.Writer, verbose bool) CharmLogger {
	level := log.InfoLevel
	if verbose {
		level = log.DebugLevel
	}
	return CharmLogger{l: log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})}
}

func (c CharmLogger) Debugf(component string, format string, args ...interface{}) {
	c.l.Debug(fmt.Sprintf(format, args...), "component", component)
}

func (c CharmLogger) Infof(component string, format string, args ...interface{}) {
	c.l.Info(fmt.Sprintf(format, args...), "component", component)
}

func (c CharmLogger) Errorf(component string, format string, args ...interface{}) {
	c.l.Error(fmt.Sprintf(format, args...), "component", component)
}

// Charm exposes the underlying logger.
func (c CharmLogger) Charm() *log.Logger { return c.l }

package web

import "context"

type Server interface {
	Start(ctx context.Context) error
	Stop() error
}

// Logger is the component-tagged logger the server reports through.
type Logger interface {
	Infof(component string, format string, args ...interface{})
	Errorf(component string, format string, args ...interface{})
}

type nopLogger struct{}

func (nopLogger) Infof(string, string, ...interface{})  {}
func (nopLogger) Errorf(string, string, ...interface{}) {}

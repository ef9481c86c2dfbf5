//go:build !linux

package preview

import (
	"context"
	"errors"
)

var errNoFramebuffer = errors.New("framebuffer preview requires linux")

func Open(string) (Device, error) { return nil, errNoFramebuffer }

func setGraphicsMode() error { return errNoFramebuffer }

func restoreTextMode() error { return errNoFramebuffer }

func watchDismiss(context.Context, Logger, func()) {}

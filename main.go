package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/rook-computer/hubcrest/internal/cli"
	hcerrors "github.com/rook-computer/hubcrest/internal/errors"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	c := cli.New(os.Stdout, os.Stderr)
	c.RedirectStdIO = redirectStdIO
	if err := c.RootCommand().ExecuteContext(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			os.Exit(130)
		}
		cli.PrintError(os.Stderr, "%v", err)
		if hcerrors.GetCode(err) == hcerrors.ErrCodeInvalidConfig {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

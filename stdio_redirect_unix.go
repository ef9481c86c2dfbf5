//go:build unix

package main

import (
	"fmt"
	"os"
)

// redirectStdIO points the process stdout and stderr at the log file at path,
// so runtime panics from any goroutine land there too.
func redirectStdIO(path string) error {
	if path == "" {
		return nil
	}
	return dupInto(path, int(os.Stdout.Fd()), int(os.Stderr.Fd()))
}

func dupInto(path string, fds ...int) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open stdio log: %w", err)
	}
	defer f.Close()

	for _, fd := range fds {
		if err := dupFD(int(f.Fd()), fd); err != nil {
			return fmt.Errorf("redirect fd %d to %s: %w", fd, path, err)
		}
	}
	return nil
}

//go:build linux

package preview

import (
	"context"
	"encoding/binary"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/sys/unix"
)

const evKey = 0x01

// Linux input-event-codes.h
const (
	keyEsc = 1
	keyQ   = 16
	keyF4  = 62
)

func isDismissKey(code uint16) bool {
	return code == keyEsc || code == keyQ || code == keyF4
}

// watchDismiss reads evdev devices under /dev/input/event* and calls
// onDismiss once when Esc, Q or F4 is pressed. It returns immediately;
// readers stop when ctx is done.
func watchDismiss(ctx context.Context, logger Logger, onDismiss func()) {
	paths, err := filepath.Glob("/dev/input/event*")
	if err != nil || len(paths) == 0 {
		if logger != nil {
			logger.Infof("input", "no evdev devices found, use Ctrl-C to close the preview")
		}
		return
	}

	// input_event = timeval + u16 type + u16 code + s32 value.
	tvSize := binary.Size(unix.Timeval{})
	eventSize := tvSize + 2 + 2 + 4

	var once sync.Once
	dismiss := func() {
		once.Do(func() {
			if logger != nil {
				logger.Infof("input", "key pressed: closing preview")
			}
			onDismiss()
		})
	}

	for _, path := range paths {
		go readKeys(ctx, path, tvSize, eventSize, dismiss)
	}
}

func readKeys(ctx context.Context, path string, tvSize, eventSize int, dismiss func()) {
	fd, err := unix.Open(path, unix.O_RDONLY|unix.O_NONBLOCK, 0)
	if err != nil {
		return
	}
	f := os.NewFile(uintptr(fd), path)
	defer f.Close()

	buf := make([]byte, 4096)
	for ctx.Err() == nil {
		pollFds := []unix.PollFd{{Fd: int32(fd), Events: unix.POLLIN}}
		if _, err := unix.Poll(pollFds, 250); err != nil {
			if err == unix.EINTR {
				continue
			}
			return
		}
		if pollFds[0].Revents&unix.POLLIN == 0 {
			continue
		}
		n, err := unix.Read(fd, buf)
		if err != nil {
			if err == unix.EAGAIN || err == unix.EINTR {
				continue
			}
			return
		}
		for off := 0; off+eventSize <= n; off += eventSize {
			rec := buf[off : off+eventSize]
			typ := binary.LittleEndian.Uint16(rec[tvSize : tvSize+2])
			code := binary.LittleEndian.Uint16(rec[tvSize+2 : tvSize+4])
			value := int32(binary.LittleEndian.Uint32(rec[tvSize+4 : tvSize+8]))
			if typ == evKey && value == 1 && isDismissKey(code) {
				dismiss()
				return
			}
		}
	}
}

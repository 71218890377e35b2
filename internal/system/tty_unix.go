//go:build unix

package system

import (
	"errors"
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// KD console modes from linux/kd.h
const (
	kdText     = 0x00
	kdGraphics = 0x01
	kdSetMode  = 0x4B3A // KDSETMODE ioctl
)

// Active VT first, then the console device.
var vtPaths = []string{"/dev/tty", "/dev/tty0"}

// SetGraphicsMode switches the active console to graphics mode so the
// hardware cursor and kernel messages stay off the framebuffer.
func SetGraphicsMode() error { return setKDMode(kdGraphics) }

// RestoreTextMode puts the console back in text mode.
func RestoreTextMode() error { return setKDMode(kdText) }

func setKDMode(mode int) error {
	var errs []error
	for _, p := range vtPaths {
		fd, err := unix.Open(p, unix.O_RDONLY, 0)
		if err != nil {
			errs = append(errs, fmt.Errorf("open %s: %w", p, err))
			continue
		}
		err = unix.IoctlSetInt(fd, kdSetMode, mode)
		unix.Close(fd)
		if err != nil {
			errs = append(errs, fmt.Errorf("KDSETMODE %d on %s: %w", mode, p, err))
			continue
		}
		return nil
	}
	return errors.Join(errs...)
}

func HideCursor() error { return writeVT("\x1b[?25l") }
func ShowCursor() error { return writeVT("\x1b[?25h") }

func writeVT(s string) error {
	var errs []error
	for _, p := range vtPaths {
		f, err := os.OpenFile(p, os.O_WRONLY, 0)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		_, err = f.WriteString(s)
		f.Close()
		if err == nil {
			return nil
		}
		errs = append(errs, err)
	}
	return fmt.Errorf("write VT: %w", errors.Join(errs...))
}

// RedirectStdIO points stdout and stderr (panics included) at path so crashes
// are diagnosable while the console is in graphics mode.
func RedirectStdIO(path string) error {
	if path == "" {
		return nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := unix.Dup2(int(f.Fd()), int(os.Stdout.Fd())); err != nil {
		return err
	}
	return unix.Dup2(int(f.Fd()), int(os.Stderr.Fd()))
}

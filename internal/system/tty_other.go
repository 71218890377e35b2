//go:build !unix

package system

import (
	"errors"
	"os"
)

var errNoConsole = errors.New("console control is not supported on this platform")

func SetGraphicsMode() error { return errNoConsole }
func RestoreTextMode() error { return errNoConsole }
func HideCursor() error      { return errNoConsole }
func ShowCursor() error      { return errNoConsole }

// RedirectStdIO swaps the os handles; runtime panics still go to the original stderr.
func RedirectStdIO(path string) error {
	if path == "" {
		return nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	os.Stdout = f
	os.Stderr = f
	return nil
}

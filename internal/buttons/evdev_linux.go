//go:build linux

package buttons

import (
	"context"
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/sys/unix"
)

const (
	evKey = 0x01

	// Linux input-event-codes.h
	keyEsc = 1
)

// fKeys maps KEY_F1..KEY_F12 to tile indexes.
var fKeys = map[uint16]int{
	59: 0, 60: 1, 61: 2, 62: 3, 63: 4, 64: 5,
	65: 6, 66: 7, 67: 8, 68: 9, 87: 10, 88: 11,
}

type logger interface {
	Infof(string, string, ...interface{})
	Errorf(string, string, ...interface{})
}

// Evdev reads key presses from every /dev/input/event* device: F1..F12 press
// the matching tile and Esc asks the app to exit.
type Evdev struct {
	Glob   string
	Logger logger

	*ChanButtons
	wg     sync.WaitGroup
	cancel context.CancelFunc
}

func NewEvdev(l logger) *Evdev {
	return &Evdev{Glob: "/dev/input/event*", Logger: l, ChanButtons: NewChanButtons()}
}

func (e *Evdev) Start(ctx context.Context) error {
	paths, err := filepath.Glob(e.Glob)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		e.infof("no evdev devices found, keyboard input disabled")
		return nil
	}
	ctx, e.cancel = context.WithCancel(ctx)
	for _, p := range paths {
		e.wg.Add(1)
		go func() {
			defer e.wg.Done()
			if err := e.read(ctx, p); err != nil {
				e.infof("stop reading %s: %v", p, err)
			}
		}()
	}
	e.infof("watching %d input devices", len(paths))
	return nil
}

func (e *Evdev) Stop() error {
	if e.cancel != nil {
		e.cancel()
	}
	e.wg.Wait()
	return e.ChanButtons.Stop()
}

func (e *Evdev) read(ctx context.Context, path string) error {
	// input_event = timeval + u16 type + u16 code + s32 value.
	tvSize := binary.Size(unix.Timeval{})
	eventSize := tvSize + 2 + 2 + 4

	fd, err := unix.Open(path, unix.O_RDONLY|unix.O_NONBLOCK, 0)
	if err != nil {
		return err
	}
	f := os.NewFile(uintptr(fd), path)
	defer f.Close()

	buf := make([]byte, 64*eventSize)
	for {
		if err := ctx.Err(); err != nil {
			return nil
		}
		pollFds := []unix.PollFd{{Fd: int32(fd), Events: unix.POLLIN}}
		if _, err := unix.Poll(pollFds, 250); err != nil {
			if errors.Is(err, unix.EINTR) {
				continue
			}
			return err
		}
		if pollFds[0].Revents&unix.POLLIN == 0 {
			continue
		}
		n, err := unix.Read(fd, buf)
		if err != nil {
			if errors.Is(err, unix.EAGAIN) || errors.Is(err, unix.EINTR) {
				continue
			}
			return err
		}
		for off := 0; off+eventSize <= n; off += eventSize {
			rec := buf[off : off+eventSize]
			typ := binary.LittleEndian.Uint16(rec[tvSize : tvSize+2])
			code := binary.LittleEndian.Uint16(rec[tvSize+2 : tvSize+4])
			value := int32(binary.LittleEndian.Uint32(rec[tvSize+4 : tvSize+8]))
			if ev, ok := decode(typ, code, value); ok {
				e.Send(ev)
			}
		}
	}
}

// decode maps a raw key-down to an Event. Repeats (value 2) are ignored.
func decode(typ, code uint16, value int32) (Event, bool) {
	if typ != evKey || value != 1 {
		return Event{}, false
	}
	if code == keyEsc {
		return Event{Kind: Exit}, true
	}
	if k, ok := fKeys[code]; ok {
		return Event{Kind: Press, Key: k}, true
	}
	return Event{}, false
}

func (e *Evdev) infof(format string, args ...interface{}) {
	if e.Logger != nil {
		e.Logger.Infof("input", format, args...)
	}
}

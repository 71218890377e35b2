//go:build !linux

package buttons

type logger interface {
	Infof(string, string, ...interface{})
	Errorf(string, string, ...interface{})
}

// Evdev has no input source outside Linux; it never emits events.
type Evdev struct {
	*ChanButtons
}

func NewEvdev(l logger) *Evdev {
	if l != nil {
		l.Infof("input", "keyboard input is only supported on linux")
	}
	return &Evdev{ChanButtons: NewChanButtons()}
}

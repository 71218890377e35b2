package system

type logger interface {
	Infof(string, string, ...interface{})
	Errorf(string, string, ...interface{})
}

// EnterGraphics switches the console to graphics mode and hides the cursor,
// logging failures. The returned func undoes both.
func EnterGraphics(l logger) (restore func()) {
	logResult(l, "KD_GRAPHICS set", SetGraphicsMode())
	logResult(l, "cursor hidden", HideCursor())
	return func() {
		logResult(l, "cursor shown", ShowCursor())
		logResult(l, "KD_TEXT set", RestoreTextMode())
	}
}

func logResult(l logger, ok string, err error) {
	if l == nil {
		return
	}
	if err != nil {
		l.Errorf("tty", "%s failed: %v", ok, err)
		return
	}
	l.Infof("tty", "%s", ok)
}

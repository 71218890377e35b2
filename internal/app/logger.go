package app

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	rotatelogs "github.com/lestrrat-go/file-rotatelogs"
)

// Logger is the component-tagged logger every subsystem receives.
type Logger interface {
	Infof(component string, format string, args ...interface{})
	Errorf(component string, format string, args ...interface{})
	Debugf(component string, format string, args ...interface{})
}

type NoopLogger struct{}

func (NoopLogger) Infof(component, format string, args ...interface{})  {}
func (NoopLogger) Errorf(component, format string, args ...interface{}) {}
func (NoopLogger) Debugf(component, format string, args ...interface{}) {}

// CharmLogger adapts a charmbracelet logger, tagging each line with its component.
type CharmLogger struct{ l *log.Logger }

func NewCharmLogger(w io.Writer, debug bool) CharmLogger {
	l := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
		Prefix:          "weatherdeck",
	})
	if debug {
		l.SetLevel(log.DebugLevel)
	}
	return CharmLogger{l: l}
}

func (c CharmLogger) Infof(component string, format string, args ...interface{}) {
	c.l.With("component", component).Infof(format, args...)
}

func (c CharmLogger) Errorf(component string, format string, args ...interface{}) {
	c.l.With("component", component).Errorf(format, args...)
}

func (c CharmLogger) Debugf(component string, format string, args ...interface{}) {
	c.l.With("component", component).Debugf(format, args...)
}

// NewRotatingWriter returns a daily-rotated log file at path with a stable
// symlink, keeping a week of history.
func NewRotatingWriter(path string) (io.Writer, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	return rotatelogs.New(
		path+".%Y%m%d%H%M",
		rotatelogs.WithLinkName(path),
		rotatelogs.WithMaxAge(7*24*time.Hour),
		rotatelogs.WithRotationSize(10*1024*1024),
		rotatelogs.WithRotationTime(24*time.Hour),
	)
}

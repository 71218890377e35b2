package web

import (
	"context"

	"github.com/rook-computer/weatherdeck/internal/state"
	"github.com/rook-computer/weatherdeck/internal/widget"
)

// Widget is the slice of widget.Controller the API drives.
type Widget interface {
	ID() string
	Status() widget.Status
	OnPress(ctx context.Context)
	OnPressBack(ctx context.Context)
	OnSettingsChanged(ctx context.Context, s state.Settings)
}

// Registry resolves widgets by id, in deck order.
type Registry interface {
	Widgets() []Widget
	Widget(id string) (Widget, bool)
}

// logger matches the component-tagged logging shape used across the app.
type logger interface {
	Infof(component string, format string, args ...interface{})
	Errorf(component string, format string, args ...interface{})
}

type noopLogger struct{}

func (noopLogger) Infof(string, string, ...interface{})  {}
func (noopLogger) Errorf(string, string, ...interface{}) {}

// StaticRegistry is a Registry over a fixed list.
type StaticRegistry struct {
	list []Widget
	byID map[string]Widget
}

func NewStaticRegistry(ws ...Widget) *StaticRegistry {
	r := &StaticRegistry{byID: map[string]Widget{}}
	for _, w := range ws {
		r.list = append(r.list, w)
		r.byID[w.ID()] = w
	}
	return r
}

func (r *StaticRegistry) Widgets() []Widget { return r.list }

func (r *StaticRegistry) Widget(id string) (Widget, bool) {
	w, ok := r.byID[id]
	return w, ok
}

// Deps are the collaborators of the API handlers.
type Deps struct {
	Widgets   Registry
	Global    *state.GlobalConfig
	Persister state.Persister
	Logger    logger
}

func (d Deps) withDefaults() Deps {
	if d.Widgets == nil {
		d.Widgets = NewStaticRegistry()
	}
	if d.Global == nil {
		d.Global = state.NewGlobalConfig(state.Global{})
	}
	if d.Logger == nil {
		d.Logger = noopLogger{}
	}
	return d
}

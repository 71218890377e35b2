package widget

import (
	"time"

	"github.com/rook-computer/weatherdeck/internal/state"
)

// Status is a read-only view of a widget, published at the end of every cycle.
type Status struct {
	ID          string               `json:"id"`
	Kind        string               `json:"kind"`
	Subjects    []string             `json:"subjects"`
	Options     state.DisplayOptions `json:"options,omitempty"`
	Cursor      int                  `json:"cursor"`
	Slides      int                  `json:"slides"`
	LastRefresh *time.Time           `json:"lastRefresh,omitempty"`
	LastAdvance time.Time            `json:"lastAdvance"`
	Initialized bool                 `json:"initialized"`
	Running     bool                 `json:"running"`
	LastOutcome string               `json:"lastOutcome"`

	state state.WidgetState
}

// State returns a copy of the widget state as of the last finished cycle.
func (s Status) State() state.WidgetState { return s.state.Clone() }

func (c *Controller) publish(outcome RefreshOutcome) {
	st := c.st.Clone()
	s := &Status{
		ID:          c.cfg.ID,
		Kind:        c.cfg.Kind.Name(),
		Subjects:    st.Subjects,
		Options:     st.Options,
		Cursor:      st.Cursor,
		Slides:      c.cfg.Kind.SlideCount(st.Data),
		LastAdvance: st.LastAdvance,
		Initialized: st.Initialized,
		LastOutcome: outcome.String(),
		state:       st,
	}
	if !st.LastRefresh.Equal(state.Never) {
		t := st.LastRefresh
		s.LastRefresh = &t
	}
	if prev := c.published.Load(); prev != nil && outcome == RefreshSkipped {
		s.LastOutcome = prev.LastOutcome
	}
	c.published.Store(s)
}

// Status returns the last published view. It never blocks on a running cycle.
func (c *Controller) Status() Status {
	s := *c.published.Load()
	s.Running = c.guard.Running()
	s.Subjects = append([]string(nil), s.Subjects...)
	s.Options = s.Options.Clone()
	return s
}

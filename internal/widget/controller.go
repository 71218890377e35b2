package widget

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/rook-computer/weatherdeck/internal/carousel"
	"github.com/rook-computer/weatherdeck/internal/render"
	"github.com/rook-computer/weatherdeck/internal/state"
	"github.com/rook-computer/weatherdeck/internal/weather"
)

// Config wires a Controller to its collaborators. Zero cooldowns fall back to
// the kind's defaults.
type Config struct {
	ID            string
	Kind          Kind
	Fetcher       weather.Fetcher
	Global        *state.GlobalConfig
	Surface       render.Surface
	Icons         render.IconSource
	Fitter        render.TextFitter
	Persister     state.Persister
	FetchCooldown time.Duration
	SwipeCooldown time.Duration
	Clock         func() time.Time
	Logger        Logger
}

// Controller drives one widget. OnTick, OnPress and OnSettingsChanged may be
// called from any goroutine; at most one of them works at a time and the
// others return immediately.
type Controller struct {
	cfg       Config
	guard     carousel.Guard
	refresher *Refresher
	renderer  *SlideRenderer
	logger    Logger

	// st is only touched while holding guard.
	st      state.WidgetState
	repaint bool

	pending   atomic.Pointer[state.Settings]
	published atomic.Pointer[Status]
}

func NewController(cfg Config, initial state.WidgetState) (*Controller, error) {
	switch {
	case cfg.ID == "":
		return nil, errors.New("widget: empty id")
	case cfg.Kind == nil:
		return nil, errors.New("widget: no kind")
	case cfg.Fetcher == nil:
		return nil, errors.New("widget: no fetcher")
	case cfg.Surface == nil:
		return nil, errors.New("widget: no surface")
	case cfg.Fitter == nil:
		return nil, errors.New("widget: no text fitter")
	}
	if cfg.Global == nil {
		cfg.Global = state.NewGlobalConfig(state.Global{})
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	if cfg.Logger == nil {
		cfg.Logger = noopLogger{}
	}
	def := cfg.Kind.Defaults()
	if cfg.FetchCooldown <= 0 {
		cfg.FetchCooldown = def.Fetch
	}
	if cfg.SwipeCooldown <= 0 {
		cfg.SwipeCooldown = def.Swipe
	}

	c := &Controller{
		cfg:    cfg,
		logger: cfg.Logger,
		st:     initial.Clone(),
		refresher: &Refresher{
			WidgetID: cfg.ID,
			Kind:     cfg.Kind,
			Fetcher:  cfg.Fetcher,
			Cooldown: cfg.FetchCooldown,
			Logger:   cfg.Logger,
		},
		renderer: &SlideRenderer{
			WidgetID: cfg.ID,
			Kind:     cfg.Kind,
			Icons:    cfg.Icons,
			Composer: render.Composer{Fitter: cfg.Fitter},
			Surface:  cfg.Surface,
			Logger:   cfg.Logger,
		},
	}
	c.st.Initialized = false
	c.resume()
	c.publish(RefreshSkipped)
	return c, nil
}

// resume drops saved data this kind cannot show, so the first tick refetches
// instead of waiting out the fetch cooldown, and pulls the cursor back in range.
func (c *Controller) resume() {
	n := c.cfg.Kind.SlideCount(c.st.Data)
	if c.st.HasData() && n == 0 {
		c.logger.Infof("widget", "%s: saved data does not fit kind %s, refetching", c.cfg.ID, c.cfg.Kind.Name())
		c.st.Data = nil
		c.st.LastRefresh = state.Never
	}
	if c.st.Cursor < 0 || c.st.Cursor >= n {
		c.st.Cursor = 0
	}
}

func (c *Controller) ID() string { return c.cfg.ID }
func (c *Controller) Kind() Kind { return c.cfg.Kind }

// OnTick refreshes data when due and paints or advances the carousel.
func (c *Controller) OnTick(ctx context.Context) {
	c.cycle(ctx, c.tick)
}

// OnPress advances to the next slide immediately, ignoring the swipe cooldown.
func (c *Controller) OnPress(ctx context.Context) {
	c.cycle(ctx, c.press(carousel.Next))
}

// OnPressBack steps back to the previous slide, ignoring the swipe cooldown.
func (c *Controller) OnPressBack(ctx context.Context) {
	c.cycle(ctx, c.press(carousel.Previous))
}

func (c *Controller) press(move func(cursor, count int) (int, bool)) step {
	return func(ctx context.Context, now time.Time) (bool, RefreshOutcome) {
		if !c.cfg.Global.Load().HasAPIKey() || len(c.st.Subjects) == 0 || !c.st.HasData() {
			return false, RefreshSkipped
		}
		return c.moveTo(ctx, now, move), RefreshSkipped
	}
}

// OnSettingsChanged parks s and applies it in the current cycle if the widget
// is idle, otherwise at the start of the next one. A newer change replaces an
// unapplied older one.
func (c *Controller) OnSettingsChanged(ctx context.Context, s state.Settings) {
	c.pending.Store(&s)
	c.cycle(ctx, nil)
}

type step func(ctx context.Context, now time.Time) (dirty bool, outcome RefreshOutcome)

func (c *Controller) cycle(ctx context.Context, fn step) bool {
	if !c.guard.TryAcquire() {
		return false
	}
	defer c.guard.Release()

	now := c.cfg.Clock()
	dirty := c.applyPending(now)
	outcome := RefreshSkipped
	if fn != nil {
		var changed bool
		changed, outcome = fn(ctx, now)
		dirty = dirty || changed
	}
	if dirty {
		c.persist(ctx)
	}
	c.publish(outcome)
	return true
}

func (c *Controller) tick(ctx context.Context, now time.Time) (bool, RefreshOutcome) {
	res := c.refresher.Refresh(ctx, &c.st, c.cfg.Global.Load().APIKey, now)
	dirty := res.Outcome.Updated()
	switch {
	case res.Outcome == RefreshAllFailed:
		if err := c.cfg.Surface.ShowAlert(ctx); err != nil {
			c.logger.Errorf("widget", "%s: show alert: %v", c.cfg.ID, err)
		}
	case res.Outcome.Updated():
		c.repaint = true
	}

	if !c.st.Initialized {
		if c.renderer.Render(ctx, c.st) == Rendered {
			c.st.Initialized = true
			c.st.LastAdvance = now
			c.repaint = false
			dirty = true
		}
		return dirty, res.Outcome
	}

	if carousel.IsDue(now, c.st.LastAdvance, c.cfg.SwipeCooldown) {
		if c.moveTo(ctx, now, carousel.Next) {
			dirty = true
		}
		return dirty, res.Outcome
	}

	if c.repaint {
		c.renderer.Render(ctx, c.st)
		c.repaint = false
	}
	return dirty, res.Outcome
}

// moveTo moves the cursor with move and paints the new slide. With no slides
// it does nothing and reports false.
func (c *Controller) moveTo(ctx context.Context, now time.Time, move func(cursor, count int) (int, bool)) bool {
	next, ok := move(c.st.Cursor, c.cfg.Kind.SlideCount(c.st.Data))
	if !ok {
		return false
	}
	c.st.Cursor = next
	if c.renderer.Render(ctx, c.st) == Rendered {
		c.st.Initialized = true
	}
	c.st.LastAdvance = now
	c.repaint = false
	return true
}

func (c *Controller) applyPending(now time.Time) bool {
	s := c.pending.Swap(nil)
	if s == nil {
		return false
	}
	if !state.Reconcile(&c.st, *s, now) {
		return false
	}
	c.repaint = true
	c.logger.Infof("widget", "%s: settings changed, subjects=%v", c.cfg.ID, c.st.Subjects)
	return true
}

func (c *Controller) persist(ctx context.Context) {
	if c.cfg.Persister == nil {
		return
	}
	blob, err := c.st.Marshal()
	if err != nil {
		c.logger.Errorf("widget", "%s: encode state: %v", c.cfg.ID, err)
		return
	}
	if err := c.cfg.Persister.PersistState(ctx, c.cfg.ID, blob); err != nil {
		c.logger.Errorf("widget", "%s: persist state: %v", c.cfg.ID, err)
	}
}

package app

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rook-computer/weatherdeck/internal/buttons"
	"github.com/rook-computer/weatherdeck/internal/render"
	"github.com/rook-computer/weatherdeck/internal/state"
	"github.com/rook-computer/weatherdeck/internal/system"
	"github.com/rook-computer/weatherdeck/internal/web"
	"github.com/rook-computer/weatherdeck/internal/widget"
	"golang.org/x/sync/errgroup"
)

// DefaultTickInterval drives every widget's OnTick.
const DefaultTickInterval = time.Second

type App struct {
	Deck    render.Deck
	Web     web.Server
	Buttons buttons.Buttons
	Global  *state.GlobalConfig
	Logger  Logger

	// Build creates the widgets once the deck's tiles exist.
	Build func(ctx context.Context, deck render.Deck) ([]*widget.Controller, error)

	TickInterval time.Duration
	SetupURL     string
	// Console switches the VT to graphics mode while running.
	Console bool

	mu      sync.RWMutex
	widgets []*widget.Controller
	byID    map[string]*widget.Controller

	inflight   sync.WaitGroup
	setupShown atomic.Bool
	exitOnce   atomic.Bool
	exitCh     chan error
}

func New(deck render.Deck, webServer web.Server, btns buttons.Buttons, global *state.GlobalConfig) *App {
	return &App{
		Deck:         deck,
		Web:          webServer,
		Buttons:      btns,
		Global:       global,
		Logger:       NoopLogger{},
		TickInterval: DefaultTickInterval,
		exitCh:       make(chan error, 1),
	}
}

// Exit requests the app to stop running.
func (app *App) Exit(err error) {
	if app.exitCh == nil {
		return
	}
	if !app.exitOnce.CompareAndSwap(false, true) {
		return
	}
	select {
	case app.exitCh <- err:
	default:
	}
}

// Widgets and Widget let the control API address running widgets.
func (app *App) Widgets() []web.Widget {
	app.mu.RLock()
	defer app.mu.RUnlock()
	out := make([]web.Widget, 0, len(app.widgets))
	for _, w := range app.widgets {
		out = append(out, w)
	}
	return out
}

func (app *App) Widget(id string) (web.Widget, bool) {
	app.mu.RLock()
	defer app.mu.RUnlock()
	w, ok := app.byID[id]
	if !ok {
		return nil, false
	}
	return w, true
}

func (app *App) setWidgets(ws []*widget.Controller) {
	app.mu.Lock()
	defer app.mu.Unlock()
	app.widgets = ws
	app.byID = make(map[string]*widget.Controller, len(ws))
	for _, w := range ws {
		app.byID[w.ID()] = w
	}
}

func (app *App) defaults() {
	if app.exitCh == nil {
		app.exitCh = make(chan error, 1)
	}
	if app.Logger == nil {
		app.Logger = NoopLogger{}
	}
	if app.Global == nil {
		app.Global = state.NewGlobalConfig(state.Global{})
	}
	if app.Buttons == nil {
		app.Buttons = buttons.NewChanButtons()
	}
	if app.Web == nil {
		app.Web = &web.NoopServer{}
	}
	if app.TickInterval <= 0 {
		app.TickInterval = DefaultTickInterval
	}
}

// Start runs the deck until ctx ends or Exit is called.
func (app *App) Start(ctx context.Context) error {
	app.defaults()
	app.exitOnce.Store(false)
	if app.Deck == nil {
		return errors.New("app: no deck")
	}

	if err := app.Deck.Start(ctx); err != nil {
		app.Logger.Errorf("app", "deck start error: %v", err)
		return err
	}
	defer app.Deck.Stop()

	if app.Console {
		restore := system.EnterGraphics(app.Logger)
		defer restore()
	}

	if app.Build != nil {
		ws, err := app.Build(ctx, app.Deck)
		if err != nil {
			app.Logger.Errorf("app", "build widgets: %v", err)
			return err
		}
		app.setWidgets(ws)
	}
	app.Logger.Infof("app", "%d widgets on %d tiles", len(app.widgets), app.Deck.Tiles())

	app.checkSetup()

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	if err := app.Web.Start(runCtx); err != nil {
		app.Logger.Errorf("app", "web server start error: %v", err)
		return err
	}
	defer app.Web.Stop()

	if err := app.Buttons.Start(runCtx); err != nil {
		app.Logger.Errorf("app", "buttons start error: %v", err)
	}
	defer app.Buttons.Stop()

	g, gctx := errgroup.WithContext(runCtx)
	g.Go(func() error {
		app.Deck.RunLoop(gctx)
		return nil
	})
	g.Go(func() error { return app.tickLoop(gctx) })
	g.Go(func() error { return app.buttonLoop(gctx) })
	g.Go(func() error {
		select {
		case <-gctx.Done():
			return nil
		case err := <-app.exitCh:
			cancel()
			return err
		}
	})

	err := g.Wait()
	app.inflight.Wait()
	if err == nil && ctx.Err() != nil {
		err = ctx.Err()
	}
	return err
}

func (app *App) tickLoop(ctx context.Context) error {
	ticker := time.NewTicker(app.TickInterval)
	defer ticker.Stop()
	app.tickAll(ctx)
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			app.checkSetup()
			app.tickAll(ctx)
		}
	}
}

// tickAll fires every widget concurrently. A widget still busy with the
// previous tick drops this one.
func (app *App) tickAll(ctx context.Context) {
	app.mu.RLock()
	ws := app.widgets
	app.mu.RUnlock()
	for _, w := range ws {
		app.inflight.Add(1)
		go func() {
			defer app.inflight.Done()
			w.OnTick(ctx)
		}()
	}
}

func (app *App) buttonLoop(ctx context.Context) error {
	events := app.Buttons.Events()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			app.handleButton(ctx, ev)
		}
	}
}

func (app *App) handleButton(ctx context.Context, ev buttons.Event) {
	switch ev.Kind {
	case buttons.Exit:
		app.Logger.Infof("input", "exit requested")
		app.Exit(nil)
	case buttons.Press, buttons.Back:
		app.mu.RLock()
		var w *widget.Controller
		if ev.Key >= 0 && ev.Key < len(app.widgets) {
			w = app.widgets[ev.Key]
		}
		app.mu.RUnlock()
		if w == nil {
			app.Logger.Debugf("input", "key %d has no widget", ev.Key)
			return
		}
		app.inflight.Add(1)
		go func() {
			defer app.inflight.Done()
			if ev.Kind == buttons.Back {
				w.OnPressBack(ctx)
				return
			}
			w.OnPress(ctx)
		}()
	}
}

type statusSetter interface{ SetStatus(text string) }

// checkSetup shows the setup card while no API key is configured and clears
// the hint once one arrives.
func (app *App) checkSetup() {
	has := app.Global.Load().HasAPIKey()
	switch {
	case !has && app.setupShown.CompareAndSwap(false, true):
		if err := app.Deck.ShowSetup(app.SetupURL); err != nil {
			app.Logger.Errorf("app", "show setup card: %v", err)
		}
		app.Logger.Infof("app", "no API key, setup card at %s", app.SetupURL)
	case has && app.setupShown.CompareAndSwap(true, false):
		if s, ok := app.Deck.(statusSetter); ok {
			s.SetStatus("")
		}
		app.Logger.Infof("app", "API key configured")
	}
}

package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rook-computer/weatherdeck/internal/assets"
	"github.com/rook-computer/weatherdeck/internal/buttons"
	"github.com/rook-computer/weatherdeck/internal/config"
	"github.com/rook-computer/weatherdeck/internal/render"
	"github.com/rook-computer/weatherdeck/internal/state"
	"github.com/rook-computer/weatherdeck/internal/weather"
)

type testRig struct {
	app     *App
	deck    *render.PNGDeck
	store   *state.MemoryStore
	fetcher *weather.Synthetic
	btns    *buttons.ChanButtons
	global  *state.GlobalConfig
}

func newRig(t *testing.T, apiKey string, widgets []config.WidgetConfig) *testRig {
	t.Helper()
	fitter, err := render.NewFontFitter(assets.BoldTTF)
	if err != nil {
		t.Fatal(err)
	}
	r := &testRig{
		deck:    render.NewPNGDeck("", 3, 2),
		store:   state.NewMemoryStore(),
		fetcher: weather.NewSynthetic(),
		btns:    buttons.NewChanButtons(),
		global:  state.NewGlobalConfig(state.Global{APIKey: apiKey}),
	}
	r.app = New(r.deck, nil, r.btns, r.global)
	r.app.TickInterval = 10 * time.Millisecond
	r.app.SetupURL = "http://192.168.1.2:8080/"
	r.app.Build = Assembly{
		Widgets:   widgets,
		Fetcher:   r.fetcher,
		Persister: r.store,
		Global:    r.global,
		Icons:     assets.Glyphs{},
		Fitter:    fitter,
	}.Build
	return r
}

func (r *testRig) run(t *testing.T) (context.CancelFunc, <-chan error) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.app.Start(ctx) }()
	t.Cleanup(cancel)
	return cancel, done
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestAppPaintsAndPersists(t *testing.T) {
	r := newRig(t, "key", []config.WidgetConfig{
		{ID: "now", Kind: "current", Cities: "Oslo"},
		{ID: "week", Kind: "forecast", Cities: "Rome"},
	})
	cancel, done := r.run(t)

	waitFor(t, "both tiles painted", func() bool { return r.deck.Writes(0) > 0 && r.deck.Writes(1) > 0 })
	waitFor(t, "state persisted", func() bool { return r.store.Writes("now") > 0 && r.store.Writes("week") > 0 })

	w, ok := r.app.Widget("week")
	if !ok {
		t.Fatal("widget not registered")
	}
	if st := w.Status(); st.LastRefresh == nil || st.Slides != weather.DefaultForecastDays {
		t.Fatalf("status = %+v", st)
	}

	cancel()
	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Fatalf("Start returned %v", err)
	}
}

func TestAppSetupCardWithoutKey(t *testing.T) {
	r := newRig(t, "", []config.WidgetConfig{{ID: "now", Kind: "current", Cities: "Oslo"}})
	cancel, done := r.run(t)

	waitFor(t, "setup card", func() bool { return r.deck.Writes(0) > 0 })
	time.Sleep(50 * time.Millisecond)
	if r.fetcher.Calls() != 0 {
		t.Fatalf("fetched %d times without a key", r.fetcher.Calls())
	}

	setupWrites := r.deck.Writes(0)
	r.global.SetAPIKey("key")
	waitFor(t, "widget paints over setup card", func() bool { return r.deck.Writes(0) > setupWrites })

	cancel()
	<-done
}

func TestAppButtonPressAndExit(t *testing.T) {
	r := newRig(t, "key", []config.WidgetConfig{{ID: "cities", Kind: "multi", Cities: "Oslo, Rome, Lima", SwipeCooldown: time.Hour}})
	_, done := r.run(t)

	w := func() int {
		wd, _ := r.app.Widget("cities")
		return wd.Status().Cursor
	}
	waitFor(t, "first paint", func() bool {
		wd, ok := r.app.Widget("cities")
		return ok && wd.Status().Initialized
	})
	if w() != 0 {
		t.Fatalf("cursor = %d before press", w())
	}

	// A press that lands while a tick holds the widget is dropped, so retry.
	waitFor(t, "press advances", func() bool {
		if w() == 0 {
			r.btns.Send(buttons.Event{Kind: buttons.Press, Key: 0})
			return false
		}
		return true
	})

	// A key without a widget is ignored.
	r.btns.Send(buttons.Event{Kind: buttons.Press, Key: 5})

	r.btns.Send(buttons.Event{Kind: buttons.Exit})
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("exit returned %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("app did not exit")
	}
}

func TestBuildResumesPersistedState(t *testing.T) {
	store := state.NewMemoryStore()
	saved := state.NewWidgetState([]string{"Lima"}, state.DisplayOptions{"unit": "F"}, time.Now())
	saved.Cursor = 2
	blob, _ := saved.Marshal()
	_ = store.PersistState(context.Background(), "now", blob)

	deck := render.NewPNGDeck("", 2, 1)
	if err := deck.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	fitter, _ := render.NewFontFitter(assets.BoldTTF)
	ws, err := Assembly{
		Widgets:   []config.WidgetConfig{{ID: "now", Kind: "current", Cities: "Oslo"}, {ID: "other", Kind: "details", Cities: "Paris"}},
		Fetcher:   weather.NewSynthetic(),
		Persister: store,
		Fitter:    fitter,
	}.Build(context.Background(), deck)
	if err != nil {
		t.Fatal(err)
	}
	st := ws[0].Status()
	if len(st.Subjects) != 1 || st.Subjects[0] != "Lima" || st.Options.Unit() != "f" {
		t.Fatalf("resumed status = %+v", st)
	}
	if st.Initialized {
		t.Fatal("resumed widget must start uninitialized")
	}
	if got := ws[1].Status().Subjects; len(got) != 1 || got[0] != "Paris" {
		t.Fatalf("fresh subjects = %v", got)
	}

	_, err = Assembly{Widgets: make([]config.WidgetConfig, 3)}.Build(context.Background(), deck)
	if err == nil {
		t.Fatal("expected error for more widgets than tiles")
	}
}

func TestLoadGlobal(t *testing.T) {
	ctx := context.Background()
	store := state.NewMemoryStore()
	if g := LoadGlobal(ctx, store, "cfg", NoopLogger{}); g.APIKey != "cfg" {
		t.Fatalf("fallback = %+v", g)
	}
	blob, _ := state.Global{APIKey: "saved"}.Marshal()
	_ = store.PersistState(ctx, state.GlobalKey, blob)
	if g := LoadGlobal(ctx, store, "cfg", NoopLogger{}); g.APIKey != "saved" {
		t.Fatalf("persisted = %+v", g)
	}
}

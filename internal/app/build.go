package app

import (
	"context"
	"fmt"
	"time"

	"github.com/rook-computer/weatherdeck/internal/config"
	"github.com/rook-computer/weatherdeck/internal/render"
	"github.com/rook-computer/weatherdeck/internal/state"
	"github.com/rook-computer/weatherdeck/internal/weather"
	"github.com/rook-computer/weatherdeck/internal/widget"
)

// Assembly holds what every widget shares.
type Assembly struct {
	Widgets   []config.WidgetConfig
	Fetcher   weather.Fetcher
	Persister state.Persister
	Global    *state.GlobalConfig
	Icons     render.IconSource
	Fitter    render.TextFitter
	Logger    Logger
	Clock     func() time.Time
}

// Build creates one controller per configured widget on consecutive tiles,
// resuming persisted state where there is any.
func (a Assembly) Build(ctx context.Context, deck render.Deck) ([]*widget.Controller, error) {
	if len(a.Widgets) > deck.Tiles() {
		return nil, fmt.Errorf("%d widgets but only %d tiles", len(a.Widgets), deck.Tiles())
	}
	clock := a.Clock
	if clock == nil {
		clock = time.Now
	}
	var logger Logger = NoopLogger{}
	if a.Logger != nil {
		logger = a.Logger
	}

	out := make([]*widget.Controller, 0, len(a.Widgets))
	for i, wc := range a.Widgets {
		kind, err := widget.KindByName(wc.Kind)
		if err != nil {
			return nil, fmt.Errorf("widget %s: %w", wc.ID, err)
		}
		initial := a.initialState(ctx, wc, clock(), logger)
		c, err := widget.NewController(widget.Config{
			ID:            wc.ID,
			Kind:          kind,
			Fetcher:       a.Fetcher,
			Global:        a.Global,
			Surface:       deck.Tile(i),
			Icons:         a.Icons,
			Fitter:        a.Fitter,
			Persister:     a.Persister,
			FetchCooldown: wc.FetchCooldown,
			SwipeCooldown: wc.SwipeCooldown,
			Clock:         clock,
			Logger:        logger,
		}, initial)
		if err != nil {
			return nil, fmt.Errorf("widget %s: %w", wc.ID, err)
		}
		out = append(out, c)
	}
	return out, nil
}

// initialState prefers what the widget persisted last run; settings changed
// at runtime outlive the config file.
func (a Assembly) initialState(ctx context.Context, wc config.WidgetConfig, now time.Time, logger Logger) state.WidgetState {
	fresh := state.NewWidgetState(state.ParseSubjects(wc.Cities), state.DisplayOptions(wc.Options), now)
	if a.Persister == nil {
		return fresh
	}
	blob, ok, err := a.Persister.LoadState(ctx, wc.ID)
	switch {
	case err != nil:
		logger.Errorf("app", "load state for %s: %v", wc.ID, err)
		return fresh
	case !ok:
		return fresh
	}
	st, err := state.UnmarshalWidgetState(blob)
	if err != nil {
		logger.Errorf("app", "decode state for %s, starting fresh: %v", wc.ID, err)
		return fresh
	}
	logger.Debugf("app", "resumed %s with %d cached records", wc.ID, len(st.Data))
	return st
}

// LoadGlobal returns the persisted global config, falling back to apiKey
// when nothing usable was persisted.
func LoadGlobal(ctx context.Context, p state.Persister, apiKey string, logger Logger) state.Global {
	fallback := state.Global{APIKey: apiKey}
	if p == nil {
		return fallback
	}
	blob, ok, err := p.LoadState(ctx, state.GlobalKey)
	if err != nil {
		logger.Errorf("app", "load global settings: %v", err)
		return fallback
	}
	if !ok {
		return fallback
	}
	g, err := state.UnmarshalGlobal(blob)
	if err != nil || !g.HasAPIKey() {
		return fallback
	}
	return g
}

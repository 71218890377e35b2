package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/labstack/echo/v4"
	"github.com/rook-computer/weatherdeck/internal/app"
	"github.com/rook-computer/weatherdeck/internal/assets"
	"github.com/rook-computer/weatherdeck/internal/buttons"
	"github.com/rook-computer/weatherdeck/internal/config"
	"github.com/rook-computer/weatherdeck/internal/render"
	"github.com/rook-computer/weatherdeck/internal/state"
	"github.com/rook-computer/weatherdeck/internal/system"
	"github.com/rook-computer/weatherdeck/internal/weather"
	"github.com/rook-computer/weatherdeck/internal/web"
	"github.com/spf13/cobra"
)

type simOptions struct {
	cfgFile   string
	listen    string
	dev       bool
	staticDir string
	outDir    string
	apiKey    string
	tick      time.Duration
	debug     bool
}

func main() {
	if err := newSimCmd().Execute(); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}

func newSimCmd() *cobra.Command {
	o := &simOptions{}
	cmd := &cobra.Command{
		Use:          "weatherdeck-sim",
		Short:        "Run the deck with PNG tiles and synthetic weather",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), o)
		},
	}
	f := cmd.Flags()
	f.StringVar(&o.cfgFile, "config", "", "config file for the widget list (optional)")
	f.StringVar(&o.listen, "listen", ":8090", "http listen address")
	f.BoolVar(&o.dev, "dev", false, "enable dev mode (CORS)")
	f.StringVar(&o.staticDir, "static-dir", "", "serve static UI from this directory instead of the embedded one")
	f.StringVar(&o.outDir, "out", "/tmp/weatherdeck-sim", "directory for tile PNGs")
	f.StringVar(&o.apiKey, "api-key", "sim", "initial API key; empty shows the setup card")
	f.DurationVar(&o.tick, "tick", time.Second, "tick interval")
	f.BoolVarP(&o.debug, "debug", "d", false, "enable debug logging")
	return cmd
}

func run(parent context.Context, o *simOptions) error {
	logger := app.NewCharmLogger(os.Stderr, o.debug)

	widgets := config.DefaultWidgets()
	columns, rows := 5, 3
	if o.cfgFile != "" {
		cfg, err := config.Load(nil, o.cfgFile)
		if err != nil {
			return err
		}
		widgets, columns, rows = cfg.Widgets, cfg.Columns, cfg.Rows
	}

	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	fetcher := weather.NewSynthetic()
	deck := render.NewPNGDeck(o.outDir, columns, rows)
	btns := buttons.NewChanButtons()
	control := NewSimControl(fetcher, deck, btns)

	store := state.NewMemoryStore()
	global := state.NewGlobalConfig(state.Global{APIKey: o.apiKey})
	fitter, err := render.NewFontFitter(assets.BoldTTF)
	if err != nil {
		return err
	}

	a := app.New(deck, nil, btns, global)
	a.Logger = logger
	a.TickInterval = o.tick
	a.SetupURL = system.SetupURL(o.listen, "127.0.0.1")
	a.Build = app.Assembly{
		Widgets:   widgets,
		Fetcher:   fetcher,
		Persister: store,
		Global:    global,
		Icons:     assets.Glyphs{},
		Fitter:    fitter,
		Logger:    logger,
	}.Build

	srv := web.NewHTTPServer(web.ServerConfig{ListenAddr: o.listen, DevMode: o.dev, StaticDir: o.staticDir},
		web.Deps{Widgets: a, Global: global, Persister: store, Logger: logger})
	srv.Extra = func(e *echo.Echo) { control.Register(e) }
	a.Web = srv

	logger.Infof("sim", "weatherdeck simulator on %s, tiles in %s", a.SetupURL, o.outDir)
	logger.Infof("sim", "deck image: %ssim/deck.png", a.SetupURL)
	err = a.Start(ctx)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

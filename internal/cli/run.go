package cli

import (
	"context"
	"errors"
	"io"
	"os"
	"os/signal"
	"syscall"

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
	"github.com/spf13/viper"
)

func newViper(root *cobra.Command) *viper.Viper {
	v := config.NewViper()
	_ = v.BindPFlag("debug", root.PersistentFlags().Lookup("debug"))
	return v
}

func newRunCmd(o *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the deck daemon (default)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDaemon(cmd, o)
		},
	}
	cmd.Flags().StringVar(&o.stdioLog, "stdio-log", "", "redirect stdout+stderr (including panics) to this file")
	cmd.Flags().BoolVar(&o.console, "console", true, "switch the VT to graphics mode while running")
	cmd.Flags().String("listen", "", "API listen address")
	cmd.Flags().String("fb-device", "", "framebuffer device")
	_ = o.v.BindPFlag("listen", cmd.Flags().Lookup("listen"))
	_ = o.v.BindPFlag("fb-device", cmd.Flags().Lookup("fb-device"))
	return cmd
}

// newLogger logs to stderr, or to a rotating file when log-file is set.
func newLogger(cfg config.Config) (app.Logger, error) {
	var w io.Writer = os.Stderr
	if cfg.LogFile != "" {
		rw, err := app.NewRotatingWriter(cfg.LogFile)
		if err != nil {
			return nil, err
		}
		w = rw
	}
	return app.NewCharmLogger(w, cfg.Debug), nil
}

func runDaemon(cmd *cobra.Command, o *options) error {
	if o.stdioLog != "" {
		if err := system.RedirectStdIO(o.stdioLog); err != nil {
			return err
		}
	}
	cfg, err := config.Load(o.v, o.cfgFile)
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := state.NewFileStore(cfg.StateDir)
	if err != nil {
		return err
	}
	global := state.NewGlobalConfig(app.LoadGlobal(ctx, store, cfg.APIKey, logger))

	client := weather.NewClient(weather.ClientOptions{
		BaseURL:   cfg.BaseURL,
		Timeout:   cfg.FetchTimeout,
		UserAgent: "weatherdeck/" + Version,
	})
	defer client.Close()
	var fetcher weather.Fetcher = client
	if cfg.RateLimit > 0 {
		fetcher = weather.NewRateLimitedFetcher(client, cfg.RateLimit, cfg.RateBurst)
	}

	fitter, err := render.NewFontFitter(assets.BoldTTF)
	if err != nil {
		return err
	}
	var icons render.IconSource = assets.Glyphs{}
	if cfg.IconsDir != "" {
		icons = render.NewDirIcons(cfg.IconsDir, assets.Glyphs{})
	}

	deck := render.NewFBDeck(cfg.FBDevice, cfg.Columns, cfg.Rows)
	deck.Logger = logger

	a := app.New(deck, nil, buttons.NewEvdev(logger), global)
	a.Logger = logger
	a.TickInterval = cfg.TickInterval
	a.Console = o.console
	host, err := system.LocalIPv4()
	if err != nil {
		logger.Infof("app", "no LAN address for the setup card: %v", err)
	}
	a.SetupURL = system.SetupURL(cfg.Listen, host)
	a.Build = app.Assembly{
		Widgets:   cfg.Widgets,
		Fetcher:   fetcher,
		Persister: store,
		Global:    global,
		Icons:     icons,
		Fitter:    fitter,
		Logger:    logger,
	}.Build
	a.Web = web.NewHTTPServer(web.ServerConfig{
		ListenAddr: cfg.Listen,
		DevMode:    cfg.Dev,
		StaticDir:  cfg.StaticDir,
	}, web.Deps{Widgets: a, Global: global, Persister: store, Logger: logger})

	logger.Infof("main", "weatherdeck %s starting, %d widgets, state in %s", Version, len(cfg.Widgets), cfg.StateDir)
	err = a.Start(ctx)
	if errors.Is(err, context.Canceled) {
		err = nil
	}
	logger.Infof("main", "stopped")
	return err
}

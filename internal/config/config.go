// Package config resolves daemon settings from flags, WEATHERDECK_* env vars,
// an optional .env file and an optional YAML file, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rook-computer/weatherdeck/internal/widget"
	"github.com/spf13/viper"
)

const EnvPrefix = "WEATHERDECK"

// WidgetConfig describes one deck tile. Cities is a comma list; cooldowns of
// zero use the kind's defaults.
type WidgetConfig struct {
	ID            string            `mapstructure:"id"`
	Kind          string            `mapstructure:"kind"`
	Cities        string            `mapstructure:"cities"`
	Options       map[string]string `mapstructure:"options"`
	FetchCooldown time.Duration     `mapstructure:"fetch-cooldown"`
	SwipeCooldown time.Duration     `mapstructure:"swipe-cooldown"`
}

type Config struct {
	APIKey       string         `mapstructure:"api-key"`
	Listen       string         `mapstructure:"listen"`
	Dev          bool           `mapstructure:"dev"`
	StaticDir    string         `mapstructure:"static-dir"`
	FBDevice     string         `mapstructure:"fb-device"`
	StateDir     string         `mapstructure:"state-dir"`
	IconsDir     string         `mapstructure:"icons-dir"`
	BaseURL      string         `mapstructure:"base-url"`
	TickInterval time.Duration  `mapstructure:"tick-interval"`
	FetchTimeout time.Duration  `mapstructure:"fetch-timeout"`
	RateLimit    float64        `mapstructure:"rate-limit"`
	RateBurst    int            `mapstructure:"rate-burst"`
	Columns      int            `mapstructure:"columns"`
	Rows         int            `mapstructure:"rows"`
	Debug        bool           `mapstructure:"debug"`
	LogFile      string         `mapstructure:"log-file"`
	Widgets      []WidgetConfig `mapstructure:"widgets"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api-key", "")
	v.SetDefault("listen", ":8080")
	v.SetDefault("dev", false)
	v.SetDefault("static-dir", "")
	v.SetDefault("fb-device", "/dev/fb0")
	v.SetDefault("state-dir", defaultStateDir())
	v.SetDefault("icons-dir", "")
	v.SetDefault("base-url", "https://api.weatherapi.com/v1")
	v.SetDefault("tick-interval", time.Second)
	v.SetDefault("fetch-timeout", 10*time.Second)
	v.SetDefault("rate-limit", 1.0)
	v.SetDefault("rate-burst", 5)
	v.SetDefault("columns", 5)
	v.SetDefault("rows", 3)
	v.SetDefault("debug", false)
	v.SetDefault("log-file", "")
}

func defaultStateDir() string {
	if d := os.Getenv("XDG_STATE_HOME"); d != "" {
		return filepath.Join(d, "weatherdeck")
	}
	return filepath.Join(os.Getenv("HOME"), ".local", "state", "weatherdeck")
}

// DefaultPath is where `config init` writes and Load looks when no file is given.
func DefaultPath() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		dir = filepath.Join(os.Getenv("HOME"), ".config")
	}
	return filepath.Join(dir, "weatherdeck", "config.yml")
}

// NewViper returns a viper instance with defaults and env binding applied.
// Callers may bind cobra flags to it before calling Load.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	return v
}

// Load reads .env (if present), then path or the default config file, and
// decodes the result. A missing default file is fine; a missing explicit one is not.
func Load(v *viper.Viper, path string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	if v == nil {
		v = NewViper()
	}
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yml")
		v.AddConfigPath(filepath.Dir(DefaultPath()))
		v.AddConfigPath("/etc/weatherdeck")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if len(cfg.Widgets) == 0 {
		cfg.Widgets = DefaultWidgets()
	}
	return cfg, cfg.Validate()
}

// DefaultWidgets is the deck used when no widgets are configured.
func DefaultWidgets() []WidgetConfig {
	return []WidgetConfig{
		{ID: "now", Kind: "current", Cities: "London"},
		{ID: "cities", Kind: "multi", Cities: "London, Paris, Berlin"},
		{ID: "sky", Kind: "astronomy", Cities: "London"},
		{ID: "week", Kind: "forecast", Cities: "London", Options: map[string]string{"days": "3"}},
		{ID: "details", Kind: "details", Cities: "London"},
	}
}

var validID = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)

// Validate reports every problem at once.
func (c Config) Validate() error {
	var errs []error
	if c.TickInterval <= 0 {
		errs = append(errs, fmt.Errorf("tick-interval must be positive, got %s", c.TickInterval))
	}
	if c.FetchTimeout <= 0 {
		errs = append(errs, fmt.Errorf("fetch-timeout must be positive, got %s", c.FetchTimeout))
	}
	if c.RateLimit < 0 || c.RateBurst < 0 {
		errs = append(errs, errors.New("rate-limit and rate-burst must not be negative"))
	}
	if c.Columns <= 0 || c.Rows <= 0 {
		errs = append(errs, fmt.Errorf("deck grid must be positive, got %dx%d", c.Columns, c.Rows))
	} else if len(c.Widgets) > c.Columns*c.Rows {
		errs = append(errs, fmt.Errorf("%d widgets do not fit a %dx%d deck", len(c.Widgets), c.Columns, c.Rows))
	}
	seen := map[string]bool{}
	for i, w := range c.Widgets {
		switch {
		case w.ID == "":
			errs = append(errs, fmt.Errorf("widgets[%d]: missing id", i))
		case !validID.MatchString(w.ID) || strings.HasPrefix(w.ID, "_"):
			errs = append(errs, fmt.Errorf("widgets[%d]: invalid id %q", i, w.ID))
		case seen[w.ID]:
			errs = append(errs, fmt.Errorf("widgets[%d]: duplicate id %q", i, w.ID))
		}
		seen[w.ID] = true
		if _, err := widget.KindByName(w.Kind); err != nil {
			errs = append(errs, fmt.Errorf("widgets[%d]: %w", i, err))
		}
		if w.FetchCooldown < 0 || w.SwipeCooldown < 0 {
			errs = append(errs, fmt.Errorf("widgets[%d]: negative cooldown", i))
		}
	}
	return errors.Join(errs...)
}

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ErrConfigExists is returned by WriteDefault when the target is already there.
var ErrConfigExists = errors.New("config file already exists")

type fileWidget struct {
	ID            string            `yaml:"id"`
	Kind          string            `yaml:"kind"`
	Cities        string            `yaml:"cities"`
	Options       map[string]string `yaml:"options,omitempty"`
	FetchCooldown string            `yaml:"fetch-cooldown,omitempty"`
	SwipeCooldown string            `yaml:"swipe-cooldown,omitempty"`
}

// fileConfig mirrors Config with durations spelled the way a person writes them.
type fileConfig struct {
	APIKey       string       `yaml:"api-key"`
	Listen       string       `yaml:"listen"`
	FBDevice     string       `yaml:"fb-device"`
	StateDir     string       `yaml:"state-dir"`
	IconsDir     string       `yaml:"icons-dir"`
	TickInterval string       `yaml:"tick-interval"`
	FetchTimeout string       `yaml:"fetch-timeout"`
	RateLimit    float64      `yaml:"rate-limit"`
	RateBurst    int          `yaml:"rate-burst"`
	Columns      int          `yaml:"columns"`
	Rows         int          `yaml:"rows"`
	Debug        bool         `yaml:"debug"`
	LogFile      string       `yaml:"log-file"`
	Widgets      []fileWidget `yaml:"widgets"`
}

func toFile(c Config) fileConfig {
	f := fileConfig{
		APIKey:       c.APIKey,
		Listen:       c.Listen,
		FBDevice:     c.FBDevice,
		StateDir:     c.StateDir,
		IconsDir:     c.IconsDir,
		TickInterval: c.TickInterval.String(),
		FetchTimeout: c.FetchTimeout.String(),
		RateLimit:    c.RateLimit,
		RateBurst:    c.RateBurst,
		Columns:      c.Columns,
		Rows:         c.Rows,
		Debug:        c.Debug,
		LogFile:      c.LogFile,
	}
	for _, w := range c.Widgets {
		fw := fileWidget{ID: w.ID, Kind: w.Kind, Cities: w.Cities, Options: w.Options}
		if w.FetchCooldown > 0 {
			fw.FetchCooldown = w.FetchCooldown.String()
		}
		if w.SwipeCooldown > 0 {
			fw.SwipeCooldown = w.SwipeCooldown.String()
		}
		f.Widgets = append(f.Widgets, fw)
	}
	return f
}

// Defaults is the configuration Load yields with no file and no env.
func Defaults() Config {
	v := NewViper()
	var c Config
	_ = v.Unmarshal(&c)
	c.Widgets = DefaultWidgets()
	return c
}

// MarshalYAML renders c as a config file.
func MarshalYAML(c Config) ([]byte, error) {
	return yaml.Marshal(toFile(c))
}

// WriteDefault writes the default config to path unless a file is there.
func WriteDefault(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%w: %s", ErrConfigExists, path)
	}
	out, err := MarshalYAML(Defaults())
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	return os.WriteFile(path, out, 0o644)
}

package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.yml")
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestLoadFile(t *testing.T) {
	p := writeFile(t, `
api-key: file-key
columns: 3
rows: 2
tick-interval: 500ms
widgets:
  - id: home
    kind: current
    cities: Oslo
    fetch-cooldown: 20m
  - id: trip
    kind: forecast
    cities: Rome
    options:
      days: 5
      unit: F
`)
	cfg, err := Load(nil, p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.APIKey != "file-key" || cfg.Columns != 3 || cfg.Rows != 2 {
		t.Fatalf("cfg = %+v", cfg)
	}
	if cfg.TickInterval != 500*time.Millisecond {
		t.Fatalf("tick = %s", cfg.TickInterval)
	}
	if len(cfg.Widgets) != 2 {
		t.Fatalf("widgets = %+v", cfg.Widgets)
	}
	if cfg.Widgets[0].FetchCooldown != 20*time.Minute {
		t.Fatalf("fetch cooldown = %s", cfg.Widgets[0].FetchCooldown)
	}
	if got := cfg.Widgets[1].Options["days"]; got != "5" {
		t.Fatalf("days option = %q", got)
	}
	if cfg.FetchTimeout != 10*time.Second {
		t.Fatalf("default fetch timeout = %s", cfg.FetchTimeout)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	p := writeFile(t, "api-key: file-key\n")
	t.Setenv("WEATHERDECK_API_KEY", "env-key")
	t.Setenv("WEATHERDECK_TICK_INTERVAL", "2s")
	cfg, err := Load(nil, p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.APIKey != "env-key" {
		t.Fatalf("api key = %q", cfg.APIKey)
	}
	if cfg.TickInterval != 2*time.Second {
		t.Fatalf("tick = %s", cfg.TickInterval)
	}
}

func TestMissingExplicitFileFails(t *testing.T) {
	if _, err := Load(nil, filepath.Join(t.TempDir(), "nope.yml")); err == nil {
		t.Fatal("expected error")
	}
}

func TestValidate(t *testing.T) {
	base := Defaults()
	cases := []struct {
		name string
		mut  func(c *Config)
		want string
	}{
		{"ok", func(c *Config) {}, ""},
		{"tick", func(c *Config) { c.TickInterval = 0 }, "tick-interval"},
		{"grid", func(c *Config) { c.Columns, c.Rows = 1, 1 }, "do not fit"},
		{"kind", func(c *Config) { c.Widgets[0].Kind = "radar" }, "unknown widget kind"},
		{"dup", func(c *Config) { c.Widgets[1].ID = c.Widgets[0].ID }, "duplicate id"},
		{"reserved", func(c *Config) { c.Widgets[0].ID = "_global" }, "invalid id"},
		{"path", func(c *Config) { c.Widgets[0].ID = "../x" }, "invalid id"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := base
			c.Widgets = append([]WidgetConfig(nil), base.Widgets...)
			tc.mut(&c)
			err := c.Validate()
			if tc.want == "" {
				if err != nil {
					t.Fatalf("unexpected: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("err = %v, want %q", err, tc.want)
			}
		})
	}
}

func TestWriteDefaultRoundTrips(t *testing.T) {
	p := filepath.Join(t.TempDir(), "sub", "config.yml")
	if err := WriteDefault(p); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := WriteDefault(p); !errors.Is(err, ErrConfigExists) {
		t.Fatalf("second write err = %v", err)
	}
	cfg, err := Load(nil, p)
	if err != nil {
		t.Fatalf("load written default: %v", err)
	}
	if len(cfg.Widgets) != len(DefaultWidgets()) {
		t.Fatalf("widgets = %d", len(cfg.Widgets))
	}
	if cfg.TickInterval != time.Second {
		t.Fatalf("tick = %s", cfg.TickInterval)
	}
}

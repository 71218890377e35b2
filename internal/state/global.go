package state

import (
	"encoding/json"
	"strings"
	"sync/atomic"
)

// Global is the process-wide configuration shared by all widgets.
type Global struct {
	APIKey string `json:"apiKey"`
}

// HasAPIKey reports whether fetching is enabled.
func (g Global) HasAPIKey() bool { return strings.TrimSpace(g.APIKey) != "" }

// Masked returns the key with all but the last four characters hidden.
func (g Global) Masked() string {
	k := strings.TrimSpace(g.APIKey)
	if len(k) <= 4 {
		return strings.Repeat("*", len(k))
	}
	return strings.Repeat("*", len(k)-4) + k[len(k)-4:]
}

// GlobalConfig is replaced wholesale; readers always see a complete value.
type GlobalConfig struct {
	v atomic.Pointer[Global]
}

func NewGlobalConfig(g Global) *GlobalConfig {
	c := &GlobalConfig{}
	c.Store(g)
	return c
}

func (c *GlobalConfig) Load() Global {
	if p := c.v.Load(); p != nil {
		return *p
	}
	return Global{}
}

func (c *GlobalConfig) Store(g Global) {
	g.APIKey = strings.TrimSpace(g.APIKey)
	c.v.Store(&g)
}

// SetAPIKey replaces the key and reports whether it changed.
func (c *GlobalConfig) SetAPIKey(key string) bool {
	key = strings.TrimSpace(key)
	for {
		old := c.v.Load()
		if old != nil && old.APIKey == key {
			return false
		}
		next := Global{APIKey: key}
		if old != nil {
			next = *old
			next.APIKey = key
		}
		if c.v.CompareAndSwap(old, &next) {
			return true
		}
	}
}

func (g Global) Marshal() ([]byte, error) { return json.Marshal(g) }

func UnmarshalGlobal(blob []byte) (Global, error) {
	var g Global
	err := json.Unmarshal(blob, &g)
	return g, err
}

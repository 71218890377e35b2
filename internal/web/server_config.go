package web

import (
	"fmt"
	"net"
)

// ServerConfig contains settings for running the HTTP server.
//
// The intended defaults differ per binary:
// - device:    :8080
// - simulator: :8090
type ServerConfig struct {
	ListenAddr string `mapstructure:"listen"`
	DevMode    bool   `mapstructure:"dev"`
	StaticDir  string `mapstructure:"static-dir"`
}

func (c ServerConfig) Validate() error {
	if c.ListenAddr == "" {
		return nil
	}
	if _, _, err := net.SplitHostPort(c.ListenAddr); err != nil {
		return fmt.Errorf("web listen address %q: %w", c.ListenAddr, err)
	}
	return nil
}

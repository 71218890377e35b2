package web

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rook-computer/weatherdeck/internal/assets"
)

const defaultAddr = ":8080"

type HTTPServer struct {
	Config ServerConfig
	Deps   Deps

	// Extra mounts additional routes before the UI catch-all.
	Extra func(e *echo.Echo)

	mu     sync.Mutex
	e      *echo.Echo
	ln     net.Listener
	closed bool
}

func NewHTTPServer(cfg ServerConfig, deps Deps) *HTTPServer {
	return &HTTPServer{Config: cfg, Deps: deps.withDefaults()}
}

// Handler builds the echo instance without listening.
func (s *HTTPServer) Handler() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())
	e.Use(requestLog(s.Deps.withDefaults().Logger))
	if s.Config.DevMode {
		// The settings page may be served from a dev server on another origin.
		e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
			AllowOrigins: []string{"*"},
			AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
			AllowHeaders: []string{echo.HeaderContentType},
			MaxAge:       600,
		}))
	}
	RegisterAPIV1(e, s.Deps)
	if s.Extra != nil {
		s.Extra(e)
	}
	RegisterUI(e, s.ui())
	return e
}

func (s *HTTPServer) ui() fs.FS {
	dir := s.Config.StaticDir
	if dir == "" {
		return assets.WebUI
	}
	if st, err := os.Stat(dir); err != nil || !st.IsDir() {
		s.Deps.withDefaults().Logger.Errorf("web", "static dir %q unusable, serving embedded UI", dir)
		return assets.WebUI
	}
	return os.DirFS(dir)
}

func (s *HTTPServer) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return errors.New("web server already stopped")
	}
	if s.e != nil {
		return nil
	}

	addr := s.Config.ListenAddr
	if addr == "" {
		addr = defaultAddr
	}
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}

	e := s.Handler()
	e.Listener = ln
	s.e = e
	s.ln = ln

	go func() {
		<-ctx.Done()
		_ = s.Stop()
	}()

	log := s.Deps.withDefaults().Logger
	go func() {
		srv := &http.Server{ReadHeaderTimeout: 5 * time.Second}
		err := e.StartServer(srv)
		if err == nil || errors.Is(err, http.ErrServerClosed) {
			return
		}
		log.Errorf("web", "server stopped: %v", err)
	}()
	log.Infof("web", "listening on %s", ln.Addr())
	return nil
}

// Addr reports the bound address, useful when listening on port 0.
func (s *HTTPServer) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ln == nil {
		return ""
	}
	return s.ln.Addr().String()
}

func (s *HTTPServer) Stop() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	e := s.e
	s.e = nil
	s.ln = nil
	s.mu.Unlock()

	if e == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return e.Shutdown(ctx)
}

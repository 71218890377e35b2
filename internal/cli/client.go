package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rook-computer/weatherdeck/internal/config"
	"github.com/rook-computer/weatherdeck/internal/system"
	"github.com/tidwall/pretty"
	"resty.dev/v3"
)

// apiClient talks to a running daemon.
type apiClient struct {
	c *resty.Client
}

func newAPIClient(base string) *apiClient {
	c := resty.New()
	c.SetBaseURL(strings.TrimRight(base, "/") + "/api/v1")
	c.SetHeader("Content-Type", "application/json")
	c.SetHeader("Accept", "application/json")
	c.SetHeader("User-Agent", "weatherdeck-cli/"+Version)
	c.SetTimeout(10 * time.Second)
	return &apiClient{c: c}
}

func (a *apiClient) Close() error { return a.c.Close() }

type apiErrorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func (a *apiClient) do(method, path string, body any) ([]byte, error) {
	req := a.c.R()
	if body != nil {
		req.SetBody(body)
	}
	res, err := req.Execute(method, path)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	if res.IsError() {
		var e apiErrorBody
		if json.Unmarshal(res.Bytes(), &e) == nil && e.Message != "" {
			return nil, fmt.Errorf("%s %s: %s: %s", method, path, res.Status(), e.Message)
		}
		return nil, fmt.Errorf("%s %s: %s", method, path, res.Status())
	}
	return res.Bytes(), nil
}

func (a *apiClient) Get(path string) ([]byte, error) { return a.do(http.MethodGet, path, nil) }
func (a *apiClient) Post(path string, body any) ([]byte, error) {
	return a.do(http.MethodPost, path, body)
}
func (a *apiClient) Put(path string, body any) ([]byte, error) {
	return a.do(http.MethodPut, path, body)
}

// baseURL resolves --addr, falling back to the configured listen address.
func (o *options) baseURL() string {
	if o.addr != "" {
		if strings.Contains(o.addr, "://") {
			return o.addr
		}
		return "http://" + o.addr
	}
	cfg, _ := config.Load(o.v, o.cfgFile)
	if cfg.Listen == "" {
		cfg.Listen = ":8080"
	}
	return system.SetupURL(cfg.Listen, "127.0.0.1")
}

func (o *options) client() *apiClient { return newAPIClient(o.baseURL()) }

// printJSON writes raw JSON indented, colored unless disabled.
func printJSON(w io.Writer, raw []byte, color bool) {
	out := pretty.Pretty(raw)
	if color {
		out = pretty.Color(out, nil)
	}
	_, _ = w.Write(out)
}

// Package weather fetches current conditions, astronomy and forecasts from weatherapi.com.
package weather

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"resty.dev/v3"
)

const (
	DefaultBaseURL      = "https://api.weatherapi.com/v1"
	DefaultTimeout      = 10 * time.Second
	DefaultForecastDays = 3
)

// Fetcher is the remote data source used by widgets. Implementations must be
// safe for concurrent use.
type Fetcher interface {
	FetchCurrent(ctx context.Context, apiKey, subject string) (*Current, error)
	FetchAstronomy(ctx context.Context, apiKey, subject string) (*Astronomy, error)
	FetchForecast(ctx context.Context, apiKey, subject string, days int) (*Forecast, error)
}

// Client talks to the weatherapi.com REST endpoints.
type Client struct {
	http *resty.Client
}

type ClientOptions struct {
	BaseURL   string
	Timeout   time.Duration
	UserAgent string
	// HTTPClient overrides the transport, mostly for tests.
	HTTPClient *http.Client
}

func NewClient(opts ClientOptions) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.UserAgent == "" {
		opts.UserAgent = "weatherdeck"
	}
	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{}
	}
	hc.Timeout = opts.Timeout

	rc := resty.NewWithClient(hc)
	rc.SetBaseURL(strings.TrimRight(opts.BaseURL, "/"))
	rc.SetHeader("Accept", "application/json")
	rc.SetHeader("User-Agent", opts.UserAgent)
	return &Client{http: rc}
}

// Close releases idle connections held by the client.
func (c *Client) Close() error {
	return c.http.Close()
}

func (c *Client) FetchCurrent(ctx context.Context, apiKey, subject string) (*Current, error) {
	var out Current
	if err := c.get(ctx, "current", "/current.json", apiKey, subject, nil, &out); err != nil {
		return nil, err
	}
	if out.Location.Name == "" {
		return nil, &FetchError{Op: "current", Subject: subject, Status: http.StatusOK, Err: ErrNoData}
	}
	return &out, nil
}

func (c *Client) FetchAstronomy(ctx context.Context, apiKey, subject string) (*Astronomy, error) {
	var out Astronomy
	if err := c.get(ctx, "astronomy", "/astronomy.json", apiKey, subject, nil, &out); err != nil {
		return nil, err
	}
	if out.Astronomy.Astro.Sunrise == "" && out.Astronomy.Astro.MoonPhase == "" {
		return nil, &FetchError{Op: "astronomy", Subject: subject, Status: http.StatusOK, Err: ErrNoData}
	}
	return &out, nil
}

func (c *Client) FetchForecast(ctx context.Context, apiKey, subject string, days int) (*Forecast, error) {
	if days <= 0 {
		days = DefaultForecastDays
	}
	var out Forecast
	extra := map[string]string{"days": strconv.Itoa(days)}
	if err := c.get(ctx, "forecast", "/forecast.json", apiKey, subject, extra, &out); err != nil {
		return nil, err
	}
	if len(out.Forecast.Days) == 0 {
		return nil, &FetchError{Op: "forecast", Subject: subject, Status: http.StatusOK, Err: ErrNoData}
	}
	return &out, nil
}

func (c *Client) get(ctx context.Context, op, path, apiKey, subject string, extra map[string]string, out any) error {
	if strings.TrimSpace(apiKey) == "" {
		return &FetchError{Op: op, Subject: subject, Err: ErrNoAPIKey}
	}
	params := map[string]string{
		"key": apiKey,
		"q":   subject,
		"aqi": "no",
	}
	for k, v := range extra {
		params[k] = v
	}

	res, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(params).
		Get(path)
	if err != nil {
		return &FetchError{Op: op, Subject: subject, Err: err}
	}
	body := res.Bytes()
	if res.StatusCode() != http.StatusOK {
		fe := &FetchError{Op: op, Subject: subject, Status: res.StatusCode()}
		var ae apiError
		if json.Unmarshal(body, &ae) == nil && ae.Error.Message != "" {
			fe.Code = ae.Error.Code
			fe.Message = ae.Error.Message
		}
		return fe
	}
	if len(body) == 0 {
		return &FetchError{Op: op, Subject: subject, Status: res.StatusCode(), Err: ErrNoData}
	}
	if err := json.Unmarshal(body, out); err != nil {
		return &FetchError{Op: op, Subject: subject, Status: res.StatusCode(), Err: err}
	}
	return nil
}

var _ Fetcher = (*Client)(nil)

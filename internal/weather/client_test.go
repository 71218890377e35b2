package weather

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/current.json", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("key") != "k1" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":{"code":2006,"message":"API key is invalid."}}`))
			return
		}
		if q.Get("aqi") != "no" {
			t.Errorf("aqi = %q, want no", q.Get("aqi"))
		}
		switch q.Get("q") {
		case "Berlin":
			_, _ = w.Write([]byte(`{"location":{"name":"Berlin","country":"Germany"},"current":{"temp_c":12.4,"temp_f":54.3,"condition":{"text":"Sunny","icon":"//cdn.weatherapi.com/weather/64x64/day/113.png","code":1000}}}`))
		case "Empty":
			_, _ = w.Write([]byte(`{}`))
		default:
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":{"code":1006,"message":"No matching location found."}}`))
		}
	})
	mux.HandleFunc("/astronomy.json", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"location":{"name":"Oslo"},"astronomy":{"astro":{"sunrise":"05:01 AM","sunset":"09:40 PM","moonrise":"11:02 PM","moonset":"06:13 AM","moon_phase":"Waxing Gibbous","moon_illumination":"78"}}}`))
	})
	mux.HandleFunc("/forecast.json", func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("days"); got != "3" {
			t.Errorf("days = %q, want 3", got)
		}
		_, _ = w.Write([]byte(`{"location":{"name":"Rome"},"forecast":{"forecastday":[{"date":"2024-05-01","day":{"maxtemp_c":21,"mintemp_c":11}},{"date":"2024-05-02","day":{"maxtemp_c":23,"mintemp_c":12}},{"date":"2024-05-03","day":{"maxtemp_c":19,"mintemp_c":10}}]}}`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestFetchCurrent(t *testing.T) {
	srv := newTestServer(t)
	c := NewClient(ClientOptions{BaseURL: srv.URL})
	t.Cleanup(func() { _ = c.Close() })

	got, err := c.FetchCurrent(context.Background(), "k1", "Berlin")
	if err != nil {
		t.Fatalf("FetchCurrent: %v", err)
	}
	if got.Location.Name != "Berlin" || got.Current.TempC != 12.4 {
		t.Fatalf("unexpected payload: %+v", got)
	}
	if id := got.Current.Condition.IconID(); id != "weather/64x64/day/113.png" {
		t.Fatalf("IconID = %q", id)
	}
}

func TestFetchCurrentAPIError(t *testing.T) {
	srv := newTestServer(t)
	c := NewClient(ClientOptions{BaseURL: srv.URL})

	_, err := c.FetchCurrent(context.Background(), "k1", "Nowhere123")
	var fe *FetchError
	if !errors.As(err, &fe) {
		t.Fatalf("expected FetchError, got %v", err)
	}
	if fe.Status != http.StatusBadRequest || fe.Code != 1006 || fe.Subject != "Nowhere123" {
		t.Fatalf("unexpected error fields: %+v", fe)
	}

	_, err = c.FetchCurrent(context.Background(), "wrong", "Berlin")
	if !errors.As(err, &fe) || fe.Status != http.StatusUnauthorized {
		t.Fatalf("expected 401 FetchError, got %v", err)
	}
}

func TestFetchCurrentEmptyPayload(t *testing.T) {
	srv := newTestServer(t)
	c := NewClient(ClientOptions{BaseURL: srv.URL})
	_, err := c.FetchCurrent(context.Background(), "k1", "Empty")
	if !errors.Is(err, ErrNoData) {
		t.Fatalf("expected ErrNoData, got %v", err)
	}
}

func TestFetchBlankKeyMakesNoRequest(t *testing.T) {
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { hits++ }))
	t.Cleanup(srv.Close)
	c := NewClient(ClientOptions{BaseURL: srv.URL})
	if _, err := c.FetchCurrent(context.Background(), "  ", "Berlin"); !errors.Is(err, ErrNoAPIKey) {
		t.Fatalf("expected ErrNoAPIKey, got %v", err)
	}
	if hits != 0 {
		t.Fatalf("server was hit %d times", hits)
	}
}

func TestFetchAstronomyAndForecast(t *testing.T) {
	srv := newTestServer(t)
	c := NewClient(ClientOptions{BaseURL: srv.URL})

	astro, err := c.FetchAstronomy(context.Background(), "k1", "Oslo")
	if err != nil {
		t.Fatalf("FetchAstronomy: %v", err)
	}
	if astro.Astronomy.Astro.MoonPhase != "Waxing Gibbous" {
		t.Fatalf("moon phase = %q", astro.Astronomy.Astro.MoonPhase)
	}

	fc, err := c.FetchForecast(context.Background(), "k1", "Rome", 0)
	if err != nil {
		t.Fatalf("FetchForecast: %v", err)
	}
	if len(fc.Forecast.Days) != 3 {
		t.Fatalf("days = %d, want 3", len(fc.Forecast.Days))
	}
}

func TestConditionIconIDWithoutMarker(t *testing.T) {
	if id := (Condition{Icon: "https://example.com/x.png"}).IconID(); id != "" {
		t.Fatalf("IconID = %q, want empty", id)
	}
}

type countingFetcher struct{ calls int }

func (f *countingFetcher) FetchCurrent(context.Context, string, string) (*Current, error) {
	f.calls++
	return &Current{Location: Location{Name: "x"}}, nil
}
func (f *countingFetcher) FetchAstronomy(context.Context, string, string) (*Astronomy, error) {
	f.calls++
	return &Astronomy{}, nil
}
func (f *countingFetcher) FetchForecast(context.Context, string, string, int) (*Forecast, error) {
	f.calls++
	return &Forecast{}, nil
}

func TestRateLimitedFetcherHonoursContext(t *testing.T) {
	inner := &countingFetcher{}
	rl := NewRateLimitedFetcher(inner, 0.001, 1)

	if _, err := rl.FetchCurrent(context.Background(), "k", "a"); err != nil {
		t.Fatalf("first call should use the burst: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := rl.FetchCurrent(ctx, "k", "b")
	var fe *FetchError
	if !errors.As(err, &fe) {
		t.Fatalf("expected FetchError from limiter, got %v", err)
	}
	if inner.calls != 1 {
		t.Fatalf("inner calls = %d, want 1", inner.calls)
	}
}

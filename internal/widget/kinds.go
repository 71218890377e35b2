package widget

import (
	"context"
	"strings"
	"time"

	"github.com/rook-computer/weatherdeck/internal/state"
	"github.com/rook-computer/weatherdeck/internal/weather"
)

func fetchCurrent(ctx context.Context, f weather.Fetcher, apiKey, subject string) (state.Record, error) {
	cur, err := f.FetchCurrent(ctx, apiKey, subject)
	if err != nil {
		return state.Record{}, err
	}
	return state.Record{Subject: subject, Current: cur}, nil
}

func temperatureFacet(rec state.Record, opts state.DisplayOptions, showTitle bool) (Facet, bool) {
	if rec.Current == nil {
		return Facet{}, false
	}
	c := rec.Current.Current
	return Facet{
		Title:     rec.DisplayName(),
		ShowTitle: showTitle && rec.DisplayName() != "",
		Value:     formatTemp(c.TempC, c.TempF, opts.Unit()),
		Icon:      c.Condition.IconID(),
	}, true
}

// CurrentKind shows the temperature of one place.
type CurrentKind struct{}

func (CurrentKind) Name() string       { return "current" }
func (CurrentKind) MultiSubject() bool { return false }
func (CurrentKind) Defaults() Cooldowns {
	return Cooldowns{Fetch: 15 * time.Minute, Swipe: 30 * time.Second}
}

func (CurrentKind) Fetch(ctx context.Context, f weather.Fetcher, apiKey, subject string, _ state.DisplayOptions) (state.Record, error) {
	return fetchCurrent(ctx, f, apiKey, subject)
}

func (CurrentKind) SlideCount(data []state.Record) int {
	if len(data) > 0 && data[0].Current != nil {
		return 1
	}
	return 0
}

func (k CurrentKind) FacetAt(data []state.Record, index int, opts state.DisplayOptions) (Facet, bool) {
	if index != 0 || k.SlideCount(data) == 0 {
		return Facet{}, false
	}
	return temperatureFacet(data[0], opts, opts.ShowTitle())
}

// MultiKind cycles through the temperature of several places. Each slide is
// titled with its city.
type MultiKind struct{}

func (MultiKind) Name() string       { return "multi" }
func (MultiKind) MultiSubject() bool { return true }
func (MultiKind) Defaults() Cooldowns {
	return Cooldowns{Fetch: 5 * time.Minute, Swipe: 30 * time.Second}
}

func (MultiKind) Fetch(ctx context.Context, f weather.Fetcher, apiKey, subject string, _ state.DisplayOptions) (state.Record, error) {
	return fetchCurrent(ctx, f, apiKey, subject)
}

func (MultiKind) SlideCount(data []state.Record) int { return len(data) }

func (MultiKind) FacetAt(data []state.Record, index int, opts state.DisplayOptions) (Facet, bool) {
	if index < 0 || index >= len(data) {
		return Facet{}, false
	}
	return temperatureFacet(data[index], opts, true)
}

// AstronomyKind cycles sun and moon times for one place.
type AstronomyKind struct{}

const astronomySlides = 5

func (AstronomyKind) Name() string       { return "astronomy" }
func (AstronomyKind) MultiSubject() bool { return false }
func (AstronomyKind) Defaults() Cooldowns {
	return Cooldowns{Fetch: time.Hour, Swipe: 10 * time.Second}
}

func (AstronomyKind) Fetch(ctx context.Context, f weather.Fetcher, apiKey, subject string, _ state.DisplayOptions) (state.Record, error) {
	a, err := f.FetchAstronomy(ctx, apiKey, subject)
	if err != nil {
		return state.Record{}, err
	}
	return state.Record{Subject: subject, Astronomy: a}, nil
}

func (AstronomyKind) SlideCount(data []state.Record) int {
	if len(data) > 0 && data[0].Astronomy != nil {
		return astronomySlides
	}
	return 0
}

func (k AstronomyKind) FacetAt(data []state.Record, index int, _ state.DisplayOptions) (Facet, bool) {
	if index < 0 || index >= k.SlideCount(data) {
		return Facet{}, false
	}
	rec := data[0]
	astro := rec.Astronomy.Astronomy.Astro
	var value, icon string
	switch index {
	case 0:
		value, icon = astro.Sunrise, "sunrise"
	case 1:
		value, icon = astro.Sunset, "sunset"
	case 2:
		value, icon = astro.Moonrise, "moonrise"
	case 3:
		value, icon = astro.Moonset, "moonset"
	case 4:
		value, icon = astro.MoonPhase, strings.ToLower(astro.MoonPhase)
	}
	if value == "" {
		return Facet{}, false
	}
	return Facet{Title: rec.Subject, ShowTitle: true, Value: value, Icon: "astronomy/" + icon + ".png"}, true
}

// ForecastKind cycles through the coming days for one place.
type ForecastKind struct{}

func (ForecastKind) Name() string       { return "forecast" }
func (ForecastKind) MultiSubject() bool { return false }
func (ForecastKind) Defaults() Cooldowns {
	return Cooldowns{Fetch: time.Hour, Swipe: 10 * time.Second}
}

func (ForecastKind) Fetch(ctx context.Context, f weather.Fetcher, apiKey, subject string, opts state.DisplayOptions) (state.Record, error) {
	fc, err := f.FetchForecast(ctx, apiKey, subject, opts.Days(weather.DefaultForecastDays))
	if err != nil {
		return state.Record{}, err
	}
	return state.Record{Subject: subject, Forecast: fc}, nil
}

func (ForecastKind) SlideCount(data []state.Record) int {
	if len(data) == 0 || data[0].Forecast == nil {
		return 0
	}
	return len(data[0].Forecast.Forecast.Days)
}

func (k ForecastKind) FacetAt(data []state.Record, index int, opts state.DisplayOptions) (Facet, bool) {
	if index < 0 || index >= k.SlideCount(data) {
		return Facet{}, false
	}
	day := data[0].Forecast.Forecast.Days[index]
	return Facet{
		Title:     weekday(day.Date),
		ShowTitle: true,
		Value:     formatRange(day.Day.MaxTempC, day.Day.MinTempC, day.Day.MaxTempF, day.Day.MinTempF, opts.Unit()),
		Icon:      day.Day.Condition.IconID(),
	}, true
}

// DetailsKind cycles through the current conditions of one place.
type DetailsKind struct{}

var detailFacets = []string{"temperature", "feelslike", "humidity", "wind", "pressure", "uv"}

var detailTitles = map[string]string{
	"temperature": "Temp",
	"feelslike":   "Feels like",
	"humidity":    "Humidity",
	"wind":        "Wind",
	"pressure":    "Pressure",
	"uv":          "UV index",
}

func (DetailsKind) Name() string       { return "details" }
func (DetailsKind) MultiSubject() bool { return false }
func (DetailsKind) Defaults() Cooldowns {
	return Cooldowns{Fetch: 15 * time.Minute, Swipe: 10 * time.Second}
}

func (DetailsKind) Fetch(ctx context.Context, f weather.Fetcher, apiKey, subject string, _ state.DisplayOptions) (state.Record, error) {
	return fetchCurrent(ctx, f, apiKey, subject)
}

func (DetailsKind) SlideCount(data []state.Record) int {
	if len(data) > 0 && data[0].Current != nil {
		return len(detailFacets)
	}
	return 0
}

func (k DetailsKind) FacetAt(data []state.Record, index int, opts state.DisplayOptions) (Facet, bool) {
	if index < 0 || index >= k.SlideCount(data) {
		return Facet{}, false
	}
	c := data[0].Current.Current
	name := detailFacets[index]
	f := Facet{Title: detailTitles[name], ShowTitle: true, Icon: "details/" + name + ".png"}
	switch name {
	case "temperature":
		f.Value = formatTemp(c.TempC, c.TempF, opts.Unit())
		f.Icon = c.Condition.IconID()
	case "feelslike":
		f.Value = formatTemp(c.FeelsLikeC, c.FeelsLikeF, opts.Unit())
	case "humidity":
		f.Value = formatPercent(c.Humidity)
	case "wind":
		f.Value = formatWind(c.WindKph, c.WindMph, c.WindDir, opts.Speed())
	case "pressure":
		f.Value = formatPressure(c.PressureMb, c.PressureIn, opts.Unit())
	case "uv":
		f.Value = formatUV(c.UV)
	}
	return f, true
}

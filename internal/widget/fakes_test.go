package widget

import (
	"context"
	"fmt"
	"image"
	"sync"
	"time"

	"github.com/rook-computer/weatherdeck/internal/state"
	"github.com/rook-computer/weatherdeck/internal/weather"
)

type fakeFetcher struct {
	mu    sync.Mutex
	fail  map[string]bool
	temps map[string]float64
	calls []string
	// block, when set, is waited on inside every fetch.
	block chan struct{}
	// entered is signalled once per fetch before blocking.
	entered chan struct{}
}

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{fail: map[string]bool{}, temps: map[string]float64{}}
}

func (f *fakeFetcher) record(op, subject string) error {
	f.mu.Lock()
	f.calls = append(f.calls, op+":"+subject)
	fail := f.fail[subject]
	block, entered := f.block, f.entered
	f.mu.Unlock()
	if entered != nil {
		entered <- struct{}{}
	}
	if block != nil {
		<-block
	}
	if fail {
		return &weather.FetchError{Op: op, Subject: subject, Status: 400, Code: 1006, Message: "No matching location found."}
	}
	return nil
}

func (f *fakeFetcher) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeFetcher) setFail(subject string, fail bool) {
	f.mu.Lock()
	f.fail[subject] = fail
	f.mu.Unlock()
}

func (f *fakeFetcher) FetchCurrent(ctx context.Context, apiKey, subject string) (*weather.Current, error) {
	if err := f.record("current", subject); err != nil {
		return nil, err
	}
	f.mu.Lock()
	temp := f.temps[subject]
	f.mu.Unlock()
	return &weather.Current{
		Location: weather.Location{Name: subject},
		Current: weather.CurrentConditions{
			TempC:      temp,
			TempF:      temp*9/5 + 32,
			Condition:  weather.Condition{Text: "Sunny", Icon: "//cdn.weatherapi.com/weather/64x64/day/113.png"},
			Humidity:   65,
			WindKph:    14.8,
			WindMph:    9.2,
			WindDir:    "NW",
			PressureMb: 1012,
			PressureIn: 29.88,
			UV:         3,
		},
	}, nil
}

func (f *fakeFetcher) FetchAstronomy(ctx context.Context, apiKey, subject string) (*weather.Astronomy, error) {
	if err := f.record("astronomy", subject); err != nil {
		return nil, err
	}
	a := &weather.Astronomy{Location: weather.Location{Name: subject}}
	a.Astronomy.Astro = weather.Astro{Sunrise: "05:01 AM", Sunset: "09:40 PM", Moonrise: "11:02 PM", Moonset: "06:13 AM", MoonPhase: "Waxing Gibbous"}
	return a, nil
}

func (f *fakeFetcher) FetchForecast(ctx context.Context, apiKey, subject string, days int) (*weather.Forecast, error) {
	if err := f.record(fmt.Sprintf("forecast%d", days), subject); err != nil {
		return nil, err
	}
	fc := &weather.Forecast{Location: weather.Location{Name: subject}}
	start := time.Date(2024, 5, 6, 0, 0, 0, 0, time.UTC) // a Monday
	for i := 0; i < days; i++ {
		d := weather.ForecastDay{Date: start.AddDate(0, 0, i).Format("2006-01-02")}
		d.Day.MaxTempC, d.Day.MinTempC = 21.4, 10.6
		d.Day.MaxTempF, d.Day.MinTempF = 70.5, 51.1
		d.Day.Condition.Icon = "//cdn.weatherapi.com/weather/64x64/day/116.png"
		fc.Forecast.Days = append(fc.Forecast.Days, d)
	}
	return fc, nil
}

type fakeSurface struct {
	mu      sync.Mutex
	renders int
	alerts  int
	err     error
}

func (s *fakeSurface) Size() image.Point { return image.Pt(144, 144) }

func (s *fakeSurface) RenderSurface(ctx context.Context, img image.Image) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.renders++
	return nil
}

func (s *fakeSurface) ShowAlert(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.alerts++
	return nil
}

func (s *fakeSurface) setErr(err error) {
	s.mu.Lock()
	s.err = err
	s.mu.Unlock()
}

func (s *fakeSurface) counts() (renders, alerts int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.renders, s.alerts
}

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

type recordingLogger struct {
	mu     sync.Mutex
	errors []string
}

func (l *recordingLogger) Infof(string, string, ...interface{}) {}
func (l *recordingLogger) Errorf(component, format string, args ...interface{}) {
	l.mu.Lock()
	l.errors = append(l.errors, component+": "+fmt.Sprintf(format, args...))
	l.mu.Unlock()
}

func (l *recordingLogger) count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.errors)
}

func currentRecord(subject string, temp float64) state.Record {
	return state.Record{Subject: subject, Current: &weather.Current{
		Location: weather.Location{Name: subject},
		Current:  weather.CurrentConditions{TempC: temp, TempF: temp*9/5 + 32},
	}}
}

package weather

import (
	"context"
	"fmt"
	"hash/fnv"
	"net/http"
	"strings"
	"sync/atomic"
	"time"
)

// Faults selects which synthetic fetches fail.
type Faults struct {
	FailAll      bool     `json:"failAll"`
	FailSubjects []string `json:"failSubjects"`
}

func (f Faults) fails(subject string) bool {
	if f.FailAll {
		return true
	}
	for _, s := range f.FailSubjects {
		if strings.EqualFold(s, subject) {
			return true
		}
	}
	return false
}

// Synthetic is an offline Fetcher that derives stable weather from the
// subject name. Used by the simulator and tests.
type Synthetic struct {
	Clock func() time.Time

	faults atomic.Pointer[Faults]
	calls  atomic.Int64
}

func NewSynthetic() *Synthetic {
	s := &Synthetic{Clock: time.Now}
	s.faults.Store(&Faults{})
	return s
}

func (s *Synthetic) SetFaults(f Faults) { s.faults.Store(&f) }
func (s *Synthetic) Faults() Faults     { return *s.faults.Load() }

// Calls counts fetches attempted, failed ones included.
func (s *Synthetic) Calls() int64 { return s.calls.Load() }

var syntheticConditions = []Condition{
	{Text: "Sunny", Code: 1000, Icon: "//cdn.weatherapi.com/weather/64x64/day/113.png"},
	{Text: "Partly cloudy", Code: 1003, Icon: "//cdn.weatherapi.com/weather/64x64/day/116.png"},
	{Text: "Overcast", Code: 1009, Icon: "//cdn.weatherapi.com/weather/64x64/day/122.png"},
	{Text: "Light rain", Code: 1183, Icon: "//cdn.weatherapi.com/weather/64x64/day/296.png"},
	{Text: "Moderate snow", Code: 1219, Icon: "//cdn.weatherapi.com/weather/64x64/day/332.png"},
}

var syntheticPhases = []string{
	"New Moon", "Waxing Crescent", "First Quarter", "Waxing Gibbous",
	"Full Moon", "Waning Gibbous", "Last Quarter", "Waning Crescent",
}

func (s *Synthetic) begin(ctx context.Context, op, apiKey, subject string) (uint32, error) {
	s.calls.Add(1)
	if err := ctx.Err(); err != nil {
		return 0, &FetchError{Op: op, Subject: subject, Err: err}
	}
	if strings.TrimSpace(apiKey) == "" {
		return 0, ErrNoAPIKey
	}
	if s.faults.Load().fails(subject) {
		return 0, &FetchError{Op: op, Subject: subject, Status: http.StatusBadRequest, Code: 1006, Message: "No matching location found."}
	}
	h := fnv.New32a()
	h.Write([]byte(strings.ToLower(subject)))
	return h.Sum32(), nil
}

func syntheticLocation(subject string, seed uint32) Location {
	return Location{
		Name:    subject,
		Country: "Simulated",
		Lat:     float64(seed%18000)/100 - 90,
		Lon:     float64(seed/7%36000)/100 - 180,
		TZID:    "UTC",
	}
}

func cToF(c float64) float64 { return c*9/5 + 32 }

func syntheticNow(seed uint32) CurrentConditions {
	tc := float64(int(seed%45) - 10)
	fl := tc - float64(seed%4)
	wind := float64(seed % 40)
	press := float64(980 + seed%60)
	return CurrentConditions{
		TempC:      tc,
		TempF:      cToF(tc),
		IsDay:      1,
		Condition:  syntheticConditions[seed%uint32(len(syntheticConditions))],
		WindKph:    wind,
		WindMph:    wind / 1.609,
		WindDir:    []string{"N", "NE", "E", "SE", "S", "SW", "W", "NW"}[seed%8],
		PressureMb: press,
		PressureIn: press * 0.02953,
		Humidity:   int(30 + seed%65),
		FeelsLikeC: fl,
		FeelsLikeF: cToF(fl),
		UV:         float64(seed % 11),
	}
}

func (s *Synthetic) FetchCurrent(ctx context.Context, apiKey, subject string) (*Current, error) {
	seed, err := s.begin(ctx, "current", apiKey, subject)
	if err != nil {
		return nil, err
	}
	c := &Current{Location: syntheticLocation(subject, seed), Current: syntheticNow(seed)}
	c.Current.LastUpdated = s.Clock().UTC().Format("2006-01-02 15:04")
	return c, nil
}

func (s *Synthetic) FetchAstronomy(ctx context.Context, apiKey, subject string) (*Astronomy, error) {
	seed, err := s.begin(ctx, "astronomy", apiKey, subject)
	if err != nil {
		return nil, err
	}
	a := &Astronomy{Location: syntheticLocation(subject, seed)}
	a.Astronomy.Astro = syntheticAstro(seed, 0)
	return a, nil
}

func syntheticAstro(seed uint32, day int) Astro {
	m := int(seed%40) + day
	return Astro{
		Sunrise:          fmt.Sprintf("%02d:%02d AM", 5+m%3, m%60),
		Sunset:           fmt.Sprintf("%02d:%02d PM", 6+m%3, (m*7)%60),
		Moonrise:         fmt.Sprintf("%02d:%02d PM", 1+m%11, (m*3)%60),
		Moonset:          fmt.Sprintf("%02d:%02d AM", 1+m%11, (m*5)%60),
		MoonPhase:        syntheticPhases[(int(seed)+day)%len(syntheticPhases)],
		MoonIllumination: fmt.Sprintf("%d", (m*13)%101),
	}
}

func (s *Synthetic) FetchForecast(ctx context.Context, apiKey, subject string, days int) (*Forecast, error) {
	seed, err := s.begin(ctx, "forecast", apiKey, subject)
	if err != nil {
		return nil, err
	}
	if days <= 0 {
		days = DefaultForecastDays
	}
	f := &Forecast{Location: syntheticLocation(subject, seed), Current: syntheticNow(seed)}
	start := s.Clock().UTC().Truncate(24 * time.Hour)
	for i := 0; i < days; i++ {
		d := start.AddDate(0, 0, i)
		ds := seed + uint32(i)*7919
		lo := float64(int(ds%30) - 8)
		hi := lo + float64(3+ds%9)
		f.Forecast.Days = append(f.Forecast.Days, ForecastDay{
			Date:      d.Format("2006-01-02"),
			DateEpoch: d.Unix(),
			Day: Day{
				MaxTempC:          hi,
				MaxTempF:          cToF(hi),
				MinTempC:          lo,
				MinTempF:          cToF(lo),
				AvgTempC:          (hi + lo) / 2,
				AvgTempF:          cToF((hi + lo) / 2),
				AvgHumidity:       float64(30 + ds%65),
				DailyChanceOfRain: int(ds % 101),
				Condition:         syntheticConditions[ds%uint32(len(syntheticConditions))],
				UV:                float64(ds % 11),
			},
			Astro: syntheticAstro(seed, i),
		})
	}
	return f, nil
}

var _ Fetcher = (*Synthetic)(nil)

package widget

import (
	"context"
	"testing"

	"github.com/rook-computer/weatherdeck/internal/state"
)

func fetchOne(t *testing.T, k Kind, subject string, opts state.DisplayOptions) []state.Record {
	t.Helper()
	f := newFakeFetcher()
	f.temps[subject] = 12.4
	rec, err := k.Fetch(context.Background(), f, "key", subject, opts)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	return []state.Record{rec}
}

func TestCurrentKindUnits(t *testing.T) {
	data := fetchOne(t, CurrentKind{}, "Berlin", nil)
	f, ok := CurrentKind{}.FacetAt(data, 0, state.DisplayOptions{state.OptionUnit: "f", state.OptionTitle: "1"})
	if !ok {
		t.Fatalf("no facet")
	}
	if f.Value != "54 °F" || f.Title != "Berlin" || !f.ShowTitle {
		t.Fatalf("facet = %+v", f)
	}
	if f.Icon != "weather/64x64/day/113.png" {
		t.Fatalf("icon = %q", f.Icon)
	}
	f, _ = CurrentKind{}.FacetAt(data, 0, nil)
	if f.Value != "12 °C" || f.ShowTitle {
		t.Fatalf("facet = %+v", f)
	}
	if _, ok := (CurrentKind{}).FacetAt(data, 1, nil); ok {
		t.Fatalf("current has a single slide")
	}
	if _, ok := (CurrentKind{}).FacetAt(nil, 0, nil); ok {
		t.Fatalf("facet without data")
	}
}

func TestMultiKindTitlesEachCity(t *testing.T) {
	data := []state.Record{currentRecord("Paris", 21), currentRecord("Lima", 15)}
	for i, city := range []string{"Paris", "Lima"} {
		f, ok := MultiKind{}.FacetAt(data, i, nil)
		if !ok || f.Title != city || !f.ShowTitle {
			t.Fatalf("slide %d = %+v", i, f)
		}
	}
	if _, ok := (MultiKind{}).FacetAt(data, 2, nil); ok {
		t.Fatalf("facet past the last city")
	}
}

func TestAstronomyKindSlides(t *testing.T) {
	k := AstronomyKind{}
	data := fetchOne(t, k, "Oslo", nil)
	if n := k.SlideCount(data); n != 5 {
		t.Fatalf("SlideCount = %d", n)
	}
	want := []struct{ value, icon string }{
		{"05:01 AM", "astronomy/sunrise.png"},
		{"09:40 PM", "astronomy/sunset.png"},
		{"11:02 PM", "astronomy/moonrise.png"},
		{"06:13 AM", "astronomy/moonset.png"},
		{"Waxing Gibbous", "astronomy/waxing gibbous.png"},
	}
	for i, w := range want {
		f, ok := k.FacetAt(data, i, nil)
		if !ok || f.Value != w.value || f.Icon != w.icon || f.Title != "Oslo" || !f.ShowTitle {
			t.Fatalf("slide %d = %+v", i, f)
		}
	}
}

func TestForecastKindSlides(t *testing.T) {
	k := ForecastKind{}
	data := fetchOne(t, k, "Rome", state.DisplayOptions{state.OptionDays: "2"})
	if n := k.SlideCount(data); n != 2 {
		t.Fatalf("SlideCount = %d", n)
	}
	f, ok := k.FacetAt(data, 1, nil)
	if !ok || f.Title != "Tue 07" || f.Value != "21°/11°" {
		t.Fatalf("facet = %+v", f)
	}
	f, _ = k.FacetAt(data, 0, state.DisplayOptions{state.OptionUnit: "f"})
	if f.Value != "71°/51°" {
		t.Fatalf("fahrenheit range = %q", f.Value)
	}
}

func TestDetailsKindSlides(t *testing.T) {
	k := DetailsKind{}
	data := fetchOne(t, k, "Vienna", nil)
	if n := k.SlideCount(data); n != 6 {
		t.Fatalf("SlideCount = %d", n)
	}
	got := map[string]string{}
	for i := 0; i < 6; i++ {
		f, ok := k.FacetAt(data, i, state.DisplayOptions{state.OptionSpeed: "mph"})
		if !ok {
			t.Fatalf("slide %d missing", i)
		}
		got[f.Title] = f.Value
	}
	if got["Humidity"] != "65 %" || got["Wind"] != "9 mph NW" || got["Pressure"] != "1012 mb" || got["UV index"] != "3" {
		t.Fatalf("details = %v", got)
	}
}

func TestKindByName(t *testing.T) {
	for _, name := range []string{"current", "multi", "astronomy", "forecast", "details"} {
		k, err := KindByName(name)
		if err != nil || k.Name() != name {
			t.Fatalf("KindByName(%q) = %v, %v", name, k, err)
		}
	}
	if _, err := KindByName("radar"); err == nil {
		t.Fatalf("unknown kind accepted")
	}
}

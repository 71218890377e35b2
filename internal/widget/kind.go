// Package widget is the polling-and-carousel core: each Controller refreshes
// its data on a fetch cooldown, cycles slides on a swipe cooldown or a press,
// and paints the current slide onto its surface.
package widget

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/rook-computer/weatherdeck/internal/state"
	"github.com/rook-computer/weatherdeck/internal/weather"
)

// Facet is the content of one slide.
type Facet struct {
	Title     string
	ShowTitle bool
	Value     string
	// Icon is resolved through a render.IconSource.
	Icon string
}

// Cooldowns are a kind's default timings.
type Cooldowns struct {
	Fetch time.Duration
	Swipe time.Duration
}

// Kind is the strategy that distinguishes widget variants. Implementations are
// stateless.
type Kind interface {
	Name() string
	// MultiSubject kinds fetch every subject; the others only the first.
	MultiSubject() bool
	Defaults() Cooldowns
	Fetch(ctx context.Context, f weather.Fetcher, apiKey, subject string, opts state.DisplayOptions) (state.Record, error)
	SlideCount(data []state.Record) int
	// FacetAt returns the slide at index, or false when there is none.
	FacetAt(data []state.Record, index int, opts state.DisplayOptions) (Facet, bool)
}

var kinds = map[string]Kind{}

func register(k Kind) { kinds[k.Name()] = k }

func init() {
	register(CurrentKind{})
	register(MultiKind{})
	register(AstronomyKind{})
	register(ForecastKind{})
	register(DetailsKind{})
}

// KindByName looks up a registered kind.
func KindByName(name string) (Kind, error) {
	k, ok := kinds[name]
	if !ok {
		return nil, fmt.Errorf("unknown widget kind %q (known: %v)", name, KindNames())
	}
	return k, nil
}

func KindNames() []string {
	names := make([]string, 0, len(kinds))
	for n := range kinds {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Package state holds the per-widget carousel state, the process-wide global
// configuration, and the persistence of both.
package state

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rook-computer/weatherdeck/internal/weather"
)

// Never is the "not yet fetched" sentinel for LastRefresh. Any cooldown is due from it.
var Never = time.Time{}

// Record is one successful payload for one subject. Exactly one payload field is set.
type Record struct {
	Subject   string             `json:"subject"`
	Current   *weather.Current   `json:"current,omitempty"`
	Astronomy *weather.Astronomy `json:"astronomy,omitempty"`
	Forecast  *weather.Forecast  `json:"forecast,omitempty"`
}

// DisplayName is the resolved place name when the API returned one.
func (r Record) DisplayName() string {
	switch {
	case r.Current != nil && r.Current.Location.Name != "":
		return r.Current.Location.Name
	case r.Astronomy != nil && r.Astronomy.Location.Name != "":
		return r.Astronomy.Location.Name
	case r.Forecast != nil && r.Forecast.Location.Name != "":
		return r.Forecast.Location.Name
	}
	return r.Subject
}

// Option keys understood by the widget kinds.
const (
	OptionUnit  = "unit"  // "c" or "f"
	OptionSpeed = "speed" // "kph" or "mph"
	OptionTitle = "title" // "1" shows the title line
	OptionDays  = "days"  // forecast length
)

// DisplayOptions are the non-structural per-widget flags.
type DisplayOptions map[string]string

func (o DisplayOptions) Unit() string {
	if strings.EqualFold(o[OptionUnit], "f") {
		return "f"
	}
	return "c"
}

func (o DisplayOptions) Speed() string {
	if strings.EqualFold(o[OptionSpeed], "mph") {
		return "mph"
	}
	return "kph"
}

func (o DisplayOptions) ShowTitle() bool {
	return o[OptionTitle] == "1"
}

// Days returns the forecast length, falling back to def for missing or invalid values.
func (o DisplayOptions) Days(def int) int {
	n, err := strconv.Atoi(o[OptionDays])
	if err != nil || n <= 0 {
		return def
	}
	return n
}

func (o DisplayOptions) Clone() DisplayOptions {
	if o == nil {
		return nil
	}
	out := make(DisplayOptions, len(o))
	for k, v := range o {
		out[k] = v
	}
	return out
}

// WidgetState is everything a widget remembers between ticks. It is only
// mutated by the cycle holding the widget's guard.
type WidgetState struct {
	Subjects    []string       `json:"subjects"`
	Data        []Record       `json:"data,omitempty"`
	LastRefresh time.Time      `json:"lastRefresh"`
	LastAdvance time.Time      `json:"lastAdvance"`
	Cursor      int            `json:"cursor"`
	Options     DisplayOptions `json:"options,omitempty"`

	// Initialized is true once the first slide has been painted in this process.
	Initialized bool `json:"-"`
}

// NewWidgetState returns a state that has never fetched and starts its swipe cooldown at now.
func NewWidgetState(subjects []string, opts DisplayOptions, now time.Time) WidgetState {
	return WidgetState{
		Subjects:    cloneStrings(subjects),
		LastRefresh: Never,
		LastAdvance: now,
		Options:     opts.Clone(),
	}
}

// HasData reports whether at least one payload is cached.
func (s WidgetState) HasData() bool { return len(s.Data) > 0 }

// Clone copies the slices and map so the copy can be handed to readers.
// Payload pointers are shared; they are never mutated after a fetch.
func (s WidgetState) Clone() WidgetState {
	out := s
	out.Subjects = cloneStrings(s.Subjects)
	if s.Data != nil {
		out.Data = append([]Record(nil), s.Data...)
	}
	out.Options = s.Options.Clone()
	return out
}

func (s WidgetState) Marshal() ([]byte, error) {
	return json.Marshal(s)
}

// UnmarshalWidgetState decodes a persisted blob. The result is never initialized.
func UnmarshalWidgetState(blob []byte) (WidgetState, error) {
	var s WidgetState
	if err := json.Unmarshal(blob, &s); err != nil {
		return WidgetState{}, fmt.Errorf("decode widget state: %w", err)
	}
	if s.Cursor < 0 {
		s.Cursor = 0
	}
	return s, nil
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}

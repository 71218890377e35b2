package state

import (
	"strings"
	"time"
)

// Settings is an incoming settings change for one widget. A nil Cities leaves
// the subjects alone; an empty option value removes the option.
type Settings struct {
	Cities  *string           `json:"cities,omitempty"`
	Options map[string]string `json:"options,omitempty"`
}

// ParseSubjects splits a comma list into trimmed, non-empty place names.
func ParseSubjects(list string) []string {
	var out []string
	for _, part := range strings.Split(list, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Reconcile merges next into s. When anything changed the fetch cooldown is
// reset to Never and the swipe cooldown restarts at now, and true is returned
// so the caller forces a refresh and persists.
func Reconcile(s *WidgetState, next Settings, now time.Time) bool {
	changed := false
	if next.Cities != nil {
		subjects := ParseSubjects(*next.Cities)
		if !equalStrings(s.Subjects, subjects) {
			s.Subjects = subjects
			changed = true
		}
	}
	for k, v := range next.Options {
		v = strings.TrimSpace(v)
		old, ok := s.Options[k]
		switch {
		case v == "" && ok:
			delete(s.Options, k)
			changed = true
		case v != "" && old != v:
			if s.Options == nil {
				s.Options = DisplayOptions{}
			}
			s.Options[k] = v
			changed = true
		}
	}
	if changed {
		s.LastRefresh = Never
		s.LastAdvance = now
	}
	return changed
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

package widget

import (
	"context"
	"strings"
	"time"

	"github.com/rook-computer/weatherdeck/internal/carousel"
	"github.com/rook-computer/weatherdeck/internal/state"
	"github.com/rook-computer/weatherdeck/internal/weather"
)

type RefreshOutcome int

const (
	// RefreshSkipped: no key, no subjects, or the fetch cooldown is not due.
	RefreshSkipped RefreshOutcome = iota
	RefreshRefreshed
	// RefreshPartial: at least one subject succeeded and at least one failed.
	RefreshPartial
	// RefreshAllFailed: every subject failed; cached data is untouched.
	RefreshAllFailed
)

func (o RefreshOutcome) String() string {
	switch o {
	case RefreshRefreshed:
		return "refreshed"
	case RefreshPartial:
		return "partial"
	case RefreshAllFailed:
		return "all-failed"
	}
	return "skipped"
}

// Updated reports whether the outcome replaced the cached data.
func (o RefreshOutcome) Updated() bool { return o == RefreshRefreshed || o == RefreshPartial }

type RefreshResult struct {
	Outcome RefreshOutcome
	Errors  []error
}

// Refresher fetches a widget's data when its fetch cooldown is due.
type Refresher struct {
	WidgetID string
	Kind     Kind
	Fetcher  weather.Fetcher
	Cooldown time.Duration
	Logger   Logger
}

// Refresh fetches every subject once, in order, and updates st in place.
// A failing subject is logged and does not stop the others.
func (r *Refresher) Refresh(ctx context.Context, st *state.WidgetState, apiKey string, now time.Time) RefreshResult {
	if strings.TrimSpace(apiKey) == "" || len(st.Subjects) == 0 {
		return RefreshResult{Outcome: RefreshSkipped}
	}
	if !carousel.IsDue(now, st.LastRefresh, r.Cooldown) {
		return RefreshResult{Outcome: RefreshSkipped}
	}

	subjects := st.Subjects
	if !r.Kind.MultiSubject() {
		subjects = subjects[:1]
	}

	var (
		records []state.Record
		errs    []error
	)
	for _, subject := range subjects {
		rec, err := r.Kind.Fetch(ctx, r.Fetcher, apiKey, subject, st.Options)
		if err != nil {
			r.logger().Errorf("refresh", "%s: fetch %q failed: %v", r.WidgetID, subject, err)
			errs = append(errs, err)
			continue
		}
		records = append(records, rec)
	}

	if len(records) == 0 {
		r.logger().Errorf("refresh", "%s: all %d subjects failed", r.WidgetID, len(subjects))
		return RefreshResult{Outcome: RefreshAllFailed, Errors: errs}
	}

	before := r.Kind.SlideCount(st.Data)
	st.Data = records
	st.LastRefresh = now
	after := r.Kind.SlideCount(st.Data)
	if after != before || st.Cursor >= after {
		st.Cursor = 0
	}

	outcome := RefreshRefreshed
	if len(errs) > 0 {
		outcome = RefreshPartial
	}
	r.logger().Infof("refresh", "%s: %s, %d/%d subjects, %d slides", r.WidgetID, outcome, len(records), len(subjects), after)
	return RefreshResult{Outcome: outcome, Errors: errs}
}

func (r *Refresher) logger() Logger {
	if r.Logger == nil {
		return noopLogger{}
	}
	return r.Logger
}

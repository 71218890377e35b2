// Package carousel holds the timing and cycling primitives shared by every widget:
// the cooldown gate, the slide cursor, and the single-flight guard.
package carousel

import "time"

// IsDue reports whether strictly more than cooldown has elapsed since last.
// A cooldown that has elapsed exactly is not yet due.
func IsDue(now, last time.Time, cooldown time.Duration) bool {
	return now.Sub(last) > cooldown
}

package widget

import (
	"fmt"
	"math"
	"time"
)

// formatTemp renders a whole-degree temperature in the requested unit.
func formatTemp(c, f float64, unit string) string {
	if unit == "f" {
		return fmt.Sprintf("%d °F", round(f))
	}
	return fmt.Sprintf("%d °C", round(c))
}

// formatRange renders "max°/min°" for a forecast day.
func formatRange(maxC, minC, maxF, minF float64, unit string) string {
	if unit == "f" {
		return fmt.Sprintf("%d°/%d°", round(maxF), round(minF))
	}
	return fmt.Sprintf("%d°/%d°", round(maxC), round(minC))
}

func formatWind(kph, mph float64, dir, speed string) string {
	v := fmt.Sprintf("%d kph", round(kph))
	if speed == "mph" {
		v = fmt.Sprintf("%d mph", round(mph))
	}
	if dir != "" {
		v += " " + dir
	}
	return v
}

func formatPressure(mb, in float64, unit string) string {
	if unit == "f" {
		return fmt.Sprintf("%.2f in", in)
	}
	return fmt.Sprintf("%d mb", round(mb))
}

// weekday turns "2006-01-02" into "Mon 02"; unparsable dates are returned as is.
func weekday(date string) string {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return date
	}
	return t.Format("Mon 02")
}

func round(v float64) int { return int(math.Round(v)) }

func formatPercent(v int) string { return fmt.Sprintf("%d %%", v) }

func formatUV(v float64) string { return fmt.Sprintf("%.0f", v) }

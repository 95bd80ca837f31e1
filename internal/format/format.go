// Package format turns store values into display strings.
package format

import (
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the display layout used by Date.
const DateLayout = "Jan 2, 2006, 03:04 PM"

// Ended is returned by TimeLeft once the end time has passed.
const Ended = "Ended"

// Currency renders d with exactly two decimal places. Callers append the unit.
func Currency(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// Date renders t as date and time in t's own location.
func Date(t time.Time) string {
	return t.Format(DateLayout)
}

// TimeLeft describes the distance from now to end using the two most significant units.
func TimeLeft(end, now time.Time) string {
	distance := end.Sub(now)
	if distance <= 0 {
		return Ended
	}

	days := int(distance / (24 * time.Hour))
	hours := int(distance % (24 * time.Hour) / time.Hour)
	minutes := int(distance % time.Hour / time.Minute)

	switch {
	case days > 0:
		return fmt.Sprintf("%dd %dh remaining", days, hours)
	case hours > 0:
		return fmt.Sprintf("%dh %dm remaining", hours, minutes)
	default:
		seconds := int(distance % time.Minute / time.Second)
		return fmt.Sprintf("%dm %ds remaining", minutes, seconds)
	}
}

// ProgressPercent is the share of sold tickets, capped at 100.
// Without a cap there is nothing to measure against, so a placeholder of 50 is returned.
func ProgressPercent(sold int, max *int) float64 {
	if max == nil || *max == 0 {
		return 50
	}
	return math.Min(100, float64(sold)/float64(*max)*100)
}

// Truncate shortens text to maxLength runes, appending an ellipsis when cut.
func Truncate(text string, maxLength int) string {
	runes := []rune(text)
	if len(runes) <= maxLength {
		return text
	}
	return string(runes[:maxLength]) + "..."
}

package format

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestCurrency(t *testing.T) {
	cases := []struct {
		in   decimal.Decimal
		want string
	}{
		{decimal.NewFromInt(5), "5.00"},
		{decimal.RequireFromString("12.4"), "12.40"},
		{decimal.RequireFromString("0.005"), "0.01"},
		{decimal.Zero, "0.00"},
		{decimal.RequireFromString("-3.5"), "-3.50"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, Currency(c.in))
	}
}

func TestDate(t *testing.T) {
	d := time.Date(2025, time.March, 7, 15, 4, 0, 0, time.UTC)
	assert.Equal(t, "Mar 7, 2025, 03:04 PM", Date(d))
}

func TestTimeLeft(t *testing.T) {
	now := time.Date(2025, time.January, 1, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		name string
		end  time.Time
		want string
	}{
		{"ninety minutes", now.Add(90 * time.Minute), "1h 30m remaining"},
		{"one second ago", now.Add(-time.Second), "Ended"},
		{"exactly now", now, "Ended"},
		{"days and hours", now.Add(49*time.Hour + 10*time.Minute), "2d 1h remaining"},
		{"minutes and seconds", now.Add(5*time.Minute + 7*time.Second), "5m 7s remaining"},
		{"only seconds", now.Add(42 * time.Second), "0m 42s remaining"},
		{"whole day", now.Add(24 * time.Hour), "1d 0h remaining"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, TimeLeft(c.end, now))
		})
	}
}

func TestProgressPercent(t *testing.T) {
	hundred := 100
	ten := 10
	zero := 0

	assert.InDelta(t, 20.0, ProgressPercent(20, &hundred), 1e-9)
	assert.InDelta(t, 100.0, ProgressPercent(15, &ten), 1e-9)
	assert.InDelta(t, 50.0, ProgressPercent(15, nil), 1e-9)
	assert.InDelta(t, 50.0, ProgressPercent(3, &zero), 1e-9)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "Daily...", Truncate("Daily USDT Draw", 5))
	assert.Equal(t, "ñañ...", Truncate("ñañaña", 3))
}

package util

import (
	"fmt"
	"math"
	"time"

	"github.com/dustin/go-humanize"
)

// FormatNumber abbreviates large counts (1.2K, 3.4M)
func FormatNumber(n uint64) string {
	if n < 1000 {
		return fmt.Sprintf("%d", n)
	} else if n < 1000000 {
		return fmt.Sprintf("%.1fK", float64(n)/1000)
	}
	return fmt.Sprintf("%.1fM", float64(n)/1000000)
}

// FormatTokens renders an exact token count with thousands separators
func FormatTokens(n uint64) string {
	if n > math.MaxInt64 {
		return fmt.Sprintf("%d", n)
	}
	return humanize.Comma(int64(n))
}

func FormatDuration(d time.Duration) string {
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60

	if hours > 0 {
		return fmt.Sprintf("%dh %dm", hours, minutes)
	}
	return fmt.Sprintf("%dm", minutes)
}

// FormatRelative renders a transcript timestamp as "3 hours ago" relative to now.
// Unparseable timestamps are returned as-is.
func FormatRelative(ts string, now time.Time) string {
	t, ok := ParseTimestamp(ts)
	if !ok {
		return ts
	}
	return humanize.RelTime(t, now, "ago", "from now")
}

// FormatCurrency renders a USD amount with thousands separators, e.g. $1,234.50
func FormatCurrency(amount float64) string {
	str := humanize.FormatFloat("#,###.##", math.Abs(amount))
	if amount < 0 && str != "0.00" {
		return "-$" + str
	}
	return "$" + str
}

package util

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"
)

const (
	ColorReset   = "\033[0m"
	ColorCyan    = "\033[36m"
	ColorGreen   = "\033[32m"
	ColorYellow  = "\033[33m"
	ColorRed     = "\033[31m"
	ColorMagenta = "\033[35m"
	ColorBold    = "\033[1m"
)

// GetDisplayWidth calculates the display width of a string, accounting for wide runes and emoji
func GetDisplayWidth(text string) int {
	return runewidth.StringWidth(text)
}

// TruncateToWidth cuts s to at most width display columns, appending "…" when cut
func TruncateToWidth(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return runewidth.Truncate(s, width, "…")
}

// PadToWidth pads s with spaces up to width display columns
func PadToWidth(s string, width int, leftAlign bool) string {
	if leftAlign {
		return runewidth.FillRight(s, width)
	}
	return runewidth.FillLeft(s, width)
}

// CreateProgressBar creates a progress bar with the given percentage and width
func CreateProgressBar(percentage float64, width int) string {
	if width < 3 {
		width = 3
	}
	barWidth := width - 2
	filled := int((percentage / 100) * float64(barWidth))
	if filled > barWidth {
		filled = barWidth
	}
	if filled < 0 {
		filled = 0
	}

	return "[" + strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled) + "]"
}

// PercentageColor picks green/yellow/red for a usage percentage
func PercentageColor(percentage float64) string {
	if percentage >= 90 {
		return ColorRed
	}
	if percentage >= 60 {
		return ColorYellow
	}
	return ColorGreen
}

// FormatHeaderTitle formats main header titles (Magenta + Bold)
func FormatHeaderTitle(title string) string {
	return fmt.Sprintf("%s%s%s%s", ColorBold, ColorMagenta, title, ColorReset)
}

// FormatDataTitle formats section titles (Cyan + Bold)
func FormatDataTitle(title string) string {
	return fmt.Sprintf("%s%s%s%s", ColorBold, ColorCyan, title, ColorReset)
}

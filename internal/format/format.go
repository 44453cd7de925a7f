// Package format holds the display helpers shared by templates, feeds and
// emails.
package format

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	humanize "github.com/dustin/go-humanize"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	crore = 10000000
	lakh  = 100000
)

// FormatSalary renders a salary band. A nil or zero bound counts as
// absent. Amounts of a lakh or more are shortened to L and Cr.
func FormatSalary(min, max *int64, currency string) string {
	hasMin := min != nil && *min != 0
	hasMax := max != nil && *max != 0
	if !hasMin && !hasMax {
		return "Not disclosed"
	}
	symbol := CurrencySymbol(currency)
	switch {
	case hasMin && hasMax:
		return fmt.Sprintf("%s%s - %s%s", symbol, formatAmount(*min), symbol, formatAmount(*max))
	case hasMin:
		return fmt.Sprintf("%s%s+", symbol, formatAmount(*min))
	default:
		return fmt.Sprintf("Up to %s%s", symbol, formatAmount(*max))
	}
}

// CurrencySymbol maps INR, and the empty default, to the rupee sign.
// Everything else is shown in dollars.
func CurrencySymbol(currency string) string {
	if currency == "" || currency == "INR" {
		return "₹"
	}
	return "$"
}

func formatAmount(amount int64) string {
	if amount >= crore {
		return fmt.Sprintf("%.1fCr", float64(amount)/crore)
	}
	if amount >= lakh {
		return fmt.Sprintf("%.1fL", float64(amount)/lakh)
	}
	return humanize.Comma(amount)
}

// FormatDate buckets the time elapsed between t and now. Future times
// read as today.
func FormatDate(t, now time.Time) string {
	days := int(now.Sub(t).Hours() / 24)
	switch {
	case days <= 0:
		return "Today"
	case days == 1:
		return "Yesterday"
	case days < 7:
		return fmt.Sprintf("%d days ago", days)
	case days < 30:
		return plural(days/7, "week") + " ago"
	case days < 365:
		return plural(days/30, "month") + " ago"
	default:
		return plural(days/365, "year") + " ago"
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}

func FormatApplicationCount(n int) string {
	switch {
	case n <= 0:
		return "No applications yet"
	case n == 1:
		return "1 application"
	case n < 10:
		return fmt.Sprintf("%d applications", n)
	case n < 50:
		return "10+ applications"
	case n < 100:
		return "50+ applications"
	default:
		return "100+ applications"
	}
}

// TruncateText cuts s to max runes and marks the cut with an ellipsis.
func TruncateText(s string, max int) string {
	if max < 0 {
		max = 0
	}
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	r := []rune(s)
	return strings.TrimSpace(string(r[:max])) + "..."
}

var titleCaser = cases.Title(language.English)

// StatusLabel turns a lower case status tag into a label, "shortlisted"
// becomes "Shortlisted".
func StatusLabel(status string) string {
	return titleCaser.String(status)
}

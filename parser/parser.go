// Package parser holds the normalization helpers shared by the site extractors.
package parser

import (
	"fmt"
	"math"
	"regexp"
	"strings"
)

const (
	// Unknown marks a textual field the source did not provide.
	Unknown = "Unknown"
	// NoPrice marks a listing without a usable price.
	NoPrice = "N/A"

	currencyGlyph = "৳"
)

var (
	nonDigits = regexp.MustCompile(`[^\d]`)
	percentRe = regexp.MustCompile(`\d{1,3}`)
)

// Digits strips every non-digit character from s.
func Digits(s string) string {
	return nonDigits.ReplaceAllString(s, "")
}

// FormatPrice renders a numeric price text with the currency glyph. An empty
// amount yields the NoPrice marker.
func FormatPrice(amount string) string {
	amount = strings.TrimSpace(amount)
	if amount == "" {
		return NoPrice
	}
	return currencyGlyph + " " + amount
}

// DiscountPercent computes the discount between an old and a new price,
// rounded to the nearest whole percent. A non-positive old price yields zero.
func DiscountPercent(oldPrice, newPrice float64) int {
	if oldPrice <= 0 {
		return 0
	}
	return int(math.Round((oldPrice - newPrice) / oldPrice * 100))
}

// PercentString renders an integer percentage for display, e.g. "30%".
func PercentString(p int) string {
	return fmt.Sprintf("%d%%", p)
}

// EmbeddedPercent extracts the first run of up to three digits from offer text
// such as "Save 30 %" or "30% OFF". ok is false when the text has no digits.
func EmbeddedPercent(text string) (percent string, ok bool) {
	m := percentRe.FindString(text)
	if m == "" {
		return "", false
	}
	return m + "%", true
}

// SplitTitleParts interprets a combined "title - author - publisher" string by
// splitting on the dash and assigning by position. One separator yields the
// author only; none yields neither.
func SplitTitleParts(text string) (author, publisher string) {
	author, publisher = Unknown, Unknown
	parts := strings.Split(text, "-")
	if len(parts) >= 3 {
		author = Fallback(parts[1])
		publisher = Fallback(parts[2])
	} else if len(parts) == 2 {
		author = Fallback(parts[1])
	}
	return author, publisher
}

// Fallback trims s and substitutes the Unknown marker when nothing remains.
func Fallback(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return Unknown
	}
	return s
}

package metrics

import (
	"fmt"
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// FormatCount renders a count rounded to units with thousands separators.
func FormatCount(v float64) string {
	return message.NewPrinter(language.English).Sprintf("%d", int64(math.Round(v)))
}

// FormatShare renders a percentage with one decimal.
func FormatShare(v float64) string {
	return fmt.Sprintf("%.1f%%", v)
}

// barText is the label printed next to each bar: count over share.
func barText(g Group) string {
	return FormatCount(g.Count) + "\n" + FormatShare(g.Share)
}

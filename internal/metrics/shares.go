// Package metrics derives the figures of a territory profile: complementary
// share sets from the indicators row and categorical aggregates from the
// business fabric.
package metrics

import (
	"slices"

	"gonum.org/v1/gonum/floats"
)

// Share is one labelled part of a composition, in percent.
type Share struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// Complement returns named followed by a residual share worth
// 100 - sum(named). The residual is not clamped: shares that already sum
// past 100 produce a zero or negative residual.
func Complement(named []Share, residualLabel string) []Share {
	out := slices.Clone(named)
	return append(out, Share{Label: residualLabel, Value: 100 - sumShares(named)})
}

// Total returns the sum of the share values.
func Total(shares []Share) float64 {
	return sumShares(shares)
}

func sumShares(shares []Share) float64 {
	vals := make([]float64, len(shares))
	for i, s := range shares {
		vals[i] = s.Value
	}
	return floats.Sum(vals)
}

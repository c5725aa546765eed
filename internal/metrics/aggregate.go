package metrics

import (
	"cmp"
	"slices"
	"strings"

	"github.com/rotisserie/eris"
	"gonum.org/v1/gonum/floats"

	"github.com/procolombia/territory-profile/internal/frame"
)

// Group is one category of a categorical aggregate.
type Group struct {
	// Keys holds the grouping values; Label is the last of them.
	Keys  []string `json:"keys"`
	Label string   `json:"label"`
	Count float64  `json:"count"`
	// Share is Count as a percentage of the aggregate total.
	Share float64 `json:"share"`
}

// Aggregate is the result of grouping business rows by category.
type Aggregate struct {
	Total  float64 `json:"total"`
	Groups []Group `json:"groups"`
}

// AggregateBy groups rows by the groupBy columns, sums countCol per group,
// and sorts the groups by ascending count. Rows with a null grouping value
// or null count are skipped. Empty input yields a zero total and no groups.
// A missing column is reported as a *frame.LookupError.
func AggregateBy(rows *frame.Frame, countCol string, groupBy ...string) (Aggregate, error) {
	if len(groupBy) == 0 {
		return Aggregate{}, eris.New("metrics: aggregate needs at least one group_by column")
	}
	if rows.Len() == 0 {
		return Aggregate{Groups: []Group{}}, nil
	}
	for _, col := range append([]string{countCol}, groupBy...) {
		if !rows.Has(col) {
			return Aggregate{}, &frame.LookupError{Column: col, Reason: "not in frame"}
		}
	}

	index := make(map[string]int)
	groups := []Group{}
rowLoop:
	for _, r := range rows.Rows() {
		keys := make([]string, len(groupBy))
		for i, col := range groupBy {
			if r.IsNull(col) {
				continue rowLoop
			}
			v, err := r.String(col)
			if err != nil {
				return Aggregate{}, err
			}
			keys[i] = v
		}
		if r.IsNull(countCol) {
			continue
		}
		n, err := r.Float(countCol)
		if err != nil {
			return Aggregate{}, err
		}

		k := strings.Join(keys, "\x00")
		i, ok := index[k]
		if !ok {
			i = len(groups)
			index[k] = i
			groups = append(groups, Group{Keys: keys, Label: keys[len(keys)-1]})
		}
		groups[i].Count += n
	}

	counts := make([]float64, len(groups))
	for i, g := range groups {
		counts[i] = g.Count
	}
	total := floats.Sum(counts)

	for i := range groups {
		if total != 0 {
			groups[i].Share = groups[i].Count / total * 100
		}
	}
	slices.SortStableFunc(groups, func(a, b Group) int {
		if c := cmp.Compare(a.Count, b.Count); c != 0 {
			return c
		}
		return cmp.Compare(a.Label, b.Label)
	})

	return Aggregate{Total: total, Groups: groups}, nil
}

// Package frame holds the in-memory tables produced by the data source and
// consumed by the territory resolver and the metrics builder.
package frame

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cast"
)

// Kind is the primitive type a column is coerced to.
type Kind string

// Supported column kinds.
const (
	KindString Kind = "string"
	KindInt    Kind = "int"
	KindFloat  Kind = "float"
	KindBool   Kind = "bool"
)

// Types maps column names to the kind they should be coerced to.
type Types map[string]Kind

// LookupError reports an expected column or value that is absent.
type LookupError struct {
	Column string
	Reason string
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("frame: column %q: %s", e.Column, e.Reason)
}

// Frame is an immutable row-major table. Values are nil for SQL NULL or
// empty flat-file cells.
type Frame struct {
	columns []string
	index   map[string]int
	rows    [][]any
}

// New builds a Frame. Rows shorter than the header are padded with nil.
func New(columns []string, rows [][]any) *Frame {
	f := &Frame{
		columns: append([]string(nil), columns...),
		index:   make(map[string]int, len(columns)),
		rows:    make([][]any, len(rows)),
	}
	for i, c := range f.columns {
		if _, dup := f.index[c]; !dup {
			f.index[c] = i
		}
	}
	for i, r := range rows {
		row := make([]any, len(f.columns))
		copy(row, r)
		f.rows[i] = row
	}
	return f
}

// Columns returns the column names in order.
func (f *Frame) Columns() []string {
	return append([]string(nil), f.columns...)
}

// Len returns the number of rows.
func (f *Frame) Len() int {
	return len(f.rows)
}

// Has reports whether the frame carries the column.
func (f *Frame) Has(col string) bool {
	_, ok := f.index[col]
	return ok
}

// Row returns row i.
func (f *Frame) Row(i int) Row {
	return Row{frame: f, values: f.rows[i]}
}

// Rows returns every row in order.
func (f *Frame) Rows() []Row {
	out := make([]Row, len(f.rows))
	for i, r := range f.rows {
		out[i] = Row{frame: f, values: r}
	}
	return out
}

// Coerce returns a copy of the frame with the named columns converted to
// their declared kinds. Columns missing from the frame are skipped and
// nil values stay nil.
func (f *Frame) Coerce(types Types) (*Frame, error) {
	out := New(f.columns, f.rows)
	for col, kind := range types {
		idx, ok := out.index[col]
		if !ok {
			continue
		}
		for i, row := range out.rows {
			if row[idx] == nil {
				continue
			}
			v, err := convert(row[idx], kind)
			if err != nil {
				return nil, eris.Wrapf(err, "frame: coerce %q row %d to %s", col, i, kind)
			}
			row[idx] = v
		}
	}
	return out, nil
}

// Filter returns the rows for which keep returns true.
func (f *Frame) Filter(keep func(Row) bool) *Frame {
	out := &Frame{columns: f.columns, index: f.index}
	for _, r := range f.rows {
		if keep(Row{frame: f, values: r}) {
			out.rows = append(out.rows, r)
		}
	}
	return out
}

// Select projects the frame onto cols, renaming any column listed in rename.
func (f *Frame) Select(cols []string, rename map[string]string) (*Frame, error) {
	idx := make([]int, len(cols))
	names := make([]string, len(cols))
	for i, c := range cols {
		j, ok := f.index[c]
		if !ok {
			return nil, &LookupError{Column: c, Reason: "not in frame"}
		}
		idx[i] = j
		names[i] = c
		if to, ok := rename[c]; ok {
			names[i] = to
		}
	}

	rows := make([][]any, len(f.rows))
	for i, r := range f.rows {
		row := make([]any, len(idx))
		for k, j := range idx {
			row[k] = r[j]
		}
		rows[i] = row
	}
	return New(names, rows), nil
}

// Distinct returns the non-null string values of col in first-seen order.
func (f *Frame) Distinct(col string) ([]string, error) {
	idx, ok := f.index[col]
	if !ok {
		return nil, &LookupError{Column: col, Reason: "not in frame"}
	}
	seen := make(map[string]bool)
	var out []string
	for _, r := range f.rows {
		if r[idx] == nil {
			continue
		}
		s := cast.ToString(r[idx])
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out, nil
}

// AllNull reports whether col is null in every row. An empty frame is all null.
func (f *Frame) AllNull(col string) (bool, error) {
	idx, ok := f.index[col]
	if !ok {
		return false, &LookupError{Column: col, Reason: "not in frame"}
	}
	for _, r := range f.rows {
		if r[idx] != nil {
			return false, nil
		}
	}
	return true, nil
}

func convert(v any, kind Kind) (any, error) {
	switch kind {
	case KindString:
		return cast.ToStringE(v)
	case KindInt:
		return cast.ToInt64E(v)
	case KindFloat:
		return cast.ToFloat64E(v)
	case KindBool:
		return cast.ToBoolE(v)
	default:
		return nil, eris.Errorf("unknown kind %q", kind)
	}
}

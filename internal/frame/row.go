package frame

import (
	"github.com/spf13/cast"
)

// Row is a read-only view of one frame row.
type Row struct {
	frame  *Frame
	values []any
}

// Value returns the raw value of col.
func (r Row) Value(col string) (any, error) {
	idx, ok := r.frame.index[col]
	if !ok {
		return nil, &LookupError{Column: col, Reason: "not in frame"}
	}
	return r.values[idx], nil
}

// IsNull reports whether col is null. A missing column counts as null.
func (r Row) IsNull(col string) bool {
	v, err := r.Value(col)
	return err != nil || v == nil
}

// String returns col as a string; null becomes "".
func (r Row) String(col string) (string, error) {
	v, err := r.Value(col)
	if err != nil || v == nil {
		return "", err
	}
	return cast.ToStringE(v)
}

// Float returns col as a float64. Null is a lookup error.
func (r Row) Float(col string) (float64, error) {
	v, err := r.Value(col)
	if err != nil {
		return 0, err
	}
	if v == nil {
		return 0, &LookupError{Column: col, Reason: "null value"}
	}
	f, err := cast.ToFloat64E(v)
	if err != nil {
		return 0, &LookupError{Column: col, Reason: err.Error()}
	}
	return f, nil
}

// Int returns col as an int64. Null is a lookup error.
func (r Row) Int(col string) (int64, error) {
	v, err := r.Value(col)
	if err != nil {
		return 0, err
	}
	if v == nil {
		return 0, &LookupError{Column: col, Reason: "null value"}
	}
	n, err := cast.ToInt64E(v)
	if err != nil {
		return 0, &LookupError{Column: col, Reason: err.Error()}
	}
	return n, nil
}

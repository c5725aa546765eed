// Package warehouse runs the fixed base-table queries and returns their
// results as frames with declared column types applied.
package warehouse

import (
	"context"
	"fmt"
	"strings"

	"github.com/procolombia/territory-profile/internal/frame"
)

// Source executes a read-only query and materialises the full result.
type Source interface {
	// Query runs query and coerces the columns named in types.
	Query(ctx context.Context, query string, types frame.Types) (*frame.Frame, error)

	// Version reports the server version over a fresh connection.
	Version(ctx context.Context) (string, error)
}

// SelectAll builds the statement used to read a whole base table.
func SelectAll(table string) string {
	return "SELECT * FROM " + table
}

// withLimit appends a LIMIT clause when limit is positive.
func withLimit(query string, limit int) string {
	if limit <= 0 {
		return query
	}
	return fmt.Sprintf("%s LIMIT %d", strings.TrimRight(strings.TrimSpace(query), ";"), limit)
}

// build turns raw driver output into a coerced frame.
func build(query string, columns []string, rows [][]any, types frame.Types) (*frame.Frame, error) {
	f, err := frame.New(columns, rows).Coerce(types)
	if err != nil {
		return nil, &QueryError{Query: query, Err: err}
	}
	return f, nil
}

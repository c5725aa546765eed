package warehouse

import (
	"context"
	"database/sql"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/procolombia/territory-profile/internal/frame"
)

// SQLite reads from a local SQLite snapshot of the warehouse tables. Like
// Postgres, every call opens and closes its own handle.
type SQLite struct {
	dsn   string
	limit int
}

// NewSQLite creates a SQLite source for the database at dsn.
func NewSQLite(dsn string, limit int) *SQLite {
	return &SQLite{dsn: dsn, limit: limit}
}

func (s *SQLite) open(ctx context.Context) (*sql.DB, error) {
	conn, err := sql.Open("sqlite", s.dsn)
	if err != nil {
		return nil, &ConnectionError{Driver: "sqlite", Err: err}
	}
	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, &ConnectionError{Driver: "sqlite", Err: err}
	}
	return conn, nil
}

func (s *SQLite) Query(ctx context.Context, query string, types frame.Types) (*frame.Frame, error) {
	query = withLimit(query, s.limit)

	conn, err := s.open(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	zap.L().Debug("warehouse: executing query", zap.String("query", query))

	rows, err := conn.QueryContext(ctx, query)
	if err != nil {
		return nil, &QueryError{Query: query, Err: err}
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, &QueryError{Query: query, Err: eris.Wrap(err, "read columns")}
	}

	var data [][]any
	for rows.Next() {
		vals := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, &QueryError{Query: query, Err: eris.Wrap(err, "scan row")}
		}
		for i, v := range vals {
			vals[i] = normalize(v)
		}
		data = append(data, vals)
	}
	if err := rows.Err(); err != nil {
		return nil, &QueryError{Query: query, Err: err}
	}

	out, err := build(query, columns, data, types)
	if err != nil {
		return nil, err
	}
	zap.L().Info("warehouse: query loaded",
		zap.String("query", query),
		zap.Int("rows", out.Len()),
	)
	return out, nil
}

func (s *SQLite) Version(ctx context.Context) (string, error) {
	const q = "SELECT sqlite_version()"
	conn, err := s.open(ctx)
	if err != nil {
		return "", err
	}
	defer conn.Close()

	var version string
	if err := conn.QueryRowContext(ctx, q).Scan(&version); err != nil {
		return "", &QueryError{Query: q, Err: err}
	}
	return "SQLite " + version, nil
}

package warehouse

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/procolombia/territory-profile/internal/db"
	"github.com/procolombia/territory-profile/internal/frame"
)

// Postgres reads from a Postgres-protocol warehouse. Each call dials its own
// connection and closes it before returning; nothing is pooled.
type Postgres struct {
	dial  db.Dialer
	limit int
}

// NewPostgres creates a Postgres source. A positive limit caps every query.
func NewPostgres(dial db.Dialer, limit int) *Postgres {
	return &Postgres{dial: dial, limit: limit}
}

// withConn acquires a connection, runs fn and always releases it.
func (p *Postgres) withConn(ctx context.Context, fn func(db.Conn) error) error {
	conn, err := p.dial(ctx)
	if err != nil {
		return &ConnectionError{Driver: "postgres", Err: err}
	}
	defer func() {
		if cerr := conn.Close(ctx); cerr != nil {
			zap.L().Warn("warehouse: close connection", zap.Error(cerr))
		}
	}()
	return fn(conn)
}

func (p *Postgres) Query(ctx context.Context, query string, types frame.Types) (*frame.Frame, error) {
	query = withLimit(query, p.limit)

	var out *frame.Frame
	err := p.withConn(ctx, func(conn db.Conn) error {
		zap.L().Debug("warehouse: executing query", zap.String("query", query))

		rows, err := conn.Query(ctx, query)
		if err != nil {
			return &QueryError{Query: query, Err: err}
		}
		defer rows.Close()

		fields := rows.FieldDescriptions()
		columns := make([]string, len(fields))
		for i, fd := range fields {
			columns[i] = fd.Name
		}

		var data [][]any
		for rows.Next() {
			vals, err := rows.Values()
			if err != nil {
				return &QueryError{Query: query, Err: eris.Wrap(err, "scan row")}
			}
			for i, v := range vals {
				vals[i] = normalize(v)
			}
			data = append(data, vals)
		}
		if err := rows.Err(); err != nil {
			return &QueryError{Query: query, Err: err}
		}

		out, err = build(query, columns, data, types)
		return err
	})
	if err != nil {
		return nil, err
	}

	zap.L().Info("warehouse: query loaded",
		zap.String("query", query),
		zap.Int("rows", out.Len()),
	)
	return out, nil
}

func (p *Postgres) Version(ctx context.Context) (string, error) {
	const q = "SELECT version()"
	var version string
	err := p.withConn(ctx, func(conn db.Conn) error {
		if err := conn.QueryRow(ctx, q).Scan(&version); err != nil {
			return &QueryError{Query: q, Err: err}
		}
		return nil
	})
	return version, err
}

// normalize maps pgx wire types onto plain Go values the frame can coerce.
func normalize(v any) any {
	switch t := v.(type) {
	case pgtype.Numeric:
		if !t.Valid {
			return nil
		}
		f, err := t.Float64Value()
		if err != nil || !f.Valid {
			return nil
		}
		return f.Float64
	case []byte:
		return string(t)
	default:
		return v
	}
}

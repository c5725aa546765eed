// Package db opens the short-lived warehouse connections used by the data source.
package db

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/rotisserie/eris"
)

// Conn is the subset of *pgx.Conn the data source needs. pgxmock's
// PgxConnIface satisfies it in tests.
type Conn interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Close(ctx context.Context) error
}

// Dialer opens a new connection. Every call yields a fresh connection that
// the caller must close.
type Dialer func(ctx context.Context) (Conn, error)

// Params holds warehouse connection settings.
type Params struct {
	User     string
	Password string
	Host     string
	Port     int
	Database string
	Schema   string
	// Application is reported to the server as application_name, which is
	// where the compute warehouse label ends up.
	Application string
}

// ConnConfig builds a pgx connection config from params. Unset fields keep
// the libpq environment defaults.
func ConnConfig(p Params) (*pgx.ConnConfig, error) {
	cfg, err := pgx.ParseConfig("")
	if err != nil {
		return nil, eris.Wrap(err, "db: parse default config")
	}
	if p.Host != "" {
		cfg.Host = p.Host
	}
	if p.Port > 0 {
		if p.Port > 65535 {
			return nil, eris.Errorf("db: port %d out of range", p.Port)
		}
		cfg.Port = uint16(p.Port)
	}
	if p.User != "" {
		cfg.User = p.User
	}
	if p.Password != "" {
		cfg.Password = p.Password
	}
	if p.Database != "" {
		cfg.Database = p.Database
	}
	if p.Schema != "" {
		cfg.RuntimeParams["search_path"] = p.Schema
	}
	if p.Application != "" {
		cfg.RuntimeParams["application_name"] = p.Application
	}
	return cfg, nil
}

// PgxDialer returns a Dialer that connects with pgx using params.
func PgxDialer(p Params) Dialer {
	return func(ctx context.Context) (Conn, error) {
		cfg, err := ConnConfig(p)
		if err != nil {
			return nil, err
		}
		conn, err := pgx.ConnectConfig(ctx, cfg)
		if err != nil {
			return nil, eris.Wrapf(err, "db: connect to %s", cfg.Host)
		}
		return conn, nil
	}
}

package main

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/procolombia/territory-profile/internal/config"
	"github.com/procolombia/territory-profile/internal/db"
	"github.com/procolombia/territory-profile/internal/territory"
	"github.com/procolombia/territory-profile/internal/warehouse"
)

// newSource builds the configured data source.
func newSource(c *config.Config) (warehouse.Source, error) {
	w := c.Warehouse
	switch w.Driver {
	case "postgres":
		return warehouse.NewPostgres(db.PgxDialer(db.Params{
			User:        w.User,
			Password:    w.Password,
			Host:        w.Account,
			Port:        w.Port,
			Database:    w.Database,
			Schema:      w.Schema,
			Application: w.Warehouse,
		}), w.Limit), nil
	case "sqlite":
		return warehouse.NewSQLite(w.SQLitePath, w.Limit), nil
	case "files":
		return warehouse.NewFiles(warehouse.FileOptions{
			Paths: map[string]string{
				w.Tables.Indicators: w.Files.Indicators,
				w.Tables.Fabric:     w.Files.Fabric,
				w.Tables.Locations:  w.Files.Locations,
			},
			Delimiter:    w.Files.Delimiter,
			DecimalComma: w.Files.DecimalComma,
			XLSXSkipRows: w.Files.LocationSkipRows,
			Limit:        w.Limit,
		}), nil
	default:
		return nil, fmt.Errorf("unknown warehouse driver %q", w.Driver)
	}
}

func tableQueries(t config.TablesConfig) territory.Queries {
	return territory.Queries{
		Indicators: warehouse.SelectAll(t.Indicators),
		Fabric:     warehouse.SelectAll(t.Fabric),
		Locations:  warehouse.SelectAll(t.Locations),
	}
}

// loadContext validates the config and reads the three base tables.
func loadContext(ctx context.Context, c *config.Config) (*territory.Context, error) {
	if err := c.Validate("load"); err != nil {
		return nil, err
	}
	src, err := newSource(c)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	data, err := territory.Load(ctx, src, tableQueries(c.Warehouse.Tables), territory.Options{
		DefaultRegion:  c.Dashboard.DefaultRegion,
		ExcludedRegion: c.Dashboard.ExcludedRegion,
	})
	if err != nil {
		return nil, err
	}
	zap.L().Info("base tables loaded",
		zap.String("driver", c.Warehouse.Driver),
		zap.Int("regions", len(data.Regions())),
		zap.Duration("elapsed", time.Since(start)),
	)
	return data, nil
}

package territory

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/procolombia/territory-profile/internal/frame"
	"github.com/procolombia/territory-profile/internal/warehouse"
)

// Queries holds the three statements that read the base tables.
type Queries struct {
	Indicators string
	Fabric     string
	Locations  string
}

// Load runs the three base queries and builds the read-only Context. Each
// query runs on its own connection; the first failure cancels the rest and
// is returned unchanged so callers can match the warehouse error types.
func Load(ctx context.Context, src warehouse.Source, q Queries, opts Options) (*Context, error) {
	var indicators, fabric, locations *frame.Frame

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		f, err := src.Query(gctx, q.Indicators, IndicatorTypes)
		if err != nil {
			return fmt.Errorf("territory: load indicators: %w", err)
		}
		indicators = f
		return nil
	})
	g.Go(func() error {
		f, err := src.Query(gctx, q.Fabric, FabricTypes)
		if err != nil {
			return fmt.Errorf("territory: load business fabric: %w", err)
		}
		fabric = f
		return nil
	})
	g.Go(func() error {
		f, err := src.Query(gctx, q.Locations, LocationTypes)
		if err != nil {
			return fmt.Errorf("territory: load locations: %w", err)
		}
		locations = f
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	c, err := NewContext(indicators, fabric, locations, opts)
	if err != nil {
		return nil, err
	}

	zap.L().Info("territory: data context loaded",
		zap.String("snapshot", c.snapshot),
		zap.Int("indicators", c.indicators.Len()),
		zap.Int("fabric", c.fabric.Len()),
		zap.Int("locations", c.locations.Len()),
		zap.Int("regions", len(c.regions)),
	)
	return c, nil
}

// prepareLocations projects the geocoding table onto the columns the map
// needs, renames them to the shared names and drops rows without a code.
func prepareLocations(raw *frame.Frame) (*frame.Frame, error) {
	f, err := raw.Select(
		[]string{colLocCode, colLocRegion, colLocTerritory, ColLatitude, ColLongitude},
		map[string]string{
			colLocCode:      ColCode,
			colLocRegion:    ColRegion,
			colLocTerritory: ColTerritory,
		},
	)
	if err != nil {
		return nil, fmt.Errorf("territory: prepare locations: %w", err)
	}
	return f.Filter(func(r frame.Row) bool { return !r.IsNull(ColCode) }), nil
}

// requireColumns fails when a table lacks a column the resolver depends on.
func requireColumns(name string, f *frame.Frame, cols ...string) error {
	for _, c := range cols {
		if !f.Has(c) {
			return fmt.Errorf("territory: %s table: %w", name, &frame.LookupError{Column: c, Reason: "not in frame"})
		}
	}
	return nil
}

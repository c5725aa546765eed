package territory

import (
	"fmt"
	"slices"

	"github.com/google/uuid"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/procolombia/territory-profile/internal/frame"
)

// Options configures the territory selector.
type Options struct {
	// DefaultRegion is pre-selected when the dashboard opens.
	DefaultRegion string
	// ExcludedRegion is left out of the selectable regions.
	ExcludedRegion string
}

// Context is the explicitly initialised, read-only set of base tables shared
// by every selection. Nothing mutates it after construction, so it is safe
// for concurrent use.
type Context struct {
	indicators *frame.Frame
	fabric     *frame.Frame
	locations  *frame.Frame
	opts       Options
	snapshot   string

	regions     []string
	territories map[string][]string
}

// NewContext validates the base tables and precomputes the selector lists.
// locations is the raw geocoding table; it is projected and filtered here.
func NewContext(indicators, fabric, locations *frame.Frame, opts Options) (*Context, error) {
	if err := requireColumns("indicators", indicators, ColCode); err != nil {
		return nil, err
	}
	if err := requireColumns("business fabric", fabric, ColCode, ColRegion, ColTerritory); err != nil {
		return nil, err
	}
	locs, err := prepareLocations(locations)
	if err != nil {
		return nil, err
	}

	c := &Context{
		indicators:  indicators,
		fabric:      fabric,
		locations:   locs,
		opts:        opts,
		snapshot:    uuid.NewString(),
		territories: make(map[string][]string),
	}

	for _, r := range fabric.Rows() {
		region, _ := r.String(ColRegion)
		territory, _ := r.String(ColTerritory)
		if region == "" || region == opts.ExcludedRegion {
			continue
		}
		if _, ok := c.territories[region]; !ok {
			c.regions = append(c.regions, region)
			c.territories[region] = []string{}
		}
		if territory != "" && !slices.Contains(c.territories[region], territory) {
			c.territories[region] = append(c.territories[region], territory)
		}
	}

	sortNames(c.regions)
	for _, names := range c.territories {
		sortNames(names)
	}
	return c, nil
}

// Regions returns the selectable regions in Spanish collation order.
func (c *Context) Regions() []string {
	return slices.Clone(c.regions)
}

// Snapshot identifies this load of the base tables.
func (c *Context) Snapshot() string {
	return c.snapshot
}

// DefaultRegion returns the configured pre-selection, or the first region
// when it is not present in the data.
func (c *Context) DefaultRegion() string {
	if slices.Contains(c.regions, c.opts.DefaultRegion) {
		return c.opts.DefaultRegion
	}
	if len(c.regions) > 0 {
		return c.regions[0]
	}
	return ""
}

// Territories returns the territories of region, sorted. Unknown regions
// yield nil.
func (c *Context) Territories(region string) []string {
	return slices.Clone(c.territories[region])
}

// EmptySelectionError reports a (region, territory) pair with no business
// fabric rows, so no code can be resolved.
type EmptySelectionError struct {
	Region    string
	Territory string
}

func (e *EmptySelectionError) Error() string {
	return fmt.Sprintf("territory: no rows for %s - %s", e.Territory, e.Region)
}

// sortNames sorts in place with Spanish collation so accented names sit
// next to their unaccented neighbours.
func sortNames(names []string) {
	collate.New(language.Spanish).SortStrings(names)
}

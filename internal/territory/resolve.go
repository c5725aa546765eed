package territory

import (
	"go.uber.org/zap"

	"github.com/procolombia/territory-profile/internal/frame"
)

// Selection is the slice of the base tables belonging to one territory code.
type Selection struct {
	Region    string
	Territory string
	Code      string

	// Indicators has zero or one row.
	Indicators *frame.Frame
	// Fabric has every business-fabric row carrying Code.
	Fabric *frame.Frame
	// Location has the geocoding rows carrying Code.
	Location *frame.Frame
}

// Indicator returns the single indicators row, if any.
func (s *Selection) Indicator() (frame.Row, bool) {
	if s.Indicators.Len() == 0 {
		return frame.Row{}, false
	}
	return s.Indicators.Row(0), true
}

// Place returns the first location row, if any.
func (s *Selection) Place() (frame.Row, bool) {
	if s.Location.Len() == 0 {
		return frame.Row{}, false
	}
	return s.Location.Row(0), true
}

// Resolve looks up the code of (region, territory) in the business fabric
// and filters the three tables to it. When the pair maps to several codes
// the first row wins.
func (c *Context) Resolve(region, territory string) (*Selection, error) {
	code, ok := c.lookupCode(region, territory)
	if !ok {
		return nil, &EmptySelectionError{Region: region, Territory: territory}
	}

	byCode := func(r frame.Row) bool {
		v, _ := r.String(ColCode)
		return !r.IsNull(ColCode) && v == code
	}

	sel := &Selection{
		Region:     region,
		Territory:  territory,
		Code:       code,
		Indicators: c.indicators.Filter(byCode),
		Fabric:     c.fabric.Filter(byCode),
		Location:   c.locations.Filter(byCode),
	}
	if sel.Indicators.Len() > 1 {
		zap.L().Warn("territory: several indicator rows for code, using the first",
			zap.String("code", code),
			zap.Int("rows", sel.Indicators.Len()),
		)
		sel.Indicators = sel.Indicators.Filter(firstOnly())
	}

	zap.L().Debug("territory: resolved selection",
		zap.String("region", region),
		zap.String("territory", territory),
		zap.String("code", code),
		zap.Int("fabric_rows", sel.Fabric.Len()),
	)
	return sel, nil
}

func (c *Context) lookupCode(region, territory string) (string, bool) {
	for _, r := range c.fabric.Rows() {
		reg, _ := r.String(ColRegion)
		ter, _ := r.String(ColTerritory)
		if reg != region || ter != territory {
			continue
		}
		code, _ := r.String(ColCode)
		return code, true
	}
	return "", false
}

func firstOnly() func(frame.Row) bool {
	taken := false
	return func(frame.Row) bool {
		if taken {
			return false
		}
		taken = true
		return true
	}
}

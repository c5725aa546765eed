package metrics

import (
	_ "embed"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/procolombia/territory-profile/internal/frame"
)

//go:embed catalog.yaml
var defaultCatalog []byte

// Catalog lists the charts that make up a territory profile.
type Catalog struct {
	Pies []PieSpec `yaml:"pies"`
	Bars []BarSpec `yaml:"bars"`
}

// PieSpec defines a share chart read from the indicators row.
type PieSpec struct {
	ID     string      `yaml:"id"`
	Title  string      `yaml:"title"`
	Center string      `yaml:"center"`
	Slices []SliceSpec `yaml:"slices"`
	// Residual labels the 100 - sum(slices) remainder; empty means none.
	Residual      string   `yaml:"residual"`
	ResidualFirst bool     `yaml:"residual_first"`
	Colors        []string `yaml:"colors"`
}

// SliceSpec maps a pie label to an indicators column.
type SliceSpec struct {
	Label  string `yaml:"label"`
	Column string `yaml:"column"`
}

// BarSpec defines a categorical aggregate over the business fabric.
type BarSpec struct {
	ID      string     `yaml:"id"`
	Section string     `yaml:"section"`
	Title   string     `yaml:"title"`
	GroupBy []string   `yaml:"group_by"`
	Where   *Predicate `yaml:"where"`
	Color   string     `yaml:"color"`
	Height  int        `yaml:"height"`
}

// Predicate pre-filters fabric rows on one column.
type Predicate struct {
	Column   string  `yaml:"column"`
	Equal    *string `yaml:"equal"`
	NotEqual *string `yaml:"not_equal"`
}

// Match reports whether r passes the predicate. Null values never match an
// equality test and always match an inequality test.
func (p *Predicate) Match(r frame.Row) bool {
	if p == nil {
		return true
	}
	v, err := r.String(p.Column)
	null := err != nil || r.IsNull(p.Column)
	switch {
	case p.Equal != nil:
		return !null && v == *p.Equal
	case p.NotEqual != nil:
		return null || v != *p.NotEqual
	default:
		return true
	}
}

// DefaultCatalog returns the embedded chart catalog.
func DefaultCatalog() (*Catalog, error) {
	return ParseCatalog(defaultCatalog)
}

// ParseCatalog decodes and validates a YAML chart catalog.
func ParseCatalog(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, eris.Wrap(err, "metrics: parse catalog")
	}

	seen := make(map[string]bool)
	for _, p := range c.Pies {
		if p.ID == "" || seen[p.ID] {
			return nil, eris.Errorf("metrics: pie id %q is empty or duplicated", p.ID)
		}
		seen[p.ID] = true
		if len(p.Slices) == 0 {
			return nil, eris.Errorf("metrics: pie %s has no slices", p.ID)
		}
	}
	for _, b := range c.Bars {
		if b.ID == "" || seen[b.ID] {
			return nil, eris.Errorf("metrics: bar id %q is empty or duplicated", b.ID)
		}
		seen[b.ID] = true
		if len(b.GroupBy) == 0 {
			return nil, eris.Errorf("metrics: bar %s has no group_by columns", b.ID)
		}
		if b.Where != nil && b.Where.Equal == nil && b.Where.NotEqual == nil {
			return nil, eris.Errorf("metrics: bar %s filter needs equal or not_equal", b.ID)
		}
	}
	return &c, nil
}

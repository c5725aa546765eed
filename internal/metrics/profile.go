package metrics

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/procolombia/territory-profile/internal/frame"
	"github.com/procolombia/territory-profile/internal/territory"
)

// Profile is everything the presentation layer needs for one territory.
type Profile struct {
	Title     string `json:"title"`
	Region    string `json:"region"`
	Territory string `json:"territory"`
	Code      string `json:"code"`

	PDET       Figure     `json:"pdet"`
	ZOMAC      Figure     `json:"zomac"`
	Population Figure     `json:"population"`
	ValueAdded Figure     `json:"value_added"`
	Pies       []PieChart `json:"pies"`
	Bars       []BarChart `json:"bars"`
	Map        *Marker    `json:"map"`
}

// Figure is a single headline value or label.
type Figure struct {
	Label  string  `json:"label"`
	Value  float64 `json:"value,omitempty"`
	Text   string  `json:"text"`
	NoData bool    `json:"no_data,omitempty"`
	Error  string  `json:"error,omitempty"`
}

// PieChart is a share chart payload.
type PieChart struct {
	ID     string   `json:"id"`
	Title  string   `json:"title"`
	Center string   `json:"center"`
	Slices []Share  `json:"slices"`
	Colors []string `json:"colors"`
	NoData bool     `json:"no_data,omitempty"`
	Error  string   `json:"error,omitempty"`
}

// BarChart is a categorical aggregate payload. Bars are in ascending count
// order; Text holds the per-bar "count\nshare%" labels.
type BarChart struct {
	ID        string   `json:"id"`
	Section   string   `json:"section,omitempty"`
	Title     string   `json:"title"`
	Color     string   `json:"color"`
	Height    int      `json:"height,omitempty"`
	Total     float64  `json:"total"`
	TotalText string   `json:"total_text"`
	Groups    []Group  `json:"groups"`
	Text      []string `json:"text"`
	NoData    bool     `json:"no_data,omitempty"`
	Error     string   `json:"error,omitempty"`
}

// Build computes the profile for a selection. Lookup failures are confined
// to the figure or chart that hit them, which is marked NoData.
func Build(sel *territory.Selection, cat *Catalog) *Profile {
	p := &Profile{
		Title:     fmt.Sprintf("Perfil territorio: %s - %s", sel.Territory, sel.Region),
		Region:    sel.Region,
		Territory: sel.Territory,
		Code:      sel.Code,
	}

	row, ok := sel.Indicator()
	var rowErr error
	if !ok {
		rowErr = &frame.LookupError{Column: territory.ColCode, Reason: fmt.Sprintf("no indicators row for code %q", sel.Code)}
	}

	p.PDET = labelFigure("pdet", row, rowErr, PDETLabel)
	p.ZOMAC = labelFigure("zomac", row, rowErr, ZOMACLabel)
	p.Population = valueFigure("Población 2022", row, rowErr, territory.ColPopulation, func(v float64) string {
		return FormatCount(v) + " habitantes"
	})
	p.ValueAdded = valueFigure("Valor agregado", row, rowErr, territory.ColValueAdded, func(v float64) string {
		return "COP " + FormatCount(v) + " miles de millones"
	})

	for _, spec := range cat.Pies {
		p.Pies = append(p.Pies, buildPie(spec, row, rowErr))
	}
	for _, spec := range cat.Bars {
		p.Bars = append(p.Bars, buildBar(spec, sel.Fabric))
	}

	p.Map = &Marker{Center: MapCenter, Zoom: MapZoom}
	if place, ok := sel.Place(); ok {
		m, err := NewMarker(place, sel.Territory+" - "+sel.Region)
		if err != nil {
			noData("map", err)
			p.Map.NoData, p.Map.Error = true, err.Error()
		} else {
			p.Map = m
		}
	} else {
		p.Map.NoData = true
		p.Map.Error = fmt.Sprintf("no location row for code %q", sel.Code)
	}

	return p
}

func buildPie(spec PieSpec, row frame.Row, rowErr error) PieChart {
	pie := PieChart{ID: spec.ID, Title: spec.Title, Center: spec.Center, Colors: spec.Colors}
	if rowErr != nil {
		noData(spec.ID, rowErr)
		pie.NoData, pie.Error = true, rowErr.Error()
		return pie
	}

	named := make([]Share, 0, len(spec.Slices))
	for _, s := range spec.Slices {
		v, err := row.Float(s.Column)
		if err != nil {
			noData(spec.ID, err)
			pie.NoData, pie.Error = true, err.Error()
			return pie
		}
		named = append(named, Share{Label: s.Label, Value: v})
	}

	if spec.Residual == "" {
		pie.Slices = named
		return pie
	}
	pie.Slices = Complement(named, spec.Residual)
	if spec.ResidualFirst {
		last := len(pie.Slices) - 1
		pie.Slices = append([]Share{pie.Slices[last]}, pie.Slices[:last]...)
	}
	return pie
}

func buildBar(spec BarSpec, fabric *frame.Frame) BarChart {
	bar := BarChart{
		ID:      spec.ID,
		Section: spec.Section,
		Title:   spec.Title,
		Color:   spec.Color,
		Height:  spec.Height,
		Groups:  []Group{},
		Text:    []string{},
	}

	rows := fabric
	if spec.Where != nil {
		if fabric.Len() > 0 && !fabric.Has(spec.Where.Column) {
			err := &frame.LookupError{Column: spec.Where.Column, Reason: "not in frame"}
			noData(spec.ID, err)
			bar.NoData, bar.Error = true, err.Error()
			return bar
		}
		rows = fabric.Filter(spec.Where.Match)
	}

	// Rows whose codes are all null carry no usable businesses.
	if allNull, err := rows.AllNull(territory.ColCode); err == nil && allNull {
		bar.TotalText = FormatCount(0)
		return bar
	}

	agg, err := AggregateBy(rows, territory.ColBusinessCount, spec.GroupBy...)
	if err != nil {
		noData(spec.ID, err)
		bar.NoData, bar.Error = true, err.Error()
		return bar
	}

	bar.Total = agg.Total
	bar.TotalText = FormatCount(agg.Total)
	bar.Groups = agg.Groups
	for _, g := range agg.Groups {
		bar.Text = append(bar.Text, barText(g))
	}
	return bar
}

func labelFigure(id string, row frame.Row, rowErr error, label func(frame.Row) (string, error)) Figure {
	if rowErr != nil {
		noData(id, rowErr)
		return Figure{NoData: true, Error: rowErr.Error()}
	}
	text, err := label(row)
	if err != nil {
		noData(id, err)
		return Figure{NoData: true, Error: err.Error()}
	}
	return Figure{Label: text, Text: text}
}

func valueFigure(label string, row frame.Row, rowErr error, col string, format func(float64) string) Figure {
	f := Figure{Label: label}
	if rowErr != nil {
		noData(col, rowErr)
		f.NoData, f.Error = true, rowErr.Error()
		return f
	}
	v, err := row.Float(col)
	if err != nil {
		noData(col, err)
		f.NoData, f.Error = true, err.Error()
		return f
	}
	f.Value = v
	f.Text = format(v)
	return f
}

func noData(id string, err error) {
	zap.L().Warn("metrics: rendering placeholder", zap.String("chart", id), zap.Error(err))
}

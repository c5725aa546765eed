package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/procolombia/territory-profile/internal/frame"
	"github.com/procolombia/territory-profile/internal/territory"
)

func araucaIndicators() *frame.Frame {
	return frame.New(
		[]string{
			territory.ColCode, territory.ColPopulation, territory.ColValueAdded,
			territory.ColWomen, territory.ColYouth, territory.ColEthnic, territory.ColDisability,
			territory.ColPoverty, territory.ColInformality,
			territory.ColPrimary, territory.ColSecondary, territory.ColTertiary,
			territory.ColEduSecondary, territory.ColEduTechnical, territory.ColEduUndergrad, territory.ColEduPostgrad,
			territory.ColPDETSubregion, territory.ColZOMAC,
		},
		[][]any{{
			"81001", 96814.0, 1843.2,
			50.6, 32.4, 12.1, 6.3,
			24.3, 80.2,
			30.0, 10.0, 60.0,
			25.2, 7.1, 5.3, 1.4,
			"ARAUCA", int64(1),
		}},
	)
}

func araucaSelection() *territory.Selection {
	return &territory.Selection{
		Region:     "Arauca",
		Territory:  "Arauca",
		Code:       "81001",
		Indicators: araucaIndicators(),
		Fabric:     araucaFabric(),
		Location: frame.New(
			[]string{territory.ColCode, territory.ColLatitude, territory.ColLongitude},
			[][]any{{"81001", 7.0847, -70.7591}},
		),
	}
}

func mustCatalog(t *testing.T) *Catalog {
	t.Helper()
	cat, err := DefaultCatalog()
	require.NoError(t, err)
	return cat
}

func pieByID(p *Profile, id string) PieChart {
	for _, pie := range p.Pies {
		if pie.ID == id {
			return pie
		}
	}
	return PieChart{}
}

func barByID(p *Profile, id string) BarChart {
	for _, bar := range p.Bars {
		if bar.ID == id {
			return bar
		}
	}
	return BarChart{}
}

func TestBuild_Header(t *testing.T) {
	p := Build(araucaSelection(), mustCatalog(t))

	assert.Equal(t, "Perfil territorio: Arauca - Arauca", p.Title)
	assert.Equal(t, "Es territorio PDET - Subregión Arauca", p.PDET.Text)
	assert.Equal(t, "Es territorio ZOMAC", p.ZOMAC.Text)
	assert.Equal(t, "96,814 habitantes", p.Population.Text)
	assert.Equal(t, "COP 1,843 miles de millones", p.ValueAdded.Text)
	assert.False(t, p.Map.NoData)
	assert.NotEmpty(t, p.Map.Feature)
}

func TestBuild_Pies(t *testing.T) {
	p := Build(araucaSelection(), mustCatalog(t))
	require.Len(t, p.Pies, 8)

	youth := pieByID(p, "youth")
	require.Len(t, youth.Slices, 2)
	assert.InDelta(t, 67.6, youth.Slices[1].Value, 1e-9)

	disability := pieByID(p, "disability")
	require.Len(t, disability.Slices, 2)
	assert.Equal(t, "Resto de población", disability.Slices[0].Label)
	assert.InDelta(t, 93.7, disability.Slices[0].Value, 1e-9)

	va := pieByID(p, "value_added")
	assert.Len(t, va.Slices, 3)

	for _, pie := range p.Pies {
		if pie.ID == "value_added" {
			continue
		}
		assert.InDelta(t, 100.0, Total(pie.Slices), 1e-9, pie.ID)
	}
}

func TestBuild_Bars(t *testing.T) {
	p := Build(araucaSelection(), mustCatalog(t))
	require.Len(t, p.Bars, 6)

	tourism := barByID(p, "tourism")
	assert.InDelta(t, 8.0, tourism.Total, 1e-9)
	require.Len(t, tourism.Groups, 2)
	assert.Equal(t, []string{"3\n37.5%", "5\n62.5%"}, tourism.Text)

	exporters := barByID(p, "exporters")
	assert.InDelta(t, 13.0, exporters.Total, 1e-9)
	require.Len(t, exporters.Groups, 2)
	assert.Equal(t, "Metalmecánica", exporters.Groups[0].Label)

	branches := barByID(p, "foreign_branches")
	require.Len(t, branches.Groups, 1)
	assert.Equal(t, "Agroalimentos", branches.Groups[0].Label)
	assert.InDelta(t, 100.0, branches.Groups[0].Share, 1e-9)
}

func TestBuild_MissingColumnRendersPlaceholder(t *testing.T) {
	sel := araucaSelection()
	sel.Indicators = frame.New(
		[]string{territory.ColCode, territory.ColYouth, territory.ColZOMAC},
		[][]any{{"81001", 32.4, int64(0)}},
	)

	p := Build(sel, mustCatalog(t))

	assert.False(t, pieByID(p, "youth").NoData)
	gender := pieByID(p, "gender")
	assert.True(t, gender.NoData)
	assert.Contains(t, gender.Error, territory.ColWomen)
	assert.True(t, p.Population.NoData)
	assert.True(t, p.PDET.NoData)
	assert.Equal(t, "No es territorio ZOMAC", p.ZOMAC.Text)
	assert.False(t, barByID(p, "size").NoData)
}

func TestBuild_NoIndicatorRow(t *testing.T) {
	sel := araucaSelection()
	sel.Indicators = frame.New([]string{territory.ColCode}, nil)

	p := Build(sel, mustCatalog(t))
	for _, pie := range p.Pies {
		assert.True(t, pie.NoData, pie.ID)
	}
	assert.True(t, p.ValueAdded.NoData)
	assert.InDelta(t, 21.0, barByID(p, "size").Total, 1e-9)
}

func TestBuild_EmptyFabric(t *testing.T) {
	sel := araucaSelection()
	sel.Fabric = fabric()
	sel.Location = frame.New([]string{territory.ColCode, territory.ColLatitude, territory.ColLongitude}, nil)

	p := Build(sel, mustCatalog(t))
	for _, bar := range p.Bars {
		assert.False(t, bar.NoData, bar.ID)
		assert.Zero(t, bar.Total, bar.ID)
		assert.Empty(t, bar.Groups, bar.ID)
		assert.Equal(t, "0", bar.TotalText)
	}
	assert.True(t, p.Map.NoData)
	assert.Equal(t, MapCenter, p.Map.Center)
}

func TestBuild_MissingFilterColumn(t *testing.T) {
	sel := araucaSelection()
	sel.Fabric = frame.New(
		[]string{territory.ColCode, territory.ColChain, territory.ColSize, territory.ColValueBracket, territory.ColBusinessCount},
		[][]any{{"81001", "Turismo", "Micro", "Bajo", 2.0}},
	)

	p := Build(sel, mustCatalog(t))
	assert.False(t, barByID(p, "size").NoData)
	assert.True(t, barByID(p, "exporters").NoData)
	assert.Contains(t, barByID(p, "exporters").Error, territory.ColExportType)
	assert.True(t, barByID(p, "tourism").NoData)
}

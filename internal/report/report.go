// Package report renders a territory profile as an xlsx workbook: a
// "Resumen" sheet with the headline figures followed by one sheet per chart.
package report

import (
	"io"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/procolombia/territory-profile/internal/metrics"
)

// SummarySheet is the name of the first sheet.
const SummarySheet = "Resumen"

const noDataText = "Sin datos"

// Workbook builds the xlsx file for p.
func Workbook(p *metrics.Profile) (*xlsx.File, error) {
	f := xlsx.NewFile()

	summary, err := f.AddSheet(SummarySheet)
	if err != nil {
		return nil, eris.Wrap(err, "report: add summary sheet")
	}
	addRow(summary, p.Title)
	addRow(summary, "Departamento", p.Region)
	addRow(summary, "Municipio", p.Territory)
	addRow(summary, "Código", p.Code)
	for _, fig := range []metrics.Figure{p.Population, p.ValueAdded} {
		addRow(summary, fig.Label, figureText(fig))
	}
	addRow(summary, "PDET", figureText(p.PDET))
	addRow(summary, "ZOMAC", figureText(p.ZOMAC))

	for _, pie := range p.Pies {
		sheet, err := f.AddSheet(sheetName(pie.ID))
		if err != nil {
			return nil, eris.Wrapf(err, "report: add sheet %s", pie.ID)
		}
		addRow(sheet, pieTitle(pie), pie.Center)
		if pie.NoData {
			addRow(sheet, noDataText, pie.Error)
			continue
		}
		addRow(sheet, "Categoría", "Porcentaje")
		for _, s := range pie.Slices {
			row := sheet.AddRow()
			row.AddCell().SetString(s.Label)
			row.AddCell().SetFloatWithFormat(s.Value, "0.0")
		}
	}

	for _, bar := range p.Bars {
		sheet, err := f.AddSheet(sheetName(bar.ID))
		if err != nil {
			return nil, eris.Wrapf(err, "report: add sheet %s", bar.ID)
		}
		if bar.Section != "" {
			addRow(sheet, bar.Section)
		}
		addRow(sheet, bar.Title)
		if bar.NoData {
			addRow(sheet, noDataText, bar.Error)
			continue
		}
		addRow(sheet, "Categoría", "Número de empresas", "Participación (%)")
		// Largest group first, the way the chart reads top to bottom.
		for i := len(bar.Groups) - 1; i >= 0; i-- {
			g := bar.Groups[i]
			row := sheet.AddRow()
			row.AddCell().SetString(g.Label)
			row.AddCell().SetFloatWithFormat(g.Count, "#,##0")
			row.AddCell().SetFloatWithFormat(g.Share, "0.0")
		}
		total := sheet.AddRow()
		total.AddCell().SetString("Total")
		total.AddCell().SetFloatWithFormat(bar.Total, "#,##0")
	}

	return f, nil
}

// Write streams the workbook for p to w.
func Write(w io.Writer, p *metrics.Profile) error {
	f, err := Workbook(p)
	if err != nil {
		return err
	}
	if err := f.Write(w); err != nil {
		return eris.Wrap(err, "report: write workbook")
	}
	return nil
}

// Save writes the workbook for p to path.
func Save(path string, p *metrics.Profile) error {
	f, err := Workbook(p)
	if err != nil {
		return err
	}
	if err := f.Save(path); err != nil {
		return eris.Wrapf(err, "report: save %s", path)
	}
	return nil
}

func addRow(sheet *xlsx.Sheet, values ...string) {
	row := sheet.AddRow()
	for _, v := range values {
		row.AddCell().SetString(v)
	}
}

func figureText(f metrics.Figure) string {
	if f.NoData {
		return noDataText
	}
	return f.Text
}

func pieTitle(p metrics.PieChart) string {
	if p.Title != "" {
		return p.Title
	}
	return p.ID
}

// xlsx caps sheet names at 31 characters.
func sheetName(id string) string {
	if len(id) > 31 {
		return id[:31]
	}
	return id
}

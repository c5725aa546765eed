package warehouse

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
	"go.uber.org/zap"

	"github.com/procolombia/territory-profile/internal/frame"
)

// FileOptions configures the flat-file snapshot source.
type FileOptions struct {
	// Paths maps a table name to its file. Files ending in .xlsx are read as
	// workbooks; anything else as delimited text.
	Paths        map[string]string
	Delimiter    string
	DecimalComma bool
	// XLSXSkipRows is the number of banner rows above the workbook header.
	XLSXSkipRows int
	Limit        int
}

// Files serves the base tables from the exported text and workbook files.
// The query's FROM clause selects which file is read.
type Files struct {
	opts FileOptions
}

// NewFiles creates a flat-file source.
func NewFiles(opts FileOptions) *Files {
	return &Files{opts: opts}
}

func (s *Files) Query(ctx context.Context, query string, types frame.Types) (*frame.Frame, error) {
	if err := ctx.Err(); err != nil {
		return nil, &QueryError{Query: query, Err: err}
	}

	table, err := tableName(query)
	if err != nil {
		return nil, &QueryError{Query: query, Err: err}
	}
	path, ok := s.opts.Paths[table]
	if !ok {
		return nil, &QueryError{Query: query, Err: eris.Errorf("no file configured for table %s", table)}
	}
	if _, err := os.Stat(path); err != nil {
		return nil, &ConnectionError{Driver: "files", Err: err}
	}

	var header []string
	var records [][]string
	workbook := strings.EqualFold(filepath.Ext(path), ".xlsx")
	if workbook {
		header, records, err = readWorkbook(path, s.opts.XLSXSkipRows)
	} else {
		header, records, err = s.readDelimited(path)
	}
	if err != nil {
		return nil, &QueryError{Query: query, Err: err}
	}

	if s.opts.Limit > 0 && len(records) > s.opts.Limit {
		records = records[:s.opts.Limit]
	}

	rows := make([][]any, len(records))
	for i, rec := range records {
		row := make([]any, len(header))
		for j := range header {
			if j >= len(rec) {
				continue
			}
			row[j] = s.cell(rec[j], types[header[j]], !workbook)
		}
		rows[i] = row
	}

	out, err := build(query, header, rows, types)
	if err != nil {
		return nil, err
	}
	zap.L().Info("warehouse: file loaded",
		zap.String("table", table),
		zap.String("path", path),
		zap.Int("rows", out.Len()),
	)
	return out, nil
}

func (s *Files) Version(context.Context) (string, error) {
	return "flat files", nil
}

// cell converts one raw field: blanks become null, numeric columns of
// delimited files accept decimal commas.
func (s *Files) cell(raw string, kind frame.Kind, delimited bool) any {
	v := strings.TrimSpace(raw)
	if v == "" {
		return nil
	}
	if delimited && s.opts.DecimalComma && (kind == frame.KindFloat || kind == frame.KindInt) {
		v = strings.ReplaceAll(v, ",", ".")
	}
	return v
}

func (s *Files) readDelimited(path string) ([]string, [][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, eris.Wrap(err, "files: open")
	}
	defer f.Close()

	r := csv.NewReader(f)
	if s.opts.Delimiter != "" {
		d, _ := utf8.DecodeRuneInString(s.opts.Delimiter)
		r.Comma = d
	}
	r.LazyQuotes = true
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err == io.EOF {
		return nil, nil, eris.Errorf("files: %s is empty", path)
	}
	if err != nil {
		return nil, nil, eris.Wrap(err, "files: read header")
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	var records [][]string
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, eris.Wrap(err, "files: read row")
		}
		records = append(records, rec)
	}
	return dedupeHeader(header), records, nil
}

func readWorkbook(path string, skip int) ([]string, [][]string, error) {
	wb, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, nil, eris.Wrap(err, "files: open workbook")
	}
	if len(wb.Sheets) == 0 {
		return nil, nil, eris.Errorf("files: %s has no sheets", path)
	}

	sheet := wb.Sheets[0]
	if len(sheet.Rows) <= skip {
		return nil, nil, eris.Errorf("files: %s has no header after %d skipped rows", path, skip)
	}

	var header []string
	var records [][]string
	for i, row := range sheet.Rows[skip:] {
		cells := make([]string, len(row.Cells))
		for j, c := range row.Cells {
			// Numeric cells keep their stored value, not the display format.
			if c.Type() == xlsx.CellTypeNumeric {
				cells[j] = c.Value
				continue
			}
			cells[j] = c.String()
		}
		if i == 0 {
			header = cells
			continue
		}
		records = append(records, cells)
	}
	return dedupeHeader(header), records, nil
}

// dedupeHeader suffixes repeated column names with .1, .2, ... so that
// spreadsheets with two "Nombre" columns yield "Nombre" and "Nombre.1".
func dedupeHeader(header []string) []string {
	out := make([]string, len(header))
	seen := make(map[string]int, len(header))
	for i, h := range header {
		n := seen[h]
		seen[h] = n + 1
		if n == 0 {
			out[i] = h
			continue
		}
		out[i] = fmt.Sprintf("%s.%d", h, n)
	}
	return out
}

// tableName extracts the table from a "SELECT ... FROM <table>" statement.
func tableName(query string) (string, error) {
	fields := strings.Fields(query)
	for i, f := range fields {
		if strings.EqualFold(f, "FROM") && i+1 < len(fields) {
			return strings.TrimRight(fields[i+1], ";"), nil
		}
	}
	return "", eris.New("files: statement has no FROM clause")
}

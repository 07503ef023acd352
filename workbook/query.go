package workbook

import (
	"fmt"

	"github.com/witanlabs/xlq/internal"
)

// Dimensions describes a sheet's used range. Every field is zero or empty
// for a sheet without used cells.
type Dimensions struct {
	Sheet       string `json:"sheet"`
	RowCount    int    `json:"rowCount"`
	ColumnCount int    `json:"columnCount"`
	FirstCell   string `json:"firstCell"`
	LastCell    string `json:"lastCell"`
	Range       string `json:"range"`
}

// CellInfo is a single cell with its type tag and raw stored text.
type CellInfo struct {
	Sheet   string `json:"sheet"`
	Address string `json:"address"`
	Value   Value  `json:"value"`
	Type    Type   `json:"type"`
	Raw     string `json:"raw"`
}

// Match is one search hit.
type Match struct {
	Address string `json:"address"`
	Value   Value  `json:"value"`
}

// FormulaEntry is one formula cell with its last cached value.
type FormulaEntry struct {
	Address string `json:"address"`
	Formula string `json:"formula"`
	Value   Value  `json:"value"`
}

// ReadOptions controls Read.
type ReadOptions struct {
	// Range is "A1:C10" or "Sheet!A1:C10"; empty means the used range.
	Range string
	// HeaderRow is the 1-based absolute header row; 0 means the first row of the range.
	HeaderRow int
	// Filter drops records for which it evaluates to false.
	Filter *Filter
}

// Table is the result of Read.
type Table struct {
	Sheet     string
	Range     string
	HeaderRow int
	Headers   []string
	Records   []Record
}

// Dimensions reports the used range.
func (s *Sheet) Dimensions() (Dimensions, error) {
	d := Dimensions{Sheet: s.Name}
	r, ok, err := s.UsedRange()
	if err != nil || !ok {
		return d, err
	}
	d.RowCount = r.Rows()
	d.ColumnCount = r.Cols()
	d.FirstCell = internal.CellName(r.StartRow, r.StartCol)
	d.LastCell = internal.CellName(r.EndRow, r.EndCol)
	d.Range = r.String()
	return d, nil
}

// Read extracts records from the sheet.
func (s *Sheet) Read(opts ReadOptions) (*Table, error) {
	t := &Table{Sheet: s.Name, Headers: []string{}, Records: []Record{}}

	used, hasUsed, err := s.UsedRange()
	if err != nil {
		return nil, err
	}
	rng := used
	if opts.Range != "" {
		sheet, r, err := internal.ParseRange(opts.Range)
		if err != nil {
			return nil, &InvalidArgumentError{Arg: "range", Err: err}
		}
		if sheet != "" && !equalFold(sheet, s.Name) {
			return nil, &InvalidArgumentError{Arg: "range", Err: fmt.Errorf("range %s is not on sheet %q", internal.FormatAddress(sheet, r), s.Name)}
		}
		rng = r
	} else if !hasUsed {
		return t, nil
	}
	t.Range = rng.String()

	headerRow := rng.StartRow
	if opts.HeaderRow > 0 {
		headerRow = opts.HeaderRow
	}
	t.HeaderRow = headerRow

	texts := make([]string, 0, rng.Cols())
	for col := rng.StartCol; col <= rng.EndCol; col++ {
		_, c, err := s.value(headerRow, col)
		if err != nil {
			return nil, err
		}
		texts = append(texts, c.display)
	}
	t.Headers = NormalizeHeaders(texts, rng.StartCol)

	if !hasUsed {
		return t, nil
	}
	first := max(rng.StartRow, headerRow+1)
	last := min(rng.EndRow, used.EndRow)
	for row := first; row <= last; row++ {
		cells := make([]Value, 0, rng.Cols())
		blank := true
		for col := rng.StartCol; col <= rng.EndCol; col++ {
			v, _, err := s.value(row, col)
			if err != nil {
				return nil, err
			}
			if !v.IsBlank() {
				blank = false
			}
			cells = append(cells, v)
		}
		if blank {
			continue
		}
		rec := zipRecord(t.Headers, cells)
		if opts.Filter != nil {
			ok, err := opts.Filter.Match(rec)
			if err != nil {
				return nil, fmt.Errorf("row %d: %w", row, err)
			}
			if !ok {
				continue
			}
		}
		t.Records = append(t.Records, rec)
	}
	return t, nil
}

// Cell reads one cell. ref is an A1 reference such as "B5".
func (s *Sheet) Cell(ref string) (CellInfo, error) {
	name, row, col, err := internal.ParseCell(ref)
	if err != nil {
		return CellInfo{}, &InvalidArgumentError{Arg: "cell address", Err: err}
	}
	v, c, err := s.value(row, col)
	if err != nil {
		return CellInfo{}, err
	}
	return CellInfo{Sheet: s.Name, Address: name, Value: v, Type: v.Type(), Raw: c.raw}, nil
}

// Search scans used cells row by row and returns those whose display text
// or canonical text matches m. Blank cells never match.
func (s *Sheet) Search(m *Matcher) ([]Match, error) {
	matches := []Match{}
	r, ok, err := s.UsedRange()
	if err != nil || !ok {
		return matches, err
	}
	for row := r.StartRow; row <= r.EndRow; row++ {
		for col := r.StartCol; col <= r.EndCol; col++ {
			v, c, err := s.value(row, col)
			if err != nil {
				return nil, err
			}
			if v.IsBlank() {
				continue
			}
			if m.MatchString(c.display) || m.MatchString(v.Canonical()) {
				matches = append(matches, Match{Address: internal.CellName(row, col), Value: v})
			}
		}
	}
	return matches, nil
}

// Formulas lists every formula cell. The scan covers the used range
// extended by the sheet's stored dimension, so formulas without a cached
// value are still found.
func (s *Sheet) Formulas() ([]FormulaEntry, error) {
	entries := []FormulaEntry{}
	r, ok, err := s.UsedRange()
	if err != nil {
		return nil, err
	}
	if dim, err := s.wb.file.GetSheetDimension(s.Name); err == nil && dim != "" {
		if _, d, err := internal.ParseRange(dim); err == nil {
			if ok {
				r.StartRow, r.StartCol = min(r.StartRow, d.StartRow), min(r.StartCol, d.StartCol)
				r.EndRow, r.EndCol = max(r.EndRow, d.EndRow), max(r.EndCol, d.EndCol)
			} else {
				r, ok = d, true
			}
		}
	}
	if !ok {
		return entries, nil
	}
	for row := r.StartRow; row <= r.EndRow; row++ {
		for col := r.StartCol; col <= r.EndCol; col++ {
			addr := internal.CellName(row, col)
			formula, err := s.wb.file.GetCellFormula(s.Name, addr)
			if err != nil {
				return nil, fmt.Errorf("cell %s: %w", addr, err)
			}
			if formula == "" {
				continue
			}
			v, _, err := s.value(row, col)
			if err != nil {
				return nil, err
			}
			entries = append(entries, FormulaEntry{Address: addr, Formula: formula, Value: v})
		}
	}
	return entries, nil
}

// ListSheets returns the sheet names of the workbook at path.
func ListSheets(path string) ([]string, error) {
	wb, err := Open(path)
	if err != nil {
		return nil, err
	}
	defer wb.Close()
	return wb.SheetNames(), nil
}

// withSheet opens path, resolves sheet and runs fn. The workbook is closed
// on every return path.
func withSheet(path, sheet string, fn func(*Sheet) error) error {
	wb, err := Open(path)
	if err != nil {
		return err
	}
	defer wb.Close()
	s, err := wb.Sheet(sheet)
	if err != nil {
		return err
	}
	return fn(s)
}

// Inspect returns the used-range dimensions of a sheet.
func Inspect(path, sheet string) (Dimensions, error) {
	var d Dimensions
	err := withSheet(path, sheet, func(s *Sheet) (err error) {
		d, err = s.Dimensions()
		return err
	})
	return d, err
}

// Read extracts every record of a sheet. No row limit is applied here.
func Read(path, sheet string, opts ReadOptions) (*Table, error) {
	var t *Table
	err := withSheet(path, sheet, func(s *Sheet) (err error) {
		t, err = s.Read(opts)
		return err
	})
	return t, err
}

// ReadCell returns the value of one cell.
func ReadCell(path, sheet, ref string) (Value, error) {
	info, err := ReadCellInfo(path, sheet, ref)
	return info.Value, err
}

// ReadCellInfo returns one cell with its type tag and raw text.
func ReadCellInfo(path, sheet, ref string) (CellInfo, error) {
	var info CellInfo
	err := withSheet(path, sheet, func(s *Sheet) (err error) {
		info, err = s.Cell(ref)
		return err
	})
	return info, err
}

// Search finds cells matching term. The pattern is validated before the
// file is opened.
func Search(path, sheet, term string, regex bool) ([]Match, error) {
	m, err := NewMatcher(term, regex)
	if err != nil {
		return nil, err
	}
	var matches []Match
	err = withSheet(path, sheet, func(s *Sheet) (err error) {
		matches, err = s.Search(m)
		return err
	})
	return matches, err
}

// Formulas lists the formula cells of a sheet.
func Formulas(path, sheet string) ([]FormulaEntry, error) {
	var entries []FormulaEntry
	err := withSheet(path, sheet, func(s *Sheet) (err error) {
		entries, err = s.Formulas()
		return err
	})
	return entries, err
}

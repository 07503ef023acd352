// Package workbook reads sheets, cells and formulas out of spreadsheet
// files. Every exported query opens the file, runs a single pass and closes
// it again before returning.
package workbook

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/witanlabs/xlq/internal"
)

// Workbook is an open spreadsheet file.
type Workbook struct {
	Path     string
	file     *excelize.File
	date1904 bool
}

// Open opens the workbook at path for reading.
func Open(path string) (*Workbook, error) {
	format, err := detectFormat(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		if format == formatOLE2 {
			return nil, fmt.Errorf("open workbook %q: %w (file is an %s: legacy .xls and password-protected workbooks are not supported, re-save it as .xlsx)", path, err, format)
		}
		return nil, fmt.Errorf("open workbook %q: %w", path, err)
	}

	wb := &Workbook{Path: path, file: f}
	if props, err := f.GetWorkbookProps(); err == nil && props.Date1904 != nil {
		wb.date1904 = *props.Date1904
	}
	return wb, nil
}

// Close releases the underlying file.
func (w *Workbook) Close() error {
	if w == nil || w.file == nil {
		return nil
	}
	err := w.file.Close()
	w.file = nil
	return err
}

// SheetNames returns the sheet names in workbook order.
func (w *Workbook) SheetNames() []string {
	return w.file.GetSheetList()
}

// Sheet resolves name case-insensitively. An exact match wins over a
// case-folded one.
func (w *Workbook) Sheet(name string) (*Sheet, error) {
	names := w.SheetNames()
	for _, n := range names {
		if n == name {
			return newSheet(w, n), nil
		}
	}
	for _, n := range names {
		if equalFold(n, name) {
			return newSheet(w, n), nil
		}
	}
	return nil, &SheetNotFoundError{Name: name, Available: names}
}

// Sheet is one worksheet of an open Workbook.
type Sheet struct {
	Name string

	wb      *Workbook
	used    internal.Range
	hasUsed bool
	scanned bool
	formats map[int]formatKind
}

func newSheet(wb *Workbook, name string) *Sheet {
	return &Sheet{Name: name, wb: wb, formats: make(map[int]formatKind)}
}

// UsedRange returns the smallest range holding every non-blank cell. ok is
// false when the sheet has no such cell.
func (s *Sheet) UsedRange() (r internal.Range, ok bool, err error) {
	if s.scanned {
		return s.used, s.hasUsed, nil
	}
	rows, err := s.wb.file.GetRows(s.Name, excelize.Options{RawCellValue: true})
	if err != nil {
		return internal.Range{}, false, fmt.Errorf("read rows of sheet %q: %w", s.Name, err)
	}
	for ri, row := range rows {
		for ci, v := range row {
			if v == "" {
				continue
			}
			rowNum, colNum := ri+1, ci+1
			if !s.hasUsed {
				s.used = internal.Range{StartRow: rowNum, StartCol: colNum, EndRow: rowNum, EndCol: colNum}
				s.hasUsed = true
				continue
			}
			s.used.StartRow = min(s.used.StartRow, rowNum)
			s.used.EndRow = max(s.used.EndRow, rowNum)
			s.used.StartCol = min(s.used.StartCol, colNum)
			s.used.EndCol = max(s.used.EndCol, colNum)
		}
	}
	s.scanned = true
	return s.used, s.hasUsed, nil
}

// facts collects the stored state of one cell.
func (s *Sheet) facts(addr string) (cellFacts, error) {
	f := s.wb.file
	kind, err := f.GetCellType(s.Name, addr)
	if err != nil {
		return cellFacts{}, fmt.Errorf("cell %s: %w", addr, err)
	}
	raw, err := f.GetCellValue(s.Name, addr, excelize.Options{RawCellValue: true})
	if err != nil {
		return cellFacts{}, fmt.Errorf("cell %s: %w", addr, err)
	}
	display, err := f.GetCellValue(s.Name, addr)
	if err != nil {
		return cellFacts{}, fmt.Errorf("cell %s: %w", addr, err)
	}
	c := cellFacts{kind: kind, raw: raw, display: display}
	if (kind == excelize.CellTypeUnset || kind == excelize.CellTypeNumber) && raw != "" {
		if c.format, err = s.numberFormat(addr); err != nil {
			return cellFacts{}, fmt.Errorf("cell %s: %w", addr, err)
		}
	}
	return c, nil
}

func (s *Sheet) numberFormat(addr string) (formatKind, error) {
	id, err := s.wb.file.GetCellStyle(s.Name, addr)
	if err != nil {
		return formatGeneral, err
	}
	if k, ok := s.formats[id]; ok {
		return k, nil
	}
	style, err := s.wb.file.GetStyle(id)
	if err != nil {
		return formatGeneral, err
	}
	custom := ""
	if style.CustomNumFmt != nil {
		custom = *style.CustomNumFmt
	}
	k := classifyNumFmt(style.NumFmt, custom)
	s.formats[id] = k
	return k, nil
}

// value reads the typed value at 1-indexed (row, col).
func (s *Sheet) value(row, col int) (Value, cellFacts, error) {
	c, err := s.facts(internal.CellName(row, col))
	if err != nil {
		return Value{}, cellFacts{}, err
	}
	return classify(c, s.wb.date1904), c, nil
}

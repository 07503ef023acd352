package output

import (
	"fmt"
	"strconv"

	"github.com/witanlabs/xlq/workbook"
)

// NoLimit disables row truncation in NewReadData.
const NoLimit = -1

// InfoData is the payload of info.
type InfoData struct {
	File   string   `json:"file"`
	Sheets []string `json:"sheets"`
}

func (d InfoData) RenderHuman(h *Human) error {
	h.Title("%s: %d sheet%s", d.File, len(d.Sheets), plural(len(d.Sheets)))
	rows := make([][]string, len(d.Sheets))
	for i, s := range d.Sheets {
		rows[i] = []string{strconv.Itoa(i + 1), s}
	}
	h.Table([]string{"#", "Sheet"}, rows)
	return nil
}

// InspectData is the payload of inspect.
type InspectData struct {
	workbook.Dimensions
}

func (d InspectData) RenderHuman(h *Human) error {
	if d.RowCount == 0 {
		h.Note("sheet %q has no used cells", d.Sheet)
		return nil
	}
	h.Field("Sheet", d.Sheet)
	h.Field("Range", d.Range)
	h.Field("Rows", strconv.Itoa(d.RowCount))
	h.Field("Columns", strconv.Itoa(d.ColumnCount))
	h.Field("First cell", d.FirstCell)
	h.Field("Last cell", d.LastCell)
	return nil
}

// ReadData is the payload of read. Count is the number of records the
// query produced; Displayed is how many of them are in Rows.
type ReadData struct {
	Sheet     string            `json:"sheet"`
	Range     string            `json:"range"`
	HeaderRow int               `json:"headerRow"`
	Headers   []string          `json:"headers"`
	Count     int               `json:"count"`
	Displayed int               `json:"displayed"`
	Rows      []workbook.Record `json:"rows"`
}

// ReadSummary is the first NDJSON line of a streamed read.
type ReadSummary struct {
	Sheet     string   `json:"sheet"`
	Range     string   `json:"range"`
	HeaderRow int      `json:"headerRow"`
	Headers   []string `json:"headers"`
	Count     int      `json:"count"`
	Displayed int      `json:"displayed"`
}

// NewReadData applies limit to t. A truncation produces a warning; the
// reported count always covers every record.
func NewReadData(t *workbook.Table, limit int) (ReadData, []string) {
	d := ReadData{
		Sheet:     t.Sheet,
		Range:     t.Range,
		HeaderRow: t.HeaderRow,
		Headers:   t.Headers,
		Count:     len(t.Records),
		Rows:      t.Records,
	}
	var warnings []string
	if limit >= 0 && limit < d.Count {
		d.Rows = d.Rows[:limit]
		warnings = append(warnings, fmt.Sprintf("showing %d of %d rows (--limit %d)", limit, d.Count, limit))
	}
	d.Displayed = len(d.Rows)
	return d, warnings
}

func (d ReadData) summary() ReadSummary {
	return ReadSummary{
		Sheet:     d.Sheet,
		Range:     d.Range,
		HeaderRow: d.HeaderRow,
		Headers:   d.Headers,
		Count:     d.Count,
		Displayed: d.Displayed,
	}
}

func (d ReadData) records() []workbook.Record { return d.Rows }

func (d ReadData) RenderHuman(h *Human) error {
	if len(d.Headers) == 0 {
		h.Note("sheet %q has no data", d.Sheet)
		return nil
	}
	rows := make([][]string, len(d.Rows))
	for i, rec := range d.Rows {
		row := make([]string, len(d.Headers))
		for j, name := range d.Headers {
			if v, ok := rec.Get(name); ok {
				row[j] = v.Text()
			}
		}
		rows[i] = row
	}
	h.Table(d.Headers, rows)
	h.Note("%s!%s: %d of %d row%s", d.Sheet, d.Range, d.Displayed, d.Count, plural(d.Count))
	return nil
}

// CellData is the payload of cell. Human output is the bare value.
type CellData struct {
	workbook.CellInfo
}

func (d CellData) RenderHuman(h *Human) error {
	h.Line(d.Value.Text())
	return nil
}

// SearchData is the payload of search.
type SearchData struct {
	Sheet   string           `json:"sheet"`
	Term    string           `json:"term"`
	Regex   bool             `json:"regex"`
	Count   int              `json:"count"`
	Matches []workbook.Match `json:"matches"`
}

func (d SearchData) RenderHuman(h *Human) error {
	if len(d.Matches) == 0 {
		h.Note("no matches for %q in %s", d.Term, d.Sheet)
		return nil
	}
	rows := make([][]string, len(d.Matches))
	for i, m := range d.Matches {
		rows[i] = []string{m.Address, m.Value.Text(), string(m.Value.Type())}
	}
	h.Table([]string{"Address", "Value", "Type"}, rows)
	h.Note("%d match%s", d.Count, pluralES(d.Count))
	return nil
}

// FormulasData is the payload of formulas.
type FormulasData struct {
	Sheet    string                  `json:"sheet"`
	Count    int                     `json:"count"`
	Formulas []workbook.FormulaEntry `json:"formulas"`
}

func (d FormulasData) RenderHuman(h *Human) error {
	if len(d.Formulas) == 0 {
		h.Note("no formulas in %s", d.Sheet)
		return nil
	}
	rows := make([][]string, len(d.Formulas))
	for i, f := range d.Formulas {
		rows[i] = []string{f.Address, "=" + f.Formula, f.Value.Text()}
	}
	h.Table([]string{"Address", "Formula", "Cached value"}, rows)
	h.Note("%d formula%s", d.Count, plural(d.Count))
	return nil
}

// VersionData is the payload of --version.
type VersionData struct {
	Version string `json:"version"`
}

func (d VersionData) RenderHuman(h *Human) error {
	h.Line("xlq version " + d.Version)
	return nil
}

// UsageData is the payload of help in JSON modes.
type UsageData struct {
	Usage string `json:"usage"`
}

func (d UsageData) RenderHuman(h *Human) error {
	h.Raw(d.Usage)
	return nil
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}

func pluralES(n int) string {
	if n == 1 {
		return ""
	}
	return "es"
}

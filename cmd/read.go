package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/witanlabs/xlq/output"
	"github.com/witanlabs/xlq/workbook"
)

func newReadCmd(a *app) *cobra.Command {
	c := newCommand(a, "read <file> <sheet>", "Read rows of a sheet as records", `Read rows of a sheet as records keyed by header name.

The first row of the range is the header row unless --header-row names
another one; only rows below the header row are data. Blank headers become
ColA, ColB, ...; duplicate headers get _2, _3, ... suffixes. Entirely blank
rows are skipped.

--limit truncates the displayed rows only; "count" always reports every
matching record. --where keeps the records for which a boolean expression
holds; header names are variables, and $env["Unit Price"] reaches headers
that are not identifiers.

With --ndjson the first line is a summary envelope and every following line
is one record.

Examples:
  xlq read report.xlsx Sales
  xlq read report.xlsx Sales --range A1:D50 --limit 10
  xlq read report.xlsx Sales --header-row 3 --json
  xlq read report.xlsx Sales --where 'Amount > 100 && Region == "EU"' --ndjson`)
	f := c.Flags()
	f.String("range", "", "Cell range to read, e.g. A1:D50 or Sales!A1:D50 (default: used range)")
	f.Int("limit", 0, "Maximum number of rows to display")
	f.Lookup("limit").DefValue = ""
	f.Int("header-row", 0, "1-based row holding the headers (default: first row of the range)")
	f.Lookup("header-row").DefValue = ""
	f.String("where", "", "Boolean expression records must satisfy")
	return c
}

func runRead(_ context.Context, a *app, in *invocation, p *output.Printer) error {
	t, err := workbook.Read(in.file, in.sheet, workbook.ReadOptions{
		Range:     in.rangeExpr,
		HeaderRow: in.headerRow,
		Filter:    in.filter,
	})
	if err != nil {
		return err
	}
	data, warnings := output.NewReadData(t, in.limit)
	a.logger.Debug("read sheet", "sheet", t.Sheet, "range", t.Range, "count", data.Count, "displayed", data.Displayed)
	return output.Emit(p, "read", data, append(in.warnings, warnings...))
}

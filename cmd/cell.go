package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/witanlabs/xlq/output"
	"github.com/witanlabs/xlq/workbook"
)

func newCellCmd(a *app) *cobra.Command {
	return newCommand(a, "cell <file> <sheet> <cell>", "Read one cell", `Read one cell. JSON output carries the typed value, its type tag
(string, number, boolean, date, timespan, blank, error) and the raw stored
text; human output is the bare value.

Examples:
  xlq cell report.xlsx Sales B5
  xlq cell report.xlsx Sales '$B$5' --json`)
}

func runCell(_ context.Context, _ *app, in *invocation, p *output.Printer) error {
	info, err := workbook.ReadCellInfo(in.file, in.sheet, in.cell)
	if err != nil {
		return err
	}
	return output.Emit(p, "cell", output.CellData{CellInfo: info}, in.warnings)
}

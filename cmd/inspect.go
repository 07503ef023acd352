package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/witanlabs/xlq/output"
	"github.com/witanlabs/xlq/workbook"
)

func newInspectCmd(a *app) *cobra.Command {
	return newCommand(a, "inspect <file> <sheet>", "Show the used range of a sheet", `Show the used range of a sheet: row and column counts, first and last
cell. A sheet without used cells reports zero counts and empty addresses.

Sheet names match case-insensitively.

Examples:
  xlq inspect report.xlsx Sales
  xlq inspect report.xlsx sales --json-compact`)
}

func runInspect(_ context.Context, _ *app, in *invocation, p *output.Printer) error {
	d, err := workbook.Inspect(in.file, in.sheet)
	if err != nil {
		return err
	}
	return output.Emit(p, "inspect", output.InspectData{Dimensions: d}, in.warnings)
}

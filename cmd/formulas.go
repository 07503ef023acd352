package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/witanlabs/xlq/output"
	"github.com/witanlabs/xlq/workbook"
)

func newFormulasCmd(a *app) *cobra.Command {
	return newCommand(a, "formulas <file> <sheet>", "List the formula cells of a sheet", `List every formula cell of a sheet with its formula text (without the
leading "=") and the value cached in the file. Formulas are not
recalculated.

Examples:
  xlq formulas report.xlsx Summary
  xlq formulas report.xlsx Summary --json`)
}

func runFormulas(_ context.Context, _ *app, in *invocation, p *output.Printer) error {
	entries, err := workbook.Formulas(in.file, in.sheet)
	if err != nil {
		return err
	}
	return output.Emit(p, "formulas", output.FormulasData{Sheet: in.sheet, Count: len(entries), Formulas: entries}, in.warnings)
}

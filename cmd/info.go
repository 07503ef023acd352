package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/witanlabs/xlq/output"
	"github.com/witanlabs/xlq/workbook"
)

func newInfoCmd(a *app) *cobra.Command {
	return newCommand(a, "info <file>", "List the sheets of a workbook", `List the sheet names of a workbook in workbook order.

Examples:
  xlq info report.xlsx
  xlq info report.xlsx --json`)
}

func runInfo(_ context.Context, a *app, in *invocation, p *output.Printer) error {
	sheets, err := workbook.ListSheets(in.file)
	if err != nil {
		return err
	}
	a.logger.Debug("listed sheets", "file", in.file, "count", len(sheets))
	return output.Emit(p, "info", output.InfoData{File: in.file, Sheets: sheets}, in.warnings)
}

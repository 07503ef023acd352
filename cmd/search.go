package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/witanlabs/xlq/output"
	"github.com/witanlabs/xlq/workbook"
)

func newSearchCmd(a *app) *cobra.Command {
	c := newCommand(a, "search <file> <sheet> <term>", "Find cells matching a term", `Find the non-blank cells of a sheet whose displayed or canonical text
matches a term, in row-major order. Matching ignores case.

By default the term matches anywhere in the text. With --regex the term is a
regular expression that must match the whole text, so "Total.*" matches
"Total Sales" but not "Subtotal".

Examples:
  xlq search report.xlsx Sales total
  xlq search report.xlsx Sales 'Total.*' --regex --json`)
	c.Flags().Bool("regex", false, "Treat the term as a regular expression matching the whole cell text")
	return c
}

func runSearch(_ context.Context, _ *app, in *invocation, p *output.Printer) error {
	matches, err := workbook.Search(in.file, in.sheet, in.term, in.regex)
	if err != nil {
		return err
	}
	return output.Emit(p, "search", output.SearchData{
		Sheet:   in.sheet,
		Term:    in.term,
		Regex:   in.regex,
		Count:   len(matches),
		Matches: matches,
	}, in.warnings)
}

package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/witanlabs/xlq/output"
)

func newHelpCmd(a *app) *cobra.Command {
	return newCommand(a, "help [command]", "Show help for xlq or one of its commands", `Show help for xlq or one of its commands. In JSON modes the text is returned
as data.usage.

Examples:
  xlq help
  xlq help read
  xlq read --help`)
}

func runHelp(_ context.Context, a *app, in *invocation, p *output.Printer) error {
	if len(in.args) == 0 {
		return a.showUsage(p, "help", a.root)
	}
	c, ok := a.commands[in.args[0]]
	if !ok {
		return &argError{code: output.UnknownCommand, msg: fmt.Sprintf("unknown help topic %q", in.args[0])}
	}
	return a.showUsage(p, "help", c)
}

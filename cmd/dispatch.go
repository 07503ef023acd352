package cmd

import (
	"context"
	"io"
	"log/slog"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/witanlabs/xlq/output"
)

// handler runs one validated invocation and renders its result through p.
type handler func(ctx context.Context, a *app, in *invocation, p *output.Printer) error

func handlerFor(command string) handler {
	switch command {
	case "info":
		return runInfo
	case "inspect":
		return runInspect
	case "read":
		return runRead
	case "cell":
		return runCell
	case "search":
		return runSearch
	case "formulas":
		return runFormulas
	case "help":
		return runHelp
	case "tools":
		return runTools
	case "serve":
		return runServe
	}
	return nil
}

// newCommand builds a cobra command whose arguments are handed unparsed to
// dispatch.
func newCommand(a *app, use, short, long string) *cobra.Command {
	name, _, _ := strings.Cut(use, " ")
	return &cobra.Command{
		Use:                use,
		Short:              short,
		Long:               long,
		Args:               cobra.ArbitraryArgs,
		DisableFlagParsing: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.dispatch(cmd.Context(), name, args)
		},
	}
}

func (a *app) printer(in *invocation) *output.Printer {
	return output.NewPrinter(a.build, a.stdout, a.stderr, output.Options{
		Mode:  in.mode(a.settings),
		Quiet: in.quiet,
		Color: !in.noColor && !a.settings.NoColor && a.tty,
	})
}

// dispatch parses args for command, runs it and reports the outcome. A
// failure has already been rendered when the returned *ExitError arrives.
func (a *app) dispatch(ctx context.Context, command string, args []string) error {
	in, err := parseArgs(command, args)
	if in.verbose {
		a.level.Set(slog.LevelDebug)
	}
	p := a.printer(in)

	if err == nil && in.help {
		if c, ok := a.commands[command]; ok {
			return a.showUsage(p, command, c)
		}
	}
	if err == nil {
		err = in.validate()
	}
	if err != nil {
		return a.fail(p, command, err, in.warnings)
	}

	a.logger.Debug("dispatch", "command", command, "file", in.file, "sheet", in.sheet, "mode", p.Options().Mode.String())
	if err := handlerFor(command)(ctx, a, in, p); err != nil {
		return a.fail(p, command, err, in.warnings)
	}
	return nil
}

// runRoot handles command lines that name no known command.
func (a *app) runRoot(ctx context.Context, args []string) error {
	in, _ := parseArgs("", args)
	if len(in.args) > 0 {
		name := in.args[0]
		i := slices.Index(args, name)
		rest := append(slices.Clone(args[:i]), args[i+1:]...)
		return a.dispatch(ctx, name, rest)
	}

	p := a.printer(in)
	if in.version {
		return output.Emit(p, "version", output.VersionData{Version: a.build.ToolVersion}, in.warnings)
	}
	if in.help {
		return a.showUsage(p, "help", a.root)
	}
	if p.Options().Mode == output.ModeHuman {
		if !in.quiet {
			io.WriteString(a.stderr, a.root.UsageString())
		}
		return &ExitError{Code: 2}
	}
	return a.fail(p, "", missingArg("no command given; run 'xlq help' for usage"), in.warnings)
}

// showUsage renders c's help text: plain text on stderr in human mode, a
// usage envelope in JSON modes.
func (a *app) showUsage(p *output.Printer, command string, c *cobra.Command) error {
	text := c.UsageString()
	if long := strings.TrimSpace(c.Long); long != "" {
		text = long + "\n\n" + text
	}
	return output.Emit(p, command, output.UsageData{Usage: text}, nil)
}

package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"
	"runtime/debug"
	"sync"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/witanlabs/xlq/config"
	"github.com/witanlabs/xlq/output"
)

// Version is set at build time via -ldflags.
var Version = "dev"

// app is the state shared by every command of one process.
type app struct {
	build    output.BuildInfo
	settings config.Settings

	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
	tty    bool

	logger *slog.Logger
	level  *slog.LevelVar

	// mu serializes serve requests; the cobra tree is not safe for
	// concurrent use.
	mu *sync.Mutex

	root     *cobra.Command
	commands map[string]*cobra.Command
}

func newBuildInfo() output.BuildInfo {
	v := Version
	if v == "dev" {
		if bi, ok := debug.ReadBuildInfo(); ok && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
			v = bi.Main.Version
		}
	}
	return output.BuildInfo{SchemaVersion: output.SchemaVersion, ToolVersion: v}
}

func newApp(build output.BuildInfo, stdin io.Reader, stdout, stderr io.Writer) *app {
	level := new(slog.LevelVar)
	a := &app{
		build:  build,
		stdin:  stdin,
		stdout: stdout,
		stderr: stderr,
		level:  level,
		mu:     new(sync.Mutex),
		logger: slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level})),
	}
	if f, ok := stderr.(*os.File); ok {
		a.tty = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}

	settings, err := config.Load()
	if err != nil {
		a.logger.Warn("ignoring settings", "err", err)
	}
	a.settings = settings
	level.Set(settings.LogLevel)
	if _, ok := output.ParseMode(settings.Output); settings.Output != "" && !ok {
		a.logger.Warn("ignoring unknown output setting", "output", settings.Output)
	}
	return a
}

// withStdout returns a copy of a that writes results to w.
func (a *app) withStdout(w io.Writer) *app {
	c := *a
	c.stdout = w
	return &c
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:     "xlq",
		Short:   "Read sheets, cells and formulas out of Excel workbooks",
		Version: a.build.ToolVersion,
		Long: `Read tabular data and metadata out of Excel workbooks (.xlsx, .xlsm).

Output:
  default          Tables and messages on stderr
  --json, -j       Pretty JSON envelope on stdout
  --json-compact   One-line JSON envelope on stdout
  --ndjson         read streams one JSON object per row after a summary line

Every JSON response is an envelope:
  {"schemaVersion":"1.0","toolVersion":"...","command":"...","success":true,
   "data":{...},"warnings":[],"errorCode":null,"message":null}

Exit codes:
  0  success
  1  sheet not found or unexpected failure
  2  missing or invalid arguments, unknown command

Settings:
  Defaults for output, no-color, log-level and listen are read from
  $XLQ_CONFIG_DIR/config.json (or $XDG_CONFIG_HOME/xlq/config.json) and from
  XLQ_OUTPUT, XLQ_NO_COLOR, XLQ_LOG_LEVEL and XLQ_LISTEN. NO_COLOR is honoured.

Examples:
  xlq info report.xlsx
  xlq read report.xlsx Sales --limit 20
  xlq read report.xlsx Sales --range B2:F40 --header-row 2 --json
  xlq search report.xlsx Sales "Total.*" --regex
  echo '{"command":"info","file":"report.xlsx"}' | xlq serve`,
		Args:               cobra.ArbitraryArgs,
		DisableFlagParsing: true,
		SilenceErrors:      true,
		SilenceUsage:       true,
		CompletionOptions:  cobra.CompletionOptions{DisableDefaultCmd: true},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runRoot(cmd.Context(), args)
		},
	}

	pf := root.PersistentFlags()
	pf.BoolP("json", "j", false, "Output a pretty JSON envelope on stdout")
	pf.Bool("json-compact", false, "Output a one-line JSON envelope on stdout")
	pf.Bool("ndjson", false, "Output newline-delimited JSON (read streams one line per row)")
	pf.BoolP("quiet", "q", false, "Suppress human output on stderr")
	pf.Bool("no-color", false, "Disable coloured output")
	pf.Bool("verbose", false, "Log debug messages to stderr")
	pf.BoolP("help", "h", false, "Show help for a command")
	root.Flags().Bool("version", false, "Print the version and exit")

	a.root = root
	a.commands = make(map[string]*cobra.Command)
	for _, c := range []*cobra.Command{
		newInfoCmd(a),
		newInspectCmd(a),
		newReadCmd(a),
		newCellCmd(a),
		newSearchCmd(a),
		newFormulasCmd(a),
		newToolsCmd(a),
		newServeCmd(a),
	} {
		root.AddCommand(c)
		a.commands[c.Name()] = c
	}
	help := newHelpCmd(a)
	root.SetHelpCommand(help)
	a.commands[help.Name()] = help

	return root
}

// run executes one command line and returns the error main maps to an exit
// status.
func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	if args == nil {
		args = []string{}
	}
	a := newApp(newBuildInfo(), stdin, stdout, stderr)
	root := newRootCmd(a)
	root.SetArgs(args)
	root.SetIn(stdin)
	root.SetOut(stderr)
	root.SetErr(stderr)
	return root.ExecuteContext(ctx)
}

func Execute() error {
	return run(context.Background(), os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
}

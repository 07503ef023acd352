package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/witanlabs/xlq/config"
	"github.com/witanlabs/xlq/internal"
	"github.com/witanlabs/xlq/output"
	"github.com/witanlabs/xlq/workbook"
)

// argError is a command-line problem found before any file is touched.
type argError struct {
	code output.ErrorCode
	msg  string
}

func (e *argError) Error() string { return e.msg }

func missingArg(format string, args ...any) *argError {
	return &argError{code: output.MissingArgument, msg: fmt.Sprintf(format, args...)}
}

func invalidArg(format string, args ...any) *argError {
	return &argError{code: output.InvalidArgument, msg: fmt.Sprintf(format, args...)}
}

// positionals lists each command's required positional arguments in order.
var positionals = map[string][]string{
	"info":     {"file"},
	"inspect":  {"file", "sheet"},
	"read":     {"file", "sheet"},
	"cell":     {"file", "sheet", "cell"},
	"search":   {"file", "sheet", "term"},
	"formulas": {"file", "sheet"},
	"help":     {},
	"tools":    {},
	"serve":    {},
}

// switchFlags are recognised anywhere on the command line.
var switchFlags = map[string]func(*invocation){
	"--json":         func(in *invocation) { in.pretty = true },
	"-j":             func(in *invocation) { in.pretty = true },
	"--json-compact": func(in *invocation) { in.compact = true },
	"--ndjson":       func(in *invocation) { in.ndjson = true },
	"--quiet":        func(in *invocation) { in.quiet = true },
	"-q":             func(in *invocation) { in.quiet = true },
	"--no-color":     func(in *invocation) { in.noColor = true },
	"--regex":        func(in *invocation) { in.regex = true },
	"--verbose":      func(in *invocation) { in.verbose = true },
	"--help":         func(in *invocation) { in.help = true },
	"--version":      func(in *invocation) { in.version = true },
	"-h":             func(in *invocation) { in.help = true },
}

// valueFlags take a value, either as the next token or after "=".
var valueFlags = map[string]func(*invocation, string){
	"--range":      func(in *invocation, v string) { in.rangeExpr = v },
	"--limit":      func(in *invocation, v string) { in.limitText = &v },
	"--header-row": func(in *invocation, v string) { in.headerRowText = &v },
	"--where":      func(in *invocation, v string) { in.whereText = v },
	"--listen":     func(in *invocation, v string) { in.listen = v },
}

// invocation is one parsed command line.
type invocation struct {
	command string

	pretty, compact, ndjson bool
	quiet, noColor          bool
	regex, verbose, help    bool
	version                 bool

	rangeExpr     string
	limitText     *string
	headerRowText *string
	whereText     string
	listen        string

	args     []string
	warnings []string

	// Set by validate.
	file, sheet, cell, term string
	limit                   int
	headerRow               int
	filter                  *workbook.Filter
}

// mode resolves the output mode. NDJSON wins over compact JSON, which wins
// over pretty JSON; without any of them the configured default applies.
func (in *invocation) mode(s config.Settings) output.Mode {
	switch {
	case in.ndjson:
		return output.ModeNDJSON
	case in.compact:
		return output.ModeJSONCompact
	case in.pretty:
		return output.ModeJSON
	}
	if m, ok := output.ParseMode(s.Output); ok {
		return m
	}
	return output.ModeHuman
}

// parseArgs scans args twice. The first pass picks up switches wherever they
// appear. The second consumes value flags and keeps everything else as a
// positional; unknown "--foo" tokens are kept as positionals with a warning.
// A "--" token ends flag parsing. The returned invocation is usable for
// rendering even when err is non-nil.
func parseArgs(command string, args []string) (*invocation, error) {
	in := &invocation{command: command, limit: output.NoLimit}

	end := len(args)
	for i, a := range args {
		if a == "--" {
			end = i
			break
		}
		if set, ok := switchFlags[a]; ok {
			set(in)
		}
	}

	var firstErr error
	for i := 0; i < end; i++ {
		a := args[i]
		if _, ok := switchFlags[a]; ok {
			continue
		}
		name, value, hasValue := a, "", false
		if strings.HasPrefix(a, "--") {
			name, value, hasValue = strings.Cut(a, "=")
		}
		if set, ok := valueFlags[name]; ok {
			if !hasValue {
				if i+1 >= end {
					if firstErr == nil {
						firstErr = missingArg("%s requires a value", name)
					}
					continue
				}
				i++
				value = args[i]
			}
			set(in, value)
			continue
		}
		if strings.HasPrefix(a, "--") && len(a) > 2 {
			in.warnings = append(in.warnings, fmt.Sprintf("unrecognized option %s treated as a positional argument", a))
		}
		in.args = append(in.args, a)
	}
	if end < len(args) {
		in.args = append(in.args, args[end+1:]...)
	}
	return in, firstErr
}

// validate checks positionals and flag values for in.command.
func (in *invocation) validate() error {
	required, ok := positionals[in.command]
	if !ok {
		return &argError{code: output.UnknownCommand, msg: fmt.Sprintf("unknown command %q; run 'xlq help' for usage", in.command)}
	}
	if len(in.args) < len(required) {
		return missingArg("%s: missing required argument <%s>", in.command, required[len(in.args)])
	}
	for i, name := range required {
		v := in.args[i]
		switch name {
		case "file":
			in.file = v
		case "sheet":
			in.sheet = v
		case "cell":
			in.cell = v
		case "term":
			in.term = v
		}
	}

	if in.limitText != nil {
		n, err := strconv.Atoi(strings.TrimSpace(*in.limitText))
		if err != nil || n < 0 {
			return invalidArg("invalid --limit %q: must be a non-negative integer", *in.limitText)
		}
		in.limit = n
	}
	if in.headerRowText != nil {
		n, err := strconv.Atoi(strings.TrimSpace(*in.headerRowText))
		if err != nil || n < 1 {
			return invalidArg("invalid --header-row %q: must be an integer >= 1", *in.headerRowText)
		}
		in.headerRow = n
	}
	if in.rangeExpr != "" {
		if _, _, err := internal.ParseRange(in.rangeExpr); err != nil {
			return invalidArg("invalid --range: %v", err)
		}
	}
	if in.cell != "" {
		if _, _, _, err := internal.ParseCell(in.cell); err != nil {
			return invalidArg("invalid cell address: %v", err)
		}
	}
	if in.whereText != "" {
		f, err := workbook.CompileFilter(in.whereText)
		if err != nil {
			return invalidArg("%v", err)
		}
		in.filter = f
	}
	return nil
}

package cmd

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/witanlabs/xlq/output"
)

// Manifest describes every command and option for automated callers. It is
// derived from the command tree so it matches what the parser accepts.
type Manifest struct {
	Tools         []ToolSpec   `json:"tools"`
	GlobalOptions []OptionSpec `json:"globalOptions"`
}

type ToolSpec struct {
	Name      string         `json:"name"`
	Summary   string         `json:"summary"`
	Usage     string         `json:"usage"`
	Arguments []ArgumentSpec `json:"arguments"`
	Options   []OptionSpec   `json:"options"`
}

type ArgumentSpec struct {
	Name        string `json:"name"`
	Required    bool   `json:"required"`
	Description string `json:"description"`
}

type OptionSpec struct {
	Name        string `json:"name"`
	Shorthand   string `json:"shorthand,omitempty"`
	Type        string `json:"type"`
	Default     string `json:"default"`
	Description string `json:"description"`
}

var argDescriptions = map[string]string{
	"file":    "Path to the workbook (.xlsx, .xlsm)",
	"sheet":   "Sheet name, matched case-insensitively",
	"cell":    "Cell address such as B5 or $B$5",
	"term":    "Search term; a whole-text regular expression with --regex",
	"command": "Command to show help for",
}

var optionalArgs = map[string][]string{
	"help": {"command"},
}

func (m Manifest) RenderHuman(h *output.Human) error {
	rows := make([][]string, len(m.Tools))
	for i, t := range m.Tools {
		rows[i] = []string{t.Name, t.Usage, t.Summary}
	}
	h.Table([]string{"Command", "Usage", "Summary"}, rows)
	h.Note("use --json for the full manifest")
	return nil
}

func newToolsCmd(a *app) *cobra.Command {
	return newCommand(a, "tools", "Describe every command as a machine-readable manifest", `Describe every command, its arguments and options as a manifest for
automated callers.

Examples:
  xlq tools --json`)
}

func runTools(_ context.Context, a *app, in *invocation, p *output.Printer) error {
	return output.Emit(p, "tools", buildManifest(a.root), in.warnings)
}

func buildManifest(root *cobra.Command) Manifest {
	m := Manifest{
		Tools:         []ToolSpec{},
		GlobalOptions: optionSpecs(root.PersistentFlags()),
	}
	for _, c := range root.Commands() {
		if c.Hidden {
			continue
		}
		spec := ToolSpec{
			Name:      c.Name(),
			Summary:   c.Short,
			Usage:     c.UseLine(),
			Arguments: []ArgumentSpec{},
			Options:   optionSpecs(c.LocalNonPersistentFlags()),
		}
		for _, name := range positionals[c.Name()] {
			spec.Arguments = append(spec.Arguments, ArgumentSpec{Name: name, Required: true, Description: argDescriptions[name]})
		}
		for _, name := range optionalArgs[c.Name()] {
			spec.Arguments = append(spec.Arguments, ArgumentSpec{Name: name, Description: argDescriptions[name]})
		}
		m.Tools = append(m.Tools, spec)
	}
	return m
}

func optionSpecs(fs *pflag.FlagSet) []OptionSpec {
	specs := []OptionSpec{}
	fs.VisitAll(func(f *pflag.Flag) {
		if f.Hidden {
			return
		}
		specs = append(specs, OptionSpec{
			Name:        f.Name,
			Shorthand:   f.Shorthand,
			Type:        f.Value.Type(),
			Default:     f.DefValue,
			Description: f.Usage,
		})
	})
	return specs
}

package output

import (
	"encoding/json"
	"io"

	"github.com/witanlabs/xlq/workbook"
)

// Mode selects how results are rendered.
type Mode int

const (
	ModeHuman Mode = iota
	ModeJSON
	ModeJSONCompact
	ModeNDJSON
)

func (m Mode) String() string {
	switch m {
	case ModeJSON:
		return "json"
	case ModeJSONCompact:
		return "json-compact"
	case ModeNDJSON:
		return "ndjson"
	default:
		return "human"
	}
}

// ParseMode maps a configured output name to a Mode.
func ParseMode(s string) (Mode, bool) {
	for _, m := range []Mode{ModeHuman, ModeJSON, ModeJSONCompact, ModeNDJSON} {
		if m.String() == s {
			return m, true
		}
	}
	return ModeHuman, false
}

// Options controls a Printer.
type Options struct {
	Mode  Mode
	Quiet bool
	Color bool
}

// Printer writes results for one invocation. JSON goes to stdout, the human
// view goes to stderr.
type Printer struct {
	build  BuildInfo
	stdout io.Writer
	stderr io.Writer
	opts   Options
	human  *Human
}

func NewPrinter(build BuildInfo, stdout, stderr io.Writer, opts Options) *Printer {
	return &Printer{
		build:  build,
		stdout: stdout,
		stderr: stderr,
		opts:   opts,
		human:  NewHuman(stderr, opts.Color),
	}
}

func (p *Printer) Options() Options { return p.opts }

// rowStreamer is a payload whose rows are emitted one per line in NDJSON mode.
type rowStreamer interface {
	summary() ReadSummary
	records() []workbook.Record
}

// Emit renders a successful result for command.
func Emit[T HumanRenderer](p *Printer, command string, data T, warnings []string) error {
	switch p.opts.Mode {
	case ModeHuman:
		if p.opts.Quiet {
			return nil
		}
		if err := data.RenderHuman(p.human); err != nil {
			return err
		}
		for _, w := range warnings {
			p.human.Warn(w)
		}
		return nil
	case ModeNDJSON:
		if s, ok := any(data).(rowStreamer); ok {
			return p.stream(command, s, warnings)
		}
		return p.compact(Success(p.build, command, data, warnings))
	case ModeJSONCompact:
		return p.compact(Success(p.build, command, data, warnings))
	default:
		return p.pretty(Success(p.build, command, data, warnings))
	}
}

// Error renders a failure. In human mode a single error line goes to stderr
// unless quiet is set.
func (p *Printer) Error(command string, code ErrorCode, message string, warnings []string) error {
	switch p.opts.Mode {
	case ModeHuman:
		if p.opts.Quiet {
			return nil
		}
		p.human.Error(message)
		for _, w := range warnings {
			p.human.Warn(w)
		}
		return nil
	case ModeJSON:
		return p.pretty(Failure(p.build, command, code, message, warnings))
	default:
		return p.compact(Failure(p.build, command, code, message, warnings))
	}
}

// stream writes the summary envelope followed by one bare record per line.
func (p *Printer) stream(command string, s rowStreamer, warnings []string) error {
	if err := p.compact(Success(p.build, command, s.summary(), warnings)); err != nil {
		return err
	}
	enc := p.encoder()
	for _, rec := range s.records() {
		if err := enc.Encode(rec); err != nil {
			return err
		}
	}
	return nil
}

// encoder writes to stdout without HTML escaping, so text such as "<file>"
// or "a >= 1" stays readable.
func (p *Printer) encoder() *json.Encoder {
	enc := json.NewEncoder(p.stdout)
	enc.SetEscapeHTML(false)
	return enc
}

func (p *Printer) pretty(v any) error {
	enc := p.encoder()
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (p *Printer) compact(v any) error {
	return p.encoder().Encode(v)
}

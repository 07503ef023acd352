package workbook

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"golang.org/x/text/cases"
)

// Filter is a compiled boolean row expression, e.g. `Amount > 100 && Region == "EU"`.
// Header names are variables; names that are not identifiers are reachable
// through $env["Unit Price"].
type Filter struct {
	Source  string
	program *vm.Program
}

// CompileFilter compiles src. Compile errors are reported as invalid arguments.
func CompileFilter(src string) (*Filter, error) {
	program, err := expr.Compile(src, expr.AsBool(), expr.AllowUndefinedVariables())
	if err != nil {
		return nil, &InvalidArgumentError{Arg: "--where expression", Err: err}
	}
	return &Filter{Source: src, program: program}, nil
}

// Match evaluates the filter against rec.
func (f *Filter) Match(rec Record) (bool, error) {
	out, err := expr.Run(f.program, rec.Env())
	if err != nil {
		return false, &InvalidArgumentError{Arg: "--where expression", Err: err}
	}
	b, ok := out.(bool)
	if !ok {
		return false, &InvalidArgumentError{Arg: "--where expression", Err: fmt.Errorf("result is %T, not bool", out)}
	}
	return b, nil
}

// Matcher decides whether a cell's text matches a search term.
type Matcher struct {
	Term  string
	Regex bool

	folded string
	re     *regexp.Regexp
	fold   cases.Caser
}

// NewMatcher builds a case-insensitive matcher. In substring mode any
// occurrence of term matches; in regex mode term must match the whole text.
func NewMatcher(term string, regex bool) (*Matcher, error) {
	m := &Matcher{Term: term, Regex: regex, fold: cases.Fold()}
	if regex {
		re, err := regexp.Compile(`(?i)^(?:` + term + `)$`)
		if err != nil {
			return nil, &InvalidArgumentError{Arg: "regular expression", Err: err}
		}
		m.re = re
		return m, nil
	}
	m.folded = m.fold.String(term)
	return m, nil
}

// MatchString reports whether s matches.
func (m *Matcher) MatchString(s string) bool {
	if m.re != nil {
		return m.re.MatchString(s)
	}
	return strings.Contains(m.fold.String(s), m.folded)
}

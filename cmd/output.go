package cmd

import (
	"errors"

	"github.com/witanlabs/xlq/output"
	"github.com/witanlabs/xlq/workbook"
)

// ExitError signals a non-zero exit code without printing an error message.
// The failure has already been reported on stdout or stderr.
type ExitError struct{ Code int }

func (e *ExitError) Error() string { return "" }

// classify maps an error to its envelope code and message. Query errors are
// classified here and nowhere else.
func classify(err error) (output.ErrorCode, string) {
	var ae *argError
	var nf *workbook.SheetNotFoundError
	var inv *workbook.InvalidArgumentError
	switch {
	case errors.As(err, &ae):
		return ae.code, ae.msg
	case errors.As(err, &nf):
		return output.SheetNotFound, nf.Error()
	case errors.As(err, &inv):
		return output.InvalidArgument, inv.Error()
	default:
		return output.UnhandledError, err.Error()
	}
}

// fail reports err through p and returns the matching ExitError.
func (a *app) fail(p *output.Printer, command string, err error, warnings []string) error {
	code, msg := classify(err)
	a.logger.Debug("command failed", "command", command, "code", code, "err", err)
	if perr := p.Error(command, code, msg, warnings); perr != nil {
		return perr
	}
	return &ExitError{Code: code.ExitCode()}
}

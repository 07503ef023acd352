package workbook

import (
	"fmt"
	"strings"
)

// SheetNotFoundError reports a sheet name with no case-insensitive match.
// Available lists the workbook's sheets in workbook order.
type SheetNotFoundError struct {
	Name      string
	Available []string
}

func (e *SheetNotFoundError) Error() string {
	return fmt.Sprintf("sheet %q not found; available sheets: %s", e.Name, strings.Join(e.Available, ", "))
}

// InvalidArgumentError reports a caller-supplied value that cannot be used,
// such as a regex that does not compile.
type InvalidArgumentError struct {
	Arg string
	Err error
}

func (e *InvalidArgumentError) Error() string {
	return fmt.Sprintf("invalid %s: %v", e.Arg, e.Err)
}

func (e *InvalidArgumentError) Unwrap() error {
	return e.Err
}

// Package output renders command results as human tables on stderr or as
// JSON envelopes on stdout.
package output

// SchemaVersion is the version of the envelope layout.
const SchemaVersion = "1.0"

// BuildInfo carries the values stamped into every envelope. It is built once
// at process entry and passed down read-only.
type BuildInfo struct {
	SchemaVersion string
	ToolVersion   string
}

// ErrorCode classifies a failed command.
type ErrorCode string

const (
	MissingArgument ErrorCode = "MISSING_ARGUMENT"
	InvalidArgument ErrorCode = "INVALID_ARGUMENT"
	UnknownCommand  ErrorCode = "UNKNOWN_COMMAND"
	SheetNotFound   ErrorCode = "SHEET_NOT_FOUND"
	UnhandledError  ErrorCode = "UNHANDLED_ERROR"
)

// ExitCode returns the process exit status for c.
func (c ErrorCode) ExitCode() int {
	switch c {
	case MissingArgument, InvalidArgument, UnknownCommand:
		return 2
	default:
		return 1
	}
}

// Envelope wraps every JSON response. All fields are always encoded; Data,
// ErrorCode and Message encode as null when unset.
type Envelope[T any] struct {
	SchemaVersion string     `json:"schemaVersion"`
	ToolVersion   string     `json:"toolVersion"`
	Command       string     `json:"command"`
	Success       bool       `json:"success"`
	Data          *T         `json:"data"`
	Warnings      []string   `json:"warnings"`
	ErrorCode     *ErrorCode `json:"errorCode"`
	Message       *string    `json:"message"`
}

// Success builds a successful envelope around data.
func Success[T any](b BuildInfo, command string, data T, warnings []string) Envelope[T] {
	return Envelope[T]{
		SchemaVersion: b.SchemaVersion,
		ToolVersion:   b.ToolVersion,
		Command:       command,
		Success:       true,
		Data:          &data,
		Warnings:      nonNil(warnings),
	}
}

// Failure builds a failed envelope. Data is always null.
func Failure(b BuildInfo, command string, code ErrorCode, message string, warnings []string) Envelope[struct{}] {
	return Envelope[struct{}]{
		SchemaVersion: b.SchemaVersion,
		ToolVersion:   b.ToolVersion,
		Command:       command,
		Warnings:      nonNil(warnings),
		ErrorCode:     &code,
		Message:       &message,
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

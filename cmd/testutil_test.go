package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// createWorkbook writes a fixture with three sheets:
//
//	Sales: Name | Amount header, rows "Row 1".."Row 10" with amounts 1.5 .. 15
//	Empty: no cells
//	Find:  A1 "Total Sales", A2 "total", A3 "TotalCost", A4 "Subtotal"
func createWorkbook(t *testing.T) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	require.NoError(t, f.SetSheetName("Sheet1", "Sales"))
	_, err := f.NewSheet("Empty")
	require.NoError(t, err)
	_, err = f.NewSheet("Find")
	require.NoError(t, err)

	require.NoError(t, f.SetSheetRow("Sales", "A1", &[]any{"Name", "Amount"}))
	for i := 1; i <= 10; i++ {
		require.NoError(t, f.SetSheetRow("Sales", fmt.Sprintf("A%d", i+1), &[]any{fmt.Sprintf("Row %d", i), float64(i) * 1.5}))
	}
	for i, v := range []string{"Total Sales", "total", "TotalCost", "Subtotal"} {
		require.NoError(t, f.SetCellValue("Find", fmt.Sprintf("A%d", i+1), v))
	}

	path := filepath.Join(t.TempDir(), "book.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

// isolateSettings points the config loader at an empty directory.
func isolateSettings(t *testing.T) {
	t.Helper()
	t.Setenv("XLQ_CONFIG_DIR", t.TempDir())
	for _, k := range []string{"XLQ_OUTPUT", "XLQ_NO_COLOR", "XLQ_LOG_LEVEL", "XLQ_LISTEN", "NO_COLOR"} {
		t.Setenv(k, "")
	}
}

type result struct {
	stdout string
	stderr string
	code   int
}

// runCLI runs one command line and returns its output and exit status.
func runCLI(t *testing.T, stdin string, args ...string) result {
	t.Helper()
	isolateSettings(t)
	var stdout, stderr bytes.Buffer
	err := run(context.Background(), args, strings.NewReader(stdin), &stdout, &stderr)
	code := 0
	if err != nil {
		var exitErr *ExitError
		require.True(t, errors.As(err, &exitErr), "unexpected error: %v", err)
		code = exitErr.Code
	}
	return result{stdout: stdout.String(), stderr: stderr.String(), code: code}
}

// envelope is a loosely typed response for assertions.
type envelope struct {
	SchemaVersion string          `json:"schemaVersion"`
	ToolVersion   string          `json:"toolVersion"`
	Command       string          `json:"command"`
	Success       bool            `json:"success"`
	Data          json.RawMessage `json:"data"`
	Warnings      []string        `json:"warnings"`
	ErrorCode     *string         `json:"errorCode"`
	Message       *string         `json:"message"`
}

func decodeEnvelope(t *testing.T, s string) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal([]byte(s), &env), "output: %s", s)
	return env
}

func (e envelope) code() string {
	if e.ErrorCode == nil {
		return ""
	}
	return *e.ErrorCode
}

func (e envelope) data(t *testing.T, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(e.Data, v))
}

package workbook

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// newFixture builds a workbook with build and saves it under t.TempDir().
func newFixture(t *testing.T, build func(f *excelize.File)) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	build(f)

	path := filepath.Join(t.TempDir(), "fixture.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

// createSalesWorkbook creates a workbook with three sheets.
// Layout of "Sales":
//
//	A1: Name    B1: Amount   C1: Active   D1: Joined
//	A2: Row 1   B2: 1.5      C2: false    D2: 2024-01-01
//	...
//	A11: Row 10 B11: 15      C11: true    D11: 2024-01-10
//
// "Empty" has no cells, "Notes" has a single text cell.
func createSalesWorkbook(t *testing.T) string {
	t.Helper()
	return newFixture(t, func(f *excelize.File) {
		require.NoError(t, f.SetSheetName("Sheet1", "Sales"))
		_, err := f.NewSheet("Empty")
		require.NoError(t, err)
		_, err = f.NewSheet("Notes")
		require.NoError(t, err)

		for i, h := range []string{"Name", "Amount", "Active", "Joined"} {
			cell, _ := excelize.CoordinatesToCellName(i+1, 1)
			require.NoError(t, f.SetCellValue("Sales", cell, h))
		}
		for i := 1; i <= 10; i++ {
			row := i + 1
			require.NoError(t, f.SetCellValue("Sales", fmt.Sprintf("A%d", row), fmt.Sprintf("Row %d", i)))
			require.NoError(t, f.SetCellValue("Sales", fmt.Sprintf("B%d", row), float64(i)*1.5))
			require.NoError(t, f.SetCellValue("Sales", fmt.Sprintf("C%d", row), i%2 == 0))
			require.NoError(t, f.SetCellValue("Sales", fmt.Sprintf("D%d", row), time.Date(2024, 1, i, 0, 0, 0, 0, time.UTC)))
		}

		require.NoError(t, f.SetCellValue("Notes", "B2", "remember the milk"))
	})
}

// replaceCell rewrites the stored XML of cell ref in one sheet part of the
// saved workbook at path. It reaches cell states excelize cannot write, such
// as cached error values.
func replaceCell(t *testing.T, path, part, ref, cellXML string) {
	t.Helper()
	zr, err := zip.OpenReader(path)
	require.NoError(t, err)
	defer zr.Close()

	cellRe := regexp.MustCompile(`(?s)<c r="` + regexp.QuoteMeta(ref) + `"[^>]*>.*?</c>`)
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	replaced := false
	for _, f := range zr.File {
		rc, err := f.Open()
		require.NoError(t, err)
		data, err := io.ReadAll(rc)
		rc.Close()
		require.NoError(t, err)

		if f.Name == part {
			require.True(t, cellRe.Match(data), "cell %s not found in %s", ref, part)
			data = cellRe.ReplaceAllLiteral(data, []byte(cellXML))
			replaced = true
		}
		w, err := zw.Create(f.Name)
		require.NoError(t, err)
		_, err = w.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	require.True(t, replaced, "part %s not found", part)
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
}

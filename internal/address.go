package internal

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// cellRefRe matches a cell reference like A1, $B$2, AA100
var cellRefRe = regexp.MustCompile(`^\$?([A-Z]{1,3})\$?(\d+)$`)

// Excel sheet limits.
const (
	MaxRows    = 1_048_576
	MaxColumns = 16_384
)

// Range is a rectangular block of cells in 1-indexed form.
type Range struct {
	StartRow, StartCol int
	EndRow, EndCol     int
}

// Rows returns the number of rows spanned by r.
func (r Range) Rows() int { return r.EndRow - r.StartRow + 1 }

// Cols returns the number of columns spanned by r.
func (r Range) Cols() int { return r.EndCol - r.StartCol + 1 }

// String formats r as "A1:C10", or "A1" for a single cell.
func (r Range) String() string {
	from := CellName(r.StartRow, r.StartCol)
	to := CellName(r.EndRow, r.EndCol)
	if from == to {
		return from
	}
	return from + ":" + to
}

// ParseRange parses an address like "A1:Z50" or "Sheet1!A1:Z50". The sheet
// part is optional and returned unquoted; a single cell yields a 1x1 range.
func ParseRange(address string) (sheet string, r Range, err error) {
	address = strings.TrimSpace(address)
	rangePart := address
	if i := strings.LastIndex(address, "!"); i >= 0 {
		sheet = strings.Trim(address[:i], "'")
		rangePart = address[i+1:]
		if sheet == "" {
			return "", Range{}, fmt.Errorf("invalid range %q: empty sheet name", address)
		}
	}

	// Split range into from:to
	fromRef, toRef, hasColon := strings.Cut(rangePart, ":")
	if !hasColon {
		toRef = fromRef // single cell
	}

	r.StartCol, r.StartRow, err = parseRef(fromRef)
	if err != nil {
		return "", Range{}, fmt.Errorf("invalid start of range %q: %w", fromRef, err)
	}
	r.EndCol, r.EndRow, err = parseRef(toRef)
	if err != nil {
		return "", Range{}, fmt.Errorf("invalid end of range %q: %w", toRef, err)
	}

	// Normalize order
	if r.StartRow > r.EndRow {
		r.StartRow, r.EndRow = r.EndRow, r.StartRow
	}
	if r.StartCol > r.EndCol {
		r.StartCol, r.EndCol = r.EndCol, r.StartCol
	}

	return sheet, r, nil
}

// ParseCell parses a single cell reference such as "B5" or "$B$5" and
// returns it in canonical upper-case form together with its coordinates.
func ParseCell(ref string) (name string, row, col int, err error) {
	col, row, err = parseRef(strings.TrimSpace(ref))
	if err != nil {
		return "", 0, 0, err
	}
	return CellName(row, col), row, col, nil
}

// ColToLetter converts a 1-indexed column number to Excel letter(s)
func ColToLetter(col int) string {
	result := ""
	for col > 0 {
		col--
		result = string(rune('A'+col%26)) + result
		col /= 26
	}
	return result
}

// CellName builds a cell name like "C5" from 1-indexed coordinates.
func CellName(row, col int) string {
	return ColToLetter(col) + strconv.Itoa(row)
}

// FormatAddress builds an address string like "Sheet1!A1:Z50"
func FormatAddress(sheet string, r Range) string {
	if strings.ContainsAny(sheet, " !'-") {
		sheet = "'" + strings.ReplaceAll(sheet, "'", "''") + "'"
	}
	return sheet + "!" + r.String()
}

func parseRef(ref string) (col, row int, err error) {
	ref = strings.ReplaceAll(ref, "$", "")
	m := cellRefRe.FindStringSubmatch(strings.ToUpper(ref))
	if m == nil {
		return 0, 0, fmt.Errorf("invalid cell reference %q", ref)
	}
	col = letterToCol(m[1])
	row, _ = strconv.Atoi(m[2])
	if row < 1 || row > MaxRows {
		return 0, 0, fmt.Errorf("row %d of %q is out of bounds", row, ref)
	}
	if col > MaxColumns {
		return 0, 0, fmt.Errorf("column %s of %q is out of bounds", m[1], ref)
	}
	return col, row, nil
}

func letterToCol(letters string) int {
	col := 0
	for _, c := range letters {
		col = col*26 + int(c-'A'+1)
	}
	return col
}

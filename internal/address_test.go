package internal

import (
	"testing"
)

func TestParseRange(t *testing.T) {
	tests := []struct {
		input                              string
		sheet                              string
		startRow, startCol, endRow, endCol int
		wantErr                            bool
	}{
		{"Sheet1!A1:Z50", "Sheet1", 1, 1, 50, 26, false},
		{"A1:B2", "", 1, 1, 2, 2, false},
		{"a1:c10", "", 1, 1, 10, 3, false},
		{"Sheet1!A1", "Sheet1", 1, 1, 1, 1, false},
		{"B5", "", 5, 2, 5, 2, false},
		{"'My Sheet'!C3:D4", "My Sheet", 3, 3, 4, 4, false},
		{"Sheet1!$A$1:$B$2", "Sheet1", 1, 1, 2, 2, false},
		// reversed range should normalize
		{"Sheet1!B2:A1", "Sheet1", 1, 1, 2, 2, false},
		{"!A1:B2", "", 0, 0, 0, 0, true},
		{"A0:B2", "", 0, 0, 0, 0, true},
		{"A1:", "", 0, 0, 0, 0, true},
		{"1A:B2", "", 0, 0, 0, 0, true},
		{"XFE1", "", 0, 0, 0, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			sheet, r, err := ParseRange(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error for %q: %v", tt.input, err)
			}
			if sheet != tt.sheet || r.StartRow != tt.startRow || r.StartCol != tt.startCol || r.EndRow != tt.endRow || r.EndCol != tt.endCol {
				t.Errorf("ParseRange(%q) = (%q, %+v), want (%q, %d, %d, %d, %d)",
					tt.input, sheet, r,
					tt.sheet, tt.startRow, tt.startCol, tt.endRow, tt.endCol)
			}
		})
	}
}

func TestParseCell(t *testing.T) {
	name, row, col, err := ParseCell("$b$5")
	if err != nil {
		t.Fatalf("ParseCell: %v", err)
	}
	if name != "B5" || row != 5 || col != 2 {
		t.Errorf("ParseCell($b$5) = (%q, %d, %d)", name, row, col)
	}

	if _, _, _, err := ParseCell("B"); err == nil {
		t.Error("expected error for a reference without a row")
	}
}

func TestColToLetter(t *testing.T) {
	tests := []struct {
		col  int
		want string
	}{
		{1, "A"},
		{26, "Z"},
		{27, "AA"},
		{52, "AZ"},
		{702, "ZZ"},
		{703, "AAA"},
	}
	for _, tt := range tests {
		if got := ColToLetter(tt.col); got != tt.want {
			t.Errorf("ColToLetter(%d) = %q, want %q", tt.col, got, tt.want)
		}
		if got := letterToCol(tt.want); got != tt.col {
			t.Errorf("letterToCol(%q) = %d, want %d", tt.want, got, tt.col)
		}
	}
}

func TestFormatAddress(t *testing.T) {
	got := FormatAddress("Sheet1", Range{StartRow: 1, StartCol: 1, EndRow: 50, EndCol: 26})
	want := "Sheet1!A1:Z50"
	if got != want {
		t.Errorf("FormatAddress = %q, want %q", got, want)
	}

	// Single cell
	got = FormatAddress("Sheet1", Range{StartRow: 5, StartCol: 3, EndRow: 5, EndCol: 3})
	want = "Sheet1!C5"
	if got != want {
		t.Errorf("FormatAddress single cell = %q, want %q", got, want)
	}

	got = FormatAddress("Q1 Sales", Range{StartRow: 1, StartCol: 1, EndRow: 2, EndCol: 2})
	want = "'Q1 Sales'!A1:B2"
	if got != want {
		t.Errorf("FormatAddress quoted = %q, want %q", got, want)
	}
}

func TestRangeSpan(t *testing.T) {
	r := Range{StartRow: 2, StartCol: 3, EndRow: 10, EndCol: 5}
	if r.Rows() != 9 || r.Cols() != 3 {
		t.Errorf("span = %dx%d, want 9x3", r.Rows(), r.Cols())
	}
}

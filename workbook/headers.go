package workbook

import (
	"strconv"
	"strings"

	"golang.org/x/text/cases"

	"github.com/witanlabs/xlq/internal"
)

// fallbackPrefix names columns whose header cell is blank.
const fallbackPrefix = "Col"

// NormalizeHeaders turns the header cells of a range into unique column
// names. firstCol is the 1-indexed absolute column of texts[0]; blank
// headers become "Col" plus that column's letters. Names are deduplicated
// case-insensitively, left to right: later duplicates get "_2", "_3", ...
// The result always has len(texts) entries.
func NormalizeHeaders(texts []string, firstCol int) []string {
	names := make([]string, len(texts))
	for i, text := range texts {
		text = strings.TrimSpace(text)
		if text == "" {
			text = fallbackPrefix + internal.ColToLetter(firstCol+i)
		}
		names[i] = text
	}
	return dedupe(names)
}

func dedupe(names []string) []string {
	fold := cases.Fold()
	seen := make(map[string]bool, len(names))
	next := make(map[string]int)
	out := make([]string, len(names))
	for i, name := range names {
		key := fold.String(name)
		if !seen[key] {
			seen[key] = true
			out[i] = name
			continue
		}
		n := max(next[key], 2)
		for {
			candidate := name + "_" + strconv.Itoa(n)
			n++
			if ck := fold.String(candidate); !seen[ck] {
				seen[ck] = true
				out[i] = candidate
				break
			}
		}
		next[key] = n
	}
	return out
}

// equalFold compares two names under Unicode case folding.
func equalFold(a, b string) bool {
	fold := cases.Fold()
	return fold.String(a) == fold.String(b)
}

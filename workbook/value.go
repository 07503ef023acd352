package workbook

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// Type is the semantic type tag of a cell value.
type Type string

const (
	TypeString   Type = "string"
	TypeNumber   Type = "number"
	TypeBoolean  Type = "boolean"
	TypeDate     Type = "date"
	TypeTimespan Type = "timespan"
	TypeBlank    Type = "blank"
	TypeError    Type = "error"
)

const (
	jsonDateLayout      = "2006-01-02T15:04:05.9999999"
	canonicalDateLayout = "2006-01-02T15:04:05.0000000"
)

// Value is an immutable, typed cell value.
type Value struct {
	typ Type
	str string
	num float64
	b   bool
	t   time.Time
	d   time.Duration
}

func Blank() Value                   { return Value{typ: TypeBlank} }
func String(s string) Value          { return Value{typ: TypeString, str: s} }
func Number(f float64) Value         { return Value{typ: TypeNumber, num: f} }
func Bool(b bool) Value              { return Value{typ: TypeBoolean, b: b} }
func Date(t time.Time) Value         { return Value{typ: TypeDate, t: t} }
func Timespan(d time.Duration) Value { return Value{typ: TypeTimespan, d: d} }
func ErrorValue(text string) Value   { return Value{typ: TypeError, str: text} }

// Type returns the type tag; the zero Value is blank.
func (v Value) Type() Type {
	if v.typ == "" {
		return TypeBlank
	}
	return v.typ
}

// IsBlank reports whether v holds no value.
func (v Value) IsBlank() bool { return v.Type() == TypeBlank }

// Interface returns v as a plain Go value: nil, string, float64, bool,
// time.Time or time.Duration.
func (v Value) Interface() any {
	switch v.Type() {
	case TypeString, TypeError:
		return v.str
	case TypeNumber:
		return v.num
	case TypeBoolean:
		return v.b
	case TypeDate:
		return v.t
	case TypeTimespan:
		return v.d
	default:
		return nil
	}
}

// Canonical returns the type-converted string used for matching: dates in a
// round-trippable timestamp form, numbers in invariant decimal form, booleans
// as "true"/"false", timespans as [-][d.]hh:mm:ss[.fffffff].
func (v Value) Canonical() string {
	switch v.Type() {
	case TypeString, TypeError:
		return v.str
	case TypeNumber:
		return formatNumber(v.num)
	case TypeBoolean:
		return strconv.FormatBool(v.b)
	case TypeDate:
		return v.t.Format(canonicalDateLayout)
	case TypeTimespan:
		return formatTimespan(v.d)
	default:
		return ""
	}
}

// Text returns a short human-readable rendering of v.
func (v Value) Text() string {
	switch v.Type() {
	case TypeDate:
		if v.t.Hour() == 0 && v.t.Minute() == 0 && v.t.Second() == 0 && v.t.Nanosecond() == 0 {
			return v.t.Format(time.DateOnly)
		}
		return v.t.Format(time.DateTime)
	default:
		return v.Canonical()
	}
}

func (v Value) String() string { return v.Text() }

func (v Value) MarshalJSON() ([]byte, error) {
	switch v.Type() {
	case TypeString, TypeError:
		return marshalString(v.str)
	case TypeNumber:
		return json.Marshal(v.num)
	case TypeBoolean:
		return json.Marshal(v.b)
	case TypeDate:
		return marshalString(v.t.Format(jsonDateLayout))
	case TypeTimespan:
		return marshalString(formatTimespan(v.d))
	default:
		return []byte("null"), nil
	}
}

func formatNumber(f float64) string {
	abs := math.Abs(f)
	if abs != 0 && (abs >= 1e15 || abs < 1e-5) {
		return strconv.FormatFloat(f, 'E', -1, 64)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func formatTimespan(d time.Duration) string {
	var b strings.Builder
	if d < 0 {
		b.WriteByte('-')
		d = -d
	}
	days := d / (24 * time.Hour)
	d -= days * 24 * time.Hour
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second
	d -= s * time.Second
	if days > 0 {
		fmt.Fprintf(&b, "%d.", days)
	}
	fmt.Fprintf(&b, "%02d:%02d:%02d", h, m, s)
	if d > 0 {
		fmt.Fprintf(&b, ".%07d", d/100)
	}
	return b.String()
}

// formatKind classifies a number format.
type formatKind int

const (
	formatGeneral formatKind = iota
	formatDate
	formatDuration
)

// cellFacts is everything the mapper needs to know about one stored cell.
type cellFacts struct {
	kind    excelize.CellType
	raw     string
	display string
	format  formatKind
}

// classify maps stored cell facts to a semantic Value.
func classify(c cellFacts, date1904 bool) Value {
	switch c.kind {
	case excelize.CellTypeError:
		if c.raw != "" {
			return ErrorValue(c.raw)
		}
		return ErrorValue(c.display)
	case excelize.CellTypeBool:
		return Bool(c.raw == "1" || strings.EqualFold(c.raw, "true"))
	case excelize.CellTypeDate:
		if t, ok := parseISODate(c.raw); ok {
			return Date(t)
		}
		return String(c.display)
	case excelize.CellTypeUnset, excelize.CellTypeNumber:
		if c.raw == "" {
			return Blank()
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(c.raw), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return String(c.display)
		}
		switch c.format {
		case formatDuration:
			return Timespan(serialToDuration(f))
		case formatDate:
			if t, err := excelize.ExcelDateToTime(f, date1904); err == nil {
				return Date(t)
			}
		}
		return Number(f)
	default:
		return String(c.display)
	}
}

func serialToDuration(days float64) time.Duration {
	return time.Duration(math.Round(days*86400*1e6)) * time.Microsecond
}

var isoDateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	time.DateOnly,
}

func parseISODate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range isoDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// classifyNumFmt classifies a built-in number format id, or the custom
// format code when one is set.
func classifyNumFmt(id int, custom string) formatKind {
	if custom != "" {
		return classifyFormatCode(custom)
	}
	switch {
	case id == 46:
		return formatDuration
	case id >= 14 && id <= 22, id >= 27 && id <= 36, id == 45, id == 47, id >= 50 && id <= 58:
		return formatDate
	}
	return formatGeneral
}

func classifyFormatCode(code string) formatKind {
	lower := strings.ToLower(code)
	var b strings.Builder
	inQuote := false
scan:
	for i := 0; i < len(lower); i++ {
		ch := lower[i]
		switch {
		case inQuote:
			if ch == '"' {
				inQuote = false
			}
			continue
		case ch == '"':
			inQuote = true
			continue
		case ch == '\\', ch == '_', ch == '*':
			i++
			continue
		case ch == ';':
			break scan
		case ch == '[':
			end := strings.IndexByte(lower[i:], ']')
			if end < 0 {
				break scan
			}
			if isElapsedToken(lower[i+1 : i+end]) {
				return formatDuration
			}
			i += end
			continue
		}
		b.WriteByte(ch)
	}
	stripped := b.String()
	if stripped == "general" {
		return formatGeneral
	}
	if strings.ContainsAny(stripped, "ymdhs") {
		return formatDate
	}
	return formatGeneral
}

// isElapsedToken reports whether tok is an elapsed-time token such as h, mm or ss.
func isElapsedToken(tok string) bool {
	if tok == "" {
		return false
	}
	first := tok[0]
	if first != 'h' && first != 'm' && first != 's' {
		return false
	}
	for i := 1; i < len(tok); i++ {
		if tok[i] != first {
			return false
		}
	}
	return true
}

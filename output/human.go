package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
)

// HumanRenderer is implemented by every payload that has a terminal view.
type HumanRenderer interface {
	RenderHuman(h *Human) error
}

// Human writes colourised terminal output.
type Human struct {
	w io.Writer

	errc   *color.Color
	warnc  *color.Color
	title  *color.Color
	key    *color.Color
	header *color.Color
	faint  *color.Color
}

// NewHuman returns a Human writing to w. Colour escapes are only emitted
// when enabled is true.
func NewHuman(w io.Writer, enabled bool) *Human {
	h := &Human{
		w:      w,
		errc:   color.New(color.FgRed, color.Bold),
		warnc:  color.New(color.FgYellow),
		title:  color.New(color.Bold),
		key:    color.New(color.FgCyan),
		header: color.New(color.FgCyan, color.Bold),
		faint:  color.New(color.Faint),
	}
	for _, c := range []*color.Color{h.errc, h.warnc, h.title, h.key, h.header, h.faint} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return h
}

func (h *Human) Error(msg string) {
	fmt.Fprintf(h.w, "%s %s\n", h.errc.Sprint("error:"), msg)
}

func (h *Human) Warn(msg string) {
	fmt.Fprintf(h.w, "%s %s\n", h.warnc.Sprint("warning:"), msg)
}

func (h *Human) Title(format string, args ...any) {
	fmt.Fprintln(h.w, h.title.Sprintf(format, args...))
}

func (h *Human) Note(format string, args ...any) {
	fmt.Fprintln(h.w, h.faint.Sprintf(format, args...))
}

// Field prints one "key: value" line with the keys aligned.
func (h *Human) Field(key, value string) {
	fmt.Fprintf(h.w, "%s %s\n", h.key.Sprintf("%-11s", key+":"), value)
}

func (h *Human) Line(s string) {
	fmt.Fprintln(h.w, s)
}

// Raw writes s as is, adding a trailing newline if missing.
func (h *Human) Raw(s string) {
	io.WriteString(h.w, s)
	if !strings.HasSuffix(s, "\n") {
		io.WriteString(h.w, "\n")
	}
}

// Table renders rows under headers.
func (h *Human) Table(headers []string, rows [][]string) {
	t := tablewriter.NewWriter(h.w)
	t.SetAutoFormatHeaders(false)
	t.SetAutoWrapText(false)
	hdr := make([]string, len(headers))
	for i, s := range headers {
		hdr[i] = h.header.Sprint(s)
	}
	t.SetHeader(hdr)
	t.AppendBulk(rows)
	t.Render()
}

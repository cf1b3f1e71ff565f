package playback

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/mattn/go-runewidth"

	"dsaviz/interpreter-go/pkg/tracer"
)

// AbsentMarker stands in for array slots that were never written.
const AbsentMarker = "∅"

const clearScreen = "\x1b[H\x1b[2J"

// Renderer writes frames as plain text tables.
type Renderer struct {
	w io.Writer
	// ClearScreen redraws in place instead of appending frames.
	ClearScreen bool
}

// NewRenderer clears between frames only when w is a terminal.
func NewRenderer(w io.Writer) *Renderer {
	return &Renderer{w: w, ClearScreen: IsTerminal(w)}
}

// IsTerminal reports whether w is attached to a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(interface{ Fd() uintptr })
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Render draws one frame.
func (r *Renderer) Render(f Frame) error {
	var b strings.Builder
	if r.ClearScreen {
		b.WriteString(clearScreen)
	}
	b.WriteString(FormatFrame(f))
	_, err := io.WriteString(r.w, b.String())
	return err
}

// FormatFrame renders a step header followed by the snapshot.
func FormatFrame(f Frame) string {
	return fmt.Sprintf("step %d/%d\n", f.Index+1, f.Total) + FormatSnapshot(f.Snapshot)
}

// FormatSnapshot renders each tracked array as an index row over a value
// row, then the tracked variables.
func FormatSnapshot(snap tracer.Snapshot) string {
	var b strings.Builder
	for _, entry := range snap.Arrays {
		b.WriteString(entry.Name)
		b.WriteByte('\n')
		if len(entry.Values) == 0 {
			b.WriteString("  (empty)\n")
			continue
		}
		indices := make([]string, len(entry.Values))
		cells := make([]string, len(entry.Values))
		for idx, v := range entry.Values {
			indices[idx] = strconv.Itoa(idx)
			cells[idx] = cell(v)
		}
		writeRow(&b, indices, cells)
		writeRow(&b, cells, indices)
	}
	if len(snap.Vars) > 0 {
		b.WriteString("vars\n")
		width := 0
		for _, entry := range snap.Vars {
			width = max(width, runewidth.StringWidth(entry.Name))
		}
		for _, entry := range snap.Vars {
			fmt.Fprintf(&b, "  %s = %s\n", runewidth.FillRight(entry.Name, width), scalar(entry.Value))
		}
	}
	return b.String()
}

// writeRow pads each of row's cells to the wider of itself and the matching
// cell of other, so the two rows line up column by column.
func writeRow(b *strings.Builder, row, other []string) {
	b.WriteString(" ")
	for idx, text := range row {
		width := max(runewidth.StringWidth(text), runewidth.StringWidth(other[idx]))
		b.WriteString(" ")
		if idx == len(row)-1 {
			b.WriteString(text)
			continue
		}
		b.WriteString(runewidth.FillRight(text, width))
	}
	b.WriteByte('\n')
}

func cell(v tracer.Value) string {
	if v.Kind == tracer.KindAbsent {
		return AbsentMarker
	}
	return v.String()
}

func scalar(v tracer.Value) string {
	switch v.Kind {
	case tracer.KindAbsent:
		return AbsentMarker
	case tracer.KindString:
		return strconv.Quote(v.Text)
	}
	return v.String()
}

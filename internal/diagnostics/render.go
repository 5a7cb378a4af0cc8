package diagnostics

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// Renderer prints Reports to a writer, colorizing when the writer is a
// real terminal.
type Renderer struct {
	w      io.Writer
	color  bool
	codeC  *color.Color
	spanC  *color.Color
	msgC   *color.Color
	fixC   *color.Color
}

// NewRenderer builds a Renderer for w. Color is auto-detected via
// go-isatty when w is an *os.File; pass forceColor to override detection
// (e.g. from a --color CLI flag).
func NewRenderer(w io.Writer, forceColor *bool) *Renderer {
	enabled := false
	if forceColor != nil {
		enabled = *forceColor
	} else if f, ok := w.(*os.File); ok {
		enabled = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return &Renderer{
		w:     w,
		color: enabled,
		codeC: color.New(color.FgRed, color.Bold),
		spanC: color.New(color.FgCyan),
		msgC:  color.New(color.FgWhite),
		fixC:  color.New(color.FgGreen),
	}
}

// Render writes a one-or-two-line human-readable rendering of r.
func (rd *Renderer) Render(r *Report) {
	if rd.color {
		rd.codeC.Fprint(rd.w, r.Code)
	} else {
		fmt.Fprint(rd.w, r.Code)
	}
	fmt.Fprintf(rd.w, " [%s] ", r.Phase)
	if r.Span != nil {
		loc := fmt.Sprintf("%s:", r.Span.Start.String())
		if rd.color {
			rd.spanC.Fprint(rd.w, loc)
		} else {
			fmt.Fprint(rd.w, loc)
		}
		fmt.Fprint(rd.w, " ")
	}
	if rd.color {
		rd.msgC.Fprintln(rd.w, r.Message)
	} else {
		fmt.Fprintln(rd.w, r.Message)
	}
	if r.Fix != nil && r.Fix.Suggestion != "" {
		line := fmt.Sprintf("  fix: %s", r.Fix.Suggestion)
		if rd.color {
			rd.fixC.Fprintln(rd.w, line)
		} else {
			fmt.Fprintln(rd.w, line)
		}
	}
}

// RenderAll renders each report in order.
func (rd *Renderer) RenderAll(reports []*Report) {
	for _, r := range reports {
		rd.Render(r)
	}
}

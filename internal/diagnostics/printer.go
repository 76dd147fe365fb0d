package diagnostics

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
)

// ANSI color codes used by Print, matching spec.md §4.5: filename red,
// caret yellow, message red, stack-frame names cyan.
const (
	colorRed    = "\x1b[31m"
	colorYellow = "\x1b[33m"
	colorCyan   = "\x1b[36m"
	colorReset  = "\x1b[0m"
)

// Printer renders a Fatal to a stream, colorizing only when the stream is
// an attached terminal (github.com/mattn/go-isatty).
type Printer struct {
	Out      io.Writer
	ForceColor bool
}

// NewPrinter builds a Printer writing to w, auto-detecting color support
// when w is an *os.File.
func NewPrinter(w io.Writer) *Printer {
	p := &Printer{Out: w}
	if f, ok := w.(*os.File); ok {
		p.ForceColor = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return p
}

func (p *Printer) color(code, s string) string {
	if !p.ForceColor {
		return s
	}
	return code + s + colorReset
}

// Print renders the Fatal: source location, the offending line with a
// caret under the column, the message, then the unwound call stack.
func (p *Printer) Print(f *Fatal) {
	loc := fmt.Sprintf("%s:%d:%d", f.Token.File, f.Token.Line, f.Token.Column)
	fmt.Fprintln(p.Out, p.color(colorRed, loc))
	if f.Token.SourceLine != "" {
		fmt.Fprintln(p.Out, f.Token.SourceLine)
		caretCol := f.Token.Column
		if caretCol < 1 {
			caretCol = 1
		}
		fmt.Fprintln(p.Out, p.color(colorYellow, strings.Repeat(" ", caretCol-1)+"^"))
	}
	fmt.Fprintln(p.Out, p.color(colorRed, "error: "+f.Message))
	for i := len(f.Stack) - 1; i >= 0; i-- {
		fr := f.Stack[i]
		fmt.Fprintf(p.Out, "  at %s (%s:%d:%d)\n", p.color(colorCyan, fr.Function), fr.Token.File, fr.Token.Line, fr.Token.Column)
	}
}

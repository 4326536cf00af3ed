package diagnostics

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
)

const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
)

// Printer renders diagnostics for humans.
type Printer struct {
	w     io.Writer
	color bool
}

// NewPrinter colours output only when f is a terminal.
func NewPrinter(f *os.File) *Printer {
	color := isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	return &Printer{w: f, color: color}
}

func NewPlainPrinter(w io.Writer) *Printer {
	return &Printer{w: w}
}

func (p *Printer) Print(d *DiagnosticError) {
	line := d.Error()
	if p.color {
		line = p.colorFor(d.Severity) + line + colorReset
	}
	fmt.Fprintln(p.w, line)
}

func (p *Printer) PrintAll(ds []*DiagnosticError) {
	for _, d := range ds {
		p.Print(d)
	}
}

func (p *Printer) colorFor(s Severity) string {
	switch s {
	case SeverityWarning:
		return colorYellow
	case SeverityInfo:
		return colorCyan
	default:
		return colorRed
	}
}

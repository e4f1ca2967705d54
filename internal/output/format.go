// Package output provides terminal output formatting for the pkginit CLI.
// This package has no internal dependencies so every other package can use it.
package output

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

// Printer writes operator-facing status lines.
type Printer struct {
	out     io.Writer
	symbols Symbols

	green   func(a ...any) string
	red     func(a ...any) string
	cyan    func(a ...any) string
	magenta func(a ...any) string
	dim     func(a ...any) string
}

// NewPrinter returns a Printer writing to out. Colors follow fatih/color's
// global NoColor setting.
func NewPrinter(out io.Writer, symbols Symbols) *Printer {
	return &Printer{
		out:     out,
		symbols: symbols,
		green:   color.New(color.FgGreen, color.Bold).SprintFunc(),
		red:     color.New(color.FgRed, color.Bold).SprintFunc(),
		cyan:    color.New(color.FgCyan).SprintFunc(),
		magenta: color.New(color.FgMagenta).SprintFunc(),
		dim:     color.New(color.Faint).SprintFunc(),
	}
}

// Symbols returns the symbol set in use.
func (p *Printer) Symbols() Symbols { return p.symbols }

// Success prints "✓ label: detail".
func (p *Printer) Success(label, detail string) {
	fmt.Fprintf(p.out, "%s %s\n", p.green(p.symbols.Checkmark), p.line(label, detail))
}

// Failure prints "✗ label: detail".
func (p *Printer) Failure(label, detail string) {
	fmt.Fprintf(p.out, "%s %s\n", p.red(p.symbols.Failure), p.line(label, detail))
}

// Executing announces an external command before it runs.
func (p *Printer) Executing(command, purpose string) {
	fmt.Fprintf(p.out, "\n%s %s %s\n", p.magenta(p.symbols.Arrow+" Running"), p.dim(fmt.Sprintf("%q", command)), purpose)
}

// Raw prints text verbatim.
func (p *Printer) Raw(text string) {
	fmt.Fprint(p.out, text)
}

func (p *Printer) line(label, detail string) string {
	if detail == "" {
		return label
	}
	return label + ": " + p.cyan(detail)
}

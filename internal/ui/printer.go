package ui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

// Printer writes indented status lines. Styling is dropped when the output
// is not a terminal.
type Printer struct {
	out    io.Writer
	styled bool

	success lipgloss.Style
	failure lipgloss.Style
	warning lipgloss.Style
	info    lipgloss.Style
	dim     lipgloss.Style
	accent  lipgloss.Style
}

// NewPrinter styles output only when out is a terminal.
func NewPrinter(out io.Writer) *Printer {
	return newPrinter(out, IsTerminal(out))
}

func newPrinter(out io.Writer, styled bool) *Printer {
	p := &Printer{out: out, styled: styled}
	style := func(c lipgloss.Color) lipgloss.Style {
		if !styled {
			return lipgloss.NewStyle()
		}
		return lipgloss.NewStyle().Foreground(c)
	}
	p.success = style(colorGreen)
	p.failure = style(colorRed)
	p.warning = style(colorYellow)
	p.info = style(colorBlue)
	p.dim = style(colorDim)
	p.accent = style(colorCyan)
	return p
}

// Writer returns the underlying writer.
func (p *Printer) Writer() io.Writer {
	return p.out
}

// Success prints a check-marked line.
func (p *Printer) Success(format string, args ...any) {
	p.line(p.success.Render(SymbolSuccess), fmt.Sprintf(format, args...))
}

// Error prints the whole line in red.
func (p *Printer) Error(format string, args ...any) {
	p.line(p.failure.Render(SymbolError), p.failure.Render(fmt.Sprintf(format, args...)))
}

// Warn prints the whole line in yellow.
func (p *Printer) Warn(format string, args ...any) {
	p.line(p.warning.Render(SymbolWarning), p.warning.Render(fmt.Sprintf(format, args...)))
}

// Info prints an informational line.
func (p *Printer) Info(format string, args ...any) {
	p.line(p.info.Render(SymbolInfo), fmt.Sprintf(format, args...))
}

// Dim renders secondary text.
func (p *Printer) Dim(s string) string {
	return p.dim.Render(s)
}

// Highlight renders emphasized text.
func (p *Printer) Highlight(s string) string {
	return p.accent.Render(s)
}

// Println writes raw text.
func (p *Printer) Println(s string) {
	fmt.Fprintln(p.out, s)
}

func (p *Printer) line(symbol, msg string) {
	fmt.Fprintf(p.out, "  %s %s\n", symbol, msg)
}

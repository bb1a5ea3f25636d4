// Package ui renders terminal output for the gsd commands.
package ui

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// Symbols prefixed to status lines.
const (
	SymbolSuccess = "✓"
	SymbolError   = "✗"
	SymbolWarning = "⚠"
	SymbolInfo    = "ℹ"
)

var (
	colorGreen  = lipgloss.Color("#4CAF50")
	colorRed    = lipgloss.Color("#FF6B6B")
	colorYellow = lipgloss.Color("#F7B801")
	colorBlue   = lipgloss.Color("#5B8DEF")
	colorCyan   = lipgloss.Color("#4FD1C5")
	colorDim    = lipgloss.Color("#999999")
	colorBorder = lipgloss.Color("#444444")
)

// IsTerminal reports whether w is an interactive terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

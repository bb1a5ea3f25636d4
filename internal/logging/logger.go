package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/kingrea/gsd/internal/workflow"
)

// FileName is the log file kept under .planning/logs.
const FileName = "gsd.log"

// Logger appends leveled, timestamped lines to .planning/logs/gsd.log so
// users can inspect what a workflow step changed after the assistant session
// has moved on.
type Logger struct {
	*log.Logger
	file *os.File
}

// Options tunes a Logger.
type Options struct {
	// Verbose lowers the level to debug and mirrors output to Stderr.
	Verbose bool
	// Stderr receives the mirrored output when Verbose is set.
	Stderr io.Writer
}

// New creates (or reuses) the log file inside the project's .planning tree.
func New(projectDir string, opts Options) (*Logger, error) {
	logDir := filepath.Join(projectDir, workflow.PlanningDir, workflow.LogsDir)
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return nil, fmt.Errorf("logging: ensure log dir: %w", err)
	}
	path := filepath.Join(logDir, FileName)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("logging: open log file: %w", err)
	}

	var w io.Writer = f
	level := log.InfoLevel
	if opts.Verbose {
		level = log.DebugLevel
		if opts.Stderr != nil {
			w = io.MultiWriter(f, opts.Stderr)
		}
	}
	logger := log.NewWithOptions(w, log.Options{
		Level:           level,
		Formatter:       log.TextFormatter,
		ReportTimestamp: true,
		Prefix:          "gsd",
	})
	return &Logger{Logger: logger, file: f}, nil
}

// Discard returns a logger that drops everything. Library packages default to
// it so tests stay quiet.
func Discard() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.FatalLevel})
}

// Close releases the file handle.
func (l *Logger) Close() error {
	if l == nil || l.file == nil {
		return nil
	}
	return l.file.Close()
}

// Printf writes a single info line.
func (l *Logger) Printf(format string, args ...any) {
	if l == nil || l.Logger == nil {
		return
	}
	l.Logger.Info(strings.TrimRight(fmt.Sprintf(format, args...), "\n"))
}

// Package install copies the bundled gsd workflows into the companion's
// workflows directory.
package install

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/natefinch/atomic"

	"github.com/kingrea/gsd/internal/workflow"
)

//go:embed workflows/*.md
var bundled embed.FS

// Result lists installed and skipped workflow file names.
type Result struct {
	Installed []string
	Skipped   []string
}

// Workflows returns the bundled workflow file names in order.
func Workflows() []string {
	entries, err := fs.ReadDir(bundled, "workflows")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names
}

// Run copies every bundled workflow into dir. Existing files are left
// alone unless force is set.
func Run(dir string, force bool) (Result, error) {
	var res Result
	if strings.TrimSpace(dir) == "" {
		return res, fmt.Errorf("install: workflows directory is empty")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return res, fmt.Errorf("install: prepare %s: %w", dir, err)
	}
	for _, name := range Workflows() {
		target := filepath.Join(dir, name)
		if !force && workflow.FileExists(target) {
			res.Skipped = append(res.Skipped, name)
			continue
		}
		data, err := bundled.ReadFile(path.Join("workflows", name))
		if err != nil {
			return res, fmt.Errorf("install: read bundled %s: %w", name, err)
		}
		if err := atomic.WriteFile(target, strings.NewReader(string(data))); err != nil {
			return res, fmt.Errorf("install: write %s: %w", target, err)
		}
		res.Installed = append(res.Installed, name)
	}
	return res, nil
}

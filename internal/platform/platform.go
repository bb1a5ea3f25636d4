// Package platform resolves the host platform and the companion CLI's
// directories.
package platform

import (
	"os"
	"path/filepath"
	"runtime"
)

// Names returned by Name.
const (
	Mac     = "mac"
	Windows = "windows"
	Linux   = "linux"
	Unknown = "unknown"
)

// Environment overrides for the companion directories.
const (
	EnvConfigDir    = "CLINE_DIR"
	EnvWorkflowsDir = "CLINE_WORKFLOWS_DIR"
)

// Name maps runtime.GOOS to a friendly platform name.
func Name() string {
	return nameFor(runtime.GOOS)
}

func nameFor(goos string) string {
	switch goos {
	case "darwin":
		return Mac
	case "windows":
		return Windows
	case "linux":
		return Linux
	default:
		return Unknown
	}
}

// ConfigDir returns the companion configuration directory, ~/.cline unless
// CLINE_DIR is set.
func ConfigDir() string {
	if dir := os.Getenv(EnvConfigDir); dir != "" {
		return dir
	}
	return filepath.Join(homeDir(), ".cline")
}

// WorkflowsDir returns the directory the companion reads global workflows
// from, ~/Documents/Cline/Workflows unless CLINE_WORKFLOWS_DIR is set.
func WorkflowsDir() string {
	if dir := os.Getenv(EnvWorkflowsDir); dir != "" {
		return dir
	}
	return filepath.Join(homeDir(), "Documents", "Cline", "Workflows")
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}

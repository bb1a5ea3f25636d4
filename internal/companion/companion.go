// Package companion detects the Cline CLI the workflows run inside.
package companion

import (
	"context"
	"os/exec"
	"strings"
	"time"
)

// Binary is the companion executable name.
const Binary = "cline"

// Timeout bounds the version probe.
const Timeout = 5 * time.Second

// Status reports whether the companion is installed. Version is empty when
// the binary exists but the version probe failed.
type Status struct {
	Installed bool
	Version   string
}

// Check looks the companion up on PATH and asks it for its version.
func Check(ctx context.Context) Status {
	return check(ctx, Binary)
}

func check(ctx context.Context, binary string) Status {
	path, err := exec.LookPath(binary)
	if err != nil {
		return Status{}
	}
	ctx, cancel := context.WithTimeout(ctx, Timeout)
	defer cancel()
	out, err := exec.CommandContext(ctx, path, "--version").Output()
	if err != nil {
		return Status{Installed: true}
	}
	return Status{Installed: true, Version: strings.TrimSpace(string(out))}
}

// cmd/gsd/main.go
//
// Entry point for the gsd CLI. Without a subcommand it installs the bundled
// workflows for Cline; the subcommands read and update .planning/ in the
// current project.

package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/kingrea/gsd/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := cli.Run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

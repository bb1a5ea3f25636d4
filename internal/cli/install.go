package cli

import (
	"context"
	"fmt"

	"github.com/kingrea/gsd/internal/install"
	"github.com/kingrea/gsd/internal/platform"
	"github.com/kingrea/gsd/internal/ui"
	"github.com/kingrea/gsd/internal/upstream"
	"github.com/kingrea/gsd/internal/version"
)

func (a *app) banner(p *ui.Printer) {
	p.Println("")
	p.Println(fmt.Sprintf("  %s %s", p.Highlight("GSD"), p.Dim("v"+version.Version)))
	p.Println("  GSD planning workflows for Cline")
	p.Println("")
}

// runInstall detects the platform, checks for the companion CLI, copies the
// bundled workflows and checks for a newer release.
func (a *app) runInstall(ctx context.Context) error {
	p := a.printer()
	a.banner(p)
	if a.verbose {
		p.Info("Verbose mode enabled")
	}
	if a.force {
		p.Info("Force mode enabled")
	}
	logger := a.log()

	steps := []ui.Step{
		{
			Title: "Detecting platform...",
			Run: func(context.Context) (ui.Outcome, error) {
				return ui.Outcome{Message: "Platform: " + p.Highlight(platform.Name())}, nil
			},
		},
		{
			Title: "Checking for Cline CLI...",
			Run: func(ctx context.Context) (ui.Outcome, error) {
				status := a.companion(ctx)
				logger.Debug("companion check", "installed", status.Installed, "version", status.Version)
				if !status.Installed {
					return ui.Outcome{
						Level:   ui.LevelWarn,
						Message: "Cline CLI not found",
						Notes: []string{
							"gsd workflows run inside Cline. Install it first: npm install -g cline",
							"Continuing installation anyway...",
						},
					}, nil
				}
				v := status.Version
				if v == "" {
					v = "version unknown"
				}
				return ui.Outcome{Message: fmt.Sprintf("Cline CLI found (%s)", p.Highlight(v))}, nil
			},
		},
		{
			Title: "Installing workflows...",
			Run: func(context.Context) (ui.Outcome, error) {
				dir := a.workflowsDir()
				res, err := install.Run(dir, a.force)
				if err != nil {
					return ui.Outcome{}, err
				}
				logger.Info("workflows installed", "dir", dir, "installed", len(res.Installed), "skipped", len(res.Skipped))
				out := ui.Outcome{Message: fmt.Sprintf("Installed %d workflows to %s", len(res.Installed), p.Highlight(dir))}
				if len(res.Skipped) > 0 {
					out.Notes = append(out.Notes, fmt.Sprintf("Kept %d existing workflows; rerun with --force to overwrite", len(res.Skipped)))
				}
				return out, nil
			},
		},
		{
			Title: "Checking for updates...",
			Run: func(ctx context.Context) (ui.Outcome, error) {
				cmp, err := a.upstream.Check(ctx)
				if err != nil {
					logger.Debug("version check skipped", "err", err)
					return ui.Outcome{Level: ui.LevelInfo, Message: "Version check skipped: " + err.Error()}, nil
				}
				switch cmp.Result {
				case upstream.Behind:
					return ui.Outcome{
						Level:   ui.LevelWarn,
						Message: fmt.Sprintf("Update available: %s -> %s", cmp.Current, cmp.Latest),
						Notes:   []string{"go install " + upstream.ModulePath + "/cmd/gsd@latest"},
					}, nil
				case upstream.Ahead:
					return ui.Outcome{Message: fmt.Sprintf("Running %s, ahead of the latest release %s", cmp.Current, cmp.Latest)}, nil
				default:
					return ui.Outcome{Message: fmt.Sprintf("gsd %s is up to date", cmp.Current)}, nil
				}
			},
		},
	}
	if err := ui.RunSteps(ctx, p, steps); err != nil {
		return err
	}
	p.Println("")
	p.Info("Run /gsd-new-project.md in Cline to start a project.")
	return nil
}

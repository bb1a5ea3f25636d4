// Package cli wires the gsd command tree.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/kingrea/gsd/internal/companion"
	"github.com/kingrea/gsd/internal/logging"
	"github.com/kingrea/gsd/internal/platform"
	"github.com/kingrea/gsd/internal/state"
	"github.com/kingrea/gsd/internal/ui"
	"github.com/kingrea/gsd/internal/upstream"
	"github.com/kingrea/gsd/internal/version"
	"github.com/kingrea/gsd/internal/workflow"
)

// VersionChecker reports whether the running build is behind the latest
// release.
type VersionChecker interface {
	Check(ctx context.Context) (upstream.Comparison, error)
}

type app struct {
	stdout io.Writer
	stderr io.Writer

	dir     string
	verbose bool
	force   bool

	now          func() time.Time
	companion    func(context.Context) companion.Status
	upstream     VersionChecker
	workflowsDir func() string

	logger *logging.Logger
}

// Option customizes the command tree.
type Option func(*app)

// WithClock overrides the clock used for document dates.
func WithClock(clock func() time.Time) Option {
	return func(a *app) {
		a.now = clock
	}
}

// WithCompanion overrides the companion CLI probe.
func WithCompanion(check func(context.Context) companion.Status) Option {
	return func(a *app) {
		a.companion = check
	}
}

// WithVersionChecker overrides the upstream release lookup.
func WithVersionChecker(c VersionChecker) Option {
	return func(a *app) {
		a.upstream = c
	}
}

// WithWorkflowsDir overrides where the installer copies workflows.
func WithWorkflowsDir(dir string) Option {
	return func(a *app) {
		a.workflowsDir = func() string { return dir }
	}
}

// WithProjectDir runs project commands against dir instead of the working
// directory.
func WithProjectDir(dir string) Option {
	return func(a *app) {
		a.dir = dir
	}
}

// Run executes the command line and returns the process exit code.
func Run(ctx context.Context, args []string, stdout, stderr io.Writer, opts ...Option) int {
	a := &app{
		stdout:       stdout,
		stderr:       stderr,
		now:          time.Now,
		companion:    companion.Check,
		upstream:     upstream.NewClient(),
		workflowsDir: platform.WorkflowsDir,
	}
	for _, opt := range opts {
		opt(a)
	}
	defer func() { a.logger.Close() }()

	root := a.rootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	if err := root.ExecuteContext(ctx); err != nil {
		var stepErr *ui.StepError
		if !errors.As(err, &stepErr) {
			ui.NewPrinter(stderr).Error("%s", err)
		}
		return 1
	}
	return 0
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "gsd",
		Short:         "GSD planning workflows for Cline",
		Long:          "gsd installs the GSD workflows for Cline and maintains the .planning/ state they work from.",
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runInstall(cmd.Context())
		},
	}
	root.SetVersionTemplate("{{.Version}}\n")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Show detailed output")
	root.PersistentFlags().StringVarP(&a.dir, "dir", "C", a.dir, "Project directory (defaults to the working directory)")
	root.Flags().BoolVarP(&a.force, "force", "f", false, "Force overwrite existing installation")

	root.AddCommand(
		a.initCmd(),
		a.statusCmd(),
		a.configCmd(),
		a.plansCmd(),
		a.completeCmd(),
		a.verifyCmd(),
		a.commitMsgCmd(),
		a.debugCmd(),
		a.promptCmd(),
	)
	return root
}

func (a *app) printer() *ui.Printer {
	return ui.NewPrinter(a.stdout)
}

func (a *app) projectDir() (string, error) {
	if a.dir != "" {
		return filepath.Abs(a.dir)
	}
	return os.Getwd()
}

func (a *app) workflow() (*workflow.Workflow, error) {
	dir, err := a.projectDir()
	if err != nil {
		return nil, fmt.Errorf("resolve project directory: %w", err)
	}
	return workflow.ForProject(dir), nil
}

// log opens .planning/logs/gsd.log once the planning tree exists. Before
// that, activity is only mirrored to stderr in verbose mode.
func (a *app) log() *log.Logger {
	if a.logger != nil {
		return a.logger.Logger
	}
	dir, err := a.projectDir()
	if err == nil {
		if info, statErr := os.Stat(filepath.Join(dir, workflow.PlanningDir)); statErr == nil && info.IsDir() {
			logger, err := logging.New(dir, logging.Options{Verbose: a.verbose, Stderr: a.stderr})
			if err == nil {
				a.logger = logger
				return logger.Logger
			}
		}
	}
	if a.verbose {
		return log.NewWithOptions(a.stderr, log.Options{Level: log.DebugLevel, Prefix: "gsd"})
	}
	return logging.Discard()
}

func (a *app) store() (*state.Store, error) {
	wf, err := a.workflow()
	if err != nil {
		return nil, err
	}
	return state.NewStore(wf, state.WithClock(a.now), state.WithLogger(a.log())), nil
}

func (a *app) today() string {
	return a.now().Format(state.DateLayout)
}

func parseNumber(kind, arg string) (int, error) {
	n, err := strconv.Atoi(arg)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid %s number %q", kind, arg)
	}
	return n, nil
}

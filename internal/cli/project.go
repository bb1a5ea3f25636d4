package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kingrea/gsd/internal/config"
	"github.com/kingrea/gsd/internal/state"
	"github.com/kingrea/gsd/internal/ui"
)

func (a *app) initCmd() *cobra.Command {
	var opts state.InitOptions
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create the .planning tree and its starting documents",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			wf, err := a.workflow()
			if err != nil {
				return err
			}
			if err := wf.Initialize(); err != nil {
				return fmt.Errorf("init: %w", err)
			}
			store, err := a.store()
			if err != nil {
				return err
			}
			res, err := store.InitProjectFiles(opts)
			if err != nil {
				return err
			}
			p := a.printer()
			for _, name := range res.Created {
				p.Success("Created %s", name)
			}
			for _, name := range res.Skipped {
				p.Info("Kept existing %s", name)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&opts.ProjectName, "name", "", "Project name")
	cmd.Flags().StringVar(&opts.CoreValue, "core-value", "", "The one thing the project must deliver")
	cmd.Flags().StringSliceVar(&opts.Phases, "phases", nil, "Comma-separated roadmap phase names")
	cmd.Flags().IntVar(&opts.TotalPhases, "total-phases", 0, "Number of placeholder phases when --phases is not given")
	return cmd
}

func (a *app) statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the current position and roadmap progress",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.store()
			if err != nil {
				return err
			}
			snap, err := store.ReadState()
			if err != nil {
				return err
			}
			roadmap, err := store.ReadRoadmap()
			if err != nil {
				return err
			}
			fmt.Fprint(a.stdout, ui.StatusBoard(snap, roadmap.Progress, ui.IsTerminal(a.stdout)))
			return nil
		},
	}
}

func (a *app) configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config [key]",
		Short: "Print the merged planning config, or one dotted key of it",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := a.projectDir()
			if err != nil {
				return err
			}
			cfg, err := config.NewConfig(dir)
			if err != nil {
				return err
			}
			var value any = cfg.Merged
			if len(args) == 1 {
				v, ok := cfg.Get(strings.Split(args[0], ".")...)
				if !ok {
					return fmt.Errorf("config: key %q not found", args[0])
				}
				value = v
			}
			data, err := json.MarshalIndent(value, "", "  ")
			if err != nil {
				return fmt.Errorf("config: encode: %w", err)
			}
			fmt.Fprintln(a.stdout, string(data))
			return nil
		},
	}
	return cmd
}

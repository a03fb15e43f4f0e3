// Package cli wires the roster service into a command line interface.
package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"rostercore/internal/core"
)

// Execute runs the root command.
func Execute() {
	cmd := newRootCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

type rootOptions struct {
	seedPath string
	noSeed   bool
	debug    bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:          "rostercore",
		Short:        "Student roster and library inventory service",
		SilenceUsage: true,
	}
	cmd.PersistentFlags().StringVar(&opts.seedPath, "seed", "", "YAML seed file (default: built-in sample roster)")
	cmd.PersistentFlags().BoolVar(&opts.noSeed, "no-seed", false, "start with an empty roster")
	cmd.PersistentFlags().BoolVar(&opts.debug, "debug", false, "enable debug logging")

	cmd.AddCommand(
		newMenuCmd(opts),
		newStudentCmd(opts),
		newLibraryCmd(opts),
		newAnalyzeCmd(),
		newExportCmd(opts),
	)
	return cmd
}

// newService builds the service from environment-selected storage and applies
// the configured seed.
func (o *rootOptions) newService(cmd *cobra.Command) (*core.Service, error) {
	level := slog.LevelInfo
	if o.debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

	store, err := core.OpenPersistentStore(core.NewDefaultRulesEngine())
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	svc := core.NewService(store, core.WithLogger(core.NewSlogLogger(logger)))

	if o.noSeed {
		return svc, nil
	}
	seed := DefaultSeed()
	if o.seedPath != "" {
		seed, err = LoadSeed(o.seedPath)
		if err != nil {
			return nil, err
		}
	}
	if err := seed.Apply(cmd.Context(), svc); err != nil {
		return nil, err
	}
	return svc, nil
}

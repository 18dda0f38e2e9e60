// Package cli wires the portfolio command line.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"tcorea.dev/internal/config"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose    bool
	SiteConfig string
	DataPath   string
}

// NewRootCommand creates the root command for the portfolio CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:           "portfolio",
		Short:         "Portfolio website server",
		Long:          "Serves a project gallery, project pages and an about page from a static JSON data file.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "debug logging")
	cmd.PersistentFlags().StringVar(&opts.SiteConfig, "config", "", "site config file (default $SITE_CONFIG or site.yaml)")
	cmd.PersistentFlags().StringVar(&opts.DataPath, "data", "", "data file path (default $DATA_PATH or data/data.json)")

	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewValidateCommand(opts))

	return cmd
}

// loadConfig applies the global flags over config.Load
func loadConfig(opts *RootOptions) (*config.Config, error) {
	cfg, err := config.Load(opts.SiteConfig)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if opts.DataPath != "" {
		cfg.DataPath = opts.DataPath
		cfg.DataURL = ""
	}
	if opts.Verbose {
		cfg.LogLevel = "debug"
	}
	return cfg, nil
}

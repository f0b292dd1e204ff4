// Package main provides the acg-converter command line.
//
// acg-converter turns clinical extract files (patient details, care history,
// medications, long-term conditions) into the patient, medical services and
// pharmacy files read by the ACG risk-adjustment grouper. The conversion is
// driven by a mapping rule table.
package main

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"acg-converter/internal/config"
	"acg-converter/internal/logging"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "acg-converter",
		Short:        "Convert clinical extracts into ACG grouper input files",
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().String("config", "", "Config file (default ./acg-converter.yaml when present)")
	rootCmd.PersistentFlags().String("mapping", "", "Mapping rule table, CSV or YAML")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().String("log-format", "", "Log format: json or console")

	rootCmd.AddCommand(runCmd())
	rootCmd.AddCommand(rulesCmd())
	rootCmd.AddCommand(inputsCmd())

	return rootCmd
}

// setup loads the configuration and builds the logger for a command.
func setup(cmd *cobra.Command) (*config.Config, zerolog.Logger, error) {
	path, _ := cmd.Flags().GetString("config")

	cfg, err := config.Load(path, cmd.Flags())
	if err != nil {
		return nil, zerolog.Nop(), err
	}

	if err := cfg.Validate(); err != nil {
		return nil, zerolog.Nop(), err
	}

	logger, err := logging.New(logging.Options{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Out:    cmd.ErrOrStderr(),
	})
	if err != nil {
		return nil, zerolog.Nop(), err
	}

	return cfg, logger, nil
}

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"acg-converter/internal/intake"
	"acg-converter/internal/metrics"
	"acg-converter/internal/pipeline"
)

func runCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [files...]",
		Short: "Convert extract files into grouper files",
		Long: "Each file is assigned to a dataset by its columns. Files whose columns " +
			"do not match a configured dataset can be assigned explicitly with --input Dataset=path.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup(cmd)
			if err != nil {
				return err
			}

			pairs, _ := cmd.Flags().GetStringArray("input")
			allowMissing, _ := cmd.Flags().GetBool("allow-missing")

			assigned, err := intake.ParseAssignments(pairs)
			if err != nil {
				return err
			}

			if len(args) == 0 && len(assigned) == 0 {
				return errors.New("no input files given")
			}

			inputs, err := intake.Load(args, assigned, intake.Options{
				Datasets:       cfg.Datasets,
				MergeKey:       cfg.MergeKey,
				PatientDataset: cfg.PatientDataset,
				Encoding:       cfg.InputEncoding,
				AllowMissing:   allowMissing,
				Logger:         logger,
			})
			if err != nil {
				return err
			}

			var m *metrics.Metrics
			if cfg.MetricsFile != "" {
				m = metrics.New()
			}

			runner := pipeline.NewRunner(pipeline.Options{
				MappingPath: cfg.ResolveMappingPath(),
				OutputDir:   cfg.OutputDir,
				Generate:    cfg.Generate(),
				Naming:      cfg.Naming(),
				Delimiter:   cfg.DelimiterRune(),
				Metrics:     m,
				Logger:      logger,
			})

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()

			res, runErr := runner.Run(ctx, inputs)

			if m != nil {
				if err := m.WriteTextfile(cfg.MetricsFile); err != nil {
					logger.Error().Err(err).Msg("metrics not written")
				}
			}

			if res != nil {
				out := cmd.OutOrStdout()
				for _, path := range res.Files {
					fmt.Fprintln(out, path)
				}

				if n := len(res.Diagnostics.All()); n > 0 {
					fmt.Fprintf(cmd.ErrOrStderr(), "%d errors, %d warnings recorded during generation\n",
						len(res.Diagnostics.Errors), len(res.Diagnostics.Warnings))
				}
			}

			return runErr
		},
	}

	cmd.Flags().StringArray("input", nil, "Assign a file to a dataset: Dataset=path (repeatable)")
	cmd.Flags().Bool("allow-missing", false, "Proceed when some configured datasets are not supplied")
	cmd.Flags().String("output-dir", "", "Directory for the generated files")
	cmd.Flags().String("merge-key", "", "Patient identifier column in the inputs")
	cmd.Flags().String("delimiter", "", "Output field delimiter")
	cmd.Flags().String("input-encoding", "", "Input text encoding, e.g. windows-1252")
	cmd.Flags().String("metrics-file", "", "Write run metrics to this textfile collector file")

	return cmd
}

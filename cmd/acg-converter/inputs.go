package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"acg-converter/internal/mapping"
)

func inputsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inputs",
		Short: "Show the input columns the mapping reads from each dataset",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := setup(cmd)
			if err != nil {
				return err
			}

			rules, err := mapping.LoadFile(cfg.ResolveMappingPath())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()

			for _, req := range mapping.RequiredInputs(rules) {
				cols := "(no input columns, generated values only)"
				if len(req.Columns) > 0 {
					cols = strings.Join(req.Columns, ", ")
				}

				fmt.Fprintf(out, "%s: %s\n", req.Dataset, cols)
			}

			fmt.Fprintf(out, "\nEvery dataset except %s must also carry %s.\n", cfg.PatientDataset, cfg.MergeKey)

			return nil
		},
	}
}

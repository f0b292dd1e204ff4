package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"

	"acg-converter/internal/mapping"
	"acg-converter/internal/transform"
)

func rulesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "List and check the mapping rules",
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
			asYAML, _ := cmd.Flags().GetBool("yaml")
			dump, _ := cmd.Flags().GetBool("dump")
			listTransforms, _ := cmd.Flags().GetBool("transforms")
			outPath, _ := cmd.Flags().GetString("out")
			registry := transform.Builtins()

			switch {
			case listTransforms:
				for _, name := range registry.Names() {
					dep, ok := transform.Dependency(name)
					if ok {
						fmt.Fprintf(out, "%s (reads the %s input column)\n", name, dep)
					} else {
						fmt.Fprintln(out, name)
					}
				}

				return nil
			case outPath != "":
				if err := mapping.WriteFile(rules, outPath); err != nil {
					return err
				}

				fmt.Fprintln(out, outPath)
			case asYAML:
				data, err := mapping.Marshal(rules)
				if err != nil {
					return err
				}

				_, err = out.Write(data)

				return err
			case dump:
				spew.Fdump(out, rules)
			default:
				tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "LINE\tFILE\tLABEL\tCOLUMN\tSOURCE\tTRANSFORM")

				for _, r := range rules {
					fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n", r.Line, r.TargetFile, r.SourceLabel,
						r.TargetColumn, strings.Trim(r.SourceDataset+"."+r.SourceColumn, "."), r.Transform)
				}

				if err := tw.Flush(); err != nil {
					return err
				}
			}

			diags := mapping.Validate(rules, registry)
			for _, d := range diags.Warnings {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", d)
			}

			return diags.Error()
		},
	}

	cmd.Flags().Bool("yaml", false, "Print the rules as a YAML mapping")
	cmd.Flags().Bool("dump", false, "Dump the parsed rules")
	cmd.Flags().Bool("transforms", false, "List the available transforms")
	cmd.Flags().String("out", "", "Write the rules to this YAML mapping file")

	return cmd
}

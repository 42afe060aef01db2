package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/danpasecinic/bantam/config"
)

func newLintCmd(a *app) *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "lint FILE...",
		Short: "Check registration files for errors",
		Long: `Parse each registration file and report duplicate registrations and
repeated constructor parameters.

Type names are not checked: they are only known to the program that
declares them.

Examples:
  bantam lint vehicles.json
  bantam lint -s ./config -s /etc/app vehicles.yaml
  bantam lint --strict *.json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			failed := 0

			for _, name := range args {
				path, regs, err := a.load(name)
				if err != nil {
					fmt.Fprintf(out, "%s: %v\n", name, err)
					failed++
					continue
				}

				findings := config.Lint(regs)
				bad := false
				for _, f := range findings {
					fmt.Fprintf(out, "%s: %s\n", path, f)
					if f.Severity == config.Problem || strict {
						bad = true
					}
				}

				if bad {
					failed++
					continue
				}
				fmt.Fprintf(out, "%s: ok (%d registrations)\n", path, len(regs))
			}

			if failed > 0 {
				return fmt.Errorf("%d of %d files failed", failed, len(args))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&strict, "strict", false, "treat warnings as errors")
	return cmd
}

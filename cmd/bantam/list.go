package main

import (
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/danpasecinic/bantam/config"
	"github.com/danpasecinic/bantam/internal/scope"
)

func newListCmd(a *app) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "list FILE",
		Short: "Print the registrations in a file as a table",
		Example: `  bantam list vehicles.json
  bantam list --format markdown vehicles.yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, regs, err := a.load(args[0])
			if err != nil {
				return err
			}

			t := registrationTable(regs)
			t.SetOutputMirror(cmd.OutOrStdout())

			switch format {
			case "markdown":
				t.RenderMarkdown()
			case "csv":
				t.RenderCSV()
			default:
				t.Render()
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "table", "output format: table, markdown or csv")
	return cmd
}

func registrationTable(regs []config.Registration) table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"#", "Type", "Map To", "Scope", "Parameters"})

	for i, reg := range regs {
		params := make([]string, len(reg.ConstructorParams))
		for j, p := range reg.ConstructorParams {
			params[j] = p.Name + "=" + p.Value.String()
		}

		t.AppendRow(table.Row{
			i,
			reg.Type,
			reg.MapTo,
			scope.FromSingleton(reg.Singleton).String(),
			strings.Join(params, ", "),
		})
	}

	t.AppendFooter(table.Row{"", "", "", "", len(regs)})
	return t
}

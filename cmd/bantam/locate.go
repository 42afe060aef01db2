package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newLocateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "locate NAME",
		Short: "Print the file a name resolves to on the search path",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := a.locator().Locate(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
}

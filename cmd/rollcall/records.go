package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var recordsCmd = &cobra.Command{
	Use:     "records",
	Aliases: []string{"list"},
	Short:   "Show every attendance record",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, cleanup, err := newApp(cmd, false)
		if err != nil {
			return err
		}
		defer cleanup()

		records, err := app.Records(cmd.Context())
		if err != nil {
			return err
		}
		for _, r := range records {
			fmt.Fprintln(cmd.OutOrStdout(), r.String())
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(recordsCmd)
}

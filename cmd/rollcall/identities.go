package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var identitiesCmd = &cobra.Command{
	Use:   "identities",
	Short: "List the people whose reference image contains a usable face",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, cleanup, err := newApp(cmd, true)
		if err != nil {
			return err
		}
		defer cleanup()

		ids, err := app.Identities(cmd.Context())
		if err != nil {
			return err
		}
		if len(ids) == 0 {
			fmt.Fprintf(cmd.ErrOrStderr(), "No known faces found in %s\n", conf.ImagesDir)
			return nil
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tFILE")
		for _, id := range ids {
			fmt.Fprintf(w, "%s\t%s\n", id.Name, id.Source)
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(identitiesCmd)
}

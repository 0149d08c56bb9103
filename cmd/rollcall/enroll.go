package main

import (
	"github.com/spf13/cobra"
)

var enrollCmd = &cobra.Command{
	Use:   "enroll NAME",
	Short: "Take a reference picture of a new person",
	Long: `Opens the preview window. Press Space when the person is centred in the
frame; the picture is kept only if it shows exactly one face.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, cleanup, err := newApp(cmd, true)
		if err != nil {
			return err
		}
		defer cleanup()

		_, err = app.Enroll(cmd.Context(), args[0])
		return err
	},
}

func init() {
	rootCmd.AddCommand(enrollCmd)
}

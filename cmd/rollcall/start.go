package main

import (
	"github.com/spf13/cobra"
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Open the camera and take attendance for one person",
	Long: `Loads the enrolled faces, opens a preview window and waits. Press Space to
take the picture or q to cancel. A recognised face is added to the ledger.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, cleanup, err := newApp(cmd, true)
		if err != nil {
			return err
		}
		defer cleanup()

		out, err := app.TakeAttendance(cmd.Context())
		if err != nil {
			return err
		}
		log.Debug().Stringer("state", out.State).Stringer("result", out.Result).Msg("Done")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(startCmd)
}

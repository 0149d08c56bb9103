package main

import (
	"os"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/abihf/rollcall"
	"github.com/abihf/rollcall/bootstrap"
	"github.com/abihf/rollcall/facerec"
	"github.com/abihf/rollcall/preview"
)

const windowTitle = "Rollcall - Space to capture, q to cancel"

func newApp(cmd *cobra.Command, faces bool) (*rollcall.App, func(), error) {
	return bootstrap.NewApp(conf, log, bootstrap.Options{
		Faces: faces,
		OpenDisplay: func() (rollcall.Display, error) {
			w, err := preview.Open(windowTitle)
			if err != nil {
				return nil, err
			}
			return w, nil
		},
		Notifier: &terminalNotifier{out: cmd.OutOrStdout(), errOut: cmd.ErrOrStderr()},
		Gallery:  []facerec.GalleryOption{progressOption()},
	})
}

// progressOption draws a bar while reference images are encoded.
func progressOption() facerec.GalleryOption {
	var bar *progressbar.ProgressBar
	return facerec.WithProgress(func(done, total int) {
		if bar == nil {
			bar = progressbar.NewOptions(total,
				progressbar.OptionSetDescription("Encoding known faces"),
				progressbar.OptionSetWriter(os.Stderr),
				progressbar.OptionClearOnFinish(),
			)
		}
		_ = bar.Set(done)
	})
}

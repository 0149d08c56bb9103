// Package bootstrap wires configuration to the concrete camera, face and
// ledger implementations shared by the rollcall binaries.
package bootstrap

import (
	"github.com/rs/zerolog"

	"github.com/abihf/rollcall"
	"github.com/abihf/rollcall/capture"
	"github.com/abihf/rollcall/capture/cvcam"
	"github.com/abihf/rollcall/config"
	"github.com/abihf/rollcall/facerec"
	"github.com/abihf/rollcall/facerec/dlibrec"
	"github.com/abihf/rollcall/ledger"
)

type Options struct {
	// Faces loads the dlib models. Commands that only touch the ledger
	// leave it off.
	Faces       bool
	OpenDisplay func() (rollcall.Display, error)
	Notifier    rollcall.Notifier
	Gallery     []facerec.GalleryOption
}

// NewApp builds the application context. The returned func releases the
// face models.
func NewApp(conf *config.Config, log *zerolog.Logger, opt Options) (*rollcall.App, func(), error) {
	app := &rollcall.App{
		ImagesDir:      conf.ImagesDir,
		Ledger:         ledger.New(conf.Ledger, log),
		OpenCamera:     CameraOpener(conf, log),
		OpenDisplay:    opt.OpenDisplay,
		Notifier:       opt.Notifier,
		GalleryOptions: opt.Gallery,
		Log:            log,
	}
	cleanup := func() {}

	if opt.Faces {
		rec, err := dlibrec.New(conf.ModelsDir, conf.Tolerance)
		if err != nil {
			return nil, nil, err
		}
		app.Provider = rec
		cleanup = rec.Close
	}
	return app, cleanup, nil
}

// CameraOpener picks the capture driver named in the config.
func CameraOpener(conf *config.Config, log *zerolog.Logger) capture.Opener {
	if conf.Camera.Driver == config.DriverV4L2 {
		opt := &capture.WebcamOption{
			Device: conf.Camera.Device,
			Width:  conf.Camera.Width,
			Height: conf.Camera.Height,
			Log:    log,
		}
		return func() (capture.Source, error) {
			return capture.OpenWebcam(opt)
		}
	}
	index := conf.Camera.Index
	return func() (capture.Source, error) {
		return cvcam.Open(index)
	}
}

// Package capture pulls frames from a camera.
package capture

import (
	"context"

	"github.com/pkg/errors"
)

// Frame is one camera picture encoded as JPEG.
type Frame struct {
	Data   []byte
	Width  int
	Height int
}

// Source is an opened camera. Read blocks until the next frame; it returns
// a nil frame and nil error when no usable frame arrived in time.
type Source interface {
	Read(ctx context.Context) (*Frame, error)
	Close() error
}

// Opener acquires a camera.
type Opener func() (Source, error)

// Processor handles one frame and reports whether capturing should continue.
type Processor func(frame *Frame) (bool, error)

// ErrClosed is returned by a source that has no more frames.
var ErrClosed = errors.New("camera stream closed")

// Capture feeds frames from src to processor until it asks to stop, ctx is
// done, or reading fails.
func Capture(ctx context.Context, src Source, processor Processor) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		frame, err := src.Read(ctx)
		if err != nil {
			return errors.Wrap(err, "Can not read frame")
		}
		if frame == nil {
			continue
		}

		cont, err := processor(frame)
		if err != nil {
			return err
		}
		if !cont {
			return nil
		}
	}
}

// Package cvcam reads frames from an OpenCV video capture device.
package cvcam

import (
	"context"

	"github.com/pkg/errors"
	"gocv.io/x/gocv"

	"github.com/abihf/rollcall/capture"
)

type source struct {
	device int
	vc     *gocv.VideoCapture
	img    gocv.Mat
}

// Open opens the camera with the given index, 0 being the default webcam.
func Open(device int) (capture.Source, error) {
	vc, err := gocv.VideoCaptureDevice(device)
	if err != nil {
		return nil, errors.Wrapf(err, "Can not open video capture device %d", device)
	}
	if !vc.IsOpened() {
		vc.Close()
		return nil, errors.Errorf("Video capture device %d is not available", device)
	}
	return &source{device: device, vc: vc, img: gocv.NewMat()}, nil
}

func (s *source) Read(ctx context.Context) (*capture.Frame, error) {
	if ok := s.vc.Read(&s.img); !ok {
		return nil, errors.Wrapf(capture.ErrClosed, "device %d", s.device)
	}
	if s.img.Empty() {
		return nil, nil
	}

	buf, err := gocv.IMEncode(gocv.JPEGFileExt, s.img)
	if err != nil {
		return nil, errors.Wrap(err, "Can not encode frame")
	}
	defer buf.Close()

	data := make([]byte, buf.Len())
	copy(data, buf.GetBytes())
	return &capture.Frame{Data: data, Width: s.img.Cols(), Height: s.img.Rows()}, nil
}

func (s *source) Close() error {
	s.img.Close()
	return s.vc.Close()
}

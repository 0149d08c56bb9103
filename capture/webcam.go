package capture

import (
	"bytes"
	"context"
	"image"
	"image/jpeg"

	"github.com/blackjack/webcam"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/abihf/rollcall/logger"
)

const (
	formatYUYV  webcam.PixelFormat = 0x56595559
	formatGrey  webcam.PixelFormat = 0x59455247
	formatMJPEG webcam.PixelFormat = 0x47504a4d
)

// WebcamOption configures a V4L2 source.
type WebcamOption struct {
	Device string
	Width  int
	Height int
	Log    *zerolog.Logger
}

type webcamSource struct {
	cam    *webcam.Webcam
	format webcam.PixelFormat
	width  int
	height int
	log    *zerolog.Logger
}

// OpenWebcam opens a V4L2 device such as /dev/video0 and starts streaming.
func OpenWebcam(opt *WebcamOption) (Source, error) {
	log := opt.Log
	if log == nil {
		log = logger.Nop()
	}

	cam, err := webcam.Open(opt.Device)
	if err != nil {
		return nil, errors.Wrap(err, "Can not open device")
	}

	format, err := pickFormat(cam)
	if err != nil {
		cam.Close()
		return nil, err
	}

	f, w, h, err := cam.SetImageFormat(format, uint32(opt.Width), uint32(opt.Height))
	if err != nil {
		cam.Close()
		return nil, errors.Wrap(err, "Can not set image format")
	}

	if err := cam.StartStreaming(); err != nil {
		cam.Close()
		return nil, errors.Wrap(err, "Can not start streaming")
	}

	log.Debug().Str("device", opt.Device).Uint32("width", w).Uint32("height", h).
		Str("format", formatName(f)).Msg("Camera streaming")
	return &webcamSource{cam: cam, format: f, width: int(w), height: int(h), log: log}, nil
}

func pickFormat(cam *webcam.Webcam) (webcam.PixelFormat, error) {
	supported := cam.GetSupportedFormats()
	for _, f := range []webcam.PixelFormat{formatYUYV, formatGrey, formatMJPEG} {
		if _, ok := supported[f]; ok {
			return f, nil
		}
	}
	return 0, errors.Errorf("Device supports none of YUYV, GREY or MJPEG (has %v)", supported)
}

func formatName(f webcam.PixelFormat) string {
	switch f {
	case formatYUYV:
		return "YUYV"
	case formatGrey:
		return "GREY"
	case formatMJPEG:
		return "MJPEG"
	}
	return "unknown"
}

func (c *webcamSource) Read(ctx context.Context) (*Frame, error) {
	err := c.cam.WaitForFrame(1)
	switch err.(type) {
	case nil:
	case *webcam.Timeout:
		c.log.Debug().Msg("Timed out waiting for frame")
		return nil, nil
	default:
		return nil, errors.Wrap(err, "Frame wait failed")
	}

	raw, err := c.cam.ReadFrame()
	if err != nil {
		return nil, errors.Wrap(err, "Read frame failed")
	}
	if len(raw) == 0 {
		return nil, nil
	}

	if c.format == formatMJPEG {
		data := make([]byte, len(raw))
		copy(data, raw)
		return &Frame{Data: data, Width: c.width, Height: c.height}, nil
	}

	img, luma := c.decode(raw)
	if img == nil || !hasGoodBlackLevel(luma) {
		return nil, nil
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90}); err != nil {
		return nil, errors.Wrap(err, "Can not encode frame")
	}
	return &Frame{Data: buf.Bytes(), Width: c.width, Height: c.height}, nil
}

// decode converts a raw frame into an image plus its luma plane. It returns
// nil when the buffer is shorter than the negotiated size.
func (c *webcamSource) decode(raw []byte) (image.Image, []byte) {
	rect := image.Rect(0, 0, c.width, c.height)
	switch c.format {
	case formatGrey:
		if len(raw) < c.width*c.height {
			return nil, nil
		}
		img := image.NewGray(rect)
		copy(img.Pix, raw)
		return img, img.Pix

	case formatYUYV:
		if len(raw) < c.width*c.height*2 {
			return nil, nil
		}
		img := image.NewYCbCr(rect, image.YCbCrSubsampleRatio422)
		for y := 0; y < c.height; y++ {
			row := raw[y*c.width*2:]
			for x := 0; x < c.width; x += 2 {
				p := row[x*2:]
				img.Y[y*img.YStride+x] = p[0]
				img.Y[y*img.YStride+x+1] = p[2]
				img.Cb[y*img.CStride+x/2] = p[1]
				img.Cr[y*img.CStride+x/2] = p[3]
			}
		}
		return img, img.Y
	}
	return nil, nil
}

func (c *webcamSource) Close() error {
	return c.cam.Close()
}

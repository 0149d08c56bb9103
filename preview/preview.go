// Package preview shows camera frames in an OpenCV window and maps key
// presses to workflow signals.
package preview

import (
	"github.com/pkg/errors"
	"gocv.io/x/gocv"

	"github.com/abihf/rollcall"
	"github.com/abihf/rollcall/capture"
)

const (
	keySpace = 32
	keyEsc   = 27
	keyQ     = 'q'
)

type Window struct {
	win *gocv.Window
}

// Open creates the preview window.
func Open(title string) (*Window, error) {
	win := gocv.NewWindow(title)
	if win == nil {
		return nil, errors.New("Can not create preview window")
	}
	return &Window{win: win}, nil
}

// Show draws frame and polls the keyboard for one millisecond. Space
// captures; q or Esc cancels, as does closing the window.
func (w *Window) Show(frame *capture.Frame) (rollcall.Signal, error) {
	img, err := gocv.IMDecode(frame.Data, gocv.IMReadColor)
	if err != nil {
		return rollcall.SignalNone, errors.Wrap(err, "Can not decode frame")
	}
	defer img.Close()
	if img.Empty() {
		return rollcall.SignalNone, nil
	}

	w.win.IMShow(img)
	switch key := w.win.WaitKey(1); key {
	case keySpace:
		return rollcall.SignalCapture, nil
	case keyQ, keyEsc:
		return rollcall.SignalCancel, nil
	}
	if !w.win.IsOpen() {
		return rollcall.SignalCancel, nil
	}
	return rollcall.SignalNone, nil
}

func (w *Window) Close() error {
	return w.win.Close()
}

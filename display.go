package rollcall

import "github.com/abihf/rollcall/capture"

// Signal is what the operator asked for while looking at the preview.
type Signal int

const (
	SignalNone Signal = iota
	SignalCapture
	SignalCancel
)

// Display presents preview frames and turns operator input into signals.
type Display interface {
	Show(frame *capture.Frame) (Signal, error)
	Close() error
}

// AutoTrigger is a headless Display that captures the first frame after
// skipping Skip warm-up frames.
type AutoTrigger struct {
	Skip  int
	shown int
}

func (a *AutoTrigger) Show(*capture.Frame) (Signal, error) {
	a.shown++
	if a.shown > a.Skip {
		return SignalCapture, nil
	}
	return SignalNone, nil
}

func (a *AutoTrigger) Close() error { return nil }

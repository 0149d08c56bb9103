// Package rollcall takes attendance by recognising faces in front of a camera.
//
// One run of TakeAttendance walks Idle → Previewing → Captured or Cancelled
// and back to Idle. The App carries every collaborator explicitly, so the
// workflow runs the same behind an OpenCV window, a unix socket or a test.
package rollcall

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/abihf/rollcall/capture"
	"github.com/abihf/rollcall/facerec"
	"github.com/abihf/rollcall/ledger"
	"github.com/abihf/rollcall/logger"
)

// ErrNoIdentities means the reference directory produced no usable face.
var ErrNoIdentities = errors.New("no known faces found")

// Ledger is the attendance store the workflow writes to.
type Ledger interface {
	Append(ctx context.Context, name string, now time.Time) (ledger.Record, error)
	List(ctx context.Context) ([]ledger.Record, error)
	Reset() error
}

type State int

const (
	StateIdle State = iota
	StatePreviewing
	StateCaptured
	StateCancelled
)

func (s State) String() string {
	switch s {
	case StatePreviewing:
		return "previewing"
	case StateCaptured:
		return "captured"
	case StateCancelled:
		return "cancelled"
	}
	return "idle"
}

type Result int

const (
	ResultNone Result = iota
	ResultMarked
	ResultUnrecognized
	ResultNoFace
)

func (r Result) String() string {
	switch r {
	case ResultMarked:
		return "marked"
	case ResultUnrecognized:
		return "unrecognized"
	case ResultNoFace:
		return "no-face"
	}
	return "none"
}

// Outcome describes how a run ended. State is the last state reached before
// returning to Idle.
type Outcome struct {
	State  State
	Result Result
	Name   string
	Record *ledger.Record
}

// App is the application context shared by every workflow.
type App struct {
	Provider    facerec.Provider
	ImagesDir   string
	Ledger      Ledger
	OpenCamera  capture.Opener
	OpenDisplay func() (Display, error)
	Notifier    Notifier

	// GalleryOptions are passed to facerec.LoadGallery.
	GalleryOptions []facerec.GalleryOption
	Now            func() time.Time
	Log            *zerolog.Logger
}

func (a *App) log() *zerolog.Logger {
	if a.Log == nil {
		return logger.Nop()
	}
	return a.Log
}

func (a *App) now() time.Time {
	if a.Now == nil {
		return time.Now()
	}
	return a.Now()
}

func (a *App) notify(kind Kind, format string, args ...any) {
	n := Notice{Kind: kind, Message: fmt.Sprintf(format, args...)}
	a.log().Debug().Stringer("kind", n.Kind).Str("message", n.Message).Msg("Notice")
	if a.Notifier != nil {
		a.Notifier.Notify(n)
	}
}

// Identities loads the reference gallery.
func (a *App) Identities(ctx context.Context) ([]facerec.Identity, error) {
	opts := append([]facerec.GalleryOption{facerec.WithLogger(a.log())}, a.GalleryOptions...)
	return facerec.LoadGallery(ctx, a.ImagesDir, a.Provider, opts...)
}

// TakeAttendance runs one capture → match → log cycle. Fatal problems are
// both notified and returned; informational ones only notified.
func (a *App) TakeAttendance(ctx context.Context) (*Outcome, error) {
	out := &Outcome{State: StateIdle}

	identities, err := a.Identities(ctx)
	if err != nil {
		a.notify(KindError, "Could not load known faces.")
		return out, err
	}
	if len(identities) == 0 {
		a.notify(KindError, "No known faces found.")
		return out, ErrNoIdentities
	}

	err = a.preview(ctx, out, func(frame *capture.Frame) error {
		return a.record(ctx, frame, identities, out)
	})
	a.log().Info().Stringer("state", out.State).Stringer("result", out.Result).Str("name", out.Name).Msg("Attendance run finished")
	return out, err
}

func (a *App) record(ctx context.Context, frame *capture.Frame, identities []facerec.Identity, out *Outcome) error {
	name, found, err := facerec.Match(a.Provider, frame.Data, identities)
	switch {
	case errors.Is(err, facerec.ErrNoFace):
		out.Result = ResultNoFace
		a.notify(KindInfo, "No faces detected in the image.")
		return nil
	case err != nil:
		a.notify(KindError, "Face recognition failed.")
		return err
	case !found:
		out.Result = ResultUnrecognized
		a.notify(KindInfo, "Student not recognized!")
		return nil
	}

	rec, err := a.Ledger.Append(ctx, name, a.now())
	if err != nil {
		a.notify(KindError, "Could not save attendance for %s.", name)
		return errors.Wrap(err, "Can not record attendance")
	}
	out.Result = ResultMarked
	out.Name = name
	out.Record = &rec
	a.notify(KindSuccess, "Attendance marked for %s", name)
	return nil
}

// preview holds the camera and display for the whole Previewing and Captured
// states and calls onCapture with the chosen frame while both are held.
func (a *App) preview(ctx context.Context, out *Outcome, onCapture func(*capture.Frame) error) error {
	cam, err := a.OpenCamera()
	if err != nil {
		a.notify(KindError, "Camera could not be opened.")
		return errors.Wrap(err, "Can not open camera")
	}
	defer func() {
		if err := cam.Close(); err != nil {
			a.log().Warn().Err(err).Msg("Can not release camera")
		}
	}()

	display, err := a.OpenDisplay()
	if err != nil {
		a.notify(KindError, "Preview could not be opened.")
		return errors.Wrap(err, "Can not open preview")
	}
	defer display.Close()

	out.State = StatePreviewing
	var (
		captured   *capture.Frame
		displayErr error
	)
	err = capture.Capture(ctx, cam, func(frame *capture.Frame) (bool, error) {
		sig, err := display.Show(frame)
		if err != nil {
			displayErr = err
			return false, err
		}
		switch sig {
		case SignalCapture:
			captured = frame
			return false, nil
		case SignalCancel:
			return false, nil
		}
		return true, nil
	})

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		out.State = StateCancelled
		a.notify(KindInfo, "Timed out waiting for a face.")
		return nil
	case errors.Is(err, context.Canceled):
		out.State = StateCancelled
		return nil
	case displayErr != nil:
		a.notify(KindError, "Preview failed.")
		return errors.Wrap(err, "Preview failed")
	case err != nil:
		a.notify(KindError, "Failed to grab frame.")
		return err
	case captured == nil:
		out.State = StateCancelled
		return nil
	}

	out.State = StateCaptured
	return onCapture(captured)
}

// Records lists the ledger. A missing ledger is reported as a notice and an
// empty list.
func (a *App) Records(ctx context.Context) ([]ledger.Record, error) {
	records, err := a.Ledger.List(ctx)
	if errors.Is(err, ledger.ErrNotExist) || (err == nil && len(records) == 0) {
		a.notify(KindInfo, "No attendance records found.")
		return nil, nil
	}
	if err != nil {
		a.notify(KindError, "Could not read attendance records.")
		return nil, err
	}
	return records, nil
}

// ResetLedger deletes every record. Having nothing to delete is not an error.
func (a *App) ResetLedger() error {
	err := a.Ledger.Reset()
	switch {
	case errors.Is(err, ledger.ErrNotExist):
		a.notify(KindInfo, "No attendance records found to reset.")
		return nil
	case err != nil:
		a.notify(KindError, "Could not reset attendance records.")
		return err
	}
	a.notify(KindSuccess, "Attendance records have been reset.")
	return nil
}

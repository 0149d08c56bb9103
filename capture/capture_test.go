package capture_test

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abihf/rollcall/capture"
	"github.com/abihf/rollcall/capture/capturetest"
)

func TestCapture_StopsWhenProcessorSaysSo(t *testing.T) {
	cam := &capturetest.Camera{Frames: capturetest.FramesOf("a", "b", "c")}
	src, err := cam.Open()
	require.NoError(t, err)
	defer src.Close()

	var seen []string
	err = capture.Capture(context.Background(), src, func(f *capture.Frame) (bool, error) {
		seen = append(seen, string(f.Data))
		return string(f.Data) != "b", nil
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, seen)
}

func TestCapture_SkipsEmptyReads(t *testing.T) {
	cam := &capturetest.Camera{Frames: []*capture.Frame{nil, nil, {Data: []byte("x")}}}
	src, _ := cam.Open()

	var seen int
	err := capture.Capture(context.Background(), src, func(f *capture.Frame) (bool, error) {
		seen++
		return false, nil
	})

	require.NoError(t, err)
	assert.Equal(t, 1, seen)
}

func TestCapture_ReadError(t *testing.T) {
	cam := &capturetest.Camera{Frames: capturetest.FramesOf("a")}
	src, _ := cam.Open()

	err := capture.Capture(context.Background(), src, func(f *capture.Frame) (bool, error) {
		return true, nil
	})

	assert.ErrorIs(t, err, capture.ErrClosed)
}

func TestCapture_ProcessorError(t *testing.T) {
	boom := errors.New("boom")
	cam := &capturetest.Camera{Frames: capturetest.FramesOf("a")}
	src, _ := cam.Open()

	err := capture.Capture(context.Background(), src, func(f *capture.Frame) (bool, error) {
		return false, boom
	})

	assert.Equal(t, boom, err)
}

func TestCapture_ContextDone(t *testing.T) {
	cam := &capturetest.Camera{Frames: capturetest.FramesOf("a")}
	src, _ := cam.Open()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := capture.Capture(ctx, src, func(f *capture.Frame) (bool, error) {
		t.Fatal("processor must not run")
		return false, nil
	})

	assert.ErrorIs(t, err, context.Canceled)
}

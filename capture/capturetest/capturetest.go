// Package capturetest provides a scripted camera for tests.
package capturetest

import (
	"context"
	"sync"

	"github.com/abihf/rollcall/capture"
)

// Camera replays a fixed list of frames. After the last one Read returns
// capture.ErrClosed, or Err when set.
type Camera struct {
	Frames  []*capture.Frame
	Err     error
	OpenErr error

	mu     sync.Mutex
	opened int
	closed int
	next   int
}

// FramesOf builds JPEG-less frames whose data is the given strings, for use
// with facetest.Provider.
func FramesOf(data ...string) []*capture.Frame {
	frames := make([]*capture.Frame, len(data))
	for i, d := range data {
		frames[i] = &capture.Frame{Data: []byte(d), Width: 640, Height: 480}
	}
	return frames
}

// Open satisfies capture.Opener.
func (c *Camera) Open() (capture.Source, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.OpenErr != nil {
		return nil, c.OpenErr
	}
	c.opened++
	return &source{cam: c}, nil
}

// Opened counts successful opens.
func (c *Camera) Opened() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.opened
}

// Released reports whether every opened source was closed.
func (c *Camera) Released() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.opened == c.closed
}

type source struct {
	cam *Camera
}

func (s *source) Read(ctx context.Context) (*capture.Frame, error) {
	c := s.cam
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.next >= len(c.Frames) {
		if c.Err != nil {
			return nil, c.Err
		}
		return nil, capture.ErrClosed
	}
	f := c.Frames[c.next]
	c.next++
	return f, nil
}

func (s *source) Close() error {
	s.cam.mu.Lock()
	defer s.cam.mu.Unlock()
	s.cam.closed++
	return nil
}

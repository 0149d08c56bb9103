package server

import (
	"context"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abihf/rollcall"
	"github.com/abihf/rollcall/capture/capturetest"
	"github.com/abihf/rollcall/facerec/facetest"
	"github.com/abihf/rollcall/ledger"
	"github.com/abihf/rollcall/protocol"
)

func newServer(t *testing.T, frames ...string) (*Server, *ledger.Ledger) {
	t.Helper()
	dir := t.TempDir()
	images := filepath.Join(dir, "images")
	require.NoError(t, os.Mkdir(images, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(images, "Alice.jpg"), []byte("alice-ref"), 0o644))

	provider := facetest.NewProvider().
		Add("alice-ref", facetest.Face(0)).
		Add("frame-alice", facetest.Face(0.2))
	camera := &capturetest.Camera{Frames: capturetest.FramesOf(frames...)}
	l := ledger.New(filepath.Join(dir, "attendance.db"), nil)

	return &Server{
		App: &rollcall.App{
			Provider:    provider,
			ImagesDir:   images,
			Ledger:      l,
			OpenCamera:  camera.Open,
			OpenDisplay: func() (rollcall.Display, error) { return &rollcall.AutoTrigger{Skip: 1}, nil },
			Now:         func() time.Time { return time.Date(2024, 1, 2, 3, 4, 5, 0, time.Local) },
		},
		Timeout: time.Second,
	}, l
}

func roundTrip(t *testing.T, s *Server, actions ...protocol.Action) []*protocol.Res {
	t.Helper()
	client, srv := net.Pipe()
	defer client.Close()
	go s.handle(context.Background(), srv)

	reader := protocol.NewReader(client)
	var out []*protocol.Res
	for _, a := range actions {
		require.NoError(t, protocol.WriteReq(client, a, "test"))
		res, err := reader.Res()
		require.NoError(t, err)
		out = append(out, res)
	}
	return out
}

func TestMarkListReset(t *testing.T) {
	s, l := newServer(t, "warm-up", "frame-alice")

	res := roundTrip(t, s, protocol.ActionMark, protocol.ActionList, protocol.ActionReset, protocol.ActionList)

	assert.Equal(t, protocol.StatusSuccess, res[0].Status)
	assert.Equal(t, "Alice", res[0].Name)
	assert.Equal(t, []protocol.Notice{{Kind: "success", Message: "Attendance marked for Alice"}}, res[0].Notices)

	require.Len(t, res[1].Records, 1)
	assert.Equal(t, "Alice - 2024-01-02 - 03:04:05", res[1].Records[0].String())

	assert.Equal(t, protocol.StatusSuccess, res[2].Status)
	assert.Equal(t, "success", res[2].Notices[0].Kind)
	assert.False(t, l.Exists())

	assert.Empty(t, res[3].Records)
	assert.Equal(t, "No attendance records found.", res[3].Notices[0].Message)
}

func TestMarkCameraFailure(t *testing.T) {
	s, l := newServer(t)

	res := roundTrip(t, s, protocol.ActionMark)

	assert.Equal(t, protocol.StatusError, res[0].Status)
	assert.NotEmpty(t, res[0].Error)
	assert.Equal(t, []protocol.Notice{{Kind: "error", Message: "Failed to grab frame."}}, res[0].Notices)
	assert.False(t, l.Exists())
}

func TestUnknownAction(t *testing.T) {
	s, _ := newServer(t)

	res := s.Do(context.Background(), &protocol.Req{Action: "DANCE"})

	assert.Equal(t, protocol.StatusError, res.Status)
	assert.Contains(t, res.Error, "DANCE")
}

func TestServe_StopsOnClose(t *testing.T) {
	s, _ := newServer(t, "warm-up", "frame-alice")
	sock := filepath.Join(t.TempDir(), "rollcall.sock")
	ln, err := net.Listen("unix", sock)
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() { done <- s.Serve(context.Background(), ln) }()

	c, err := net.Dial("unix", sock)
	require.NoError(t, err)
	require.NoError(t, protocol.WriteReq(c, protocol.ActionMark, "test"))
	res, err := protocol.NewReader(c).Res()
	require.NoError(t, err)
	assert.Equal(t, "Alice", res.Name)
	c.Close()

	require.NoError(t, ln.Close())
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after listener close")
	}
}

func TestDo_PinsAroundRequest(t *testing.T) {
	s, _ := newServer(t)
	var pinned, unpinned int
	s.Pin = func() (func(), error) {
		pinned++
		return func() { unpinned++ }, nil
	}

	s.Do(context.Background(), &protocol.Req{Action: protocol.ActionList})

	assert.Equal(t, 1, pinned)
	assert.Equal(t, 1, unpinned)
}

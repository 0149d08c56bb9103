package facerec_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abihf/rollcall/facerec"
	"github.com/abihf/rollcall/facerec/facetest"
)

func writeImages(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, body := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
	}
	return dir
}

func names(ids []facerec.Identity) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.Name
	}
	return out
}

func TestLoadGallery_SkipsImagesWithoutFace(t *testing.T) {
	dir := writeImages(t, map[string]string{
		"carol.png":     "carol",
		"alice.jpg":     "alice",
		"bob.jpeg":      "bob",
		"landscape.jpg": "landscape",
		"corrupt.png":   "corrupt",
		"notes.txt":     "alice",
	})
	require.NoError(t, os.Mkdir(filepath.Join(dir, "dave.jpg"), 0o755))

	p := facetest.NewProvider().
		Add("alice", facetest.Face(1)).
		Add("bob", facetest.Face(2)).
		Add("carol", facetest.Face(3), facetest.Face(9)).
		Break("corrupt")

	ids, err := facerec.LoadGallery(context.Background(), dir, p)
	require.NoError(t, err)

	assert.Equal(t, []string{"alice", "bob", "carol"}, names(ids))
	assert.Equal(t, facetest.Face(3), ids[2].Encoding, "only the first face of an image is kept")
	assert.Equal(t, filepath.Join(dir, "alice.jpg"), ids[0].Source)
	assert.Equal(t, 5, p.Calls(), "non-image files are never encoded")
}

func TestLoadGallery_DuplicateNameLastWins(t *testing.T) {
	dir := writeImages(t, map[string]string{
		"alice.1.jpg": "alice-old",
		"alice.2.jpg": "alice-new",
		"bob.jpg":     "bob",
	})
	p := facetest.NewProvider().
		Add("alice-old", facetest.Face(1)).
		Add("alice-new", facetest.Face(5)).
		Add("bob", facetest.Face(2))

	ids, err := facerec.LoadGallery(context.Background(), dir, p)
	require.NoError(t, err)

	require.Equal(t, []string{"alice", "bob"}, names(ids))
	assert.Equal(t, facetest.Face(5), ids[0].Encoding)
}

func TestLoadGallery_MissingDirectoryIsEmpty(t *testing.T) {
	ids, err := facerec.LoadGallery(context.Background(), filepath.Join(t.TempDir(), "missing"), facetest.NewProvider())

	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestLoadGallery_NoValidFaces(t *testing.T) {
	dir := writeImages(t, map[string]string{"wall.jpg": "wall"})

	ids, err := facerec.LoadGallery(context.Background(), dir, facetest.NewProvider())

	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestLoadGallery_Progress(t *testing.T) {
	dir := writeImages(t, map[string]string{"a.jpg": "a", "b.jpg": "b", "c.txt": "c"})
	var calls [][2]int

	_, err := facerec.LoadGallery(context.Background(), dir, facetest.NewProvider(),
		facerec.WithProgress(func(done, total int) { calls = append(calls, [2]int{done, total}) }))

	require.NoError(t, err)
	assert.Equal(t, [][2]int{{1, 2}, {2, 2}}, calls)
}

func TestLoadGallery_Cancelled(t *testing.T) {
	dir := writeImages(t, map[string]string{"a.jpg": "a"})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := facerec.LoadGallery(ctx, dir, facetest.NewProvider())

	assert.ErrorIs(t, err, context.Canceled)
}

func TestIdentityName(t *testing.T) {
	tests := map[string]string{
		"alice.jpg":          "alice",
		"Alice.PNG":          "Alice",
		"mary.jane.jpg":      "mary",
		"/srv/faces/bob.jpg": "bob",
		"noext":              "noext",
	}
	for in, want := range tests {
		assert.Equal(t, want, facerec.IdentityName(in), in)
	}
}

func TestIsImageFile(t *testing.T) {
	assert.True(t, facerec.IsImageFile("a.jpg"))
	assert.True(t, facerec.IsImageFile("a.JPEG"))
	assert.True(t, facerec.IsImageFile("a.png"))
	assert.False(t, facerec.IsImageFile("a.gif"))
	assert.False(t, facerec.IsImageFile("jpg"))
}

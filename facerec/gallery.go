package facerec

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/abihf/rollcall/logger"
)

// Identity is one enrolled person.
type Identity struct {
	Name     string
	Encoding Descriptor
	Source   string
}

type galleryOptions struct {
	progress func(done, total int)
	log      *zerolog.Logger
}

type GalleryOption func(*galleryOptions)

// WithProgress is called after every candidate image.
func WithProgress(fn func(done, total int)) GalleryOption {
	return func(o *galleryOptions) { o.progress = fn }
}

func WithLogger(l *zerolog.Logger) GalleryOption {
	return func(o *galleryOptions) { o.log = l }
}

// IsImageFile reports whether name has an extension the gallery loads.
func IsImageFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".jpg", ".jpeg", ".png":
		return true
	}
	return false
}

// IdentityName derives the identity name from a file name: everything before
// the first dot.
func IdentityName(fileName string) string {
	base := filepath.Base(fileName)
	if i := strings.IndexByte(base, '.'); i >= 0 {
		return base[:i]
	}
	return base
}

// LoadGallery encodes every reference image in dir, in file name order.
// Images without a face, or that the encoder rejects, are skipped. A missing
// directory gives an empty gallery.
func LoadGallery(ctx context.Context, dir string, enc Encoder, opts ...GalleryOption) ([]Identity, error) {
	o := galleryOptions{log: logger.Nop()}
	for _, opt := range opts {
		opt(&o)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			o.log.Warn().Str("dir", dir).Msg("Reference image directory does not exist")
			return nil, nil
		}
		return nil, errors.Wrapf(err, "Can not read %s", dir)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() || !IsImageFile(e.Name()) {
			continue
		}
		files = append(files, e.Name())
	}

	var identities []Identity
	index := make(map[string]int, len(files))
	for i, name := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		path := filepath.Join(dir, name)
		if d, ok := encodeFile(enc, path, o.log); ok {
			id := Identity{Name: IdentityName(name), Encoding: d, Source: path}
			if pos, dup := index[id.Name]; dup {
				o.log.Debug().Str("name", id.Name).Str("file", path).Msg("Replacing duplicate identity")
				identities[pos] = id
			} else {
				index[id.Name] = len(identities)
				identities = append(identities, id)
			}
		}

		if o.progress != nil {
			o.progress(i+1, len(files))
		}
	}

	o.log.Info().Int("identities", len(identities)).Int("images", len(files)).Msg("Loaded reference faces")
	return identities, nil
}

func encodeFile(enc Encoder, path string, log *zerolog.Logger) (Descriptor, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		log.Warn().Err(err).Str("file", path).Msg("Can not read reference image")
		return Descriptor{}, false
	}
	descriptors, err := enc.Encode(data)
	if err != nil {
		log.Warn().Err(err).Str("file", path).Msg("Can not encode reference image")
		return Descriptor{}, false
	}
	if len(descriptors) == 0 {
		log.Debug().Str("file", path).Msg("No face in reference image")
		return Descriptor{}, false
	}
	return descriptors[0], true
}

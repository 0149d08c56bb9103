package facerec

import "github.com/pkg/errors"

var (
	// ErrNoFace means the provider found no face in the image.
	ErrNoFace = errors.New("no face detected")
	// ErrMultipleFaces means an image that must show one person shows several.
	ErrMultipleFaces = errors.New("more than one face detected")
)

// Encoder computes one descriptor per face found in an encoded image.
// Images are JPEG or PNG bytes. No face is an empty result, not an error.
type Encoder interface {
	Encode(img []byte) ([]Descriptor, error)
}

// Comparer decides whether a candidate descriptor belongs to the known face.
type Comparer interface {
	Matches(known, candidate Descriptor) bool
}

// Provider is the face recognition backend.
type Provider interface {
	Encoder
	Comparer
}

// Tolerance compares descriptors by euclidean distance. 0.6 is the usual
// cut-off for dlib's ResNet descriptors.
type Tolerance float64

func (t Tolerance) Matches(known, candidate Descriptor) bool {
	return known.Distance(&candidate) <= float64(t)
}

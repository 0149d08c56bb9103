// Package dlibrec implements facerec.Provider on top of dlib through go-face.
//
// The models directory must contain shape_predictor_5_face_landmarks.dat,
// dlib_face_recognition_resnet_model_v1.dat and mmod_human_face_detector.dat.
package dlibrec

import (
	"bytes"
	"image"
	"image/jpeg"
	_ "image/png"
	"math"
	"sync"

	face "github.com/Kagami/go-face"
	"github.com/pkg/errors"

	"github.com/abihf/rollcall/facerec"
)

type Recognizer struct {
	mu        sync.Mutex
	rec       *face.Recognizer
	tolerance float64
}

func New(modelsDir string, tolerance float64) (*Recognizer, error) {
	rec, err := face.NewRecognizer(modelsDir)
	if err != nil {
		return nil, errors.Wrapf(err, "Can not load face models from %s", modelsDir)
	}
	return &Recognizer{rec: rec, tolerance: tolerance}, nil
}

// Encode returns the descriptors of every face in img, left to right.
func (r *Recognizer) Encode(img []byte) ([]facerec.Descriptor, error) {
	data, err := toJPEG(img)
	if err != nil {
		return nil, err
	}

	// dlib's detector is not safe for concurrent use
	r.mu.Lock()
	faces, err := r.rec.Recognize(data)
	r.mu.Unlock()
	if err != nil {
		return nil, errors.Wrap(err, "Face recognition failed")
	}

	out := make([]facerec.Descriptor, len(faces))
	for i, f := range faces {
		out[i] = facerec.Descriptor(f.Descriptor)
	}
	return out, nil
}

func (r *Recognizer) Matches(known, candidate facerec.Descriptor) bool {
	dist := face.SquaredEuclideanDistance(face.Descriptor(known), face.Descriptor(candidate))
	return math.Sqrt(dist) <= r.tolerance
}

func (r *Recognizer) Close() {
	r.rec.Close()
}

var jpegMagic = []byte{0xff, 0xd8, 0xff}

// go-face only decodes JPEG.
func toJPEG(img []byte) ([]byte, error) {
	if bytes.HasPrefix(img, jpegMagic) {
		return img, nil
	}
	decoded, _, err := image.Decode(bytes.NewReader(img))
	if err != nil {
		return nil, errors.Wrap(err, "Can not decode image")
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, decoded, &jpeg.Options{Quality: 95}); err != nil {
		return nil, errors.Wrap(err, "Can not convert image to jpeg")
	}
	return buf.Bytes(), nil
}

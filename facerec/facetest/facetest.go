// Package facetest provides a scripted face provider for tests.
package facetest

import (
	"sync"

	"github.com/pkg/errors"

	"github.com/abihf/rollcall/facerec"
)

// Provider encodes images by looking their bytes up in a table. Unknown
// images have no face.
type Provider struct {
	facerec.Tolerance

	mu     sync.Mutex
	faces  map[string][]facerec.Descriptor
	broken map[string]bool
	calls  int
}

func NewProvider() *Provider {
	return &Provider{
		Tolerance: 0.6,
		faces:     make(map[string][]facerec.Descriptor),
		broken:    make(map[string]bool),
	}
}

// Add registers the faces found in img.
func (p *Provider) Add(img string, faces ...facerec.Descriptor) *Provider {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.faces[img] = faces
	return p
}

// Break makes Encode fail for img.
func (p *Provider) Break(img string) *Provider {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.broken[img] = true
	return p
}

func (p *Provider) Encode(img []byte) ([]facerec.Descriptor, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	if p.broken[string(img)] {
		return nil, errors.New("corrupt image")
	}
	return p.faces[string(img)], nil
}

// Calls returns how many times Encode ran.
func (p *Provider) Calls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}

// Face builds a descriptor whose first component is x and the rest zero, so
// the distance between Face(a) and Face(b) is |a-b|.
func Face(x float32) facerec.Descriptor {
	var d facerec.Descriptor
	d[0] = x
	return d
}

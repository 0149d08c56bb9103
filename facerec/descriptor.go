package facerec

import "math"

// DescriptorSize is the length of a face descriptor.
const DescriptorSize = 128

// Descriptor is the feature vector the provider computes for one face.
type Descriptor [DescriptorSize]float32

// Distance returns the euclidean distance between two descriptors.
func (d *Descriptor) Distance(other *Descriptor) float64 {
	var sum float64
	for i := range d {
		diff := float64(d[i] - other[i])
		sum += diff * diff
	}
	return math.Sqrt(sum)
}

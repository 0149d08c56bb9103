package facerec

import "github.com/pkg/errors"

// MatchDescriptor returns the index of the first identity the comparer
// accepts, or -1. Later or closer identities are never considered once one
// matches.
func MatchDescriptor(cmp Comparer, d Descriptor, identities []Identity) int {
	for i := range identities {
		if cmp.Matches(identities[i].Encoding, d) {
			return i
		}
	}
	return -1
}

// Match encodes sample and looks it up in identities. Only the first face in
// the sample is used. ErrNoFace is returned when the sample has no face;
// found is false when a face was seen but nobody matched.
func Match(p Provider, sample []byte, identities []Identity) (name string, found bool, err error) {
	descriptors, err := p.Encode(sample)
	if err != nil {
		return "", false, errors.Wrap(err, "Can not encode captured frame")
	}
	if len(descriptors) == 0 {
		return "", false, ErrNoFace
	}

	i := MatchDescriptor(p, descriptors[0], identities)
	if i < 0 {
		return "", false, nil
	}
	return identities[i].Name, true, nil
}

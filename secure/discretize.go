//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package secure

import (
	"github.com/markkurossi/beaver/beaver"
	"golang.org/x/xerrors"
)

// Discretize computes shares of the buckets-1 equal-width split
// points min + k(max-min)/buckets of the fixed-point range [min, max].
// The split points do not depend on the value distribution inside
// the range. They are computed locally from the shares of min and
// max.
func Discretize(eng *beaver.Engine, min, max uint64, buckets int) (
	[]uint64, error) {

	if buckets < 1 {
		return nil, xerrors.Errorf("invalid bucket count %d", buckets)
	}
	fixed := eng.Fixed()
	width := max - min

	var result []uint64
	for k := 1; k < buckets; k++ {
		c, err := fixed.Encode(float64(k) / float64(buckets))
		if err != nil {
			return nil, err
		}
		result = append(result, min+fixed.Truncate(width*c, eng.Role()))
	}
	return result, nil
}

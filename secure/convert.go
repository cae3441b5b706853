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

// BitsToAdditive converts XOR shares of bits into additive ring
// shares of the same bits. Each party's XOR share is treated as a
// ring value held by that party alone, and the bit is recovered as
// x + y - 2xy.
func BitsToAdditive(eng *beaver.Engine, bits []byte) ([]uint64, error) {
	x := make([]uint64, len(bits))
	y := make([]uint64, len(bits))
	for i, b := range bits {
		if eng.Role() == 0 {
			x[i] = uint64(b & 1)
		} else {
			y[i] = uint64(b & 1)
		}
	}
	return Xor(eng, x, y)
}

// XorToAdditive converts the XOR-shared bit vectors into additive
// ring shares of the values they represent. The element bits[i][j]
// is the share of bit j of value i, least significant bit first. All
// bits are converted with one ring multiplication call.
func XorToAdditive(eng *beaver.Engine, bits [][]byte) ([]uint64, error) {
	var flat []byte
	for i, v := range bits {
		if len(v) > 64 {
			return nil, xerrors.Errorf("value %d: too many bits: %d", i, len(v))
		}
		flat = append(flat, v...)
	}
	shares, err := BitsToAdditive(eng, flat)
	if err != nil {
		return nil, err
	}
	result := make([]uint64, len(bits))
	var ofs int
	for i, v := range bits {
		for j := range v {
			result[i] += shares[ofs] << uint(j)
			ofs++
		}
	}
	return result, nil
}

//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

// Package secure implements composite two-party protocols on top of
// the Beaver multiplication engine: input sharing and opening,
// secure OR/XOR, share conversion, bit decomposition, comparison,
// equality tests, and oblivious minimum/maximum.
//
// All protocols are synchronous: both parties must call the same
// protocols in the same order with vectors of the same lengths.
package secure

import (
	"encoding/binary"
	"errors"
	"io"
	"math/big"

	"github.com/markkurossi/beaver/beaver"
	"github.com/markkurossi/beaver/field"
	"github.com/markkurossi/beaver/p2p"
	"golang.org/x/xerrors"
)

var bo = binary.LittleEndian

// ErrEmpty is returned for protocols that require a non-empty input.
var ErrEmpty = errors.New("empty input")

func roundTag(eng *beaver.Engine) p2p.Tag {
	return p2p.Tag{
		Round: eng.Channel().NextRound(),
	}
}

// ShareInputs secret-shares the owner's ring values. The owner
// passes its plaintext values and the other party passes nil; both
// get their additive shares of the values.
func ShareInputs(eng *beaver.Engine, values []uint64, owner int) (
	[]uint64, error) {

	tag := roundTag(eng)

	if eng.Role() != owner {
		peer, err := eng.Channel().Exchange(tag, nil)
		if err != nil {
			return nil, err
		}
		if len(peer)%8 != 0 {
			return nil, xerrors.Errorf("invalid input shares length %d",
				len(peer))
		}
		shares := make([]uint64, len(peer)/8)
		for i := range shares {
			shares[i] = bo.Uint64(peer[i*8:])
		}
		return shares, nil
	}

	masks := make([]byte, len(values)*8)
	if _, err := io.ReadFull(eng.Rand(), masks); err != nil {
		return nil, err
	}
	shares := make([]uint64, len(values))
	for i, v := range values {
		shares[i] = v - bo.Uint64(masks[i*8:])
	}
	if _, err := eng.Channel().Exchange(tag, masks); err != nil {
		return nil, err
	}
	return shares, nil
}

// ShareBigInt secret-shares the owner's prime field values. The
// other party passes nil.
func ShareBigInt(eng *beaver.Engine, values []*big.Int, owner int) (
	[]*big.Int, error) {

	f := eng.Prime()
	if f == nil {
		return nil, xerrors.Errorf("prime field not configured")
	}
	tag := roundTag(eng)

	if eng.Role() != owner {
		peer, err := eng.Channel().Exchange(tag, nil)
		if err != nil {
			return nil, err
		}
		masks, _, err := beaver.DecodePairs(string(peer))
		if err != nil {
			return nil, err
		}
		return masks, nil
	}

	masks := make([]*big.Int, len(values))
	shares := make([]*big.Int, len(values))
	for i, v := range values {
		mask, err := f.Rand(eng.Rand())
		if err != nil {
			return nil, err
		}
		masks[i] = mask
		shares[i] = f.Sub(v, mask)
	}
	// The masks travel in the multiplication pair encoding with a
	// zero second component.
	zeros := make([]*big.Int, len(values))
	for i := range zeros {
		zeros[i] = new(big.Int)
	}
	_, err := eng.Channel().Exchange(tag,
		[]byte(beaver.EncodePairs(masks, zeros)))
	if err != nil {
		return nil, err
	}
	return shares, nil
}

// OrXor computes x + y - c*x*y for shares of bits x and y. With c=2
// the result is x XOR y and with c=1 it is x OR y.
func OrXor(eng *beaver.Engine, x, y []uint64, c uint64) ([]uint64, error) {
	xy, err := eng.MulRing(x, y)
	if err != nil {
		return nil, err
	}
	return field.SubVec(field.AddVec(x, y), field.ScaleVec(xy, c)), nil
}

// Xor computes x XOR y for additive shares of bits.
func Xor(eng *beaver.Engine, x, y []uint64) ([]uint64, error) {
	return OrXor(eng, x, y, 2)
}

// Or computes x OR y for additive shares of bits.
func Or(eng *beaver.Engine, x, y []uint64) ([]uint64, error) {
	return OrXor(eng, x, y, 1)
}

// MulFixed multiplies fixed-point shares and truncates the products.
func MulFixed(eng *beaver.Engine, x, y []uint64) ([]uint64, error) {
	z, err := eng.MulRing(x, y)
	if err != nil {
		return nil, err
	}
	return eng.Fixed().TruncateVec(z, eng.Role()), nil
}

//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package secure

import (
	"math/big"

	"github.com/markkurossi/beaver/beaver"
	"github.com/markkurossi/beaver/p2p"
	"golang.org/x/xerrors"
)

// Reveal opens the ring shares to both parties.
func Reveal(eng *beaver.Engine, shares []uint64) ([]uint64, error) {
	round := eng.Channel().NextRound()

	return beaver.Parallel(eng, len(shares),
		func(w, from, to int) ([]uint64, error) {
			tag := p2p.Tag{
				Round:  round,
				Window: uint32(w),
			}
			buf := make([]byte, (to-from)*8)
			for i := from; i < to; i++ {
				bo.PutUint64(buf[(i-from)*8:], shares[i])
			}
			peer, err := eng.Channel().Exchange(tag, buf)
			if err != nil {
				return nil, err
			}
			if len(peer) != len(buf) {
				return nil, xerrors.Errorf("reveal %v: peer sent %d bytes, "+
					"expected %d", tag, len(peer), len(buf))
			}
			result := make([]uint64, to-from)
			for i := range result {
				result[i] = shares[from+i] + bo.Uint64(peer[i*8:])
			}
			return result, nil
		})
}

// RevealFixed opens fixed-point ring shares and decodes them into
// real numbers.
func RevealFixed(eng *beaver.Engine, shares []uint64) ([]float64, error) {
	values, err := Reveal(eng, shares)
	if err != nil {
		return nil, err
	}
	fixed := eng.Fixed()
	result := make([]float64, len(values))
	for i, v := range values {
		result[i] = fixed.Decode(v)
	}
	return result, nil
}

// RevealBinary opens the XOR shares of bits to both parties.
func RevealBinary(eng *beaver.Engine, shares []byte) ([]byte, error) {
	round := eng.Channel().NextRound()

	return beaver.Parallel(eng, len(shares),
		func(w, from, to int) ([]byte, error) {
			tag := p2p.Tag{
				Round:  round,
				Window: uint32(w),
			}
			peer, err := eng.Channel().Exchange(tag, shares[from:to])
			if err != nil {
				return nil, err
			}
			if len(peer) != to-from {
				return nil, xerrors.Errorf("reveal %v: peer sent %d bits, "+
					"expected %d", tag, len(peer), to-from)
			}
			result := make([]byte, to-from)
			for i := range result {
				result[i] = (shares[from+i] ^ peer[i]) & 1
			}
			return result, nil
		})
}

// RevealBigInt opens the prime field shares to both parties.
func RevealBigInt(eng *beaver.Engine, shares []*big.Int) ([]*big.Int,
	error) {

	f := eng.Prime()
	if f == nil {
		return nil, xerrors.Errorf("prime field not configured")
	}
	round := eng.Channel().NextRound()

	return beaver.Parallel(eng, len(shares),
		func(w, from, to int) ([]*big.Int, error) {
			tag := p2p.Tag{
				Round:  round,
				Window: uint32(w),
			}
			zeros := make([]*big.Int, to-from)
			for i := range zeros {
				zeros[i] = new(big.Int)
			}
			data := beaver.EncodePairs(shares[from:to], zeros)
			peer, err := eng.Channel().Exchange(tag, []byte(data))
			if err != nil {
				return nil, err
			}
			values, _, err := beaver.DecodePairs(string(peer))
			if err != nil {
				return nil, xerrors.Errorf("reveal %v: %w", tag, err)
			}
			if len(values) != to-from {
				return nil, xerrors.Errorf("reveal %v: peer sent %d values, "+
					"expected %d", tag, len(values), to-from)
			}
			result := make([]*big.Int, to-from)
			for i := range result {
				result[i] = f.Add(shares[from+i], values[i])
			}
			return result, nil
		})
}

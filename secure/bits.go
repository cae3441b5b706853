//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package secure

import (
	"github.com/markkurossi/beaver/beaver"
	"github.com/markkurossi/beaver/field"
	"golang.org/x/xerrors"
)

// BitDecompose computes XOR shares of the bits of the additively
// shared ring values x. The result has 64 bits per value, least
// significant bit first.
//
// The parties add their local shares with a ripple-carry adder over
// XOR-shared bits. Party 0 inputs the bits of its share and party 1
// the bits of its share; the carry is the majority function
// c' = ((a^c)&(b^c))^c, evaluated with one binary multiplication call
// per bit position.
func BitDecompose(eng *beaver.Engine, x []uint64) ([][]byte, error) {
	return decompose(eng, x, 64)
}

func decompose(eng *beaver.Engine, x []uint64, width int) ([][]byte, error) {
	n := len(x)
	role := eng.Role()

	result := make([][]byte, n)
	for i := range result {
		result[i] = make([]byte, width)
	}

	a := make([]byte, n)
	b := make([]byte, n)
	carry := make([]byte, n)

	for j := 0; j < width; j++ {
		for i, v := range x {
			a[i] = 0
			b[i] = 0
			if role == 0 {
				a[i] = field.Bit(v, j)
			} else {
				b[i] = field.Bit(v, j)
			}
			result[i][j] = a[i] ^ b[i] ^ carry[i]
		}
		if j+1 == width {
			break
		}
		ac := field.XorVec(a, carry)
		bc := field.XorVec(b, carry)
		and, err := eng.MulBinary(ac, bc)
		if err != nil {
			return nil, xerrors.Errorf("carry %d: %w", j+1, err)
		}
		carry = field.XorVec(and, carry)
	}
	return result, nil
}

// lessBits returns XOR shares of [x < y]. The difference x-y must
// fit in 63 bits.
func lessBits(eng *beaver.Engine, x, y []uint64) ([]byte, error) {
	if len(x) != len(y) {
		return nil, xerrors.Errorf("length mismatch: %d != %d", len(x), len(y))
	}
	bits, err := decompose(eng, field.SubVec(x, y), 64)
	if err != nil {
		return nil, err
	}
	result := make([]byte, len(bits))
	for i, v := range bits {
		result[i] = v[63]
	}
	return result, nil
}

// BatchCompare returns additive ring shares of [x_i < y_i] for the
// shared ring values x and y. The values are compared as signed
// integers and their difference must fit in 63 bits.
func BatchCompare(eng *beaver.Engine, x, y []uint64) ([]uint64, error) {
	lt, err := lessBits(eng, x, y)
	if err != nil {
		return nil, err
	}
	return BitsToAdditive(eng, lt)
}

// GreaterEqual returns additive ring shares of [x_i >= y_i].
func GreaterEqual(eng *beaver.Engine, x, y []uint64) ([]uint64, error) {
	lt, err := lessBits(eng, x, y)
	if err != nil {
		return nil, err
	}
	role := byte(eng.Role())
	for i := range lt {
		lt[i] ^= role
	}
	return BitsToAdditive(eng, lt)
}

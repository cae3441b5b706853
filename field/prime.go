//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package field

import (
	"encoding/hex"
	"io"
	"math/big"

	"golang.org/x/xerrors"
)

// Prime implements arithmetic modulo a prime P.
type Prime struct {
	P *big.Int
}

// NewPrime creates a prime field from its decimal representation.
func NewPrime(decimal string) (*Prime, error) {
	p, ok := new(big.Int).SetString(decimal, 10)
	if !ok {
		return nil, xerrors.Errorf("invalid prime %q", decimal)
	}
	if p.Cmp(big.NewInt(2)) < 0 || !p.ProbablyPrime(20) {
		return nil, xerrors.Errorf("modulus %s is not prime", p)
	}
	return &Prime{
		P: p,
	}, nil
}

// Reduce returns x mod P in the range [0, P).
func (f *Prime) Reduce(x *big.Int) *big.Int {
	z := new(big.Int).Mod(x, f.P)
	if z.Sign() < 0 {
		z.Add(z, f.P)
	}
	return z
}

// Add returns a+b mod P.
func (f *Prime) Add(a, b *big.Int) *big.Int {
	return f.Reduce(new(big.Int).Add(a, b))
}

// Sub returns a-b mod P.
func (f *Prime) Sub(a, b *big.Int) *big.Int {
	return f.Reduce(new(big.Int).Sub(a, b))
}

// Mul returns a*b mod P.
func (f *Prime) Mul(a, b *big.Int) *big.Int {
	return f.Reduce(new(big.Int).Mul(a, b))
}

// Neg returns -a mod P.
func (f *Prime) Neg(a *big.Int) *big.Int {
	return f.Reduce(new(big.Int).Neg(a))
}

// Rand returns a uniformly random element of the field.
func (f *Prime) Rand(r io.Reader) (*big.Int, error) {
	// Sample 64 extra bits so that the modular bias is negligible.
	buf := make([]byte, (f.P.BitLen()+7)/8+8)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, err
	}
	return f.Reduce(new(big.Int).SetBytes(buf)), nil
}

// RandNonZero returns a uniformly random nonzero element of the
// field.
func (f *Prime) RandNonZero(r io.Reader) (*big.Int, error) {
	for {
		v, err := f.Rand(r)
		if err != nil {
			return nil, err
		}
		if v.Sign() != 0 {
			return v, nil
		}
	}
}

// LEBytes returns the little-endian byte representation of x. Zero
// encodes as a single zero byte.
func LEBytes(x *big.Int) []byte {
	be := x.Bytes()
	if len(be) == 0 {
		return []byte{0}
	}
	le := make([]byte, len(be))
	for i, b := range be {
		le[len(be)-1-i] = b
	}
	return le
}

// FromLE decodes a little-endian byte representation.
func FromLE(le []byte) *big.Int {
	be := make([]byte, len(le))
	for i, b := range le {
		be[len(le)-1-i] = b
	}
	return new(big.Int).SetBytes(be)
}

// EncodeHex encodes x as hex of its little-endian bytes.
func EncodeHex(x *big.Int) string {
	return hex.EncodeToString(LEBytes(x))
}

// DecodeHex decodes a value encoded with EncodeHex.
func DecodeHex(s string) (*big.Int, error) {
	le, err := hex.DecodeString(s)
	if err != nil {
		return nil, xerrors.Errorf("invalid big integer encoding %q: %w",
			s, err)
	}
	return FromLE(le), nil
}

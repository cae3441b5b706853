//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package field

import (
	"math"

	"golang.org/x/xerrors"
)

// Fixed defines a fixed-point representation in the ring: a real
// number r is stored as round(r*2^Decimal) in two's complement, and
// |r| must be below 2^Integer.
type Fixed struct {
	Decimal uint
	Integer uint
}

// Scale returns 2^Decimal.
func (f Fixed) Scale() float64 {
	return math.Ldexp(1, int(f.Decimal))
}

// Encode encodes the real number r.
func (f Fixed) Encode(r float64) (uint64, error) {
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return 0, xerrors.Errorf("cannot encode %v", r)
	}
	if math.Abs(r) >= math.Ldexp(1, int(f.Integer)) {
		return 0, xerrors.Errorf("value %v out of range ±2^%d", r, f.Integer)
	}
	return uint64(int64(math.Round(r * f.Scale()))), nil
}

// MustEncode encodes r and panics if it is not representable.
func (f Fixed) MustEncode(r float64) uint64 {
	v, err := f.Encode(r)
	if err != nil {
		panic(err)
	}
	return v
}

// Decode decodes v. Values with the top bit set are negative.
func (f Fixed) Decode(v uint64) float64 {
	if v>>63 == 1 {
		return -float64(-v) / f.Scale()
	}
	return float64(v) / f.Scale()
}

// Truncate removes Decimal fraction bits from a product share without
// communication. Party 0 shifts its share; party 1 shifts the
// negation of its share and negates the result. The reconstructed
// value is off by at most one unit in the last place, provided the
// product is well below 2^63 in magnitude.
func (f Fixed) Truncate(share uint64, role int) uint64 {
	if role == 1 {
		return -((-share) >> f.Decimal)
	}
	return share >> f.Decimal
}

// TruncateVec truncates all shares of v.
func (f Fixed) TruncateVec(v []uint64, role int) []uint64 {
	result := make([]uint64, len(v))
	for i, share := range v {
		result[i] = f.Truncate(share, role)
	}
	return result
}

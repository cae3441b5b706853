//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package secure

import (
	"math/big"

	"github.com/markkurossi/beaver/beaver"
	"golang.org/x/xerrors"
)

// EqualZero tests which of the shared prime field values x are zero.
// Each value is multiplied with a shared random nonzero equality
// value and the product is opened: the product is zero if and only
// if the value is zero, and a nonzero product is uniformly random.
func EqualZero(eng *beaver.Engine, x []*big.Int) ([]bool, error) {
	if eng.Prime() == nil {
		return nil, xerrors.Errorf("prime field not configured")
	}
	if len(x) == 0 {
		return []bool{}, nil
	}
	shares, err := eng.Store().Equality().Take(len(x))
	if err != nil {
		return nil, err
	}
	r := make([]*big.Int, len(shares))
	for i, s := range shares {
		r[i] = s.R
	}
	masked, err := eng.MulBigInt(x, r)
	if err != nil {
		return nil, err
	}
	values, err := RevealBigInt(eng, masked)
	if err != nil {
		return nil, err
	}
	result := make([]bool, len(values))
	for i, v := range values {
		result[i] = v.Sign() == 0
	}
	return result, nil
}

// Equal tests the shared prime field values x and y for equality.
func Equal(eng *beaver.Engine, x, y []*big.Int) ([]bool, error) {
	f := eng.Prime()
	if f == nil {
		return nil, xerrors.Errorf("prime field not configured")
	}
	if len(x) != len(y) {
		return nil, xerrors.Errorf("length mismatch: %d != %d", len(x), len(y))
	}
	diff := make([]*big.Int, len(x))
	for i := range x {
		diff[i] = f.Sub(x[i], y[i])
	}
	return EqualZero(eng, diff)
}

//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package secure

import (
	"github.com/markkurossi/beaver/beaver"
	"github.com/markkurossi/beaver/field"
	"github.com/rs/zerolog/log"
)

// MinMax computes shares of the minimum and maximum of the shared
// ring values x without revealing the order of the values. The
// values are reduced in a tournament: each round compares pairs of
// the current minimum and maximum candidates and selects the winners
// with one multiplication call. An unpaired candidate is carried to
// the next round.
func MinMax(eng *beaver.Engine, x []uint64) (min, max uint64, err error) {
	if len(x) == 0 {
		return 0, 0, ErrEmpty
	}
	if len(x) == 1 {
		return x[0], x[0], nil
	}

	// The first round pairs the inputs directly.
	pairs := len(x) / 2
	a := make([]uint64, pairs)
	b := make([]uint64, pairs)
	for i := 0; i < pairs; i++ {
		a[i] = x[2*i]
		b[i] = x[2*i+1]
	}
	sel, err := GreaterEqual(eng, a, b)
	if err != nil {
		return 0, 0, err
	}
	selected, err := eng.MulRing(append(sel, sel...),
		append(field.SubVec(b, a), field.SubVec(a, b)...))
	if err != nil {
		return 0, 0, err
	}
	mins := field.AddVec(a, selected[:pairs])
	maxs := field.AddVec(b, selected[pairs:])
	if len(x)%2 == 1 {
		mins = append(mins, x[len(x)-1])
		maxs = append(maxs, x[len(x)-1])
	}

	for round := 1; len(mins) > 1; round++ {
		log.Debug().Int("round", round).Int("candidates", len(mins)).
			Msg("minmax")

		pairs = len(mins) / 2
		var left, right []uint64
		for i := 0; i < pairs; i++ {
			left = append(left, mins[2*i])
			right = append(right, mins[2*i+1])
		}
		for i := 0; i < pairs; i++ {
			left = append(left, maxs[2*i])
			right = append(right, maxs[2*i+1])
		}
		sel, err := GreaterEqual(eng, left, right)
		if err != nil {
			return 0, 0, err
		}
		// min = l + sel(r-l) and max = r + sel(l-r)
		diff := append(field.SubVec(right[:pairs], left[:pairs]),
			field.SubVec(left[pairs:], right[pairs:])...)
		selected, err := eng.MulRing(sel, diff)
		if err != nil {
			return 0, 0, err
		}
		nextMins := field.AddVec(left[:pairs], selected[:pairs])
		nextMaxs := field.AddVec(right[pairs:], selected[pairs:])
		if len(mins)%2 == 1 {
			nextMins = append(nextMins, mins[len(mins)-1])
			nextMaxs = append(nextMaxs, maxs[len(maxs)-1])
		}
		mins = nextMins
		maxs = nextMaxs
	}
	return mins[0], maxs[0], nil
}

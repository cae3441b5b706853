//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package secure

import (
	"math"
	"math/big"
	"sort"
	"sync"
	"testing"

	"github.com/markkurossi/beaver/beaver"
	"github.com/markkurossi/beaver/field"
	"github.com/markkurossi/beaver/p2p"
	"github.com/markkurossi/beaver/ti"
	"github.com/markkurossi/beaver/triple"
	"github.com/stretchr/testify/require"
)

var fixed = field.Fixed{
	Decimal: 16,
	Integer: 20,
}

func newEngines(t *testing.T, counts ti.Counts, batchSize int) [2]*beaver.Engine {
	prime, err := field.NewPrime("2305843009213693951")
	require.NoError(t, err)

	gen := &ti.Generator{
		Counts:  counts,
		Prime:   prime,
		Threads: 4,
	}
	b0, b1, err := gen.Generate()
	require.NoError(t, err)

	m0, m1 := p2p.MuxPipe()
	t.Cleanup(func() {
		m0.Close()
		m1.Close()
	})

	var engines [2]*beaver.Engine
	for role, b := range []*triple.Bundle{b0, b1} {
		store := triple.NewStore()
		store.Load(b)
		var ch beaver.Channel = m0
		if role == 1 {
			ch = m1
		}
		engines[role] = beaver.NewEngine(ch, store, beaver.Params{
			BatchSize: batchSize,
			Threads:   3,
			Prime:     prime,
			Fixed:     fixed,
		})
	}
	return engines
}

func run(t *testing.T, engines [2]*beaver.Engine,
	fn func(role int, eng *beaver.Engine) error) {

	var wg sync.WaitGroup
	var errs [2]error

	for role, eng := range engines {
		wg.Add(1)
		go func(role int, eng *beaver.Engine) {
			defer wg.Done()
			errs[role] = fn(role, eng)
		}(role, eng)
	}
	wg.Wait()
	require.NoError(t, errs[0])
	require.NoError(t, errs[1])
}

func owned(role, owner int, values []uint64) []uint64 {
	if role == owner {
		return values
	}
	return nil
}

func encodeAll(values []float64) []uint64 {
	result := make([]uint64, len(values))
	for i, v := range values {
		result[i] = fixed.MustEncode(v)
	}
	return result
}

var counts = ti.Counts{
	Ring:     4096,
	Binary:   8192,
	BigInt:   64,
	Equality: 64,
}

func TestMultiplyScenario(t *testing.T) {
	engines := newEngines(t, ti.Counts{
		Ring:   4,
		Binary: 4,
	}, 1)

	var z [2]uint64
	var out [2][]uint64
	run(t, engines, func(role int, eng *beaver.Engine) error {
		x, err := ShareInputs(eng, owned(role, 0, []uint64{3, 1}), 0)
		if err != nil {
			return err
		}
		y, err := ShareInputs(eng, owned(role, 1, []uint64{5, 0}), 1)
		if err != nil {
			return err
		}
		prod, err := eng.MulRing(x[:1], y[:1])
		if err != nil {
			return err
		}
		z[role] = prod[0]

		out[role], err = Xor(eng, x[1:], y[1:])
		return err
	})
	require.Equal(t, uint64(15), z[0]+z[1])
	require.Equal(t, uint64(1), out[0][0]+out[1][0])
	require.Equal(t, 2, engines[0].Store().Ring().Remaining())
	require.Equal(t, 4, engines[1].Store().Binary().Remaining())
}

func TestOrXor(t *testing.T) {
	engines := newEngines(t, counts, 2)
	x := []uint64{0, 0, 1, 1}
	y := []uint64{0, 1, 0, 1}

	var xor, or [2][]uint64
	run(t, engines, func(role int, eng *beaver.Engine) error {
		xs, err := ShareInputs(eng, owned(role, 0, x), 0)
		if err != nil {
			return err
		}
		ys, err := ShareInputs(eng, owned(role, 1, y), 1)
		if err != nil {
			return err
		}
		xor[role], err = Xor(eng, xs, ys)
		if err != nil {
			return err
		}
		or[role], err = Or(eng, xs, ys)
		return err
	})
	for i := range x {
		require.Equal(t, x[i]^y[i], xor[0][i]+xor[1][i], "xor %d", i)
		require.Equal(t, x[i]|y[i], or[0][i]+or[1][i], "or %d", i)
	}
}

func TestRevealFixed(t *testing.T) {
	engines := newEngines(t, counts, 3)
	values := []float64{0, 1.5, -1.5, 1000.25, -524287.75, 0.0001}

	var revealed [2][]float64
	run(t, engines, func(role int, eng *beaver.Engine) error {
		shares, err := ShareInputs(eng, owned(role, 1, encodeAll(values)), 1)
		if err != nil {
			return err
		}
		revealed[role], err = RevealFixed(eng, shares)
		return err
	})
	for i, v := range values {
		require.InDelta(t, v, revealed[0][i], 1/fixed.Scale())
		require.Equal(t, revealed[0][i], revealed[1][i])
	}
}

func TestRevealBinary(t *testing.T) {
	engines := newEngines(t, counts, 4)
	bits := []byte{1, 0, 1, 1, 0, 0, 1, 0, 1}

	var revealed [2][]byte
	run(t, engines, func(role int, eng *beaver.Engine) error {
		shares := make([]byte, len(bits))
		if role == 0 {
			copy(shares, bits)
		}
		var err error
		revealed[role], err = RevealBinary(eng, shares)
		return err
	})
	require.Equal(t, bits, revealed[0])
	require.Equal(t, bits, revealed[1])
}

func TestMulFixed(t *testing.T) {
	engines := newEngines(t, counts, 2)
	x := []float64{1.5, -2.25, 100, -0.5, 3}
	y := []float64{2, 4, -0.125, -0.5, 0}

	var revealed [2][]float64
	run(t, engines, func(role int, eng *beaver.Engine) error {
		xs, err := ShareInputs(eng, owned(role, 0, encodeAll(x)), 0)
		if err != nil {
			return err
		}
		ys, err := ShareInputs(eng, owned(role, 1, encodeAll(y)), 1)
		if err != nil {
			return err
		}
		z, err := MulFixed(eng, xs, ys)
		if err != nil {
			return err
		}
		revealed[role], err = RevealFixed(eng, z)
		return err
	})
	for i := range x {
		require.InDelta(t, x[i]*y[i], revealed[0][i], 2/fixed.Scale(), "%d", i)
	}
}

func TestBitDecompose(t *testing.T) {
	engines := newEngines(t, counts, 2)
	values := []uint64{0, 1, 0x8000000000000000, 0xdeadbeefcafebabe,
		math.MaxUint64}

	var bits [2][][]byte
	var additive [2][]uint64
	run(t, engines, func(role int, eng *beaver.Engine) error {
		shares, err := ShareInputs(eng, owned(role, 0, values), 0)
		if err != nil {
			return err
		}
		bits[role], err = BitDecompose(eng, shares)
		if err != nil {
			return err
		}
		additive[role], err = XorToAdditive(eng, bits[role])
		return err
	})
	for i, v := range values {
		require.Len(t, bits[0][i], 64)
		for j := 0; j < 64; j++ {
			require.Equal(t, field.Bit(v, j), bits[0][i][j]^bits[1][i][j],
				"value %d bit %d", i, j)
		}
		require.Equal(t, v, additive[0][i]+additive[1][i])
	}
}

func TestBatchCompare(t *testing.T) {
	engines := newEngines(t, counts, 3)
	x := encodeAll([]float64{1, 2, -3, 0, 5.5, -100, 7})
	y := encodeAll([]float64{2, 1, -3, -0.25, 5.5, 100, -7})

	var lt, ge [2][]uint64
	run(t, engines, func(role int, eng *beaver.Engine) error {
		xs, err := ShareInputs(eng, owned(role, 0, x), 0)
		if err != nil {
			return err
		}
		ys, err := ShareInputs(eng, owned(role, 1, y), 1)
		if err != nil {
			return err
		}
		lt[role], err = BatchCompare(eng, xs, ys)
		if err != nil {
			return err
		}
		ge[role], err = GreaterEqual(eng, xs, ys)
		return err
	})
	for i := range x {
		var expected uint64
		if int64(x[i]) < int64(y[i]) {
			expected = 1
		}
		require.Equal(t, expected, lt[0][i]+lt[1][i], "lt %d", i)
		require.Equal(t, 1-expected, ge[0][i]+ge[1][i], "ge %d", i)
	}
}

func TestEqualZero(t *testing.T) {
	engines := newEngines(t, counts, 2)
	x := []int64{0, 1, 42, 0, 7}
	y := []int64{0, 2, 42, 5, 7}

	var result [2][]bool
	run(t, engines, func(role int, eng *beaver.Engine) error {
		var xv, yv []*big.Int
		if role == 0 {
			for i := range x {
				xv = append(xv, big.NewInt(x[i]))
				yv = append(yv, big.NewInt(y[i]))
			}
		}
		xs, err := ShareBigInt(eng, xv, 0)
		if err != nil {
			return err
		}
		ys, err := ShareBigInt(eng, yv, 0)
		if err != nil {
			return err
		}
		if len(xs) != len(x) {
			t.Errorf("party %d: unexpected share count %d", role, len(xs))
		}
		result[role], err = Equal(eng, xs, ys)
		return err
	})
	for i := range x {
		require.Equal(t, x[i] == y[i], result[0][i], "%d", i)
		require.Equal(t, result[0][i], result[1][i])
	}
}

func testMinMax(t *testing.T, values []float64) {
	engines := newEngines(t, counts, 2)
	encoded := encodeAll(values)

	var min, max [2]uint64
	run(t, engines, func(role int, eng *beaver.Engine) error {
		shares, err := ShareInputs(eng, owned(role, 0, encoded), 0)
		if err != nil {
			return err
		}
		min[role], max[role], err = MinMax(eng, shares)
		return err
	})

	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	require.Equal(t, sorted[0], fixed.Decode(min[0]+min[1]))
	require.Equal(t, sorted[len(sorted)-1], fixed.Decode(max[0]+max[1]))
}

func TestMinMax(t *testing.T) {
	testMinMax(t, []float64{4.5})
	testMinMax(t, []float64{3, -1})
	testMinMax(t, []float64{3, -1, 8, 8, 0, 2.25})
	testMinMax(t, []float64{7, 1, -4.5, 9, 2, 2, 100, -100, 0})
}

func TestMinMaxEmpty(t *testing.T) {
	engines := newEngines(t, counts, 2)
	_, _, err := MinMax(engines[0], nil)
	require.ErrorIs(t, err, ErrEmpty)
}

func TestDiscretize(t *testing.T) {
	engines := newEngines(t, counts, 2)
	values := []float64{2, 10, 6, 4}

	var splits [2][]float64
	run(t, engines, func(role int, eng *beaver.Engine) error {
		shares, err := ShareInputs(eng, owned(role, 0, encodeAll(values)), 0)
		if err != nil {
			return err
		}
		min, max, err := MinMax(eng, shares)
		if err != nil {
			return err
		}
		points, err := Discretize(eng, min, max, 4)
		if err != nil {
			return err
		}
		splits[role], err = RevealFixed(eng, points)
		return err
	})
	require.Len(t, splits[0], 3)
	for i, expected := range []float64{4, 6, 8} {
		require.InDelta(t, expected, splits[0][i], 2/fixed.Scale())
	}
}

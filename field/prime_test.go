//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package field

import (
	"crypto/rand"
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

func requireInt(t *testing.T, expected int64, v *big.Int) {
	t.Helper()
	require.Equal(t, 0, big.NewInt(expected).Cmp(v), "got %v, expected %v",
		v, expected)
}

func TestPrime(t *testing.T) {
	_, err := NewPrime("1000000008")
	require.Error(t, err)
	_, err = NewPrime("xyz")
	require.Error(t, err)

	f, err := NewPrime("1000000007")
	require.NoError(t, err)

	a := big.NewInt(999999999)
	b := big.NewInt(10)

	requireInt(t, 2, f.Add(a, b))
	requireInt(t, 999999999, f.Sub(b, big.NewInt(18)))
	requireInt(t, 999999927, f.Mul(a, b))
	requireInt(t, 999999997, f.Neg(b))
	requireInt(t, 0, f.Reduce(f.P))

	for i := 0; i < 100; i++ {
		v, err := f.RandNonZero(rand.Reader)
		require.NoError(t, err)
		require.NotEqual(t, 0, v.Sign())
		require.Equal(t, -1, v.Cmp(f.P))
	}
}

func TestLEBytes(t *testing.T) {
	x := big.NewInt(0x010203)
	require.Equal(t, []byte{0x03, 0x02, 0x01}, LEBytes(x))
	require.Equal(t, []byte{0}, LEBytes(new(big.Int)))
	require.Equal(t, "030201", EncodeHex(x))

	v, err := DecodeHex("030201")
	require.NoError(t, err)
	require.Equal(t, 0, v.Cmp(x))

	_, err = DecodeHex("zz")
	require.Error(t, err)
}

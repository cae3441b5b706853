//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

// Package field implements the arithmetic domains of the two-party
// runtime: the ring Z/2^64, GF(2) bits stored as bytes, and a prime
// field over arbitrary-precision integers. It also implements the
// fixed-point encoding used to carry real numbers in the ring.
package field

// Ring arithmetic is native uint64 arithmetic: Go integer overflow
// wraps modulo 2^64.

// AddVec returns a+b elementwise.
func AddVec(a, b []uint64) []uint64 {
	result := make([]uint64, len(a))
	for i := range a {
		result[i] = a[i] + b[i]
	}
	return result
}

// SubVec returns a-b elementwise.
func SubVec(a, b []uint64) []uint64 {
	result := make([]uint64, len(a))
	for i := range a {
		result[i] = a[i] - b[i]
	}
	return result
}

// ScaleVec multiplies each element of a with the public constant c.
func ScaleVec(a []uint64, c uint64) []uint64 {
	result := make([]uint64, len(a))
	for i := range a {
		result[i] = a[i] * c
	}
	return result
}

// Public returns role's additive share of the public constant c: the
// party with role 1 holds c, the other holds 0.
func Public(c uint64, role int) uint64 {
	if role == 1 {
		return c
	}
	return 0
}

// Bit returns bit i of v as a byte.
func Bit(v uint64, i int) byte {
	return byte((v >> uint(i)) & 1)
}

// Xor returns a^b for bits stored in bytes.
func Xor(a, b byte) byte {
	return (a ^ b) & 1
}

// And returns a&b for bits stored in bytes.
func And(a, b byte) byte {
	return a & b & 1
}

// XorVec returns a^b elementwise.
func XorVec(a, b []byte) []byte {
	result := make([]byte, len(a))
	for i := range a {
		result[i] = Xor(a[i], b[i])
	}
	return result
}

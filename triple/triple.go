//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

// Package triple implements Beaver triples and the per-party triple
// store. A triple is single-use: once popped from its sequence it is
// never handed out again.
package triple

import (
	"math/big"
)

// Kind identifies a triple domain.
type Kind int

// Triple kinds.
const (
	KindRing Kind = iota
	KindBinary
	KindBigInt
	KindEquality
)

var kindNames = map[Kind]string{
	KindRing:     "ring",
	KindBinary:   "binary",
	KindBigInt:   "bigint",
	KindEquality: "equality",
}

func (k Kind) String() string {
	name, ok := kindNames[k]
	if ok {
		return name
	}
	return "{Kind}"
}

// Ring is a share of a triple over Z/2^64.
type Ring struct {
	U uint64
	V uint64
	W uint64
}

// Binary is a share of a triple over GF(2). Each field holds one bit.
type Binary struct {
	U byte
	V byte
	W byte
}

// BigInt is a share of a triple over a prime field.
type BigInt struct {
	U *big.Int
	V *big.Int
	W *big.Int
}

// Equality is a share of a random nonzero prime field element used
// in zero-equality tests.
type Equality struct {
	R *big.Int
}

//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

// Package beaver implements secure multiplication of secret-shared
// vectors with Beaver triples. Each party holds additive (ring, prime
// field) or XOR (binary) shares x_i and y_i, and the multiplication
// produces shares z_i of x*y using one round of communication per
// batch window:
//
//	d_i = x_i - u_i, e_i = y_i - v_i
//	d = d_0 + d_1, e = e_0 + e_1
//	z_i = w_i + d*v_i + u_i*e + [role = 1]*d*e
//
// Summing both parties' outputs gives w + d*v + u*e + d*e = (u+d)(v+e)
// = x*y. Long vectors are split into windows of BatchSize elements
// and the windows are exchanged concurrently by a pool of worker
// goroutines.
package beaver

import (
	"crypto/rand"
	"io"

	"github.com/markkurossi/beaver/field"
	"github.com/markkurossi/beaver/p2p"
	"github.com/markkurossi/beaver/triple"
	"github.com/rs/zerolog/log"
	"golang.org/x/xerrors"
)

// Channel exchanges tagged frames with the peer.
type Channel interface {
	// Role returns the asymmetric bit of this party.
	Role() int
	// NextRound allocates a round number for a protocol call.
	NextRound() uint32
	// Exchange sends data to the peer and returns the peer's data
	// with the same tag.
	Exchange(tag p2p.Tag, data []byte) ([]byte, error)
}

// Params define the engine parameters.
type Params struct {
	BatchSize int
	Threads   int
	Prime     *field.Prime
	Fixed     field.Fixed
	Rand      io.Reader
}

// Engine implements the Beaver multiplication protocol.
type Engine struct {
	ch     Channel
	store  *triple.Store
	params Params
}

// NewEngine creates a new multiplication engine.
func NewEngine(ch Channel, store *triple.Store, params Params) *Engine {
	if params.BatchSize <= 0 {
		params.BatchSize = 1
	}
	if params.Threads <= 0 {
		params.Threads = 1
	}
	if params.Rand == nil {
		params.Rand = rand.Reader
	}
	return &Engine{
		ch:     ch,
		store:  store,
		params: params,
	}
}

// Role returns the asymmetric bit of the party.
func (e *Engine) Role() int {
	return e.ch.Role()
}

// Channel returns the peer channel of the engine.
func (e *Engine) Channel() Channel {
	return e.ch
}

// Store returns the triple store of the engine.
func (e *Engine) Store() *triple.Store {
	return e.store
}

// Prime returns the prime field of the engine.
func (e *Engine) Prime() *field.Prime {
	return e.params.Prime
}

// Fixed returns the fixed-point representation of the engine.
func (e *Engine) Fixed() field.Fixed {
	return e.params.Fixed
}

// BatchSize returns the number of elements per window.
func (e *Engine) BatchSize() int {
	return e.params.BatchSize
}

// Rand returns the engine's source of randomness.
func (e *Engine) Rand() io.Reader {
	return e.params.Rand
}

func checkLengths(x, y int) error {
	if x != y {
		return xerrors.Errorf("operand length mismatch: %d != %d", x, y)
	}
	return nil
}

func checkPeer(tag p2p.Tag, got, expected int) error {
	if got != expected {
		return xerrors.Errorf("round %v: peer sent %d bytes, expected %d",
			tag, got, expected)
	}
	return nil
}

func (e *Engine) debug(op string, n int, round uint32) {
	log.Debug().
		Int("role", e.Role()).
		Uint32("round", round).
		Int("n", n).
		Int("windows", numWindows(n, e.params.BatchSize)).
		Msg(op)
}

//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package triple

import (
	"fmt"
	"sync"
)

// Bundle holds one party's shares of all triples of one training
// round, in generation order.
type Bundle struct {
	Ring     []Ring
	Binary   []Binary
	BigInt   []BigInt
	Equality []Equality
}

func (b *Bundle) String() string {
	return fmt.Sprintf("ring=%d binary=%d bigint=%d equality=%d",
		len(b.Ring), len(b.Binary), len(b.BigInt), len(b.Equality))
}

// Store holds the triple sequences of a party. Load replaces all
// sequences with the triples of a new round.
type Store struct {
	m        sync.RWMutex
	ring     *Sequence[Ring]
	binary   *Sequence[Binary]
	bigint   *Sequence[BigInt]
	equality *Sequence[Equality]
}

// NewStore creates an empty store.
func NewStore() *Store {
	s := new(Store)
	s.Load(new(Bundle))
	return s
}

// Load starts a new round with the triples of bundle.
func (s *Store) Load(bundle *Bundle) {
	s.m.Lock()
	defer s.m.Unlock()

	s.ring = NewSequence(KindRing, bundle.Ring)
	s.binary = NewSequence(KindBinary, bundle.Binary)
	s.bigint = NewSequence(KindBigInt, bundle.BigInt)
	s.equality = NewSequence(KindEquality, bundle.Equality)
}

// Ring returns the ring triple sequence of the current round.
func (s *Store) Ring() *Sequence[Ring] {
	s.m.RLock()
	defer s.m.RUnlock()
	return s.ring
}

// Binary returns the binary triple sequence of the current round.
func (s *Store) Binary() *Sequence[Binary] {
	s.m.RLock()
	defer s.m.RUnlock()
	return s.binary
}

// BigInt returns the prime field triple sequence of the current
// round.
func (s *Store) BigInt() *Sequence[BigInt] {
	s.m.RLock()
	defer s.m.RUnlock()
	return s.bigint
}

// Equality returns the equality share sequence of the current round.
func (s *Store) Equality() *Sequence[Equality] {
	s.m.RLock()
	defer s.m.RUnlock()
	return s.equality
}

// Remaining returns the number of unconsumed triples per kind.
func (s *Store) Remaining() map[Kind]int {
	return map[Kind]int{
		KindRing:     s.Ring().Remaining(),
		KindBinary:   s.Binary().Remaining(),
		KindBigInt:   s.BigInt().Remaining(),
		KindEquality: s.Equality().Remaining(),
	}
}

//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package triple

import (
	"errors"
	"sync"

	"golang.org/x/xerrors"
)

// ErrExhausted is returned when a sequence has fewer triples left
// than requested. It signals that the trusted initializer provisioned
// too few triples for the round.
var ErrExhausted = errors.New("triple store exhausted")

// Sequence is a consumable sequence of triples of one kind. The
// cursor only advances. Sequence is safe for concurrent use.
type Sequence[T any] struct {
	kind   Kind
	m      sync.Mutex
	items  []T
	cursor int
}

// NewSequence creates a sequence of items.
func NewSequence[T any](kind Kind, items []T) *Sequence[T] {
	return &Sequence[T]{
		kind:  kind,
		items: items,
	}
}

// Pop returns the next item and advances the cursor.
func (s *Sequence[T]) Pop() (T, error) {
	s.m.Lock()
	defer s.m.Unlock()

	var zero T
	if s.cursor >= len(s.items) {
		return zero, xerrors.Errorf("%s: pop at %d of %d: %w",
			s.kind, s.cursor, len(s.items), ErrExhausted)
	}
	item := s.items[s.cursor]
	s.items[s.cursor] = zero
	s.cursor++
	return item, nil
}

// Take returns the next n items and advances the cursor past them in
// one critical section. If fewer than n items remain, Take consumes
// nothing and returns ErrExhausted.
func (s *Sequence[T]) Take(n int) ([]T, error) {
	s.m.Lock()
	defer s.m.Unlock()

	if n < 0 || s.cursor+n > len(s.items) {
		return nil, xerrors.Errorf("%s: take %d at %d of %d: %w",
			s.kind, n, s.cursor, len(s.items), ErrExhausted)
	}
	result := make([]T, n)
	copy(result, s.items[s.cursor:s.cursor+n])

	var zero T
	for i := s.cursor; i < s.cursor+n; i++ {
		s.items[i] = zero
	}
	s.cursor += n
	return result, nil
}

// Remaining returns the number of unconsumed items.
func (s *Sequence[T]) Remaining() int {
	s.m.Lock()
	defer s.m.Unlock()
	return len(s.items) - s.cursor
}

// Len returns the total number of items of the sequence.
func (s *Sequence[T]) Len() int {
	s.m.Lock()
	defer s.m.Unlock()
	return len(s.items)
}

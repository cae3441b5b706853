//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

// Package ti implements the trusted initializer that generates
// correlated randomness for the two parties, and the party side of
// the triple distribution protocol.
package ti

import (
	"crypto/rand"
	"io"
	"math/big"
	"sync"

	"github.com/markkurossi/beaver/env"
	"github.com/markkurossi/beaver/field"
	"github.com/markkurossi/beaver/triple"
	"golang.org/x/xerrors"
)

// Counts specify the number of triples generated per round.
type Counts struct {
	Ring     int
	Binary   int
	BigInt   int
	Equality int
}

// Generator generates complementary triple bundles for the two
// parties.
type Generator struct {
	Counts  Counts
	Prime   *field.Prime
	Threads int
	Rand    io.Reader
}

// NewGenerator creates a generator from the configuration.
func NewGenerator(config *env.Config) *Generator {
	return &Generator{
		Counts: Counts{
			Ring:     config.AddSharesPerTree,
			Binary:   config.BinarySharesPerTree,
			BigInt:   config.BigIntSharesPerTree,
			Equality: config.EqualitySharesPerTree,
		},
		Prime:   config.GetPrime(),
		Threads: config.Threads,
		Rand:    config.GetRandom(),
	}
}

// Generate generates the bundles of one round for parties 0 and 1.
// The items of each kind are generated concurrently and stored at
// their index, so the triple order is the generation order.
func (g *Generator) Generate() (*triple.Bundle, *triple.Bundle, error) {
	b0 := &triple.Bundle{
		Ring:     make([]triple.Ring, g.Counts.Ring),
		Binary:   make([]triple.Binary, g.Counts.Binary),
		BigInt:   make([]triple.BigInt, g.Counts.BigInt),
		Equality: make([]triple.Equality, g.Counts.Equality),
	}
	b1 := &triple.Bundle{
		Ring:     make([]triple.Ring, g.Counts.Ring),
		Binary:   make([]triple.Binary, g.Counts.Binary),
		BigInt:   make([]triple.BigInt, g.Counts.BigInt),
		Equality: make([]triple.Equality, g.Counts.Equality),
	}

	err := g.run(g.Counts.Ring, func(p *prg, i int) error {
		b0.Ring[i], b1.Ring[i] = ringTriple(p)
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	err = g.run(g.Counts.Binary, func(p *prg, i int) error {
		b0.Binary[i], b1.Binary[i] = binaryTriple(p)
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	if g.Counts.BigInt+g.Counts.Equality > 0 && g.Prime == nil {
		return nil, nil, xerrors.Errorf("prime field not configured")
	}
	err = g.run(g.Counts.BigInt, func(p *prg, i int) (err error) {
		b0.BigInt[i], b1.BigInt[i], err = bigIntTriple(p, g.Prime)
		return
	})
	if err != nil {
		return nil, nil, err
	}
	err = g.run(g.Counts.Equality, func(p *prg, i int) (err error) {
		b0.Equality[i], b1.Equality[i], err = equalityShare(p, g.Prime)
		return
	})
	if err != nil {
		return nil, nil, err
	}
	return b0, b1, nil
}

// run calls fn for indices [0, n) on a pool of workers. Each worker
// draws from its own PRG seeded from the generator's random source.
func (g *Generator) run(n int, fn func(p *prg, i int) error) error {
	if n == 0 {
		return nil
	}
	threads := g.Threads
	if threads <= 0 {
		threads = 1
	}
	if threads > n {
		threads = n
	}
	seed := g.Rand
	if seed == nil {
		seed = rand.Reader
	}

	prgs := make([]*prg, threads)
	for i := range prgs {
		p, err := newPRG(seed)
		if err != nil {
			return xerrors.Errorf("seed PRG: %w", err)
		}
		prgs[i] = p
	}

	jobs := make(chan int)
	var m sync.Mutex
	var firstErr error

	var wg sync.WaitGroup
	for _, p := range prgs {
		wg.Add(1)
		go func(p *prg) {
			defer wg.Done()
			for i := range jobs {
				if err := fn(p, i); err != nil {
					m.Lock()
					if firstErr == nil {
						firstErr = err
					}
					m.Unlock()
				}
			}
		}(p)
	}
	for i := 0; i < n; i++ {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	return firstErr
}

func ringTriple(p *prg) (triple.Ring, triple.Ring) {
	u := p.Uint64()
	v := p.Uint64()
	w := u * v

	t0 := triple.Ring{
		U: p.Uint64(),
		V: p.Uint64(),
		W: p.Uint64(),
	}
	return t0, triple.Ring{
		U: u - t0.U,
		V: v - t0.V,
		W: w - t0.W,
	}
}

func binaryTriple(p *prg) (triple.Binary, triple.Binary) {
	u := p.Bit()
	v := p.Bit()
	w := u & v

	t0 := triple.Binary{
		U: p.Bit(),
		V: p.Bit(),
		W: p.Bit(),
	}
	return t0, triple.Binary{
		U: u ^ t0.U,
		V: v ^ t0.V,
		W: w ^ t0.W,
	}
}

func bigIntTriple(p *prg, f *field.Prime) (t0, t1 triple.BigInt, err error) {
	var vals [5]*big.Int
	for i := range vals {
		vals[i], err = f.Rand(p)
		if err != nil {
			return
		}
	}
	u, v := vals[0], vals[1]
	w := f.Mul(u, v)

	t0 = triple.BigInt{
		U: vals[2],
		V: vals[3],
		W: vals[4],
	}
	t1 = triple.BigInt{
		U: f.Sub(u, t0.U),
		V: f.Sub(v, t0.V),
		W: f.Sub(w, t0.W),
	}
	return
}

func equalityShare(p *prg, f *field.Prime) (s0, s1 triple.Equality,
	err error) {

	r, err := f.RandNonZero(p)
	if err != nil {
		return
	}
	r0, err := f.Rand(p)
	if err != nil {
		return
	}
	s0 = triple.Equality{
		R: r0,
	}
	s1 = triple.Equality{
		R: f.Sub(r, r0),
	}
	return
}

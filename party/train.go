//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package party

import (
	"encoding/binary"
	"fmt"
	"time"

	"github.com/markkurossi/beaver/p2p"
	"github.com/markkurossi/beaver/secure"
	"github.com/markkurossi/beaver/timing"
	"github.com/rs/zerolog/log"
	"golang.org/x/xerrors"
)

var bo = binary.LittleEndian

// Split holds the opened discretization of one attribute.
type Split struct {
	Name   string
	Min    float64
	Max    float64
	Points []float64
}

// shape exchanges the dataset shapes with the peer. It returns the
// peer's row count.
func (p *Party) shape(d *Dataset) (int, error) {
	tag := p2p.Tag{
		Round: p.Peer.NextRound(),
	}
	var buf [8]byte
	bo.PutUint32(buf[0:], uint32(len(d.Columns)))
	bo.PutUint32(buf[4:], uint32(d.Rows()))

	peer, err := p.Peer.Exchange(tag, buf[:])
	if err != nil {
		return 0, err
	}
	if len(peer) != len(buf) {
		return 0, xerrors.Errorf("invalid shape message length %d", len(peer))
	}
	cols := int(bo.Uint32(peer[0:]))
	if cols != len(d.Columns) {
		return 0, xerrors.Errorf("column count mismatch: %d != %d",
			len(d.Columns), cols)
	}
	return int(bo.Uint32(peer[4:])), nil
}

// Discretize computes the equal-width bucket split points of the
// attributes of the union of both parties' datasets. The attribute
// values stay secret; only the ranges and the split points are
// opened.
func (p *Party) Discretize(d *Dataset, sample *timing.Sample) (
	[]Split, error) {

	peerRows, err := p.shape(d)
	if err != nil {
		return nil, err
	}
	eng := p.Engine
	fixed := eng.Fixed()

	var splits []Split
	for col, values := range d.Columns {
		encoded := make([]uint64, len(values))
		for i, v := range values {
			encoded[i], err = fixed.Encode(v)
			if err != nil {
				return nil, xerrors.Errorf("column %s row %d: %w",
					d.Names[col], i, err)
			}
		}

		// Party 0's rows come first in the shared column.
		var shares []uint64
		for owner := 0; owner < 2; owner++ {
			var input []uint64
			if owner == p.Role {
				input = encoded
			}
			s, err := secure.ShareInputs(eng, input, owner)
			if err != nil {
				return nil, err
			}
			shares = append(shares, s...)
		}
		if len(shares) != len(values)+peerRows {
			return nil, xerrors.Errorf("column %s: got %d shares, expected %d",
				d.Names[col], len(shares), len(values)+peerRows)
		}

		min, max, err := secure.MinMax(eng, shares)
		if err != nil {
			return nil, xerrors.Errorf("column %s: %w", d.Names[col], err)
		}
		points, err := secure.Discretize(eng, min, max, p.Config.Buckets)
		if err != nil {
			return nil, err
		}
		opened, err := secure.RevealFixed(eng,
			append([]uint64{min, max}, points...))
		if err != nil {
			return nil, err
		}
		split := Split{
			Name:   d.Names[col],
			Min:    opened[0],
			Max:    opened[1],
			Points: opened[2:],
		}
		splits = append(splits, split)

		log.Debug().Str("party", p.String()).Str("column", split.Name).
			Float64("min", split.Min).Float64("max", split.Max).
			Floats64("splits", split.Points).Msg("discretized")

		if sample != nil {
			sample.SubSample(split.Name, time.Now())
		}
	}
	return splits, nil
}

// Train runs the configured number of training rounds over the
// dataset. Each round fetches fresh triples from the trusted
// initializer.
func (p *Party) Train(d *Dataset) ([][]Split, error) {
	var result [][]Split

	for tree := 0; tree < p.Config.Trees; tree++ {
		if err := p.FetchTriples(); err != nil {
			return nil, err
		}
		p.Timing.Sample(fmt.Sprintf("Triples %d", tree), []string{
			timing.FileSize(p.TI.Stats.Sum()).String(),
		})

		sample := &timing.Sample{
			Label: fmt.Sprintf("Tree %d", tree),
			Start: time.Now(),
		}
		splits, err := p.Discretize(d, sample)
		if err != nil {
			return nil, xerrors.Errorf("tree %d: %w", tree, err)
		}
		s := p.Timing.Sample(sample.Label, []string{
			timing.FileSize(p.Peer.Stats().Sum()).String(),
		})
		s.Samples = sample.Samples

		log.Info().Str("party", p.String()).Int("tree", tree).
			Interface("remaining", p.Store.Remaining()).Msg("tree done")

		result = append(result, splits)
	}
	return result, nil
}

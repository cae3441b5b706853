//
// Copyright (c) 2022-2026 Markku Rossi
//
// All rights reserved.
//

// Package party implements the computing party: its connections to
// the peer and to the trusted initializer, its triple store, and the
// multiplication engine the secure protocols run on.
package party

import (
	"github.com/markkurossi/beaver/beaver"
	"github.com/markkurossi/beaver/env"
	"github.com/markkurossi/beaver/p2p"
	"github.com/markkurossi/beaver/ti"
	"github.com/markkurossi/beaver/timing"
	"github.com/markkurossi/beaver/triple"
	"github.com/markkurossi/text/superscript"
	"github.com/rs/zerolog/log"
	"golang.org/x/xerrors"
)

// Party implements a computing party.
type Party struct {
	Config *env.Config
	Role   int
	Peer   *p2p.Mux
	TI     *p2p.Conn
	Store  *triple.Store
	Engine *beaver.Engine
	Timing *timing.Timing

	// Round is the ID of the current triple round.
	Round string
}

// New creates a party from the configuration and the peer and trusted
// initializer connections.
func New(config *env.Config, peer *p2p.Mux, tiConn *p2p.Conn) *Party {
	store := triple.NewStore()
	return &Party{
		Config: config,
		Role:   config.AsymmetricBit,
		Peer:   peer,
		TI:     tiConn,
		Store:  store,
		Engine: beaver.NewEngine(peer, store, beaver.Params{
			BatchSize: config.BatchSize,
			Threads:   config.Threads,
			Prime:     config.GetPrime(),
			Fixed:     config.GetFixed(),
			Rand:      config.GetRandom(),
		}),
		Timing: timing.New(),
	}
}

// Connect creates the party's connections. The party with role 0
// accepts the peer connection at its address and the party with role
// 1 connects to its peer. After that, both parties connect to the
// trusted initializer.
func Connect(config *env.Config) (*Party, error) {
	var conn *p2p.Conn
	var err error

	if config.AsymmetricBit == 0 {
		conn, err = p2p.AcceptOne(config.Address)
	} else {
		conn, err = p2p.Dial(config.Peer)
	}
	if err != nil {
		return nil, xerrors.Errorf("peer: %w", err)
	}
	tiConn, err := p2p.Dial(config.TIAddress)
	if err != nil {
		conn.Close()
		return nil, xerrors.Errorf("trusted initializer: %w", err)
	}
	return New(config, p2p.NewMux(conn, config.AsymmetricBit), tiConn), nil
}

// IDString returns the party role as string.
func (p *Party) IDString() string {
	return superscript.Itoa(p.Role)
}

func (p *Party) String() string {
	return "P" + p.IDString()
}

// FetchTriples fetches the triples of the next round from the trusted
// initializer and replaces the party's triple store contents.
func (p *Party) FetchTriples() error {
	bundle, round, err := ti.Fetch(p.TI)
	if err != nil {
		return xerrors.Errorf("%s: fetch triples: %w", p, err)
	}
	p.Store.Load(bundle)
	p.Round = round

	log.Info().Str("party", p.String()).Str("round", round).
		Msgf("loaded %v", bundle)
	return nil
}

// Close closes the party's connections.
func (p *Party) Close() error {
	err := p.Peer.Close()
	if tiErr := p.TI.Close(); err == nil {
		err = tiErr
	}
	return err
}

// Pipe creates two parties and a trusted initializer connected with
// in-memory pipes. The configuration's asymmetric bit is overridden
// for each party.
func Pipe(config *env.Config) ([2]*Party, *ti.Server) {
	m0, m1 := p2p.MuxPipe()
	s0, c0 := p2p.Pipe()
	s1, c1 := p2p.Pipe()

	config0 := *config
	config0.AsymmetricBit = 0
	p0 := New(&config0, m0, c0)

	config1 := *config
	config1.AsymmetricBit = 1
	p1 := New(&config1, m1, c1)

	server := ti.NewServer(ti.NewGenerator(config), [2]*p2p.Conn{s0, s1})

	return [2]*Party{p0, p1}, server
}

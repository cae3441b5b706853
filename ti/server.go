//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package ti

import (
	"bytes"
	"sync"

	"github.com/markkurossi/beaver/p2p"
	"github.com/markkurossi/beaver/triple"
	"github.com/rs/xid"
	"github.com/rs/zerolog/log"
	"golang.org/x/xerrors"
)

// Token is the confirmation token a party sends to request the
// triples of the next round. The trusted initializer echoes it back
// before sending the round's bundle.
var Token = []byte("TRIPLES_REQ")

// Server distributes triple bundles to the two parties. Close must
// not be called while Serve or ServeRound is running.
type Server struct {
	gen   *Generator
	conns [2]*p2p.Conn
}

// NewServer creates a server for the party connections. The
// connection conns[i] belongs to the party with role i.
func NewServer(gen *Generator, conns [2]*p2p.Conn) *Server {
	return &Server{
		gen:   gen,
		conns: conns,
	}
}

// Listen accepts one connection from each party at the listen
// addresses addrs[0] and addrs[1], and creates a server for them.
func Listen(gen *Generator, addrs []string) (*Server, error) {
	if len(addrs) != 2 {
		return nil, xerrors.Errorf("expected 2 listen addresses, got %d",
			len(addrs))
	}
	var conns [2]*p2p.Conn
	var errs [2]error

	var wg sync.WaitGroup
	for i := range addrs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			conns[i], errs[i] = p2p.AcceptOne(addrs[i])
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			for _, conn := range conns {
				if conn != nil {
					conn.Close()
				}
			}
			return nil, xerrors.Errorf("party %d: %w", i, err)
		}
	}
	return NewServer(gen, conns), nil
}

// Close closes the party connections.
func (s *Server) Close() error {
	var firstErr error
	for _, conn := range s.conns {
		if err := conn.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Serve generates and distributes the triples of rounds training
// rounds.
func (s *Server) Serve(rounds int) error {
	for round := 0; round < rounds; round++ {
		if err := s.ServeRound(); err != nil {
			return xerrors.Errorf("round %d: %w", round, err)
		}
	}
	return nil
}

// ServeRound generates the triples of one round and ships them to
// both parties.
func (s *Server) ServeRound() error {
	b0, b1, err := s.gen.Generate()
	if err != nil {
		return err
	}
	id := xid.New().String()
	log.Info().Str("round", id).Msgf("generated %v", b0)

	bundles := [2]*triple.Bundle{b0, b1}
	var errs [2]error

	var wg sync.WaitGroup
	for i := range s.conns {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = ship(s.conns[i], id, bundles[i])
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			return xerrors.Errorf("party %d: %w", i, err)
		}
	}
	return nil
}

func ship(conn *p2p.Conn, id string, bundle *triple.Bundle) error {
	token, err := conn.ReceiveBytes(len(Token))
	if err != nil {
		return xerrors.Errorf("receive token: %w", err)
	}
	if !bytes.Equal(token, Token) {
		return xerrors.Errorf("invalid token %q", token)
	}
	if err := conn.SendBytes(token); err != nil {
		return err
	}
	if err := conn.SendString(id); err != nil {
		return err
	}
	if err := conn.SendString(bundle.Encode()); err != nil {
		return err
	}
	return conn.Flush()
}

// Fetch requests the triples of the next round from the trusted
// initializer. It returns the party's bundle and the round ID.
func Fetch(conn *p2p.Conn) (*triple.Bundle, string, error) {
	if err := conn.SendBytes(Token); err != nil {
		return nil, "", err
	}
	if err := conn.Flush(); err != nil {
		return nil, "", err
	}
	echo, err := conn.ReceiveBytes(len(Token))
	if err != nil {
		return nil, "", xerrors.Errorf("receive token: %w", err)
	}
	if !bytes.Equal(echo, Token) {
		return nil, "", xerrors.Errorf("invalid token echo %q", echo)
	}
	id, err := conn.ReceiveString()
	if err != nil {
		return nil, "", xerrors.Errorf("receive round: %w", err)
	}
	data, err := conn.ReceiveString()
	if err != nil {
		return nil, "", xerrors.Errorf("receive bundle: %w", err)
	}
	bundle, err := triple.Decode(data)
	if err != nil {
		return nil, "", xerrors.Errorf("round %s: %w", id, err)
	}
	log.Debug().Str("round", id).Msgf("received %v", bundle)

	return bundle, id, nil
}

//
// iotest.go
//
// Copyright (c) 2023-2026 Markku Rossi
//
// All rights reserved.
//

package main

import (
	"time"

	"github.com/markkurossi/beaver/p2p"
	"github.com/markkurossi/beaver/timing"
	"github.com/rs/zerolog/log"
	"golang.org/x/xerrors"
)

func testIO(addr string, listen bool, size int64, frame int) error {
	if frame <= 0 {
		return xerrors.Errorf("invalid frame size %d", frame)
	}
	var conn *p2p.Conn
	var role int
	var err error

	if listen {
		conn, err = p2p.AcceptOne(addr)
	} else {
		conn, err = p2p.Dial(addr)
		role = 1
	}
	if err != nil {
		return err
	}
	mux := p2p.NewMux(conn, role)
	defer mux.Close()

	data := make([]byte, frame)
	start := time.Now()

	var sent int64
	for sent < size {
		tag := p2p.Tag{
			Round: mux.NextRound(),
		}
		peer, err := mux.Exchange(tag, data)
		if err != nil {
			return err
		}
		if len(peer) != len(data) {
			return xerrors.Errorf("exchange %v: peer sent %d bytes, "+
				"expected %d", tag, len(peer), len(data))
		}
		sent += int64(len(data))
	}
	elapsed := time.Since(start)

	stats := mux.Stats()
	log.Info().
		Str("sent", timing.FileSize(stats.Sent.Load()).String()).
		Str("rcvd", timing.FileSize(stats.Recvd.Load()).String()).
		Dur("elapsed", elapsed).
		Float64("MB/s", float64(stats.Sum())/elapsed.Seconds()/1e6).
		Msg("exchange done")
	return nil
}

//
// Copyright (c) 2020-2026 Markku Rossi
//
// All rights reserved.
//

package p2p

import (
	"net"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/xerrors"
)

// RetryDelay specifies the delay between connection attempts in Dial.
var RetryDelay = 5 * time.Second

// Dial connects to addr. Failed connection attempts are retried until
// the connection succeeds.
func Dial(addr string) (*Conn, error) {
	for {
		log.Debug().Msgf("connecting to %s...", addr)
		nc, err := net.Dial("tcp", addr)
		if err != nil {
			log.Info().Msgf("connect to %s failed, retrying in %s: %s",
				addr, RetryDelay, err)
			<-time.After(RetryDelay)
			continue
		}
		if err := configure(nc); err != nil {
			nc.Close()
			return nil, err
		}
		log.Info().Msgf("connected to %s", addr)
		return NewConn(nc), nil
	}
}

// AcceptOne listens at addr, accepts one connection, and closes the
// listener.
func AcceptOne(addr string) (*Conn, error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, xerrors.Errorf("listen %s: %w", addr, err)
	}
	defer listener.Close()

	log.Info().Msgf("listening for connection at %s", addr)
	return Accept(listener)
}

// Accept accepts one connection from listener.
func Accept(listener net.Listener) (*Conn, error) {
	nc, err := listener.Accept()
	if err != nil {
		return nil, xerrors.Errorf("accept %s: %w", listener.Addr(), err)
	}
	if err := configure(nc); err != nil {
		nc.Close()
		return nil, err
	}
	log.Info().Msgf("new connection from %s", nc.RemoteAddr())
	return NewConn(nc), nil
}

// configure sets the connection options. The connections have no
// deadlines; liveness is left to the protocol.
func configure(nc net.Conn) error {
	tcp, ok := nc.(*net.TCPConn)
	if !ok {
		return nil
	}
	if err := tcp.SetKeepAlive(false); err != nil {
		return xerrors.Errorf("set keep-alive: %w", err)
	}
	if err := tcp.SetNoDelay(true); err != nil {
		return xerrors.Errorf("set no-delay: %w", err)
	}
	return tcp.SetDeadline(time.Time{})
}

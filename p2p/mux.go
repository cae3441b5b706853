//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package p2p

import (
	"fmt"
	"sync"
	"sync/atomic"

	"golang.org/x/xerrors"
)

// Tag identifies one exchange frame. Round identifies the protocol
// call and Window the batch window within the call.
type Tag struct {
	Round  uint32
	Window uint32
}

func (t Tag) String() string {
	return fmt.Sprintf("%d/%d", t.Round, t.Window)
}

// Mux implements tagged exchanges between the two parties over one
// connection. Each frame is sent as:
//
//	round  uint32
//	window uint32
//	length uint32
//	data   [length]byte
//
// A reader goroutine routes incoming frames to the exchange waiting
// for the frame's tag, so batch windows of one protocol call can be
// exchanged concurrently from multiple workers.
//
// Both parties must issue the same sequence of protocol calls: round
// numbers are allocated locally with NextRound and they match only
// if the calls are issued in the same order.
type Mux struct {
	conn  *Conn
	role  int
	round atomic.Uint32

	wm sync.Mutex

	m       sync.Mutex
	pending map[Tag]chan []byte
	err     error
	done    chan struct{}
}

// NewMux creates a new multiplexer for the connection. The role
// specifies the I/O ordering: the party with role 1 writes its frame
// before reading the peer's frame, and the party with role 0 reads
// before writing.
func NewMux(conn *Conn, role int) *Mux {
	mux := &Mux{
		conn:    conn,
		role:    role,
		pending: make(map[Tag]chan []byte),
		done:    make(chan struct{}),
	}
	go mux.reader()
	return mux
}

// Role returns the role of this end of the multiplexer.
func (mux *Mux) Role() int {
	return mux.role
}

// Stats returns the I/O statistics of the underlying connection.
func (mux *Mux) Stats() IOStats {
	return mux.conn.Stats
}

// NextRound allocates a new round number for a protocol call.
func (mux *Mux) NextRound() uint32 {
	return mux.round.Add(1)
}

// Close closes the underlying connection.
func (mux *Mux) Close() error {
	mux.wm.Lock()
	defer mux.wm.Unlock()
	return mux.conn.Close()
}

// Exchange sends data with tag to the peer and returns the peer's
// data with the same tag.
func (mux *Mux) Exchange(tag Tag, data []byte) ([]byte, error) {
	if mux.role == 1 {
		if err := mux.Send(tag, data); err != nil {
			return nil, err
		}
		return mux.Receive(tag)
	}
	result, err := mux.Receive(tag)
	if err != nil {
		return nil, err
	}
	if err := mux.Send(tag, data); err != nil {
		return nil, err
	}
	return result, nil
}

// Send sends data with tag to the peer.
func (mux *Mux) Send(tag Tag, data []byte) error {
	mux.wm.Lock()
	defer mux.wm.Unlock()

	if err := mux.conn.SendUint32(int(tag.Round)); err != nil {
		return xerrors.Errorf("send %v: %w", tag, err)
	}
	if err := mux.conn.SendUint32(int(tag.Window)); err != nil {
		return xerrors.Errorf("send %v: %w", tag, err)
	}
	if err := mux.conn.SendData(data); err != nil {
		return xerrors.Errorf("send %v: %w", tag, err)
	}
	if err := mux.conn.Flush(); err != nil {
		return xerrors.Errorf("send %v: %w", tag, err)
	}
	return nil
}

// Receive receives the peer's data with tag.
func (mux *Mux) Receive(tag Tag) ([]byte, error) {
	ch := mux.slot(tag)

	select {
	case data := <-ch:
		mux.release(tag)
		return data, nil
	case <-mux.done:
	}
	// The frame may have been routed before the reader failed.
	select {
	case data := <-ch:
		mux.release(tag)
		return data, nil
	default:
		return nil, xerrors.Errorf("receive %v: %w", tag, mux.err)
	}
}

func (mux *Mux) slot(tag Tag) chan []byte {
	mux.m.Lock()
	defer mux.m.Unlock()

	ch, ok := mux.pending[tag]
	if !ok {
		ch = make(chan []byte, 1)
		mux.pending[tag] = ch
	}
	return ch
}

func (mux *Mux) release(tag Tag) {
	mux.m.Lock()
	delete(mux.pending, tag)
	mux.m.Unlock()
}

func (mux *Mux) reader() {
	err := mux.readLoop()

	mux.m.Lock()
	mux.err = err
	mux.m.Unlock()
	close(mux.done)
}

func (mux *Mux) readLoop() error {
	for {
		round, err := mux.conn.ReceiveUint32()
		if err != nil {
			return err
		}
		window, err := mux.conn.ReceiveUint32()
		if err != nil {
			return err
		}
		data, err := mux.conn.ReceiveData()
		if err != nil {
			return err
		}
		tag := Tag{
			Round:  uint32(round),
			Window: uint32(window),
		}
		ch := mux.slot(tag)
		select {
		case ch <- data:
		default:
			return xerrors.Errorf("duplicate frame %v", tag)
		}
	}
}

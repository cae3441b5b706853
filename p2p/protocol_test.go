//
// protocol_test.go
//
// Copyright (c) 2023-2026 Markku Rossi
//
// All rights reserved.
//

package p2p

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type raw []byte

var tests = []interface{}{
	byte(42),
	uint16(43),
	uint32(44),
	"Hello, world!",
	raw("TRIPLES_REQ"),
	make([]byte, 1024),
	make([]byte, 2*1024*1024),
	raw(make([]byte, 200*1024)),
}

func writer(t *testing.T, c *Conn) {
	for _, test := range tests {
		var err error
		switch d := test.(type) {
		case byte:
			err = c.SendByte(d)
		case uint16:
			err = c.SendUint16(int(d))
		case uint32:
			err = c.SendUint32(int(d))
		case string:
			err = c.SendString(d)
		case raw:
			err = c.SendBytes(d)
		case []byte:
			err = c.SendData(d)
		}
		if err != nil {
			t.Errorf("send %T: %v", test, err)
		}
	}
	if err := c.Flush(); err != nil {
		t.Errorf("Flush: %v", err)
	}
}

func TestProtocol(t *testing.T) {
	cw, c := Pipe()

	go writer(t, cw)

	for _, test := range tests {
		switch d := test.(type) {
		case byte:
			v, err := c.ReceiveByte()
			require.NoError(t, err)
			require.Equal(t, d, v)

		case uint16:
			v, err := c.ReceiveUint16()
			require.NoError(t, err)
			require.Equal(t, int(d), v)

		case uint32:
			v, err := c.ReceiveUint32()
			require.NoError(t, err)
			require.Equal(t, int(d), v)

		case string:
			v, err := c.ReceiveString()
			require.NoError(t, err)
			require.Equal(t, d, v)

		case raw:
			v, err := c.ReceiveBytes(len(d))
			require.NoError(t, err)
			require.Equal(t, []byte(d), v)

		case []byte:
			v, err := c.ReceiveData()
			require.NoError(t, err)
			require.Len(t, v, len(d))
		}
	}
	require.NoError(t, c.Close())
	require.Equal(t, cw.Stats.Sent.Load(), c.Stats.Recvd.Load())
}

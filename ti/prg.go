//
// Copyright (c) 2025-2026 Markku Rossi
//
// All rights reserved.
//

package ti

import (
	"encoding/binary"
	"io"

	"golang.org/x/crypto/chacha20"
)

// prg expands a 256-bit seed into a ChaCha20 keystream. Each
// generator worker owns one prg, so it is not safe for concurrent
// use.
type prg struct {
	cipher *chacha20.Cipher
	buf    [8]byte
}

func newPRG(seed io.Reader) (*prg, error) {
	var key [chacha20.KeySize]byte
	if _, err := io.ReadFull(seed, key[:]); err != nil {
		return nil, err
	}
	var nonce [chacha20.NonceSize]byte
	c, err := chacha20.NewUnauthenticatedCipher(key[:], nonce[:])
	if err != nil {
		return nil, err
	}
	return &prg{
		cipher: c,
	}, nil
}

// Read fills data with keystream bytes.
func (p *prg) Read(data []byte) (int, error) {
	clear(data)
	p.cipher.XORKeyStream(data, data)
	return len(data), nil
}

func (p *prg) Uint64() uint64 {
	p.Read(p.buf[:])
	return binary.LittleEndian.Uint64(p.buf[:])
}

func (p *prg) Bit() byte {
	p.Read(p.buf[:1])
	return p.buf[0] & 1
}

//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package beaver

import (
	"encoding/binary"
	"math/big"
	"strings"

	"github.com/markkurossi/beaver/field"
	"github.com/markkurossi/beaver/p2p"
	"github.com/markkurossi/beaver/triple"
	"golang.org/x/xerrors"
)

var bo = binary.LittleEndian

// MulRing multiplies the ring shares x and y elementwise.
func (e *Engine) MulRing(x, y []uint64) ([]uint64, error) {
	if err := checkLengths(len(x), len(y)); err != nil {
		return nil, err
	}
	n := len(x)
	if n == 0 {
		return []uint64{}, nil
	}
	triples, err := e.store.Ring().Take(n)
	if err != nil {
		return nil, err
	}
	round := e.ch.NextRound()
	e.debug("MulRing", n, round)

	return Parallel(e, n, func(w, from, to int) ([]uint64, error) {
		tag := p2p.Tag{
			Round:  round,
			Window: uint32(w),
		}
		return e.mulRing(tag, x[from:to], y[from:to], triples[from:to])
	})
}

func (e *Engine) mulRing(tag p2p.Tag, x, y []uint64, triples []triple.Ring) (
	[]uint64, error) {

	// The window is sent as interleaved (d_i, e_i) words.
	buf := make([]byte, len(x)*16)
	for i, t := range triples {
		bo.PutUint64(buf[i*16:], x[i]-t.U)
		bo.PutUint64(buf[i*16+8:], y[i]-t.V)
	}
	peer, err := e.ch.Exchange(tag, buf)
	if err != nil {
		return nil, err
	}
	if err := checkPeer(tag, len(peer), len(buf)); err != nil {
		return nil, err
	}

	role := e.Role()
	z := make([]uint64, len(x))
	for i, t := range triples {
		d := bo.Uint64(buf[i*16:]) + bo.Uint64(peer[i*16:])
		eo := bo.Uint64(buf[i*16+8:]) + bo.Uint64(peer[i*16+8:])
		z[i] = t.W + d*t.V + t.U*eo + field.Public(d*eo, role)
	}
	return z, nil
}

// MulBinary multiplies (ANDs) the XOR shares x and y elementwise. The
// shares hold one bit per byte.
func (e *Engine) MulBinary(x, y []byte) ([]byte, error) {
	if err := checkLengths(len(x), len(y)); err != nil {
		return nil, err
	}
	n := len(x)
	if n == 0 {
		return []byte{}, nil
	}
	triples, err := e.store.Binary().Take(n)
	if err != nil {
		return nil, err
	}
	round := e.ch.NextRound()
	e.debug("MulBinary", n, round)

	return Parallel(e, n, func(w, from, to int) ([]byte, error) {
		tag := p2p.Tag{
			Round:  round,
			Window: uint32(w),
		}
		return e.mulBinary(tag, x[from:to], y[from:to], triples[from:to])
	})
}

func (e *Engine) mulBinary(tag p2p.Tag, x, y []byte, triples []triple.Binary) (
	[]byte, error) {

	buf := make([]byte, len(x)*2)
	for i, t := range triples {
		buf[i*2] = field.Xor(x[i], t.U)
		buf[i*2+1] = field.Xor(y[i], t.V)
	}
	peer, err := e.ch.Exchange(tag, buf)
	if err != nil {
		return nil, err
	}
	if err := checkPeer(tag, len(peer), len(buf)); err != nil {
		return nil, err
	}

	role := byte(e.Role())
	z := make([]byte, len(x))
	for i, t := range triples {
		d := field.Xor(buf[i*2], peer[i*2])
		eo := field.Xor(buf[i*2+1], peer[i*2+1])
		z[i] = t.W ^ field.And(d, t.V) ^ field.And(t.U, eo) ^
			field.And(role, field.And(d, eo))
	}
	return z, nil
}

// MulBigInt multiplies the prime field shares x and y elementwise.
func (e *Engine) MulBigInt(x, y []*big.Int) ([]*big.Int, error) {
	if err := checkLengths(len(x), len(y)); err != nil {
		return nil, err
	}
	if e.params.Prime == nil {
		return nil, xerrors.Errorf("prime field not configured")
	}
	n := len(x)
	if n == 0 {
		return []*big.Int{}, nil
	}
	triples, err := e.store.BigInt().Take(n)
	if err != nil {
		return nil, err
	}
	round := e.ch.NextRound()
	e.debug("MulBigInt", n, round)

	return Parallel(e, n, func(w, from, to int) ([]*big.Int, error) {
		tag := p2p.Tag{
			Round:  round,
			Window: uint32(w),
		}
		return e.mulBigInt(tag, x[from:to], y[from:to], triples[from:to])
	})
}

func (e *Engine) mulBigInt(tag p2p.Tag, x, y []*big.Int,
	triples []triple.BigInt) ([]*big.Int, error) {

	f := e.params.Prime

	ds := make([]*big.Int, len(x))
	es := make([]*big.Int, len(x))
	for i, t := range triples {
		ds[i] = f.Sub(x[i], t.U)
		es[i] = f.Sub(y[i], t.V)
	}
	peer, err := e.ch.Exchange(tag, []byte(EncodePairs(ds, es)))
	if err != nil {
		return nil, err
	}
	pds, pes, err := DecodePairs(string(peer))
	if err != nil {
		return nil, xerrors.Errorf("round %v: %w", tag, err)
	}
	if len(pds) != len(x) {
		return nil, xerrors.Errorf("round %v: peer sent %d pairs, expected %d",
			tag, len(pds), len(x))
	}

	z := make([]*big.Int, len(x))
	for i, t := range triples {
		d := f.Add(ds[i], pds[i])
		eo := f.Add(es[i], pes[i])

		v := new(big.Int).Mul(d, t.V)
		v.Add(v, t.W)
		v.Add(v, new(big.Int).Mul(t.U, eo))
		if e.Role() == 1 {
			v.Add(v, new(big.Int).Mul(d, eo))
		}
		z[i] = f.Reduce(v)
	}
	return z, nil
}

// EncodePairs encodes the masked big integer pairs as a
// semicolon-separated list of (d,e) pairs of hex encoded
// little-endian byte arrays.
func EncodePairs(ds, es []*big.Int) string {
	var sb strings.Builder
	for i := range ds {
		if i > 0 {
			sb.WriteByte(';')
		}
		sb.WriteByte('(')
		sb.WriteString(field.EncodeHex(ds[i]))
		sb.WriteByte(',')
		sb.WriteString(field.EncodeHex(es[i]))
		sb.WriteByte(')')
	}
	return sb.String()
}

// DecodePairs decodes pairs encoded with EncodePairs.
func DecodePairs(data string) (ds, es []*big.Int, err error) {
	if len(data) == 0 {
		return nil, nil, nil
	}
	for idx, pair := range strings.Split(data, ";") {
		if len(pair) < 2 || pair[0] != '(' || pair[len(pair)-1] != ')' {
			return nil, nil, xerrors.Errorf("invalid pair %d: %q", idx, pair)
		}
		parts := strings.Split(pair[1:len(pair)-1], ",")
		if len(parts) != 2 {
			return nil, nil, xerrors.Errorf("invalid pair %d: %q", idx, pair)
		}
		d, err := field.DecodeHex(parts[0])
		if err != nil {
			return nil, nil, err
		}
		e, err := field.DecodeHex(parts[1])
		if err != nil {
			return nil, nil, err
		}
		ds = append(ds, d)
		es = append(es, e)
	}
	return ds, es, nil
}

//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package triple

import (
	"encoding/binary"
	"encoding/hex"
	"math/big"
	"strings"

	"github.com/markkurossi/beaver/field"
	"golang.org/x/xerrors"
)

// The distribution format of a bundle is one newline-terminated line
// of four semicolon-separated fields:
//
//	ring;binary;bigint;equality\n
//
// Ring triples are 24-byte little-endian (u,v,w) records and binary
// triples 3-byte (u,v,w) records, both hex encoded and separated by
// commas. Big integer triples are (u,v,w) groups of hex encoded
// little-endian byte arrays. Equality shares are hex encoded
// little-endian byte arrays separated by commas.

const (
	ringRecordSize   = 24
	binaryRecordSize = 3
)

// Encode encodes the bundle into its distribution format.
func (b *Bundle) Encode() string {
	var sb strings.Builder

	var rec [ringRecordSize]byte
	for i, t := range b.Ring {
		if i > 0 {
			sb.WriteByte(',')
		}
		binary.LittleEndian.PutUint64(rec[0:], t.U)
		binary.LittleEndian.PutUint64(rec[8:], t.V)
		binary.LittleEndian.PutUint64(rec[16:], t.W)
		sb.WriteString(hex.EncodeToString(rec[:]))
	}
	sb.WriteByte(';')

	for i, t := range b.Binary {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(hex.EncodeToString([]byte{t.U, t.V, t.W}))
	}
	sb.WriteByte(';')

	for _, t := range b.BigInt {
		sb.WriteByte('(')
		sb.WriteString(field.EncodeHex(t.U))
		sb.WriteByte(',')
		sb.WriteString(field.EncodeHex(t.V))
		sb.WriteByte(',')
		sb.WriteString(field.EncodeHex(t.W))
		sb.WriteByte(')')
	}
	sb.WriteByte(';')

	for i, t := range b.Equality {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(field.EncodeHex(t.R))
	}
	sb.WriteByte('\n')

	return sb.String()
}

// Decode decodes a bundle from its distribution format.
func Decode(data string) (*Bundle, error) {
	if !strings.HasSuffix(data, "\n") {
		return nil, xerrors.Errorf("bundle not newline-terminated")
	}
	fields := strings.Split(strings.TrimSuffix(data, "\n"), ";")
	if len(fields) != 4 {
		return nil, xerrors.Errorf("bundle has %d fields, expected 4",
			len(fields))
	}
	b := new(Bundle)

	for _, rec := range splitList(fields[0]) {
		data, err := decodeRecord(rec, ringRecordSize)
		if err != nil {
			return nil, xerrors.Errorf("ring triple %d: %w", len(b.Ring), err)
		}
		b.Ring = append(b.Ring, Ring{
			U: binary.LittleEndian.Uint64(data[0:]),
			V: binary.LittleEndian.Uint64(data[8:]),
			W: binary.LittleEndian.Uint64(data[16:]),
		})
	}

	for _, rec := range splitList(fields[1]) {
		data, err := decodeRecord(rec, binaryRecordSize)
		if err != nil {
			return nil, xerrors.Errorf("binary triple %d: %w",
				len(b.Binary), err)
		}
		for _, bit := range data {
			if bit > 1 {
				return nil, xerrors.Errorf("binary triple %d: invalid bit %d",
					len(b.Binary), bit)
			}
		}
		b.Binary = append(b.Binary, Binary{
			U: data[0],
			V: data[1],
			W: data[2],
		})
	}

	bigints, err := decodeBigInts(fields[2])
	if err != nil {
		return nil, err
	}
	b.BigInt = bigints

	for _, rec := range splitList(fields[3]) {
		r, err := field.DecodeHex(rec)
		if err != nil {
			return nil, xerrors.Errorf("equality share %d: %w",
				len(b.Equality), err)
		}
		b.Equality = append(b.Equality, Equality{
			R: r,
		})
	}

	return b, nil
}

func splitList(s string) []string {
	if len(s) == 0 {
		return nil
	}
	return strings.Split(s, ",")
}

func decodeRecord(rec string, size int) ([]byte, error) {
	data, err := hex.DecodeString(rec)
	if err != nil {
		return nil, err
	}
	if len(data) != size {
		return nil, xerrors.Errorf("record length %d, expected %d",
			len(data), size)
	}
	return data, nil
}

func decodeBigInts(s string) ([]BigInt, error) {
	var result []BigInt
	for len(s) > 0 {
		if s[0] != '(' {
			return nil, xerrors.Errorf("bigint triple %d: expected '('",
				len(result))
		}
		end := strings.IndexByte(s, ')')
		if end < 0 {
			return nil, xerrors.Errorf("bigint triple %d: unterminated",
				len(result))
		}
		parts := strings.Split(s[1:end], ",")
		if len(parts) != 3 {
			return nil, xerrors.Errorf("bigint triple %d: %d values",
				len(result), len(parts))
		}
		var vals [3]*big.Int
		for i, part := range parts {
			v, err := field.DecodeHex(part)
			if err != nil {
				return nil, xerrors.Errorf("bigint triple %d: %w",
					len(result), err)
			}
			vals[i] = v
		}
		result = append(result, BigInt{
			U: vals[0],
			V: vals[1],
			W: vals[2],
		})
		s = s[end+1:]
	}
	return result, nil
}

// Copyright (c) 2024 The Flokicoin developers
// Distributed under the MIT software license, see the accompanying
// file COPYING or http://www.opensource.org/licenses/mit-license.php.

package pb

import (
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"
)

type SearchRequest struct {
	Difficulty  uint64
	TargetZeros uint32
	MaxK        uint64
	MaxMatches  uint32
	Strategy    string
	Scheme      string
}

type Match struct {
	Index  uint64
	Root   string
	Nonce  string
	Digest string
	Zeros  uint32
}

type SearchReply struct {
	Matches   []*Match
	Checked   uint64
	Stop      string
	Saturated uint32
	Skipped   uint64
}

type VerifyRequest struct {
	Nonce          string
	CubeDifficulty uint64
	ZeroDifficulty uint32
	Scheme         string
}

type VerifyReply struct {
	Valid  bool
	Digest string
	Zeros  uint32
	Reason string
}

func appendVarint(b []byte, num protowire.Number, v uint64) []byte {
	if v == 0 {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, v)
}

func appendString(b []byte, num protowire.Number, s string) []byte {
	if s == "" {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendString(b, s)
}

func appendBool(b []byte, num protowire.Number, v bool) []byte {
	if !v {
		return b
	}
	return appendVarint(b, num, protowire.EncodeBool(v))
}

// fieldFunc decodes one field value and returns the bytes consumed, or
// zero when the field is unknown and must be skipped.
type fieldFunc func(num protowire.Number, typ protowire.Type, b []byte) (int, error)

func consumeFields(b []byte, fn fieldFunc) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return protowire.ParseError(n)
		}
		b = b[n:]

		m, err := fn(num, typ, b)
		if err != nil {
			return fmt.Errorf("field %d: %w", num, err)
		}
		if m == 0 {
			m = protowire.ConsumeFieldValue(num, typ, b)
			if m < 0 {
				return protowire.ParseError(m)
			}
		}
		b = b[m:]
	}
	return nil
}

func consumeVarint(typ protowire.Type, b []byte, dst *uint64) (int, error) {
	if typ != protowire.VarintType {
		return 0, fmt.Errorf("unexpected wire type %d", typ)
	}
	v, n := protowire.ConsumeVarint(b)
	if n < 0 {
		return 0, protowire.ParseError(n)
	}
	*dst = v
	return n, nil
}

func consumeUint32(typ protowire.Type, b []byte, dst *uint32) (int, error) {
	var v uint64
	n, err := consumeVarint(typ, b, &v)
	*dst = uint32(v)
	return n, err
}

func consumeString(typ protowire.Type, b []byte, dst *string) (int, error) {
	if typ != protowire.BytesType {
		return 0, fmt.Errorf("unexpected wire type %d", typ)
	}
	v, n := protowire.ConsumeString(b)
	if n < 0 {
		return 0, protowire.ParseError(n)
	}
	*dst = v
	return n, nil
}

func (m *SearchRequest) Marshal() ([]byte, error) {
	var b []byte
	b = appendVarint(b, 1, m.Difficulty)
	b = appendVarint(b, 2, uint64(m.TargetZeros))
	b = appendVarint(b, 3, m.MaxK)
	b = appendVarint(b, 4, uint64(m.MaxMatches))
	b = appendString(b, 5, m.Strategy)
	b = appendString(b, 6, m.Scheme)
	return b, nil
}

func (m *SearchRequest) Unmarshal(b []byte) error {
	*m = SearchRequest{}
	return consumeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case 1:
			return consumeVarint(typ, b, &m.Difficulty)
		case 2:
			return consumeUint32(typ, b, &m.TargetZeros)
		case 3:
			return consumeVarint(typ, b, &m.MaxK)
		case 4:
			return consumeUint32(typ, b, &m.MaxMatches)
		case 5:
			return consumeString(typ, b, &m.Strategy)
		case 6:
			return consumeString(typ, b, &m.Scheme)
		}
		return 0, nil
	})
}

func (m *Match) Marshal() ([]byte, error) {
	var b []byte
	b = appendVarint(b, 1, m.Index)
	b = appendString(b, 2, m.Root)
	b = appendString(b, 3, m.Nonce)
	b = appendString(b, 4, m.Digest)
	b = appendVarint(b, 5, uint64(m.Zeros))
	return b, nil
}

func (m *Match) Unmarshal(b []byte) error {
	*m = Match{}
	return consumeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case 1:
			return consumeVarint(typ, b, &m.Index)
		case 2:
			return consumeString(typ, b, &m.Root)
		case 3:
			return consumeString(typ, b, &m.Nonce)
		case 4:
			return consumeString(typ, b, &m.Digest)
		case 5:
			return consumeUint32(typ, b, &m.Zeros)
		}
		return 0, nil
	})
}

func (m *SearchReply) Marshal() ([]byte, error) {
	var b []byte
	for _, match := range m.Matches {
		inner, err := match.Marshal()
		if err != nil {
			return nil, err
		}
		b = protowire.AppendTag(b, 1, protowire.BytesType)
		b = protowire.AppendBytes(b, inner)
	}
	b = appendVarint(b, 2, m.Checked)
	b = appendString(b, 3, m.Stop)
	b = appendVarint(b, 4, uint64(m.Saturated))
	b = appendVarint(b, 5, m.Skipped)
	return b, nil
}

func (m *SearchReply) Unmarshal(b []byte) error {
	*m = SearchReply{}
	return consumeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case 1:
			if typ != protowire.BytesType {
				return 0, fmt.Errorf("unexpected wire type %d", typ)
			}
			inner, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return 0, protowire.ParseError(n)
			}
			match := new(Match)
			if err := match.Unmarshal(inner); err != nil {
				return 0, err
			}
			m.Matches = append(m.Matches, match)
			return n, nil
		case 2:
			return consumeVarint(typ, b, &m.Checked)
		case 3:
			return consumeString(typ, b, &m.Stop)
		case 4:
			return consumeUint32(typ, b, &m.Saturated)
		case 5:
			return consumeVarint(typ, b, &m.Skipped)
		}
		return 0, nil
	})
}

func (m *VerifyRequest) Marshal() ([]byte, error) {
	var b []byte
	b = appendString(b, 1, m.Nonce)
	b = appendVarint(b, 2, m.CubeDifficulty)
	b = appendVarint(b, 3, uint64(m.ZeroDifficulty))
	b = appendString(b, 4, m.Scheme)
	return b, nil
}

func (m *VerifyRequest) Unmarshal(b []byte) error {
	*m = VerifyRequest{}
	return consumeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case 1:
			return consumeString(typ, b, &m.Nonce)
		case 2:
			return consumeVarint(typ, b, &m.CubeDifficulty)
		case 3:
			return consumeUint32(typ, b, &m.ZeroDifficulty)
		case 4:
			return consumeString(typ, b, &m.Scheme)
		}
		return 0, nil
	})
}

func (m *VerifyReply) Marshal() ([]byte, error) {
	var b []byte
	b = appendBool(b, 1, m.Valid)
	b = appendString(b, 2, m.Digest)
	b = appendVarint(b, 3, uint64(m.Zeros))
	b = appendString(b, 4, m.Reason)
	return b, nil
}

func (m *VerifyReply) Unmarshal(b []byte) error {
	*m = VerifyReply{}
	return consumeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case 1:
			var v uint64
			n, err := consumeVarint(typ, b, &v)
			m.Valid = protowire.DecodeBool(v)
			return n, err
		case 2:
			return consumeString(typ, b, &m.Digest)
		case 3:
			return consumeUint32(typ, b, &m.Zeros)
		case 4:
			return consumeString(typ, b, &m.Reason)
		}
		return 0, nil
	})
}

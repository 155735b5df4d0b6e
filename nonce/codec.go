// Copyright (c) 2024 The Flokicoin developers
// Distributed under the MIT software license, see the accompanying
// file COPYING or http://www.opensource.org/licenses/mit-license.php.

package nonce

import (
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/flokiorg/cube-miner/hash/sha256"
)

const (
	// Prefix is prepended to the offset nonce by the prefixed and fixed
	// encodings.
	Prefix = "HAHA"

	// PrefixWord is Prefix loaded as one message word.
	PrefixWord uint32 = 0x48414841

	// Offset is added to the nonce before the prefixed and fixed encodings.
	Offset = 2040

	// FixedWidth is the nonce width of the fixed encoding, in bytes.
	FixedWidth = 16
)

// ErrDomainOverflow is returned when a nonce does not fit a fixed-width
// encoding.
var ErrDomainOverflow = errors.New("nonce outside encoding domain")

var bigOffset = big.NewInt(Offset)

// Encoding selects the byte layout of the hash preimage.
type Encoding uint8

const (
	// Minimal is the fewest big-endian bytes of the nonce.
	Minimal Encoding = iota
	// Prefixed is "HAHA" || minimal(nonce + 2040).
	Prefixed
	// Fixed is "HAHA" || 16-byte big-endian (nonce + 2040).
	Fixed
)

func (e Encoding) String() string {
	switch e {
	case Minimal:
		return "minimal"
	case Prefixed:
		return "prefixed"
	case Fixed:
		return "fixed"
	}
	return fmt.Sprintf("encoding(%d)", uint8(e))
}

func ParseEncoding(input string) (Encoding, error) {
	switch strings.ToLower(input) {
	case "minimal":
		return Minimal, nil
	case "prefixed", "haha":
		return Prefixed, nil
	case "fixed", "fixed128":
		return Fixed, nil
	}
	return 0, fmt.Errorf("unsupported encoding %q", input)
}

// Mode selects single or double SHA-256.
type Mode uint8

const (
	Single Mode = iota
	Double
)

func (m Mode) String() string {
	if m == Double {
		return "double"
	}
	return "single"
}

func ParseMode(input string) (Mode, error) {
	switch strings.ToLower(input) {
	case "single", "sha256":
		return Single, nil
	case "double", "sha256d":
		return Double, nil
	}
	return 0, fmt.Errorf("unsupported hash mode %q", input)
}

// Scheme is the preimage encoding and hash mode used for a whole run.
type Scheme struct {
	Encoding Encoding
	Mode     Mode
}

// CanonicalScheme returns the encoding each mode uses unless overridden:
// single hashes the minimal nonce bytes, double hashes the prefixed form.
func CanonicalScheme(mode Mode) Scheme {
	if mode == Double {
		return Scheme{Encoding: Prefixed, Mode: Double}
	}
	return Scheme{Encoding: Minimal, Mode: Single}
}

func (s Scheme) String() string {
	return s.Mode.String() + "/" + s.Encoding.String()
}

// ParseScheme accepts "mode" or "mode/encoding".
func ParseScheme(input string) (Scheme, error) {
	modeStr, encStr, hasEnc := strings.Cut(input, "/")
	mode, err := ParseMode(modeStr)
	if err != nil {
		return Scheme{}, err
	}
	scheme := CanonicalScheme(mode)
	if hasEnc {
		if scheme.Encoding, err = ParseEncoding(encStr); err != nil {
			return Scheme{}, err
		}
	}
	return scheme, nil
}

// EncodeMinimal returns v as max(1, ceil(bitlen/8)) big-endian bytes.
func EncodeMinimal(v *big.Int) []byte {
	return AppendMinimal(nil, v)
}

// AppendMinimal appends the minimal big-endian form of v to dst.
func AppendMinimal(dst []byte, v *big.Int) []byte {
	n := (v.BitLen() + 7) / 8
	if n == 0 {
		return append(dst, 0)
	}
	start := len(dst)
	for i := 0; i < n; i++ {
		dst = append(dst, 0)
	}
	v.FillBytes(dst[start:])
	return dst
}

// DecodeMinimal reads a big-endian unsigned integer.
func DecodeMinimal(b []byte) *big.Int {
	return new(big.Int).SetBytes(b)
}

// EncodePrefixed returns "HAHA" || minimal(nonce + 2040).
func EncodePrefixed(nonce *big.Int) []byte {
	shifted := new(big.Int).Add(nonce, bigOffset)
	return AppendMinimal([]byte(Prefix), shifted)
}

// EncodeFixed returns "HAHA" || 16-byte big-endian (nonce + 2040).
func EncodeFixed(nonce *big.Int) ([]byte, error) {
	shifted, ok := FromBig(new(big.Int).Add(nonce, bigOffset))
	if !ok {
		return nil, ErrDomainOverflow
	}
	b := shifted.Bytes()
	return append([]byte(Prefix), b[:]...), nil
}

// FixedBlock lays out the fixed encoding of n as one padded SHA-256 message
// block: the prefix word, nonce+2040 as four big-endian words, the padding
// marker and the 160-bit message length.
func FixedBlock(n Uint128) ([16]uint32, bool) {
	var blk [16]uint32
	shifted, ok := n.Add64(Offset)
	if !ok {
		return blk, false
	}
	blk[0] = PrefixWord
	w := shifted.Words()
	copy(blk[1:5], w[:])
	blk[5] = 0x80000000
	blk[15] = uint32((len(Prefix) + FixedWidth) * 8)
	return blk, true
}

// Preimage returns the bytes hashed for nonce under the scheme.
func (s Scheme) Preimage(nonce *big.Int) ([]byte, error) {
	if nonce.Sign() < 0 {
		return nil, ErrDomainOverflow
	}
	switch s.Encoding {
	case Minimal:
		return EncodeMinimal(nonce), nil
	case Prefixed:
		return EncodePrefixed(nonce), nil
	case Fixed:
		return EncodeFixed(nonce)
	}
	return nil, fmt.Errorf("unsupported encoding %d", s.Encoding)
}

// Digest hashes the nonce preimage once or twice depending on the mode.
func (s Scheme) Digest(nonce *big.Int) ([sha256.Size]byte, error) {
	preimage, err := s.Preimage(nonce)
	if err != nil {
		return [sha256.Size]byte{}, err
	}
	return s.Hash(preimage), nil
}

// Hash applies the scheme's mode to an encoded preimage.
func (s Scheme) Hash(preimage []byte) [sha256.Size]byte {
	if s.Mode == Double {
		return sha256.DoubleSum256(preimage)
	}
	return sha256.Sum256(preimage)
}

// Block128 returns the single padded message block hashing n under the
// scheme, so that word-level kernels hash exactly the bytes Preimage
// produces. It reports false when n+2040 leaves the 128-bit domain.
func (s Scheme) Block128(n Uint128) ([16]uint32, bool) {
	switch s.Encoding {
	case Fixed:
		return FixedBlock(n)

	case Prefixed:
		shifted, ok := n.Add64(Offset)
		if !ok {
			return [16]uint32{}, false
		}
		var buf [len(Prefix) + FixedWidth]byte
		copy(buf[:], Prefix)
		m := appendMinimal128(buf[:len(Prefix)], shifted)
		return sha256.PadBlock(m)

	default:
		var buf [FixedWidth]byte
		return sha256.PadBlock(appendMinimal128(buf[:0], n))
	}
}

func appendMinimal128(dst []byte, u Uint128) []byte {
	b := u.Bytes()
	n := (u.BitLen() + 7) / 8
	if n == 0 {
		n = 1
	}
	return append(dst, b[FixedWidth-n:]...)
}

// EncodingOffset is the value added to a nonce before it is encoded.
func (s Scheme) EncodingOffset() uint64 {
	if s.Encoding == Minimal {
		return 0
	}
	return Offset
}

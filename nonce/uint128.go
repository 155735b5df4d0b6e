// Copyright (c) 2024 The Flokicoin developers
// Distributed under the MIT software license, see the accompanying
// file COPYING or http://www.opensource.org/licenses/mit-license.php.

package nonce

import (
	"math/big"
	"math/bits"
)

// Uint128 is the fixed-width nonce representation of the GPU path.
type Uint128 struct {
	Hi uint64
	Lo uint64
}

// Mul64 returns the full 128-bit product a*b, assembled from 32-bit partial
// products with explicit carries the way the device kernel computes it.
func Mul64(a, b uint64) Uint128 {
	aLo, aHi := a&0xffffffff, a>>32
	bLo, bHi := b&0xffffffff, b>>32

	lo := aLo * bLo
	mid1 := aHi * bLo
	mid2 := aLo * bHi
	hi := aHi*bHi + (mid1 >> 32) + (mid2 >> 32)

	mLo := (mid1 & 0xffffffff) + (mid2 & 0xffffffff) + (lo >> 32)
	return Uint128{
		Hi: hi + (mLo >> 32),
		Lo: (mLo << 32) | (lo & 0xffffffff),
	}
}

// MulUint64 returns u*b, reporting false if the product needs more than
// 128 bits.
func (u Uint128) MulUint64(b uint64) (Uint128, bool) {
	res := Mul64(u.Lo, b)
	carry, top := bits.Mul64(u.Hi, b)
	if carry != 0 {
		return Uint128{}, false
	}
	hi, c := bits.Add64(res.Hi, top, 0)
	if c != 0 {
		return Uint128{}, false
	}
	res.Hi = hi
	return res, true
}

// Add64 returns u+v, reporting false on a 128-bit overflow.
func (u Uint128) Add64(v uint64) (Uint128, bool) {
	lo, c := bits.Add64(u.Lo, v, 0)
	hi, c := bits.Add64(u.Hi, 0, c)
	if c != 0 {
		return Uint128{}, false
	}
	return Uint128{Hi: hi, Lo: lo}, true
}

// Cube128 returns (k*d)^3 when it fits 128 bits. Candidates past the domain
// are reported, never wrapped.
func Cube128(k, d uint64) (Uint128, bool) {
	rootHi, root := bits.Mul64(k, d)
	if rootHi != 0 {
		return Uint128{}, false
	}
	sq := Mul64(root, root)
	return sq.MulUint64(root)
}

// BitLen returns the minimal number of bits needed to represent u.
func (u Uint128) BitLen() int {
	if u.Hi != 0 {
		return 64 + bits.Len64(u.Hi)
	}
	return bits.Len64(u.Lo)
}

// Words splits u into four big-endian 32-bit words.
func (u Uint128) Words() [4]uint32 {
	return [4]uint32{
		uint32(u.Hi >> 32), uint32(u.Hi),
		uint32(u.Lo >> 32), uint32(u.Lo),
	}
}

// Bytes returns the 16-byte big-endian form of u.
func (u Uint128) Bytes() [16]byte {
	var b [16]byte
	for i := 0; i < 8; i++ {
		b[7-i] = byte(u.Hi >> (8 * i))
		b[15-i] = byte(u.Lo >> (8 * i))
	}
	return b
}

func (u Uint128) Big() *big.Int {
	n := new(big.Int).SetUint64(u.Hi)
	n.Lsh(n, 64)
	return n.Or(n, new(big.Int).SetUint64(u.Lo))
}

// FromBig converts n, reporting false when n is negative or wider than 128
// bits.
func FromBig(n *big.Int) (Uint128, bool) {
	if n.Sign() < 0 || n.BitLen() > 128 {
		return Uint128{}, false
	}
	var buf [16]byte
	n.FillBytes(buf[:])
	var u Uint128
	for i := 0; i < 8; i++ {
		u.Hi = u.Hi<<8 | uint64(buf[i])
		u.Lo = u.Lo<<8 | uint64(buf[8+i])
	}
	return u, true
}

// MaxIndex128 returns the largest k with (k*d)^3 + offset < 2^128, or 0 when
// no positive index qualifies.
func MaxIndex128(d, offset uint64) uint64 {
	if d == 0 {
		return 0
	}
	limit := new(big.Int).Lsh(bigOne, 128)
	limit.Sub(limit, bigOne)
	limit.Sub(limit, new(big.Int).SetUint64(offset))
	root := FloorCubeRoot(limit)
	return root.Quo(root, new(big.Int).SetUint64(d)).Uint64()
}

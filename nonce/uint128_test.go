// Copyright (c) 2024 The Flokicoin developers
// Distributed under the MIT software license, see the accompanying
// file COPYING or http://www.opensource.org/licenses/mit-license.php.

package nonce

import (
	"math"
	"math/big"
	"math/rand"
	"testing"
)

func TestMul64(t *testing.T) {
	r := rand.New(rand.NewSource(3))
	pairs := [][2]uint64{{0, 0}, {1, math.MaxUint64}, {math.MaxUint64, math.MaxUint64}, {0xffffffff, 0xffffffff}}
	for i := 0; i < 1000; i++ {
		pairs = append(pairs, [2]uint64{r.Uint64(), r.Uint64()})
	}

	for _, p := range pairs {
		want := new(big.Int).Mul(new(big.Int).SetUint64(p[0]), new(big.Int).SetUint64(p[1]))
		if got := Mul64(p[0], p[1]).Big(); got.Cmp(want) != 0 {
			t.Fatalf("Mul64(%d, %d) = %s want %s", p[0], p[1], got, want)
		}
	}
}

func TestCube128Boundary(t *testing.T) {
	max128 := new(big.Int).Sub(new(big.Int).Lsh(bigOne, 128), bigOne)
	limit := FloorCubeRoot(max128).Uint64()

	n, ok := Cube128(limit, 1)
	if !ok {
		t.Fatalf("root %d should fit 128 bits", limit)
	}
	if n.Big().Cmp(Cube(new(big.Int).SetUint64(limit))) != 0 {
		t.Fatalf("Cube128(%d) = %s", limit, n.Big())
	}

	if _, ok := Cube128(limit+1, 1); ok {
		t.Fatalf("root %d must overflow", limit+1)
	}
	if _, ok := Cube128(math.MaxUint64, 2); ok {
		t.Fatal("root overflowing 64 bits must be rejected")
	}
}

func TestCube128MatchesBig(t *testing.T) {
	r := rand.New(rand.NewSource(4))
	for i := 0; i < 2000; i++ {
		k := uint64(r.Int63n(1 << 22))
		d := uint64(r.Int63n(1 << 20))
		c := Candidate{K: k, Difficulty: d}
		want := c.Nonce()

		got, ok := Cube128(k, d)
		if want.BitLen() > 128 {
			if ok {
				t.Fatalf("k=%d d=%d should overflow", k, d)
			}
			continue
		}
		if !ok || got.Big().Cmp(want) != 0 {
			t.Fatalf("k=%d d=%d got (%s, %v) want %s", k, d, got.Big(), ok, want)
		}
	}
}

func TestUint128Conversions(t *testing.T) {
	u := Uint128{Hi: 0x0102030405060708, Lo: 0x090a0b0c0d0e0f10}
	if w := u.Words(); w != [4]uint32{0x01020304, 0x05060708, 0x090a0b0c, 0x0d0e0f10} {
		t.Fatalf("unexpected words %x", w)
	}

	back, ok := FromBig(u.Big())
	if !ok || back != u {
		t.Fatalf("round trip failed: %+v", back)
	}
	if _, ok := FromBig(new(big.Int).Lsh(bigOne, 128)); ok {
		t.Fatal("2^128 accepted")
	}
	if b := u.Bytes(); b[0] != 0x01 || b[15] != 0x10 {
		t.Fatalf("unexpected bytes %x", b)
	}
	if (Uint128{}).BitLen() != 0 || (Uint128{Hi: 1}).BitLen() != 65 {
		t.Fatal("unexpected bit length")
	}

	if _, ok := (Uint128{Hi: math.MaxUint64, Lo: math.MaxUint64}).Add64(1); ok {
		t.Fatal("add overflow not reported")
	}
}

func TestMaxIndex128(t *testing.T) {
	for _, d := range []uint64{1, 2, 630, 1 << 20, 1 << 42} {
		for _, offset := range []uint64{0, Offset} {
			k := MaxIndex128(d, offset)
			n, ok := Cube128(k, d)
			if k > 0 {
				if !ok {
					t.Fatalf("d=%d: limit %d does not fit", d, k)
				}
				if _, ok := n.Add64(offset); !ok {
					t.Fatalf("d=%d offset=%d: limit %d overflows with offset", d, offset, k)
				}
			}
			n, ok = Cube128(k+1, d)
			if ok {
				if _, ok := n.Add64(offset); ok {
					t.Fatalf("d=%d offset=%d: %d is not the largest index", d, offset, k)
				}
			}
		}
	}
	if MaxIndex128(0, 0) != 0 || MaxIndex128(1<<50, 0) != 0 {
		t.Fatal("expected empty domain")
	}
}

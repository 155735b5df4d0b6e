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

func TestCubeRootRoundTrip(t *testing.T) {
	r := rand.New(rand.NewSource(1))

	roots := []*big.Int{big.NewInt(1), big.NewInt(2), big.NewInt(630), new(big.Int).SetUint64(math.MaxUint64)}
	for bitsLen := 1; bitsLen <= 128; bitsLen++ {
		roots = append(roots, new(big.Int).Rand(r, new(big.Int).Lsh(bigOne, uint(bitsLen))))
	}
	// 2^53 + 1: the first root a float estimate no longer resolves
	roots = append(roots, new(big.Int).Add(new(big.Int).Lsh(bigOne, 53), bigOne))

	for _, root := range roots {
		if root.Sign() == 0 {
			continue
		}
		n := Cube(root)
		ok, got := CubeRoot(n)
		if !ok || got.Cmp(root) != 0 {
			t.Fatalf("CubeRoot(%s^3) = (%v, %s)", root, ok, got)
		}

		if ok, _ := CubeRoot(new(big.Int).Add(n, bigOne)); ok {
			t.Fatalf("%s^3+1 reported as cube", root)
		}
		if root.Cmp(bigOne) > 0 {
			if ok, _ := CubeRoot(new(big.Int).Sub(n, bigOne)); ok {
				t.Fatalf("%s^3-1 reported as cube", root)
			}
		}
	}
}

func TestCandidateRootsUpTo2Pow100(t *testing.T) {
	r := rand.New(rand.NewSource(2))
	limit := new(big.Int).Lsh(bigOne, 50)
	for i := 0; i < 500; i++ {
		c := Candidate{
			K:          new(big.Int).Rand(r, limit).Uint64() + 1,
			Difficulty: new(big.Int).Rand(r, limit).Uint64() + 1,
		}
		ok, root := CubeRoot(c.Nonce())
		if !ok || root.Cmp(c.Root()) != 0 {
			t.Fatalf("k=%d d=%d: got (%v, %s) want %s", c.K, c.Difficulty, ok, root, c.Root())
		}
	}
}

func TestCubeRootEdges(t *testing.T) {
	tests := []struct {
		n    int64
		ok   bool
		root int64
	}{
		{0, true, 0},
		{1, true, 1},
		{2, false, 0},
		{7, false, 0},
		{8, true, 2},
		{9, false, 0},
		{26, false, 0},
		{27, true, 3},
		{-8, false, 0},
		{1000000, true, 100},
	}

	for _, test := range tests {
		ok, root := CubeRoot(big.NewInt(test.n))
		if ok != test.ok || root.Int64() != test.root {
			t.Fatalf("CubeRoot(%d) = (%v, %s), want (%v, %d)", test.n, ok, root, test.ok, test.root)
		}
	}
}

func TestFloorCubeRoot(t *testing.T) {
	for n := int64(0); n < 5000; n++ {
		got := FloorCubeRoot(big.NewInt(n)).Int64()
		if got*got*got > n || (got+1)*(got+1)*(got+1) <= n {
			t.Fatalf("FloorCubeRoot(%d) = %d", n, got)
		}
	}
}

func TestCandidate(t *testing.T) {
	c := Candidate{K: 3, Difficulty: 630}
	if c.Root().Int64() != 1890 {
		t.Fatalf("unexpected root %s", c.Root())
	}
	if c.Nonce().Int64() != 1890*1890*1890 {
		t.Fatalf("unexpected nonce %s", c.Nonce())
	}

	wide := Candidate{K: math.MaxUint64, Difficulty: math.MaxUint64}
	if wide.Root().BitLen() != 128 {
		t.Fatalf("root truncated: %s", wide.Root())
	}
}

// Copyright (c) 2024 The Flokicoin developers
// Distributed under the MIT software license, see the accompanying
// file COPYING or http://www.opensource.org/licenses/mit-license.php.

// Package nonce builds, encodes and verifies cube nonces: values of the form
// (k*difficulty)^3 whose digest alone is checked for leading zeros.
package nonce

import (
	"math/big"
)

var (
	bigOne   = big.NewInt(1)
	bigTwo   = big.NewInt(2)
	bigThree = big.NewInt(3)
)

// Candidate is the k-th cube nonce for a given cube difficulty.
type Candidate struct {
	K          uint64
	Difficulty uint64
}

// Root returns k*difficulty without truncation.
func (c Candidate) Root() *big.Int {
	root := new(big.Int).SetUint64(c.K)
	return root.Mul(root, new(big.Int).SetUint64(c.Difficulty))
}

// Nonce returns (k*difficulty)^3.
func (c Candidate) Nonce() *big.Int {
	return Cube(c.Root())
}

// Cube returns root^3 exactly.
func Cube(root *big.Int) *big.Int {
	n := new(big.Int).Mul(root, root)
	return n.Mul(n, root)
}

// FloorCubeRoot returns the largest r with r^3 <= n, for n >= 0.
// Integer Newton iteration started above the root descends monotonically
// onto the floor value.
func FloorCubeRoot(n *big.Int) *big.Int {
	if n.Sign() <= 0 {
		return new(big.Int)
	}

	// 2^ceil(bitlen/3) >= cbrt(n)
	x := new(big.Int).Lsh(bigOne, uint(n.BitLen()+2)/3)
	y := new(big.Int)
	sq := new(big.Int)
	for {
		// y = (2x + n/x^2) / 3
		sq.Mul(x, x)
		y.Quo(n, sq)
		y.Add(y, new(big.Int).Mul(x, bigTwo))
		y.Quo(y, bigThree)
		if y.Cmp(x) >= 0 {
			break
		}
		x.Set(y)
	}

	// settle any off-by-one left by the integer divisions
	for Cube(x).Cmp(n) > 0 {
		x.Sub(x, bigOne)
	}
	for {
		next := new(big.Int).Add(x, bigOne)
		if Cube(next).Cmp(n) > 0 {
			break
		}
		x = next
	}
	return x
}

// CubeRoot reports whether n is a perfect cube and, if so, its root.
// Non-cubes and negative values yield (false, 0); zero yields (true, 0).
func CubeRoot(n *big.Int) (bool, *big.Int) {
	if n.Sign() < 0 {
		return false, new(big.Int)
	}
	if n.Sign() == 0 {
		return true, new(big.Int)
	}
	root := FloorCubeRoot(n)
	if Cube(root).Cmp(n) != 0 {
		return false, new(big.Int)
	}
	return true, root
}

// Copyright (c) 2024 The Flokicoin developers
// Distributed under the MIT software license, see the accompanying
// file COPYING or http://www.opensource.org/licenses/mit-license.php.

package cpu

import (
	"encoding/hex"
	"math/big"

	"github.com/flokiorg/cube-miner/hash/sha256"
	. "github.com/flokiorg/cube-miner/mining/algo/common"
	"github.com/flokiorg/cube-miner/nonce"
)

var (
	bigOffset = big.NewInt(nonce.Offset)
	max128    = new(big.Int).Lsh(big.NewInt(1), 128)
)

// evaluator turns an index into a digest. Each worker owns one so the big
// integers and the preimage buffer are reused across candidates.
type evaluator struct {
	scheme     nonce.Scheme
	difficulty *big.Int

	k       *big.Int
	root    *big.Int
	cube    *big.Int
	shifted *big.Int
	buf     []byte
}

func newEvaluator(scheme nonce.Scheme, difficulty uint64) *evaluator {
	return &evaluator{
		scheme:     scheme,
		difficulty: new(big.Int).SetUint64(difficulty),
		k:          new(big.Int),
		root:       new(big.Int),
		cube:       new(big.Int),
		shifted:    new(big.Int),
		buf:        make([]byte, 0, 64),
	}
}

// eval hashes candidate k. It reports false when the nonce has no preimage
// under the scheme.
func (e *evaluator) eval(k uint64) ([sha256.Size]byte, bool) {
	e.k.SetUint64(k)
	e.root.Mul(e.k, e.difficulty)
	e.cube.Mul(e.root, e.root)
	e.cube.Mul(e.cube, e.root)

	switch e.scheme.Encoding {
	case nonce.Minimal:
		e.buf = nonce.AppendMinimal(e.buf[:0], e.cube)

	case nonce.Prefixed:
		e.shifted.Add(e.cube, bigOffset)
		e.buf = append(e.buf[:0], nonce.Prefix...)
		e.buf = nonce.AppendMinimal(e.buf, e.shifted)

	case nonce.Fixed:
		e.shifted.Add(e.cube, bigOffset)
		if e.shifted.Cmp(max128) >= 0 {
			return [sha256.Size]byte{}, false
		}
		e.buf = append(e.buf[:0], nonce.Prefix...)
		e.buf = e.buf[:len(nonce.Prefix)+nonce.FixedWidth]
		e.shifted.FillBytes(e.buf[len(nonce.Prefix):])

	default:
		return [sha256.Size]byte{}, false
	}

	return e.scheme.Hash(e.buf), true
}

func (e *evaluator) match(k uint64, digest [sha256.Size]byte, zeros int) Match {
	return Match{
		Index:  k,
		Root:   new(big.Int).Set(e.root),
		Nonce:  new(big.Int).Set(e.cube),
		Digest: hex.EncodeToString(digest[:]),
		Zeros:  zeros,
	}
}

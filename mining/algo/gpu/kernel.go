// Copyright (c) 2024 The Flokicoin developers
// Distributed under the MIT software license, see the accompanying
// file COPYING or http://www.opensource.org/licenses/mit-license.php.

package gpu

import (
	"github.com/flokiorg/cube-miner/hash/sha256"
	"github.com/flokiorg/cube-miner/nonce"
)

// workItem is the per-index kernel: 128-bit cube, one padded block, one or
// two compressions, nibble test, slot reservation. It mirrors kernel.cl.
func workItem(batch *Batch, offset uint32, out *SlotBuffer) {
	n, ok := nonce.Cube128(batch.Base+uint64(offset), batch.Difficulty)
	if !ok {
		return
	}
	blk, ok := batch.Scheme.Block128(n)
	if !ok {
		return
	}

	st := sha256.SumBlock(&blk)
	if batch.Scheme.Mode == nonce.Double {
		second := sha256.DoubleBlock(st)
		st = sha256.SumBlock(&second)
	}

	if sha256.HasNibbleZeros(st, batch.Target) {
		out.Record(offset, st)
	}
}

// Copyright (c) 2024 The Flokicoin developers
// Distributed under the MIT software license, see the accompanying
// file COPYING or http://www.opensource.org/licenses/mit-license.php.

package gpu

import (
	"context"

	"github.com/flokiorg/cube-miner/nonce"
)

// Batch describes one launch: work-item i evaluates index Base+i.
type Batch struct {
	Base       uint64
	Size       uint32
	Difficulty uint64
	Target     int
	Scheme     nonce.Scheme
}

// Device runs a batch to completion, recording hits in out. Launch returns
// only after every work-item has finished or been abandoned.
type Device interface {
	Name() string
	Launch(ctx context.Context, batch Batch, out *SlotBuffer) error
	Close() error
}

// Copyright (c) 2024 The Flokicoin developers
// Distributed under the MIT software license, see the accompanying
// file COPYING or http://www.opensource.org/licenses/mit-license.php.

package gpu

import (
	"context"
	"fmt"
	"sync"

	. "github.com/flokiorg/cube-miner/mining/algo/common"
	"github.com/flokiorg/cube-miner/utils"
)

// SoftwareDevice emulates a data-parallel device: the work-items of a batch
// are split between goroutines which all share the batch's SlotBuffer.
type SoftwareDevice struct {
	threads      uint8
	pollInterval uint32
}

func NewSoftwareDevice(threads uint8) *SoftwareDevice {
	if threads == 0 {
		threads = DefaultThreadsMax
	}
	return &SoftwareDevice{threads: threads, pollInterval: DefaultPollInterval}
}

func (d *SoftwareDevice) Name() string {
	return fmt.Sprintf("software(%d)", d.threads)
}

func (d *SoftwareDevice) Launch(ctx context.Context, batch Batch, out *SlotBuffer) error {
	ranges := utils.CalculateNonceRanges(uint64(batch.Size), 0, d.threads)

	var wg sync.WaitGroup
	for _, r := range ranges {
		wg.Add(1)
		go func(r utils.MinMax) {
			defer wg.Done()
			for offset := uint32(r.Min); ; offset++ {
				if (offset-uint32(r.Min))%d.pollInterval == 0 && ctx.Err() != nil {
					return
				}
				workItem(&batch, offset, out)
				if offset == uint32(r.Max) {
					return
				}
			}
		}(r)
	}
	wg.Wait()

	if ctx.Err() != nil {
		return ErrMiningCancelled
	}
	return nil
}

func (d *SoftwareDevice) Close() error {
	return nil
}

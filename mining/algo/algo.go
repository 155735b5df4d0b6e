// Copyright (c) 2024 The Flokicoin developers
// Distributed under the MIT software license, see the accompanying
// file COPYING or http://www.opensource.org/licenses/mit-license.php.

package algo

import (
	"context"
	"fmt"
	"strings"

	. "github.com/flokiorg/cube-miner/mining/algo/common"
	"github.com/flokiorg/cube-miner/mining/algo/cpu"
	"github.com/flokiorg/cube-miner/mining/algo/gpu"
	"github.com/flokiorg/cube-miner/nonce"
	"github.com/flokiorg/cube-miner/utils"
)

// Searcher is the contract shared by every search strategy.
type Searcher interface {
	Name() string
	Search(ctx context.Context, p Params, stats *Stats) (*ResultSet, error)
}

type Options struct {
	Threads        uint8
	Scheme         nonce.Scheme
	Partition      utils.PartitionFunc
	BatchSize      uint32
	StopOnFirstHit bool
	DisableRescan  bool
	DeviceIndex    int
}

type ALGO int

const (
	CPU ALGO = iota
	GPU
	OPENCL
)

func (a ALGO) String() string {
	switch a {
	case GPU:
		return "gpu"
	case OPENCL:
		return "opencl"
	}
	return "cpu"
}

func ParseAlgo(input string) (ALGO, error) {
	switch strings.ToLower(input) {
	case "cpu", "":
		return CPU, nil
	case "gpu", "software":
		return GPU, nil
	case "opencl":
		return OPENCL, nil
	}
	return 0, fmt.Errorf("%w: %s", ErrUnsupportedAlgo, input)
}

// Parse builds the named strategy.
func Parse(input string, opts Options) (Searcher, error) {
	a, err := ParseAlgo(input)
	if err != nil {
		return nil, err
	}

	switch a {
	case CPU:
		return cpu.NewSearcher(cpu.Options{
			Threads:   opts.Threads,
			Scheme:    opts.Scheme,
			Partition: opts.Partition,
		}), nil

	case GPU:
		return gpu.NewSearcher(gpu.Options{
			Device:         gpu.NewSoftwareDevice(opts.Threads),
			Scheme:         opts.Scheme,
			BatchSize:      opts.BatchSize,
			StopOnFirstHit: opts.StopOnFirstHit,
			DisableRescan:  opts.DisableRescan,
		}), nil

	case OPENCL:
		device, err := gpu.NewOpenCLDevice(opts.DeviceIndex, SlotCapacity)
		if err != nil {
			return nil, err
		}
		return gpu.NewSearcher(gpu.Options{
			Device:         device,
			Scheme:         opts.Scheme,
			BatchSize:      opts.BatchSize,
			StopOnFirstHit: opts.StopOnFirstHit,
			DisableRescan:  opts.DisableRescan,
		}), nil
	}

	return nil, fmt.Errorf("%w: %s", ErrUnsupportedAlgo, input)
}

// Copyright (c) 2024 The Flokicoin developers
// Distributed under the MIT software license, see the accompanying
// file COPYING or http://www.opensource.org/licenses/mit-license.php.

package common

import (
	"runtime"
	"time"
)

var (
	DefaultThreadsMax = uint8(min(runtime.NumCPU(), 255))
)

const (
	// work units handed to each CPU worker over a whole search
	ChunksPerWorker = 4

	MinChunkSize = 1
	MaxChunkSize = 1 << 16

	DefaultPollInterval = 1024
	DefaultWindowFactor = 4

	SlotCapacity     = 10
	DefaultBatchSize = 1 << 20

	ProgressInterval = time.Second
)

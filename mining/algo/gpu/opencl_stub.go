// Copyright (c) 2024 The Flokicoin developers
// Distributed under the MIT software license, see the accompanying
// file COPYING or http://www.opensource.org/licenses/mit-license.php.

//go:build !opencl

package gpu

import (
	"fmt"

	. "github.com/flokiorg/cube-miner/mining/algo/common"
)

// NewOpenCLDevice is unavailable unless built with -tags opencl.
func NewOpenCLDevice(index, capacity int) (Device, error) {
	return nil, fmt.Errorf("opencl support not compiled in: %w", ErrDeviceUnavailable)
}

// Copyright (c) 2024 The Flokicoin developers
// Distributed under the MIT software license, see the accompanying
// file COPYING or http://www.opensource.org/licenses/mit-license.php.

package common

import (
	"errors"
)

var (
	ErrMiningCancelled   = errors.New("mining canceled")
	ErrInvalidParams     = errors.New("invalid search parameters")
	ErrDeviceUnavailable = errors.New("device not available")
	ErrUnsupportedAlgo   = errors.New("unsupported algo")
)

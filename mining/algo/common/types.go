// Copyright (c) 2024 The Flokicoin developers
// Distributed under the MIT software license, see the accompanying
// file COPYING or http://www.opensource.org/licenses/mit-license.php.

package common

import (
	"fmt"
	"math/big"

	"github.com/flokiorg/cube-miner/hash/sha256"
	"github.com/flokiorg/cube-miner/utils"
)

// Params bound a search. Indices k run over [1, MaxK].
type Params struct {
	Difficulty  uint64
	TargetZeros int
	MaxK        uint64
	MaxMatches  int
}

func (p Params) Validate() error {
	switch {
	case p.Difficulty == 0:
		return fmt.Errorf("%w: difficulty must be positive", ErrInvalidParams)
	case p.TargetZeros < 0 || p.TargetZeros > sha256.MaxZeroNibbles:
		return fmt.Errorf("%w: target zeros %d outside [0, %d]", ErrInvalidParams, p.TargetZeros, sha256.MaxZeroNibbles)
	case p.MaxK == 0:
		return fmt.Errorf("%w: max k must be positive", ErrInvalidParams)
	case p.MaxMatches <= 0:
		return fmt.Errorf("%w: max matches must be positive", ErrInvalidParams)
	}
	return nil
}

func (p Params) Range() utils.MinMax {
	return utils.MinMax{Min: 1, Max: p.MaxK}
}

type Match struct {
	Index  uint64
	Root   *big.Int
	Nonce  *big.Int
	Digest string
	Zeros  int
}

type StopReason string

const (
	StopExhausted StopReason = "exhausted"
	StopCapped    StopReason = "capped"
	StopFirstHit  StopReason = "first-hit"
	StopCancelled StopReason = "cancelled"
)

// ResultSet is the outcome of one search. Matches are unique by index and
// sorted by descending zeros, then ascending index.
type ResultSet struct {
	Matches   []Match
	Checked   uint64
	Skipped   uint64
	Stop      StopReason
	Saturated int
}

func (rs *ResultSet) Best() (Match, bool) {
	if rs == nil || len(rs.Matches) == 0 {
		return Match{}, false
	}
	return rs.Matches[0], true
}

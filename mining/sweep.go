// Copyright (c) 2024 The Flokicoin developers
// Distributed under the MIT software license, see the accompanying
// file COPYING or http://www.opensource.org/licenses/mit-license.php.

package mining

import (
	"context"
	"fmt"

	. "github.com/flokiorg/cube-miner/mining/algo/common"
)

type SweepStep struct {
	TargetZeros int
	MaxK        uint64
	MaxMatches  int
}

// SweepResult records the first difficulty that produced matches for a
// step. Difficulty is zero when none did.
type SweepResult struct {
	Step       SweepStep
	Difficulty uint64
	Result     *ResultSet
}

var (
	DefaultSweepSteps = []SweepStep{
		{TargetZeros: 5, MaxK: 10_000_000, MaxMatches: 5},
		{TargetZeros: 6, MaxK: 50_000_000, MaxMatches: 3},
		{TargetZeros: 7, MaxK: 100_000_000, MaxMatches: 2},
		{TargetZeros: 8, MaxK: 200_000_000, MaxMatches: 1},
	}

	DefaultSweepDifficulties = []uint64{10, 5, 3, 2, 1}
)

// Sweep runs each step with the difficulties in order, moving on at the
// first one that yields matches. A cancelled sweep returns the steps
// finished so far.
func (m *Miner) Sweep(ctx context.Context, steps []SweepStep, difficulties []uint64) ([]SweepResult, error) {
	if len(difficulties) == 0 {
		return nil, fmt.Errorf("%w: no difficulties to sweep", ErrInvalidParams)
	}

	results := make([]SweepResult, 0, len(steps))
	for _, step := range steps {
		res := SweepResult{Step: step}

		for _, d := range difficulties {
			rs, err := m.Search(ctx, Params{
				Difficulty:  d,
				TargetZeros: step.TargetZeros,
				MaxK:        step.MaxK,
				MaxMatches:  step.MaxMatches,
			})
			if err != nil {
				return results, fmt.Errorf("sweep zeros=%d d=%d: %w", step.TargetZeros, d, err)
			}
			if rs.Stop == StopCancelled {
				return results, nil
			}

			res.Result = rs
			if len(rs.Matches) > 0 {
				res.Difficulty = d
				break
			}
		}

		if res.Difficulty == 0 {
			m.logger.Warn().Msgf("no %d-zero nonces found, a larger range may be needed", step.TargetZeros)
		}
		results = append(results, res)
	}
	return results, nil
}

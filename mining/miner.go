// Copyright (c) 2024 The Flokicoin developers
// Distributed under the MIT software license, see the accompanying
// file COPYING or http://www.opensource.org/licenses/mit-license.php.

package mining

import (
	"context"
	"sync"
	"time"

	"github.com/flokiorg/cube-miner/mining/algo"
	. "github.com/flokiorg/cube-miner/mining/algo/common"
	"github.com/rs/zerolog"
)

// Miner runs searches with one strategy and reports their progress.
type Miner struct {
	searcher algo.Searcher
	stats    *Stats
	logger   zerolog.Logger
	progress time.Duration
}

func NewMiner(searcher algo.Searcher, progress time.Duration, logger zerolog.Logger) *Miner {
	return &Miner{
		searcher: searcher,
		stats:    NewStats(),
		logger:   logger,
		progress: progress,
	}
}

func (m *Miner) Stats() *Stats {
	return m.stats
}

func (m *Miner) Search(ctx context.Context, p Params) (*ResultSet, error) {
	m.stats.Reset()

	m.logger.Info().Msgf("🔎 %s search d=%d zeros=%d k=[1, %d] matches=%d", m.searcher.Name(), p.Difficulty, p.TargetZeros, p.MaxK, p.MaxMatches)

	startime := time.Now()
	done := make(chan struct{})
	var wg sync.WaitGroup
	if m.progress > 0 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ticker := time.NewTicker(m.progress)
			defer ticker.Stop()

			for {
				select {
				case <-ticker.C:
					m.stats.PrintProgress(m.logger, startime, p.MaxK)
				case <-done:
					return
				}
			}
		}()
	}

	rs, err := m.searcher.Search(ctx, p, m.stats)
	close(done)
	wg.Wait()
	if err != nil {
		m.logger.Error().Err(err).Msg("search failed")
		return nil, err
	}

	m.stats.PrintZeros(m.logger)
	m.logger.Info().Msgf("🏁 %s: %d matches | checked: %d | skipped: %d | %s", rs.Stop, len(rs.Matches), rs.Checked, rs.Skipped, time.Since(startime).Round(time.Millisecond))
	if rs.Saturated > 0 {
		m.logger.Warn().Msgf("%d saturated batches were not rescanned, matches may be missing", rs.Saturated)
	}
	for _, match := range rs.Matches {
		m.logger.Info().Msgf("✨ k=%d zeros=%d digest=%s", match.Index, match.Zeros, match.Digest)
	}
	if best, ok := rs.Best(); ok {
		m.logger.Info().Uint64("k", best.Index).Int("zeros", best.Zeros).Msgf("🏆 best nonce %s", best.Nonce)
	}

	return rs, nil
}

// Copyright (c) 2024 The Flokicoin developers
// Distributed under the MIT software license, see the accompanying
// file COPYING or http://www.opensource.org/licenses/mit-license.php.

// Package cpu implements the worker pool search strategy.
package cpu

import (
	"context"
	"errors"

	"github.com/flokiorg/cube-miner/hash/sha256"
	. "github.com/flokiorg/cube-miner/mining/algo/common"
	"github.com/flokiorg/cube-miner/nonce"
	"github.com/flokiorg/cube-miner/utils"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

type Options struct {
	Threads      uint8
	Scheme       nonce.Scheme
	Partition    utils.PartitionFunc
	ChunkSize    uint64
	PollInterval int
	WindowFactor int
}

type Searcher struct {
	opts Options
}

func NewSearcher(opts Options) *Searcher {
	if opts.Threads == 0 {
		opts.Threads = DefaultThreadsMax
	}
	if opts.Partition == nil {
		opts.Partition = utils.NewUniform
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = DefaultPollInterval
	}
	if opts.WindowFactor <= 0 {
		opts.WindowFactor = DefaultWindowFactor
	}
	return &Searcher{opts: opts}
}

func (s *Searcher) Name() string {
	return "cpu"
}

type unit struct {
	seq uint64
	r   utils.MinMax
}

type unitResult struct {
	seq     uint64
	matches []Match
	checked uint64
	skipped uint64
}

// chunkSize spreads n indices over ChunksPerWorker units per thread.
func (s *Searcher) chunkSize(n uint64) uint64 {
	if s.opts.ChunkSize > 0 {
		return s.opts.ChunkSize
	}
	chunk := n / (uint64(s.opts.Threads) * ChunksPerWorker)
	return max(MinChunkSize, min(chunk, MaxChunkSize))
}

// Search evaluates k in [1, p.MaxK]. Unit results are committed in unit
// order, so the returned set does not depend on scheduling. Once the
// committed matches reach p.MaxMatches the pool is cancelled and whatever is
// still in flight is discarded.
func (s *Searcher) Search(ctx context.Context, p Params, stats *Stats) (*ResultSet, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if stats == nil {
		stats = NewStats()
	}

	threads := int(s.opts.Threads)
	window := threads * s.opts.WindowFactor

	// the fixed encoding has no preimage past 128 bits and the cube grows
	// with k, so the tail is skipped without being walked
	searchRange := p.Range()
	var tail uint64
	if s.opts.Scheme.Encoding == nonce.Fixed {
		if limit := nonce.MaxIndex128(p.Difficulty, nonce.Offset); limit < searchRange.Max {
			tail = searchRange.Max - limit
			searchRange.Max = limit
		}
	}

	poolCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(poolCtx)

	units := make(chan unit, threads)
	results := make(chan unitResult, threads)
	tokens := make(chan struct{}, window)

	g.Go(func() error {
		defer close(units)
		parts := s.opts.Partition(searchRange, s.chunkSize(searchRange.Len()))
		for seq := uint64(0); ; seq++ {
			r, ok := parts.Next()
			if !ok {
				return nil
			}
			select {
			case tokens <- struct{}{}:
			case <-gctx.Done():
				return nil
			}
			select {
			case units <- unit{seq: seq, r: r}:
			case <-gctx.Done():
				return nil
			}
		}
	})

	for tid := 0; tid < threads; tid++ {
		g.Go(func() error {
			ev := newEvaluator(s.opts.Scheme, p.Difficulty)
			var done uint64
			for u := range units {
				if gctx.Err() != nil {
					break
				}
				res := s.scan(gctx, ev, p, u, stats)
				done++
				select {
				case results <- res:
				case <-gctx.Done():
					log.Debug().Msgf("t[%d] 🏁 cancelled after %d units", tid, done)
					return nil
				}
			}
			log.Debug().Msgf("t[%d] 🏁 completed %d units", tid, done)
			return nil
		})
	}

	errc := make(chan error, 1)
	go func() {
		errc <- g.Wait()
		close(results)
	}()

	agg := NewAggregator(p.MaxMatches)
	rs := &ResultSet{Stop: StopExhausted}
	pending := make(map[uint64]unitResult)
	var next uint64
	capped := false

	for res := range results {
		if capped {
			continue
		}
		pending[res.seq] = res

		for !capped {
			r, ok := pending[next]
			if !ok {
				break
			}
			delete(pending, next)
			next++
			<-tokens

			for _, m := range r.matches {
				agg.Add(m)
			}
			rs.Checked += r.checked
			rs.Skipped += r.skipped

			if agg.IsFull() {
				capped = true
				cancel()
			}
		}
	}

	if err := <-errc; err != nil && !errors.Is(err, context.Canceled) {
		return nil, err
	}

	switch {
	case capped:
		rs.Stop = StopCapped
	case ctx.Err() != nil:
		rs.Stop = StopCancelled
	default:
		rs.Skipped += tail
		stats.Skipped.Add(tail)
	}
	rs.Matches = agg.Finalize()

	return rs, nil
}

// scan evaluates one unit, polling ctx every PollInterval candidates. It
// keeps the unit's best p.MaxMatches matches; an abandoned unit returns what
// it found so far.
func (s *Searcher) scan(ctx context.Context, ev *evaluator, p Params, u unit, stats *Stats) unitResult {
	res := unitResult{seq: u.seq}
	zeros := make(map[uint8]int)
	poll := uint64(s.opts.PollInterval)

	defer func() {
		stats.Checked.Add(res.checked % poll)
		stats.Skipped.Add(res.skipped)
		stats.Units.Add(1)
		stats.IncZeros(zeros)
	}()

	for k := u.r.Min; ; k++ {
		digest, ok := ev.eval(k)
		if !ok {
			res.skipped++
		} else {
			res.checked++
			z := sha256.LeadingZeroNibbles(digest[:])
			zeros[uint8(z)]++
			if z >= p.TargetZeros && ranked(res.matches, k, z, p.MaxMatches) {
				res.matches, _ = KeepBest(res.matches, ev.match(k, digest, z), p.MaxMatches)
			}

			if res.checked%poll == 0 {
				stats.Checked.Add(poll)
				select {
				case <-ctx.Done():
					return res
				default:
				}
			}
		}

		if k == u.r.Max {
			break
		}
	}

	return res
}

// ranked reports whether index k with z zeros would enter a full list of
// best matches, without building the match.
func ranked(best []Match, k uint64, z int, limit int) bool {
	return len(best) < limit || Ranks(Match{Index: k, Zeros: z}, best[len(best)-1])
}

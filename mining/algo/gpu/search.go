// Copyright (c) 2024 The Flokicoin developers
// Distributed under the MIT software license, see the accompanying
// file COPYING or http://www.opensource.org/licenses/mit-license.php.

// Package gpu implements the batched data-parallel search strategy.
package gpu

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"

	"github.com/flokiorg/cube-miner/hash/sha256"
	. "github.com/flokiorg/cube-miner/mining/algo/common"
	"github.com/flokiorg/cube-miner/nonce"
	"github.com/rs/zerolog/log"
)

type Options struct {
	Device    Device
	Scheme    nonce.Scheme
	BatchSize uint32
	Capacity  int

	// StopOnFirstHit ends the search after the first batch with a hit.
	StopOnFirstHit bool
	// DisableRescan leaves saturated batches as they are instead of
	// splitting them until every hit fits the slots.
	DisableRescan bool
}

type Searcher struct {
	opts Options
}

func NewSearcher(opts Options) *Searcher {
	if opts.Device == nil {
		opts.Device = NewSoftwareDevice(DefaultThreadsMax)
	}
	if opts.BatchSize == 0 {
		opts.BatchSize = DefaultBatchSize
	}
	if opts.Capacity <= 0 {
		opts.Capacity = SlotCapacity
	}
	return &Searcher{opts: opts}
}

func (s *Searcher) Name() string {
	return "gpu/" + s.opts.Device.Name()
}

func (s *Searcher) Close() error {
	return s.opts.Device.Close()
}

// Search runs sequential batches over [1, p.MaxK]. Indices whose cube leaves
// the 128-bit domain are skipped and counted.
func (s *Searcher) Search(ctx context.Context, p Params, stats *Stats) (*ResultSet, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if stats == nil {
		stats = NewStats()
	}

	r := p.Range()
	var tail uint64
	if limit := nonce.MaxIndex128(p.Difficulty, s.opts.Scheme.EncodingOffset()); limit < r.Max {
		tail = r.Max - limit
		r.Max = limit
	}

	agg := NewAggregator(p.MaxMatches)
	slots := NewSlotBuffer(s.opts.Capacity)
	rs := &ResultSet{Stop: StopExhausted}

	for base := r.Min; base <= r.Max; {
		size := s.opts.BatchSize
		if left := r.Max - base; left < uint64(size) {
			size = uint32(left) + 1
		}
		batch := Batch{
			Base:       base,
			Size:       size,
			Difficulty: p.Difficulty,
			Target:     p.TargetZeros,
			Scheme:     s.opts.Scheme,
		}

		hits, err := s.run(ctx, batch, slots, agg, rs)
		if errors.Is(err, ErrMiningCancelled) {
			rs.Stop = StopCancelled
			break
		}
		if err != nil {
			return nil, fmt.Errorf("batch at %d: %w", base, err)
		}

		rs.Checked += uint64(size)
		stats.Checked.Add(uint64(size))
		stats.Units.Add(1)

		if hits > 0 {
			log.Debug().Msgf("batch[%d..%d] %d hits", base, base+uint64(size)-1, hits)
		}
		if agg.IsFull() {
			rs.Stop = StopCapped
			break
		}
		if hits > 0 && s.opts.StopOnFirstHit {
			rs.Stop = StopFirstHit
			break
		}

		last := base + uint64(size) - 1
		if last == r.Max {
			break
		}
		base = last + 1
	}

	if rs.Stop == StopExhausted {
		rs.Skipped = tail
		stats.Skipped.Add(tail)
	}
	rs.Matches = agg.Finalize()
	return rs, nil
}

// run launches one batch and collects its slots. A saturated batch is
// split in halves and relaunched unless rescanning is disabled or the
// aggregator is already full.
func (s *Searcher) run(ctx context.Context, batch Batch, slots *SlotBuffer, agg *Aggregator, rs *ResultSet) (int, error) {
	if ctx.Err() != nil {
		return 0, ErrMiningCancelled
	}

	slots.Reset()
	if err := s.opts.Device.Launch(ctx, batch, slots); err != nil {
		return 0, err
	}
	status := slots.Status()

	hits := 0
	for _, slot := range slots.Slots() {
		if slot.Offset >= batch.Size {
			return hits, fmt.Errorf("slot offset %d outside batch of %d", slot.Offset, batch.Size)
		}
		if agg.Add(newMatch(&batch, slot)) {
			hits++
		}
	}

	if status != StatusSaturated || agg.IsFull() {
		return hits, nil
	}
	if s.opts.DisableRescan || batch.Size == 1 {
		rs.Saturated++
		log.Warn().Msgf("batch[%d..%d] saturated: %d hits for %d slots", batch.Base, batch.Base+uint64(batch.Size)-1, slots.Count(), slots.Capacity())
		return hits, nil
	}

	half := batch.Size / 2
	lo, hi := batch, batch
	lo.Size = half
	hi.Base += uint64(half)
	hi.Size -= half
	for _, part := range []Batch{lo, hi} {
		if agg.IsFull() {
			break
		}
		n, err := s.run(ctx, part, slots, agg, rs)
		hits += n
		if err != nil {
			return hits, err
		}
	}
	return hits, nil
}

// newMatch rebuilds the match of a slot. The batch lies inside the 128-bit
// domain, so the nonce comes from the same arithmetic the kernel used.
func newMatch(batch *Batch, slot Slot) Match {
	k := batch.Base + uint64(slot.Offset)
	root := new(big.Int).Mul(new(big.Int).SetUint64(k), new(big.Int).SetUint64(batch.Difficulty))
	n, _ := nonce.Cube128(k, batch.Difficulty)
	digest := sha256.WordsToBytes(slot.Digest)
	return Match{
		Index:  k,
		Root:   root,
		Nonce:  n.Big(),
		Digest: hex.EncodeToString(digest[:]),
		Zeros:  sha256.LeadingZeroNibblesWords(slot.Digest),
	}
}

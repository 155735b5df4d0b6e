// Copyright (c) 2024 The Flokicoin developers
// Distributed under the MIT software license, see the accompanying
// file COPYING or http://www.opensource.org/licenses/mit-license.php.

package common

import (
	"sort"
	"sync"
)

// Ranks reports whether a orders before b: more zeros first, then the
// lower index.
func Ranks(a, b Match) bool {
	if a.Zeros != b.Zeros {
		return a.Zeros > b.Zeros
	}
	return a.Index < b.Index
}

// KeepBest inserts m into best, which is ordered by Ranks and holds at most
// max entries. The worst entry is evicted when the list overflows. It
// reports whether m was kept.
func KeepBest(best []Match, m Match, max int) ([]Match, bool) {
	i := sort.Search(len(best), func(i int) bool { return Ranks(m, best[i]) })
	if i >= max {
		return best, false
	}
	if len(best) < max {
		best = append(best, Match{})
	}
	copy(best[i+1:], best[i:])
	best[i] = m
	return best, true
}

// Aggregator holds the best matches seen so far, never more than its bound.
type Aggregator struct {
	mu      sync.Mutex
	max     int
	matches []Match
	held    map[uint64]struct{}
}

func NewAggregator(max int) *Aggregator {
	return &Aggregator{
		max:  max,
		held: make(map[uint64]struct{}),
	}
}

// Add offers m and reports whether it was kept. A held index is never
// replaced.
func (a *Aggregator) Add(m Match) bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	if _, ok := a.held[m.Index]; ok {
		return false
	}

	var evicted *Match
	if len(a.matches) == a.max && a.max > 0 {
		last := a.matches[a.max-1]
		evicted = &last
	}

	var kept bool
	a.matches, kept = KeepBest(a.matches, m, a.max)
	if !kept {
		return false
	}
	a.held[m.Index] = struct{}{}
	if evicted != nil {
		delete(a.held, evicted.Index)
	}
	return true
}

func (a *Aggregator) IsFull() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.matches) >= a.max
}

func (a *Aggregator) Len() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.matches)
}

// Finalize returns a copy of the held matches in rank order.
func (a *Aggregator) Finalize() []Match {
	a.mu.Lock()
	defer a.mu.Unlock()

	out := make([]Match, len(a.matches))
	copy(out, a.matches)
	return out
}

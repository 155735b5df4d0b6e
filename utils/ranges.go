// Copyright (c) 2024 The Flokicoin developers
// Distributed under the MIT software license, see the accompanying
// file COPYING or http://www.opensource.org/licenses/mit-license.php.

package utils

import (
	"fmt"
	"math"
	"math/bits"
	"strings"
)

// MinMax is an inclusive index range.
type MinMax struct {
	Min uint64
	Max uint64
}

// Len returns the number of indices in the range, saturating at MaxUint64.
func (r MinMax) Len() uint64 {
	if r.Max < r.Min {
		return 0
	}
	n := r.Max - r.Min
	if n == math.MaxUint64 {
		return n
	}
	return n + 1
}

// CalculateNonceRanges splits count indices starting at startNonce between
// numThreads threads. Threads left without work get no entry.
func CalculateNonceRanges(count, startNonce uint64, numThreads uint8) map[uint8]MinMax {
	nonceRanges := make(map[uint8]MinMax)
	if count == 0 || numThreads == 0 {
		return nonceRanges
	}

	noncesPerThread := count / uint64(numThreads)
	extra := count % uint64(numThreads)

	min := startNonce
	for i := uint8(0); i < numThreads; i++ {
		n := noncesPerThread
		if uint64(i) < extra {
			n++
		}
		if n == 0 {
			break
		}
		nonceRanges[i] = MinMax{Min: min, Max: min + n - 1}
		min += n
	}
	return nonceRanges
}

// Partitioner lazily emits the work units covering a search range, so huge
// ranges are never materialised.
type Partitioner interface {
	Next() (MinMax, bool)
}

// PartitionFunc builds a Partitioner for a range and a unit size.
type PartitionFunc func(r MinMax, chunk uint64) Partitioner

type uniform struct {
	r     MinMax
	chunk uint64
	next  uint64
	done  bool
}

// NewUniform covers r contiguously with units of chunk indices; the last
// unit may be shorter.
func NewUniform(r MinMax, chunk uint64) Partitioner {
	if chunk == 0 {
		chunk = 1
	}
	return &uniform{r: r, chunk: chunk, next: r.Min, done: r.Max < r.Min}
}

func (u *uniform) Next() (MinMax, bool) {
	if u.done {
		return MinMax{}, false
	}
	unit := MinMax{Min: u.next, Max: clampEnd(u.next, u.chunk, u.r.Max)}
	if unit.Max == u.r.Max {
		u.done = true
	} else {
		u.next = unit.Max + 1
	}
	return unit, true
}

// Partition returns every uniform unit of r.
func Partition(r MinMax, chunk uint64) []MinMax {
	var units []MinMax
	p := NewUniform(r, chunk)
	for {
		unit, ok := p.Next()
		if !ok {
			return units
		}
		units = append(units, unit)
	}
}

const (
	DefaultAdaptiveDenseUnits = 16
	DefaultAdaptiveDoubling   = 8
)

type adaptive struct {
	r        MinMax
	chunk    uint64
	denseEnd uint64
	doubling uint64
	sparse   uint64
	next     uint64
	done     bool
}

// NewAdaptive covers the first denseUnits units of r completely, then emits
// units of the same size whose spacing doubles every doubling units. It is a
// sampling heuristic: the digest of a cube nonce does not depend on where k
// lies, so skipping high indices does not raise the hit rate.
func NewAdaptive(r MinMax, chunk, denseUnits, doubling uint64) Partitioner {
	if chunk == 0 {
		chunk = 1
	}
	if doubling == 0 {
		doubling = 1
	}
	denseEnd := r.Max
	if hi, lo := bits.Mul64(chunk, denseUnits); hi == 0 && lo <= math.MaxUint64-r.Min {
		denseEnd = r.Min + lo
	}
	return &adaptive{
		r:        r,
		chunk:    chunk,
		denseEnd: denseEnd,
		doubling: doubling,
		next:     r.Min,
		done:     r.Max < r.Min,
	}
}

func (a *adaptive) Next() (MinMax, bool) {
	if a.done {
		return MinMax{}, false
	}
	unit := MinMax{Min: a.next, Max: clampEnd(a.next, a.chunk, a.r.Max)}

	step := a.chunk
	if a.next >= a.denseEnd {
		shift := a.sparse / a.doubling
		a.sparse++
		if shift >= 63 || step > math.MaxUint64>>shift {
			step = math.MaxUint64
		} else {
			step <<= shift
		}
	}

	if unit.Max == a.r.Max || step > a.r.Max-a.next {
		a.done = true
	} else {
		a.next += step
	}
	return unit, true
}

func clampEnd(start, chunk, max uint64) uint64 {
	if chunk-1 > max-start {
		return max
	}
	return start + chunk - 1
}

// ParsePartition resolves a partitioning strategy by name.
func ParsePartition(input string) (PartitionFunc, error) {
	switch strings.ToLower(input) {
	case "", "uniform":
		return NewUniform, nil
	case "adaptive", "smart":
		return func(r MinMax, chunk uint64) Partitioner {
			return NewAdaptive(r, chunk, DefaultAdaptiveDenseUnits, DefaultAdaptiveDoubling)
		}, nil
	}
	return nil, fmt.Errorf("unsupported partition strategy %q", input)
}

// Copyright (c) 2024 The Flokicoin developers
// Distributed under the MIT software license, see the accompanying
// file COPYING or http://www.opensource.org/licenses/mit-license.php.

package common

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// Stats are progress counters shared by the workers of one search. They are
// read by the progress reporter while the search runs.
type Stats struct {
	Checked atomic.Uint64
	Skipped atomic.Uint64
	Units   atomic.Uint64

	zeros     map[uint8]int
	zerosLock sync.Mutex

	lastChecked uint64
}

func NewStats() *Stats {
	return &Stats{
		zeros: make(map[uint8]int),
	}
}

func (s *Stats) IncZeros(zs map[uint8]int) {
	s.zerosLock.Lock()
	defer s.zerosLock.Unlock()

	for z, c := range zs {
		s.zeros[z] += c
	}
}

// Zeros returns a copy of the histogram of leading zero nibbles seen so far.
func (s *Stats) Zeros() map[uint8]int {
	s.zerosLock.Lock()
	defer s.zerosLock.Unlock()

	out := make(map[uint8]int, len(s.zeros))
	for z, c := range s.zeros {
		out[z] = c
	}
	return out
}

func (s *Stats) Reset() {
	s.Checked.Store(0)
	s.Skipped.Store(0)
	s.Units.Store(0)

	s.zerosLock.Lock()
	s.zeros = make(map[uint8]int)
	s.zerosLock.Unlock()

	s.lastChecked = 0
}

func (s *Stats) PrintZeros(logger zerolog.Logger) {
	zeros := s.Zeros()
	if len(zeros) == 0 {
		return
	}

	keys := make([]int, 0, len(zeros))
	for z := range zeros {
		keys = append(keys, int(z))
	}
	sort.Ints(keys)

	output := make([]string, 0, len(keys))
	for _, z := range keys {
		output = append(output, fmt.Sprintf("	[%d]: %d", z, zeros[uint8(z)]))
	}

	logger.Debug().Msgf("[zeros(%d)]: \n%s", len(output), strings.Join(output, "\n"))
}

// PrintProgress logs the evaluation rate since startime. Only one goroutine
// may call it.
func (s *Stats) PrintProgress(logger zerolog.Logger, startime time.Time, total uint64) {
	checked := s.Checked.Load()
	delta := checked - s.lastChecked
	s.lastChecked = checked

	kilo_per_second := (float64(checked) / time.Since(startime).Seconds()) / 1_000
	progress := 0.0
	if total > 0 {
		progress = (float64(checked) / float64(total)) * 100
	}

	logger.Debug().Msgf("%d units | rate: %.2f kN/s | checked: %d | total: %d | skipped: %d | progress: %.2f%%",
		s.Units.Load(), kilo_per_second, delta, checked, s.Skipped.Load(), progress)
}

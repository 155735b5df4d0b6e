// Copyright (c) 2024 The Flokicoin developers
// Distributed under the MIT software license, see the accompanying
// file COPYING or http://www.opensource.org/licenses/mit-license.php.

package utils

import (
	"math"
	"testing"
)

func TestCalculateNonceRanges(t *testing.T) {
	ranges := CalculateNonceRanges(10, 100, 3)
	want := map[uint8]MinMax{
		0: {100, 103},
		1: {104, 106},
		2: {107, 109},
	}
	if len(ranges) != len(want) {
		t.Fatalf("got %d ranges, want %d", len(ranges), len(want))
	}
	for i, r := range want {
		if ranges[i] != r {
			t.Fatalf("range %d: got %+v want %+v", i, ranges[i], r)
		}
	}

	if ranges := CalculateNonceRanges(2, 0, 8); len(ranges) != 2 {
		t.Fatalf("idle threads must get no range, got %v", ranges)
	}
	if ranges := CalculateNonceRanges(0, 0, 8); len(ranges) != 0 {
		t.Fatalf("expected no ranges, got %v", ranges)
	}
}

func TestPartitionCover(t *testing.T) {
	tests := []struct {
		r     MinMax
		chunk uint64
		units int
	}{
		{MinMax{1, 1}, 5, 1},
		{MinMax{1, 10}, 5, 2},
		{MinMax{1, 11}, 5, 3},
		{MinMax{0, 99}, 1, 100},
		{MinMax{7, 6}, 5, 0},
	}

	for _, test := range tests {
		units := Partition(test.r, test.chunk)
		if len(units) != test.units {
			t.Fatalf("%+v/%d: got %d units want %d", test.r, test.chunk, len(units), test.units)
		}
		next := test.r.Min
		var total uint64
		for _, u := range units {
			if u.Min != next || u.Max < u.Min || u.Len() > test.chunk {
				t.Fatalf("%+v/%d: bad unit %+v", test.r, test.chunk, u)
			}
			next = u.Max + 1
			total += u.Len()
		}
		if total != test.r.Len() {
			t.Fatalf("%+v: covered %d of %d indices", test.r, total, test.r.Len())
		}
	}
}

func TestUniformNearMaxUint64(t *testing.T) {
	r := MinMax{Min: math.MaxUint64 - 9, Max: math.MaxUint64}
	units := Partition(r, 4)
	if len(units) != 3 || units[2].Max != math.MaxUint64 || units[2].Len() != 2 {
		t.Fatalf("unexpected units %+v", units)
	}

	if (MinMax{0, math.MaxUint64}).Len() != math.MaxUint64 {
		t.Fatal("full range length must saturate")
	}
}

func TestAdaptiveSpacing(t *testing.T) {
	p := NewAdaptive(MinMax{1, 1 << 20}, 10, 3, 2)

	var starts []uint64
	for {
		u, ok := p.Next()
		if !ok {
			break
		}
		if u.Len() != 10 && u.Max != 1<<20 {
			t.Fatalf("unit %+v has wrong size", u)
		}
		starts = append(starts, u.Min)
	}

	// dense prefix: 1, 11, 21; then steps 10,10,20,20,40,40,...
	want := []uint64{1, 11, 21, 31, 41, 51, 71, 91, 131, 171}
	for i, w := range want {
		if starts[i] != w {
			t.Fatalf("unit %d starts at %d, want %d (%v)", i, starts[i], w, starts[:len(want)])
		}
	}
	for i := 1; i < len(starts); i++ {
		if starts[i] <= starts[i-1] {
			t.Fatalf("units must be increasing: %v", starts)
		}
	}
	if len(starts) > 40 {
		t.Fatalf("adaptive partition did not thin out: %d units", len(starts))
	}
}

func TestAdaptiveHugeRangeTerminates(t *testing.T) {
	p := NewAdaptive(MinMax{1, math.MaxUint64}, 1<<16, 4, 1)
	n := 0
	for {
		if _, ok := p.Next(); !ok {
			break
		}
		n++
		if n > 200 {
			t.Fatal("partitioner did not terminate")
		}
	}
}

func TestParsePartition(t *testing.T) {
	for _, name := range []string{"", "uniform", "adaptive", "Smart"} {
		if _, err := ParsePartition(name); err != nil {
			t.Fatalf("%q: %v", name, err)
		}
	}
	if _, err := ParsePartition("random"); err == nil {
		t.Fatal("expected error")
	}
}

// Copyright (c) 2024 The Flokicoin developers
// Distributed under the MIT software license, see the accompanying
// file COPYING or http://www.opensource.org/licenses/mit-license.php.

package gpu

import (
	"sync"
	"testing"
)

func TestSlotBufferConcurrentReserve(t *testing.T) {
	buf := NewSlotBuffer(10)

	var wg sync.WaitGroup
	for g := 0; g < 64; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				buf.Record(uint32(g*100+i), [8]uint32{1, uint32(g), uint32(i)})
			}
		}(g)
	}
	wg.Wait()

	if buf.Count() != 6400 {
		t.Fatalf("counter %d, want 6400", buf.Count())
	}
	if buf.Status() != StatusSaturated {
		t.Fatalf("status %s", buf.Status())
	}

	slots := buf.Slots()
	if len(slots) != 10 {
		t.Fatalf("read %d slots", len(slots))
	}
	seen := make(map[uint32]bool)
	for _, s := range slots {
		if s.Digest[0] != 1 || seen[s.Offset] {
			t.Fatalf("slot not written exactly once: %+v", s)
		}
		seen[s.Offset] = true
	}
}

func TestSlotBufferStatus(t *testing.T) {
	buf := NewSlotBuffer(2)
	if buf.Status() != StatusEmpty || len(buf.Slots()) != 0 {
		t.Fatal("fresh buffer must be empty")
	}

	buf.Record(3, [8]uint32{})
	buf.Record(4, [8]uint32{})
	if buf.Status() != StatusFound {
		t.Fatalf("exactly full buffer reported %s", buf.Status())
	}

	if buf.Record(5, [8]uint32{}) {
		t.Fatal("write past capacity accepted")
	}
	if buf.Status() != StatusSaturated {
		t.Fatalf("status %s", buf.Status())
	}

	buf.Reset()
	if buf.Status() != StatusEmpty {
		t.Fatal("reset did not clear the counter")
	}
}

// Copyright (c) 2024 The Flokicoin developers
// Distributed under the MIT software license, see the accompanying
// file COPYING or http://www.opensource.org/licenses/mit-license.php.

package gpu

import "sync/atomic"

type BatchStatus int

const (
	StatusEmpty BatchStatus = iota
	StatusFound
	StatusSaturated
)

func (s BatchStatus) String() string {
	switch s {
	case StatusFound:
		return "found"
	case StatusSaturated:
		return "saturated"
	}
	return "empty"
}

// Slot is one reported hit: the work-item offset within its batch and the
// final digest state.
type Slot struct {
	Offset uint32
	Digest [8]uint32
}

// SlotBuffer is the fixed-capacity result area shared by the work-items of
// one batch. The counter keeps counting past capacity so saturation is
// visible after the batch.
type SlotBuffer struct {
	count atomic.Uint32
	slots []Slot
}

func NewSlotBuffer(capacity int) *SlotBuffer {
	return &SlotBuffer{slots: make([]Slot, capacity)}
}

func (b *SlotBuffer) Capacity() int {
	return len(b.slots)
}

// TryReserve claims a slot with a single fetch-and-add. Only the caller
// whose pre-increment value is below capacity may write.
func (b *SlotBuffer) TryReserve() (int, bool) {
	n := b.count.Add(1) - 1
	if n >= uint32(len(b.slots)) {
		return 0, false
	}
	return int(n), true
}

// Record reserves a slot and stores the hit in it.
func (b *SlotBuffer) Record(offset uint32, digest [8]uint32) bool {
	i, ok := b.TryReserve()
	if !ok {
		return false
	}
	b.slots[i] = Slot{Offset: offset, Digest: digest}
	return true
}

// Reset clears the counter. It must not overlap a running batch.
func (b *SlotBuffer) Reset() {
	b.count.Store(0)
}

// Count returns the number of reservation attempts, which may exceed the
// capacity.
func (b *SlotBuffer) Count() int {
	return int(b.count.Load())
}

// SetCount overwrites the counter with a value read back from a device.
func (b *SlotBuffer) SetCount(n uint32) {
	b.count.Store(n)
}

// Set stores a slot read back from a device.
func (b *SlotBuffer) Set(i int, s Slot) {
	b.slots[i] = s
}

func (b *SlotBuffer) Status() BatchStatus {
	switch n := b.Count(); {
	case n == 0:
		return StatusEmpty
	case n > len(b.slots):
		return StatusSaturated
	}
	return StatusFound
}

// Slots returns a copy of the filled slots.
func (b *SlotBuffer) Slots() []Slot {
	n := min(b.Count(), len(b.slots))
	out := make([]Slot, n)
	copy(out, b.slots[:n])
	return out
}

// Package history holds the bounded, bidirectionally navigable record of
// past simulation states that makes rewind and time jumps possible.
package history

import (
	"fmt"

	"github.com/san-kum/bouncelab/internal/physics"
)

// DefaultCapacity bounds history to a few seconds of frames at the default
// tick rate.
const DefaultCapacity = 500

// Record pairs a ball snapshot with the simulation time it was captured
// at. Snapshot and time travel together so the two can never fall out of
// sync.
type Record struct {
	Snap physics.Snapshot
	Time float64
}

// Buffer is a fixed-capacity FIFO ring of records in chronological order.
// Pushing at capacity evicts the oldest record; rewinding pops from the
// newest end.
type Buffer struct {
	buf  []Record
	head int // next write slot
	size int
}

// NewBuffer creates a ring holding at most capacity records.
func NewBuffer(capacity int) (*Buffer, error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("history capacity must be positive, got %d", capacity)
	}
	return &Buffer{buf: make([]Record, capacity)}, nil
}

func (b *Buffer) Len() int { return b.size }

func (b *Buffer) Cap() int { return len(b.buf) }

// at maps a logical index (0 = oldest) to a ring slot.
func (b *Buffer) at(i int) int {
	return (b.head - b.size + i + len(b.buf)) % len(b.buf)
}

// Push appends a record, evicting the oldest when full.
func (b *Buffer) Push(snap physics.Snapshot, time float64) {
	b.buf[b.head] = Record{Snap: snap, Time: time}
	b.head = (b.head + 1) % len(b.buf)
	if b.size < len(b.buf) {
		b.size++
	}
}

// Last returns the most recent record without removing it.
func (b *Buffer) Last() (Record, bool) {
	if b.size == 0 {
		return Record{}, false
	}
	return b.buf[b.at(b.size-1)], true
}

// PopLast removes and returns the most recent record.
func (b *Buffer) PopLast() (Record, bool) {
	if b.size == 0 {
		return Record{}, false
	}
	r := b.buf[b.at(b.size-1)]
	b.head = (b.head - 1 + len(b.buf)) % len(b.buf)
	b.size--
	return r, true
}

// At returns the record at logical index i, 0 being the oldest retained.
func (b *Buffer) At(i int) (Record, bool) {
	if i < 0 || i >= b.size {
		return Record{}, false
	}
	return b.buf[b.at(i)], true
}

// Nearest returns the logical index of the record whose time is closest to
// target, or -1 when empty. Ties resolve to the oldest candidate: the scan
// runs oldest to newest and only a strictly smaller distance replaces the
// best match.
func (b *Buffer) Nearest(target float64) int {
	if b.size == 0 {
		return -1
	}
	best := 0
	bestDiff := abs(b.buf[b.at(0)].Time - target)
	for i := 1; i < b.size; i++ {
		diff := abs(b.buf[b.at(i)].Time - target)
		if diff < bestDiff {
			bestDiff = diff
			best = i
		}
	}
	return best
}

// TruncateAfter discards every record newer than logical index i, so a
// jump backward leaves no future history behind. Out-of-range indices are
// ignored.
func (b *Buffer) TruncateAfter(i int) {
	if i < 0 || i >= b.size-1 {
		return
	}
	for b.size > i+1 {
		b.PopLast()
	}
}

// Clear empties the buffer.
func (b *Buffer) Clear() {
	b.head = 0
	b.size = 0
}

// Times returns the retained times oldest first. Used by plots and tests.
func (b *Buffer) Times() []float64 {
	out := make([]float64, b.size)
	for i := 0; i < b.size; i++ {
		out[i] = b.buf[b.at(i)].Time
	}
	return out
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

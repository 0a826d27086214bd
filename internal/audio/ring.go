package audio

import "sync/atomic"

// Ring is a bounded single-producer/single-consumer queue of float32
// samples. Exactly one goroutine (or hardware callback) pushes and
// exactly one other pops; under that contract every operation is
// lock-free and allocation-free, so both ends are safe to call from
// real-time audio threads.
//
// Push drops on full and Pop yields silence on empty: neither side can
// ever block the other.
type Ring struct {
	buf  []float32
	mask uint64

	// head is the next read position, tail the next write position.
	// Only the consumer advances head, only the producer advances tail.
	head atomic.Uint64
	tail atomic.Uint64
}

// NewRing creates a ring holding at least capacity samples.
// Capacity is rounded up to the next power of two.
func NewRing(capacity int) *Ring {
	if capacity < 1 {
		capacity = 1
	}

	size := 1
	for size < capacity {
		size <<= 1
	}

	return &Ring{
		buf:  make([]float32, size),
		mask: uint64(size - 1),
	}
}

// Push appends one sample. It reports false, dropping the sample, when
// the ring is full.
func (r *Ring) Push(s float32) bool {
	tail := r.tail.Load()
	if tail-r.head.Load() == uint64(len(r.buf)) {
		return false
	}

	r.buf[tail&r.mask] = s
	r.tail.Store(tail + 1)

	return true
}

// Pop removes and returns the oldest sample. It reports false and
// returns 0 when the ring is empty.
func (r *Ring) Pop() (float32, bool) {
	head := r.head.Load()
	if head == r.tail.Load() {
		return 0, false
	}

	s := r.buf[head&r.mask]
	r.head.Store(head + 1)

	return s, true
}

// Len returns the number of buffered samples.
func (r *Ring) Len() int {
	return int(r.tail.Load() - r.head.Load())
}

// Cap returns the ring capacity in samples.
func (r *Ring) Cap() int {
	return len(r.buf)
}

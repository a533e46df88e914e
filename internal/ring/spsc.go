// Package ring implements the bounded single-producer/single-consumer
// queues that carry MIDI events, UI commands and notifications across
// the control/input/audio context boundary without blocking or
// allocating on the audio side, per spec.md §4.C.
package ring

import "sync/atomic"

// SPSC is a bounded, lock-free single-producer/single-consumer FIFO.
// Capacity is rounded up to the next power of two so index wrapping is a
// mask instead of a modulo. Zero value is not usable; construct with
// NewSPSC.
//
// Exactly one goroutine may call TryPush; exactly one (possibly
// different) goroutine may call TryPop. Using more than one producer or
// consumer concurrently is a data race the type does not guard against,
// matching spec.md's single-producer/single-consumer contract.
type SPSC[T any] struct {
	buf  []T
	mask uint64
	head atomic.Uint64 // next slot to write (producer-owned)
	tail atomic.Uint64 // next slot to read (consumer-owned)
}

// NewSPSC returns a ring sized for at least capacity entries, rounded up
// to the next power of two.
func NewSPSC[T any](capacity int) *SPSC[T] {
	if capacity < 1 {
		capacity = 1
	}
	size := nextPowerOfTwo(capacity)
	return &SPSC[T]{
		buf:  make([]T, size),
		mask: uint64(size - 1),
	}
}

func nextPowerOfTwo(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

// Cap returns the ring's usable capacity (one less than its backing
// slice length, since a full head==tail would be indistinguishable from
// empty otherwise).
func (r *SPSC[T]) Cap() int {
	return len(r.buf) - 1
}

// TryPush appends v to the ring. It never blocks and never allocates; it
// returns false if the ring is full, in which case the caller (the
// producer) is responsible for dropping the value or surfacing an
// overflow notification — the ring itself never retries or blocks.
func (r *SPSC[T]) TryPush(v T) bool {
	head := r.head.Load()
	tail := r.tail.Load()
	if head-tail >= uint64(len(r.buf))-1 {
		return false // full
	}
	r.buf[head&r.mask] = v
	r.head.Store(head + 1)
	return true
}

// TryPop removes and returns the oldest value. ok is false if the ring
// is empty.
func (r *SPSC[T]) TryPop() (v T, ok bool) {
	tail := r.tail.Load()
	head := r.head.Load()
	if tail == head {
		return v, false // empty
	}
	v = r.buf[tail&r.mask]
	r.tail.Store(tail + 1)
	return v, true
}

// Len returns a snapshot of the number of queued items. Only advisory —
// the producer or consumer may race ahead before the caller acts on it.
func (r *SPSC[T]) Len() int {
	return int(r.head.Load() - r.tail.Load())
}

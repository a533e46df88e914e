package dsp

import (
	"math"
	"sync/atomic"
)

// AtomicFloat is a single-precision float stored as its bit pattern in a
// 32-bit atomic, per spec.md's AtomicParameter contract: store() writes
// with Release ordering, load() reads with Acquire ordering. Go's
// sync/atomic gives sequentially-consistent (and therefore at least as
// strong as acquire/release) ordering on every operation, so a plain
// atomic.Uint32 satisfies the contract without extra machinery.
type AtomicFloat struct {
	bits atomic.Uint32
}

// NewAtomicFloat returns an AtomicFloat initialized to v.
func NewAtomicFloat(v float32) *AtomicFloat {
	a := &AtomicFloat{}
	a.Store(v)
	return a
}

// Store writes x atomically.
func (a *AtomicFloat) Store(x float32) {
	a.bits.Store(math.Float32bits(x))
}

// Load reads the current value atomically.
func (a *AtomicFloat) Load() float32 {
	return math.Float32frombits(a.bits.Load())
}

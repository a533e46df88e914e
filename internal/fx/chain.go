package fx

import "github.com/signalforge/dawcore/internal/filter"

// maxChainSlots is the effect chain's fixed capacity per spec.md §3
// ("ordered sequence (≤4) of {Filter | Delay | Reverb} wrappers").
const maxChainSlots = 4

// Effect is the common interface every chain member satisfies: a
// per-sample processing step with enable/reset/latency like any
// other wrapper in the chain.
type Effect interface {
	Next(input float32) float32
	SetEnabled(enabled bool)
	Enabled() bool
	Reset()
	LatencySamples() int
}

// FilterEffect adapts filter.SVF (which has no LatencySamples/Enabled
// of its own, being a zero-latency per-sample filter) to the Effect
// interface so it can take a chain slot alongside Delay and Reverb.
type FilterEffect struct {
	svf     *filter.SVF
	enabled bool
}

// NewFilterEffect returns a FilterEffect wrapping a new SVF running
// at sampleRate.
func NewFilterEffect(sampleRate float32) *FilterEffect {
	return &FilterEffect{svf: filter.New(sampleRate), enabled: true}
}

func (f *FilterEffect) Next(input float32) float32 {
	if !f.enabled {
		return input
	}
	return f.svf.Next(input)
}
func (f *FilterEffect) SetEnabled(enabled bool) { f.enabled = enabled }
func (f *FilterEffect) Enabled() bool           { return f.enabled }
func (f *FilterEffect) Reset()                  { f.svf.Reset() }
func (f *FilterEffect) LatencySamples() int     { return 0 }

// SVF exposes the underlying filter so callers can set type/cutoff/Q.
func (f *FilterEffect) SVF() *filter.SVF { return f.svf }

// Chain is an ordered, fixed-capacity sequence of effects a voice's
// signal threads through. Effects are processed in slot order;
// disabled slots pass their input through unchanged.
type Chain struct {
	slots [maxChainSlots]Effect
	n     int
}

// NewChain returns an empty Chain.
func NewChain() *Chain {
	return &Chain{}
}

// Append adds effect to the end of the chain. Returns false if the
// chain is already at maxChainSlots; the chain never grows past its
// pre-allocated capacity.
func (c *Chain) Append(effect Effect) bool {
	if c.n >= maxChainSlots {
		return false
	}
	c.slots[c.n] = effect
	c.n++
	return true
}

// Len reports how many slots are occupied.
func (c *Chain) Len() int { return c.n }

// At returns the effect at index i, or nil if out of range.
func (c *Chain) At(i int) Effect {
	if i < 0 || i >= c.n {
		return nil
	}
	return c.slots[i]
}

// Reset resets every effect in the chain.
func (c *Chain) Reset() {
	for i := 0; i < c.n; i++ {
		c.slots[i].Reset()
	}
}

// LatencySamples sums each occupied slot's reported latency.
func (c *Chain) LatencySamples() int {
	total := 0
	for i := 0; i < c.n; i++ {
		total += c.slots[i].LatencySamples()
	}
	return total
}

// Next threads input through every slot in order, each enabled
// effect transforming the running signal; disabled effects are a
// no-op per their own Next implementation.
func (c *Chain) Next(input float32) float32 {
	sample := input
	for i := 0; i < c.n; i++ {
		sample = c.slots[i].Next(sample)
	}
	return sample
}

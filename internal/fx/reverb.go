package fx

import "github.com/signalforge/dawcore/internal/dsp"

// combTuning and allpassTuning are prime-ish delay lengths (in
// samples at 44100Hz) chosen to avoid harmonic relationships that
// cause metallic resonances, grounded on the teacher's Schroeder
// reverb delay-line lengths.
var combTuning = [4]int{1687, 1601, 2053, 2251}
var combDecayBase = [4]float32{0.97, 0.95, 0.93, 0.91}
var allpassTuning = [2]int{389, 307}

const allpassCoef = 0.5
const referenceSampleRate = 44100

type comb struct {
	buf   []float32
	pos   int
	decay float32
}

type allpass struct {
	buf []float32
	pos int
}

// Reverb is a Freeverb-style reverberator: four parallel comb filters
// feeding two series allpass stages, per spec.md §3/§4.H. Delay
// lengths scale with the current sample rate so the reverb's
// character stays constant across 44.1k/48k/96k.
type Reverb struct {
	combs    [4]comb
	allpass  [2]allpass
	roomSize float32 // 0..1, scales comb decay
	damping  float32 // 0..1, further scales comb decay
	mix      float32
	enabled  bool
}

// NewReverb returns a Reverb sized for sampleRate.
func NewReverb(sampleRate float32) *Reverb {
	r := &Reverb{roomSize: 0.5, damping: 0.5, mix: 0.3, enabled: true}
	r.rebuild(sampleRate)
	return r
}

func (r *Reverb) rebuild(sampleRate float32) {
	scale := sampleRate / referenceSampleRate
	if scale <= 0 {
		scale = 1
	}
	for i := range r.combs {
		n := int(float32(combTuning[i]) * scale)
		if n < 1 {
			n = 1
		}
		r.combs[i] = comb{buf: make([]float32, n), decay: combDecayBase[i]}
	}
	for i := range r.allpass {
		n := int(float32(allpassTuning[i]) * scale)
		if n < 1 {
			n = 1
		}
		r.allpass[i] = allpass{buf: make([]float32, n)}
	}
}

// SetSampleRate rebuilds the delay lines scaled to sampleRate. This
// does allocate — unlike Delay, a reverb's internal lengths are
// sample-rate-dependent by construction, so a rate change is treated
// like a fresh instantiation rather than a hot-path operation.
func (r *Reverb) SetSampleRate(sampleRate float32) {
	r.rebuild(sampleRate)
}

// SetEnabled toggles bypass.
func (r *Reverb) SetEnabled(enabled bool) { r.enabled = enabled }

// Enabled reports whether the reverb is active.
func (r *Reverb) Enabled() bool { return r.enabled }

// SetRoomSize sets the 0..1 room size, which scales each comb's decay
// coefficient.
func (r *Reverb) SetRoomSize(size float32) {
	r.roomSize = dsp.ClampF32(size, 0, 1)
}

// SetDamping sets the 0..1 damping amount, which lowers every comb's
// feedback by up to 30% at 1. It acts equally on all frequencies: the
// combs have no low-pass stage, so highs are not damped faster than lows.
func (r *Reverb) SetDamping(damping float32) {
	r.damping = dsp.ClampF32(damping, 0, 1)
}

// SetMix sets the wet/dry balance.
func (r *Reverb) SetMix(mix float32) {
	r.mix = dsp.ClampF32(mix, 0, 1)
}

// Reset clears every internal delay line.
func (r *Reverb) Reset() {
	for i := range r.combs {
		for j := range r.combs[i].buf {
			r.combs[i].buf[j] = 0
		}
		r.combs[i].pos = 0
	}
	for i := range r.allpass {
		for j := range r.allpass[i].buf {
			r.allpass[i].buf[j] = 0
		}
		r.allpass[i].pos = 0
	}
}

// LatencySamples reports the longest comb delay, the dominant
// contributor to the reverb's perceptual onset.
func (r *Reverb) LatencySamples() int {
	longest := 0
	for i := range r.combs {
		if len(r.combs[i].buf) > longest {
			longest = len(r.combs[i].buf)
		}
	}
	return longest
}

// Next processes one input sample and returns the mixed output.
func (r *Reverb) Next(input float32) float32 {
	if !r.enabled {
		return input
	}

	var out float32
	for i := range r.combs {
		c := &r.combs[i]
		delayed := c.buf[c.pos]
		decay := c.decay * (0.7 + 0.3*r.roomSize) * (1 - 0.3*r.damping)
		c.buf[c.pos] = input + delayed*decay
		out += delayed
		c.pos++
		if c.pos >= len(c.buf) {
			c.pos = 0
		}
	}

	for i := range r.allpass {
		a := &r.allpass[i]
		delayed := a.buf[a.pos]
		a.buf[a.pos] = out + delayed*allpassCoef
		out = delayed - out
		a.pos++
		if a.pos >= len(a.buf) {
			a.pos = 0
		}
	}

	wet := out * 0.25 // attenuate the 4-way parallel sum
	return input*(1-r.mix) + wet*r.mix
}

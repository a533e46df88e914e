// Package osc implements the per-voice oscillators: a single tagged
// variant dispatched by a switch on its Kind rather than an interface, so the
// hot path carries no dynamic dispatch, per spec.md §4.D.
package osc

import "github.com/signalforge/dawcore/internal/dsp"

// Kind selects the waveform a given Oscillator generates.
type Kind int

const (
	Sine Kind = iota
	Square
	Saw
	Triangle
	Noise
)

// 23-bit LFSR noise generator, tap positions and seed grounded on the
// teacher's white-noise channel.
const (
	noiseLFSRSeed = 0x7FFFFF
	noiseLFSRMask = 0x7FFFFF
	noiseTap1     = 22
	noiseTap2     = 17
)

// Oscillator is one phase-accumulator-driven waveform generator. Phase
// lives in [0,1); frequency changes take effect on the very next
// sample, never retroactively.
type Oscillator struct {
	kind       Kind
	phase      float32
	phaseInc   float32
	sampleRate float32
	lfsr       uint32
	triState   float32 // leaky-integrator state for the Triangle variant
	wrapped    bool    // true for the sample immediately after a phase wrap
}

// New returns an Oscillator of kind kind running at sampleRate. Call
// SetFrequency before the first Next to establish a non-zero
// phaseInc.
func New(kind Kind, sampleRate float32) *Oscillator {
	return &Oscillator{
		kind:       kind,
		sampleRate: sampleRate,
		lfsr:       noiseLFSRSeed,
		triState:   -1,
	}
}

// Kind reports the oscillator's waveform.
func (o *Oscillator) Kind() Kind { return o.kind }

// SetKind switches waveform without touching phase; callers that want
// a clean edge should Reset afterward.
func (o *Oscillator) SetKind(kind Kind) { o.kind = kind }

// SetSampleRate updates the rate used to derive phaseInc from
// frequency on the next SetFrequency call.
func (o *Oscillator) SetSampleRate(sampleRate float32) {
	o.sampleRate = sampleRate
}

// SetFrequency recomputes phase_increment = frequency / sample_rate.
// A non-positive sampleRate freezes the oscillator at its current
// phase (phaseInc 0) rather than dividing by zero.
func (o *Oscillator) SetFrequency(freq float32) {
	if o.sampleRate <= 0 {
		o.phaseInc = 0
		return
	}
	o.phaseInc = freq / o.sampleRate
}

// Reset sets phase back to zero, as on a non-legato NoteOn.
func (o *Oscillator) Reset() {
	o.phase = 0
	o.triState = -1
}

// Phase returns the current phase, mainly for hard-sync slaves that
// need to snap to a master's wrap.
func (o *Oscillator) Phase() float32 { return o.phase }

// Next advances phase by phaseInc, wraps it modulo 1, and returns the
// waveform value in [-1,+1] for the phase *before* the advance (so a
// caller driving N oscillators in lock-step all sample the same
// instant).
func (o *Oscillator) Next() float32 {
	phase := o.phase
	dt := o.phaseInc

	var out float32
	switch o.kind {
	case Sine:
		out = dsp.SinLUT(phase)
	case Square:
		if phase < 0.5 {
			out = 1
		} else {
			out = -1
		}
		out += dsp.PolyBLEP(phase, dt)
		out -= dsp.PolyBLEP(wrap(phase-0.5), dt)
	case Saw:
		out = 2*phase - 1
		out -= dsp.PolyBLEP(phase, dt)
	case Triangle:
		// A bandlimited square integrated over time produces a
		// bandlimited triangle; a small leak keeps DC drift from
		// accumulating across very long notes.
		var sq float32
		if phase < 0.5 {
			sq = 1
		} else {
			sq = -1
		}
		sq += dsp.PolyBLEP(phase, dt)
		sq -= dsp.PolyBLEP(wrap(phase-0.5), dt)
		o.triState += 4 * dt * sq
		o.triState -= o.triState * 0.0001
		out = o.triState
	case Noise:
		out = o.nextNoise(dt)
	}

	o.phase += dt
	o.wrapped = false
	if o.phase >= 1 {
		o.phase -= 1
		o.wrapped = true
	} else if o.phase < 0 {
		o.phase += 1
	}
	return out
}

// Wrapped reports whether the most recent Next call crossed phase 1
// back to 0, the edge a hard-sync slave resets on.
func (o *Oscillator) Wrapped() bool { return o.wrapped }

func wrap(p float32) float32 {
	if p < 0 {
		return p + 1
	}
	if p >= 1 {
		return p - 1
	}
	return p
}

// nextNoise advances the LFSR by enough steps to cover dt worth of a
// nominal high-rate clock, matching the teacher's "process multiple
// LFSR steps per sample at high frequency" approach, then returns a
// bipolar sample in [-1,+1].
func (o *Oscillator) nextNoise(dt float32) float32 {
	steps := 1
	if dt > 0 {
		// A noise frequency above one step per sample advances the
		// register proportionally more, same intent as the teacher's
		// noisePhase accumulator.
		steps = int(dt*16) + 1
		if steps > 64 {
			steps = 64
		}
	}
	for i := 0; i < steps; i++ {
		newBit := ((o.lfsr >> noiseTap1) ^ (o.lfsr >> noiseTap2)) & 1
		o.lfsr = ((o.lfsr << 1) | newBit) & noiseLFSRMask
	}
	return float32(o.lfsr&1)*2 - 1
}

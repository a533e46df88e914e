package mod

import (
	"math/rand"

	"github.com/signalforge/dawcore/internal/osc"
)

// LFOWaveform selects an LFO's output shape. It reuses the oscillator
// waveforms and adds Random, a variant no audio-rate oscillator has.
type LFOWaveform int

const (
	LFOSine LFOWaveform = iota
	LFOSquare
	LFOSaw
	LFOTriangle
	LFORandom
)

// LFO produces a bipolar [-1,+1] modulation signal at an
// audio-rate-independent rate_hz. Random is sample-and-hold: a new
// uniformly distributed value is drawn at each positive zero crossing
// of an internal counter advanced at rate_hz, per spec.md §4.E.
type LFO struct {
	waveform LFOWaveform
	osc      *osc.Oscillator
	depth    float32

	rate       float32
	holdPhase  float32
	holdValue  float32
	sampleRate float32
	rng        *rand.Rand
}

// NewLFO returns an LFO running at sampleRate, initially Sine at 1Hz,
// full depth.
func NewLFO(sampleRate float32) *LFO {
	o := osc.New(osc.Sine, sampleRate)
	l := &LFO{
		waveform:   LFOSine,
		osc:        o,
		depth:      1,
		rate:       1,
		sampleRate: sampleRate,
		rng:        rand.New(rand.NewSource(1)),
	}
	o.SetFrequency(l.rate)
	return l
}

// SetWaveform switches the LFO's shape.
func (l *LFO) SetWaveform(w LFOWaveform) {
	l.waveform = w
	switch w {
	case LFOSine:
		l.osc.SetKind(osc.Sine)
	case LFOSquare:
		l.osc.SetKind(osc.Square)
	case LFOSaw:
		l.osc.SetKind(osc.Saw)
	case LFOTriangle:
		l.osc.SetKind(osc.Triangle)
	case LFORandom:
		// osc kind is irrelevant; Next() branches before reaching it.
	}
}

// SetRate sets the LFO frequency in Hz. Must be > 0 per spec.md §3; a
// non-positive value is clamped to a small epsilon rather than
// stalling the oscillator.
func (l *LFO) SetRate(rateHz float32) {
	if rateHz <= 0 {
		rateHz = 0.001
	}
	l.rate = rateHz
	l.osc.SetFrequency(rateHz)
}

// SetSampleRate updates the underlying oscillator and hold-phase rate.
func (l *LFO) SetSampleRate(sampleRate float32) {
	l.sampleRate = sampleRate
	l.osc.SetSampleRate(sampleRate)
	l.osc.SetFrequency(l.rate)
}

// RateHz reports the LFO's current rate.
func (l *LFO) RateHz() float32 { return l.rate }

// DepthValue reports the LFO's current depth.
func (l *LFO) DepthValue() float32 { return l.depth }

// SetDepth sets the output scale in [0,1].
func (l *LFO) SetDepth(depth float32) {
	if depth < 0 {
		depth = 0
	} else if depth > 1 {
		depth = 1
	}
	l.depth = depth
}

// Reset restarts the LFO's phase (and, for Random, draws a fresh
// hold value) at phase 0.
func (l *LFO) Reset() {
	l.osc.Reset()
	l.holdPhase = 0
	l.holdValue = float32(l.rng.Float64()*2 - 1)
}

// Next advances the LFO by one sample and returns its bipolar,
// depth-scaled output.
func (l *LFO) Next() float32 {
	if l.waveform != LFORandom {
		return l.osc.Next() * l.depth
	}

	inc := float32(0)
	if l.sampleRate > 0 {
		inc = l.rate / l.sampleRate
	}
	l.holdPhase += inc
	wrapped := l.holdPhase >= 1
	if wrapped {
		l.holdPhase -= 1
	}
	// A positive zero crossing of the counter draws a fresh hold value.
	if wrapped {
		l.holdValue = float32(l.rng.Float64()*2 - 1)
	}
	return l.holdValue * l.depth
}

// Package filter implements the per-voice state-variable filter.
package filter

import (
	"math"

	"github.com/signalforge/dawcore/internal/dsp"
)

// Type selects which of the SVF's simultaneous outputs Next returns.
type Type int

const (
	LowPass Type = iota
	HighPass
	BandPass
	Notch
)

// SVF is a 2-pole Chamberlin state-variable filter producing
// LP/HP/BP/Notch from the same pair of integrators. Cutoff and Q are
// smoothed per-sample to eliminate zipper noise on parameter changes,
// per spec.md §3/§4.G.
type SVF struct {
	kind Type

	sampleRate float32
	cutoffHz   *dsp.Smoother
	q          *dsp.Smoother

	targetCutoff float32
	targetQ      float32

	ic1, ic2 float32 // lowpass and bandpass integrator state
}

// New returns an SVF running at sampleRate, defaulting to LowPass at
// 1000Hz, Q 0.707.
func New(sampleRate float32) *SVF {
	f := &SVF{
		sampleRate:   sampleRate,
		cutoffHz:     dsp.NewSmoother(1000),
		q:            dsp.NewSmoother(0.707),
		targetCutoff: 1000,
		targetQ:      0.707,
	}
	f.cutoffHz.SetTimeSeconds(0.005, sampleRate)
	f.q.SetTimeSeconds(0.005, sampleRate)
	return f
}

// SetType selects LP/HP/BP/Notch output.
func (f *SVF) SetType(t Type) { f.kind = t }

// SetSampleRate updates the rate used both for the cutoff/Q clamps
// and for the smoothers' settling time.
func (f *SVF) SetSampleRate(sampleRate float32) {
	f.sampleRate = sampleRate
	f.cutoffHz.SetTimeSeconds(0.005, sampleRate)
	f.q.SetTimeSeconds(0.005, sampleRate)
}

// SetCutoff sets the target cutoff in Hz, clamped to
// [20, min(sample_rate/3, 20000)] per spec.md's Filter invariant.
func (f *SVF) SetCutoff(hz float32) {
	max := f.sampleRate / 3
	if max > 20000 || max <= 0 {
		max = 20000
	}
	f.targetCutoff = dsp.ClampF32(hz, 20, max)
}

// TargetCutoff reports the most recently requested (pre-smoothing)
// cutoff in Hz.
func (f *SVF) TargetCutoff() float32 { return f.targetCutoff }

// TargetResonance reports the most recently requested
// (pre-smoothing) Q.
func (f *SVF) TargetResonance() float32 { return f.targetQ }

// SetResonance sets the target Q, clamped to [0.5, 20].
func (f *SVF) SetResonance(q float32) {
	f.targetQ = dsp.ClampF32(q, 0.5, 20)
}

// Reset zeros both integrators, as when a voice restarts with a new
// note and wants no filter ringing carried over.
func (f *SVF) Reset() {
	f.ic1 = 0
	f.ic2 = 0
}

// Next filters one input sample and returns the selected output.
func (f *SVF) Next(input float32) float32 {
	cutoffHz := f.cutoffHz.Next(f.targetCutoff)
	q := f.q.Next(f.targetQ)

	// Chamberlin SVF coefficient g = 2*sin(pi*fc/fs); expressed via
	// the normalized-phase sine LUT as sin(2*pi*phase) with
	// phase = fc/(2*fs).
	freq := dsp.ClampF32(cutoffHz, 20, f.sampleRate/3)
	phase := dsp.ClampF32(freq/(2*f.sampleRate), 0, 0.25)
	g := 2 * dsp.SinLUT(phase)
	damp := 1 / q
	// The recursion below is stable only while g*g + 2*g*damp < 4, which
	// high cutoffs at low Q exceed (fc = fs/3 at Q 0.707 does), so g is
	// held under that bound; at Q 0.707 this caps the effective cutoff
	// near 0.15*fs.
	if gMax := 0.9 * (float32(math.Sqrt(float64(damp*damp+4))) - damp); g > gMax {
		g = gMax
	}

	f.ic1 += g * f.ic2
	hp := (input - f.ic1) - damp*f.ic2
	f.ic2 += g * hp
	lp := f.ic1
	bp := f.ic2

	f.ic1 = dsp.ClampF32(f.ic1, -4, 4)
	f.ic2 = dsp.ClampF32(f.ic2, -4, 4)

	switch f.kind {
	case HighPass:
		return hp
	case BandPass:
		return bp
	case Notch:
		return lp + hp
	default:
		return lp
	}
}

// Package dsp provides the sample/timing math and small signal-processing
// primitives shared by every other package in dawcore: a one-pole
// smoother, denormal guards, soft clipping, an atomic float and the
// sine/tanh lookup tables used on the audio hot path.
package dsp

import "math"

// Smoother is a one-pole low-pass filter used to de-zipper control-rate
// parameter changes before they reach the audio-rate DSP graph.
//
// y[n] = y[n-1] + a*(target - y[n-1])
type Smoother struct {
	value float32
	coeff float32
}

// NewSmoother returns a smoother seeded at initial with no smoothing
// coefficient configured; call SetTimeSeconds before first use.
func NewSmoother(initial float32) *Smoother {
	return &Smoother{value: initial, coeff: 1}
}

// SetTimeSeconds configures the coefficient so that, held against a step
// input, the smoother reaches 63.2% of the distance to the target after
// timeSeconds of audio at sampleRate. timeSeconds <= 0 makes the smoother
// track its target instantly (coeff = 1).
func (s *Smoother) SetTimeSeconds(timeSeconds float32, sampleRate float32) {
	if timeSeconds <= 0 || sampleRate <= 0 {
		s.coeff = 1
		return
	}
	// Standard one-pole RC/settling-time relation: a = 1 - exp(-1/(tau*fs)).
	s.coeff = 1 - float32(math.Exp(-1/(float64(timeSeconds)*float64(sampleRate))))
}

// Reset snaps the smoother to value with no further ramp.
func (s *Smoother) Reset(value float32) {
	s.value = value
}

// Value returns the current smoothed output without advancing state.
func (s *Smoother) Value() float32 {
	return s.value
}

// Next advances the smoother one sample toward target and returns the new
// value.
func (s *Smoother) Next(target float32) float32 {
	s.value += s.coeff * (target - s.value)
	return s.value
}

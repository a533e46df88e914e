package mod

import "github.com/signalforge/dawcore/internal/dsp"

// Portamento smooths a voice's base frequency toward a target note
// using a one-pole filter whose time parameter is the 63.2% settling
// time, per spec.md §4.E. It operates purely on frequency, before any
// LFO or mod-matrix pitch contribution is applied.
type Portamento struct {
	smoother *dsp.Smoother
	enabled  bool
}

// NewPortamento returns a Portamento seeded at initialFreqHz.
func NewPortamento(initialFreqHz, sampleRate float32) *Portamento {
	s := dsp.NewSmoother(initialFreqHz)
	return &Portamento{smoother: s}
}

// SetEnabled turns smoothing on or off; when disabled, Next jumps
// directly to the target.
func (p *Portamento) SetEnabled(enabled bool) { p.enabled = enabled }

// SetTimeSeconds configures the 63.2% settling time.
func (p *Portamento) SetTimeSeconds(timeSeconds, sampleRate float32) {
	p.smoother.SetTimeSeconds(timeSeconds, sampleRate)
}

// Reset snaps immediately to freqHz, discarding any in-flight glide.
func (p *Portamento) Reset(freqHz float32) {
	p.smoother.Reset(freqHz)
}

// Next advances the glide one sample toward targetFreqHz and returns
// the current smoothed frequency.
func (p *Portamento) Next(targetFreqHz float32) float32 {
	if !p.enabled {
		p.smoother.Reset(targetFreqHz)
		return targetFreqHz
	}
	return p.smoother.Next(targetFreqHz)
}

// Value returns the current smoothed frequency without advancing.
func (p *Portamento) Value() float32 { return p.smoother.Value() }

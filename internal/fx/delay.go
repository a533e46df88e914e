// Package fx implements the send/insert effects — delay, reverb —
// and the ordered chain wrapper that runs a voice's signal through
// them, per spec.md §3/§4.H.
package fx

import "github.com/signalforge/dawcore/internal/dsp"

// maxSupportedSampleRate bounds the delay line's pre-allocation so a
// later SetSampleRate never needs to grow the buffer; spec.md
// requires buffers sized "for the worst case" at construction.
const maxSupportedSampleRate = 192000

// maxDelaySeconds is the longest delay time the effect chain
// supports.
const maxDelaySeconds = 1.0

// Delay is a circular-buffer delay line with feedback and wet/dry
// mix. Its buffer is sized once, at construction, for the worst case
// (1 second at maxSupportedSampleRate) so SetTimeMs never allocates.
type Delay struct {
	buf        []float32
	writePos   int
	sampleRate float32

	timeMs       *dsp.Smoother
	timeMsTarget float32
	feedback     float32
	mix          float32

	enabled bool
}

// NewDelay returns a Delay running at sampleRate.
func NewDelay(sampleRate float32) *Delay {
	d := &Delay{
		buf:          make([]float32, int(maxSupportedSampleRate*maxDelaySeconds)+1),
		sampleRate:   sampleRate,
		timeMs:       dsp.NewSmoother(250),
		timeMsTarget: 250,
		feedback:     0.3,
		mix:          0.3,
		enabled:      true,
	}
	d.timeMs.SetTimeSeconds(0.02, sampleRate)
	return d
}

// SetSampleRate updates the rate used to convert timeMs to a sample
// count. The buffer itself is never resized.
func (d *Delay) SetSampleRate(sampleRate float32) {
	d.sampleRate = sampleRate
	d.timeMs.SetTimeSeconds(0.02, sampleRate)
}

// SetEnabled toggles whether Next runs the delay or passes
// through unmodified.
func (d *Delay) SetEnabled(enabled bool) { d.enabled = enabled }

// Enabled reports whether the delay is active.
func (d *Delay) Enabled() bool { return d.enabled }

// SetTimeMs sets the target delay time in milliseconds, clamped to
// the pre-allocated buffer's range. Changes are smoothed per-sample
// to avoid clicks from a jumping read pointer.
func (d *Delay) SetTimeMs(ms float32) {
	maxMs := float32(maxDelaySeconds * 1000)
	d.timeMsTarget = dsp.ClampF32(ms, 1, maxMs)
}

// SetFeedback sets the feedback gain, clamped to [0, 0.98] to keep
// the line stable (1.0 feedback would never decay).
func (d *Delay) SetFeedback(fb float32) {
	d.feedback = dsp.ClampF32(fb, 0, 0.98)
}

// SetMix sets the wet/dry balance, 0 = fully dry, 1 = fully wet.
func (d *Delay) SetMix(mix float32) {
	d.mix = dsp.ClampF32(mix, 0, 1)
}

// Reset clears the delay buffer, removing any tail.
func (d *Delay) Reset() {
	for i := range d.buf {
		d.buf[i] = 0
	}
	d.writePos = 0
}

// LatencySamples reports the delay's current read-write offset.
func (d *Delay) LatencySamples() int {
	return int(d.timeMs.Value() * d.sampleRate / 1000)
}

// Next processes one input sample and returns the mixed output.
func (d *Delay) Next(input float32) float32 {
	if !d.enabled {
		return input
	}

	ms := d.timeMs.Next(d.timeMsTarget)
	delaySamples := int(ms * d.sampleRate / 1000)
	if delaySamples < 1 {
		delaySamples = 1
	}
	if delaySamples >= len(d.buf) {
		delaySamples = len(d.buf) - 1
	}

	readPos := d.writePos - delaySamples
	for readPos < 0 {
		readPos += len(d.buf)
	}
	wet := d.buf[readPos]

	d.buf[d.writePos] = input + wet*d.feedback
	d.writePos++
	if d.writePos >= len(d.buf) {
		d.writePos = 0
	}

	return input*(1-d.mix) + wet*d.mix
}

package transport

import (
	"math"

	"github.com/signalforge/dawcore/internal/dsp"
)

// clickDurationSeconds is each pre-rendered click's length.
const clickDurationSeconds = 0.010

// accentToneHz and regularToneHz are the two click pitches, per
// spec.md §4.L ("accent ≈1200 Hz, regular ≈800 Hz").
const (
	accentToneHz  = 1200
	regularToneHz = 800
)

// clickDecayTau sets how quickly the click's exponential envelope
// decays to silence within clickDurationSeconds.
const clickDecayTau = clickDurationSeconds / 5

// renderClick pre-renders a single exponentially-decaying tone burst at
// toneHz, clickDurationSeconds long at sampleRate. RT-safety requires
// this synthesis happen only at construction/sample-rate-change time,
// never inside the per-sample callback.
func renderClick(toneHz float32, sampleRate float32) []float32 {
	n := int(clickDurationSeconds * float64(sampleRate))
	if n < 1 {
		n = 1
	}
	buf := make([]float32, n)
	phaseInc := toneHz / sampleRate
	var phase float32
	for i := range buf {
		t := float64(i) / float64(sampleRate)
		envelope := float32(math.Exp(-t / clickDecayTau))
		buf[i] = dsp.SinLUT(phase) * envelope
		phase += phaseInc
		if phase >= 1 {
			phase -= 1
		}
	}
	return buf
}

// Metronome holds two pre-rendered click buffers (accent and regular)
// and plays one back additively into the output mix when triggered.
// No synthesis happens at runtime, only buffer read and mix, per
// spec.md §4.L's RT-safety note.
type Metronome struct {
	accentBuf, regularBuf []float32
	enabled               bool
	volume                float32

	playing  []float32 // points at accentBuf or regularBuf while a click is sounding
	playhead int
}

// NewMetronome renders both click buffers for sampleRate.
func NewMetronome(sampleRate float32) *Metronome {
	return &Metronome{
		accentBuf:  renderClick(accentToneHz, sampleRate),
		regularBuf: renderClick(regularToneHz, sampleRate),
		enabled:    true,
		volume:     0.5,
	}
}

// SetSampleRate re-renders both click buffers for a new sample rate.
// Like reverb's delay-length rebuild, this is a deliberate, documented
// exception to "no allocation on the audio side" — it only ever runs
// from the control context when the device sample rate changes, never
// from inside the per-sample callback.
func (m *Metronome) SetSampleRate(sampleRate float32) {
	m.accentBuf = renderClick(accentToneHz, sampleRate)
	m.regularBuf = renderClick(regularToneHz, sampleRate)
	m.playing = nil
	m.playhead = 0
}

// SetEnabled toggles whether the metronome produces sound.
func (m *Metronome) SetEnabled(enabled bool) { m.enabled = enabled }

// Enabled reports whether the metronome is currently enabled.
func (m *Metronome) Enabled() bool { return m.enabled }

// SetVolume sets the click playback volume, clamped to [0,1].
func (m *Metronome) SetVolume(v float32) { m.volume = dsp.ClampF32(v, 0, 1) }

// Trigger starts (or restarts) a click playback; accent selects the
// accent buffer over the regular one.
func (m *Metronome) Trigger(accent bool) {
	if accent {
		m.playing = m.accentBuf
	} else {
		m.playing = m.regularBuf
	}
	m.playhead = 0
}

// Next returns the metronome's next output sample (0 if disabled or no
// click is currently sounding) and advances its playhead.
func (m *Metronome) Next() float32 {
	if !m.enabled || m.playing == nil || m.playhead >= len(m.playing) {
		return 0
	}
	sample := m.playing[m.playhead] * m.volume
	m.playhead++
	if m.playhead >= len(m.playing) {
		m.playing = nil
	}
	return sample
}

// NextBeatOffset computes the sample offset (within [0, bufferLen)) of
// the next beat boundary at or after position, and whether that beat
// is an accent (beat 1 of its bar). ok is false if no beat boundary
// falls within this buffer.
func NextBeatOffset(position uint64, bufferLen int, timing dsp.AudioTiming, sig TimeSignature) (offset int, accent bool, ok bool) {
	samplesPerBeat := timing.SamplesPerBeat() * 4 / float64(sig.Denominator)
	if samplesPerBeat <= 0 {
		return 0, false, false
	}
	beatIndex := uint64(math.Ceil(float64(position) / samplesPerBeat))
	nextBeatSample := uint64(float64(beatIndex)*samplesPerBeat + 0.5)
	if nextBeatSample < position {
		beatIndex++
		nextBeatSample = uint64(float64(beatIndex)*samplesPerBeat + 0.5)
	}
	if nextBeatSample >= position+uint64(bufferLen) {
		return 0, false, false
	}

	beatsPerBar := uint64(sig.Numerator)
	if beatsPerBar == 0 {
		beatsPerBar = 4
	}
	accent = beatIndex%beatsPerBar == 0
	return int(nextBeatSample - position), accent, true
}

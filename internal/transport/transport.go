// Package transport implements the sequencer timeline state machine,
// PPQN musical-time conversions, and the metronome, per spec.md §4.L.
package transport

import "github.com/signalforge/dawcore/internal/dsp"

// PPQN is the timeline's fixed pulses-per-quarter-note resolution.
const PPQN = 480

// State is one state in the Transport lifecycle.
type State int

const (
	Stopped State = iota
	Playing
	Paused
	Recording
)

// TimeSignature is a musical time signature, e.g. {4, 4}.
type TimeSignature struct {
	Numerator   int
	Denominator int
}

// MusicalTime is a bar/beat/tick position, all zero-based: Bar and
// Beat count from 0, Tick runs 0..PPQN-1 within a beat.
type MusicalTime struct {
	Bar  uint32
	Beat uint32
	Tick uint32
}

// Transport owns the playback position and state machine. It is
// driven one sample at a time from the audio callback
// (AdvanceOneSample) and controlled from the control context via
// Play/Pause/Stop/Record.
type Transport struct {
	state    State
	position uint64 // samples since position zero
	timing   dsp.AudioTiming
	sig      TimeSignature

	loopEnabled      bool
	loopStartSamples uint64
	loopEndSamples   uint64
}

// New returns a Stopped Transport at position zero, 4/4, using timing
// for sample/tempo conversions.
func New(timing dsp.AudioTiming) *Transport {
	return &Transport{
		timing: timing,
		sig:    TimeSignature{Numerator: 4, Denominator: 4},
	}
}

// State reports the transport's current lifecycle state.
func (t *Transport) State() State { return t.state }

// PositionSamples reports the current position in samples.
func (t *Transport) PositionSamples() uint64 { return t.position }

// SetPositionSamples jumps directly to a sample position, e.g. for a
// SetTransportPosition command or a locate/scrub operation.
func (t *Transport) SetPositionSamples(samples uint64) { t.position = samples }

// SetTempo updates the tempo used for sample↔musical-time conversion.
// Does not move the current sample position.
func (t *Transport) SetTempo(bpm float32) { t.timing.TempoBPM = bpm }

// SetTimeSignature updates the time signature used for bar/beat math.
func (t *Transport) SetTimeSignature(sig TimeSignature) { t.sig = sig }

// TimeSignature reports the current time signature.
func (t *Transport) TimeSignature() TimeSignature { return t.sig }

// Timing reports the AudioTiming used for sample↔musical-time
// conversion, e.g. for the engine's metronome beat scheduling.
func (t *Transport) Timing() dsp.AudioTiming { return t.timing }

// SetLoop configures the loop region in samples. Disabling the loop
// (enabled=false) leaves the bounds stored but inert.
func (t *Transport) SetLoop(enabled bool, startSamples, endSamples uint64) {
	t.loopEnabled = enabled
	t.loopStartSamples = startSamples
	t.loopEndSamples = endSamples
}

// Play transitions Stopped or Paused into Playing. A no-op from
// Recording (already running) or already Playing.
func (t *Transport) Play() {
	if t.state == Stopped || t.state == Paused {
		t.state = Playing
	}
}

// Pause transitions Playing into Paused, preserving position. A no-op
// from any other state.
func (t *Transport) Pause() {
	if t.state == Playing {
		t.state = Paused
	}
}

// Record transitions Playing into Recording. A no-op from any other
// state — recording can only be armed while already rolling.
func (t *Transport) Record() {
	if t.state == Playing {
		t.state = Recording
	}
}

// Stop transitions any state to Stopped, resetting position to zero.
// The caller (the audio callback) is responsible for emptying the
// held-event buffer in the same step, per spec.md §4.L.
func (t *Transport) Stop() {
	t.state = Stopped
	t.position = 0
}

// AdvanceOneSample advances the position by one sample when Playing or
// Recording, wrapping at the loop region if enabled. Returns true if a
// loop wrap occurred this sample (the output buffer still gets a
// sample either way — there is no discontinuity in what's rendered,
// only in the position counter).
func (t *Transport) AdvanceOneSample() (wrapped bool) {
	if t.state != Playing && t.state != Recording {
		return false
	}
	t.position++
	if t.loopEnabled && t.loopEndSamples > t.loopStartSamples && t.position >= t.loopEndSamples {
		t.position = t.loopStartSamples
		return true
	}
	return false
}

// MusicalTime converts the current sample position to bar/beat/tick
// using the active tempo and time signature.
func (t *Transport) MusicalTime() MusicalTime {
	return SamplesToMusicalTime(t.position, t.timing, t.sig)
}

// SamplesToMusicalTime converts a sample position to bar/beat/tick.
func SamplesToMusicalTime(samples uint64, timing dsp.AudioTiming, sig TimeSignature) MusicalTime {
	samplesPerBeat := timing.SamplesPerBeat() * 4 / float64(sig.Denominator)
	if samplesPerBeat <= 0 {
		return MusicalTime{}
	}
	samplesPerTick := samplesPerBeat / PPQN

	totalTicks := uint64(float64(samples)/samplesPerTick + 0.5)
	ticksPerBeat := uint64(PPQN)
	beatsPerBar := uint64(sig.Numerator)
	if beatsPerBar == 0 {
		beatsPerBar = 4
	}

	tick := totalTicks % ticksPerBeat
	totalBeats := totalTicks / ticksPerBeat
	beat := totalBeats % beatsPerBar
	bar := totalBeats / beatsPerBar

	return MusicalTime{Bar: uint32(bar), Beat: uint32(beat), Tick: uint32(tick)}
}

// MusicalTimeToSamples converts a bar/beat/tick position to a sample
// position (the inverse of SamplesToMusicalTime).
func MusicalTimeToSamples(mt MusicalTime, timing dsp.AudioTiming, sig TimeSignature) uint64 {
	samplesPerBeat := timing.SamplesPerBeat() * 4 / float64(sig.Denominator)
	if samplesPerBeat <= 0 {
		return 0
	}
	samplesPerTick := samplesPerBeat / PPQN

	beatsPerBar := uint64(sig.Numerator)
	if beatsPerBar == 0 {
		beatsPerBar = 4
	}
	totalTicks := (uint64(mt.Bar)*beatsPerBar+uint64(mt.Beat))*PPQN + uint64(mt.Tick)
	return uint64(float64(totalTicks)*samplesPerTick + 0.5)
}

// Quantize snaps samples to the nearest multiple of subdivisionTicks
// (expressed in PPQN ticks, e.g. PPQN for a beat, PPQN/4 for a 16th
// note), rounding exact halves up, per spec.md §4.L.
func Quantize(samples uint64, timing dsp.AudioTiming, sig TimeSignature, subdivisionTicks uint32) uint64 {
	if subdivisionTicks == 0 {
		return samples
	}
	samplesPerBeat := timing.SamplesPerBeat() * 4 / float64(sig.Denominator)
	if samplesPerBeat <= 0 {
		return samples
	}
	samplesPerSubdivision := samplesPerBeat / PPQN * float64(subdivisionTicks)
	if samplesPerSubdivision <= 0 {
		return samples
	}
	units := float64(samples) / samplesPerSubdivision
	snapped := uint64(units + 0.5) // halves round up
	return uint64(float64(snapped) * samplesPerSubdivision)
}

package voice

import (
	"math"

	"github.com/signalforge/dawcore/internal/dsp"
	"github.com/signalforge/dawcore/internal/filter"
	"github.com/signalforge/dawcore/internal/fx"
	"github.com/signalforge/dawcore/internal/mod"
)

// State is one state in the Voice lifecycle: Idle ⇔ envelope.stage =
// Idle; Active → Releasing on NoteOff; Releasing → Idle only when the
// envelope itself reaches Idle, per spec.md §3.
type State int

const (
	Idle State = iota
	Active
	Releasing
)

// forceStopFadeSeconds is the length of the short exponential fade
// force_stop() applies instead of jumping straight to silence, avoiding
// a click; forceStopFloor is the gain (-60 dB) the fade has reached
// when the voice goes Idle.
const (
	forceStopFadeSeconds = 0.005
	forceStopFloor       = 0.001
)

// Voice is one note's complete DSP graph: portamento → LFOs/envelope
// → mod matrix → final frequency → sound source → filter → effect
// chain → envelope amplitude → equal-power pan → stereo accumulate,
// per spec.md §4.I.
type Voice struct {
	state State
	note  uint8
	velo  uint8
	age   uint64

	sampleRate float32
	baseFreq   float32 // the note's unmodulated frequency, before portamento

	source      SoundSource
	envelope    *mod.Envelope
	lfo1, lfo2  *mod.LFO
	portamento  *mod.Portamento
	filterStage *filter.SVF
	chain       *fx.Chain
	matrix      *mod.Matrix

	pan       float32 // -1..+1
	baseVolume float32 // unmodulated linear gain, 0..4

	baseCutoffHz  float32
	baseResonance float32

	baseLFO1Rate, baseLFO1Depth float32
	baseLFO2Rate, baseLFO2Depth float32

	forceStopFade   float32 // fade progress: 1 when not stopping, falls linearly to 0
	forceStopActive bool

	aftertouch float32
	modWheel   float32
	pitchBend  float32
}

// New returns an Idle voice running at sampleRate, with a sine
// oscillator source, an empty effect chain, and a disabled mod matrix.
func New(sampleRate float32) *Voice {
	v := &Voice{
		sampleRate:    sampleRate,
		source:        NewOscillatorSource(sampleRate),
		envelope:      mod.NewEnvelope(sampleRate),
		lfo1:          mod.NewLFO(sampleRate),
		lfo2:          mod.NewLFO(sampleRate),
		portamento:    mod.NewPortamento(440, sampleRate),
		filterStage:   filter.New(sampleRate),
		chain:         fx.NewChain(),
		matrix:        mod.NewMatrix(),
		forceStopFade: 1,
		baseVolume:    1,
		baseCutoffHz:  1000,
		baseResonance: 0.707,
		baseLFO1Rate:  1,
		baseLFO2Rate:  1,
		baseLFO1Depth: 1,
		baseLFO2Depth: 1,
	}
	v.portamento.SetEnabled(false)
	return v
}

// State reports the voice's lifecycle state.
func (v *Voice) State() State { return v.state }

// Note reports the MIDI note number the voice is currently sounding
// (meaningful only when State != Idle).
func (v *Voice) Note() uint8 { return v.note }

// Age reports how many samples have elapsed since NoteOn, incremented
// by the audio context in whole-buffer steps.
func (v *Voice) Age() uint64 { return v.age }

// AdvanceAge is called once per rendered buffer by the owning
// VoiceManager with the buffer's frame count.
func (v *Voice) AdvanceAge(frames uint64) { v.age += frames }

// Source exposes the voice's sound source for configuration
// (waveform, cross-mod) by the control context.
func (v *Voice) Source() SoundSource { return v.source }

// SetSource replaces the voice's sound source, e.g. with a
// sampler.Source in place of the default OscillatorSource.
func (v *Voice) SetSource(s SoundSource) { v.source = s }

// Envelope exposes the voice's envelope for ADSR configuration.
func (v *Voice) Envelope() *mod.Envelope { return v.envelope }

// LFO1 exposes the voice's first LFO.
func (v *Voice) LFO1() *mod.LFO { return v.lfo1 }

// LFO2 exposes the voice's second LFO.
func (v *Voice) LFO2() *mod.LFO { return v.lfo2 }

// Portamento exposes the voice's glide smoother.
func (v *Voice) Portamento() *mod.Portamento { return v.portamento }

// Filter exposes the voice's SVF.
func (v *Voice) Filter() *filter.SVF { return v.filterStage }

// Chain exposes the voice's effect chain.
func (v *Voice) Chain() *fx.Chain { return v.chain }

// Matrix exposes the voice's mod matrix.
func (v *Voice) Matrix() *mod.Matrix { return v.matrix }

// SetFilterCutoff sets the filter's unmodulated base cutoff in Hz;
// the mod matrix's FilterCutoff sum is applied on top of this each
// sample rather than mutating it permanently.
func (v *Voice) SetFilterCutoff(hz float32) { v.baseCutoffHz = hz }

// SetFilterResonance sets the filter's unmodulated base Q.
func (v *Voice) SetFilterResonance(q float32) { v.baseResonance = q }

// SetLFORate sets LFO 1 or 2's unmodulated base rate in Hz.
func (v *Voice) SetLFORate(which int, hz float32) {
	if which == 2 {
		v.baseLFO2Rate = hz
	} else {
		v.baseLFO1Rate = hz
	}
}

// SetLFODepth sets LFO 1 or 2's unmodulated base depth.
func (v *Voice) SetLFODepth(which int, depth float32) {
	if which == 2 {
		v.baseLFO2Depth = depth
	} else {
		v.baseLFO1Depth = depth
	}
}

// SetPan sets the voice's stereo position, clamped to [-1,+1].
func (v *Voice) SetPan(pan float32) { v.pan = dsp.ClampF32(pan, -1, 1) }

// SetVolume sets the voice's unmodulated linear gain, clamped to
// [0,4] (the same headroom the per-sample gain, this times the
// envelope level and the mod matrix's Volume sum, is clamped into at
// mix time).
func (v *Voice) SetVolume(gain float32) { v.baseVolume = dsp.ClampF32(gain, 0, 4) }

// SetAftertouch feeds the mod matrix's Aftertouch source.
func (v *Voice) SetAftertouch(v01 float32) { v.aftertouch = v01 }

// SetModWheel feeds the mod matrix's ModWheel source.
func (v *Voice) SetModWheel(v01 float32) { v.modWheel = v01 }

// SetPitchBend feeds the mod matrix's PitchBend source, in -1..+1.
func (v *Voice) SetPitchBend(bend float32) { v.pitchBend = bend }

// noteToFreq converts a MIDI note number to Hz, A4 = note 69 = 440Hz.
func noteToFreq(note uint8) float32 {
	return 440 * float32(math.Pow(2, (float64(note)-69)/12))
}

// NoteOn starts (or, for Mono/Legato retargeting, retargets) the
// voice at note with velocity. retrigger controls whether the
// envelope restarts — false supports Legato's no-retrigger-while-held
// behavior; portamento always retargets regardless.
func (v *Voice) NoteOn(note, velocity uint8, retrigger bool) {
	v.note = note
	v.velo = velocity
	v.baseFreq = noteToFreq(note)
	v.age = 0
	v.state = Active
	v.forceStopActive = false
	v.forceStopFade = 1

	if retrigger {
		v.envelope.NoteOn(velocity)
		v.source.Reset()
		v.lfo1.Reset()
		v.lfo2.Reset()
	}
	v.portamento.Next(v.baseFreq) // retarget glide target immediately
}

// NoteOff transitions Active → Releasing. A no-op if the voice is
// already Idle or Releasing.
func (v *Voice) NoteOff() {
	if v.state != Active {
		return
	}
	v.state = Releasing
	v.envelope.NoteOff()
}

// ForceStop starts a short exponential fade instead of an abrupt
// silence; the voice goes Idle when the fade ends, forceStopFadeSeconds
// later, per spec.md §4.I.
func (v *Voice) ForceStop() {
	v.forceStopActive = true
}

// IsFree reports whether the voice may be allocated to a new note
// without stealing: it is genuinely Idle.
func (v *Voice) IsFree() bool { return v.state == Idle }

// Next advances every stage of the voice's graph by one sample and
// returns a stereo (left, right) pair. Callers holding an Idle voice
// should not call Next — VoiceManager skips Idle voices during mix.
func (v *Voice) Next() (float32, float32) {
	if v.forceStopActive {
		v.forceStopFade -= 1 / (forceStopFadeSeconds * v.sampleRate)
		if v.forceStopFade <= 0 {
			v.forceStopFade = 0
			v.forceStopActive = false
			v.state = Idle
			v.envelope.ForceStop()
		}
	}

	lfo1Out := v.lfo1.Next()
	lfo2Out := v.lfo2.Next()
	envLevel := v.envelope.Next()

	if v.state == Releasing && v.envelope.IsIdle() {
		v.state = Idle
	}

	sums := v.matrix.Evaluate(mod.Sources{
		LFO1:        lfo1Out,
		LFO2:        lfo2Out,
		Velocity:    float32(v.velo) / 127,
		Aftertouch:  v.aftertouch,
		ModWheel:    v.modWheel,
		Envelope:    envLevel,
		PitchBend:   v.pitchBend,
		KeyTracking: (float32(v.note) - 60) / 60,
	})

	v.lfo1.SetRate(v.baseLFO1Rate + sums.LFORate(1))
	v.lfo2.SetRate(v.baseLFO2Rate + sums.LFORate(2))
	v.lfo1.SetDepth(dsp.ClampF32(v.baseLFO1Depth+sums.LFODepth(1), 0, 1))
	v.lfo2.SetDepth(dsp.ClampF32(v.baseLFO2Depth+sums.LFODepth(2), 0, 1))

	glideFreq := v.portamento.Next(v.baseFreq)
	finalFreq := glideFreq * dsp.Exp2LUT(sums.Pitch()/12)
	v.source.SetFrequency(finalFreq)

	raw := v.source.NextSample()
	v.filterStage.SetCutoff(v.baseCutoffHz * (1 + sums.FilterCutoff()))
	v.filterStage.SetResonance(v.baseResonance + sums.FilterResonance())
	filtered := v.filterStage.Next(raw)

	processed := v.chain.Next(filtered)

	gain := dsp.ClampF32(v.baseVolume*envLevel*(1+sums.Volume()), 0, 4)
	if v.forceStopActive || v.forceStopFade < 1 {
		// Gain falls exponentially from 1 to forceStopFloor as the
		// progress counter runs from 1 to 0, then is cut to silence.
		if v.forceStopFade > 0 {
			gain *= float32(math.Pow(forceStopFloor, float64(1-v.forceStopFade)))
		} else {
			gain = 0
		}
	}
	amp := processed * gain

	panSum := dsp.ClampF32(v.pan+sums.Pan(), -1, 1)
	// Equal-power pan law: angle sweeps 0..pi/2 across -1..+1.
	angle := float64((panSum + 1) * 0.25 * math.Pi)
	left := amp * float32(math.Cos(angle))
	right := amp * float32(math.Sin(angle))
	return left, right
}

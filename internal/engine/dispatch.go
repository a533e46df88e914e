package engine

import (
	"github.com/signalforge/dawcore/internal/command"
	"github.com/signalforge/dawcore/internal/filter"
	"github.com/signalforge/dawcore/internal/midi"
	"github.com/signalforge/dawcore/internal/mod"
	"github.com/signalforge/dawcore/internal/osc"
	"github.com/signalforge/dawcore/internal/transport"
	"github.com/signalforge/dawcore/internal/voice"
)

// applyMidi dispatches one decoded MIDI event to the voice manager.
// Control Change, Channel Pressure and Pitch Bend update every
// sounding voice's corresponding modulation input directly (there is
// no per-note addressing in MIDI 1.0 for these), per spec.md §3's
// Voice Sources.
func (e *Engine) applyMidi(ev midi.Event) {
	switch ev.Kind {
	case midi.KindNoteOn:
		e.voices.NoteOn(ev.Note, ev.Velocity)
	case midi.KindNoteOff:
		e.voices.NoteOff(ev.Note)
	case midi.KindChannelPressure:
		at := float32(ev.Value) / 127
		for _, v := range e.voices.Voices() {
			v.SetAftertouch(at)
		}
	case midi.KindControlChange:
		if ev.Controller == 1 { // mod wheel
			mw := float32(ev.Value) / 127
			for _, v := range e.voices.Voices() {
				v.SetModWheel(mw)
			}
		}
	case midi.KindPitchBend:
		bend := float32(ev.Bend) / 8192
		for _, v := range e.voices.Voices() {
			v.SetPitchBend(bend)
		}
	}
}

// applyCommand dispatches one control-context command. Per-voice
// parameter commands (everything but transport/tempo/metronome/MIDI)
// always update the global mirror first, then additionally address a
// specific pool slot directly via VoiceIndex for a voice already
// sounding. A slot addressed while Idle is, by spec.md §4.M's wording,
// a voice that "does not yet exist" for this command's purpose: the
// direct stamp onto it is harmless filler (an Idle voice produces no
// sound), and it is the mirror — applied to every voice the instant it
// is actually allocated, via Manager's allocation hook — that is what
// makes the change "take effect on subsequent voices".
func (e *Engine) applyCommand(cmd command.Command) {
	switch cmd.Kind {
	case command.KindSetTempo:
		e.transport.SetTempo(cmd.F32)
		return
	case command.KindSetTimeSignature:
		e.transport.SetTimeSignature(transport.TimeSignature{
			Numerator:   cmd.TimeSignature.Numerator,
			Denominator: cmd.TimeSignature.Denominator,
		})
		return
	case command.KindSetTransportPlaying:
		if cmd.Bool {
			e.transport.Play()
		} else {
			e.transport.Pause()
		}
		return
	case command.KindSetTransportPosition:
		e.transport.SetPositionSamples(uint64(cmd.I32))
		return
	case command.KindSetMetronomeEnabled:
		e.metronome.SetEnabled(cmd.Bool)
		return
	case command.KindSetMetronomeVolume:
		e.metronome.SetVolume(cmd.F32)
		return
	case command.KindMidi:
		e.applyMidi(cmd.Midi.Event)
		return
	case command.KindSetPolyMode:
		e.voices.SetPolyMode(voice.PolyMode(cmd.I32))
		return
	}

	e.mirror.Apply(cmd)

	voices := e.voices.Voices()
	if cmd.VoiceIndex < 0 || cmd.VoiceIndex >= len(voices) {
		return
	}
	e.applyPerVoiceCommand(voices[cmd.VoiceIndex], cmd)
}

// applyMirrorToVoice stamps the engine's global parameter mirror onto
// v the instant it starts sounding a new note (direct allocation,
// steal completion, or a fresh mono/legato voice) — the Manager's
// allocation hook, wired in engine.New. This is what makes a per-voice
// command that arrived while no voice existed yet "take effect on
// subsequent voices" per spec.md §4.M/§4.J: a voice born after such a
// command picks up the mirror's current values as its baseline, and
// any later directly-addressed command for that slot overrides them
// as usual.
func (e *Engine) applyMirrorToVoice(v *voice.Voice) {
	m := e.mirror
	v.SetVolume(m.Volume)
	v.SetPan(m.Pan)
	if src, ok := v.Source().(*voice.OscillatorSource); ok {
		src.SetKind(osc.Kind(m.Waveform))
	}
	v.Envelope().SetADSR(m.Adsr.AttackSeconds, m.Adsr.DecaySeconds, m.Adsr.Sustain, m.Adsr.ReleaseSeconds)

	for _, l := range []command.Lfo{m.Lfo1, m.Lfo2} {
		lfo := v.LFO1()
		if l.Index == 2 {
			lfo = v.LFO2()
		}
		lfo.SetWaveform(mod.LFOWaveform(l.Waveform))
		v.SetLFORate(l.Index, l.RateHz)
		v.SetLFODepth(l.Index, l.Depth)
	}

	v.Filter().SetType(filter.Type(m.Filter.Type))
	v.SetFilterCutoff(m.Filter.CutoffHz)
	v.SetFilterResonance(m.Filter.Resonance)

	v.Portamento().SetEnabled(m.PortamentoSeconds > 0)
	v.Portamento().SetTimeSeconds(m.PortamentoSeconds, e.sampleRate)

	for i := range m.ModRoutings {
		r := m.ModRoutings[i]
		v.Matrix().SetSlot(i, mod.Slot{
			Source:      mod.Source(r.Source),
			Destination: mod.Destination(r.Destination),
			Depth:       r.Depth,
			Enabled:     r.Enabled,
		})
	}
}

func (e *Engine) applyPerVoiceCommand(v *voice.Voice, cmd command.Command) {
	switch cmd.Kind {
	case command.KindSetVolume:
		v.SetVolume(cmd.F32)
	case command.KindSetPan:
		v.SetPan(cmd.F32)
	case command.KindSetWaveform:
		if src, ok := v.Source().(*voice.OscillatorSource); ok {
			src.SetKind(osc.Kind(cmd.I32))
		}
	case command.KindSetAdsr:
		v.Envelope().SetADSR(cmd.Adsr.AttackSeconds, cmd.Adsr.DecaySeconds, cmd.Adsr.Sustain, cmd.Adsr.ReleaseSeconds)
	case command.KindSetLfo:
		l := v.LFO1()
		if cmd.Lfo.Index == 2 {
			l = v.LFO2()
		}
		l.SetWaveform(mod.LFOWaveform(cmd.Lfo.Waveform))
		v.SetLFORate(cmd.Lfo.Index, cmd.Lfo.RateHz)
		v.SetLFODepth(cmd.Lfo.Index, cmd.Lfo.Depth)
	case command.KindSetFilter:
		v.Filter().SetType(filter.Type(cmd.Filter.Type))
		v.SetFilterCutoff(cmd.Filter.CutoffHz)
		v.SetFilterResonance(cmd.Filter.Resonance)
	case command.KindSetPortamento:
		v.Portamento().SetEnabled(cmd.F32 > 0)
		v.Portamento().SetTimeSeconds(cmd.F32, e.sampleRate)
	case command.KindSetModRouting:
		v.Matrix().SetSlot(cmd.ModRouting.Slot, mod.Slot{
			Source:      mod.Source(cmd.ModRouting.Source),
			Destination: mod.Destination(cmd.ModRouting.Destination),
			Depth:       cmd.ModRouting.Depth,
			Enabled:     cmd.ModRouting.Enabled,
		})
	case command.KindClearModRouting:
		v.Matrix().ClearSlot(cmd.ModRouting.Slot)
	}
}

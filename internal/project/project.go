// Package project defines the data shape of a saved session —
// ProjectSnapshot — and the Recorder interface the audio/control
// contexts notify as state changes, per spec.md §4.O. Persisting a
// Recorder's output to a file format, and project management/
// migration around it, stay external to this module: this package
// only supplies the struct shape and a reference YAML implementation.
package project

import "github.com/signalforge/dawcore/internal/command"

// EffectSettings snapshots one voice slot's effect chain parameters,
// flattened out of the live fx.Delay/fx.Reverb instances a Voice owns
// so they can be captured and restored independent of any running
// Engine.
type EffectSettings struct {
	DelayEnabled   bool
	DelayTimeMs    float32
	DelayFeedback  float32
	DelayMix       float32
	ReverbEnabled  bool
	ReverbRoomSize float32
	ReverbDamping  float32
	ReverbMix      float32
}

// VoiceSlot snapshots one voice pool slot's patch: everything
// command.Mirror tracks for that slot, plus its effect settings.
type VoiceSlot struct {
	Volume            float32
	Pan               float32
	Waveform          int32
	Adsr              command.Adsr
	Lfo1, Lfo2        command.Lfo
	Filter            command.Filter
	PortamentoSeconds float32
	ModRoutings       [8]command.ModRouting
	Effects           EffectSettings
}

// ProjectSnapshot captures enough state — tempo, time signature,
// per-voice-slot patch parameters, mod routings, effect settings —
// for an external collaborator to serialize a project, per spec.md
// §4.O. It is a plain data snapshot: nothing here reads back live
// Engine state on its own; a caller fills it in (e.g. by walking
// Engine.Voices() and the Mirror) and hands it to a Recorder/encoder.
type ProjectSnapshot struct {
	Name          string
	TempoBPM      float32
	TimeSignature command.TimeSignature
	PolyMode      int32
	Voices        []VoiceSlot
}

// MidiEventTimed is the note-event shape Recorder.NotePlayed receives:
// a MIDI note on/off paired with the sample offset it landed at,
// independent of internal/midi's wire-decoding concerns.
type MidiEventTimed struct {
	Note     uint8
	Velocity uint8
	On       bool
	Offset   uint32
}

// Recorder is notified of state changes as they happen, so an
// external collaborator can build a project history (undo log, edit
// timeline, or a live snapshot writer) without the audio/control
// contexts depending on any particular persistence mechanism.
type Recorder interface {
	NotePlayed(ev MidiEventTimed)
	ParameterChanged(id string, value float32)
}

// NoOpRecorder implements Recorder by discarding every call; the
// default when no external collaborator has attached one.
type NoOpRecorder struct{}

func (NoOpRecorder) NotePlayed(MidiEventTimed)        {}
func (NoOpRecorder) ParameterChanged(string, float32) {}

var _ Recorder = NoOpRecorder{}

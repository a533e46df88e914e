// Package command implements the tagged-union commands and
// notifications that cross the control/audio context boundary over
// internal/ring SPSC queues, per spec.md §4.M.
package command

import "github.com/signalforge/dawcore/internal/midi"

// Kind tags the variant held by a Command.
type Kind int

const (
	KindSetVolume Kind = iota
	KindSetPan
	KindSetWaveform
	KindSetAdsr
	KindSetLfo
	KindSetFilter
	KindSetPolyMode
	KindSetPortamento
	KindSetModRouting
	KindClearModRouting
	KindSetTempo
	KindSetTimeSignature
	KindSetTransportPlaying
	KindSetTransportPosition
	KindSetMetronomeEnabled
	KindSetMetronomeVolume
	KindMidi
)

// Adsr carries the four envelope stage times/level a SetAdsr command
// updates together, matching mod.Envelope.SetADSR's signature.
type Adsr struct {
	AttackSeconds  float32
	DecaySeconds   float32
	Sustain        float32
	ReleaseSeconds float32
}

// Lfo carries a SetLfo command's target LFO index (1 or 2) and new
// waveform/rate/depth/destination.
type Lfo struct {
	Index       int
	Waveform    int // mirrors mod.LFOWaveform
	RateHz      float32
	Depth       float32
	Destination int // mirrors mod.Destination, only meaningful when routed via the matrix
}

// Filter carries a SetFilter command's type/cutoff/resonance/enabled.
type Filter struct {
	Type      int // mirrors filter.Type
	CutoffHz  float32
	Resonance float32
	Enabled   bool
}

// ModRouting carries a SetModRouting command's full mod.Slot contents.
type ModRouting struct {
	Slot        int
	Source      int // mirrors mod.Source
	Destination int // mirrors mod.Destination
	Depth       float32
	Enabled     bool
}

// TimeSignature carries a SetTimeSignature command's numerator/
// denominator.
type TimeSignature struct {
	Numerator   int
	Denominator int
}

// Command is an immutable tagged-variant control message produced by
// the control context and consumed, once, by the audio callback. Only
// the fields relevant to Kind are meaningful. Commands are idempotent
// with respect to their atomic effect (applying the same Command twice
// leaves the same end state) but are removed from the ring after a
// single application — the ring never redelivers.
//
// VoiceIndex selects which voice in the pool a per-voice field (volume,
// pan, waveform, ADSR, LFO, filter, portamento, mod routing) targets;
// -1 means "the global parameter mirror, applied to every future
// voice allocation" for commands that arrive before any voice exists
// yet to receive them.
type Command struct {
	Kind Kind

	// Offset is samples_from_now against the next audio buffer,
	// mirroring midi.Timed.Offset: zero applies immediately, a
	// positive value holds the command in the per-callback held-event
	// buffer alongside MIDI events, per spec.md §4.K step 3.
	Offset uint32

	VoiceIndex int

	F32  float32
	Bool bool
	I32  int32

	Adsr          Adsr
	Lfo           Lfo
	Filter        Filter
	ModRouting    ModRouting
	TimeSignature TimeSignature
	Midi          midi.Timed
}

// GlobalVoiceIndex is the VoiceIndex sentinel meaning "apply to the
// global parameter mirror, not a specific voice."
const GlobalVoiceIndex = -1

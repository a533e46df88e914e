// Package midi implements the minimal MIDI 1.0 event model and wire
// parser dawcore's audio context consumes: Note On/Off, Control Change,
// Channel Pressure and Pitch Bend, each timestamped in samples against
// the next audio buffer.
package midi

// Kind tags the variant held by an Event.
type Kind int

const (
	KindNoteOn Kind = iota
	KindNoteOff
	KindControlChange
	KindChannelPressure
	KindPitchBend
)

// Event is an immutable tagged-variant MIDI message. Only the fields
// relevant to Kind are meaningful; the zero value of the others is
// ignored by consumers.
type Event struct {
	Kind       Kind
	Channel    uint8
	Note       uint8 // NoteOn/NoteOff: 0..127
	Velocity   uint8 // NoteOn: 1..127 (0 is normalized to NoteOff by the parser)
	Controller uint8 // ControlChange: 0..127
	Value      uint8 // ControlChange/ChannelPressure: 0..127
	Bend       int16 // PitchBend: -8192..+8191
}

// NoteOn constructs a NoteOn event. Callers that might observe a
// zero-velocity NoteOn should prefer ParseMessage, which already applies
// the NoteOn-velocity-0-is-NoteOff normalization.
func NoteOn(channel, note, velocity uint8) Event {
	return Event{Kind: KindNoteOn, Channel: channel, Note: note, Velocity: velocity}
}

// NoteOff constructs a NoteOff event.
func NoteOff(channel, note uint8) Event {
	return Event{Kind: KindNoteOff, Channel: channel, Note: note}
}

// Timed pairs an Event with its sample-accurate offset against the start
// of the next audio buffer to be rendered. An event whose Offset exceeds
// the buffer currently being produced is held by the consumer and its
// Offset decremented by the buffer length each callback until it falls
// due.
type Timed struct {
	Event  Event
	Offset uint32 // samples_from_now
}

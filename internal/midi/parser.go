package midi

import (
	"time"

	"github.com/signalforge/dawcore/internal/dsp"
)

// Status byte ranges for the MIDI 1.0 channel voice messages this
// engine interprets. Anything outside these ranges (system messages,
// polyphonic aftertouch, program change, …) is ignored per spec.md §6.
const (
	statusNoteOff         = 0x80
	statusNoteOn          = 0x90
	statusControlChange   = 0xB0
	statusChannelPressure = 0xD0
	statusPitchBend       = 0xE0
)

// Parser turns raw MIDI 1.0 byte messages into sample-timestamped
// Events. Running-status parsing is not required; malformed messages
// are dropped. Parser is stateful only in that it remembers
// most-recently-seen MSB-half Control Change values to support
// MSB/LSB pairing reassembly — it is not safe for concurrent use by
// more than one input context.
type Parser struct {
	timing dsp.AudioTiming

	// pendingMSB holds the last-seen coarse (0-31) CC value per channel,
	// keyed by controller number, awaiting its paired LSB (controller+32).
	pendingMSB [16][32]uint8
	hasPending [16][32]bool
}

// NewParser returns a Parser that timestamps events against timing.
func NewParser(timing dsp.AudioTiming) *Parser {
	return &Parser{timing: timing}
}

// SetTiming updates the AudioTiming used to compute sample offsets.
// Called by the control context when sample rate or tempo changes.
func (p *Parser) SetTiming(timing dsp.AudioTiming) {
	p.timing = timing
}

// Parse decodes a single MIDI message received at arrivedAt (input
// device clock) and returns it timestamped relative to bufferStart, the
// instant the next audio buffer will begin rendering. ok is false for
// malformed or unrecognized messages; callers must drop the event in
// that case rather than emit a zero-value Event.
func (p *Parser) Parse(data []byte, arrivedAt, bufferStart time.Time) (Timed, bool) {
	ev, ok := p.ParseMessage(data)
	if !ok {
		return Timed{}, false
	}

	var offset uint32
	if d := arrivedAt.Sub(bufferStart); d > 0 {
		offset = p.timing.DurationToSamples(d)
	}
	return Timed{Event: ev, Offset: offset}, true
}

// ParseMessage decodes the event portion of a MIDI message without
// attaching a timestamp. Exposed so callers that already have a sample
// offset (e.g. a pre-recorded sequence) can skip wall-clock conversion.
func (p *Parser) ParseMessage(data []byte) (Event, bool) {
	if len(data) == 0 {
		return Event{}, false
	}
	status := data[0]
	if status&0x80 == 0 {
		return Event{}, false // not a status byte; running status unsupported
	}
	channel := status & 0x0F

	switch status & 0xF0 {
	case statusNoteOff:
		if len(data) < 3 {
			return Event{}, false
		}
		note := data[1] & 0x7F
		return NoteOff(channel, note), true

	case statusNoteOn:
		if len(data) < 3 {
			return Event{}, false
		}
		note := data[1] & 0x7F
		velocity := data[2] & 0x7F
		if velocity == 0 {
			// NoteOn velocity 0 is equivalent to NoteOff.
			return NoteOff(channel, note), true
		}
		return NoteOn(channel, note, velocity), true

	case statusControlChange:
		if len(data) < 3 {
			return Event{}, false
		}
		controller := data[1] & 0x7F
		value := data[2] & 0x7F
		return p.controlChange(channel, controller, value), true

	case statusChannelPressure:
		if len(data) < 2 {
			return Event{}, false
		}
		return Event{Kind: KindChannelPressure, Channel: channel, Value: data[1] & 0x7F}, true

	case statusPitchBend:
		if len(data) < 3 {
			return Event{}, false
		}
		lsb := uint16(data[1] & 0x7F)
		msb := uint16(data[2] & 0x7F)
		raw := (msb << 7) | lsb // 0..16383, center at 8192
		return Event{Kind: KindPitchBend, Channel: channel, Bend: int16(raw) - 8192}, true

	default:
		return Event{}, false
	}
}

// controlChange applies MSB/LSB pairing reassembly: standard MIDI
// reserves controllers 0-31 as coarse (MSB) values each paired with a
// fine (LSB) controller at +32. Per spec.md §4.B this reassembly only
// happens when the device actually sends the pair; a bare MSB (no LSB
// follow-up) is passed through immediately as a 7-bit CC so a
// single-precision controller never stalls waiting for a partner that
// never arrives.
func (p *Parser) controlChange(channel, controller, value uint8) Event {
	if controller < 32 {
		p.pendingMSB[channel][controller] = value
		p.hasPending[channel][controller] = true
		return Event{Kind: KindControlChange, Channel: channel, Controller: controller, Value: value}
	}
	if controller < 64 {
		coarse := controller - 32
		if p.hasPending[channel][coarse] {
			p.hasPending[channel][coarse] = false
			// The model only carries a 7-bit value; the reassembled
			// event reaffirms the coarse controller rather than
			// duplicating a second CC for the fine half.
			return Event{Kind: KindControlChange, Channel: channel, Controller: coarse, Value: p.pendingMSB[channel][coarse]}
		}
	}
	return Event{Kind: KindControlChange, Channel: channel, Controller: controller, Value: value}
}

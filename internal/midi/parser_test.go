package midi

import (
	"testing"
	"time"

	"github.com/signalforge/dawcore/internal/dsp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestParser() *Parser {
	return NewParser(dsp.NewAudioTiming(48000, 120))
}

func TestParseNoteOn(t *testing.T) {
	p := newTestParser()
	ev, ok := p.ParseMessage([]byte{0x90, 60, 100})
	require.True(t, ok)
	assert.Equal(t, KindNoteOn, ev.Kind)
	assert.EqualValues(t, 60, ev.Note)
	assert.EqualValues(t, 100, ev.Velocity)
}

func TestNoteOnZeroVelocityIsNoteOff(t *testing.T) {
	p := newTestParser()
	ev, ok := p.ParseMessage([]byte{0x90, 60, 0})
	require.True(t, ok)
	assert.Equal(t, KindNoteOff, ev.Kind)
	assert.EqualValues(t, 60, ev.Note)
}

func TestParseNoteOff(t *testing.T) {
	p := newTestParser()
	ev, ok := p.ParseMessage([]byte{0x80, 60, 64})
	require.True(t, ok)
	assert.Equal(t, KindNoteOff, ev.Kind)
}

func TestParsePitchBendCenter(t *testing.T) {
	p := newTestParser()
	ev, ok := p.ParseMessage([]byte{0xE0, 0, 64})
	require.True(t, ok)
	assert.Equal(t, KindPitchBend, ev.Kind)
	assert.EqualValues(t, 0, ev.Bend)
}

func TestParsePitchBendExtremes(t *testing.T) {
	p := newTestParser()
	lo, ok := p.ParseMessage([]byte{0xE0, 0, 0})
	require.True(t, ok)
	assert.EqualValues(t, -8192, lo.Bend)

	hi, ok := p.ParseMessage([]byte{0xE0, 0x7F, 0x7F})
	require.True(t, ok)
	assert.EqualValues(t, 8191, hi.Bend)
}

func TestParseChannelPressure(t *testing.T) {
	p := newTestParser()
	ev, ok := p.ParseMessage([]byte{0xD0, 100})
	require.True(t, ok)
	assert.Equal(t, KindChannelPressure, ev.Kind)
	assert.EqualValues(t, 100, ev.Value)
}

func TestParseMalformedDropped(t *testing.T) {
	p := newTestParser()
	_, ok := p.ParseMessage([]byte{0x90, 60}) // missing velocity byte
	assert.False(t, ok)

	_, ok = p.ParseMessage([]byte{0x10, 1, 2}) // not a recognized status nibble
	assert.False(t, ok)

	_, ok = p.ParseMessage(nil)
	assert.False(t, ok)
}

func TestParseIgnoresNonVoiceStatus(t *testing.T) {
	p := newTestParser()
	_, ok := p.ParseMessage([]byte{0xF8}) // timing clock, not interpreted
	assert.False(t, ok)
}

func TestControlChangeMSBLSBPairing(t *testing.T) {
	p := newTestParser()
	msb, ok := p.ParseMessage([]byte{0xB0, 1, 100})
	require.True(t, ok)
	assert.EqualValues(t, 1, msb.Controller)

	lsb, ok := p.ParseMessage([]byte{0xB0, 33, 0})
	require.True(t, ok)
	assert.EqualValues(t, 1, lsb.Controller)
	assert.EqualValues(t, 100, lsb.Value)
}

func TestBareMSBPassesThroughWithoutStalling(t *testing.T) {
	p := newTestParser()
	ev, ok := p.ParseMessage([]byte{0xB0, 7, 127})
	require.True(t, ok)
	assert.EqualValues(t, 7, ev.Controller)
	assert.EqualValues(t, 127, ev.Value)
}

func TestParseTimestampsRelativeToBufferStart(t *testing.T) {
	p := newTestParser()
	bufferStart := time.Unix(0, 0)
	arrived := bufferStart.Add(1 * time.Millisecond)

	timed, ok := p.Parse([]byte{0x90, 60, 100}, arrived, bufferStart)
	require.True(t, ok)
	// 1ms at 48kHz ~= 48 samples.
	assert.InDelta(t, 48, int(timed.Offset), 1)
}

func TestParsePastEventsClampToZeroOffset(t *testing.T) {
	p := newTestParser()
	bufferStart := time.Unix(0, 1*int64(time.Second))
	arrived := time.Unix(0, 0)

	timed, ok := p.Parse([]byte{0x80, 60, 0}, arrived, bufferStart)
	require.True(t, ok)
	assert.EqualValues(t, 0, timed.Offset)
}

package command

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMirrorStartsWithSensibleDefaults(t *testing.T) {
	m := NewMirror()
	assert.Equal(t, float32(1), m.Volume)
	assert.Equal(t, float32(0), m.Pan)
	assert.False(t, m.Filter.Enabled)
}

func TestMirrorAppliesSetVolume(t *testing.T) {
	m := NewMirror()
	m.Apply(Command{Kind: KindSetVolume, F32: 0.3})
	assert.InDelta(t, 0.3, m.Volume, 1e-6)
}

func TestMirrorAppliesSetLfoToCorrectIndex(t *testing.T) {
	m := NewMirror()
	m.Apply(Command{Kind: KindSetLfo, Lfo: Lfo{Index: 2, RateHz: 4, Depth: 0.5}})
	assert.InDelta(t, 4, m.Lfo2.RateHz, 1e-6)
	assert.InDelta(t, 1, m.Lfo1.RateHz, 1e-6) // lfo1 untouched
}

func TestMirrorAppliesAndClearsModRouting(t *testing.T) {
	m := NewMirror()
	m.Apply(Command{Kind: KindSetModRouting, ModRouting: ModRouting{Slot: 2, Source: 1, Destination: 3, Depth: 0.7, Enabled: true}})
	assert.True(t, m.ModRoutings[2].Enabled)

	m.Apply(Command{Kind: KindClearModRouting, ModRouting: ModRouting{Slot: 2}})
	assert.Equal(t, ModRouting{}, m.ModRoutings[2])
}

func TestMirrorIgnoresOutOfRangeModRoutingSlot(t *testing.T) {
	m := NewMirror()
	m.Apply(Command{Kind: KindSetModRouting, ModRouting: ModRouting{Slot: 99}})
	// no panic, no effect
	for _, r := range m.ModRoutings {
		assert.False(t, r.Enabled)
	}
}

func TestMirrorIgnoresNonPerVoiceCommands(t *testing.T) {
	m := NewMirror()
	before := *m
	m.Apply(Command{Kind: KindSetTempo, F32: 120})
	assert.Equal(t, before, *m)
}

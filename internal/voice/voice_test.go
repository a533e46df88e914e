package voice

import (
	"math"
	"testing"

	"github.com/signalforge/dawcore/internal/mod"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewVoiceStartsIdle(t *testing.T) {
	v := New(48000)
	assert.Equal(t, Idle, v.State())
	assert.True(t, v.IsFree())
}

func TestNoteOnTransitionsToActive(t *testing.T) {
	v := New(48000)
	v.Envelope().SetADSR(0.001, 0.001, 0.5, 0.1)
	v.NoteOn(60, 100, true)
	assert.Equal(t, Active, v.State())
	assert.False(t, v.IsFree())
}

func TestNoteOffTransitionsToReleasingThenIdle(t *testing.T) {
	v := New(48000)
	v.Envelope().SetADSR(0.001, 0.001, 0.5, 0.01)
	v.NoteOn(60, 100, true)
	for i := 0; i < 200; i++ {
		v.Next()
	}
	require.Equal(t, Active, v.State())
	v.NoteOff()
	assert.Equal(t, Releasing, v.State())

	for i := 0; i < int(0.01*48000)+100; i++ {
		v.Next()
	}
	assert.Equal(t, Idle, v.State())
}

func TestForceStopReachesIdleWithoutClick(t *testing.T) {
	v := New(48000)
	v.Envelope().SetADSR(0.001, 0.001, 1.0, 0.5)
	v.NoteOn(60, 127, true)
	for i := 0; i < 500; i++ {
		v.Next()
	}
	v.ForceStop()

	samples := int(forceStopFadeSeconds*48000) * 20
	for i := 0; i < samples; i++ {
		v.Next()
		if v.State() == Idle {
			break
		}
	}
	assert.Equal(t, Idle, v.State())
}

func TestCenterPanSplitsEnergyEqually(t *testing.T) {
	v := New(48000)
	v.Envelope().SetADSR(0, 0, 1, 1)
	v.SetPan(0)
	v.NoteOn(69, 127, true)
	var l, r float32
	for i := 0; i < 100; i++ {
		l, r = v.Next()
		_ = l
		_ = r
	}
	// not asserting exact sample value (oscillator varies); assert the
	// pan law coefficients at center are equal via direct angle check.
	angle := (0 + 1) * 0.25 * math.Pi
	assert.InDelta(t, math.Cos(angle), math.Sin(angle), 1e-9)
}

func TestHardLeftPanSilencesRightChannel(t *testing.T) {
	v := New(48000)
	v.Envelope().SetADSR(0, 0, 1, 1)
	v.SetPan(-1)
	v.NoteOn(69, 127, true)
	for i := 0; i < 10; i++ {
		_, r := v.Next()
		assert.InDelta(t, 0, r, 1e-4)
	}
}

func TestModMatrixPitchBendsFrequency(t *testing.T) {
	v := New(48000)
	v.Envelope().SetADSR(0, 0, 1, 1)
	v.NoteOn(69, 127, true)
	v.Matrix().SetSlot(0, mod.Slot{Source: mod.SourcePitchBend, Destination: mod.DestPitch, Depth: 12, Enabled: true})
	v.SetPitchBend(1) // full bend up one octave worth of semitones
	v.Next()
	osrc := v.Source().(*OscillatorSource)
	// finalFreq should be double baseFreq (69 -> 440Hz -> 880Hz)
	assert.InDelta(t, 880, osrc.freq, 1)
}

func TestAgeAdvancesByBufferSize(t *testing.T) {
	v := New(48000)
	v.AdvanceAge(512)
	v.AdvanceAge(512)
	assert.EqualValues(t, 1024, v.Age())
}

func TestNoteOnResetsAge(t *testing.T) {
	v := New(48000)
	v.AdvanceAge(1000)
	v.NoteOn(60, 100, true)
	assert.Zero(t, v.Age())
}

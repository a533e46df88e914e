package transport

import (
	"testing"

	"github.com/signalforge/dawcore/internal/dsp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetronomeSilentUntilTriggered(t *testing.T) {
	m := NewMetronome(48000)
	assert.Zero(t, m.Next())
}

func TestMetronomeProducesSoundAfterTrigger(t *testing.T) {
	m := NewMetronome(48000)
	m.Trigger(true)
	var sawNonZero bool
	for i := 0; i < 100; i++ {
		if m.Next() != 0 {
			sawNonZero = true
		}
	}
	assert.True(t, sawNonZero)
}

func TestMetronomeClickDecaysToSilence(t *testing.T) {
	m := NewMetronome(48000)
	m.Trigger(false)
	var last float32
	for i := 0; i < len(m.regularBuf)+10; i++ {
		last = m.Next()
	}
	assert.Zero(t, last)
}

func TestMetronomeDisabledProducesNoSound(t *testing.T) {
	m := NewMetronome(48000)
	m.SetEnabled(false)
	m.Trigger(true)
	assert.Zero(t, m.Next())
}

func TestMetronomeVolumeClamped(t *testing.T) {
	m := NewMetronome(48000)
	m.SetVolume(5)
	m.Trigger(true)
	out := m.Next()
	assert.LessOrEqual(t, out, float32(1))
}

func TestNextBeatOffsetFindsBoundaryWithinBuffer(t *testing.T) {
	timing := dsp.NewAudioTiming(48000, 120)
	sig := TimeSignature{Numerator: 4, Denominator: 4}
	samplesPerBeat := int(timing.SamplesPerBeat())
	require.Greater(t, samplesPerBeat, 0)

	offset, accent, ok := NextBeatOffset(0, samplesPerBeat+100, timing, sig)
	require.True(t, ok)
	assert.Equal(t, 0, offset)
	assert.True(t, accent) // beat 0 (beat 1 of bar 1) is an accent
}

func TestNextBeatOffsetAccentsOnlyBeatOne(t *testing.T) {
	timing := dsp.NewAudioTiming(48000, 120)
	sig := TimeSignature{Numerator: 4, Denominator: 4}
	samplesPerBeat := int(timing.SamplesPerBeat())

	// Start just after beat 1, look for the boundary at beat 2 (non-accent).
	offset, accent, ok := NextBeatOffset(uint64(samplesPerBeat)+1, samplesPerBeat+100, timing, sig)
	require.True(t, ok)
	assert.False(t, accent)
	_ = offset
}

func TestNextBeatOffsetNoneWithinShortBuffer(t *testing.T) {
	timing := dsp.NewAudioTiming(48000, 120)
	sig := TimeSignature{Numerator: 4, Denominator: 4}
	_, _, ok := NextBeatOffset(1, 4, timing, sig)
	assert.False(t, ok)
}

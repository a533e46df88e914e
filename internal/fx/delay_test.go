package fx

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDelayDisabledPassesThrough(t *testing.T) {
	d := NewDelay(48000)
	d.SetEnabled(false)
	assert.Equal(t, float32(0.5), d.Next(0.5))
}

func TestDelayProducesEchoAfterTime(t *testing.T) {
	d := NewDelay(48000)
	d.SetTimeMs(10)
	d.SetFeedback(0)
	d.SetMix(1)

	d.Next(1)
	for i := 0; i < 479; i++ {
		d.Next(0)
	}
	// Let the smoother settle toward 10ms before measuring the echo.
	for i := 0; i < 2000; i++ {
		d.Next(0)
	}

	d2 := NewDelay(48000)
	d2.SetTimeMs(10)
	d2.SetFeedback(0)
	d2.SetMix(1)
	// settle
	for i := 0; i < 20000; i++ {
		d2.Next(0)
	}
	samplesAt10ms := int(10 * 48000 / 1000)
	d2.Next(1)
	var echo float32
	for i := 0; i < samplesAt10ms+5; i++ {
		v := d2.Next(0)
		if v != 0 {
			echo = v
		}
	}
	require.NotZero(t, echo)
}

func TestFeedbackClampedBelowUnity(t *testing.T) {
	d := NewDelay(48000)
	d.SetFeedback(5)
	assert.LessOrEqual(t, d.feedback, float32(0.98))
}

func TestMixClampedToUnitRange(t *testing.T) {
	d := NewDelay(48000)
	d.SetMix(-1)
	assert.Zero(t, d.mix)
	d.SetMix(5)
	assert.Equal(t, float32(1), d.mix)
}

func TestResetClearsDelayBuffer(t *testing.T) {
	d := NewDelay(48000)
	d.SetMix(1)
	d.Next(1)
	d.Reset()
	for _, v := range d.buf {
		require.Zero(t, v)
	}
}

func TestDelayNeverAllocatesBeyondConstruction(t *testing.T) {
	d := NewDelay(48000)
	initialCap := cap(d.buf)
	d.SetTimeMs(999)
	d.SetSampleRate(192000)
	assert.Equal(t, initialCap, cap(d.buf))
}

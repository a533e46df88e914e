package mod

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLFOSineBipolarBounded(t *testing.T) {
	l := NewLFO(48000)
	l.SetRate(5)
	l.SetDepth(1)
	for i := 0; i < 48000; i++ {
		v := l.Next()
		require.LessOrEqual(t, v, float32(1.0001))
		require.GreaterOrEqual(t, v, float32(-1.0001))
	}
}

func TestLFODepthScalesOutput(t *testing.T) {
	l := NewLFO(48000)
	l.SetWaveform(LFOSquare)
	l.SetRate(1)
	l.SetDepth(0.5)
	v := l.Next()
	assert.LessOrEqual(t, v, float32(0.6))
}

func TestLFORandomHoldsBetweenCrossings(t *testing.T) {
	l := NewLFO(48000)
	l.SetWaveform(LFORandom)
	l.SetRate(1) // 48000 samples per cycle
	l.SetDepth(1)
	l.Reset()
	first := l.Next()
	for i := 0; i < 100; i++ {
		v := l.Next()
		assert.Equal(t, first, v)
	}
}

func TestLFORandomChangesAtZeroCrossing(t *testing.T) {
	l := NewLFO(48000)
	l.SetWaveform(LFORandom)
	l.SetRate(48000) // wraps every sample
	l.SetDepth(1)
	l.Reset()
	seen := map[float32]bool{}
	for i := 0; i < 50; i++ {
		seen[l.Next()] = true
	}
	assert.Greater(t, len(seen), 1)
}

func TestLFORateClampsNonPositive(t *testing.T) {
	l := NewLFO(48000)
	l.SetRate(0)
	assert.Greater(t, l.rate, float32(0))
	l.SetRate(-5)
	assert.Greater(t, l.rate, float32(0))
}

package engine

import (
	"testing"

	"github.com/signalforge/dawcore/internal/midi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProcessFillsBufferWithoutPanicking(t *testing.T) {
	e := New(48000, 4, 64)
	buf := make([]byte, 256*FormatF32.BytesPerFrame())
	assert.NotPanics(t, func() {
		e.Process(buf, 256, FormatF32)
	})
}

func TestZeroOffsetMidiAppliesImmediately(t *testing.T) {
	e := New(48000, 4, 64)
	require.True(t, e.MidiRing().TryPush(midi.Timed{Event: midi.NoteOn(0, 60, 100), Offset: 0}))

	buf := make([]byte, 16*FormatF32.BytesPerFrame())
	e.Process(buf, 16, FormatF32)

	active := 0
	for _, v := range e.Voices().Voices() {
		if v.State() != 0 { // not Idle
			active++
		}
	}
	assert.Equal(t, 1, active)
}

func TestHeldMidiEventAppliesAtItsOffset(t *testing.T) {
	e := New(48000, 4, 64)
	require.True(t, e.MidiRing().TryPush(midi.Timed{Event: midi.NoteOn(0, 60, 100), Offset: 10}))

	buf := make([]byte, 5*FormatF32.BytesPerFrame())
	e.Process(buf, 5, FormatF32) // offset 10 not yet reached within this 5-frame buffer

	activeBefore := 0
	for _, v := range e.Voices().Voices() {
		if v.State() != 0 {
			activeBefore++
		}
	}
	assert.Equal(t, 0, activeBefore)

	buf2 := make([]byte, 10*FormatF32.BytesPerFrame())
	e.Process(buf2, 10, FormatF32) // held offset decremented to 5, falls within this buffer

	activeAfter := 0
	for _, v := range e.Voices().Voices() {
		if v.State() != 0 {
			activeAfter++
		}
	}
	assert.Equal(t, 1, activeAfter)
}

func TestReportDeviceErrorPushesNotification(t *testing.T) {
	e := New(48000, 4, 64)
	e.ReportDeviceError("underrun")
	assert.False(t, e.DeviceOK())

	n, ok := e.NotificationRing().TryPop()
	require.True(t, ok)
	assert.Equal(t, "underrun", n.Err)
}

func TestReportReconnectRestoresDeviceOK(t *testing.T) {
	e := New(48000, 4, 64)
	e.ReportDeviceError("underrun")
	e.NotificationRing().TryPop()
	e.ReportReconnect()
	assert.True(t, e.DeviceOK())
}

func TestCPUPercentPublishedAfterSampledCallbacks(t *testing.T) {
	e := New(48000, 4, 64)
	buf := make([]byte, 64*FormatF32.BytesPerFrame())
	for i := 0; i < cpuSampleInterval; i++ {
		e.Process(buf, 64, FormatF32)
	}
	assert.GreaterOrEqual(t, e.CPUPercent(), float32(0))
}

func TestSqrt32InvMatchesReciprocalSquareRoot(t *testing.T) {
	assert.InDelta(t, 1, sqrt32Inv(1), 1e-4)
	assert.InDelta(t, 1.0/2, sqrt32Inv(4), 1e-4)
	assert.Zero(t, sqrt32Inv(0))
}

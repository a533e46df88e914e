package transport

import (
	"testing"

	"github.com/signalforge/dawcore/internal/dsp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func timing48k(bpm float32) dsp.AudioTiming {
	return dsp.NewAudioTiming(48000, bpm)
}

func TestNewTransportStartsStopped(t *testing.T) {
	tr := New(timing48k(120))
	assert.Equal(t, Stopped, tr.State())
	assert.EqualValues(t, 0, tr.PositionSamples())
}

func TestPlayPauseStopStateMachine(t *testing.T) {
	tr := New(timing48k(120))
	tr.Play()
	assert.Equal(t, Playing, tr.State())

	tr.Pause()
	assert.Equal(t, Paused, tr.State())

	tr.Play()
	assert.Equal(t, Playing, tr.State())

	tr.Record()
	assert.Equal(t, Recording, tr.State())

	tr.Stop()
	assert.Equal(t, Stopped, tr.State())
	assert.EqualValues(t, 0, tr.PositionSamples())
}

func TestRecordOnlyArmsFromPlaying(t *testing.T) {
	tr := New(timing48k(120))
	tr.Record() // no-op: not Playing
	assert.Equal(t, Stopped, tr.State())
}

func TestPauseOnlyFromPlaying(t *testing.T) {
	tr := New(timing48k(120))
	tr.Pause() // no-op: not Playing
	assert.Equal(t, Stopped, tr.State())
}

func TestAdvanceOneSampleOnlyWhilePlayingOrRecording(t *testing.T) {
	tr := New(timing48k(120))
	tr.AdvanceOneSample()
	assert.EqualValues(t, 0, tr.PositionSamples())

	tr.Play()
	tr.AdvanceOneSample()
	assert.EqualValues(t, 1, tr.PositionSamples())
}

func TestLoopWrapsWithoutDiscontinuity(t *testing.T) {
	tr := New(timing48k(120))
	tr.SetLoop(true, 10, 20)
	tr.SetPositionSamples(19)
	tr.Play()

	wrapped := tr.AdvanceOneSample()
	assert.True(t, wrapped)
	assert.EqualValues(t, 10, tr.PositionSamples())
}

func TestMusicalTimeRoundTripsThroughSamples(t *testing.T) {
	timing := timing48k(120)
	sig := TimeSignature{Numerator: 4, Denominator: 4}
	mt := MusicalTime{Bar: 2, Beat: 3, Tick: 100}

	samples := MusicalTimeToSamples(mt, timing, sig)
	back := SamplesToMusicalTime(samples, timing, sig)
	assert.Equal(t, mt, back)
}

func TestMusicalTimeAtZeroIsZero(t *testing.T) {
	timing := timing48k(120)
	sig := TimeSignature{Numerator: 4, Denominator: 4}
	mt := SamplesToMusicalTime(0, timing, sig)
	assert.Equal(t, MusicalTime{}, mt)
}

func TestQuantizeSnapsToNearestBeat(t *testing.T) {
	timing := timing48k(120)
	sig := TimeSignature{Numerator: 4, Denominator: 4}
	samplesPerBeat := timing.SamplesPerBeat()
	require.Greater(t, samplesPerBeat, 0.0)

	// A position just past one beat should snap forward to 1 beat.
	pos := uint64(samplesPerBeat) + 5
	snapped := Quantize(pos, timing, sig, PPQN)
	assert.InDelta(t, samplesPerBeat, float64(snapped), 1)
}

func TestQuantizeRoundsExactHalvesUp(t *testing.T) {
	timing := timing48k(120)
	sig := TimeSignature{Numerator: 4, Denominator: 4}
	samplesPerBeat := timing.SamplesPerBeat()

	half := uint64(samplesPerBeat / 2)
	snapped := Quantize(half, timing, sig, PPQN)
	// exact half rounds up to the next beat, not down to zero.
	assert.InDelta(t, samplesPerBeat, float64(snapped), 1)
}

func TestQuantizeZeroSubdivisionIsNoOp(t *testing.T) {
	timing := timing48k(120)
	sig := TimeSignature{Numerator: 4, Denominator: 4}
	assert.EqualValues(t, 12345, Quantize(12345, timing, sig, 0))
}

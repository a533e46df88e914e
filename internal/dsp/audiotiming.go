package dsp

import "time"

// AudioTiming converts between wall-clock/microsecond/beat units and
// sample counts at a fixed sample rate. SampleRate must stay > 0 for the
// lifetime of the instance; the control context swaps in a new
// AudioTiming rather than mutating one a voice pool is reading.
type AudioTiming struct {
	SampleRate    float32
	TempoBPM      float32
}

// NewAudioTiming returns an AudioTiming for sampleRate and tempoBPM.
func NewAudioTiming(sampleRate, tempoBPM float32) AudioTiming {
	return AudioTiming{SampleRate: sampleRate, TempoBPM: tempoBPM}
}

// DurationToSamples converts a time.Duration to a sample count, rounding
// to nearest and clamping negative durations to zero.
func (t AudioTiming) DurationToSamples(d time.Duration) uint32 {
	if d <= 0 || t.SampleRate <= 0 {
		return 0
	}
	samples := MicrosecondsToSamples(float64(d.Microseconds()), t.SampleRate)
	if samples > 0xFFFFFFFF {
		return 0xFFFFFFFF
	}
	return uint32(samples)
}

// SamplesToDuration is the inverse of DurationToSamples.
func (t AudioTiming) SamplesToDuration(samples uint32) time.Duration {
	if t.SampleRate <= 0 {
		return 0
	}
	seconds := SamplesToSeconds(uint64(samples), t.SampleRate)
	return time.Duration(seconds * float64(time.Second))
}

// SamplesPerBeat returns the number of samples in one quarter note at the
// current tempo.
func (t AudioTiming) SamplesPerBeat() float64 {
	return SamplesPerBeat(t.TempoBPM, t.SampleRate)
}

// SecondsToSamples converts a float seconds duration to a sample count,
// clamping negative input to zero.
func (t AudioTiming) SecondsToSamples(seconds float64) uint32 {
	if seconds <= 0 || t.SampleRate <= 0 {
		return 0
	}
	n := seconds * float64(t.SampleRate)
	if n > 0xFFFFFFFF {
		return 0xFFFFFFFF
	}
	return uint32(n + 0.5)
}

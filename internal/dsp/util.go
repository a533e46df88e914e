package dsp

import "math"

// denormalOffset is added/subtracted around feedback stages to keep
// float32 state out of the denormal range, where some FPUs fall back to
// a slow microcode path. 1e-20 is well below audible amplitude.
const denormalOffset = 1e-20

// FlushDenormal adds and then removes a tiny offset, which flushes a
// denormal x to zero and leaves ordinary values unchanged, guarding
// against denormal stalls in recursive filter/delay feedback paths.
func FlushDenormal(x float32) float32 {
	return x + denormalOffset - denormalOffset
}

// SoftClip applies a tanh waveshaper, keeping the result in [-1, 1] for
// any finite input (exactly ±1 once |x| >= 4). Monotonic in x.
func SoftClip(x float32) float32 {
	return TanhLUT(x)
}

// ClampF32 restricts value to [min, max].
func ClampF32(value, min, max float32) float32 {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

// MicrosecondsToSamples converts a duration in microseconds to a sample
// count at sampleRate.
func MicrosecondsToSamples(us float64, sampleRate float32) uint64 {
	if sampleRate <= 0 {
		return 0
	}
	return uint64(math.Round(us * float64(sampleRate) / 1e6))
}

// SamplesToSeconds converts a sample count to seconds at sampleRate.
func SamplesToSeconds(samples uint64, sampleRate float32) float64 {
	if sampleRate <= 0 {
		return 0
	}
	return float64(samples) / float64(sampleRate)
}

// SamplesPerBeat returns the number of audio samples spanning one quarter
// note at tempoBPM.
func SamplesPerBeat(tempoBPM float32, sampleRate float32) float64 {
	if tempoBPM <= 0 {
		return 0
	}
	secondsPerBeat := 60.0 / float64(tempoBPM)
	return secondsPerBeat * float64(sampleRate)
}

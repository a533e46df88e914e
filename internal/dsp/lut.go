package dsp

import "math"

// Lookup table sizes and scale factors for the fast trig/waveshape
// approximations used on the audio-rendering hot path.
const (
	sinLUTSize  = 8192           // entries for one full sine cycle (~0.00077 rad resolution)
	sinLUTMask  = sinLUTSize - 1 // fast modulo via mask
	tanhLUTSize = 4096           // entries for tanh
	tanhLUTMin  = float32(-4.0)
	tanhLUTMax  = float32(4.0)
	exp2LUTSize = 4096 // entries for 2^x
	exp2LUTMin  = float32(-8.0)
	exp2LUTMax  = float32(8.0)
)

const (
	sinLUTScale  = float32(sinLUTSize)                                // normalized phase [0,1) to index
	tanhLUTScale = float32(tanhLUTSize-1) / (tanhLUTMax - tanhLUTMin) // input to index
	exp2LUTScale = float32(exp2LUTSize-1) / (exp2LUTMax - exp2LUTMin) // input to index
)

// sinLUT holds one cycle of sin(2*pi*phase) for phase in [0,1).
var sinLUT [sinLUTSize]float32

// tanhLUT holds tanh(x) for x in [tanhLUTMin, tanhLUTMax].
var tanhLUT [tanhLUTSize]float32

// exp2LUT holds 2^x for x in [exp2LUTMin, exp2LUTMax].
var exp2LUT [exp2LUTSize]float32

func init() {
	for i := 0; i < sinLUTSize; i++ {
		phase := float64(i) / float64(sinLUTSize)
		sinLUT[i] = float32(math.Sin(2 * math.Pi * phase))
	}
	for i := 0; i < tanhLUTSize; i++ {
		x := float64(tanhLUTMin) + float64(i)*float64(tanhLUTMax-tanhLUTMin)/float64(tanhLUTSize-1)
		tanhLUT[i] = float32(math.Tanh(x))
	}
	for i := 0; i < exp2LUTSize; i++ {
		x := float64(exp2LUTMin) + float64(i)*float64(exp2LUTMax-exp2LUTMin)/float64(exp2LUTSize-1)
		exp2LUT[i] = float32(math.Exp2(x))
	}
}

// SinLUT returns sin(2*pi*phase) via lookup with linear interpolation.
// phase must already be wrapped into [0,1); callers on the hot path are
// expected to maintain that invariant themselves rather than pay for a
// modulo here.
func SinLUT(phase float32) float32 {
	indexF := phase * sinLUTScale
	index := int(indexF)
	frac := indexF - float32(index)
	index &= sinLUTMask
	next := (index + 1) & sinLUTMask
	return sinLUT[index] + frac*(sinLUT[next]-sinLUT[index])
}

// TanhLUT returns tanh(x) via lookup with linear interpolation, saturating
// to +-1 outside [tanhLUTMin, tanhLUTMax].
func TanhLUT(x float32) float32 {
	if x <= tanhLUTMin {
		return -1.0
	}
	if x >= tanhLUTMax {
		return 1.0
	}
	indexF := (x - tanhLUTMin) * tanhLUTScale
	index := int(indexF)
	frac := indexF - float32(index)
	if index >= tanhLUTSize-1 {
		return tanhLUT[tanhLUTSize-1]
	}
	return tanhLUT[index] + frac*(tanhLUT[index+1]-tanhLUT[index])
}

// Exp2LUT returns 2^x via lookup with linear interpolation, clamping
// x to [exp2LUTMin, exp2LUTMax] (±8 octaves, comfortably beyond any
// realistic pitch-bend-plus-mod-matrix semitone sum) — this is the
// hot-path replacement for a per-sample math.Pow(2, x) float64
// round-trip when converting a semitone offset to a frequency ratio.
func Exp2LUT(x float32) float32 {
	if x <= exp2LUTMin {
		return exp2LUT[0]
	}
	if x >= exp2LUTMax {
		return exp2LUT[exp2LUTSize-1]
	}
	indexF := (x - exp2LUTMin) * exp2LUTScale
	index := int(indexF)
	frac := indexF - float32(index)
	if index >= exp2LUTSize-1 {
		return exp2LUT[exp2LUTSize-1]
	}
	return exp2LUT[index] + frac*(exp2LUT[index+1]-exp2LUT[index])
}

// PolyBLEP applies a polynomial band-limited step correction at a
// waveform discontinuity. t is the normalized phase position in [0,1)
// and dt is the phase increment per sample (frequency/sampleRate).
func PolyBLEP(t, dt float32) float32 {
	if dt <= 0 {
		return 0
	}
	if t < dt {
		t /= dt
		return t + t - t*t - 1.0
	} else if t > 1.0-dt {
		t = (t - 1.0) / dt
		return t*t + t + t + 1.0
	}
	return 0.0
}

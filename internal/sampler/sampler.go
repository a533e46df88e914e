// Package sampler implements a buffer-playback SoundSource: a voice
// that plays back a pre-decoded PCM buffer instead of synthesizing a
// waveform, per spec.md §4.N.
package sampler

import "github.com/signalforge/dawcore/internal/dsp"

// LoopMode selects how playback behaves once it reaches the buffer's
// loop end (or, with no loop points set, the buffer's end).
type LoopMode int

const (
	// NoLoop plays the buffer once and then holds silent at the end.
	NoLoop LoopMode = iota
	// Loop repeats [LoopStart, LoopEnd) indefinitely once reached.
	Loop
)

// Source is a SoundSource backed by a []float32 sample buffer,
// mirroring the interpolated-position playback `jackPlayer.go`'s
// renderVoice/getInterpolatedSample perform, generalized from a
// per-callback render loop to a one-sample-at-a-time SoundSource the
// rest of the voice graph (filter, effects, envelope) sits downstream
// of unmodified.
type Source struct {
	buffer []float32 // mono, engine sample rate
	native float32   // the buffer's recorded pitch in Hz, for rate = freq/native

	position  float64 // fractional frame index into buffer
	rate      float64 // frames advanced per output sample
	freqHz    float32

	loopMode  LoopMode
	loopStart int
	loopEnd   int // exclusive; defaults to the buffer length

	atEnd bool
}

// New returns a Source playing buffer (mono, at the engine's sample
// rate) with its root pitch at nativeHz — the frequency at which
// SetFrequency(nativeHz) reproduces the buffer at its original speed.
func New(buffer []float32, nativeHz float32) *Source {
	s := &Source{
		buffer: buffer,
		native: nativeHz,
		rate:   1,
	}
	s.loopEnd = len(buffer)
	return s
}

// SetLoop configures [start, end) as the repeating region; an end <=
// start or end > len(buffer) is replaced by the buffer length, and
// looping stays on over [start, len(buffer)) (matching spec.md's silent-clamp convention
// used throughout the filter/envelope parameters).
func (s *Source) SetLoop(mode LoopMode, start, end int) {
	if end <= start || end > len(s.buffer) {
		end = len(s.buffer)
	}
	if start < 0 || start >= end {
		start = 0
	}
	s.loopMode = mode
	s.loopStart = start
	s.loopEnd = end
}

// SetStartOffset seeks playback to frame offset, clamped into the
// buffer. Intended to be called once right after NoteOn, before the
// first NextSample.
func (s *Source) SetStartOffset(frame int) {
	s.position = float64(dsp.ClampF32(float32(frame), 0, float32(len(s.buffer))))
	s.atEnd = false
}

// SetFrequency implements SoundSource: the sampler interprets
// frequency as a playback-rate request relative to the buffer's
// native pitch, per spec.md §4.N.
func (s *Source) SetFrequency(hz float32) {
	s.freqHz = hz
	if s.native <= 0 {
		s.rate = 1
		return
	}
	s.rate = float64(hz / s.native)
}

// Reset implements SoundSource: rewinds to frame 0 and clears the
// end-of-buffer flag, as a voice restarting on a new NoteOn.
func (s *Source) Reset() {
	s.position = 0
	s.atEnd = false
}

// IsAtEnd reports whether a non-looping source has played past its
// buffer; the owning Voice has no obligation to act on this (the
// envelope's own release/idle transition governs voice lifetime) but
// it lets a caller silence a spent one-shot early.
func (s *Source) IsAtEnd() bool { return s.atEnd }

// NextSample implements SoundSource: linear-interpolated read at the
// current fractional position, then advances position by rate frames,
// wrapping into [loopStart, loopEnd) when looping is enabled.
func (s *Source) NextSample() float32 {
	if len(s.buffer) == 0 || s.atEnd {
		return 0
	}

	out := s.interpolate(s.position)

	s.position += s.rate
	if s.position >= float64(s.loopEnd) {
		if s.loopMode == Loop {
			span := float64(s.loopEnd - s.loopStart)
			if span <= 0 {
				s.position = float64(s.loopStart)
			} else {
				s.position = float64(s.loopStart) + mod(s.position-float64(s.loopEnd), span)
			}
		} else {
			s.atEnd = true
		}
	} else if s.position < 0 {
		// Negative rate (reverse playback) wrapping past the start.
		if s.loopMode == Loop {
			span := float64(s.loopEnd - s.loopStart)
			if span <= 0 {
				s.position = float64(s.loopStart)
			} else {
				s.position = float64(s.loopEnd) - mod(float64(s.loopStart)-s.position, span)
			}
		} else {
			s.position = 0
			s.atEnd = true
		}
	}

	return out
}

func (s *Source) interpolate(pos float64) float32 {
	n := len(s.buffer)
	i0 := int(pos)
	if i0 >= n {
		i0 = n - 1
	}
	if i0 < 0 {
		i0 = 0
	}
	frac := float32(pos - float64(i0))

	a := s.buffer[i0]
	b := a
	if i0+1 < n {
		b = s.buffer[i0+1]
	}
	return a + frac*(b-a)
}

func mod(x, m float64) float64 {
	r := x
	for r >= m {
		r -= m
	}
	for r < 0 {
		r += m
	}
	return r
}

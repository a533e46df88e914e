// Package voice implements the per-note DSP graph (Voice) and the
// fixed voice pool that allocates, steals, and frees them
// (VoiceManager), per spec.md §4.I/§4.J.
package voice

// SoundSource is the common interface between an oscillator-driven
// voice and a sampler voice: both produce one sample per call and
// accept a playback frequency, letting VoiceManager treat them
// uniformly per spec.md's §4.N supplement.
type SoundSource interface {
	NextSample() float32
	Reset()
	SetFrequency(hz float32)
}

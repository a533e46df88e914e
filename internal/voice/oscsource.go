package voice

import "github.com/signalforge/dawcore/internal/osc"

// CrossMod selects how a second oscillator combines with the primary,
// supplementing spec.md's Sources list with the teacher's
// ringModSource/syncSource idea (applied here between a voice's own
// two oscillators rather than across channels).
type CrossMod int

const (
	CrossModNone CrossMod = iota
	CrossModRing          // primary * secondary
	CrossModHardSync      // secondary resets phase whenever primary wraps
)

// OscillatorSource is the SoundSource backed by one or two
// oscillators, implementing spec.md §4.D/§4.I's oscillator stage and
// the §2 RingModulation/HardSync supplement.
type OscillatorSource struct {
	primary   *osc.Oscillator
	secondary *osc.Oscillator
	mode      CrossMod
	freq      float32
	ratio     float32 // secondary frequency = freq * ratio
}

// NewOscillatorSource returns a source with a Sine primary and a Sine
// secondary (unused unless a CrossMod is selected) at sampleRate.
func NewOscillatorSource(sampleRate float32) *OscillatorSource {
	return &OscillatorSource{
		primary:   osc.New(osc.Sine, sampleRate),
		secondary: osc.New(osc.Sine, sampleRate),
		ratio:     2,
	}
}

// SetKind sets the primary oscillator's waveform.
func (s *OscillatorSource) SetKind(kind osc.Kind) { s.primary.SetKind(kind) }

// SetSecondaryKind sets the secondary oscillator's waveform.
func (s *OscillatorSource) SetSecondaryKind(kind osc.Kind) { s.secondary.SetKind(kind) }

// SetCrossMod selects None/Ring/HardSync combination of the two
// oscillators.
func (s *OscillatorSource) SetCrossMod(mode CrossMod) { s.mode = mode }

// SetSecondaryRatio sets the secondary oscillator's frequency as a
// multiple of the primary's.
func (s *OscillatorSource) SetSecondaryRatio(ratio float32) { s.ratio = ratio }

// SetSampleRate updates both oscillators' sample rate.
func (s *OscillatorSource) SetSampleRate(sampleRate float32) {
	s.primary.SetSampleRate(sampleRate)
	s.secondary.SetSampleRate(sampleRate)
	s.SetFrequency(s.freq)
}

// SetFrequency implements SoundSource: sets the primary's frequency
// to hz and the secondary's to hz times the secondary ratio.
func (s *OscillatorSource) SetFrequency(hz float32) {
	s.freq = hz
	s.primary.SetFrequency(hz)
	s.secondary.SetFrequency(hz * s.ratio)
}

// Reset implements SoundSource: zeros both oscillators' phase.
func (s *OscillatorSource) Reset() {
	s.primary.Reset()
	s.secondary.Reset()
}

// NextSample implements SoundSource.
func (s *OscillatorSource) NextSample() float32 {
	switch s.mode {
	case CrossModRing:
		p := s.primary.Next()
		sec := s.secondary.Next()
		return p * sec
	case CrossModHardSync:
		// The primary is the sync master: it sets the note's pitch but
		// is not itself audible. Whenever it wraps, the secondary
		// (the audible slave, typically a higher/detuned ratio) is
		// forced back to phase 0, producing the sync's characteristic
		// harmonic buzz.
		s.primary.Next()
		if s.primary.Wrapped() {
			s.secondary.Reset()
		}
		return s.secondary.Next()
	default:
		return s.primary.Next()
	}
}

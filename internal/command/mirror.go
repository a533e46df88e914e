package command

// Mirror holds the most recently requested per-voice parameters,
// independent of any particular voice. A command addressed to a voice
// slot that has no active note yet (so there is nothing to apply the
// change to directly) still updates the mirror; the engine applies the
// mirror's current values to the next voice it allocates, per spec.md
// §4.M: "Commands that arrive while the corresponding voice does not
// yet exist apply to the global parameter mirror and take effect on
// subsequent voices."
type Mirror struct {
	Volume            float32
	Pan               float32
	Waveform          int32
	Adsr              Adsr
	Lfo1, Lfo2        Lfo
	Filter            Filter
	PolyMode          int32
	PortamentoSeconds float32
	ModRoutings       [8]ModRouting
}

// NewMirror returns a Mirror seeded with the engine's sensible
// defaults — unity volume, center pan, a sine waveform, a modest
// ADSR, filter wide open, no portamento, no mod routings.
func NewMirror() *Mirror {
	return &Mirror{
		Volume:            1,
		Pan:               0,
		Waveform:          0,
		Adsr:              Adsr{AttackSeconds: 0.01, DecaySeconds: 0.1, Sustain: 0.7, ReleaseSeconds: 0.3},
		Lfo1:              Lfo{Index: 1, RateHz: 1, Depth: 0},
		Lfo2:              Lfo{Index: 2, RateHz: 1, Depth: 0},
		Filter:            Filter{CutoffHz: 20000, Resonance: 0.707, Enabled: false},
		PolyMode:          0,
		PortamentoSeconds: 0,
	}
}

// Apply updates the mirror's stored defaults from a per-voice command.
// It is a no-op for commands that are not per-voice parameters (tempo,
// transport, metronome, MIDI).
func (m *Mirror) Apply(c Command) {
	switch c.Kind {
	case KindSetVolume:
		m.Volume = c.F32
	case KindSetPan:
		m.Pan = c.F32
	case KindSetWaveform:
		m.Waveform = c.I32
	case KindSetAdsr:
		m.Adsr = c.Adsr
	case KindSetLfo:
		if c.Lfo.Index == 2 {
			m.Lfo2 = c.Lfo
		} else {
			m.Lfo1 = c.Lfo
		}
	case KindSetFilter:
		m.Filter = c.Filter
	case KindSetPolyMode:
		m.PolyMode = c.I32
	case KindSetPortamento:
		m.PortamentoSeconds = c.F32
	case KindSetModRouting:
		if c.ModRouting.Slot >= 0 && c.ModRouting.Slot < len(m.ModRoutings) {
			m.ModRoutings[c.ModRouting.Slot] = c.ModRouting
		}
	case KindClearModRouting:
		if c.ModRouting.Slot >= 0 && c.ModRouting.Slot < len(m.ModRoutings) {
			m.ModRoutings[c.ModRouting.Slot] = ModRouting{}
		}
	}
}

// Package mod implements the per-voice modulation sources and the
// fixed-size routing matrix that connects them to destinations:
// ADSR envelopes, LFOs, portamento, and the mod matrix itself.
package mod

// Stage is one state in the ADSR state machine.
type Stage int

const (
	Idle Stage = iota
	Attack
	Decay
	Sustain
	Release
)

// Envelope is a piecewise-linear ADSR generator. Level is continuous
// across every stage transition: Release always starts from whatever
// level the envelope currently holds (not from the configured sustain
// value), and retriggering during Release begins a new Attack from
// that same current level rather than resetting to zero, per
// spec.md §4.E.
type Envelope struct {
	stage Stage
	level float32

	attackTime  float32 // seconds
	decayTime   float32 // seconds
	sustain     float32 // 0..1
	releaseTime float32 // seconds
	sampleRate  float32

	attackRate  float32 // level delta per sample while in Attack
	decayStart  float32 // level at the moment Decay began
	decaySample float32 // samples elapsed since Decay began
	decayLen    float32 // decayTime in samples

	releaseStart float32 // level at the moment Release began
	releaseRate  float32 // level delta per sample while in Release

	velocityScale float32
}

// NewEnvelope returns an Idle envelope running at sampleRate.
func NewEnvelope(sampleRate float32) *Envelope {
	return &Envelope{sampleRate: sampleRate, sustain: 1, velocityScale: 1}
}

// SetSampleRate updates the rate used to convert the ADSR times to
// per-sample rates. Takes effect from the next stage transition.
func (e *Envelope) SetSampleRate(sampleRate float32) {
	e.sampleRate = sampleRate
}

// SetADSR configures attack/decay/release in seconds and sustain as a
// 0..1 level. The attack/decay/release times take effect at the next
// stage transition so a change mid-Attack doesn't cause a
// discontinuity; sustain is read every sample during Decay and
// Sustain, so a new sustain level applies immediately there.
func (e *Envelope) SetADSR(attackSeconds, decaySeconds, sustain, releaseSeconds float32) {
	e.attackTime = attackSeconds
	e.decayTime = decaySeconds
	if sustain < 0 {
		sustain = 0
	} else if sustain > 1 {
		sustain = 1
	}
	e.sustain = sustain
	e.releaseTime = releaseSeconds
}

// Stage reports the envelope's current stage.
func (e *Envelope) Stage() Stage { return e.stage }

// Level reports the envelope's current output level, ignoring
// velocity scale.
func (e *Envelope) Level() float32 { return e.level }

// IsIdle reports whether the envelope has fully released and its
// owning voice may be freed.
func (e *Envelope) IsIdle() bool { return e.stage == Idle }

// NoteOn starts (or retriggers) the envelope at velocity (1..127).
// Attack begins from the envelope's current level, so retriggering
// during Release or Decay produces no discontinuity.
func (e *Envelope) NoteOn(velocity uint8) {
	e.velocityScale = float32(velocity) / 127
	e.enterAttack()
}

// NoteOff transitions Sustain (or any other non-Idle stage) into
// Release, starting from the current level rather than jumping back
// to the configured sustain value.
func (e *Envelope) NoteOff() {
	if e.stage == Idle {
		return
	}
	e.enterRelease()
}

// ForceStop jumps directly to Idle. Voice is responsible for applying
// its own short fade beforehand; the envelope itself does not ramp.
func (e *Envelope) ForceStop() {
	e.stage = Idle
	e.level = 0
}

func (e *Envelope) enterAttack() {
	e.stage = Attack
	if e.sampleRate > 0 && e.attackTime > 0 {
		e.attackRate = 1 / (e.attackTime * e.sampleRate)
	} else {
		e.attackRate = 1 // immediate
	}
}

func (e *Envelope) enterDecay() {
	e.stage = Decay
	e.decayStart = e.level
	e.decaySample = 0
	if e.sampleRate > 0 && e.decayTime > 0 {
		e.decayLen = e.decayTime * e.sampleRate
	} else {
		e.decayLen = 0
	}
}

func (e *Envelope) enterRelease() {
	e.stage = Release
	e.releaseStart = e.level
	if e.sampleRate > 0 && e.releaseTime > 0 {
		e.releaseRate = e.releaseStart / (e.releaseTime * e.sampleRate)
	} else {
		e.releaseRate = e.releaseStart // immediate
	}
}

// Next advances the envelope by one sample and returns
// level*velocity_scale.
func (e *Envelope) Next() float32 {
	switch e.stage {
	case Idle:
		// level already 0

	case Attack:
		e.level += e.attackRate
		if e.level >= 1 {
			e.level = 1
			e.enterDecay()
		}

	case Decay:
		if e.decayLen <= 0 {
			e.level = e.sustain
			e.stage = Sustain
		} else {
			e.decaySample++
			e.level = e.decayStart - (e.decayStart-e.sustain)*(e.decaySample/e.decayLen)
			if e.decaySample >= e.decayLen {
				e.level = e.sustain
				e.stage = Sustain
			}
		}

	case Sustain:
		e.level = e.sustain

	case Release:
		e.level -= e.releaseRate
		if e.level <= 0 {
			e.level = 0
			e.stage = Idle
		}
	}

	return e.level * e.velocityScale
}

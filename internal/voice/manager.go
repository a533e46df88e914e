package voice

// PolyMode selects how NoteOn/NoteOff are dispatched across the voice
// pool, per spec.md §3/§4.J.
type PolyMode int

const (
	Poly PolyMode = iota
	Mono
	Legato
)

type heldNote struct {
	note     uint8
	velocity uint8
}

// pendingSteal records a NoteOn a stolen voice must apply once its
// force-stop fade finishes, so stealing never cuts in abruptly —
// per spec.md §4.J's "stolen voices first execute a ≤5ms amplitude
// ramp-down before reassignment".
type pendingSteal struct {
	note, velocity uint8
	active         bool
}

// Manager owns the fixed voice pool and implements Poly/Mono/Legato
// allocation, voice stealing, and the Mono/Legato last-note stack.
type Manager struct {
	voices   []*Voice
	polyMode PolyMode
	steals   []pendingSteal

	// Mono/Legato state: a single dedicated voice (voices[0]) plus a
	// stack of notes held in press order for note-priority resume.
	monoStack []heldNote

	// onAllocate, if set, fires every time a voice actually starts
	// sounding a note — immediately for a direct allocation, or once a
	// pending steal's fade-out completes. The engine uses this to stamp
	// the global parameter mirror onto the voice per spec.md §4.M/§4.J.
	onAllocate func(*Voice)
}

// SetAllocationHook installs fn to be called with a voice the instant
// it starts sounding a new note (including deferred steal completion).
func (m *Manager) SetAllocationHook(fn func(*Voice)) {
	m.onAllocate = fn
}

// NewManager returns a Manager owning numVoices voices running at
// sampleRate.
func NewManager(numVoices int, sampleRate float32) *Manager {
	m := &Manager{
		voices: make([]*Voice, numVoices),
		steals: make([]pendingSteal, numVoices),
	}
	for i := range m.voices {
		m.voices[i] = New(sampleRate)
	}
	return m
}

// SetPolyMode switches allocation mode. Switching away from
// Mono/Legato clears the held-note stack; any currently sounding mono
// voice keeps playing until its own NoteOff/Release.
func (m *Manager) SetPolyMode(mode PolyMode) {
	m.polyMode = mode
	m.monoStack = m.monoStack[:0]
}

// PolyMode reports the current allocation mode.
func (m *Manager) PolyMode() PolyMode { return m.polyMode }

// Voices exposes the fixed pool for iteration (metering, snapshotting).
func (m *Manager) Voices() []*Voice { return m.voices }

// NumVoices reports the pool size.
func (m *Manager) NumVoices() int { return len(m.voices) }

// NoteOn allocates a voice for note/velocity per the current
// PolyMode.
func (m *Manager) NoteOn(note, velocity uint8) {
	switch m.polyMode {
	case Mono, Legato:
		m.monoNoteOn(note, velocity)
	default:
		m.polyNoteOn(note, velocity)
	}
}

// NoteOff releases note if a voice is currently sounding it;
// unknown notes are a no-op per spec.md §4.J.
func (m *Manager) NoteOff(note uint8) {
	switch m.polyMode {
	case Mono, Legato:
		m.monoNoteOff(note)
	default:
		m.polyNoteOff(note)
	}
}

func (m *Manager) polyNoteOn(note, velocity uint8) {
	idx := m.allocatePoly()
	v := m.voices[idx]

	if v.State() == Active {
		// Genuine steal: fade the old note out, stash the new one to
		// apply once the fade completes.
		v.ForceStop()
		m.steals[idx] = pendingSteal{note: note, velocity: velocity, active: true}
		return
	}

	m.steals[idx] = pendingSteal{}
	v.NoteOn(note, velocity, true)
	if m.onAllocate != nil {
		m.onAllocate(v)
	}
}

// allocatePoly picks, in priority order: first Idle voice; else the
// oldest Releasing voice; else the oldest Active voice (steal).
func (m *Manager) allocatePoly() int {
	for i, v := range m.voices {
		if v.IsFree() {
			return i
		}
	}

	oldestReleasing, oldestReleasingAge := -1, uint64(0)
	for i, v := range m.voices {
		if v.State() == Releasing && (oldestReleasing < 0 || v.Age() > oldestReleasingAge) {
			oldestReleasing, oldestReleasingAge = i, v.Age()
		}
	}
	if oldestReleasing >= 0 {
		return oldestReleasing
	}

	oldestActive, oldestActiveAge := 0, m.voices[0].Age()
	for i, v := range m.voices {
		if v.Age() > oldestActiveAge {
			oldestActive, oldestActiveAge = i, v.Age()
		}
	}
	return oldestActive
}

func (m *Manager) polyNoteOff(note uint8) {
	for i, v := range m.voices {
		if v.State() != Idle && v.Note() == note && !m.steals[i].active {
			v.NoteOff()
			return
		}
	}
}

func (m *Manager) monoVoice() *Voice {
	if len(m.voices) == 0 {
		return nil
	}
	return m.voices[0]
}

func (m *Manager) monoNoteOn(note, velocity uint8) {
	v := m.monoVoice()
	if v == nil {
		return
	}
	wasHeld := len(m.monoStack) > 0
	m.monoStack = append(m.monoStack, heldNote{note: note, velocity: velocity})

	retrigger := m.polyMode == Mono || !wasHeld
	v.Portamento().SetEnabled(wasHeld)
	v.NoteOn(note, velocity, retrigger)
	if !wasHeld && m.onAllocate != nil {
		m.onAllocate(v)
	}
}

func (m *Manager) monoNoteOff(note uint8) {
	v := m.monoVoice()
	if v == nil {
		return
	}

	idx := -1
	for i, h := range m.monoStack {
		if h.note == note {
			idx = i
		}
	}
	if idx < 0 {
		return // unknown note, no-op
	}
	wasTop := idx == len(m.monoStack)-1
	m.monoStack = append(m.monoStack[:idx], m.monoStack[idx+1:]...)

	if !wasTop {
		return // a buried note was released; the sounding note is unaffected
	}
	if len(m.monoStack) == 0 {
		v.NoteOff()
		return
	}
	resume := m.monoStack[len(m.monoStack)-1]
	retrigger := m.polyMode == Mono
	v.Portamento().SetEnabled(true)
	v.NoteOn(resume.note, resume.velocity, retrigger)
}

// completeSteal applies a stolen voice's pending note once its force-
// stop fade has fully reached Idle.
func (m *Manager) completeSteal(idx int) {
	steal := m.steals[idx]
	if !steal.active {
		return
	}
	if m.voices[idx].State() != Idle {
		return
	}
	m.steals[idx] = pendingSteal{}
	v := m.voices[idx]
	v.NoteOn(steal.note, steal.velocity, true)
	if m.onAllocate != nil {
		m.onAllocate(v)
	}
}

// Next advances every non-idle voice by one sample, completing any
// finished steals first, and returns the summed stereo mix plus the
// count of currently active (non-idle) voices — the engine uses the
// count for its dynamic 1/sqrt(active+1) gain.
func (m *Manager) Next() (left, right float32, active int) {
	for i, v := range m.voices {
		if m.steals[i].active {
			m.completeSteal(i)
		}
		if v.State() == Idle {
			continue
		}
		l, r := v.Next()
		left += l
		right += r
		active++
	}
	return left, right, active
}

// AdvanceAge increments every non-idle voice's age by frames, called
// once per rendered buffer.
func (m *Manager) AdvanceAge(frames uint64) {
	for _, v := range m.voices {
		if v.State() != Idle {
			v.AdvanceAge(frames)
		}
	}
}

// ForceStopAll immediately begins a force-stop fade on every sounding
// voice, e.g. for an all-notes-off or panic command.
func (m *Manager) ForceStopAll() {
	for i, v := range m.voices {
		if v.State() != Idle {
			v.ForceStop()
		}
		m.steals[i] = pendingSteal{}
	}
	m.monoStack = m.monoStack[:0]
}

package engine

import (
	"time"

	"github.com/signalforge/dawcore/internal/dsp"
	"github.com/signalforge/dawcore/internal/transport"
)

// Process renders one callback's worth of audio into out, numFrames
// stereo frames in format, and is the whole of spec.md §4.K's
// real-time callback. It must never allocate, block, perform I/O, or
// run an unbounded loop — every loop below is bounded by numFrames,
// maxHeldEvents, or a ring's fixed capacity.
func (e *Engine) Process(out []byte, numFrames int, format SampleFormat) {
	e.callbackNum++
	var start time.Time
	timeThisCallback := e.callbackNum%cpuSampleInterval == 0
	if timeThisCallback {
		start = time.Now()
	}

	// Commands drain first so that, like held events at equal offsets,
	// zero-offset commands apply before zero-offset MIDI events.
	e.drainCommandRing()
	e.drainMidiRing()

	timing := e.transport.Timing()
	sig := e.transport.TimeSignature()
	running := e.transport.State() == transport.Playing || e.transport.State() == transport.Recording
	var clickOffset int
	var clickAccent, hasClick bool
	if running && e.metronome.Enabled() {
		clickOffset, clickAccent, hasClick = transport.NextBeatOffset(e.transport.PositionSamples(), numFrames, timing, sig)
	}

	bytesPerFrame := format.BytesPerFrame()

	for i := 0; i < numFrames; i++ {
		e.applyHeldEventsAt(uint32(i))

		e.transport.AdvanceOneSample()
		if hasClick && i == clickOffset {
			e.metronome.Trigger(clickAccent)
		}

		left, right, active := e.voices.Next()

		gain := sqrt32Inv(float32(active+1)) * mixGainConstant
		click := e.metronome.Next()
		mixL := left*gain + click
		mixR := right*gain + click

		mixL = dsp.SoftClip(dsp.FlushDenormal(mixL))
		mixR = dsp.SoftClip(dsp.FlushDenormal(mixR))

		WriteFrame(out, i*bytesPerFrame, format, mixL, mixR)
	}

	e.decrementHeldOffsets(uint32(numFrames))
	e.voices.AdvanceAge(uint64(numFrames))

	if timeThisCallback {
		elapsed := time.Since(start)
		bufferDuration := time.Duration(float64(numFrames) / float64(e.sampleRate) * float64(time.Second))
		if bufferDuration > 0 {
			pct := float32(elapsed) / float32(bufferDuration) * 100
			e.cpuPercent.Store(pct)
		}
	}
}

// sqrt32Inv returns 1/sqrt(x) via a few Newton-Raphson iterations,
// avoiding a float64 math.Sqrt round-trip on the per-sample hot path
// for the small positive integers x takes here (active_voices+1).
func sqrt32Inv(x float32) float32 {
	if x <= 0 {
		return 0
	}
	guess := x
	for i := 0; i < 6; i++ {
		guess = 0.5 * (guess + x/guess)
	}
	return 1 / guess
}

// drainMidiRing applies zero-offset MIDI events immediately and holds
// positive-offset ones in the per-callback held-event buffer, per
// spec.md §4.K step 2.
func (e *Engine) drainMidiRing() {
	for {
		ev, ok := e.midiRing.TryPop()
		if !ok {
			break
		}
		if ev.Offset == 0 {
			e.applyMidi(ev.Event)
			continue
		}
		e.holdEvent(heldEvent{offset: ev.Offset, isCommand: false, midi: ev})
	}
}

// drainCommandRing applies zero-offset commands immediately and holds
// positive-offset ones in the per-callback held-event buffer, mirroring
// drainMidiRing, per spec.md §4.K step 3.
func (e *Engine) drainCommandRing() {
	for {
		cmd, ok := e.cmdRing.TryPop()
		if !ok {
			break
		}
		if cmd.Offset == 0 {
			e.applyCommand(cmd)
			continue
		}
		e.holdEvent(heldEvent{offset: cmd.Offset, isCommand: true, cmd: cmd})
	}
}

// holdEvent stores ev for replay once its offset is reached within
// this buffer. Overflow (more than maxHeldEvents events held at once)
// silently drops the event rather than growing — this is far beyond
// any realistic per-buffer event rate.
func (e *Engine) holdEvent(ev heldEvent) {
	if e.heldCount >= maxHeldEvents {
		return
	}
	e.held[e.heldCount] = ev
	e.heldCount++
}

// applyHeldEventsAt applies every held event whose offset equals i,
// per spec.md §4.K step 4a. Within identical offsets, commands apply
// before MIDI events — an explicit choice since spec.md only commits
// to an ordering *within* a ring, not across them (see DESIGN.md's
// Open Question decision).
func (e *Engine) applyHeldEventsAt(i uint32) {
	for idx := 0; idx < e.heldCount; idx++ {
		ev := e.held[idx]
		if ev.offset == i && ev.isCommand {
			e.applyCommand(ev.cmd)
		}
	}
	for idx := 0; idx < e.heldCount; idx++ {
		ev := e.held[idx]
		if ev.offset == i && !ev.isCommand {
			e.applyMidi(ev.midi.Event)
		}
	}

	write := 0
	for read := 0; read < e.heldCount; read++ {
		if e.held[read].offset == i {
			continue
		}
		e.held[write] = e.held[read]
		write++
	}
	e.heldCount = write
}

// decrementHeldOffsets subtracts bufferLen from every surviving held
// event's offset, per spec.md §4.K step 5.
func (e *Engine) decrementHeldOffsets(bufferLen uint32) {
	for idx := 0; idx < e.heldCount; idx++ {
		if e.held[idx].offset >= bufferLen {
			e.held[idx].offset -= bufferLen
		} else {
			e.held[idx].offset = 0
		}
	}
}

// Package audiobackend adapts internal/engine's Process callback to a
// concrete audio device, following the teacher's OtoPlayer/ALSAPlayer
// split between a cross-platform backend and a native ALSA one.
package audiobackend

import (
	"errors"

	"github.com/signalforge/dawcore/internal/engine"
)

// Source is anything that can render one callback's worth of audio
// the way internal/engine.Engine does — kept as an interface so this
// package doesn't otherwise need to import engine's full API surface.
type Source interface {
	Process(out []byte, numFrames int, format engine.SampleFormat)
}

// ErrDeviceOpenFailed wraps any backend's device-open failure so
// callers can errors.Is-match it instead of parsing messages, per
// SPEC_FULL.md §7.
var ErrDeviceOpenFailed = errors.New("audiobackend: device open failed")

//go:build !headless

package audiobackend

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/ebitengine/oto/v3"
	"github.com/signalforge/dawcore/internal/engine"
)

// OtoPlayer drives an oto.Player from a Source, stereo float32
// throughout (oto.FormatFloat32LE), matching engine.FormatF32 exactly
// so Read never needs its own format conversion pass.
type OtoPlayer struct {
	ctx     *oto.Context
	player  *oto.Player
	source  atomic.Pointer[Source] // lock-free Read() hot path
	started bool
	mutex   sync.Mutex // setup/control operations only
}

// NewOtoPlayer opens a stereo float32 oto context at sampleRate.
func NewOtoPlayer(sampleRate int) (*OtoPlayer, error) {
	op := &oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: 2,
		Format:       oto.FormatFloat32LE,
		BufferSize:   0, // oto picks a sensible platform default
	}

	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDeviceOpenFailed, err)
	}
	<-ready

	return &OtoPlayer{ctx: ctx}, nil
}

// SetupPlayer attaches src as the sample source and creates the
// underlying oto.Player.
func (op *OtoPlayer) SetupPlayer(src Source) {
	op.mutex.Lock()
	defer op.mutex.Unlock()

	op.source.Store(&src)
	op.player = op.ctx.NewPlayer(op)
}

// Read implements io.Reader for oto.Player: it renders exactly one
// buffer's worth of stereo float32 frames by calling the source's
// Process directly into p, with no intermediate copy or unsafe cast —
// format.WriteFrame inside Process already produces oto's target byte
// layout.
func (op *OtoPlayer) Read(p []byte) (n int, err error) {
	srcPtr := op.source.Load()
	if srcPtr == nil {
		for i := range p {
			p[i] = 0
		}
		return len(p), nil
	}

	bytesPerFrame := engine.FormatF32.BytesPerFrame()
	numFrames := len(p) / bytesPerFrame
	(*srcPtr).Process(p[:numFrames*bytesPerFrame], numFrames, engine.FormatF32)
	return numFrames * bytesPerFrame, nil
}

// Start begins playback; a no-op if already started.
func (op *OtoPlayer) Start() {
	op.mutex.Lock()
	defer op.mutex.Unlock()

	if !op.started && op.player != nil {
		op.player.Play()
		op.started = true
	}
}

// Stop halts playback; a no-op if not started.
func (op *OtoPlayer) Stop() {
	op.mutex.Lock()
	defer op.mutex.Unlock()

	if op.started && op.player != nil {
		op.player.Close()
		op.started = false
	}
}

// Close stops playback and releases the underlying player.
func (op *OtoPlayer) Close() {
	op.Stop()
	op.mutex.Lock()
	defer op.mutex.Unlock()

	if op.player != nil {
		op.player.Close()
		op.player = nil
	}
}

// IsStarted reports whether playback is currently active.
func (op *OtoPlayer) IsStarted() bool {
	op.mutex.Lock()
	defer op.mutex.Unlock()
	return op.started
}

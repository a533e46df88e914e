//go:build !headless

package audiobackend

/*
#cgo LDFLAGS: -lasound
#cgo CFLAGS: -Ofast -march=native -mtune=native -flto
#include <alsa/asoundlib.h>
#include <stdlib.h>

static snd_pcm_t* openPCM(const char* device, int* err) {
    snd_pcm_t* handle;
    *err = snd_pcm_open(&handle, device, SND_PCM_STREAM_PLAYBACK, 0);
    return handle;
}

static int setupPCM(snd_pcm_t* handle, unsigned int rate, unsigned int channels) {
    snd_pcm_hw_params_t* params;
    int err;

    snd_pcm_hw_params_alloca(&params);
    err = snd_pcm_hw_params_any(handle, params);
    if (err < 0) return err;

    err = snd_pcm_hw_params_set_access(handle, params, SND_PCM_ACCESS_RW_INTERLEAVED);
    if (err < 0) return err;

    err = snd_pcm_hw_params_set_format(handle, params, SND_PCM_FORMAT_FLOAT);
    if (err < 0) return err;

    err = snd_pcm_hw_params_set_channels(handle, params, channels);
    if (err < 0) return err;

    err = snd_pcm_hw_params_set_rate(handle, params, rate, 0);
    if (err < 0) return err;

    err = snd_pcm_hw_params(handle, params);
    if (err < 0) return err;

    return snd_pcm_prepare(handle);
}

static int writePCM(snd_pcm_t* handle, float* buffer, int frames) {
    return snd_pcm_writei(handle, buffer, frames);
}

static void closePCM(snd_pcm_t* handle) {
    if (handle != NULL) {
        snd_pcm_drain(handle);
        snd_pcm_close(handle);
    }
}
*/
import "C"
import (
	"encoding/binary"
	"fmt"
	"math"
	"sync"
	"unsafe"

	"github.com/signalforge/dawcore/internal/engine"
)

const alsaChannels = 2

// ALSAPlayer drives ALSA's PCM write API from a Source, pulling
// stereo float32 frames through engine.FormatF32 and decoding them
// into the plain []float32 buffer ALSA's C API expects.
type ALSAPlayer struct {
	handle  *C.snd_pcm_t
	source  Source
	started bool
	playing bool
	mutex   sync.Mutex
	byteBuf []byte
	samples []float32
}

// NewALSAPlayer opens the default ALSA PCM device at sampleRate,
// stereo float32.
func NewALSAPlayer(sampleRate int) (*ALSAPlayer, error) {
	var err C.int
	handle := C.openPCM(C.CString("default"), &err)
	if err < 0 {
		return nil, fmt.Errorf("%w: failed to open PCM device: %s", ErrDeviceOpenFailed, C.GoString(C.snd_strerror(err)))
	}

	if err = C.setupPCM(handle, C.uint(sampleRate), C.uint(alsaChannels)); err < 0 {
		C.closePCM(handle)
		return nil, fmt.Errorf("%w: failed to setup PCM: %s", ErrDeviceOpenFailed, C.GoString(C.snd_strerror(err)))
	}

	return &ALSAPlayer{handle: handle}, nil
}

// SetupPlayer attaches src as the sample source.
func (ap *ALSAPlayer) SetupPlayer(src Source) {
	ap.mutex.Lock()
	defer ap.mutex.Unlock()
	ap.source = src
}

// WriteNext pulls one buffer of numFrames stereo frames from the
// source and writes it to the ALSA device, decoding engine.FormatF32's
// byte layout into a plain float32 slice (no unsafe reinterpret —
// only the unavoidable cgo pointer handoff below uses unsafe).
func (ap *ALSAPlayer) WriteNext(numFrames int) error {
	ap.mutex.Lock()
	defer ap.mutex.Unlock()

	if !ap.playing || ap.source == nil {
		return nil
	}

	bytesPerFrame := engine.FormatF32.BytesPerFrame()
	need := numFrames * bytesPerFrame
	if cap(ap.byteBuf) < need {
		ap.byteBuf = make([]byte, need)
	}
	buf := ap.byteBuf[:need]
	ap.source.Process(buf, numFrames, engine.FormatF32)

	total := numFrames * alsaChannels
	if cap(ap.samples) < total {
		ap.samples = make([]float32, total)
	}
	samples := ap.samples[:total]
	for i := range samples {
		bits := binary.LittleEndian.Uint32(buf[i*4 : i*4+4])
		samples[i] = math.Float32frombits(bits)
	}

	frames := C.writePCM(ap.handle, (*C.float)(unsafe.Pointer(&samples[0])), C.int(numFrames))
	if frames < 0 {
		if frames == -C.EPIPE {
			C.snd_pcm_prepare(ap.handle)
			frames = C.writePCM(ap.handle, (*C.float)(unsafe.Pointer(&samples[0])), C.int(numFrames))
		}
		if frames < 0 {
			return fmt.Errorf("write failed: %s", C.GoString(C.snd_strerror(C.int(frames))))
		}
	}
	return nil
}

// Start begins playback.
func (ap *ALSAPlayer) Start() {
	ap.mutex.Lock()
	defer ap.mutex.Unlock()

	if !ap.started {
		ap.started = true
		ap.playing = true
	}
}

// Stop halts playback.
func (ap *ALSAPlayer) Stop() {
	ap.mutex.Lock()
	defer ap.mutex.Unlock()

	if ap.playing {
		ap.playing = false
		ap.started = false
	}
}

// Close releases the ALSA handle.
func (ap *ALSAPlayer) Close() {
	ap.mutex.Lock()
	defer ap.mutex.Unlock()

	if ap.handle != nil {
		ap.playing = false
		ap.started = false
		C.closePCM(ap.handle)
		ap.handle = nil
	}
}

// IsStarted reports whether playback is currently active.
func (ap *ALSAPlayer) IsStarted() bool {
	ap.mutex.Lock()
	defer ap.mutex.Unlock()
	return ap.started
}

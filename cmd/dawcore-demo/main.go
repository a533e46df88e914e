// Command dawcore-demo wires internal/engine to a real audio device
// and plays a short, hardcoded pattern through it — a minimal host
// exercising the whole signal path end to end.
package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"
	"golang.org/x/sys/unix"

	"github.com/signalforge/dawcore/internal/audiobackend"
	"github.com/signalforge/dawcore/internal/command"
	"github.com/signalforge/dawcore/internal/config"
	"github.com/signalforge/dawcore/internal/engine"
	"github.com/signalforge/dawcore/internal/midi"
)

func banner() {
	fmt.Println("dawcore-demo — a small polyphonic synthesizer engine")
}

// lockRealtimeMemory pins the process's pages against paging so the
// audio callback never blocks on a page fault. Best-effort: failure
// (e.g. missing CAP_IPC_LOCK) is logged and non-fatal, since the
// callback must run regardless.
func lockRealtimeMemory() {
	if err := unix.Mlockall(unix.MCL_CURRENT | unix.MCL_FUTURE); err != nil {
		log.Warn("mlockall failed, continuing without page locking", "err", err)
	}
}

func main() {
	sampleRate := pflag.IntP("sample-rate", "r", 48000, "audio sample rate in Hz")
	voices := pflag.IntP("voices", "n", 16, "voice pool size")
	tempo := pflag.Float32P("tempo", "t", 120, "initial tempo in BPM")
	ringCap := pflag.Int("ring-capacity", 256, "command/MIDI ring capacity")
	configPath := pflag.String("config", "", "YAML config file (overrides the flags above when set)")
	verbose := pflag.BoolP("verbose", "v", false, "enable debug logging")
	pflag.Parse()

	if *verbose {
		log.SetLevel(log.DebugLevel)
	}

	banner()
	lockRealtimeMemory()

	cfg := config.EngineConfig{SampleRate: float32(*sampleRate), NumVoices: *voices, RingCapacity: *ringCap, TempoBPM: *tempo}
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil && !errors.Is(err, config.ErrNotFound) {
			log.Error("failed to load config", "err", err)
			os.Exit(1)
		} else if err == nil {
			cfg = loaded
		}
	}

	e := engine.New(cfg.SampleRate, cfg.NumVoices, cfg.RingCapacity)
	e.SetLogger(log.Default())
	e.Transport().SetTempo(cfg.TempoBPM)
	e.Transport().Play()

	player, err := audiobackend.NewOtoPlayer(int(cfg.SampleRate))
	if err != nil {
		log.Error("failed to initialize audio backend", "err", err)
		os.Exit(1)
	}
	player.SetupPlayer(e)
	player.Start()
	defer player.Close()

	log.Info("engine started", "sample_rate", cfg.SampleRate, "voices", cfg.NumVoices, "tempo_bpm", cfg.TempoBPM)

	playDemoPattern(e)
}

// playDemoPattern pushes a short arpeggio through the command/MIDI
// rings and lets it ring out, purely to exercise the engine end to
// end — a real host would instead forward MIDI input and UI commands.
func playDemoPattern(e *engine.Engine) {
	notes := []uint8{60, 64, 67, 72}

	e.CommandRing().TryPush(command.Command{
		Kind:       command.KindSetAdsr,
		VoiceIndex: command.GlobalVoiceIndex,
		Adsr:       command.Adsr{AttackSeconds: 0.01, DecaySeconds: 0.15, Sustain: 0.6, ReleaseSeconds: 0.4},
	})

	for _, note := range notes {
		e.MidiRing().TryPush(midi.Timed{Event: midi.NoteOn(0, note, 100)})
		time.Sleep(300 * time.Millisecond)
		e.MidiRing().TryPush(midi.Timed{Event: midi.NoteOff(0, note)})
	}

	time.Sleep(500 * time.Millisecond)
	log.Info("demo pattern finished", "cpu_percent", e.CPUPercent())
}

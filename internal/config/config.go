// Package config implements the engine's external YAML configuration
// loader, per SPEC_FULL.md §6: sample rate, voice pool size, ring
// capacity and initial tempo, loaded once at process startup and
// handed to engine.New rather than hardcoded by the host.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrNotFound wraps a missing config file so callers can fall back to
// defaults via errors.Is(err, config.ErrNotFound) instead of string
// matching.
var ErrNotFound = errors.New("config: file not found")

// EngineConfig carries the subset of engine.New's parameters a host
// wants to source from a file instead of flags.
type EngineConfig struct {
	SampleRate   float32 `yaml:"sample_rate"`
	NumVoices    int     `yaml:"num_voices"`
	RingCapacity int     `yaml:"ring_capacity"`
	TempoBPM     float32 `yaml:"tempo_bpm"`
}

// Default returns the engine's sensible out-of-the-box configuration.
func Default() EngineConfig {
	return EngineConfig{
		SampleRate:   48000,
		NumVoices:    16,
		RingCapacity: 256,
		TempoBPM:     120,
	}
}

// Load reads and parses path as YAML. A missing file returns
// ErrNotFound (wrapped); callers that want to fall back to Default
// should check with errors.Is.
func Load(path string) (EngineConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return EngineConfig{}, fmt.Errorf("reading %s: %w", path, ErrNotFound)
		}
		return EngineConfig{}, fmt.Errorf("reading %s: %w", path, err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return EngineConfig{}, fmt.Errorf("parsing %s: %w", path, err)
	}
	return cfg, nil
}

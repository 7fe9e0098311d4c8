// Package config holds the settings for every figure the tool renders, with
// defaults and per-scene presets.
package config

import (
	"time"

	"github.com/RyanBlaney/synthviz/algorithms/envelope"
	"github.com/RyanBlaney/synthviz/algorithms/filters"
	"github.com/RyanBlaney/synthviz/algorithms/spectral"
)

// Config is the root of a synthviz YAML file
type Config struct {
	LogLevel string           `json:"log_level" yaml:"log_level"`
	Spectrum SpectrumConfig   `json:"spectrum" yaml:"spectrum"`
	Sweep    SweepConfig      `json:"sweep" yaml:"sweep"`
	Preview  PreviewConfig    `json:"preview" yaml:"preview"`
	Envelope envelope.ADSR    `json:"envelope" yaml:"envelope"`
	Filter   filters.Response `json:"filter" yaml:"filter"`
}

// SpectrumConfig configures the detuned two-saw spectrum
type SpectrumConfig struct {
	WindowSize        int     `json:"window_size" yaml:"window_size"`
	FundamentalCycles float64 `json:"fundamental_cycles" yaml:"fundamental_cycles"`
	DetuneCents       float64 `json:"detune_cents" yaml:"detune_cents"`
	NumBins           int     `json:"num_bins" yaml:"num_bins"`

	// Smooth applies the [1 2 1]/4 display filter
	Smooth bool `json:"smooth" yaml:"smooth"`
}

// Request converts the section to a spectrum request
func (s SpectrumConfig) Request() spectral.SpectrumRequest {
	return spectral.SpectrumRequest{
		WindowSize:        s.WindowSize,
		FundamentalCycles: s.FundamentalCycles,
		DetuneCents:       s.DetuneCents,
		NumBins:           s.NumBins,
	}
}

// SweepConfig configures a detune ramp rendered frame by frame
type SweepConfig struct {
	StartCents float64 `json:"start_cents" yaml:"start_cents"`
	EndCents   float64 `json:"end_cents" yaml:"end_cents"`
	Frames     int     `json:"frames" yaml:"frames"`

	// IntroFrames hold StartCents before the ramp begins
	IntroFrames int `json:"intro_frames" yaml:"intro_frames"`

	// Periods is how many oscillator periods the waveform overlay shows;
	// it scales the accumulated phase drift
	Periods float64 `json:"periods" yaml:"periods"`

	// Workers bounds concurrent spectra; 0 picks from the CPU count
	Workers int `json:"workers" yaml:"workers"`
}

// PreviewConfig configures the audio preview
type PreviewConfig struct {
	SampleRate int           `json:"sample_rate" yaml:"sample_rate"`
	BaseHz     float64       `json:"base_hz" yaml:"base_hz"`
	Duration   time.Duration `json:"duration" yaml:"duration"`
	Gain       float64       `json:"gain" yaml:"gain"`

	// Format is "wav" or "flac"
	Format     string        `json:"format" yaml:"format"`
	FFmpegPath string        `json:"ffmpeg_path" yaml:"ffmpeg_path"`
	Timeout    time.Duration `json:"timeout" yaml:"timeout"`

	// Filtered runs the preview through the filter section
	Filtered bool `json:"filtered" yaml:"filtered"`
}

// Scene names a preset matching one figure in the series
type Scene string

const (
	SceneDefault        Scene = "default"
	SceneEpisode3Unison Scene = "ep3-unison"
	SceneEpisode3Detune Scene = "ep3-detune"
	SceneEpisode4Filter Scene = "ep4-filter"
)

// Scenes lists the known presets
var Scenes = []Scene{SceneDefault, SceneEpisode3Unison, SceneEpisode3Detune, SceneEpisode4Filter}

// Default returns the settings used when no file is given
func Default() *Config {
	return &Config{
		LogLevel: "info",
		Spectrum: DefaultSpectrumConfig(),
		Sweep:    DefaultSweepConfig(),
		Preview:  DefaultPreviewConfig(),
		Envelope: envelope.DefaultADSR(),
		Filter:   filters.DefaultResponse(),
	}
}

// DefaultSpectrumConfig is the 8192-point, 96-cycle window with 800 bins shown
func DefaultSpectrumConfig() SpectrumConfig {
	return SpectrumConfig{
		WindowSize:        8192,
		FundamentalCycles: 96,
		DetuneCents:       50,
		NumBins:           800,
		Smooth:            true,
	}
}

// DefaultSweepConfig ramps 0 to 80 cents over 479 frames after a 60 frame intro
func DefaultSweepConfig() SweepConfig {
	return SweepConfig{
		StartCents:  0,
		EndCents:    80,
		Frames:      479,
		IntroFrames: 60,
		Periods:     4,
	}
}

// DefaultPreviewConfig renders four seconds at 48 kHz around A2
func DefaultPreviewConfig() PreviewConfig {
	return PreviewConfig{
		SampleRate: 48000,
		BaseHz:     110,
		Duration:   4 * time.Second,
		Gain:       0.4,
		Format:     "wav",
		FFmpegPath: "ffmpeg",
		Timeout:    30 * time.Second,
	}
}

// ForScene returns the preset for scene. Unknown scenes get Default.
func ForScene(scene Scene) *Config {
	cfg := Default()

	switch scene {
	case SceneEpisode3Unison:
		cfg.Spectrum.DetuneCents = 0
		cfg.Sweep.EndCents = 0
	case SceneEpisode3Detune:
		cfg.Spectrum.DetuneCents = 50
		cfg.Preview.Duration = 8 * time.Second
	case SceneEpisode4Filter:
		cfg.Filter = filters.Response{
			Type:      filters.Lowpass,
			Cutoff:    0.45,
			Resonance: 0.7,
			Slope:     24,
			Points:    filters.DefaultPoints,
		}
		cfg.Preview.Filtered = true
		cfg.Spectrum.DetuneCents = 7
	}

	return cfg
}

package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/RyanBlaney/synthviz/logging"
)

// PreviewFormats lists the encodings the preview can produce
var PreviewFormats = []string{"wav", "flac"}

// Load reads the YAML file at path over the defaults and validates the result
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: open %q: %w", path, err)
	}
	defer f.Close()

	cfg, err := LoadFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("config: parse %q: %w", path, err)
	}
	return cfg, nil
}

// LoadFromReader decodes YAML from r over Default. Unknown keys are rejected.
// An empty document yields the defaults.
func LoadFromReader(r io.Reader) (*Config, error) {
	return decodeOver(Default(), r)
}

// LoadScene is LoadFromReader starting from the scene preset instead of Default
func LoadScene(scene Scene, r io.Reader) (*Config, error) {
	return decodeOver(ForScene(scene), r)
}

func decodeOver(cfg *Config, r io.Reader) (*Config, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("config: decode yaml: %w", err)
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks every section and returns all failures joined
func Validate(cfg *Config) error {
	var errs []error

	if _, err := logging.ParseLevel(cfg.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("log_level: %w", err))
	}

	if err := cfg.Spectrum.Request().Validate(); err != nil {
		errs = append(errs, fmt.Errorf("spectrum: %w", err))
	}

	s := cfg.Sweep
	if s.Frames < 1 {
		errs = append(errs, fmt.Errorf("sweep.frames must be positive: %d", s.Frames))
	}
	if s.IntroFrames < 0 || (s.Frames > 0 && s.IntroFrames >= s.Frames) {
		errs = append(errs, fmt.Errorf("sweep.intro_frames must be within 0..frames-1: %d", s.IntroFrames))
	}
	if s.Workers < 0 {
		errs = append(errs, fmt.Errorf("sweep.workers must not be negative: %d", s.Workers))
	}

	p := cfg.Preview
	if p.SampleRate <= 0 {
		errs = append(errs, fmt.Errorf("preview.sample_rate must be positive: %d", p.SampleRate))
	} else if p.BaseHz <= 0 || p.BaseHz >= float64(p.SampleRate)/2 {
		errs = append(errs, fmt.Errorf("preview.base_hz must be between 0 and Nyquist: %v", p.BaseHz))
	}
	if p.Duration <= 0 {
		errs = append(errs, fmt.Errorf("preview.duration must be positive: %v", p.Duration))
	}
	if p.Gain <= 0 || p.Gain > 1 {
		errs = append(errs, fmt.Errorf("preview.gain must be within (0, 1]: %v", p.Gain))
	}
	if !slices.Contains(PreviewFormats, strings.ToLower(p.Format)) {
		errs = append(errs, fmt.Errorf("preview.format %q is invalid; valid values: %s", p.Format, strings.Join(PreviewFormats, ", ")))
	}
	if p.Timeout < 0 {
		errs = append(errs, fmt.Errorf("preview.timeout must not be negative: %v", p.Timeout))
	}

	if err := cfg.Envelope.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("envelope: %w", err))
	}
	if err := cfg.Filter.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("filter: %w", err))
	}

	return errors.Join(errs...)
}

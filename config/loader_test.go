package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/RyanBlaney/synthviz/algorithms/filters"
	"github.com/RyanBlaney/synthviz/algorithms/spectral"
)

func TestDefaultIsValid(t *testing.T) {
	if err := Validate(Default()); err != nil {
		t.Fatalf("Default() invalid: %v", err)
	}
	for _, s := range Scenes {
		if err := Validate(ForScene(s)); err != nil {
			t.Errorf("ForScene(%q) invalid: %v", s, err)
		}
	}
}

func TestLoadFromReader_Overrides(t *testing.T) {
	const doc = `
log_level: debug
spectrum:
  detune_cents: -25
  num_bins: 400
sweep:
  workers: 3
preview:
  format: flac
  duration: 2.5s
  timeout: 1m
filter:
  type: highpass
  slope: 24
`
	cfg, err := LoadFromReader(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("LoadFromReader: %v", err)
	}

	if cfg.LogLevel != "debug" {
		t.Errorf("log_level = %q", cfg.LogLevel)
	}
	if cfg.Spectrum.DetuneCents != -25 || cfg.Spectrum.NumBins != 400 {
		t.Errorf("spectrum = %+v", cfg.Spectrum)
	}
	// untouched keys keep their defaults
	if cfg.Spectrum.WindowSize != 8192 || cfg.Spectrum.FundamentalCycles != 96 {
		t.Errorf("spectrum defaults lost: %+v", cfg.Spectrum)
	}
	if cfg.Sweep.Workers != 3 || cfg.Sweep.Frames != 479 {
		t.Errorf("sweep = %+v", cfg.Sweep)
	}
	if cfg.Preview.Format != "flac" || cfg.Preview.Duration != 2500*time.Millisecond || cfg.Preview.Timeout != time.Minute {
		t.Errorf("preview = %+v", cfg.Preview)
	}
	if cfg.Filter.Type != filters.Highpass || cfg.Filter.Slope != 24 {
		t.Errorf("filter = %+v", cfg.Filter)
	}
}

func TestLoadFromReader_Empty(t *testing.T) {
	cfg, err := LoadFromReader(strings.NewReader(""))
	if err != nil {
		t.Fatalf("LoadFromReader: %v", err)
	}
	if cfg.Spectrum != DefaultSpectrumConfig() {
		t.Errorf("empty document should give defaults, got %+v", cfg.Spectrum)
	}
}

func TestLoadFromReader_UnknownField(t *testing.T) {
	_, err := LoadFromReader(strings.NewReader("spectrum:\n  window: 1024\n"))
	if err == nil {
		t.Fatal("expected error for unknown key")
	}
}

func TestValidate_JoinsErrors(t *testing.T) {
	cfg := Default()
	cfg.LogLevel = "chatty"
	cfg.Spectrum.WindowSize = 1000
	cfg.Sweep.Frames = 0
	cfg.Preview.Format = "mp3"

	err := Validate(cfg)
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !errors.Is(err, spectral.ErrNotPowerOfTwo) {
		t.Errorf("spectrum error not wrapped: %v", err)
	}
	for _, want := range []string{"log_level", "sweep.frames", "preview.format"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error missing %q: %v", want, err)
		}
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "synthviz.yaml")
	if err := os.WriteFile(path, []byte("spectrum:\n  detune_cents: 12\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Spectrum.DetuneCents != 12 {
		t.Errorf("detune = %v, want 12", cfg.Spectrum.DetuneCents)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoadScene(t *testing.T) {
	cfg, err := LoadScene(SceneEpisode4Filter, strings.NewReader("filter:\n  resonance: 0.1\n"))
	if err != nil {
		t.Fatalf("LoadScene: %v", err)
	}
	if cfg.Filter.Slope != 24 || cfg.Filter.Resonance != 0.1 || !cfg.Preview.Filtered {
		t.Errorf("scene preset not applied: %+v %+v", cfg.Filter, cfg.Preview)
	}
}

func TestSpectrumRequest(t *testing.T) {
	req := DefaultSpectrumConfig().Request()
	want := spectral.SpectrumRequest{WindowSize: 8192, FundamentalCycles: 96, DetuneCents: 50, NumBins: 800}
	if req != want {
		t.Errorf("Request() = %+v, want %+v", req, want)
	}
}

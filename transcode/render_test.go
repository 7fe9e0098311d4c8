package transcode

import (
	"math"
	"testing"
	"time"

	"github.com/RyanBlaney/synthviz/algorithms/filters"
	"github.com/RyanBlaney/synthviz/config"
	"github.com/RyanBlaney/synthviz/internal/testutil"
)

func peak(x []float64) float64 {
	p := 0.0
	for _, v := range x {
		p = math.Max(p, math.Abs(v))
	}
	return p
}

func TestToneRender(t *testing.T) {
	tone := Tone{SampleRate: 16000, BaseHz: 110, DetuneCents: 50, Duration: 500 * time.Millisecond, Gain: 0.4}
	out, err := tone.Render()
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if len(out) != 8000 {
		t.Fatalf("len = %d, want 8000", len(out))
	}
	testutil.RequireFinite(t, out)
	testutil.RequireNear(t, "peak", peak(out), 0.4, 1e-12)
}

func TestToneRenderFiltered(t *testing.T) {
	lp := filters.Response{Type: filters.Lowpass, Cutoff: 0.3, Resonance: 0.9, Slope: 24, Points: 10}
	tone := Tone{SampleRate: 16000, BaseHz: 110, Duration: 200 * time.Millisecond, Gain: 0.8, Filter: &lp}

	out, err := tone.Render()
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	testutil.RequireFinite(t, out)
	testutil.RequireNear(t, "peak", peak(out), 0.8, 1e-12)

	bad := lp
	bad.Type = "notch"
	tone.Filter = &bad
	if _, err := tone.Render(); err == nil {
		t.Error("expected error for unknown filter type")
	}
}

func TestToneRenderErrors(t *testing.T) {
	if _, err := (Tone{SampleRate: 0, Duration: time.Second}).Render(); err == nil {
		t.Error("expected error for zero sample rate")
	}
	if _, err := (Tone{SampleRate: 8000, Duration: 0}).Render(); err == nil {
		t.Error("expected error for zero duration")
	}
}

func TestToneFromConfig(t *testing.T) {
	cfg := config.ForScene(config.SceneEpisode4Filter)
	tone := ToneFromConfig(cfg)

	if tone.Filter == nil || tone.Filter.Slope != 24 {
		t.Fatalf("filter not carried over: %+v", tone.Filter)
	}
	if tone.DetuneCents != cfg.Spectrum.DetuneCents || tone.NumSamples() != 4*48000 {
		t.Errorf("tone = %+v", tone)
	}

	if ToneFromConfig(config.Default()).Filter != nil {
		t.Error("unfiltered preview should have no filter")
	}
}

package transcode

import (
	"fmt"
	"math"
	"time"

	"gonum.org/v1/gonum/floats"

	"github.com/RyanBlaney/synthviz/algorithms/common"
	"github.com/RyanBlaney/synthviz/algorithms/filters"
	"github.com/RyanBlaney/synthviz/algorithms/oscillator"
	"github.com/RyanBlaney/synthviz/algorithms/spectral"
	"github.com/RyanBlaney/synthviz/config"
)

// dcCutoffHz is the corner of the blocker run over every preview
const dcCutoffHz = 10.0

// Tone is the two-oscillator preview: a band-limited saw at BaseHz plus a
// second one detuned by DetuneCents, optionally through the plotted filter.
type Tone struct {
	SampleRate  int               `json:"sample_rate"`
	BaseHz      float64           `json:"base_hz"`
	DetuneCents float64           `json:"detune_cents"`
	Duration    time.Duration     `json:"duration"`
	Gain        float64           `json:"gain"`
	Filter      *filters.Response `json:"filter,omitempty"`
}

// ToneFromConfig builds the preview tone described by cfg
func ToneFromConfig(cfg *config.Config) Tone {
	t := Tone{
		SampleRate:  cfg.Preview.SampleRate,
		BaseHz:      cfg.Preview.BaseHz,
		DetuneCents: cfg.Spectrum.DetuneCents,
		Duration:    cfg.Preview.Duration,
		Gain:        cfg.Preview.Gain,
	}
	if cfg.Preview.Filtered {
		f := cfg.Filter
		t.Filter = &f
	}
	return t
}

// NumSamples is the rendered length
func (t Tone) NumSamples() int {
	return int(math.Round(t.Duration.Seconds() * float64(t.SampleRate)))
}

// Render synthesises the tone as mono samples with peak level Gain
func (t Tone) Render() ([]float64, error) {
	if t.SampleRate <= 0 {
		return nil, fmt.Errorf("render tone: sample rate must be positive: %d", t.SampleRate)
	}
	n := t.NumSamples()
	if n <= 0 {
		return nil, fmt.Errorf("render tone: %w", ErrNoSamples)
	}

	sr := float64(t.SampleRate)
	osc1 := oscillator.PolyBLEPSaw(n, t.BaseHz, sr)
	osc2 := oscillator.PolyBLEPSaw(n, t.BaseHz*spectral.CentsToRatio(t.DetuneCents), sr)

	out := make([]float64, n)
	floats.AddTo(out, osc1, osc2)

	if t.Filter != nil {
		bq, err := filters.NewBiquadFromResponse(*t.Filter, t.SampleRate)
		if err != nil {
			return nil, fmt.Errorf("render tone: %w", err)
		}
		out = bq.ProcessBuffer(out)
		if t.Filter.Slope == 24 {
			// second section doubles the rolloff like the plotted curve
			bq2, _ := filters.NewBiquadFromResponse(*t.Filter, t.SampleRate)
			out = bq2.ProcessBuffer(out)
		}
	}

	filters.NewDCBlocker(t.SampleRate, dcCutoffHz).ProcessInPlace(out)

	common.NewNormalizer(common.Peak).NormalizeInPlace(out)
	floats.Scale(t.Gain, out)
	return out, nil
}

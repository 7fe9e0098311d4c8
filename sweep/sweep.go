// Package sweep renders a detune ramp: one spectrum per video frame, computed
// concurrently and returned in frame order.
package sweep

import (
	"context"
	"fmt"
	"math"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/RyanBlaney/synthviz/algorithms/common"
	"github.com/RyanBlaney/synthviz/algorithms/spectral"
	"github.com/RyanBlaney/synthviz/config"
	"github.com/RyanBlaney/synthviz/logging"
)

// Plan is a linear detune ramp across a fixed number of frames.
// Frames before IntroFrames hold StartCents; the ramp reaches EndCents at frame Frames.
type Plan struct {
	StartCents  float64 `json:"start_cents"`
	EndCents    float64 `json:"end_cents"`
	Frames      int     `json:"frames"`
	IntroFrames int     `json:"intro_frames"`
	Periods     float64 `json:"periods"`
}

// PlanFromConfig copies the ramp settings out of a sweep section
func PlanFromConfig(c config.SweepConfig) Plan {
	return Plan{
		StartCents:  c.StartCents,
		EndCents:    c.EndCents,
		Frames:      c.Frames,
		IntroFrames: c.IntroFrames,
		Periods:     c.Periods,
	}
}

// DetuneAt returns the detune for frame, clamped to the ramp ends
func (p Plan) DetuneAt(frame int) float64 {
	span := p.Frames - p.IntroFrames
	if span <= 0 || frame <= p.IntroFrames {
		return p.StartCents
	}
	if frame >= p.Frames {
		return p.EndCents
	}
	t := float64(frame-p.IntroFrames) / float64(span)
	return common.Lerp(p.StartCents, p.EndCents, t)
}

// Detunes returns DetuneAt for every frame
func (p Plan) Detunes() []float64 {
	out := make([]float64, max(0, p.Frames))
	for i := range out {
		out[i] = p.DetuneAt(i)
	}
	return out
}

// PhaseOffsets returns the drift of oscillator 2 against oscillator 1 at each
// frame, in periods of the overlay. Each frame after the intro adds
// Periods·(2^(c/1200) - 1) for that frame's detune c.
func (p Plan) PhaseOffsets() []float64 {
	out := make([]float64, max(0, p.Frames))
	acc := 0.0
	for f := range out {
		if f > p.IntroFrames {
			acc += p.Periods * (spectral.CentsToRatio(p.DetuneAt(f-1)) - 1)
		}
		out[f] = acc
	}
	return out
}

// Frame is one rendered step of the sweep
type Frame struct {
	Index       int       `json:"index"`
	DetuneCents float64   `json:"detune_cents"`
	PhaseOffset float64   `json:"phase_offset"`
	Spectrum    []float64 `json:"spectrum"`
}

// Sweeper computes spectra for many detune values
type Sweeper struct {
	request spectral.SpectrumRequest
	smooth  bool
	workers int
	logger  logging.Logger
}

// NewSweeper builds a sweeper for the window, fundamental and bin count in
// spectrum. The section's own detune is replaced per frame. workers <= 0
// picks a count from the CPU count and the job size.
func NewSweeper(spectrum config.SpectrumConfig, workers int) *Sweeper {
	return &Sweeper{
		request: spectrum.Request(),
		smooth:  spectrum.Smooth,
		workers: workers,
		logger: logging.WithFields(logging.Fields{
			"component": "sweep",
		}),
	}
}

// WithLogger replaces the sweeper's logger
func (s *Sweeper) WithLogger(logger logging.Logger) *Sweeper {
	if logger != nil {
		s.logger = logger
	}
	return s
}

// Run renders every frame of plan
func (s *Sweeper) Run(ctx context.Context, plan Plan) ([]Frame, error) {
	cents := plan.Detunes()
	spectra, err := s.Spectra(ctx, cents)
	if err != nil {
		return nil, err
	}

	offsets := plan.PhaseOffsets()
	frames := make([]Frame, len(cents))
	for i := range frames {
		frames[i] = Frame{
			Index:       i,
			DetuneCents: cents[i],
			PhaseOffset: offsets[i],
			Spectrum:    spectra[i],
		}
	}
	return frames, nil
}

// Spectra returns one spectrum per detune value, in the same order.
// Each job builds its own buffers. The first failure or a cancelled ctx stops
// outstanding jobs.
func (s *Sweeper) Spectra(ctx context.Context, cents []float64) ([][]float64, error) {
	if err := s.request.Validate(); err != nil {
		return nil, fmt.Errorf("sweep: %w", err)
	}

	logger := s.logger.WithContext(ctx)
	workers := s.workers
	if workers <= 0 {
		workers = WorkerCount(len(cents))
	}

	logger.Debug("Starting detune sweep", logging.Fields{
		"frames":  len(cents),
		"workers": workers,
		"window":  s.request.WindowSize,
	})
	start := time.Now()

	out := make([][]float64, len(cents))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, c := range cents {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			req := s.request
			req.DetuneCents = c
			spectrum, err := req.Build()
			if err != nil {
				return fmt.Errorf("sweep: frame %d (%.2f cents): %w", i, c, err)
			}
			if s.smooth {
				spectrum = spectral.Smooth121(spectrum)
			}
			out[i] = spectrum
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		logger.Error(err, "Detune sweep failed")
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("sweep: %w", err)
	}

	logger.Debug("Detune sweep complete", logging.Fields{
		"frames":   len(cents),
		"duration": time.Since(start).String(),
	})
	return out, nil
}

// WorkerCount sizes the pool for numJobs spectra
func WorkerCount(numJobs int) int {
	numCPU := runtime.NumCPU()

	// small sweeps don't need every core
	if numJobs < 100 {
		return max(1, min(numCPU/2, numJobs))
	}
	if numJobs < 1000 {
		return max(1, min(numCPU, 8))
	}
	return numCPU
}

// BeatHz returns the beat rate between two oscillators at baseHz and baseHz
// detuned by cents. It is what the phase drift looks like at audio rate.
func BeatHz(baseHz, cents float64) float64 {
	return math.Abs(baseHz * (spectral.CentsToRatio(cents) - 1))
}

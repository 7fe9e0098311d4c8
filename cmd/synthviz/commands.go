package main

import (
	"context"
	"flag"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/RyanBlaney/synthviz/algorithms/envelope"
	"github.com/RyanBlaney/synthviz/algorithms/filters"
	"github.com/RyanBlaney/synthviz/algorithms/oscillator"
	"github.com/RyanBlaney/synthviz/algorithms/spectral"
	"github.com/RyanBlaney/synthviz/algorithms/windowing"
	"github.com/RyanBlaney/synthviz/config"
	"github.com/RyanBlaney/synthviz/logging"
	"github.com/RyanBlaney/synthviz/sweep"
	"github.com/RyanBlaney/synthviz/transcode"
)

// harmonicTolerance is the relative error allowed when labelling peaks as harmonics
const harmonicTolerance = 0.01

type spectrumResult struct {
	Request  spectral.SpectrumRequest `json:"request"`
	Smoothed bool                     `json:"smoothed"`
	Engine   spectral.Engine          `json:"engine"`
	Spectrum []float64                `json:"spectrum"`
	DB       []float64                `json:"db,omitempty"`
	Stats    *spectral.Stats          `json:"stats,omitempty"`
}

func spectrumCommand(fs *flag.FlagSet, set func(string) bool) action {
	d := config.DefaultSpectrumConfig()
	window := fs.Int("window", d.WindowSize, "FFT window size, a power of two")
	cycles := fs.Float64("cycles", d.FundamentalCycles, "oscillator 1 cycles per window")
	detune := fs.Float64("detune", d.DetuneCents, "oscillator 2 detune in cents")
	bins := fs.Int("bins", d.NumBins, "number of bins to return")
	smooth := fs.Bool("smooth", d.Smooth, "apply [1 2 1]/4 display smoothing")
	withStats := fs.Bool("stats", false, "include peak, centroid and spread")
	engine := fs.String("engine", string(spectral.EngineRadix2), "transform: radix2, go-dsp or gonum")
	floorDB := fs.Float64("db", 0, "also report power in dB, floored at this level (e.g. -96)")

	return func(ctx context.Context, cfg *config.Config, out *output) error {
		applySpectrumFlags(cfg, set, window, cycles, detune, bins, smooth)
		if err := config.Validate(cfg); err != nil {
			return err
		}

		req := cfg.Spectrum.Request()
		spectrum, err := req.BuildWith(spectral.Engine(*engine))
		if err != nil {
			return err
		}
		if cfg.Spectrum.Smooth {
			spectrum = spectral.Smooth121(spectrum)
		}

		result := spectrumResult{
			Request:  req,
			Smoothed: cfg.Spectrum.Smooth,
			Engine:   spectral.Engine(*engine),
			Spectrum: spectrum,
		}
		if set("db") {
			if *floorDB >= 0 {
				return fmt.Errorf("db floor must be negative: %g", *floorDB)
			}
			result.DB = spectral.NewPowerSpectrum().ComputeLog(spectrum, *floorDB)
		}
		if *withStats {
			st := spectral.Analyze(spectrum)
			st.Peaks = spectral.AssignHarmonics(st.Peaks, req.FundamentalCycles, harmonicTolerance)
			result.Stats = &st
		}
		return out.emit(result)
	}
}

func applySpectrumFlags(cfg *config.Config, set func(string) bool, window *int, cycles, detune *float64, bins *int, smooth *bool) {
	if set("window") {
		cfg.Spectrum.WindowSize = *window
	}
	if set("cycles") {
		cfg.Spectrum.FundamentalCycles = *cycles
	}
	if detune != nil && set("detune") {
		cfg.Spectrum.DetuneCents = *detune
	}
	if set("bins") {
		cfg.Spectrum.NumBins = *bins
	}
	if set("smooth") {
		cfg.Spectrum.Smooth = *smooth
	}
}

type sweepResult struct {
	Plan   *sweep.Plan   `json:"plan,omitempty"`
	Frames []sweep.Frame `json:"frames"`
}

func sweepCommand(fs *flag.FlagSet, set func(string) bool) action {
	d := config.DefaultSpectrumConfig()
	window := fs.Int("window", d.WindowSize, "FFT window size, a power of two")
	cycles := fs.Float64("cycles", d.FundamentalCycles, "oscillator 1 cycles per window")
	bins := fs.Int("bins", d.NumBins, "number of bins per frame")
	smooth := fs.Bool("smooth", d.Smooth, "apply [1 2 1]/4 display smoothing")

	s := config.DefaultSweepConfig()
	start := fs.Float64("start", s.StartCents, "detune at the start of the ramp, in cents")
	end := fs.Float64("end", s.EndCents, "detune at the end of the ramp, in cents")
	frames := fs.Int("frames", s.Frames, "number of frames")
	intro := fs.Int("intro", s.IntroFrames, "frames held at the start detune")
	workers := fs.Int("workers", s.Workers, "concurrent spectra, 0 for automatic")
	detunes := fs.String("detunes", "", "comma-separated detune list; replaces the ramp")

	return func(ctx context.Context, cfg *config.Config, out *output) error {
		applySpectrumFlags(cfg, set, window, cycles, nil, bins, smooth)
		if set("start") {
			cfg.Sweep.StartCents = *start
		}
		if set("end") {
			cfg.Sweep.EndCents = *end
		}
		if set("frames") {
			cfg.Sweep.Frames = *frames
		}
		if set("intro") {
			cfg.Sweep.IntroFrames = *intro
		}
		if set("workers") {
			cfg.Sweep.Workers = *workers
		}
		if err := config.Validate(cfg); err != nil {
			return err
		}

		sweeper := sweep.NewSweeper(cfg.Spectrum, cfg.Sweep.Workers)

		if *detunes != "" {
			cents, err := parseFloats(*detunes)
			if err != nil {
				return fmt.Errorf("detunes: %w", err)
			}
			spectra, err := sweeper.Spectra(ctx, cents)
			if err != nil {
				return err
			}
			result := sweepResult{Frames: make([]sweep.Frame, len(cents))}
			for i, c := range cents {
				result.Frames[i] = sweep.Frame{Index: i, DetuneCents: c, Spectrum: spectra[i]}
			}
			return out.emit(result)
		}

		plan := sweep.PlanFromConfig(cfg.Sweep)
		result, err := sweeper.Run(ctx, plan)
		if err != nil {
			return err
		}
		return out.emit(sweepResult{Plan: &plan, Frames: result})
	}
}

type waveformResult struct {
	Shape      string                `json:"shape"`
	ShapeValue float64               `json:"shape_value"`
	Samples    []float64             `json:"samples,omitempty"`
	Waveshape  *oscillator.Waveshape `json:"waveshape,omitempty"`
}

func waveformCommand(fs *flag.FlagSet, _ func(string) bool) action {
	names := make([]string, len(oscillator.Shapes))
	for i, s := range oscillator.Shapes {
		names[i] = string(s)
	}
	shape := fs.String("shape", string(oscillator.Saw), "shape: "+strings.Join(names, ", ")+", waveshape")
	points := fs.Int("points", 200, "number of samples")
	periods := fs.Float64("periods", 2, "periods shown")
	value := fs.Float64("value", 0, "shape morph 0..1")

	return func(ctx context.Context, cfg *config.Config, out *output) error {
		if *shape == "waveshape" {
			ws, err := oscillator.NewWaveshape(oscillator.DriveFromShape(*value), *points, *periods)
			if err != nil {
				return err
			}
			return out.emit(waveformResult{Shape: *shape, ShapeValue: *value, Waveshape: ws})
		}

		samples, err := oscillator.Generate(oscillator.Shape(*shape), *points, *periods, *value)
		if err != nil {
			return err
		}
		return out.emit(waveformResult{Shape: *shape, ShapeValue: *value, Samples: samples})
	}
}

type adsrResult struct {
	Envelope  envelope.ADSR     `json:"envelope"`
	Progress  envelope.Progress `json:"progress"`
	TotalTime float64           `json:"total_time"`
	envelope.Drawing
}

func adsrCommand(fs *flag.FlagSet, set func(string) bool) action {
	d := envelope.DefaultADSR()
	attack := fs.Float64("attack", d.AttackTime, "attack duration")
	decay := fs.Float64("decay", d.DecayTime, "decay duration")
	sustainTime := fs.Float64("sustain-time", d.SustainTime, "sustain duration")
	release := fs.Float64("release", d.ReleaseTime, "release duration")
	sustain := fs.Float64("sustain", d.SustainLevel, "sustain level 0..1")
	overshoot := fs.Bool("overshoot", d.ShowOvershoot, "aim the attack past full level")
	reveal := fs.String("reveal", "1,1,1,1", "attack,decay,sustain,release progress 0..1")

	return func(ctx context.Context, cfg *config.Config, out *output) error {
		env := &cfg.Envelope
		if set("attack") {
			env.AttackTime = *attack
		}
		if set("decay") {
			env.DecayTime = *decay
		}
		if set("sustain-time") {
			env.SustainTime = *sustainTime
		}
		if set("release") {
			env.ReleaseTime = *release
		}
		if set("sustain") {
			env.SustainLevel = *sustain
		}
		if set("overshoot") {
			env.ShowOvershoot = *overshoot
		}
		if err := config.Validate(cfg); err != nil {
			return err
		}

		p, err := parseFloats(*reveal)
		if err != nil || len(p) != 4 {
			return fmt.Errorf("reveal must be four comma-separated numbers: %q", *reveal)
		}
		progress := envelope.Progress{Attack: p[0], Decay: p[1], Sustain: p[2], Release: p[3]}

		return out.emit(adsrResult{
			Envelope:  *env,
			Progress:  progress,
			TotalTime: env.TotalTime(),
			Drawing:   env.Draw(progress),
		})
	}
}

type filterResult struct {
	Response filters.Response     `json:"response"`
	CutoffHz float64              `json:"cutoff_hz"`
	Q        float64              `json:"q"`
	Curve    []filters.CurvePoint `json:"curve"`
}

func filterCommand(fs *flag.FlagSet, set func(string) bool) action {
	d := filters.DefaultResponse()
	typ := fs.String("type", string(d.Type), "lowpass, highpass or bandpass")
	cutoff := fs.Float64("cutoff", d.Cutoff, "cutoff position 0..1 on the 20 Hz - 20 kHz log axis")
	resonance := fs.Float64("resonance", d.Resonance, "resonance 0..1")
	slope := fs.Int("slope", d.Slope, "12 or 24 dB/oct")
	points := fs.Int("points", d.Points, "intervals sampled across the axis")

	return func(ctx context.Context, cfg *config.Config, out *output) error {
		r := &cfg.Filter
		if set("type") {
			t, err := filters.ParseType(*typ)
			if err != nil {
				return err
			}
			r.Type = t
		}
		if set("cutoff") {
			r.Cutoff = *cutoff
		}
		if set("resonance") {
			r.Resonance = *resonance
		}
		if set("slope") {
			r.Slope = *slope
		}
		if set("points") {
			r.Points = *points
		}

		curve, err := r.Curve()
		if err != nil {
			return err
		}
		return out.emit(filterResult{
			Response: *r,
			CutoffHz: filters.CutoffHz(r.Cutoff),
			Q:        filters.QFromResonance(r.Resonance),
			Curve:    curve,
		})
	}
}

type barsResult struct {
	Mode       spectral.BarMode `json:"mode"`
	NyquistBar int              `json:"nyquist_bar"`
	Bars       []float64        `json:"bars"`
}

func barsCommand(fs *flag.FlagSet, _ func(string) bool) action {
	mode := fs.String("mode", string(spectral.BarsAliased), "aliased, clean, white-noise, pink-noise or detuned-saw")
	count := fs.Int("count", 32, "number of bars")

	return func(ctx context.Context, cfg *config.Config, out *output) error {
		bars, err := spectral.Bars(spectral.BarMode(*mode), *count)
		if err != nil {
			return err
		}
		return out.emit(barsResult{
			Mode:       spectral.BarMode(*mode),
			NyquistBar: spectral.NyquistBar(*count),
			Bars:       bars,
		})
	}
}

type previewResult struct {
	Path       string         `json:"path"`
	Format     string         `json:"format"`
	Samples    int            `json:"samples"`
	BeatHz     float64        `json:"beat_hz"`
	Tone       transcode.Tone `json:"tone"`
	EncodeTime string         `json:"encode_time"`
}

func previewCommand(fs *flag.FlagSet, set func(string) bool) action {
	d := config.DefaultPreviewConfig()
	path := fs.String("out", "", "output file, default preview.<format>; - writes the audio to stdout")
	detune := fs.Float64("detune", config.DefaultSpectrumConfig().DetuneCents, "oscillator 2 detune in cents")
	baseHz := fs.Float64("base-hz", d.BaseHz, "oscillator 1 frequency")
	duration := fs.Duration("duration", d.Duration, "preview length")
	format := fs.String("format", d.Format, "wav or flac")
	filtered := fs.Bool("filtered", d.Filtered, "run the tone through the filter section")
	ffmpeg := fs.String("ffmpeg", d.FFmpegPath, "path to the ffmpeg binary")

	return func(ctx context.Context, cfg *config.Config, out *output) error {
		if set("detune") {
			cfg.Spectrum.DetuneCents = *detune
		}
		if set("base-hz") {
			cfg.Preview.BaseHz = *baseHz
		}
		if set("duration") {
			cfg.Preview.Duration = *duration
		}
		if set("format") {
			cfg.Preview.Format = *format
		}
		if set("filtered") {
			cfg.Preview.Filtered = *filtered
		}
		if set("ffmpeg") {
			cfg.Preview.FFmpegPath = *ffmpeg
		}
		if err := config.Validate(cfg); err != nil {
			return err
		}

		enc := transcode.NewEncoder(transcode.EncoderConfigFromPreview(cfg.Preview))
		if err := enc.CheckFFmpegAvailability(ctx); err != nil {
			return err
		}

		tone := transcode.ToneFromConfig(cfg)
		samples, err := tone.Render()
		if err != nil {
			return err
		}

		start := time.Now()

		if *path == "-" {
			return enc.Encode(ctx, samples, out)
		}

		target := *path
		if target == "" {
			target = "preview." + strings.ToLower(cfg.Preview.Format)
		}
		if err := enc.EncodeFile(ctx, samples, target); err != nil {
			return err
		}

		logging.WithContext(ctx).Info("Preview written", logging.Fields{
			"path":    target,
			"samples": len(samples),
		})
		return out.emit(previewResult{
			Path:       target,
			Format:     strings.ToLower(cfg.Preview.Format),
			Samples:    len(samples),
			BeatHz:     sweep.BeatHz(tone.BaseHz, tone.DetuneCents),
			Tone:       tone,
			EncodeTime: time.Since(start).String(),
		})
	}
}

type windowResult struct {
	Type         string    `json:"type"`
	Size         int       `json:"size"`
	Symmetric    bool      `json:"symmetric"`
	Coefficients []float64 `json:"coefficients"`
}

func windowCommand(fs *flag.FlagSet, _ func(string) bool) action {
	kind := fs.String("type", windowing.TypeHann, "hann, hamming, blackman or rectangular")
	size := fs.Int("size", 64, "number of coefficients")
	symmetric := fs.Bool("symmetric", false, "N-1 denominator instead of periodic")

	return func(ctx context.Context, cfg *config.Config, out *output) error {
		w, err := windowing.New(*kind, *size, *symmetric)
		if err != nil {
			return err
		}
		return out.emit(windowResult{
			Type:         w.GetType(),
			Size:         w.GetSize(),
			Symmetric:    *symmetric,
			Coefficients: w.GetCoefficients(),
		})
	}
}

func parseFloats(s string) ([]float64, error) {
	parts := strings.Split(s, ",")
	out := make([]float64, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

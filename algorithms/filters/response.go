// Package filters covers the resonant filter chapter: the analytic 2nd-order
// response curves plotted on a log frequency axis, and a biquad that renders the
// same settings into audio for previews.
package filters

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// Type selects the filter response
type Type string

const (
	Lowpass  Type = "lowpass"
	Highpass Type = "highpass"
	Bandpass Type = "bandpass"
)

// Plot axis
const (
	MinFreqHz = 20.0
	MaxFreqHz = 20000.0
	MinDB     = -48.0
	MaxDB     = 24.0

	// DefaultPoints is the number of intervals sampled across the axis
	DefaultPoints = 200

	// magnitudes below this are treated as -120 dB before clamping
	magnitudeFloor = 1e-6
)

var (
	ErrUnknownType  = errors.New("unknown filter type")
	ErrInvalidSlope = errors.New("slope must be 12 or 24 dB/oct")
)

// ParseType maps a flag or config value onto a Type
func ParseType(s string) (Type, error) {
	switch t := Type(strings.ToLower(strings.TrimSpace(s))); t {
	case Lowpass, Highpass, Bandpass:
		return t, nil
	case "lp":
		return Lowpass, nil
	case "hp":
		return Highpass, nil
	case "bp":
		return Bandpass, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownType, s)
	}
}

// QFromResonance maps resonance 0..1 onto Q 0.5..20
func QFromResonance(resonance float64) float64 {
	return 0.5 + resonance*19.5
}

// CutoffHz converts a 0..1 position on the log axis to a frequency
func CutoffHz(position float64) float64 {
	logMin, logMax := math.Log10(MinFreqHz), math.Log10(MaxFreqHz)
	return math.Pow(10, logMin+position*(logMax-logMin))
}

// AxisPosition is the inverse of CutoffHz
func AxisPosition(freqHz float64) float64 {
	logMin, logMax := math.Log10(MinFreqHz), math.Log10(MaxFreqHz)
	return (math.Log10(freqHz) - logMin) / (logMax - logMin)
}

// Magnitude returns the linear gain of a 2nd-order section at ratio = f/fc
func Magnitude(t Type, ratio, q float64) float64 {
	r2 := ratio * ratio
	denom := math.Sqrt((1-r2)*(1-r2) + (ratio/q)*(ratio/q))

	switch t {
	case Highpass:
		return r2 / denom
	case Bandpass:
		return (ratio / q) / denom
	default:
		return 1 / denom
	}
}

// Response describes one curve on the filter plot
type Response struct {
	Type Type `json:"type" yaml:"type"`
	// Cutoff is a 0..1 position on the log axis
	Cutoff    float64 `json:"cutoff" yaml:"cutoff"`
	Resonance float64 `json:"resonance" yaml:"resonance"`
	Slope     int     `json:"slope" yaml:"slope"`
	Points    int     `json:"points" yaml:"points"`
}

// DefaultResponse is a gentle 12 dB lowpass halfway up the axis
func DefaultResponse() Response {
	return Response{Type: Lowpass, Cutoff: 0.5, Resonance: 0.2, Slope: 12, Points: DefaultPoints}
}

// Validate checks the response settings
func (r Response) Validate() error {
	var errs []error
	if _, err := ParseType(string(r.Type)); err != nil {
		errs = append(errs, err)
	}
	if r.Slope != 12 && r.Slope != 24 {
		errs = append(errs, fmt.Errorf("%w: %d", ErrInvalidSlope, r.Slope))
	}
	if r.Cutoff < 0 || r.Cutoff > 1 {
		errs = append(errs, fmt.Errorf("cutoff must be within 0..1: %v", r.Cutoff))
	}
	if r.Resonance < 0 || r.Resonance > 1 {
		errs = append(errs, fmt.Errorf("resonance must be within 0..1: %v", r.Resonance))
	}
	if r.Points < 1 {
		errs = append(errs, fmt.Errorf("points must be positive: %d", r.Points))
	}
	return errors.Join(errs...)
}

// CurvePoint is one sample of the plotted response
type CurvePoint struct {
	// Position is 0..1 along the log axis
	Position float64 `json:"position"`
	FreqHz   float64 `json:"freq_hz"`
	DB       float64 `json:"db"`
}

// Curve samples Points+1 positions across 20 Hz to 20 kHz, both ends included.
// A 24 dB slope squares the 2nd-order magnitude. Levels are clamped to [-48, +24] dB.
func (r Response) Curve() ([]CurvePoint, error) {
	if err := r.Validate(); err != nil {
		return nil, fmt.Errorf("filter response: %w", err)
	}

	q := QFromResonance(r.Resonance)
	// both frequencies are normalised by the top of the axis, so their ratio is what matters
	cutoffNorm := CutoffHz(r.Cutoff) / MaxFreqHz

	out := make([]CurvePoint, r.Points+1)
	for i := range out {
		pos := float64(i) / float64(r.Points)
		freq := CutoffHz(pos)

		mag := Magnitude(r.Type, (freq/MaxFreqHz)/cutoffNorm, q)
		if r.Slope == 24 {
			mag *= mag
		}

		out[i] = CurvePoint{Position: pos, FreqHz: freq, DB: ToDB(mag)}
	}
	return out, nil
}

// ToDB converts a linear gain to dB within the plot range
func ToDB(mag float64) float64 {
	db := 20 * math.Log10(math.Max(mag, magnitudeFloor))
	return math.Max(MinDB, math.Min(MaxDB, db))
}

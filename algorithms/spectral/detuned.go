package spectral

import (
	"errors"
	"fmt"
	"math"

	"github.com/RyanBlaney/synthviz/algorithms/common"
	"github.com/RyanBlaney/synthviz/algorithms/windowing"
)

// CentsPerOctave is the equal-temperament octave size in cents
const CentsPerOctave = 1200.0

// ErrInvalidBinCount is returned when a spectrum request asks for fewer than one
// bin or for more bins than the window holds.
var ErrInvalidBinCount = errors.New("bin count must be between 1 and the window size")

// SpectrumRequest describes the two-oscillator test signal to analyze.
//
// FundamentalCycles is the number of cycles oscillator 1 completes inside the
// window, not a frequency in Hz, so bin k sits at k cycles per window
// regardless of any sample rate.
type SpectrumRequest struct {
	WindowSize        int     `json:"window_size" yaml:"window_size"`
	FundamentalCycles float64 `json:"fundamental_cycles" yaml:"fundamental_cycles"`
	DetuneCents       float64 `json:"detune_cents" yaml:"detune_cents"`
	NumBins           int     `json:"num_bins" yaml:"num_bins"`
}

// Validate checks the window size and bin count
func (r SpectrumRequest) Validate() error {
	if !common.IsPowerOfTwo(r.WindowSize) {
		if r.WindowSize > 0 {
			return fmt.Errorf("window size %d, try %d: %w", r.WindowSize, common.NextPowerOfTwo(r.WindowSize), ErrNotPowerOfTwo)
		}
		return fmt.Errorf("window size %d: %w", r.WindowSize, ErrNotPowerOfTwo)
	}
	if r.NumBins < 1 || r.NumBins > r.WindowSize {
		return fmt.Errorf("num bins %d (window %d): %w", r.NumBins, r.WindowSize, ErrInvalidBinCount)
	}
	return nil
}

// DetuneRatio returns the frequency ratio of oscillator 2 to oscillator 1
func (r SpectrumRequest) DetuneRatio() float64 {
	return CentsToRatio(r.DetuneCents)
}

// SecondCycles returns how many cycles oscillator 2 completes in the window
func (r SpectrumRequest) SecondCycles() float64 {
	return r.FundamentalCycles * r.DetuneRatio()
}

// Build synthesizes the signal and returns its normalized magnitude spectrum.
// See DetunedSawSpectrum.
func (r SpectrumRequest) Build() ([]float64, error) {
	if err := r.Validate(); err != nil {
		return nil, fmt.Errorf("detuned saw spectrum: %w", err)
	}

	re := r.Signal()
	im := make([]float64, len(re))
	if err := FFTInPlace(re, im); err != nil {
		return nil, fmt.Errorf("detuned saw spectrum: %w", err)
	}

	mags := Magnitudes(re, im, r.NumBins)
	common.MaxNormalizeInPlace(mags)
	return mags, nil
}

// Signal returns the Hann-windowed sum of the two sawtooth oscillators, one
// sample per window position. Each saw maps phase frac(i·cycles/N) onto
// 2·frac − 1.
func (r SpectrumRequest) Signal() []float64 {
	n := r.WindowSize
	if n <= 0 {
		return []float64{}
	}

	cycles2 := r.SecondCycles()
	out := make([]float64, n)
	for i := range out {
		saw1 := 2*common.Fract(float64(i)*r.FundamentalCycles/float64(n)) - 1
		saw2 := 2*common.Fract(float64(i)*cycles2/float64(n)) - 1
		out[i] = (saw1 + saw2) * windowing.HannAt(i, n)
	}
	return out
}

// DetunedSawSpectrum returns the first numBins magnitudes of the spectrum of two
// summed sawtooth oscillators, the second detuned from the first by detuneCents,
// normalized so the largest returned value is 1. A silent result stays all zero.
//
// windowSize must be a power of two and numBins must lie in [1, windowSize];
// bins past windowSize/2 mirror the lower half.
func DetunedSawSpectrum(windowSize int, fundamentalCycles, detuneCents float64, numBins int) ([]float64, error) {
	return SpectrumRequest{
		WindowSize:        windowSize,
		FundamentalCycles: fundamentalCycles,
		DetuneCents:       detuneCents,
		NumBins:           numBins,
	}.Build()
}

// CentsToRatio converts an interval in cents to a frequency ratio, 2^(cents/1200)
func CentsToRatio(cents float64) float64 {
	return math.Pow(2, cents/CentsPerOctave)
}

// RatioToCents converts a positive frequency ratio to cents
func RatioToCents(ratio float64) float64 {
	return CentsPerOctave * math.Log2(ratio)
}

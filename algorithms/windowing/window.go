// Package windowing provides the taper functions applied before an FFT.
//
// Periodic windows (denominator N) are the default for spectrum analysis; symmetric
// windows (denominator N-1) are taken from github.com/mjibson/go-dsp/window.
package windowing

import (
	"fmt"
	"strings"
)

// Window is a precomputed taper of fixed size
type Window interface {
	Apply(signal []float64) []float64
	ApplyInPlace(signal []float64) error
	GetCoefficients() []float64
	GetSize() int
	GetType() string
}

// Type names accepted by New
const (
	TypeHann        = "hann"
	TypeHamming     = "hamming"
	TypeBlackman    = "blackman"
	TypeRectangular = "rectangular"
)

// New builds the window named by windowType ("hann", "hamming", "blackman", "rectangular")
func New(windowType string, size int, symmetric bool) (Window, error) {
	if size <= 0 {
		return nil, fmt.Errorf("window size must be positive: %d", size)
	}

	switch strings.ToLower(windowType) {
	case TypeHann, "hanning":
		return NewHann(size, symmetric), nil
	case TypeHamming:
		return NewHamming(size, symmetric), nil
	case TypeBlackman:
		return NewBlackman(size, symmetric), nil
	case TypeRectangular, "rect", "none":
		return NewRectangular(size), nil
	default:
		return nil, fmt.Errorf("unknown window type %q", windowType)
	}
}

// taper holds the coefficients shared by every window type
type taper struct {
	name         string
	symmetric    bool
	coefficients []float64
}

// Apply applies the window to a signal (creates new array)
func (w *taper) Apply(signal []float64) []float64 {
	if len(signal) != len(w.coefficients) {
		return nil
	}

	windowed := make([]float64, len(signal))
	for i, c := range w.coefficients {
		windowed[i] = signal[i] * c
	}

	return windowed
}

// ApplyInPlace applies the window to a signal in-place
func (w *taper) ApplyInPlace(signal []float64) error {
	if len(signal) != len(w.coefficients) {
		return fmt.Errorf("signal length (%d) doesn't match window size (%d)", len(signal), len(w.coefficients))
	}

	for i, c := range w.coefficients {
		signal[i] *= c
	}

	return nil
}

// GetCoefficients returns a copy of the window coefficients
func (w *taper) GetCoefficients() []float64 {
	coeffs := make([]float64, len(w.coefficients))
	copy(coeffs, w.coefficients)
	return coeffs
}

// GetSize returns the window size
func (w *taper) GetSize() int {
	return len(w.coefficients)
}

// GetType returns the window type
func (w *taper) GetType() string {
	return w.name
}

// IsSymmetric reports whether the window uses the N-1 denominator
func (w *taper) IsSymmetric() bool {
	return w.symmetric
}

// cosineSum evaluates a0 - a1 cos(x) + a2 cos(2x) with x = 2πi/N over i in [0, size)
func cosineSum(size int, a0, a1, a2 float64) []float64 {
	coeffs := make([]float64, size)
	for i := range coeffs {
		coeffs[i] = cosineTerm(i, size, a0, a1, a2)
	}
	return coeffs
}

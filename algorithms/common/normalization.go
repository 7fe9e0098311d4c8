package common

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// NormalizationType defines normalization method
type NormalizationType int

const (
	// Max divides by the largest value; suited to non-negative magnitude data
	Max NormalizationType = iota
	// Peak divides by the largest absolute value
	Peak
	// MinMax maps the data onto [0, 1]
	MinMax
)

// Normalizer provides the normalization methods used for plot data
type Normalizer struct {
	method NormalizationType
}

// NewNormalizer creates a new normalizer
func NewNormalizer(method NormalizationType) *Normalizer {
	return &Normalizer{
		method: method,
	}
}

// Normalize returns a normalized copy of signal using the configured method
func (n *Normalizer) Normalize(signal []float64) []float64 {
	out := make([]float64, len(signal))
	copy(out, signal)
	n.NormalizeInPlace(out)
	return out
}

// NormalizeInPlace normalizes signal in place
func (n *Normalizer) NormalizeInPlace(signal []float64) {
	switch n.method {
	case Peak:
		peakNormalizeInPlace(signal)
	case MinMax:
		minMaxNormalizeInPlace(signal)
	default:
		MaxNormalizeInPlace(signal)
	}
}

// MaxNormalizeInPlace divides every element by the maximum element when that
// maximum is positive and returns the maximum. Data whose maximum is <= 0
// (e.g. an all-zero spectrum) is left untouched, so no NaN or Inf is produced.
func MaxNormalizeInPlace(data []float64) float64 {
	if len(data) == 0 {
		return 0.0
	}

	maxVal := floats.Max(data)
	if maxVal > 0 {
		// divide rather than scale by 1/max so the maximum lands on exactly 1
		for i := range data {
			data[i] /= maxVal
		}
	}
	return maxVal
}

func peakNormalizeInPlace(signal []float64) {
	if len(signal) == 0 {
		return
	}

	peak := 0.0
	for _, val := range signal {
		peak = math.Max(peak, math.Abs(val))
	}

	if peak < 1e-10 {
		return
	}
	floats.Scale(1/peak, signal)
}

func minMaxNormalizeInPlace(signal []float64) {
	if len(signal) == 0 {
		return
	}

	lo := floats.Min(signal)
	hi := floats.Max(signal)

	if math.Abs(hi-lo) < 1e-10 {
		// constant data maps to zero
		for i := range signal {
			signal[i] = 0
		}
		return
	}

	floats.AddConst(-lo, signal)
	floats.Scale(1/(hi-lo), signal)
}

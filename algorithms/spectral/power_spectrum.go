package spectral

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Magnitudes returns sqrt(re² + im²) for the first numBins bins.
// numBins is clipped to the buffer length.
func Magnitudes(re, im []float64, numBins int) []float64 {
	numBins = max(0, min(numBins, len(re), len(im)))

	mags := make([]float64, numBins)
	for i := range mags {
		mags[i] = math.Sqrt(re[i]*re[i] + im[i]*im[i])
	}
	return mags
}

// PowerSpectrum provides power and level conversions of magnitude spectra
type PowerSpectrum struct{}

// NewPowerSpectrum creates a new power spectrum calculator
func NewPowerSpectrum() *PowerSpectrum {
	return &PowerSpectrum{}
}

// Compute returns the squared magnitudes
func (ps *PowerSpectrum) Compute(magnitudeSpectrum []float64) []float64 {
	if len(magnitudeSpectrum) == 0 {
		return []float64{}
	}

	power := make([]float64, len(magnitudeSpectrum))
	floats.MulTo(power, magnitudeSpectrum, magnitudeSpectrum)
	return power
}

// Energy returns the total energy Σ|X|² of a complex spectrum or signal
func (ps *PowerSpectrum) Energy(re, im []float64) float64 {
	return floats.Dot(re, re) + floats.Dot(im, im)
}

// ComputeLog computes log power spectrum in dB with floor
func (ps *PowerSpectrum) ComputeLog(magnitudeSpectrum []float64, floorDB float64) []float64 {
	if len(magnitudeSpectrum) == 0 {
		return []float64{}
	}

	floor := math.Pow(10, floorDB/10.0)
	logPower := make([]float64, len(magnitudeSpectrum))

	for i, mag := range magnitudeSpectrum {
		power := max(mag*mag, floor)
		logPower[i] = 10 * math.Log10(power)
	}

	return logPower
}

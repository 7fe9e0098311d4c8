package spectral

import (
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/RyanBlaney/synthviz/algorithms/common"
)

// Stats summarises a magnitude spectrum in bins
type Stats struct {
	PeakBin   int     `json:"peak_bin"`
	PeakValue float64 `json:"peak_value"`
	Centroid  float64 `json:"centroid"`
	Spread    float64 `json:"spread"`
	Energy    float64 `json:"energy"`
	// Peaks lists local maxima at or above half the peak value
	Peaks []Peak `json:"peaks"`
}

// Analyze computes Stats for a magnitude spectrum. Centroid and spread are
// the magnitude-weighted mean and standard deviation of the bin index.
func Analyze(spectrum []float64) Stats {
	if len(spectrum) == 0 {
		return Stats{Peaks: []Peak{}}
	}

	s := Stats{
		PeakBin: floats.MaxIdx(spectrum),
		Energy:  floats.Dot(spectrum, spectrum),
	}
	s.PeakValue = spectrum[s.PeakBin]

	if floats.Sum(spectrum) > 0 {
		idx := make([]float64, len(spectrum))
		for i := range idx {
			idx[i] = float64(i)
		}
		s.Centroid = common.WeightedCentroid(spectrum)
		_, s.Spread = stat.PopMeanStdDev(idx, spectrum)
	}

	s.Peaks = DetectPeaks(spectrum, s.PeakValue/2, 2, 0)
	return s
}

// RealSpectrum returns |X[k]| for k < numBins using gonum's real FFT, which
// accepts any length. Bins past len(x)/2 are mirrored from the lower half, and
// numBins is clipped to len(x).
func RealSpectrum(x []float64, numBins int) []float64 {
	n := len(x)
	if n == 0 {
		return []float64{}
	}

	coeffs := fourier.NewFFT(n).Coefficients(nil, x)
	numBins = max(0, min(numBins, n))

	mags := make([]float64, numBins)
	for k := range mags {
		if k < len(coeffs) {
			mags[k] = cmplx.Abs(coeffs[k])
		} else {
			mags[k] = cmplx.Abs(coeffs[n-k])
		}
	}
	return mags
}

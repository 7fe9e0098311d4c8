package spectral

import (
	"math"
	"sort"

	"github.com/RyanBlaney/synthviz/algorithms/common"
)

// Peak is a local maximum of a magnitude spectrum
type Peak struct {
	Bin int `json:"bin"`
	// Position is the parabolically interpolated bin, for sub-bin accuracy
	Position  float64 `json:"position"`
	Magnitude float64 `json:"magnitude"`
	// Harmonic is the 1-based harmonic number, 0 when unassigned
	Harmonic int `json:"harmonic,omitempty"`
}

// DetectPeaks finds local maxima at or above minHeight, at least minDistance
// bins apart, refined with RefinePeak. When maxPeaks > 0 only the tallest
// maxPeaks are kept. Peaks are returned in bin order.
func DetectPeaks(spectrum []float64, minHeight float64, minDistance, maxPeaks int) []Peak {
	bins := common.FindPeaks(spectrum, minHeight, max(minDistance, 1))

	peaks := make([]Peak, len(bins))
	for i, b := range bins {
		pos, mag := RefinePeak(spectrum, b)
		peaks[i] = Peak{Bin: b, Position: pos, Magnitude: mag}
	}

	if maxPeaks > 0 && len(peaks) > maxPeaks {
		sort.Slice(peaks, func(i, j int) bool { return peaks[i].Magnitude > peaks[j].Magnitude })
		peaks = peaks[:maxPeaks]
		sort.Slice(peaks, func(i, j int) bool { return peaks[i].Bin < peaks[j].Bin })
	}
	return peaks
}

// RefinePeak fits a parabola through bin and its neighbours and returns the
// vertex position and height. Edge bins and flat tops are returned unchanged.
func RefinePeak(spectrum []float64, bin int) (position, magnitude float64) {
	if bin < 0 || bin >= len(spectrum) {
		return float64(bin), 0
	}
	if bin == 0 || bin == len(spectrum)-1 {
		return float64(bin), spectrum[bin]
	}

	y1, y2, y3 := spectrum[bin-1], spectrum[bin], spectrum[bin+1]
	denom := 2.0 * (2.0*y2 - y1 - y3)
	if math.Abs(denom) < 1e-10 {
		return float64(bin), y2
	}

	offset := (y3 - y1) / denom
	a := 0.5 * (y1 - 2.0*y2 + y3)
	b := 0.5 * (y3 - y1)
	return float64(bin) + offset, y2 + a*offset*offset + b*offset
}

// AssignHarmonics labels each peak with the nearest multiple of fundamental
// (in bins) when its relative error is below tolerance.
func AssignHarmonics(peaks []Peak, fundamental, tolerance float64) []Peak {
	out := make([]Peak, len(peaks))
	copy(out, peaks)
	if fundamental <= 0 {
		return out
	}

	for i := range out {
		h := math.Round(out[i].Position / fundamental)
		if h < 1 {
			continue
		}
		expected := h * fundamental
		if math.Abs(out[i].Position-expected)/expected < tolerance {
			out[i].Harmonic = int(h)
		}
	}
	return out
}

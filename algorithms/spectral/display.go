package spectral

import (
	"fmt"
	"math"
)

// Smooth121 applies the [1 2 1]/4 kernel used to soften FFT spectra for display.
// The first and last values are copied through unchanged.
func Smooth121(spectrum []float64) []float64 {
	out := make([]float64, len(spectrum))
	copy(out, spectrum)

	for i := 1; i < len(spectrum)-1; i++ {
		out[i] = (spectrum[i-1] + 2*spectrum[i] + spectrum[i+1]) / 4
	}
	return out
}

// BarMode selects one of the synthetic bar spectra drawn next to real FFT plots
type BarMode string

const (
	BarsAliased    BarMode = "aliased"
	BarsClean      BarMode = "clean"
	BarsWhiteNoise BarMode = "white-noise"
	BarsPinkNoise  BarMode = "pink-noise"
	BarsDetunedSaw BarMode = "detuned-saw"
)

// NyquistFraction is where the Nyquist marker sits along a bar chart
const NyquistFraction = 0.625

// aliasAmplitudes are fixed pseudo-random heights for energy folded back above Nyquist
var aliasAmplitudes = []float64{
	0.32, 0.18, 0.27, 0.35, 0.14, 0.29, 0.22, 0.38, 0.16, 0.31, 0.25, 0.19,
}

// cleanFloor is the bar height drawn above Nyquist for a band-limited signal
const cleanFloor = 0.01

// NyquistBar returns the index of the first bar above Nyquist
func NyquistBar(numBars int) int {
	return int(math.Floor(float64(numBars) * NyquistFraction))
}

// Bars returns the bar heights for mode. The values are deterministic so every
// rendered frame draws the same chart.
//
//   - aliased/clean: 1/h saw harmonics below Nyquist; above it either the fixed
//     alias pattern or a near-zero floor
//   - white-noise: flat 0.6
//   - pink-noise: 0.8/sqrt(f)
//   - detuned-saw: pairs (1/h, 0.9/h) for oscillator 1 and 2; odd numBars drops the last bar
func Bars(mode BarMode, numBars int) ([]float64, error) {
	if numBars < 0 {
		return nil, fmt.Errorf("bar count must not be negative: %d", numBars)
	}

	switch mode {
	case BarsWhiteNoise:
		bars := make([]float64, numBars)
		for i := range bars {
			bars[i] = 0.6
		}
		return bars, nil

	case BarsPinkNoise:
		bars := make([]float64, numBars)
		for i := range bars {
			bars[i] = 0.8 / math.Sqrt(float64(i+1))
		}
		return bars, nil

	case BarsDetunedSaw:
		harmonics := numBars / 2
		bars := make([]float64, 0, 2*harmonics)
		for h := 1; h <= harmonics; h++ {
			amp := 1 / float64(h)
			bars = append(bars, amp, amp*0.9)
		}
		return bars, nil

	case BarsAliased, BarsClean:
		nyquist := NyquistBar(numBars)
		bars := make([]float64, numBars)
		for i := range bars {
			switch {
			case i < nyquist:
				bars[i] = 1 / float64(i+1)
			case mode == BarsAliased:
				bars[i] = aliasAmplitudes[(i-nyquist)%len(aliasAmplitudes)]
			default:
				bars[i] = cleanFloor
			}
		}
		return bars, nil

	default:
		return nil, fmt.Errorf("unknown bar mode %q", mode)
	}
}

package common

import (
	"math"
	"math/bits"

	"gonum.org/v1/gonum/stat"
)

// Numeric helpers shared by the spectrum, oscillator and envelope code

// IsPowerOfTwo checks if n is a power of 2
func IsPowerOfTwo(n int) bool {
	return n > 0 && (n&(n-1)) == 0
}

// NextPowerOfTwo finds the next power of 2 >= n
func NextPowerOfTwo(n int) int {
	if n <= 1 {
		return 1
	}
	return 1 << bits.Len(uint(n-1))
}

// Log2 returns log2(n) for a power of two n, or -1 otherwise
func Log2(n int) int {
	if !IsPowerOfTwo(n) {
		return -1
	}
	return bits.TrailingZeros(uint(n))
}

// Fract returns the fractional part of x in [0, 1), also for negative x
func Fract(x float64) float64 {
	f := x - math.Floor(x)
	if f >= 1 {
		return 0
	}
	return f
}

// Clamp constrains a value to a range
func Clamp(value, min, max float64) float64 {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

// Lerp performs linear interpolation between two values
func Lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

// WeightedCentroid returns the weight-averaged index of data, i.e. the
// spectral centroid in bins when data is a magnitude spectrum.
// Returns 0 for empty or all-zero input.
func WeightedCentroid(data []float64) float64 {
	if len(data) == 0 {
		return 0.0
	}

	total := 0.0
	for _, v := range data {
		total += v
	}
	if total <= 0 {
		return 0.0
	}

	idx := make([]float64, len(data))
	for i := range idx {
		idx[i] = float64(i)
	}
	return stat.Mean(idx, data)
}

// FindPeaks finds strict local maxima with value >= minHeight. When two peaks
// are closer than minDistance samples, only the taller one is kept.
// Indices are returned in ascending order.
func FindPeaks(data []float64, minHeight float64, minDistance int) []int {
	if len(data) < 3 {
		return []int{}
	}

	peaks := []int{}
	for i := 1; i < len(data)-1; i++ {
		if data[i] <= data[i-1] || data[i] <= data[i+1] || data[i] < minHeight {
			continue
		}

		if n := len(peaks); n > 0 && i-peaks[n-1] < minDistance {
			if data[i] > data[peaks[n-1]] {
				peaks[n-1] = i
			}
			continue
		}
		peaks = append(peaks, i)
	}

	return peaks
}

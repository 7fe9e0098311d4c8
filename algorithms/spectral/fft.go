package spectral

import (
	"errors"
	"fmt"
	"math"

	"github.com/mjibson/go-dsp/fft"

	"github.com/RyanBlaney/synthviz/algorithms/common"
)

var (
	// ErrNotPowerOfTwo is returned when a radix-2 transform or spectrum request
	// is given a length that is not a positive power of two.
	ErrNotPowerOfTwo = errors.New("length must be a power of two")

	// ErrLengthMismatch is returned when the real and imaginary buffers differ in length.
	ErrLengthMismatch = errors.New("real and imaginary buffers differ in length")
)

// FFTInPlace computes the unnormalized forward DFT of the complex signal held in
// the parallel buffers re and im, overwriting both with the result. Bin k holds
// k cycles per window.
//
// The transform is the iterative radix-2 Cooley-Tukey algorithm: a bit-reversal
// permutation followed by log2(N) butterfly stages. N must be a power of two;
// N = 1 is a no-op. On error neither buffer is touched.
func FFTInPlace(re, im []float64) error {
	n := len(re)
	if len(im) != n {
		return fmt.Errorf("fft: %w (%d vs %d)", ErrLengthMismatch, n, len(im))
	}
	if !common.IsPowerOfTwo(n) {
		return fmt.Errorf("fft: %w: %d", ErrNotPowerOfTwo, n)
	}

	bitReverse(re, im)
	butterflies(re, im)
	return nil
}

// bitReverse moves element i to the bit-reversed position of i, keeping a
// running reversed counter j instead of reversing every index from scratch.
func bitReverse(re, im []float64) {
	n := len(re)
	for i, j := 1, 0; i < n; i++ {
		bit := n >> 1
		for j&bit != 0 {
			j ^= bit
			bit >>= 1
		}
		j ^= bit

		// i < j so every pair is swapped exactly once
		if i < j {
			re[i], re[j] = re[j], re[i]
			im[i], im[j] = im[j], im[i]
		}
	}
}

func butterflies(re, im []float64) {
	n := len(re)
	for size := 2; size <= n; size <<= 1 {
		half := size >> 1
		angle := -2 * math.Pi / float64(size)
		wRe, wIm := math.Cos(angle), math.Sin(angle)

		for start := 0; start < n; start += size {
			curRe, curIm := 1.0, 0.0
			for k := range half {
				a := start + k
				b := a + half

				tRe := re[b]*curRe - im[b]*curIm
				tIm := re[b]*curIm + im[b]*curRe

				re[b] = re[a] - tRe
				im[b] = im[a] - tIm
				re[a] += tRe
				im[a] += tIm

				curRe, curIm = curRe*wRe-curIm*wIm, curRe*wIm+curIm*wRe
			}
		}
	}
}

// FFT wraps the transforms behind a slice-in, slice-out API.
// Power-of-two lengths go through FFTInPlace; any other length falls back to
// mjibson/go-dsp, which handles arbitrary sizes.
type FFT struct{}

// NewFFT creates a new FFT calculator
func NewFFT() *FFT {
	return &FFT{}
}

// Compute returns the DFT of a real signal. The input is not modified.
func (f *FFT) Compute(x []float64) []complex128 {
	if len(x) == 0 {
		return []complex128{}
	}

	if !common.IsPowerOfTwo(len(x)) {
		return fft.FFTReal(x)
	}

	re := make([]float64, len(x))
	im := make([]float64, len(x))
	copy(re, x)
	// length already checked, cannot fail
	_ = FFTInPlace(re, im)

	return zipComplex(re, im)
}

// ComputeComplex returns the DFT of a complex signal. The input is not modified.
func (f *FFT) ComputeComplex(x []complex128) []complex128 {
	if len(x) == 0 {
		return []complex128{}
	}

	if !common.IsPowerOfTwo(len(x)) {
		return fft.FFT(x)
	}

	re := make([]float64, len(x))
	im := make([]float64, len(x))
	for i, v := range x {
		re[i], im[i] = real(v), imag(v)
	}
	_ = FFTInPlace(re, im)

	return zipComplex(re, im)
}

// ComputeInverse computes the inverse FFT (scaled by 1/N)
func (f *FFT) ComputeInverse(x []complex128) []complex128 {
	if len(x) == 0 {
		return []complex128{}
	}

	return fft.IFFT(x)
}

// ComputeInverseReal computes inverse FFT and returns real part only
func (f *FFT) ComputeInverseReal(x []complex128) []float64 {
	if len(x) == 0 {
		return []float64{}
	}

	result := fft.IFFT(x)
	realResult := make([]float64, len(result))

	for i, val := range result {
		realResult[i] = real(val)
	}

	return realResult
}

func zipComplex(re, im []float64) []complex128 {
	out := make([]complex128, len(re))
	for i := range re {
		out[i] = complex(re[i], im[i])
	}
	return out
}

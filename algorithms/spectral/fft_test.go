package spectral

import (
	"errors"
	"math"
	"math/cmplx"
	"math/rand/v2"
	"testing"

	"github.com/mjibson/go-dsp/fft"
	"gonum.org/v1/gonum/dsp/fourier"

	"github.com/RyanBlaney/synthviz/internal/testutil"
)

func randomSignal(n int, seed uint64) (re, im []float64) {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	re = make([]float64, n)
	im = make([]float64, n)
	for i := range re {
		re[i] = rng.Float64()*2 - 1
		im[i] = rng.Float64()*2 - 1
	}
	return re, im
}

func TestFFTInPlace_Impulse(t *testing.T) {
	const n = 16
	re := make([]float64, n)
	im := make([]float64, n)
	re[0] = 1

	if err := FFTInPlace(re, im); err != nil {
		t.Fatalf("FFTInPlace: %v", err)
	}

	mags := Magnitudes(re, im, n)
	ones := make([]float64, n)
	for i := range ones {
		ones[i] = 1
	}
	testutil.RequireSliceNearlyEqual(t, mags, ones, 1e-12)
}

func TestFFTInPlace_PureSinusoid(t *testing.T) {
	const n = 64
	for _, k := range []int{1, 5, 17, 31} {
		re := make([]float64, n)
		im := make([]float64, n)
		for i := range re {
			re[i] = math.Sin(2 * math.Pi * float64(k) * float64(i) / n)
		}

		if err := FFTInPlace(re, im); err != nil {
			t.Fatalf("FFTInPlace: %v", err)
		}

		mags := Magnitudes(re, im, n)
		for bin, m := range mags {
			want := 0.0
			if bin == k || bin == n-k {
				want = n / 2
			}
			if math.Abs(m-want) > 1e-9 {
				t.Fatalf("k=%d bin %d: magnitude %v, want %v", k, bin, m, want)
			}
		}
	}
}

func TestFFTInPlace_Parseval(t *testing.T) {
	ps := NewPowerSpectrum()
	for _, n := range []int{2, 8, 256, 4096} {
		re, im := randomSignal(n, uint64(n))
		timeEnergy := ps.Energy(re, im)

		if err := FFTInPlace(re, im); err != nil {
			t.Fatalf("FFTInPlace(%d): %v", n, err)
		}

		freqEnergy := ps.Energy(re, im)
		want := float64(n) * timeEnergy
		if math.Abs(freqEnergy-want) > 1e-9*want {
			t.Errorf("n=%d: Σ|X|² = %v, want N·Σ|x|² = %v", n, freqEnergy, want)
		}
	}
}

func TestFFTInPlace_SizeOneIsNoOp(t *testing.T) {
	re := []float64{0.75}
	im := []float64{-0.25}

	if err := FFTInPlace(re, im); err != nil {
		t.Fatalf("FFTInPlace: %v", err)
	}
	if re[0] != 0.75 || im[0] != -0.25 {
		t.Errorf("N=1 changed the sample: (%v, %v)", re[0], im[0])
	}
}

func TestFFTInPlace_RejectsBadLengths(t *testing.T) {
	tests := []struct {
		name    string
		re, im  []float64
		wantErr error
	}{
		{"empty", []float64{}, []float64{}, ErrNotPowerOfTwo},
		{"six", make([]float64, 6), make([]float64, 6), ErrNotPowerOfTwo},
		{"mismatch", make([]float64, 8), make([]float64, 4), ErrLengthMismatch},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for i := range tt.re {
				tt.re[i] = float64(i)
			}
			err := FFTInPlace(tt.re, tt.im)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
			for i, v := range tt.re {
				if v != float64(i) {
					t.Fatalf("buffer modified on error at %d: %v", i, v)
				}
			}
		})
	}
}

func TestFFTInPlace_MatchesGoDSP(t *testing.T) {
	const n = 512
	re, im := randomSignal(n, 7)

	input := make([]complex128, n)
	for i := range input {
		input[i] = complex(re[i], im[i])
	}
	want := fft.FFT(input)

	if err := FFTInPlace(re, im); err != nil {
		t.Fatalf("FFTInPlace: %v", err)
	}

	for k := range want {
		got := complex(re[k], im[k])
		if cmplx.Abs(got-want[k]) > 1e-9 {
			t.Fatalf("bin %d: got %v, go-dsp %v", k, got, want[k])
		}
	}
}

func TestFFTInPlace_MatchesGonum(t *testing.T) {
	const n = 1024
	re, im := randomSignal(n, 11)

	seq := make([]complex128, n)
	for i := range seq {
		seq[i] = complex(re[i], im[i])
	}
	want := fourier.NewCmplxFFT(n).Coefficients(nil, seq)

	if err := FFTInPlace(re, im); err != nil {
		t.Fatalf("FFTInPlace: %v", err)
	}

	for k := range want {
		got := complex(re[k], im[k])
		if cmplx.Abs(got-want[k]) > 1e-9 {
			t.Fatalf("bin %d: got %v, gonum %v", k, got, want[k])
		}
	}
}

func naiveDFT(x []float64) []complex128 {
	n := len(x)
	out := make([]complex128, n)
	for k := range out {
		var sum complex128
		for j, v := range x {
			angle := -2 * math.Pi * float64(k) * float64(j) / float64(n)
			sum += complex(v, 0) * cmplx.Exp(complex(0, angle))
		}
		out[k] = sum
	}
	return out
}

func TestFFTCompute(t *testing.T) {
	f := NewFFT()

	for _, n := range []int{8, 12} {
		x, _ := randomSignal(n, uint64(100+n))
		orig := append([]float64(nil), x...)

		got := f.Compute(x)
		want := naiveDFT(x)

		if len(got) != n {
			t.Fatalf("n=%d: len = %d", n, len(got))
		}
		for k := range want {
			if cmplx.Abs(got[k]-want[k]) > 1e-9 {
				t.Fatalf("n=%d bin %d: got %v, want %v", n, k, got[k], want[k])
			}
		}
		testutil.RequireSliceNearlyEqual(t, x, orig, 0)
	}

	if len(f.Compute(nil)) != 0 {
		t.Error("Compute(nil) should be empty")
	}
}

func TestFFTComputeComplexAndInverse(t *testing.T) {
	f := NewFFT()
	re, im := randomSignal(64, 3)
	x := make([]complex128, len(re))
	for i := range x {
		x[i] = complex(re[i], im[i])
	}

	back := f.ComputeInverse(f.ComputeComplex(x))
	for i := range x {
		if cmplx.Abs(back[i]-x[i]) > 1e-12 {
			t.Fatalf("round trip index %d: got %v, want %v", i, back[i], x[i])
		}
	}

	realBack := f.ComputeInverseReal(f.Compute(re))
	testutil.RequireSliceNearlyEqual(t, realBack, re, 1e-12)

	if len(f.ComputeInverse(nil)) != 0 || len(f.ComputeInverseReal(nil)) != 0 || len(f.ComputeComplex(nil)) != 0 {
		t.Error("empty inputs should give empty outputs")
	}
}

func BenchmarkFFTInPlace8192(b *testing.B) {
	re, im := randomSignal(8192, 1)
	workRe := make([]float64, len(re))
	workIm := make([]float64, len(im))

	b.ResetTimer()
	for range b.N {
		copy(workRe, re)
		copy(workIm, im)
		_ = FFTInPlace(workRe, workIm)
	}
}

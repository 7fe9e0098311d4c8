package common

import (
	"math"
	"reflect"
	"testing"
)

func TestIsPowerOfTwo(t *testing.T) {
	for _, n := range []int{1, 2, 4, 1024, 8192} {
		if !IsPowerOfTwo(n) {
			t.Errorf("IsPowerOfTwo(%d) = false", n)
		}
	}
	for _, n := range []int{-8, 0, 3, 6, 1000, 8191} {
		if IsPowerOfTwo(n) {
			t.Errorf("IsPowerOfTwo(%d) = true", n)
		}
	}
}

func TestNextPowerOfTwoAndLog2(t *testing.T) {
	tests := []struct{ in, next int }{
		{-3, 1}, {0, 1}, {1, 1}, {2, 2}, {3, 4}, {1000, 1024}, {4096, 4096}, {4097, 8192},
	}
	for _, tt := range tests {
		if got := NextPowerOfTwo(tt.in); got != tt.next {
			t.Errorf("NextPowerOfTwo(%d) = %d, want %d", tt.in, got, tt.next)
		}
	}

	if got := Log2(8192); got != 13 {
		t.Errorf("Log2(8192) = %d, want 13", got)
	}
	if got := Log2(1); got != 0 {
		t.Errorf("Log2(1) = %d, want 0", got)
	}
	if got := Log2(12); got != -1 {
		t.Errorf("Log2(12) = %d, want -1", got)
	}
}

func TestFract(t *testing.T) {
	tests := []struct{ in, want float64 }{
		{0, 0}, {0.25, 0.25}, {3.75, 0.75}, {-0.25, 0.75}, {-2, 0},
	}
	for _, tt := range tests {
		if got := Fract(tt.in); math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("Fract(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestClampLerp(t *testing.T) {
	if Clamp(-60, -48, 24) != -48 || Clamp(30, -48, 24) != 24 || Clamp(3, -48, 24) != 3 {
		t.Error("Clamp returned an out-of-range value")
	}
	if Lerp(2, 4, 0.25) != 2.5 {
		t.Errorf("Lerp(2, 4, 0.25) = %v", Lerp(2, 4, 0.25))
	}
}

func TestWeightedCentroid(t *testing.T) {
	if got := WeightedCentroid([]float64{0, 0, 1, 0, 0}); got != 2 {
		t.Errorf("centroid of delta at 2 = %v", got)
	}
	if got := WeightedCentroid([]float64{0, 1, 0, 1}); got != 2 {
		t.Errorf("centroid of two equal peaks = %v, want 2", got)
	}
	if got := WeightedCentroid(make([]float64, 4)); got != 0 {
		t.Errorf("centroid of silence = %v, want 0", got)
	}
}

func TestFindPeaks(t *testing.T) {
	data := []float64{0, 1, 0, 0.2, 0.9, 0.3, 0, 0.4, 0.5, 0.1}

	got := FindPeaks(data, 0.0, 1)
	if want := []int{1, 4, 8}; !reflect.DeepEqual(got, want) {
		t.Errorf("FindPeaks = %v, want %v", got, want)
	}

	got = FindPeaks(data, 0.6, 1)
	if want := []int{1, 4}; !reflect.DeepEqual(got, want) {
		t.Errorf("FindPeaks with height = %v, want %v", got, want)
	}

	// peaks 1 and 4 are 3 apart; distance 4 keeps only the taller one
	got = FindPeaks(data, 0.0, 4)
	if want := []int{1, 8}; !reflect.DeepEqual(got, want) {
		t.Errorf("FindPeaks with distance = %v, want %v", got, want)
	}
}

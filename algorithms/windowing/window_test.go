package windowing

import (
	"testing"

	"github.com/RyanBlaney/synthviz/internal/testutil"
)

func TestHannPeriodic(t *testing.T) {
	h := NewHann(4, false)
	testutil.RequireSliceNearlyEqual(t, h.GetCoefficients(), []float64{0, 0.5, 1, 0.5}, 1e-12)

	for i := range 4 {
		testutil.RequireNear(t, "HannAt", HannAt(i, 4), h.GetCoefficients()[i], 1e-15)
	}
}

func TestHannSymmetric(t *testing.T) {
	h := NewHann(5, true)
	testutil.RequireSliceNearlyEqual(t, h.GetCoefficients(), []float64{0, 0.5, 1, 0.5, 0}, 1e-12)
	if !h.IsSymmetric() {
		t.Error("IsSymmetric() = false")
	}
}

func TestWindowPeakValues(t *testing.T) {
	// periodic windows of even length peak at N/2
	tests := []struct {
		name string
		want float64
	}{
		{TypeHann, 1.0},
		{TypeHamming, 1.0},
		{TypeBlackman, 1.0},
		{TypeRectangular, 1.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, err := New(tt.name, 64, false)
			if err != nil {
				t.Fatalf("New: %v", err)
			}
			if w.GetSize() != 64 || w.GetType() != tt.name {
				t.Fatalf("size/type = %d/%s", w.GetSize(), w.GetType())
			}
			testutil.RequireNear(t, "peak", w.GetCoefficients()[32], tt.want, 1e-12)
			testutil.RequireInRange(t, w.GetCoefficients(), -1e-12, 1+1e-12)
		})
	}
}

func TestNewErrors(t *testing.T) {
	if _, err := New("kaiser", 8, false); err == nil {
		t.Error("expected error for unknown window")
	}
	if _, err := New(TypeHann, 0, false); err == nil {
		t.Error("expected error for zero size")
	}
	if w, err := New("Hanning", 8, false); err != nil || w.GetType() != TypeHann {
		t.Errorf("alias lookup failed: %v", err)
	}
}

func TestApply(t *testing.T) {
	h := NewHann(4, false)
	signal := []float64{2, 2, 2, 2}

	out := h.Apply(signal)
	testutil.RequireSliceNearlyEqual(t, out, []float64{0, 1, 2, 1}, 1e-12)
	testutil.RequireSliceNearlyEqual(t, signal, []float64{2, 2, 2, 2}, 0)

	if h.Apply([]float64{1}) != nil {
		t.Error("Apply with wrong length should return nil")
	}

	if err := h.ApplyInPlace(signal); err != nil {
		t.Fatalf("ApplyInPlace: %v", err)
	}
	testutil.RequireSliceNearlyEqual(t, signal, out, 1e-12)

	if err := h.ApplyInPlace(make([]float64, 3)); err == nil {
		t.Error("expected length mismatch error")
	}
}

package oscillator

import (
	"math"
	"testing"

	"github.com/RyanBlaney/synthviz/internal/testutil"
)

func TestPolyBLEP(t *testing.T) {
	const dt = 0.1

	if PolyBLEP(0.5, dt) != 0 {
		t.Error("residual away from the wrap should be zero")
	}
	// right at the wrap the step is corrected by -1 on the rising side
	testutil.RequireNear(t, "t=0", PolyBLEP(0, dt), -1, 1e-12)
	// the polynomial reaches zero one increment either side
	testutil.RequireNear(t, "t→dt", PolyBLEP(dt-1e-12, dt), 0, 1e-9)
	testutil.RequireNear(t, "t→1-dt", PolyBLEP(1-dt+1e-12, dt), 0, 1e-9)
	// just below 1 it approaches +1
	testutil.RequireNear(t, "t→1", PolyBLEP(1-1e-12, dt), 1, 1e-9)

	if PolyBLEP(0, 0) != 0 {
		t.Error("zero increment should disable the correction")
	}
}

func TestPolyBLEPSawIsContinuousAcrossWrap(t *testing.T) {
	// corrected saw: the jump at each wrap is spread over two samples
	saw := PolyBLEPSaw(400, 441, 44100)
	testutil.RequireFinite(t, saw)

	maxStep := 0.0
	for i := 1; i < len(saw); i++ {
		maxStep = math.Max(maxStep, math.Abs(saw[i]-saw[i-1]))
	}
	if maxStep >= 2 {
		t.Errorf("max sample-to-sample step %v; the naive saw would jump by 2", maxStep)
	}

	if got := PolyBLEPSaw(4, 100, 0); len(got) != 4 {
		t.Errorf("len = %d, want 4 for zero sample rate", len(got))
	}
}

func TestGenerateBasicShapes(t *testing.T) {
	const n = 8

	tests := []struct {
		shape Shape
		want  []float64
	}{
		{Saw, []float64{-1, -0.75, -0.5, -0.25, 0, 0.25, 0.5, 0.75}},
		{Phasor, []float64{0, 0.125, 0.25, 0.375, 0.5, 0.625, 0.75, 0.875}},
		{Square, []float64{1, 1, 1, 1, -1, -1, -1, -1}},
		{Triangle, []float64{-1, -0.5, 0, 0.5, 1, 0.5, 0, -0.5}},
		{Sine, []float64{0, math.Sqrt2 / 2, 1, math.Sqrt2 / 2, 0, -math.Sqrt2 / 2, -1, -math.Sqrt2 / 2}},
	}

	for _, tt := range tests {
		t.Run(string(tt.shape), func(t *testing.T) {
			got, err := Generate(tt.shape, n, 1, 0)
			if err != nil {
				t.Fatalf("Generate: %v", err)
			}
			testutil.RequireSliceNearlyEqual(t, got, tt.want, 1e-12)
		})
	}
}

func TestGenerateShapeMorphs(t *testing.T) {
	testutil.RequireNear(t, "rect min", RectangleWidth(0), 0.5, 0)
	testutil.RequireNear(t, "rect max", RectangleWidth(1), 0.99, 1e-12)
	testutil.RequireNear(t, "pulse min", PulseWidth(-3), 0.05, 1e-12)
	testutil.RequireNear(t, "pulse max", PulseWidth(1), 0.45, 1e-12)
	testutil.RequireNear(t, "shark", SharkToothPeak(0.5), 0.5, 1e-12)
	testutil.RequireNear(t, "drive", DriveFromShape(1), 6, 1e-12)

	pulse, _ := Generate(Pulse, 20, 1, 0)
	high := 0
	for _, v := range pulse {
		if v > 0 {
			high++
		}
	}
	if high != 1 {
		t.Errorf("5%% pulse over 20 points has %d high samples, want 1", high)
	}

	shark, _ := Generate(SharkTooth, 10, 1, 0)
	// peak at phase 0.1 → sample 1 is the top
	testutil.RequireNear(t, "shark peak", shark[1], 1, 1e-12)
	testutil.RequireNear(t, "shark start", shark[0], -1, 1e-12)

	sat, _ := Generate(Saturated, 64, 2, 1)
	testutil.RequireInRange(t, sat, -1, 1)
	testutil.RequireNear(t, "saturated start", sat[0], math.Tanh(-6), 1e-12)
}

func TestGeneratePolyBLEPSaw(t *testing.T) {
	naive, _ := Generate(Saw, 100, 4, 0)
	blep, _ := Generate(SawPolyBLEP, 100, 4, 0)

	// points 0, 25, 50, 75 sit on the wrap and are corrected; the middle of a ramp is not
	if blep[25] == naive[25] {
		t.Error("wrap sample should be corrected")
	}
	testutil.RequireNear(t, "mid ramp", blep[12], naive[12], 0)
}

func TestGenerateZoomed(t *testing.T) {
	zoomed, err := Generate(SawZoomed, 30, 0, 0)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	testutil.RequireNear(t, "zoom start", zoomed[0], 2*0.85-1, 1e-12)

	// the wrap lands at point 15 or 16 depending on rounding of 0.85 + 0.15
	drop := -1
	for i := 1; i < len(zoomed); i++ {
		if zoomed[i] < zoomed[i-1] {
			if drop >= 0 {
				t.Fatalf("second falling edge at %d", i)
			}
			drop = i
		}
	}
	if drop != 15 && drop != 16 {
		t.Fatalf("falling edge at %d, want 15 or 16", drop)
	}

	smoothed, _ := Generate(SawZoomedPolyBLEP, 30, 0, 0)
	if math.Abs(smoothed[drop]-smoothed[drop-1]) >= math.Abs(zoomed[drop]-zoomed[drop-1]) {
		t.Error("PolyBLEP should shrink the jump at the wrap")
	}
}

func TestGenerateErrors(t *testing.T) {
	if _, err := Generate("noise", 8, 1, 0); err == nil {
		t.Error("expected error for unknown shape")
	}
	if _, err := Generate(Saw, -1, 1, 0); err == nil {
		t.Error("expected error for negative count")
	}
	if _, err := Generate(Sine, 8, 0, 0); err == nil {
		t.Error("expected error for zero periods")
	}
	for _, s := range Shapes {
		if _, err := Generate(s, 16, 2, 0.3); err != nil {
			t.Errorf("%s: %v", s, err)
		}
	}
}

func TestWaveshape(t *testing.T) {
	ws, err := NewWaveshape(3, 200, 3)
	if err != nil {
		t.Fatalf("NewWaveshape: %v", err)
	}
	if len(ws.Input) != 200 || len(ws.Transfer) != 200 || len(ws.Output) != 200 {
		t.Fatalf("panel lengths %d/%d/%d", len(ws.Input), len(ws.Transfer), len(ws.Output))
	}

	testutil.RequireNear(t, "transfer start", ws.Transfer[0], math.Tanh(-3), 1e-12)
	testutil.RequireNear(t, "transfer end", ws.Transfer[199], math.Tanh(3), 1e-12)
	for i, x := range ws.Input {
		testutil.RequireNear(t, "output", ws.Output[i], math.Tanh(3*x), 1e-12)
	}

	if _, err := NewWaveshape(3, 1, 1); err == nil {
		t.Error("expected error for a single point")
	}
	if got := TanhTransfer(2, 1); len(got) != 1 || got[0] != 0 {
		t.Errorf("TanhTransfer(2, 1) = %v", got)
	}
}

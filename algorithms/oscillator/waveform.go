// Package oscillator generates the single-cycle and multi-period waveform
// shapes plotted in the oscillator chapters, including the PolyBLEP-corrected
// sawtooth and the shape-morphed variants driven by a 0..1 shape value.
package oscillator

import (
	"fmt"
	"math"

	"github.com/RyanBlaney/synthviz/algorithms/common"
)

// Shape names a plotted waveform
type Shape string

const (
	Saw               Shape = "saw"
	SawPolyBLEP       Shape = "saw-polyblep"
	SawZoomed         Shape = "saw-zoomed"
	SawZoomedPolyBLEP Shape = "saw-zoomed-polyblep"
	Sine              Shape = "sine"
	Triangle          Shape = "triangle"
	Square            Shape = "square"
	Phasor            Shape = "phasor"
	Rectangle         Shape = "rectangle"
	Pulse             Shape = "pulse"
	SharkTooth        Shape = "sharktooth"
	Saturated         Shape = "saturated"
)

// Shapes lists every supported shape in display order
var Shapes = []Shape{
	Saw, SawPolyBLEP, SawZoomed, SawZoomedPolyBLEP, Sine, Triangle,
	Square, Phasor, Rectangle, Pulse, SharkTooth, Saturated,
}

// The zoomed views cover phase 0.85..1.15 of one period around the wrap
const (
	zoomStart = 0.85
	zoomSpan  = 0.3
	// zoomIncrement stands in for a typical per-sample phase step
	zoomIncrement = 0.02
)

// Generate returns numPoints samples of shape spread across periods cycles.
// shapeValue (clamped to 0..1) morphs the rectangle, pulse, sharktooth and
// saturated shapes and is ignored by the others.
func Generate(shape Shape, numPoints int, periods, shapeValue float64) ([]float64, error) {
	if numPoints < 0 {
		return nil, fmt.Errorf("point count must not be negative: %d", numPoints)
	}
	if periods <= 0 && shape != SawZoomed && shape != SawZoomedPolyBLEP {
		return nil, fmt.Errorf("periods must be positive: %v", periods)
	}

	shapeValue = common.Clamp(shapeValue, 0, 1)
	sample, err := sampler(shape, numPoints, periods, shapeValue)
	if err != nil {
		return nil, err
	}

	values := make([]float64, numPoints)
	for i := range values {
		t := float64(i) / float64(numPoints) * periods
		values[i] = sample(i, t, common.Fract(t))
	}
	return values, nil
}

// sampler returns the per-point function for shape; it receives the point
// index, the position in periods and the phase within the current period.
func sampler(shape Shape, numPoints int, periods, shapeValue float64) (func(i int, t, phase float64) float64, error) {
	switch shape {
	case Saw:
		return func(_ int, _, phase float64) float64 { return naiveSaw(phase) }, nil

	case SawPolyBLEP:
		dt := periods / float64(numPoints)
		return func(_ int, _, phase float64) float64 { return naiveSaw(phase) - PolyBLEP(phase, dt) }, nil

	case SawZoomed:
		return func(i int, _, _ float64) float64 {
			return naiveSaw(zoomPhase(i, numPoints))
		}, nil

	case SawZoomedPolyBLEP:
		return func(i int, _, _ float64) float64 {
			phase := zoomPhase(i, numPoints)
			return naiveSaw(phase) - PolyBLEP(phase, zoomIncrement)
		}, nil

	case Sine:
		return func(_ int, t, _ float64) float64 { return math.Sin(2 * math.Pi * t) }, nil

	case Triangle:
		return func(_ int, _, phase float64) float64 { return triangle(phase) }, nil

	case Square:
		return func(_ int, _, phase float64) float64 { return pulseAt(phase, 0.5) }, nil

	case Phasor:
		return func(_ int, _, phase float64) float64 { return phase }, nil

	case Rectangle:
		pw := RectangleWidth(shapeValue)
		return func(_ int, _, phase float64) float64 { return pulseAt(phase, pw) }, nil

	case Pulse:
		pw := PulseWidth(shapeValue)
		return func(_ int, _, phase float64) float64 { return pulseAt(phase, pw) }, nil

	case SharkTooth:
		mid := SharkToothPeak(shapeValue)
		return func(_ int, _, phase float64) float64 {
			if phase < mid {
				return 2*phase/mid - 1
			}
			return 1 - 2*(phase-mid)/(1-mid)
		}, nil

	case Saturated:
		drive := DriveFromShape(shapeValue)
		return func(_ int, _, phase float64) float64 { return math.Tanh(drive * naiveSaw(phase)) }, nil

	default:
		return nil, fmt.Errorf("unknown waveform shape %q", shape)
	}
}

// RectangleWidth maps shape 0..1 onto a pulse width of 50%..99%
func RectangleWidth(shape float64) float64 {
	return 0.5 + common.Clamp(shape, 0, 1)*0.49
}

// PulseWidth maps shape 0..1 onto a narrow pulse width of 5%..45%
func PulseWidth(shape float64) float64 {
	return 0.05 + common.Clamp(shape, 0, 1)*0.40
}

// SharkToothPeak maps shape 0..1 onto the peak position 0.1..0.9
func SharkToothPeak(shape float64) float64 {
	return 0.1 + common.Clamp(shape, 0, 1)*0.8
}

func naiveSaw(phase float64) float64 {
	return 2*phase - 1
}

func triangle(phase float64) float64 {
	if phase < 0.5 {
		return 4*phase - 1
	}
	return 3 - 4*phase
}

func pulseAt(phase, width float64) float64 {
	if phase < width {
		return 1
	}
	return -1
}

func zoomPhase(i, numPoints int) float64 {
	p := zoomStart + float64(i)/float64(numPoints)*zoomSpan
	if p >= 1 {
		p--
	}
	return p
}

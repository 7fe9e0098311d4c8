package windowing

import (
	"math"

	dspwindow "github.com/mjibson/go-dsp/window"
)

// Hann represents a Hann window function
type Hann struct {
	taper
}

// NewHann creates a new Hann window.
// The periodic form is 0.5(1 - cos(2πi/N)).
func NewHann(size int, symmetric bool) *Hann {
	h := &Hann{taper{name: TypeHann, symmetric: symmetric}}
	if symmetric {
		h.coefficients = dspwindow.Hann(size)
	} else {
		h.coefficients = cosineSum(size, 0.5, 0.5, 0)
	}
	return h
}

// HannAt returns the periodic Hann coefficient for sample i of an n-sample window
// without allocating the full table.
func HannAt(i, n int) float64 {
	return 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(n)))
}

func cosineTerm(i, n int, a0, a1, a2 float64) float64 {
	arg := 2 * math.Pi * float64(i) / float64(n)
	return a0 - a1*math.Cos(arg) + a2*math.Cos(2*arg)
}

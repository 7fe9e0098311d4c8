package windowing

import (
	dspwindow "github.com/mjibson/go-dsp/window"
)

// Blackman represents a Blackman window function
type Blackman struct {
	taper
}

// NewBlackman creates a new Blackman window
func NewBlackman(size int, symmetric bool) *Blackman {
	b := &Blackman{taper{name: TypeBlackman, symmetric: symmetric}}
	if symmetric {
		b.coefficients = dspwindow.Blackman(size)
	} else {
		b.coefficients = cosineSum(size, 0.42, 0.5, 0.08)
	}
	return b
}

package windowing

import (
	dspwindow "github.com/mjibson/go-dsp/window"
)

// Hamming represents a Hamming window function
type Hamming struct {
	taper
}

// NewHamming creates a new Hamming window (0.54 - 0.46 cos)
func NewHamming(size int, symmetric bool) *Hamming {
	h := &Hamming{taper{name: TypeHamming, symmetric: symmetric}}
	if symmetric {
		h.coefficients = dspwindow.Hamming(size)
	} else {
		h.coefficients = cosineSum(size, 0.54, 0.46, 0)
	}
	return h
}

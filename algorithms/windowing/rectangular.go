package windowing

import (
	dspwindow "github.com/mjibson/go-dsp/window"
)

// Rectangular is the identity window
type Rectangular struct {
	taper
}

// NewRectangular creates a window of ones
func NewRectangular(size int) *Rectangular {
	return &Rectangular{taper{name: TypeRectangular, coefficients: dspwindow.Rectangular(size)}}
}

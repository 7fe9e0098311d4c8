package filters

import "math"

// DCBlocker removes the 0 Hz component with a one-pole, one-zero highpass:
//
//	y[n] = x[n] - x[n-1] + R*y[n-1]
//
// Reference: https://ccrma.stanford.edu/~jos/filters/DC_Blocker.html
type DCBlocker struct {
	pole float64
	x1   float64
	y1   float64
}

// NewDCBlocker sets the pole from the desired -3 dB corner, R ≈ 1 - 2π·fc/fs
func NewDCBlocker(sampleRate int, cutoffHz float64) *DCBlocker {
	pole := 0.995
	if sampleRate > 0 && cutoffHz > 0 {
		pole = 1.0 - 2.0*math.Pi*cutoffHz/float64(sampleRate)
	}
	return &DCBlocker{pole: math.Max(0.001, math.Min(0.999, pole))}
}

// Process filters one sample
func (dc *DCBlocker) Process(x float64) float64 {
	y := x - dc.x1 + dc.pole*dc.y1
	dc.x1 = x
	dc.y1 = y
	return y
}

// ProcessInPlace filters buf in place
func (dc *DCBlocker) ProcessInPlace(buf []float64) {
	for i, x := range buf {
		buf[i] = dc.Process(x)
	}
}

// Pole returns R
func (dc *DCBlocker) Pole() float64 { return dc.pole }

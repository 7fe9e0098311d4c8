package filters

import (
	"fmt"
	"math"
)

// Biquad is a 2nd-order IIR section with coefficients from Robert Bristow-Johnson's
// "Cookbook formulae for audio EQ biquad filter coefficients".
// Reference: https://webaudio.github.io/Audio-EQ-Cookbook/audio-eq-cookbook.html
//
// It renders the same lowpass/highpass/bandpass settings the response plot shows,
// so a preview can be heard through the filter being drawn.
type Biquad struct {
	filterType Type
	sampleRate int
	cutoffHz   float64
	q          float64

	// Normalised so a0 = 1
	b0, b1, b2 float64
	a1, a2     float64

	// Direct form II state
	w1, w2 float64
}

// NewBiquad creates a filter. cutoffHz must lie strictly between 0 and Nyquist.
func NewBiquad(t Type, sampleRate int, cutoffHz, q float64) (*Biquad, error) {
	if _, err := ParseType(string(t)); err != nil {
		return nil, err
	}
	if sampleRate <= 0 {
		return nil, fmt.Errorf("sample rate must be positive: %d", sampleRate)
	}
	if cutoffHz <= 0 || cutoffHz >= float64(sampleRate)/2 {
		return nil, fmt.Errorf("cutoff must be between 0 and Nyquist (%d Hz): %v", sampleRate/2, cutoffHz)
	}
	if q <= 0 {
		return nil, fmt.Errorf("q must be positive: %v", q)
	}

	bq := &Biquad{filterType: t, sampleRate: sampleRate, cutoffHz: cutoffHz, q: q}
	bq.computeCoefficients()
	return bq, nil
}

// NewBiquadFromResponse builds the audio filter matching a plotted response.
// The cutoff position is mapped to Hz and capped just below Nyquist.
func NewBiquadFromResponse(r Response, sampleRate int) (*Biquad, error) {
	cutoff := math.Min(CutoffHz(r.Cutoff), 0.49*float64(sampleRate))
	return NewBiquad(r.Type, sampleRate, cutoff, QFromResonance(r.Resonance))
}

func (bq *Biquad) computeCoefficients() {
	w0 := 2.0 * math.Pi * bq.cutoffHz / float64(bq.sampleRate)
	cosW0 := math.Cos(w0)
	alpha := math.Sin(w0) / (2.0 * bq.q)

	var b0, b1, b2 float64
	switch bq.filterType {
	case Highpass:
		b0 = (1 + cosW0) / 2
		b1 = -(1 + cosW0)
		b2 = (1 + cosW0) / 2
	case Bandpass:
		// constant 0 dB peak gain
		b0 = alpha
		b1 = 0
		b2 = -alpha
	default:
		b0 = (1 - cosW0) / 2
		b1 = 1 - cosW0
		b2 = (1 - cosW0) / 2
	}

	a0 := 1 + alpha
	bq.b0 = b0 / a0
	bq.b1 = b1 / a0
	bq.b2 = b2 / a0
	bq.a1 = -2 * cosW0 / a0
	bq.a2 = (1 - alpha) / a0
}

// Process filters one sample.
//
// w[n] = x[n] - a1*w[n-1] - a2*w[n-2]
// y[n] = b0*w[n] + b1*w[n-1] + b2*w[n-2]
func (bq *Biquad) Process(x float64) float64 {
	w := x - bq.a1*bq.w1 - bq.a2*bq.w2
	y := bq.b0*w + bq.b1*bq.w1 + bq.b2*bq.w2
	bq.w2 = bq.w1
	bq.w1 = w
	return y
}

// ProcessBuffer filters buf into a new slice
func (bq *Biquad) ProcessBuffer(buf []float64) []float64 {
	out := make([]float64, len(buf))
	for i, x := range buf {
		out[i] = bq.Process(x)
	}
	return out
}

// Reset clears the delay line
func (bq *Biquad) Reset() {
	bq.w1, bq.w2 = 0, 0
}

// FrequencyResponse evaluates |H(e^jw)| and its phase at freqHz.
//
// H(e^jw) = (b0 + b1*e^-jw + b2*e^-j2w) / (1 + a1*e^-jw + a2*e^-j2w)
func (bq *Biquad) FrequencyResponse(freqHz float64) (magnitude, phase float64) {
	w := 2.0 * math.Pi * freqHz / float64(bq.sampleRate)
	cosW, sinW := math.Cos(w), math.Sin(w)
	cos2W, sin2W := math.Cos(2*w), math.Sin(2*w)

	numRe := bq.b0 + bq.b1*cosW + bq.b2*cos2W
	numIm := -bq.b1*sinW - bq.b2*sin2W
	denRe := 1 + bq.a1*cosW + bq.a2*cos2W
	denIm := -bq.a1*sinW - bq.a2*sin2W

	denMagSq := denRe*denRe + denIm*denIm
	hRe := (numRe*denRe + numIm*denIm) / denMagSq
	hIm := (numIm*denRe - numRe*denIm) / denMagSq

	return math.Sqrt(hRe*hRe + hIm*hIm), math.Atan2(hIm, hRe)
}

// Q returns the quality factor
func (bq *Biquad) Q() float64 { return bq.q }

// CutoffHz returns the corner (or centre) frequency
func (bq *Biquad) CutoffHz() float64 { return bq.cutoffHz }

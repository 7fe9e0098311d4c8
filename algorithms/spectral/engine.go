package spectral

import (
	"fmt"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"

	"github.com/RyanBlaney/synthviz/algorithms/common"
)

// Engine selects the transform behind a spectrum
type Engine string

const (
	// EngineRadix2 is FFTInPlace
	EngineRadix2 Engine = "radix2"
	// EngineGoDSP is mjibson/go-dsp's mixed-radix FFT
	EngineGoDSP Engine = "go-dsp"
	// EngineGonum is gonum's real FFT
	EngineGonum Engine = "gonum"
)

// Engines lists the available transforms
var Engines = []Engine{EngineRadix2, EngineGoDSP, EngineGonum}

// BuildWith is Build computed through engine. All engines agree to rounding
// error; the alternatives exist to check the radix-2 path against independent
// implementations.
func (r SpectrumRequest) BuildWith(engine Engine) ([]float64, error) {
	if err := r.Validate(); err != nil {
		return nil, fmt.Errorf("detuned saw spectrum: %w", err)
	}

	var mags []float64
	switch engine {
	case EngineRadix2, "":
		return r.Build()
	case EngineGoDSP:
		coeffs := fft.FFTReal(r.Signal())
		mags = make([]float64, r.NumBins)
		for i := range mags {
			mags[i] = cmplx.Abs(coeffs[i])
		}
	case EngineGonum:
		mags = RealSpectrum(r.Signal(), r.NumBins)
	default:
		return nil, fmt.Errorf("detuned saw spectrum: unknown engine %q", engine)
	}

	common.MaxNormalizeInPlace(mags)
	return mags, nil
}

package oscillator

// PolyBLEP returns the polynomial band-limited step residual for a signal that
// jumps at phase 0. t is the current phase in [0, 1) and dt the phase increment
// per sample. Only the sample on either side of the wrap is corrected; zero
// everywhere else.
//
// Subtracting the residual from a naive saw (2t - 1) smooths its falling edge.
func PolyBLEP(t, dt float64) float64 {
	if dt <= 0 {
		return 0
	}

	switch {
	case t < dt:
		// just past the discontinuity
		x := t / dt
		return x + x - x*x - 1
	case t > 1-dt:
		// just before it
		x := (t - 1) / dt
		return x*x + x + x + 1
	default:
		return 0
	}
}

// PolyBLEPSaw renders n samples of a band-limited sawtooth at freqHz, starting
// at phase 0. Used for audible previews where the naive saw would alias.
func PolyBLEPSaw(n int, freqHz, sampleRate float64) []float64 {
	out := make([]float64, max(n, 0))
	if sampleRate <= 0 {
		return out
	}

	dt := freqHz / sampleRate
	phase := 0.0
	for i := range out {
		out[i] = naiveSaw(phase) - PolyBLEP(phase, dt)
		phase += dt
		if phase >= 1 {
			phase--
		}
	}
	return out
}

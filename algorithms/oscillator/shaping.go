package oscillator

import (
	"fmt"
	"math"

	"github.com/RyanBlaney/synthviz/algorithms/common"
)

// DriveFromShape maps shape 0..1 onto a tanh drive of 1.5..6
func DriveFromShape(shape float64) float64 {
	return 1.5 + common.Clamp(shape, 0, 1)*4.5
}

// Waveshape holds the three panels of the saturation diagram: the input saw,
// the tanh transfer curve over x in [-1, 1], and the shaped output.
type Waveshape struct {
	Drive    float64   `json:"drive"`
	Input    []float64 `json:"input"`
	Transfer []float64 `json:"transfer"`
	Output   []float64 `json:"output"`
}

// NewWaveshape computes the saturation panels for drive with numPoints samples
// each; the input and output span periods cycles of the saw.
func NewWaveshape(drive float64, numPoints int, periods float64) (*Waveshape, error) {
	if numPoints < 2 {
		return nil, fmt.Errorf("waveshape needs at least 2 points, got %d", numPoints)
	}

	input, err := Generate(Saw, numPoints, periods, 0)
	if err != nil {
		return nil, err
	}

	ws := &Waveshape{
		Drive:    drive,
		Input:    input,
		Transfer: TanhTransfer(drive, numPoints),
		Output:   make([]float64, numPoints),
	}
	for i, x := range input {
		ws.Output[i] = math.Tanh(drive * x)
	}
	return ws, nil
}

// TanhTransfer samples tanh(drive·x) at numPoints evenly spaced x from -1 to 1 inclusive
func TanhTransfer(drive float64, numPoints int) []float64 {
	if numPoints <= 0 {
		return []float64{}
	}
	if numPoints == 1 {
		return []float64{0}
	}

	out := make([]float64, numPoints)
	for i := range out {
		x := float64(i)/float64(numPoints-1)*2 - 1
		out[i] = math.Tanh(drive * x)
	}
	return out
}

package spectral

import (
	"testing"

	"github.com/RyanBlaney/synthviz/algorithms/common"
	"github.com/RyanBlaney/synthviz/internal/testutil"
)

func TestAnalyze(t *testing.T) {
	spectrum := []float64{0, 0.1, 1, 0.1, 0, 0, 0.2, 0.6, 0.2, 0}
	s := Analyze(spectrum)

	if s.PeakBin != 2 || s.PeakValue != 1 {
		t.Errorf("peak = %d/%v, want 2/1", s.PeakBin, s.PeakValue)
	}
	if len(s.Peaks) != 2 || s.Peaks[0].Bin != 2 || s.Peaks[1].Bin != 7 {
		t.Errorf("peaks = %v, want [2 7]", s.Peaks)
	}
	testutil.RequireNear(t, "energy", s.Energy, 0.01+1+0.01+0.04+0.36+0.04, 1e-12)
	testutil.RequireNear(t, "centroid", s.Centroid, common.WeightedCentroid(spectrum), 0)
	if s.Spread <= 0 {
		t.Errorf("spread = %v, want > 0", s.Spread)
	}

	if empty := Analyze(nil); empty.PeakBin != 0 || len(empty.Peaks) != 0 {
		t.Errorf("empty stats = %+v", empty)
	}
	if silent := Analyze(make([]float64, 8)); silent.Centroid != 0 || silent.Spread != 0 {
		t.Errorf("silent stats = %+v", silent)
	}
}

func TestAnalyzeUnisonSpectrum(t *testing.T) {
	mags, err := DetunedSawSpectrum(8192, 96, 0, 800)
	if err != nil {
		t.Fatalf("DetunedSawSpectrum: %v", err)
	}
	s := Analyze(mags)
	if s.PeakBin != 96 {
		t.Errorf("peak bin = %d, want 96", s.PeakBin)
	}
	if len(s.Peaks) == 0 || s.Peaks[0].Bin != 96 {
		t.Fatalf("peaks = %v", s.Peaks)
	}
	// 95 and 97 are both 0.5, so the vertex lands on the bin
	testutil.RequireNear(t, "refined", s.Peaks[0].Position, 96, 1e-9)
}

func TestRealSpectrumMatchesBuild(t *testing.T) {
	req := SpectrumRequest{WindowSize: 1024, FundamentalCycles: 24, DetuneCents: 30, NumBins: 200}

	got, err := req.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	want := RealSpectrum(req.Signal(), req.NumBins)
	common.MaxNormalizeInPlace(want)
	testutil.RequireSliceNearlyEqual(t, got, want, 1e-9)
}

func TestRealSpectrumBins(t *testing.T) {
	if got := RealSpectrum(make([]float64, 10), 100); len(got) != 10 {
		t.Errorf("len = %d, want 10", len(got))
	}

	x := []float64{1, 2, 0, -1, 3, 0.5}
	got := RealSpectrum(x, 6)
	for k := 1; k < 6; k++ {
		testutil.RequireNear(t, "mirror", got[k], got[6-k], 1e-12)
	}
	if got := RealSpectrum(nil, 4); len(got) != 0 {
		t.Errorf("len = %d, want 0", len(got))
	}
}

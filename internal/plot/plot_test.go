package plot

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/lightcurve-data/photometry.report/internal/photometry"
)

func sampleResult() *photometry.CleanResult {
	return &photometry.CleanResult{
		Flux: []float64{0.99, 1.0, 1.01, 1.0},
		Time: []float64{2455000.5, 2455000.6, 2455000.7, 2455000.8},
		X:    []float64{-0.1, 0.1, -0.1, 0.1},
		Y:    []float64{0.2, -0.2, 0.2, -0.2},
	}
}

func TestLightCurvePNG(t *testing.T) {
	out := filepath.Join(t.TempDir(), "lc.png")
	if err := LightCurvePNG(sampleResult(), out); err != nil {
		t.Fatalf("LightCurvePNG failed: %v", err)
	}
	info, err := os.Stat(out)
	if err != nil {
		t.Fatalf("output file missing: %v", err)
	}
	if info.Size() == 0 {
		t.Error("output file is empty")
	}
}

func TestCentroidPNG(t *testing.T) {
	out := filepath.Join(t.TempDir(), "cen.png")
	if err := CentroidPNG(sampleResult(), out); err != nil {
		t.Fatalf("CentroidPNG failed: %v", err)
	}
	if _, err := os.Stat(out); err != nil {
		t.Fatalf("output file missing: %v", err)
	}
}

func TestEmptyResultReturnsErrNoData(t *testing.T) {
	out := filepath.Join(t.TempDir(), "empty.png")

	if err := LightCurvePNG(&photometry.CleanResult{}, out); !errors.Is(err, ErrNoData) {
		t.Errorf("LightCurvePNG on empty result = %v, want ErrNoData", err)
	}
	if err := CentroidPNG(&photometry.CleanResult{}, out); !errors.Is(err, ErrNoData) {
		t.Errorf("CentroidPNG on empty result = %v, want ErrNoData", err)
	}
	if _, err := os.Stat(out); !os.IsNotExist(err) {
		t.Error("no file should be written for an empty result")
	}
}

func TestNaNPointsAreSkipped(t *testing.T) {
	res := sampleResult()
	res.Flux[1] = math.NaN()
	res.Time[2] = math.Inf(1)

	out := filepath.Join(t.TempDir(), "lc.png")
	if err := LightCurvePNG(res, out); err != nil {
		t.Fatalf("LightCurvePNG with NaN points failed: %v", err)
	}
}

package testutil

import (
	"math"
	"os"
	"testing"
)

func TestAssertInDelta(t *testing.T) {
	// Exercise the passing paths; the failing paths would fail this
	// test by design.
	AssertInDelta(t, 1.0000001, 1.0, 1e-6)
	AssertInDelta(t, -5, -5, 0)
}

func TestAssertNaN(t *testing.T) {
	AssertNaN(t, math.NaN())
}

func TestWriteTempTable(t *testing.T) {
	path := WriteTempTable(t, "header\n1 2 3\n")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("fixture not written: %v", err)
	}
	if string(data) != "header\n1 2 3\n" {
		t.Errorf("fixture contents = %q", string(data))
	}
}

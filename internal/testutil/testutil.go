// Package testutil provides shared test utilities and fixtures.
//
// This package centralises common test helpers to reduce code duplication
// across test files and improve test maintainability.
package testutil

import (
	"math"
	"os"
	"path/filepath"
	"testing"
)

// AssertNoError fails the test if err is not nil.
func AssertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// AssertError fails the test if err is nil.
func AssertError(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}

// AssertInDelta checks that got is within delta of want. NaN never
// matches; use AssertNaN for that.
func AssertInDelta(t *testing.T, got, want, delta float64) {
	t.Helper()
	if math.IsNaN(got) || math.Abs(got-want) > delta {
		t.Errorf("value = %v, want %v ± %v", got, want, delta)
	}
}

// AssertNaN checks that the value is NaN.
func AssertNaN(t *testing.T, got float64) {
	t.Helper()
	if !math.IsNaN(got) {
		t.Errorf("value = %v, want NaN", got)
	}
}

// WriteTempTable writes a table fixture to a temp file and returns its
// path. The file is removed when the test finishes.
func WriteTempTable(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "table.dat")
	if err := os.WriteFile(path, []byte(contents), 0644); err != nil {
		t.Fatalf("failed to write fixture table: %v", err)
	}
	return path
}

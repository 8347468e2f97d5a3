package photometry

import (
	"errors"
	"io/fs"
	"math"
	"strings"
	"testing"
)

// row builds an 11-column table row with the default layout: flux,
// flux_err, time on the first three columns, centroid and PSF widths on
// the even columns, and filler on the unused odd columns.
func row(flux, fluxErr, time, x, y, psfxw, psfyw string) string {
	return strings.Join([]string{flux, fluxErr, time, "0", x, "0", y, "0", psfxw, "0", psfyw}, " ")
}

const header = "# flux flux_err time xerr x yerr y bg psfxw bgerr psfyw\n"

func TestReadTable(t *testing.T) {
	input := header +
		row("1.5", "0.1", "55000.1", "14.9", "15.2", "1.05", "1.10") + "\n" +
		row("1.6", "0.2", "55000.2", "15.0", "15.1", "1.06", "1.11") + "\n"

	obs, err := ReadTable(strings.NewReader(input), "test.dat", DefaultLayout())
	if err != nil {
		t.Fatalf("ReadTable failed: %v", err)
	}
	if len(obs) != 2 {
		t.Fatalf("got %d observations, want 2", len(obs))
	}

	first := Observation{Flux: 1.5, FluxErr: 0.1, Time: 55000.1, X: 14.9, Y: 15.2, PSFXWidth: 1.05, PSFYWidth: 1.10}
	if obs[0] != first {
		t.Errorf("first row = %+v, want %+v", obs[0], first)
	}
}

func TestReadTableSkipsBlankAndCommentLines(t *testing.T) {
	input := header +
		"\n" +
		"# stray comment\n" +
		row("1.5", "0.1", "55000.1", "14.9", "15.2", "1.05", "1.10") + "\n" +
		"   \n"

	obs, err := ReadTable(strings.NewReader(input), "test.dat", DefaultLayout())
	if err != nil {
		t.Fatalf("ReadTable failed: %v", err)
	}
	if len(obs) != 1 {
		t.Errorf("got %d observations, want 1", len(obs))
	}
}

func TestReadTableNonFiniteTokens(t *testing.T) {
	input := header +
		row("nan", "0.1", "55000.1", "inf", "-inf", "NaN", "+Inf") + "\n"

	obs, err := ReadTable(strings.NewReader(input), "test.dat", DefaultLayout())
	if err != nil {
		t.Fatalf("ReadTable failed: %v", err)
	}
	o := obs[0]
	if !math.IsNaN(o.Flux) || !math.IsNaN(o.PSFXWidth) {
		t.Error("nan tokens should parse to NaN")
	}
	if !math.IsInf(o.X, 1) || !math.IsInf(o.Y, -1) || !math.IsInf(o.PSFYWidth, 1) {
		t.Error("inf tokens should parse to signed infinities")
	}
}

func TestReadTableEmptyInputs(t *testing.T) {
	testCases := []struct {
		name  string
		input string
	}{
		{"zero_byte_file", ""},
		{"header_only", header},
		{"header_and_blank_lines", header + "\n\n"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			obs, err := ReadTable(strings.NewReader(tc.input), "test.dat", DefaultLayout())
			if err != nil {
				t.Fatalf("ReadTable failed: %v", err)
			}
			if len(obs) != 0 {
				t.Errorf("got %d observations, want 0", len(obs))
			}
		})
	}
}

func TestReadTableShortRow(t *testing.T) {
	input := header + "1.5 0.1 55000.1 14.9\n"

	_, err := ReadTable(strings.NewReader(input), "test.dat", DefaultLayout())
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("error = %v, want *ParseError", err)
	}
	if pe.Line != 2 {
		t.Errorf("Line = %d, want 2", pe.Line)
	}
	if pe.Path != "test.dat" {
		t.Errorf("Path = %q, want test.dat", pe.Path)
	}
}

func TestReadTableBadToken(t *testing.T) {
	input := header +
		row("1.5", "0.1", "55000.1", "bogus", "15.2", "1.05", "1.10") + "\n"

	_, err := ReadTable(strings.NewReader(input), "test.dat", DefaultLayout())
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("error = %v, want *ParseError", err)
	}
	if pe.Token != "bogus" {
		t.Errorf("Token = %q, want bogus", pe.Token)
	}
	if pe.Field != 5 {
		t.Errorf("Field = %d, want 5 (1-based x column)", pe.Field)
	}
	if !strings.Contains(pe.Error(), "test.dat:2") {
		t.Errorf("Error() = %q, want path:line prefix", pe.Error())
	}
}

func TestReadTableCustomLayout(t *testing.T) {
	// A three-column table with the quantities packed tight and no
	// header: time first, then flux, then its uncertainty, centroid and
	// widths reusing the flux columns is invalid, so give each its own.
	layout := Layout{Flux: 1, FluxErr: 2, Time: 0, X: 3, Y: 4, PSFXW: 5, PSFYW: 6, SkipRows: 0}
	input := "55000.1 1.5 0.1 14.9 15.2 1.05 1.10\n"

	obs, err := ReadTable(strings.NewReader(input), "test.dat", layout)
	if err != nil {
		t.Fatalf("ReadTable failed: %v", err)
	}
	if obs[0].Time != 55000.1 || obs[0].Flux != 1.5 {
		t.Errorf("custom layout misread row: %+v", obs[0])
	}
}

func TestLoadTableMissingFile(t *testing.T) {
	_, err := LoadTable("does/not/exist.dat", DefaultLayout())
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("error = %v, want wrapped fs.ErrNotExist", err)
	}
}

func TestColumnsNeeded(t *testing.T) {
	if n := DefaultLayout().columnsNeeded(); n != 11 {
		t.Errorf("default layout needs %d columns, want 11", n)
	}
	tight := Layout{Flux: 0, FluxErr: 1, Time: 2, X: 3, Y: 4, PSFXW: 5, PSFYW: 6}
	if n := tight.columnsNeeded(); n != 7 {
		t.Errorf("tight layout needs %d columns, want 7", n)
	}
}

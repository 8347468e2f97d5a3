package photometry

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// maxLineBytes bounds a single table row. Binned photometry tables are
// narrow, but pipelines occasionally append wide diagnostic columns.
const maxLineBytes = 1 << 20

// Layout maps the seven consumed quantities to their zero-based column
// positions in the table and records how many leading rows to skip.
type Layout struct {
	Flux    int
	FluxErr int
	Time    int
	X       int
	Y       int
	PSFXW   int
	PSFYW   int

	SkipRows int
}

// DefaultLayout returns the column layout written by the photometry
// routine: one header row, flux and its uncertainty first, then the
// timestamp, with centroid and PSF values on the even columns. The odd
// columns after flux_err carry per-frame fit diagnostics this loader
// does not consume.
func DefaultLayout() Layout {
	return Layout{
		Flux:     0,
		FluxErr:  1,
		Time:     2,
		X:        4,
		Y:        6,
		PSFXW:    8,
		PSFYW:    10,
		SkipRows: 1,
	}
}

// columnsNeeded returns the minimum field count a row must supply.
func (l Layout) columnsNeeded() int {
	max := l.Flux
	for _, c := range []int{l.FluxErr, l.Time, l.X, l.Y, l.PSFXW, l.PSFYW} {
		if c > max {
			max = c
		}
	}
	return max + 1
}

// ParseError describes a malformed row or field in a photometry table.
type ParseError struct {
	Path  string // source file
	Line  int    // 1-based line number, header rows included
	Field int    // 1-based field number, 0 when the whole row is at fault
	Token string // offending token, empty for row-level faults
	Err   error  // underlying cause
}

func (e *ParseError) Error() string {
	if e.Field > 0 {
		return fmt.Sprintf("%s:%d: field %d %q: %v", e.Path, e.Line, e.Field, e.Token, e.Err)
	}
	return fmt.Sprintf("%s:%d: %v", e.Path, e.Line, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// LoadTable reads the photometry table at path. See ReadTable for the
// accepted format.
func LoadTable(path string, layout Layout) ([]Observation, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open photometry table: %w", err)
	}
	defer f.Close()
	return ReadTable(f, path, layout)
}

// ReadTable parses a whitespace-delimited photometry table. The first
// layout.SkipRows lines are discarded unconditionally; after that, blank
// lines and lines starting with '#' are skipped, and every remaining row
// must supply at least as many fields as the layout addresses. The
// tokens nan, inf, +inf and -inf (any case) parse to their IEEE values.
// A table with no data rows parses to an empty slice, not an error.
// path is used only to label errors.
func ReadTable(r io.Reader, path string, layout Layout) ([]Observation, error) {
	need := layout.columnsNeeded()

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	var obs []Observation
	line := 0
	for sc.Scan() {
		line++
		if line <= layout.SkipRows {
			continue
		}
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}
		if len(fields) < need {
			return nil, &ParseError{
				Path: path,
				Line: line,
				Err:  fmt.Errorf("row has %d fields, need at least %d", len(fields), need),
			}
		}
		o, err := parseRow(fields, layout, path, line)
		if err != nil {
			return nil, err
		}
		obs = append(obs, o)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read photometry table %s: %w", path, err)
	}
	return obs, nil
}

// parseRow extracts the seven layout columns from one row of fields.
func parseRow(fields []string, layout Layout, path string, line int) (Observation, error) {
	var o Observation
	cols := []struct {
		idx int
		dst *float64
	}{
		{layout.Flux, &o.Flux},
		{layout.FluxErr, &o.FluxErr},
		{layout.Time, &o.Time},
		{layout.X, &o.X},
		{layout.Y, &o.Y},
		{layout.PSFXW, &o.PSFXWidth},
		{layout.PSFYW, &o.PSFYWidth},
	}
	for _, c := range cols {
		v, err := strconv.ParseFloat(fields[c.idx], 64)
		if err != nil {
			return Observation{}, &ParseError{
				Path:  path,
				Line:  line,
				Field: c.idx + 1,
				Token: fields[c.idx],
				Err:   err,
			}
		}
		*c.dst = v
	}
	return o, nil
}

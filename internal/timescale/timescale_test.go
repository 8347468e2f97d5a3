package timescale

import (
	"math"
	"testing"
)

func TestIsValid(t *testing.T) {
	testCases := []struct {
		scale    string
		expected bool
	}{
		{"bmjd", true},
		{"mjd", true},
		{"jd", true},
		{"", false},
		{"BMJD", false},
		{"tdb", false},
	}

	for _, tc := range testCases {
		t.Run(tc.scale, func(t *testing.T) {
			if got := IsValid(tc.scale); got != tc.expected {
				t.Errorf("IsValid(%q) = %v, want %v", tc.scale, got, tc.expected)
			}
		})
	}
}

func TestBMJDToJDRoundTrip(t *testing.T) {
	const bmjd = 55370.49773
	jd := BMJDToJD(bmjd)
	if want := bmjd + 2400000.5; jd != want {
		t.Errorf("BMJDToJD(%v) = %v, want %v", bmjd, jd, want)
	}
	if back := JDToBMJD(jd); back != bmjd {
		t.Errorf("JDToBMJD(%v) = %v, want %v", jd, back, bmjd)
	}
}

func TestConvert(t *testing.T) {
	testCases := []struct {
		name      string
		t         float64
		from, to  string
		expected  float64
		expectErr bool
	}{
		{"bmjd_to_jd", 55000, BMJD, JD, 2455000.5, false},
		{"jd_to_bmjd", 2455000.5, JD, BMJD, 55000, false},
		{"mjd_to_jd", 55000, MJD, JD, 2455000.5, false},
		{"same_scale", 55000, BMJD, BMJD, 55000, false},
		{"mjd_to_bmjd", 55000, MJD, BMJD, 55000, false},
		{"bad_from", 55000, "tdb", JD, 0, true},
		{"bad_to", 55000, JD, "", 0, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Convert(tc.t, tc.from, tc.to)
			if tc.expectErr {
				if err == nil {
					t.Fatalf("expected error for %s -> %s, got nil", tc.from, tc.to)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.expected {
				t.Errorf("Convert(%v, %s, %s) = %v, want %v", tc.t, tc.from, tc.to, got, tc.expected)
			}
		})
	}
}

func TestConvertNaNPassesThrough(t *testing.T) {
	got, err := Convert(math.NaN(), BMJD, JD)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !math.IsNaN(got) {
		t.Errorf("Convert(NaN) = %v, want NaN", got)
	}
}

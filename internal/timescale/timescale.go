// Package timescale provides shared constants and validation for
// astronomical time scales
package timescale

import "fmt"

// Scale constants
const (
	BMJD = "bmjd"
	MJD  = "mjd"
	JD   = "jd"
)

// MJDToJDOffset is the fixed additive offset between a modified Julian
// date and a Julian date. Barycentric MJD uses the same epoch zero
// point; the barycentric correction changes the clock, not the offset.
const MJDToJDOffset = 2400000.5

// ValidScales contains all valid scale values
var ValidScales = []string{BMJD, MJD, JD}

// IsValid checks if the given scale is in the list of valid scales
func IsValid(scale string) bool {
	for _, validScale := range ValidScales {
		if scale == validScale {
			return true
		}
	}
	return false
}

// GetValidScalesString returns a comma-separated string of valid scales for error messages
func GetValidScalesString() string {
	return "bmjd, mjd, jd"
}

// BMJDToJD converts a barycentric modified Julian date to a Julian date.
func BMJDToJD(t float64) float64 {
	return t + MJDToJDOffset
}

// JDToBMJD converts a Julian date back to a barycentric modified Julian date.
func JDToBMJD(t float64) float64 {
	return t - MJDToJDOffset
}

// Convert converts a timestamp between two scales. NaN passes through
// unchanged since the offsets are additive.
func Convert(t float64, from, to string) (float64, error) {
	if !IsValid(from) {
		return 0, fmt.Errorf("unknown time scale %q, valid scales: %s", from, GetValidScalesString())
	}
	if !IsValid(to) {
		return 0, fmt.Errorf("unknown time scale %q, valid scales: %s", to, GetValidScalesString())
	}
	if from == to {
		return t, nil
	}
	// Normalise to JD, then shift to the target scale. BMJD and MJD
	// share the offset family (see MJDToJDOffset).
	jd := t
	if from == BMJD || from == MJD {
		jd = t + MJDToJDOffset
	}
	if to == BMJD || to == MJD {
		return jd - MJDToJDOffset, nil
	}
	return jd, nil
}

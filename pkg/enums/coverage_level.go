package enums

import "fmt"

// CoverageLevel buckets expected supplier coverage for a request.
type CoverageLevel string

const (
	CoverageLevelStrong   CoverageLevel = "strong"
	CoverageLevelModerate CoverageLevel = "moderate"
	CoverageLevelLimited  CoverageLevel = "limited"
)

var validCoverageLevels = []CoverageLevel{
	CoverageLevelStrong,
	CoverageLevelModerate,
	CoverageLevelLimited,
}

// String implements fmt.Stringer.
func (c CoverageLevel) String() string {
	return string(c)
}

// IsValid reports whether the value is a known CoverageLevel.
func (c CoverageLevel) IsValid() bool {
	for _, candidate := range validCoverageLevels {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseCoverageLevel converts raw input into a CoverageLevel.
func ParseCoverageLevel(value string) (CoverageLevel, error) {
	for _, candidate := range validCoverageLevels {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid coverage level %q", value)
}

package enums

// MatchHealth is the externally computed fit signal for a supplier.
type MatchHealth string

const (
	MatchHealthGood    MatchHealth = "good"
	MatchHealthCaution MatchHealth = "caution"
	MatchHealthPoor    MatchHealth = "poor"
	MatchHealthUnknown MatchHealth = "unknown"
)

var validMatchHealths = []MatchHealth{
	MatchHealthGood,
	MatchHealthCaution,
	MatchHealthPoor,
	MatchHealthUnknown,
}

// String implements fmt.Stringer.
func (m MatchHealth) String() string {
	return string(m)
}

// IsValid reports whether the value is a known MatchHealth.
func (m MatchHealth) IsValid() bool {
	for _, candidate := range validMatchHealths {
		if candidate == m {
			return true
		}
	}
	return false
}

// ParseMatchHealth converts raw input into a MatchHealth, falling back
// to unknown for unrecognized values. Lookup noise must never surface
// as an error to badge computation.
func ParseMatchHealth(value string) MatchHealth {
	for _, candidate := range validMatchHealths {
		if string(candidate) == value {
			return candidate
		}
	}
	return MatchHealthUnknown
}

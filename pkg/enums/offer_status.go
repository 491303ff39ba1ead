package enums

import "fmt"

// OfferStatus tracks a supplier bid through award resolution.
type OfferStatus string

const (
	OfferStatusPending OfferStatus = "pending"
	OfferStatusWon     OfferStatus = "won"
	OfferStatusLost    OfferStatus = "lost"
)

var validOfferStatuses = []OfferStatus{
	OfferStatusPending,
	OfferStatusWon,
	OfferStatusLost,
}

// String implements fmt.Stringer.
func (o OfferStatus) String() string {
	return string(o)
}

// IsValid reports whether the value is a known OfferStatus.
func (o OfferStatus) IsValid() bool {
	for _, candidate := range validOfferStatuses {
		if candidate == o {
			return true
		}
	}
	return false
}

// ParseOfferStatus converts raw input into an OfferStatus.
func ParseOfferStatus(value string) (OfferStatus, error) {
	for _, candidate := range validOfferStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid offer status %q", value)
}

package enums

import "fmt"

// OfferBadge is a trust/comparison marker rendered next to an offer.
type OfferBadge string

const (
	OfferBadgeVerified       OfferBadge = "verified"
	OfferBadgeFastest        OfferBadge = "fastest"
	OfferBadgeFastTurnaround OfferBadge = "fast_turnaround"
	OfferBadgeBestValue      OfferBadge = "best_value"
	OfferBadgeGreatFit       OfferBadge = "great_fit"
)

var validOfferBadges = []OfferBadge{
	OfferBadgeVerified,
	OfferBadgeFastest,
	OfferBadgeFastTurnaround,
	OfferBadgeBestValue,
	OfferBadgeGreatFit,
}

// String implements fmt.Stringer.
func (o OfferBadge) String() string {
	return string(o)
}

// IsValid reports whether the value is a known OfferBadge.
func (o OfferBadge) IsValid() bool {
	for _, candidate := range validOfferBadges {
		if candidate == o {
			return true
		}
	}
	return false
}

// ParseOfferBadge converts raw input into an OfferBadge.
func ParseOfferBadge(value string) (OfferBadge, error) {
	for _, candidate := range validOfferBadges {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid offer badge %q", value)
}

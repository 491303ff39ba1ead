package offers

import "github.com/google/uuid"

// SubmitInput carries a supplier's bid. TotalPrice accepts a JSON number
// or string and is parsed leniently; unparseable values store as null.
type SubmitInput struct {
	QuoteID         uuid.UUID
	ProviderID      uuid.UUID
	TotalPrice      any
	Currency        string
	LeadTimeDaysMin *int
	LeadTimeDaysMax *int
	Notes           *string
}

// UpdateInput mutates a supplier's own pending offer. Nil fields are
// left untouched; TotalPrice follows the same lenient parse as submit.
type UpdateInput struct {
	OfferID         uuid.UUID
	ProviderID      uuid.UUID
	TotalPrice      any
	LeadTimeDaysMin *int
	LeadTimeDaysMax *int
	Notes           *string
}

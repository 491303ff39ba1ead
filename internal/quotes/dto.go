package quotes

import (
	"github.com/google/uuid"

	"github.com/dcortinas/fablink-backend/pkg/db/models"
	"github.com/dcortinas/fablink-backend/pkg/enums"
)

// ListFilters describe the inputs supported by the quote lists.
type ListFilters struct {
	Status *enums.QuoteStatus
}

// QuoteList wraps the paginated quotes plus the next page cursor.
type QuoteList struct {
	Quotes     []models.Quote `json:"quotes"`
	NextCursor string         `json:"next_cursor,omitempty"`
}

// CreateInput captures a new RFQ submission. CustomerEmail is
// snapshotted from the caller's token so notification dispatch can
// resolve the customer without an identity lookup.
type CreateInput struct {
	CustomerID    uuid.UUID
	CustomerEmail string
	UploadID      *uuid.UUID
	Process       string
	Material      *string
	Quantity      int
}

// TransitionInput carries the context for archive and reopen calls.
type TransitionInput struct {
	QuoteID     uuid.UUID
	ActorUserID uuid.UUID
	ActorRole   enums.ActorRole
}

// AwardInput selects a winning offer for a quote.
type AwardInput struct {
	QuoteID     uuid.UUID
	OfferID     uuid.UUID
	ActorUserID uuid.UUID
	ActorRole   enums.ActorRole
}

// KickoffOverrideInput marks a quote's kickoff done administratively.
type KickoffOverrideInput struct {
	QuoteID     uuid.UUID
	ActorUserID uuid.UUID
	ActorRole   enums.ActorRole
}

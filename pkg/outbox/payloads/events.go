package payloads

import (
	"time"

	"github.com/google/uuid"

	"github.com/dcortinas/fablink-backend/pkg/enums"
)

// QuoteStatusChangedEvent is emitted on every status transition.
type QuoteStatusChangedEvent struct {
	QuoteID    uuid.UUID         `json:"quote_id"`
	CustomerID uuid.UUID         `json:"customer_id"`
	FromStatus enums.QuoteStatus `json:"from_status"`
	ToStatus   enums.QuoteStatus `json:"to_status"`
	ActorRole  enums.ActorRole   `json:"actor_role"`
}

// OfferWonEvent signals that an offer was awarded and its quote moved to won.
// Losing bidders ride along so the worker can fan out lost notices
// without re-querying.
type OfferWonEvent struct {
	QuoteID    uuid.UUID      `json:"quote_id"`
	OfferID    uuid.UUID      `json:"offer_id"`
	CustomerID uuid.UUID      `json:"customer_id"`
	SupplierID uuid.UUID      `json:"supplier_id"`
	AwardedAt  time.Time      `json:"awarded_at"`
	Losers     []LosingBidder `json:"losers,omitempty"`
}

// LosingBidder identifies one non-winning offer on an awarded quote.
type LosingBidder struct {
	OfferID    uuid.UUID  `json:"offer_id"`
	SupplierID *uuid.UUID `json:"supplier_id,omitempty"`
}

// KickoffChangedEvent reports a kickoff task update and the resulting
// rollup. TaskID is absent for the administrative completion override.
type KickoffChangedEvent struct {
	QuoteID        uuid.UUID               `json:"quote_id"`
	CustomerID     uuid.UUID               `json:"customer_id"`
	TaskID         *uuid.UUID              `json:"task_id,omitempty"`
	SupplierID     uuid.UUID               `json:"supplier_id"`
	TaskStatus     enums.KickoffTaskStatus `json:"task_status,omitempty"`
	CompletedTasks int                     `json:"completed_tasks"`
	TotalTasks     int                     `json:"total_tasks"`
	AllComplete    bool                    `json:"all_complete"`
}

// MessagePostedEvent is emitted when a thread entry lands on a quote.
type MessagePostedEvent struct {
	QuoteID    uuid.UUID       `json:"quote_id"`
	MessageID  uuid.UUID       `json:"message_id"`
	CustomerID uuid.UUID       `json:"customer_id"`
	AuthorID   uuid.UUID       `json:"author_id"`
	AuthorRole enums.ActorRole `json:"author_role"`
	Preview    string          `json:"preview"`
}

// ChangeRequestSubmittedEvent is emitted when a customer files a revision.
type ChangeRequestSubmittedEvent struct {
	QuoteID         uuid.UUID `json:"quote_id"`
	ChangeRequestID uuid.UUID `json:"change_request_id"`
	CustomerID      uuid.UUID `json:"customer_id"`
	Summary         string    `json:"summary"`
	NotifyCustomer  bool      `json:"notify_customer"`
}

package kickoff

import (
	"github.com/google/uuid"

	"github.com/dcortinas/fablink-backend/pkg/db/models"
	"github.com/dcortinas/fablink-backend/pkg/enums"
)

// ChecklistView is the checklist plus its rollup, override applied.
type ChecklistView struct {
	Tasks    []models.KickoffTask `json:"tasks"`
	Progress Progress             `json:"progress"`
}

// SeedInput creates the default checklist for an awarded quote.
type SeedInput struct {
	QuoteID     uuid.UUID
	ActorUserID uuid.UUID
	ActorRole   enums.ActorRole
}

// UpdateTaskInput mutates one checklist item. BlockedReason is required
// when Status is blocked and rejected otherwise.
type UpdateTaskInput struct {
	TaskID        uuid.UUID
	ActorUserID   uuid.UUID
	ActorRole     enums.ActorRole
	Status        enums.KickoffTaskStatus
	BlockedReason *string
}

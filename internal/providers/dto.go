package providers

import (
	"github.com/google/uuid"

	"github.com/dcortinas/fablink-backend/pkg/enums"
)

// ListFilters narrows a directory read. Zero value lists everything.
type ListFilters struct {
	OnlyActive         bool
	OnlyVerified       bool
	OnlyShownInDir     bool
	VerificationStatus *enums.VerificationStatus
}

// PatchInput is an admin mutation of one directory entry. Nil fields
// are left untouched.
type PatchInput struct {
	ProviderID         uuid.UUID
	ActorRole          enums.ActorRole
	VerificationStatus *enums.VerificationStatus
	IsActive           *bool
	ShowInDirectory    *bool
}

package kickoff

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dcortinas/fablink-backend/pkg/db/models"
)

// Repository is the persistence surface for kickoff checklist tasks.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindByID(ctx context.Context, id uuid.UUID) (*models.KickoffTask, error)
	ListByQuote(ctx context.Context, quoteID uuid.UUID) ([]models.KickoffTask, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) error
	Seed(ctx context.Context, tasks []models.KickoffTask) error
}

// QuoteReader is the slice of the quotes repository needed to resolve
// the awarded pair a checklist belongs to.
type QuoteReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Quote, error)
}

package savedsearches

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dcortinas/fablink-backend/pkg/db/models"
)

// Repository is the persistence surface for saved searches. The table
// is optional, callers check capabilities before reaching it.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Upsert(ctx context.Context, search *models.SavedSearch) (*models.SavedSearch, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.SavedSearch, error)
	ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]models.SavedSearch, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) error
	Delete(ctx context.Context, id uuid.UUID) error
}

package providers

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dcortinas/fablink-backend/pkg/db/models"
	"github.com/dcortinas/fablink-backend/pkg/enums"
)

// Repository is the persistence surface for the supplier directory.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindByID(ctx context.Context, id uuid.UUID) (*models.Provider, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Provider, error)
	List(ctx context.Context, filters ListFilters) ([]models.Provider, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) error
	HealthByProvider(ctx context.Context, providerIDs []uuid.UUID) (map[uuid.UUID]enums.MatchHealth, error)
}

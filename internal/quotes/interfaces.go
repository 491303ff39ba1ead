package quotes

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dcortinas/fablink-backend/pkg/db/models"
	"github.com/dcortinas/fablink-backend/pkg/enums"
	"github.com/dcortinas/fablink-backend/pkg/pagination"
)

// Repository defines persistence operations for the quotes table.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, quote *models.Quote) (*models.Quote, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Quote, error)
	ListByCustomer(ctx context.Context, customerID uuid.UUID, page pagination.Page, filters ListFilters) (*QuoteList, error)
	ListPipeline(ctx context.Context, page pagination.Page, filters ListFilters) (*QuoteList, error)
	ListOpenForBidding(ctx context.Context, page pagination.Page) (*QuoteList, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status enums.QuoteStatus) error
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) error
}

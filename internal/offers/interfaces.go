package offers

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dcortinas/fablink-backend/pkg/db/models"
	"github.com/dcortinas/fablink-backend/pkg/enums"
)

// Repository is the persistence surface for supplier offers. The award
// helpers take an explicit transaction because award settlement always
// rides the quote update's transaction.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, offer *models.Offer) (*models.Offer, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Offer, error)
	FindByQuoteAndProvider(ctx context.Context, quoteID, providerID uuid.UUID) (*models.Offer, error)
	ListByQuote(ctx context.Context, quoteID uuid.UUID) ([]models.Offer, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) error
	FindForAward(ctx context.Context, tx *gorm.DB, offerID uuid.UUID) (*models.Offer, error)
	MarkAwarded(ctx context.Context, tx *gorm.DB, quoteID, winnerOfferID uuid.UUID) ([]models.Offer, error)
}

// QuoteReader is the slice of the quotes repository this package needs
// to validate bidding windows.
type QuoteReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Quote, error)
}

// ProviderReader resolves provider records for badge computation.
type ProviderReader interface {
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Provider, error)
}

// MatchHealthReader resolves the per-supplier fit signal. Lookups are
// best effort: implementations return unknown-by-omission rather than
// propagating errors into badge computation.
type MatchHealthReader interface {
	HealthByProvider(ctx context.Context, providerIDs []uuid.UUID) (map[uuid.UUID]enums.MatchHealth, error)
}

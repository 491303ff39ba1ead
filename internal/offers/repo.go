package offers

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dcortinas/fablink-backend/pkg/db/models"
	"github.com/dcortinas/fablink-backend/pkg/enums"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds an offers repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, offer *models.Offer) (*models.Offer, error) {
	if err := r.db.WithContext(ctx).Create(offer).Error; err != nil {
		return nil, err
	}
	return offer, nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Offer, error) {
	var offer models.Offer
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&offer).Error
	if err != nil {
		return nil, err
	}
	return &offer, nil
}

func (r *repository) FindByQuoteAndProvider(ctx context.Context, quoteID, providerID uuid.UUID) (*models.Offer, error) {
	var offer models.Offer
	err := r.db.WithContext(ctx).
		Where("quote_id = ? AND provider_id = ?", quoteID, providerID).
		First(&offer).Error
	if err != nil {
		return nil, err
	}
	return &offer, nil
}

func (r *repository) ListByQuote(ctx context.Context, quoteID uuid.UUID) ([]models.Offer, error) {
	var rows []models.Offer
	err := r.db.WithContext(ctx).
		Where("quote_id = ?", quoteID).
		Order("created_at ASC").
		Order("id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.Offer{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *repository) FindForAward(ctx context.Context, tx *gorm.DB, offerID uuid.UUID) (*models.Offer, error) {
	return r.WithTx(tx).FindByID(ctx, offerID)
}

// MarkAwarded settles the offer set for a quote inside the caller's
// transaction: the winner becomes won, every other offer becomes lost.
// It returns the losing rows so the caller can notify each bidder.
func (r *repository) MarkAwarded(ctx context.Context, tx *gorm.DB, quoteID, winnerOfferID uuid.UUID) ([]models.Offer, error) {
	conn := r.db
	if tx != nil {
		conn = tx
	}

	err := conn.WithContext(ctx).
		Model(&models.Offer{}).
		Where("id = ? AND quote_id = ?", winnerOfferID, quoteID).
		Update("status", enums.OfferStatusWon).Error
	if err != nil {
		return nil, err
	}

	err = conn.WithContext(ctx).
		Model(&models.Offer{}).
		Where("quote_id = ? AND id != ?", quoteID, winnerOfferID).
		Update("status", enums.OfferStatusLost).Error
	if err != nil {
		return nil, err
	}

	var losers []models.Offer
	err = conn.WithContext(ctx).
		Where("quote_id = ? AND id != ?", quoteID, winnerOfferID).
		Order("created_at ASC").
		Find(&losers).Error
	if err != nil {
		return nil, err
	}
	return losers, nil
}

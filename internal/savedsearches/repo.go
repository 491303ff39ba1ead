package savedsearches

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/dcortinas/fablink-backend/pkg/db/models"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a saved-search repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

// Upsert saves by the (customer_id, quote_id) conflict key: a second
// save of the same quote refreshes the label and alert flag instead of
// duplicating the row.
func (r *repository) Upsert(ctx context.Context, search *models.SavedSearch) (*models.SavedSearch, error) {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "customer_id"}, {Name: "quote_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"label", "alerts_enabled", "updated_at"}),
		}).
		Create(search).Error
	if err != nil {
		return nil, err
	}

	var saved models.SavedSearch
	err = r.db.WithContext(ctx).
		Where("customer_id = ? AND quote_id = ?", search.CustomerID, search.QuoteID).
		First(&saved).Error
	if err != nil {
		return nil, err
	}
	return &saved, nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.SavedSearch, error) {
	var search models.SavedSearch
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&search).Error
	if err != nil {
		return nil, err
	}
	return &search, nil
}

func (r *repository) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]models.SavedSearch, error) {
	var rows []models.SavedSearch
	err := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.SavedSearch{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&models.SavedSearch{}).Error
}

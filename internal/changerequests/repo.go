package changerequests

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dcortinas/fablink-backend/pkg/db/models"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a change-request repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, request *models.ChangeRequest) (*models.ChangeRequest, error) {
	if err := r.db.WithContext(ctx).Create(request).Error; err != nil {
		return nil, err
	}
	return request, nil
}

func (r *repository) ListByQuote(ctx context.Context, quoteID uuid.UUID) ([]models.ChangeRequest, error) {
	var rows []models.ChangeRequest
	err := r.db.WithContext(ctx).
		Where("quote_id = ?", quoteID).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

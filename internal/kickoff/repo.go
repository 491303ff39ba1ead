package kickoff

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

// NewRepository builds a kickoff task repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.KickoffTask, error) {
	var task models.KickoffTask
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&task).Error
	if err != nil {
		return nil, err
	}
	return &task, nil
}

func (r *repository) ListByQuote(ctx context.Context, quoteID uuid.UUID) ([]models.KickoffTask, error) {
	var rows []models.KickoffTask
	err := r.db.WithContext(ctx).
		Where("quote_id = ?", quoteID).
		Order("created_at ASC").
		Order("task_key ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.KickoffTask{}).
		Where("id = ?", id).
		Updates(updates).Error
}

// Seed inserts checklist rows, skipping any (quote, supplier, task_key)
// that already exists. Re-seeding after a partial seed is safe.
func (r *repository) Seed(ctx context.Context, tasks []models.KickoffTask) error {
	if len(tasks) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "quote_id"}, {Name: "supplier_id"}, {Name: "task_key"}},
			DoNothing: true,
		}).
		Create(&tasks).Error
}

package providers

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

// NewRepository builds a provider repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Provider, error) {
	var provider models.Provider
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&provider).Error
	if err != nil {
		return nil, err
	}
	return &provider, nil
}

func (r *repository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Provider, error) {
	if len(ids) == 0 {
		return []models.Provider{}, nil
	}
	var rows []models.Provider
	err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) List(ctx context.Context, filters ListFilters) ([]models.Provider, error) {
	query := r.db.WithContext(ctx).Model(&models.Provider{})
	if filters.OnlyActive {
		query = query.Where("is_active = ?", true)
	}
	if filters.OnlyVerified {
		query = query.Where("verification_status = ?", enums.VerificationStatusVerified)
	}
	if filters.OnlyShownInDir {
		query = query.Where("show_in_directory = ?", true)
	}
	if filters.VerificationStatus != nil {
		query = query.Where("verification_status = ?", *filters.VerificationStatus)
	}

	var rows []models.Provider
	if err := query.Order("name ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.Provider{}).
		Where("id = ?", id).
		Updates(updates).Error
}

// HealthByProvider reads the optional fit-signal table. Callers gate on
// schema capabilities before reaching this; with multiple rows per
// provider the newest computation wins.
func (r *repository) HealthByProvider(ctx context.Context, providerIDs []uuid.UUID) (map[uuid.UUID]enums.MatchHealth, error) {
	if len(providerIDs) == 0 {
		return map[uuid.UUID]enums.MatchHealth{}, nil
	}
	var rows []models.ProviderMatchHealth
	err := r.db.WithContext(ctx).
		Where("provider_id IN ?", providerIDs).
		Order("computed_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	health := make(map[uuid.UUID]enums.MatchHealth, len(rows))
	for _, row := range rows {
		health[row.ProviderID] = row.Health
	}
	return health, nil
}

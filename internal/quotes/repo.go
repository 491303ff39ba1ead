package quotes

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dcortinas/fablink-backend/pkg/db/models"
	"github.com/dcortinas/fablink-backend/pkg/enums"
	"github.com/dcortinas/fablink-backend/pkg/pagination"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a quotes repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, quote *models.Quote) (*models.Quote, error) {
	if err := r.db.WithContext(ctx).Create(quote).Error; err != nil {
		return nil, err
	}
	return quote, nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Quote, error) {
	var quote models.Quote
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&quote).Error
	if err != nil {
		return nil, err
	}
	return &quote, nil
}

func (r *repository) ListByCustomer(ctx context.Context, customerID uuid.UUID, page pagination.Page, filters ListFilters) (*QuoteList, error) {
	query := r.db.WithContext(ctx).
		Model(&models.Quote{}).
		Where("customer_id = ?", customerID)
	return r.list(query, page, filters)
}

func (r *repository) ListPipeline(ctx context.Context, page pagination.Page, filters ListFilters) (*QuoteList, error) {
	query := r.db.WithContext(ctx).Model(&models.Quote{})
	return r.list(query, page, filters)
}

func (r *repository) ListOpenForBidding(ctx context.Context, page pagination.Page) (*QuoteList, error) {
	query := r.db.WithContext(ctx).
		Model(&models.Quote{}).
		Where("status IN ?", []enums.QuoteStatus{enums.QuoteStatusInReview, enums.QuoteStatusQuoted}).
		Where("awarded_supplier_id IS NULL")
	return r.list(query, page, ListFilters{})
}

func (r *repository) list(query *gorm.DB, page pagination.Page, filters ListFilters) (*QuoteList, error) {
	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	if page.Cursor != nil {
		query = query.Where(
			"created_at < ? OR (created_at = ? AND id < ?)",
			page.Cursor.CreatedAt, page.Cursor.CreatedAt, page.Cursor.ID,
		)
	}

	limit := pagination.Clamp(page.Limit)
	var rows []models.Quote
	err := query.
		Order("created_at DESC").
		Order("id DESC").
		Limit(pagination.FetchSize(page.Limit)).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	list := &QuoteList{Quotes: rows}
	if len(rows) > limit {
		last := rows[limit-1]
		list.Quotes = rows[:limit]
		list.NextCursor = pagination.Encode(pagination.Cursor{
			CreatedAt: last.CreatedAt,
			ID:        last.ID,
		})
	}
	return list, nil
}

func (r *repository) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.QuoteStatus) error {
	return r.db.WithContext(ctx).
		Model(&models.Quote{}).
		Where("id = ?", id).
		Update("status", status).Error
}

func (r *repository) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.Quote{}).
		Where("id = ?", id).
		Updates(updates).Error
}

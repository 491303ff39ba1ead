package models

import (
	"time"

	"github.com/google/uuid"
)

// SavedSearch pins a quote to a customer's dashboard under an editable
// label. Unique per (customer_id, quote_id); lives in an optional table.
type SavedSearch struct {
	ID            uuid.UUID  `gorm:"column:id;type:uuid;primaryKey"`
	CustomerID    uuid.UUID  `gorm:"column:customer_id;type:uuid;not null"`
	QuoteID       uuid.UUID  `gorm:"column:quote_id;type:uuid;not null"`
	Label         string     `gorm:"column:label;type:text;not null"`
	AlertsEnabled bool       `gorm:"column:alerts_enabled;not null;default:false"`
	LastViewedAt  *time.Time `gorm:"column:last_viewed_at"`
	CreatedAt     time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dcortinas/fablink-backend/pkg/enums"
)

// Offer is a supplier's priced response to an RFQ. At most one offer per
// quote may carry status won (enforced by a partial unique index).
type Offer struct {
	ID              uuid.UUID         `gorm:"column:id;type:uuid;primaryKey"`
	QuoteID         uuid.UUID         `gorm:"column:quote_id;type:uuid;not null"`
	ProviderID      *uuid.UUID        `gorm:"column:provider_id;type:uuid"`
	TotalPrice      *decimal.Decimal  `gorm:"column:total_price;type:numeric(12,2)"`
	Currency        string            `gorm:"column:currency;type:text;not null;default:'USD'"`
	LeadTimeDaysMin *int              `gorm:"column:lead_time_days_min"`
	LeadTimeDaysMax *int              `gorm:"column:lead_time_days_max"`
	Status          enums.OfferStatus `gorm:"column:status;type:offer_status;not null;default:'pending'"`
	Notes           *string           `gorm:"column:notes"`
	CreatedAt       time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}

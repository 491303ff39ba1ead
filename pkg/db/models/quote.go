package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/dcortinas/fablink-backend/pkg/enums"
)

// Quote is the central RFQ workflow entity. Status is the single source
// of truth for workflow stage; kickoff_completed_at is an independent
// terminal marker for post-award fulfillment. AwardedSupplierID and
// AwardedAt are set together or not at all.
type Quote struct {
	ID                 uuid.UUID         `gorm:"column:id;type:uuid;primaryKey"`
	CustomerID         uuid.UUID         `gorm:"column:customer_id;type:uuid;not null"`
	CustomerEmail      *string           `gorm:"column:customer_email;type:text"`
	UploadID           *uuid.UUID        `gorm:"column:upload_id;type:uuid"`
	Status             enums.QuoteStatus `gorm:"column:status;type:quote_status;not null;default:'draft'"`
	Process            string            `gorm:"column:process;type:text;not null"`
	Material           *string           `gorm:"column:material;type:text"`
	Quantity           int               `gorm:"column:quantity;not null;default:1"`
	Notes              *string           `gorm:"column:notes"`
	AwardedSupplierID  *uuid.UUID        `gorm:"column:awarded_supplier_id;type:uuid"`
	AwardedAt          *time.Time        `gorm:"column:awarded_at"`
	KickoffCompletedAt *time.Time        `gorm:"column:kickoff_completed_at"`
	Offers             []Offer           `gorm:"foreignKey:QuoteID;constraint:OnDelete:CASCADE"`
	CreatedAt          time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt          time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}

// IsAwarded reports whether the award fields are populated.
func (q Quote) IsAwarded() bool {
	return q.AwardedSupplierID != nil && q.AwardedAt != nil
}

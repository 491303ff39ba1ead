package models

import (
	"time"

	"github.com/google/uuid"
)

// ChangeRequest records a customer-initiated revision against a quote.
// NotifyCustomer mirrors the submission-time opt-in so the dispatcher
// does not have to re-derive it.
type ChangeRequest struct {
	ID             uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	QuoteID        uuid.UUID `gorm:"column:quote_id;type:uuid;not null;index"`
	CustomerID     uuid.UUID `gorm:"column:customer_id;type:uuid;not null"`
	Summary        string    `gorm:"column:summary;type:text;not null"`
	Details        *string   `gorm:"column:details;type:text"`
	NotifyCustomer bool      `gorm:"column:notify_customer;not null;default:false"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime"`
}

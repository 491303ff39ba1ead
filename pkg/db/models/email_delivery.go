package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	EmailDeliverySent   = "sent"
	EmailDeliveryFailed = "failed"
)

// EmailDelivery is the per-recipient send record kept by the
// notification worker. One row per (event, recipient) attempt outcome.
type EmailDelivery struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	EventID   uuid.UUID `gorm:"column:event_id;type:uuid;not null;index"`
	Recipient string    `gorm:"column:recipient;type:text;not null"`
	Subject   string    `gorm:"column:subject;type:text;not null"`
	Status    string    `gorm:"column:status;type:text;not null"`
	Error     *string   `gorm:"column:error;type:text"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (EmailDelivery) TableName() string { return "email_deliveries" }

package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/dcortinas/fablink-backend/pkg/enums"
)

// KickoffTask is one checklist item on an awarded (quote, supplier)
// pair. status=complete requires completed_at and forbids
// blocked_reason; status=blocked requires blocked_reason and forbids
// completed_at.
type KickoffTask struct {
	ID            uuid.UUID               `gorm:"column:id;type:uuid;primaryKey"`
	QuoteID       uuid.UUID               `gorm:"column:quote_id;type:uuid;not null"`
	SupplierID    uuid.UUID               `gorm:"column:supplier_id;type:uuid;not null"`
	TaskKey       string                  `gorm:"column:task_key;type:text;not null"`
	Title         string                  `gorm:"column:title;type:text;not null"`
	Status        enums.KickoffTaskStatus `gorm:"column:status;type:kickoff_task_status;not null;default:'pending'"`
	BlockedReason *string                 `gorm:"column:blocked_reason"`
	CompletedAt   *time.Time              `gorm:"column:completed_at"`
	CreatedAt     time.Time               `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time               `gorm:"column:updated_at;autoUpdateTime"`
}

package models

import (
	"time"

	"github.com/google/uuid"
)

// Upload is metadata for a customer-provided design file. The bytes
// themselves live in external object storage keyed by ID.
type Upload struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	OwnerID     uuid.UUID `gorm:"column:owner_id;type:uuid;not null"`
	FileName    string    `gorm:"column:file_name;type:text;not null"`
	ContentType string    `gorm:"column:content_type;type:text;not null"`
	SizeBytes   int64     `gorm:"column:size_bytes;not null"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
}

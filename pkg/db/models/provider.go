package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/dcortinas/fablink-backend/pkg/enums"
)

// Provider is a manufacturing supplier in the directory. Read-mostly:
// matching and badging consume it, admins mutate it.
type Provider struct {
	ID                 uuid.UUID                `gorm:"column:id;type:uuid;primaryKey"`
	Name               string                   `gorm:"column:name;type:text;not null"`
	Email              *string                  `gorm:"column:email;type:text"`
	Processes          pq.StringArray           `gorm:"column:processes;type:text[]"`
	Materials          pq.StringArray           `gorm:"column:materials;type:text[]"`
	VerificationStatus enums.VerificationStatus `gorm:"column:verification_status;type:text;not null;default:'unverified'"`
	IsActive           bool                     `gorm:"column:is_active;not null;default:true"`
	ShowInDirectory    bool                     `gorm:"column:show_in_directory;not null;default:true"`
	CreatedAt          time.Time                `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt          time.Time                `gorm:"column:updated_at;autoUpdateTime"`
}

// ProviderMatchHealth is the externally computed fit signal, stored in
// an optional table. Deployments without it degrade to unknown health.
type ProviderMatchHealth struct {
	ID         uuid.UUID         `gorm:"column:id;type:uuid;primaryKey"`
	ProviderID uuid.UUID         `gorm:"column:provider_id;type:uuid;not null"`
	QuoteID    *uuid.UUID        `gorm:"column:quote_id;type:uuid"`
	Health     enums.MatchHealth `gorm:"column:health;type:text;not null;default:'unknown'"`
	ComputedAt time.Time         `gorm:"column:computed_at;autoCreateTime"`
}

// TableName keeps the optional table's snake name stable.
func (ProviderMatchHealth) TableName() string {
	return "provider_match_health"
}

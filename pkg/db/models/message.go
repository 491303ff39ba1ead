package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/dcortinas/fablink-backend/pkg/enums"
)

// QuoteMessage is a thread entry on a quote. Author role is captured at
// write time so the thread renders correctly even if the account's role
// changes later.
type QuoteMessage struct {
	ID         uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	QuoteID    uuid.UUID       `gorm:"column:quote_id;type:uuid;not null;index"`
	AuthorID   uuid.UUID       `gorm:"column:author_id;type:uuid;not null"`
	AuthorRole enums.ActorRole `gorm:"column:author_role;type:text;not null"`
	Body       string          `gorm:"column:body;type:text;not null"`
	CreatedAt  time.Time       `gorm:"column:created_at;autoCreateTime"`
}

func (QuoteMessage) TableName() string { return "quote_messages" }

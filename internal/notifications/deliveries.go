package notifications

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dcortinas/fablink-backend/pkg/db/models"
)

// DeliveryLog records every dispatch attempt, sent or failed.
type DeliveryLog interface {
	Record(ctx context.Context, delivery *models.EmailDelivery) error
}

type deliveryLog struct {
	db *gorm.DB
}

// NewDeliveryLog builds the email_deliveries writer.
func NewDeliveryLog(db *gorm.DB) DeliveryLog {
	return &deliveryLog{db: db}
}

func (d *deliveryLog) Record(ctx context.Context, delivery *models.EmailDelivery) error {
	if delivery.ID == uuid.Nil {
		delivery.ID = uuid.New()
	}
	return d.db.WithContext(ctx).Create(delivery).Error
}

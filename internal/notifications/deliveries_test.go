package notifications

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/dcortinas/fablink-backend/pkg/db/models"
)

func newDeliveryDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:deliveries_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.EmailDelivery{}))
	return db
}

func TestDeliveryLogRecordAssignsID(t *testing.T) {
	db := newDeliveryDB(t)
	log := NewDeliveryLog(db)

	delivery := &models.EmailDelivery{
		EventID:   uuid.New(),
		Recipient: "buyer@acme.test",
		Subject:   "Your quote was awarded",
		Status:    models.EmailDeliverySent,
	}
	require.NoError(t, log.Record(context.Background(), delivery))
	assert.NotEqual(t, uuid.Nil, delivery.ID)

	var row models.EmailDelivery
	require.NoError(t, db.First(&row, "id = ?", delivery.ID).Error)
	assert.Equal(t, "buyer@acme.test", row.Recipient)
	assert.Equal(t, models.EmailDeliverySent, row.Status)
	assert.Nil(t, row.Error)
}

func TestDeliveryLogRecordKeepsFailureDetail(t *testing.T) {
	db := newDeliveryDB(t)
	log := NewDeliveryLog(db)

	reason := "smtp 554 rejected"
	eventID := uuid.New()
	require.NoError(t, log.Record(context.Background(), &models.EmailDelivery{
		EventID:   eventID,
		Recipient: "ops@fablink.io",
		Subject:   "Change request submitted",
		Status:    models.EmailDeliveryFailed,
		Error:     &reason,
	}))

	var rows []models.EmailDelivery
	require.NoError(t, db.Where("event_id = ?", eventID).Find(&rows).Error)
	require.Len(t, rows, 1)
	assert.Equal(t, models.EmailDeliveryFailed, rows[0].Status)
	require.NotNil(t, rows[0].Error)
	assert.Equal(t, reason, *rows[0].Error)
}

package quotes

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/dcortinas/fablink-backend/pkg/db/models"
	"github.com/dcortinas/fablink-backend/pkg/enums"
	"github.com/dcortinas/fablink-backend/pkg/pagination"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:quotes_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&models.Quote{}); err != nil {
		t.Fatalf("migrate quotes: %v", err)
	}
	return db
}

func seedQuote(t *testing.T, db *gorm.DB, customerID uuid.UUID, status enums.QuoteStatus, createdAt time.Time) models.Quote {
	t.Helper()
	quote := models.Quote{
		ID:         uuid.New(),
		CustomerID: customerID,
		Status:     status,
		Process:    "cnc_milling",
		Quantity:   10,
		CreatedAt:  createdAt,
	}
	if err := db.Create(&quote).Error; err != nil {
		t.Fatalf("seed quote: %v", err)
	}
	return quote
}

func TestListByCustomerScopesAndPaginates(t *testing.T) {
	db := newTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	customer := uuid.New()
	other := uuid.New()
	base := time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		seedQuote(t, db, customer, enums.QuoteStatusDraft, base.Add(time.Duration(i)*time.Hour))
	}
	seedQuote(t, db, other, enums.QuoteStatusDraft, base)

	page1, err := repo.ListByCustomer(ctx, customer, pagination.Page{Limit: 2}, ListFilters{})
	if err != nil {
		t.Fatalf("list page 1: %v", err)
	}
	if len(page1.Quotes) != 2 {
		t.Fatalf("page 1 size = %d, want 2", len(page1.Quotes))
	}
	if page1.NextCursor == "" {
		t.Fatal("expected next cursor on page 1")
	}
	if !page1.Quotes[0].CreatedAt.After(page1.Quotes[1].CreatedAt) {
		t.Fatal("expected newest-first ordering")
	}

	cursor, err := pagination.Decode(page1.NextCursor)
	if err != nil {
		t.Fatalf("decode cursor: %v", err)
	}
	page2, err := repo.ListByCustomer(ctx, customer, pagination.Page{Limit: 2, Cursor: cursor}, ListFilters{})
	if err != nil {
		t.Fatalf("list page 2: %v", err)
	}
	if len(page2.Quotes) != 1 {
		t.Fatalf("page 2 size = %d, want 1", len(page2.Quotes))
	}
	if page2.NextCursor != "" {
		t.Fatal("expected no cursor on final page")
	}

	for _, q := range append(page1.Quotes, page2.Quotes...) {
		if q.CustomerID != customer {
			t.Fatalf("foreign quote %s leaked into customer list", q.ID)
		}
	}
}

func TestListPipelineStatusFilter(t *testing.T) {
	db := newTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	base := time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)
	seedQuote(t, db, uuid.New(), enums.QuoteStatusQuoted, base)
	seedQuote(t, db, uuid.New(), enums.QuoteStatusDraft, base.Add(time.Minute))

	status := enums.QuoteStatusQuoted
	list, err := repo.ListPipeline(ctx, pagination.Page{Limit: 10}, ListFilters{Status: &status})
	if err != nil {
		t.Fatalf("list pipeline: %v", err)
	}
	if len(list.Quotes) != 1 {
		t.Fatalf("filtered size = %d, want 1", len(list.Quotes))
	}
	if list.Quotes[0].Status != enums.QuoteStatusQuoted {
		t.Fatalf("status = %s", list.Quotes[0].Status)
	}
}

func TestListOpenForBiddingExcludesAwarded(t *testing.T) {
	db := newTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	base := time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)
	open := seedQuote(t, db, uuid.New(), enums.QuoteStatusInReview, base)
	seedQuote(t, db, uuid.New(), enums.QuoteStatusDraft, base)
	seedQuote(t, db, uuid.New(), enums.QuoteStatusCancelled, base)

	supplier := uuid.New()
	awardedAt := base.Add(time.Hour)
	awarded := seedQuote(t, db, uuid.New(), enums.QuoteStatusQuoted, base)
	err := db.Model(&models.Quote{}).Where("id = ?", awarded.ID).Updates(map[string]any{
		"awarded_supplier_id": supplier,
		"awarded_at":          awardedAt,
	}).Error
	if err != nil {
		t.Fatalf("award quote: %v", err)
	}

	list, err := repo.ListOpenForBidding(ctx, pagination.Page{Limit: 10})
	if err != nil {
		t.Fatalf("list open: %v", err)
	}
	if len(list.Quotes) != 1 {
		t.Fatalf("open size = %d, want 1", len(list.Quotes))
	}
	if list.Quotes[0].ID != open.ID {
		t.Fatalf("unexpected open quote %s", list.Quotes[0].ID)
	}
}

func TestUpdateStatusPersists(t *testing.T) {
	db := newTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	quote := seedQuote(t, db, uuid.New(), enums.QuoteStatusQuoted, time.Now().UTC())
	if err := repo.UpdateStatus(ctx, quote.ID, enums.QuoteStatusCancelled); err != nil {
		t.Fatalf("update status: %v", err)
	}

	loaded, err := repo.FindByID(ctx, quote.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if loaded.Status != enums.QuoteStatusCancelled {
		t.Fatalf("status = %s, want cancelled", loaded.Status)
	}
}

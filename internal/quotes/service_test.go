package quotes

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dcortinas/fablink-backend/pkg/db/models"
	"github.com/dcortinas/fablink-backend/pkg/enums"
	pkgerrors "github.com/dcortinas/fablink-backend/pkg/errors"
	"github.com/dcortinas/fablink-backend/pkg/outbox"
	"github.com/dcortinas/fablink-backend/pkg/outbox/payloads"
	"github.com/dcortinas/fablink-backend/pkg/pagination"
)

type stubQuotesRepo struct {
	quote   *models.Quote
	updates map[string]any
	status  enums.QuoteStatus
}

func (s *stubQuotesRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubQuotesRepo) Create(ctx context.Context, quote *models.Quote) (*models.Quote, error) {
	if quote.ID == uuid.Nil {
		quote.ID = uuid.New()
	}
	s.quote = quote
	return quote, nil
}

func (s *stubQuotesRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Quote, error) {
	if s.quote == nil || s.quote.ID != id {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *s.quote
	return &copied, nil
}

func (s *stubQuotesRepo) ListByCustomer(ctx context.Context, customerID uuid.UUID, page pagination.Page, filters ListFilters) (*QuoteList, error) {
	return &QuoteList{}, nil
}

func (s *stubQuotesRepo) ListPipeline(ctx context.Context, page pagination.Page, filters ListFilters) (*QuoteList, error) {
	return &QuoteList{}, nil
}

func (s *stubQuotesRepo) ListOpenForBidding(ctx context.Context, page pagination.Page) (*QuoteList, error) {
	return &QuoteList{}, nil
}

func (s *stubQuotesRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.QuoteStatus) error {
	s.status = status
	if s.quote != nil && s.quote.ID == id {
		s.quote.Status = status
	}
	return nil
}

func (s *stubQuotesRepo) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	s.updates = updates
	return nil
}

type stubTxRunner struct{}

func (stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type stubEmitter struct {
	events []outbox.DomainEvent
	err    error
}

func (s *stubEmitter) Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error {
	if s.err != nil {
		return s.err
	}
	s.events = append(s.events, event)
	return nil
}

type stubOfferResolver struct {
	offer  *models.Offer
	losers []models.Offer
}

func (s *stubOfferResolver) FindForAward(ctx context.Context, tx *gorm.DB, offerID uuid.UUID) (*models.Offer, error) {
	if s.offer == nil || s.offer.ID != offerID {
		return nil, gorm.ErrRecordNotFound
	}
	return s.offer, nil
}

func (s *stubOfferResolver) MarkAwarded(ctx context.Context, tx *gorm.DB, quoteID, winnerOfferID uuid.UUID) ([]models.Offer, error) {
	return s.losers, nil
}

func newTestService(t *testing.T, repo *stubQuotesRepo, emitter *stubEmitter, offers *stubOfferResolver) Service {
	t.Helper()
	if offers == nil {
		offers = &stubOfferResolver{}
	}
	svc, err := NewService(repo, stubTxRunner{}, emitter, offers)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func TestArchiveEmitsStatusChange(t *testing.T) {
	customerID := uuid.New()
	repo := &stubQuotesRepo{quote: &models.Quote{
		ID:         uuid.New(),
		CustomerID: customerID,
		Status:     enums.QuoteStatusQuoted,
	}}
	emitter := &stubEmitter{}
	svc := newTestService(t, repo, emitter, nil)

	err := svc.Archive(context.Background(), TransitionInput{
		QuoteID:     repo.quote.ID,
		ActorUserID: customerID,
		ActorRole:   enums.ActorRoleCustomer,
	})
	if err != nil {
		t.Fatalf("Archive: %v", err)
	}
	if repo.status != enums.QuoteStatusCancelled {
		t.Fatalf("status = %s, want cancelled", repo.status)
	}
	if len(emitter.events) != 1 {
		t.Fatalf("expected one event, got %d", len(emitter.events))
	}
	event := emitter.events[0]
	if event.EventType != enums.EventQuoteStatusChanged {
		t.Fatalf("event type = %s", event.EventType)
	}
	data, ok := event.Data.(payloads.QuoteStatusChangedEvent)
	if !ok {
		t.Fatalf("unexpected payload type %T", event.Data)
	}
	if data.FromStatus != enums.QuoteStatusQuoted || data.ToStatus != enums.QuoteStatusCancelled {
		t.Fatalf("payload transition %s -> %s", data.FromStatus, data.ToStatus)
	}
}

func TestArchiveRejectsCancelledQuote(t *testing.T) {
	repo := &stubQuotesRepo{quote: &models.Quote{
		ID:         uuid.New(),
		CustomerID: uuid.New(),
		Status:     enums.QuoteStatusCancelled,
	}}
	emitter := &stubEmitter{}
	svc := newTestService(t, repo, emitter, nil)

	err := svc.Archive(context.Background(), TransitionInput{
		QuoteID:     repo.quote.ID,
		ActorUserID: uuid.New(),
		ActorRole:   enums.ActorRoleAdmin,
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict, got %v", err)
	}
	if len(emitter.events) != 0 {
		t.Fatal("no event should be emitted on rejected transition")
	}
}

func TestReopenOnlyFromClosedOut(t *testing.T) {
	customerID := uuid.New()
	repo := &stubQuotesRepo{quote: &models.Quote{
		ID:         uuid.New(),
		CustomerID: customerID,
		Status:     enums.QuoteStatusLost,
	}}
	emitter := &stubEmitter{}
	svc := newTestService(t, repo, emitter, nil)

	input := TransitionInput{
		QuoteID:     repo.quote.ID,
		ActorUserID: customerID,
		ActorRole:   enums.ActorRoleCustomer,
	}
	if err := svc.Reopen(context.Background(), input); err != nil {
		t.Fatalf("Reopen from lost: %v", err)
	}
	if repo.status != enums.QuoteStatusInReview {
		t.Fatalf("status = %s, want in_review", repo.status)
	}

	repo.quote.Status = enums.QuoteStatusDraft
	err := svc.Reopen(context.Background(), input)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict reopening a draft, got %v", err)
	}
}

func TestCustomerCannotTouchForeignQuote(t *testing.T) {
	repo := &stubQuotesRepo{quote: &models.Quote{
		ID:         uuid.New(),
		CustomerID: uuid.New(),
		Status:     enums.QuoteStatusQuoted,
	}}
	svc := newTestService(t, repo, &stubEmitter{}, nil)

	err := svc.Archive(context.Background(), TransitionInput{
		QuoteID:     repo.quote.ID,
		ActorUserID: uuid.New(),
		ActorRole:   enums.ActorRoleCustomer,
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found for foreign quote, got %v", err)
	}
}

func TestAwardSetsPairAndSettlesOffers(t *testing.T) {
	supplierID := uuid.New()
	loserSupplier := uuid.New()
	quote := &models.Quote{
		ID:         uuid.New(),
		CustomerID: uuid.New(),
		Status:     enums.QuoteStatusQuoted,
	}
	winner := &models.Offer{
		ID:         uuid.New(),
		QuoteID:    quote.ID,
		ProviderID: &supplierID,
	}
	repo := &stubQuotesRepo{quote: quote}
	emitter := &stubEmitter{}
	offers := &stubOfferResolver{
		offer: winner,
		losers: []models.Offer{
			{ID: uuid.New(), QuoteID: quote.ID, ProviderID: &loserSupplier},
		},
	}
	svc := newTestService(t, repo, emitter, offers)

	err := svc.Award(context.Background(), AwardInput{
		QuoteID:     quote.ID,
		OfferID:     winner.ID,
		ActorUserID: uuid.New(),
		ActorRole:   enums.ActorRoleAdmin,
	})
	if err != nil {
		t.Fatalf("Award: %v", err)
	}

	if repo.updates["status"] != enums.QuoteStatusWon {
		t.Fatalf("status update = %v, want won", repo.updates["status"])
	}
	if repo.updates["awarded_supplier_id"] != supplierID {
		t.Fatalf("awarded supplier = %v", repo.updates["awarded_supplier_id"])
	}
	if _, ok := repo.updates["awarded_at"].(time.Time); !ok {
		t.Fatal("awarded_at must be set together with the supplier")
	}

	if len(emitter.events) != 1 {
		t.Fatalf("expected one event, got %d", len(emitter.events))
	}
	data, ok := emitter.events[0].Data.(payloads.OfferWonEvent)
	if !ok {
		t.Fatalf("unexpected payload type %T", emitter.events[0].Data)
	}
	if data.SupplierID != supplierID {
		t.Fatalf("winner supplier = %s", data.SupplierID)
	}
	if len(data.Losers) != 1 || *data.Losers[0].SupplierID != loserSupplier {
		t.Fatalf("losers payload = %+v", data.Losers)
	}
}

func TestAwardRejectsNonAdmin(t *testing.T) {
	svc := newTestService(t, &stubQuotesRepo{}, &stubEmitter{}, nil)
	err := svc.Award(context.Background(), AwardInput{
		QuoteID:     uuid.New(),
		OfferID:     uuid.New(),
		ActorUserID: uuid.New(),
		ActorRole:   enums.ActorRoleSupplier,
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestAwardRejectsOfferFromOtherQuote(t *testing.T) {
	quote := &models.Quote{ID: uuid.New(), CustomerID: uuid.New(), Status: enums.QuoteStatusQuoted}
	supplierID := uuid.New()
	offer := &models.Offer{ID: uuid.New(), QuoteID: uuid.New(), ProviderID: &supplierID}
	repo := &stubQuotesRepo{quote: quote}
	svc := newTestService(t, repo, &stubEmitter{}, &stubOfferResolver{offer: offer})

	err := svc.Award(context.Background(), AwardInput{
		QuoteID:     quote.ID,
		OfferID:     offer.ID,
		ActorUserID: uuid.New(),
		ActorRole:   enums.ActorRoleAdmin,
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestMarkKickoffCompleteRequiresAward(t *testing.T) {
	repo := &stubQuotesRepo{quote: &models.Quote{
		ID:         uuid.New(),
		CustomerID: uuid.New(),
		Status:     enums.QuoteStatusQuoted,
	}}
	svc := newTestService(t, repo, &stubEmitter{}, nil)

	err := svc.MarkKickoffComplete(context.Background(), KickoffOverrideInput{
		QuoteID:     repo.quote.ID,
		ActorUserID: uuid.New(),
		ActorRole:   enums.ActorRoleAdmin,
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict, got %v", err)
	}
}

func TestMarkKickoffCompleteIsIdempotent(t *testing.T) {
	supplierID := uuid.New()
	awardedAt := time.Now()
	done := time.Now()
	repo := &stubQuotesRepo{quote: &models.Quote{
		ID:                 uuid.New(),
		CustomerID:         uuid.New(),
		Status:             enums.QuoteStatusWon,
		AwardedSupplierID:  &supplierID,
		AwardedAt:          &awardedAt,
		KickoffCompletedAt: &done,
	}}
	emitter := &stubEmitter{}
	svc := newTestService(t, repo, emitter, nil)

	err := svc.MarkKickoffComplete(context.Background(), KickoffOverrideInput{
		QuoteID:     repo.quote.ID,
		ActorUserID: uuid.New(),
		ActorRole:   enums.ActorRoleAdmin,
	})
	if err != nil {
		t.Fatalf("MarkKickoffComplete: %v", err)
	}
	if repo.updates != nil {
		t.Fatal("already-complete override should not write")
	}
	if len(emitter.events) != 0 {
		t.Fatal("already-complete override should not emit")
	}
}

func TestCreateValidation(t *testing.T) {
	svc := newTestService(t, &stubQuotesRepo{}, &stubEmitter{}, nil)

	if _, err := svc.Create(context.Background(), CreateInput{CustomerID: uuid.New(), Quantity: 1}); err == nil {
		t.Fatal("expected error for missing process")
	}
	if _, err := svc.Create(context.Background(), CreateInput{CustomerID: uuid.New(), Process: "cnc_milling"}); err == nil {
		t.Fatal("expected error for non-positive quantity")
	}

	quote, err := svc.Create(context.Background(), CreateInput{
		CustomerID: uuid.New(),
		Process:    "  cnc_milling  ",
		Quantity:   25,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if quote.Process != "cnc_milling" {
		t.Fatalf("process = %q, want trimmed", quote.Process)
	}
	if quote.Status != enums.QuoteStatusDraft {
		t.Fatalf("status = %s, want draft", quote.Status)
	}
}

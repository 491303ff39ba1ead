package offers

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dcortinas/fablink-backend/pkg/db/models"
	"github.com/dcortinas/fablink-backend/pkg/enums"
	pkgerrors "github.com/dcortinas/fablink-backend/pkg/errors"
	"github.com/dcortinas/fablink-backend/pkg/logger"
)

type stubOffersRepo struct {
	Repository
	byID      map[uuid.UUID]models.Offer
	byQuote   map[uuid.UUID][]models.Offer
	existing  *models.Offer
	created   *models.Offer
	updates   map[string]any
	updatedID uuid.UUID
}

func (s *stubOffersRepo) Create(ctx context.Context, offer *models.Offer) (*models.Offer, error) {
	s.created = offer
	return offer, nil
}

func (s *stubOffersRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Offer, error) {
	if offer, ok := s.byID[id]; ok {
		return &offer, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubOffersRepo) FindByQuoteAndProvider(ctx context.Context, quoteID, providerID uuid.UUID) (*models.Offer, error) {
	if s.existing != nil {
		return s.existing, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubOffersRepo) ListByQuote(ctx context.Context, quoteID uuid.UUID) ([]models.Offer, error) {
	return s.byQuote[quoteID], nil
}

func (s *stubOffersRepo) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	s.updatedID = id
	s.updates = updates
	return nil
}

type stubQuoteReader struct {
	quotes map[uuid.UUID]models.Quote
}

func (s *stubQuoteReader) FindByID(ctx context.Context, id uuid.UUID) (*models.Quote, error) {
	if quote, ok := s.quotes[id]; ok {
		return &quote, nil
	}
	return nil, gorm.ErrRecordNotFound
}

type stubProviderReader struct {
	providers []models.Provider
}

func (s *stubProviderReader) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Provider, error) {
	return s.providers, nil
}

type stubHealthReader struct {
	health map[uuid.UUID]enums.MatchHealth
	err    error
}

func (s *stubHealthReader) HealthByProvider(ctx context.Context, providerIDs []uuid.UUID) (map[uuid.UUID]enums.MatchHealth, error) {
	return s.health, s.err
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{Output: io.Discard})
}

func newTestService(t *testing.T, repo *stubOffersRepo, quotes *stubQuoteReader, providers *stubProviderReader, health MatchHealthReader) Service {
	t.Helper()
	svc, err := NewService(repo, quotes, providers, health, BadgePolicy{Fastest: PolicySingle, BestValue: PolicySingle}, testLogger())
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func openQuote(customerID uuid.UUID) models.Quote {
	return models.Quote{
		ID:         uuid.New(),
		CustomerID: customerID,
		Status:     enums.QuoteStatusInReview,
		Process:    "cnc_milling",
		Quantity:   5,
	}
}

func TestSubmitStoresLenientPrice(t *testing.T) {
	quote := openQuote(uuid.New())
	repo := &stubOffersRepo{}
	quotes := &stubQuoteReader{quotes: map[uuid.UUID]models.Quote{quote.ID: quote}}
	svc := newTestService(t, repo, quotes, &stubProviderReader{}, nil)

	offer, err := svc.Submit(context.Background(), SubmitInput{
		QuoteID:    quote.ID,
		ProviderID: uuid.New(),
		TotalPrice: "$1,250.50",
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if offer.TotalPrice == nil || offer.TotalPrice.String() != "1250.5" {
		t.Fatalf("price = %v, want 1250.5", offer.TotalPrice)
	}
	if offer.Currency != "USD" {
		t.Fatalf("currency = %s, want USD default", offer.Currency)
	}
	if offer.Status != enums.OfferStatusPending {
		t.Fatalf("status = %s, want pending", offer.Status)
	}
}

func TestSubmitUnparseablePriceStoresNull(t *testing.T) {
	quote := openQuote(uuid.New())
	repo := &stubOffersRepo{}
	quotes := &stubQuoteReader{quotes: map[uuid.UUID]models.Quote{quote.ID: quote}}
	svc := newTestService(t, repo, quotes, &stubProviderReader{}, nil)

	offer, err := svc.Submit(context.Background(), SubmitInput{
		QuoteID:    quote.ID,
		ProviderID: uuid.New(),
		TotalPrice: "call for pricing",
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if offer.TotalPrice != nil {
		t.Fatalf("price = %v, want nil", offer.TotalPrice)
	}
}

func TestSubmitRejectsSettledQuotes(t *testing.T) {
	cancelled := openQuote(uuid.New())
	cancelled.Status = enums.QuoteStatusCancelled

	supplier := uuid.New()
	awardedAt := cancelled.CreatedAt
	awarded := openQuote(uuid.New())
	awarded.AwardedSupplierID = &supplier
	awarded.AwardedAt = &awardedAt

	quotes := &stubQuoteReader{quotes: map[uuid.UUID]models.Quote{
		cancelled.ID: cancelled,
		awarded.ID:   awarded,
	}}
	svc := newTestService(t, &stubOffersRepo{}, quotes, &stubProviderReader{}, nil)

	for _, quoteID := range []uuid.UUID{cancelled.ID, awarded.ID} {
		_, err := svc.Submit(context.Background(), SubmitInput{QuoteID: quoteID, ProviderID: uuid.New()})
		if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
			t.Fatalf("quote %s: err = %v, want state conflict", quoteID, err)
		}
	}
}

func TestSubmitRejectsDuplicateBid(t *testing.T) {
	quote := openQuote(uuid.New())
	existing := models.Offer{ID: uuid.New(), QuoteID: quote.ID}
	repo := &stubOffersRepo{existing: &existing}
	quotes := &stubQuoteReader{quotes: map[uuid.UUID]models.Quote{quote.ID: quote}}
	svc := newTestService(t, repo, quotes, &stubProviderReader{}, nil)

	_, err := svc.Submit(context.Background(), SubmitInput{QuoteID: quote.ID, ProviderID: uuid.New()})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("err = %v, want conflict", err)
	}
}

func TestUpdateOwnRequiresOwnership(t *testing.T) {
	quote := openQuote(uuid.New())
	owner := uuid.New()
	offer := models.Offer{ID: uuid.New(), QuoteID: quote.ID, ProviderID: &owner, Status: enums.OfferStatusPending}
	repo := &stubOffersRepo{byID: map[uuid.UUID]models.Offer{offer.ID: offer}}
	quotes := &stubQuoteReader{quotes: map[uuid.UUID]models.Quote{quote.ID: quote}}
	svc := newTestService(t, repo, quotes, &stubProviderReader{}, nil)

	_, err := svc.UpdateOwn(context.Background(), UpdateInput{OfferID: offer.ID, ProviderID: uuid.New()})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("err = %v, want not found for foreign offer", err)
	}
}

func TestUpdateOwnRejectsSettledOffer(t *testing.T) {
	quote := openQuote(uuid.New())
	owner := uuid.New()
	offer := models.Offer{ID: uuid.New(), QuoteID: quote.ID, ProviderID: &owner, Status: enums.OfferStatusLost}
	repo := &stubOffersRepo{byID: map[uuid.UUID]models.Offer{offer.ID: offer}}
	quotes := &stubQuoteReader{quotes: map[uuid.UUID]models.Quote{quote.ID: quote}}
	svc := newTestService(t, repo, quotes, &stubProviderReader{}, nil)

	_, err := svc.UpdateOwn(context.Background(), UpdateInput{OfferID: offer.ID, ProviderID: owner})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("err = %v, want state conflict", err)
	}
}

func TestListForQuoteEnforcesCustomerScope(t *testing.T) {
	customer := uuid.New()
	quote := openQuote(customer)
	quotes := &stubQuoteReader{quotes: map[uuid.UUID]models.Quote{quote.ID: quote}}
	svc := newTestService(t, &stubOffersRepo{}, quotes, &stubProviderReader{}, nil)

	_, err := svc.ListForQuote(context.Background(), quote.ID, uuid.New())
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("err = %v, want not found for foreign customer", err)
	}

	if _, err := svc.ListForQuote(context.Background(), quote.ID, customer); err != nil {
		t.Fatalf("owner read: %v", err)
	}
}

func TestListForQuoteAbsorbsHealthFailure(t *testing.T) {
	customer := uuid.New()
	quote := openQuote(customer)
	providerID := uuid.New()
	repo := &stubOffersRepo{byQuote: map[uuid.UUID][]models.Offer{
		quote.ID: {{ID: uuid.New(), QuoteID: quote.ID, ProviderID: &providerID, Currency: "USD"}},
	}}
	quotes := &stubQuoteReader{quotes: map[uuid.UUID]models.Quote{quote.ID: quote}}
	health := &stubHealthReader{err: errors.New("table missing")}
	svc := newTestService(t, repo, quotes, &stubProviderReader{}, health)

	compared, err := svc.ListForQuote(context.Background(), quote.ID, customer)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(compared) != 1 {
		t.Fatalf("len = %d, want 1", len(compared))
	}
	if hasBadge(compared[0], enums.OfferBadgeGreatFit) {
		t.Fatal("failed health lookup must withhold great fit, not error")
	}
}

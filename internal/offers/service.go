package offers

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/dcortinas/fablink-backend/pkg/db/models"
	"github.com/dcortinas/fablink-backend/pkg/enums"
	pkgerrors "github.com/dcortinas/fablink-backend/pkg/errors"
	"github.com/dcortinas/fablink-backend/pkg/logger"
)

// Service defines offer operations for suppliers and comparison reads.
type Service interface {
	Submit(ctx context.Context, input SubmitInput) (*models.Offer, error)
	UpdateOwn(ctx context.Context, input UpdateInput) (*models.Offer, error)
	ListForQuote(ctx context.Context, quoteID, customerID uuid.UUID) ([]ComparedOffer, error)
}

type service struct {
	repo        Repository
	quotes      QuoteReader
	providers   ProviderReader
	matchHealth MatchHealthReader
	policy      BadgePolicy
	logg        *logger.Logger
}

// NewService builds an offer service. The match-health reader may be nil
// when the deployment lacks the backing table; badges then degrade to
// unknown health.
func NewService(repo Repository, quotes QuoteReader, providers ProviderReader, matchHealth MatchHealthReader, policy BadgePolicy, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("offers repository required")
	}
	if quotes == nil {
		return nil, fmt.Errorf("quote reader required")
	}
	if providers == nil {
		return nil, fmt.Errorf("provider reader required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		repo:        repo,
		quotes:      quotes,
		providers:   providers,
		matchHealth: matchHealth,
		policy:      policy,
		logg:        logg,
	}, nil
}

func (s *service) Submit(ctx context.Context, input SubmitInput) (*models.Offer, error) {
	if input.ProviderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "supplier identity missing")
	}
	if input.QuoteID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quote id is required")
	}

	quote, err := s.biddableQuote(ctx, input.QuoteID)
	if err != nil {
		return nil, err
	}

	if _, err := s.repo.FindByQuoteAndProvider(ctx, quote.ID, input.ProviderID); err == nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "an offer for this quote already exists, update it instead")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check existing offer")
	}

	currency := input.Currency
	if currency == "" {
		currency = "USD"
	}
	providerID := input.ProviderID
	offer := &models.Offer{
		ID:              uuid.New(),
		QuoteID:         quote.ID,
		ProviderID:      &providerID,
		TotalPrice:      ParseTotalPrice(input.TotalPrice),
		Currency:        currency,
		LeadTimeDaysMin: input.LeadTimeDaysMin,
		LeadTimeDaysMax: input.LeadTimeDaysMax,
		Status:          enums.OfferStatusPending,
		Notes:           input.Notes,
	}
	created, err := s.repo.Create(ctx, offer)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create offer")
	}
	return created, nil
}

func (s *service) UpdateOwn(ctx context.Context, input UpdateInput) (*models.Offer, error) {
	if input.ProviderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "supplier identity missing")
	}

	offer, err := s.repo.FindByID(ctx, input.OfferID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "offer not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load offer")
	}
	if offer.ProviderID == nil || *offer.ProviderID != input.ProviderID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "offer not found")
	}
	if offer.Status != enums.OfferStatusPending {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "offer is already settled")
	}
	if _, err := s.biddableQuote(ctx, offer.QuoteID); err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if input.TotalPrice != nil {
		updates["total_price"] = ParseTotalPrice(input.TotalPrice)
	}
	if input.LeadTimeDaysMin != nil {
		updates["lead_time_days_min"] = *input.LeadTimeDaysMin
	}
	if input.LeadTimeDaysMax != nil {
		updates["lead_time_days_max"] = *input.LeadTimeDaysMax
	}
	if input.Notes != nil {
		updates["notes"] = *input.Notes
	}
	if len(updates) == 0 {
		return offer, nil
	}

	if err := s.repo.Update(ctx, offer.ID, updates); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update offer")
	}
	return s.repo.FindByID(ctx, offer.ID)
}

// ListForQuote returns the quote's offers enriched with badges. When
// customerID is set the quote must belong to that customer. Provider and
// match-health lookups run concurrently; a failed health lookup degrades
// to unknown instead of failing the read.
func (s *service) ListForQuote(ctx context.Context, quoteID, customerID uuid.UUID) ([]ComparedOffer, error) {
	quote, err := s.quotes.FindByID(ctx, quoteID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "quote not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load quote")
	}
	if customerID != uuid.Nil && quote.CustomerID != customerID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "quote not found")
	}

	offerRows, err := s.repo.ListByQuote(ctx, quoteID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list offers")
	}
	if len(offerRows) == 0 {
		return []ComparedOffer{}, nil
	}

	providerIDs := collectProviderIDs(offerRows)

	var (
		providerMap = map[uuid.UUID]models.Provider{}
		healthMap   = map[uuid.UUID]enums.MatchHealth{}
	)
	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		if len(providerIDs) == 0 {
			return nil
		}
		rows, err := s.providers.FindByIDs(groupCtx, providerIDs)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load providers")
		}
		for _, p := range rows {
			providerMap[p.ID] = p
		}
		return nil
	})
	group.Go(func() error {
		if s.matchHealth == nil || len(providerIDs) == 0 {
			return nil
		}
		rows, err := s.matchHealth.HealthByProvider(groupCtx, providerIDs)
		if err != nil {
			warnCtx := s.logg.WithField(groupCtx, "error", err.Error())
			s.logg.Warn(warnCtx, "match health lookup failed, badges degrade to unknown")
			return nil
		}
		for id, health := range rows {
			healthMap[id] = health
		}
		return nil
	})
	if err := group.Wait(); err != nil {
		return nil, err
	}

	return Compare(offerRows, providerMap, healthMap, s.policy), nil
}

func (s *service) biddableQuote(ctx context.Context, quoteID uuid.UUID) (*models.Quote, error) {
	quote, err := s.quotes.FindByID(ctx, quoteID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "quote not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load quote")
	}
	if quote.Status == enums.QuoteStatusCancelled {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "quote is cancelled")
	}
	if quote.IsAwarded() {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "quote has already been awarded")
	}
	return quote, nil
}

func collectProviderIDs(offerRows []models.Offer) []uuid.UUID {
	seen := map[uuid.UUID]struct{}{}
	ids := make([]uuid.UUID, 0, len(offerRows))
	for _, offer := range offerRows {
		if offer.ProviderID == nil {
			continue
		}
		if _, ok := seen[*offer.ProviderID]; ok {
			continue
		}
		seen[*offer.ProviderID] = struct{}{}
		ids = append(ids, *offer.ProviderID)
	}
	return ids
}

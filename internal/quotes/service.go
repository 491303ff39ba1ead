package quotes

import (
	"context"
	"fmt"
	"strings"
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

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// OfferResolver covers the offer-side writes an award needs. The offers
// package implements it; declaring it here keeps the dependency one-way.
type OfferResolver interface {
	FindForAward(ctx context.Context, tx *gorm.DB, offerID uuid.UUID) (*models.Offer, error)
	MarkAwarded(ctx context.Context, tx *gorm.DB, quoteID, winnerOfferID uuid.UUID) ([]models.Offer, error)
}

// Service defines quote-level operations beyond repository reads.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*models.Quote, error)
	Get(ctx context.Context, quoteID, customerID uuid.UUID) (*models.Quote, error)
	ListForCustomer(ctx context.Context, customerID uuid.UUID, page pagination.Page, filters ListFilters) (*QuoteList, error)
	ListPipeline(ctx context.Context, page pagination.Page, filters ListFilters) (*QuoteList, error)
	ListOpenForBidding(ctx context.Context, page pagination.Page) (*QuoteList, error)
	Archive(ctx context.Context, input TransitionInput) error
	Reopen(ctx context.Context, input TransitionInput) error
	Award(ctx context.Context, input AwardInput) error
	MarkKickoffComplete(ctx context.Context, input KickoffOverrideInput) error
}

type service struct {
	repo   Repository
	tx     txRunner
	outbox outbox.Emitter
	offers OfferResolver
}

// NewService builds a quote service with the required dependencies.
func NewService(repo Repository, tx txRunner, emitter outbox.Emitter, offers OfferResolver) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("quotes repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if emitter == nil {
		return nil, fmt.Errorf("outbox emitter required")
	}
	if offers == nil {
		return nil, fmt.Errorf("offer resolver required")
	}
	return &service{repo: repo, tx: tx, outbox: emitter, offers: offers}, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*models.Quote, error) {
	if input.CustomerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if strings.TrimSpace(input.Process) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "process is required")
	}
	if input.Quantity <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}

	quote := &models.Quote{
		ID:         uuid.New(),
		CustomerID: input.CustomerID,
		UploadID:   input.UploadID,
		Status:     enums.QuoteStatusDraft,
		Process:    strings.TrimSpace(input.Process),
		Material:   input.Material,
		Quantity:   input.Quantity,
	}
	if email := strings.TrimSpace(input.CustomerEmail); email != "" {
		quote.CustomerEmail = &email
	}
	created, err := s.repo.Create(ctx, quote)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create quote")
	}
	return created, nil
}

func (s *service) Get(ctx context.Context, quoteID, customerID uuid.UUID) (*models.Quote, error) {
	if quoteID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quote id required")
	}
	quote, err := s.repo.FindByID(ctx, quoteID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "quote not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load quote")
	}
	if customerID != uuid.Nil && quote.CustomerID != customerID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "quote not found")
	}
	return quote, nil
}

func (s *service) ListForCustomer(ctx context.Context, customerID uuid.UUID, page pagination.Page, filters ListFilters) (*QuoteList, error) {
	if customerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	list, err := s.repo.ListByCustomer(ctx, customerID, page, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list quotes")
	}
	return list, nil
}

func (s *service) ListPipeline(ctx context.Context, page pagination.Page, filters ListFilters) (*QuoteList, error) {
	list, err := s.repo.ListPipeline(ctx, page, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list pipeline")
	}
	return list, nil
}

func (s *service) ListOpenForBidding(ctx context.Context, page pagination.Page) (*QuoteList, error) {
	list, err := s.repo.ListOpenForBidding(ctx, page)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list open quotes")
	}
	return list, nil
}

// Archive moves a quote to cancelled.
func (s *service) Archive(ctx context.Context, input TransitionInput) error {
	return s.transition(ctx, input, enums.QuoteStatusCancelled, "quote cannot be archived in its current state")
}

// Reopen moves a closed-out quote back to in_review.
func (s *service) Reopen(ctx context.Context, input TransitionInput) error {
	return s.transition(ctx, input, enums.QuoteStatusInReview, "quote cannot be reopened in its current state")
}

func (s *service) transition(ctx context.Context, input TransitionInput, target enums.QuoteStatus, conflictMsg string) error {
	if input.QuoteID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "quote id required")
	}
	if input.ActorUserID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}

	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		quote, err := repo.FindByID(ctx, input.QuoteID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "quote not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load quote")
		}
		if input.ActorRole == enums.ActorRoleCustomer && quote.CustomerID != input.ActorUserID {
			return pkgerrors.New(pkgerrors.CodeNotFound, "quote not found")
		}

		from := quote.Status
		if !CanTransition(string(from), string(target), string(input.ActorRole)) {
			return pkgerrors.New(pkgerrors.CodeStateConflict, conflictMsg)
		}

		if err := repo.UpdateStatus(ctx, quote.ID, target); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update quote status")
		}

		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventQuoteStatusChanged,
			AggregateType: enums.AggregateQuote,
			AggregateID:   quote.ID,
			Actor:         &outbox.ActorRef{UserID: input.ActorUserID, Role: string(input.ActorRole)},
			Data: payloads.QuoteStatusChangedEvent{
				QuoteID:    quote.ID,
				CustomerID: quote.CustomerID,
				FromStatus: from,
				ToStatus:   target,
				ActorRole:  input.ActorRole,
			},
		})
	})
}

// Award fixes the winning offer on a quote: status, awarded supplier
// and awarded timestamp change together or not at all.
func (s *service) Award(ctx context.Context, input AwardInput) error {
	if input.QuoteID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "quote id required")
	}
	if input.OfferID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "offer id required")
	}
	if input.ActorRole != enums.ActorRoleAdmin {
		return pkgerrors.New(pkgerrors.CodeForbidden, "only admins award quotes")
	}

	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		quote, err := repo.FindByID(ctx, input.QuoteID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "quote not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load quote")
		}
		if quote.Status == enums.QuoteStatusCancelled {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "cancelled quotes cannot be awarded")
		}

		offer, err := s.offers.FindForAward(ctx, tx, input.OfferID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "offer not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load offer")
		}
		if offer.QuoteID != quote.ID {
			return pkgerrors.New(pkgerrors.CodeValidation, "offer does not belong to quote")
		}
		if offer.ProviderID == nil {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "offer has no supplier on record")
		}

		awardedAt := time.Now().UTC()
		if err := repo.Update(ctx, quote.ID, map[string]any{
			"status":              enums.QuoteStatusWon,
			"awarded_supplier_id": *offer.ProviderID,
			"awarded_at":          awardedAt,
		}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record award")
		}

		losers, err := s.offers.MarkAwarded(ctx, tx, quote.ID, offer.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "settle offers")
		}

		losing := make([]payloads.LosingBidder, 0, len(losers))
		for _, l := range losers {
			losing = append(losing, payloads.LosingBidder{
				OfferID:    l.ID,
				SupplierID: l.ProviderID,
			})
		}

		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventOfferWon,
			AggregateType: enums.AggregateOffer,
			AggregateID:   offer.ID,
			Actor:         &outbox.ActorRef{UserID: input.ActorUserID, Role: string(input.ActorRole)},
			Data: payloads.OfferWonEvent{
				QuoteID:    quote.ID,
				OfferID:    offer.ID,
				CustomerID: quote.CustomerID,
				SupplierID: *offer.ProviderID,
				AwardedAt:  awardedAt,
				Losers:     losing,
			},
		})
	})
}

// MarkKickoffComplete stamps the administrative override on a quote.
func (s *service) MarkKickoffComplete(ctx context.Context, input KickoffOverrideInput) error {
	if input.QuoteID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "quote id required")
	}
	if input.ActorRole != enums.ActorRoleAdmin {
		return pkgerrors.New(pkgerrors.CodeForbidden, "only admins override kickoff completion")
	}

	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		quote, err := repo.FindByID(ctx, input.QuoteID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "quote not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load quote")
		}
		if !quote.IsAwarded() {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "quote has no awarded supplier")
		}
		if quote.KickoffCompletedAt != nil {
			return nil
		}

		if err := repo.Update(ctx, quote.ID, map[string]any{
			"kickoff_completed_at": time.Now().UTC(),
		}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record kickoff override")
		}

		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventKickoffChanged,
			AggregateType: enums.AggregateQuote,
			AggregateID:   quote.ID,
			Actor:         &outbox.ActorRef{UserID: input.ActorUserID, Role: string(input.ActorRole)},
			Data: payloads.KickoffChangedEvent{
				QuoteID:     quote.ID,
				CustomerID:  quote.CustomerID,
				SupplierID:  *quote.AwardedSupplierID,
				AllComplete: true,
			},
		})
	})
}

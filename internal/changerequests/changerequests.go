package changerequests

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dcortinas/fablink-backend/pkg/db/models"
	"github.com/dcortinas/fablink-backend/pkg/enums"
	pkgerrors "github.com/dcortinas/fablink-backend/pkg/errors"
	"github.com/dcortinas/fablink-backend/pkg/outbox"
	"github.com/dcortinas/fablink-backend/pkg/outbox/payloads"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Repository is the persistence surface for change requests.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, request *models.ChangeRequest) (*models.ChangeRequest, error)
	ListByQuote(ctx context.Context, quoteID uuid.UUID) ([]models.ChangeRequest, error)
}

// QuoteReader is the slice of the quotes repository needed for
// ownership checks.
type QuoteReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Quote, error)
}

// SubmitInput files a revision request against a quote. NotifyCustomer
// is the per-request preference the dispatcher consults before copying
// the customer on the confirmation.
type SubmitInput struct {
	QuoteID        uuid.UUID
	CustomerID     uuid.UUID
	Summary        string
	Details        *string
	NotifyCustomer bool
}

// Service defines change-request operations.
type Service interface {
	Submit(ctx context.Context, input SubmitInput) (*models.ChangeRequest, error)
	List(ctx context.Context, quoteID uuid.UUID) ([]models.ChangeRequest, error)
}

type service struct {
	repo   Repository
	quotes QuoteReader
	tx     txRunner
	outbox outbox.Emitter
}

// NewService builds a change-request service with the required dependencies.
func NewService(repo Repository, quotes QuoteReader, tx txRunner, emitter outbox.Emitter) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("change request repository required")
	}
	if quotes == nil {
		return nil, fmt.Errorf("quote reader required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if emitter == nil {
		return nil, fmt.Errorf("outbox emitter required")
	}
	return &service{repo: repo, quotes: quotes, tx: tx, outbox: emitter}, nil
}

func (s *service) Submit(ctx context.Context, input SubmitInput) (*models.ChangeRequest, error) {
	if input.CustomerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	summary := strings.TrimSpace(input.Summary)
	if summary == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "summary is required")
	}

	var request *models.ChangeRequest
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		quote, err := s.quotes.FindByID(ctx, input.QuoteID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "quote not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load quote")
		}
		if quote.CustomerID != input.CustomerID {
			return pkgerrors.New(pkgerrors.CodeNotFound, "quote not found")
		}
		if quote.Status == enums.QuoteStatusCancelled {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "quote is cancelled")
		}

		request, err = s.repo.WithTx(tx).Create(ctx, &models.ChangeRequest{
			ID:             uuid.New(),
			QuoteID:        quote.ID,
			CustomerID:     input.CustomerID,
			Summary:        summary,
			Details:        input.Details,
			NotifyCustomer: input.NotifyCustomer,
		})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create change request")
		}

		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventChangeRequestSubmitted,
			AggregateType: enums.AggregateChangeRequest,
			AggregateID:   request.ID,
			Actor:         &outbox.ActorRef{UserID: input.CustomerID, Role: string(enums.ActorRoleCustomer)},
			Data: payloads.ChangeRequestSubmittedEvent{
				QuoteID:         quote.ID,
				ChangeRequestID: request.ID,
				CustomerID:      input.CustomerID,
				Summary:         summary,
				NotifyCustomer:  input.NotifyCustomer,
			},
		})
	})
	if err != nil {
		return nil, err
	}
	return request, nil
}

func (s *service) List(ctx context.Context, quoteID uuid.UUID) ([]models.ChangeRequest, error) {
	rows, err := s.repo.ListByQuote(ctx, quoteID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list change requests")
	}
	return rows, nil
}

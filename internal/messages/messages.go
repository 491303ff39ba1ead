package messages

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dcortinas/fablink-backend/pkg/db/models"
	"github.com/dcortinas/fablink-backend/pkg/enums"
	pkgerrors "github.com/dcortinas/fablink-backend/pkg/errors"
	"github.com/dcortinas/fablink-backend/pkg/outbox"
	"github.com/dcortinas/fablink-backend/pkg/outbox/payloads"
)

// previewRunes caps the excerpt carried in the outbox payload.
const previewRunes = 140

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Repository is the persistence surface for quote message threads.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, message *models.QuoteMessage) (*models.QuoteMessage, error)
	ListByQuote(ctx context.Context, quoteID uuid.UUID) ([]models.QuoteMessage, error)
}

// QuoteReader is the slice of the quotes repository needed for thread
// access checks.
type QuoteReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Quote, error)
}

// PostInput adds one entry to a quote's thread.
type PostInput struct {
	QuoteID    uuid.UUID
	AuthorID   uuid.UUID
	AuthorRole enums.ActorRole
	Body       string
}

// Service defines thread operations on a quote.
type Service interface {
	Post(ctx context.Context, input PostInput) (*models.QuoteMessage, error)
	List(ctx context.Context, quoteID, customerID uuid.UUID) ([]models.QuoteMessage, error)
}

type service struct {
	repo   Repository
	quotes QuoteReader
	tx     txRunner
	outbox outbox.Emitter
}

// NewService builds a message service with the required dependencies.
func NewService(repo Repository, quotes QuoteReader, tx txRunner, emitter outbox.Emitter) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("message repository required")
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

func (s *service) Post(ctx context.Context, input PostInput) (*models.QuoteMessage, error) {
	if input.AuthorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if !input.AuthorRole.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown author role")
	}
	body := strings.TrimSpace(input.Body)
	if body == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "message body is required")
	}

	var message *models.QuoteMessage
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		quote, err := s.quotes.FindByID(ctx, input.QuoteID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "quote not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load quote")
		}
		if input.AuthorRole == enums.ActorRoleCustomer && quote.CustomerID != input.AuthorID {
			return pkgerrors.New(pkgerrors.CodeNotFound, "quote not found")
		}

		message, err = s.repo.WithTx(tx).Create(ctx, &models.QuoteMessage{
			ID:         uuid.New(),
			QuoteID:    quote.ID,
			AuthorID:   input.AuthorID,
			AuthorRole: input.AuthorRole,
			Body:       body,
		})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create message")
		}

		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventMessagePosted,
			AggregateType: enums.AggregateMessage,
			AggregateID:   message.ID,
			Actor:         &outbox.ActorRef{UserID: input.AuthorID, Role: string(input.AuthorRole)},
			Data: payloads.MessagePostedEvent{
				QuoteID:    quote.ID,
				MessageID:  message.ID,
				CustomerID: quote.CustomerID,
				AuthorID:   input.AuthorID,
				AuthorRole: input.AuthorRole,
				Preview:    preview(body),
			},
		})
	})
	if err != nil {
		return nil, err
	}
	return message, nil
}

// List returns the thread oldest-first. A non-zero customerID restricts
// the read to the quote's owner.
func (s *service) List(ctx context.Context, quoteID, customerID uuid.UUID) ([]models.QuoteMessage, error) {
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

	rows, err := s.repo.ListByQuote(ctx, quoteID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list messages")
	}
	return rows, nil
}

func preview(body string) string {
	if utf8.RuneCountInString(body) <= previewRunes {
		return body
	}
	runes := []rune(body)
	return string(runes[:previewRunes])
}

package savedsearches

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dcortinas/fablink-backend/pkg/db"
	"github.com/dcortinas/fablink-backend/pkg/db/models"
	pkgerrors "github.com/dcortinas/fablink-backend/pkg/errors"
)

// SaveInput pins a quote under a label. Saving an already-pinned quote
// updates it in place.
type SaveInput struct {
	CustomerID    uuid.UUID
	QuoteID       uuid.UUID
	Label         string
	AlertsEnabled bool
}

// RenameInput relabels one saved search.
type RenameInput struct {
	SearchID   uuid.UUID
	CustomerID uuid.UUID
	Label      string
}

// Service defines saved-search operations. Every call reports
// unsupported when the deployment's schema lacks the backing table.
type Service interface {
	Save(ctx context.Context, input SaveInput) (*models.SavedSearch, error)
	List(ctx context.Context, customerID uuid.UUID) ([]models.SavedSearch, error)
	Rename(ctx context.Context, input RenameInput) (*models.SavedSearch, error)
	Delete(ctx context.Context, searchID, customerID uuid.UUID) error
	MarkViewed(ctx context.Context, searchID, customerID uuid.UUID) error
}

type service struct {
	repo Repository
	caps db.Capabilities
}

// NewService builds a saved-search service.
func NewService(repo Repository, caps db.Capabilities) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("saved search repository required")
	}
	return &service{repo: repo, caps: caps}, nil
}

func (s *service) Save(ctx context.Context, input SaveInput) (*models.SavedSearch, error) {
	if err := s.supported(); err != nil {
		return nil, err
	}
	if input.CustomerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	label := strings.TrimSpace(input.Label)
	if label == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "label is required")
	}

	saved, err := s.repo.Upsert(ctx, &models.SavedSearch{
		ID:            uuid.New(),
		CustomerID:    input.CustomerID,
		QuoteID:       input.QuoteID,
		Label:         label,
		AlertsEnabled: input.AlertsEnabled,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save search")
	}
	return saved, nil
}

func (s *service) List(ctx context.Context, customerID uuid.UUID) ([]models.SavedSearch, error) {
	if err := s.supported(); err != nil {
		return nil, err
	}
	rows, err := s.repo.ListByCustomer(ctx, customerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list saved searches")
	}
	return rows, nil
}

func (s *service) Rename(ctx context.Context, input RenameInput) (*models.SavedSearch, error) {
	if err := s.supported(); err != nil {
		return nil, err
	}
	label := strings.TrimSpace(input.Label)
	if label == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "label is required")
	}

	if _, err := s.ownedSearch(ctx, input.SearchID, input.CustomerID); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, input.SearchID, map[string]any{"label": label}); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "could not rename this search, try again")
	}
	return s.repo.FindByID(ctx, input.SearchID)
}

func (s *service) Delete(ctx context.Context, searchID, customerID uuid.UUID) error {
	if err := s.supported(); err != nil {
		return err
	}
	if _, err := s.ownedSearch(ctx, searchID, customerID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, searchID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete saved search")
	}
	return nil
}

func (s *service) MarkViewed(ctx context.Context, searchID, customerID uuid.UUID) error {
	if err := s.supported(); err != nil {
		return err
	}
	if _, err := s.ownedSearch(ctx, searchID, customerID); err != nil {
		return err
	}
	if err := s.repo.Update(ctx, searchID, map[string]any{"last_viewed_at": time.Now().UTC()}); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark search viewed")
	}
	return nil
}

func (s *service) supported() error {
	if !s.caps.SavedSearches {
		return pkgerrors.New(pkgerrors.CodeUnsupported, "saved searches are not available in this deployment")
	}
	return nil
}

func (s *service) ownedSearch(ctx context.Context, searchID, customerID uuid.UUID) (*models.SavedSearch, error) {
	search, err := s.repo.FindByID(ctx, searchID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "saved search not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load saved search")
	}
	if search.CustomerID != customerID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "saved search not found")
	}
	return search, nil
}

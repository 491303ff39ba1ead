package providers

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dcortinas/fablink-backend/pkg/db"
	"github.com/dcortinas/fablink-backend/pkg/db/models"
	"github.com/dcortinas/fablink-backend/pkg/enums"
	pkgerrors "github.com/dcortinas/fablink-backend/pkg/errors"
	"github.com/dcortinas/fablink-backend/pkg/logger"
)

// Service defines supplier directory operations.
type Service interface {
	ListDirectory(ctx context.Context, role enums.ActorRole) ([]models.Provider, error)
	ActiveVerified(ctx context.Context) ([]models.Provider, error)
	Patch(ctx context.Context, input PatchInput) (*models.Provider, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Provider, error)
	HealthByProvider(ctx context.Context, providerIDs []uuid.UUID) (map[uuid.UUID]enums.MatchHealth, error)
}

type service struct {
	repo Repository
	caps db.Capabilities
	logg *logger.Logger
}

// NewService builds a provider service. Capabilities gate the optional
// match-health table.
func NewService(repo Repository, caps db.Capabilities, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("provider repository required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, caps: caps, logg: logg}, nil
}

// ListDirectory returns the supplier roster. Admins see every entry;
// everyone else sees only active providers opted into the directory.
func (s *service) ListDirectory(ctx context.Context, role enums.ActorRole) ([]models.Provider, error) {
	filters := ListFilters{}
	if role != enums.ActorRoleAdmin {
		filters.OnlyActive = true
		filters.OnlyShownInDir = true
	}
	rows, err := s.repo.List(ctx, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list providers")
	}
	return rows, nil
}

// ActiveVerified returns the directory slice coverage estimation scans:
// active, verified, and visible entries only.
func (s *service) ActiveVerified(ctx context.Context) ([]models.Provider, error) {
	rows, err := s.repo.List(ctx, ListFilters{OnlyActive: true, OnlyVerified: true, OnlyShownInDir: true})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list providers")
	}
	return rows, nil
}

func (s *service) Patch(ctx context.Context, input PatchInput) (*models.Provider, error) {
	if input.ActorRole != enums.ActorRoleAdmin {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only admins may manage the directory")
	}

	updates := map[string]any{}
	if input.VerificationStatus != nil {
		if !input.VerificationStatus.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown verification status")
		}
		updates["verification_status"] = *input.VerificationStatus
	}
	if input.IsActive != nil {
		updates["is_active"] = *input.IsActive
	}
	if input.ShowInDirectory != nil {
		updates["show_in_directory"] = *input.ShowInDirectory
	}
	if len(updates) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "no fields to update")
	}

	if _, err := s.repo.FindByID(ctx, input.ProviderID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "provider not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load provider")
	}
	if err := s.repo.Update(ctx, input.ProviderID, updates); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update provider")
	}
	return s.repo.FindByID(ctx, input.ProviderID)
}

func (s *service) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Provider, error) {
	return s.repo.FindByIDs(ctx, ids)
}

// HealthByProvider resolves the fit signal when the backing table
// exists. Deployments without it report no signal rather than erroring.
func (s *service) HealthByProvider(ctx context.Context, providerIDs []uuid.UUID) (map[uuid.UUID]enums.MatchHealth, error) {
	if !s.caps.MatchHealth {
		return map[uuid.UUID]enums.MatchHealth{}, nil
	}
	return s.repo.HealthByProvider(ctx, providerIDs)
}

package providers

import (
	"context"
	"io"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dcortinas/fablink-backend/pkg/db"
	"github.com/dcortinas/fablink-backend/pkg/db/models"
	"github.com/dcortinas/fablink-backend/pkg/enums"
	pkgerrors "github.com/dcortinas/fablink-backend/pkg/errors"
	"github.com/dcortinas/fablink-backend/pkg/logger"
)

type stubProviderRepo struct {
	Repository
	providers   map[uuid.UUID]models.Provider
	listFilters ListFilters
	updates     map[string]any
	health      map[uuid.UUID]enums.MatchHealth
	healthCalls int
}

func (s *stubProviderRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Provider, error) {
	if provider, ok := s.providers[id]; ok {
		return &provider, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubProviderRepo) List(ctx context.Context, filters ListFilters) ([]models.Provider, error) {
	s.listFilters = filters
	return nil, nil
}

func (s *stubProviderRepo) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	s.updates = updates
	return nil
}

func (s *stubProviderRepo) HealthByProvider(ctx context.Context, providerIDs []uuid.UUID) (map[uuid.UUID]enums.MatchHealth, error) {
	s.healthCalls++
	return s.health, nil
}

func newTestService(t *testing.T, repo *stubProviderRepo, caps db.Capabilities) Service {
	t.Helper()
	svc, err := NewService(repo, caps, logger.New(logger.Options{Output: io.Discard}))
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func TestListDirectoryScopesNonAdmins(t *testing.T) {
	repo := &stubProviderRepo{}
	svc := newTestService(t, repo, db.Capabilities{})

	if _, err := svc.ListDirectory(context.Background(), enums.ActorRoleCustomer); err != nil {
		t.Fatalf("list: %v", err)
	}
	if !repo.listFilters.OnlyActive || !repo.listFilters.OnlyShownInDir {
		t.Fatalf("filters = %+v, want hidden and inactive entries excluded", repo.listFilters)
	}

	if _, err := svc.ListDirectory(context.Background(), enums.ActorRoleAdmin); err != nil {
		t.Fatalf("admin list: %v", err)
	}
	if repo.listFilters.OnlyActive || repo.listFilters.OnlyShownInDir {
		t.Fatalf("filters = %+v, want admins to see everything", repo.listFilters)
	}
}

func TestPatchRequiresAdmin(t *testing.T) {
	svc := newTestService(t, &stubProviderRepo{}, db.Capabilities{})

	active := true
	_, err := svc.Patch(context.Background(), PatchInput{
		ProviderID: uuid.New(),
		ActorRole:  enums.ActorRoleSupplier,
		IsActive:   &active,
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("err = %v, want forbidden", err)
	}
}

func TestPatchAppliesFields(t *testing.T) {
	provider := models.Provider{ID: uuid.New(), Name: "Acme Machining"}
	repo := &stubProviderRepo{providers: map[uuid.UUID]models.Provider{provider.ID: provider}}
	svc := newTestService(t, repo, db.Capabilities{})

	verified := enums.VerificationStatusVerified
	hidden := false
	if _, err := svc.Patch(context.Background(), PatchInput{
		ProviderID:         provider.ID,
		ActorRole:          enums.ActorRoleAdmin,
		VerificationStatus: &verified,
		ShowInDirectory:    &hidden,
	}); err != nil {
		t.Fatalf("patch: %v", err)
	}
	if repo.updates["verification_status"] != verified {
		t.Fatalf("verification update = %v", repo.updates["verification_status"])
	}
	if repo.updates["show_in_directory"] != false {
		t.Fatalf("visibility update = %v", repo.updates["show_in_directory"])
	}
	if _, ok := repo.updates["is_active"]; ok {
		t.Fatal("untouched field must not be written")
	}
}

func TestPatchWithNoFieldsRejected(t *testing.T) {
	svc := newTestService(t, &stubProviderRepo{}, db.Capabilities{})

	_, err := svc.Patch(context.Background(), PatchInput{
		ProviderID: uuid.New(),
		ActorRole:  enums.ActorRoleAdmin,
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("err = %v, want validation", err)
	}
}

func TestHealthLookupGatedByCapability(t *testing.T) {
	providerID := uuid.New()
	repo := &stubProviderRepo{health: map[uuid.UUID]enums.MatchHealth{providerID: enums.MatchHealthGood}}

	gated := newTestService(t, repo, db.Capabilities{MatchHealth: false})
	health, err := gated.HealthByProvider(context.Background(), []uuid.UUID{providerID})
	if err != nil {
		t.Fatalf("gated lookup: %v", err)
	}
	if len(health) != 0 || repo.healthCalls != 0 {
		t.Fatal("missing table must short-circuit to an empty signal")
	}

	enabled := newTestService(t, repo, db.Capabilities{MatchHealth: true})
	health, err = enabled.HealthByProvider(context.Background(), []uuid.UUID{providerID})
	if err != nil {
		t.Fatalf("enabled lookup: %v", err)
	}
	if health[providerID] != enums.MatchHealthGood || repo.healthCalls != 1 {
		t.Fatal("capability present must hit the table")
	}
}

package savedsearches

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dcortinas/fablink-backend/pkg/db"
	"github.com/dcortinas/fablink-backend/pkg/db/models"
	pkgerrors "github.com/dcortinas/fablink-backend/pkg/errors"
)

type stubSearchRepo struct {
	Repository
	searches map[uuid.UUID]models.SavedSearch
	upserted *models.SavedSearch
	updates  map[string]any
	deleted  *uuid.UUID
}

func (s *stubSearchRepo) Upsert(ctx context.Context, search *models.SavedSearch) (*models.SavedSearch, error) {
	s.upserted = search
	return search, nil
}

func (s *stubSearchRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.SavedSearch, error) {
	if search, ok := s.searches[id]; ok {
		return &search, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubSearchRepo) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	s.updates = updates
	return nil
}

func (s *stubSearchRepo) Delete(ctx context.Context, id uuid.UUID) error {
	s.deleted = &id
	return nil
}

func supportedService(t *testing.T, repo Repository) Service {
	t.Helper()
	svc, err := NewService(repo, db.Capabilities{SavedSearches: true})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func TestMissingTableReportsUnsupported(t *testing.T) {
	svc, err := NewService(&stubSearchRepo{}, db.Capabilities{SavedSearches: false})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	_, saveErr := svc.Save(context.Background(), SaveInput{CustomerID: uuid.New(), QuoteID: uuid.New(), Label: "Bracket order"})
	if typed := pkgerrors.As(saveErr); typed == nil || typed.Code() != pkgerrors.CodeUnsupported {
		t.Fatalf("save err = %v, want unsupported", saveErr)
	}

	_, listErr := svc.List(context.Background(), uuid.New())
	if typed := pkgerrors.As(listErr); typed == nil || typed.Code() != pkgerrors.CodeUnsupported {
		t.Fatalf("list err = %v, want unsupported", listErr)
	}

	delErr := svc.Delete(context.Background(), uuid.New(), uuid.New())
	if typed := pkgerrors.As(delErr); typed == nil || typed.Code() != pkgerrors.CodeUnsupported {
		t.Fatalf("delete err = %v, want unsupported", delErr)
	}
}

func TestSaveTrimsLabel(t *testing.T) {
	repo := &stubSearchRepo{}
	svc := supportedService(t, repo)

	saved, err := svc.Save(context.Background(), SaveInput{
		CustomerID: uuid.New(),
		QuoteID:    uuid.New(),
		Label:      "  Bracket order  ",
	})
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if saved.Label != "Bracket order" {
		t.Fatalf("label = %q", saved.Label)
	}

	if _, err := svc.Save(context.Background(), SaveInput{CustomerID: uuid.New(), QuoteID: uuid.New(), Label: "   "}); err == nil {
		t.Fatal("blank label must be rejected")
	}
}

func TestRenameEnforcesOwnership(t *testing.T) {
	owner := uuid.New()
	search := models.SavedSearch{ID: uuid.New(), CustomerID: owner, QuoteID: uuid.New(), Label: "old"}
	repo := &stubSearchRepo{searches: map[uuid.UUID]models.SavedSearch{search.ID: search}}
	svc := supportedService(t, repo)

	_, err := svc.Rename(context.Background(), RenameInput{SearchID: search.ID, CustomerID: uuid.New(), Label: "new"})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("err = %v, want not found for foreign customer", err)
	}

	if _, err := svc.Rename(context.Background(), RenameInput{SearchID: search.ID, CustomerID: owner, Label: "new"}); err != nil {
		t.Fatalf("rename: %v", err)
	}
	if repo.updates["label"] != "new" {
		t.Fatalf("updates = %v", repo.updates)
	}
}

func TestDeleteEnforcesOwnership(t *testing.T) {
	owner := uuid.New()
	search := models.SavedSearch{ID: uuid.New(), CustomerID: owner, QuoteID: uuid.New(), Label: "old"}
	repo := &stubSearchRepo{searches: map[uuid.UUID]models.SavedSearch{search.ID: search}}
	svc := supportedService(t, repo)

	err := svc.Delete(context.Background(), search.ID, uuid.New())
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("err = %v, want not found", err)
	}
	if repo.deleted != nil {
		t.Fatal("foreign delete must not reach the repository")
	}

	if err := svc.Delete(context.Background(), search.ID, owner); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if repo.deleted == nil || *repo.deleted != search.ID {
		t.Fatal("owned delete must reach the repository")
	}
}

package kickoff

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
)

type stubTaskRepo struct {
	tasks   map[uuid.UUID]models.KickoffTask
	byQuote map[uuid.UUID][]models.KickoffTask
	updates map[string]any
	seeded  []models.KickoffTask
}

func (s *stubTaskRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubTaskRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.KickoffTask, error) {
	if task, ok := s.tasks[id]; ok {
		return &task, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubTaskRepo) ListByQuote(ctx context.Context, quoteID uuid.UUID) ([]models.KickoffTask, error) {
	return s.byQuote[quoteID], nil
}

func (s *stubTaskRepo) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	s.updates = updates
	if task, ok := s.tasks[id]; ok {
		if status, exists := updates["status"]; exists {
			task.Status = status.(enums.KickoffTaskStatus)
		}
		s.tasks[id] = task
		rows := s.byQuote[task.QuoteID]
		for i := range rows {
			if rows[i].ID == id {
				rows[i] = task
			}
		}
	}
	return nil
}

func (s *stubTaskRepo) Seed(ctx context.Context, tasks []models.KickoffTask) error {
	s.seeded = tasks
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

type stubTxRunner struct{}

func (stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(&gorm.DB{})
}

type stubEmitter struct {
	events []outbox.DomainEvent
}

func (s *stubEmitter) Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error {
	s.events = append(s.events, event)
	return nil
}

func awardedQuote(supplierID uuid.UUID) models.Quote {
	awardedAt := time.Now().UTC()
	return models.Quote{
		ID:                uuid.New(),
		CustomerID:        uuid.New(),
		Status:            enums.QuoteStatusWon,
		Process:           "cnc_milling",
		Quantity:          3,
		AwardedSupplierID: &supplierID,
		AwardedAt:         &awardedAt,
	}
}

type fixture struct {
	svc     Service
	repo    *stubTaskRepo
	emitter *stubEmitter
	quote   models.Quote
	task    models.KickoffTask
}

func newFixture(t *testing.T, taskStatus enums.KickoffTaskStatus) *fixture {
	t.Helper()
	supplier := uuid.New()
	quote := awardedQuote(supplier)
	task := models.KickoffTask{
		ID:         uuid.New(),
		QuoteID:    quote.ID,
		SupplierID: supplier,
		TaskKey:    "nda",
		Title:      "Sign mutual NDA",
		Status:     taskStatus,
	}
	sibling := models.KickoffTask{
		ID:         uuid.New(),
		QuoteID:    quote.ID,
		SupplierID: supplier,
		TaskKey:    "purchase_order",
		Title:      "Confirm purchase order",
		Status:     enums.KickoffTaskStatusComplete,
	}

	repo := &stubTaskRepo{
		tasks:   map[uuid.UUID]models.KickoffTask{task.ID: task, sibling.ID: sibling},
		byQuote: map[uuid.UUID][]models.KickoffTask{quote.ID: {task, sibling}},
	}
	quotes := &stubQuoteReader{quotes: map[uuid.UUID]models.Quote{quote.ID: quote}}
	emitter := &stubEmitter{}
	svc, err := NewService(repo, quotes, stubTxRunner{}, emitter)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return &fixture{svc: svc, repo: repo, emitter: emitter, quote: quote, task: task}
}

func TestUpdateTaskCompleteEmitsRollup(t *testing.T) {
	f := newFixture(t, enums.KickoffTaskStatusPending)

	updated, err := f.svc.UpdateTask(context.Background(), UpdateTaskInput{
		TaskID:      f.task.ID,
		ActorUserID: uuid.New(),
		ActorRole:   enums.ActorRoleAdmin,
		Status:      enums.KickoffTaskStatusComplete,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Status != enums.KickoffTaskStatusComplete {
		t.Fatalf("status = %s, want complete", updated.Status)
	}

	if len(f.emitter.events) != 1 {
		t.Fatalf("events = %d, want 1", len(f.emitter.events))
	}
	payload, ok := f.emitter.events[0].Data.(payloads.KickoffChangedEvent)
	if !ok {
		t.Fatalf("unexpected payload %T", f.emitter.events[0].Data)
	}
	if payload.TotalTasks != 2 || payload.CompletedTasks != 2 || !payload.AllComplete {
		t.Fatalf("rollup = %+v, want 2/2 complete", payload)
	}
	if payload.TaskID == nil || *payload.TaskID != f.task.ID {
		t.Fatal("payload must reference the updated task")
	}
	if payload.CustomerID != f.quote.CustomerID {
		t.Fatal("payload must carry the quote's customer")
	}
}

func TestUpdateTaskBlockedRequiresReason(t *testing.T) {
	f := newFixture(t, enums.KickoffTaskStatusPending)

	_, err := f.svc.UpdateTask(context.Background(), UpdateTaskInput{
		TaskID:      f.task.ID,
		ActorUserID: uuid.New(),
		ActorRole:   enums.ActorRoleAdmin,
		Status:      enums.KickoffTaskStatusBlocked,
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("err = %v, want validation", err)
	}
	if len(f.emitter.events) != 0 {
		t.Fatal("invalid input must not emit")
	}
}

func TestUpdateTaskCompleteRejectsBlockedReason(t *testing.T) {
	f := newFixture(t, enums.KickoffTaskStatusPending)

	reason := "waiting on drawings"
	_, err := f.svc.UpdateTask(context.Background(), UpdateTaskInput{
		TaskID:        f.task.ID,
		ActorUserID:   uuid.New(),
		ActorRole:     enums.ActorRoleAdmin,
		Status:        enums.KickoffTaskStatusComplete,
		BlockedReason: &reason,
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("err = %v, want validation", err)
	}
}

func TestUpdateTaskBlockedClearsCompletion(t *testing.T) {
	f := newFixture(t, enums.KickoffTaskStatusComplete)

	reason := "material on backorder"
	_, err := f.svc.UpdateTask(context.Background(), UpdateTaskInput{
		TaskID:        f.task.ID,
		ActorUserID:   uuid.New(),
		ActorRole:     enums.ActorRoleAdmin,
		Status:        enums.KickoffTaskStatusBlocked,
		BlockedReason: &reason,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if completed, ok := f.repo.updates["completed_at"]; !ok || completed != nil {
		t.Fatalf("completed_at update = %v, want explicit nil", completed)
	}
	if f.repo.updates["blocked_reason"] != reason {
		t.Fatalf("blocked_reason = %v, want %q", f.repo.updates["blocked_reason"], reason)
	}
}

func TestUpdateTaskSupplierExclusivity(t *testing.T) {
	f := newFixture(t, enums.KickoffTaskStatusPending)

	_, err := f.svc.UpdateTask(context.Background(), UpdateTaskInput{
		TaskID:      f.task.ID,
		ActorUserID: uuid.New(),
		ActorRole:   enums.ActorRoleSupplier,
		Status:      enums.KickoffTaskStatusComplete,
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("err = %v, want forbidden for foreign supplier", err)
	}

	if _, err := f.svc.UpdateTask(context.Background(), UpdateTaskInput{
		TaskID:      f.task.ID,
		ActorUserID: f.task.SupplierID,
		ActorRole:   enums.ActorRoleSupplier,
		Status:      enums.KickoffTaskStatusComplete,
	}); err != nil {
		t.Fatalf("awarded supplier update: %v", err)
	}
}

func TestUpdateTaskCustomerForbidden(t *testing.T) {
	f := newFixture(t, enums.KickoffTaskStatusPending)

	_, err := f.svc.UpdateTask(context.Background(), UpdateTaskInput{
		TaskID:      f.task.ID,
		ActorUserID: f.quote.CustomerID,
		ActorRole:   enums.ActorRoleCustomer,
		Status:      enums.KickoffTaskStatusComplete,
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("err = %v, want forbidden", err)
	}
}

func TestSeedChecklistRequiresAwardAndAdmin(t *testing.T) {
	f := newFixture(t, enums.KickoffTaskStatusPending)

	_, err := f.svc.SeedChecklist(context.Background(), SeedInput{
		QuoteID:     f.quote.ID,
		ActorUserID: uuid.New(),
		ActorRole:   enums.ActorRoleSupplier,
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("err = %v, want forbidden", err)
	}

	if _, err := f.svc.SeedChecklist(context.Background(), SeedInput{
		QuoteID:     f.quote.ID,
		ActorUserID: uuid.New(),
		ActorRole:   enums.ActorRoleAdmin,
	}); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if len(f.repo.seeded) != len(defaultChecklist) {
		t.Fatalf("seeded %d tasks, want %d", len(f.repo.seeded), len(defaultChecklist))
	}
	for _, seeded := range f.repo.seeded {
		if seeded.SupplierID != *f.quote.AwardedSupplierID {
			t.Fatal("seeded tasks must target the awarded supplier")
		}
	}
}

func TestGetChecklistAppliesOverride(t *testing.T) {
	supplier := uuid.New()
	quote := awardedQuote(supplier)
	now := time.Now().UTC()
	quote.KickoffCompletedAt = &now

	task := models.KickoffTask{
		ID:         uuid.New(),
		QuoteID:    quote.ID,
		SupplierID: supplier,
		TaskKey:    "nda",
		Title:      "Sign mutual NDA",
		Status:     enums.KickoffTaskStatusPending,
	}
	repo := &stubTaskRepo{
		tasks:   map[uuid.UUID]models.KickoffTask{task.ID: task},
		byQuote: map[uuid.UUID][]models.KickoffTask{quote.ID: {task}},
	}
	quotes := &stubQuoteReader{quotes: map[uuid.UUID]models.Quote{quote.ID: quote}}
	svc, err := NewService(repo, quotes, stubTxRunner{}, &stubEmitter{})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	view, err := svc.GetChecklist(context.Background(), quote.ID, uuid.Nil)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !view.Progress.IsComplete {
		t.Fatal("administrative override must force completion")
	}
	if view.Progress.CompletedTasks != 0 || view.Progress.TotalTasks != 1 {
		t.Fatalf("counts = %+v, want untouched by override", view.Progress)
	}
}

func TestGetChecklistBeforeAwardIsEmpty(t *testing.T) {
	quote := models.Quote{ID: uuid.New(), CustomerID: uuid.New(), Status: enums.QuoteStatusQuoted}
	quotes := &stubQuoteReader{quotes: map[uuid.UUID]models.Quote{quote.ID: quote}}
	svc, err := NewService(&stubTaskRepo{}, quotes, stubTxRunner{}, &stubEmitter{})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	view, err := svc.GetChecklist(context.Background(), quote.ID, quote.CustomerID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(view.Tasks) != 0 || view.Progress.IsComplete {
		t.Fatalf("view = %+v, want empty checklist", view)
	}
}

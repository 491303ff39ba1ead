package kickoff

import (
	"context"
	"errors"
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
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// defaultChecklist is seeded for every awarded pair. Keys are stable,
// titles are display text.
var defaultChecklist = []struct {
	Key   string
	Title string
}{
	{Key: "nda", Title: "Sign mutual NDA"},
	{Key: "purchase_order", Title: "Confirm purchase order"},
	{Key: "drawings", Title: "Approve final drawings"},
	{Key: "schedule", Title: "Agree production schedule"},
	{Key: "first_article", Title: "Schedule first article inspection"},
}

// Service defines checklist operations for awarded quotes.
type Service interface {
	GetChecklist(ctx context.Context, quoteID, customerID uuid.UUID) (*ChecklistView, error)
	SeedChecklist(ctx context.Context, input SeedInput) ([]models.KickoffTask, error)
	UpdateTask(ctx context.Context, input UpdateTaskInput) (*models.KickoffTask, error)
}

type service struct {
	repo   Repository
	quotes QuoteReader
	tx     txRunner
	outbox outbox.Emitter
}

// NewService builds a kickoff service with the required dependencies.
func NewService(repo Repository, quotes QuoteReader, tx txRunner, emitter outbox.Emitter) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("kickoff repository required")
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

// GetChecklist returns the tasks and rollup for a quote. Pre-award
// quotes read as an empty checklist rather than an error.
func (s *service) GetChecklist(ctx context.Context, quoteID, customerID uuid.UUID) (*ChecklistView, error) {
	quote, err := s.loadQuote(ctx, quoteID, customerID)
	if err != nil {
		return nil, err
	}
	if !quote.IsAwarded() {
		return &ChecklistView{Tasks: []models.KickoffTask{}}, nil
	}

	tasks, err := s.repo.ListByQuote(ctx, quoteID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list kickoff tasks")
	}
	progress := applyOverride(Rollup(tasks, *quote.AwardedSupplierID), *quote)
	return &ChecklistView{Tasks: tasks, Progress: progress}, nil
}

func (s *service) SeedChecklist(ctx context.Context, input SeedInput) ([]models.KickoffTask, error) {
	if input.ActorRole != enums.ActorRoleAdmin {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only admins may seed a checklist")
	}
	quote, err := s.loadQuote(ctx, input.QuoteID, uuid.Nil)
	if err != nil {
		return nil, err
	}
	if !quote.IsAwarded() {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "quote has no awarded supplier")
	}

	tasks := make([]models.KickoffTask, 0, len(defaultChecklist))
	for _, item := range defaultChecklist {
		tasks = append(tasks, models.KickoffTask{
			ID:         uuid.New(),
			QuoteID:    quote.ID,
			SupplierID: *quote.AwardedSupplierID,
			TaskKey:    item.Key,
			Title:      item.Title,
			Status:     enums.KickoffTaskStatusPending,
		})
	}
	if err := s.repo.Seed(ctx, tasks); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "seed checklist")
	}

	seeded, err := s.repo.ListByQuote(ctx, quote.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload checklist")
	}
	return seeded, nil
}

func (s *service) UpdateTask(ctx context.Context, input UpdateTaskInput) (*models.KickoffTask, error) {
	updates, err := taskUpdates(input)
	if err != nil {
		return nil, err
	}

	var updated *models.KickoffTask
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		task, err := repo.FindByID(ctx, input.TaskID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "kickoff task not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load kickoff task")
		}
		if err := authorizeTaskActor(input, task); err != nil {
			return err
		}

		quote, err := s.quotes.FindByID(ctx, task.QuoteID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load quote")
		}
		if !quote.IsAwarded() || *quote.AwardedSupplierID != task.SupplierID {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "task does not belong to the awarded supplier")
		}

		if err := repo.Update(ctx, task.ID, updates); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update kickoff task")
		}

		tasks, err := repo.ListByQuote(ctx, task.QuoteID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list kickoff tasks")
		}
		progress := applyOverride(Rollup(tasks, task.SupplierID), *quote)

		for i := range tasks {
			if tasks[i].ID == task.ID {
				updated = &tasks[i]
			}
		}

		taskID := task.ID
		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventKickoffChanged,
			AggregateType: enums.AggregateQuote,
			AggregateID:   task.QuoteID,
			Actor:         &outbox.ActorRef{UserID: input.ActorUserID, Role: string(input.ActorRole)},
			Data: payloads.KickoffChangedEvent{
				QuoteID:        task.QuoteID,
				CustomerID:     quote.CustomerID,
				TaskID:         &taskID,
				SupplierID:     task.SupplierID,
				TaskStatus:     input.Status,
				CompletedTasks: progress.CompletedTasks,
				TotalTasks:     progress.TotalTasks,
				AllComplete:    progress.IsComplete,
			},
		})
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// taskUpdates validates the status invariants up front: complete sets
// completed_at and clears blocked_reason, blocked requires a reason and
// clears completed_at, pending clears both.
func taskUpdates(input UpdateTaskInput) (map[string]any, error) {
	switch input.Status {
	case enums.KickoffTaskStatusComplete:
		if input.BlockedReason != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "a completed task cannot carry a blocked reason")
		}
		return map[string]any{
			"status":         enums.KickoffTaskStatusComplete,
			"completed_at":   time.Now().UTC(),
			"blocked_reason": nil,
		}, nil
	case enums.KickoffTaskStatusBlocked:
		if input.BlockedReason == nil || strings.TrimSpace(*input.BlockedReason) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "a blocked task requires a reason")
		}
		return map[string]any{
			"status":         enums.KickoffTaskStatusBlocked,
			"blocked_reason": strings.TrimSpace(*input.BlockedReason),
			"completed_at":   nil,
		}, nil
	case enums.KickoffTaskStatusPending:
		return map[string]any{
			"status":         enums.KickoffTaskStatusPending,
			"blocked_reason": nil,
			"completed_at":   nil,
		}, nil
	default:
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown task status")
	}
}

func authorizeTaskActor(input UpdateTaskInput, task *models.KickoffTask) error {
	switch input.ActorRole {
	case enums.ActorRoleAdmin:
		return nil
	case enums.ActorRoleSupplier:
		if input.ActorUserID == task.SupplierID {
			return nil
		}
		return pkgerrors.New(pkgerrors.CodeForbidden, "task belongs to another supplier")
	default:
		return pkgerrors.New(pkgerrors.CodeForbidden, "only admins and the awarded supplier may update tasks")
	}
}

func (s *service) loadQuote(ctx context.Context, quoteID, customerID uuid.UUID) (*models.Quote, error) {
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
	return quote, nil
}

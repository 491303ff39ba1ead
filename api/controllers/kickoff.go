package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/dcortinas/fablink-backend/api/responses"
	"github.com/dcortinas/fablink-backend/api/validators"
	"github.com/dcortinas/fablink-backend/internal/kickoff"
	"github.com/dcortinas/fablink-backend/pkg/enums"
	pkgerrors "github.com/dcortinas/fablink-backend/pkg/errors"
	"github.com/dcortinas/fablink-backend/pkg/logger"
)

type kickoffTaskRequest struct {
	Status        string  `json:"status" validate:"required,oneof=pending complete blocked"`
	BlockedReason *string `json:"blocked_reason,omitempty"`
}

// KickoffChecklist returns the customer's view of a quote's checklist.
func KickoffChecklist(svc kickoff.Service, logg *logger.Logger) http.HandlerFunc {
	return checklistHandler(svc, logg, true)
}

// SupplierKickoffChecklist is the awarded supplier's checklist view.
// Scope is enforced per task on writes; the read shows the full list.
func SupplierKickoffChecklist(svc kickoff.Service, logg *logger.Logger) http.HandlerFunc {
	return checklistHandler(svc, logg, false)
}

func checklistHandler(svc kickoff.Service, logg *logger.Logger, customerScoped bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		quoteID, err := validators.ParsePathUUID(chi.URLParam(r, "quoteId"), "quoteId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		scope := uuid.Nil
		if customerScoped {
			scope, err = actorID(r)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
		}

		view, err := svc.GetChecklist(r.Context(), quoteID, scope)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, view)
	}
}

// KickoffTaskUpdate mutates one checklist item, addressed by its task
// key within the quote.
func KickoffTaskUpdate(svc kickoff.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := actorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		quoteID, err := validators.ParsePathUUID(chi.URLParam(r, "quoteId"), "quoteId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		taskKey := strings.TrimSpace(chi.URLParam(r, "taskKey"))
		if taskKey == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "task key is required"))
			return
		}

		var payload kickoffTaskRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		status, err := enums.ParseKickoffTaskStatus(payload.Status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "unknown task status"))
			return
		}

		view, err := svc.GetChecklist(r.Context(), quoteID, uuid.Nil)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		taskID := uuid.Nil
		for _, task := range view.Tasks {
			if task.TaskKey == taskKey {
				taskID = task.ID
				break
			}
		}
		if taskID == uuid.Nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "kickoff task not found"))
			return
		}

		updated, err := svc.UpdateTask(r.Context(), kickoff.UpdateTaskInput{
			TaskID:        taskID,
			ActorUserID:   userID,
			ActorRole:     actorRole(r),
			Status:        status,
			BlockedReason: payload.BlockedReason,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, updated)
	}
}

// AdminKickoffSeed creates the default checklist for an awarded quote.
func AdminKickoffSeed(svc kickoff.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := actorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		quoteID, err := validators.ParsePathUUID(chi.URLParam(r, "quoteId"), "quoteId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		tasks, err := svc.SeedChecklist(r.Context(), kickoff.SeedInput{
			QuoteID:     quoteID,
			ActorUserID: userID,
			ActorRole:   actorRole(r),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, tasks)
	}
}

package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/dcortinas/fablink-backend/api/responses"
	"github.com/dcortinas/fablink-backend/api/validators"
	"github.com/dcortinas/fablink-backend/internal/savedsearches"
	"github.com/dcortinas/fablink-backend/pkg/logger"
)

type savedSearchCreateRequest struct {
	QuoteID       uuid.UUID `json:"quote_id" validate:"required"`
	Label         string    `json:"label" validate:"required,min=1"`
	AlertsEnabled bool      `json:"alerts_enabled,omitempty"`
}

type savedSearchRenameRequest struct {
	Label string `json:"label" validate:"required,min=1"`
}

// SavedSearchList returns the caller's pinned quotes.
func SavedSearchList(svc savedsearches.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		customerID, err := actorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		searches, err := svc.List(r.Context(), customerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, searches)
	}
}

// SavedSearchCreate pins a quote, updating the pin when it exists.
func SavedSearchCreate(svc savedsearches.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		customerID, err := actorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload savedSearchCreateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		saved, err := svc.Save(r.Context(), savedsearches.SaveInput{
			CustomerID:    customerID,
			QuoteID:       payload.QuoteID,
			Label:         payload.Label,
			AlertsEnabled: payload.AlertsEnabled,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, saved)
	}
}

// SavedSearchRename relabels one pinned quote.
func SavedSearchRename(svc savedsearches.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		customerID, err := actorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		searchID, err := validators.ParsePathUUID(chi.URLParam(r, "searchId"), "searchId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload savedSearchRenameRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		renamed, err := svc.Rename(r.Context(), savedsearches.RenameInput{
			SearchID:   searchID,
			CustomerID: customerID,
			Label:      payload.Label,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, renamed)
	}
}

// SavedSearchDelete removes one pinned quote.
func SavedSearchDelete(svc savedsearches.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		customerID, err := actorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		searchID, err := validators.ParsePathUUID(chi.URLParam(r, "searchId"), "searchId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), searchID, customerID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "ok"})
	}
}

// SavedSearchMarkViewed stamps the last-viewed marker on a pin.
func SavedSearchMarkViewed(svc savedsearches.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		customerID, err := actorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		searchID, err := validators.ParsePathUUID(chi.URLParam(r, "searchId"), "searchId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.MarkViewed(r.Context(), searchID, customerID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "ok"})
	}
}

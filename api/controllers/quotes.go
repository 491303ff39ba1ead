package controllers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/dcortinas/fablink-backend/api/middleware"
	"github.com/dcortinas/fablink-backend/api/responses"
	"github.com/dcortinas/fablink-backend/api/validators"
	"github.com/dcortinas/fablink-backend/internal/quotes"
	"github.com/dcortinas/fablink-backend/pkg/enums"
	pkgerrors "github.com/dcortinas/fablink-backend/pkg/errors"
	"github.com/dcortinas/fablink-backend/pkg/logger"
	"github.com/dcortinas/fablink-backend/pkg/pagination"
)

type quoteCreateRequest struct {
	UploadID *uuid.UUID `json:"upload_id,omitempty"`
	Process  string     `json:"process" validate:"required,min=1"`
	Material *string    `json:"material,omitempty"`
	Quantity int        `json:"quantity" validate:"required,min=1"`
}

// QuoteCreate files a new RFQ for the authenticated customer.
func QuoteCreate(svc quotes.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		customerID, err := actorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload quoteCreateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		quote, err := svc.Create(r.Context(), quotes.CreateInput{
			CustomerID:    customerID,
			CustomerEmail: middleware.EmailFromContext(r.Context()),
			UploadID:      payload.UploadID,
			Process:       payload.Process,
			Material:      payload.Material,
			Quantity:      payload.Quantity,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, quote)
	}
}

// QuoteList returns the caller's quotes, newest first.
func QuoteList(svc quotes.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		customerID, err := actorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		page, err := pagination.FromQuery(r.URL.Query())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		filters, err := quoteListFilters(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.ListForCustomer(r.Context(), customerID, page, filters)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, list)
	}
}

// QuoteDetail returns one quote, scoped to its owner.
func QuoteDetail(svc quotes.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		customerID, err := actorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		quoteID, err := validators.ParsePathUUID(chi.URLParam(r, "quoteId"), "quoteId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		quote, err := svc.Get(r.Context(), quoteID, customerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, quote)
	}
}

// QuoteArchive cancels a quote on the customer's behalf.
func QuoteArchive(svc quotes.Service, logg *logger.Logger) http.HandlerFunc {
	return quoteTransition(svc.Archive, logg)
}

// QuoteReopen moves a cancelled quote back into review.
func QuoteReopen(svc quotes.Service, logg *logger.Logger) http.HandlerFunc {
	return quoteTransition(svc.Reopen, logg)
}

func quoteTransition(apply func(ctx context.Context, input quotes.TransitionInput) error, logg *logger.Logger) http.HandlerFunc {
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

		if err := apply(r.Context(), quotes.TransitionInput{
			QuoteID:     quoteID,
			ActorUserID: userID,
			ActorRole:   actorRole(r),
		}); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "ok"})
	}
}

func quoteListFilters(r *http.Request) (quotes.ListFilters, error) {
	filters := quotes.ListFilters{}
	raw := validators.ParseQueryString(r, "status", "")
	if raw == "" {
		return filters, nil
	}
	status, err := enums.ParseQuoteStatus(raw)
	if err != nil {
		return filters, pkgerrors.New(pkgerrors.CodeValidation, "unknown status filter")
	}
	filters.Status = &status
	return filters, nil
}

package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/dcortinas/fablink-backend/api/responses"
	"github.com/dcortinas/fablink-backend/api/validators"
	"github.com/dcortinas/fablink-backend/internal/quotes"
	"github.com/dcortinas/fablink-backend/pkg/logger"
	"github.com/dcortinas/fablink-backend/pkg/pagination"
)

type quoteAwardRequest struct {
	OfferID uuid.UUID `json:"offer_id" validate:"required"`
}

// AdminQuotePipeline lists every quote, optionally narrowed by status.
func AdminQuotePipeline(svc quotes.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
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

		list, err := svc.ListPipeline(r.Context(), page, filters)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, list)
	}
}

// AdminQuoteAward selects the winning offer and settles the rest.
func AdminQuoteAward(svc quotes.Service, logg *logger.Logger) http.HandlerFunc {
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

		var payload quoteAwardRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Award(r.Context(), quotes.AwardInput{
			QuoteID:     quoteID,
			OfferID:     payload.OfferID,
			ActorUserID: userID,
			ActorRole:   actorRole(r),
		}); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "awarded"})
	}
}

// AdminKickoffComplete stamps the administrative completion override.
func AdminKickoffComplete(svc quotes.Service, logg *logger.Logger) http.HandlerFunc {
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

		if err := svc.MarkKickoffComplete(r.Context(), quotes.KickoffOverrideInput{
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

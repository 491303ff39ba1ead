package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dcortinas/fablink-backend/api/responses"
	"github.com/dcortinas/fablink-backend/api/validators"
	"github.com/dcortinas/fablink-backend/internal/messages"
	"github.com/dcortinas/fablink-backend/pkg/logger"
)

type messagePostRequest struct {
	Body string `json:"body" validate:"required,min=1"`
}

// MessageList returns the thread on a quote, oldest first.
func MessageList(svc messages.Service, logg *logger.Logger) http.HandlerFunc {
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

		thread, err := svc.List(r.Context(), quoteID, customerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, thread)
	}
}

// MessagePost appends one entry to a quote's thread.
func MessagePost(svc messages.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authorID, err := actorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		quoteID, err := validators.ParsePathUUID(chi.URLParam(r, "quoteId"), "quoteId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload messagePostRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		message, err := svc.Post(r.Context(), messages.PostInput{
			QuoteID:    quoteID,
			AuthorID:   authorID,
			AuthorRole: actorRole(r),
			Body:       payload.Body,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, message)
	}
}

package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dcortinas/fablink-backend/api/responses"
	"github.com/dcortinas/fablink-backend/api/validators"
	"github.com/dcortinas/fablink-backend/internal/changerequests"
	"github.com/dcortinas/fablink-backend/pkg/logger"
)

type changeRequestSubmitRequest struct {
	Summary        string  `json:"summary" validate:"required,min=1"`
	Details        *string `json:"details,omitempty"`
	NotifyCustomer bool    `json:"notify_customer,omitempty"`
}

// ChangeRequestSubmit files a revision request against the caller's quote.
func ChangeRequestSubmit(svc changerequests.Service, logg *logger.Logger) http.HandlerFunc {
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

		var payload changeRequestSubmitRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		request, err := svc.Submit(r.Context(), changerequests.SubmitInput{
			QuoteID:        quoteID,
			CustomerID:     customerID,
			Summary:        payload.Summary,
			Details:        payload.Details,
			NotifyCustomer: payload.NotifyCustomer,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, request)
	}
}

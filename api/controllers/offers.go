package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dcortinas/fablink-backend/api/responses"
	"github.com/dcortinas/fablink-backend/api/validators"
	"github.com/dcortinas/fablink-backend/internal/offers"
	"github.com/dcortinas/fablink-backend/internal/quotes"
	"github.com/dcortinas/fablink-backend/pkg/logger"
	"github.com/dcortinas/fablink-backend/pkg/pagination"
)

// offerWriteRequest covers submit and update. TotalPrice stays raw so
// the service can apply its lenient numeric parse.
type offerWriteRequest struct {
	TotalPrice      json.RawMessage `json:"total_price,omitempty"`
	Currency        string          `json:"currency,omitempty" validate:"omitempty,len=3"`
	LeadTimeDaysMin *int            `json:"lead_time_days_min,omitempty" validate:"omitempty,min=0"`
	LeadTimeDaysMax *int            `json:"lead_time_days_max,omitempty" validate:"omitempty,min=0"`
	Notes           *string         `json:"notes,omitempty"`
}

// totalPrice converts the raw JSON value into the any the service
// expects: number, string, or nil when absent.
func (req offerWriteRequest) totalPrice() any {
	if len(req.TotalPrice) == 0 {
		return nil
	}
	var value any
	if err := json.Unmarshal(req.TotalPrice, &value); err != nil {
		return string(req.TotalPrice)
	}
	return value
}

// OffersCompare returns the badged comparison view for one quote.
func OffersCompare(svc offers.Service, logg *logger.Logger) http.HandlerFunc {
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

		compared, err := svc.ListForQuote(r.Context(), quoteID, customerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, compared)
	}
}

// SupplierQuoteList returns the quotes currently open for bidding.
func SupplierQuoteList(svc quotes.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, err := pagination.FromQuery(r.URL.Query())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.ListOpenForBidding(r.Context(), page)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, list)
	}
}

// SupplierOfferSubmit files the caller's bid on a quote.
func SupplierOfferSubmit(svc offers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		providerID, err := actorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		quoteID, err := validators.ParsePathUUID(chi.URLParam(r, "quoteId"), "quoteId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload offerWriteRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		offer, err := svc.Submit(r.Context(), offers.SubmitInput{
			QuoteID:         quoteID,
			ProviderID:      providerID,
			TotalPrice:      payload.totalPrice(),
			Currency:        payload.Currency,
			LeadTimeDaysMin: payload.LeadTimeDaysMin,
			LeadTimeDaysMax: payload.LeadTimeDaysMax,
			Notes:           payload.Notes,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, offer)
	}
}

// SupplierOfferUpdate revises the caller's own pending offer.
func SupplierOfferUpdate(svc offers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		providerID, err := actorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		offerID, err := validators.ParsePathUUID(chi.URLParam(r, "offerId"), "offerId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload offerWriteRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		offer, err := svc.UpdateOwn(r.Context(), offers.UpdateInput{
			OfferID:         offerID,
			ProviderID:      providerID,
			TotalPrice:      payload.totalPrice(),
			LeadTimeDaysMin: payload.LeadTimeDaysMin,
			LeadTimeDaysMax: payload.LeadTimeDaysMax,
			Notes:           payload.Notes,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, offer)
	}
}

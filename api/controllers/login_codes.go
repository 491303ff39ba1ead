package controllers

import (
	"net/http"

	"github.com/dcortinas/fablink-backend/api/responses"
	"github.com/dcortinas/fablink-backend/api/validators"
	"github.com/dcortinas/fablink-backend/pkg/logger"
)

type loginCodeRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// LoginCodeRequest accepts a one-time-code request. Code minting and
// delivery live in the identity service; this endpoint exists so the
// public surface can be throttled in front of it. The response is
// intentionally identical for known and unknown addresses.
func LoginCodeRequest(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload loginCodeRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if logg != nil {
			logg.Info(r.Context(), "login code requested")
		}

		responses.WriteSuccessStatus(w, http.StatusAccepted, map[string]string{"status": "accepted"})
	}
}

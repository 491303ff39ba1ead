package controllers

import (
	"net/http"

	"github.com/dcortinas/fablink-backend/api/responses"
	"github.com/dcortinas/fablink-backend/api/validators"
	"github.com/dcortinas/fablink-backend/internal/coverage"
	"github.com/dcortinas/fablink-backend/pkg/logger"
)

type coverageEstimateRequest struct {
	Process  string `json:"process" validate:"required,min=1"`
	Material string `json:"material,omitempty"`
}

// CoverageEstimate returns the public confidence estimate. Matching
// internals stay server-side.
func CoverageEstimate(svc coverage.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		estimate, err := estimateFromRequest(svc, r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, estimate)
	}
}

// AdminCoverageEstimate includes the matching counters the public
// endpoint withholds.
func AdminCoverageEstimate(svc coverage.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		estimate, err := estimateFromRequest(svc, r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{
			"estimate": estimate,
			"debug":    estimate.Debug,
		})
	}
}

func estimateFromRequest(svc coverage.Service, r *http.Request) (*coverage.Estimate, error) {
	var payload coverageEstimateRequest
	if err := validators.DecodeJSONBody(r, &payload); err != nil {
		return nil, err
	}
	return svc.Estimate(r.Context(), payload.Process, payload.Material)
}

package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dcortinas/fablink-backend/api/responses"
	"github.com/dcortinas/fablink-backend/api/validators"
	"github.com/dcortinas/fablink-backend/internal/providers"
	"github.com/dcortinas/fablink-backend/pkg/enums"
	pkgerrors "github.com/dcortinas/fablink-backend/pkg/errors"
	"github.com/dcortinas/fablink-backend/pkg/logger"
)

type providerPatchRequest struct {
	VerificationStatus *string `json:"verification_status,omitempty" validate:"omitempty,oneof=verified unverified"`
	IsActive           *bool   `json:"is_active,omitempty"`
	ShowInDirectory    *bool   `json:"show_in_directory,omitempty"`
}

// ProviderDirectory lists suppliers. Admins see everything; other
// roles see only active entries opted into the directory.
func ProviderDirectory(svc providers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, err := svc.ListDirectory(r.Context(), actorRole(r))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, rows)
	}
}

// AdminProviderPatch adjusts verification, activation, and directory
// visibility on one supplier.
func AdminProviderPatch(svc providers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		providerID, err := validators.ParsePathUUID(chi.URLParam(r, "providerId"), "providerId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload providerPatchRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := providers.PatchInput{
			ProviderID:      providerID,
			ActorRole:       actorRole(r),
			IsActive:        payload.IsActive,
			ShowInDirectory: payload.ShowInDirectory,
		}
		if payload.VerificationStatus != nil {
			status, err := enums.ParseVerificationStatus(*payload.VerificationStatus)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "unknown verification status"))
				return
			}
			input.VerificationStatus = &status
		}

		updated, err := svc.Patch(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, updated)
	}
}

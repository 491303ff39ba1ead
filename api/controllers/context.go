package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/dcortinas/fablink-backend/api/middleware"
	"github.com/dcortinas/fablink-backend/pkg/enums"
	pkgerrors "github.com/dcortinas/fablink-backend/pkg/errors"
)

// actorID extracts the authenticated caller's id from the request context.
func actorID(r *http.Request) (uuid.UUID, error) {
	raw := middleware.UserIDFromContext(r.Context())
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid user id")
	}
	return id, nil
}

func actorRole(r *http.Request) enums.ActorRole {
	return enums.ActorRole(middleware.RoleFromContext(r.Context()))
}

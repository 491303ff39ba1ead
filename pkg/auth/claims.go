package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/dcortinas/fablink-backend/pkg/enums"
)

// AccessTokenPayload captures the data available when minting a JWT.
// Tokens are normally issued by the identity service; minting here
// exists for tooling and tests.
type AccessTokenPayload struct {
	UserID uuid.UUID
	Role   enums.ActorRole
	Email  string
}

// AccessTokenClaims represents the typed JWT presented by clients.
type AccessTokenClaims struct {
	UserID uuid.UUID       `json:"user_id"`
	Role   enums.ActorRole `json:"role"`
	Email  string          `json:"email,omitempty"`
	jwt.RegisteredClaims
}

package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/hagglehub/hagglehub-backend/pkg/enums"
)

// AccessTokenClaims is the JWT payload minted after a completed OAuth login.
type AccessTokenClaims struct {
	UserID uuid.UUID              `json:"uid"`
	Email  string                 `json:"email"`
	Tier   enums.SubscriptionTier `json:"tier"`
	jwt.RegisteredClaims
}

// AccessTokenPayload carries the inputs for minting an access token.
type AccessTokenPayload struct {
	UserID uuid.UUID
	Email  string
	Tier   enums.SubscriptionTier
	JTI    string
}

package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AccessTokenClaims is the typed view of the JWT minted by the hosted auth
// platform. Only the subject is trusted; profile fields are informational.
type AccessTokenClaims struct {
	Email string `json:"email,omitempty"`
	Role  string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// UserID parses the token subject as a UUID. Returns uuid.Nil when the
// subject is absent or malformed.
func (c *AccessTokenClaims) UserID() uuid.UUID {
	id, err := uuid.Parse(c.Subject)
	if err != nil {
		return uuid.Nil
	}
	return id
}

package security

import (
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const RefreshTokenHeader = "Refresh-Token"

// Credentials is the access/refresh token pair attached to every
// authenticated backend call. Either both tokens are present or the
// pair is unusable; a partial pair is treated as unauthenticated.
type Credentials struct {
	AccessToken  string
	RefreshToken string
}

// Complete reports whether both tokens are present.
func (c Credentials) Complete() bool {
	return c.AccessToken != "" && c.RefreshToken != ""
}

// AuthHeaders builds the transport headers for a token pair. It is a
// total function: any string inputs, empty included, produce exactly
// one Authorization and one Refresh-Token header with no validation
// and no side effects.
func AuthHeaders(accessToken, refreshToken string) http.Header {
	h := make(http.Header, 2)
	h.Set("Authorization", "Bearer "+accessToken)
	h.Set(RefreshTokenHeader, refreshToken)
	return h
}

// TokenSubject extracts the subject claim from a JWT without verifying
// its signature. Used to recover the user id from a restored token;
// the backend re-checks identity on every call.
func TokenSubject(raw string) (string, bool) {
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, &claims); err != nil {
		return "", false
	}
	if claims.Subject == "" {
		return "", false
	}
	return claims.Subject, true
}

// TokenExpiry extracts the expiry claim from a JWT without verifying
// its signature. The client uses this only to decide when to refresh;
// trust decisions stay with the backend. Returns false for anything
// that does not parse as a JWT or carries no expiry.
func TokenExpiry(raw string) (time.Time, bool) {
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, &claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}

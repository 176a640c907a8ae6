package devserver

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/pawmate/pawmate/internal/security"
)

// tokenResponse is the raw shape golang.org/x/oauth2 expects from a
// token endpoint. The auth service is third-party styled, so it does
// not use the {success, data} envelope the resource services do.
type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

type tokenError struct {
	Error string `json:"error"`
}

// AuthService implements the password and refresh grants for dev use.
type AuthService struct {
	store      *Store
	jwt        *security.JWTManager
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewAuthService(store *Store, jwt *security.JWTManager, accessTTL, refreshTTL time.Duration) *AuthService {
	return &AuthService{store: store, jwt: jwt, accessTTL: accessTTL, refreshTTL: refreshTTL}
}

func (a *AuthService) HandleToken(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeTokenError(w, http.StatusBadRequest, "invalid_request")
		return
	}
	switch r.PostForm.Get("grant_type") {
	case "password":
		acc, err := a.store.Authenticate(r.PostForm.Get("username"), r.PostForm.Get("password"))
		if err != nil {
			writeTokenError(w, http.StatusUnauthorized, "invalid_grant")
			return
		}
		a.issue(w, acc.ID, userTypeOf(acc))
	case "refresh_token":
		claims, err := a.jwt.ParseRefreshToken(r.PostForm.Get("refresh_token"))
		if err != nil {
			writeTokenError(w, http.StatusUnauthorized, "invalid_grant")
			return
		}
		acc, err := a.store.AccountByID(claims.Subject)
		if err != nil {
			writeTokenError(w, http.StatusUnauthorized, "invalid_grant")
			return
		}
		a.issue(w, acc.ID, userTypeOf(acc))
	default:
		writeTokenError(w, http.StatusBadRequest, "unsupported_grant_type")
	}
}

type registerRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"displayName"`
}

func (a *AuthService) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" || req.Password == "" {
		writeTokenError(w, http.StatusBadRequest, "invalid_request")
		return
	}
	acc, err := a.store.CreateAccount(req.Email, req.Password, req.DisplayName)
	if err != nil {
		writeTokenError(w, http.StatusConflict, "account_exists")
		return
	}
	a.issue(w, acc.ID, userTypeOf(acc))
}

// HandleLogout accepts the sign-out call. Dev tokens are stateless, so
// there is nothing to revoke; the client discards its pair.
func (a *AuthService) HandleLogout(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

func (a *AuthService) issue(w http.ResponseWriter, userID, userType string) {
	access, err := a.jwt.SignAccessToken(userID, userType, a.accessTTL)
	if err != nil {
		writeTokenError(w, http.StatusInternalServerError, "server_error")
		return
	}
	refresh, err := a.jwt.SignRefreshToken(userID, a.refreshTTL)
	if err != nil {
		writeTokenError(w, http.StatusInternalServerError, "server_error")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(tokenResponse{
		AccessToken:  access,
		TokenType:    "Bearer",
		RefreshToken: refresh,
		ExpiresIn:    int64(a.accessTTL.Seconds()),
	})
}

func writeTokenError(w http.ResponseWriter, status int, code string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(tokenError{Error: code})
}

func userTypeOf(acc *Account) string {
	if acc.UserType == nil {
		return ""
	}
	return *acc.UserType
}

type contextKey string

const claimsContextKey contextKey = "claims"

// RequireAuth validates the bearer token and pins it to the {userID}
// path segment: a caller may only address their own resources.
func RequireAuth(jwtMgr *security.JWTManager, userIDParam func(*http.Request) string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			auth := r.Header.Get("Authorization")
			if !strings.HasPrefix(strings.ToLower(auth), "bearer ") {
				http.Error(w, "missing access token", http.StatusUnauthorized)
				return
			}
			claims, err := jwtMgr.ParseAccessToken(strings.TrimSpace(auth[7:]))
			if err != nil {
				http.Error(w, "invalid access token", http.StatusUnauthorized)
				return
			}
			if owner := userIDParam(r); owner != "" && owner != claims.Subject {
				http.Error(w, "forbidden", http.StatusForbidden)
				return
			}
			ctx := context.WithValue(r.Context(), claimsContextKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ClaimsFromContext returns the verified claims placed by RequireAuth.
func ClaimsFromContext(ctx context.Context) (*security.Claims, bool) {
	c, ok := ctx.Value(claimsContextKey).(*security.Claims)
	return c, ok
}

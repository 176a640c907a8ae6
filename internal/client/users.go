package client

import (
	"context"
	"io"
	"net/http"

	"github.com/pawmate/pawmate/internal/domain"
	"github.com/pawmate/pawmate/internal/i18n"
	"github.com/pawmate/pawmate/internal/security"
)

// UsersClient talks to the users service: profile, avatar and discovery
// preferences, all addressed as {baseUrl}/{userId}/{action}.
type UsersClient struct {
	tr      *transport
	catalog *i18n.Catalog
}

func NewUsersClient(baseURL string, cfg Config) *UsersClient {
	return &UsersClient{tr: newTransport(baseURL, cfg), catalog: cfg.Catalog}
}

// mustAuthenticated enforces the universal guard precondition: callers
// reach a resource client only from Authenticated session state. An
// incomplete pair here is a bug in the calling layer, not a recoverable
// condition.
func mustAuthenticated(creds security.Credentials) {
	if !creds.Complete() {
		panic("client: operation invoked without a complete credential pair")
	}
}

func (c *UsersClient) GetProfile(ctx context.Context, userID string, creds security.Credentials) (*domain.User, error) {
	mustAuthenticated(creds)
	var user domain.User
	err := c.tr.call(ctx, http.MethodGet, "/"+userID+"/profile", creds, nil, &user)
	if err := opError(ctx, c.catalog, "users", "get_profile", i18n.KeyProfileLoadFailed, err); err != nil {
		return nil, err
	}
	return &user, nil
}

type UpdateProfileRequest struct {
	DisplayName string  `json:"displayName"`
	UserType    *string `json:"userType,omitempty"`
}

func (c *UsersClient) UpdateProfile(ctx context.Context, userID string, creds security.Credentials, req UpdateProfileRequest) (*domain.User, error) {
	mustAuthenticated(creds)
	var user domain.User
	err := c.tr.call(ctx, http.MethodPut, "/"+userID+"/profile", creds, req, &user)
	if err := opError(ctx, c.catalog, "users", "update_profile", i18n.KeyProfileSaveFailed, err); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *UsersClient) UploadAvatar(ctx context.Context, userID string, creds security.Credentials, filename string, file io.Reader) (*domain.User, error) {
	mustAuthenticated(creds)
	var user domain.User
	err := c.tr.upload(ctx, "/"+userID+"/avatar", creds, "avatar", filename, file, &user)
	if err := opError(ctx, c.catalog, "users", "upload_avatar", i18n.KeyAvatarUploadFailed, err); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *UsersClient) GetDiscoveryPreferences(ctx context.Context, userID string, creds security.Credentials) (*domain.DiscoveryPreferences, error) {
	mustAuthenticated(creds)
	var prefs domain.DiscoveryPreferences
	err := c.tr.call(ctx, http.MethodGet, "/"+userID+"/preferences", creds, nil, &prefs)
	if err := opError(ctx, c.catalog, "users", "get_preferences", i18n.KeyPreferencesLoadFailed, err); err != nil {
		return nil, err
	}
	return &prefs, nil
}

func (c *UsersClient) UpdateDiscoveryPreferences(ctx context.Context, userID string, creds security.Credentials, prefs domain.DiscoveryPreferences) (*domain.DiscoveryPreferences, error) {
	mustAuthenticated(creds)
	var updated domain.DiscoveryPreferences
	err := c.tr.call(ctx, http.MethodPut, "/"+userID+"/preferences", creds, prefs, &updated)
	if err := opError(ctx, c.catalog, "users", "update_preferences", i18n.KeyPreferencesSaveFailed, err); err != nil {
		return nil, err
	}
	return &updated, nil
}

package client

import (
	"context"
	"net/http"

	"github.com/pawmate/pawmate/internal/domain"
	"github.com/pawmate/pawmate/internal/i18n"
	"github.com/pawmate/pawmate/internal/security"
)

// RehomersClient talks to the rehomers service.
type RehomersClient struct {
	tr      *transport
	catalog *i18n.Catalog
}

func NewRehomersClient(baseURL string, cfg Config) *RehomersClient {
	return &RehomersClient{tr: newTransport(baseURL, cfg), catalog: cfg.Catalog}
}

func (c *RehomersClient) GetProfile(ctx context.Context, userID string, creds security.Credentials, rehomerID string) (*domain.RehomerProfile, error) {
	mustAuthenticated(creds)
	var profile domain.RehomerProfile
	err := c.tr.call(ctx, http.MethodGet, "/"+userID+"/rehomers/"+rehomerID, creds, nil, &profile)
	if err := opError(ctx, c.catalog, "rehomers", "get_profile", i18n.KeyRehomerLoadFailed, err); err != nil {
		return nil, err
	}
	return &profile, nil
}

type UpdateRehomerRequest struct {
	DisplayName        string  `json:"displayName"`
	Bio                string  `json:"bio"`
	AddressDisplayName string  `json:"addressDisplayName"`
	Latitude           float64 `json:"latitude"`
	Longitude          float64 `json:"longitude"`
}

func (c *RehomersClient) UpdateProfile(ctx context.Context, userID string, creds security.Credentials, req UpdateRehomerRequest) (*domain.RehomerProfile, error) {
	mustAuthenticated(creds)
	var profile domain.RehomerProfile
	err := c.tr.call(ctx, http.MethodPut, "/"+userID+"/rehomers/"+userID, creds, req, &profile)
	if err := opError(ctx, c.catalog, "rehomers", "update_profile", i18n.KeyRehomerSaveFailed, err); err != nil {
		return nil, err
	}
	return &profile, nil
}

package client

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/pawmate/pawmate/internal/domain"
	"github.com/pawmate/pawmate/internal/i18n"
	"github.com/pawmate/pawmate/internal/security"
)

// AnimalsClient talks to the animals service: the discovery feed and
// listing lifecycle. Listing deletion is a hard delete; there is no
// undo path, unlike conversation deletion.
type AnimalsClient struct {
	tr      *transport
	catalog *i18n.Catalog
}

func NewAnimalsClient(baseURL string, cfg Config) *AnimalsClient {
	return &AnimalsClient{tr: newTransport(baseURL, cfg), catalog: cfg.Catalog}
}

func (c *AnimalsClient) ListAnimals(ctx context.Context, userID string, creds security.Credentials, page, pageSize int) (*domain.AnimalPage, error) {
	mustAuthenticated(creds)
	var result domain.AnimalPage
	path := fmt.Sprintf("/%s/animals?page=%d&pageSize=%d", userID, page, pageSize)
	err := c.tr.call(ctx, http.MethodGet, path, creds, nil, &result)
	if err := opError(ctx, c.catalog, "animals", "list", i18n.KeyAnimalsLoadFailed, err); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *AnimalsClient) GetAnimal(ctx context.Context, userID string, creds security.Credentials, animalID string) (*domain.Animal, error) {
	mustAuthenticated(creds)
	var animal domain.Animal
	err := c.tr.call(ctx, http.MethodGet, "/"+userID+"/animals/"+animalID, creds, nil, &animal)
	if err := opError(ctx, c.catalog, "animals", "get", i18n.KeyAnimalLoadFailed, err); err != nil {
		return nil, err
	}
	return &animal, nil
}

type CreateListingRequest struct {
	Name               string `json:"name"`
	Gender             string `json:"gender"`
	AgeInWeeks         int    `json:"ageInWeeks"`
	Neutered           bool   `json:"neutered"`
	Description        string `json:"description"`
	AddressDisplayName string `json:"addressDisplayName"`
}

func (c *AnimalsClient) CreateListing(ctx context.Context, userID string, creds security.Credentials, req CreateListingRequest) (*domain.Animal, error) {
	mustAuthenticated(creds)
	var animal domain.Animal
	err := c.tr.call(ctx, http.MethodPost, "/"+userID+"/listings", creds, req, &animal)
	if err := opError(ctx, c.catalog, "animals", "create_listing", i18n.KeyListingCreateFailed, err); err != nil {
		return nil, err
	}
	return &animal, nil
}

func (c *AnimalsClient) DeleteListing(ctx context.Context, userID string, creds security.Credentials, animalID string) error {
	mustAuthenticated(creds)
	err := c.tr.call(ctx, http.MethodDelete, "/"+userID+"/listings/"+animalID, creds, nil, nil)
	return opError(ctx, c.catalog, "animals", "delete_listing", i18n.KeyListingDeleteFailed, err)
}

func (c *AnimalsClient) UploadListingPhoto(ctx context.Context, userID string, creds security.Credentials, animalID, filename string, file io.Reader) (*domain.Animal, error) {
	mustAuthenticated(creds)
	var animal domain.Animal
	err := c.tr.upload(ctx, "/"+userID+"/listings/"+animalID+"/photos", creds, "photo", filename, file, &animal)
	if err := opError(ctx, c.catalog, "animals", "upload_photo", i18n.KeyListingPhotoUploadFailed, err); err != nil {
		return nil, err
	}
	return &animal, nil
}

package domain

import (
	"fmt"
	"time"
)

// User is a Pawmate account. AvatarURL and UserType are nullable: a
// freshly registered user has neither a picture nor a chosen role.
type User struct {
	UserID      string    `json:"userId"`
	Email       string    `json:"email"`
	DisplayName string    `json:"displayName"`
	AvatarURL   *string   `json:"avatarUrl"`
	UserType    *string   `json:"userType"`
	CreatedAt   time.Time `json:"createdAt"`
}

func (u *User) Validate() error {
	if err := requireID("userId", u.UserID); err != nil {
		return err
	}
	if u.Email == "" {
		return fmt.Errorf("email is required")
	}
	if u.AvatarURL != nil && !httpsURL(*u.AvatarURL) {
		return fmt.Errorf("avatarUrl must be an absolute https URL")
	}
	if u.UserType != nil && !validUserType(*u.UserType) {
		return fmt.Errorf("userType %q is not a known user type", *u.UserType)
	}
	return nil
}

// RehomerProfile is the public face of a rehoming account.
type RehomerProfile struct {
	RehomerID          string  `json:"rehomerId"`
	DisplayName        string  `json:"displayName"`
	Bio                string  `json:"bio"`
	AddressDisplayName string  `json:"addressDisplayName"`
	Latitude           float64 `json:"latitude"`
	Longitude          float64 `json:"longitude"`
	ListingCount       int     `json:"listingCount"`
}

func (r *RehomerProfile) Validate() error {
	if err := requireID("rehomerId", r.RehomerID); err != nil {
		return err
	}
	if r.Latitude < -90 || r.Latitude > 90 {
		return fmt.Errorf("latitude %v out of range", r.Latitude)
	}
	if r.Longitude < -180 || r.Longitude > 180 {
		return fmt.Errorf("longitude %v out of range", r.Longitude)
	}
	if r.ListingCount < 0 {
		return fmt.Errorf("listingCount must not be negative")
	}
	return nil
}

package domain

import (
	"fmt"
	"net/url"
	"strings"
)

// Bounds shared by validators and form validation. The backend enforces
// the same ranges; the client never lets data outside them into
// application state.
const (
	MinAgeMonths     = 0
	MaxAgeMonths     = 480
	MinDistanceKm    = 1
	MaxDistanceKm    = 250
	MaxDescriptionLn = 2000
)

const (
	GenderUnspecified = ""
	GenderMale        = "Male"
	GenderFemale      = "Female"
)

const (
	UserTypeAdopter = "Adopter"
	UserTypeRehomer = "Rehomer"
)

// Validator is implemented by every record decoded from a backend
// response. Validate never panics; it reports the first violated
// invariant.
type Validator interface {
	Validate() error
}

func validGender(g string) bool {
	switch g {
	case GenderUnspecified, GenderMale, GenderFemale:
		return true
	}
	return false
}

func validUserType(t string) bool {
	return t == UserTypeAdopter || t == UserTypeRehomer
}

// absoluteURL accepts only absolute http(s) URLs with a host.
func absoluteURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// httpsURL additionally pins the scheme; avatar URLs must be https.
func httpsURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return u.Scheme == "https" && u.Host != ""
}

func requireID(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%s is required", field)
	}
	return nil
}

// Package forms validates user input before submission. Validators bake
// localized messages in at construction, so they are factories of the
// active catalog: rebuild on language change, never mutate in place.
package forms

import (
	"strings"

	"github.com/pawmate/pawmate/internal/domain"
	"github.com/pawmate/pawmate/internal/i18n"
)

// FieldError attaches one message to one form field.
type FieldError struct {
	Field   string
	Message string
}

// Errors is the inline error list rendered next to a form.
type Errors []FieldError

func (e Errors) Empty() bool { return len(e) == 0 }

// ForField returns the messages attached to one field.
func (e Errors) ForField(field string) []string {
	var out []string
	for _, fe := range e {
		if fe.Field == field {
			out = append(out, fe.Message)
		}
	}
	return out
}

// PreferencesValidator checks the discovery-preferences dialog.
type PreferencesValidator struct {
	ageRange        string
	ageBounds       string
	distanceBounds  string
	genderInvalid   string
	locationMissing string
}

func NewPreferencesValidator(catalog *i18n.Catalog) *PreferencesValidator {
	return &PreferencesValidator{
		ageRange:        catalog.T(i18n.KeyFormAgeRange),
		ageBounds:       catalog.T(i18n.KeyFormAgeBounds),
		distanceBounds:  catalog.T(i18n.KeyFormDistanceBounds),
		genderInvalid:   catalog.T(i18n.KeyFormGenderInvalid),
		locationMissing: catalog.T(i18n.KeyFormLocationMissing),
	}
}

func (v *PreferencesValidator) Validate(p domain.DiscoveryPreferences) Errors {
	var errs Errors
	if p.MinAge < domain.MinAgeMonths || p.MinAge > domain.MaxAgeMonths {
		errs = append(errs, FieldError{Field: "minAge", Message: v.ageBounds})
	}
	if p.MaxAge < domain.MinAgeMonths || p.MaxAge > domain.MaxAgeMonths {
		errs = append(errs, FieldError{Field: "maxAge", Message: v.ageBounds})
	}
	// a reversed range is attached to both ends so either input shows it
	if p.MinAge > p.MaxAge {
		errs = append(errs,
			FieldError{Field: "minAge", Message: v.ageRange},
			FieldError{Field: "maxAge", Message: v.ageRange},
		)
	}
	switch p.Gender {
	case domain.GenderUnspecified, domain.GenderMale, domain.GenderFemale:
	default:
		errs = append(errs, FieldError{Field: "gender", Message: v.genderInvalid})
	}
	if p.MaxDistanceKm < domain.MinDistanceKm || p.MaxDistanceKm > domain.MaxDistanceKm {
		errs = append(errs, FieldError{Field: "maxDistanceKm", Message: v.distanceBounds})
	}
	if strings.TrimSpace(p.LocationDisplayName) == "" || (p.SearchLocLatitude == 0 && p.SearchLocLongitude == 0) {
		errs = append(errs, FieldError{Field: "location", Message: v.locationMissing})
	}
	return errs
}

// ListingValidator checks the listing-creation form.
type ListingValidator struct {
	nameMissing   string
	descTooLong   string
	genderInvalid string
}

func NewListingValidator(catalog *i18n.Catalog) *ListingValidator {
	return &ListingValidator{
		nameMissing:   catalog.T(i18n.KeyFormNameMissing),
		descTooLong:   catalog.T(i18n.KeyFormDescTooLong),
		genderInvalid: catalog.T(i18n.KeyFormGenderInvalid),
	}
}

type ListingForm struct {
	Name               string
	Gender             string
	AgeInWeeks         int
	Neutered           bool
	Description        string
	AddressDisplayName string
}

func (v *ListingValidator) Validate(f ListingForm) Errors {
	var errs Errors
	if strings.TrimSpace(f.Name) == "" {
		errs = append(errs, FieldError{Field: "name", Message: v.nameMissing})
	}
	switch f.Gender {
	case domain.GenderMale, domain.GenderFemale:
	default:
		errs = append(errs, FieldError{Field: "gender", Message: v.genderInvalid})
	}
	if len(f.Description) > domain.MaxDescriptionLn {
		errs = append(errs, FieldError{Field: "description", Message: v.descTooLong})
	}
	return errs
}

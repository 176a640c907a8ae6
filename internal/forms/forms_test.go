package forms

import (
	"strings"
	"testing"

	"github.com/pawmate/pawmate/internal/domain"
	"github.com/pawmate/pawmate/internal/i18n"
)

func validPrefs() domain.DiscoveryPreferences {
	return domain.DiscoveryPreferences{
		MinAge:              0,
		MaxAge:              48,
		Gender:              domain.GenderUnspecified,
		MaxDistanceKm:       25,
		LocationDisplayName: "Portland, OR",
		SearchLocLatitude:   45.5,
		SearchLocLongitude:  -122.6,
	}
}

func TestPreferencesValidatorAcceptsValidForm(t *testing.T) {
	v := NewPreferencesValidator(i18n.New(i18n.LangEnglish))
	if errs := v.Validate(validPrefs()); !errs.Empty() {
		t.Fatalf("valid form rejected: %+v", errs)
	}
}

func TestReversedAgeRangeFlagsBothFields(t *testing.T) {
	catalog := i18n.New(i18n.LangEnglish)
	v := NewPreferencesValidator(catalog)
	p := validPrefs()
	p.MinAge, p.MaxAge = 10, 5

	errs := v.Validate(p)
	want := catalog.T(i18n.KeyFormAgeRange)
	for _, field := range []string{"minAge", "maxAge"} {
		msgs := errs.ForField(field)
		if len(msgs) != 1 || msgs[0] != want {
			t.Fatalf("%s messages=%v want [%q]", field, msgs, want)
		}
	}
}

func TestPreferencesValidatorFieldErrors(t *testing.T) {
	v := NewPreferencesValidator(i18n.New(i18n.LangEnglish))
	cases := map[string]struct {
		mutate func(*domain.DiscoveryPreferences)
		field  string
	}{
		"age below zero":   {func(p *domain.DiscoveryPreferences) { p.MinAge = -1 }, "minAge"},
		"age above limit":  {func(p *domain.DiscoveryPreferences) { p.MaxAge = domain.MaxAgeMonths + 1 }, "maxAge"},
		"unknown gender":   {func(p *domain.DiscoveryPreferences) { p.Gender = "Any" }, "gender"},
		"distance zero":    {func(p *domain.DiscoveryPreferences) { p.MaxDistanceKm = 0 }, "maxDistanceKm"},
		"blank location":   {func(p *domain.DiscoveryPreferences) { p.LocationDisplayName = "  " }, "location"},
		"zero coordinates": {func(p *domain.DiscoveryPreferences) { p.SearchLocLatitude, p.SearchLocLongitude = 0, 0 }, "location"},
	}
	for name, c := range cases {
		p := validPrefs()
		c.mutate(&p)
		errs := v.Validate(p)
		if len(errs.ForField(c.field)) == 0 {
			t.Fatalf("%s: no error on field %s: %+v", name, c.field, errs)
		}
	}
}

func TestValidatorBakesLanguageAtConstruction(t *testing.T) {
	en := NewPreferencesValidator(i18n.New(i18n.LangEnglish))
	es := NewPreferencesValidator(i18n.New(i18n.LangSpanish))
	p := validPrefs()
	p.MaxDistanceKm = 0

	enMsg := en.Validate(p).ForField("maxDistanceKm")[0]
	esMsg := es.Validate(p).ForField("maxDistanceKm")[0]
	if enMsg == esMsg {
		t.Fatal("validators built from different catalogs must speak different languages")
	}
}

func TestListingValidator(t *testing.T) {
	v := NewListingValidator(i18n.New(i18n.LangEnglish))

	good := ListingForm{Name: "Biscuit", Gender: domain.GenderMale}
	if errs := v.Validate(good); !errs.Empty() {
		t.Fatalf("valid listing rejected: %+v", errs)
	}

	bad := ListingForm{
		Name:        "  ",
		Gender:      "",
		Description: strings.Repeat("x", domain.MaxDescriptionLn+1),
	}
	errs := v.Validate(bad)
	for _, field := range []string{"name", "gender", "description"} {
		if len(errs.ForField(field)) == 0 {
			t.Fatalf("expected error for %s: %+v", field, errs)
		}
	}
}

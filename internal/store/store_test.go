package store

import (
	"path/filepath"
	"testing"

	"github.com/pawmate/pawmate/internal/domain"
)

func openTestState(t *testing.T) *StateDB {
	t.Helper()
	db, err := OpenState(filepath.Join(t.TempDir(), "state.db"))
	if err != nil {
		t.Fatalf("open state db: %v", err)
	}
	return db
}

func TestThemeDefaultsToSystem(t *testing.T) {
	db := openTestState(t)
	theme, err := db.Theme()
	if err != nil {
		t.Fatalf("theme: %v", err)
	}
	if theme != "system" {
		t.Fatalf("theme=%q want system", theme)
	}
}

func TestThemeRoundTrip(t *testing.T) {
	db := openTestState(t)
	if err := db.SaveTheme("dark"); err != nil {
		t.Fatalf("save theme: %v", err)
	}
	theme, err := db.Theme()
	if err != nil {
		t.Fatalf("theme: %v", err)
	}
	if theme != "dark" {
		t.Fatalf("theme=%q want dark", theme)
	}
	// Last write wins.
	if err := db.SaveTheme("light"); err != nil {
		t.Fatalf("save theme: %v", err)
	}
	if theme, _ := db.Theme(); theme != "light" {
		t.Fatalf("theme=%q want light", theme)
	}
}

func TestPreferencesDraftRoundTrip(t *testing.T) {
	db := openTestState(t)

	if _, ok, err := db.PreferencesDraft(); err != nil || ok {
		t.Fatalf("fresh db should have no draft: ok=%v err=%v", ok, err)
	}

	draft := domain.DiscoveryPreferences{
		MinAge:              6,
		MaxAge:              24,
		Gender:              domain.GenderFemale,
		MaxDistanceKm:       30,
		LocationDisplayName: "Portland, OR",
		SearchLocLatitude:   45.5,
		SearchLocLongitude:  -122.6,
	}
	if err := db.SavePreferencesDraft(draft); err != nil {
		t.Fatalf("save draft: %v", err)
	}
	got, ok, err := db.PreferencesDraft()
	if err != nil || !ok {
		t.Fatalf("load draft: ok=%v err=%v", ok, err)
	}
	if *got != draft {
		t.Fatalf("draft round trip mismatch: %+v", got)
	}

	if err := db.ClearPreferencesDraft(); err != nil {
		t.Fatalf("clear draft: %v", err)
	}
	if _, ok, _ := db.PreferencesDraft(); ok {
		t.Fatal("draft should be gone after clear")
	}
}

func TestDialogStore(t *testing.T) {
	s := NewDialogStore()
	if s.PreferencesDialogOpen() || s.ListingDialogOpen() {
		t.Fatal("dialogs must start closed")
	}
	s.OpenPreferencesDialog()
	s.OpenListingDialog()
	if !s.PreferencesDialogOpen() || !s.ListingDialogOpen() {
		t.Fatal("dialogs should be open")
	}
	s.ClosePreferencesDialog()
	if s.PreferencesDialogOpen() {
		t.Fatal("preferences dialog should close independently")
	}
	if !s.ListingDialogOpen() {
		t.Fatal("listing dialog must be unaffected")
	}
}

func TestPendingUserTypeStore(t *testing.T) {
	s := NewPendingUserTypeStore()
	if s.PendingUserType() != "" {
		t.Fatal("pending type must start empty")
	}
	s.SetPendingUserType(domain.UserTypeAdopter)
	s.SetPendingUserType(domain.UserTypeRehomer) // last write wins
	if got := s.PendingUserType(); got != domain.UserTypeRehomer {
		t.Fatalf("pending type=%q want Rehomer", got)
	}
	s.Clear()
	if s.PendingUserType() != "" {
		t.Fatal("pending type must clear")
	}
}

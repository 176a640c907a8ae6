package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/pawmate/pawmate/internal/domain"
	"github.com/pawmate/pawmate/internal/forms"
	"github.com/pawmate/pawmate/internal/geo"
	"github.com/pawmate/pawmate/internal/query"
)

const suggestDelay = 500 * time.Millisecond

const (
	prefFieldMinAge = iota
	prefFieldMaxAge
	prefFieldGender
	prefFieldDistance
	prefFieldNeutered
	prefFieldLocation
	prefFieldCount
)

type (
	prefsLoadedMsg struct{ prefs domain.DiscoveryPreferences }
	prefsSavedMsg  struct{}
	suggestReqMsg  string
	suggestionsMsg struct{ addresses []geo.Address }
	positionMsg    struct{ pos geo.Position }
	suggestErrMsg  string
	geoErrMsg      string
)

// preferencesModel edits discovery preferences in a modal dialog.
// Keystrokes in the location field are debounced before hitting the
// address suggester; a draft is persisted on cancel so a reopened
// dialog picks up where the user left off.
type preferencesModel struct {
	deps      Deps
	validator *forms.PreferencesValidator

	prefs  domain.DiscoveryPreferences
	errs   forms.Errors
	geoErr string

	focus       int
	locationBuf textField
	debounce    *query.Debouncer[string]
	suggestions []geo.Address
	suggestIdx  int

	saving  bool
	loading bool
}

func newPreferencesModel(deps Deps) *preferencesModel {
	return &preferencesModel{
		deps:      deps,
		validator: forms.NewPreferencesValidator(deps.Catalog),
	}
}

func (m *preferencesModel) open() tea.Cmd {
	m.focus = 0
	m.errs = nil
	m.geoErr = ""
	m.suggestions = nil
	m.loading = true
	m.debounce = query.NewDebouncer[string](suggestDelay)
	return tea.Batch(m.loadPrefs(), m.waitDebounce())
}

func (m *preferencesModel) loadPrefs() tea.Cmd {
	return func() tea.Msg {
		// A saved draft wins over the server copy.
		if m.deps.State != nil {
			if draft, ok, err := m.deps.State.PreferencesDraft(); err == nil && ok {
				return prefsLoadedMsg{prefs: *draft}
			}
		}
		snap := m.deps.Sessions.Snapshot()
		prefs, err := m.deps.Users.GetDiscoveryPreferences(context.Background(), snap.UserID, snap.Credentials)
		if err != nil {
			return errMsg{err}
		}
		return prefsLoadedMsg{prefs: *prefs}
	}
}

func (m *preferencesModel) waitDebounce() tea.Cmd {
	deb := m.debounce
	return func() tea.Msg {
		text, ok := <-deb.C()
		if !ok {
			return nil
		}
		return suggestReqMsg(text)
	}
}

func (m *preferencesModel) suggest(text string) tea.Cmd {
	return func() tea.Msg {
		addresses, err := m.deps.Suggest.Suggest(context.Background(), text, m.deps.Catalog.Lang())
		if err != nil {
			return suggestErrMsg(err.Error())
		}
		return suggestionsMsg{addresses: addresses}
	}
}

func (m *preferencesModel) locate() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), geo.PositionTimeout)
		defer cancel()
		pos, err := m.deps.Geo.CurrentPosition(ctx)
		if err != nil {
			return geoErrMsg(geo.Localize(err, m.deps.Catalog))
		}
		return positionMsg{pos: pos}
	}
}

func (m *preferencesModel) save() tea.Cmd {
	m.prefs.LocationDisplayName = m.locationBuf.String()
	if errs := m.validator.Validate(m.prefs); !errs.Empty() {
		m.errs = errs
		return nil
	}
	m.errs = nil
	m.saving = true
	prefs := m.prefs
	return func() tea.Msg {
		snap := m.deps.Sessions.Snapshot()
		if _, err := m.deps.Users.UpdateDiscoveryPreferences(context.Background(), snap.UserID, snap.Credentials, prefs); err != nil {
			return errMsg{err}
		}
		if m.deps.State != nil {
			_ = m.deps.State.ClearPreferencesDraft()
		}
		return prefsSavedMsg{}
	}
}

func (m *preferencesModel) close() {
	m.deps.Dialogs.ClosePreferencesDialog()
	if m.debounce != nil {
		m.debounce.Stop()
	}
}

func (m *preferencesModel) update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case prefsLoadedMsg:
		m.loading = false
		m.prefs = msg.prefs
		m.locationBuf = textField{label: "Location", value: []rune(msg.prefs.LocationDisplayName)}
		return nil

	case prefsSavedMsg:
		m.saving = false
		m.close()
		return nil

	case suggestReqMsg:
		cmd := m.waitDebounce()
		if len(msg) < 3 {
			m.suggestions = nil
			return cmd
		}
		return tea.Batch(cmd, m.suggest(string(msg)))

	case suggestionsMsg:
		m.suggestions = msg.addresses
		m.suggestIdx = 0
		return nil

	case positionMsg:
		m.geoErr = ""
		m.prefs.SearchLocLatitude = msg.pos.Latitude
		m.prefs.SearchLocLongitude = msg.pos.Longitude
		if m.locationBuf.String() == "" {
			m.locationBuf = textField{label: "Location", value: []rune("Current location")}
		}
		return nil

	case suggestErrMsg:
		m.geoErr = string(msg)
		return nil

	case geoErrMsg:
		// A failed position request never leaves half-resolved
		// coordinates behind.
		m.geoErr = string(msg)
		m.prefs.SearchLocLatitude = 0
		m.prefs.SearchLocLongitude = 0
		return nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return nil
}

func (m *preferencesModel) handleKey(msg tea.KeyMsg) tea.Cmd {
	if m.saving || m.loading {
		return nil
	}
	switch msg.String() {
	case "esc":
		m.prefs.LocationDisplayName = m.locationBuf.String()
		if m.deps.State != nil {
			_ = m.deps.State.SavePreferencesDraft(m.prefs)
		}
		m.close()
		return nil
	case "enter":
		if m.focus == prefFieldLocation && len(m.suggestions) > 0 {
			picked := m.suggestions[m.suggestIdx]
			m.locationBuf = textField{label: "Location", value: []rune(picked.DisplayName)}
			m.prefs.SearchLocLatitude = picked.Latitude
			m.prefs.SearchLocLongitude = picked.Longitude
			m.suggestions = nil
			return nil
		}
		return m.save()
	case "tab", "down":
		if m.focus == prefFieldLocation && len(m.suggestions) > 0 && msg.String() == "down" {
			if m.suggestIdx < len(m.suggestions)-1 {
				m.suggestIdx++
			}
			return nil
		}
		m.focus = (m.focus + 1) % prefFieldCount
	case "shift+tab", "up":
		if m.focus == prefFieldLocation && len(m.suggestions) > 0 && msg.String() == "up" {
			if m.suggestIdx > 0 {
				m.suggestIdx--
			}
			return nil
		}
		m.focus = (m.focus + prefFieldCount - 1) % prefFieldCount
	case "g":
		if m.focus != prefFieldLocation {
			return m.locate()
		}
		m.typeLocation(msg)
	case "left", "right", " ":
		m.adjust(msg.String())
	default:
		if m.focus == prefFieldLocation {
			m.typeLocation(msg)
		}
	}
	return nil
}

func (m *preferencesModel) typeLocation(msg tea.KeyMsg) {
	m.locationBuf.handle(msg)
	m.debounce.Set(m.locationBuf.String())
}

func (m *preferencesModel) adjust(key string) {
	delta := 1
	if key == "left" {
		delta = -1
	}
	switch m.focus {
	case prefFieldMinAge:
		m.prefs.MinAge = clamp(m.prefs.MinAge+delta*6, domain.MinAgeMonths, domain.MaxAgeMonths)
	case prefFieldMaxAge:
		m.prefs.MaxAge = clamp(m.prefs.MaxAge+delta*6, domain.MinAgeMonths, domain.MaxAgeMonths)
	case prefFieldGender:
		m.prefs.Gender = cycleGender(m.prefs.Gender, delta)
	case prefFieldDistance:
		m.prefs.MaxDistanceKm = clamp(m.prefs.MaxDistanceKm+delta*5, domain.MinDistanceKm, domain.MaxDistanceKm)
	case prefFieldNeutered:
		if key == " " {
			m.prefs.Neutered = !m.prefs.Neutered
		}
	case prefFieldLocation:
		if key == " " {
			m.typeLocation(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
		}
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

var genderCycle = []string{domain.GenderUnspecified, domain.GenderMale, domain.GenderFemale}

func cycleGender(current string, delta int) string {
	idx := 0
	for i, g := range genderCycle {
		if g == current {
			idx = i
			break
		}
	}
	return genderCycle[(idx+delta+len(genderCycle))%len(genderCycle)]
}

func (m *preferencesModel) view() string {
	if m.loading {
		return dialogStyle.Render("loading preferences...")
	}
	var b strings.Builder
	b.WriteString(labelStyle.Render("Discovery preferences") + "\n\n")

	gender := m.prefs.Gender
	if gender == domain.GenderUnspecified {
		gender = "Any"
	}
	rows := []struct {
		label string
		value string
	}{
		{"Min age", fmt.Sprintf("%d months", m.prefs.MinAge)},
		{"Max age", fmt.Sprintf("%d months", m.prefs.MaxAge)},
		{"Gender", gender},
		{"Max distance", strconv.Itoa(m.prefs.MaxDistanceKm) + " km"},
		{"Neutered only", boolWord(m.prefs.Neutered)},
	}
	fields := []string{"minAge", "maxAge", "gender", "maxDistanceKm", "neutered", "location"}
	for i, row := range rows {
		b.WriteString(renderRow(row.label, row.value, m.focus == i))
		for _, e := range m.errs.ForField(fields[i]) {
			b.WriteString("  " + errorStyle.Render(e) + "\n")
		}
	}
	b.WriteString(m.locationBuf.render(m.focus == prefFieldLocation))
	b.WriteString("\n")
	for _, e := range m.errs.ForField("location") {
		b.WriteString("  " + errorStyle.Render(e) + "\n")
	}
	for i, s := range m.suggestions {
		line := "    " + s.DisplayName
		if i == m.suggestIdx {
			line = selectedRowStyle.Render(line)
		}
		b.WriteString(line + "\n")
	}
	if m.geoErr != "" {
		b.WriteString("\n" + errorStyle.Render(m.geoErr))
	}
	if m.saving {
		b.WriteString("\n" + labelStyle.Render("saving..."))
	}
	return dialogStyle.Render(b.String())
}

func renderRow(label, value string, focused bool) string {
	line := labelStyle.Render(label+": ") + value
	if focused {
		return focusedStyle.Render("> ") + line + "\n"
	}
	return "  " + line + "\n"
}

func boolWord(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}

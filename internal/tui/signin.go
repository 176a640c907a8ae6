package tui

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/pawmate/pawmate/internal/domain"
)

// textField is a minimal line editor. The app has two short forms, so
// it carries its own instead of pulling in a widget set.
type textField struct {
	label  string
	value  []rune
	secret bool
}

func (f *textField) handle(msg tea.KeyMsg) {
	switch msg.Type {
	case tea.KeyBackspace:
		if len(f.value) > 0 {
			f.value = f.value[:len(f.value)-1]
		}
	case tea.KeyRunes, tea.KeySpace:
		f.value = append(f.value, msg.Runes...)
	}
}

func (f *textField) String() string { return string(f.value) }

func (f *textField) render(focused bool) string {
	shown := string(f.value)
	if f.secret {
		shown = strings.Repeat("*", len(f.value))
	}
	line := labelStyle.Render(f.label+": ") + shown
	if focused {
		return focusedStyle.Render("> ") + line + focusedStyle.Render("_")
	}
	return "  " + line
}

type signInModel struct {
	deps    Deps
	fields  []*textField
	focus   int
	pending bool
}

func newSignInModel(deps Deps) *signInModel {
	return &signInModel{
		deps: deps,
		fields: []*textField{
			{label: "Email"},
			{label: "Password", secret: true},
		},
	}
}

func (m *signInModel) update(msg tea.Msg) tea.Cmd {
	key, ok := msg.(tea.KeyMsg)
	if !ok || m.pending {
		return nil
	}
	switch key.String() {
	case "tab", "down":
		m.focus = (m.focus + 1) % len(m.fields)
	case "shift+tab", "up":
		m.focus = (m.focus + len(m.fields) - 1) % len(m.fields)
	case "ctrl+t":
		// First sign-in on a fresh account: the chosen role is held
		// here and committed to the profile once authenticated.
		m.deps.Pending.SetPendingUserType(nextUserType(m.deps.Pending.PendingUserType()))
	case "enter":
		email := m.fields[0].String()
		password := m.fields[1].String()
		if email == "" || password == "" {
			return nil
		}
		m.pending = true
		return m.signIn(email, password)
	default:
		m.fields[m.focus].handle(key)
	}
	return nil
}

func (m *signInModel) signIn(email, password string) tea.Cmd {
	return func() tea.Msg {
		defer func() { m.pending = false }()
		if err := m.deps.Auth.SignIn(context.Background(), email, password); err != nil {
			return errMsg{err}
		}
		return clearErrMsg{}
	}
}

func nextUserType(current string) string {
	switch current {
	case "":
		return domain.UserTypeAdopter
	case domain.UserTypeAdopter:
		return domain.UserTypeRehomer
	default:
		return ""
	}
}

func (m *signInModel) view() string {
	var b strings.Builder
	b.WriteString(labelStyle.Render("Sign in to continue") + "\n\n")
	for i, f := range m.fields {
		b.WriteString(f.render(i == m.focus))
		b.WriteString("\n")
	}
	if role := m.deps.Pending.PendingUserType(); role != "" {
		b.WriteString("\n" + labelStyle.Render("joining as: ") + role + "\n")
	}
	if m.pending {
		b.WriteString("\n" + labelStyle.Render("signing in..."))
	}
	return b.String()
}

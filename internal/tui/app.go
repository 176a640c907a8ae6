// Package tui is a terminal front end over the client toolkit. It
// drives the same session, query and store layers a graphical client
// would, so it doubles as a living integration surface for them.
package tui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/pawmate/pawmate/internal/client"
	"github.com/pawmate/pawmate/internal/geo"
	"github.com/pawmate/pawmate/internal/i18n"
	"github.com/pawmate/pawmate/internal/session"
	"github.com/pawmate/pawmate/internal/store"
)

// Deps carries every collaborator the terminal app needs. The cmd
// layer wires it; the app itself never constructs clients.
type Deps struct {
	Catalog  *i18n.Catalog
	Sessions *session.Store
	Auth     *session.Manager
	Users    *client.UsersClient
	Animals  *client.AnimalsClient
	Messages *client.MessagesClient
	Rehomers *client.RehomersClient
	Dialogs  *store.DialogStore
	Pending  *store.PendingUserTypeStore
	State    *store.StateDB
	Geo      geo.Provider
	Suggest  *geo.Suggester

	// UnreadEvents delivers unread-count changes from the realtime
	// counter running outside the program loop.
	UnreadEvents <-chan int

	Logger *slog.Logger
}

type screen int

const (
	screenSignIn screen = iota
	screenBrowse
	screenConversations
)

type (
	sessionMsg  session.Snapshot
	unreadMsg   int
	statusMsg   string
	clearErrMsg struct{}
	errMsg      struct{ err error }
)

// App is the root model. Sub-models own their screens; App routes
// key events, tracks the session and renders the frame chrome.
type App struct {
	deps   Deps
	screen screen
	width  int
	height int

	snap    session.Snapshot
	unread  int
	lastErr string
	status  string

	sessionCh <-chan session.Snapshot
	cancelSub func()

	signIn        *signInModel
	browse        *browseModel
	conversations *conversationsModel
	preferences   *preferencesModel
}

func NewApp(deps Deps) *App {
	ch, cancel := deps.Sessions.Subscribe()
	return &App{
		deps:          deps,
		screen:        screenSignIn,
		snap:          deps.Sessions.Snapshot(),
		sessionCh:     ch,
		cancelSub:     cancel,
		signIn:        newSignInModel(deps),
		browse:        newBrowseModel(deps),
		conversations: newConversationsModel(deps),
		preferences:   newPreferencesModel(deps),
	}
}

func (a *App) Init() tea.Cmd {
	return tea.Batch(a.waitSession(), a.waitUnread())
}

func (a *App) waitSession() tea.Cmd {
	return func() tea.Msg {
		snap, ok := <-a.sessionCh
		if !ok {
			return nil
		}
		return sessionMsg(snap)
	}
}

func (a *App) waitUnread() tea.Cmd {
	if a.deps.UnreadEvents == nil {
		return nil
	}
	return func() tea.Msg {
		n, ok := <-a.deps.UnreadEvents
		if !ok {
			return nil
		}
		return unreadMsg(n)
	}
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = msg.Width, msg.Height

	case sessionMsg:
		a.snap = session.Snapshot(msg)
		if session.IsAuthenticatedUserSession(a.snap) {
			if a.screen == screenSignIn {
				a.screen = screenBrowse
				return a, tea.Batch(a.waitSession(), a.browse.load(), a.commitPendingUserType())
			}
		} else if a.snap.State == session.StateUnauthenticated {
			a.screen = screenSignIn
			a.unread = 0
		}
		return a, a.waitSession()

	case unreadMsg:
		a.unread = int(msg)
		return a, a.waitUnread()

	case conversationStartedMsg:
		a.screen = screenConversations
		return a, tea.Batch(
			a.conversations.load(),
			a.conversations.openThread(msg.conversation.ConversationID),
		)

	case statusMsg:
		a.status = string(msg)
		a.lastErr = ""
		return a, nil

	case errMsg:
		a.lastErr = msg.err.Error()
		a.status = ""
		return a, nil

	case clearErrMsg:
		a.lastErr = ""
		return a, nil

	case tea.KeyMsg:
		if cmd, handled := a.handleKey(msg); handled {
			return a, cmd
		}
	}

	return a, a.routeToScreen(msg)
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	// Dialogs swallow everything except ctrl+c.
	if msg.String() == "ctrl+c" {
		a.cancelSub()
		return tea.Quit, true
	}
	if a.deps.Dialogs.PreferencesDialogOpen() {
		return nil, false
	}
	switch msg.String() {
	case "q":
		if a.screen != screenSignIn && !a.editing() {
			a.cancelSub()
			return tea.Quit, true
		}
	case "tab":
		if session.IsAuthenticatedUserSession(a.snap) && !a.editing() {
			if a.screen == screenBrowse {
				a.screen = screenConversations
				return a.conversations.load(), true
			}
			a.screen = screenBrowse
			return a.browse.load(), true
		}
	case "p":
		if a.screen == screenBrowse && !a.editing() {
			a.deps.Dialogs.OpenPreferencesDialog()
			return a.preferences.open(), true
		}
	case "ctrl+o":
		if session.IsAuthenticatedUserSession(a.snap) {
			return a.signOut(), true
		}
	}
	return nil, false
}

func (a *App) editing() bool {
	return a.screen == screenConversations && a.conversations.composing
}

func (a *App) routeToScreen(msg tea.Msg) tea.Cmd {
	if a.deps.Dialogs.PreferencesDialogOpen() {
		return a.preferences.update(msg)
	}
	switch a.screen {
	case screenSignIn:
		return a.signIn.update(msg)
	case screenBrowse:
		return a.browse.update(msg)
	case screenConversations:
		return a.conversations.update(msg)
	}
	return nil
}

// commitPendingUserType finishes onboarding: the role chosen on the
// sign-in screen is written to the profile once, then forgotten. An
// account that already has a role keeps it.
func (a *App) commitPendingUserType() tea.Cmd {
	role := a.deps.Pending.PendingUserType()
	if role == "" {
		return nil
	}
	snap := a.snap
	return func() tea.Msg {
		ctx := context.Background()
		profile, err := a.deps.Users.GetProfile(ctx, snap.UserID, snap.Credentials)
		if err != nil {
			return errMsg{err}
		}
		if profile.UserType != nil && *profile.UserType != "" {
			a.deps.Pending.Clear()
			return nil
		}
		_, err = a.deps.Users.UpdateProfile(ctx, snap.UserID, snap.Credentials, client.UpdateProfileRequest{
			DisplayName: profile.DisplayName,
			UserType:    &role,
		})
		if err != nil {
			return errMsg{err}
		}
		a.deps.Pending.Clear()
		return statusMsg("welcome, " + role)
	}
}

func (a *App) signOut() tea.Cmd {
	return func() tea.Msg {
		if err := a.deps.Auth.SignOut(context.Background()); err != nil {
			return errMsg{err}
		}
		return statusMsg("signed out")
	}
}

func (a *App) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Pawmate"))
	if session.IsAuthenticatedUserSession(a.snap) && a.unread > 0 {
		b.WriteString("  ")
		b.WriteString(badgeStyle.Render(fmt.Sprintf("%d unread", a.unread)))
	}
	b.WriteString("\n")

	if a.deps.Dialogs.PreferencesDialogOpen() {
		b.WriteString(a.preferences.view())
	} else {
		switch a.screen {
		case screenSignIn:
			b.WriteString(a.signIn.view())
		case screenBrowse:
			b.WriteString(a.browse.view())
		case screenConversations:
			b.WriteString(a.conversations.view())
		}
	}

	if a.lastErr != "" {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render(a.lastErr))
	} else if a.status != "" {
		b.WriteString("\n")
		b.WriteString(labelStyle.Render(a.status))
	}
	b.WriteString("\n")
	b.WriteString(hintStyle.Render(a.hints()))
	return b.String()
}

func (a *App) hints() string {
	if a.deps.Dialogs.PreferencesDialogOpen() {
		return "tab: next field • g: use my location • enter: save • esc: cancel"
	}
	switch a.screen {
	case screenSignIn:
		return "tab: next field • ctrl+t: choose role • enter: sign in • ctrl+c: quit"
	case screenBrowse:
		return "↑/↓: select • ←/→: page • c: contact • p: preferences • tab: messages • ctrl+o: sign out • q: quit"
	case screenConversations:
		return "↑/↓: select • enter: open • d: delete • m: compose • tab: browse • q: quit"
	}
	return ""
}

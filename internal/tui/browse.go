package tui

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/pawmate/pawmate/internal/client"
	"github.com/pawmate/pawmate/internal/domain"
	"github.com/pawmate/pawmate/internal/query"
	"github.com/pawmate/pawmate/internal/session"
)

const browsePageSize = 10

type animalsMsg struct {
	page *domain.AnimalPage
}

// browseModel pages through discoverable animals. Each page gets its
// own cached query so flipping back to a recent page is instant while
// stale pages refetch in place.
type browseModel struct {
	deps Deps

	mu      sync.Mutex
	queries map[int]*query.Query[*domain.AnimalPage]

	page    int
	current *domain.AnimalPage
	cursor  int
	loading bool
}

func newBrowseModel(deps Deps) *browseModel {
	return &browseModel{deps: deps, page: 1, queries: make(map[int]*query.Query[*domain.AnimalPage])}
}

func (m *browseModel) queryFor(page int) *query.Query[*domain.AnimalPage] {
	m.mu.Lock()
	defer m.mu.Unlock()
	if q, ok := m.queries[page]; ok {
		return q
	}
	q := query.New(query.Config{
		Key:        fmt.Sprintf("animals:%d:%d", page, browsePageSize),
		StaleAfter: 30 * time.Second,
		Enabled: func() bool {
			return session.IsAuthenticatedUserSession(m.deps.Sessions.Snapshot())
		},
	}, func(ctx context.Context) (*domain.AnimalPage, error) {
		snap := m.deps.Sessions.Snapshot()
		return m.deps.Animals.ListAnimals(ctx, snap.UserID, snap.Credentials, page, browsePageSize)
	})
	m.queries[page] = q
	return q
}

func (m *browseModel) load() tea.Cmd {
	page := m.page
	m.loading = true
	return func() tea.Msg {
		result, err := m.queryFor(page).Get(context.Background())
		if err != nil {
			return errMsg{err}
		}
		return animalsMsg{page: result}
	}
}

func (m *browseModel) update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case animalsMsg:
		m.loading = false
		m.current = msg.page
		if m.cursor >= len(msg.page.Animals) {
			m.cursor = 0
		}
		return nil

	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.current != nil && m.cursor < len(m.current.Animals)-1 {
				m.cursor++
			}
		case "left", "h":
			if m.page > 1 {
				m.page--
				return m.load()
			}
		case "right", "l":
			if m.current != nil && m.page*browsePageSize < m.current.TotalCount {
				m.page++
				return m.load()
			}
		case "r":
			m.queryFor(m.page).Invalidate()
			return m.load()
		case "c":
			return m.contact()
		}
	}
	return nil
}

// contact opens a thread with the selected animal's rehomer.
func (m *browseModel) contact() tea.Cmd {
	if m.current == nil || m.cursor >= len(m.current.Animals) {
		return nil
	}
	animal := m.current.Animals[m.cursor]
	return func() tea.Msg {
		snap := m.deps.Sessions.Snapshot()
		if !session.IsAuthenticatedUserSession(snap) {
			return nil
		}
		conv, err := m.deps.Messages.StartConversation(context.Background(), snap.UserID, snap.Credentials, client.StartConversationRequest{
			RehomerID: animal.RehomerID,
			AnimalID:  &animal.AnimalID,
		})
		if err != nil {
			return errMsg{err}
		}
		return conversationStartedMsg{conversation: conv}
	}
}

func (m *browseModel) view() string {
	var b strings.Builder
	b.WriteString(labelStyle.Render(fmt.Sprintf("Animals — page %d", m.page)) + "\n\n")
	if m.loading && m.current == nil {
		b.WriteString(labelStyle.Render("loading..."))
		return b.String()
	}
	if m.current == nil || len(m.current.Animals) == 0 {
		b.WriteString(labelStyle.Render("no animals nearby"))
		return b.String()
	}
	for i, a := range m.current.Animals {
		row := fmt.Sprintf("%-20s %-8s %3d weeks  %s", a.Name, a.Gender, a.AgeInWeeks, a.AddressDisplayName)
		if i == m.cursor {
			b.WriteString(selectedRowStyle.Render(row))
		} else {
			b.WriteString(row)
		}
		b.WriteString("\n")
	}
	b.WriteString("\n" + labelStyle.Render(fmt.Sprintf("%d total", m.current.TotalCount)))
	return b.String()
}

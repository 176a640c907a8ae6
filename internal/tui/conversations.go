package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/pawmate/pawmate/internal/domain"
)

type (
	conversationsMsg struct{ conversations []domain.Conversation }
	messagesMsg      struct {
		conversationID string
		messages       []domain.Message
	}
	conversationDeletedMsg struct{ result *domain.ConversationDeleteResult }
	conversationStartedMsg struct{ conversation *domain.Conversation }
	messageSentMsg         struct{}
)

type conversationsModel struct {
	deps Deps

	conversations []domain.Conversation
	cursor        int

	openID   string
	messages []domain.Message

	composing bool
	compose   textField
}

func newConversationsModel(deps Deps) *conversationsModel {
	return &conversationsModel{deps: deps, compose: textField{label: "Message"}}
}

func (m *conversationsModel) load() tea.Cmd {
	return func() tea.Msg {
		snap := m.deps.Sessions.Snapshot()
		convs, err := m.deps.Messages.ListConversations(context.Background(), snap.UserID, snap.Credentials)
		if err != nil {
			return errMsg{err}
		}
		return conversationsMsg{conversations: convs}
	}
}

func (m *conversationsModel) openThread(conversationID string) tea.Cmd {
	return func() tea.Msg {
		snap := m.deps.Sessions.Snapshot()
		msgs, err := m.deps.Messages.ListMessages(context.Background(), snap.UserID, snap.Credentials, conversationID)
		if err != nil {
			return errMsg{err}
		}
		return messagesMsg{conversationID: conversationID, messages: msgs}
	}
}

func (m *conversationsModel) deleteSelected() tea.Cmd {
	if m.cursor >= len(m.conversations) {
		return nil
	}
	id := m.conversations[m.cursor].ConversationID
	return func() tea.Msg {
		snap := m.deps.Sessions.Snapshot()
		result, err := m.deps.Messages.DeleteConversation(context.Background(), snap.UserID, snap.Credentials, id)
		if err != nil {
			return errMsg{err}
		}
		return conversationDeletedMsg{result: result}
	}
}

func (m *conversationsModel) send(text string) tea.Cmd {
	id := m.openID
	return func() tea.Msg {
		snap := m.deps.Sessions.Snapshot()
		if _, err := m.deps.Messages.SendMessage(context.Background(), snap.UserID, snap.Credentials, id, text); err != nil {
			return errMsg{err}
		}
		return messageSentMsg{}
	}
}

func (m *conversationsModel) update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case conversationsMsg:
		m.conversations = msg.conversations
		if m.cursor >= len(m.conversations) {
			m.cursor = 0
		}
		return nil

	case messagesMsg:
		m.openID = msg.conversationID
		m.messages = msg.messages
		return nil

	case conversationDeletedMsg:
		if m.openID == msg.result.ConversationID {
			m.openID = ""
			m.messages = nil
		}
		return m.load()

	case messageSentMsg:
		m.compose = textField{label: "Message"}
		m.composing = false
		return m.openThread(m.openID)

	case tea.KeyMsg:
		if m.composing {
			switch msg.String() {
			case "enter":
				text := m.compose.String()
				if text == "" {
					return nil
				}
				return m.send(text)
			case "esc":
				m.composing = false
				m.compose = textField{label: "Message"}
			default:
				m.compose.handle(msg)
			}
			return nil
		}
		switch msg.String() {
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.conversations)-1 {
				m.cursor++
			}
		case "enter":
			if m.cursor < len(m.conversations) {
				return m.openThread(m.conversations[m.cursor].ConversationID)
			}
		case "d":
			return m.deleteSelected()
		case "m":
			if m.openID != "" {
				m.composing = true
			}
		case "esc":
			m.openID = ""
			m.messages = nil
		case "r":
			return m.load()
		}
	}
	return nil
}

func (m *conversationsModel) view() string {
	var b strings.Builder
	if m.openID != "" {
		b.WriteString(labelStyle.Render("Conversation") + "\n\n")
		snap := m.deps.Sessions.Snapshot()
		for _, msg := range m.messages {
			who := "them"
			if msg.SenderID == snap.UserID {
				who = "you"
			}
			b.WriteString(fmt.Sprintf("%s  %s: %s\n", msg.SentAt.Format("15:04"), who, msg.Text))
		}
		if m.composing {
			b.WriteString("\n" + m.compose.render(true))
		}
		return b.String()
	}

	b.WriteString(labelStyle.Render("Conversations") + "\n\n")
	if len(m.conversations) == 0 {
		b.WriteString(labelStyle.Render("no conversations yet"))
		return b.String()
	}
	for i, c := range m.conversations {
		last := "never"
		if c.LastMessageAt != nil {
			last = c.LastMessageAt.Format("Jan 2 15:04")
		}
		row := fmt.Sprintf("%-36s  last message %s", c.ConversationID, last)
		if i == m.cursor {
			b.WriteString(selectedRowStyle.Render(row))
		} else {
			b.WriteString(row)
		}
		b.WriteString("\n")
	}
	return b.String()
}

package domain

import (
	"fmt"
	"time"
)

// Conversation links an adopter and a rehomer, optionally about one
// animal. Deletion is two-phase: each participant soft-deletes their
// side; the record is hard-deleted only once both sides are gone. A
// soft-deleted conversation stays addressable, so operations against
// it can legitimately fail rather than 404.
type Conversation struct {
	ConversationID   string     `json:"conversationId"`
	AdopterID        string     `json:"adopterId"`
	RehomerID        string     `json:"rehomerId"`
	AnimalID         *string    `json:"animalId"`
	LastMessageAt    *time.Time `json:"lastMessageAt"`
	AdopterReadAt    *time.Time `json:"adopterReadAt"`
	RehomerReadAt    *time.Time `json:"rehomerReadAt"`
	AdopterTypingAt  *time.Time `json:"adopterTypingAt"`
	RehomerTypingAt  *time.Time `json:"rehomerTypingAt"`
	AdopterDeletedAt *time.Time `json:"adopterDeletedAt"`
	RehomerDeletedAt *time.Time `json:"rehomerDeletedAt"`
	CreatedAt        time.Time  `json:"createdAt"`
}

func (c *Conversation) Validate() error {
	if err := requireID("conversationId", c.ConversationID); err != nil {
		return err
	}
	if err := requireID("adopterId", c.AdopterID); err != nil {
		return err
	}
	if err := requireID("rehomerId", c.RehomerID); err != nil {
		return err
	}
	if c.AnimalID != nil {
		if err := requireID("animalId", *c.AnimalID); err != nil {
			return err
		}
	}
	return nil
}

// DeletedFor reports whether the given participant has soft-deleted the
// conversation.
func (c *Conversation) DeletedFor(userID string) bool {
	switch userID {
	case c.AdopterID:
		return c.AdopterDeletedAt != nil
	case c.RehomerID:
		return c.RehomerDeletedAt != nil
	}
	return false
}

// ConversationDeleteResult reports the outcome of a delete call.
// HardDeleted is true only on the second participant's delete.
type ConversationDeleteResult struct {
	ConversationID string `json:"conversationId"`
	HardDeleted    bool   `json:"hardDeleted"`
}

func (r *ConversationDeleteResult) Validate() error {
	return requireID("conversationId", r.ConversationID)
}

// Message is one chat message inside a conversation.
type Message struct {
	MessageID      string    `json:"messageId"`
	ConversationID string    `json:"conversationId"`
	SenderID       string    `json:"senderId"`
	Text           string    `json:"text"`
	SentAt         time.Time `json:"sentAt"`
}

func (m *Message) Validate() error {
	if err := requireID("messageId", m.MessageID); err != nil {
		return err
	}
	if err := requireID("conversationId", m.ConversationID); err != nil {
		return err
	}
	if err := requireID("senderId", m.SenderID); err != nil {
		return err
	}
	return nil
}

// ConversationList is the conversations payload for one user. The
// backend already filters out conversations the user soft-deleted.
type ConversationList struct {
	Conversations []Conversation `json:"conversations"`
}

func (l *ConversationList) Validate() error {
	for i := range l.Conversations {
		if err := l.Conversations[i].Validate(); err != nil {
			return fmt.Errorf("conversation %d: %w", i, err)
		}
	}
	return nil
}

// MessageList is the message history payload for one conversation,
// oldest first.
type MessageList struct {
	Messages []Message `json:"messages"`
}

func (l *MessageList) Validate() error {
	for i := range l.Messages {
		if err := l.Messages[i].Validate(); err != nil {
			return fmt.Errorf("message %d: %w", i, err)
		}
	}
	return nil
}

// UnreadCount is the unread-message tally for one user.
type UnreadCount struct {
	Count int `json:"count"`
}

func (u *UnreadCount) Validate() error {
	if u.Count < 0 {
		return fmt.Errorf("count must not be negative")
	}
	return nil
}

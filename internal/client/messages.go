package client

import (
	"context"
	"net/http"

	"github.com/pawmate/pawmate/internal/domain"
	"github.com/pawmate/pawmate/internal/i18n"
	"github.com/pawmate/pawmate/internal/security"
)

// MessagesClient talks to the messages service: conversations, message
// history, sending and the unread tally. Conversation deletion is soft
// per participant; the service hard-deletes once both sides are gone
// and reports that through ConversationDeleteResult.
type MessagesClient struct {
	tr      *transport
	catalog *i18n.Catalog
}

func NewMessagesClient(baseURL string, cfg Config) *MessagesClient {
	return &MessagesClient{tr: newTransport(baseURL, cfg), catalog: cfg.Catalog}
}

func (c *MessagesClient) ListConversations(ctx context.Context, userID string, creds security.Credentials) ([]domain.Conversation, error) {
	mustAuthenticated(creds)
	var list domain.ConversationList
	err := c.tr.call(ctx, http.MethodGet, "/"+userID+"/conversations", creds, nil, &list)
	if err := opError(ctx, c.catalog, "messages", "list_conversations", i18n.KeyConversationsLoadFailed, err); err != nil {
		return nil, err
	}
	return list.Conversations, nil
}

type StartConversationRequest struct {
	RehomerID string  `json:"rehomerId"`
	AnimalID  *string `json:"animalId,omitempty"`
}

// StartConversation opens a thread between the calling adopter and a
// rehomer, optionally pinned to one of the rehomer's animals.
func (c *MessagesClient) StartConversation(ctx context.Context, userID string, creds security.Credentials, req StartConversationRequest) (*domain.Conversation, error) {
	mustAuthenticated(creds)
	var conv domain.Conversation
	err := c.tr.call(ctx, http.MethodPost, "/"+userID+"/conversations", creds, req, &conv)
	if err := opError(ctx, c.catalog, "messages", "start_conversation", i18n.KeyConversationStartFailed, err); err != nil {
		return nil, err
	}
	return &conv, nil
}

func (c *MessagesClient) DeleteConversation(ctx context.Context, userID string, creds security.Credentials, conversationID string) (*domain.ConversationDeleteResult, error) {
	mustAuthenticated(creds)
	var result domain.ConversationDeleteResult
	err := c.tr.call(ctx, http.MethodDelete, "/"+userID+"/conversations/"+conversationID, creds, nil, &result)
	if err := opError(ctx, c.catalog, "messages", "delete_conversation", i18n.KeyConversationDeleteFailed, err); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *MessagesClient) ListMessages(ctx context.Context, userID string, creds security.Credentials, conversationID string) ([]domain.Message, error) {
	mustAuthenticated(creds)
	var list domain.MessageList
	err := c.tr.call(ctx, http.MethodGet, "/"+userID+"/conversations/"+conversationID+"/messages", creds, nil, &list)
	if err := opError(ctx, c.catalog, "messages", "list_messages", i18n.KeyMessagesLoadFailed, err); err != nil {
		return nil, err
	}
	return list.Messages, nil
}

type SendMessageRequest struct {
	Text string `json:"text"`
}

func (c *MessagesClient) SendMessage(ctx context.Context, userID string, creds security.Credentials, conversationID, text string) (*domain.Message, error) {
	mustAuthenticated(creds)
	var msg domain.Message
	err := c.tr.call(ctx, http.MethodPost, "/"+userID+"/conversations/"+conversationID+"/messages", creds, SendMessageRequest{Text: text}, &msg)
	if err := opError(ctx, c.catalog, "messages", "send", i18n.KeyMessageSendFailed, err); err != nil {
		return nil, err
	}
	return &msg, nil
}

func (c *MessagesClient) GetUnreadCount(ctx context.Context, userID string, creds security.Credentials) (int, error) {
	mustAuthenticated(creds)
	var unread domain.UnreadCount
	err := c.tr.call(ctx, http.MethodGet, "/"+userID+"/unread", creds, nil, &unread)
	if err := opError(ctx, c.catalog, "messages", "unread_count", i18n.KeyUnreadCountLoadFailed, err); err != nil {
		return 0, err
	}
	return unread.Count, nil
}

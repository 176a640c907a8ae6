package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pawmate/pawmate/internal/i18n"
	"github.com/pawmate/pawmate/internal/security"
)

var testCreds = security.Credentials{AccessToken: "acc", RefreshToken: "ref"}

func envelopeJSON(data any) []byte {
	raw, _ := json.Marshal(map[string]any{"success": true, "data": data})
	return raw
}

func testConfig() Config {
	return Config{Catalog: i18n.New(i18n.LangEnglish)}
}

func TestGetProfileDecodesEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/u1/profile" {
			t.Errorf("path=%q", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer acc" {
			t.Errorf("Authorization=%q", got)
		}
		if got := r.Header.Get(security.RefreshTokenHeader); got != "ref" {
			t.Errorf("Refresh-Token=%q", got)
		}
		w.Write(envelopeJSON(map[string]any{
			"userId":      "u1",
			"email":       "a@example.com",
			"displayName": "A",
		}))
	}))
	defer srv.Close()

	c := NewUsersClient(srv.URL, testConfig())
	user, err := c.GetProfile(context.Background(), "u1", testCreds)
	if err != nil {
		t.Fatalf("get profile: %v", err)
	}
	if user.UserID != "u1" || user.Email != "a@example.com" {
		t.Fatalf("unexpected user: %+v", user)
	}
}

func TestValidationFailureBecomesLocalizedOpError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Well-formed envelope, invalid payload: http avatar URL.
		w.Write(envelopeJSON(map[string]any{
			"userId":      "u1",
			"email":       "a@example.com",
			"displayName": "A",
			"avatarUrl":   "http://cdn.example.com/a.jpg",
		}))
	}))
	defer srv.Close()

	catalog := i18n.New(i18n.LangEnglish)
	c := NewUsersClient(srv.URL, Config{Catalog: catalog})
	_, err := c.GetProfile(context.Background(), "u1", testCreds)
	if err == nil {
		t.Fatal("invalid payload must fail")
	}
	var opErr *OpError
	if !errors.As(err, &opErr) {
		t.Fatalf("error type %T, want *OpError", err)
	}
	if opErr.Message != catalog.T(i18n.KeyProfileLoadFailed) {
		t.Fatalf("message=%q want the localized load failure", opErr.Message)
	}
	if opErr.Err == nil {
		t.Fatal("underlying cause must be preserved for logs")
	}
}

func TestTransportAndStatusFailuresCollapseToSameMessage(t *testing.T) {
	catalog := i18n.New(i18n.LangEnglish)
	want := catalog.T(i18n.KeyProfileLoadFailed)

	badStatus := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer badStatus.Close()
	c := NewUsersClient(badStatus.URL, Config{Catalog: catalog})
	if _, err := c.GetProfile(context.Background(), "u1", testCreds); err == nil || err.Error() != want {
		t.Fatalf("bad status error=%v want %q", err, want)
	}

	failedEnvelope := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":false,"error":{"code":"INTERNAL"}}`))
	}))
	defer failedEnvelope.Close()
	c = NewUsersClient(failedEnvelope.URL, Config{Catalog: catalog})
	if _, err := c.GetProfile(context.Background(), "u1", testCreds); err == nil || err.Error() != want {
		t.Fatalf("failed envelope error=%v want %q", err, want)
	}

	// Connection refused: same user-facing message again.
	c = NewUsersClient("http://127.0.0.1:1", Config{Catalog: catalog})
	if _, err := c.GetProfile(context.Background(), "u1", testCreds); err == nil || err.Error() != want {
		t.Fatalf("transport error=%v want %q", err, want)
	}
}

func TestSpanishCatalogLocalizesErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	es := i18n.New(i18n.LangSpanish)
	c := NewUsersClient(srv.URL, Config{Catalog: es})
	_, err := c.GetProfile(context.Background(), "u1", testCreds)
	if err == nil || err.Error() != es.T(i18n.KeyProfileLoadFailed) {
		t.Fatalf("error=%v want Spanish text", err)
	}
}

func TestIncompleteCredentialsPanic(t *testing.T) {
	c := NewUsersClient("http://localhost", testConfig())
	cases := []security.Credentials{
		{},
		{AccessToken: "acc"},
		{RefreshToken: "ref"},
	}
	for _, creds := range cases {
		func() {
			defer func() {
				if recover() == nil {
					t.Errorf("expected panic for creds %+v", creds)
				}
			}()
			_, _ = c.GetProfile(context.Background(), "u1", creds)
		}()
	}
}

func TestListAnimalsBuildsPagedPath(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/u1/animals" {
			t.Errorf("path=%q", r.URL.Path)
		}
		if r.URL.Query().Get("page") != "2" || r.URL.Query().Get("pageSize") != "5" {
			t.Errorf("query=%q", r.URL.RawQuery)
		}
		w.Write(envelopeJSON(map[string]any{
			"animals":    []any{},
			"page":       2,
			"pageSize":   5,
			"totalCount": 11,
		}))
	}))
	defer srv.Close()

	c := NewAnimalsClient(srv.URL, testConfig())
	page, err := c.ListAnimals(context.Background(), "u1", testCreds, 2, 5)
	if err != nil {
		t.Fatalf("list animals: %v", err)
	}
	if page.TotalCount != 11 || page.Page != 2 {
		t.Fatalf("unexpected page: %+v", page)
	}
}

func TestDeleteConversationReturnsResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete || r.URL.Path != "/u1/conversations/c9" {
			t.Errorf("%s %s", r.Method, r.URL.Path)
		}
		w.Write(envelopeJSON(map[string]any{"conversationId": "c9", "hardDeleted": true}))
	}))
	defer srv.Close()

	c := NewMessagesClient(srv.URL, testConfig())
	result, err := c.DeleteConversation(context.Background(), "u1", testCreds, "c9")
	if err != nil {
		t.Fatalf("delete conversation: %v", err)
	}
	if result.ConversationID != "c9" || !result.HardDeleted {
		t.Fatalf("unexpected result: %+v", result)
	}
}

func TestGetUnreadCount(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/u1/unread" {
			t.Errorf("path=%q", r.URL.Path)
		}
		w.Write(envelopeJSON(map[string]any{"count": 3}))
	}))
	defer srv.Close()

	c := NewMessagesClient(srv.URL, testConfig())
	count, err := c.GetUnreadCount(context.Background(), "u1", testCreds)
	if err != nil {
		t.Fatalf("unread count: %v", err)
	}
	if count != 3 {
		t.Fatalf("count=%d want 3", count)
	}
}

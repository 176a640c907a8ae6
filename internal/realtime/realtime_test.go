package realtime

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/oauth2"

	"github.com/pawmate/pawmate/internal/client"
	"github.com/pawmate/pawmate/internal/i18n"
	"github.com/pawmate/pawmate/internal/security"
	"github.com/pawmate/pawmate/internal/session"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func wsURL(s *httptest.Server) string {
	return "ws" + strings.TrimPrefix(s.URL, "http")
}

func TestAdapterDeliversEventsAndSkipsGarbage(t *testing.T) {
	upgrader := websocket.Upgrader{}
	gotPath := make(chan string, 1)
	gotAuth := make(chan string, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath <- r.URL.Path
		gotAuth <- r.Header.Get("Authorization")
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		for _, raw := range []string{"not json", `{"table":"messages"}`, `{"table":"animals"}`} {
			if err := conn.WriteMessage(websocket.TextMessage, []byte(raw)); err != nil {
				return
			}
		}
		conn.ReadMessage() // park until the client closes
	}))
	defer srv.Close()

	tables := make(chan string, 4)
	a := NewAdapter(wsURL(srv), testLogger())
	creds := security.Credentials{AccessToken: "acc", RefreshToken: "ref"}
	sub, err := a.Subscribe(context.Background(), "u1", creds, func(_ context.Context, table string) {
		tables <- table
	})
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	defer sub.Close()

	if path := <-gotPath; path != "/u1" {
		t.Fatalf("dialed path %q, want /u1", path)
	}
	if auth := <-gotAuth; auth != "Bearer acc" {
		t.Fatalf("authorization header %q", auth)
	}

	// The unparseable frame is dropped; the two real events arrive in order.
	for _, want := range []string{"messages", "animals"} {
		select {
		case got := <-tables:
			if got != want {
				t.Fatalf("event table %q, want %q", got, want)
			}
		case <-time.After(2 * time.Second):
			t.Fatalf("no %q event delivered", want)
		}
	}

	sub.Close()
	sub.Close() // idempotent
	select {
	case <-sub.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("Done not closed after Close")
	}
}

func TestSubscriptionEndsWhenServerDrops(t *testing.T) {
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		conn.Close()
	}))
	defer srv.Close()

	a := NewAdapter(wsURL(srv), testLogger())
	creds := security.Credentials{AccessToken: "acc", RefreshToken: "ref"}
	sub, err := a.Subscribe(context.Background(), "u1", creds, func(context.Context, string) {})
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	select {
	case <-sub.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("Done not closed after server drop")
	}
}

type staticProvider struct{}

func (staticProvider) identity() (*session.Identity, error) {
	return &session.Identity{
		UserID: "u1",
		Token:  &oauth2.Token{AccessToken: "acc", RefreshToken: "ref"},
	}, nil
}

func (p staticProvider) SignIn(context.Context, string, string) (*session.Identity, error) {
	return p.identity()
}

func (p staticProvider) Refresh(context.Context, string) (*session.Identity, error) {
	return p.identity()
}

func (staticProvider) SignOut(context.Context, security.Credentials) error { return nil }

type nopCache struct{}

func (nopCache) Load() (*oauth2.Token, error) { return nil, nil }
func (nopCache) Save(*oauth2.Token) error     { return nil }
func (nopCache) Clear() error                 { return nil }

func waitCount(t *testing.T, counts <-chan int, want int) {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case n := <-counts:
			if n == want {
				return
			}
			// intermediate value from an earlier transition, keep reading
		case <-deadline:
			t.Fatalf("count %d never observed", want)
		}
	}
}

func TestUnreadCounterFollowsSession(t *testing.T) {
	var unread atomic.Int64
	unread.Store(3)

	upgrader := websocket.Upgrader{}
	signal := make(chan struct{})

	mux := http.NewServeMux()
	mux.HandleFunc("/rt/u1", func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		for range signal {
			if err := conn.WriteMessage(websocket.TextMessage, []byte(`{"table":"messages"}`)); err != nil {
				return
			}
		}
	})
	mux.HandleFunc("/u1/unread", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"success":true,"data":{"count":%d}}`, unread.Load())
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()
	defer close(signal)

	catalog := i18n.New(i18n.LangEnglish)
	sessions := session.NewStore(testLogger())
	messages := client.NewMessagesClient(srv.URL, client.Config{Catalog: catalog})
	adapter := NewAdapter(wsURL(srv)+"/rt", testLogger())
	counter := NewUnreadCounter(sessions, messages, adapter, testLogger())

	counts := make(chan int, 16)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go counter.Run(ctx, func(n int) { counts <- n })

	// Signed out, the counter reports zero and fetches nothing.
	waitCount(t, counts, 0)

	mgr := session.NewManager(sessions, staticProvider{}, nopCache{}, testLogger())
	if err := mgr.SignIn(ctx, "a@example.com", "pw"); err != nil {
		t.Fatalf("sign in: %v", err)
	}
	waitCount(t, counts, 3)

	// A change signal triggers a refetch of the new tally.
	unread.Store(5)
	select {
	case signal <- struct{}{}:
	case <-time.After(2 * time.Second):
		t.Fatal("realtime channel never opened")
	}
	waitCount(t, counts, 5)
	if counter.Count() != 5 {
		t.Fatalf("Count()=%d want 5", counter.Count())
	}

	if err := mgr.SignOut(ctx); err != nil {
		t.Fatalf("sign out: %v", err)
	}
	waitCount(t, counts, 0)
	if counter.Count() != 0 {
		t.Fatalf("Count()=%d after sign-out, want 0", counter.Count())
	}
}

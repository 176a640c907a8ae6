// Package realtime subscribes to the per-user change feed. The feed
// carries generic "row changed" events for a fixed set of tables with
// no filtering; payloads are treated as triggers only and the client
// refetches through a resource client instead of applying deltas. A
// deliberate simplicity-over-efficiency tradeoff: one extra read per
// signal buys us never trusting or versioning event payloads.
package realtime

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/pawmate/pawmate/internal/observability"
	"github.com/pawmate/pawmate/internal/security"
)

// Event is the change notification. Everything beyond the table name is
// deliberately ignored.
type Event struct {
	Table string `json:"table"`
}

// Handler is invoked once per received event.
type Handler func(ctx context.Context, table string)

// Adapter dials one websocket channel per user id.
type Adapter struct {
	url    string
	dialer *websocket.Dialer
	logger *slog.Logger
}

func NewAdapter(url string, logger *slog.Logger) *Adapter {
	return &Adapter{url: strings.TrimRight(url, "/"), dialer: websocket.DefaultDialer, logger: logger}
}

// Subscription is the one client resource requiring explicit teardown.
// Close is idempotent; leaking the channel is a defect.
type Subscription struct {
	conn *websocket.Conn
	once sync.Once
	done chan struct{}
}

// Close shuts the channel down exactly once.
func (s *Subscription) Close() {
	s.once.Do(func() {
		close(s.done)
		_ = s.conn.Close()
	})
}

// Done is closed when the subscription ends, whether by Close or by the
// server dropping the connection.
func (s *Subscription) Done() <-chan struct{} { return s.done }

// Subscribe opens the channel for userID and invokes handler for every
// event until the subscription closes. Events only signal; the handler
// decides relevance by refetching.
func (a *Adapter) Subscribe(ctx context.Context, userID string, creds security.Credentials, handler Handler) (*Subscription, error) {
	header := security.AuthHeaders(creds.AccessToken, creds.RefreshToken)
	conn, resp, err := a.dialer.DialContext(ctx, a.url+"/"+userID, header)
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	if err != nil {
		return nil, err
	}

	sub := &Subscription{conn: conn, done: make(chan struct{})}
	go a.readLoop(ctx, sub, userID, handler)
	return sub, nil
}

func (a *Adapter) readLoop(ctx context.Context, sub *Subscription, userID string, handler Handler) {
	defer sub.Close()
	for {
		_, raw, err := sub.conn.ReadMessage()
		if err != nil {
			select {
			case <-sub.done:
				// torn down on purpose, nothing to report
			default:
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					a.logger.Warn("realtime channel dropped", "user_id", userID, "error", err)
				}
			}
			return
		}
		var ev Event
		if err := json.Unmarshal(raw, &ev); err != nil {
			observability.RecordRealtimeEvent(ctx, "unknown", "unparseable")
			continue
		}
		observability.RecordRealtimeEvent(ctx, ev.Table, "received")
		handler(ctx, ev.Table)
	}
}

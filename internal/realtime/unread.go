package realtime

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/pawmate/pawmate/internal/client"
	"github.com/pawmate/pawmate/internal/query"
	"github.com/pawmate/pawmate/internal/session"
)

const (
	unreadStaleAfter = 30 * time.Second
	unreadPollEvery  = 60 * time.Second
)

// UnreadCounter keeps the unread-message tally current. While the
// session is unauthenticated it reports zero and holds no subscription;
// on authentication it fetches once, opens one channel, and refetches
// on every change signal. Polling backstops missed signals.
type UnreadCounter struct {
	sessions *session.Store
	messages *client.MessagesClient
	adapter  *Adapter
	logger   *slog.Logger

	mu    sync.Mutex
	count int
}

func NewUnreadCounter(sessions *session.Store, messages *client.MessagesClient, adapter *Adapter, logger *slog.Logger) *UnreadCounter {
	return &UnreadCounter{sessions: sessions, messages: messages, adapter: adapter, logger: logger}
}

// Run follows session transitions until ctx ends. It owns exactly one
// subscription at a time and closes it on sign-out and on exit.
// onChange, when non-nil, receives every new count.
func (c *UnreadCounter) Run(ctx context.Context, onChange func(int)) {
	snapshots, cancel := c.sessions.Subscribe()
	defer cancel()

	var (
		sub     *Subscription
		stop    func()
		q       *query.Query[int]
		lastUID string
	)
	teardown := func() {
		if stop != nil {
			stop()
			stop = nil
		}
		if sub != nil {
			sub.Close()
			sub = nil
		}
		q = nil
		lastUID = ""
	}
	defer teardown()

	emit := func(n int) {
		c.mu.Lock()
		c.count = n
		c.mu.Unlock()
		if onChange != nil {
			onChange(n)
		}
	}
	emit(0)

	for {
		select {
		case <-ctx.Done():
			return
		case snap, ok := <-snapshots:
			if !ok {
				return
			}
			if !session.IsAuthenticatedUserSession(snap) {
				if sub != nil || q != nil {
					teardown()
				}
				emit(0)
				continue
			}
			if snap.UserID == lastUID && sub != nil {
				// token refresh only; the open channel stays up
				continue
			}
			teardown()
			lastUID = snap.UserID

			userID, creds := snap.UserID, snap.Credentials
			q = query.New(query.Config{
				Key:        "unread:" + userID,
				StaleAfter: unreadStaleAfter,
				PollEvery:  unreadPollEvery,
				Enabled: func() bool {
					return session.IsAuthenticatedUserSession(c.sessions.Snapshot())
				},
			}, func(ctx context.Context) (int, error) {
				return c.messages.GetUnreadCount(ctx, userID, c.sessions.Snapshot().Credentials)
			})

			if n, err := q.Get(ctx); err == nil {
				emit(n)
			} else {
				c.logger.Warn("initial unread fetch failed", "error", err)
			}
			stop = q.StartPolling(ctx)

			current := q
			s, err := c.adapter.Subscribe(ctx, userID, creds, func(ctx context.Context, table string) {
				if n, err := current.Refetch(ctx); err == nil {
					emit(n)
				}
			})
			if err != nil {
				c.logger.Warn("realtime subscribe failed, polling only", "error", err)
				continue
			}
			sub = s
		}
	}
}

// Count returns the last fetched tally, zero when signed out or never
// fetched.
func (c *UnreadCounter) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.count
}

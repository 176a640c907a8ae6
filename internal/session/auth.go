package session

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"golang.org/x/oauth2"

	"github.com/pawmate/pawmate/internal/security"
)

// TokenCache persists the identity provider's token pair between runs.
// This is the only place session tokens touch disk; UI state never
// holds them.
type TokenCache interface {
	Load() (*oauth2.Token, error)
	Save(*oauth2.Token) error
	Clear() error
}

// FileTokenCache stores the token pair as JSON with owner-only
// permissions.
type FileTokenCache struct{ Path string }

func (c *FileTokenCache) Load() (*oauth2.Token, error) {
	data, err := os.ReadFile(c.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read token cache: %w", err)
	}
	var tok oauth2.Token
	if err := json.Unmarshal(data, &tok); err != nil {
		return nil, fmt.Errorf("parse token cache: %w", err)
	}
	return &tok, nil
}

func (c *FileTokenCache) Save(tok *oauth2.Token) error {
	data, err := json.Marshal(tok)
	if err != nil {
		return fmt.Errorf("encode token cache: %w", err)
	}
	if err := os.WriteFile(c.Path, data, 0o600); err != nil {
		return fmt.Errorf("write token cache: %w", err)
	}
	return nil
}

func (c *FileTokenCache) Clear() error {
	if err := os.Remove(c.Path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove token cache: %w", err)
	}
	return nil
}

// Manager is the auth flow, the store's single writer. It drives every
// legal transition: restore on start, sign-in, refresh, sign-out.
type Manager struct {
	store    *Store
	provider IdentityProvider
	cache    TokenCache
	logger   *slog.Logger
}

func NewManager(store *Store, provider IdentityProvider, cache TokenCache, logger *slog.Logger) *Manager {
	return &Manager{store: store, provider: provider, cache: cache, logger: logger}
}

// Restore settles the Loading state from the persisted token pair. A
// missing or unusable pair lands in Unauthenticated; restoration never
// returns an error to the caller because there is nothing a caller can
// do about it beyond signing in again.
func (m *Manager) Restore(ctx context.Context) {
	tok, err := m.cache.Load()
	if err != nil {
		m.logger.Warn("token cache unreadable, starting signed out", "error", err)
		m.store.setUnauthenticated(ctx)
		return
	}
	if tok == nil || tok.RefreshToken == "" {
		m.store.setUnauthenticated(ctx)
		return
	}
	if tok.AccessToken != "" {
		if exp, ok := security.TokenExpiry(tok.AccessToken); ok && time.Until(exp) > time.Minute {
			if subject, ok := security.TokenSubject(tok.AccessToken); ok {
				m.store.setAuthenticated(ctx, subject, security.Credentials{
					AccessToken:  tok.AccessToken,
					RefreshToken: tok.RefreshToken,
				})
				return
			}
		}
	}
	identity, err := m.provider.Refresh(ctx, tok.RefreshToken)
	if err != nil {
		m.logger.Info("session restore failed, starting signed out", "error", err)
		_ = m.cache.Clear()
		m.store.setUnauthenticated(ctx)
		return
	}
	m.install(ctx, identity)
}

func (m *Manager) SignIn(ctx context.Context, email, password string) error {
	identity, err := m.provider.SignIn(ctx, email, password)
	if err != nil {
		return err
	}
	m.install(ctx, identity)
	return nil
}

// Refresh replaces the token pair atomically. On a refresh failure the
// session is invalidated: a stale pair must never linger as
// authenticated.
func (m *Manager) Refresh(ctx context.Context) error {
	snap := m.store.Snapshot()
	if !IsAuthenticatedUserSession(snap) {
		return fmt.Errorf("refresh requires an authenticated session")
	}
	identity, err := m.provider.Refresh(ctx, snap.Credentials.RefreshToken)
	if err != nil {
		_ = m.cache.Clear()
		m.store.setUnauthenticated(ctx)
		return err
	}
	m.install(ctx, identity)
	return nil
}

func (m *Manager) SignOut(ctx context.Context) error {
	snap := m.store.Snapshot()
	var err error
	if IsAuthenticatedUserSession(snap) {
		err = m.provider.SignOut(ctx, snap.Credentials)
	}
	_ = m.cache.Clear()
	m.store.setUnauthenticated(ctx)
	return err
}

func (m *Manager) install(ctx context.Context, identity *Identity) {
	if err := m.cache.Save(identity.Token); err != nil {
		m.logger.Warn("could not persist session", "error", err)
	}
	m.store.setAuthenticated(ctx, identity.UserID, security.Credentials{
		AccessToken:  identity.Token.AccessToken,
		RefreshToken: identity.Token.RefreshToken,
	})
}

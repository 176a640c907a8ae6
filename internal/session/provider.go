package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"golang.org/x/oauth2"

	"github.com/pawmate/pawmate/internal/security"
)

// Identity is what the identity provider hands back after a successful
// sign-in or refresh: the subject plus a complete token pair.
type Identity struct {
	UserID string
	Token  *oauth2.Token
}

// IdentityProvider abstracts the third-party auth backend. The store
// never talks HTTP itself.
type IdentityProvider interface {
	SignIn(ctx context.Context, email, password string) (*Identity, error)
	Refresh(ctx context.Context, refreshToken string) (*Identity, error)
	SignOut(ctx context.Context, creds security.Credentials) error
}

var ErrIncompleteIdentity = errors.New("identity provider returned a partial token pair")

// OAuth2Provider implements IdentityProvider against a password-grant
// token endpoint.
type OAuth2Provider struct {
	cfg  oauth2.Config
	base string
	http *http.Client
}

func NewOAuth2Provider(baseURL string, httpClient *http.Client) *OAuth2Provider {
	base := strings.TrimRight(baseURL, "/")
	return &OAuth2Provider{
		cfg: oauth2.Config{
			ClientID: "pawmate-client",
			Endpoint: oauth2.Endpoint{TokenURL: base + "/token"},
		},
		base: base,
		http: httpClient,
	}
}

func (p *OAuth2Provider) context(ctx context.Context) context.Context {
	if p.http != nil {
		return context.WithValue(ctx, oauth2.HTTPClient, p.http)
	}
	return ctx
}

func (p *OAuth2Provider) SignIn(ctx context.Context, email, password string) (*Identity, error) {
	tok, err := p.cfg.PasswordCredentialsToken(p.context(ctx), email, password)
	if err != nil {
		return nil, fmt.Errorf("exchange credentials: %w", err)
	}
	return identityFromToken(tok)
}

func (p *OAuth2Provider) Refresh(ctx context.Context, refreshToken string) (*Identity, error) {
	src := p.cfg.TokenSource(p.context(ctx), &oauth2.Token{RefreshToken: refreshToken})
	tok, err := src.Token()
	if err != nil {
		return nil, fmt.Errorf("refresh token: %w", err)
	}
	return identityFromToken(tok)
}

func (p *OAuth2Provider) SignOut(ctx context.Context, creds security.Credentials) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.base+"/logout", nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	for k, vs := range security.AuthHeaders(creds.AccessToken, creds.RefreshToken) {
		for _, v := range vs {
			req.Header.Set(k, v)
		}
	}
	client := p.http
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("dispatch request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("logout status %d", resp.StatusCode)
	}
	return nil
}

func identityFromToken(tok *oauth2.Token) (*Identity, error) {
	if tok == nil || tok.AccessToken == "" || tok.RefreshToken == "" {
		return nil, ErrIncompleteIdentity
	}
	subject, ok := security.TokenSubject(tok.AccessToken)
	if !ok {
		return nil, fmt.Errorf("access token carries no subject")
	}
	return &Identity{UserID: subject, Token: tok}, nil
}

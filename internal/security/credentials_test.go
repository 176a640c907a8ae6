package security

import (
	"testing"
	"time"
)

func TestAuthHeadersShape(t *testing.T) {
	h := AuthHeaders("acc-123", "ref-456")
	if got := h.Get("Authorization"); got != "Bearer acc-123" {
		t.Fatalf("Authorization=%q want %q", got, "Bearer acc-123")
	}
	if got := h.Get(RefreshTokenHeader); got != "ref-456" {
		t.Fatalf("Refresh-Token=%q want %q", got, "ref-456")
	}
	if len(h) != 2 {
		t.Fatalf("expected exactly 2 headers, got %d", len(h))
	}
}

func TestAuthHeadersTotalOverEmptyInputs(t *testing.T) {
	// Empty strings still produce both headers; nothing validates here.
	cases := []struct{ access, refresh string }{
		{"", ""},
		{"only-access", ""},
		{"", "only-refresh"},
	}
	for _, c := range cases {
		h := AuthHeaders(c.access, c.refresh)
		if got := h.Get("Authorization"); got != "Bearer "+c.access {
			t.Fatalf("Authorization=%q want %q", got, "Bearer "+c.access)
		}
		if got := h.Get(RefreshTokenHeader); got != c.refresh {
			t.Fatalf("Refresh-Token=%q want %q", got, c.refresh)
		}
	}
}

func TestCredentialsComplete(t *testing.T) {
	cases := map[Credentials]bool{
		{AccessToken: "a", RefreshToken: "r"}: true,
		{AccessToken: "a"}:                    false,
		{RefreshToken: "r"}:                   false,
		{}:                                    false,
	}
	for creds, want := range cases {
		if got := creds.Complete(); got != want {
			t.Fatalf("Complete(%+v)=%v want %v", creds, got, want)
		}
	}
}

func TestTokenSubjectAndExpiry(t *testing.T) {
	mgr := NewJWTManager("iss", "aud", "access-secret", "refresh-secret")
	raw, err := mgr.SignAccessToken("user-7", "Adopter", time.Hour)
	if err != nil {
		t.Fatalf("sign access token: %v", err)
	}

	sub, ok := TokenSubject(raw)
	if !ok || sub != "user-7" {
		t.Fatalf("TokenSubject=%q,%v want user-7,true", sub, ok)
	}
	exp, ok := TokenExpiry(raw)
	if !ok {
		t.Fatal("TokenExpiry should succeed on a signed token")
	}
	if until := time.Until(exp); until < 55*time.Minute || until > 65*time.Minute {
		t.Fatalf("expiry %v not near one hour out", until)
	}

	if _, ok := TokenSubject("not-a-jwt"); ok {
		t.Fatal("TokenSubject should fail on garbage")
	}
	if _, ok := TokenExpiry("not-a-jwt"); ok {
		t.Fatal("TokenExpiry should fail on garbage")
	}
}

package security

import (
	"testing"
	"time"
)

func TestJWTManagerRoundTrip(t *testing.T) {
	mgr := NewJWTManager("iss", "aud", "access-secret", "refresh-secret")

	access, err := mgr.SignAccessToken("user-1", "Rehomer", time.Minute)
	if err != nil {
		t.Fatalf("sign access: %v", err)
	}
	claims, err := mgr.ParseAccessToken(access)
	if err != nil {
		t.Fatalf("parse access: %v", err)
	}
	if claims.Subject != "user-1" || claims.UserType != "Rehomer" || claims.TokenType != "access" {
		t.Fatalf("unexpected claims: %+v", claims)
	}

	refresh, err := mgr.SignRefreshToken("user-1", time.Hour)
	if err != nil {
		t.Fatalf("sign refresh: %v", err)
	}
	if _, err := mgr.ParseRefreshToken(refresh); err != nil {
		t.Fatalf("parse refresh: %v", err)
	}
}

func TestJWTManagerRejectsCrossedTokenTypes(t *testing.T) {
	mgr := NewJWTManager("iss", "aud", "access-secret", "refresh-secret")

	access, err := mgr.SignAccessToken("user-1", "", time.Minute)
	if err != nil {
		t.Fatalf("sign access: %v", err)
	}
	if _, err := mgr.ParseRefreshToken(access); err == nil {
		t.Fatal("access token must not parse as refresh token")
	}

	refresh, err := mgr.SignRefreshToken("user-1", time.Minute)
	if err != nil {
		t.Fatalf("sign refresh: %v", err)
	}
	if _, err := mgr.ParseAccessToken(refresh); err == nil {
		t.Fatal("refresh token must not parse as access token")
	}
}

func TestJWTManagerRejectsWrongIssuerAndExpiry(t *testing.T) {
	mgr := NewJWTManager("iss", "aud", "s1", "s2")
	other := NewJWTManager("other-iss", "aud", "s1", "s2")

	tok, err := other.SignAccessToken("user-1", "", time.Minute)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := mgr.ParseAccessToken(tok); err == nil {
		t.Fatal("token from another issuer must be rejected")
	}

	expired, err := mgr.SignAccessToken("user-1", "", -time.Minute)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := mgr.ParseAccessToken(expired); err == nil {
		t.Fatal("expired token must be rejected")
	}
}

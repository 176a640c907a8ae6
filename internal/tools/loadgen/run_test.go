package loadgen

import (
	"encoding/base64"
	"math/rand"
	"strings"
	"testing"
)

func TestClassifyStatusClass(t *testing.T) {
	cases := map[int]string{
		200: "2xx",
		302: "3xx",
		404: "4xx",
		500: "5xx",
		100: "other",
		0:   "other",
	}
	for status, want := range cases {
		if got := classifyStatusClass(status); got != want {
			t.Fatalf("classifyStatusClass(%d)=%q want %q", status, got, want)
		}
	}
}

func TestNormalizeProfile(t *testing.T) {
	if got := normalizeProfile(""); got != "mixed" {
		t.Fatalf("normalizeProfile empty=%q want mixed", got)
	}
	if got := normalizeProfile("  BROWSE  "); got != "browse" {
		t.Fatalf("normalizeProfile browse=%q want browse", got)
	}
	if got := normalizeProfile("nonsense"); got != "mixed" {
		t.Fatalf("normalizeProfile nonsense=%q want mixed", got)
	}
}

func TestPickPathUsesProfile(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 20; i++ {
		p := pickPath("messaging", "u1", rng)
		if !strings.HasPrefix(p, "/messages/u1/") {
			t.Fatalf("messaging profile produced %q", p)
		}
	}
	for i := 0; i < 20; i++ {
		p := pickPath("browse", "u1", rng)
		if strings.HasPrefix(p, "/messages/") {
			t.Fatalf("browse profile produced messaging path %q", p)
		}
	}
}

func TestSubjectOf(t *testing.T) {
	payload := base64.RawURLEncoding.EncodeToString([]byte(`{"sub":"user-42"}`))
	token := "x." + payload + ".y"
	got, err := subjectOf(token)
	if err != nil {
		t.Fatalf("subjectOf: %v", err)
	}
	if got != "user-42" {
		t.Fatalf("subjectOf=%q want user-42", got)
	}
	if _, err := subjectOf("not-a-token"); err == nil {
		t.Fatal("expected error for malformed token")
	}
	empty := base64.RawURLEncoding.EncodeToString([]byte(`{}`))
	if _, err := subjectOf("x." + empty + ".y"); err == nil {
		t.Fatal("expected error for missing subject")
	}
}

// Package loadgen drives synthetic traffic at a running devserver so
// latency and error-rate dashboards have something to chew on.
package loadgen

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

type Config struct {
	BaseURL     string
	Profile     string // browse, messaging or mixed
	Duration    time.Duration
	RPS         int
	Concurrency int
	Seed        int64
}

type Result struct {
	TotalRequests int64
	Failures      int64
	StatusClasses map[string]int64
}

type account struct {
	userID string
	access string
}

// Run registers a throwaway account, then hammers the profile's
// endpoints until the duration elapses.
func Run(ctx context.Context, cfg Config) (*Result, error) {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 4
	}
	if cfg.RPS <= 0 {
		cfg.RPS = 10
	}
	profile := normalizeProfile(cfg.Profile)
	httpClient := &http.Client{Timeout: 10 * time.Second}

	acc, err := register(ctx, httpClient, cfg.BaseURL, cfg.Seed)
	if err != nil {
		return nil, fmt.Errorf("register load account: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, cfg.Duration)
	defer cancel()

	var total, failures int64
	classes := make(map[string]int64)
	var classMu sync.Mutex

	interval := time.Second / time.Duration(cfg.RPS)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var wg sync.WaitGroup
	requests := make(chan string)
	for i := 0; i < cfg.Concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for path := range requests {
				status := fire(ctx, httpClient, cfg.BaseURL+path, acc.access)
				atomic.AddInt64(&total, 1)
				if status >= 400 || status == 0 {
					atomic.AddInt64(&failures, 1)
				}
				classMu.Lock()
				classes[classifyStatusClass(status)]++
				classMu.Unlock()
			}
		}()
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
loop:
	for {
		select {
		case <-ctx.Done():
			break loop
		case <-ticker.C:
			requests <- pickPath(profile, acc.userID, rng)
		}
	}
	close(requests)
	wg.Wait()

	return &Result{TotalRequests: total, Failures: failures, StatusClasses: classes}, nil
}

func pickPath(profile, userID string, rng *rand.Rand) string {
	browse := []string{
		"/animals/" + userID + "/animals?page=1&pageSize=10",
		"/users/" + userID + "/profile",
		"/users/" + userID + "/preferences",
	}
	messaging := []string{
		"/messages/" + userID + "/conversations",
		"/messages/" + userID + "/unread",
	}
	switch profile {
	case "browse":
		return browse[rng.Intn(len(browse))]
	case "messaging":
		return messaging[rng.Intn(len(messaging))]
	default:
		all := append(browse, messaging...)
		return all[rng.Intn(len(all))]
	}
}

func fire(ctx context.Context, client *http.Client, rawURL, access string) int {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return 0
	}
	req.Header.Set("Authorization", "Bearer "+access)
	resp, err := client.Do(req)
	if err != nil {
		return 0
	}
	defer func() { _ = resp.Body.Close() }()
	return resp.StatusCode
}

func register(ctx context.Context, client *http.Client, baseURL string, seed int64) (*account, error) {
	email := fmt.Sprintf("loadgen-%d-%d@example.com", seed, time.Now().UnixNano())
	body, _ := json.Marshal(map[string]string{
		"email":       email,
		"password":    "loadgen-password",
		"displayName": "Load Generator",
	})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, baseURL+"/auth/register", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("register failed: %s", resp.Status)
	}
	var tok struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&tok); err != nil {
		return nil, err
	}
	userID, err := subjectOf(tok.AccessToken)
	if err != nil {
		return nil, err
	}
	return &account{userID: userID, access: tok.AccessToken}, nil
}

// subjectOf peeks at the unverified sub claim; loadgen only needs the
// id to build paths, the server still verifies the signature.
func subjectOf(token string) (string, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return "", fmt.Errorf("malformed token")
	}
	payload, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return "", err
	}
	var claims struct {
		Sub string `json:"sub"`
	}
	if err := json.Unmarshal(payload, &claims); err != nil {
		return "", err
	}
	if claims.Sub == "" {
		return "", fmt.Errorf("token has no subject")
	}
	return claims.Sub, nil
}

func normalizeProfile(p string) string {
	p = strings.ToLower(strings.TrimSpace(p))
	switch p {
	case "browse", "messaging", "mixed":
		return p
	case "":
		return "mixed"
	}
	return "mixed"
}

func classifyStatusClass(status int) string {
	switch {
	case status >= 200 && status < 300:
		return "2xx"
	case status >= 300 && status < 400:
		return "3xx"
	case status >= 400 && status < 500:
		return "4xx"
	case status >= 500 && status < 600:
		return "5xx"
	}
	return "other"
}

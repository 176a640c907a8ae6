// Package client holds the thin per-service API clients. Each operation
// builds the request path, attaches the credential headers, performs one
// HTTP call, validates the decoded response and collapses every failure
// mode into a single localized error for that operation. Clients never
// retry; retry and caching policy belong to the query layer.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/pawmate/pawmate/internal/domain"
	"github.com/pawmate/pawmate/internal/i18n"
	"github.com/pawmate/pawmate/internal/observability"
	"github.com/pawmate/pawmate/internal/security"
)

// envelope matches the backend response wrapper. Only success envelopes
// carry data; the client never inspects error details beyond logging.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
}

var (
	errEnvelopeFailure = errors.New("response envelope reported failure")
	errBadStatus       = errors.New("unexpected response status")
)

// OpError is the only error type resource clients return. Message is
// localized, user-facing text tied to the failed operation; the
// underlying cause is kept for logs and never rendered.
type OpError struct {
	Op      string
	Message string
	Err     error
}

func (e *OpError) Error() string { return e.Message }
func (e *OpError) Unwrap() error { return e.Err }

// Config is shared by all resource clients.
type Config struct {
	HTTPClient *http.Client
	Catalog    *i18n.Catalog
	Timeout    time.Duration
}

func (c Config) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return http.DefaultClient
}

func (c Config) timeout() time.Duration {
	if c.Timeout > 0 {
		return c.Timeout
	}
	return 15 * time.Second
}

type transport struct {
	baseURL string
	http    *http.Client
	timeout time.Duration
}

func newTransport(baseURL string, cfg Config) *transport {
	return &transport{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    cfg.httpClient(),
		timeout: cfg.timeout(),
	}
}

// call performs one JSON request/response round trip. dst must be a
// pointer; when non-nil the response data is decoded into it and its
// invariants checked. Strictly sequential per call: headers, dispatch,
// decode, validate.
func (t *transport) call(ctx context.Context, method, path string, creds security.Credentials, body any, dst domain.Validator) error {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	var reqBody io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reqBody = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, t.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	for k, vs := range security.AuthHeaders(creds.AccessToken, creds.RefreshToken) {
		for _, v := range vs {
			req.Header.Set(k, v)
		}
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := t.http.Do(req)
	if err != nil {
		return fmt.Errorf("dispatch request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: %d", errBadStatus, resp.StatusCode)
	}
	return decodeEnvelope(resp.Body, dst)
}

// upload performs one multipart file upload.
func (t *transport) upload(ctx context.Context, path string, creds security.Credentials, field, filename string, file io.Reader, dst domain.Validator) error {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile(field, filename)
	if err != nil {
		return fmt.Errorf("build multipart body: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return fmt.Errorf("read upload: %w", err)
	}
	if err := mw.Close(); err != nil {
		return fmt.Errorf("finish multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.baseURL+path, &buf)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	for k, vs := range security.AuthHeaders(creds.AccessToken, creds.RefreshToken) {
		for _, v := range vs {
			req.Header.Set(k, v)
		}
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := t.http.Do(req)
	if err != nil {
		return fmt.Errorf("dispatch request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: %d", errBadStatus, resp.StatusCode)
	}
	return decodeEnvelope(resp.Body, dst)
}

func decodeEnvelope(r io.Reader, dst domain.Validator) error {
	var env envelope
	if err := json.NewDecoder(r).Decode(&env); err != nil {
		return fmt.Errorf("decode envelope: %w", err)
	}
	if !env.Success {
		return errEnvelopeFailure
	}
	if dst == nil {
		return nil
	}
	if len(env.Data) == 0 {
		return fmt.Errorf("decode payload: missing data")
	}
	if err := json.Unmarshal(env.Data, dst); err != nil {
		return fmt.Errorf("decode payload: %w", err)
	}
	if err := dst.Validate(); err != nil {
		return fmt.Errorf("validate payload: %w", err)
	}
	return nil
}

// opError wraps any transport or validation failure into the single
// localized error for the operation and records the outcome.
func opError(ctx context.Context, catalog *i18n.Catalog, resource, op, msgKey string, err error) error {
	if err == nil {
		observability.RecordClientOperation(ctx, resource, op, "success")
		return nil
	}
	observability.RecordClientOperation(ctx, resource, op, classifyClientError(err))
	return &OpError{Op: resource + "." + op, Message: catalog.T(msgKey), Err: err}
}

func classifyClientError(err error) string {
	switch {
	case errors.Is(err, context.Canceled):
		return "canceled"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, errBadStatus):
		return "status"
	case errors.Is(err, errEnvelopeFailure):
		return "envelope"
	case strings.Contains(err.Error(), "validate payload"):
		return "validation"
	case strings.Contains(err.Error(), "decode"):
		return "decode"
	default:
		return "transport"
	}
}

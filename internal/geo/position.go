// Package geo wraps the two location collaborators: a one-shot position
// provider and the address autocomplete lookup. Position failures map
// onto four distinct causes, each with its own localized message.
package geo

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/pawmate/pawmate/internal/i18n"
)

// PositionTimeout is fixed; a position request never waits longer and
// never accepts a cached fix.
const PositionTimeout = 10 * time.Second

var (
	ErrPermissionDenied    = errors.New("location permission denied")
	ErrPositionUnavailable = errors.New("position unavailable")
	ErrPositionTimeout     = errors.New("position request timed out")
	ErrPositionUnknown     = errors.New("position request failed")
)

// Position is one resolved fix.
type Position struct {
	Latitude  float64
	Longitude float64
}

// Provider resolves the device position once per call.
type Provider interface {
	CurrentPosition(ctx context.Context) (Position, error)
}

// Localize maps a position failure to its user-facing message. Every
// failure cause gets distinct text; unknown causes share the generic
// one.
func Localize(err error, catalog *i18n.Catalog) string {
	switch {
	case errors.Is(err, ErrPermissionDenied):
		return catalog.T(i18n.KeyGeoPermissionDenied)
	case errors.Is(err, ErrPositionUnavailable):
		return catalog.T(i18n.KeyGeoPositionUnavailable)
	case errors.Is(err, ErrPositionTimeout):
		return catalog.T(i18n.KeyGeoTimeout)
	default:
		return catalog.T(i18n.KeyGeoUnknown)
	}
}

// HTTPProvider asks a location endpoint for the current position. The
// endpoint decides permission; the provider only classifies outcomes.
type HTTPProvider struct {
	URL  string
	HTTP *http.Client
}

type positionResponse struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

func (p *HTTPProvider) CurrentPosition(ctx context.Context) (Position, error) {
	ctx, cancel := context.WithTimeout(ctx, PositionTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.URL, nil)
	if err != nil {
		return Position{}, fmt.Errorf("%w: %v", ErrPositionUnknown, err)
	}
	// no caching anywhere in the path; a stale fix is worse than none
	req.Header.Set("Cache-Control", "no-cache, max-age=0")

	client := p.HTTP
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return Position{}, ErrPositionTimeout
		}
		return Position{}, fmt.Errorf("%w: %v", ErrPositionUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return Position{}, ErrPermissionDenied
	case resp.StatusCode >= 500 || resp.StatusCode == http.StatusNotFound:
		return Position{}, ErrPositionUnavailable
	case resp.StatusCode != http.StatusOK:
		return Position{}, fmt.Errorf("%w: status %d", ErrPositionUnknown, resp.StatusCode)
	}

	var body positionResponse
	if err := decodeJSON(resp, &body); err != nil {
		return Position{}, fmt.Errorf("%w: %v", ErrPositionUnknown, err)
	}
	if body.Latitude < -90 || body.Latitude > 90 || body.Longitude < -180 || body.Longitude > 180 {
		return Position{}, fmt.Errorf("%w: coordinates out of range", ErrPositionUnknown)
	}
	return Position{Latitude: body.Latitude, Longitude: body.Longitude}, nil
}

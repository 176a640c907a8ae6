package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/pawmate/pawmate/internal/i18n"
)

// Address is one autocomplete candidate.
type Address struct {
	DisplayName string
	Latitude    float64
	Longitude   float64
}

// Suggester looks up address candidates for free-text input, ordered by
// relevance. Results depend on the active display language.
type Suggester struct {
	URL     string
	HTTP    *http.Client
	Catalog *i18n.Catalog
	Limit   int
}

type suggestRow struct {
	DisplayName string `json:"display_name"`
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
}

func (s *Suggester) Suggest(ctx context.Context, text string, lang i18n.Lang) ([]Address, error) {
	limit := s.Limit
	if limit <= 0 {
		limit = 5
	}
	q := url.Values{}
	q.Set("q", text)
	q.Set("format", "json")
	q.Set("limit", strconv.Itoa(limit))
	q.Set("accept-language", string(lang))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, s.failure(err)
	}
	client := s.HTTP
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, s.failure(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, s.failure(fmt.Errorf("suggest status %d", resp.StatusCode))
	}

	var rows []suggestRow
	if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil {
		return nil, s.failure(err)
	}

	out := make([]Address, 0, len(rows))
	for _, row := range rows {
		lat, latErr := strconv.ParseFloat(row.Lat, 64)
		lon, lonErr := strconv.ParseFloat(row.Lon, 64)
		if latErr != nil || lonErr != nil || row.DisplayName == "" {
			continue
		}
		out = append(out, Address{DisplayName: row.DisplayName, Latitude: lat, Longitude: lon})
	}
	return out, nil
}

type suggestError struct {
	msg string
	err error
}

func (e *suggestError) Error() string { return e.msg }
func (e *suggestError) Unwrap() error { return e.err }

func (s *Suggester) failure(err error) error {
	return &suggestError{msg: s.Catalog.T(i18n.KeyGeoSuggestFailed), err: err}
}

func decodeJSON(resp *http.Response, dst any) error {
	return json.NewDecoder(resp.Body).Decode(dst)
}

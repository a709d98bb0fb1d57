// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package search fetches the newest candidate records for the fixed
// keyword query from the Scopus Search API.
package search

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/pdiddy/paperwatch/internal/httputil"
	"github.com/pdiddy/paperwatch/pkg/types"
)

// scopusSearchBase is the Scopus search endpoint. Declared as a var so
// tests can substitute an httptest server.
var scopusSearchBase = "https://api.elsevier.com/content/search/scopus"

// FetchError reports that the provider was unreachable or answered with a
// non-success status. The poll cycle aborts on it without touching state.
type FetchError struct {
	StatusCode int
	Body       string
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("scopus returned HTTP %d: %s", e.StatusCode, e.Body)
	}
	return fmt.Sprintf("scopus request failed: %v", e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Client queries Scopus for the newest records matching the configured
// keywords.
type Client struct {
	HTTP *http.Client
	cfg  types.SearchConfig
}

// NewClient returns a Client. Empty keyword and result settings fall back
// to types.DefaultKeywords and types.MaxCandidates.
func NewClient(httpClient *http.Client, cfg types.SearchConfig) *Client {
	if len(cfg.Keywords) == 0 {
		cfg.Keywords = types.DefaultKeywords
	}
	if cfg.MaxResults <= 0 {
		cfg.MaxResults = types.MaxCandidates
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	return &Client{HTTP: httpClient, cfg: cfg}
}

// BuildQuery ORs a TITLE() clause per keyword, e.g.
// "TITLE(hydrogen) OR TITLE(ammonia)".
func BuildQuery(keywords []string) string {
	parts := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		kw = strings.TrimSpace(kw)
		if kw == "" {
			continue
		}
		parts = append(parts, "TITLE("+kw+")")
	}
	return strings.Join(parts, " OR ")
}

// Fetch returns up to MaxResults records sorted newest cover date first,
// in provider order. Any failure is a *FetchError.
func (c *Client) Fetch(ctx context.Context) ([]types.Record, error) {
	params := url.Values{
		"query": {BuildQuery(c.cfg.Keywords)},
		"sort":  {"-coverDate"},
		"count": {strconv.Itoa(c.cfg.MaxResults)},
	}
	reqURL := scopusSearchBase + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, &FetchError{Err: fmt.Errorf("creating request: %w", err)}
	}
	req.Header.Set("X-ELS-APIKey", c.cfg.APIKey)
	req.Header.Set("Accept", "application/json")
	if c.cfg.UserAgent != "" {
		req.Header.Set("User-Agent", c.cfg.UserAgent)
	}

	resp, err := httputil.DoWithRetry(ctx, c.HTTP, req, 0)
	if err != nil {
		return nil, &FetchError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &FetchError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	var sr scopusResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return nil, &FetchError{Err: fmt.Errorf("parsing scopus response: %w", err)}
	}

	records := make([]types.Record, 0, len(sr.Results.Entries))
	for _, e := range sr.Results.Entries {
		// An empty result set comes back as one entry carrying only "error".
		if e.Error != "" {
			continue
		}
		records = append(records, types.Record{
			DOI:       valueOr(e.DOI, types.NoDOI),
			Title:     valueOr(e.Title, types.NoTitle),
			Creators:  valueOr(e.Creator, types.NoAuthor),
			CoverDate: valueOr(e.CoverDate, types.NoDate),
		})
	}
	return records, nil
}

func valueOr(v *string, marker string) string {
	if v == nil {
		return marker
	}
	return *v
}

// Scopus API JSON structures.
type scopusResponse struct {
	Results scopusResults `json:"search-results"`
}

type scopusResults struct {
	TotalResults string        `json:"opensearch:totalResults"`
	Entries      []scopusEntry `json:"entry"`
}

type scopusEntry struct {
	DOI       *string `json:"prism:doi"`
	Title     *string `json:"dc:title"`
	CoverDate *string `json:"prism:coverDate"`
	Creator   *string `json:"dc:creator"`
	Error     string  `json:"error"`
}

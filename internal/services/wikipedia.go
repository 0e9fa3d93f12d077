package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rahul4469/landmark-guide/internal/models"
)

// DefaultWikipediaBaseURL is the English Wikipedia; links stay English
// whatever language the description is shown in.
const DefaultWikipediaBaseURL = "https://en.wikipedia.org"

// WikiClient resolves place names to encyclopedia page URLs through the
// MediaWiki query API.
type WikiClient struct {
	BaseURL   string
	UserAgent string
	Client    *http.Client
}

// NewWikiClient creates a client against baseURL.
func NewWikiClient(baseURL, userAgent string) *WikiClient {
	if baseURL == "" {
		baseURL = DefaultWikipediaBaseURL
	}
	return &WikiClient{
		BaseURL:   strings.TrimRight(baseURL, "/"),
		UserAgent: userAgent,
		Client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type wikiQueryResponse struct {
	Query struct {
		Pages []struct {
			Title   string `json:"title"`
			Missing bool   `json:"missing"`
			Invalid bool   `json:"invalid"`
			FullURL string `json:"fullurl"`
		} `json:"pages"`
	} `json:"query"`
}

// PageURL returns the canonical URL of the page titled title, following
// redirects. It returns models.ErrPageNotFound when no such page exists.
func (w *WikiClient) PageURL(ctx context.Context, title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" || title == models.UnknownValue {
		return "", models.ErrPageNotFound
	}

	params := url.Values{}
	params.Set("action", "query")
	params.Set("format", "json")
	params.Set("formatversion", "2")
	params.Set("prop", "info")
	params.Set("inprop", "url")
	params.Set("redirects", "1")
	params.Set("titles", title)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, w.BaseURL+"/w/api.php?"+params.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	if w.UserAgent != "" {
		req.Header.Set("User-Agent", w.UserAgent)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := w.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to call wikipedia API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("wikipedia API error (status %d): %s", resp.StatusCode, string(body))
	}

	var qr wikiQueryResponse
	if err := json.NewDecoder(resp.Body).Decode(&qr); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	for _, p := range qr.Query.Pages {
		if !p.Missing && !p.Invalid && p.FullURL != "" {
			return p.FullURL, nil
		}
	}
	return "", fmt.Errorf("%w: %q", models.ErrPageNotFound, title)
}

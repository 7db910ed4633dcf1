package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/jonesrussell/incident-insight/internal/config"
	"github.com/jonesrussell/incident-insight/internal/domain"
	"github.com/jonesrussell/incident-insight/internal/logger"
)

// WebSearchClient queries the DuckDuckGo HTML endpoint and scrapes the
// result list. The HTML endpoint needs no API key and honors the kl region
// parameter.
type WebSearchClient struct {
	log     logger.Logger
	client  *http.Client
	baseURL string
}

// NewWebSearchClient creates a web search client from config.
func NewWebSearchClient(cfg config.WebSearchConfig, log logger.Logger) *WebSearchClient {
	if log == nil {
		log = logger.NewNop()
	}
	return &WebSearchClient{
		log:     log,
		client:  NewHTTPClient(&TransportConfig{Timeout: cfg.Timeout}),
		baseURL: cfg.BaseURL,
	}
}

// Search runs one query and returns up to params.MaxResults hits in result
// page order. Params must be validated by the caller.
func (c *WebSearchClient) Search(ctx context.Context, params domain.WebSearchParams) ([]domain.WebSearchHit, error) {
	form := url.Values{
		"q":  {params.Query},
		"kl": {params.Region},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create search request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search returned status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse search results: %w", err)
	}

	hits := make([]domain.WebSearchHit, 0, params.MaxResults)
	doc.Find("div.result").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if s.HasClass("result--ad") {
			return true
		}

		link := s.Find("a.result__a").First()
		title := strings.TrimSpace(link.Text())
		href, _ := link.Attr("href")
		if title == "" || href == "" {
			return true
		}

		hits = append(hits, domain.WebSearchHit{
			Position: len(hits) + 1,
			Title:    title,
			URL:      resolveRedirect(href),
			Snippet:  strings.TrimSpace(s.Find(".result__snippet").First().Text()),
		})
		return len(hits) < params.MaxResults
	})

	c.log.Debug("Web search completed",
		logger.String("query", params.Query),
		logger.Int("results", len(hits)),
	)

	return hits, nil
}

// resolveRedirect unwraps the DuckDuckGo click-tracking redirect so callers
// get the destination URL. Unknown link shapes pass through unchanged.
func resolveRedirect(href string) string {
	if !strings.Contains(href, "duckduckgo.com/l/") && !strings.HasPrefix(href, "/l/") {
		return href
	}

	raw := href
	if strings.HasPrefix(raw, "//") {
		raw = "https:" + raw
	} else if strings.HasPrefix(raw, "/") {
		raw = "https://duckduckgo.com" + raw
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return href
	}
	if target := parsed.Query().Get("uddg"); target != "" {
		return target
	}
	return href
}

package domain

import (
	"fmt"
	"strings"
)

// Web search parameter bounds.
const (
	DefaultWebResults = 5
	MinWebResults     = 1
	MaxWebResults     = 20
	DefaultWebRegion  = "wt-wt"
)

// WebSearchParams are the arguments of one web search.
type WebSearchParams struct {
	Query      string `json:"query"`
	MaxResults int    `json:"max_results"`
	Region     string `json:"region"`
}

// Validate applies defaults and rejects out-of-range values.
func (p *WebSearchParams) Validate() error {
	p.Query = strings.TrimSpace(p.Query)
	if p.Query == "" {
		return fmt.Errorf("query cannot be empty")
	}
	if p.MaxResults == 0 {
		p.MaxResults = DefaultWebResults
	}
	if p.MaxResults < MinWebResults || p.MaxResults > MaxWebResults {
		return fmt.Errorf("max_results must be between %d and %d", MinWebResults, MaxWebResults)
	}
	if p.Region == "" {
		p.Region = DefaultWebRegion
	}
	return nil
}

// WebSearchHit is one result row, numbered from 1.
type WebSearchHit struct {
	Position int    `json:"position"`
	Title    string `json:"title"`
	URL      string `json:"url"`
	Snippet  string `json:"snippet"`
}

// WebQueryInfo echoes the parameters a web search ran with.
type WebQueryInfo struct {
	Query      string `json:"query"`
	MaxResults int    `json:"max_results"`
	Region     string `json:"region"`
	Timestamp  string `json:"timestamp"`
}

// WebSearchResult is the JSON document the web search tool produces.
type WebSearchResult struct {
	QueryInfo    WebQueryInfo   `json:"query_info"`
	TotalResults int            `json:"total_results"`
	Results      []WebSearchHit `json:"results"`
}

package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jonesrussell/incident-insight/internal/domain"
	"github.com/jonesrussell/incident-insight/internal/logger"
)

// WebSearcher defines the web search backend. The concrete
// *client.WebSearchClient satisfies this interface.
type WebSearcher interface {
	Search(ctx context.Context, params domain.WebSearchParams) ([]domain.WebSearchHit, error)
}

// WebSearchService validates web search parameters and shapes results into
// the tool document format.
type WebSearchService struct {
	searcher WebSearcher
	log      logger.Logger
	now      func() time.Time
}

// NewWebSearchService creates the web search service.
func NewWebSearchService(searcher WebSearcher, log logger.Logger) *WebSearchService {
	if log == nil {
		log = logger.NewNop()
	}
	return &WebSearchService{
		searcher: searcher,
		log:      log,
		now:      time.Now,
	}
}

// Search runs one web search with validated parameters.
func (s *WebSearchService) Search(ctx context.Context, params domain.WebSearchParams) (*domain.WebSearchResult, error) {
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("invalid web search params: %w", err)
	}

	s.log.Info("Searching the web",
		logger.String("query", params.Query),
		logger.Int("max_results", params.MaxResults),
		logger.String("region", params.Region),
	)

	hits, err := s.searcher.Search(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("web search failed: %w", err)
	}

	return &domain.WebSearchResult{
		QueryInfo: domain.WebQueryInfo{
			Query:      params.Query,
			MaxResults: params.MaxResults,
			Region:     params.Region,
			Timestamp:  s.now().Format(time.RFC3339),
		},
		TotalResults: len(hits),
		Results:      hits,
	}, nil
}

// SearchDocument runs Search and renders the outcome as an indented JSON
// document, substituting an error document on failure.
func (s *WebSearchService) SearchDocument(ctx context.Context, params domain.WebSearchParams) string {
	result, err := s.Search(ctx, params)
	if err != nil {
		s.log.Error("Web search failed", logger.Error(err))
		return renderErrorDocument(err, webSearchErrorInfo{
			Query:      params.Query,
			MaxResults: params.MaxResults,
			Region:     params.Region,
		})
	}

	doc, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		s.log.Error("Failed to render web search result", logger.Error(err))
		return renderErrorDocument(err, webSearchErrorInfo{
			Query:      params.Query,
			MaxResults: params.MaxResults,
			Region:     params.Region,
		})
	}
	return string(doc)
}

type webSearchErrorInfo struct {
	Query      string `json:"query"`
	MaxResults int    `json:"max_results"`
	Region     string `json:"region"`
}

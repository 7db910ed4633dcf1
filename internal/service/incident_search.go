// Package service implements the incident search and web search operations
// exposed as tools. Both always render a JSON document: results on success,
// an error document on failure.
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/elastic/go-elasticsearch/v8/esapi"

	"github.com/jonesrussell/incident-insight/internal/domain"
	"github.com/jonesrussell/incident-insight/internal/elasticsearch"
	"github.com/jonesrussell/incident-insight/internal/logger"
)

// sampleLogLimit truncates full_log fields in sample projections.
const sampleLogLimit = 500

// aggregationSections are the response sections passed through into the
// result document.
var aggregationSections = []string{
	"by_level", "by_region", "by_groups", "by_agent", "by_decoder", "by_srcip", "timeline",
}

// SearchClient defines the alert store operations the service needs. The
// concrete *elasticsearch.Client satisfies this interface.
type SearchClient interface {
	Search(ctx context.Context, indexPattern string, body map[string]any) (*esapi.Response, error)
}

// IncidentSearchService runs incident queries and shapes their results into
// the report document format.
type IncidentSearchService struct {
	client  SearchClient
	builder *elasticsearch.IncidentQueryBuilder
	log     logger.Logger
	now     func() time.Time
}

// NewIncidentSearchService creates the incident search service.
func NewIncidentSearchService(client SearchClient, indexPrefix string, log logger.Logger) *IncidentSearchService {
	if log == nil {
		log = logger.NewNop()
	}
	return &IncidentSearchService{
		client:  client,
		builder: elasticsearch.NewIncidentQueryBuilder(indexPrefix),
		log:     log,
		now:     time.Now,
	}
}

// alertSource mirrors the nested alert document fields the sample projection
// reads.
type alertSource struct {
	Timestamp string `json:"timestamp"`
	Agent     struct {
		Name string `json:"name"`
		IP   string `json:"ip"`
	} `json:"agent"`
	Rule struct {
		Level       domain.Scalar `json:"level"`
		Description string        `json:"description"`
		Groups      []string      `json:"groups"`
	} `json:"rule"`
	Decoder struct {
		Name string `json:"name"`
	} `json:"decoder"`
	GeoLocation struct {
		RegionName  string `json:"region_name"`
		CountryName string `json:"country_name"`
	} `json:"GeoLocation"`
	Data struct {
		SrcIP string `json:"srcip"`
		URL   string `json:"url"`
	} `json:"data"`
	FullLog string `json:"full_log"`
}

type searchResponse struct {
	Hits struct {
		Total struct {
			Value int64 `json:"value"`
		} `json:"total"`
		Hits []struct {
			Source alertSource `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
	Aggregations map[string]json.RawMessage `json:"aggregations"`
}

// Search executes one incident query over the configured daily indices.
func (s *IncidentSearchService) Search(ctx context.Context, params domain.SearchParams) (*domain.SearchResult, error) {
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("invalid search params: %w", err)
	}

	now := s.now()
	indexPattern, body := s.builder.Build(params, now)
	startDate, endDate := s.builder.DateRange(params.Days, now)

	s.log.Info("Searching incidents",
		logger.Int("days", params.Days),
		logger.Int("max_sample_size", params.MaxSampleSize),
		logger.String("query_type", params.QueryType),
	)

	res, err := s.client.Search(ctx, indexPattern, body)
	if err != nil {
		return nil, fmt.Errorf("incident query failed: %w", err)
	}
	defer func() {
		_ = res.Body.Close()
	}()

	parsed, err := decodeSearchResponse(res.Body)
	if err != nil {
		return nil, err
	}

	result := &domain.SearchResult{
		QueryInfo: domain.QueryInfo{
			StartDate:     startDate,
			EndDate:       endDate,
			Days:          params.Days,
			IndexPattern:  indexPattern,
			MaxSampleSize: params.MaxSampleSize,
		},
		TotalHits:    parsed.Hits.Total.Value,
		Samples:      make([]domain.IncidentSample, 0, len(parsed.Hits.Hits)),
		Aggregations: projectAggregations(parsed.Aggregations),
	}

	for i := range parsed.Hits.Hits {
		result.Samples = append(result.Samples, projectSample(&parsed.Hits.Hits[i].Source))
	}

	s.log.Info("Incident search completed",
		logger.Int64("total_hits", result.TotalHits),
		logger.Int("samples", len(result.Samples)),
	)

	return result, nil
}

// SearchDocument runs Search and renders the outcome as an indented JSON
// document. Failures become error documents instead of Go errors so the
// caller always has one document to hand to the model.
func (s *IncidentSearchService) SearchDocument(ctx context.Context, params domain.SearchParams) string {
	result, err := s.Search(ctx, params)
	if err != nil {
		s.log.Error("Incident search failed", logger.Error(err))
		return renderErrorDocument(err, searchErrorInfo{
			Days:          params.Days,
			MaxSampleSize: params.MaxSampleSize,
			QueryType:     params.QueryType,
		})
	}

	doc, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		s.log.Error("Failed to render search result", logger.Error(err))
		return renderErrorDocument(err, searchErrorInfo{
			Days:          params.Days,
			MaxSampleSize: params.MaxSampleSize,
			QueryType:     params.QueryType,
		})
	}
	return string(doc)
}

type searchErrorInfo struct {
	Days          int    `json:"days"`
	MaxSampleSize int    `json:"max_sample_size"`
	QueryType     string `json:"query_type"`
}

func decodeSearchResponse(body io.Reader) (*searchResponse, error) {
	var parsed searchResponse
	if err := json.NewDecoder(body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}
	return &parsed, nil
}

// projectSample flattens one alert document into the sample shape. Missing
// groups become an empty list, not null, and long logs are truncated.
func projectSample(src *alertSource) domain.IncidentSample {
	groups := src.Rule.Groups
	if groups == nil {
		groups = []string{}
	}
	return domain.IncidentSample{
		Timestamp:       src.Timestamp,
		AgentName:       src.Agent.Name,
		AgentIP:         src.Agent.IP,
		RuleLevel:       src.Rule.Level,
		RuleDescription: src.Rule.Description,
		RuleGroups:      groups,
		DecoderName:     src.Decoder.Name,
		RegionName:      src.GeoLocation.RegionName,
		CountryName:     src.GeoLocation.CountryName,
		SrcIP:           src.Data.SrcIP,
		URL:             src.Data.URL,
		FullLog:         truncateRunes(src.FullLog, sampleLogLimit),
	}
}

// projectAggregations keeps only the known sections, each reduced to its
// bucket list. Sections the backend did not return are simply absent.
func projectAggregations(aggs map[string]json.RawMessage) map[string]json.RawMessage {
	if len(aggs) == 0 {
		return nil
	}

	out := make(map[string]json.RawMessage, len(aggregationSections))
	for _, name := range aggregationSections {
		raw, ok := aggs[name]
		if !ok {
			continue
		}
		var section struct {
			Buckets json.RawMessage `json:"buckets"`
		}
		if err := json.Unmarshal(raw, &section); err != nil || section.Buckets == nil {
			continue
		}
		wrapped, err := json.Marshal(map[string]json.RawMessage{"buckets": section.Buckets})
		if err != nil {
			continue
		}
		out[name] = wrapped
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// renderErrorDocument builds the error document downstream parsers key on.
func renderErrorDocument(err error, queryInfo any) string {
	doc, marshalErr := json.MarshalIndent(domain.ErrorDocument{
		Error:     err.Error(),
		QueryInfo: queryInfo,
	}, "", "  ")
	if marshalErr != nil {
		return fmt.Sprintf(`{"error": %q}`, err.Error())
	}
	return string(doc)
}

func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}

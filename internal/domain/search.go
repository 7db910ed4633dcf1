package domain

import (
	"encoding/json"
	"fmt"
)

// Query types accepted by the incident search.
const (
	// QueryTypeAll returns sample documents plus every aggregation.
	QueryTypeAll = "all"
	// QueryTypeSample skips documents and aggregations, returning the
	// match count alone.
	QueryTypeSample = "sample"
)

// Default search parameter values.
const (
	DefaultDays          = 7
	DefaultMaxSampleSize = 1000
	MaxQueryDays         = 365
)

// SearchParams are the arguments of one incident search.
type SearchParams struct {
	Days          int    `json:"days"`
	MaxSampleSize int    `json:"max_sample_size"`
	QueryType     string `json:"query_type"`
}

// Validate applies defaults and rejects values the index cannot serve.
func (p *SearchParams) Validate() error {
	if p.QueryType == "" {
		p.QueryType = QueryTypeAll
	}
	if p.QueryType != QueryTypeAll && p.QueryType != QueryTypeSample {
		return fmt.Errorf("invalid query_type: %s", p.QueryType)
	}
	if p.Days < 1 {
		return fmt.Errorf("days must be at least 1, got %d", p.Days)
	}
	if p.Days > MaxQueryDays {
		return fmt.Errorf("days exceeds maximum of %d", MaxQueryDays)
	}
	if p.MaxSampleSize < 0 {
		return fmt.Errorf("max_sample_size must not be negative, got %d", p.MaxSampleSize)
	}
	return nil
}

// QueryInfo echoes the parameters a search was executed with.
type QueryInfo struct {
	StartDate     string `json:"start_date"`
	EndDate       string `json:"end_date"`
	Days          int    `json:"days"`
	IndexPattern  string `json:"index_pattern"`
	MaxSampleSize int    `json:"max_sample_size"`
}

// IncidentSample is a read-only projection of one sampled alert document.
type IncidentSample struct {
	Timestamp       string   `json:"timestamp"`
	AgentName       string   `json:"agent_name"`
	AgentIP         string   `json:"agent_ip"`
	RuleLevel       Scalar   `json:"rule_level"`
	RuleDescription string   `json:"rule_description"`
	RuleGroups      []string `json:"rule_groups"`
	DecoderName     string   `json:"decoder_name"`
	RegionName      string   `json:"region_name"`
	CountryName     string   `json:"country_name"`
	SrcIP           string   `json:"src_ip"`
	URL             string   `json:"url"`
	FullLog         string   `json:"full_log"`
}

// SearchResult is the JSON document the incident search tool produces. The
// aggregation sections pass through unparsed; the report parser owns their
// interpretation.
type SearchResult struct {
	QueryInfo    QueryInfo                  `json:"query_info"`
	TotalHits    int64                      `json:"total_hits"`
	Samples      []IncidentSample           `json:"sample_incidents"`
	Aggregations map[string]json.RawMessage `json:"aggregations,omitempty"`
}

// ErrorDocument is emitted in place of a result when a tool fails. The
// error key short-circuits downstream parsing.
type ErrorDocument struct {
	Error     string `json:"error"`
	QueryInfo any    `json:"query_info"`
}

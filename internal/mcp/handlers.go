package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/jonesrussell/incident-insight/internal/domain"
)

// flexInt decodes a JSON integer or a digit string into an int, matching
// the integer-or-string anyOf in the tool schemas.
type flexInt int

func (f *flexInt) UnmarshalJSON(data []byte) error {
	var n int
	if err := json.Unmarshal(data, &n); err == nil {
		*f = flexInt(n)
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("expected integer or digit string, got %s", string(data))
	}

	n, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("expected integer or digit string, got %q", s)
	}

	*f = flexInt(n)
	return nil
}

// handleSearchIncidents executes the search_wazuh_incidents tool. Absent
// arguments take the schema defaults; search failures are rendered into
// the document itself.
func (s *Server) handleSearchIncidents(ctx context.Context, id any, arguments json.RawMessage) *Response {
	var args struct {
		Days          *flexInt `json:"days"`
		MaxSampleSize *flexInt `json:"max_sample_size"`
		QueryType     string   `json:"query_type"`
	}

	if len(arguments) > 0 {
		if err := json.Unmarshal(arguments, &args); err != nil {
			return s.errorResponse(id, InvalidParams, "Invalid arguments: "+err.Error())
		}
	}

	params := domain.SearchParams{
		Days:          domain.DefaultDays,
		MaxSampleSize: domain.DefaultMaxSampleSize,
		QueryType:     domain.QueryTypeAll,
	}
	if args.Days != nil {
		params.Days = int(*args.Days)
	}
	if args.MaxSampleSize != nil {
		params.MaxSampleSize = int(*args.MaxSampleSize)
	}
	if args.QueryType != "" {
		params.QueryType = args.QueryType
	}

	return s.textResponse(id, s.incidents.SearchDocument(ctx, params))
}

// handleWebSearch executes the web_search tool.
func (s *Server) handleWebSearch(ctx context.Context, id any, arguments json.RawMessage) *Response {
	var args struct {
		Query      string   `json:"query"`
		MaxResults *flexInt `json:"max_results"`
		Region     string   `json:"region"`
	}

	if len(arguments) > 0 {
		if err := json.Unmarshal(arguments, &args); err != nil {
			return s.errorResponse(id, InvalidParams, "Invalid arguments: "+err.Error())
		}
	}

	params := domain.WebSearchParams{
		Query:      args.Query,
		MaxResults: domain.DefaultWebResults,
		Region:     domain.DefaultWebRegion,
	}
	if args.MaxResults != nil {
		params.MaxResults = int(*args.MaxResults)
	}
	if args.Region != "" {
		params.Region = args.Region
	}

	return s.textResponse(id, s.web.SearchDocument(ctx, params))
}

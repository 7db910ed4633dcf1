package elasticsearch

import (
	"strings"
	"time"

	"github.com/jonesrussell/incident-insight/internal/domain"
)

const (
	// aggTermSize caps every terms aggregation; rankings never need more.
	aggTermSize = 20

	// dateLayout is the timestamp format the alert store indexes use.
	dateLayout = "2006-01-02T15:04:05"

	// indexDateLayout is the date suffix of the daily alert indices.
	indexDateLayout = "2006.01.02"
)

// IncidentQueryBuilder builds incident queries over the daily alert indices.
type IncidentQueryBuilder struct {
	indexPrefix string
}

// NewIncidentQueryBuilder creates a query builder for indices named
// prefix + date, e.g. wazuh-alerts-4.x-2025.11.28.
func NewIncidentQueryBuilder(indexPrefix string) *IncidentQueryBuilder {
	return &IncidentQueryBuilder{indexPrefix: indexPrefix}
}

// Build constructs the index pattern and query body covering the last
// params.Days days ending at now. Aggregations are attached only for the
// "all" query type; the "sample" type fetches aggregate counts with no
// documents.
func (qb *IncidentQueryBuilder) Build(params domain.SearchParams, now time.Time) (string, map[string]any) {
	start, end := qb.DateRange(params.Days, now)

	size := 0
	if params.QueryType == domain.QueryTypeAll {
		size = params.MaxSampleSize
	}

	body := map[string]any{
		// Accurate totals, not capped at 10000.
		"track_total_hits": true,
		"query": map[string]any{
			"bool": map[string]any{
				"must": []any{
					map[string]any{
						"range": map[string]any{
							"timestamp": map[string]any{
								"gte": start,
								"lte": end,
							},
						},
					},
				},
			},
		},
		"size": size,
		"sort": []any{
			map[string]any{"timestamp": map[string]any{"order": "desc"}},
		},
	}

	if params.QueryType == domain.QueryTypeAll {
		body["aggs"] = qb.buildAggregations()
	}

	return qb.IndexPattern(params.Days, now), body
}

// IndexPattern returns the comma-separated daily indices for the last days
// days ending at now, oldest first.
func (qb *IncidentQueryBuilder) IndexPattern(days int, now time.Time) string {
	indices := make([]string, 0, days)
	for i := days - 1; i >= 0; i-- {
		day := now.AddDate(0, 0, -i)
		indices = append(indices, qb.indexPrefix+day.Format(indexDateLayout))
	}
	return strings.Join(indices, ",")
}

// DateRange returns the inclusive timestamp bounds for the last days days
// ending at now: midnight at the start of the window through the last second
// of today.
func (qb *IncidentQueryBuilder) DateRange(days int, now time.Time) (string, string) {
	start := now.AddDate(0, 0, -(days - 1))
	startOfDay := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, start.Location())
	endOfDay := time.Date(now.Year(), now.Month(), now.Day(), 23, 59, 59, 0, now.Location())
	return startOfDay.Format(dateLayout), endOfDay.Format(dateLayout)
}

func (qb *IncidentQueryBuilder) buildAggregations() map[string]any {
	return map[string]any{
		"by_level": map[string]any{
			"terms": map[string]any{"field": "rule.level", "size": aggTermSize},
		},
		"by_region": map[string]any{
			"terms": map[string]any{"field": "GeoLocation.country_name", "size": aggTermSize, "missing": domain.Sentinel},
		},
		"by_groups": map[string]any{
			"terms": map[string]any{"field": "rule.groups", "size": aggTermSize},
		},
		"by_agent": map[string]any{
			"terms": map[string]any{"field": "agent.name", "size": aggTermSize},
		},
		"by_decoder": map[string]any{
			"terms": map[string]any{"field": "decoder.name", "size": aggTermSize},
		},
		"by_srcip": map[string]any{
			"terms": map[string]any{"field": "data.srcip", "size": aggTermSize, "missing": domain.Sentinel},
		},
		"timeline": map[string]any{
			"date_histogram": map[string]any{
				"field":             "timestamp",
				"calendar_interval": "day",
				"format":            "yyyy-MM-dd",
			},
		},
	}
}

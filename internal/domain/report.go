package domain

// Sentinel is the literal marker the index emits when a record has no value
// for a dimension. It may appear in listings but never wins a ranking.
const Sentinel = "N/A"

// Bucket is one (label, count) pair from a grouping aggregation. Buckets keep
// the order of the source response; rankings use that order to break ties.
type Bucket struct {
	Key   string `json:"key"`
	Count int64  `json:"count"`
}

// TimelinePoint is one calendar day's incident count.
type TimelinePoint struct {
	Date  string `json:"date"`
	Count int64  `json:"count"`
}

// AggregationSet holds the parsed dimensions of one incident query.
type AggregationSet struct {
	Severity []Bucket        `json:"severity"`
	Regions  []Bucket        `json:"regions"`
	Types    []Bucket        `json:"types"`
	Agents   []Bucket        `json:"agents"`
	Decoders []Bucket        `json:"decoders"`
	SrcIPs   []Bucket        `json:"srcips"`
	Timeline []TimelinePoint `json:"timeline"`
}

// SummaryStatistics are the derived report numbers, computed once per query.
type SummaryStatistics struct {
	TotalIncidents  int64   `json:"total_incidents"`
	DailyAverage    float64 `json:"daily_average"`
	CriticalCount   int64   `json:"critical_count"`
	TopCountry      string  `json:"top_country"`
	TopCountryCount int64   `json:"top_country_count"`
	TopIncidentType string  `json:"top_incident_type"`
	TopTypeCount    int64   `json:"top_incident_type_count"`
	TopSrcIP        string  `json:"top_srcip"`
	TopSrcIPCount   int64   `json:"top_srcip_count"`
}

// IncidentReport is the fully parsed form of one search result document.
type IncidentReport struct {
	QueryInfo    QueryInfo
	TotalHits    int64
	Aggregations AggregationSet
	Samples      []IncidentSample
}

// Package report turns raw incident query documents into parsed
// aggregations, derived statistics, and the formatted Czech analysis block
// consumed by the LLM and PDF layers.
package report

import (
	"encoding/json"
	"fmt"

	"github.com/jonesrussell/incident-insight/internal/domain"
)

// Aggregation section names produced by the incident query.
const (
	sectionLevel    = "by_level"
	sectionRegion   = "by_region"
	sectionGroups   = "by_groups"
	sectionAgent    = "by_agent"
	sectionDecoder  = "by_decoder"
	sectionSrcIP    = "by_srcip"
	sectionTimeline = "timeline"
)

// rawBucket mirrors one aggregation bucket on the wire. Severity keys arrive
// as numbers, everything else as strings; Scalar normalizes both.
type rawBucket struct {
	Key         domain.Scalar `json:"key"`
	KeyAsString string        `json:"key_as_string"`
	DocCount    int64         `json:"doc_count"`
}

type rawSection struct {
	Buckets []rawBucket `json:"buckets"`
}

// envelope mirrors the top level of a search result document. Sections are
// kept raw so one undecodable section cannot fail the whole document.
type envelope struct {
	Error        json.RawMessage `json:"error"`
	QueryInfo    json.RawMessage `json:"query_info"`
	TotalHits    int64           `json:"total_hits"`
	Samples      json.RawMessage `json:"sample_incidents"`
	Aggregations json.RawMessage `json:"aggregations"`
}

type rawQueryInfo struct {
	StartDate     string `json:"start_date"`
	EndDate       string `json:"end_date"`
	Days          *int   `json:"days"`
	IndexPattern  string `json:"index_pattern"`
	MaxSampleSize int    `json:"max_sample_size"`
}

// ParseDocument parses one incident search document. An error field in the
// document aborts with ErrUpstream; a document that does not decode at all
// is ErrMalformedInput. Absent or undecodable sections degrade to empty
// results so a partially failed query still yields a sparse report.
func ParseDocument(data []byte) (*domain.IncidentReport, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}
	if msg, ok := upstreamMessage(env.Error); ok {
		return nil, fmt.Errorf("%w: %s", ErrUpstream, msg)
	}

	return &domain.IncidentReport{
		QueryInfo:    parseQueryInfo(env.QueryInfo),
		TotalHits:    env.TotalHits,
		Aggregations: parseAggregations(env.Aggregations),
		Samples:      parseSamples(env.Samples),
	}, nil
}

// ParseAggregationSections parses the named aggregation sections of a query
// response. Every section is optional; missing ones yield empty dimensions.
func ParseAggregationSections(sections map[string]json.RawMessage) domain.AggregationSet {
	return domain.AggregationSet{
		Severity: parseBuckets(sections[sectionLevel]),
		Regions:  parseBuckets(sections[sectionRegion]),
		Types:    parseBuckets(sections[sectionGroups]),
		Agents:   parseBuckets(sections[sectionAgent]),
		Decoders: parseBuckets(sections[sectionDecoder]),
		SrcIPs:   parseBuckets(sections[sectionSrcIP]),
		Timeline: parseTimeline(sections[sectionTimeline]),
	}
}

// upstreamMessage reports whether the error field carries a value and
// renders it as text. The field is usually a plain string but producers
// have been seen emitting structured errors as well.
func upstreamMessage(raw json.RawMessage) (string, bool) {
	if len(raw) == 0 || string(raw) == "null" {
		return "", false
	}
	var msg string
	if err := json.Unmarshal(raw, &msg); err == nil {
		return msg, true
	}
	return string(raw), true
}

func parseQueryInfo(raw json.RawMessage) domain.QueryInfo {
	info := domain.QueryInfo{Days: domain.DefaultDays}
	if len(raw) == 0 {
		return info
	}
	var parsed rawQueryInfo
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return info
	}
	info.StartDate = parsed.StartDate
	info.EndDate = parsed.EndDate
	info.IndexPattern = parsed.IndexPattern
	info.MaxSampleSize = parsed.MaxSampleSize
	// An absent day span defaults; an explicit non-positive one is kept so
	// the statistics step can reject it.
	if parsed.Days != nil {
		info.Days = *parsed.Days
	}
	return info
}

func parseAggregations(raw json.RawMessage) domain.AggregationSet {
	if len(raw) == 0 {
		return domain.AggregationSet{}
	}
	var sections map[string]json.RawMessage
	if err := json.Unmarshal(raw, &sections); err != nil {
		return domain.AggregationSet{}
	}
	return ParseAggregationSections(sections)
}

func parseSamples(raw json.RawMessage) []domain.IncidentSample {
	if len(raw) == 0 {
		return nil
	}
	var samples []domain.IncidentSample
	if err := json.Unmarshal(raw, &samples); err != nil {
		return nil
	}
	return samples
}

// parseBuckets projects one bucket list into ordered (key, count) pairs.
// Duplicate keys keep their first position with the last value winning.
func parseBuckets(raw json.RawMessage) []domain.Bucket {
	if len(raw) == 0 {
		return nil
	}
	var section rawSection
	if err := json.Unmarshal(raw, &section); err != nil {
		return nil
	}
	if len(section.Buckets) == 0 {
		return nil
	}

	out := make([]domain.Bucket, 0, len(section.Buckets))
	seen := make(map[string]int, len(section.Buckets))
	for _, b := range section.Buckets {
		key := b.Key.String()
		if idx, ok := seen[key]; ok {
			out[idx].Count = b.DocCount
			continue
		}
		seen[key] = len(out)
		out = append(out, domain.Bucket{Key: key, Count: b.DocCount})
	}
	return out
}

// parseTimeline keeps the source order of the date histogram, which the
// backend returns ascending with one bucket per calendar day.
func parseTimeline(raw json.RawMessage) []domain.TimelinePoint {
	if len(raw) == 0 {
		return nil
	}
	var section rawSection
	if err := json.Unmarshal(raw, &section); err != nil {
		return nil
	}
	if len(section.Buckets) == 0 {
		return nil
	}

	out := make([]domain.TimelinePoint, 0, len(section.Buckets))
	for _, b := range section.Buckets {
		date := b.KeyAsString
		if date == "" {
			date = b.Key.String()
		}
		out = append(out, domain.TimelinePoint{Date: date, Count: b.DocCount})
	}
	return out
}

package report

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/jonesrussell/incident-insight/internal/domain"
)

// Formatting limits.
const (
	topCategoryLimit = 10
	topSrcIPLimit    = 20
	logLineLimit     = 200

	// DefaultSampleLimit caps how many sample incidents the block lists.
	DefaultSampleLimit = 200
)

// FormatAnalysisInput renders a parsed document and its derived statistics
// into the fixed Czech analysis block. The output is a pure function of the
// input: section headers and their order are stable, rankings sort by count
// descending with ties kept in source order, and severity sorts ascending
// by level. At most sampleLimit sample incidents are listed (0 means the
// default cap); missing sample fields render as the sentinel.
func FormatAnalysisInput(rep *domain.IncidentReport, stats domain.SummaryStatistics, sampleLimit int) string {
	if sampleLimit <= 0 {
		sampleLimit = DefaultSampleLimit
	}
	aggs := rep.Aggregations

	var b strings.Builder
	b.WriteString("\nPŘEHLED BEZPEČNOSTNÍCH INCIDENTŮ\n\n")
	b.WriteString("Základní statistiky:\n")
	fmt.Fprintf(&b, "- Celkový počet incidentů: %d\n", stats.TotalIncidents)
	fmt.Fprintf(&b, "- Denní průměr: %s\n", strconv.FormatFloat(stats.DailyAverage, 'f', 1, 64))
	fmt.Fprintf(&b, "- Kritické incidenty (úroveň >9): %d\n", stats.CriticalCount)
	fmt.Fprintf(&b, "- Země která je největším zdrojem incidentů: %s\n", stats.TopCountry)
	fmt.Fprintf(&b, "- Nejčastější typ incidentu: %s\n", stats.TopIncidentType)
	fmt.Fprintf(&b, "- Nejaktivnější útočící IP: %s (%d útoků)\n", stats.TopSrcIP, stats.TopSrcIPCount)
	b.WriteString("\n")

	writeBlock(&b, "Distribuce podle závažnosti:", severityLines(sortedByLevel(aggs.Severity)))
	writeBlock(&b, "Časová osa (denní počty):", timelineLines(aggs.Timeline))
	writeBlock(&b, "Top 10 zemí podle počtu incidentů:", countLines(topN(aggs.Regions, topCategoryLimit), ""))
	writeBlock(&b, "Top 10 typů incidentů:", countLines(topN(aggs.Types, topCategoryLimit), ""))
	writeBlock(&b, "Top 10 serverů (agentů) s nejvíce incidenty:", countLines(topN(aggs.Agents, topCategoryLimit), ""))
	writeBlock(&b, "Top 10 dekoderů:", countLines(topN(aggs.Decoders, topCategoryLimit), ""))
	writeBlock(&b, "Top 20 útočících IP adres:", countLines(topN(aggs.SrcIPs, topSrcIPLimit), "útoků"))

	fmt.Fprintf(&b, "Vzorky incidentů (prvních %d):\n", sampleLimit)
	samples := rep.Samples
	if len(samples) > sampleLimit {
		samples = samples[:sampleLimit]
	}
	for i, s := range samples {
		fmt.Fprintf(&b, "\nIncident #%d:\n", i+1)
		fmt.Fprintf(&b, "  - Čas: %s\n", orSentinel(s.Timestamp))
		fmt.Fprintf(&b, "  - Server: %s\n", orSentinel(s.AgentName))
		fmt.Fprintf(&b, "  - Závažnost: %s\n", orSentinel(s.RuleLevel.String()))
		fmt.Fprintf(&b, "  - Popis: %s\n", orSentinel(s.RuleDescription))
		fmt.Fprintf(&b, "  - Typy: %s\n", strings.Join(s.RuleGroups, ", "))
		fmt.Fprintf(&b, "  - Země: %s\n", orSentinel(s.CountryName))
		fmt.Fprintf(&b, "  - Zdrojová IP: %s\n", orSentinel(s.SrcIP))
		fmt.Fprintf(&b, "  - URL: %s\n", orSentinel(s.URL))
		fmt.Fprintf(&b, "  - Log: %s\n", truncateRunes(orSentinel(s.FullLog), logLineLimit))
	}

	return b.String()
}

// writeBlock emits a section header followed by its joined lines. An empty
// section leaves an empty line in place of the block, mirroring the
// template's behavior for sparse data.
func writeBlock(b *strings.Builder, header string, lines []string) {
	b.WriteString(header)
	b.WriteString("\n")
	b.WriteString(strings.Join(lines, "\n"))
	b.WriteString("\n\n")
}

func severityLines(buckets []domain.Bucket) []string {
	lines := make([]string, 0, len(buckets))
	for _, bucket := range buckets {
		lines = append(lines, fmt.Sprintf("  - Úroveň %s: %d incidentů", bucket.Key, bucket.Count))
	}
	return lines
}

func countLines(buckets []domain.Bucket, unit string) []string {
	lines := make([]string, 0, len(buckets))
	for _, bucket := range buckets {
		if unit == "" {
			lines = append(lines, fmt.Sprintf("  - %s: %d", bucket.Key, bucket.Count))
			continue
		}
		lines = append(lines, fmt.Sprintf("  - %s: %d %s", bucket.Key, bucket.Count, unit))
	}
	return lines
}

func timelineLines(points []domain.TimelinePoint) []string {
	lines := make([]string, 0, len(points))
	for _, p := range points {
		lines = append(lines, fmt.Sprintf("  - %s: %d incidentů", p.Date, p.Count))
	}
	return lines
}

// topN sorts a dimension by count descending and keeps the first n entries.
// The stable sort preserves source bucket order between equal counts.
func topN(buckets []domain.Bucket, n int) []domain.Bucket {
	out := make([]domain.Bucket, len(buckets))
	copy(out, buckets)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Count > out[j].Count
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}

// sortedByLevel sorts severity buckets ascending by numeric level. Keys that
// fail to parse sort after the numeric ones; the statistics step has already
// rejected such documents, this keeps the formatter total.
func sortedByLevel(buckets []domain.Bucket) []domain.Bucket {
	out := make([]domain.Bucket, len(buckets))
	copy(out, buckets)
	sort.SliceStable(out, func(i, j int) bool {
		li, iErr := strconv.Atoi(out[i].Key)
		lj, jErr := strconv.Atoi(out[j].Key)
		switch {
		case iErr == nil && jErr == nil:
			return li < lj
		case iErr == nil:
			return true
		case jErr == nil:
			return false
		default:
			return out[i].Key < out[j].Key
		}
	})
	return out
}

func orSentinel(s string) string {
	if s == "" {
		return domain.Sentinel
	}
	return s
}

// truncateRunes limits free-text fields by code points, not bytes, so a
// multi-byte character is never split.
func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}

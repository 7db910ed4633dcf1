package report

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/jonesrussell/incident-insight/internal/domain"
)

// criticalThreshold is the severity level above which an incident counts as
// critical.
const criticalThreshold = 9

// CalculateStatistics derives the summary numbers for one report. The day
// span must be at least 1 and every severity key must parse as an integer;
// either violation is an ErrCoercion.
func CalculateStatistics(totalHits int64, aggs domain.AggregationSet, days int) (domain.SummaryStatistics, error) {
	if days < 1 {
		return domain.SummaryStatistics{}, fmt.Errorf("%w: day span must be at least 1, got %d", ErrCoercion, days)
	}

	var critical int64
	for _, b := range aggs.Severity {
		level, err := strconv.Atoi(strings.TrimSpace(b.Key))
		if err != nil {
			return domain.SummaryStatistics{}, fmt.Errorf("%w: severity key %q is not numeric", ErrCoercion, b.Key)
		}
		if level > criticalThreshold {
			critical += b.Count
		}
	}

	stats := domain.SummaryStatistics{
		TotalIncidents:  totalHits,
		DailyAverage:    roundToTenth(float64(totalHits) / float64(days)),
		CriticalCount:   critical,
		TopCountry:      domain.Sentinel,
		TopIncidentType: domain.Sentinel,
		TopSrcIP:        domain.Sentinel,
	}

	if top, ok := topKnown(aggs.Regions); ok {
		stats.TopCountry = top.Key
		stats.TopCountryCount = top.Count
	}
	if top, ok := topKnown(aggs.Types); ok {
		stats.TopIncidentType = top.Key
		stats.TopTypeCount = top.Count
	}
	if top, ok := topKnown(aggs.SrcIPs); ok {
		stats.TopSrcIP = top.Key
		stats.TopSrcIPCount = top.Count
	}

	return stats, nil
}

// topKnown returns the highest-count bucket with the sentinel key excluded
// from the candidate pool. Ties keep the first bucket in source order. ok is
// false when the dimension is empty or holds only the sentinel.
func topKnown(buckets []domain.Bucket) (domain.Bucket, bool) {
	var best domain.Bucket
	found := false
	for _, b := range buckets {
		if b.Key == domain.Sentinel {
			continue
		}
		if !found || b.Count > best.Count {
			best = b
			found = true
		}
	}
	return best, found
}

func roundToTenth(v float64) float64 {
	return math.Round(v*10) / 10
}

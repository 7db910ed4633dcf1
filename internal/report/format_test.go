package report_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/incident-insight/internal/domain"
	"github.com/jonesrussell/incident-insight/internal/report"
)

func sampleReport() *domain.IncidentReport {
	return &domain.IncidentReport{
		QueryInfo: domain.QueryInfo{Days: 7},
		TotalHits: 70,
		Aggregations: domain.AggregationSet{
			Severity: []domain.Bucket{
				{Key: "10", Count: 3},
				{Key: "5", Count: 67},
			},
			Regions: []domain.Bucket{
				{Key: "N/A", Count: 60},
				{Key: "Czechia", Count: 10},
			},
			Types: []domain.Bucket{
				{Key: "sshd", Count: 40},
				{Key: "web", Count: 30},
			},
			Agents:   []domain.Bucket{{Key: "web-01", Count: 70}},
			Decoders: []domain.Bucket{{Key: "sshd", Count: 40}},
			SrcIPs:   []domain.Bucket{{Key: "203.0.113.7", Count: 25}},
			Timeline: []domain.TimelinePoint{
				{Date: "2025-01-01", Count: 30},
				{Date: "2025-01-02", Count: 40},
			},
		},
		Samples: []domain.IncidentSample{
			{
				Timestamp:       "2025-01-01T10:00:00",
				AgentName:       "web-01",
				RuleLevel:       domain.Scalar("10"),
				RuleDescription: "Multiple authentication failures",
				RuleGroups:      []string{"authentication_failed", "sshd"},
				CountryName:     "Czechia",
				SrcIP:           "203.0.113.7",
				FullLog:         "Jan  1 10:00:00 web-01 sshd[123]: Failed password",
			},
		},
	}
}

func sampleStats(t *testing.T, rep *domain.IncidentReport) domain.SummaryStatistics {
	t.Helper()
	stats, err := report.CalculateStatistics(rep.TotalHits, rep.Aggregations, rep.QueryInfo.Days)
	require.NoError(t, err)
	return stats
}

func TestFormatAnalysisInput_HeaderAndBasics(t *testing.T) {
	t.Helper()
	rep := sampleReport()
	out := report.FormatAnalysisInput(rep, sampleStats(t, rep), 0)

	assert.True(t, strings.HasPrefix(out, "\nPŘEHLED BEZPEČNOSTNÍCH INCIDENTŮ\n"))
	assert.Contains(t, out, "- Celkový počet incidentů: 70\n")
	assert.Contains(t, out, "- Denní průměr: 10.0\n")
	assert.Contains(t, out, "- Kritické incidenty (úroveň >9): 3\n")
	assert.Contains(t, out, "- Země která je největším zdrojem incidentů: Czechia\n")
	assert.Contains(t, out, "- Nejčastější typ incidentu: sshd\n")
	assert.Contains(t, out, "- Nejaktivnější útočící IP: 203.0.113.7 (25 útoků)\n")
}

func TestFormatAnalysisInput_SectionOrder(t *testing.T) {
	t.Helper()
	rep := sampleReport()
	out := report.FormatAnalysisInput(rep, sampleStats(t, rep), 0)

	headers := []string{
		"Základní statistiky:",
		"Distribuce podle závažnosti:",
		"Časová osa (denní počty):",
		"Top 10 zemí podle počtu incidentů:",
		"Top 10 typů incidentů:",
		"Top 10 serverů (agentů) s nejvíce incidenty:",
		"Top 10 dekoderů:",
		"Top 20 útočících IP adres:",
		"Vzorky incidentů (prvních 200):",
	}
	last := -1
	for _, h := range headers {
		idx := strings.Index(out, h)
		require.GreaterOrEqual(t, idx, 0, "missing header %q", h)
		assert.Greater(t, idx, last, "header %q out of order", h)
		last = idx
	}
}

func TestFormatAnalysisInput_SeveritySortsAscendingByLevel(t *testing.T) {
	t.Helper()
	rep := sampleReport()
	out := report.FormatAnalysisInput(rep, sampleStats(t, rep), 0)

	five := strings.Index(out, "  - Úroveň 5: 67 incidentů")
	ten := strings.Index(out, "  - Úroveň 10: 3 incidentů")
	require.GreaterOrEqual(t, five, 0)
	require.GreaterOrEqual(t, ten, 0)
	assert.Less(t, five, ten)
}

func TestFormatAnalysisInput_TimelineKeepsSourceOrder(t *testing.T) {
	t.Helper()
	rep := sampleReport()
	out := report.FormatAnalysisInput(rep, sampleStats(t, rep), 0)

	assert.Contains(t, out, "  - 2025-01-01: 30 incidentů\n  - 2025-01-02: 40 incidentů")
}

func TestFormatAnalysisInput_RankedSectionsSortByCountDesc(t *testing.T) {
	t.Helper()
	rep := sampleReport()
	rep.Aggregations.Types = []domain.Bucket{
		{Key: "web", Count: 30},
		{Key: "sshd", Count: 40},
		{Key: "ftp", Count: 30},
	}
	out := report.FormatAnalysisInput(rep, sampleStats(t, rep), 0)

	sshd := strings.Index(out, "  - sshd: 40")
	web := strings.Index(out, "  - web: 30")
	ftp := strings.Index(out, "  - ftp: 30")
	require.GreaterOrEqual(t, sshd, 0)
	require.GreaterOrEqual(t, web, 0)
	require.GreaterOrEqual(t, ftp, 0)
	assert.Less(t, sshd, web)
	// Equal counts keep the original bucket order.
	assert.Less(t, web, ftp)
}

func TestFormatAnalysisInput_TopListsAreCapped(t *testing.T) {
	t.Helper()
	rep := sampleReport()
	rep.Aggregations.Types = nil
	rep.Aggregations.SrcIPs = nil
	for i := 0; i < 30; i++ {
		rep.Aggregations.Types = append(rep.Aggregations.Types, domain.Bucket{
			Key:   fmt.Sprintf("type-%02d", i),
			Count: int64(100 - i),
		})
		rep.Aggregations.SrcIPs = append(rep.Aggregations.SrcIPs, domain.Bucket{
			Key:   fmt.Sprintf("198.51.100.%d", i),
			Count: int64(100 - i),
		})
	}
	out := report.FormatAnalysisInput(rep, sampleStats(t, rep), 0)

	assert.Contains(t, out, "  - type-09: 91")
	assert.NotContains(t, out, "  - type-10: 90")
	assert.Contains(t, out, "  - 198.51.100.19: 81 útoků")
	assert.NotContains(t, out, "  - 198.51.100.20: 80 útoků")
}

func TestFormatAnalysisInput_SampleCapAndNumbering(t *testing.T) {
	t.Helper()
	rep := sampleReport()
	rep.Samples = nil
	for i := 0; i < 500; i++ {
		rep.Samples = append(rep.Samples, domain.IncidentSample{
			Timestamp: fmt.Sprintf("2025-01-01T10:00:%02d", i%60),
			AgentName: fmt.Sprintf("agent-%03d", i),
		})
	}
	out := report.FormatAnalysisInput(rep, sampleStats(t, rep), 200)

	assert.Contains(t, out, "Vzorky incidentů (prvních 200):")
	assert.Contains(t, out, "\nIncident #1:\n")
	assert.Contains(t, out, "\nIncident #200:\n")
	assert.NotContains(t, out, "\nIncident #201:\n")
	assert.Contains(t, out, "  - Server: agent-199\n")
	assert.NotContains(t, out, "agent-200")
}

func TestFormatAnalysisInput_MissingSampleFieldsRenderSentinel(t *testing.T) {
	t.Helper()
	rep := sampleReport()
	rep.Samples = []domain.IncidentSample{{}}
	out := report.FormatAnalysisInput(rep, sampleStats(t, rep), 0)

	assert.Contains(t, out, "  - Čas: N/A\n")
	assert.Contains(t, out, "  - Server: N/A\n")
	assert.Contains(t, out, "  - Závažnost: N/A\n")
	assert.Contains(t, out, "  - Popis: N/A\n")
	assert.Contains(t, out, "  - Typy: \n")
	assert.Contains(t, out, "  - Země: N/A\n")
	assert.Contains(t, out, "  - Zdrojová IP: N/A\n")
	assert.Contains(t, out, "  - URL: N/A\n")
	assert.Contains(t, out, "  - Log: N/A\n")
}

func TestFormatAnalysisInput_LogTruncatesByRunes(t *testing.T) {
	t.Helper()
	rep := sampleReport()
	rep.Samples = []domain.IncidentSample{{FullLog: strings.Repeat("ž", 250)}}
	out := report.FormatAnalysisInput(rep, sampleStats(t, rep), 0)

	assert.Contains(t, out, "  - Log: "+strings.Repeat("ž", 200)+"\n")
	assert.NotContains(t, out, strings.Repeat("ž", 201))
}

func TestFormatAnalysisInput_DeterministicAndIdempotent(t *testing.T) {
	t.Helper()
	rep := sampleReport()
	stats := sampleStats(t, rep)

	first := report.FormatAnalysisInput(rep, stats, 0)
	second := report.FormatAnalysisInput(rep, stats, 0)
	assert.Equal(t, first, second)

	// Formatting must not mutate its input.
	third := report.FormatAnalysisInput(rep, stats, 0)
	assert.Equal(t, first, third)
	assert.Equal(t, "10", rep.Aggregations.Severity[0].Key)
}

func TestFormatAnalysisInput_EmptyReport(t *testing.T) {
	t.Helper()
	rep := &domain.IncidentReport{QueryInfo: domain.QueryInfo{Days: 7}}
	stats := sampleStats(t, rep)
	out := report.FormatAnalysisInput(rep, stats, 0)

	assert.Contains(t, out, "- Celkový počet incidentů: 0\n")
	assert.Contains(t, out, "- Země která je největším zdrojem incidentů: N/A\n")
	assert.Contains(t, out, "- Nejaktivnější útočící IP: N/A (0 útoků)\n")
	assert.Contains(t, out, "Distribuce podle závažnosti:\n\n")
	assert.Contains(t, out, "Vzorky incidentů (prvních 200):\n")
	assert.NotContains(t, out, "Incident #1:")
}

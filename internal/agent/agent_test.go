//nolint:testpackage // tests pin the clock via the unexported now field
package agent

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/incident-insight/internal/config"
	"github.com/jonesrussell/incident-insight/internal/domain"
	"github.com/jonesrussell/incident-insight/internal/logger"
	"github.com/jonesrussell/incident-insight/internal/report"
)

const fixtureDocument = `{
	"query_info": {
		"start_date": "2025-11-20T00:00:00",
		"end_date": "2025-11-27T08:15:00",
		"days": 7,
		"index_pattern": "wazuh-alerts-*",
		"max_sample_size": 1000
	},
	"total_hits": 70,
	"aggregations": {
		"by_level": {"buckets": [
			{"key": 3, "doc_count": 40},
			{"key": 7, "doc_count": 20},
			{"key": 12, "doc_count": 10}
		]},
		"by_region": {"buckets": [{"key": "Czechia", "doc_count": 30}]},
		"by_groups": {"buckets": [{"key": "sshd", "doc_count": 35}]},
		"by_agent": {"buckets": [{"key": "web-01", "doc_count": 50}]},
		"by_decoder": {"buckets": [{"key": "sshd", "doc_count": 40}]},
		"by_srcip": {"buckets": [{"key": "203.0.113.7", "doc_count": 22}]},
		"timeline": {"buckets": [
			{"key_as_string": "2025-11-26", "doc_count": 40},
			{"key_as_string": "2025-11-27", "doc_count": 30}
		]}
	},
	"sample_incidents": [
		{"timestamp": "2025-11-27T06:00:00", "agent_name": "web-01", "rule_level": 12, "rule_description": "sshd brute force", "src_ip": "203.0.113.7"}
	]
}`

type stubSearcher struct {
	document string
	params   domain.SearchParams
	called   bool
}

func (s *stubSearcher) SearchDocument(_ context.Context, params domain.SearchParams) string {
	s.called = true
	s.params = params
	return s.document
}

type stubAnalyzer struct {
	analysis string
	err      error
	input    string
	called   bool
}

func (s *stubAnalyzer) Analyze(_ context.Context, formatted string) (string, error) {
	s.called = true
	s.input = formatted
	return s.analysis, s.err
}

type stubWriter struct {
	rep        *domain.IncidentReport
	stats      domain.SummaryStatistics
	analysis   string
	outputFile string
	err        error
	called     bool
}

func (s *stubWriter) Generate(rep *domain.IncidentReport, stats domain.SummaryStatistics, analysis, outputFile string) error {
	s.called = true
	s.rep = rep
	s.stats = stats
	s.analysis = analysis
	s.outputFile = outputFile
	return s.err
}

func newTestAgent(searcher *stubSearcher, analyzer *stubAnalyzer, writer *stubWriter, outputDir string) *Agent {
	cfg := config.ReportConfig{
		Days:          7,
		MaxSampleSize: 1000,
		SampleLimit:   10,
		OutputDir:     outputDir,
	}
	a := New(searcher, analyzer, writer, cfg, logger.NewNop())
	a.now = func() time.Time { return time.Date(2025, 11, 27, 9, 15, 0, 0, time.UTC) }
	return a
}

func TestAgentRun_EndToEnd(t *testing.T) {
	t.Helper()
	outputDir := filepath.Join(t.TempDir(), "reports")
	searcher := &stubSearcher{document: fixtureDocument}
	analyzer := &stubAnalyzer{analysis: "STRUČNÁ ANALÝZA WAZUH INCIDENTŮ\n\nProvoz byl klidný."}
	writer := &stubWriter{}

	path, err := newTestAgent(searcher, analyzer, writer, outputDir).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(outputDir, "wazuh_report_20251127_091500.pdf"), path)
	assert.Equal(t, domain.SearchParams{Days: 7, MaxSampleSize: 1000, QueryType: domain.QueryTypeAll}, searcher.params)

	require.True(t, writer.called)
	assert.Equal(t, path, writer.outputFile)
	assert.Equal(t, analyzer.analysis, writer.analysis)
	assert.Equal(t, int64(70), writer.stats.TotalIncidents)
	assert.Equal(t, int64(10), writer.stats.CriticalCount)
	assert.Equal(t, "203.0.113.7", writer.stats.TopSrcIP)

	assert.Contains(t, analyzer.input, "PŘEHLED BEZPEČNOSTNÍCH INCIDENTŮ")
	assert.Contains(t, analyzer.input, "203.0.113.7")

	info, statErr := os.Stat(outputDir)
	require.NoError(t, statErr)
	assert.True(t, info.IsDir())
}

func TestAgentRun_UpstreamErrorAborts(t *testing.T) {
	t.Helper()
	searcher := &stubSearcher{document: `{"error": "connection refused", "query_info": {"days": 7}}`}
	analyzer := &stubAnalyzer{}
	writer := &stubWriter{}

	_, err := newTestAgent(searcher, analyzer, writer, t.TempDir()).Run(context.Background())

	require.ErrorIs(t, err, report.ErrUpstream)
	assert.Contains(t, err.Error(), "connection refused")
	assert.False(t, analyzer.called)
	assert.False(t, writer.called)
}

func TestAgentRun_MalformedDocumentAborts(t *testing.T) {
	t.Helper()
	searcher := &stubSearcher{document: "not json at all"}
	writer := &stubWriter{}

	_, err := newTestAgent(searcher, &stubAnalyzer{}, writer, t.TempDir()).Run(context.Background())

	require.ErrorIs(t, err, report.ErrMalformedInput)
	assert.False(t, writer.called)
}

func TestAgentRun_NonPositiveDaysAborts(t *testing.T) {
	t.Helper()
	searcher := &stubSearcher{document: `{"query_info": {"days": 0}, "total_hits": 5}`}
	writer := &stubWriter{}

	_, err := newTestAgent(searcher, &stubAnalyzer{}, writer, t.TempDir()).Run(context.Background())

	require.ErrorIs(t, err, report.ErrCoercion)
	assert.False(t, writer.called)
}

func TestAgentRun_AnalyzerFailureAborts(t *testing.T) {
	t.Helper()
	searcher := &stubSearcher{document: fixtureDocument}
	analyzer := &stubAnalyzer{err: errors.New("api unreachable")}
	writer := &stubWriter{}

	_, err := newTestAgent(searcher, analyzer, writer, t.TempDir()).Run(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "analyze incidents")
	assert.False(t, writer.called)
}

func TestAgentRun_WriterFailureSurfaces(t *testing.T) {
	t.Helper()
	searcher := &stubSearcher{document: fixtureDocument}
	analyzer := &stubAnalyzer{analysis: "Analýza."}
	writer := &stubWriter{err: errors.New("disk full")}

	_, err := newTestAgent(searcher, analyzer, writer, t.TempDir()).Run(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "generate PDF")
	assert.Contains(t, err.Error(), "disk full")
}

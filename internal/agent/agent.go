// Package agent runs the one-shot report pipeline: query incidents, derive
// statistics, ask the model for an analysis, and write the PDF.
package agent

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jonesrussell/incident-insight/internal/config"
	"github.com/jonesrussell/incident-insight/internal/domain"
	apperrors "github.com/jonesrussell/incident-insight/internal/errors"
	"github.com/jonesrussell/incident-insight/internal/logger"
	"github.com/jonesrussell/incident-insight/internal/report"
)

// IncidentSearcher supplies the incident document the pipeline starts from.
// Search failures arrive as error documents and surface through the parser.
type IncidentSearcher interface {
	SearchDocument(ctx context.Context, params domain.SearchParams) string
}

// Analyzer turns the formatted incident data into a written analysis.
type Analyzer interface {
	Analyze(ctx context.Context, formattedData string) (string, error)
}

// ReportWriter lays out the final document.
type ReportWriter interface {
	Generate(rep *domain.IncidentReport, stats domain.SummaryStatistics, analysis, outputFile string) error
}

// Agent wires the pipeline stages together.
type Agent struct {
	incidents IncidentSearcher
	analyzer  Analyzer
	writer    ReportWriter
	cfg       config.ReportConfig
	log       logger.Logger

	now func() time.Time
}

// New returns an Agent over the given stages.
func New(incidents IncidentSearcher, analyzer Analyzer, writer ReportWriter, cfg config.ReportConfig, log logger.Logger) *Agent {
	return &Agent{
		incidents: incidents,
		analyzer:  analyzer,
		writer:    writer,
		cfg:       cfg,
		log:       log,
		now:       time.Now,
	}
}

// Run executes the pipeline once and returns the path of the written PDF.
func (a *Agent) Run(ctx context.Context) (string, error) {
	a.log.Info("Querying incidents",
		logger.Int("days", a.cfg.Days),
		logger.Int("max_sample_size", a.cfg.MaxSampleSize))
	document := a.incidents.SearchDocument(ctx, domain.SearchParams{
		Days:          a.cfg.Days,
		MaxSampleSize: a.cfg.MaxSampleSize,
		QueryType:     domain.QueryTypeAll,
	})

	rep, err := report.ParseDocument([]byte(document))
	if err != nil {
		return "", apperrors.WrapWithContext(err, "parse incident document")
	}
	a.log.Info("Parsed incident document",
		logger.Int64("total_hits", rep.TotalHits),
		logger.Int("samples", len(rep.Samples)))

	stats, err := report.CalculateStatistics(rep.TotalHits, rep.Aggregations, rep.QueryInfo.Days)
	if err != nil {
		return "", apperrors.WrapWithContext(err, "calculate statistics")
	}
	a.log.Info("Summary statistics ready",
		logger.Int64("total_incidents", stats.TotalIncidents),
		logger.Int64("critical", stats.CriticalCount),
		logger.String("top_srcip", stats.TopSrcIP))

	formatted := report.FormatAnalysisInput(rep, stats, a.cfg.SampleLimit)

	a.log.Info("Requesting analysis")
	analysis, err := a.analyzer.Analyze(ctx, formatted)
	if err != nil {
		return "", apperrors.WrapWithContext(err, "analyze incidents")
	}

	outputFile := a.outputPath()
	if err := os.MkdirAll(filepath.Dir(outputFile), 0o750); err != nil {
		return "", apperrors.WrapWithContext(err, "create output directory")
	}
	if err := a.writer.Generate(rep, stats, analysis, outputFile); err != nil {
		return "", apperrors.WrapWithContext(err, "generate PDF")
	}

	return outputFile, nil
}

// outputPath stamps the file name to the second so repeated runs never
// overwrite an earlier report.
func (a *Agent) outputPath() string {
	stamp := a.now().Format("20060102_150405")
	return filepath.Join(a.cfg.OutputDir, fmt.Sprintf("wazuh_report_%s.pdf", stamp))
}

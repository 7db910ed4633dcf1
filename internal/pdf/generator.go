// Package pdf renders the incident report as an A4 document with summary
// tables, charts, and the model's recommendations.
package pdf

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/go-pdf/fpdf"

	"github.com/jonesrussell/incident-insight/internal/domain"
	"github.com/jonesrussell/incident-insight/internal/logger"
)

// Layout constants in millimeters on A4 portrait.
const (
	pageMarginMM  = 20
	chartWidthMM  = 160
	logoWidthMM   = 40
	logoHeightMM  = 15
	tableMetricMM = 100
	tableValueMM  = 60
)

const noDataLabel = "Žádná data"

// Accent color of the title, headings, and table header.
const (
	accentR = 31
	accentG = 71
	accentB = 136
)

// Generator builds report PDFs. Core fonts only, Czech text goes through
// the cp1250 translator.
type Generator struct {
	logoPath string
	log      logger.Logger
}

// NewGenerator returns a Generator. logoPath may be empty or point to a
// missing file, the header then renders without a logo.
func NewGenerator(logoPath string, log logger.Logger) *Generator {
	return &Generator{logoPath: logoPath, log: log}
}

// Generate lays out the full report and writes it to outputFile.
func (g *Generator) Generate(report *domain.IncidentReport, stats domain.SummaryStatistics, analysis, outputFile string) error {
	charts, err := renderCharts(report.Aggregations)
	if err != nil {
		return err
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Report bezpečnostních incidentů Wazuh", true)
	pdf.SetMargins(pageMarginMM, pageMarginMM, pageMarginMM)
	pdf.SetAutoPageBreak(true, pageMarginMM)
	tr := pdf.UnicodeTranslatorFromDescriptor("cp1250")

	pdf.AddPage()
	g.header(pdf, tr, report.QueryInfo)
	g.summaryTable(pdf, tr, stats)

	g.chartSection(pdf, tr, "Časová osa incidentů", charts.timeline, 80)
	g.chartSection(pdf, tr, "Distribuce podle závažnosti", charts.severity, 80)

	pdf.AddPage()
	g.chartSection(pdf, tr, "Top 10 typů incidentů", charts.types, 100)
	g.chartSection(pdf, tr, "Distribuce podle zemí", charts.regions, 130)

	pdf.AddPage()
	g.chartSection(pdf, tr, "Top 10 serverů podle počtu incidentů", charts.agents, 100)
	g.chartSection(pdf, tr, "Top 20 útočících IP adres", charts.srcIPs, 120)
	g.chartSection(pdf, tr, "Top 10 dekoderů", charts.decoders, 100)

	pdf.AddPage()
	g.recommendations(pdf, tr, analysis)

	if err := pdf.OutputFileAndClose(outputFile); err != nil {
		return fmt.Errorf("write PDF %s: %w", outputFile, err)
	}

	g.log.Info("PDF report written", logger.String("path", outputFile))
	return nil
}

// renderedCharts holds the PNG bytes for every section. A nil entry means
// the section had no data and renders as a text placeholder.
type renderedCharts struct {
	timeline []byte
	severity []byte
	types    []byte
	regions  []byte
	agents   []byte
	srcIPs   []byte
	decoders []byte
}

func renderCharts(aggs domain.AggregationSet) (renderedCharts, error) {
	var charts renderedCharts
	var err error

	if charts.timeline, err = orPlaceholder(TimelineChart(aggs.Timeline)); err != nil {
		return charts, fmt.Errorf("timeline chart: %w", err)
	}
	if charts.severity, err = orPlaceholder(SeverityChart(aggs.Severity)); err != nil {
		return charts, fmt.Errorf("severity chart: %w", err)
	}
	if charts.types, err = orPlaceholder(TopItemsChart(aggs.Types, "Top 10 typů incidentů", 10)); err != nil {
		return charts, fmt.Errorf("types chart: %w", err)
	}
	if charts.regions, err = orPlaceholder(CountryPieChart(aggs.Regions, "Distribuce podle zemí", 8)); err != nil {
		return charts, fmt.Errorf("regions chart: %w", err)
	}
	if charts.agents, err = orPlaceholder(TopItemsChart(aggs.Agents, "Top 10 serverů", 10)); err != nil {
		return charts, fmt.Errorf("agents chart: %w", err)
	}
	if charts.srcIPs, err = orPlaceholder(TopItemsChart(aggs.SrcIPs, "Top 20 útočících IP adres", 20)); err != nil {
		return charts, fmt.Errorf("source IP chart: %w", err)
	}
	if charts.decoders, err = orPlaceholder(TopItemsChart(aggs.Decoders, "Top 10 dekoderů", 10)); err != nil {
		return charts, fmt.Errorf("decoders chart: %w", err)
	}

	return charts, nil
}

// orPlaceholder maps ErrNoData to a nil image so the layout can print the
// placeholder text instead of failing the whole report.
func orPlaceholder(png []byte, err error) ([]byte, error) {
	if errors.Is(err, ErrNoData) {
		return nil, nil
	}
	return png, err
}

func (g *Generator) header(pdf *fpdf.Fpdf, tr func(string) string, info domain.QueryInfo) {
	if g.logoPath != "" {
		if _, err := os.Stat(g.logoPath); err == nil {
			pageW, _ := pdf.GetPageSize()
			pdf.ImageOptions(g.logoPath, pageW-pageMarginMM-logoWidthMM, 10, logoWidthMM, logoHeightMM, false, fpdf.ImageOptions{}, 0, "")
			pdf.SetY(12 + logoHeightMM)
		} else {
			g.log.Warn("Logo not found, skipping", logger.String("path", g.logoPath))
		}
	}

	pdf.SetFont("Arial", "B", 18)
	pdf.SetTextColor(accentR, accentG, accentB)
	pdf.CellFormat(0, 10, tr("Report bezpečnostních incidentů Wazuh"), "", 1, "C", false, 0, "")

	pdf.SetFont("Arial", "", 12)
	pdf.SetTextColor(0, 0, 0)
	pdf.CellFormat(0, 8, tr(fmt.Sprintf("%s až %s", dateOnly(info.StartDate), dateOnly(info.EndDate))), "", 1, "C", false, 0, "")
	pdf.Ln(6)
}

// dateOnly trims a range stamp like 2025-11-22T00:00:00 to its date part.
func dateOnly(stamp string) string {
	if stamp == "" {
		return domain.Sentinel
	}
	if len(stamp) > 10 {
		return stamp[:10]
	}
	return stamp
}

func (g *Generator) summaryTable(pdf *fpdf.Fpdf, tr func(string) string, stats domain.SummaryStatistics) {
	pdf.SetFont("Arial", "B", 12)
	pdf.SetFillColor(accentR, accentG, accentB)
	pdf.SetTextColor(255, 255, 255)
	pdf.CellFormat(tableMetricMM, 9, tr("Metrika"), "1", 0, "L", true, 0, "")
	pdf.CellFormat(tableValueMM, 9, tr("Hodnota"), "1", 1, "L", true, 0, "")

	rows := [][2]string{
		{"Celkový počet incidentů", strconv.FormatInt(stats.TotalIncidents, 10)},
		{"Denní průměr", strconv.FormatFloat(stats.DailyAverage, 'f', 1, 64)},
		{"Kritické incidenty (úroveň >9)", strconv.FormatInt(stats.CriticalCount, 10)},
		{"Země - největší zdroj incidentů", stats.TopCountry},
		{"Nejčastější typ incidentu", stats.TopIncidentType},
		{"Nejaktivnější útočící IP", fmt.Sprintf("%s (%d útoků)", stats.TopSrcIP, stats.TopSrcIPCount)},
	}

	pdf.SetFont("Arial", "", 10)
	pdf.SetFillColor(245, 245, 220)
	pdf.SetTextColor(0, 0, 0)
	for _, row := range rows {
		pdf.CellFormat(tableMetricMM, 8, tr(row[0]), "1", 0, "L", true, 0, "")
		pdf.CellFormat(tableValueMM, 8, tr(row[1]), "1", 1, "L", true, 0, "")
	}
	pdf.Ln(8)
}

func (g *Generator) chartSection(pdf *fpdf.Fpdf, tr func(string) string, heading string, png []byte, heightMM float64) {
	pdf.SetFont("Arial", "B", 14)
	pdf.SetTextColor(accentR, accentG, accentB)
	pdf.CellFormat(0, 9, tr(heading), "", 1, "L", false, 0, "")

	if len(png) == 0 {
		pdf.SetFont("Arial", "", 11)
		pdf.SetTextColor(0, 0, 0)
		pdf.CellFormat(0, 8, tr(noDataLabel), "", 1, "L", false, 0, "")
		pdf.Ln(4)
		return
	}

	opts := fpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader(heading, opts, bytes.NewReader(png))
	pdf.ImageOptions(heading, pageMarginMM, 0, chartWidthMM, heightMM, true, opts, 0, "")
	pdf.Ln(5)
}

func (g *Generator) recommendations(pdf *fpdf.Fpdf, tr func(string) string, analysis string) {
	pdf.SetFont("Arial", "B", 16)
	pdf.SetTextColor(accentR, accentG, accentB)
	pdf.CellFormat(0, 10, tr("Doporučení pro snížení počtu incidentů"), "", 1, "L", false, 0, "")
	pdf.Ln(2)

	strategic, tactical := ExtractRecommendations(analysis)
	if strategic == "" && tactical == "" {
		pdf.SetFont("Arial", "", 11)
		pdf.SetTextColor(0, 0, 0)
		pdf.CellFormat(0, 8, tr(noDataLabel), "", 1, "L", false, 0, "")
		return
	}

	if strategic != "" {
		g.recommendationBlock(pdf, tr, "Strategická doporučení", strategic)
	}
	if tactical != "" {
		g.recommendationBlock(pdf, tr, "Taktická a technická doporučení", tactical)
	}
}

func (g *Generator) recommendationBlock(pdf *fpdf.Fpdf, tr func(string) string, heading, body string) {
	pdf.SetFont("Arial", "B", 14)
	pdf.SetTextColor(accentR, accentG, accentB)
	pdf.CellFormat(0, 9, tr(heading), "", 1, "L", false, 0, "")

	pdf.SetFont("Arial", "", 11)
	pdf.SetTextColor(0, 0, 0)
	pdf.MultiCell(0, 5, tr(stripMarkdownBold(body)), "", "L", false)
	pdf.Ln(4)
}

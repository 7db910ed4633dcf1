package pdf

import (
	"bytes"
	"errors"
	"fmt"
	"sort"
	"strconv"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/jonesrussell/incident-insight/internal/domain"
)

// ErrNoData marks a chart whose input has nothing to draw. The report
// prints a placeholder instead of the image.
var ErrNoData = errors.New("no data to chart")

// Chart pixel sizes, matching A4 proportions at the layout widths below.
const (
	chartWidthPx      = 1500
	lineChartHeightPx = 750
	barChartHeightPx  = 900
	pieChartHeightPx  = 1200
)

var (
	steelBlue    = drawing.Color{R: 70, G: 130, B: 180, A: 255}
	severityLow  = drawing.Color{R: 0, G: 128, B: 0, A: 255}
	severityMid  = drawing.Color{R: 255, G: 215, B: 0, A: 255}
	severityHigh = drawing.Color{R: 220, G: 20, B: 60, A: 255}
	barStroke    = drawing.Color{R: 0, G: 0, B: 0, A: 255}
)

// TimelineChart renders the daily incident counts as a line chart with
// one tick per day, in source order.
func TimelineChart(timeline []domain.TimelinePoint) ([]byte, error) {
	if len(timeline) == 0 {
		return nil, ErrNoData
	}

	xs := make([]float64, len(timeline))
	ys := make([]float64, len(timeline))
	ticks := make([]chart.Tick, len(timeline))
	var maxCount float64
	for i, point := range timeline {
		xs[i] = float64(i)
		ys[i] = float64(point.Count)
		ticks[i] = chart.Tick{Value: float64(i), Label: point.Date}
		if ys[i] > maxCount {
			maxCount = ys[i]
		}
	}
	if maxCount == 0 {
		return nil, ErrNoData
	}

	graph := chart.Chart{
		Title:  "Časová osa incidentů",
		Width:  chartWidthPx,
		Height: lineChartHeightPx,
		XAxis: chart.XAxis{
			Name:  "Datum",
			Ticks: ticks,
			Style: chart.Style{TextRotationDegrees: 45},
			// Explicit range keeps single-day reports renderable.
			Range: &chart.ContinuousRange{Min: -0.5, Max: float64(len(timeline)-1) + 0.5},
		},
		YAxis: chart.YAxis{
			Name:  "Počet incidentů",
			Range: &chart.ContinuousRange{Min: 0, Max: maxCount * 1.1},
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Style: chart.Style{
					StrokeColor: steelBlue,
					StrokeWidth: 2,
					FillColor:   steelBlue.WithAlpha(76),
					DotColor:    steelBlue,
					DotWidth:    4,
				},
				XValues: xs,
				YValues: ys,
			},
		},
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render timeline chart: %w", err)
	}
	return buf.Bytes(), nil
}

// SeverityChart renders per-level counts as bars colored by criticality,
// levels ascending left to right.
func SeverityChart(severity []domain.Bucket) ([]byte, error) {
	if len(severity) == 0 {
		return nil, ErrNoData
	}

	sorted := sortedByLevel(severity)
	bars := make([]chart.Value, 0, len(sorted))
	var maxCount float64
	for _, bucket := range sorted {
		color := severityColor(bucket.Key)
		bars = append(bars, chart.Value{
			Value: float64(bucket.Count),
			Label: bucket.Key,
			Style: chart.Style{FillColor: color, StrokeColor: barStroke, StrokeWidth: 1},
		})
		if float64(bucket.Count) > maxCount {
			maxCount = float64(bucket.Count)
		}
	}
	if maxCount == 0 {
		return nil, ErrNoData
	}

	return renderBarChart("Distribuce podle závažnosti", lineChartHeightPx, bars, maxCount)
}

// TopItemsChart renders the highest-count buckets of one dimension as
// bars, count descending left to right.
func TopItemsChart(buckets []domain.Bucket, title string, maxItems int) ([]byte, error) {
	if len(buckets) == 0 {
		return nil, ErrNoData
	}

	sorted := sortedByCountDesc(buckets)
	if len(sorted) > maxItems {
		sorted = sorted[:maxItems]
	}

	bars := make([]chart.Value, 0, len(sorted))
	var maxCount float64
	for _, bucket := range sorted {
		bars = append(bars, chart.Value{
			Value: float64(bucket.Count),
			Label: bucket.Key,
			Style: chart.Style{FillColor: steelBlue, StrokeColor: steelBlue},
		})
		if float64(bucket.Count) > maxCount {
			maxCount = float64(bucket.Count)
		}
	}
	if maxCount == 0 {
		return nil, ErrNoData
	}

	return renderBarChart(title, barChartHeightPx, bars, maxCount)
}

// CountryPieChart renders the region distribution. At most maxSlices
// real slices are shown, the rest fold into an overflow slice, and the
// sentinel for unlocated incidents always comes last.
func CountryPieChart(regions []domain.Bucket, title string, maxSlices int) ([]byte, error) {
	slices := pieSlices(regions, maxSlices)

	values := make([]chart.Value, 0, len(slices))
	var total int64
	for _, bucket := range slices {
		total += bucket.Count
		values = append(values, chart.Value{Value: float64(bucket.Count), Label: bucket.Key})
	}
	if total == 0 {
		return nil, ErrNoData
	}

	graph := chart.PieChart{
		Title:  title,
		Width:  chartWidthPx,
		Height: pieChartHeightPx,
		Values: values,
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render pie chart: %w", err)
	}
	return buf.Bytes(), nil
}

// pieSlices orders regions by count, caps them at maxSlices with an
// "Ostatní" overflow slice, and moves the sentinel to the end.
func pieSlices(regions []domain.Bucket, maxSlices int) []domain.Bucket {
	sorted := sortedByCountDesc(regions)

	var sentinel *domain.Bucket
	real := make([]domain.Bucket, 0, len(sorted))
	for i := range sorted {
		if sorted[i].Key == domain.Sentinel {
			bucket := sorted[i]
			sentinel = &bucket
			continue
		}
		real = append(real, sorted[i])
	}

	slices := real
	if len(real) > maxSlices {
		slices = append([]domain.Bucket{}, real[:maxSlices]...)
		var rest int64
		for _, bucket := range real[maxSlices:] {
			rest += bucket.Count
		}
		slices = append(slices, domain.Bucket{Key: "Ostatní", Count: rest})
	}

	if sentinel != nil && sentinel.Count > 0 {
		slices = append(slices, *sentinel)
	}

	return slices
}

func renderBarChart(title string, heightPx int, bars []chart.Value, maxCount float64) ([]byte, error) {
	// Slot width splits evenly between bar and spacing so any bar count
	// fits the canvas.
	slot := (chartWidthPx - 200) / len(bars)

	graph := chart.BarChart{
		Title:      title,
		Width:      chartWidthPx,
		Height:     heightPx,
		BarWidth:   slot / 2,
		BarSpacing: slot / 2,
		Bars:       bars,
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: 0, Max: maxCount * 1.1},
		},
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render bar chart: %w", err)
	}
	return buf.Bytes(), nil
}

func severityColor(key string) drawing.Color {
	level, err := strconv.Atoi(key)
	switch {
	case err != nil:
		return severityHigh
	case level <= 5:
		return severityLow
	case level <= 9:
		return severityMid
	default:
		return severityHigh
	}
}

func sortedByCountDesc(buckets []domain.Bucket) []domain.Bucket {
	out := make([]domain.Bucket, len(buckets))
	copy(out, buckets)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return out
}

func sortedByLevel(buckets []domain.Bucket) []domain.Bucket {
	out := make([]domain.Bucket, len(buckets))
	copy(out, buckets)
	sort.SliceStable(out, func(i, j int) bool {
		li, erri := strconv.Atoi(out[i].Key)
		lj, errj := strconv.Atoi(out[j].Key)
		if erri == nil && errj == nil {
			return li < lj
		}
		if erri == nil {
			return true
		}
		if errj == nil {
			return false
		}
		return out[i].Key < out[j].Key
	})
	return out
}

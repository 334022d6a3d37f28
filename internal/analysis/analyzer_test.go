package analysis

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"olistcli/internal/config"
	"olistcli/internal/infrastructure"
	"olistcli/pkg/contracts/domain"
)

func testPipelineConfig() config.PipelineConfig {
	cfg := config.Default().Pipeline
	cfg.ChartWidthInches = 4
	cfg.ChartHeightInches = 3
	return cfg
}

func sampleRecords() []domain.OrderRecord {
	var records []domain.OrderRecord
	for i := 0; i < 12; i++ {
		records = append(records, domain.OrderRecord{
			OrderID:             "o",
			Category:            []string{"toys", "auto", "garden"}[i%3],
			PurchasedAt:         at(0),
			DeliveredCustomerAt: at(5 + i),
			EstimatedDeliveryAt: at(10),
			ReviewScore:         ptr(float64(1 + i%5)),
			FreightValue:        ptr(float64(5 + i)),
			PaymentInstallments: ptr(float64(1 + i%4)),
			PaymentValue:        ptr(100.0 * float64(i+1)),
		})
	}
	return records
}

func assertReportCount(t *testing.T, metrics *infrastructure.Metrics, report, status string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "analysis.prom")
	require.NoError(t, metrics.WriteTextfile(path))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data),
		`olist_reports_total{job_name="analysis",report="`+report+`",status="`+status+`"} 1`)
}

func TestDefaultRegistry(t *testing.T) {
	registry, err := DefaultRegistry(testPipelineConfig())
	require.NoError(t, err)

	var files []string
	for _, r := range registry.List() {
		files = append(files, r.Filename())
	}
	assert.Equal(t, []string{
		"1_sales_by_category.png",
		"2_delivery_time_distribution.png",
		"3_delay_vs_satisfaction.png",
		"4_freight_vs_satisfaction.png",
		"5_installments_revenue.png",
	}, files)
}

func TestRegistry(t *testing.T) {
	registry := NewRegistry()
	report := NewDelaySatisfactionReport(testRenderer())

	require.NoError(t, registry.Register(report))
	assert.Error(t, registry.Register(report), "duplicate id")
	assert.Error(t, registry.Register(nil))

	list := registry.List()
	require.Len(t, list, 1)
	assert.Same(t, report, list[0])
}

func TestAnalyzer_Run(t *testing.T) {
	registry, err := DefaultRegistry(testPipelineConfig())
	require.NoError(t, err)

	var out bytes.Buffer
	metrics := infrastructure.NewMetrics("analysis")
	dir := t.TempDir()

	summaries, err := NewAnalyzer(registry, &out, nil, metrics, nil).Run(context.Background(), sampleRecords(), &config.Paths{AnalysisDir: dir})
	require.NoError(t, err)
	require.Len(t, summaries, 5)

	for i, r := range registry.List() {
		assert.FileExists(t, filepath.Join(dir, r.Filename()))
		assert.Equal(t, r.ID(), summaries[i].ReportID)
	}

	text := out.String()
	assert.Contains(t, text, "Analysis 1/5 - Generating sales volume by category...")
	assert.Contains(t, text, "Analysis 5/5 - Generating promotion effectiveness by installments...")
	assert.Contains(t, text, "Average delivery time:")
	assert.Equal(t, 5, strings.Count(text, "Chart saved as"))

	assertReportCount(t, metrics, "delivery_time", StatusOK)
}

func TestAnalyzer_SkipsReportsWithoutData(t *testing.T) {
	registry, err := DefaultRegistry(testPipelineConfig())
	require.NoError(t, err)

	records := []domain.OrderRecord{{Category: "toys", ReviewScore: ptr(5.0)}}
	metrics := infrastructure.NewMetrics("analysis")
	dir := t.TempDir()

	var out bytes.Buffer
	summaries, err := NewAnalyzer(registry, &out, nil, metrics, nil).Run(context.Background(), records, &config.Paths{AnalysisDir: dir})
	require.NoError(t, err)
	assert.Len(t, summaries, 5)

	assert.FileExists(t, filepath.Join(dir, "1_sales_by_category.png"))
	assert.NoFileExists(t, filepath.Join(dir, "2_delivery_time_distribution.png"))
	assert.Equal(t, 1, strings.Count(out.String(), "Chart saved as"))
	assertReportCount(t, metrics, "delivery_time", StatusSkipped)
}

func TestSheets(t *testing.T) {
	sheets := Sheets([]Summary{{
		ReportID: "delivery_time",
		Title:    "delivery time distribution",
		Headers:  []string{"delivery_days", "records"},
		Rows:     [][]string{{"10", "1"}},
	}})

	require.Len(t, sheets, 1)
	assert.Equal(t, "delivery_time", sheets[0].Name)
	assert.Equal(t, [][]interface{}{{"10", "1"}}, sheets[0].Rows)
}

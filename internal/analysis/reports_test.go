package analysis

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"olistcli/internal/charts"
	"olistcli/pkg/contracts/domain"
)

var day0 = time.Date(2018, 3, 1, 12, 0, 0, 0, time.UTC)

func ptr[T any](v T) *T { return &v }

func at(days int) *time.Time {
	return ptr(day0.AddDate(0, 0, days))
}

func testRenderer() *charts.Renderer {
	return charts.NewRenderer(4, 3)
}

func TestTopCategories(t *testing.T) {
	var records []domain.OrderRecord
	add := func(cat string, n int) {
		for i := 0; i < n; i++ {
			records = append(records, domain.OrderRecord{Category: cat})
		}
	}
	add("bed_bath_table", 5)
	add("toys", 3)
	add("auto", 3)
	add("garden", 1)
	add("", 9)

	top := TopCategories(records, 3)
	assert.Equal(t, []CategoryCount{
		{"bed_bath_table", 5},
		{"auto", 3},
		{"toys", 3},
	}, top)

	assert.Len(t, TopCategories(records, 15), 4)
}

func TestCategoryVolumeReport_TopFifteen(t *testing.T) {
	var records []domain.OrderRecord
	for c := 0; c < 20; c++ {
		for i := 0; i <= c; i++ {
			records = append(records, domain.OrderRecord{Category: string(rune('a' + c))})
		}
	}

	out := filepath.Join(t.TempDir(), "1_sales_by_category.png")
	summary, err := NewCategoryVolumeReport(testRenderer(), 15).Generate(context.Background(), records, out)
	require.NoError(t, err)

	require.Len(t, summary.Rows, 15)
	assert.Equal(t, []string{"t", "20"}, summary.Rows[0])
	assert.Equal(t, []string{"f", "6"}, summary.Rows[14])
	assert.FileExists(t, out)
}

func TestDeliveryDurations_Cutoff(t *testing.T) {
	records := []domain.OrderRecord{
		{PurchasedAt: at(0), DeliveredCustomerAt: at(45)},
		{PurchasedAt: at(0), DeliveredCustomerAt: at(10)},
		{PurchasedAt: at(0), DeliveredCustomerAt: at(40)},
		{PurchasedAt: at(0)},
		{DeliveredCustomerAt: at(3)},
	}

	days, discarded := DeliveryDurations(records, 40)
	assert.Equal(t, []float64{10, 40}, days)
	assert.Equal(t, 1, discarded)
}

func TestDeliveryTimeReport_MeanExcludesOutliers(t *testing.T) {
	records := []domain.OrderRecord{
		{PurchasedAt: at(0), DeliveredCustomerAt: at(45)},
		{PurchasedAt: at(0), DeliveredCustomerAt: at(10)},
	}

	out := filepath.Join(t.TempDir(), "2_delivery_time_distribution.png")
	summary, err := NewDeliveryTimeReport(testRenderer(), 40, 30).Generate(context.Background(), records, out)
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Eligible)
	assert.Contains(t, summary.Lines[0], "10.00 days")
	assert.Equal(t, [][]string{{"10", "1"}}, summary.Rows)
	assert.FileExists(t, out)
}

func TestIsLate(t *testing.T) {
	tests := []struct {
		name      string
		delivered *time.Time
		estimated *time.Time
		late      bool
		ok        bool
	}{
		{"one day late", at(11), at(10), true, true},
		{"several days late", at(20), at(10), true, true},
		{"exactly on estimate", at(10), at(10), false, true},
		{"early", at(5), at(10), false, true},
		{"hours late is not a whole day", ptr(day0.Add(5 * time.Hour)), at(0), false, true},
		{"missing delivery", nil, at(10), false, false},
		{"missing estimate", at(10), nil, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			late, ok := IsLate(domain.OrderRecord{DeliveredCustomerAt: tt.delivered, EstimatedDeliveryAt: tt.estimated})
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.late, late)
		})
	}
}

func TestDelaySatisfactionReport(t *testing.T) {
	records := []domain.OrderRecord{
		{DeliveredCustomerAt: at(5), EstimatedDeliveryAt: at(10), ReviewScore: ptr(5.0)},
		{DeliveredCustomerAt: at(10), EstimatedDeliveryAt: at(10), ReviewScore: ptr(4.0)},
		{DeliveredCustomerAt: at(15), EstimatedDeliveryAt: at(10), ReviewScore: ptr(1.0)},
		{DeliveredCustomerAt: at(12), EstimatedDeliveryAt: at(10), ReviewScore: ptr(2.0)},
		{EstimatedDeliveryAt: at(10), ReviewScore: ptr(5.0)},
	}

	out := filepath.Join(t.TempDir(), "3_delay_vs_satisfaction.png")
	summary, err := NewDelaySatisfactionReport(testRenderer()).Generate(context.Background(), records, out)
	require.NoError(t, err)

	assert.Equal(t, 4, summary.Eligible)
	assert.Equal(t, [][]string{
		{"false", "4.50", "2"},
		{"true", "1.50", "2"},
	}, summary.Rows)
	assert.FileExists(t, out)
}

func TestFreightSatisfactionReport_Bands(t *testing.T) {
	var records []domain.OrderRecord
	for i, f := range []float64{5, 6, 7, 8, 15, 16, 17, 18, 25, 26, 27, 28, 50, 60, 70, 80} {
		records = append(records, domain.OrderRecord{FreightValue: ptr(f), ReviewScore: ptr(float64(5 - i/4))})
	}
	records = append(records, domain.OrderRecord{FreightValue: ptr(1.0)})

	out := filepath.Join(t.TempDir(), "4_freight_vs_satisfaction.png")
	summary, err := NewFreightSatisfactionReport(testRenderer()).Generate(context.Background(), records, out)
	require.NoError(t, err)

	assert.Equal(t, 16, summary.Eligible)
	require.Len(t, summary.Rows, 4)

	total := 0
	for i, row := range summary.Rows {
		assert.Equal(t, FreightBandLabels[i], row[0])
		assert.Equal(t, "4", row[3])
		total += 4
	}
	assert.Equal(t, 16, total)
	assert.Equal(t, "5.00", summary.Rows[0][4])
	assert.Equal(t, "2.00", summary.Rows[3][4])

	require.Len(t, summary.Lines, 4)
	assert.True(t, strings.HasPrefix(summary.Lines[0], "Low freight [5.00 - 13.25]: 4 records"), summary.Lines[0])
	assert.True(t, strings.HasPrefix(summary.Lines[1], "Medium freight (13.25 - 21.50]: 4 records"), summary.Lines[1])
	assert.FileExists(t, out)
}

func TestRevenueByInstallments(t *testing.T) {
	records := []domain.OrderRecord{
		{PaymentInstallments: ptr(3.0), PaymentValue: ptr(100.0)},
		{PaymentInstallments: ptr(1.0), PaymentValue: ptr(20.0)},
		{PaymentInstallments: ptr(3.0), PaymentValue: ptr(50.5)},
		{PaymentInstallments: ptr(1.0), PaymentValue: ptr(250.5)},
		{PaymentInstallments: ptr(2.0)},
		{PaymentValue: ptr(999.0)},
	}

	assert.Equal(t, []InstallmentRevenue{
		{Installments: 1, Revenue: 270.5, Records: 2},
		{Installments: 3, Revenue: 150.5, Records: 2},
	}, RevenueByInstallments(records))
}

func TestInstallmentsRevenueReport(t *testing.T) {
	records := []domain.OrderRecord{
		{PaymentInstallments: ptr(10.0), PaymentValue: ptr(2_000_000.0)},
		{PaymentInstallments: ptr(1.0), PaymentValue: ptr(3_500_000.0)},
	}

	out := filepath.Join(t.TempDir(), "5_installments_revenue.png")
	summary, err := NewInstallmentsRevenueReport(testRenderer()).Generate(context.Background(), records, out)
	require.NoError(t, err)

	assert.Equal(t, [][]string{{"1", "3500000.00"}, {"10", "2000000.00"}}, summary.Rows)
	assert.Contains(t, summary.Lines[1], "at 1 installment(s)")
	assert.FileExists(t, out)
}

func TestReports_NoData(t *testing.T) {
	dir := t.TempDir()
	records := []domain.OrderRecord{{OrderID: "o1"}}

	for _, r := range []Reporter{
		NewCategoryVolumeReport(testRenderer(), 15),
		NewDeliveryTimeReport(testRenderer(), 40, 30),
		NewDelaySatisfactionReport(testRenderer()),
		NewFreightSatisfactionReport(testRenderer()),
		NewInstallmentsRevenueReport(testRenderer()),
	} {
		t.Run(r.ID(), func(t *testing.T) {
			out := filepath.Join(dir, r.Filename())
			summary, err := r.Generate(context.Background(), records, out)
			assert.ErrorIs(t, err, ErrNoData)
			assert.NotEmpty(t, summary.Lines)
			_, statErr := os.Stat(out)
			assert.True(t, os.IsNotExist(statErr))
		})
	}
}

func TestReports_DoNotModifyRecords(t *testing.T) {
	records := []domain.OrderRecord{
		{Category: "b", PurchasedAt: at(0), DeliveredCustomerAt: at(3), EstimatedDeliveryAt: at(2),
			ReviewScore: ptr(3.0), FreightValue: ptr(9.0), PaymentInstallments: ptr(2.0), PaymentValue: ptr(10.0)},
		{Category: "a", PurchasedAt: at(0), DeliveredCustomerAt: at(1), EstimatedDeliveryAt: at(2),
			ReviewScore: ptr(5.0), FreightValue: ptr(4.0), PaymentInstallments: ptr(1.0), PaymentValue: ptr(20.0)},
	}
	before := make([]domain.OrderRecord, len(records))
	copy(before, records)

	registry, err := DefaultRegistry(testPipelineConfig())
	require.NoError(t, err)
	dir := t.TempDir()
	for _, r := range registry.List() {
		_, err := r.Generate(context.Background(), records, filepath.Join(dir, r.Filename()))
		require.NoError(t, err, r.ID())
	}

	assert.Equal(t, before, records)
}

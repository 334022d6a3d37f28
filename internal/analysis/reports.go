package analysis

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"golang.org/x/text/language"

	"olistcli/internal/charts"
	"olistcli/pkg/contracts/domain"
)

// FreightBandLabels name the freight quartiles from cheapest to most expensive
var FreightBandLabels = []string{"Low", "Medium", "High", "Very high"}

const (
	onTimeLabel = "On time"
	lateLabel   = "Late"
)

func noData(id, title string) (Summary, error) {
	return Summary{ReportID: id, Title: title, Lines: []string{"No eligible records, chart skipped."}}, ErrNoData
}

func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// CategoryVolumeReport counts records per product category
type CategoryVolumeReport struct {
	renderer *charts.Renderer
	top      int
}

// NewCategoryVolumeReport creates the category report keeping the top categories
func NewCategoryVolumeReport(renderer *charts.Renderer, top int) *CategoryVolumeReport {
	return &CategoryVolumeReport{renderer: renderer, top: top}
}

func (r *CategoryVolumeReport) ID() string       { return "sales_by_category" }
func (r *CategoryVolumeReport) Title() string    { return "sales volume by category" }
func (r *CategoryVolumeReport) Filename() string { return "1_sales_by_category.png" }

// CategoryCount is the number of records of one category
type CategoryCount struct {
	Category string
	Count    int
}

// TopCategories returns the n most frequent categories, most frequent first.
// Ties are broken by name.
func TopCategories(records []domain.OrderRecord, n int) []CategoryCount {
	counts := make(map[string]int)
	for _, rec := range records {
		if rec.Category == "" {
			continue
		}
		counts[rec.Category]++
	}

	result := make([]CategoryCount, 0, len(counts))
	for c, k := range counts {
		result = append(result, CategoryCount{Category: c, Count: k})
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Count != result[j].Count {
			return result[i].Count > result[j].Count
		}
		return result[i].Category < result[j].Category
	})

	if n > 0 && len(result) > n {
		result = result[:n]
	}
	return result
}

// Generate implements Reporter
func (r *CategoryVolumeReport) Generate(ctx context.Context, records []domain.OrderRecord, outPath string) (Summary, error) {
	if err := ctx.Err(); err != nil {
		return Summary{}, err
	}

	top := TopCategories(records, r.top)
	if len(top) == 0 {
		return noData(r.ID(), r.Title())
	}

	names := make([]string, len(top))
	values := make([]float64, len(top))
	rows := make([][]string, len(top))
	eligible := 0
	for i, c := range top {
		names[i] = c.Category
		values[i] = float64(c.Count)
		rows[i] = []string{c.Category, strconv.Itoa(c.Count)}
		eligible += c.Count
	}

	labels := charts.Labels{
		Title: fmt.Sprintf("Top %d Categories by Sales Volume", len(top)),
		X:     "Number of sales",
		Y:     "Product category",
	}
	if err := r.renderer.HorizontalBars(outPath, labels, names, values); err != nil {
		return Summary{}, err
	}

	return Summary{
		ReportID: r.ID(),
		Title:    r.Title(),
		Lines: []string{
			fmt.Sprintf("Top category: %s (%d sales).", top[0].Category, top[0].Count),
			fmt.Sprintf("%d categories shown.", len(top)),
		},
		Headers:  []string{"category", "sales"},
		Rows:     rows,
		Eligible: eligible,
		Chart:    outPath,
	}, nil
}

// DeliveryTimeReport describes the distribution of delivery durations
type DeliveryTimeReport struct {
	renderer   *charts.Renderer
	cutoffDays int
	bins       int
}

// NewDeliveryTimeReport creates the delivery report. Durations above
// cutoffDays are discarded as outliers.
func NewDeliveryTimeReport(renderer *charts.Renderer, cutoffDays, bins int) *DeliveryTimeReport {
	return &DeliveryTimeReport{renderer: renderer, cutoffDays: cutoffDays, bins: bins}
}

func (r *DeliveryTimeReport) ID() string       { return "delivery_time" }
func (r *DeliveryTimeReport) Title() string    { return "delivery time distribution" }
func (r *DeliveryTimeReport) Filename() string { return "2_delivery_time_distribution.png" }

// DeliveryDurations returns the whole-day delivery durations not above
// cutoffDays, and how many were discarded
func DeliveryDurations(records []domain.OrderRecord, cutoffDays int) (days []float64, discarded int) {
	for _, rec := range records {
		d, ok := rec.DeliveryDays()
		if !ok {
			continue
		}
		if d > cutoffDays {
			discarded++
			continue
		}
		days = append(days, float64(d))
	}
	return days, discarded
}

// Generate implements Reporter
func (r *DeliveryTimeReport) Generate(ctx context.Context, records []domain.OrderRecord, outPath string) (Summary, error) {
	if err := ctx.Err(); err != nil {
		return Summary{}, err
	}

	days, discarded := DeliveryDurations(records, r.cutoffDays)
	if len(days) == 0 {
		return noData(r.ID(), r.Title())
	}
	mean := Mean(days)

	perDay := make(map[int]int)
	for _, d := range days {
		perDay[int(d)]++
	}
	keys := make([]int, 0, len(perDay))
	for k := range perDay {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	rows := make([][]string, len(keys))
	for i, k := range keys {
		rows[i] = []string{strconv.Itoa(k), strconv.Itoa(perDay[k])}
	}

	labels := charts.Labels{
		Title: fmt.Sprintf("Delivery Time Distribution (Mean: %.2f days)", mean),
		X:     "Delivery time (days)",
		Y:     "Frequency",
	}
	marker := fmt.Sprintf("Mean (%.2f days)", mean)
	if err := r.renderer.Histogram(outPath, labels, days, r.bins, mean, marker); err != nil {
		return Summary{}, err
	}

	return Summary{
		ReportID: r.ID(),
		Title:    r.Title(),
		Lines: []string{
			fmt.Sprintf("Average delivery time: %.2f days.", mean),
			fmt.Sprintf("%d deliveries over %d days excluded as outliers.", discarded, r.cutoffDays),
		},
		Headers:  []string{"delivery_days", "records"},
		Rows:     rows,
		Eligible: len(days),
		Chart:    outPath,
	}, nil
}

// DelaySatisfactionReport compares review scores of late and on-time deliveries
type DelaySatisfactionReport struct {
	renderer *charts.Renderer
}

// NewDelaySatisfactionReport creates the delay report
func NewDelaySatisfactionReport(renderer *charts.Renderer) *DelaySatisfactionReport {
	return &DelaySatisfactionReport{renderer: renderer}
}

func (r *DelaySatisfactionReport) ID() string       { return "delay_vs_satisfaction" }
func (r *DelaySatisfactionReport) Title() string    { return "delivery delay impact on satisfaction" }
func (r *DelaySatisfactionReport) Filename() string { return "3_delay_vs_satisfaction.png" }

// IsLate reports whether the record was delivered at least one whole day
// after the estimate. ok is false when either date is absent.
func IsLate(rec domain.OrderRecord) (late bool, ok bool) {
	d, ok := rec.DelayDays()
	if !ok {
		return false, false
	}
	return d > 0, true
}

// Generate implements Reporter
func (r *DelaySatisfactionReport) Generate(ctx context.Context, records []domain.OrderRecord, outPath string) (Summary, error) {
	if err := ctx.Err(); err != nil {
		return Summary{}, err
	}

	var onTime, late []float64
	for _, rec := range records {
		isLate, ok := IsLate(rec)
		if !ok || rec.ReviewScore == nil {
			continue
		}
		if isLate {
			late = append(late, *rec.ReviewScore)
		} else {
			onTime = append(onTime, *rec.ReviewScore)
		}
	}
	if len(onTime)+len(late) == 0 {
		return noData(r.ID(), r.Title())
	}

	lines := []string{"Mean satisfaction:"}
	var rows [][]string
	for _, g := range []struct {
		label  string
		late   bool
		scores []float64
	}{
		{onTimeLabel, false, onTime},
		{lateLabel, true, late},
	} {
		if len(g.scores) == 0 {
			continue
		}
		mean := Mean(g.scores)
		lines = append(lines, fmt.Sprintf("%s: %.2f (%d records)", g.label, mean, len(g.scores)))
		rows = append(rows, []string{strconv.FormatBool(g.late), formatScore(mean), strconv.Itoa(len(g.scores))})
	}

	labels := charts.Labels{
		Title: "Delivery Delay vs. Customer Satisfaction",
		X:     "Delivered late?",
		Y:     "Review score",
	}
	groups := []charts.BoxGroup{
		{Name: onTimeLabel, Values: onTime},
		{Name: lateLabel, Values: late},
	}
	if err := r.renderer.BoxPlots(outPath, labels, groups); err != nil {
		return Summary{}, err
	}

	return Summary{
		ReportID: r.ID(),
		Title:    r.Title(),
		Lines:    lines,
		Headers:  []string{"late", "mean_review_score", "records"},
		Rows:     rows,
		Eligible: len(onTime) + len(late),
		Chart:    outPath,
	}, nil
}

// FreightSatisfactionReport compares review scores across freight cost quartiles
type FreightSatisfactionReport struct {
	renderer *charts.Renderer
}

// NewFreightSatisfactionReport creates the freight report
func NewFreightSatisfactionReport(renderer *charts.Renderer) *FreightSatisfactionReport {
	return &FreightSatisfactionReport{renderer: renderer}
}

func (r *FreightSatisfactionReport) ID() string       { return "freight_vs_satisfaction" }
func (r *FreightSatisfactionReport) Title() string    { return "freight cost vs. satisfaction" }
func (r *FreightSatisfactionReport) Filename() string { return "4_freight_vs_satisfaction.png" }

// Generate implements Reporter
func (r *FreightSatisfactionReport) Generate(ctx context.Context, records []domain.OrderRecord, outPath string) (Summary, error) {
	if err := ctx.Err(); err != nil {
		return Summary{}, err
	}

	var freight, scores []float64
	for _, rec := range records {
		if rec.FreightValue == nil || rec.ReviewScore == nil {
			continue
		}
		freight = append(freight, *rec.FreightValue)
		scores = append(scores, *rec.ReviewScore)
	}
	if len(freight) == 0 {
		return noData(r.ID(), r.Title())
	}

	bands := QuantileBands(freight, FreightBandLabels)
	perBand := make([][]float64, len(bands.Labels))
	for i, v := range freight {
		if b := bands.Band(v); b >= 0 {
			perBand[b] = append(perBand[b], scores[i])
		}
	}

	groups := make([]charts.BoxGroup, len(bands.Labels))
	lines := make([]string, 0, len(bands.Labels))
	rows := make([][]string, 0, len(bands.Labels))
	for i, label := range bands.Labels {
		groups[i] = charts.BoxGroup{Name: label, Values: perBand[i]}

		lower, upper := bands.Edges[i], bands.Edges[i+1]
		mean := "n/a"
		if len(perBand[i]) > 0 {
			mean = formatScore(Mean(perBand[i]))
		}
		// the lowest band includes its lower edge
		bracket := "("
		if i == 0 {
			bracket = "["
		}
		lines = append(lines, fmt.Sprintf("%s freight %s%.2f - %.2f]: %d records, mean score %s",
			label, bracket, lower, upper, len(perBand[i]), mean))
		rows = append(rows, []string{
			label,
			strconv.FormatFloat(lower, 'f', 2, 64),
			strconv.FormatFloat(upper, 'f', 2, 64),
			strconv.Itoa(len(perBand[i])),
			mean,
		})
	}

	labels := charts.Labels{
		Title: "Customer Satisfaction by Freight Cost Band",
		X:     "Freight cost band",
		Y:     "Review score",
	}
	if err := r.renderer.BoxPlots(outPath, labels, groups); err != nil {
		return Summary{}, err
	}

	return Summary{
		ReportID: r.ID(),
		Title:    r.Title(),
		Lines:    lines,
		Headers:  []string{"band", "lower", "upper", "records", "mean_review_score"},
		Rows:     rows,
		Eligible: len(freight),
		Chart:    outPath,
	}, nil
}

// InstallmentsRevenueReport sums payment value per installment count
type InstallmentsRevenueReport struct {
	renderer *charts.Renderer
	ticker   charts.MillionsTicker
}

// NewInstallmentsRevenueReport creates the installments report
func NewInstallmentsRevenueReport(renderer *charts.Renderer) *InstallmentsRevenueReport {
	return &InstallmentsRevenueReport{
		renderer: renderer,
		ticker:   charts.NewMillionsTicker(language.English),
	}
}

func (r *InstallmentsRevenueReport) ID() string       { return "installments_revenue" }
func (r *InstallmentsRevenueReport) Title() string    { return "promotion effectiveness by installments" }
func (r *InstallmentsRevenueReport) Filename() string { return "5_installments_revenue.png" }

// InstallmentRevenue is the payment total of one installment count
type InstallmentRevenue struct {
	Installments float64
	Revenue      float64
	Records      int
}

// RevenueByInstallments sums payment value per installment count, ascending
func RevenueByInstallments(records []domain.OrderRecord) []InstallmentRevenue {
	sums := make(map[float64]*InstallmentRevenue)
	for _, rec := range records {
		if rec.PaymentInstallments == nil || rec.PaymentValue == nil {
			continue
		}
		k := *rec.PaymentInstallments
		if sums[k] == nil {
			sums[k] = &InstallmentRevenue{Installments: k}
		}
		sums[k].Revenue += *rec.PaymentValue
		sums[k].Records++
	}

	result := make([]InstallmentRevenue, 0, len(sums))
	for _, ir := range sums {
		result = append(result, *ir)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Installments < result[j].Installments
	})
	return result
}

// Generate implements Reporter
func (r *InstallmentsRevenueReport) Generate(ctx context.Context, records []domain.OrderRecord, outPath string) (Summary, error) {
	if err := ctx.Err(); err != nil {
		return Summary{}, err
	}

	revenue := RevenueByInstallments(records)
	if len(revenue) == 0 {
		return noData(r.ID(), r.Title())
	}

	names := make([]string, len(revenue))
	values := make([]float64, len(revenue))
	rows := make([][]string, len(revenue))
	best := revenue[0]
	total := 0.0
	eligible := 0
	for i, ir := range revenue {
		names[i] = strconv.FormatFloat(ir.Installments, 'f', -1, 64)
		values[i] = ir.Revenue
		rows[i] = []string{names[i], strconv.FormatFloat(ir.Revenue, 'f', 2, 64)}
		total += ir.Revenue
		eligible += ir.Records
		if ir.Revenue > best.Revenue {
			best = ir
		}
	}

	labels := charts.Labels{
		Title: "Total Sales by Number of Installments",
		X:     "Number of installments",
		Y:     "Total sales (millions)",
	}
	if err := r.renderer.VerticalBars(outPath, labels, names, values, r.ticker); err != nil {
		return Summary{}, err
	}

	return Summary{
		ReportID: r.ID(),
		Title:    r.Title(),
		Lines: []string{
			fmt.Sprintf("Total sales: %.2f across %d installment options.", total, len(revenue)),
			fmt.Sprintf("Highest revenue at %s installment(s): %.2f.",
				strconv.FormatFloat(best.Installments, 'f', -1, 64), best.Revenue),
		},
		Headers:  []string{"installments", "revenue"},
		Rows:     rows,
		Eligible: eligible,
		Chart:    outPath,
	}, nil
}

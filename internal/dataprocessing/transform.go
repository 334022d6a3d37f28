package dataprocessing

import (
	"context"
	"log/slog"
	"time"

	"olistcli/internal/infrastructure"
	"olistcli/pkg/contracts/domain"
)

// TransformStats describes what the transform step did to the data
type TransformStats struct {
	JoinedRows   int
	DroppedRows  int
	OutputRows   int
	DatesCoerced map[string]int
}

// joinStep is one link of the order join chain
type joinStep struct {
	table string
	on    string
}

// orderJoinChain is applied left to right starting from the orders table.
// Products are joined after translation.
var orderJoinChain = []joinStep{
	{domain.TableOrderReviews, domain.ColOrderID},
	{domain.TableOrderPayments, domain.ColOrderID},
	{domain.TableOrderItems, domain.ColOrderID},
	{domain.TableProducts, domain.ColProductID},
	{domain.TableCustomers, domain.ColCustomerID},
}

// Transformer joins the loaded tables into the flat order dataset and cleans it
type Transformer struct {
	logger  *slog.Logger
	metrics *infrastructure.Metrics
}

// NewTransformer creates a transformer. metrics may be nil.
func NewTransformer(logger *slog.Logger, metrics *infrastructure.Metrics) *Transformer {
	if logger == nil {
		logger = infrastructure.GetLogger()
	}
	return &Transformer{
		logger:  infrastructure.WithComponent(logger, "transformer"),
		metrics: metrics,
	}
}

// Transform runs, in order: category translation, the order join chain, date
// parsing and removal of records missing an essential column. The joined row
// count is the fan-out of the chain; only DropMissing removes rows.
func (tr *Transformer) Transform(ctx context.Context, tables Tables) (*Table, TransformStats, error) {
	var stats TransformStats

	if err := tables.Require(domain.RequiredTables...); err != nil {
		return nil, stats, err
	}

	joined, err := tr.Join(ctx, tables)
	if err != nil {
		return nil, stats, err
	}
	stats.JoinedRows = joined.Len()

	start := time.Now()
	coerced, err := NormalizeDates(joined, domain.DateColumns)
	if err != nil {
		return nil, stats, err
	}
	tr.metrics.ObserveStage("parse_dates", start)
	stats.DatesCoerced = coerced

	for _, col := range domain.DateColumns {
		tr.logger.InfoContext(ctx, "Date column parsed",
			slog.String("column", col),
			slog.Int("coerced_to_empty", coerced[col]))
		if tr.metrics != nil {
			tr.metrics.DatesCoerced.WithLabelValues(col).Add(float64(coerced[col]))
		}
	}

	cleaned, err := DropMissing(joined, domain.EssentialColumns)
	if err != nil {
		return nil, stats, err
	}
	stats.OutputRows = cleaned.Len()
	stats.DroppedRows = stats.JoinedRows - stats.OutputRows

	tr.logger.InfoContext(ctx, "Transform completed",
		slog.Int("joined_rows", stats.JoinedRows),
		slog.Int("dropped_rows", stats.DroppedRows),
		slog.Int("output_rows", stats.OutputRows))
	if tr.metrics != nil {
		tr.metrics.JoinedRows.Set(float64(stats.JoinedRows))
		tr.metrics.DroppedRows.Set(float64(stats.DroppedRows))
	}

	return cleaned, stats, nil
}

// Join translates product categories and left-joins orders with reviews,
// payments, items, products and customers
func (tr *Transformer) Join(ctx context.Context, tables Tables) (*Table, error) {
	start := time.Now()
	defer tr.metrics.ObserveStage("join", start)

	if err := tables.Require(domain.RequiredTables...); err != nil {
		return nil, err
	}

	products, err := TranslateCategories(tables[domain.TableProducts], tables[domain.TableCategoryTranslation])
	if err != nil {
		return nil, err
	}

	result := tables[domain.TableOrders]
	for _, step := range orderJoinChain {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		right := tables[step.table]
		if step.table == domain.TableProducts {
			right = products
		}

		result, err = LeftJoin(result, right, step.on)
		if err != nil {
			return nil, err
		}

		tr.logger.DebugContext(ctx, "Joined table",
			slog.String("table", step.table),
			slog.String("on", step.on),
			slog.Int("rows", result.Len()))
	}

	result.Name = "processed_orders"
	return result, nil
}

// DropMissing keeps only rows where every named column is non-empty
func DropMissing(t *Table, columns []string) (*Table, error) {
	idx := make([]int, len(columns))
	for i, col := range columns {
		pos, err := t.MustColumn(col)
		if err != nil {
			return nil, err
		}
		idx[i] = pos
	}

	return t.Filter(func(row []string) bool {
		for _, i := range idx {
			if row[i] == "" {
				return false
			}
		}
		return true
	}), nil
}

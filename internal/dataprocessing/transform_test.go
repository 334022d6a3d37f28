package dataprocessing

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"olistcli/internal/errors"
	"olistcli/internal/infrastructure"
	"olistcli/internal/shared/testutil"
	"olistcli/pkg/contracts/domain"
)

func loadFixture(t *testing.T) Tables {
	t.Helper()
	logger, _ := testutil.NewTestLogger(t)
	tables, err := NewLoader(logger, nil).LoadDirectory(context.Background(), testutil.WriteOlistDataset(t))
	require.NoError(t, err)
	return tables
}

func TestLoader_LoadDirectory(t *testing.T) {
	logger, handler := testutil.NewTestLogger(t)
	metrics := infrastructure.NewMetrics("etl")

	dir := testutil.WriteOlistDataset(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.txt"), []byte("ignored"), 0644))

	tables, err := NewLoader(logger, metrics).LoadDirectory(context.Background(), dir)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"olist_customers",
		"olist_order_items",
		"olist_order_payments",
		"olist_order_reviews",
		"olist_orders",
		"olist_products",
		"product_category_name_translation",
	}, tables.Names())

	orders := tables[domain.TableOrders]
	assert.Equal(t, testutil.FixtureOrders, orders.Len())
	assert.Equal(t, "order_id", orders.Columns[0])
	assert.Equal(t, "", orders.Value(2, domain.ColApprovedAt), "empty cells stay empty")
	assert.Equal(t, "100.00", tables[domain.TableOrderPayments].Value(0, domain.ColPaymentValue), "values keep their text")

	testutil.AssertLogContains(t, handler, slog.LevelInfo, "Loaded table")
	assert.True(t, handler.ContainsAttr("table", domain.TableOrders))
}

func TestLoader_MissingDirectory(t *testing.T) {
	_, err := NewLoader(nil, nil).LoadDirectory(context.Background(), filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrTypeNotFound))
}

func TestLoader_MalformedFile(t *testing.T) {
	dir := t.TempDir()
	bad := "order_id,status\no1,delivered\no2,shipped,extra\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "olist_orders_dataset.csv"), []byte(bad), 0644))

	_, err := NewLoader(nil, nil).LoadDirectory(context.Background(), dir)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrTypeParsing))
}

func TestLoader_HeaderOnlyFile(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteCSV(t, filepath.Join(dir, "olist_order_reviews_dataset.csv"),
		[]string{"review_id", "order_id", "review_score"}, nil)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "empty.csv"), nil, 0644))

	logger, handler := testutil.NewTestLogger(t)
	loader := NewLoader(logger, nil)

	table, err := loader.LoadFile(filepath.Join(dir, "olist_order_reviews_dataset.csv"), domain.TableOrderReviews)
	require.NoError(t, err)
	assert.Equal(t, 0, table.Len())
	assert.Equal(t, []string{"review_id", "order_id", "review_score"}, table.Columns)
	assert.True(t, table.HasColumn(domain.ColOrderID))
	assert.True(t, handler.ContainsMessage("no data rows"))
	testutil.AssertNoErrors(t, handler)

	_, err = loader.LoadFile(filepath.Join(dir, "empty.csv"), "empty")
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrTypeParsing), "a file without a header is still malformed")
}

func TestTransformer_EmptyReviews(t *testing.T) {
	dir := testutil.WriteOlistDataset(t)
	testutil.WriteCSV(t, filepath.Join(dir, "olist_order_reviews_dataset.csv"),
		[]string{"review_id", "order_id", "review_score"}, nil)

	tables, err := NewLoader(nil, nil).LoadDirectory(context.Background(), dir)
	require.NoError(t, err)

	cleaned, stats, err := NewTransformer(nil, nil).Transform(context.Background(), tables)
	require.NoError(t, err)

	// every order survives the left join and then lacks a review score
	assert.Equal(t, stats.JoinedRows, stats.DroppedRows)
	assert.Equal(t, 0, cleaned.Len())
	assert.True(t, cleaned.HasColumn(domain.ColReviewScore))
}

func TestLoader_KeepsLeadingZeros(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteCSV(t, filepath.Join(dir, "olist_customers_dataset.csv"),
		[]string{"customer_id", "customer_zip_code_prefix"},
		[][]string{{"c1", "01409"}})

	tables, err := NewLoader(nil, nil).LoadDirectory(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, "01409", tables["olist_customers"].Value(0, "customer_zip_code_prefix"))
}

func TestTransformer_Join_FanOut(t *testing.T) {
	tables := loadFixture(t)

	joined, err := NewTransformer(nil, nil).Join(context.Background(), tables)
	require.NoError(t, err)

	assert.Equal(t, testutil.FixtureJoinedRows, joined.Len())

	perOrder := map[string]int{}
	for i := range joined.Rows {
		perOrder[joined.Value(i, domain.ColOrderID)]++
	}
	// o1: 1 review x 2 payments x 2 items
	assert.Equal(t, map[string]int{"o1": 4, "o2": 1, "o3": 1, "o4": 1}, perOrder)

	for _, col := range []string{domain.ColReviewScore, domain.ColPaymentValue, domain.ColFreightValue, domain.ColCategoryName, domain.ColCustomerState} {
		assert.True(t, joined.HasColumn(col), col)
	}
	assert.False(t, joined.HasColumn(domain.ColCategoryNameEnglish))
}

func TestTransformer_Transform(t *testing.T) {
	tables := loadFixture(t)
	metrics := infrastructure.NewMetrics("etl")

	cleaned, stats, err := NewTransformer(nil, metrics).Transform(context.Background(), tables)
	require.NoError(t, err)

	assert.Equal(t, testutil.FixtureJoinedRows, stats.JoinedRows)
	assert.Equal(t, testutil.FixtureCleanRows, stats.OutputRows)
	assert.Equal(t, testutil.FixtureJoinedRows-testutil.FixtureCleanRows, stats.DroppedRows)
	assert.Equal(t, 1, stats.DatesCoerced[domain.ColPurchaseTimestamp])
	assert.Equal(t, 0, stats.DatesCoerced[domain.ColDeliveredCustomerDate])

	categories := map[string]bool{}
	for i := range cleaned.Rows {
		for _, col := range domain.EssentialColumns {
			assert.NotEmpty(t, cleaned.Value(i, col), "row %d column %s", i, col)
		}
		categories[cleaned.Value(i, domain.ColCategoryName)] = true
		assert.NotEqual(t, "o3", cleaned.Value(i, domain.ColOrderID))
		assert.NotEqual(t, "o4", cleaned.Value(i, domain.ColOrderID))
	}

	assert.Equal(t, map[string]bool{
		"health_beauty":          true,
		"computers_accessories":  true,
		"categoria_sem_traducao": true,
	}, categories)

	assert.Equal(t, "2017-01-01 10:00:00", cleaned.Value(0, domain.ColPurchaseTimestamp))
}

func TestTransformer_MissingTable(t *testing.T) {
	tables := loadFixture(t)
	delete(tables, domain.TableCustomers)

	_, _, err := NewTransformer(nil, nil).Transform(context.Background(), tables)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrTypeValidation))
	assert.Contains(t, err.Error(), domain.TableCustomers)
}

func TestTransformer_MissingDateColumn(t *testing.T) {
	tables := loadFixture(t)
	tables[domain.TableOrders] = tables[domain.TableOrders].DropColumn(domain.ColApprovedAt)

	_, _, err := NewTransformer(nil, nil).Transform(context.Background(), tables)
	require.Error(t, err)
	assert.Contains(t, err.Error(), domain.ColApprovedAt)
}

func TestDropMissing(t *testing.T) {
	table := NewTable("t", []string{"a", "b", "c"}, [][]string{
		{"1", "x", ""},
		{"", "x", "y"},
		{"2", "", "y"},
		{"3", "x", "y"},
	})

	kept, err := DropMissing(table, []string{"a", "b"})
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"1", "x", ""}, {"3", "x", "y"}}, kept.Rows)

	_, err = DropMissing(table, []string{"zzz"})
	assert.Error(t, err)
}

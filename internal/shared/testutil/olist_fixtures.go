package testutil

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
)

// CSVTable is a header plus rows, written verbatim by WriteCSV
type CSVTable struct {
	Header []string
	Rows   [][]string
}

// Expected shape of the dataset written by WriteOlistDataset.
//
// Order o1 has one review, two payments and two items, so it fans out to four
// rows. o3 has an unparsable purchase timestamp and o4 has no review; both
// survive the join and are dropped by the cleaner.
const (
	FixtureOrders     = 4
	FixtureJoinedRows = 7
	FixtureCleanRows  = 5
)

// OlistDataset returns a small but complete Olist dump keyed by file name
func OlistDataset() map[string]CSVTable {
	return map[string]CSVTable{
		"olist_orders_dataset.csv": {
			Header: []string{"order_id", "customer_id", "order_status", "order_purchase_timestamp", "order_approved_at",
				"order_delivered_carrier_date", "order_delivered_customer_date", "order_estimated_delivery_date"},
			Rows: [][]string{
				{"o1", "c1", "delivered", "2017-01-01 10:00:00", "2017-01-01 11:00:00", "2017-01-03 09:00:00", "2017-01-11 10:00:00", "2017-01-20 00:00:00"},
				{"o2", "c2", "delivered", "2017-02-01 08:00:00", "2017-02-01 09:30:00", "2017-02-05 12:00:00", "2017-03-18 08:00:00", "2017-03-01 00:00:00"},
				{"o3", "c3", "canceled", "not a date", "", "", "", "2017-03-10 00:00:00"},
				{"o4", "c1", "delivered", "2017-04-01 15:20:00", "2017-04-01", "", "", "2017-04-20T00:00:00"},
			},
		},
		"olist_order_reviews_dataset.csv": {
			Header: []string{"review_id", "order_id", "review_score", "review_comment_title"},
			Rows: [][]string{
				{"r1", "o1", "5", ""},
				{"r2", "o2", "2", "atrasou"},
				{"r3", "o3", "4", ""},
			},
		},
		"olist_order_payments_dataset.csv": {
			Header: []string{"order_id", "payment_sequential", "payment_type", "payment_installments", "payment_value"},
			Rows: [][]string{
				{"o1", "1", "credit_card", "3", "100.00"},
				{"o1", "2", "voucher", "1", "20.00"},
				{"o2", "1", "boleto", "1", "250.50"},
				{"o3", "1", "credit_card", "2", "80.00"},
				{"o4", "1", "credit_card", "1", "10.00"},
			},
		},
		"olist_order_items_dataset.csv": {
			Header: []string{"order_id", "order_item_id", "product_id", "seller_id", "shipping_limit_date", "price", "freight_value"},
			Rows: [][]string{
				{"o1", "1", "p1", "s1", "2017-01-05 10:00:00", "50.00", "10.00"},
				{"o1", "2", "p2", "s1", "2017-01-05 10:00:00", "50.00", "12.50"},
				{"o2", "1", "p3", "s2", "2017-02-07 08:00:00", "240.00", "10.50"},
				{"o3", "1", "p1", "s2", "2017-03-01 00:00:00", "70.00", "10.00"},
				{"o4", "1", "p2", "s1", "2017-04-05 15:20:00", "9.00", "1.00"},
			},
		},
		"olist_products_dataset.csv": {
			Header: []string{"product_id", "product_category_name", "product_weight_g"},
			Rows: [][]string{
				{"p1", "beleza_saude", "500"},
				{"p2", "informatica_acessorios", "1200"},
				{"p3", "categoria_sem_traducao", "300"},
			},
		},
		"product_category_name_translation.csv": {
			Header: []string{"product_category_name", "product_category_name_english"},
			Rows: [][]string{
				{"beleza_saude", "health_beauty"},
				{"informatica_acessorios", "computers_accessories"},
			},
		},
		"olist_customers_dataset.csv": {
			Header: []string{"customer_id", "customer_unique_id", "customer_city", "customer_state"},
			Rows: [][]string{
				{"c1", "u1", "sao paulo", "SP"},
				{"c2", "u2", "rio de janeiro", "RJ"},
				{"c3", "u3", "belo horizonte", "MG"},
			},
		},
	}
}

// WriteOlistDataset writes OlistDataset into a fresh directory and returns it
func WriteOlistDataset(t *testing.T) string {
	t.Helper()

	dir := filepath.Join(t.TempDir(), "data")
	for name, table := range OlistDataset() {
		WriteCSV(t, filepath.Join(dir, name), table.Header, table.Rows)
	}
	return dir
}

// WriteCSV writes header and rows to path, creating parent directories
func WriteCSV(t *testing.T, path string, header []string, rows [][]string) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("failed to create fixture directory: %v", err)
	}
	file, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create fixture %s: %v", path, err)
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if err := w.Write(header); err != nil {
		t.Fatalf("failed to write fixture header: %v", err)
	}
	if err := w.WriteAll(rows); err != nil {
		t.Fatalf("failed to write fixture rows: %v", err)
	}
}

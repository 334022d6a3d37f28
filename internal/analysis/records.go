package analysis

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"olistcli/internal/dataprocessing"
	"olistcli/internal/infrastructure"
	"olistcli/internal/validation"
	"olistcli/pkg/contracts/domain"
)

// requiredColumns must be present in the processed file for the reports to run
var requiredColumns = []string{
	domain.ColCategoryName,
	domain.ColReviewScore,
	domain.ColPurchaseTimestamp,
	domain.ColDeliveredCustomerDate,
	domain.ColEstimatedDeliveryDate,
	domain.ColFreightValue,
	domain.ColPaymentInstallments,
	domain.ColPaymentValue,
}

// LoadRecords reads the processed CSV at path. A missing file is reported as
// a NOT_FOUND AppError.
func LoadRecords(ctx context.Context, path string, logger *slog.Logger) ([]domain.OrderRecord, error) {
	if logger == nil {
		logger = infrastructure.GetLogger()
	}

	if err := validation.NewFileValidator(logger).ValidateCSVFile(path); err != nil {
		return nil, err
	}

	table, err := dataprocessing.NewLoader(logger, nil).LoadFile(path, "processed_orders")
	if err != nil {
		return nil, err
	}

	records, err := RecordsFromTable(table)
	if err != nil {
		return nil, err
	}

	logger.InfoContext(ctx, "Processed records loaded",
		slog.String("file", path),
		slog.Int("records", len(records)))
	return records, nil
}

// RecordsFromTable converts processed rows to typed records. Empty or
// unparsable cells become nil fields.
func RecordsFromTable(t *dataprocessing.Table) ([]domain.OrderRecord, error) {
	for _, col := range requiredColumns {
		if _, err := t.MustColumn(col); err != nil {
			return nil, err
		}
	}

	records := make([]domain.OrderRecord, t.Len())
	for i := range t.Rows {
		records[i] = domain.OrderRecord{
			OrderID:     t.Value(i, domain.ColOrderID),
			CustomerID:  t.Value(i, domain.ColCustomerID),
			ProductID:   t.Value(i, domain.ColProductID),
			OrderStatus: t.Value(i, domain.ColOrderStatus),
			Category:    t.Value(i, domain.ColCategoryName),

			ReviewScore: parseFloat(t.Value(i, domain.ColReviewScore)),

			PurchasedAt:         parseTime(t.Value(i, domain.ColPurchaseTimestamp)),
			ApprovedAt:          parseTime(t.Value(i, domain.ColApprovedAt)),
			DeliveredCarrierAt:  parseTime(t.Value(i, domain.ColDeliveredCarrierDate)),
			DeliveredCustomerAt: parseTime(t.Value(i, domain.ColDeliveredCustomerDate)),
			EstimatedDeliveryAt: parseTime(t.Value(i, domain.ColEstimatedDeliveryDate)),

			Price:        parseFloat(t.Value(i, domain.ColPrice)),
			FreightValue: parseFloat(t.Value(i, domain.ColFreightValue)),

			PaymentType:         t.Value(i, domain.ColPaymentType),
			PaymentInstallments: parseFloat(t.Value(i, domain.ColPaymentInstallments)),
			PaymentValue:        parseFloat(t.Value(i, domain.ColPaymentValue)),

			CustomerState: t.Value(i, domain.ColCustomerState),
		}
	}
	return records, nil
}

func parseFloat(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}

func parseTime(s string) *time.Time {
	t, ok := dataprocessing.ParseTimestamp(s)
	if !ok {
		return nil
	}
	return &t
}

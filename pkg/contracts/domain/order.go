package domain

import (
	"math"
	"time"
)

// OrderRecord is the typed view of one processed (order, review, payment,
// item) row. Because the processed dataset is a fan-out join, the same order
// appears once per review/payment/item combination; aggregates over
// OrderRecord slices count those combinations, not distinct orders.
// Nil pointers are absent values.
type OrderRecord struct {
	OrderID     string `json:"order_id"`
	CustomerID  string `json:"customer_id"`
	ProductID   string `json:"product_id"`
	OrderStatus string `json:"order_status"`
	Category    string `json:"product_category_name"`

	ReviewScore *float64 `json:"review_score,omitempty"`

	PurchasedAt         *time.Time `json:"order_purchase_timestamp,omitempty"`
	ApprovedAt          *time.Time `json:"order_approved_at,omitempty"`
	DeliveredCarrierAt  *time.Time `json:"order_delivered_carrier_date,omitempty"`
	DeliveredCustomerAt *time.Time `json:"order_delivered_customer_date,omitempty"`
	EstimatedDeliveryAt *time.Time `json:"order_estimated_delivery_date,omitempty"`

	Price        *float64 `json:"price,omitempty"`
	FreightValue *float64 `json:"freight_value,omitempty"`

	PaymentType         string   `json:"payment_type"`
	PaymentInstallments *float64 `json:"payment_installments,omitempty"`
	PaymentValue        *float64 `json:"payment_value,omitempty"`

	CustomerState string `json:"customer_state"`
}

// DeliveryDays is the whole number of days between purchase and delivery to
// the customer, floored. ok is false when either timestamp is absent.
func (r OrderRecord) DeliveryDays() (days int, ok bool) {
	if r.PurchasedAt == nil || r.DeliveredCustomerAt == nil {
		return 0, false
	}
	return WholeDays(r.DeliveredCustomerAt.Sub(*r.PurchasedAt)), true
}

// DelayDays is delivered minus estimated delivery in whole days, floored.
// Positive values mean the order arrived late.
func (r OrderRecord) DelayDays() (days int, ok bool) {
	if r.DeliveredCustomerAt == nil || r.EstimatedDeliveryAt == nil {
		return 0, false
	}
	return WholeDays(r.DeliveredCustomerAt.Sub(*r.EstimatedDeliveryAt)), true
}

// WholeDays floors a duration to days, so -1h is day -1 and 23h is day 0
func WholeDays(d time.Duration) int {
	return int(math.Floor(d.Hours() / 24))
}

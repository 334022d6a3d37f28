package domain

// Input table names, as derived from the Olist CSV file names
const (
	TableOrders              = "olist_orders"
	TableOrderItems          = "olist_order_items"
	TableOrderPayments       = "olist_order_payments"
	TableOrderReviews        = "olist_order_reviews"
	TableProducts            = "olist_products"
	TableCategoryTranslation = "product_category_name_translation"
	TableCustomers           = "olist_customers"
)

// RequiredTables lists every table the join chain reads
var RequiredTables = []string{
	TableOrders,
	TableOrderReviews,
	TableOrderPayments,
	TableOrderItems,
	TableProducts,
	TableCategoryTranslation,
	TableCustomers,
}

// Column names used by the join, the cleaner and the analyzer
const (
	ColOrderID     = "order_id"
	ColCustomerID  = "customer_id"
	ColProductID   = "product_id"
	ColOrderStatus = "order_status"

	ColPurchaseTimestamp     = "order_purchase_timestamp"
	ColApprovedAt            = "order_approved_at"
	ColDeliveredCarrierDate  = "order_delivered_carrier_date"
	ColDeliveredCustomerDate = "order_delivered_customer_date"
	ColEstimatedDeliveryDate = "order_estimated_delivery_date"

	ColReviewScore = "review_score"

	ColPaymentType         = "payment_type"
	ColPaymentInstallments = "payment_installments"
	ColPaymentValue        = "payment_value"

	ColPrice        = "price"
	ColFreightValue = "freight_value"

	ColCategoryName        = "product_category_name"
	ColCategoryNameEnglish = "product_category_name_english"

	ColCustomerState = "customer_state"
)

// DateColumns are parsed into timestamps by the transform step
var DateColumns = []string{
	ColPurchaseTimestamp,
	ColApprovedAt,
	ColDeliveredCarrierDate,
	ColDeliveredCustomerDate,
	ColEstimatedDeliveryDate,
}

// EssentialColumns must be present on every processed record
var EssentialColumns = []string{
	ColPurchaseTimestamp,
	ColCategoryName,
	ColReviewScore,
}

// TimestampLayout is the serialized form of every parsed date column
const TimestampLayout = "2006-01-02 15:04:05"

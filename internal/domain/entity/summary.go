package entity

import (
	"time"

	"github.com/google/uuid"
)

// CustomerSummary aggregates a customer's transactions over an optional
// timestamp window. Amounts are converted to PLN before summing.
type CustomerSummary struct {
	CustomerID          uuid.UUID `json:"customer_id"`
	TotalAmountPLN      float64   `json:"total_amount_pln"`
	UniqueProductsCount int       `json:"unique_products_count"`
	LastTransactionDate time.Time `json:"last_transaction_date"`
	TransactionCount    int       `json:"transaction_count"`
}

// ProductSummary aggregates a product's transactions over an optional
// timestamp window
type ProductSummary struct {
	ProductID            uuid.UUID `json:"product_id"`
	TotalAmountPLN       float64   `json:"total_amount_pln"`
	TotalQuantity        int       `json:"total_quantity"`
	UniqueCustomersCount int       `json:"unique_customers_count"`
	TransactionCount     int       `json:"transaction_count"`
}

package dto

import (
	"time"

	"github.com/Darkelvar/transaction-processor/internal/domain/entity"
)

// CreateTransactionRequest represents the API request for a single insert.
// Fields arrive untyped; validation happens in the domain layer so a bad
// request reports every failing field at once.
type CreateTransactionRequest struct {
	TransactionID string `json:"transaction_id" binding:"required"`
	Timestamp     string `json:"timestamp" binding:"required"`
	Amount        string `json:"amount" binding:"required"`
	Currency      string `json:"currency" binding:"required"`
	CustomerID    string `json:"customer_id" binding:"required"`
	ProductID     string `json:"product_id" binding:"required"`
	Quantity      string `json:"quantity" binding:"required"`
}

// ToRaw maps the request to a domain candidate record
func (r CreateTransactionRequest) ToRaw() entity.RawTransaction {
	return entity.RawTransaction{
		TransactionID: r.TransactionID,
		Timestamp:     r.Timestamp,
		Amount:        r.Amount,
		Currency:      r.Currency,
		CustomerID:    r.CustomerID,
		ProductID:     r.ProductID,
		Quantity:      r.Quantity,
	}
}

// TransactionResponse is the persisted transaction JSON shape
type TransactionResponse struct {
	TransactionID string    `json:"transaction_id"`
	Timestamp     time.Time `json:"timestamp"`
	Amount        float64   `json:"amount"`
	Currency      string    `json:"currency"`
	CustomerID    string    `json:"customer_id"`
	ProductID     string    `json:"product_id"`
	Quantity      int       `json:"quantity"`
	CreatedAt     time.Time `json:"created_at"`
}

// NewTransactionResponse maps an entity to its API shape
func NewTransactionResponse(t *entity.Transaction) TransactionResponse {
	return TransactionResponse{
		TransactionID: t.TransactionID.String(),
		Timestamp:     t.Timestamp,
		Amount:        t.Amount,
		Currency:      t.Currency,
		CustomerID:    t.CustomerID.String(),
		ProductID:     t.ProductID.String(),
		Quantity:      t.Quantity,
		CreatedAt:     t.CreatedAt,
	}
}

// PaginatedTransactionsResponse wraps one listing page
type PaginatedTransactionsResponse struct {
	Total int64                 `json:"total"`
	Skip  int                   `json:"skip"`
	Limit int                   `json:"limit"`
	Data  []TransactionResponse `json:"data"`
}

package persistence

import (
	"context"
	"time"

	"github.com/Darkelvar/transaction-processor/internal/domain/entity"
	"github.com/google/uuid"
)

// ListFilter narrows and pages a transaction listing
type ListFilter struct {
	CustomerID *uuid.UUID
	ProductID  *uuid.UUID
	Skip       int
	Limit      int
}

// SummaryFilter selects the transaction set feeding a summary. Exactly one
// of CustomerID/ProductID is set; the date bounds are inclusive and optional.
type SummaryFilter struct {
	CustomerID *uuid.UUID
	ProductID  *uuid.UUID
	StartDate  *time.Time
	EndDate    *time.Time
}

// TransactionRepository defines essential methods to interact with transaction data
type TransactionRepository interface {
	// Create saves a new transaction as a single independent write.
	// A failed write leaves no partial state behind.
	//
	// Possible errors:
	// - ErrDuplicateTransaction: a transaction with the same ID already exists;
	//   the stored row is not modified
	// - ErrDatabaseConnection: transient storage-layer fault
	// - ErrInternalServer: any other storage error
	Create(ctx context.Context, transaction *entity.Transaction) error

	// GetByID retrieves a transaction by its ID
	//
	// Possible errors:
	// - ErrTransactionNotFound: no transaction with the given ID exists
	// - ErrDatabaseConnection: transient storage-layer fault
	// - ErrInternalServer: any other storage error
	GetByID(ctx context.Context, transactionID uuid.UUID) (*entity.Transaction, error)

	// List returns a page of transactions ordered by insertion, plus the
	// total count matching the filter before paging
	//
	// Possible errors:
	// - ErrDatabaseConnection: transient storage-layer fault
	// - ErrInternalServer: any other storage error
	List(ctx context.Context, filter ListFilter) ([]*entity.Transaction, int64, error)

	// FindForSummary returns every transaction matching the summary filter
	//
	// Possible errors:
	// - ErrDatabaseConnection: transient storage-layer fault
	// - ErrInternalServer: any other storage error
	FindForSummary(ctx context.Context, filter SummaryFilter) ([]*entity.Transaction, error)
}

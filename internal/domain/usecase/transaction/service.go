package transaction

import (
	"context"

	"github.com/Darkelvar/transaction-processor/internal/domain/entity"
	errs "github.com/Darkelvar/transaction-processor/internal/domain/error"
	coreport "github.com/Darkelvar/transaction-processor/internal/domain/port/core"
	"github.com/Darkelvar/transaction-processor/internal/domain/port/persistence"
	"github.com/google/uuid"
)

// ListResult is one page of transactions plus the total count matching the
// filter before paging
type ListResult struct {
	Total        int64
	Skip         int
	Limit        int
	Transactions []*entity.Transaction
}

// Service exposes the direct (non-batch) transaction operations: single
// insert, lookup by ID and paginated listing
type Service struct {
	repo         persistence.TransactionRepository
	timeProvider coreport.TimeProvider
	logger       coreport.Logger
}

// NewService creates a new transaction service
func NewService(
	repo persistence.TransactionRepository,
	timeProvider coreport.TimeProvider,
	logger coreport.Logger,
) *Service {
	return &Service{
		repo:         repo,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// Create validates one raw record and persists it. Duplicate IDs surface as
// ErrDuplicateTransaction so the API can answer 409 consistently.
func (s *Service) Create(ctx context.Context, raw entity.RawTransaction) (*entity.Transaction, error) {
	transaction, err := entity.NewTransaction(raw, s.timeProvider)
	if err != nil {
		s.logger.Warn("Transaction rejected by validation", map[string]any{
			"transaction_id": raw.TransactionID,
			"error":          err.Error(),
		})
		return nil, err
	}

	if err := s.repo.Create(ctx, transaction); err != nil {
		s.logger.Error("Failed to persist transaction", map[string]any{
			"transaction_id": transaction.TransactionID.String(),
			"error":          err.Error(),
			"error_code":     errs.ErrorCode(err),
		})
		return nil, err
	}

	return transaction, nil
}

// GetByID retrieves a single transaction or ErrTransactionNotFound
func (s *Service) GetByID(ctx context.Context, transactionID uuid.UUID) (*entity.Transaction, error) {
	transaction, err := s.repo.GetByID(ctx, transactionID)
	if err != nil {
		if !errs.IsNotFoundError(err) {
			s.logger.Error("Failed to get transaction", map[string]any{
				"transaction_id": transactionID.String(),
				"error":          err.Error(),
			})
		}
		return nil, err
	}
	return transaction, nil
}

// List returns a page of transactions in insertion order, optionally
// filtered by customer or product
func (s *Service) List(ctx context.Context, filter persistence.ListFilter) (*ListResult, error) {
	transactions, total, err := s.repo.List(ctx, filter)
	if err != nil {
		s.logger.Error("Failed to list transactions", map[string]any{
			"error": err.Error(),
		})
		return nil, err
	}

	return &ListResult{
		Total:        total,
		Skip:         filter.Skip,
		Limit:        filter.Limit,
		Transactions: transactions,
	}, nil
}

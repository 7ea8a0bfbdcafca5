package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/Darkelvar/transaction-processor/internal/domain/entity"
	errs "github.com/Darkelvar/transaction-processor/internal/domain/error"
	coreport "github.com/Darkelvar/transaction-processor/internal/domain/port/core"
	"github.com/Darkelvar/transaction-processor/internal/domain/port/persistence"
	"github.com/Darkelvar/transaction-processor/internal/infrastructure/adapter/database"
	"github.com/Darkelvar/transaction-processor/internal/infrastructure/adapter/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TransactionRepository implements persistence.TransactionRepository using GORM
type TransactionRepository struct {
	db              *gorm.DB
	logger          coreport.Logger
	errorClassifier *ErrorClassifier
	errorMapper     *database.ErrorMapper
}

// NewTransactionRepository creates a new TransactionRepository instance
func NewTransactionRepository(db *gorm.DB, errorMapper *database.ErrorMapper, logger coreport.Logger) *TransactionRepository {
	return &TransactionRepository{
		db:              db,
		logger:          logger,
		errorClassifier: NewErrorClassifier(),
		errorMapper:     errorMapper,
	}
}

// translateError maps a storage error onto the matching domain sentinel
// while keeping the raw message for the logs and wrapped error chain
func (r *TransactionRepository) translateError(err error, operation string) error {
	mapped := r.errorMapper.MapError(err, operation)
	return fmt.Errorf("%w: %s", mapped, err.Error())
}

// entityToModel converts a transaction entity to a database model
func (r *TransactionRepository) entityToModel(transaction *entity.Transaction) model.Transaction {
	return model.Transaction{
		TransactionID: transaction.TransactionID,
		Timestamp:     transaction.Timestamp,
		Amount:        transaction.Amount,
		Currency:      transaction.Currency,
		CustomerID:    transaction.CustomerID,
		ProductID:     transaction.ProductID,
		Quantity:      transaction.Quantity,
		CreatedAt:     transaction.CreatedAt,
	}
}

// modelToEntity converts a transaction model to an entity
func (r *TransactionRepository) modelToEntity(m *model.Transaction) *entity.Transaction {
	return &entity.Transaction{
		TransactionID: m.TransactionID,
		Timestamp:     m.Timestamp,
		Amount:        m.Amount,
		Currency:      m.Currency,
		CustomerID:    m.CustomerID,
		ProductID:     m.ProductID,
		Quantity:      m.Quantity,
		CreatedAt:     m.CreatedAt,
	}
}

// Create saves a new transaction. Each insert is its own implicit database
// transaction; a failed write leaves nothing behind.
func (r *TransactionRepository) Create(ctx context.Context, transaction *entity.Transaction) error {
	r.logger.Debug("Creating transaction", map[string]any{
		"transaction_id": transaction.TransactionID.String(),
	})

	transactionModel := r.entityToModel(transaction)

	result := r.db.WithContext(ctx).Create(&transactionModel)
	if result.Error != nil {
		if r.errorClassifier.IsDuplicateKeyError(result.Error) || errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			r.logger.Warn("Duplicate transaction detected", map[string]any{
				"transaction_id": transaction.TransactionID.String(),
			})
			return errs.NewDuplicateTransactionError(transaction.TransactionID.String())
		}

		r.logger.Error("Failed to create transaction", map[string]any{
			"transaction_id": transaction.TransactionID.String(),
			"error":          result.Error.Error(),
			"error_class":    string(r.errorClassifier.Classify(result.Error)),
		})
		return r.translateError(result.Error, "create transaction")
	}

	return nil
}

// GetByID retrieves a transaction by its ID
func (r *TransactionRepository) GetByID(ctx context.Context, transactionID uuid.UUID) (*entity.Transaction, error) {
	var transactionModel model.Transaction
	result := r.db.WithContext(ctx).
		Where("transaction_id = ?", transactionID).
		First(&transactionModel)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, errs.ErrTransactionNotFound
		}
		r.logger.Error("Failed to get transaction", map[string]any{
			"transaction_id": transactionID.String(),
			"error":          result.Error.Error(),
		})
		return nil, r.translateError(result.Error, "get transaction")
	}

	return r.modelToEntity(&transactionModel), nil
}

// List returns a page of transactions in insertion order plus the total
// count matching the filter
func (r *TransactionRepository) List(ctx context.Context, filter persistence.ListFilter) ([]*entity.Transaction, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.Transaction{})
	if filter.CustomerID != nil {
		query = query.Where("customer_id = ?", *filter.CustomerID)
	}
	if filter.ProductID != nil {
		query = query.Where("product_id = ?", *filter.ProductID)
	}

	var total int64
	if result := query.Count(&total); result.Error != nil {
		r.logger.Error("Failed to count transactions", map[string]any{
			"error": result.Error.Error(),
		})
		return nil, 0, r.translateError(result.Error, "count transactions")
	}

	var models []model.Transaction
	result := query.
		Order("created_at").
		Offset(filter.Skip).
		Limit(filter.Limit).
		Find(&models)
	if result.Error != nil {
		r.logger.Error("Failed to list transactions", map[string]any{
			"error": result.Error.Error(),
		})
		return nil, 0, r.translateError(result.Error, "list transactions")
	}

	transactions := make([]*entity.Transaction, 0, len(models))
	for i := range models {
		transactions = append(transactions, r.modelToEntity(&models[i]))
	}

	return transactions, total, nil
}

// FindForSummary returns every transaction matching the summary filter with
// inclusive date bounds
func (r *TransactionRepository) FindForSummary(ctx context.Context, filter persistence.SummaryFilter) ([]*entity.Transaction, error) {
	query := r.db.WithContext(ctx).Model(&model.Transaction{})
	if filter.CustomerID != nil {
		query = query.Where("customer_id = ?", *filter.CustomerID)
	}
	if filter.ProductID != nil {
		query = query.Where("product_id = ?", *filter.ProductID)
	}
	if filter.StartDate != nil {
		query = query.Where("timestamp >= ?", *filter.StartDate)
	}
	if filter.EndDate != nil {
		query = query.Where("timestamp <= ?", *filter.EndDate)
	}

	var models []model.Transaction
	if result := query.Find(&models); result.Error != nil {
		r.logger.Error("Failed to retrieve transactions for summary", map[string]any{
			"error": result.Error.Error(),
		})
		return nil, r.translateError(result.Error, "find transactions for summary")
	}

	transactions := make([]*entity.Transaction, 0, len(models))
	for i := range models {
		transactions = append(transactions, r.modelToEntity(&models[i]))
	}

	return transactions, nil
}

package report

import (
	"context"

	"github.com/Darkelvar/transaction-processor/internal/domain/entity"
	errs "github.com/Darkelvar/transaction-processor/internal/domain/error"
	coreport "github.com/Darkelvar/transaction-processor/internal/domain/port/core"
	"github.com/Darkelvar/transaction-processor/internal/domain/port/persistence"
	"github.com/google/uuid"
)

// Service computes customer and product summaries over a filtered
// transaction set, converting amounts to PLN via the injected rate table
type Service struct {
	repo   persistence.TransactionRepository
	rates  *RateTable
	logger coreport.Logger
}

// NewService creates a new reporting service
func NewService(repo persistence.TransactionRepository, rates *RateTable, logger coreport.Logger) *Service {
	return &Service{
		repo:   repo,
		rates:  rates,
		logger: logger,
	}
}

// CustomerSummary aggregates a customer's transactions inside the optional
// inclusive [start, end] window. An empty matching set is a not-found
// condition, never a zero-valued summary.
func (s *Service) CustomerSummary(ctx context.Context, customerID uuid.UUID, filter persistence.SummaryFilter) (*entity.CustomerSummary, error) {
	filter.CustomerID = &customerID
	filter.ProductID = nil

	transactions, err := s.fetch(ctx, filter, "customer", customerID)
	if err != nil {
		return nil, err
	}

	summary := &entity.CustomerSummary{
		CustomerID:       customerID,
		TransactionCount: len(transactions),
	}

	var total float64
	products := make(map[uuid.UUID]struct{})
	for _, t := range transactions {
		total += s.rates.ConvertToPLN(t.Amount, t.Currency)
		products[t.ProductID] = struct{}{}
		if t.Timestamp.After(summary.LastTransactionDate) {
			summary.LastTransactionDate = t.Timestamp
		}
	}

	summary.TotalAmountPLN = entity.Round2(total)
	summary.UniqueProductsCount = len(products)
	return summary, nil
}

// ProductSummary aggregates a product's transactions inside the optional
// inclusive [start, end] window
func (s *Service) ProductSummary(ctx context.Context, productID uuid.UUID, filter persistence.SummaryFilter) (*entity.ProductSummary, error) {
	filter.ProductID = &productID
	filter.CustomerID = nil

	transactions, err := s.fetch(ctx, filter, "product", productID)
	if err != nil {
		return nil, err
	}

	summary := &entity.ProductSummary{
		ProductID:        productID,
		TransactionCount: len(transactions),
	}

	var total float64
	customers := make(map[uuid.UUID]struct{})
	for _, t := range transactions {
		total += s.rates.ConvertToPLN(t.Amount, t.Currency)
		summary.TotalQuantity += t.Quantity
		customers[t.CustomerID] = struct{}{}
	}

	summary.TotalAmountPLN = entity.Round2(total)
	summary.UniqueCustomersCount = len(customers)
	return summary, nil
}

func (s *Service) fetch(ctx context.Context, filter persistence.SummaryFilter, kind string, id uuid.UUID) ([]*entity.Transaction, error) {
	transactions, err := s.repo.FindForSummary(ctx, filter)
	if err != nil {
		s.logger.Error("Failed to retrieve transactions for summary", map[string]any{
			kind:    id.String(),
			"error": err.Error(),
		})
		return nil, err
	}

	if len(transactions) == 0 {
		s.logger.Warn("No transactions found for summary", map[string]any{
			kind: id.String(),
		})
		return nil, errs.ErrNoTransactionsFound
	}

	return transactions, nil
}

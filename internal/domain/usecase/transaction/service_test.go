package transaction

import (
	"context"
	"testing"
	"time"

	"github.com/Darkelvar/transaction-processor/internal/domain/entity"
	errs "github.com/Darkelvar/transaction-processor/internal/domain/error"
	"github.com/Darkelvar/transaction-processor/internal/domain/port/core"
	"github.com/Darkelvar/transaction-processor/internal/domain/port/persistence"
	"github.com/Darkelvar/transaction-processor/internal/infrastructure/adapter/logger"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedTimeProvider struct {
	now time.Time
}

func (p *fixedTimeProvider) Now() time.Time                  { return p.now }
func (p *fixedTimeProvider) Since(t time.Time) core.Duration { return core.Duration(p.now.Sub(t)) }
func (p *fixedTimeProvider) Until(t time.Time) core.Duration { return core.Duration(t.Sub(p.now)) }
func (p *fixedTimeProvider) Sleep(d core.Duration)           {}
func (p *fixedTimeProvider) WithTimeout(ctx context.Context, timeout core.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, timeout.Std())
}
func (p *fixedTimeProvider) ParseDuration(s string) (core.Duration, error) {
	d, err := time.ParseDuration(s)
	return core.Duration(d), err
}

type fakeRepo struct {
	created    []*entity.Transaction
	createErr  error
	getResult  *entity.Transaction
	getErr     error
	listResult []*entity.Transaction
	listTotal  int64
	listErr    error
	lastList   persistence.ListFilter
}

func (r *fakeRepo) Create(ctx context.Context, transaction *entity.Transaction) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.created = append(r.created, transaction)
	return nil
}

func (r *fakeRepo) GetByID(ctx context.Context, transactionID uuid.UUID) (*entity.Transaction, error) {
	return r.getResult, r.getErr
}

func (r *fakeRepo) List(ctx context.Context, filter persistence.ListFilter) ([]*entity.Transaction, int64, error) {
	r.lastList = filter
	return r.listResult, r.listTotal, r.listErr
}

func (r *fakeRepo) FindForSummary(ctx context.Context, filter persistence.SummaryFilter) ([]*entity.Transaction, error) {
	return nil, nil
}

func validRaw() entity.RawTransaction {
	return entity.RawTransaction{
		TransactionID: "b4c87f01-4f34-4d5c-8e44-dcdb52a0e471",
		Timestamp:     "2024-03-05T14:30:00Z",
		Amount:        "100.50",
		Currency:      "EUR",
		CustomerID:    "0f6cf742-8c62-4f0b-8e9b-0536cbbb8211",
		ProductID:     "5b7d3f10-9b7d-4c15-9a8a-2c3e5dd9f102",
		Quantity:      "2",
	}
}

func newTestService(repo *fakeRepo) *Service {
	tp := &fixedTimeProvider{now: time.Date(2024, 3, 5, 15, 0, 0, 0, time.UTC)}
	return NewService(repo, tp, logger.NewNoopLogger())
}

func TestCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("Valid record is persisted", func(t *testing.T) {
		repo := &fakeRepo{}
		service := newTestService(repo)

		transaction, err := service.Create(ctx, validRaw())

		require.NoError(t, err)
		require.Len(t, repo.created, 1)
		assert.Equal(t, transaction, repo.created[0])
		assert.Equal(t, "EUR", transaction.Currency)
		assert.Equal(t, 100.50, transaction.Amount)
	})

	t.Run("Validation failure never reaches the repository", func(t *testing.T) {
		repo := &fakeRepo{}
		service := newTestService(repo)

		raw := validRaw()
		raw.Amount = "-3"

		transaction, err := service.Create(ctx, raw)

		assert.Nil(t, transaction)
		assert.ErrorIs(t, err, errs.ErrValidationFailed)
		assert.Empty(t, repo.created)
	})

	t.Run("Duplicate error passes through", func(t *testing.T) {
		repo := &fakeRepo{createErr: errs.NewDuplicateTransactionError("b4c87f01-4f34-4d5c-8e44-dcdb52a0e471")}
		service := newTestService(repo)

		transaction, err := service.Create(ctx, validRaw())

		assert.Nil(t, transaction)
		assert.ErrorIs(t, err, errs.ErrDuplicateTransaction)
	})
}

func TestGetByID(t *testing.T) {
	ctx := context.Background()
	transactionID := uuid.MustParse("b4c87f01-4f34-4d5c-8e44-dcdb52a0e471")

	t.Run("Existing transaction", func(t *testing.T) {
		expected := &entity.Transaction{TransactionID: transactionID}
		repo := &fakeRepo{getResult: expected}
		service := newTestService(repo)

		transaction, err := service.GetByID(ctx, transactionID)

		require.NoError(t, err)
		assert.Equal(t, expected, transaction)
	})

	t.Run("Missing transaction", func(t *testing.T) {
		repo := &fakeRepo{getErr: errs.ErrTransactionNotFound}
		service := newTestService(repo)

		transaction, err := service.GetByID(ctx, transactionID)

		assert.Nil(t, transaction)
		assert.ErrorIs(t, err, errs.ErrTransactionNotFound)
	})
}

func TestList(t *testing.T) {
	ctx := context.Background()

	t.Run("Page echoes paging parameters and total", func(t *testing.T) {
		repo := &fakeRepo{
			listResult: []*entity.Transaction{{}, {}},
			listTotal:  42,
		}
		service := newTestService(repo)

		result, err := service.List(ctx, persistence.ListFilter{Skip: 10, Limit: 2})

		require.NoError(t, err)
		assert.Equal(t, int64(42), result.Total)
		assert.Equal(t, 10, result.Skip)
		assert.Equal(t, 2, result.Limit)
		assert.Len(t, result.Transactions, 2)
	})

	t.Run("Filter is forwarded to the repository", func(t *testing.T) {
		customerID := uuid.MustParse("0f6cf742-8c62-4f0b-8e9b-0536cbbb8211")
		repo := &fakeRepo{}
		service := newTestService(repo)

		_, err := service.List(ctx, persistence.ListFilter{CustomerID: &customerID, Limit: 100})

		require.NoError(t, err)
		require.NotNil(t, repo.lastList.CustomerID)
		assert.Equal(t, customerID, *repo.lastList.CustomerID)
	})

	t.Run("Repository errors pass through", func(t *testing.T) {
		repo := &fakeRepo{listErr: errs.ErrDatabaseConnection}
		service := newTestService(repo)

		result, err := service.List(ctx, persistence.ListFilter{})

		assert.Nil(t, result)
		assert.ErrorIs(t, err, errs.ErrDatabaseConnection)
	})
}

package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Darkelvar/transaction-processor/internal/domain/entity"
	errs "github.com/Darkelvar/transaction-processor/internal/domain/error"
	"github.com/Darkelvar/transaction-processor/internal/domain/port/core"
	"github.com/Darkelvar/transaction-processor/internal/domain/port/persistence"
	"github.com/Darkelvar/transaction-processor/internal/domain/port/task"
	"github.com/Darkelvar/transaction-processor/internal/domain/usecase/report"
	transactionUseCase "github.com/Darkelvar/transaction-processor/internal/domain/usecase/transaction"
	"github.com/Darkelvar/transaction-processor/internal/infrastructure/adapter/logger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

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

// memoryRepo is a map-backed TransactionRepository rejecting duplicate IDs
type memoryRepo struct {
	mu           sync.Mutex
	transactions map[uuid.UUID]*entity.Transaction
	order        []*entity.Transaction
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{transactions: make(map[uuid.UUID]*entity.Transaction)}
}

func (r *memoryRepo) Create(ctx context.Context, transaction *entity.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.transactions[transaction.TransactionID]; exists {
		return errs.NewDuplicateTransactionError(transaction.TransactionID.String())
	}
	r.transactions[transaction.TransactionID] = transaction
	r.order = append(r.order, transaction)
	return nil
}

func (r *memoryRepo) GetByID(ctx context.Context, transactionID uuid.UUID) (*entity.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	transaction, ok := r.transactions[transactionID]
	if !ok {
		return nil, errs.ErrTransactionNotFound
	}
	return transaction, nil
}

func (r *memoryRepo) List(ctx context.Context, filter persistence.ListFilter) ([]*entity.Transaction, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	matching := make([]*entity.Transaction, 0, len(r.order))
	for _, transaction := range r.order {
		if filter.CustomerID != nil && transaction.CustomerID != *filter.CustomerID {
			continue
		}
		if filter.ProductID != nil && transaction.ProductID != *filter.ProductID {
			continue
		}
		matching = append(matching, transaction)
	}

	total := int64(len(matching))
	if filter.Skip >= len(matching) {
		return []*entity.Transaction{}, total, nil
	}
	matching = matching[filter.Skip:]
	if filter.Limit < len(matching) {
		matching = matching[:filter.Limit]
	}
	return matching, total, nil
}

func (r *memoryRepo) FindForSummary(ctx context.Context, filter persistence.SummaryFilter) ([]*entity.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	matching := make([]*entity.Transaction, 0, len(r.order))
	for _, transaction := range r.order {
		if filter.CustomerID != nil && transaction.CustomerID != *filter.CustomerID {
			continue
		}
		if filter.ProductID != nil && transaction.ProductID != *filter.ProductID {
			continue
		}
		if filter.StartDate != nil && transaction.Timestamp.Before(*filter.StartDate) {
			continue
		}
		if filter.EndDate != nil && transaction.Timestamp.After(*filter.EndDate) {
			continue
		}
		matching = append(matching, transaction)
	}
	return matching, nil
}

// recordingEnqueuer captures enqueued payloads without running them
type recordingEnqueuer struct {
	payloads []string
	err      error
}

func (e *recordingEnqueuer) Enqueue(ctx context.Context, csvContents string) (string, error) {
	if e.err != nil {
		return "", e.err
	}
	e.payloads = append(e.payloads, csvContents)
	return "11111111-2222-3333-4444-555555555555", nil
}

func newTransactionRouter(repo *memoryRepo, enqueuer task.Enqueuer) *gin.Engine {
	tp := &fixedTimeProvider{now: time.Date(2024, 3, 5, 15, 0, 0, 0, time.UTC)}
	noop := logger.NewNoopLogger()
	service := transactionUseCase.NewService(repo, tp, noop)
	h := NewTransactionHandler(service, enqueuer, noop)

	router := gin.New()
	router.POST("/transactions/upload", h.Upload)
	router.POST("/transactions/", h.Create)
	router.GET("/transactions/", h.List)
	router.GET("/transactions/:id", h.GetByID)
	return router
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func validCreateBody() map[string]string {
	return map[string]string{
		"transaction_id": "b4c87f01-4f34-4d5c-8e44-dcdb52a0e471",
		"timestamp":      "2024-03-05T14:30:00Z",
		"amount":         "100.50",
		"currency":       "eur",
		"customer_id":    "0f6cf742-8c62-4f0b-8e9b-0536cbbb8211",
		"product_id":     "5b7d3f10-9b7d-4c15-9a8a-2c3e5dd9f102",
		"quantity":       "2",
	}
}

func TestCreateTransactionEndpoint(t *testing.T) {
	t.Run("Valid insert answers 201 with the normalized record", func(t *testing.T) {
		router := newTransactionRouter(newMemoryRepo(), &recordingEnqueuer{})

		w := doJSON(t, router, http.MethodPost, "/transactions/", validCreateBody())

		require.Equal(t, http.StatusCreated, w.Code)
		var resp map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "EUR", resp["currency"])
		assert.Equal(t, 100.50, resp["amount"])
	})

	t.Run("Validation failure answers 400 listing fields", func(t *testing.T) {
		router := newTransactionRouter(newMemoryRepo(), &recordingEnqueuer{})

		body := validCreateBody()
		body["amount"] = "-5"
		body["currency"] = "zl"

		w := doJSON(t, router, http.MethodPost, "/transactions/", body)

		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "amount")
		assert.Contains(t, w.Body.String(), "currency")
	})

	t.Run("Duplicate ID answers 409", func(t *testing.T) {
		router := newTransactionRouter(newMemoryRepo(), &recordingEnqueuer{})

		first := doJSON(t, router, http.MethodPost, "/transactions/", validCreateBody())
		require.Equal(t, http.StatusCreated, first.Code)

		second := doJSON(t, router, http.MethodPost, "/transactions/", validCreateBody())
		assert.Equal(t, http.StatusConflict, second.Code)
		assert.Contains(t, second.Body.String(), "already exists")
	})
}

func TestListTransactionsEndpoint(t *testing.T) {
	seed := func(t *testing.T, router *gin.Engine, count int) {
		t.Helper()
		for i := 0; i < count; i++ {
			body := validCreateBody()
			body["transaction_id"] = uuid.New().String()
			w := doJSON(t, router, http.MethodPost, "/transactions/", body)
			require.Equal(t, http.StatusCreated, w.Code)
		}
	}

	t.Run("Paging slices the full set", func(t *testing.T) {
		router := newTransactionRouter(newMemoryRepo(), &recordingEnqueuer{})
		seed(t, router, 5)

		w := doJSON(t, router, http.MethodGet, "/transactions/?skip=2&limit=2", nil)

		require.Equal(t, http.StatusOK, w.Code)
		var resp struct {
			Total int64            `json:"total"`
			Skip  int              `json:"skip"`
			Limit int              `json:"limit"`
			Data  []map[string]any `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, int64(5), resp.Total)
		assert.Equal(t, 2, resp.Skip)
		assert.Equal(t, 2, resp.Limit)
		assert.Len(t, resp.Data, 2)
	})

	t.Run("skip=1 limit=1 returns the second-inserted row", func(t *testing.T) {
		router := newTransactionRouter(newMemoryRepo(), &recordingEnqueuer{})

		firstID := uuid.New().String()
		secondID := uuid.New().String()
		for _, id := range []string{firstID, secondID} {
			body := validCreateBody()
			body["transaction_id"] = id
			w := doJSON(t, router, http.MethodPost, "/transactions/", body)
			require.Equal(t, http.StatusCreated, w.Code)
		}

		w := doJSON(t, router, http.MethodGet, "/transactions/?skip=1&limit=1", nil)

		require.Equal(t, http.StatusOK, w.Code)
		var resp struct {
			Data []struct {
				TransactionID string `json:"transaction_id"`
			} `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.Len(t, resp.Data, 1)
		assert.Equal(t, secondID, resp.Data[0].TransactionID)
	})

	t.Run("Negative skip answers 400", func(t *testing.T) {
		router := newTransactionRouter(newMemoryRepo(), &recordingEnqueuer{})

		w := doJSON(t, router, http.MethodGet, "/transactions/?skip=-1", nil)

		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "skip must not be negative")
	})

	t.Run("Negative limit answers 400", func(t *testing.T) {
		router := newTransactionRouter(newMemoryRepo(), &recordingEnqueuer{})

		w := doJSON(t, router, http.MethodGet, "/transactions/?limit=-10", nil)

		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "limit must not be negative")
	})

	t.Run("Malformed customer filter answers 400", func(t *testing.T) {
		router := newTransactionRouter(newMemoryRepo(), &recordingEnqueuer{})

		w := doJSON(t, router, http.MethodGet, "/transactions/?customer_id=abc", nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Empty store lists an empty page", func(t *testing.T) {
		router := newTransactionRouter(newMemoryRepo(), &recordingEnqueuer{})

		w := doJSON(t, router, http.MethodGet, "/transactions/", nil)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"total":0`)
		assert.Contains(t, w.Body.String(), `"data":[]`)
	})
}

func TestGetTransactionEndpoint(t *testing.T) {
	t.Run("Unknown ID answers 404", func(t *testing.T) {
		router := newTransactionRouter(newMemoryRepo(), &recordingEnqueuer{})

		w := doJSON(t, router, http.MethodGet, "/transactions/"+uuid.New().String(), nil)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("Malformed ID answers 400", func(t *testing.T) {
		router := newTransactionRouter(newMemoryRepo(), &recordingEnqueuer{})

		w := doJSON(t, router, http.MethodGet, "/transactions/not-a-uuid", nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Existing ID answers the record", func(t *testing.T) {
		router := newTransactionRouter(newMemoryRepo(), &recordingEnqueuer{})

		created := doJSON(t, router, http.MethodPost, "/transactions/", validCreateBody())
		require.Equal(t, http.StatusCreated, created.Code)

		w := doJSON(t, router, http.MethodGet, "/transactions/b4c87f01-4f34-4d5c-8e44-dcdb52a0e471", nil)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "b4c87f01-4f34-4d5c-8e44-dcdb52a0e471")
	})
}

func uploadRequest(t *testing.T, contents []byte) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", "transactions.csv")
	require.NoError(t, err)
	_, err = part.Write(contents)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/transactions/upload", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func TestUploadEndpoint(t *testing.T) {
	t.Run("Valid file answers 202 with a task handle", func(t *testing.T) {
		enqueuer := &recordingEnqueuer{}
		router := newTransactionRouter(newMemoryRepo(), enqueuer)

		contents := "transaction_id,timestamp,amount,currency,customer_id,product_id,quantity\n"
		w := httptest.NewRecorder()
		router.ServeHTTP(w, uploadRequest(t, []byte(contents)))

		require.Equal(t, http.StatusAccepted, w.Code)
		var resp struct {
			Message     string `json:"message"`
			TaskID      string `json:"task_id"`
			StatusCheck string `json:"status_check"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Contains(t, resp.Message, "transactions.csv")
		assert.Equal(t, "11111111-2222-3333-4444-555555555555", resp.TaskID)
		assert.Equal(t, "/tasks/11111111-2222-3333-4444-555555555555", resp.StatusCheck)
		assert.Equal(t, []string{contents}, enqueuer.payloads)
	})

	t.Run("Empty file answers 400", func(t *testing.T) {
		router := newTransactionRouter(newMemoryRepo(), &recordingEnqueuer{})

		w := httptest.NewRecorder()
		router.ServeHTTP(w, uploadRequest(t, nil))

		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "empty")
	})

	t.Run("Non-UTF-8 file answers 400", func(t *testing.T) {
		router := newTransactionRouter(newMemoryRepo(), &recordingEnqueuer{})

		w := httptest.NewRecorder()
		router.ServeHTTP(w, uploadRequest(t, []byte{0xff, 0xfe, 0x00, 0x01}))

		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "UTF-8")
	})

	t.Run("Missing file field answers 400", func(t *testing.T) {
		router := newTransactionRouter(newMemoryRepo(), &recordingEnqueuer{})

		req := httptest.NewRequest(http.MethodPost, "/transactions/upload", strings.NewReader(""))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

// fakeTaskStore serves canned task records
type fakeTaskStore struct {
	records map[string]*task.Record
}

func (s *fakeTaskStore) Get(ctx context.Context, taskID string) (*task.Record, error) {
	record, ok := s.records[taskID]
	if !ok {
		return nil, errs.ErrTaskNotFound
	}
	return record, nil
}

func newTaskRouter(store task.Store) *gin.Engine {
	router := gin.New()
	h := NewTaskHandler(store, logger.NewNoopLogger())
	router.GET("/tasks/:task_id", h.GetStatus)
	return router
}

func TestTaskStatusEndpoint(t *testing.T) {
	successReport := entity.NewBatchReport()
	successReport.RecordSuccess()
	successReport.RecordFailure(2, assert.AnError)

	store := &fakeTaskStore{records: map[string]*task.Record{
		"pending": {ID: "pending", Status: task.StatusPending},
		"started": {ID: "started", Status: task.StatusStarted},
		"done":    {ID: "done", Status: task.StatusSuccess, Result: successReport},
		"failed":  {ID: "failed", Status: task.StatusFailure, Error: "missing required columns: amount"},
	}}
	router := newTaskRouter(store)

	t.Run("Pending task reports processing", func(t *testing.T) {
		w := doJSON(t, router, http.MethodGet, "/tasks/pending", nil)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"status":"PENDING"`)
		assert.Contains(t, w.Body.String(), "Task is still processing")
	})

	t.Run("Started task reports processing", func(t *testing.T) {
		w := doJSON(t, router, http.MethodGet, "/tasks/started", nil)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"status":"STARTED"`)
	})

	t.Run("Successful task carries the batch report", func(t *testing.T) {
		w := doJSON(t, router, http.MethodGet, "/tasks/done", nil)

		require.Equal(t, http.StatusOK, w.Code)
		var resp struct {
			Status string             `json:"status"`
			Result *entity.BatchReport `json:"result"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "SUCCESS", resp.Status)
		require.NotNil(t, resp.Result)
		assert.Equal(t, 2, resp.Result.AllRows)
		assert.Equal(t, 1, resp.Result.ImportedRows)
		assert.Equal(t, []int{2}, resp.Result.FailedRows)
	})

	t.Run("Failed task carries the failure message", func(t *testing.T) {
		w := doJSON(t, router, http.MethodGet, "/tasks/failed", nil)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"status":"FAILURE"`)
		assert.Contains(t, w.Body.String(), "missing required columns: amount")
	})

	t.Run("Unknown task answers 404", func(t *testing.T) {
		w := doJSON(t, router, http.MethodGet, "/tasks/unknown", nil)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func newReportRouter(repo *memoryRepo) *gin.Engine {
	rates := report.NewRateTable(map[string]float64{"PLN": 1.0, "EUR": 4.3, "USD": 4.0}, 4.2)
	service := report.NewService(repo, rates, logger.NewNoopLogger())
	h := NewReportHandler(service, logger.NewNoopLogger())

	router := gin.New()
	router.GET("/reports/customer-summary/:customer_id", h.CustomerSummary)
	router.GET("/reports/product-summary/:product_id", h.ProductSummary)
	return router
}

func TestReportEndpoints(t *testing.T) {
	customerID := uuid.MustParse("0f6cf742-8c62-4f0b-8e9b-0536cbbb8211")
	productID := uuid.MustParse("5b7d3f10-9b7d-4c15-9a8a-2c3e5dd9f102")

	seededRepo := func(t *testing.T) *memoryRepo {
		t.Helper()
		repo := newMemoryRepo()
		for i, spec := range []struct {
			amount   float64
			currency string
			day      int
		}{
			{100.0, "PLN", 1},
			{200.0, "EUR", 3},
			{290.0, "USD", 5},
		} {
			err := repo.Create(context.Background(), &entity.Transaction{
				TransactionID: uuid.New(),
				Timestamp:     time.Date(2024, 3, spec.day, 12, 0, 0, 0, time.UTC),
				Amount:        spec.amount,
				Currency:      spec.currency,
				CustomerID:    customerID,
				ProductID:     productID,
				Quantity:      i + 1,
			})
			require.NoError(t, err)
		}
		return repo
	}

	t.Run("Customer summary totals in PLN", func(t *testing.T) {
		router := newReportRouter(seededRepo(t))

		w := doJSON(t, router, http.MethodGet, "/reports/customer-summary/"+customerID.String(), nil)

		require.Equal(t, http.StatusOK, w.Code)
		var resp struct {
			TotalAmountPLN   float64 `json:"total_amount_pln"`
			TransactionCount int     `json:"transaction_count"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, 2120.0, resp.TotalAmountPLN)
		assert.Equal(t, 3, resp.TransactionCount)
	})

	t.Run("Date window narrows the summary", func(t *testing.T) {
		router := newReportRouter(seededRepo(t))

		w := doJSON(t, router, http.MethodGet,
			"/reports/customer-summary/"+customerID.String()+"?start_date=2024-03-02&end_date=2024-03-04", nil)

		require.Equal(t, http.StatusOK, w.Code)
		var resp struct {
			TotalAmountPLN   float64 `json:"total_amount_pln"`
			TransactionCount int     `json:"transaction_count"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		// Only the 200 EUR transaction falls inside the window
		assert.Equal(t, 860.0, resp.TotalAmountPLN)
		assert.Equal(t, 1, resp.TransactionCount)
	})

	t.Run("Product summary sums quantities", func(t *testing.T) {
		router := newReportRouter(seededRepo(t))

		w := doJSON(t, router, http.MethodGet, "/reports/product-summary/"+productID.String(), nil)

		require.Equal(t, http.StatusOK, w.Code)
		var resp struct {
			TotalQuantity        int `json:"total_quantity"`
			UniqueCustomersCount int `json:"unique_customers_count"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, 6, resp.TotalQuantity)
		assert.Equal(t, 1, resp.UniqueCustomersCount)
	})

	t.Run("No matching transactions answers 404", func(t *testing.T) {
		router := newReportRouter(newMemoryRepo())

		w := doJSON(t, router, http.MethodGet, "/reports/customer-summary/"+uuid.New().String(), nil)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("Malformed date answers 400", func(t *testing.T) {
		router := newReportRouter(seededRepo(t))

		w := doJSON(t, router, http.MethodGet,
			"/reports/customer-summary/"+customerID.String()+"?start_date=tomorrow", nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Malformed customer ID answers 400", func(t *testing.T) {
		router := newReportRouter(seededRepo(t))

		w := doJSON(t, router, http.MethodGet, "/reports/customer-summary/abc", nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

package handler

import (
	"fmt"
	"io"
	"net/http"
	"strconv"
	"unicode/utf8"

	domainerr "github.com/Darkelvar/transaction-processor/internal/domain/error"
	coreport "github.com/Darkelvar/transaction-processor/internal/domain/port/core"
	"github.com/Darkelvar/transaction-processor/internal/domain/port/persistence"
	"github.com/Darkelvar/transaction-processor/internal/domain/port/task"
	transactionUseCase "github.com/Darkelvar/transaction-processor/internal/domain/usecase/transaction"
	"github.com/Darkelvar/transaction-processor/internal/infrastructure/adapter/api/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// TransactionHandler handles transaction-related HTTP requests
type TransactionHandler struct {
	transactionService *transactionUseCase.Service
	enqueuer           task.Enqueuer
	logger             coreport.Logger
}

// NewTransactionHandler creates a new transaction handler instance
func NewTransactionHandler(
	transactionService *transactionUseCase.Service,
	enqueuer task.Enqueuer,
	logger coreport.Logger,
) *TransactionHandler {
	return &TransactionHandler{
		transactionService: transactionService,
		enqueuer:           enqueuer,
		logger:             logger,
	}
}

// Upload handles POST /transactions/upload. The file is decoded and handed
// to the ingestion task; the response carries a pollable task handle
// instead of blocking on row-by-row processing.
func (h *TransactionHandler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Code:    domainerr.ErrorCode(domainerr.ErrInvalidRequest),
			Message: "Missing required file field: file",
		})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Code:    domainerr.ErrorCode(domainerr.ErrInvalidRequest),
			Message: "Unable to open uploaded file",
		})
		return
	}
	defer file.Close()

	contents, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Code:    domainerr.ErrorCode(domainerr.ErrInvalidRequest),
			Message: "Unable to read uploaded file",
		})
		return
	}

	if len(contents) == 0 {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Code:    domainerr.ErrorCode(domainerr.ErrInvalidRequest),
			Message: "Uploaded file is empty",
		})
		return
	}
	if !utf8.Valid(contents) {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Code:    domainerr.ErrorCode(domainerr.ErrInvalidRequest),
			Message: "Uploaded file is not valid UTF-8",
		})
		return
	}

	taskID, err := h.enqueuer.Enqueue(c.Request.Context(), string(contents))
	if err != nil {
		h.logger.Error("Failed to enqueue batch", map[string]any{
			"filename": fileHeader.Filename,
			"error":    err.Error(),
		})
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Code:    domainerr.ErrorCode(domainerr.ErrInternalServer),
			Message: "Internal server error",
		})
		return
	}

	c.JSON(http.StatusAccepted, dto.UploadResponse{
		Message:     fmt.Sprintf("%s is being processed asynchronously.", fileHeader.Filename),
		TaskID:      taskID,
		StatusCheck: "/tasks/" + taskID,
	})
}

// Create handles POST /transactions/ for a single validated insert.
// Duplicates answer 409 Conflict.
func (h *TransactionHandler) Create(c *gin.Context) {
	var req dto.CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Code:    domainerr.ErrorCode(domainerr.ErrInvalidRequest),
			Message: "Invalid request format: " + err.Error(),
		})
		return
	}

	transaction, err := h.transactionService.Create(c.Request.Context(), req.ToRaw())
	if err != nil {
		status := http.StatusInternalServerError
		message := "Internal server error"
		switch {
		case domainerr.IsValidationError(err):
			status = http.StatusBadRequest
			message = err.Error()
		case domainerr.IsDuplicateTransactionError(err):
			status = http.StatusConflict
			message = "Transaction with this ID already exists"
		}
		c.JSON(status, dto.ErrorResponse{
			Code:    domainerr.ErrorCode(err),
			Message: message,
		})
		return
	}

	c.JSON(http.StatusCreated, dto.NewTransactionResponse(transaction))
}

// List handles GET /transactions/ with skip/limit paging and optional
// customer/product filters
func (h *TransactionHandler) List(c *gin.Context) {
	skip, ok := h.pagingParam(c, "skip", 0)
	if !ok {
		return
	}
	limit, ok := h.pagingParam(c, "limit", 100)
	if !ok {
		return
	}

	filter := persistence.ListFilter{Skip: skip, Limit: limit}

	if raw := c.Query("customer_id"); raw != "" {
		customerID, err := uuid.Parse(raw)
		if err != nil {
			h.invalidParam(c, "customer_id must be a valid UUID")
			return
		}
		filter.CustomerID = &customerID
	}
	if raw := c.Query("product_id"); raw != "" {
		productID, err := uuid.Parse(raw)
		if err != nil {
			h.invalidParam(c, "product_id must be a valid UUID")
			return
		}
		filter.ProductID = &productID
	}

	result, err := h.transactionService.List(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Code:    domainerr.ErrorCode(err),
			Message: "Internal server error",
		})
		return
	}

	data := make([]dto.TransactionResponse, 0, len(result.Transactions))
	for _, t := range result.Transactions {
		data = append(data, dto.NewTransactionResponse(t))
	}

	c.JSON(http.StatusOK, dto.PaginatedTransactionsResponse{
		Total: result.Total,
		Skip:  result.Skip,
		Limit: result.Limit,
		Data:  data,
	})
}

// GetByID handles GET /transactions/{id}
func (h *TransactionHandler) GetByID(c *gin.Context) {
	transactionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.invalidParam(c, "transaction ID must be a valid UUID")
		return
	}

	transaction, err := h.transactionService.GetByID(c.Request.Context(), transactionID)
	if err != nil {
		if domainerr.IsNotFoundError(err) {
			c.JSON(http.StatusNotFound, dto.ErrorResponse{
				Code:    domainerr.ErrorCode(err),
				Message: "Transaction not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Code:    domainerr.ErrorCode(err),
			Message: "Internal server error",
		})
		return
	}

	c.JSON(http.StatusOK, dto.NewTransactionResponse(transaction))
}

// pagingParam parses a non-negative paging parameter, answering 400 on a
// negative or malformed value
func (h *TransactionHandler) pagingParam(c *gin.Context, name string, defaultVal int) (int, bool) {
	raw := c.Query(name)
	if raw == "" {
		return defaultVal, true
	}

	value, err := strconv.Atoi(raw)
	if err != nil {
		h.invalidParam(c, name+" must be an integer")
		return 0, false
	}
	if value < 0 {
		h.invalidParam(c, name+" must not be negative")
		return 0, false
	}
	return value, true
}

func (h *TransactionHandler) invalidParam(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, dto.ErrorResponse{
		Code:    domainerr.ErrorCode(domainerr.ErrInvalidRequest),
		Message: message,
	})
}

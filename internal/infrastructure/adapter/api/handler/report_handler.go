package handler

import (
	"net/http"
	"time"

	"github.com/Darkelvar/transaction-processor/internal/domain/entity"
	domainerr "github.com/Darkelvar/transaction-processor/internal/domain/error"
	coreport "github.com/Darkelvar/transaction-processor/internal/domain/port/core"
	"github.com/Darkelvar/transaction-processor/internal/domain/port/persistence"
	"github.com/Darkelvar/transaction-processor/internal/domain/usecase/report"
	"github.com/Darkelvar/transaction-processor/internal/infrastructure/adapter/api/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ReportHandler exposes customer and product summary endpoints
type ReportHandler struct {
	reportService *report.Service
	logger        coreport.Logger
}

// NewReportHandler creates a new report handler instance
func NewReportHandler(reportService *report.Service, logger coreport.Logger) *ReportHandler {
	return &ReportHandler{reportService: reportService, logger: logger}
}

// CustomerSummary handles GET /reports/customer-summary/{customer_id}
func (h *ReportHandler) CustomerSummary(c *gin.Context) {
	customerID, err := uuid.Parse(c.Param("customer_id"))
	if err != nil {
		h.invalidParam(c, "customer ID must be a valid UUID")
		return
	}

	filter, ok := h.dateWindow(c)
	if !ok {
		return
	}

	summary, err := h.reportService.CustomerSummary(c.Request.Context(), customerID, filter)
	if err != nil {
		h.summaryError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

// ProductSummary handles GET /reports/product-summary/{product_id}
func (h *ReportHandler) ProductSummary(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("product_id"))
	if err != nil {
		h.invalidParam(c, "product ID must be a valid UUID")
		return
	}

	filter, ok := h.dateWindow(c)
	if !ok {
		return
	}

	summary, err := h.reportService.ProductSummary(c.Request.Context(), productID, filter)
	if err != nil {
		h.summaryError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

// dateWindow parses the optional start_date/end_date query parameters.
// Dates accept the same layouts the ingestion pipeline accepts.
func (h *ReportHandler) dateWindow(c *gin.Context) (persistence.SummaryFilter, bool) {
	var filter persistence.SummaryFilter

	start, ok := h.dateParam(c, "start_date")
	if !ok {
		return filter, false
	}
	end, ok := h.dateParam(c, "end_date")
	if !ok {
		return filter, false
	}

	filter.StartDate = start
	filter.EndDate = end
	return filter, true
}

func (h *ReportHandler) dateParam(c *gin.Context, name string) (*time.Time, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}

	parsed, err := entity.ParseTimestamp(raw)
	if err != nil {
		h.invalidParam(c, name+" must be a valid date or timestamp")
		return nil, false
	}
	return &parsed, true
}

func (h *ReportHandler) summaryError(c *gin.Context, err error) {
	if domainerr.IsNotFoundError(err) {
		c.JSON(http.StatusNotFound, dto.ErrorResponse{
			Code:    domainerr.ErrorCode(err),
			Message: "No transactions found for the given criteria",
		})
		return
	}
	c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
		Code:    domainerr.ErrorCode(err),
		Message: "Internal server error",
	})
}

func (h *ReportHandler) invalidParam(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, dto.ErrorResponse{
		Code:    domainerr.ErrorCode(domainerr.ErrInvalidRequest),
		Message: message,
	})
}

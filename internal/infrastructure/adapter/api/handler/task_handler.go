package handler

import (
	"net/http"

	domainerr "github.com/Darkelvar/transaction-processor/internal/domain/error"
	coreport "github.com/Darkelvar/transaction-processor/internal/domain/port/core"
	"github.com/Darkelvar/transaction-processor/internal/domain/port/task"
	"github.com/Darkelvar/transaction-processor/internal/infrastructure/adapter/api/dto"
	"github.com/gin-gonic/gin"
)

// TaskHandler exposes ingestion task status lookups
type TaskHandler struct {
	store  task.Store
	logger coreport.Logger
}

// NewTaskHandler creates a new task handler instance
func NewTaskHandler(store task.Store, logger coreport.Logger) *TaskHandler {
	return &TaskHandler{store: store, logger: logger}
}

// GetStatus handles GET /tasks/{task_id}
func (h *TaskHandler) GetStatus(c *gin.Context) {
	taskID := c.Param("task_id")

	record, err := h.store.Get(c.Request.Context(), taskID)
	if err != nil {
		if domainerr.IsNotFoundError(err) {
			c.JSON(http.StatusNotFound, dto.ErrorResponse{
				Code:    domainerr.ErrorCode(err),
				Message: "Task not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Code:    domainerr.ErrorCode(err),
			Message: "Internal server error",
		})
		return
	}

	resp := dto.TaskStatusResponse{Status: string(record.Status)}
	switch record.Status {
	case task.StatusSuccess:
		resp.Result = record.Result
	case task.StatusFailure:
		resp.Message = record.Error
	default:
		resp.Message = "Task is still processing"
	}

	c.JSON(http.StatusOK, resp)
}

package task

import (
	"context"
	"time"

	"github.com/Darkelvar/transaction-processor/internal/domain/entity"
)

// Status represents the lifecycle state of an ingestion task as exposed by
// the status endpoint
type Status string

const (
	// StatusPending indicates the task is queued and has not started yet
	StatusPending Status = "PENDING"
	// StatusStarted indicates a worker picked up the task
	StatusStarted Status = "STARTED"
	// StatusSuccess indicates the task finished and produced a report
	StatusSuccess Status = "SUCCESS"
	// StatusFailure indicates the task aborted before producing a report
	StatusFailure Status = "FAILURE"
)

// Record tracks one enqueued batch through its lifecycle
type Record struct {
	ID         string
	Status     Status
	Result     *entity.BatchReport // Set on SUCCESS
	Error      string              // Set on FAILURE
	CreatedAt  time.Time
	StartedAt  *time.Time
	FinishedAt *time.Time
}

// Enqueuer dispatches a CSV batch for asynchronous processing. The request
// path only enqueues; it never waits for row-by-row processing.
type Enqueuer interface {
	// Enqueue hands over the raw CSV text and returns the task ID
	// immediately. The batch is processed by a worker outside the
	// request/response cycle.
	Enqueue(ctx context.Context, csvContents string) (string, error)
}

// Store exposes task state to the polling endpoint
type Store interface {
	// Get retrieves the current state of a task.
	//
	// Possible errors:
	// - ErrTaskNotFound: no task with the given ID was ever enqueued
	Get(ctx context.Context, taskID string) (*Record, error)
}

// Handler processes one batch to completion in a single sequential pass and
// returns its report. The ingestion usecase satisfies this.
type Handler func(ctx context.Context, csvContents string) (*entity.BatchReport, error)

package inmemory

import (
	"context"
	"fmt"
	"sync"

	coreport "github.com/Darkelvar/transaction-processor/internal/domain/port/core"
	"github.com/Darkelvar/transaction-processor/internal/domain/port/task"
	"github.com/google/uuid"
)

type queuedBatch struct {
	taskID   string
	contents string
}

// Queue is a channel-fed in-memory task queue. Each worker processes one
// batch at a time in a single sequential pass; multiple batches may run
// concurrently across workers, coordinated only by the database's unique
// key on transaction_id. Suitable for single-instance deployments; a broker
// can replace it behind the Enqueuer port.
type Queue struct {
	jobChan      chan queuedBatch
	closeChan    chan struct{}
	wg           sync.WaitGroup
	mu           sync.RWMutex
	store        *Store
	handler      task.Handler
	timeProvider coreport.TimeProvider
	logger       coreport.Logger
	closed       bool
}

// NewQueue creates a new in-memory task queue. bufferSize bounds how many
// batches may wait before Enqueue blocks.
func NewQueue(
	bufferSize int,
	store *Store,
	handler task.Handler,
	timeProvider coreport.TimeProvider,
	logger coreport.Logger,
) *Queue {
	return &Queue{
		jobChan:      make(chan queuedBatch, bufferSize),
		closeChan:    make(chan struct{}),
		store:        store,
		handler:      handler,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// Enqueue implements the task.Enqueuer interface. It records a PENDING task
// and returns its ID without waiting for processing.
func (q *Queue) Enqueue(ctx context.Context, csvContents string) (string, error) {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		return "", fmt.Errorf("task queue is closed")
	}

	record := &task.Record{
		ID:        uuid.New().String(),
		Status:    task.StatusPending,
		CreatedAt: q.timeProvider.Now(),
	}
	q.store.Save(record)

	select {
	case q.jobChan <- queuedBatch{taskID: record.ID, contents: csvContents}:
		q.logger.Info("Batch enqueued", map[string]any{
			"task_id": record.ID,
		})
		return record.ID, nil
	case <-ctx.Done():
		// The batch never made it onto the queue, drop its record
		q.store.Delete(record.ID)
		return "", ctx.Err()
	case <-q.closeChan:
		q.store.Delete(record.ID)
		return "", fmt.Errorf("task queue is closed")
	}
}

// Start launches workerCount worker goroutines consuming from the queue
func (q *Queue) Start(ctx context.Context, workerCount int) {
	for i := 0; i < workerCount; i++ {
		q.wg.Add(1)
		go q.worker(ctx)
	}
}

func (q *Queue) worker(ctx context.Context) {
	defer q.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case <-q.closeChan:
			return
		case batch := <-q.jobChan:
			q.processBatch(ctx, batch)
		}
	}
}

// processBatch runs one batch to completion and records the outcome. There
// is no cancellation or timeout for an in-flight batch at this layer.
func (q *Queue) processBatch(ctx context.Context, batch queuedBatch) {
	record, err := q.store.Get(ctx, batch.taskID)
	if err != nil {
		q.logger.Error("Enqueued task missing from store", map[string]any{
			"task_id": batch.taskID,
		})
		return
	}

	started := q.timeProvider.Now()
	record.Status = task.StatusStarted
	record.StartedAt = &started
	q.store.Save(record)

	report, err := q.handler(ctx, batch.contents)

	finished := q.timeProvider.Now()
	record.FinishedAt = &finished

	if err != nil {
		record.Status = task.StatusFailure
		record.Error = err.Error()
		q.logger.Error("Batch task failed", map[string]any{
			"task_id": batch.taskID,
			"error":   err.Error(),
		})
	} else {
		record.Status = task.StatusSuccess
		record.Result = report
		q.logger.Info("Batch task finished", map[string]any{
			"task_id":       batch.taskID,
			"all_rows":      report.AllRows,
			"imported_rows": report.ImportedRows,
		})
	}

	q.store.Save(record)
}

// Stop closes the queue and waits for in-flight batches to finish
func (q *Queue) Stop(ctx context.Context) error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return nil
	}
	q.closed = true
	close(q.closeChan)
	q.mu.Unlock()

	done := make(chan struct{})
	go func() {
		q.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

var _ task.Enqueuer = (*Queue)(nil)

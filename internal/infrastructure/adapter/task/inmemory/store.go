package inmemory

import (
	"context"
	"sync"

	errs "github.com/Darkelvar/transaction-processor/internal/domain/error"
	"github.com/Darkelvar/transaction-processor/internal/domain/port/task"
)

// Store is an in-memory task store, safe for concurrent use. Task state is
// lost on restart; a database-backed store can replace it behind the same
// port for multi-instance deployments.
type Store struct {
	mu      sync.RWMutex
	records map[string]*task.Record
}

// NewStore creates a new in-memory task store
func NewStore() *Store {
	return &Store{
		records: make(map[string]*task.Record),
	}
}

// Save stores or updates a task record
func (s *Store) Save(record *task.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Copy so later worker mutations don't race with readers
	copied := *record
	s.records[record.ID] = &copied
}

// Delete removes a task record if present
func (s *Store) Delete(taskID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.records, taskID)
}

// Get implements the task.Store interface
func (s *Store) Get(ctx context.Context, taskID string) (*task.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, exists := s.records[taskID]
	if !exists {
		return nil, errs.ErrTaskNotFound
	}

	copied := *record
	return &copied, nil
}

var _ task.Store = (*Store)(nil)

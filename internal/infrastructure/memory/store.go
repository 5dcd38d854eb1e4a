// Package memory is a process-local store used for development and tests.
// Transactions are serialized by a single writer slot; each write inside a
// transaction records an undo step that Rollback replays in reverse.
package memory

import (
	"context"
	"fmt"
	"sync"

	"agrolink/internal/domain"
	apperrors "agrolink/internal/errors"
	"agrolink/internal/storage"
)

type Store struct {
	writer chan struct{}

	mu       sync.RWMutex
	products map[string]domain.Product
	orders   map[string]domain.Order
	points   map[string]domain.DeliveryPoint
	farmers  map[string]domain.FarmerProfile
}

func NewStore() *Store {
	return &Store{
		writer:   make(chan struct{}, 1),
		products: make(map[string]domain.Product),
		orders:   make(map[string]domain.Order),
		points:   make(map[string]domain.DeliveryPoint),
		farmers:  make(map[string]domain.FarmerProfile),
	}
}

// BeginTx waits for the writer slot until ctx is done.
func (s *Store) BeginTx(ctx context.Context) (storage.Tx, error) {
	select {
	case s.writer <- struct{}{}:
		return &memTx{store: s}, nil
	case <-ctx.Done():
		return nil, apperrors.NewTimeoutError("waiting for transaction slot", ctx.Err())
	}
}

type memTx struct {
	store *Store
	mu    sync.Mutex
	undo  []func()
	done  bool
}

func (t *memTx) Commit() error {
	if _, ok := t.finish(); !ok {
		return fmt.Errorf("transaction already finished")
	}
	<-t.store.writer
	return nil
}

// Rollback is a no-op after Commit so callers can defer it unconditionally.
func (t *memTx) Rollback() error {
	undo, ok := t.finish()
	if !ok {
		return nil
	}

	t.store.mu.Lock()
	for i := len(undo) - 1; i >= 0; i-- {
		undo[i]()
	}
	t.store.mu.Unlock()

	<-t.store.writer
	return nil
}

func (t *memTx) finish() ([]func(), bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.done {
		return nil, false
	}
	undo := t.undo
	t.undo = nil
	t.done = true
	return undo, true
}

// record registers an undo step. Callers hold store.mu.
func (t *memTx) record(fn func()) {
	t.mu.Lock()
	t.undo = append(t.undo, fn)
	t.mu.Unlock()
}

func (s *Store) own(ctx context.Context, tx storage.Tx) (*memTx, error) {
	mt, ok := tx.(*memTx)
	if !ok || mt.store != s {
		return nil, fmt.Errorf("transaction does not belong to this store: %T", tx)
	}
	mt.mu.Lock()
	done := mt.done
	mt.mu.Unlock()
	if done {
		return nil, fmt.Errorf("transaction already finished")
	}
	return mt, checkContext(ctx)
}

func checkContext(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return apperrors.NewTimeoutError("store operation timed out", err)
	}
	return nil
}

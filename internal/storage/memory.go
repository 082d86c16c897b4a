package storage

import (
	"context"
	"sync"

	"expensetracker/internal/core"
)

// MemoryRepository keeps the collection in process memory only. Useful for
// tests and throwaway sessions.
type MemoryRepository struct {
	mu    sync.Mutex
	items []core.Expense
	saves int
	// FailSave, when set, is returned by Save instead of storing anything.
	FailSave error
}

func NewMemoryRepository(seed ...core.Expense) *MemoryRepository {
	return &MemoryRepository{items: append([]core.Expense(nil), seed...)}
}

// Load implements Repository
func (m *MemoryRepository) Load(_ context.Context) ([]core.Expense, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]core.Expense{}, m.items...), nil
}

// Save implements Repository
func (m *MemoryRepository) Save(_ context.Context, expenses []core.Expense) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailSave != nil {
		return m.FailSave
	}
	m.items = append([]core.Expense(nil), expenses...)
	m.saves++
	return nil
}

// Saves returns how many times Save succeeded.
func (m *MemoryRepository) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}

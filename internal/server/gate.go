package server

import (
	"context"
	"sync"

	"github.com/UnknownOlympus/mnemosyne/internal/models"
)

// EmployeeStore is the storage surface the HTTP layer needs.
type EmployeeStore interface {
	ListEmployees(ctx context.Context) ([]models.Employee, error)
	Ping(ctx context.Context) error
}

// Gate holds the storage handle once the background bootstrap has connected and seeded it.
// Data routes consult the gate and refuse traffic until it is set.
type Gate struct {
	mu    sync.RWMutex
	store EmployeeStore
}

func NewGate() *Gate {
	return &Gate{}
}

// Set publishes store and marks the gate ready.
func (g *Gate) Set(store EmployeeStore) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.store = store
}

// Get returns the published store and whether it is ready.
func (g *Gate) Get() (EmployeeStore, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return g.store, g.store != nil
}

package storage

import (
	"context"
	"maps"
	"sync"

	"github.com/bassista/go_persist/internal/logger"
)

// MemoryArea keeps items in process memory. It is lost on restart and is
// meant for tests and for running the service without a backend.
type MemoryArea struct {
	mu    sync.RWMutex
	items map[string]string
	quota int64
	used  int64
}

// NewMemoryArea creates an empty area. A quota of 0 disables the limit.
func NewMemoryArea(quota int64) *MemoryArea {
	return &MemoryArea{items: map[string]string{}, quota: quota}
}

// NewMemoryAreaFromItems seeds an area with a copy of items.
func NewMemoryAreaFromItems(items map[string]string, quota int64) *MemoryArea {
	a := NewMemoryArea(quota)
	for k, v := range items {
		a.items[k] = v
		a.used += itemSize(k, v)
	}
	return a
}

func (a *MemoryArea) GetItem(ctx context.Context, key string) (string, bool, error) {
	if err := checkContext(ctx); err != nil {
		return "", false, err
	}
	a.mu.RLock()
	defer a.mu.RUnlock()
	value, ok := a.items[key]
	return value, ok, nil
}

func (a *MemoryArea) SetItem(ctx context.Context, key, value string) error {
	if err := checkContext(ctx); err != nil {
		return err
	}
	a.mu.Lock()
	defer a.mu.Unlock()

	used := a.used + itemSize(key, value)
	if old, ok := a.items[key]; ok {
		used -= itemSize(key, old)
	}
	if a.quota > 0 && used > a.quota {
		logger.WithComponent("memory-area").Warnf("rejecting write of %q: %d bytes over quota %d", key, used, a.quota)
		return ErrQuotaExceeded
	}
	a.items[key] = value
	a.used = used
	return nil
}

// Len returns the number of stored items.
func (a *MemoryArea) Len() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.items)
}

// Usage returns the bytes currently counted against the quota.
func (a *MemoryArea) Usage() int64 {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.used
}

// Snapshot returns a copy of all items.
func (a *MemoryArea) Snapshot() map[string]string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return maps.Clone(a.items)
}

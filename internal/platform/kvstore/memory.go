package kvstore

import (
	"context"
	"fmt"
	"sync"
)

// Memory implements Store with an in-process map.
// A positive quota caps the total size of keys plus values in bytes.
type Memory struct {
	mu    sync.RWMutex
	data  map[string]string
	quota int
	used  int
}

// NewMemory creates an empty in-memory store. quota <= 0 means unlimited.
func NewMemory(quota int) *Memory {
	return &Memory{data: make(map[string]string), quota: quota}
}

func (m *Memory) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.data[key]
	return v, ok, nil
}

func (m *Memory) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	used := m.used - sizeOf(m.data, key) + len(key) + len(value)
	if m.quota > 0 && used > m.quota {
		return fmt.Errorf("set %q (%d of %d bytes): %w", key, used, m.quota, ErrQuotaExceeded)
	}
	m.data[key] = value
	m.used = used

	return nil
}

func (m *Memory) Remove(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.used -= sizeOf(m.data, key)
	delete(m.data, key)

	return nil
}

// Len returns the number of stored keys.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.data)
}

// sizeOf returns the accounted size of key in data, or 0 when absent.
func sizeOf(data map[string]string, key string) int {
	v, ok := data[key]
	if !ok {
		return 0
	}
	return len(key) + len(v)
}

var _ Store = (*Memory)(nil)

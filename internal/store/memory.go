package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Memory is an in-process key-value store with the same JSON semantics as SQLite.
type Memory struct {
	mu   sync.Mutex
	data map[string][]byte
	// FailWrites makes Set return an error.
	FailWrites bool
}

// NewMemory returns an empty Memory store.
func NewMemory() *Memory {
	return &Memory{data: map[string][]byte{}}
}

// Get decodes the value stored under key into dst.
func (m *Memory) Get(_ context.Context, key string, dst any) (bool, error) {
	m.mu.Lock()
	raw, ok := m.data[key]
	m.mu.Unlock()
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return true, fmt.Errorf("failed to decode %s: %w", key, err)
	}
	return true, nil
}

// Set encodes value and stores it under key.
func (m *Memory) Set(ctx context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	return m.setRaw(ctx, key, raw)
}

func (m *Memory) setRaw(_ context.Context, key string, raw []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWrites {
		return fmt.Errorf("failed to write %s: store is read-only", key)
	}
	m.data[key] = append([]byte(nil), raw...)
	return nil
}

// Remove deletes key.
func (m *Memory) Remove(_ context.Context, key string) error {
	m.mu.Lock()
	delete(m.data, key)
	m.mu.Unlock()
	return nil
}

// Clear deletes every key starting with prefix.
func (m *Memory) Clear(_ context.Context, prefix string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for key := range m.data {
		if strings.HasPrefix(key, prefix) {
			delete(m.data, key)
			n++
		}
	}
	return n, nil
}

// Usage returns the number of bytes stored under keys starting with prefix.
func (m *Memory) Usage(_ context.Context, prefix string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var total int64
	for key, raw := range m.data {
		if strings.HasPrefix(key, prefix) {
			total += int64(len(raw))
		}
	}
	return total, nil
}

// Keys lists stored keys starting with prefix in lexical order.
func (m *Memory) Keys(_ context.Context, prefix string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var keys []string
	for key := range m.data {
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

// Package store provides in-process BlobStore implementations.
package store

import (
	"context"
	"sort"
	"sync"
)

// =============================================================================
// MEMORY STORE - In-memory key-value blobs (for testing/dev)
// =============================================================================

type Memory struct {
	mu    sync.RWMutex
	blobs map[string][]byte

	// failPut, when set, is returned by the next Put instead of writing.
	failPut error
}

func NewMemory() *Memory {
	return &Memory{blobs: make(map[string][]byte)}
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.blobs[key]
	if !ok {
		return nil, false, nil
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, true, nil
}

func (m *Memory) Put(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failPut != nil {
		err := m.failPut
		m.failPut = nil
		return err
	}
	v := make([]byte, len(value))
	copy(v, value)
	m.blobs[key] = v
	return nil
}

// Keys returns the stored keys in sorted order.
func (m *Memory) Keys(_ context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	keys := make([]string, 0, len(m.blobs))
	for k := range m.blobs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

// FailNextPut makes the next Put return err. Used to exercise the engine's
// no-partial-state guarantee.
func (m *Memory) FailNextPut(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failPut = err
}

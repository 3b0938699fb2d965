// Package store persists small client-side preferences such as column widths.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"sync"
)

// Storage is a string key-value store. Writes to a key replace the previous
// value.
type Storage interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Remove(key string) error
}

// WidthsPrefix namespaces persisted column widths.
const WidthsPrefix = "table-widths:"

// ErrEmptyStorageKey is returned when a table has no storage key.
var ErrEmptyStorageKey = errors.New("storage key is empty")

// WidthsKey returns the storage key holding widths for one table instance.
func WidthsKey(storageKey string) string {
	return WidthsPrefix + storageKey
}

// LoadWidths returns the persisted column widths for storageKey, or an empty
// map when nothing was saved.
func LoadWidths(s Storage, storageKey string) (map[string]int, error) {
	if storageKey == "" {
		return nil, ErrEmptyStorageKey
	}
	raw, ok, err := s.Get(WidthsKey(storageKey))
	if err != nil {
		return nil, fmt.Errorf("load widths %s: %w", storageKey, err)
	}
	out := map[string]int{}
	if !ok || raw == "" {
		return out, nil
	}
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, fmt.Errorf("decode widths %s: %w", storageKey, err)
	}
	for k, w := range out {
		if w <= 0 {
			delete(out, k)
		}
	}
	return out, nil
}

// SaveWidths writes the full width mapping for storageKey.
func SaveWidths(s Storage, storageKey string, widths map[string]int) error {
	if storageKey == "" {
		return ErrEmptyStorageKey
	}
	data, err := json.Marshal(widths)
	if err != nil {
		return fmt.Errorf("encode widths %s: %w", storageKey, err)
	}
	if err := s.Set(WidthsKey(storageKey), string(data)); err != nil {
		return fmt.Errorf("save widths %s: %w", storageKey, err)
	}
	return nil
}

// ResetWidths drops persisted widths so the table falls back to defaults.
func ResetWidths(s Storage, storageKey string) error {
	if storageKey == "" {
		return ErrEmptyStorageKey
	}
	if err := s.Remove(WidthsKey(storageKey)); err != nil {
		return fmt.Errorf("reset widths %s: %w", storageKey, err)
	}
	return nil
}

// Memory is an in-process Storage.
type Memory struct {
	mu   sync.RWMutex
	data map[string]string
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{data: map[string]string{}}
}

func (m *Memory) Get(key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *Memory) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *Memory) Remove(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

// Snapshot copies the current contents.
func (m *Memory) Snapshot() map[string]string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return maps.Clone(m.data)
}

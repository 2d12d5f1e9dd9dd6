package sheet

import (
	"context"
	"fmt"
	"sync"
)

// =============================================================================
// MEMORY GRID - In-memory implementation (for testing/dev)
// =============================================================================

// Memory is an in-process Grid. Sheets are plain [][]string slices guarded
// by one mutex; good enough for tests and local development, where the
// single-writer assumption of the real medium holds trivially.
type Memory struct {
	mu     sync.RWMutex
	sheets map[string][][]string
}

// NewMemory creates an empty in-memory grid.
func NewMemory() *Memory {
	return &Memory{sheets: make(map[string][][]string)}
}

// Seed replaces the named sheet's contents, header row included.
func (m *Memory) Seed(sheetName string, values [][]string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := make([][]string, len(values))
	for i, line := range values {
		copied[i] = append([]string(nil), line...)
	}
	m.sheets[sheetName] = copied
}

func (m *Memory) ReadAll(_ context.Context, sheetName string) ([][]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	values, ok := m.sheets[sheetName]
	if !ok {
		return nil, fmt.Errorf("%s: %w", sheetName, ErrSheetNotFound)
	}
	copied := make([][]string, len(values))
	for i, line := range values {
		copied[i] = append([]string(nil), line...)
	}
	return copied, nil
}

func (m *Memory) ReadHeader(_ context.Context, sheetName string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	values, ok := m.sheets[sheetName]
	if !ok {
		return nil, fmt.Errorf("%s: %w", sheetName, ErrSheetNotFound)
	}
	if len(values) == 0 {
		return nil, nil
	}
	return append([]string(nil), values[0]...), nil
}

func (m *Memory) AppendRow(_ context.Context, sheetName string, line []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	values, ok := m.sheets[sheetName]
	if !ok {
		return fmt.Errorf("%s: %w", sheetName, ErrSheetNotFound)
	}
	m.sheets[sheetName] = append(values, append([]string(nil), line...))
	return nil
}

func (m *Memory) UpdateRow(_ context.Context, sheetName string, index int, line []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	values, ok := m.sheets[sheetName]
	if !ok {
		return fmt.Errorf("%s: %w", sheetName, ErrSheetNotFound)
	}
	if index < 1 || index > len(values) {
		return fmt.Errorf("%s row %d out of range", sheetName, index)
	}
	values[index-1] = append([]string(nil), line...)
	return nil
}

func (m *Memory) DeleteRows(_ context.Context, sheetName string, indexes []int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	values, ok := m.sheets[sheetName]
	if !ok {
		return fmt.Errorf("%s: %w", sheetName, ErrSheetNotFound)
	}
	for _, index := range indexes {
		if index < 1 || index > len(values) {
			return fmt.Errorf("%s row %d out of range", sheetName, index)
		}
		values = append(values[:index-1], values[index:]...)
	}
	m.sheets[sheetName] = values
	return nil
}

var _ Grid = (*Memory)(nil)

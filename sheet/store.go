/*
store.go - Row store adapter over a Grid

PURPOSE:
  Translates the raw 2-D grid into key-value records and back. This is the
  only place that understands the header-row convention; callers deal in
  Rows keyed by field name.

CONTRACT:
  Rows    full scan; short rows padded with "", extra cells dropped
  Append  header-projected append; missing fields become ""
  Find    first exact match on a key column; nil Row when absent
  Update  patch named columns of the first matching row, write it back
  Delete  remove every matching row, last match first

TIMEOUTS:
  Every backing call runs under a fixed process-wide timeout. There is no
  per-call override, no retry, and no cancellation once a round trip is
  issued.
*/
package sheet

import (
	"context"
	"fmt"
	"log"
	"time"
)

// CallTimeout bounds every round trip to the backing grid.
const CallTimeout = 30 * time.Second

// Store adapts a Grid into record-level operations.
type Store struct {
	grid Grid
}

// NewStore wraps a grid backend.
func NewStore(grid Grid) *Store {
	return &Store{grid: grid}
}

// Rows reads the entire sheet and returns one Row per data line. Row 1 is
// the field-name list; each later row is zipped against it, padding short
// rows with empty strings. A sheet with no rows yields an empty result and
// nil error; only a transport fault is an error.
func (s *Store) Rows(ctx context.Context, sheetName string) ([]Row, error) {
	ctx, cancel := context.WithTimeout(ctx, CallTimeout)
	defer cancel()

	values, err := s.grid.ReadAll(ctx, sheetName)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", sheetName, err)
	}
	if len(values) == 0 {
		return []Row{}, nil
	}

	headers := values[0]
	rows := make([]Row, 0, len(values)-1)
	for _, line := range values[1:] {
		row := make(Row, len(headers))
		for i, h := range headers {
			if i < len(line) {
				row[h] = line[i]
			} else {
				row[h] = ""
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// Append projects the record onto the sheet's header order and appends it
// as a new line. Fields absent from the record become empty cells; fields
// absent from the header are silently dropped.
func (s *Store) Append(ctx context.Context, sheetName string, record Row) error {
	ctx, cancel := context.WithTimeout(ctx, CallTimeout)
	defer cancel()

	headers, err := s.grid.ReadHeader(ctx, sheetName)
	if err != nil {
		return fmt.Errorf("read header %s: %w", sheetName, err)
	}
	if len(headers) == 0 {
		return fmt.Errorf("append %s: %w", sheetName, ErrNoHeader)
	}

	line := make([]string, len(headers))
	for i, h := range headers {
		line[i] = record[h]
	}

	if err := s.grid.AppendRow(ctx, sheetName, line); err != nil {
		return fmt.Errorf("append %s: %w", sheetName, err)
	}
	return nil
}

// Find returns the first row whose key column equals value exactly
// (case-sensitive). Absence is not an error: the Row is nil.
func (s *Store) Find(ctx context.Context, sheetName, key, value string) (Row, error) {
	rows, err := s.Rows(ctx, sheetName)
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		if row[key] == value {
			return row, nil
		}
	}
	return nil, nil
}

// Update locates the first data row whose key column equals value and
// overwrites only the columns named in patch, leaving the rest untouched.
// The row is extended with blanks when a patched column lies beyond its
// current length. Returns ErrKeyColumnMissing or ErrRowNotFound when the
// match cannot be made.
func (s *Store) Update(ctx context.Context, sheetName, key, value string, patch Row) error {
	ctx, cancel := context.WithTimeout(ctx, CallTimeout)
	defer cancel()

	values, err := s.grid.ReadAll(ctx, sheetName)
	if err != nil {
		return fmt.Errorf("read %s: %w", sheetName, err)
	}
	if len(values) == 0 {
		return fmt.Errorf("update %s: %w", sheetName, ErrNoHeader)
	}

	headers := values[0]
	keyIdx := indexOf(headers, key)
	if keyIdx < 0 {
		return fmt.Errorf("update %s key %q: %w", sheetName, key, ErrKeyColumnMissing)
	}

	rowIdx := 0 // 1-based grid index of the matching row
	for i, line := range values[1:] {
		if keyIdx < len(line) && line[keyIdx] == value {
			rowIdx = i + 2 // +1 for header, +1 for 1-based
			break
		}
	}
	if rowIdx == 0 {
		log.Printf("sheet: no row in %s with %s=%s", sheetName, key, value)
		return fmt.Errorf("update %s %s=%s: %w", sheetName, key, value, ErrRowNotFound)
	}

	updated := append([]string(nil), values[rowIdx-1]...)
	for col, newValue := range patch {
		colIdx := indexOf(headers, col)
		if colIdx < 0 {
			continue
		}
		for len(updated) <= colIdx {
			updated = append(updated, "")
		}
		updated[colIdx] = newValue
	}

	if err := s.grid.UpdateRow(ctx, sheetName, rowIdx, updated); err != nil {
		return fmt.Errorf("update %s row %d: %w", sheetName, rowIdx, err)
	}
	return nil
}

// Delete removes every data row whose key column equals value. Matches are
// deleted from the last one backward so earlier removals cannot invalidate
// the remaining indexes. Returns ErrRowNotFound when nothing matched.
func (s *Store) Delete(ctx context.Context, sheetName, key, value string) error {
	ctx, cancel := context.WithTimeout(ctx, CallTimeout)
	defer cancel()

	values, err := s.grid.ReadAll(ctx, sheetName)
	if err != nil {
		return fmt.Errorf("read %s: %w", sheetName, err)
	}
	if len(values) == 0 {
		return fmt.Errorf("delete %s: %w", sheetName, ErrNoHeader)
	}

	headers := values[0]
	keyIdx := indexOf(headers, key)
	if keyIdx < 0 {
		return fmt.Errorf("delete %s key %q: %w", sheetName, key, ErrKeyColumnMissing)
	}

	var matches []int
	for i, line := range values[1:] {
		if keyIdx < len(line) && line[keyIdx] == value {
			matches = append(matches, i+2)
		}
	}
	if len(matches) == 0 {
		return fmt.Errorf("delete %s %s=%s: %w", sheetName, key, value, ErrRowNotFound)
	}

	// Highest index first; DeleteRows relies on this ordering.
	for i, j := 0, len(matches)-1; i < j; i, j = i+1, j-1 {
		matches[i], matches[j] = matches[j], matches[i]
	}

	if err := s.grid.DeleteRows(ctx, sheetName, matches); err != nil {
		return fmt.Errorf("delete %s: %w", sheetName, err)
	}
	return nil
}

func indexOf(headers []string, name string) int {
	for i, h := range headers {
		if h == name {
			return i
		}
	}
	return -1
}

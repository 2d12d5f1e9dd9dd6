/*
Package sheet maps a spreadsheet onto an approximate row store.

PURPOSE:
  A spreadsheet has no indexes, no transactions, and no schema beyond its
  header row. This package provides the thin translation layer the rest of
  the system builds on: a named grid of strings becomes a sequence of
  field-name → value records, with scan, append, find-by-key, patch-by-key,
  and delete-by-key primitives.

MODEL:
  Sheet:   a named grid within the backing spreadsheet (pseudo-table)
  Row 1:   header row, defining field names and column order
  Row 2+:  one record per row, zipped against the header

COST MODEL:
  Every operation re-reads the full sheet; everything is O(total rows).
  Nothing here caches or pages, which keeps the mental model uniform:
  a read is a scan, a write is a read-modify-write round trip.

SEE ALSO:
  - store.go: the Store adapter built on the Grid interface
  - google.go: Google Sheets backend
  - xlsx.go: local .xlsx backend (excelize)
  - memory.go: in-memory backend for tests
*/
package sheet

import "context"

// Row is one data line of a sheet, keyed by header field name.
// Rows do not leave the service layer untyped: each domain service decodes
// a Row into its record type immediately after the adapter returns it.
type Row map[string]string

// Grid is the raw storage medium: a set of named 2-D string grids.
// Row indexes are 1-based and include the header row, matching how
// spreadsheet APIs address ranges.
type Grid interface {
	// ReadAll returns every row of the sheet, header included.
	// An absent or empty sheet yields a nil slice and nil error only when
	// the backend can represent "no data"; a missing sheet is a transport
	// fault for backends where the sheet must exist.
	ReadAll(ctx context.Context, sheet string) ([][]string, error)

	// ReadHeader returns row 1 of the sheet. Empty slice when the sheet
	// has no header row.
	ReadHeader(ctx context.Context, sheet string) ([]string, error)

	// AppendRow appends one row after the last data row.
	AppendRow(ctx context.Context, sheet string, values []string) error

	// UpdateRow overwrites the row at index (1-based, header = 1).
	UpdateRow(ctx context.Context, sheet string, index int, values []string) error

	// DeleteRows removes the rows at the given 1-based indexes. The
	// implementation must delete from the highest index downward so earlier
	// deletions do not shift later targets.
	DeleteRows(ctx context.Context, sheet string, indexes []int) error
}

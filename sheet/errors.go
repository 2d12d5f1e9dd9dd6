package sheet

import "errors"

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================
//
// The adapter signals every failure through a single error return; the
// causes stay distinguishable through these sentinels.

var (
	// ErrNoHeader is returned by Append when the sheet's header row is
	// empty or missing, so there is no column order to project onto.
	ErrNoHeader = errors.New("sheet has no header row")

	// ErrKeyColumnMissing is returned when the requested key column does
	// not appear in the sheet's headers.
	ErrKeyColumnMissing = errors.New("key column not found in headers")

	// ErrRowNotFound is returned by Update and Delete when no data row
	// matches the key value. Find reports absence with a nil Row instead.
	ErrRowNotFound = errors.New("no row matches key value")

	// ErrSheetNotFound is returned by grid backends when the named sheet
	// does not exist in the backing spreadsheet.
	ErrSheetNotFound = errors.New("sheet not found")
)

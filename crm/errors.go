package crm

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrNotFound is returned when the requested record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicateInvoiceID is returned when a caller-supplied invoice ID
	// collides with an existing invoice. Generated IDs skip this check.
	ErrDuplicateInvoiceID = errors.New("invoice id already exists")

	// ErrInvalidStatus is returned when a status value is outside the
	// entity's accepted set.
	ErrInvalidStatus = errors.New("invalid status value")
)

// DuplicateInvoiceIDError carries the colliding ID for the 400 response.
type DuplicateInvoiceIDError struct {
	InvoiceID string
}

func (e *DuplicateInvoiceIDError) Error() string {
	return fmt.Sprintf("invoice id %s already exists", e.InvoiceID)
}

func (e *DuplicateInvoiceIDError) Unwrap() error {
	return ErrDuplicateInvoiceID
}

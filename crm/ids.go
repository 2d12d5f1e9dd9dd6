/*
ids.go - Per-entity ID generation

PURPOSE:
  Sequential IDs are derived by scanning the sheet: extract the numeric
  suffix from every key matching the entity's prefix, ignore keys that do
  not parse (other numbering eras, hand-entered garbage), take max+1, and
  zero-pad to the entity's width. An empty sheet yields the first ID.

KNOWN RACE:
  There is no reservation step between computing the next ID and appending
  the row, so two concurrent creates can mint the same ID. The medium offers
  no primitive to close that window; the behavior is documented rather than
  papered over with in-process locking that the multi-replica case would
  defeat anyway.
*/
package crm

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nimbusworks/sheetcrm/sheet"
)

// nextSequential scans the sheet's key column for IDs with the given prefix,
// parses the remainder as an integer, and returns prefix + (max+1) padded to
// width digits.
func nextSequential(ctx context.Context, store *sheet.Store, sheetName, keyColumn, prefix string, width int) (string, error) {
	rows, err := store.Rows(ctx, sheetName)
	if err != nil {
		return "", err
	}

	maxNum := 0
	for _, row := range rows {
		id := row[keyColumn]
		if !strings.HasPrefix(id, prefix) {
			continue
		}
		num, err := strconv.Atoi(id[len(prefix):])
		if err != nil {
			continue
		}
		if num > maxNum {
			maxNum = num
		}
	}

	return fmt.Sprintf("%s%0*d", prefix, width, maxNum+1), nil
}

// NextClientID returns the next CLT### ID.
func NextClientID(ctx context.Context, store *sheet.Store) (string, error) {
	return nextSequential(ctx, store, SheetClients, "client_id", "CLT", 3)
}

// NextTaskID returns the next T### ID.
func NextTaskID(ctx context.Context, store *sheet.Store) (string, error) {
	return nextSequential(ctx, store, SheetTasks, "task_id", "T", 3)
}

// NextTicketID returns the next TKT### ID. When the scan itself fails, it
// falls back to a timestamp-based ID so ticket creation still proceeds.
func NextTicketID(ctx context.Context, store *sheet.Store) string {
	id, err := nextSequential(ctx, store, SheetTickets, "ticket_id", "TKT", 3)
	if err != nil {
		return "TKT" + time.Now().Format("20060102150405")
	}
	return id
}

// NextInvoiceID returns the next INV-YYYY-### ID, scoped to the current
// year: the sequence restarts at 001 each January. The numeric suffix is
// whatever follows the last dash, so a custom ID like INV-2026-ACME-07
// still advances the sequence past 7.
func NextInvoiceID(ctx context.Context, store *sheet.Store, now time.Time) (string, error) {
	prefix := fmt.Sprintf("INV-%d-", now.Year())

	rows, err := store.Rows(ctx, SheetInvoices)
	if err != nil {
		return "", err
	}

	maxNum := 0
	for _, row := range rows {
		id := row["invoice_id"]
		if !strings.HasPrefix(id, prefix) {
			continue
		}
		parts := strings.Split(id, "-")
		num, err := strconv.Atoi(parts[len(parts)-1])
		if err != nil {
			continue
		}
		if num > maxNum {
			maxNum = num
		}
	}

	return fmt.Sprintf("%s%03d", prefix, maxNum+1), nil
}

// NewItemID returns an 8-character random item ID.
func NewItemID() string {
	return uuid.NewString()[:8]
}

// NewLogID returns an activity log ID of the form LOG + 8 random chars.
func NewLogID() string {
	return "LOG" + strings.ToUpper(uuid.NewString()[:8])
}

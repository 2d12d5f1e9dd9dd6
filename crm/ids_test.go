/*
ids_test.go - ID generation across entity prefixes

Tests for:
- Sequential max+1 with zero padding
- Garbage and foreign-prefix keys ignored during the scan
- Year scoping and custom suffixes for invoice IDs
- Timestamp fallback for ticket IDs
*/
package crm_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/nimbusworks/sheetcrm/crm"
	"github.com/nimbusworks/sheetcrm/sheet"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextClientID_EmptySheet(t *testing.T) {
	store, _ := newCRMStore(t)

	id, err := crm.NextClientID(context.Background(), store)
	require.NoError(t, err)
	assert.Equal(t, "CLT001", id)
}

func TestNextClientID_SkipsGapsAndGarbage(t *testing.T) {
	// GIVEN: CLT001, CLT007, and a hand-entered key that does not parse
	// THEN: The next ID is max+1, not count+1
	store, _ := newCRMStore(t)
	seedClient(t, store, "CLT001", "One")
	seedClient(t, store, "CLT007", "Seven")
	seedClient(t, store, "CLT-OLD", "Legacy")

	id, err := crm.NextClientID(context.Background(), store)
	require.NoError(t, err)
	assert.Equal(t, "CLT008", id)
}

func TestNextInvoiceID_ScopedToYear(t *testing.T) {
	// GIVEN: Invoices from two years plus a custom-suffixed ID
	// THEN: Only the current year's numbers count, and the custom ID's
	//       trailing number advances the sequence
	store, _ := newCRMStore(t)
	seedInvoiceHeader(t, store, "INV-2025-009", "CLT001", "2025-03-01", "paid", "100")
	seedInvoiceHeader(t, store, "INV-2026-002", "CLT001", "2026-01-10", "draft", "200")
	seedInvoiceHeader(t, store, "INV-2026-ACME-07", "CLT002", "2026-02-01", "pending", "300")

	now := time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC)
	id, err := crm.NextInvoiceID(context.Background(), store, now)
	require.NoError(t, err)
	assert.Equal(t, "INV-2026-008", id)
}

func TestNextInvoiceID_NewYearRestartsSequence(t *testing.T) {
	store, _ := newCRMStore(t)
	seedInvoiceHeader(t, store, "INV-2026-042", "CLT001", "2026-12-30", "paid", "100")

	now := time.Date(2027, time.January, 2, 0, 0, 0, 0, time.UTC)
	id, err := crm.NextInvoiceID(context.Background(), store, now)
	require.NoError(t, err)
	assert.Equal(t, "INV-2027-001", id)
}

func TestNextTicketID_FallsBackToTimestampOnScanError(t *testing.T) {
	// GIVEN: A grid with no Support_Tickets sheet at all
	// THEN: Ticket creation still gets an ID, timestamp-shaped
	store := sheet.NewStore(sheet.NewMemory())

	id := crm.NextTicketID(context.Background(), store)
	assert.True(t, strings.HasPrefix(id, "TKT"))
	assert.Len(t, id, len("TKT")+14, "TKT + YYYYMMDDHHMMSS")
}

func TestNewItemID_Shape(t *testing.T) {
	id := crm.NewItemID()
	assert.Len(t, id, 8)
}

func TestNewLogID_Shape(t *testing.T) {
	id := crm.NewLogID()
	assert.True(t, strings.HasPrefix(id, "LOG"))
	assert.Len(t, id, 11)
	assert.Equal(t, strings.ToUpper(id), id)
}

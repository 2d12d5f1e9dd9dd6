package crm_test

import (
	"context"
	"testing"

	"github.com/nimbusworks/sheetcrm/crm"
	"github.com/nimbusworks/sheetcrm/sheet"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// TEST SETUP
// =============================================================================

// newCRMStore returns a store over an in-memory grid with every sheet
// bootstrapped to its header row.
func newCRMStore(t *testing.T) (*sheet.Store, *sheet.Memory) {
	t.Helper()
	grid := sheet.NewMemory()
	for name, headers := range crm.SheetHeaders {
		grid.Seed(name, [][]string{headers})
	}
	return sheet.NewStore(grid), grid
}

// seedClient appends a minimal client row.
func seedClient(t *testing.T, store *sheet.Store, clientID, name string) {
	t.Helper()
	err := store.Append(context.Background(), crm.SheetClients, sheet.Row{
		"client_id": clientID,
		"name":      name,
		"email":     "contact@example.com",
	})
	require.NoError(t, err)
}

// seedInvoiceHeader appends a bare invoice header row.
func seedInvoiceHeader(t *testing.T, store *sheet.Store, invoiceID, clientID, date, status, grandTotal string) {
	t.Helper()
	err := store.Append(context.Background(), crm.SheetInvoices, sheet.Row{
		"invoice_id":   invoiceID,
		"client_id":    clientID,
		"client_name":  "Client " + clientID,
		"invoice_date": date,
		"status":       status,
		"grand_total":  grandTotal,
	})
	require.NoError(t, err)
}

func d(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

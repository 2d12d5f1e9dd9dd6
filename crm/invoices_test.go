/*
invoices_test.go - Invoice creation, totals, listing, status updates

Tests for:
- Decimal totals (subtotal, tax, discount, grand total)
- Client name resolution and the placeholder path
- Custom invoice IDs and duplicate rejection
- List filtering and pagination slice semantics
*/
package crm_test

import (
	"context"
	"testing"

	"github.com/nimbusworks/sheetcrm/crm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newInvoiceService(t *testing.T) *crm.InvoiceService {
	store, _ := newCRMStore(t)
	seedClient(t, store, "CLT001", "Acme Corp")
	return crm.NewInvoiceService(store)
}

// =============================================================================
// TOTALS
// =============================================================================

func TestCreateInvoice_Totals(t *testing.T) {
	// GIVEN: 10 units at 50000 with 18% tax and 10% discount
	// THEN: subtotal 500000, tax 90000, discount 50000, grand total 540000
	svc := newInvoiceService(t)

	inv, err := svc.Create(context.Background(), crm.InvoiceInput{
		ClientID:    "CLT001",
		InvoiceDate: "2026-08-01",
		DueDate:     "2026-09-01",
		Items: []crm.InvoiceItemInput{{
			Service:         "Consulting",
			Quantity:        10,
			UnitPrice:       d("50000"),
			TaxPercent:      d("18"),
			DiscountPercent: d("10"),
		}},
	})
	require.NoError(t, err)

	assert.True(t, inv.Subtotal.Equal(d("500000")), "subtotal: %s", inv.Subtotal)
	assert.True(t, inv.TotalTax.Equal(d("90000")), "tax: %s", inv.TotalTax)
	assert.True(t, inv.TotalDiscount.Equal(d("50000")), "discount: %s", inv.TotalDiscount)
	assert.True(t, inv.GrandTotal.Equal(d("540000")), "grand total: %s", inv.GrandTotal)

	require.Len(t, inv.Items, 1)
	assert.True(t, inv.Items[0].LineTotal.Equal(d("540000")))
}

func TestCreateInvoice_MultiItemTotalsAccumulate(t *testing.T) {
	svc := newInvoiceService(t)

	inv, err := svc.Create(context.Background(), crm.InvoiceInput{
		ClientID: "CLT001",
		Items: []crm.InvoiceItemInput{
			{Service: "A", Quantity: 2, UnitPrice: d("100"), TaxPercent: d("10")},
			{Service: "B", Quantity: 1, UnitPrice: d("300"), DiscountPercent: d("50")},
		},
	})
	require.NoError(t, err)

	assert.True(t, inv.Subtotal.Equal(d("500")))
	assert.True(t, inv.TotalTax.Equal(d("20")))
	assert.True(t, inv.TotalDiscount.Equal(d("150")))
	assert.True(t, inv.GrandTotal.Equal(d("370")))
}

// =============================================================================
// CREATION SEMANTICS
// =============================================================================

func TestCreateInvoice_DefaultsAndID(t *testing.T) {
	svc := newInvoiceService(t)

	inv, err := svc.Create(context.Background(), crm.InvoiceInput{
		ClientID: "CLT001",
		Items:    []crm.InvoiceItemInput{{Service: "X", Quantity: 1, UnitPrice: d("10")}},
	})
	require.NoError(t, err)

	assert.Regexp(t, `^INV-\d{4}-\d{3}$`, inv.InvoiceID)
	assert.Equal(t, crm.InvoiceStatusDraft, inv.Status)
	assert.Equal(t, "System", inv.CreatedBy)
	assert.Equal(t, "Acme Corp", inv.ClientName, "name resolved from the client row")
}

func TestCreateInvoice_UnknownClientGetsPlaceholderName(t *testing.T) {
	svc := newInvoiceService(t)

	inv, err := svc.Create(context.Background(), crm.InvoiceInput{
		ClientID: "CLT999",
		Items:    []crm.InvoiceItemInput{{Service: "X", Quantity: 1, UnitPrice: d("10")}},
	})
	require.NoError(t, err)
	assert.Equal(t, "Client CLT999", inv.ClientName)
}

func TestCreateInvoice_CallerNameWinsOverClientRow(t *testing.T) {
	svc := newInvoiceService(t)

	inv, err := svc.Create(context.Background(), crm.InvoiceInput{
		ClientID:   "CLT001",
		ClientName: "Acme Holdings",
		Items:      []crm.InvoiceItemInput{{Service: "X", Quantity: 1, UnitPrice: d("10")}},
	})
	require.NoError(t, err)
	assert.Equal(t, "Acme Holdings", inv.ClientName)
}

func TestCreateInvoice_CustomID(t *testing.T) {
	svc := newInvoiceService(t)

	inv, err := svc.Create(context.Background(), crm.InvoiceInput{
		InvoiceID: "INV-2026-ACME-01",
		ClientID:  "CLT001",
		Items:     []crm.InvoiceItemInput{{Service: "X", Quantity: 1, UnitPrice: d("10")}},
	})
	require.NoError(t, err)
	assert.Equal(t, "INV-2026-ACME-01", inv.InvoiceID)
}

func TestCreateInvoice_DuplicateCustomID(t *testing.T) {
	svc := newInvoiceService(t)
	in := crm.InvoiceInput{
		InvoiceID: "INV-2026-DUP-01",
		ClientID:  "CLT001",
		Items:     []crm.InvoiceItemInput{{Service: "X", Quantity: 1, UnitPrice: d("10")}},
	}

	_, err := svc.Create(context.Background(), in)
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), in)
	require.Error(t, err)
	var dup *crm.DuplicateInvoiceIDError
	assert.ErrorAs(t, err, &dup)
	assert.Equal(t, "INV-2026-DUP-01", dup.InvoiceID)
}

// =============================================================================
// READ PATHS
// =============================================================================

func TestGetInvoice_LoadsItems(t *testing.T) {
	svc := newInvoiceService(t)

	created, err := svc.Create(context.Background(), crm.InvoiceInput{
		ClientID: "CLT001",
		Items: []crm.InvoiceItemInput{
			{Service: "A", Quantity: 1, UnitPrice: d("100")},
			{Service: "B", Quantity: 2, UnitPrice: d("50")},
		},
	})
	require.NoError(t, err)

	got, err := svc.Get(context.Background(), created.InvoiceID)
	require.NoError(t, err)
	assert.Len(t, got.Items, 2)
	assert.Equal(t, created.InvoiceID, got.Items[0].InvoiceID)
}

func TestGetInvoice_NotFound(t *testing.T) {
	svc := newInvoiceService(t)

	_, err := svc.Get(context.Background(), "INV-2026-404")
	assert.ErrorIs(t, err, crm.ErrNotFound)
}

func TestListInvoices_FilterAndPaginate(t *testing.T) {
	store, _ := newCRMStore(t)
	svc := crm.NewInvoiceService(store)
	seedInvoiceHeader(t, store, "INV-2026-001", "CLT001", "2026-01-01", "paid", "100")
	seedInvoiceHeader(t, store, "INV-2026-002", "CLT002", "2026-01-02", "draft", "200")
	seedInvoiceHeader(t, store, "INV-2026-003", "CLT001", "2026-01-03", "paid", "300")
	seedInvoiceHeader(t, store, "INV-2026-004", "CLT001", "2026-01-04", "paid", "400")

	// Status filter counts before pagination
	paid, total, err := svc.List(context.Background(), "paid", "", 2, 0)
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, paid, 2)
	assert.Equal(t, "INV-2026-001", paid[0].InvoiceID)

	// Offset past the end is an empty page, not an error
	rest, total, err := svc.List(context.Background(), "paid", "", 2, 10)
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.Empty(t, rest)

	// Client filter composes with status
	byClient, total, err := svc.List(context.Background(), "", "CLT002", 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, byClient, 1)
	assert.Equal(t, "INV-2026-002", byClient[0].InvoiceID)
}

// =============================================================================
// STATUS UPDATES
// =============================================================================

func TestUpdateInvoiceStatus(t *testing.T) {
	svc := newInvoiceService(t)

	inv, err := svc.Create(context.Background(), crm.InvoiceInput{
		ClientID: "CLT001",
		Items:    []crm.InvoiceItemInput{{Service: "X", Quantity: 1, UnitPrice: d("10")}},
	})
	require.NoError(t, err)

	require.NoError(t, svc.UpdateStatus(context.Background(), inv.InvoiceID, crm.InvoiceStatusPaid))

	got, err := svc.Get(context.Background(), inv.InvoiceID)
	require.NoError(t, err)
	assert.Equal(t, crm.InvoiceStatusPaid, got.Status)
	assert.NotEmpty(t, got.UpdatedAt)
}

func TestUpdateInvoiceStatus_MissingInvoice(t *testing.T) {
	svc := newInvoiceService(t)

	err := svc.UpdateStatus(context.Background(), "INV-2026-404", crm.InvoiceStatusPaid)
	assert.ErrorIs(t, err, crm.ErrNotFound)
}

/*
invoices.go - Invoice creation, lookup, listing, status updates

TOTALS:
  Per item:  line_subtotal = quantity * unit_price
             line_total    = line_subtotal * (1 + tax%/100 - discount%/100)
  Header:    subtotal       = sum(line_subtotal)
             total_tax      = sum(line_subtotal * tax%/100)
             total_discount = sum(line_subtotal * discount%/100)
             grand_total    = subtotal + total_tax - total_discount
  All decimal arithmetic; no rounding beyond input precision.

TWO-PHASE WRITE:
  The header row is appended first, then one item row per line. There is no
  transaction across the two sheets: a failure mid-way leaves a header with
  fewer items than requested, surfaced to the caller as an error with the
  partial state kept. Listing tolerates such headers (items are simply
  whatever item rows exist).
*/
package crm

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/nimbusworks/sheetcrm/sheet"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// InvoiceService manages the Invoices and Invoice_Items sheets.
type InvoiceService struct {
	store *sheet.Store
}

// NewInvoiceService creates an invoice service over the given store.
func NewInvoiceService(store *sheet.Store) *InvoiceService {
	return &InvoiceService{store: store}
}

// InvoiceItemInput is one requested invoice line.
type InvoiceItemInput struct {
	Service         string
	Description     string
	Quantity        int
	UnitPrice       decimal.Decimal
	TaxPercent      decimal.Decimal
	DiscountPercent decimal.Decimal
}

// InvoiceInput is the caller-supplied portion of a new invoice.
type InvoiceInput struct {
	InvoiceID   string // optional custom ID; collision-checked when set
	ClientID    string
	ClientName  string // optional display name for clients not on file
	InvoiceDate string
	DueDate     string
	SalesPerson string
	Items       []InvoiceItemInput
}

// Create persists a new invoice header plus its item rows and returns the
// complete invoice. Client resolution never blocks: a client row's name is
// preferred, then the caller-supplied name, then a synthesized placeholder.
func (s *InvoiceService) Create(ctx context.Context, in InvoiceInput) (Invoice, error) {
	clientRow, err := s.store.Find(ctx, SheetClients, "client_id", in.ClientID)
	if err != nil {
		return Invoice{}, fmt.Errorf("resolve client: %w", err)
	}

	clientName := in.ClientName
	if clientName == "" {
		if clientRow != nil {
			clientName = clientRow["name"]
		} else {
			clientName = "Client " + in.ClientID
			log.Printf("crm: client %s not on file, using placeholder name", in.ClientID)
		}
	}

	invoiceID := in.InvoiceID
	if invoiceID != "" {
		existing, err := s.store.Find(ctx, SheetInvoices, "invoice_id", invoiceID)
		if err != nil {
			return Invoice{}, fmt.Errorf("check invoice id: %w", err)
		}
		if existing != nil {
			return Invoice{}, &DuplicateInvoiceIDError{InvoiceID: invoiceID}
		}
	} else {
		invoiceID, err = NextInvoiceID(ctx, s.store, time.Now())
		if err != nil {
			return Invoice{}, fmt.Errorf("generate invoice id: %w", err)
		}
	}

	subtotal, totalTax, totalDiscount, grandTotal := calculateTotals(in.Items)
	createdAt := time.Now().Format(time.RFC3339)

	invoice := Invoice{
		InvoiceID:     invoiceID,
		ClientID:      in.ClientID,
		ClientName:    clientName,
		InvoiceDate:   in.InvoiceDate,
		DueDate:       in.DueDate,
		Subtotal:      subtotal,
		TotalTax:      totalTax,
		TotalDiscount: totalDiscount,
		GrandTotal:    grandTotal,
		Status:        InvoiceStatusDraft,
		SalesPerson:   in.SalesPerson,
		CreatedBy:     "System",
		CreatedAt:     createdAt,
		UpdatedAt:     createdAt,
	}

	if err := s.store.Append(ctx, SheetInvoices, encodeInvoice(invoice)); err != nil {
		return Invoice{}, fmt.Errorf("append invoice header: %w", err)
	}

	// Phase two: item rows. A failure here leaves the header in place with
	// fewer items than requested; there is no rollback.
	for _, itemIn := range in.Items {
		lineSubtotal := decimal.NewFromInt(int64(itemIn.Quantity)).Mul(itemIn.UnitPrice)
		lineTax := lineSubtotal.Mul(itemIn.TaxPercent.Div(hundred))
		lineDiscount := lineSubtotal.Mul(itemIn.DiscountPercent.Div(hundred))

		item := InvoiceItem{
			ItemID:          NewItemID(),
			InvoiceID:       invoiceID,
			Service:         itemIn.Service,
			Description:     itemIn.Description,
			Quantity:        itemIn.Quantity,
			UnitPrice:       itemIn.UnitPrice,
			TaxPercent:      itemIn.TaxPercent,
			DiscountPercent: itemIn.DiscountPercent,
			LineTotal:       lineSubtotal.Add(lineTax).Sub(lineDiscount),
		}

		if err := s.store.Append(ctx, SheetInvoiceItems, encodeInvoiceItem(item)); err != nil {
			return Invoice{}, fmt.Errorf("append item for %s (header already written): %w", invoiceID, err)
		}
		invoice.Items = append(invoice.Items, item)
	}

	log.Printf("crm: created invoice %s for client %s", invoiceID, in.ClientID)
	return invoice, nil
}

// Get returns the invoice with its item rows, or ErrNotFound.
func (s *InvoiceService) Get(ctx context.Context, invoiceID string) (Invoice, error) {
	row, err := s.store.Find(ctx, SheetInvoices, "invoice_id", invoiceID)
	if err != nil {
		return Invoice{}, err
	}
	if row == nil {
		return Invoice{}, fmt.Errorf("invoice %s: %w", invoiceID, ErrNotFound)
	}

	invoice := decodeInvoice(row)

	itemRows, err := s.store.Rows(ctx, SheetInvoiceItems)
	if err != nil {
		return Invoice{}, err
	}
	for _, itemRow := range itemRows {
		if itemRow["invoice_id"] == invoiceID {
			invoice.Items = append(invoice.Items, decodeInvoiceItem(itemRow))
		}
	}
	return invoice, nil
}

// List returns invoices filtered by status and/or client, in original sheet
// order, paginated with plain slice semantics. Items are not loaded for
// list views. The returned total counts matches before pagination.
func (s *InvoiceService) List(ctx context.Context, status, clientID string, limit, offset int) ([]Invoice, int, error) {
	rows, err := s.store.Rows(ctx, SheetInvoices)
	if err != nil {
		return nil, 0, err
	}

	filtered := make([]sheet.Row, 0, len(rows))
	for _, row := range rows {
		if status != "" && row["status"] != status {
			continue
		}
		if clientID != "" && row["client_id"] != clientID {
			continue
		}
		filtered = append(filtered, row)
	}
	total := len(filtered)

	if offset > len(filtered) {
		offset = len(filtered)
	}
	end := offset + limit
	if limit <= 0 || end > len(filtered) {
		end = len(filtered)
	}

	invoices := make([]Invoice, 0, end-offset)
	for _, row := range filtered[offset:end] {
		if row["invoice_id"] == "" {
			continue
		}
		invoices = append(invoices, decodeInvoice(row))
	}
	return invoices, total, nil
}

// UpdateStatus sets the invoice's status and stamps updated_at. Returns
// ErrNotFound when no row matches. No transition graph is enforced; any
// status may follow any other.
func (s *InvoiceService) UpdateStatus(ctx context.Context, invoiceID, status string) error {
	patch := sheet.Row{
		"status":     status,
		"updated_at": time.Now().Format(time.RFC3339),
	}
	if err := s.store.Update(ctx, SheetInvoices, "invoice_id", invoiceID, patch); err != nil {
		if errors.Is(err, sheet.ErrRowNotFound) {
			return fmt.Errorf("invoice %s: %w", invoiceID, ErrNotFound)
		}
		return err
	}
	log.Printf("crm: invoice %s status -> %s", invoiceID, status)
	return nil
}

// calculateTotals sums the header money fields across items.
func calculateTotals(items []InvoiceItemInput) (subtotal, totalTax, totalDiscount, grandTotal decimal.Decimal) {
	subtotal = decimal.Zero
	totalTax = decimal.Zero
	totalDiscount = decimal.Zero

	for _, item := range items {
		lineSubtotal := decimal.NewFromInt(int64(item.Quantity)).Mul(item.UnitPrice)
		subtotal = subtotal.Add(lineSubtotal)
		totalTax = totalTax.Add(lineSubtotal.Mul(item.TaxPercent.Div(hundred)))
		totalDiscount = totalDiscount.Add(lineSubtotal.Mul(item.DiscountPercent.Div(hundred)))
	}

	grandTotal = subtotal.Add(totalTax).Sub(totalDiscount)
	return subtotal, totalTax, totalDiscount, grandTotal
}

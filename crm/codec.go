/*
codec.go - Row <-> record conversion

PURPOSE:
  The adapter hands back untyped Rows; nothing above the service layer ever
  sees one. Each decode below turns a Row into its typed record, and each
  encode produces the Row persisted back. Decoding is forgiving the way the
  medium demands: numeric fields that fail to parse become zero, absent
  fields become empty strings. Callers skip rows whose key column is blank.
*/
package crm

import (
	"strconv"

	"github.com/nimbusworks/sheetcrm/sheet"
	"github.com/shopspring/decimal"
)

// safeDecimal parses a decimal-like string, falling back to zero. Money is
// persisted as text and re-parsed on every read; a malformed cell must not
// take a whole listing down.
func safeDecimal(s string) decimal.Decimal {
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

func safeInt(s string) int {
	if s == "" {
		return 0
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}

// =============================================================================
// CLIENT
// =============================================================================

func decodeClient(row sheet.Row) Client {
	return Client{
		ClientID:      row["client_id"],
		Name:          row["name"],
		Contact:       row["contact"],
		Email:         row["email"],
		Phone:         row["phone"],
		Industry:      row["industry"],
		Address:       row["address"],
		CreatedDate:   row["created_date"],
		TotalInvoices: safeInt(row["total_invoices"]),
		TotalRevenue:  safeDecimal(row["total_revenue"]),
	}
}

func encodeClient(c Client) sheet.Row {
	return sheet.Row{
		"client_id":      c.ClientID,
		"name":           c.Name,
		"contact":        c.Contact,
		"email":          c.Email,
		"phone":          c.Phone,
		"industry":       c.Industry,
		"address":        c.Address,
		"created_date":   c.CreatedDate,
		"total_invoices": strconv.Itoa(c.TotalInvoices),
		"total_revenue":  c.TotalRevenue.String(),
	}
}

// =============================================================================
// INVOICE + ITEMS
// =============================================================================

func decodeInvoice(row sheet.Row) Invoice {
	return Invoice{
		InvoiceID:     row["invoice_id"],
		ClientID:      row["client_id"],
		ClientName:    row["client_name"],
		InvoiceDate:   row["invoice_date"],
		DueDate:       row["due_date"],
		Subtotal:      safeDecimal(row["subtotal"]),
		TotalTax:      safeDecimal(row["total_tax"]),
		TotalDiscount: safeDecimal(row["total_discount"]),
		GrandTotal:    safeDecimal(row["grand_total"]),
		Status:        row["status"],
		SalesPerson:   row["sales_person"],
		CreatedBy:     row["created_by"],
		CreatedAt:     row["created_at"],
		UpdatedAt:     row["updated_at"],
	}
}

func encodeInvoice(inv Invoice) sheet.Row {
	return sheet.Row{
		"invoice_id":     inv.InvoiceID,
		"client_id":      inv.ClientID,
		"client_name":    inv.ClientName,
		"invoice_date":   inv.InvoiceDate,
		"due_date":       inv.DueDate,
		"subtotal":       inv.Subtotal.String(),
		"total_tax":      inv.TotalTax.String(),
		"total_discount": inv.TotalDiscount.String(),
		"grand_total":    inv.GrandTotal.String(),
		"status":         inv.Status,
		"sales_person":   inv.SalesPerson,
		"created_by":     inv.CreatedBy,
		"created_at":     inv.CreatedAt,
		"updated_at":     inv.UpdatedAt,
	}
}

func decodeInvoiceItem(row sheet.Row) InvoiceItem {
	return InvoiceItem{
		ItemID:          row["item_id"],
		InvoiceID:       row["invoice_id"],
		Service:         row["service"],
		Description:     row["description"],
		Quantity:        safeInt(row["quantity"]),
		UnitPrice:       safeDecimal(row["unit_price"]),
		TaxPercent:      safeDecimal(row["tax_percent"]),
		DiscountPercent: safeDecimal(row["discount_percent"]),
		LineTotal:       safeDecimal(row["line_total"]),
	}
}

func encodeInvoiceItem(item InvoiceItem) sheet.Row {
	return sheet.Row{
		"item_id":          item.ItemID,
		"invoice_id":       item.InvoiceID,
		"service":          item.Service,
		"description":      item.Description,
		"quantity":         strconv.Itoa(item.Quantity),
		"unit_price":       item.UnitPrice.String(),
		"tax_percent":      item.TaxPercent.String(),
		"discount_percent": item.DiscountPercent.String(),
		"line_total":       item.LineTotal.String(),
	}
}

// =============================================================================
// TASK
// =============================================================================

func decodeTask(row sheet.Row) Task {
	status := row["status"]
	if status == "" {
		status = TaskStatusTodo
	}
	priority := row["priority"]
	if priority == "" {
		priority = "medium"
	}
	return Task{
		TaskID:      row["task_id"],
		Title:       row["title"],
		Description: row["description"],
		Status:      status,
		Priority:    priority,
		AssignedTo:  row["assigned_to"],
		ClientID:    row["client_id"],
		InvoiceID:   row["invoice_id"],
		DueDate:     row["due_date"],
		CreatedDate: row["created_date"],
		UpdatedDate: row["updated_date"],
	}
}

func encodeTask(t Task) sheet.Row {
	return sheet.Row{
		"task_id":      t.TaskID,
		"title":        t.Title,
		"description":  t.Description,
		"status":       t.Status,
		"priority":     t.Priority,
		"assigned_to":  t.AssignedTo,
		"client_id":    t.ClientID,
		"invoice_id":   t.InvoiceID,
		"due_date":     t.DueDate,
		"created_date": t.CreatedDate,
		"updated_date": t.UpdatedDate,
	}
}

// =============================================================================
// TICKET
// =============================================================================

func decodeTicket(row sheet.Row) Ticket {
	return Ticket{
		TicketID:     row["ticket_id"],
		Title:        row["title"],
		Description:  row["description"],
		ClientID:     row["client_id"],
		ClientName:   row["client_name"],
		Status:       row["status"],
		Priority:     row["priority"],
		AssignedTo:   row["assigned_to"],
		Category:     row["category"],
		CreatedDate:  row["created_date"],
		UpdatedDate:  row["updated_date"],
		ResolvedDate: row["resolved_date"],
	}
}

func encodeTicket(t Ticket) sheet.Row {
	return sheet.Row{
		"ticket_id":     t.TicketID,
		"title":         t.Title,
		"description":   t.Description,
		"client_id":     t.ClientID,
		"client_name":   t.ClientName,
		"status":        t.Status,
		"priority":      t.Priority,
		"assigned_to":   t.AssignedTo,
		"category":      t.Category,
		"created_date":  t.CreatedDate,
		"updated_date":  t.UpdatedDate,
		"resolved_date": t.ResolvedDate,
	}
}

// =============================================================================
// ACTIVITY LOG
// =============================================================================

func decodeActivityLog(row sheet.Row) ActivityLog {
	return ActivityLog{
		LogID:       row["log_id"],
		Type:        row["type"],
		Title:       row["title"],
		Description: row["description"],
		EntityID:    row["entity_id"],
		EntityType:  row["entity_type"],
		User:        row["user"],
		Timestamp:   row["timestamp"],
		Status:      row["status"],
	}
}

func encodeActivityLog(a ActivityLog) sheet.Row {
	return sheet.Row{
		"log_id":      a.LogID,
		"type":        a.Type,
		"title":       a.Title,
		"description": a.Description,
		"entity_id":   a.EntityID,
		"entity_type": a.EntityType,
		"user":        a.User,
		"timestamp":   a.Timestamp,
		"status":      a.Status,
	}
}

/*
Package crm implements the domain services of the CRM: clients, invoices,
tasks, support tickets, activity logs, search, and dashboard aggregation.

Every service is a thin orchestration over the sheet adapter: scan or find
rows, decode them into the typed records below, apply the domain rule
(ID assignment, computed totals, status transition), write back. No service
keeps state between calls; every operation re-reads its sheet.

KEY CONVENTIONS:
  Clients          CLT001, CLT002, ...      key column client_id
  Invoices         INV-2026-001, ...        key column invoice_id
  Invoice_Items    8-char UUID prefix       key column item_id
  Tasks            T001, T002, ...          key column task_id
  Support_Tickets  TKT001, TKT002, ...      key column ticket_id
  Activity_Logs    LOG + 8 UUID chars       key column log_id

Key uniqueness is convention, not enforcement: only a caller-supplied
invoice ID is checked for collision. Foreign keys (invoice → client,
ticket → client) are not validated; orphan records are an accepted state.
*/
package crm

import "github.com/shopspring/decimal"

// =============================================================================
// SHEET NAMES AND KEY COLUMNS
// =============================================================================

const (
	SheetClients      = "Clients"
	SheetInvoices     = "Invoices"
	SheetInvoiceItems = "Invoice_Items"
	SheetTasks        = "Tasks"
	SheetTickets      = "Support_Tickets"
	SheetActivityLogs = "Activity_Logs"
)

// SheetHeaders gives the header contract of every sheet, used to bootstrap
// empty workbooks. A live sheet whose headers deviate silently drops or
// blanks the mismatched fields rather than failing loudly.
var SheetHeaders = map[string][]string{
	SheetClients: {"client_id", "name", "contact", "email", "phone", "industry",
		"address", "created_date", "total_invoices", "total_revenue"},
	SheetInvoices: {"invoice_id", "client_id", "client_name", "invoice_date", "due_date",
		"subtotal", "total_tax", "total_discount", "grand_total", "status",
		"sales_person", "created_by", "created_at", "updated_at"},
	SheetInvoiceItems: {"item_id", "invoice_id", "service", "description", "quantity",
		"unit_price", "tax_percent", "discount_percent", "line_total"},
	SheetTasks: {"task_id", "title", "description", "status", "priority",
		"assigned_to", "client_id", "invoice_id", "due_date", "created_date", "updated_date"},
	SheetTickets: {"ticket_id", "title", "description", "client_id", "client_name",
		"status", "priority", "assigned_to", "category", "created_date",
		"updated_date", "resolved_date"},
	SheetActivityLogs: {"log_id", "type", "title", "description", "entity_id",
		"entity_type", "user", "timestamp", "status"},
}

// =============================================================================
// STATUS VALUES
// =============================================================================
//
// None of the transitions below are graph-enforced: any status may follow
// any other. The only transition with a side effect is a ticket entering
// StatusResolved, which stamps resolved_date.

const (
	InvoiceStatusDraft   = "draft"
	InvoiceStatusPending = "pending"
	InvoiceStatusPaid    = "paid"
	InvoiceStatusOverdue = "overdue"
)

const (
	TaskStatusTodo       = "todo"
	TaskStatusInProgress = "in_progress"
	TaskStatusReview     = "review"
	TaskStatusDone       = "done"
)

const (
	TicketStatusOpen       = "open"
	TicketStatusInProgress = "in_progress"
	TicketStatusResolved   = "resolved"
	TicketStatusClosed     = "closed"
)

// ValidTicketStatuses is the accepted set for the status-only update path.
var ValidTicketStatuses = []string{
	TicketStatusOpen, TicketStatusInProgress, TicketStatusResolved, TicketStatusClosed,
}

// =============================================================================
// RECORDS
// =============================================================================

// Client is a CRM client. TotalInvoices and TotalRevenue are derived fields
// that no write path maintains; they are read back exactly as stored.
type Client struct {
	ClientID      string
	Name          string
	Contact       string
	Email         string
	Phone         string
	Industry      string
	Address       string
	CreatedDate   string
	TotalInvoices int
	TotalRevenue  decimal.Decimal
}

// Invoice is an invoice header. ClientName is a denormalized copy taken at
// creation and never resynced. Money fields persist as decimal strings.
type Invoice struct {
	InvoiceID     string
	ClientID      string
	ClientName    string
	InvoiceDate   string
	DueDate       string
	Subtotal      decimal.Decimal
	TotalTax      decimal.Decimal
	TotalDiscount decimal.Decimal
	GrandTotal    decimal.Decimal
	Status        string
	SalesPerson   string
	CreatedBy     string
	CreatedAt     string
	UpdatedAt     string
	Items         []InvoiceItem
}

// InvoiceItem is one invoice line. LineTotal is computed once at creation
// and never recomputed if quantity or rates change later.
type InvoiceItem struct {
	ItemID          string
	InvoiceID       string
	Service         string
	Description     string
	Quantity        int
	UnitPrice       decimal.Decimal
	TaxPercent      decimal.Decimal
	DiscountPercent decimal.Decimal
	LineTotal       decimal.Decimal
}

// Task is a kanban board task.
type Task struct {
	TaskID      string
	Title       string
	Description string
	Status      string
	Priority    string
	AssignedTo  string
	ClientID    string
	InvoiceID   string
	DueDate     string
	CreatedDate string
	UpdatedDate string
}

// Ticket is a support ticket. ClientName is denormalized like the invoice's.
type Ticket struct {
	TicketID     string
	Title        string
	Description  string
	ClientID     string
	ClientName   string
	Status       string
	Priority     string
	AssignedTo   string
	Category     string
	CreatedDate  string
	UpdatedDate  string
	ResolvedDate string
}

// ActivityLog is one entry of the best-effort activity feed.
type ActivityLog struct {
	LogID       string
	Type        string
	Title       string
	Description string
	EntityID    string
	EntityType  string
	User        string
	Timestamp   string
	Status      string
}

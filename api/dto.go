/*
dto.go - Request and response shapes for the HTTP surface

PURPOSE:
  Everything that crosses the wire is declared here. Domain records carry
  decimal.Decimal money; the DTOs convert to plain JSON numbers at the
  boundary so clients see 540000, not "540000".

ENVELOPE:
  Most endpoints wrap their payload as {success, message?, data}. List
  endpoints add a count (invoices also echo total/limit/offset). Task
  endpoints are the exception and return bare records; see handlers.go.

SEE ALSO:
  - handlers.go: Handler implementations
  - server.go: Router setup and middleware
*/
package api

import (
	"github.com/nimbusworks/sheetcrm/crm"
	"github.com/shopspring/decimal"
)

// =============================================================================
// ENVELOPE
// =============================================================================

// Envelope is the standard response wrapper.
type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// ListEnvelope is the wrapper for collection responses.
type ListEnvelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data"`
	Count   int    `json:"count"`
}

// PagedEnvelope is the invoice list wrapper with pagination echo.
type PagedEnvelope struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
	Total   int  `json:"total"`
	Limit   int  `json:"limit"`
	Offset  int  `json:"offset"`
}

// ErrorResponse is the error payload for non-2xx responses.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// =============================================================================
// CLIENT DTOs
// =============================================================================

// CreateClientRequest is the POST /clients body.
type CreateClientRequest struct {
	Name     string `json:"name"`
	Contact  string `json:"contact"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Industry string `json:"industry"`
	Address  string `json:"address"`
}

// ClientDTO mirrors a client row.
type ClientDTO struct {
	ClientID      string  `json:"client_id"`
	Name          string  `json:"name"`
	Contact       string  `json:"contact"`
	Email         string  `json:"email"`
	Phone         string  `json:"phone"`
	Industry      string  `json:"industry"`
	Address       string  `json:"address"`
	CreatedDate   string  `json:"created_date"`
	TotalInvoices int     `json:"total_invoices"`
	TotalRevenue  float64 `json:"total_revenue"`
}

func toClientDTO(c crm.Client) ClientDTO {
	return ClientDTO{
		ClientID:      c.ClientID,
		Name:          c.Name,
		Contact:       c.Contact,
		Email:         c.Email,
		Phone:         c.Phone,
		Industry:      c.Industry,
		Address:       c.Address,
		CreatedDate:   c.CreatedDate,
		TotalInvoices: c.TotalInvoices,
		TotalRevenue:  dec(c.TotalRevenue),
	}
}

// =============================================================================
// INVOICE DTOs
// =============================================================================

// InvoiceItemRequest is one line of a POST /invoices body.
type InvoiceItemRequest struct {
	Service         string  `json:"service"`
	Description     string  `json:"description"`
	Quantity        int     `json:"quantity"`
	UnitPrice       float64 `json:"unit_price"`
	TaxPercent      float64 `json:"tax_percent"`
	DiscountPercent float64 `json:"discount_percent"`
}

// CreateInvoiceRequest is the POST /invoices body.
type CreateInvoiceRequest struct {
	InvoiceID   string               `json:"invoice_id"`
	ClientID    string               `json:"client_id"`
	ClientName  string               `json:"client_name"`
	InvoiceDate string               `json:"invoice_date"`
	DueDate     string               `json:"due_date"`
	SalesPerson string               `json:"sales_person"`
	Items       []InvoiceItemRequest `json:"items"`
}

// UpdateInvoiceStatusRequest is the PATCH /invoices/{id}/status body.
type UpdateInvoiceStatusRequest struct {
	Status string `json:"status"`
}

// InvoiceItemDTO mirrors an invoice item row.
type InvoiceItemDTO struct {
	ItemID          string  `json:"item_id"`
	InvoiceID       string  `json:"invoice_id"`
	Service         string  `json:"service"`
	Description     string  `json:"description"`
	Quantity        int     `json:"quantity"`
	UnitPrice       float64 `json:"unit_price"`
	TaxPercent      float64 `json:"tax_percent"`
	DiscountPercent float64 `json:"discount_percent"`
	LineTotal       float64 `json:"line_total"`
}

// InvoiceDTO mirrors an invoice header, with items when loaded.
type InvoiceDTO struct {
	InvoiceID     string           `json:"invoice_id"`
	ClientID      string           `json:"client_id"`
	ClientName    string           `json:"client_name"`
	InvoiceDate   string           `json:"invoice_date"`
	DueDate       string           `json:"due_date"`
	Subtotal      float64          `json:"subtotal"`
	TotalTax      float64          `json:"total_tax"`
	TotalDiscount float64          `json:"total_discount"`
	GrandTotal    float64          `json:"grand_total"`
	Status        string           `json:"status"`
	SalesPerson   string           `json:"sales_person"`
	CreatedBy     string           `json:"created_by"`
	CreatedAt     string           `json:"created_at"`
	UpdatedAt     string           `json:"updated_at"`
	Items         []InvoiceItemDTO `json:"items,omitempty"`
}

func toInvoiceItemDTO(it crm.InvoiceItem) InvoiceItemDTO {
	return InvoiceItemDTO{
		ItemID:          it.ItemID,
		InvoiceID:       it.InvoiceID,
		Service:         it.Service,
		Description:     it.Description,
		Quantity:        it.Quantity,
		UnitPrice:       dec(it.UnitPrice),
		TaxPercent:      dec(it.TaxPercent),
		DiscountPercent: dec(it.DiscountPercent),
		LineTotal:       dec(it.LineTotal),
	}
}

func toInvoiceDTO(inv crm.Invoice) InvoiceDTO {
	dto := InvoiceDTO{
		InvoiceID:     inv.InvoiceID,
		ClientID:      inv.ClientID,
		ClientName:    inv.ClientName,
		InvoiceDate:   inv.InvoiceDate,
		DueDate:       inv.DueDate,
		Subtotal:      dec(inv.Subtotal),
		TotalTax:      dec(inv.TotalTax),
		TotalDiscount: dec(inv.TotalDiscount),
		GrandTotal:    dec(inv.GrandTotal),
		Status:        inv.Status,
		SalesPerson:   inv.SalesPerson,
		CreatedBy:     inv.CreatedBy,
		CreatedAt:     inv.CreatedAt,
		UpdatedAt:     inv.UpdatedAt,
	}
	for _, it := range inv.Items {
		dto.Items = append(dto.Items, toInvoiceItemDTO(it))
	}
	return dto
}

// =============================================================================
// TASK DTOs
// =============================================================================

// TaskRequest is the POST /tasks body; the same shape patches a task, where
// absent fields are left unchanged.
type TaskRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
	Priority    *string `json:"priority"`
	AssignedTo  *string `json:"assigned_to"`
	ClientID    *string `json:"client_id"`
	InvoiceID   *string `json:"invoice_id"`
	DueDate     *string `json:"due_date"`
}

// UpdateTaskStatusRequest is the PATCH /tasks/{id}/status body.
type UpdateTaskStatusRequest struct {
	Status string `json:"status"`
}

// TaskDTO mirrors a task row. Task endpoints return this bare, without the
// envelope.
type TaskDTO struct {
	TaskID      string `json:"task_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      string `json:"status"`
	Priority    string `json:"priority"`
	AssignedTo  string `json:"assigned_to"`
	ClientID    string `json:"client_id"`
	InvoiceID   string `json:"invoice_id"`
	DueDate     string `json:"due_date"`
	CreatedDate string `json:"created_date"`
	UpdatedDate string `json:"updated_date"`
}

func toTaskDTO(t crm.Task) TaskDTO {
	return TaskDTO{
		TaskID:      t.TaskID,
		Title:       t.Title,
		Description: t.Description,
		Status:      t.Status,
		Priority:    t.Priority,
		AssignedTo:  t.AssignedTo,
		ClientID:    t.ClientID,
		InvoiceID:   t.InvoiceID,
		DueDate:     t.DueDate,
		CreatedDate: t.CreatedDate,
		UpdatedDate: t.UpdatedDate,
	}
}

// =============================================================================
// TICKET DTOs
// =============================================================================

// CreateTicketRequest is the POST /tickets body.
type CreateTicketRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	ClientID    string `json:"client_id"`
	ClientName  string `json:"client_name"`
	Priority    string `json:"priority"`
	Category    string `json:"category"`
	AssignedTo  string `json:"assigned_to"`
}

// UpdateTicketRequest is the PUT /tickets/{id} body; absent fields are left
// unchanged.
type UpdateTicketRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Priority    *string `json:"priority"`
	Category    *string `json:"category"`
	AssignedTo  *string `json:"assigned_to"`
	Status      *string `json:"status"`
}

// TicketDTO mirrors a ticket row.
type TicketDTO struct {
	TicketID     string `json:"ticket_id"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	ClientID     string `json:"client_id"`
	ClientName   string `json:"client_name"`
	Status       string `json:"status"`
	Priority     string `json:"priority"`
	AssignedTo   string `json:"assigned_to"`
	Category     string `json:"category"`
	CreatedDate  string `json:"created_date"`
	UpdatedDate  string `json:"updated_date"`
	ResolvedDate string `json:"resolved_date"`
}

func toTicketDTO(t crm.Ticket) TicketDTO {
	return TicketDTO{
		TicketID:     t.TicketID,
		Title:        t.Title,
		Description:  t.Description,
		ClientID:     t.ClientID,
		ClientName:   t.ClientName,
		Status:       t.Status,
		Priority:     t.Priority,
		AssignedTo:   t.AssignedTo,
		Category:     t.Category,
		CreatedDate:  t.CreatedDate,
		UpdatedDate:  t.UpdatedDate,
		ResolvedDate: t.ResolvedDate,
	}
}

// =============================================================================
// ACTIVITY DTOs
// =============================================================================

// ActivityDTO mirrors one activity log entry.
type ActivityDTO struct {
	LogID       string `json:"log_id"`
	Type        string `json:"type"`
	Title       string `json:"title"`
	Description string `json:"description"`
	EntityID    string `json:"entity_id"`
	EntityType  string `json:"entity_type"`
	User        string `json:"user"`
	Timestamp   string `json:"timestamp"`
	Status      string `json:"status"`
}

func toActivityDTO(a crm.ActivityLog) ActivityDTO {
	return ActivityDTO{
		LogID:       a.LogID,
		Type:        a.Type,
		Title:       a.Title,
		Description: a.Description,
		EntityID:    a.EntityID,
		EntityType:  a.EntityType,
		User:        a.User,
		Timestamp:   a.Timestamp,
		Status:      a.Status,
	}
}

// =============================================================================
// SEARCH DTOs
// =============================================================================

// ClientMatchDTO is one client search hit.
type ClientMatchDTO struct {
	ID    string `json:"id"`
	Type  string `json:"type"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// InvoiceMatchDTO is one invoice search hit.
type InvoiceMatchDTO struct {
	ID          string  `json:"id"`
	Type        string  `json:"type"`
	ClientID    string  `json:"client_id"`
	ClientName  string  `json:"client_name"`
	GrandTotal  float64 `json:"grand_total"`
	Status      string  `json:"status"`
	InvoiceDate string  `json:"invoice_date"`
}

// SearchResponse groups hits per entity type. Total counts every hit after
// per-type truncation; it is 0 when nothing matched.
type SearchResponse struct {
	Query    string            `json:"query"`
	Clients  []ClientMatchDTO  `json:"clients"`
	Invoices []InvoiceMatchDTO `json:"invoices"`
	Total    int               `json:"total"`
}

// dec converts a stored decimal to the JSON number representation.
func dec(d decimal.Decimal) float64 {
	f, _ := d.Float64()
	return f
}

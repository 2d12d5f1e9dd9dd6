/*
handlers.go - HTTP handlers for clients, invoices, tasks, and tickets

PURPOSE:
  Exposes the CRM services via REST. Handlers parse the request, delegate to
  the domain service, and serialize the result. No business logic lives here.

ENDPOINTS (all under /api/v1, X-API-Key required):
  Clients:
    POST   /clients                 Create client
    GET    /clients                 List clients (?limit=)
    GET    /clients/{id}            Get one client

  Invoices:
    POST   /invoices                Create invoice with items
    GET    /invoices                List (?status=&client_id=&limit=&offset=)
    GET    /invoices/{id}           Get invoice with items
    PATCH  /invoices/{id}/status    Update status

  Tasks (bare JSON, no envelope):
    GET    /tasks                   List (?status=)
    POST   /tasks                   Create task
    GET    /tasks/{id}              Get one task
    PATCH  /tasks/{id}              Partial update
    PATCH  /tasks/{id}/status       Board-drag status update
    DELETE /tasks/{id}              Delete (204)

  Tickets:
    POST   /tickets                 Create ticket
    GET    /tickets                 List (?status=&priority=&client_id=&limit=)
    GET    /tickets/{id}            Get one ticket
    PUT    /tickets/{id}            Partial update
    PATCH  /tickets/{id}/status     Status via ?status= query parameter

ERROR HANDLING:
  - 400: Validation errors, duplicate custom invoice IDs
  - 401: Missing or wrong API key (see server.go)
  - 404: Record not found
  - 500: Sheet transport failures, partial invoice writes

ACTIVITY FEED:
  Invoice and ticket creation fire an activity log entry after success.
  Logging is best effort and never fails the request.

SEE ALSO:
  - insights.go: Activity, search, and dashboard handlers
  - dto.go: Request/response data structures
  - server.go: Router setup, middleware, API key auth
*/
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/nimbusworks/sheetcrm/crm"
	"github.com/shopspring/decimal"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Clients    *crm.ClientService
	Invoices   *crm.InvoiceService
	Tasks      *crm.TaskService
	Tickets    *crm.TicketService
	Activities *crm.ActivityService
	Search     *crm.SearchService
	Dashboards *crm.DashboardService
}

// NewHandler creates a handler over the given services.
func NewHandler(
	clients *crm.ClientService,
	invoices *crm.InvoiceService,
	tasks *crm.TaskService,
	tickets *crm.TicketService,
	activities *crm.ActivityService,
	search *crm.SearchService,
	dashboards *crm.DashboardService,
) *Handler {
	return &Handler{
		Clients:    clients,
		Invoices:   invoices,
		Tasks:      tasks,
		Tickets:    tickets,
		Activities: activities,
		Search:     search,
		Dashboards: dashboards,
	}
}

// =============================================================================
// CLIENT HANDLERS
// =============================================================================

// CreateClient creates a client.
// POST /api/v1/clients
func (h *Handler) CreateClient(w http.ResponseWriter, r *http.Request) {
	var req CreateClientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "Client name is required", nil)
		return
	}

	client, err := h.Clients.Create(r.Context(), crm.ClientInput{
		Name:     req.Name,
		Contact:  req.Contact,
		Email:    req.Email,
		Phone:    req.Phone,
		Industry: req.Industry,
		Address:  req.Address,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create client", err)
		return
	}

	writeJSON(w, http.StatusCreated, Envelope{
		Success: true,
		Message: "Client created successfully",
		Data:    toClientDTO(client),
	})
}

// ListClients returns all clients.
// GET /api/v1/clients?limit=
func (h *Handler) ListClients(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 0)

	clients, err := h.Clients.List(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list clients", err)
		return
	}

	dtos := make([]ClientDTO, len(clients))
	for i, c := range clients {
		dtos[i] = toClientDTO(c)
	}
	writeJSON(w, http.StatusOK, ListEnvelope{Success: true, Data: dtos, Count: len(dtos)})
}

// GetClient returns a single client.
// GET /api/v1/clients/{id}
func (h *Handler) GetClient(w http.ResponseWriter, r *http.Request) {
	clientID := chi.URLParam(r, "id")

	client, err := h.Clients.Get(r.Context(), clientID)
	if err != nil {
		if errors.Is(err, crm.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Client not found", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get client", err)
		return
	}

	writeJSON(w, http.StatusOK, Envelope{Success: true, Data: toClientDTO(client)})
}

// =============================================================================
// INVOICE HANDLERS
// =============================================================================

// CreateInvoice creates an invoice with its items.
// POST /api/v1/invoices
func (h *Handler) CreateInvoice(w http.ResponseWriter, r *http.Request) {
	var req CreateInvoiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.ClientID == "" {
		writeError(w, http.StatusBadRequest, "client_id is required", nil)
		return
	}
	if len(req.Items) == 0 {
		writeError(w, http.StatusBadRequest, "At least one item is required", nil)
		return
	}

	items := make([]crm.InvoiceItemInput, len(req.Items))
	for i, it := range req.Items {
		if it.Quantity <= 0 {
			writeError(w, http.StatusBadRequest,
				fmt.Sprintf("Item %d: quantity must be positive", i+1), nil)
			return
		}
		items[i] = crm.InvoiceItemInput{
			Service:         it.Service,
			Description:     it.Description,
			Quantity:        it.Quantity,
			UnitPrice:       decimal.NewFromFloat(it.UnitPrice),
			TaxPercent:      decimal.NewFromFloat(it.TaxPercent),
			DiscountPercent: decimal.NewFromFloat(it.DiscountPercent),
		}
	}

	invoice, err := h.Invoices.Create(r.Context(), crm.InvoiceInput{
		InvoiceID:   req.InvoiceID,
		ClientID:    req.ClientID,
		ClientName:  req.ClientName,
		InvoiceDate: req.InvoiceDate,
		DueDate:     req.DueDate,
		SalesPerson: req.SalesPerson,
		Items:       items,
	})
	if err != nil {
		var dup *crm.DuplicateInvoiceIDError
		if errors.As(err, &dup) {
			writeError(w, http.StatusBadRequest, dup.Error(), nil)
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to create invoice", err)
		return
	}

	h.Activities.Log(r.Context(), crm.ActivityInput{
		Type:        "invoice_generated",
		Title:       "Invoice " + invoice.InvoiceID + " generated",
		Description: fmt.Sprintf("Invoice for %s totaling %s", invoice.ClientName, invoice.GrandTotal.String()),
		EntityID:    invoice.InvoiceID,
		EntityType:  "invoice",
		User:        req.SalesPerson, // blank falls back to the feed's default
	})

	writeJSON(w, http.StatusCreated, Envelope{
		Success: true,
		Message: "Invoice created successfully",
		Data:    toInvoiceDTO(invoice),
	})
}

// ListInvoices returns invoices with filtering and pagination.
// GET /api/v1/invoices?status=&client_id=&limit=&offset=
func (h *Handler) ListInvoices(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")
	clientID := r.URL.Query().Get("client_id")
	limit := queryInt(r, "limit", 50)
	if limit < 1 {
		limit = 50
	} else if limit > 100 {
		limit = 100
	}
	offset := queryInt(r, "offset", 0)

	invoices, total, err := h.Invoices.List(r.Context(), status, clientID, limit, offset)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list invoices", err)
		return
	}

	dtos := make([]InvoiceDTO, len(invoices))
	for i, inv := range invoices {
		dtos[i] = toInvoiceDTO(inv)
	}
	writeJSON(w, http.StatusOK, PagedEnvelope{
		Success: true,
		Data:    dtos,
		Total:   total,
		Limit:   limit,
		Offset:  offset,
	})
}

// GetInvoice returns an invoice with its items.
// GET /api/v1/invoices/{id}
func (h *Handler) GetInvoice(w http.ResponseWriter, r *http.Request) {
	invoiceID := chi.URLParam(r, "id")

	invoice, err := h.Invoices.Get(r.Context(), invoiceID)
	if err != nil {
		if errors.Is(err, crm.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Invoice not found", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get invoice", err)
		return
	}

	writeJSON(w, http.StatusOK, Envelope{Success: true, Data: toInvoiceDTO(invoice)})
}

// UpdateInvoiceStatus updates an invoice's status.
// PATCH /api/v1/invoices/{id}/status
func (h *Handler) UpdateInvoiceStatus(w http.ResponseWriter, r *http.Request) {
	invoiceID := chi.URLParam(r, "id")

	var req UpdateInvoiceStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Status == "" {
		writeError(w, http.StatusBadRequest, "status is required", nil)
		return
	}

	if err := h.Invoices.UpdateStatus(r.Context(), invoiceID, req.Status); err != nil {
		if errors.Is(err, crm.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Invoice not found", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to update invoice status", err)
		return
	}

	writeJSON(w, http.StatusOK, Envelope{
		Success: true,
		Message: "Invoice status updated to " + req.Status,
	})
}

// =============================================================================
// TASK HANDLERS
// =============================================================================
//
// Task responses are bare records and arrays without the envelope. The
// kanban frontend consumes them directly.

// ListTasks returns all tasks, optionally filtered by status.
// GET /api/v1/tasks?status=
func (h *Handler) ListTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.Tasks.List(r.Context(), r.URL.Query().Get("status"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list tasks", err)
		return
	}

	dtos := make([]TaskDTO, len(tasks))
	for i, t := range tasks {
		dtos[i] = toTaskDTO(t)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateTask creates a task.
// POST /api/v1/tasks
func (h *Handler) CreateTask(w http.ResponseWriter, r *http.Request) {
	var req TaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Title == nil || *req.Title == "" {
		writeError(w, http.StatusBadRequest, "Task title is required", nil)
		return
	}

	task, err := h.Tasks.Create(r.Context(), crm.TaskInput{
		Title:       deref(req.Title),
		Description: deref(req.Description),
		Status:      deref(req.Status),
		Priority:    deref(req.Priority),
		AssignedTo:  deref(req.AssignedTo),
		ClientID:    deref(req.ClientID),
		InvoiceID:   deref(req.InvoiceID),
		DueDate:     deref(req.DueDate),
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create task", err)
		return
	}

	writeJSON(w, http.StatusCreated, toTaskDTO(task))
}

// GetTask returns a single task.
// GET /api/v1/tasks/{id}
func (h *Handler) GetTask(w http.ResponseWriter, r *http.Request) {
	task, err := h.Tasks.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, crm.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Task not found", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get task", err)
		return
	}
	writeJSON(w, http.StatusOK, toTaskDTO(task))
}

// UpdateTask applies a partial update to a task.
// PATCH /api/v1/tasks/{id}
func (h *Handler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	taskID := chi.URLParam(r, "id")

	var req TaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	task, err := h.Tasks.Update(r.Context(), taskID, crm.TaskPatch{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
		AssignedTo:  req.AssignedTo,
		ClientID:    req.ClientID,
		InvoiceID:   req.InvoiceID,
		DueDate:     req.DueDate,
	})
	if err != nil {
		if errors.Is(err, crm.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Task not found", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to update task", err)
		return
	}
	writeJSON(w, http.StatusOK, toTaskDTO(task))
}

// UpdateTaskStatus is the board-drag path: status only.
// PATCH /api/v1/tasks/{id}/status
func (h *Handler) UpdateTaskStatus(w http.ResponseWriter, r *http.Request) {
	taskID := chi.URLParam(r, "id")

	var req UpdateTaskStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Status == "" {
		writeError(w, http.StatusBadRequest, "status is required", nil)
		return
	}

	task, err := h.Tasks.UpdateStatus(r.Context(), taskID, req.Status)
	if err != nil {
		if errors.Is(err, crm.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Task not found", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to update task status", err)
		return
	}
	writeJSON(w, http.StatusOK, toTaskDTO(task))
}

// DeleteTask removes a task. Returns 204 with no body on success.
// DELETE /api/v1/tasks/{id}
func (h *Handler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	taskID := chi.URLParam(r, "id")

	if err := h.Tasks.Delete(r.Context(), taskID); err != nil {
		if errors.Is(err, crm.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Task not found", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to delete task", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// TICKET HANDLERS
// =============================================================================

// CreateTicket creates a support ticket.
// POST /api/v1/tickets
func (h *Handler) CreateTicket(w http.ResponseWriter, r *http.Request) {
	var req CreateTicketRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Title == "" {
		writeError(w, http.StatusBadRequest, "Ticket title is required", nil)
		return
	}

	ticket, err := h.Tickets.Create(r.Context(), crm.TicketInput{
		Title:       req.Title,
		Description: req.Description,
		ClientID:    req.ClientID,
		ClientName:  req.ClientName,
		Priority:    req.Priority,
		Category:    req.Category,
		AssignedTo:  req.AssignedTo,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create ticket", err)
		return
	}

	h.Activities.Log(r.Context(), crm.ActivityInput{
		Type:        "ticket_created",
		Title:       "Ticket " + ticket.TicketID + " created",
		Description: ticket.Title,
		EntityID:    ticket.TicketID,
		EntityType:  "ticket",
	})

	writeJSON(w, http.StatusCreated, Envelope{
		Success: true,
		Message: "Ticket created successfully",
		Data:    toTicketDTO(ticket),
	})
}

// ListTickets returns tickets with filtering.
// GET /api/v1/tickets?status=&priority=&client_id=&limit=
func (h *Handler) ListTickets(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	tickets, err := h.Tickets.List(r.Context(),
		q.Get("status"), q.Get("priority"), q.Get("client_id"), queryInt(r, "limit", 0))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list tickets", err)
		return
	}

	dtos := make([]TicketDTO, len(tickets))
	for i, t := range tickets {
		dtos[i] = toTicketDTO(t)
	}
	writeJSON(w, http.StatusOK, ListEnvelope{Success: true, Data: dtos, Count: len(dtos)})
}

// GetTicket returns a single ticket.
// GET /api/v1/tickets/{id}
func (h *Handler) GetTicket(w http.ResponseWriter, r *http.Request) {
	ticket, err := h.Tickets.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, crm.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Ticket not found", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get ticket", err)
		return
	}
	writeJSON(w, http.StatusOK, Envelope{Success: true, Data: toTicketDTO(ticket)})
}

// UpdateTicket applies a partial update to a ticket.
// PUT /api/v1/tickets/{id}
func (h *Handler) UpdateTicket(w http.ResponseWriter, r *http.Request) {
	ticketID := chi.URLParam(r, "id")

	var req UpdateTicketRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	ticket, err := h.Tickets.Update(r.Context(), ticketID, crm.TicketPatch{
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		Category:    req.Category,
		AssignedTo:  req.AssignedTo,
		Status:      req.Status,
	})
	if err != nil {
		if errors.Is(err, crm.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Ticket not found", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to update ticket", err)
		return
	}
	writeJSON(w, http.StatusOK, Envelope{
		Success: true,
		Message: "Ticket updated successfully",
		Data:    toTicketDTO(ticket),
	})
}

// UpdateTicketStatus updates a ticket's status. The new status arrives as a
// query parameter, not a body.
// PATCH /api/v1/tickets/{id}/status?status=
func (h *Handler) UpdateTicketStatus(w http.ResponseWriter, r *http.Request) {
	ticketID := chi.URLParam(r, "id")
	status := r.URL.Query().Get("status")

	ticket, err := h.Tickets.UpdateStatus(r.Context(), ticketID, status)
	if err != nil {
		if errors.Is(err, crm.ErrInvalidStatus) {
			writeError(w, http.StatusBadRequest,
				"Invalid status. Must be one of: open, in_progress, resolved, closed", nil)
			return
		}
		if errors.Is(err, crm.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Ticket not found", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to update ticket status", err)
		return
	}
	writeJSON(w, http.StatusOK, Envelope{
		Success: true,
		Message: "Ticket status updated to " + status,
		Data:    toTicketDTO(ticket),
	})
}

// =============================================================================
// RESPONSE HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Success: false, Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// queryInt parses an integer query parameter, falling back on absence or
// garbage.
func queryInt(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return fallback
	}
	return n
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

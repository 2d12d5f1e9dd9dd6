/*
insights.go - Activity feed, global search, and dashboard handlers

PURPOSE:
  The read-mostly half of the API. Activity and search endpoints degrade to
  empty results on sheet failures instead of erroring; dashboard endpoints
  report failures inside a 200 body, which the frontend renders as an empty
  dashboard with a banner.

SEE ALSO:
  - handlers.go: Entity CRUD handlers and response helpers
  - server.go: Router setup and middleware
*/
package api

import (
	"net/http"

	"github.com/nimbusworks/sheetcrm/crm"
)

// =============================================================================
// ACTIVITY HANDLERS
// =============================================================================

// ListActivities returns the newest activity entries.
// GET /api/v1/activities?limit=
func (h *Handler) ListActivities(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 20)

	entries := h.Activities.Recent(r.Context(), limit)
	dtos := make([]ActivityDTO, len(entries))
	for i, e := range entries {
		dtos[i] = toActivityDTO(e)
	}
	writeJSON(w, http.StatusOK, ListEnvelope{Success: true, Data: dtos, Count: len(dtos)})
}

// UnreadActivityCount returns the number of unread entries.
// GET /api/v1/activities/unread-count
func (h *Handler) UnreadActivityCount(w http.ResponseWriter, r *http.Request) {
	count := h.Activities.UnreadCount(r.Context())
	writeJSON(w, http.StatusOK, Envelope{
		Success: true,
		Data:    map[string]int{"unread_count": count},
	})
}

// MarkActivitiesRead acknowledges the feed.
// POST /api/v1/activities/mark-read
func (h *Handler) MarkActivitiesRead(w http.ResponseWriter, r *http.Request) {
	h.Activities.MarkAllRead(r.Context())
	writeJSON(w, http.StatusOK, Envelope{
		Success: true,
		Message: "All activities marked as read",
	})
}

// =============================================================================
// SEARCH HANDLER
// =============================================================================

// GlobalSearch searches clients and invoices.
// GET /api/v1/search?q=&type=&limit=
//
// type is "all" (default), "clients", or "invoices". Each entity type is
// searched and truncated independently.
func (h *Handler) GlobalSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		writeError(w, http.StatusBadRequest, "Query parameter q is required", nil)
		return
	}
	searchType := r.URL.Query().Get("type")
	if searchType == "" {
		searchType = "all"
	}
	limit := queryInt(r, "limit", 10)

	resp := SearchResponse{
		Query:    q,
		Clients:  []ClientMatchDTO{},
		Invoices: []InvoiceMatchDTO{},
	}

	if searchType == "all" || searchType == "clients" {
		for _, m := range truncateClients(h.Search.SearchClients(r.Context(), q), limit) {
			resp.Clients = append(resp.Clients, ClientMatchDTO{
				ID:    m.ID,
				Type:  "client",
				Name:  m.Name,
				Email: m.Email,
				Phone: m.Phone,
			})
		}
	}
	if searchType == "all" || searchType == "invoices" {
		for _, m := range truncateInvoices(h.Search.SearchInvoices(r.Context(), q), limit) {
			resp.Invoices = append(resp.Invoices, InvoiceMatchDTO{
				ID:          m.ID,
				Type:        "invoice",
				ClientID:    m.ClientID,
				ClientName:  m.ClientName,
				GrandTotal:  dec(m.GrandTotal),
				Status:      m.Status,
				InvoiceDate: m.InvoiceDate,
			})
		}
	}
	resp.Total = len(resp.Clients) + len(resp.Invoices)

	writeJSON(w, http.StatusOK, Envelope{Success: true, Data: resp})
}

func truncateClients(matches []crm.ClientMatch, limit int) []crm.ClientMatch {
	if limit > 0 && len(matches) > limit {
		return matches[:limit]
	}
	return matches
}

func truncateInvoices(matches []crm.InvoiceMatch, limit int) []crm.InvoiceMatch {
	if limit > 0 && len(matches) > limit {
		return matches[:limit]
	}
	return matches
}

// =============================================================================
// DASHBOARD HANDLERS
// =============================================================================
//
// Dashboard failures are reported inside a 200 body as {success:false,
// error}. The frontend treats them as empty dashboards, not hard errors.

// ExecutiveDashboard returns the executive metrics.
// GET /api/v1/dashboard/executive?start_date=&end_date=
func (h *Handler) ExecutiveDashboard(w http.ResponseWriter, r *http.Request) {
	metrics, err := h.Dashboards.Executive(r.Context(),
		r.URL.Query().Get("start_date"), r.URL.Query().Get("end_date"))
	if err != nil {
		writeDashboardError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Envelope{Success: true, Data: metrics})
}

// SalesDashboard returns the sales metrics.
// GET /api/v1/dashboard/sales?start_date=&end_date=
func (h *Handler) SalesDashboard(w http.ResponseWriter, r *http.Request) {
	metrics, err := h.Dashboards.Sales(r.Context(),
		r.URL.Query().Get("start_date"), r.URL.Query().Get("end_date"))
	if err != nil {
		writeDashboardError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Envelope{Success: true, Data: metrics})
}

// FinancialDashboard returns the financial metrics.
// GET /api/v1/dashboard/financial?start_date=&end_date=
func (h *Handler) FinancialDashboard(w http.ResponseWriter, r *http.Request) {
	metrics, err := h.Dashboards.Financial(r.Context(),
		r.URL.Query().Get("start_date"), r.URL.Query().Get("end_date"))
	if err != nil {
		writeDashboardError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Envelope{Success: true, Data: metrics})
}

func writeDashboardError(w http.ResponseWriter, err error) {
	writeJSON(w, http.StatusOK, map[string]any{
		"success": false,
		"error":   err.Error(),
	})
}

// =============================================================================
// SERVICE INFO
// =============================================================================

// Root returns service identification. Unauthenticated.
// GET /
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"service": "SheetCRM API",
		"version": "1.0.0",
		"status":  "running",
	})
}

// Health is the liveness probe. Unauthenticated.
// GET /health
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

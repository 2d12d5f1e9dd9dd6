package crm

import (
	"context"
	"log"
	"strings"

	"github.com/shopspring/decimal"
)

// SearchService performs case-insensitive substring search over a fixed set
// of fields per entity type. Each type is scanned and truncated
// independently; a scan failure for one type degrades that type to empty
// results rather than failing the search.
type SearchService struct {
	clients  *ClientService
	invoices *InvoiceService
}

// NewSearchService creates a search service over the client and invoice
// services.
func NewSearchService(clients *ClientService, invoices *InvoiceService) *SearchService {
	return &SearchService{clients: clients, invoices: invoices}
}

// ClientMatch is one client search hit.
type ClientMatch struct {
	ID    string
	Name  string
	Email string
	Phone string
}

// InvoiceMatch is one invoice search hit.
type InvoiceMatch struct {
	ID          string
	ClientID    string
	ClientName  string
	GrandTotal  decimal.Decimal
	Status      string
	InvoiceDate string
}

// SearchClients matches the query against client_id, name, email and phone.
func (s *SearchService) SearchClients(ctx context.Context, query string) []ClientMatch {
	clients, err := s.clients.List(ctx, 0)
	if err != nil {
		log.Printf("crm: client search scan failed: %v", err)
		return []ClientMatch{}
	}

	q := strings.ToLower(query)
	matches := []ClientMatch{}
	for _, c := range clients {
		if containsFold(q, c.ClientID, c.Name, c.Email, c.Phone) {
			matches = append(matches, ClientMatch{
				ID:    c.ClientID,
				Name:  c.Name,
				Email: c.Email,
				Phone: c.Phone,
			})
		}
	}
	return matches
}

// SearchInvoices matches the query against invoice_id and client_id.
func (s *SearchService) SearchInvoices(ctx context.Context, query string) []InvoiceMatch {
	invoices, _, err := s.invoices.List(ctx, "", "", 0, 0)
	if err != nil {
		log.Printf("crm: invoice search scan failed: %v", err)
		return []InvoiceMatch{}
	}

	q := strings.ToLower(query)
	matches := []InvoiceMatch{}
	for _, inv := range invoices {
		if containsFold(q, inv.InvoiceID, inv.ClientID) {
			matches = append(matches, InvoiceMatch{
				ID:          inv.InvoiceID,
				ClientID:    inv.ClientID,
				ClientName:  inv.ClientName,
				GrandTotal:  inv.GrandTotal,
				Status:      inv.Status,
				InvoiceDate: inv.InvoiceDate,
			})
		}
	}
	return matches
}

// containsFold reports whether the lowercased query is a substring of any
// of the candidate fields.
func containsFold(loweredQuery string, fields ...string) bool {
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), loweredQuery) {
			return true
		}
	}
	return false
}

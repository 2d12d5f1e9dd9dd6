package crm

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/nimbusworks/sheetcrm/sheet"
)

// TicketService manages support tickets in the Support_Tickets sheet.
type TicketService struct {
	store *sheet.Store
}

// NewTicketService creates a ticket service over the given store.
func NewTicketService(store *sheet.Store) *TicketService {
	return &TicketService{store: store}
}

// TicketInput is the caller-supplied portion of a new ticket. ClientName is
// a denormalized display copy; the client_id is not validated against the
// Clients sheet.
type TicketInput struct {
	Title       string
	Description string
	ClientID    string
	ClientName  string
	Priority    string
	Category    string
	AssignedTo  string
}

// TicketPatch is a partial update; nil fields are left unchanged.
type TicketPatch struct {
	Title       *string
	Description *string
	Priority    *string
	Category    *string
	AssignedTo  *string
	Status      *string
}

// Create assigns the next TKT### ID and appends the ticket. New tickets
// always start open with an empty resolved_date.
func (s *TicketService) Create(ctx context.Context, in TicketInput) (Ticket, error) {
	ticketID := NextTicketID(ctx, s.store)
	today := time.Now().Format("2006-01-02")

	priority := in.Priority
	if priority == "" {
		priority = "medium"
	}
	category := in.Category
	if category == "" {
		category = "general"
	}

	ticket := Ticket{
		TicketID:     ticketID,
		Title:        in.Title,
		Description:  in.Description,
		ClientID:     in.ClientID,
		ClientName:   in.ClientName,
		Status:       TicketStatusOpen,
		Priority:     priority,
		AssignedTo:   in.AssignedTo,
		Category:     category,
		CreatedDate:  today,
		UpdatedDate:  today,
		ResolvedDate: "",
	}

	if err := s.store.Append(ctx, SheetTickets, encodeTicket(ticket)); err != nil {
		return Ticket{}, fmt.Errorf("append ticket: %w", err)
	}

	log.Printf("crm: created ticket %s", ticketID)
	return ticket, nil
}

// List returns tickets matching the given filters, in sheet order, cut off
// at limit when positive. Rows without a ticket_id are skipped.
func (s *TicketService) List(ctx context.Context, status, priority, clientID string, limit int) ([]Ticket, error) {
	rows, err := s.store.Rows(ctx, SheetTickets)
	if err != nil {
		return nil, err
	}

	tickets := make([]Ticket, 0, len(rows))
	for _, row := range rows {
		if row["ticket_id"] == "" {
			continue
		}
		if status != "" && row["status"] != status {
			continue
		}
		if priority != "" && row["priority"] != priority {
			continue
		}
		if clientID != "" && row["client_id"] != clientID {
			continue
		}
		tickets = append(tickets, decodeTicket(row))
		if limit > 0 && len(tickets) >= limit {
			break
		}
	}
	return tickets, nil
}

// Get returns the ticket with the given ID, or ErrNotFound.
func (s *TicketService) Get(ctx context.Context, ticketID string) (Ticket, error) {
	row, err := s.store.Find(ctx, SheetTickets, "ticket_id", ticketID)
	if err != nil {
		return Ticket{}, err
	}
	if row == nil {
		return Ticket{}, fmt.Errorf("ticket %s: %w", ticketID, ErrNotFound)
	}
	return decodeTicket(row), nil
}

// Update applies the non-nil fields of the patch, stamps updated_date, and
// re-reads the ticket. A status change to resolved stamps resolved_date;
// no other transition has a side effect.
func (s *TicketService) Update(ctx context.Context, ticketID string, patch TicketPatch) (Ticket, error) {
	today := time.Now().Format("2006-01-02")

	updates := sheet.Row{}
	setIf(updates, "title", patch.Title)
	setIf(updates, "description", patch.Description)
	setIf(updates, "priority", patch.Priority)
	setIf(updates, "category", patch.Category)
	setIf(updates, "assigned_to", patch.AssignedTo)
	if patch.Status != nil {
		updates["status"] = *patch.Status
		if *patch.Status == TicketStatusResolved {
			updates["resolved_date"] = today
		}
	}
	updates["updated_date"] = today

	if err := s.store.Update(ctx, SheetTickets, "ticket_id", ticketID, updates); err != nil {
		if errors.Is(err, sheet.ErrRowNotFound) {
			return Ticket{}, fmt.Errorf("ticket %s: %w", ticketID, ErrNotFound)
		}
		return Ticket{}, err
	}
	return s.Get(ctx, ticketID)
}

// UpdateStatus sets only the status (plus updated_date, plus resolved_date
// when entering resolved). The status value must be one of the four known
// values; no transition graph is enforced beyond that.
func (s *TicketService) UpdateStatus(ctx context.Context, ticketID, status string) (Ticket, error) {
	if !validTicketStatus(status) {
		return Ticket{}, fmt.Errorf("status %q: %w", status, ErrInvalidStatus)
	}
	return s.Update(ctx, ticketID, TicketPatch{Status: &status})
}

func validTicketStatus(status string) bool {
	for _, v := range ValidTicketStatuses {
		if status == v {
			return true
		}
	}
	return false
}

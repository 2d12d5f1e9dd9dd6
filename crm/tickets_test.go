/*
tickets_test.go - Ticket lifecycle, resolved_date stamping, status validation
*/
package crm_test

import (
	"context"
	"testing"
	"time"

	"github.com/nimbusworks/sheetcrm/crm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTicketService(t *testing.T) *crm.TicketService {
	store, _ := newCRMStore(t)
	return crm.NewTicketService(store)
}

func TestCreateTicket_Defaults(t *testing.T) {
	svc := newTicketService(t)

	ticket, err := svc.Create(context.Background(), crm.TicketInput{
		Title:    "Printer on fire",
		ClientID: "CLT001",
	})
	require.NoError(t, err)

	assert.Equal(t, "TKT001", ticket.TicketID)
	assert.Equal(t, crm.TicketStatusOpen, ticket.Status)
	assert.Equal(t, "medium", ticket.Priority)
	assert.Equal(t, "general", ticket.Category)
	assert.Empty(t, ticket.ResolvedDate)
}

func TestResolveTicket_StampsResolvedDate(t *testing.T) {
	// GIVEN: An open ticket
	// WHEN: Its status moves to resolved
	// THEN: resolved_date is set to today; closing does not stamp it again
	svc := newTicketService(t)

	ticket, err := svc.Create(context.Background(), crm.TicketInput{Title: "Bug"})
	require.NoError(t, err)

	resolved, err := svc.UpdateStatus(context.Background(), ticket.TicketID, crm.TicketStatusResolved)
	require.NoError(t, err)
	assert.Equal(t, time.Now().Format("2006-01-02"), resolved.ResolvedDate)

	closed, err := svc.UpdateStatus(context.Background(), ticket.TicketID, crm.TicketStatusClosed)
	require.NoError(t, err)
	assert.Equal(t, resolved.ResolvedDate, closed.ResolvedDate, "resolved_date survives later transitions")
}

func TestUpdateTicketStatus_RejectsUnknownStatus(t *testing.T) {
	svc := newTicketService(t)

	ticket, err := svc.Create(context.Background(), crm.TicketInput{Title: "Bug"})
	require.NoError(t, err)

	_, err = svc.UpdateStatus(context.Background(), ticket.TicketID, "escalated")
	assert.ErrorIs(t, err, crm.ErrInvalidStatus)
}

func TestUpdateTicket_PartialPatch(t *testing.T) {
	svc := newTicketService(t)

	ticket, err := svc.Create(context.Background(), crm.TicketInput{
		Title:    "Bug",
		Priority: "high",
	})
	require.NoError(t, err)

	updated, err := svc.Update(context.Background(), ticket.TicketID, crm.TicketPatch{
		AssignedTo: strPtr("Grace"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Grace", updated.AssignedTo)
	assert.Equal(t, "high", updated.Priority)
	assert.Equal(t, crm.TicketStatusOpen, updated.Status)
}

func TestListTickets_Filters(t *testing.T) {
	svc := newTicketService(t)

	_, err := svc.Create(context.Background(), crm.TicketInput{Title: "A", ClientID: "CLT001", Priority: "low"})
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), crm.TicketInput{Title: "B", ClientID: "CLT002", Priority: "high"})
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), crm.TicketInput{Title: "C", ClientID: "CLT001", Priority: "high"})
	require.NoError(t, err)

	high, err := svc.List(context.Background(), "", "high", "", 0)
	require.NoError(t, err)
	assert.Len(t, high, 2)

	combined, err := svc.List(context.Background(), "", "high", "CLT001", 0)
	require.NoError(t, err)
	require.Len(t, combined, 1)
	assert.Equal(t, "C", combined[0].Title)

	limited, err := svc.List(context.Background(), "", "", "", 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

func TestGetTicket_NotFound(t *testing.T) {
	svc := newTicketService(t)

	_, err := svc.Get(context.Background(), "TKT404")
	assert.ErrorIs(t, err, crm.ErrNotFound)
}

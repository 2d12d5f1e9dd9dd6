package crm

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/nimbusworks/sheetcrm/sheet"
	"github.com/shopspring/decimal"
)

// ClientService manages client records in the Clients sheet.
type ClientService struct {
	store *sheet.Store
}

// NewClientService creates a client service over the given store.
func NewClientService(store *sheet.Store) *ClientService {
	return &ClientService{store: store}
}

// ClientInput is the caller-supplied portion of a new client.
type ClientInput struct {
	Name     string
	Contact  string
	Email    string
	Phone    string
	Industry string
	Address  string
}

// Create assigns the next CLT### ID and appends the client. The derived
// total_invoices/total_revenue columns are written as zero and never
// maintained afterwards.
func (s *ClientService) Create(ctx context.Context, in ClientInput) (Client, error) {
	clientID, err := NextClientID(ctx, s.store)
	if err != nil {
		return Client{}, fmt.Errorf("generate client id: %w", err)
	}

	client := Client{
		ClientID:      clientID,
		Name:          in.Name,
		Contact:       in.Contact,
		Email:         in.Email,
		Phone:         in.Phone,
		Industry:      in.Industry,
		Address:       in.Address,
		CreatedDate:   time.Now().Format("2006-01-02"),
		TotalInvoices: 0,
		TotalRevenue:  decimal.Zero,
	}

	if err := s.store.Append(ctx, SheetClients, encodeClient(client)); err != nil {
		return Client{}, fmt.Errorf("append client: %w", err)
	}

	log.Printf("crm: created client %s (%s)", clientID, in.Name)
	return client, nil
}

// List returns all clients in sheet order. A non-positive limit means no
// limit. Rows without a client_id are skipped.
func (s *ClientService) List(ctx context.Context, limit int) ([]Client, error) {
	rows, err := s.store.Rows(ctx, SheetClients)
	if err != nil {
		return nil, err
	}

	clients := make([]Client, 0, len(rows))
	for _, row := range rows {
		if row["client_id"] == "" {
			continue
		}
		clients = append(clients, decodeClient(row))
		if limit > 0 && len(clients) >= limit {
			break
		}
	}
	return clients, nil
}

// Get returns the client with the given ID, or ErrNotFound.
func (s *ClientService) Get(ctx context.Context, clientID string) (Client, error) {
	row, err := s.store.Find(ctx, SheetClients, "client_id", clientID)
	if err != nil {
		return Client{}, err
	}
	if row == nil || row["client_id"] == "" {
		return Client{}, fmt.Errorf("client %s: %w", clientID, ErrNotFound)
	}
	return decodeClient(row), nil
}

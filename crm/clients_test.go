/*
clients_test.go - Client creation and lookup
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

func TestCreateClient_AssignsIDAndZeroTotals(t *testing.T) {
	store, _ := newCRMStore(t)
	svc := crm.NewClientService(store)

	client, err := svc.Create(context.Background(), crm.ClientInput{
		Name:     "Acme Corp",
		Email:    "hello@acme.example.com",
		Industry: "Manufacturing",
	})
	require.NoError(t, err)

	assert.Equal(t, "CLT001", client.ClientID)
	assert.Equal(t, time.Now().Format("2006-01-02"), client.CreatedDate)
	assert.Zero(t, client.TotalInvoices)
	assert.True(t, client.TotalRevenue.IsZero())

	next, err := svc.Create(context.Background(), crm.ClientInput{Name: "Globex"})
	require.NoError(t, err)
	assert.Equal(t, "CLT002", next.ClientID)
}

func TestListClients_SkipsBlankIDsAndHonorsLimit(t *testing.T) {
	store, _ := newCRMStore(t)
	svc := crm.NewClientService(store)
	seedClient(t, store, "CLT001", "Acme")
	seedClient(t, store, "", "Ghost row")
	seedClient(t, store, "CLT002", "Globex")
	seedClient(t, store, "CLT003", "Initech")

	all, err := svc.List(context.Background(), 0)
	require.NoError(t, err)
	assert.Len(t, all, 3, "blank-ID row skipped")

	limited, err := svc.List(context.Background(), 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

func TestGetClient(t *testing.T) {
	store, _ := newCRMStore(t)
	svc := crm.NewClientService(store)
	seedClient(t, store, "CLT001", "Acme")

	client, err := svc.Get(context.Background(), "CLT001")
	require.NoError(t, err)
	assert.Equal(t, "Acme", client.Name)

	_, err = svc.Get(context.Background(), "CLT404")
	assert.ErrorIs(t, err, crm.ErrNotFound)
}

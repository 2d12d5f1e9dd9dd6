/*
dashboard_test.go - Dashboard aggregation over invoice scans

Tests for:
- Executive totals, growth vs the previous equal-length period, top clients
- Sales trend, per-salesperson leaderboard, average invoice value
- Financial breakdown by payment status and month
- Date-range filtering excluding undated rows
*/
package crm_test

import (
	"context"
	"testing"

	"github.com/nimbusworks/sheetcrm/crm"
	"github.com/nimbusworks/sheetcrm/sheet"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDashboardFixture(t *testing.T) (*crm.DashboardService, *sheet.Store) {
	store, _ := newCRMStore(t)
	return crm.NewDashboardService(store), store
}

func seedDashboardInvoice(t *testing.T, store *sheet.Store, id, clientID, clientName, date, status, salesPerson, grand, tax, discount string) {
	t.Helper()
	err := store.Append(context.Background(), crm.SheetInvoices, sheet.Row{
		"invoice_id":     id,
		"client_id":      clientID,
		"client_name":    clientName,
		"invoice_date":   date,
		"status":         status,
		"sales_person":   salesPerson,
		"grand_total":    grand,
		"total_tax":      tax,
		"total_discount": discount,
	})
	require.NoError(t, err)
}

func TestExecutiveDashboard_TotalsAndTopClients(t *testing.T) {
	svc, store := newDashboardFixture(t)
	seedDashboardInvoice(t, store, "INV-2026-001", "CLT001", "Acme", "2026-02-10", "paid", "Ada", "1000", "100", "0")
	seedDashboardInvoice(t, store, "INV-2026-002", "CLT002", "Globex", "2026-02-15", "paid", "Ada", "3000", "300", "0")
	seedDashboardInvoice(t, store, "INV-2026-003", "CLT001", "Acme", "2026-03-01", "draft", "Grace", "500", "50", "0")

	m, err := svc.Executive(context.Background(), "", "")
	require.NoError(t, err)

	assert.Equal(t, 4500.0, m.TotalRevenue)
	assert.Equal(t, 3, m.TotalInvoices)
	assert.Equal(t, 2, m.ActiveClients)
	assert.Zero(t, m.ClientGrowth)

	require.Len(t, m.TopClients, 2)
	assert.Equal(t, "Globex", m.TopClients[0].Name)
	assert.Equal(t, 3000.0, m.TopClients[0].Revenue)
	assert.Equal(t, 1500.0, m.TopClients[1].Revenue)

	require.Len(t, m.MonthlyRevenue, 2)
	assert.Equal(t, "Feb 2026", m.MonthlyRevenue[0].Month)
	assert.Equal(t, 4000.0, m.MonthlyRevenue[0].Revenue)
	assert.Equal(t, "Mar 2026", m.MonthlyRevenue[1].Month)
}

func TestExecutiveDashboard_GrowthAgainstPreviousPeriod(t *testing.T) {
	// GIVEN: 1000 in January, 1500 in February
	// WHEN: Asking for February with an explicit range
	// THEN: Revenue growth is +50% against the preceding equal-length window
	svc, store := newDashboardFixture(t)
	seedDashboardInvoice(t, store, "INV-2026-001", "CLT001", "Acme", "2026-01-15", "paid", "Ada", "1000", "0", "0")
	seedDashboardInvoice(t, store, "INV-2026-002", "CLT001", "Acme", "2026-02-15", "paid", "Ada", "1500", "0", "0")

	m, err := svc.Executive(context.Background(), "2026-02-01", "2026-02-28")
	require.NoError(t, err)

	assert.Equal(t, 1500.0, m.TotalRevenue)
	assert.Equal(t, 1, m.TotalInvoices)
	assert.InDelta(t, 50.0, m.RevenueGrowth, 0.01)
	assert.InDelta(t, 0.0, m.InvoiceGrowth, 0.01, "same invoice count both periods")
}

func TestDashboard_DateRangeExcludesUndatedRows(t *testing.T) {
	svc, store := newDashboardFixture(t)
	seedDashboardInvoice(t, store, "INV-2026-001", "CLT001", "Acme", "2026-02-10", "paid", "Ada", "1000", "0", "0")
	seedDashboardInvoice(t, store, "INV-2026-002", "CLT001", "Acme", "", "paid", "Ada", "9999", "0", "0")
	seedDashboardInvoice(t, store, "INV-2026-003", "CLT001", "Acme", "not-a-date", "paid", "Ada", "9999", "0", "0")

	// No range: every row counts
	all, err := svc.Executive(context.Background(), "", "")
	require.NoError(t, err)
	assert.Equal(t, 3, all.TotalInvoices)

	// With a range: undated and unparseable rows drop out
	ranged, err := svc.Executive(context.Background(), "2026-01-01", "2026-12-31")
	require.NoError(t, err)
	assert.Equal(t, 1, ranged.TotalInvoices)
	assert.Equal(t, 1000.0, ranged.TotalRevenue)
}

func TestSalesDashboard_LeaderboardAndTrend(t *testing.T) {
	svc, store := newDashboardFixture(t)
	seedDashboardInvoice(t, store, "INV-2026-001", "CLT001", "Acme", "2026-02-10", "paid", "Ada", "1000", "0", "0")
	seedDashboardInvoice(t, store, "INV-2026-002", "CLT002", "Globex", "2026-02-10", "paid", "Grace", "4000", "0", "0")
	seedDashboardInvoice(t, store, "INV-2026-003", "CLT001", "Acme", "2026-02-11", "paid", "Ada", "2000", "0", "0")

	m, err := svc.Sales(context.Background(), "", "")
	require.NoError(t, err)

	assert.Equal(t, 7000.0, m.TotalSales)
	assert.Equal(t, 3, m.InvoicesCount)
	assert.InDelta(t, 7000.0/3, m.AvgInvoiceValue, 0.01)
	assert.Equal(t, 65.5, m.ConversionRate)

	require.Len(t, m.SalesTrend, 2)
	assert.Equal(t, "2026-02-10", m.SalesTrend[0].Date)
	assert.Equal(t, 5000.0, m.SalesTrend[0].Sales)

	require.Len(t, m.TopSalespeople, 2)
	assert.Equal(t, "Grace", m.TopSalespeople[0].Name)
	assert.Equal(t, 4000.0, m.TopSalespeople[0].Sales)
	assert.Equal(t, 2, m.TopSalespeople[1].Invoices)
}

func TestFinancialDashboard_Breakdown(t *testing.T) {
	svc, store := newDashboardFixture(t)
	seedDashboardInvoice(t, store, "INV-2026-001", "CLT001", "Acme", "2026-02-10", "paid", "Ada", "1100", "100", "50")
	seedDashboardInvoice(t, store, "INV-2026-002", "CLT002", "Globex", "2026-03-10", "pending", "Ada", "900", "80", "20")

	m, err := svc.Financial(context.Background(), "", "")
	require.NoError(t, err)

	assert.Equal(t, 2000.0, m.TotalRevenue)
	assert.Equal(t, 180.0, m.TotalTax)
	assert.Equal(t, 70.0, m.TotalDiscount)
	assert.Equal(t, 2000.0-180.0-70.0, m.NetRevenue)

	assert.Equal(t, 1100.0, m.PaymentStatus[crm.InvoiceStatusPaid])
	assert.Equal(t, 900.0, m.PaymentStatus[crm.InvoiceStatusPending])
	assert.Zero(t, m.PaymentStatus[crm.InvoiceStatusOverdue])

	require.Len(t, m.RevenueByMonth, 2)
	assert.Equal(t, "Feb 2026", m.RevenueByMonth[0].Month)
}

/*
dashboard.go - Dashboard aggregation over invoice scans

PURPOSE:
  Presentation-side aggregation: each dashboard is a full scan of the
  Invoices sheet, filtered to a date range, folded into totals, trends, and
  leaderboards. Sums run in decimal and convert to float64 only at the
  response boundary. No caching; every request re-reads the sheet.
*/
package crm

import (
	"context"
	"sort"
	"time"

	"github.com/nimbusworks/sheetcrm/sheet"
	"github.com/shopspring/decimal"
)

// DashboardService aggregates invoice data for the three dashboards.
type DashboardService struct {
	store *sheet.Store
}

// NewDashboardService creates a dashboard service over the given store.
func NewDashboardService(store *sheet.Store) *DashboardService {
	return &DashboardService{store: store}
}

// MonthRevenue is one point of a monthly revenue trend.
type MonthRevenue struct {
	Month   string  `json:"month"`
	Revenue float64 `json:"revenue"`
}

// DayRevenue is one point of a daily sales trend.
type DayRevenue struct {
	Date  string  `json:"date"`
	Sales float64 `json:"sales"`
}

// ClientRevenue is one leaderboard entry of the executive dashboard.
type ClientRevenue struct {
	Name    string  `json:"name"`
	Revenue float64 `json:"revenue"`
}

// SalespersonTotal is one leaderboard entry of the sales dashboard.
type SalespersonTotal struct {
	Name     string  `json:"name"`
	Sales    float64 `json:"sales"`
	Invoices int     `json:"invoices"`
}

// ExecutiveMetrics is the executive dashboard payload.
type ExecutiveMetrics struct {
	TotalRevenue   float64         `json:"total_revenue"`
	TotalInvoices  int             `json:"total_invoices"`
	ActiveClients  int             `json:"active_clients"`
	RevenueGrowth  float64         `json:"revenue_growth"`
	InvoiceGrowth  float64         `json:"invoice_growth"`
	ClientGrowth   float64         `json:"client_growth"`
	MonthlyRevenue []MonthRevenue  `json:"monthly_revenue"`
	TopClients     []ClientRevenue `json:"top_clients"`
}

// SalesMetrics is the sales dashboard payload.
type SalesMetrics struct {
	TotalSales      float64            `json:"total_sales"`
	InvoicesCount   int                `json:"invoices_count"`
	AvgInvoiceValue float64            `json:"avg_invoice_value"`
	SalesTrend      []DayRevenue       `json:"sales_trend"`
	TopSalespeople  []SalespersonTotal `json:"top_salespeople"`
	ConversionRate  float64            `json:"conversion_rate"`
}

// FinancialMetrics is the financial dashboard payload.
type FinancialMetrics struct {
	TotalRevenue   float64            `json:"total_revenue"`
	TotalTax       float64            `json:"total_tax"`
	TotalDiscount  float64            `json:"total_discount"`
	NetRevenue     float64            `json:"net_revenue"`
	RevenueByMonth []MonthRevenue     `json:"revenue_by_month"`
	PaymentStatus  map[string]float64 `json:"payment_status"`
}

// Executive computes the executive dashboard for the optional date range.
func (s *DashboardService) Executive(ctx context.Context, startDate, endDate string) (ExecutiveMetrics, error) {
	invoices, err := s.store.Rows(ctx, SheetInvoices)
	if err != nil {
		return ExecutiveMetrics{}, err
	}

	filtered := filterByDateRange(invoices, "invoice_date", startDate, endDate)

	totalRevenue := decimal.Zero
	activeClients := map[string]bool{}
	for _, inv := range filtered {
		totalRevenue = totalRevenue.Add(safeDecimal(inv["grand_total"]))
		if inv["client_id"] != "" {
			activeClients[inv["client_id"]] = true
		}
	}

	// Growth compares against the previous period of equal length, ending
	// the day before the current period starts. Needs both bounds.
	revenueGrowth := 0.0
	invoiceGrowth := 0.0
	start, startOK := parseDate(startDate)
	end, endOK := parseDate(endDate)
	if startOK && endOK {
		periodDays := int(end.Sub(start).Hours() / 24)
		prevStart := start.AddDate(0, 0, -periodDays)
		prevEnd := start.AddDate(0, 0, -1)

		prev := filterByDateRange(invoices, "invoice_date",
			prevStart.Format("2006-01-02"), prevEnd.Format("2006-01-02"))

		prevRevenue := decimal.Zero
		for _, inv := range prev {
			prevRevenue = prevRevenue.Add(safeDecimal(inv["grand_total"]))
		}
		if prevRevenue.IsPositive() {
			growth, _ := totalRevenue.Sub(prevRevenue).Div(prevRevenue).Mul(hundred).Float64()
			revenueGrowth = growth
		}
		if len(prev) > 0 {
			invoiceGrowth = float64(len(filtered)-len(prev)) / float64(len(prev)) * 100
		}
	}

	// Monthly trend and top clients.
	monthly := map[string]decimal.Decimal{}
	clientRevenue := map[string]decimal.Decimal{}
	clientNames := map[string]string{}
	for _, inv := range filtered {
		if d, ok := parseDate(inv["invoice_date"]); ok {
			key := d.Format("2006-01")
			monthly[key] = monthly[key].Add(safeDecimal(inv["grand_total"]))
		}
		clientID := inv["client_id"]
		if clientID == "" {
			continue
		}
		clientRevenue[clientID] = clientRevenue[clientID].Add(safeDecimal(inv["grand_total"]))
		if _, seen := clientNames[clientID]; !seen {
			name := inv["client_name"]
			if name == "" {
				name = clientID
			}
			clientNames[clientID] = name
		}
	}

	topClients := []ClientRevenue{}
	for clientID, revenue := range clientRevenue {
		v, _ := revenue.Float64()
		topClients = append(topClients, ClientRevenue{Name: clientNames[clientID], Revenue: v})
	}
	sort.Slice(topClients, func(i, j int) bool { return topClients[i].Revenue > topClients[j].Revenue })
	if len(topClients) > 5 {
		topClients = topClients[:5]
	}

	revenue, _ := totalRevenue.Float64()
	return ExecutiveMetrics{
		TotalRevenue:   revenue,
		TotalInvoices:  len(filtered),
		ActiveClients:  len(activeClients),
		RevenueGrowth:  revenueGrowth,
		InvoiceGrowth:  invoiceGrowth,
		ClientGrowth:   0, // needs client date tracking
		MonthlyRevenue: monthlyTrend(monthly),
		TopClients:     topClients,
	}, nil
}

// Sales computes the sales dashboard for the optional date range.
func (s *DashboardService) Sales(ctx context.Context, startDate, endDate string) (SalesMetrics, error) {
	invoices, err := s.store.Rows(ctx, SheetInvoices)
	if err != nil {
		return SalesMetrics{}, err
	}

	filtered := filterByDateRange(invoices, "invoice_date", startDate, endDate)

	totalSales := decimal.Zero
	daily := map[string]decimal.Decimal{}
	type personTotal struct {
		sales decimal.Decimal
		count int
	}
	perPerson := map[string]personTotal{}

	for _, inv := range filtered {
		grand := safeDecimal(inv["grand_total"])
		totalSales = totalSales.Add(grand)

		if d, ok := parseDate(inv["invoice_date"]); ok {
			key := d.Format("2006-01-02")
			daily[key] = daily[key].Add(grand)
		}

		person := inv["sales_person"]
		if person == "" {
			person = "Unknown"
		}
		pt := perPerson[person]
		pt.sales = pt.sales.Add(grand)
		pt.count++
		perPerson[person] = pt
	}

	avgValue := 0.0
	if len(filtered) > 0 {
		avg, _ := totalSales.Div(decimal.NewFromInt(int64(len(filtered)))).Float64()
		avgValue = avg
	}

	trend := []DayRevenue{}
	for day, sales := range daily {
		v, _ := sales.Float64()
		trend = append(trend, DayRevenue{Date: day, Sales: v})
	}
	sort.Slice(trend, func(i, j int) bool { return trend[i].Date < trend[j].Date })

	leaderboard := []SalespersonTotal{}
	for person, pt := range perPerson {
		v, _ := pt.sales.Float64()
		leaderboard = append(leaderboard, SalespersonTotal{Name: person, Sales: v, Invoices: pt.count})
	}
	sort.Slice(leaderboard, func(i, j int) bool { return leaderboard[i].Sales > leaderboard[j].Sales })
	if len(leaderboard) > 10 {
		leaderboard = leaderboard[:10]
	}

	sales, _ := totalSales.Float64()
	return SalesMetrics{
		TotalSales:      sales,
		InvoicesCount:   len(filtered),
		AvgInvoiceValue: avgValue,
		SalesTrend:      trend,
		TopSalespeople:  leaderboard,
		ConversionRate:  65.5, // placeholder until leads data exists
	}, nil
}

// Financial computes the financial dashboard for the optional date range.
func (s *DashboardService) Financial(ctx context.Context, startDate, endDate string) (FinancialMetrics, error) {
	invoices, err := s.store.Rows(ctx, SheetInvoices)
	if err != nil {
		return FinancialMetrics{}, err
	}

	filtered := filterByDateRange(invoices, "invoice_date", startDate, endDate)

	totalRevenue := decimal.Zero
	totalTax := decimal.Zero
	totalDiscount := decimal.Zero
	byStatus := map[string]decimal.Decimal{
		InvoiceStatusPaid:    decimal.Zero,
		InvoiceStatusPending: decimal.Zero,
		InvoiceStatusOverdue: decimal.Zero,
		InvoiceStatusDraft:   decimal.Zero,
	}
	monthly := map[string]decimal.Decimal{}

	for _, inv := range filtered {
		grand := safeDecimal(inv["grand_total"])
		totalRevenue = totalRevenue.Add(grand)
		totalTax = totalTax.Add(safeDecimal(inv["total_tax"]))
		totalDiscount = totalDiscount.Add(safeDecimal(inv["total_discount"]))

		status := inv["status"]
		if status == "" {
			status = InvoiceStatusDraft
		}
		if _, known := byStatus[status]; known {
			byStatus[status] = byStatus[status].Add(grand)
		}

		if d, ok := parseDate(inv["invoice_date"]); ok {
			key := d.Format("2006-01")
			monthly[key] = monthly[key].Add(grand)
		}
	}

	paymentStatus := make(map[string]float64, len(byStatus))
	for status, amount := range byStatus {
		v, _ := amount.Float64()
		paymentStatus[status] = v
	}

	revenue, _ := totalRevenue.Float64()
	tax, _ := totalTax.Float64()
	discount, _ := totalDiscount.Float64()
	net, _ := totalRevenue.Sub(totalTax).Sub(totalDiscount).Float64()

	return FinancialMetrics{
		TotalRevenue:   revenue,
		TotalTax:       tax,
		TotalDiscount:  discount,
		NetRevenue:     net,
		RevenueByMonth: monthlyTrend(monthly),
		PaymentStatus:  paymentStatus,
	}, nil
}

// =============================================================================
// HELPERS
// =============================================================================

// parseDate accepts YYYY-MM-DD or a full RFC 3339 timestamp.
func parseDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	if d, err := time.Parse("2006-01-02", s); err == nil {
		return d, true
	}
	if d, err := time.Parse(time.RFC3339, s); err == nil {
		return d, true
	}
	return time.Time{}, false
}

// filterByDateRange keeps rows whose date field falls within [start, end].
// With no bounds, all rows pass; with bounds, rows with missing or
// unparseable dates are excluded.
func filterByDateRange(rows []sheet.Row, dateField, startDate, endDate string) []sheet.Row {
	if startDate == "" && endDate == "" {
		return rows
	}

	start, hasStart := parseDate(startDate)
	end, hasEnd := parseDate(endDate)

	filtered := make([]sheet.Row, 0, len(rows))
	for _, row := range rows {
		d, ok := parseDate(row[dateField])
		if !ok {
			continue
		}
		if hasStart && d.Before(start) {
			continue
		}
		if hasEnd && d.After(end) {
			continue
		}
		filtered = append(filtered, row)
	}
	return filtered
}

// monthlyTrend converts a month -> sum map into a sorted trend with
// "Jan 2026" display labels.
func monthlyTrend(monthly map[string]decimal.Decimal) []MonthRevenue {
	keys := make([]string, 0, len(monthly))
	for k := range monthly {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	trend := make([]MonthRevenue, 0, len(keys))
	for _, key := range keys {
		v, _ := monthly[key].Float64()
		label := key
		if d, err := time.Parse("2006-01", key); err == nil {
			label = d.Format("Jan 2006")
		}
		trend = append(trend, MonthRevenue{Month: label, Revenue: v})
	}
	return trend
}

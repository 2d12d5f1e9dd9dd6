/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the SheetCRM API server. Handles configuration,
  dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Parse command-line flags and environment (config package)
  2. Open the workbook backend (Google Sheets or local .xlsx)
  3. Construct the row store and domain services
  4. Configure the HTTP router
  5. Start server with graceful shutdown

COMMAND-LINE FLAGS:
  -port    HTTP server port (overrides PORT; default from env)
  -xlsx    Path to a local .xlsx workbook. When set, the server runs
           against the file instead of Google Sheets and bootstraps any
           missing sheets with their header rows.

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Close the workbook handle
  4. Exit

EXAMPLES:
  # Run against Google Sheets (needs SPREADSHEET_ID + credentials)
  ./server

  # Run against a local workbook, no credentials needed
  ./server -xlsx=./crm.xlsx -port=3000

SEE ALSO:
  - config/config.go: Environment variables
  - api/server.go: Router configuration
  - sheet/google.go, sheet/xlsx.go: Workbook backends
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nimbusworks/sheetcrm/api"
	"github.com/nimbusworks/sheetcrm/config"
	"github.com/nimbusworks/sheetcrm/crm"
	"github.com/nimbusworks/sheetcrm/sheet"
)

func main() {
	cfg := config.FromEnv()

	port := flag.Int("port", cfg.Port, "HTTP server port")
	xlsxPath := flag.String("xlsx", "", "local .xlsx workbook path (empty: Google Sheets)")
	flag.Parse()

	grid, closer, err := openGrid(cfg, *xlsxPath)
	if err != nil {
		log.Fatalf("Failed to open workbook backend: %v", err)
	}
	if closer != nil {
		defer closer.Close()
	}

	store := sheet.NewStore(grid)

	clients := crm.NewClientService(store)
	invoices := crm.NewInvoiceService(store)
	tasks := crm.NewTaskService(store)
	tickets := crm.NewTicketService(store)
	activities := crm.NewActivityService(store)
	search := crm.NewSearchService(clients, invoices)
	dashboards := crm.NewDashboardService(store)

	handler := api.NewHandler(clients, invoices, tasks, tickets, activities, search, dashboards)
	router := api.NewRouter(handler, cfg.APIKey, cfg.FrontendURL)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", *port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on http://localhost:%d", *port)
		log.Printf("API available at http://localhost:%d/api/v1", *port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server stopped")
}

// openGrid selects the workbook backend. A non-empty xlsxPath picks the
// local file and bootstraps missing sheets; otherwise the Google Sheets
// backend is built from the environment.
func openGrid(cfg config.Config, xlsxPath string) (sheet.Grid, io.Closer, error) {
	if xlsxPath != "" {
		grid, err := sheet.OpenXLSX(xlsxPath)
		if err != nil {
			return nil, nil, err
		}
		for name, headers := range crm.SheetHeaders {
			if err := grid.EnsureSheet(name, headers); err != nil {
				return nil, nil, fmt.Errorf("bootstrap %s: %w", name, err)
			}
		}
		log.Printf("Using local workbook %s", xlsxPath)
		return grid, grid, nil
	}

	if err := cfg.ValidateSheets(); err != nil {
		return nil, nil, err
	}
	grid, err := sheet.NewGoogleGrid(context.Background(), cfg.CredentialsPath, cfg.SpreadsheetID)
	if err != nil {
		return nil, nil, err
	}
	log.Printf("Using Google Sheets spreadsheet %s", cfg.SpreadsheetID)
	return grid, nil, nil
}

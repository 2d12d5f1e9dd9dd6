/*
server.go - HTTP router, middleware, and API key auth

PURPOSE:
  Configures the chi router, middleware stack, and route definitions. This
  is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for the frontend
  5. RequireAPIKey: X-API-Key check on everything under /api/v1

AUTH:
  A single static key, compared in constant time. A missing or wrong key
  gets a 401 JSON body. / and /health stay open for probes and smoke tests.

SEE ALSO:
  - handlers.go: Entity CRUD handlers
  - insights.go: Activity, search, and dashboard handlers
  - cmd/server/main.go: Server startup
*/
package api

import (
	"crypto/subtle"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates a router with all routes configured. frontendURL is
// added to the CORS allowlist alongside the local dev origins.
func NewRouter(h *Handler, apiKey, frontendURL string) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)

	origins := []string{"http://localhost:3000", "http://localhost:5173"}
	if frontendURL != "" {
		origins = append(origins, frontendURL)
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-API-Key"},
		AllowCredentials: true,
	}))

	// Unauthenticated service info
	r.Get("/", h.Root)
	r.Get("/health", h.Health)

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(RequireAPIKey(apiKey))

		r.Route("/clients", func(r chi.Router) {
			r.Post("/", h.CreateClient)
			r.Get("/", h.ListClients)
			r.Get("/{id}", h.GetClient)
		})

		r.Route("/invoices", func(r chi.Router) {
			r.Post("/", h.CreateInvoice)
			r.Get("/", h.ListInvoices)
			r.Get("/{id}", h.GetInvoice)
			r.Patch("/{id}/status", h.UpdateInvoiceStatus)
		})

		r.Route("/tasks", func(r chi.Router) {
			r.Get("/", h.ListTasks)
			r.Post("/", h.CreateTask)
			r.Get("/{id}", h.GetTask)
			r.Patch("/{id}", h.UpdateTask)
			r.Patch("/{id}/status", h.UpdateTaskStatus)
			r.Delete("/{id}", h.DeleteTask)
		})

		r.Route("/tickets", func(r chi.Router) {
			r.Post("/", h.CreateTicket)
			r.Get("/", h.ListTickets)
			r.Get("/{id}", h.GetTicket)
			r.Put("/{id}", h.UpdateTicket)
			r.Patch("/{id}/status", h.UpdateTicketStatus)
		})

		r.Route("/activities", func(r chi.Router) {
			r.Get("/", h.ListActivities)
			r.Get("/unread-count", h.UnreadActivityCount)
			r.Post("/mark-read", h.MarkActivitiesRead)
		})

		r.Get("/search", h.GlobalSearch)

		r.Route("/dashboard", func(r chi.Router) {
			r.Get("/executive", h.ExecutiveDashboard)
			r.Get("/sales", h.SalesDashboard)
			r.Get("/financial", h.FinancialDashboard)
		})
	})

	return r
}

// RequireAPIKey rejects requests whose X-API-Key header does not match.
func RequireAPIKey(apiKey string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got := r.Header.Get("X-API-Key")
			if got == "" || subtle.ConstantTimeCompare([]byte(got), []byte(apiKey)) != 1 {
				writeError(w, http.StatusUnauthorized, "Invalid or missing API key", nil)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

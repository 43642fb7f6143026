/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. RequestID:  Unique ID per request for tracing
  2. RealIP:     Client address from proxy headers
  3. Logging:    One logrus line per request (logging.RequestLogger)
  4. Recoverer:  Panic recovery (500 instead of crash)
  5. CORS:       Cross-origin requests for the frontend

ROUTE GROUPS:
  /api/staff/*          Staff roster and profiles
  /api/transactions/*   Receipts and the filtered report
  /api/reports/*        Summary, trend, CSV
  /api/state/*          Export / import / stored backups
  /api/scenarios/*      Demo data
  /*                    Landing page listing the main endpoints

SEE ALSO:
  - handlers.go: Handler implementations
  - logging/logging.go: Request logger
  - cmd/server/main.go: Server startup
*/
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/sirupsen/logrus"

	"github.com/btels/scheme-ledger/logging"
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler, allowedOrigins []string, logger logrus.FieldLogger) *chi.Mux {
	if logger == nil {
		logger = h.Logger
	}
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logging.RequestLogger(logger))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// API routes
	r.Route("/api", func(r chi.Router) {
		r.Get("/health", h.Health)

		// Staff routes
		r.Route("/staff", func(r chi.Router) {
			r.Get("/", h.ListStaff)
			r.Post("/", h.CreateStaff)
			r.Get("/{id}", h.GetStaff)
			r.Get("/{id}/profile", h.GetProfile)
			r.Get("/{id}/loans/active", h.GetActiveLoans)
		})

		// Transaction routes
		r.Route("/transactions", func(r chi.Router) {
			r.Get("/", h.ListTransactions)
			r.Post("/", h.CreateTransaction)
			r.Get("/{id}", h.GetTransaction)
			r.Get("/{id}/receipt", h.GetReceipt)
		})

		// Report routes
		r.Route("/reports", func(r chi.Router) {
			r.Get("/summary", h.GetSummary)
			r.Get("/trend", h.GetTrend)
			r.Get("/transactions.csv", h.ExportCSV)
		})
		r.Get("/words", h.GetWords)

		// State routes
		r.Route("/state", func(r chi.Router) {
			r.Get("/export", h.ExportState)
			r.Post("/import", h.ImportState)
			r.Get("/backups", h.ListBackups)
			r.Post("/backups", h.CreateBackup)
			r.Get("/backups/{name}", h.GetBackup)
		})

		// Scenario routes
		r.Route("/scenarios", func(r chi.Router) {
			r.Get("/", h.ListScenarios)
			r.Get("/current", h.GetCurrentScenario)
			r.Post("/load", h.LoadScenario)
			r.Post("/reset", h.ResetDatabase)
		})

		r.NotFound(func(w http.ResponseWriter, r *http.Request) {
			writeErrorCode(w, http.StatusNotFound, "Route not found", "not_found", nil)
		})
	})

	// Landing page for browsers hitting the root
	r.Get("/*", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(landingPage))
	})

	return r
}

const landingPage = `<!DOCTYPE html>
<html>
<head><title>Scheme Ledger</title></head>
<body style="font-family: system-ui; max-width: 800px; margin: 50px auto; padding: 20px;">
<h1>Scheme Ledger API</h1>
<p>JSON API for the staff roster, receipts, loans and reports.</p>
<h2>API Endpoints</h2>
<ul>
<li><a href="/api/staff">/api/staff</a> - Staff roster</li>
<li><a href="/api/transactions">/api/transactions</a> - Transaction report</li>
<li><a href="/api/reports/summary">/api/reports/summary</a> - Financial summary</li>
<li><a href="/api/reports/trend">/api/reports/trend</a> - Loans vs savings</li>
<li><a href="/api/scenarios">/api/scenarios</a> - Demo scenarios</li>
</ul>
</body>
</html>`

// Package httpapi wires the HTTP surface of the bookkeeping service. It
// keeps handlers thin, delegating business rules to the service layer and
// the ledger engine.
package httpapi

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	chi "github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/go-playground/validator/v10"

	"github.com/davramirez/contabook/internal/ledger"
	"github.com/davramirez/contabook/internal/report"
	"github.com/davramirez/contabook/internal/service/billing"
	"github.com/davramirez/contabook/internal/service/catalog"
	"github.com/davramirez/contabook/internal/service/entry"
	"github.com/davramirez/contabook/internal/service/transaction"
)

// Store bundles every persistence dependency the API needs. The memory and
// postgres stores both satisfy it.
type Store interface {
	ledger.Source
	report.Source
	entry.Repo
	entry.Writer
	transaction.Repo
	transaction.Writer
	catalog.Repo
	catalog.Writer
	billing.Repo
	billing.Writer
	Ready(ctx context.Context) error
}

// Server wires handlers and middleware using Chi.
type Server struct {
	engine     *ledger.Engine
	reports    *report.Service
	entrySvc   entry.Service
	txSvc      transaction.Service
	catalogSvc catalog.Service
	billingSvc billing.Service
	store      Store
	validate   *validator.Validate
	log        *slog.Logger
	rt         *chi.Mux
}

// New constructs the HTTP server with routes and middleware. reportRateLimit
// caps report generations per client IP per minute; zero disables the limit.
func New(store Store, logger *slog.Logger, reportRateLimit int) *Server {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(requestLogger(logger))
	r.Use(recoverer(logger))
	r.Use(metricsMiddleware)

	s := &Server{
		engine:     ledger.New(store, logger),
		reports:    report.New(store, logger),
		entrySvc:   entry.New(store, store),
		txSvc:      transaction.New(store, store),
		catalogSvc: catalog.New(store, store),
		billingSvc: billing.New(store, store),
		store:      store,
		validate:   validator.New(),
		log:        logger,
		rt:         r,
	}
	s.routes(reportRateLimit)
	return s
}

// Handler exposes the configured http.Handler.
func (s *Server) Handler() http.Handler { return s.rt }

// routes declares the public HTTP API endpoints and attaches per-route
// middleware.
func (s *Server) routes(reportRateLimit int) {
	// Ledger and reports; report generation is the expensive path, so it
	// carries a per-IP rate limit.
	s.rt.Group(func(r chi.Router) {
		if reportRateLimit > 0 {
			r.Use(httprate.Limit(reportRateLimit, time.Minute, httprate.WithKeyFuncs(httprate.KeyByIP)))
		}
		r.With(s.validateLedgerQuery()).Get("/v1/ledger", s.getLedger)
		r.With(s.validateLedgerQuery()).Get("/v1/ledger/summary", s.getLedgerSummary)
		r.Get("/v1/reports/journal", s.getJournal)
		r.Get("/v1/reports/balance", s.getBalance)
	})

	// Chart of accounts and periods
	s.rt.With(s.bodyMiddleware(ctxKeyPostAccount, func() any { return &postAccountRequest{} })).
		Post("/v1/accounts", s.postAccount)
	s.rt.Get("/v1/accounts", s.listAccounts)
	s.rt.Get("/v1/accounts/{id}", s.getAccount)
	s.rt.With(s.bodyMiddleware(ctxKeyPostPeriod, func() any { return &postPeriodRequest{} })).
		Post("/v1/periods", s.postPeriod)
	s.rt.Get("/v1/periods", s.listPeriods)
	s.rt.Get("/v1/periods/{id}", s.getPeriod)
	s.rt.Post("/v1/periods/{id}/close", s.closePeriod)

	// Transactions and entries
	s.rt.With(s.bodyMiddleware(ctxKeyPostTransaction, func() any { return &postTransactionRequest{} })).
		Post("/v1/transactions", s.postTransaction)
	s.rt.Get("/v1/transactions", s.listTransactions)
	s.rt.Get("/v1/transactions/{id}", s.getTransaction)
	s.rt.Delete("/v1/transactions/{id}", s.deleteTransaction)
	s.rt.With(s.bodyMiddleware(ctxKeyPostEntry, func() any { return &postEntryRequest{} })).
		Post("/v1/entries", s.postEntry)
	s.rt.Get("/v1/entries", s.listEntries)
	s.rt.Get("/v1/entries/{id}", s.getEntry)
	s.rt.With(s.bodyMiddleware(ctxKeyPatchEntry, func() any { return &patchEntryRequest{} })).
		Patch("/v1/entries/{id}", s.patchEntry)
	s.rt.Delete("/v1/entries/{id}", s.deleteEntry)

	// Billing
	s.rt.With(s.bodyMiddleware(ctxKeyPostClient, func() any { return &postClientRequest{} })).
		Post("/v1/clients", s.postClient)
	s.rt.Get("/v1/clients", s.listClients)
	s.rt.Get("/v1/clients/{id}", s.getClient)
	s.rt.With(s.bodyMiddleware(ctxKeyPostProduct, func() any { return &postProductRequest{} })).
		Post("/v1/products", s.postProduct)
	s.rt.Get("/v1/products", s.listProducts)
	s.rt.Get("/v1/products/{id}", s.getProduct)
	s.rt.With(s.bodyMiddleware(ctxKeyPostInvoice, func() any { return &postInvoiceRequest{} })).
		Post("/v1/invoices", s.postInvoice)
	s.rt.Get("/v1/invoices", s.listInvoices)
	s.rt.Get("/v1/invoices/{id}", s.getInvoice)

	// Operational endpoints (unversioned)
	s.rt.Get("/healthz", s.healthz)
	s.rt.Get("/readyz", s.readyz)
	s.rt.Method(http.MethodGet, "/metrics", metricsHandler())
}

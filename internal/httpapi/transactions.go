package httpapi

import (
	"net/http"

	chi "github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/davramirez/contabook/internal/book"
	"github.com/davramirez/contabook/internal/service/entry"
	"github.com/davramirez/contabook/internal/service/transaction"
)

// parseAmountField parses an optional decimal string. Empty means zero.
func parseAmountField(raw string) (decimal.Decimal, bool) {
	if raw == "" {
		return decimal.Zero, true
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Decimal{}, false
	}
	return d, true
}

func (s *Server) postTransaction(w http.ResponseWriter, r *http.Request) {
	req := r.Context().Value(ctxKeyPostTransaction).(*postTransactionRequest)
	lines := make([]transaction.Line, 0, len(req.Lines))
	for _, ln := range req.Lines {
		debit, ok := parseAmountField(ln.Debit)
		if !ok {
			badRequest(w, "debit must be a decimal string")
			return
		}
		credit, ok := parseAmountField(ln.Credit)
		if !ok {
			badRequest(w, "credit must be a decimal string")
			return
		}
		lines = append(lines, transaction.Line{AccountID: ln.AccountID, Debit: debit, Credit: credit})
	}
	tx, entries, err := s.txSvc.Create(r.Context(), book.Transaction{
		Date:        req.Date,
		Description: req.Description,
		Type:        book.TransactionType(req.Type),
		Currency:    req.Currency,
		PeriodID:    req.PeriodID,
	}, lines)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	toJSON(w, http.StatusCreated, toTransactionResponse(tx, entries))
}

func (s *Server) listTransactions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var f transaction.Filter
	var ok bool
	if f.DateFrom, ok = parseDateParam(w, q.Get("date_from"), "date_from"); !ok {
		return
	}
	if f.DateTo, ok = parseDateParam(w, q.Get("date_to"), "date_to"); !ok {
		return
	}
	if raw := q.Get("period_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			badRequest(w, "invalid period_id")
			return
		}
		f.PeriodID = &id
	}
	if raw := q.Get("type"); raw != "" {
		t := book.TransactionType(raw)
		if !t.Valid() {
			badRequest(w, "type must be income or expense")
			return
		}
		f.Type = &t
	}
	txs, err := s.txSvc.List(r.Context(), f)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	out := make([]transactionResponse, 0, len(txs))
	for _, tx := range txs {
		out = append(out, toTransactionResponse(tx, nil))
	}
	toJSON(w, http.StatusOK, out)
}

func (s *Server) getTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		badRequest(w, "invalid transaction id")
		return
	}
	tx, err := s.txSvc.Get(r.Context(), id)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	entries, err := s.entrySvc.ListByTransaction(r.Context(), id)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	toJSON(w, http.StatusOK, toTransactionResponse(tx, entries))
}

func (s *Server) deleteTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		badRequest(w, "invalid transaction id")
		return
	}
	if err := s.txSvc.Delete(r.Context(), id); err != nil {
		writeDomainErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) postEntry(w http.ResponseWriter, r *http.Request) {
	req := r.Context().Value(ctxKeyPostEntry).(*postEntryRequest)
	debit, ok := parseAmountField(req.Debit)
	if !ok {
		badRequest(w, "debit must be a decimal string")
		return
	}
	credit, ok := parseAmountField(req.Credit)
	if !ok {
		badRequest(w, "credit must be a decimal string")
		return
	}
	e, err := s.entrySvc.Create(r.Context(), book.JournalEntry{
		TransactionID: req.TransactionID,
		AccountID:     req.AccountID,
		Debit:         debit,
		Credit:        credit,
	})
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	toJSON(w, http.StatusCreated, toEntryResponse(e))
}

func (s *Server) listEntries(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("transaction_id")
	if raw == "" {
		badRequest(w, "transaction_id is required")
		return
	}
	txID, err := uuid.Parse(raw)
	if err != nil {
		badRequest(w, "invalid transaction_id")
		return
	}
	entries, err := s.entrySvc.ListByTransaction(r.Context(), txID)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	out := make([]entryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, toEntryResponse(e))
	}
	toJSON(w, http.StatusOK, out)
}

func (s *Server) getEntry(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		badRequest(w, "invalid entry id")
		return
	}
	e, err := s.entrySvc.Get(r.Context(), id)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	toJSON(w, http.StatusOK, toEntryResponse(e))
}

func (s *Server) patchEntry(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		badRequest(w, "invalid entry id")
		return
	}
	req := r.Context().Value(ctxKeyPatchEntry).(*patchEntryRequest)
	patch := entry.Patch{TransactionID: req.TransactionID, AccountID: req.AccountID}
	if req.Debit != nil {
		d, ok := parseAmountField(*req.Debit)
		if !ok {
			badRequest(w, "debit must be a decimal string")
			return
		}
		patch.Debit = &d
	}
	if req.Credit != nil {
		c, ok := parseAmountField(*req.Credit)
		if !ok {
			badRequest(w, "credit must be a decimal string")
			return
		}
		patch.Credit = &c
	}
	e, err := s.entrySvc.Update(r.Context(), id, patch)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	toJSON(w, http.StatusOK, toEntryResponse(e))
}

func (s *Server) deleteEntry(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		badRequest(w, "invalid entry id")
		return
	}
	if err := s.entrySvc.Delete(r.Context(), id); err != nil {
		writeDomainErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

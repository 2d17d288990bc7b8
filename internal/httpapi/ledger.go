package httpapi

import (
	"net/http"

	"github.com/davramirez/contabook/internal/ledger"
)

// getLedger serves the grouped ledger report. Parameters arrive validated in
// the context; the engine enforces the semantic rules.
func (s *Server) getLedger(w http.ResponseWriter, r *http.Request) {
	p := r.Context().Value(ctxKeyLedgerParams).(ledger.Params)
	rep, err := s.engine.Generate(r.Context(), p)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	ledgerReportsTotal.Inc()
	toJSON(w, http.StatusOK, toLedgerResponse(rep))
}

// getLedgerSummary serves the same report with subaccount detail forced off.
func (s *Server) getLedgerSummary(w http.ResponseWriter, r *http.Request) {
	p := r.Context().Value(ctxKeyLedgerParams).(ledger.Params)
	rep, err := s.engine.Summary(r.Context(), p)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	ledgerReportsTotal.Inc()
	toJSON(w, http.StatusOK, toLedgerResponse(rep))
}

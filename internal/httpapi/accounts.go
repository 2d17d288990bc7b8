package httpapi

import (
	"net/http"

	chi "github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/davramirez/contabook/internal/book"
)

func (s *Server) postAccount(w http.ResponseWriter, r *http.Request) {
	req := r.Context().Value(ctxKeyPostAccount).(*postAccountRequest)
	a, err := s.catalogSvc.CreateAccount(r.Context(), book.Account{
		Code:           req.Code,
		Name:           req.Name,
		Classification: book.Classification(req.Classification),
	})
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	toJSON(w, http.StatusCreated, toAccountResponse(a))
}

func (s *Server) listAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := s.catalogSvc.ListAccounts(r.Context())
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	out := make([]accountResponse, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, toAccountResponse(a))
	}
	toJSON(w, http.StatusOK, out)
}

func (s *Server) getAccount(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		badRequest(w, "invalid account id")
		return
	}
	a, err := s.catalogSvc.GetAccount(r.Context(), id)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	toJSON(w, http.StatusOK, toAccountResponse(a))
}

func (s *Server) postPeriod(w http.ResponseWriter, r *http.Request) {
	req := r.Context().Value(ctxKeyPostPeriod).(*postPeriodRequest)
	p, err := s.catalogSvc.CreatePeriod(r.Context(), book.Period{
		Start: req.Start,
		End:   req.End,
		Kind:  book.PeriodKind(req.Kind),
	})
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	toJSON(w, http.StatusCreated, toPeriodResponse(p))
}

func (s *Server) listPeriods(w http.ResponseWriter, r *http.Request) {
	periods, err := s.catalogSvc.ListPeriods(r.Context())
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	out := make([]periodResponse, 0, len(periods))
	for _, p := range periods {
		out = append(out, toPeriodResponse(p))
	}
	toJSON(w, http.StatusOK, out)
}

func (s *Server) getPeriod(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		badRequest(w, "invalid period id")
		return
	}
	p, err := s.catalogSvc.GetPeriod(r.Context(), id)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	toJSON(w, http.StatusOK, toPeriodResponse(p))
}

func (s *Server) closePeriod(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		badRequest(w, "invalid period id")
		return
	}
	p, err := s.catalogSvc.ClosePeriod(r.Context(), id)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	toJSON(w, http.StatusOK, toPeriodResponse(p))
}

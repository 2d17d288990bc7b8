package httpapi

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/davramirez/contabook/internal/report"
)

// getJournal serves the general journal in the requested format. format is
// one of json (default), csv, xlsx or html; exports are sent as attachments.
func (s *Server) getJournal(w http.ResponseWriter, r *http.Request) {
	var periodID *uuid.UUID
	if raw := r.URL.Query().Get("period_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			badRequest(w, "invalid period_id")
			return
		}
		periodID = &id
	}

	format := r.URL.Query().Get("format")
	if format == "" {
		format = "json"
	}

	rows, err := s.reports.Journal(r.Context(), periodID)
	if err != nil {
		writeDomainErr(w, err)
		return
	}

	switch format {
	case "json":
		toJSON(w, http.StatusOK, toJournalResponse(rows))
	case "csv":
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", `attachment; filename="journal.csv"`)
		if err := report.WriteCSV(w, rows); err != nil {
			s.log.Error("journal csv export failed", "err", err)
		}
	case "xlsx":
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", `attachment; filename="journal.xlsx"`)
		if err := report.WriteExcel(w, rows); err != nil {
			s.log.Error("journal excel export failed", "err", err)
		}
	case "html":
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := report.WriteHTML(w, rows); err != nil {
			s.log.Error("journal html export failed", "err", err)
		}
	default:
		badRequest(w, "format must be one of json, csv, xlsx, html")
	}
}

// getBalance serves the per-period balance grouped by classification.
func (s *Server) getBalance(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("period_id")
	if raw == "" {
		badRequest(w, "period_id is required")
		return
	}
	periodID, err := uuid.Parse(raw)
	if err != nil {
		badRequest(w, "invalid period_id")
		return
	}
	b, err := s.reports.Balance(r.Context(), periodID)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	toJSON(w, http.StatusOK, toBalanceResponse(b))
}

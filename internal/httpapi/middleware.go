package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/davramirez/contabook/internal/ledger"
)

type ctxKey string

const (
	ctxKeyLedgerParams    ctxKey = "validatedLedgerParams"
	ctxKeyPostAccount     ctxKey = "validatedPostAccount"
	ctxKeyPostPeriod      ctxKey = "validatedPostPeriod"
	ctxKeyPostTransaction ctxKey = "validatedPostTransaction"
	ctxKeyPostEntry       ctxKey = "validatedPostEntry"
	ctxKeyPatchEntry      ctxKey = "validatedPatchEntry"
	ctxKeyPostClient      ctxKey = "validatedPostClient"
	ctxKeyPostProduct     ctxKey = "validatedPostProduct"
	ctxKeyPostInvoice     ctxKey = "validatedPostInvoice"
)

// decodeAndValidate decodes a JSON body into dst, rejects unknown fields and
// runs the struct validation tags. It writes the 400 itself and reports
// whether the handler chain should continue.
func (s *Server) decodeAndValidate(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		badRequest(w, "invalid JSON: "+err.Error())
		return false
	}
	if err := s.validate.Struct(dst); err != nil {
		badRequest(w, err.Error())
		return false
	}
	return true
}

// bodyMiddleware decodes and validates a request body via newReq and stashes
// it in the context under key.
func (s *Server) bodyMiddleware(key ctxKey, newReq func() any) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			req := newReq()
			if !s.decodeAndValidate(w, r, req) {
				return
			}
			ctx := context.WithValue(r.Context(), key, req)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// validateLedgerQuery parses the ledger report query parameters and stores
// ledger.Params in the context. digits defaults to 4; date_fin is accepted
// as a legacy alias of date_to. Semantic checks (width bounds, ordering,
// future dates) stay in the engine so every caller gets the same rules.
func (s *Server) validateLedgerQuery() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			q := r.URL.Query()
			p := ledger.Params{GroupingWidth: 4}
			if raw := q.Get("digits"); raw != "" {
				n, err := strconv.Atoi(raw)
				if err != nil {
					badRequest(w, "digits must be an integer")
					return
				}
				p.GroupingWidth = n
			}
			var ok bool
			if p.DateFrom, ok = parseDateParam(w, q.Get("date_from"), "date_from"); !ok {
				return
			}
			rawTo := q.Get("date_to")
			if rawTo == "" {
				rawTo = q.Get("date_fin")
			}
			if p.DateTo, ok = parseDateParam(w, rawTo, "date_to"); !ok {
				return
			}
			if raw := q.Get("include_detail"); raw != "" {
				v, err := strconv.ParseBool(raw)
				if err != nil {
					badRequest(w, "include_detail must be a boolean")
					return
				}
				p.IncludeDetail = v
			}
			ctx := context.WithValue(r.Context(), ctxKeyLedgerParams, p)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// parseDateParam parses a date-only query value. Empty means absent. The
// bool result reports whether processing should continue.
func parseDateParam(w http.ResponseWriter, raw, name string) (*time.Time, bool) {
	if raw == "" {
		return nil, true
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		badRequest(w, name+" must be a date in YYYY-MM-DD format")
		return nil, false
	}
	tt := t.UTC()
	return &tt, true
}

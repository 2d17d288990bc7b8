package httpapi

import (
	"net/http"
	"time"

	chi "github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/govalues/money"
	"github.com/shopspring/decimal"

	"github.com/davramirez/contabook/internal/book"
	"github.com/davramirez/contabook/internal/service/billing"
)

func (s *Server) postClient(w http.ResponseWriter, r *http.Request) {
	req := r.Context().Value(ctxKeyPostClient).(*postClientRequest)
	c, err := s.billingSvc.CreateClient(r.Context(), book.Client{
		Name:    req.Name,
		TaxID:   req.TaxID,
		Address: req.Address,
		Phone:   req.Phone,
		Email:   req.Email,
		Kind:    book.ClientKind(req.Kind),
		Notes:   req.Notes,
	})
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	toJSON(w, http.StatusCreated, toClientResponse(c))
}

func (s *Server) listClients(w http.ResponseWriter, r *http.Request) {
	clients, err := s.billingSvc.ListClients(r.Context())
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	out := make([]clientResponse, 0, len(clients))
	for _, c := range clients {
		out = append(out, toClientResponse(c))
	}
	toJSON(w, http.StatusOK, out)
}

func (s *Server) getClient(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		badRequest(w, "invalid client id")
		return
	}
	c, err := s.billingSvc.GetClient(r.Context(), id)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	toJSON(w, http.StatusOK, toClientResponse(c))
}

func (s *Server) postProduct(w http.ResponseWriter, r *http.Request) {
	req := r.Context().Value(ctxKeyPostProduct).(*postProductRequest)
	price, ok := parsePrice(req.Currency, req.UnitPrice)
	if !ok {
		badRequest(w, "unit_price must be a non-negative decimal string")
		return
	}
	p, err := s.billingSvc.CreateProduct(r.Context(), book.Product{
		Code:        req.Code,
		Name:        req.Name,
		Description: req.Description,
		Kind:        book.ProductKind(req.Kind),
		Category:    req.Category,
		UnitPrice:   price,
		Unit:        req.Unit,
		ApplyVAT:    req.ApplyVAT,
	})
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	toJSON(w, http.StatusCreated, toProductResponse(p))
}

func (s *Server) listProducts(w http.ResponseWriter, r *http.Request) {
	products, err := s.billingSvc.ListProducts(r.Context())
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	out := make([]productResponse, 0, len(products))
	for _, p := range products {
		out = append(out, toProductResponse(p))
	}
	toJSON(w, http.StatusOK, out)
}

func (s *Server) getProduct(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		badRequest(w, "invalid product id")
		return
	}
	p, err := s.billingSvc.GetProduct(r.Context(), id)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	toJSON(w, http.StatusOK, toProductResponse(p))
}

func (s *Server) postInvoice(w http.ResponseWriter, r *http.Request) {
	req := r.Context().Value(ctxKeyPostInvoice).(*postInvoiceRequest)
	lines := make([]billing.LineInput, 0, len(req.Lines))
	for _, ln := range req.Lines {
		qty, err := decimal.NewFromString(ln.Quantity)
		if err != nil {
			badRequest(w, "quantity must be a decimal string")
			return
		}
		in := billing.LineInput{ProductID: ln.ProductID, Description: ln.Description, Quantity: qty}
		if ln.UnitPrice != nil {
			price, err := decimal.NewFromString(*ln.UnitPrice)
			if err != nil {
				badRequest(w, "unit_price must be a decimal string")
				return
			}
			in.UnitPrice = &price
		}
		if ln.DiscountPct != "" {
			disc, err := decimal.NewFromString(ln.DiscountPct)
			if err != nil {
				badRequest(w, "discount_pct must be a decimal string")
				return
			}
			in.DiscountPct = disc
		}
		lines = append(lines, in)
	}
	issued := time.Time{}
	if req.IssuedAt != nil {
		issued = *req.IssuedAt
	}
	inv, err := s.billingSvc.CreateInvoice(r.Context(), billing.InvoiceInput{
		Number:        req.Number,
		ClientID:      req.ClientID,
		TransactionID: req.TransactionID,
		IssuedAt:      issued,
		Lines:         lines,
	})
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	toJSON(w, http.StatusCreated, toInvoiceResponse(inv))
}

func (s *Server) listInvoices(w http.ResponseWriter, r *http.Request) {
	invoices, err := s.billingSvc.ListInvoices(r.Context())
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	out := make([]invoiceResponse, 0, len(invoices))
	for _, inv := range invoices {
		out = append(out, toInvoiceResponse(inv))
	}
	toJSON(w, http.StatusOK, out)
}

func (s *Server) getInvoice(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		badRequest(w, "invalid invoice id")
		return
	}
	inv, err := s.billingSvc.GetInvoice(r.Context(), id)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	toJSON(w, http.StatusOK, toInvoiceResponse(inv))
}

// parsePrice converts a decimal amount string plus currency code into a
// currency-tagged amount, rounding to the currency's minor-unit scale.
func parsePrice(currency, raw string) (money.Amount, bool) {
	d, err := decimal.NewFromString(raw)
	if err != nil || d.IsNegative() {
		return money.Amount{}, false
	}
	curr, err := money.ParseCurr(currency)
	if err != nil {
		return money.Amount{}, false
	}
	scale := int32(curr.Scale())
	minor := d.Round(scale).Shift(scale).IntPart()
	a, err := money.NewAmountFromMinorUnits(currency, minor)
	if err != nil {
		return money.Amount{}, false
	}
	return a, true
}

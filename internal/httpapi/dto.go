package httpapi

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/govalues/money"
	"github.com/shopspring/decimal"

	"github.com/davramirez/contabook/internal/book"
	"github.com/davramirez/contabook/internal/ledger"
	"github.com/davramirez/contabook/internal/report"
)

// Monetary fields travel as strings with two fractional digits so no client
// ever sees a float-rounded amount.

// --- ledger report ---

type ledgerSubaccountResponse struct {
	Code           string `json:"code"`
	Name           string `json:"name"`
	Classification string `json:"classification"`
	TotalDebit     string `json:"total_debit"`
	TotalCredit    string `json:"total_credit"`
	Balance        string `json:"balance"`
}

type ledgerGroupResponse struct {
	Code        string                     `json:"group_code"`
	Name        string                     `json:"group_name"`
	TotalDebit  string                     `json:"total_debit"`
	TotalCredit string                     `json:"total_credit"`
	Balance     string                     `json:"balance"`
	Subaccounts []ledgerSubaccountResponse `json:"subaccounts,omitempty"`
}

type ledgerSummaryResponse struct {
	TotalGroups int    `json:"total_groups"`
	TotalDebit  string `json:"total_debit"`
	TotalCredit string `json:"total_credit"`
	Difference  string `json:"difference"`
	GeneratedAt string `json:"generated_at"`
}

type ledgerFiltersResponse struct {
	Digits        int     `json:"digits"`
	DateFrom      *string `json:"date_from"`
	DateTo        *string `json:"date_to"`
	IncludeDetail bool    `json:"include_detail"`
}

type ledgerReportResponse struct {
	Groups  []ledgerGroupResponse `json:"groups"`
	Summary ledgerSummaryResponse `json:"summary"`
	Filters ledgerFiltersResponse `json:"filters"`
}

func toLedgerResponse(rep *ledger.Report) ledgerReportResponse {
	groups := make([]ledgerGroupResponse, 0, len(rep.Groups))
	for _, g := range rep.Groups {
		gr := ledgerGroupResponse{
			Code:        g.Code,
			Name:        g.Name,
			TotalDebit:  g.TotalDebit.StringFixed(2),
			TotalCredit: g.TotalCredit.StringFixed(2),
			Balance:     g.Balance.StringFixed(2),
		}
		for _, sub := range g.Subaccounts {
			gr.Subaccounts = append(gr.Subaccounts, ledgerSubaccountResponse{
				Code:           sub.Code,
				Name:           sub.Name,
				Classification: string(sub.Classification),
				TotalDebit:     sub.TotalDebit.StringFixed(2),
				TotalCredit:    sub.TotalCredit.StringFixed(2),
				Balance:        sub.Balance.StringFixed(2),
			})
		}
		groups = append(groups, gr)
	}
	return ledgerReportResponse{
		Groups: groups,
		Summary: ledgerSummaryResponse{
			TotalGroups: rep.Summary.TotalGroups,
			TotalDebit:  rep.Summary.TotalDebit.StringFixed(2),
			TotalCredit: rep.Summary.TotalCredit.StringFixed(2),
			Difference:  rep.Summary.Difference.StringFixed(2),
			GeneratedAt: rep.Summary.GeneratedAt,
		},
		Filters: ledgerFiltersResponse{
			Digits:        rep.Filters.GroupingWidth,
			DateFrom:      rep.Filters.DateFrom,
			DateTo:        rep.Filters.DateTo,
			IncludeDetail: rep.Filters.IncludeDetail,
		},
	}
}

// --- accounts and periods ---

type postAccountRequest struct {
	Code           string `json:"code" validate:"required"`
	Name           string `json:"name" validate:"required"`
	Classification string `json:"classification" validate:"required,oneof=asset liability equity income expense"`
}

type accountResponse struct {
	ID             uuid.UUID `json:"id"`
	Code           string    `json:"code"`
	Name           string    `json:"name"`
	Classification string    `json:"classification"`
}

func toAccountResponse(a book.Account) accountResponse {
	return accountResponse{ID: a.ID, Code: a.Code, Name: a.Name, Classification: string(a.Classification)}
}

type postPeriodRequest struct {
	Start time.Time `json:"start" validate:"required"`
	End   time.Time `json:"end" validate:"required"`
	Kind  string    `json:"kind" validate:"required,oneof=monthly quarterly annual"`
}

type periodResponse struct {
	ID    uuid.UUID `json:"id"`
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
	Kind  string    `json:"kind"`
	State string    `json:"state"`
}

func toPeriodResponse(p book.Period) periodResponse {
	return periodResponse{ID: p.ID, Start: p.Start, End: p.End, Kind: string(p.Kind), State: string(p.State)}
}

// --- transactions and entries ---

type postTransactionLine struct {
	AccountID uuid.UUID `json:"account_id" validate:"required"`
	Debit     string    `json:"debit"`
	Credit    string    `json:"credit"`
}

type postTransactionRequest struct {
	Date        time.Time             `json:"date" validate:"required"`
	Description string                `json:"description" validate:"required"`
	Type        string                `json:"type" validate:"required,oneof=income expense"`
	Currency    string                `json:"currency" validate:"required,len=3"`
	PeriodID    uuid.UUID             `json:"period_id" validate:"required"`
	Lines       []postTransactionLine `json:"lines" validate:"required,min=1,dive"`
}

type postEntryRequest struct {
	TransactionID uuid.UUID `json:"transaction_id" validate:"required"`
	AccountID     uuid.UUID `json:"account_id" validate:"required"`
	Debit         string    `json:"debit"`
	Credit        string    `json:"credit"`
}

type patchEntryRequest struct {
	TransactionID *uuid.UUID `json:"transaction_id"`
	AccountID     *uuid.UUID `json:"account_id"`
	Debit         *string    `json:"debit"`
	Credit        *string    `json:"credit"`
}

type entryResponse struct {
	ID            uuid.UUID `json:"id"`
	TransactionID uuid.UUID `json:"transaction_id"`
	AccountID     uuid.UUID `json:"account_id"`
	Debit         string    `json:"debit"`
	Credit        string    `json:"credit"`
}

func toEntryResponse(e book.JournalEntry) entryResponse {
	return entryResponse{
		ID:            e.ID,
		TransactionID: e.TransactionID,
		AccountID:     e.AccountID,
		Debit:         e.Debit.StringFixed(2),
		Credit:        e.Credit.StringFixed(2),
	}
}

type transactionResponse struct {
	ID          uuid.UUID       `json:"id"`
	Date        time.Time       `json:"date"`
	Description string          `json:"description"`
	Type        string          `json:"type"`
	Currency    string          `json:"currency"`
	PeriodID    uuid.UUID       `json:"period_id"`
	CreatedAt   time.Time       `json:"created_at"`
	Entries     []entryResponse `json:"entries,omitempty"`
}

func toTransactionResponse(tx book.Transaction, entries []book.JournalEntry) transactionResponse {
	resp := transactionResponse{
		ID:          tx.ID,
		Date:        tx.Date,
		Description: tx.Description,
		Type:        string(tx.Type),
		Currency:    tx.Currency,
		PeriodID:    tx.PeriodID,
		CreatedAt:   tx.CreatedAt,
	}
	for _, e := range entries {
		resp.Entries = append(resp.Entries, toEntryResponse(e))
	}
	return resp
}

// --- reports ---

type journalRowResponse struct {
	EntryID         uuid.UUID `json:"entry_id"`
	TransactionID   uuid.UUID `json:"transaction_id"`
	Date            string    `json:"date"`
	Description     string    `json:"description"`
	TransactionType string    `json:"transaction_type"`
	AccountCode     string    `json:"account_code"`
	AccountName     string    `json:"account_name"`
	Classification  string    `json:"classification"`
	Debit           string    `json:"debit"`
	Credit          string    `json:"credit"`
}

func toJournalResponse(rows []report.JournalRow) []journalRowResponse {
	out := make([]journalRowResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, journalRowResponse{
			EntryID:         r.EntryID,
			TransactionID:   r.TransactionID,
			Date:            r.Date.Format("2006-01-02"),
			Description:     r.Description,
			TransactionType: string(r.TransactionType),
			AccountCode:     r.AccountCode,
			AccountName:     r.AccountName,
			Classification:  string(r.Classification),
			Debit:           r.Debit.StringFixed(2),
			Credit:          r.Credit.StringFixed(2),
		})
	}
	return out
}

type balanceAccountResponse struct {
	Code    string `json:"code"`
	Name    string `json:"name"`
	Debit   string `json:"debit"`
	Credit  string `json:"credit"`
	Balance string `json:"balance"`
}

type balanceSectionResponse struct {
	Classification string                   `json:"classification"`
	Accounts       []balanceAccountResponse `json:"accounts"`
	Debit          string                   `json:"debit"`
	Credit         string                   `json:"credit"`
}

type balanceResponse struct {
	PeriodID    uuid.UUID                `json:"period_id"`
	Sections    []balanceSectionResponse `json:"sections"`
	TotalDebit  string                   `json:"total_debit"`
	TotalCredit string                   `json:"total_credit"`
	Difference  string                   `json:"difference"`
	Unbalanced  bool                     `json:"unbalanced"`
	GeneratedAt string                   `json:"generated_at"`
}

func toBalanceResponse(b *report.Balance) balanceResponse {
	sections := make([]balanceSectionResponse, 0, len(b.Sections))
	for _, sec := range b.Sections {
		sr := balanceSectionResponse{
			Classification: string(sec.Classification),
			Debit:          sec.Debit.StringFixed(2),
			Credit:         sec.Credit.StringFixed(2),
		}
		for _, a := range sec.Accounts {
			sr.Accounts = append(sr.Accounts, balanceAccountResponse{
				Code:    a.Code,
				Name:    a.Name,
				Debit:   a.Debit.StringFixed(2),
				Credit:  a.Credit.StringFixed(2),
				Balance: a.Balance.StringFixed(2),
			})
		}
		sections = append(sections, sr)
	}
	return balanceResponse{
		PeriodID:    b.PeriodID,
		Sections:    sections,
		TotalDebit:  b.TotalDebit.StringFixed(2),
		TotalCredit: b.TotalCredit.StringFixed(2),
		Difference:  b.Difference.StringFixed(2),
		Unbalanced:  b.Unbalanced,
		GeneratedAt: b.GeneratedAt,
	}
}

// --- billing ---

type postClientRequest struct {
	Name    string `json:"name" validate:"required"`
	TaxID   string `json:"tax_id"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
	Email   string `json:"email" validate:"omitempty,email"`
	Kind    string `json:"kind" validate:"omitempty,oneof=individual company"`
	Notes   string `json:"notes"`
}

type clientResponse struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	TaxID        string    `json:"tax_id,omitempty"`
	Address      string    `json:"address,omitempty"`
	Phone        string    `json:"phone,omitempty"`
	Email        string    `json:"email,omitempty"`
	Kind         string    `json:"kind"`
	Notes        string    `json:"notes,omitempty"`
	Active       bool      `json:"active"`
	RegisteredAt time.Time `json:"registered_at"`
}

func toClientResponse(c book.Client) clientResponse {
	return clientResponse{
		ID:           c.ID,
		Name:         c.Name,
		TaxID:        c.TaxID,
		Address:      c.Address,
		Phone:        c.Phone,
		Email:        c.Email,
		Kind:         string(c.Kind),
		Notes:        c.Notes,
		Active:       c.Active,
		RegisteredAt: c.RegisteredAt,
	}
}

type postProductRequest struct {
	Code        string `json:"code"`
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
	Kind        string `json:"kind" validate:"required,oneof=product service"`
	Category    string `json:"category"`
	UnitPrice   string `json:"unit_price" validate:"required"`
	Currency    string `json:"currency" validate:"required,len=3"`
	Unit        string `json:"unit"`
	ApplyVAT    bool   `json:"apply_vat"`
}

type productResponse struct {
	ID           uuid.UUID `json:"id"`
	Code         string    `json:"code,omitempty"`
	Name         string    `json:"name"`
	Description  string    `json:"description,omitempty"`
	Kind         string    `json:"kind"`
	Category     string    `json:"category,omitempty"`
	UnitPrice    string    `json:"unit_price"`
	Currency     string    `json:"currency"`
	Unit         string    `json:"unit,omitempty"`
	ApplyVAT     bool      `json:"apply_vat"`
	Active       bool      `json:"active"`
	RegisteredAt time.Time `json:"registered_at"`
}

func toProductResponse(p book.Product) productResponse {
	amount, currency := amountParts(p.UnitPrice)
	return productResponse{
		ID:           p.ID,
		Code:         p.Code,
		Name:         p.Name,
		Description:  p.Description,
		Kind:         string(p.Kind),
		Category:     p.Category,
		UnitPrice:    amount,
		Currency:     currency,
		Unit:         p.Unit,
		ApplyVAT:     p.ApplyVAT,
		Active:       p.Active,
		RegisteredAt: p.RegisteredAt,
	}
}

type postInvoiceLine struct {
	ProductID   uuid.UUID `json:"product_id" validate:"required"`
	Description string    `json:"description"`
	Quantity    string    `json:"quantity" validate:"required"`
	UnitPrice   *string   `json:"unit_price"`
	DiscountPct string    `json:"discount_pct"`
}

type postInvoiceRequest struct {
	Number        string            `json:"number" validate:"required"`
	ClientID      uuid.UUID         `json:"client_id" validate:"required"`
	TransactionID uuid.UUID         `json:"transaction_id" validate:"required"`
	IssuedAt      *time.Time        `json:"issued_at"`
	Lines         []postInvoiceLine `json:"lines" validate:"required,min=1,dive"`
}

type invoiceLineResponse struct {
	ID          uuid.UUID `json:"id"`
	ProductID   uuid.UUID `json:"product_id"`
	Description string    `json:"description,omitempty"`
	Quantity    string    `json:"quantity"`
	UnitPrice   string    `json:"unit_price"`
	DiscountPct string    `json:"discount_pct"`
	Subtotal    string    `json:"subtotal"`
	VAT         string    `json:"vat"`
	Total       string    `json:"total"`
}

type invoiceResponse struct {
	ID            uuid.UUID             `json:"id"`
	Number        string                `json:"number"`
	ClientID      uuid.UUID             `json:"client_id"`
	TransactionID uuid.UUID             `json:"transaction_id"`
	Total         string                `json:"total"`
	Currency      string                `json:"currency"`
	IssuedAt      time.Time             `json:"issued_at"`
	Lines         []invoiceLineResponse `json:"lines,omitempty"`
}

func toInvoiceResponse(inv book.Invoice) invoiceResponse {
	amount, currency := amountParts(inv.Total)
	resp := invoiceResponse{
		ID:            inv.ID,
		Number:        inv.Number,
		ClientID:      inv.ClientID,
		TransactionID: inv.TransactionID,
		Total:         amount,
		Currency:      currency,
		IssuedAt:      inv.IssuedAt,
	}
	for _, ln := range inv.Lines {
		resp.Lines = append(resp.Lines, invoiceLineResponse{
			ID:          ln.ID,
			ProductID:   ln.ProductID,
			Description: ln.Description,
			Quantity:    ln.Quantity.String(),
			UnitPrice:   ln.UnitPrice.StringFixed(2),
			DiscountPct: ln.DiscountPct.String(),
			Subtotal:    ln.Subtotal.StringFixed(2),
			VAT:         ln.VAT.StringFixed(2),
			Total:       ln.Total.StringFixed(2),
		})
	}
	return resp
}

// amountParts splits a currency-tagged amount into a fixed-point string in
// the currency's minor-unit scale and its currency code.
func amountParts(a money.Amount) (string, string) {
	curr := a.Curr()
	scale := int32(curr.Scale())
	minor, ok := a.MinorUnits()
	if !ok {
		// amount exceeds int64 minor units; String carries the code prefix
		return strings.TrimPrefix(a.String(), curr.Code()+" "), curr.Code()
	}
	return decimal.New(minor, -scale).StringFixed(scale), curr.Code()
}

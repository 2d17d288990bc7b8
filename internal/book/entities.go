// Package book defines the domain entities of the bookkeeping back office:
// the chart of accounts, journal entries grouped under transactions, the
// accounting periods transactions are filed under, and the billing records
// (clients, products, invoices) that feed postings into the ledger.
package book

import (
	"time"

	"github.com/google/uuid"
	"github.com/govalues/money"
	"github.com/shopspring/decimal"
)

// Classification enumerates the broad position of an account in the chart.
type Classification string

const (
	// ClassAsset increases on the debit side and holds owned resources.
	ClassAsset Classification = "asset"
	// ClassLiability increases on the credit side and tracks obligations.
	ClassLiability Classification = "liability"
	// ClassEquity captures the owners' residual interest.
	ClassEquity Classification = "equity"
	// ClassIncome represents inflows that increase equity.
	ClassIncome Classification = "income"
	// ClassExpense represents outflows that decrease equity.
	ClassExpense Classification = "expense"
)

// Valid reports whether c is one of the known classifications.
func (c Classification) Valid() bool {
	switch c {
	case ClassAsset, ClassLiability, ClassEquity, ClassIncome, ClassExpense:
		return true
	}
	return false
}

// TransactionType tags a transaction as money coming in or going out.
type TransactionType string

const (
	TransactionIncome  TransactionType = "income"
	TransactionExpense TransactionType = "expense"
)

// Valid reports whether t is a known transaction type.
func (t TransactionType) Valid() bool {
	return t == TransactionIncome || t == TransactionExpense
}

// Account is one line of the chart of accounts. Code is unique, non-empty
// and conventionally numeric-looking; its leading characters define which
// account group the account rolls up into on summarized reports.
type Account struct {
	ID             uuid.UUID
	Code           string
	Name           string
	Classification Classification
}

// JournalEntry is a single debit-or-credit posting against one account
// within one transaction. Exactly one of Debit/Credit is strictly positive
// and the other is exactly zero; both carry two fractional digits.
type JournalEntry struct {
	ID            uuid.UUID
	TransactionID uuid.UUID
	AccountID     uuid.UUID
	Debit         decimal.Decimal
	Credit        decimal.Decimal
}

// Transaction groups journal entries under a date, description, currency
// and period. Deleting a transaction deletes its entries in the same unit
// of work.
type Transaction struct {
	ID          uuid.UUID
	Date        time.Time
	Description string
	Type        TransactionType
	Currency    string
	PeriodID    uuid.UUID
	CreatedAt   time.Time
}

// PeriodKind is the length class of an accounting period.
type PeriodKind string

const (
	PeriodMonthly   PeriodKind = "monthly"
	PeriodQuarterly PeriodKind = "quarterly"
	PeriodAnnual    PeriodKind = "annual"
)

// Valid reports whether k is a known period kind.
func (k PeriodKind) Valid() bool {
	return k == PeriodMonthly || k == PeriodQuarterly || k == PeriodAnnual
}

// PeriodState marks whether a period still accepts postings.
type PeriodState string

const (
	PeriodOpen   PeriodState = "open"
	PeriodClosed PeriodState = "closed"
)

// Period is the date range a transaction is filed under.
type Period struct {
	ID    uuid.UUID
	Start time.Time
	End   time.Time
	Kind  PeriodKind
	State PeriodState
}

// ClientKind distinguishes individual and company clients.
type ClientKind string

const (
	ClientIndividual ClientKind = "individual"
	ClientCompany    ClientKind = "company"
)

// Client is a reusable billing counterparty.
type Client struct {
	ID           uuid.UUID
	Name         string
	TaxID        string
	Address      string
	Phone        string
	Email        string
	Kind         ClientKind
	Notes        string
	Active       bool
	RegisteredAt time.Time
}

// ProductKind distinguishes physical products from services.
type ProductKind string

const (
	KindProduct ProductKind = "product"
	KindService ProductKind = "service"
)

// Product is a sellable catalog item. UnitPrice carries the currency; line
// math on invoices is done in exact decimal and converted at the edges.
type Product struct {
	ID           uuid.UUID
	Code         string
	Name         string
	Description  string
	Kind         ProductKind
	Category     string
	UnitPrice    money.Amount
	Unit         string
	ApplyVAT     bool
	Active       bool
	RegisteredAt time.Time
}

// InvoiceLine is one product line on an invoice. Subtotal, VAT and Total are
// derived: subtotal = quantity*unit price - discount, total = subtotal + VAT.
type InvoiceLine struct {
	ID          uuid.UUID
	InvoiceID   uuid.UUID
	ProductID   uuid.UUID
	Description string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	DiscountPct decimal.Decimal
	Subtotal    decimal.Decimal
	VAT         decimal.Decimal
	Total       decimal.Decimal
}

// Invoice links a numbered document to a client and the ledger transaction
// that records it. Total is the sum of line totals.
type Invoice struct {
	ID            uuid.UUID
	Number        string
	ClientID      uuid.UUID
	TransactionID uuid.UUID
	Total         money.Amount
	IssuedAt      time.Time
	Lines         []InvoiceLine
}

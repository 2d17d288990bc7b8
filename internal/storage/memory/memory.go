// Package memory is the in-process store. It backs every service repository
// plus the ledger and report sources with mutex-guarded maps, and is the
// default store when no database is configured.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/davramirez/contabook/internal/book"
	"github.com/davramirez/contabook/internal/errs"
	"github.com/davramirez/contabook/internal/ledger"
	"github.com/davramirez/contabook/internal/report"
	"github.com/davramirez/contabook/internal/service/transaction"
)

// Store holds all records in memory. Safe for concurrent use.
type Store struct {
	mu           sync.RWMutex
	accounts     map[uuid.UUID]book.Account
	accountCodes map[string]uuid.UUID
	periods      map[uuid.UUID]book.Period
	transactions map[uuid.UUID]book.Transaction
	entries      map[uuid.UUID]book.JournalEntry
	clients      map[uuid.UUID]book.Client
	products     map[uuid.UUID]book.Product
	invoices     map[uuid.UUID]book.Invoice
}

// New returns an empty store.
func New() *Store {
	s := &Store{}
	s.reset()
	return s
}

func (s *Store) reset() {
	s.accounts = make(map[uuid.UUID]book.Account)
	s.accountCodes = make(map[string]uuid.UUID)
	s.periods = make(map[uuid.UUID]book.Period)
	s.transactions = make(map[uuid.UUID]book.Transaction)
	s.entries = make(map[uuid.UUID]book.JournalEntry)
	s.clients = make(map[uuid.UUID]book.Client)
	s.products = make(map[uuid.UUID]book.Product)
	s.invoices = make(map[uuid.UUID]book.Invoice)
}

// Reset drops every record. Intended for tests and dev seeding.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reset()
}

// Ready always reports healthy; the store has no external dependency.
func (s *Store) Ready(ctx context.Context) error { return nil }

// --- accounts ---

func (s *Store) CreateAccount(ctx context.Context, a book.Account) (book.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.accountCodes[a.Code]; exists {
		return book.Account{}, fmt.Errorf("%w: account code %q", errs.ErrConflict, a.Code)
	}
	s.accounts[a.ID] = a
	s.accountCodes[a.Code] = a.ID
	return a, nil
}

func (s *Store) GetAccount(ctx context.Context, id uuid.UUID) (book.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.accounts[id]
	if !ok {
		return book.Account{}, errs.ErrNotFound
	}
	return a, nil
}

func (s *Store) AccountByCode(ctx context.Context, code string) (book.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.accountCodes[code]
	if !ok {
		return book.Account{}, errs.ErrNotFound
	}
	return s.accounts[id], nil
}

func (s *Store) ListAccounts(ctx context.Context) ([]book.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]book.Account, 0, len(s.accounts))
	for _, a := range s.accounts {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

// --- periods ---

func (s *Store) CreatePeriod(ctx context.Context, p book.Period) (book.Period, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.periods[p.ID] = p
	return p, nil
}

func (s *Store) UpdatePeriod(ctx context.Context, p book.Period) (book.Period, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.periods[p.ID]; !ok {
		return book.Period{}, errs.ErrNotFound
	}
	s.periods[p.ID] = p
	return p, nil
}

func (s *Store) GetPeriod(ctx context.Context, id uuid.UUID) (book.Period, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.periods[id]
	if !ok {
		return book.Period{}, errs.ErrNotFound
	}
	return p, nil
}

func (s *Store) ListPeriods(ctx context.Context) ([]book.Period, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]book.Period, 0, len(s.periods))
	for _, p := range s.periods {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Start.Before(out[j].Start) })
	return out, nil
}

// --- transactions and entries ---

// CreateTransaction commits the transaction and its entries as one unit under
// a single lock acquisition, so readers never observe a partial posting.
func (s *Store) CreateTransaction(ctx context.Context, tx book.Transaction, entries []book.JournalEntry) (book.Transaction, []book.JournalEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transactions[tx.ID] = tx
	for _, e := range entries {
		s.entries[e.ID] = e
	}
	return tx, entries, nil
}

// DeleteTransaction removes the transaction and all of its entries together.
func (s *Store) DeleteTransaction(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.transactions[id]; !ok {
		return errs.ErrNotFound
	}
	delete(s.transactions, id)
	for eid, e := range s.entries {
		if e.TransactionID == id {
			delete(s.entries, eid)
		}
	}
	return nil
}

func (s *Store) GetTransaction(ctx context.Context, id uuid.UUID) (book.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	tx, ok := s.transactions[id]
	if !ok {
		return book.Transaction{}, errs.ErrNotFound
	}
	return tx, nil
}

func (s *Store) ListTransactions(ctx context.Context, f transaction.Filter) ([]book.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]book.Transaction, 0, len(s.transactions))
	for _, tx := range s.transactions {
		if f.DateFrom != nil && tx.Date.Before(*f.DateFrom) {
			continue
		}
		if f.DateTo != nil && tx.Date.After(endOfDay(*f.DateTo)) {
			continue
		}
		if f.PeriodID != nil && tx.PeriodID != *f.PeriodID {
			continue
		}
		if f.Type != nil && tx.Type != *f.Type {
			continue
		}
		out = append(out, tx)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return out, nil
}

func (s *Store) CreateEntry(ctx context.Context, e book.JournalEntry) (book.JournalEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[e.ID] = e
	return e, nil
}

func (s *Store) UpdateEntry(ctx context.Context, e book.JournalEntry) (book.JournalEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entries[e.ID]; !ok {
		return book.JournalEntry{}, errs.ErrNotFound
	}
	s.entries[e.ID] = e
	return e, nil
}

func (s *Store) DeleteEntry(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entries[id]; !ok {
		return errs.ErrNotFound
	}
	delete(s.entries, id)
	return nil
}

func (s *Store) GetEntry(ctx context.Context, id uuid.UUID) (book.JournalEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[id]
	if !ok {
		return book.JournalEntry{}, errs.ErrNotFound
	}
	return e, nil
}

func (s *Store) EntriesByTransaction(ctx context.Context, txID uuid.UUID) ([]book.JournalEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []book.JournalEntry
	for _, e := range s.entries {
		if e.TransactionID == txID {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID.String() < out[j].ID.String() })
	return out, nil
}

// --- clients, products, invoices ---

func (s *Store) CreateClient(ctx context.Context, c book.Client) (book.Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clients[c.ID] = c
	return c, nil
}

func (s *Store) GetClient(ctx context.Context, id uuid.UUID) (book.Client, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.clients[id]
	if !ok {
		return book.Client{}, errs.ErrNotFound
	}
	return c, nil
}

func (s *Store) ListClients(ctx context.Context) ([]book.Client, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]book.Client, 0, len(s.clients))
	for _, c := range s.clients {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *Store) CreateProduct(ctx context.Context, p book.Product) (book.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products[p.ID] = p
	return p, nil
}

func (s *Store) GetProduct(ctx context.Context, id uuid.UUID) (book.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.products[id]
	if !ok {
		return book.Product{}, errs.ErrNotFound
	}
	return p, nil
}

func (s *Store) ListProducts(ctx context.Context) ([]book.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]book.Product, 0, len(s.products))
	for _, p := range s.products {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *Store) CreateInvoice(ctx context.Context, inv book.Invoice) (book.Invoice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.invoices[inv.ID] = inv
	return inv, nil
}

func (s *Store) GetInvoice(ctx context.Context, id uuid.UUID) (book.Invoice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	inv, ok := s.invoices[id]
	if !ok {
		return book.Invoice{}, errs.ErrNotFound
	}
	return inv, nil
}

func (s *Store) ListInvoices(ctx context.Context) ([]book.Invoice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]book.Invoice, 0, len(s.invoices))
	for _, inv := range s.invoices {
		out = append(out, inv)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out, nil
}

// --- ledger source ---

// AccountTotals resolves the chart/entries outer join in one lock. Every
// account appears once; accounts without postings in range carry zero totals.
// An entry whose transaction is missing has no date and always passes the
// range filter, matching the SQL predicate `t.date is null or ...`.
func (s *Store) AccountTotals(ctx context.Context, from, to *time.Time) ([]ledger.AccountTotal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	totals := make(map[uuid.UUID]*ledger.AccountTotal, len(s.accounts))
	for id, a := range s.accounts {
		totals[id] = &ledger.AccountTotal{
			Code:           a.Code,
			Name:           a.Name,
			Classification: a.Classification,
			Debit:          decimal.Zero,
			Credit:         decimal.Zero,
		}
	}

	for _, e := range s.entries {
		t, ok := totals[e.AccountID]
		if !ok {
			continue
		}
		if tx, ok := s.transactions[e.TransactionID]; ok {
			if from != nil && tx.Date.Before(*from) {
				continue
			}
			if to != nil && tx.Date.After(endOfDay(*to)) {
				continue
			}
		}
		t.Debit = t.Debit.Add(e.Debit)
		t.Credit = t.Credit.Add(e.Credit)
	}

	out := make([]ledger.AccountTotal, 0, len(totals))
	for _, t := range totals {
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

// --- report source ---

func (s *Store) JournalRows(ctx context.Context, periodID *uuid.UUID) ([]report.JournalRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []report.JournalRow
	for _, e := range s.entries {
		tx, ok := s.transactions[e.TransactionID]
		if !ok {
			continue
		}
		if periodID != nil && tx.PeriodID != *periodID {
			continue
		}
		a, ok := s.accounts[e.AccountID]
		if !ok {
			continue
		}
		out = append(out, report.JournalRow{
			EntryID:         e.ID,
			TransactionID:   tx.ID,
			Date:            tx.Date,
			Description:     tx.Description,
			TransactionType: tx.Type,
			AccountCode:     a.Code,
			AccountName:     a.Name,
			Classification:  a.Classification,
			Debit:           e.Debit,
			Credit:          e.Credit,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].EntryID.String() < out[j].EntryID.String()
	})
	return out, nil
}

func (s *Store) PeriodActivity(ctx context.Context, periodID uuid.UUID) ([]report.AccountActivity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.periods[periodID]; !ok {
		return nil, errs.ErrNotFound
	}

	byAccount := make(map[uuid.UUID]*report.AccountActivity)
	for _, e := range s.entries {
		tx, ok := s.transactions[e.TransactionID]
		if !ok || tx.PeriodID != periodID {
			continue
		}
		a, ok := s.accounts[e.AccountID]
		if !ok {
			continue
		}
		act, ok := byAccount[e.AccountID]
		if !ok {
			act = &report.AccountActivity{
				Code:           a.Code,
				Name:           a.Name,
				Classification: a.Classification,
				Debit:          decimal.Zero,
				Credit:         decimal.Zero,
			}
			byAccount[e.AccountID] = act
		}
		act.Debit = act.Debit.Add(e.Debit)
		act.Credit = act.Credit.Add(e.Credit)
	}

	out := make([]report.AccountActivity, 0, len(byAccount))
	for _, act := range byAccount {
		out = append(out, *act)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

// endOfDay widens a date-only upper bound to cover the whole calendar day.
func endOfDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 23, 59, 59, int(time.Second-time.Nanosecond), time.UTC)
}

package transaction

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/davramirez/contabook/internal/book"
	"github.com/davramirez/contabook/internal/errs"
)

type stubStore struct {
	periods      map[uuid.UUID]book.Period
	accounts     map[uuid.UUID]book.Account
	transactions map[uuid.UUID]book.Transaction
	entries      map[uuid.UUID]book.JournalEntry
}

func newStubStore() *stubStore {
	return &stubStore{
		periods:      map[uuid.UUID]book.Period{},
		accounts:     map[uuid.UUID]book.Account{},
		transactions: map[uuid.UUID]book.Transaction{},
		entries:      map[uuid.UUID]book.JournalEntry{},
	}
}

func (s *stubStore) GetPeriod(ctx context.Context, id uuid.UUID) (book.Period, error) {
	p, ok := s.periods[id]
	if !ok {
		return book.Period{}, errs.ErrNotFound
	}
	return p, nil
}

func (s *stubStore) GetAccount(ctx context.Context, id uuid.UUID) (book.Account, error) {
	a, ok := s.accounts[id]
	if !ok {
		return book.Account{}, errs.ErrNotFound
	}
	return a, nil
}

func (s *stubStore) GetTransaction(ctx context.Context, id uuid.UUID) (book.Transaction, error) {
	tx, ok := s.transactions[id]
	if !ok {
		return book.Transaction{}, errs.ErrNotFound
	}
	return tx, nil
}

func (s *stubStore) ListTransactions(ctx context.Context, f Filter) ([]book.Transaction, error) {
	var out []book.Transaction
	for _, tx := range s.transactions {
		out = append(out, tx)
	}
	return out, nil
}

func (s *stubStore) CreateTransaction(ctx context.Context, tx book.Transaction, entries []book.JournalEntry) (book.Transaction, []book.JournalEntry, error) {
	s.transactions[tx.ID] = tx
	for _, e := range entries {
		s.entries[e.ID] = e
	}
	return tx, entries, nil
}

func (s *stubStore) DeleteTransaction(ctx context.Context, id uuid.UUID) error {
	delete(s.transactions, id)
	for eid, e := range s.entries {
		if e.TransactionID == id {
			delete(s.entries, eid)
		}
	}
	return nil
}

func dec(v string) decimal.Decimal { return decimal.RequireFromString(v) }

func seeded(state book.PeriodState) (*stubStore, book.Period, book.Account, book.Account) {
	store := newStubStore()
	p := book.Period{
		ID:    uuid.New(),
		Start: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC),
		Kind:  book.PeriodAnnual,
		State: state,
	}
	cash := book.Account{ID: uuid.New(), Code: "1100", Name: "Cash", Classification: book.ClassAsset}
	sales := book.Account{ID: uuid.New(), Code: "4100", Name: "Sales", Classification: book.ClassIncome}
	store.periods[p.ID] = p
	store.accounts[cash.ID] = cash
	store.accounts[sales.ID] = sales
	return store, p, cash, sales
}

func validTx(periodID uuid.UUID) book.Transaction {
	return book.Transaction{
		Date:        time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC),
		Description: "march sale",
		Type:        book.TransactionIncome,
		Currency:    "USD",
		PeriodID:    periodID,
	}
}

func TestCreate_PostsTransactionWithEntries(t *testing.T) {
	store, p, cash, sales := seeded(book.PeriodOpen)
	svc := New(store, store)

	tx, entries, err := svc.Create(context.Background(), validTx(p.ID), []Line{
		{AccountID: cash.ID, Debit: dec("250.00")},
		{AccountID: sales.ID, Credit: dec("250.00")},
	})
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, tx.ID)
	require.Len(t, entries, 2)
	for _, e := range entries {
		require.Equal(t, tx.ID, e.TransactionID)
	}
	require.Len(t, store.entries, 2)
}

func TestCreate_ClosedPeriodRejected(t *testing.T) {
	store, p, cash, _ := seeded(book.PeriodClosed)
	svc := New(store, store)

	_, _, err := svc.Create(context.Background(), validTx(p.ID), []Line{
		{AccountID: cash.ID, Debit: dec("10.00")},
	})
	require.ErrorIs(t, err, errs.ErrPeriodClosed)
	require.Empty(t, store.transactions)
}

func TestCreate_UnknownPeriod(t *testing.T) {
	store, _, cash, _ := seeded(book.PeriodOpen)
	svc := New(store, store)

	_, _, err := svc.Create(context.Background(), validTx(uuid.New()), []Line{
		{AccountID: cash.ID, Debit: dec("10.00")},
	})
	require.ErrorIs(t, err, errs.ErrReferenceNotFound)
}

func TestCreate_InvalidLineRejectsWholeTransaction(t *testing.T) {
	store, p, cash, sales := seeded(book.PeriodOpen)
	svc := New(store, store)

	_, _, err := svc.Create(context.Background(), validTx(p.ID), []Line{
		{AccountID: cash.ID, Debit: dec("250.00")},
		{AccountID: sales.ID, Debit: dec("10.00"), Credit: dec("10.00")},
	})
	require.ErrorIs(t, err, errs.ErrInvalidEntry)
	require.Empty(t, store.transactions)
	require.Empty(t, store.entries)
}

func TestCreate_UnknownAccount(t *testing.T) {
	store, p, _, _ := seeded(book.PeriodOpen)
	svc := New(store, store)

	_, _, err := svc.Create(context.Background(), validTx(p.ID), []Line{
		{AccountID: uuid.New(), Debit: dec("10.00")},
	})
	require.ErrorIs(t, err, errs.ErrReferenceNotFound)
}

func TestCreate_MissingFields(t *testing.T) {
	store, p, cash, _ := seeded(book.PeriodOpen)
	svc := New(store, store)
	lines := []Line{{AccountID: cash.ID, Debit: dec("10.00")}}

	tx := validTx(p.ID)
	tx.Description = ""
	_, _, err := svc.Create(context.Background(), tx, lines)
	require.ErrorIs(t, err, errs.ErrInvalidParameter)

	tx = validTx(p.ID)
	tx.Currency = ""
	_, _, err = svc.Create(context.Background(), tx, lines)
	require.ErrorIs(t, err, errs.ErrInvalidParameter)

	tx = validTx(p.ID)
	tx.Type = "transfer"
	_, _, err = svc.Create(context.Background(), tx, lines)
	require.ErrorIs(t, err, errs.ErrInvalidParameter)
}

func TestDelete_CascadesEntries(t *testing.T) {
	store, p, cash, sales := seeded(book.PeriodOpen)
	svc := New(store, store)

	tx, _, err := svc.Create(context.Background(), validTx(p.ID), []Line{
		{AccountID: cash.ID, Debit: dec("99.00")},
		{AccountID: sales.ID, Credit: dec("99.00")},
	})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), tx.ID))
	require.Empty(t, store.transactions)
	require.Empty(t, store.entries)
}

func TestDelete_UnknownTransaction(t *testing.T) {
	store, _, _, _ := seeded(book.PeriodOpen)
	svc := New(store, store)

	err := svc.Delete(context.Background(), uuid.New())
	require.ErrorIs(t, err, errs.ErrNotFound)
}

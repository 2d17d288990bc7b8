package entry

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/davramirez/contabook/internal/book"
	"github.com/davramirez/contabook/internal/errs"
)

type stubStore struct {
	transactions map[uuid.UUID]book.Transaction
	accounts     map[uuid.UUID]book.Account
	entries      map[uuid.UUID]book.JournalEntry
}

func newStubStore() *stubStore {
	return &stubStore{
		transactions: map[uuid.UUID]book.Transaction{},
		accounts:     map[uuid.UUID]book.Account{},
		entries:      map[uuid.UUID]book.JournalEntry{},
	}
}

func (s *stubStore) GetTransaction(ctx context.Context, id uuid.UUID) (book.Transaction, error) {
	tx, ok := s.transactions[id]
	if !ok {
		return book.Transaction{}, errs.ErrNotFound
	}
	return tx, nil
}

func (s *stubStore) GetAccount(ctx context.Context, id uuid.UUID) (book.Account, error) {
	a, ok := s.accounts[id]
	if !ok {
		return book.Account{}, errs.ErrNotFound
	}
	return a, nil
}

func (s *stubStore) GetEntry(ctx context.Context, id uuid.UUID) (book.JournalEntry, error) {
	e, ok := s.entries[id]
	if !ok {
		return book.JournalEntry{}, errs.ErrNotFound
	}
	return e, nil
}

func (s *stubStore) EntriesByTransaction(ctx context.Context, txID uuid.UUID) ([]book.JournalEntry, error) {
	var out []book.JournalEntry
	for _, e := range s.entries {
		if e.TransactionID == txID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (s *stubStore) CreateEntry(ctx context.Context, e book.JournalEntry) (book.JournalEntry, error) {
	s.entries[e.ID] = e
	return e, nil
}

func (s *stubStore) UpdateEntry(ctx context.Context, e book.JournalEntry) (book.JournalEntry, error) {
	s.entries[e.ID] = e
	return e, nil
}

func (s *stubStore) DeleteEntry(ctx context.Context, id uuid.UUID) error {
	delete(s.entries, id)
	return nil
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func seeded() (*stubStore, book.Transaction, book.Account) {
	store := newStubStore()
	tx := book.Transaction{ID: uuid.New()}
	acc := book.Account{ID: uuid.New(), Code: "1100", Name: "Cash", Classification: book.ClassAsset}
	store.transactions[tx.ID] = tx
	store.accounts[acc.ID] = acc
	return store, tx, acc
}

func TestValidateAmounts(t *testing.T) {
	cases := []struct {
		name   string
		debit  string
		credit string
		ok     bool
	}{
		{"debit only", "100.00", "0", true},
		{"credit only", "0", "100.00", true},
		{"both zero", "0", "0", false},
		{"both positive", "50.00", "50.00", false},
		{"negative debit", "-1.00", "0", false},
		{"negative credit", "0", "-1.00", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateAmounts(dec(tc.debit), dec(tc.credit))
			if tc.ok {
				require.NoError(t, err)
			} else {
				require.ErrorIs(t, err, errs.ErrInvalidEntry)
			}
		})
	}
}

func TestCreate_Valid(t *testing.T) {
	store, tx, acc := seeded()
	svc := New(store, store)

	got, err := svc.Create(context.Background(), book.JournalEntry{
		TransactionID: tx.ID,
		AccountID:     acc.ID,
		Debit:         dec("120.50"),
	})
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, got.ID)
	require.Contains(t, store.entries, got.ID)
}

func TestCreate_UnknownReferences(t *testing.T) {
	store, tx, acc := seeded()
	svc := New(store, store)

	_, err := svc.Create(context.Background(), book.JournalEntry{
		TransactionID: uuid.New(),
		AccountID:     acc.ID,
		Debit:         dec("10.00"),
	})
	require.ErrorIs(t, err, errs.ErrReferenceNotFound)

	_, err = svc.Create(context.Background(), book.JournalEntry{
		TransactionID: tx.ID,
		AccountID:     uuid.New(),
		Debit:         dec("10.00"),
	})
	require.ErrorIs(t, err, errs.ErrReferenceNotFound)
	require.Empty(t, store.entries)
}

func TestUpdate_RevalidatesMergedEntry(t *testing.T) {
	store, tx, acc := seeded()
	svc := New(store, store)

	created, err := svc.Create(context.Background(), book.JournalEntry{
		TransactionID: tx.ID,
		AccountID:     acc.ID,
		Debit:         dec("100.00"),
	})
	require.NoError(t, err)

	// flipping credit positive while debit stays positive breaks the rule
	credit := dec("5.00")
	_, err = svc.Update(context.Background(), created.ID, Patch{Credit: &credit})
	require.ErrorIs(t, err, errs.ErrInvalidEntry)

	// moving the amount to the credit side is fine
	zero := decimal.Zero
	got, err := svc.Update(context.Background(), created.ID, Patch{Debit: &zero, Credit: &credit})
	require.NoError(t, err)
	require.True(t, got.Credit.Equal(credit))
	require.True(t, got.Debit.IsZero())
}

func TestDelete_UnknownEntry(t *testing.T) {
	store, _, _ := seeded()
	svc := New(store, store)

	err := svc.Delete(context.Background(), uuid.New())
	require.ErrorIs(t, err, errs.ErrNotFound)
}

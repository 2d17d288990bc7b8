package memory

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/davramirez/contabook/internal/book"
	"github.com/davramirez/contabook/internal/errs"
	"github.com/davramirez/contabook/internal/service/transaction"
)

func dec(v string) decimal.Decimal { return decimal.RequireFromString(v) }

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func seedAccounts(t *testing.T, s *Store, codes ...string) map[string]book.Account {
	t.Helper()
	out := make(map[string]book.Account, len(codes))
	for _, code := range codes {
		a, err := s.CreateAccount(context.Background(), book.Account{
			ID: uuid.New(), Code: code, Name: "Account " + code, Classification: book.ClassAsset,
		})
		require.NoError(t, err)
		out[code] = a
	}
	return out
}

func post(t *testing.T, s *Store, periodID uuid.UUID, day time.Time, legs ...book.JournalEntry) book.Transaction {
	t.Helper()
	tx := book.Transaction{
		ID: uuid.New(), Date: day, Description: "posting",
		Type: book.TransactionIncome, Currency: "USD", PeriodID: periodID,
	}
	for i := range legs {
		legs[i].ID = uuid.New()
		legs[i].TransactionID = tx.ID
	}
	_, _, err := s.CreateTransaction(context.Background(), tx, legs)
	require.NoError(t, err)
	return tx
}

func TestAccountByCode(t *testing.T) {
	s := New()
	accs := seedAccounts(t, s, "1100")

	got, err := s.AccountByCode(context.Background(), "1100")
	require.NoError(t, err)
	require.Equal(t, accs["1100"].ID, got.ID)

	_, err = s.AccountByCode(context.Background(), "9999")
	require.ErrorIs(t, err, errs.ErrNotFound)
}

func TestCreateAccount_DuplicateCode(t *testing.T) {
	s := New()
	seedAccounts(t, s, "1100")

	_, err := s.CreateAccount(context.Background(), book.Account{
		ID: uuid.New(), Code: "1100", Name: "Duplicate", Classification: book.ClassAsset,
	})
	require.ErrorIs(t, err, errs.ErrConflict)
}

func TestDeleteTransaction_Cascades(t *testing.T) {
	s := New()
	accs := seedAccounts(t, s, "1100", "4100")
	tx := post(t, s, uuid.New(), date(2026, 2, 1),
		book.JournalEntry{AccountID: accs["1100"].ID, Debit: dec("100.00")},
		book.JournalEntry{AccountID: accs["4100"].ID, Credit: dec("100.00")},
	)

	entries, err := s.EntriesByTransaction(context.Background(), tx.ID)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	require.NoError(t, s.DeleteTransaction(context.Background(), tx.ID))
	_, err = s.GetTransaction(context.Background(), tx.ID)
	require.ErrorIs(t, err, errs.ErrNotFound)
	entries, err = s.EntriesByTransaction(context.Background(), tx.ID)
	require.NoError(t, err)
	require.Empty(t, entries)
}

func TestAccountTotals_OuterJoinAndRange(t *testing.T) {
	s := New()
	accs := seedAccounts(t, s, "1100", "4100", "5100")
	post(t, s, uuid.New(), date(2026, 2, 1),
		book.JournalEntry{AccountID: accs["1100"].ID, Debit: dec("100.00")},
		book.JournalEntry{AccountID: accs["4100"].ID, Credit: dec("100.00")},
	)
	post(t, s, uuid.New(), date(2026, 5, 1),
		book.JournalEntry{AccountID: accs["1100"].ID, Debit: dec("40.00")},
		book.JournalEntry{AccountID: accs["4100"].ID, Credit: dec("40.00")},
	)

	// unfiltered: both postings, all three accounts present
	rows, err := s.AccountTotals(context.Background(), nil, nil)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	require.Equal(t, "1100", rows[0].Code)
	require.True(t, rows[0].Debit.Equal(dec("140.00")))
	require.Equal(t, "5100", rows[2].Code)
	require.True(t, rows[2].Debit.IsZero())
	require.True(t, rows[2].Credit.IsZero())

	// range covering only February; idle account still listed
	from, to := date(2026, 2, 1), date(2026, 2, 28)
	rows, err = s.AccountTotals(context.Background(), &from, &to)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	require.True(t, rows[0].Debit.Equal(dec("100.00")))
}

func TestAccountTotals_InclusiveBounds(t *testing.T) {
	s := New()
	accs := seedAccounts(t, s, "1100", "4100")
	post(t, s, uuid.New(), date(2026, 3, 15),
		book.JournalEntry{AccountID: accs["1100"].ID, Debit: dec("10.00")},
		book.JournalEntry{AccountID: accs["4100"].ID, Credit: dec("10.00")},
	)

	day := date(2026, 3, 15)
	rows, err := s.AccountTotals(context.Background(), &day, &day)
	require.NoError(t, err)
	require.True(t, rows[0].Debit.Equal(dec("10.00")))
}

func TestAccountTotals_OrphanEntryAlwaysCounts(t *testing.T) {
	s := New()
	accs := seedAccounts(t, s, "1100")
	_, err := s.CreateEntry(context.Background(), book.JournalEntry{
		ID: uuid.New(), TransactionID: uuid.New(), AccountID: accs["1100"].ID, Debit: dec("7.00"),
	})
	require.NoError(t, err)

	from, to := date(2030, 1, 1), date(2030, 1, 2)
	rows, err := s.AccountTotals(context.Background(), &from, &to)
	require.NoError(t, err)
	require.True(t, rows[0].Debit.Equal(dec("7.00")))
}

func TestListTransactions_Filters(t *testing.T) {
	s := New()
	accs := seedAccounts(t, s, "1100", "4100")
	periodA, periodB := uuid.New(), uuid.New()
	post(t, s, periodA, date(2026, 1, 10),
		book.JournalEntry{AccountID: accs["1100"].ID, Debit: dec("1.00")},
		book.JournalEntry{AccountID: accs["4100"].ID, Credit: dec("1.00")},
	)
	post(t, s, periodB, date(2026, 6, 10),
		book.JournalEntry{AccountID: accs["1100"].ID, Debit: dec("2.00")},
		book.JournalEntry{AccountID: accs["4100"].ID, Credit: dec("2.00")},
	)

	all, err := s.ListTransactions(context.Background(), transaction.Filter{})
	require.NoError(t, err)
	require.Len(t, all, 2)

	got, err := s.ListTransactions(context.Background(), transaction.Filter{PeriodID: &periodA})
	require.NoError(t, err)
	require.Len(t, got, 1)

	from := date(2026, 3, 1)
	got, err = s.ListTransactions(context.Background(), transaction.Filter{DateFrom: &from})
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, date(2026, 6, 10), got[0].Date)
}

func TestJournalRows_OrderedAndScoped(t *testing.T) {
	s := New()
	accs := seedAccounts(t, s, "1100", "4100")
	periodA, periodB := uuid.New(), uuid.New()
	post(t, s, periodB, date(2026, 6, 1),
		book.JournalEntry{AccountID: accs["1100"].ID, Debit: dec("5.00")},
		book.JournalEntry{AccountID: accs["4100"].ID, Credit: dec("5.00")},
	)
	post(t, s, periodA, date(2026, 1, 1),
		book.JournalEntry{AccountID: accs["1100"].ID, Debit: dec("3.00")},
		book.JournalEntry{AccountID: accs["4100"].ID, Credit: dec("3.00")},
	)

	rows, err := s.JournalRows(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	require.Equal(t, date(2026, 1, 1), rows[0].Date)
	require.Equal(t, date(2026, 6, 1), rows[3].Date)

	rows, err = s.JournalRows(context.Background(), &periodA)
	require.NoError(t, err)
	require.Len(t, rows, 2)
}

func TestPeriodActivity(t *testing.T) {
	s := New()
	accs := seedAccounts(t, s, "1100", "4100")
	p, err := s.CreatePeriod(context.Background(), book.Period{
		ID: uuid.New(), Start: date(2026, 1, 1), End: date(2026, 12, 31),
		Kind: book.PeriodAnnual, State: book.PeriodOpen,
	})
	require.NoError(t, err)
	post(t, s, p.ID, date(2026, 2, 1),
		book.JournalEntry{AccountID: accs["1100"].ID, Debit: dec("20.00")},
		book.JournalEntry{AccountID: accs["4100"].ID, Credit: dec("20.00")},
	)

	activity, err := s.PeriodActivity(context.Background(), p.ID)
	require.NoError(t, err)
	require.Len(t, activity, 2)
	require.Equal(t, "1100", activity[0].Code)
	require.True(t, activity[0].Debit.Equal(dec("20.00")))

	_, err = s.PeriodActivity(context.Background(), uuid.New())
	require.ErrorIs(t, err, errs.ErrNotFound)
}

func TestSeed_ProducesBalancedBook(t *testing.T) {
	s := New()
	require.NoError(t, s.Seed(context.Background()))

	rows, err := s.AccountTotals(context.Background(), nil, nil)
	require.NoError(t, err)
	require.Len(t, rows, 5)

	debit, credit := decimal.Zero, decimal.Zero
	for _, r := range rows {
		debit = debit.Add(r.Debit)
		credit = credit.Add(r.Credit)
	}
	require.True(t, debit.Equal(credit))

	clients, err := s.ListClients(context.Background())
	require.NoError(t, err)
	require.Len(t, clients, 1)
}

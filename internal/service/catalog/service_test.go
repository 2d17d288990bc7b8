package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/davramirez/contabook/internal/book"
	"github.com/davramirez/contabook/internal/errs"
)

type stubStore struct {
	accounts map[uuid.UUID]book.Account
	byCode   map[string]uuid.UUID
	periods  map[uuid.UUID]book.Period
}

func newStubStore() *stubStore {
	return &stubStore{
		accounts: map[uuid.UUID]book.Account{},
		byCode:   map[string]uuid.UUID{},
		periods:  map[uuid.UUID]book.Period{},
	}
}

func (s *stubStore) ListAccounts(ctx context.Context) ([]book.Account, error) {
	var out []book.Account
	for _, a := range s.accounts {
		out = append(out, a)
	}
	return out, nil
}

func (s *stubStore) GetAccount(ctx context.Context, id uuid.UUID) (book.Account, error) {
	a, ok := s.accounts[id]
	if !ok {
		return book.Account{}, errs.ErrNotFound
	}
	return a, nil
}

func (s *stubStore) AccountByCode(ctx context.Context, code string) (book.Account, error) {
	id, ok := s.byCode[code]
	if !ok {
		return book.Account{}, errs.ErrNotFound
	}
	return s.accounts[id], nil
}

func (s *stubStore) ListPeriods(ctx context.Context) ([]book.Period, error) {
	var out []book.Period
	for _, p := range s.periods {
		out = append(out, p)
	}
	return out, nil
}

func (s *stubStore) GetPeriod(ctx context.Context, id uuid.UUID) (book.Period, error) {
	p, ok := s.periods[id]
	if !ok {
		return book.Period{}, errs.ErrNotFound
	}
	return p, nil
}

func (s *stubStore) CreateAccount(ctx context.Context, a book.Account) (book.Account, error) {
	s.accounts[a.ID] = a
	s.byCode[a.Code] = a.ID
	return a, nil
}

func (s *stubStore) CreatePeriod(ctx context.Context, p book.Period) (book.Period, error) {
	s.periods[p.ID] = p
	return p, nil
}

func (s *stubStore) UpdatePeriod(ctx context.Context, p book.Period) (book.Period, error) {
	s.periods[p.ID] = p
	return p, nil
}

func TestCreateAccount_Valid(t *testing.T) {
	store := newStubStore()
	svc := New(store, store)

	a, err := svc.CreateAccount(context.Background(), book.Account{
		Code: "1100", Name: "Cash", Classification: book.ClassAsset,
	})
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, a.ID)
}

func TestCreateAccount_DuplicateCode(t *testing.T) {
	store := newStubStore()
	svc := New(store, store)

	_, err := svc.CreateAccount(context.Background(), book.Account{
		Code: "1100", Name: "Cash", Classification: book.ClassAsset,
	})
	require.NoError(t, err)

	_, err = svc.CreateAccount(context.Background(), book.Account{
		Code: "1100", Name: "Petty Cash", Classification: book.ClassAsset,
	})
	require.ErrorIs(t, err, errs.ErrConflict)
}

func TestCreateAccount_Invalid(t *testing.T) {
	store := newStubStore()
	svc := New(store, store)

	_, err := svc.CreateAccount(context.Background(), book.Account{Name: "Cash", Classification: book.ClassAsset})
	require.ErrorIs(t, err, errs.ErrInvalidParameter)

	_, err = svc.CreateAccount(context.Background(), book.Account{Code: "1100", Classification: book.ClassAsset})
	require.ErrorIs(t, err, errs.ErrInvalidParameter)

	_, err = svc.CreateAccount(context.Background(), book.Account{Code: "1100", Name: "Cash", Classification: "reserve"})
	require.ErrorIs(t, err, errs.ErrInvalidParameter)
}

func TestCreatePeriod_OpensByDefault(t *testing.T) {
	store := newStubStore()
	svc := New(store, store)

	p, err := svc.CreatePeriod(context.Background(), book.Period{
		Start: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC),
		Kind:  book.PeriodMonthly,
		State: book.PeriodClosed, // ignored, new periods always open
	})
	require.NoError(t, err)
	require.Equal(t, book.PeriodOpen, p.State)
}

func TestCreatePeriod_InvalidRange(t *testing.T) {
	store := newStubStore()
	svc := New(store, store)

	_, err := svc.CreatePeriod(context.Background(), book.Period{
		Start: time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		Kind:  book.PeriodMonthly,
	})
	require.ErrorIs(t, err, errs.ErrInvalidParameter)

	_, err = svc.CreatePeriod(context.Background(), book.Period{
		Start: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC),
		Kind:  "weekly",
	})
	require.ErrorIs(t, err, errs.ErrInvalidParameter)
}

func TestClosePeriod(t *testing.T) {
	store := newStubStore()
	svc := New(store, store)

	p, err := svc.CreatePeriod(context.Background(), book.Period{
		Start: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC),
		Kind:  book.PeriodMonthly,
	})
	require.NoError(t, err)

	closed, err := svc.ClosePeriod(context.Background(), p.ID)
	require.NoError(t, err)
	require.Equal(t, book.PeriodClosed, closed.State)

	_, err = svc.ClosePeriod(context.Background(), p.ID)
	require.ErrorIs(t, err, errs.ErrConflict)
}

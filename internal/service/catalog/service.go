// Package catalog implements the chart-of-accounts and accounting-period
// rules: unique non-empty account codes, valid classifications, ordered
// period dates, and the open/closed period lifecycle.
package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/davramirez/contabook/internal/book"
	"github.com/davramirez/contabook/internal/errs"
)

// Repo defines read operations needed by the service.
type Repo interface {
	ListAccounts(ctx context.Context) ([]book.Account, error)
	GetAccount(ctx context.Context, id uuid.UUID) (book.Account, error)
	AccountByCode(ctx context.Context, code string) (book.Account, error)
	ListPeriods(ctx context.Context) ([]book.Period, error)
	GetPeriod(ctx context.Context, id uuid.UUID) (book.Period, error)
}

// Writer defines write operations needed by the service.
type Writer interface {
	CreateAccount(ctx context.Context, a book.Account) (book.Account, error)
	CreatePeriod(ctx context.Context, p book.Period) (book.Period, error)
	UpdatePeriod(ctx context.Context, p book.Period) (book.Period, error)
}

// Service exposes chart and period management.
type Service interface {
	CreateAccount(ctx context.Context, a book.Account) (book.Account, error)
	ListAccounts(ctx context.Context) ([]book.Account, error)
	GetAccount(ctx context.Context, id uuid.UUID) (book.Account, error)

	CreatePeriod(ctx context.Context, p book.Period) (book.Period, error)
	ListPeriods(ctx context.Context) ([]book.Period, error)
	GetPeriod(ctx context.Context, id uuid.UUID) (book.Period, error)
	ClosePeriod(ctx context.Context, id uuid.UUID) (book.Period, error)
}

type service struct {
	repo   Repo
	writer Writer
}

// New constructs the catalog service.
func New(repo Repo, writer Writer) Service { return &service{repo: repo, writer: writer} }

func (s *service) CreateAccount(ctx context.Context, a book.Account) (book.Account, error) {
	if a.Code == "" {
		return book.Account{}, fmt.Errorf("%w: account code is required", errs.ErrInvalidParameter)
	}
	if a.Name == "" {
		return book.Account{}, fmt.Errorf("%w: account name is required", errs.ErrInvalidParameter)
	}
	if !a.Classification.Valid() {
		return book.Account{}, fmt.Errorf("%w: unknown classification %q", errs.ErrInvalidParameter, a.Classification)
	}
	if _, err := s.repo.AccountByCode(ctx, a.Code); err == nil {
		return book.Account{}, fmt.Errorf("%w: account code %q already exists", errs.ErrConflict, a.Code)
	} else if !errors.Is(err, errs.ErrNotFound) {
		return book.Account{}, err
	}
	a.ID = uuid.New()
	return s.writer.CreateAccount(ctx, a)
}

func (s *service) ListAccounts(ctx context.Context) ([]book.Account, error) {
	return s.repo.ListAccounts(ctx)
}

func (s *service) GetAccount(ctx context.Context, id uuid.UUID) (book.Account, error) {
	return s.repo.GetAccount(ctx, id)
}

func (s *service) CreatePeriod(ctx context.Context, p book.Period) (book.Period, error) {
	if !p.Kind.Valid() {
		return book.Period{}, fmt.Errorf("%w: unknown period kind %q", errs.ErrInvalidParameter, p.Kind)
	}
	if p.Start.IsZero() || p.End.IsZero() {
		return book.Period{}, fmt.Errorf("%w: period start and end are required", errs.ErrInvalidParameter)
	}
	if !p.End.After(p.Start) {
		return book.Period{}, fmt.Errorf("%w: period end must be after start", errs.ErrInvalidParameter)
	}
	p.ID = uuid.New()
	p.State = book.PeriodOpen
	return s.writer.CreatePeriod(ctx, p)
}

func (s *service) ListPeriods(ctx context.Context) ([]book.Period, error) {
	return s.repo.ListPeriods(ctx)
}

func (s *service) GetPeriod(ctx context.Context, id uuid.UUID) (book.Period, error) {
	return s.repo.GetPeriod(ctx, id)
}

// ClosePeriod transitions a period to closed. Closing an already-closed
// period is a conflict, not a no-op, so callers notice double submissions.
func (s *service) ClosePeriod(ctx context.Context, id uuid.UUID) (book.Period, error) {
	p, err := s.repo.GetPeriod(ctx, id)
	if err != nil {
		return book.Period{}, err
	}
	if p.State == book.PeriodClosed {
		return book.Period{}, fmt.Errorf("%w: period already closed", errs.ErrConflict)
	}
	p.State = book.PeriodClosed
	return s.writer.UpdatePeriod(ctx, p)
}

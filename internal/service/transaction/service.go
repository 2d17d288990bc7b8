// Package transaction implements posting: a transaction and its journal
// entries commit as one unit of work, and deletion removes dependent entries
// first inside a single atomic commit rather than leaning on storage-level
// cascades.
package transaction

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/davramirez/contabook/internal/book"
	"github.com/davramirez/contabook/internal/errs"
	"github.com/davramirez/contabook/internal/service/entry"
)

// Repo defines read operations needed by the service.
type Repo interface {
	GetPeriod(ctx context.Context, id uuid.UUID) (book.Period, error)
	GetAccount(ctx context.Context, id uuid.UUID) (book.Account, error)
	GetTransaction(ctx context.Context, id uuid.UUID) (book.Transaction, error)
	ListTransactions(ctx context.Context, f Filter) ([]book.Transaction, error)
}

// Writer defines the atomic write operations needed by the service. Both
// methods are all-or-nothing in every store implementation.
type Writer interface {
	CreateTransaction(ctx context.Context, tx book.Transaction, entries []book.JournalEntry) (book.Transaction, []book.JournalEntry, error)
	DeleteTransaction(ctx context.Context, id uuid.UUID) error
}

// Filter narrows transaction listings. Nil fields match everything.
type Filter struct {
	DateFrom *time.Time
	DateTo   *time.Time
	PeriodID *uuid.UUID
	Type     *book.TransactionType
}

// Line is one posting within a new transaction.
type Line struct {
	AccountID uuid.UUID
	Debit     decimal.Decimal
	Credit    decimal.Decimal
}

// Service exposes transaction posting and lifecycle.
type Service interface {
	Create(ctx context.Context, tx book.Transaction, lines []Line) (book.Transaction, []book.JournalEntry, error)
	Get(ctx context.Context, id uuid.UUID) (book.Transaction, error)
	List(ctx context.Context, f Filter) ([]book.Transaction, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo   Repo
	writer Writer
}

// New constructs the transaction service.
func New(repo Repo, writer Writer) Service { return &service{repo: repo, writer: writer} }

func (s *service) Create(ctx context.Context, tx book.Transaction, lines []Line) (book.Transaction, []book.JournalEntry, error) {
	if !tx.Type.Valid() {
		return book.Transaction{}, nil, fmt.Errorf("%w: transaction type must be income or expense", errs.ErrInvalidParameter)
	}
	if tx.Currency == "" {
		return book.Transaction{}, nil, fmt.Errorf("%w: currency is required", errs.ErrInvalidParameter)
	}
	if tx.Description == "" {
		return book.Transaction{}, nil, fmt.Errorf("%w: description is required", errs.ErrInvalidParameter)
	}
	if tx.Date.IsZero() {
		return book.Transaction{}, nil, fmt.Errorf("%w: date is required", errs.ErrInvalidParameter)
	}
	period, err := s.repo.GetPeriod(ctx, tx.PeriodID)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return book.Transaction{}, nil, fmt.Errorf("%w: period %s", errs.ErrReferenceNotFound, tx.PeriodID)
		}
		return book.Transaction{}, nil, err
	}
	if period.State == book.PeriodClosed {
		return book.Transaction{}, nil, fmt.Errorf("%w: period %s", errs.ErrPeriodClosed, period.ID)
	}

	entries := make([]book.JournalEntry, 0, len(lines))
	txID := uuid.New()
	for i, ln := range lines {
		if err := entry.ValidateAmounts(ln.Debit, ln.Credit); err != nil {
			return book.Transaction{}, nil, fmt.Errorf("line %d: %w", i, err)
		}
		if _, err := s.repo.GetAccount(ctx, ln.AccountID); err != nil {
			if errors.Is(err, errs.ErrNotFound) {
				return book.Transaction{}, nil, fmt.Errorf("line %d: %w: account %s", i, errs.ErrReferenceNotFound, ln.AccountID)
			}
			return book.Transaction{}, nil, err
		}
		entries = append(entries, book.JournalEntry{
			ID:            uuid.New(),
			TransactionID: txID,
			AccountID:     ln.AccountID,
			Debit:         ln.Debit,
			Credit:        ln.Credit,
		})
	}

	tx.ID = txID
	tx.CreatedAt = time.Now().UTC()
	return s.writer.CreateTransaction(ctx, tx, entries)
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (book.Transaction, error) {
	return s.repo.GetTransaction(ctx, id)
}

func (s *service) List(ctx context.Context, f Filter) ([]book.Transaction, error) {
	return s.repo.ListTransactions(ctx, f)
}

// Delete removes the transaction and all of its entries in one unit of work.
func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.GetTransaction(ctx, id); err != nil {
		return err
	}
	return s.writer.DeleteTransaction(ctx, id)
}

// Package entry implements the journal entry rules: every entry carries a
// positive amount on exactly one side, and always references an existing
// transaction and account. The same rules run on create and again on update
// against the post-update values.
package entry

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/davramirez/contabook/internal/book"
	"github.com/davramirez/contabook/internal/errs"
)

// Repo defines read operations needed by the service.
type Repo interface {
	GetTransaction(ctx context.Context, id uuid.UUID) (book.Transaction, error)
	GetAccount(ctx context.Context, id uuid.UUID) (book.Account, error)
	GetEntry(ctx context.Context, id uuid.UUID) (book.JournalEntry, error)
	EntriesByTransaction(ctx context.Context, transactionID uuid.UUID) ([]book.JournalEntry, error)
}

// Writer defines write operations needed by the service.
type Writer interface {
	CreateEntry(ctx context.Context, e book.JournalEntry) (book.JournalEntry, error)
	UpdateEntry(ctx context.Context, e book.JournalEntry) (book.JournalEntry, error)
	DeleteEntry(ctx context.Context, id uuid.UUID) error
}

// Service exposes validation and CRUD for journal entries.
type Service interface {
	Create(ctx context.Context, e book.JournalEntry) (book.JournalEntry, error)
	Update(ctx context.Context, id uuid.UUID, patch Patch) (book.JournalEntry, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Get(ctx context.Context, id uuid.UUID) (book.JournalEntry, error)
	ListByTransaction(ctx context.Context, transactionID uuid.UUID) ([]book.JournalEntry, error)
}

// Patch holds optional updates to an entry. Nil fields keep current values;
// the debit/credit rule is re-checked against the merged result.
type Patch struct {
	TransactionID *uuid.UUID
	AccountID     *uuid.UUID
	Debit         *decimal.Decimal
	Credit        *decimal.Decimal
}

type service struct {
	repo   Repo
	writer Writer
}

// New constructs the entry service.
func New(repo Repo, writer Writer) Service { return &service{repo: repo, writer: writer} }

// ValidateAmounts enforces the one-sided posting rule: exactly one of
// debit/credit strictly positive, the other exactly zero. Shared with the
// transaction service, which validates whole postings before committing.
func ValidateAmounts(debit, credit decimal.Decimal) error {
	if debit.IsNegative() || credit.IsNegative() {
		return fmt.Errorf("%w: debit and credit must be non-negative", errs.ErrInvalidEntry)
	}
	if debit.IsPositive() && credit.IsPositive() {
		return fmt.Errorf("%w: only one of debit or credit may be positive", errs.ErrInvalidEntry)
	}
	if debit.IsZero() && credit.IsZero() {
		return fmt.Errorf("%w: one of debit or credit must be greater than zero", errs.ErrInvalidEntry)
	}
	return nil
}

func (s *service) checkReferences(ctx context.Context, transactionID, accountID uuid.UUID) error {
	if _, err := s.repo.GetTransaction(ctx, transactionID); err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return fmt.Errorf("%w: transaction %s", errs.ErrReferenceNotFound, transactionID)
		}
		return err
	}
	if _, err := s.repo.GetAccount(ctx, accountID); err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return fmt.Errorf("%w: account %s", errs.ErrReferenceNotFound, accountID)
		}
		return err
	}
	return nil
}

func (s *service) Create(ctx context.Context, e book.JournalEntry) (book.JournalEntry, error) {
	if err := ValidateAmounts(e.Debit, e.Credit); err != nil {
		return book.JournalEntry{}, err
	}
	if err := s.checkReferences(ctx, e.TransactionID, e.AccountID); err != nil {
		return book.JournalEntry{}, err
	}
	e.ID = uuid.New()
	return s.writer.CreateEntry(ctx, e)
}

func (s *service) Update(ctx context.Context, id uuid.UUID, patch Patch) (book.JournalEntry, error) {
	current, err := s.repo.GetEntry(ctx, id)
	if err != nil {
		return book.JournalEntry{}, err
	}
	if patch.TransactionID != nil {
		current.TransactionID = *patch.TransactionID
	}
	if patch.AccountID != nil {
		current.AccountID = *patch.AccountID
	}
	if patch.Debit != nil {
		current.Debit = *patch.Debit
	}
	if patch.Credit != nil {
		current.Credit = *patch.Credit
	}
	// rules apply to the merged result, not the patch in isolation
	if err := ValidateAmounts(current.Debit, current.Credit); err != nil {
		return book.JournalEntry{}, err
	}
	if err := s.checkReferences(ctx, current.TransactionID, current.AccountID); err != nil {
		return book.JournalEntry{}, err
	}
	return s.writer.UpdateEntry(ctx, current)
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.GetEntry(ctx, id); err != nil {
		return err
	}
	return s.writer.DeleteEntry(ctx, id)
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (book.JournalEntry, error) {
	return s.repo.GetEntry(ctx, id)
}

func (s *service) ListByTransaction(ctx context.Context, transactionID uuid.UUID) ([]book.JournalEntry, error) {
	if _, err := s.repo.GetTransaction(ctx, transactionID); err != nil {
		return nil, err
	}
	return s.repo.EntriesByTransaction(ctx, transactionID)
}

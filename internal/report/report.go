// Package report produces the flat accounting reports: the general journal
// (chronological entry listing with its transaction and account context) and
// the per-period balance grouped by classification. Both ride the same join
// the ledger engine uses, minus the grouping algorithm.
package report

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/davramirez/contabook/internal/book"
	"github.com/davramirez/contabook/internal/errs"
)

// JournalRow is one general-journal line: an entry joined with its
// transaction and account.
type JournalRow struct {
	EntryID         uuid.UUID
	TransactionID   uuid.UUID
	Date            time.Time
	Description     string
	TransactionType book.TransactionType
	AccountCode     string
	AccountName     string
	Classification  book.Classification
	Debit           decimal.Decimal
	Credit          decimal.Decimal
}

// AccountActivity is one account's summed movements within a period.
type AccountActivity struct {
	Code           string
	Name           string
	Classification book.Classification
	Debit          decimal.Decimal
	Credit         decimal.Decimal
}

// Source is the storage contract for report reads. JournalRows returns rows
// ordered by transaction date then entry id; PeriodActivity returns
// errs.ErrNotFound when the period does not exist.
type Source interface {
	JournalRows(ctx context.Context, periodID *uuid.UUID) ([]JournalRow, error)
	PeriodActivity(ctx context.Context, periodID uuid.UUID) ([]AccountActivity, error)
}

// BalanceAccount is one account line of the balance report.
type BalanceAccount struct {
	Code           string
	Name           string
	Classification book.Classification
	Debit          decimal.Decimal
	Credit         decimal.Decimal
	Balance        decimal.Decimal
}

// BalanceSection groups balance lines under one classification for display.
type BalanceSection struct {
	Classification book.Classification
	Accounts       []BalanceAccount
	Debit          decimal.Decimal
	Credit         decimal.Decimal
}

// Balance is the per-period balance report. Unbalanced flags a non-zero
// debit/credit difference across the whole period; it is surfaced, never
// zeroed.
type Balance struct {
	PeriodID    uuid.UUID
	Sections    []BalanceSection
	TotalDebit  decimal.Decimal
	TotalCredit decimal.Decimal
	Difference  decimal.Decimal
	Unbalanced  bool
	GeneratedAt string
}

// sectionOrder fixes the classification display order of the balance report.
var sectionOrder = []book.Classification{
	book.ClassAsset,
	book.ClassLiability,
	book.ClassEquity,
	book.ClassIncome,
	book.ClassExpense,
}

// Service generates journal and balance reports.
type Service struct {
	src Source
	log *slog.Logger
	now func() time.Time
}

// New constructs the report service.
func New(src Source, log *slog.Logger) *Service {
	return &Service{src: src, log: log, now: time.Now}
}

// Journal returns the general journal, optionally restricted to a period.
func (s *Service) Journal(ctx context.Context, periodID *uuid.UUID) ([]JournalRow, error) {
	rows, err := s.src.JournalRows(ctx, periodID)
	if err != nil {
		s.log.Error("general journal read failed", "period_id", periodID, "err", err)
		return nil, fmt.Errorf("%w: journal query", errs.ErrAggregationFailure)
	}
	return rows, nil
}

// Balance aggregates debit/credit per account for one mandatory period and
// groups the result by classification.
func (s *Service) Balance(ctx context.Context, periodID uuid.UUID) (*Balance, error) {
	activity, err := s.src.PeriodActivity(ctx, periodID)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return nil, err
		}
		s.log.Error("balance read failed", "period_id", periodID, "err", err)
		return nil, fmt.Errorf("%w: balance query", errs.ErrAggregationFailure)
	}

	byClass := make(map[book.Classification][]BalanceAccount)
	totalDebit, totalCredit := decimal.Zero, decimal.Zero
	for _, a := range activity {
		acc := BalanceAccount{
			Code:           a.Code,
			Name:           a.Name,
			Classification: a.Classification,
			Debit:          a.Debit,
			Credit:         a.Credit,
			Balance:        a.Debit.Sub(a.Credit),
		}
		byClass[a.Classification] = append(byClass[a.Classification], acc)
		totalDebit = totalDebit.Add(a.Debit)
		totalCredit = totalCredit.Add(a.Credit)
	}

	sections := make([]BalanceSection, 0, len(byClass))
	for _, class := range sectionOrder {
		accounts, ok := byClass[class]
		if !ok {
			continue
		}
		sort.Slice(accounts, func(i, j int) bool { return accounts[i].Code < accounts[j].Code })
		sec := BalanceSection{Classification: class, Accounts: accounts}
		for _, a := range accounts {
			sec.Debit = sec.Debit.Add(a.Debit)
			sec.Credit = sec.Credit.Add(a.Credit)
		}
		sections = append(sections, sec)
	}

	diff := totalDebit.Sub(totalCredit)
	return &Balance{
		PeriodID:    periodID,
		Sections:    sections,
		TotalDebit:  totalDebit,
		TotalCredit: totalCredit,
		Difference:  diff.Abs(),
		Unbalanced:  !diff.IsZero(),
		GeneratedAt: s.now().UTC().Format("2006-01-02"),
	}, nil
}

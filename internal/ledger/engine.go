// Package ledger implements the general-ledger aggregation engine. It rolls
// leaf accounts up into account groups by code-prefix truncation, accumulates
// debit/credit totals and signed balances in exact decimal arithmetic, and
// produces a hierarchical report with a reconciliation summary.
package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/davramirez/contabook/internal/book"
	"github.com/davramirez/contabook/internal/errs"
)

// MaxGroupingWidth bounds the number of leading code characters a group key
// may take. Chart codes are short; anything past 10 is a caller mistake.
const MaxGroupingWidth = 10

// Params are the report inputs. DateFrom/DateTo are date-only (midnight UTC)
// and inclusive on both ends.
type Params struct {
	GroupingWidth int
	DateFrom      *time.Time
	DateTo        *time.Time
	IncludeDetail bool
}

// AccountTotal is one aggregated chart row from the store: an account with
// its summed movements over the filtered range. The store contract is an
// outer join, so every account in the chart appears exactly once, with zero
// totals when it has no postings in range.
type AccountTotal struct {
	Code           string
	Name           string
	Classification book.Classification
	Debit          decimal.Decimal
	Credit         decimal.Decimal
}

// Source is the single read the engine performs per report. Implementations
// must resolve the whole join in one snapshot-consistent read and coalesce
// missing aggregates to zero.
type Source interface {
	AccountTotals(ctx context.Context, from, to *time.Time) ([]AccountTotal, error)
}

// Subaccount is a leaf account's contribution to its group.
type Subaccount struct {
	Code           string
	Name           string
	Classification book.Classification
	TotalDebit     decimal.Decimal
	TotalCredit    decimal.Decimal
	Balance        decimal.Decimal
}

// Group is one account-group bucket. Balance is the sum of member balances,
// which equals TotalDebit - TotalCredit under exact arithmetic.
type Group struct {
	Code        string
	Name        string
	TotalDebit  decimal.Decimal
	TotalCredit decimal.Decimal
	Balance     decimal.Decimal
	Subaccounts []Subaccount
}

// Summary reconciles the report. Difference is |total debit - total credit|;
// a non-zero value signals unbalanced postings and is surfaced as-is.
type Summary struct {
	TotalGroups int
	TotalDebit  decimal.Decimal
	TotalCredit decimal.Decimal
	Difference  decimal.Decimal
	GeneratedAt string
}

// Filters echoes the parameters a report was generated with.
type Filters struct {
	GroupingWidth int
	DateFrom      *string
	DateTo        *string
	IncludeDetail bool
}

// Report is the full generated ledger.
type Report struct {
	Groups  []Group
	Summary Summary
	Filters Filters
}

// Engine generates ledger reports. It is stateless and safe for concurrent
// use; every call performs one read against the source.
type Engine struct {
	src Source
	log *slog.Logger
	now func() time.Time
}

// New constructs an engine over the given source.
func New(src Source, log *slog.Logger) *Engine {
	return &Engine{src: src, log: log, now: time.Now}
}

// Generate validates the parameters, reads the aggregated chart rows and
// assembles the grouped report. It returns ErrInvalidParameter before any
// query for bad inputs and ErrAggregationFailure when the read fails; a
// failed report is all-or-nothing.
func (e *Engine) Generate(ctx context.Context, p Params) (*Report, error) {
	today := dateOnly(e.now().UTC())
	if err := p.validate(today); err != nil {
		return nil, err
	}

	rows, err := e.src.AccountTotals(ctx, p.DateFrom, p.DateTo)
	if err != nil {
		e.log.Error("ledger aggregation read failed",
			"grouping_width", p.GroupingWidth,
			"date_from", isoDateOrEmpty(p.DateFrom),
			"date_to", isoDateOrEmpty(p.DateTo),
			"err", err)
		return nil, fmt.Errorf("%w: account totals query", errs.ErrAggregationFailure)
	}

	// The outer join guarantees every chart account is present, so group
	// names can be resolved from the same row set the totals come from
	// (keeps the whole report on one read snapshot).
	nameByCode := make(map[string]string, len(rows))
	for _, r := range rows {
		nameByCode[r.Code] = r.Name
	}

	buckets := make(map[string]*Group)
	for _, r := range rows {
		balance := r.Debit.Sub(r.Credit)
		key := GroupKey(r.Code, p.GroupingWidth)
		g, ok := buckets[key]
		if !ok {
			name, exact := nameByCode[key]
			if !exact {
				name = "Account Group " + key
			}
			g = &Group{Code: key, Name: name}
			buckets[key] = g
		}
		g.TotalDebit = g.TotalDebit.Add(r.Debit)
		g.TotalCredit = g.TotalCredit.Add(r.Credit)
		g.Balance = g.Balance.Add(balance)
		if p.IncludeDetail {
			g.Subaccounts = append(g.Subaccounts, Subaccount{
				Code:           r.Code,
				Name:           r.Name,
				Classification: r.Classification,
				TotalDebit:     r.Debit,
				TotalCredit:    r.Credit,
				Balance:        balance,
			})
		}
	}

	keys := make([]string, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	groups := make([]Group, 0, len(keys))
	totalDebit, totalCredit := decimal.Zero, decimal.Zero
	for _, k := range keys {
		g := buckets[k]
		if p.IncludeDetail {
			sort.Slice(g.Subaccounts, func(i, j int) bool {
				return g.Subaccounts[i].Code < g.Subaccounts[j].Code
			})
		}
		totalDebit = totalDebit.Add(g.TotalDebit)
		totalCredit = totalCredit.Add(g.TotalCredit)
		groups = append(groups, *g)
	}

	report := &Report{
		Groups: groups,
		Summary: Summary{
			TotalGroups: len(groups),
			TotalDebit:  totalDebit,
			TotalCredit: totalCredit,
			Difference:  totalDebit.Sub(totalCredit).Abs(),
			GeneratedAt: today.Format("2006-01-02"),
		},
		Filters: Filters{
			GroupingWidth: p.GroupingWidth,
			DateFrom:      isoDatePtr(p.DateFrom),
			DateTo:        isoDatePtr(p.DateTo),
			IncludeDetail: p.IncludeDetail,
		},
	}
	e.log.Info("ledger generated",
		"groups", len(groups),
		"grouping_width", p.GroupingWidth,
		"difference", report.Summary.Difference.StringFixed(2))
	return report, nil
}

// Summary generates the same report with detail forced off. Totals are
// identical to a detailed run with the same parameters.
func (e *Engine) Summary(ctx context.Context, p Params) (*Report, error) {
	p.IncludeDetail = false
	return e.Generate(ctx, p)
}

// GroupKey derives the account-group key for a code: the first width
// characters, right-padded with '0' when the code is shorter. The result
// always has length exactly width.
func GroupKey(code string, width int) string {
	runes := []rune(code)
	if len(runes) >= width {
		return string(runes[:width])
	}
	for len(runes) < width {
		runes = append(runes, '0')
	}
	return string(runes)
}

func (p Params) validate(today time.Time) error {
	if p.GroupingWidth < 1 || p.GroupingWidth > MaxGroupingWidth {
		return fmt.Errorf("%w: grouping width must be between 1 and %d", errs.ErrInvalidParameter, MaxGroupingWidth)
	}
	if p.DateFrom != nil && p.DateTo != nil && p.DateFrom.After(*p.DateTo) {
		return fmt.Errorf("%w: date_from must not be after date_to", errs.ErrInvalidParameter)
	}
	if p.DateFrom != nil && dateOnly(*p.DateFrom).After(today) {
		return fmt.Errorf("%w: date_from must not be in the future", errs.ErrInvalidParameter)
	}
	if p.DateTo != nil && dateOnly(*p.DateTo).After(today) {
		return fmt.Errorf("%w: date_to must not be in the future", errs.ErrInvalidParameter)
	}
	return nil
}

// dateOnly truncates t to midnight UTC so range checks compare calendar
// days, not instants.
func dateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func isoDatePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format("2006-01-02")
	return &s
}

func isoDateOrEmpty(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}

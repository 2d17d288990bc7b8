package report

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/davramirez/contabook/internal/book"
	"github.com/davramirez/contabook/internal/errs"
)

type stubSource struct {
	rows        []JournalRow
	activity    []AccountActivity
	journalErr  error
	activityErr error
}

func (s *stubSource) JournalRows(ctx context.Context, periodID *uuid.UUID) ([]JournalRow, error) {
	return s.rows, s.journalErr
}

func (s *stubSource) PeriodActivity(ctx context.Context, periodID uuid.UUID) ([]AccountActivity, error) {
	return s.activity, s.activityErr
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func testService(src Source) *Service {
	svc := New(src, slog.New(slog.NewTextHandler(io.Discard, nil)))
	svc.now = func() time.Time { return time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC) }
	return svc
}

func TestJournal_PassesThroughRows(t *testing.T) {
	rows := []JournalRow{
		{
			EntryID:     uuid.New(),
			Date:        time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC),
			Description: "office rent",
			AccountCode: "5100",
			Debit:       dec("850.00"),
			Credit:      decimal.Zero,
		},
	}
	svc := testService(&stubSource{rows: rows})

	got, err := svc.Journal(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, "office rent", got[0].Description)
}

func TestJournal_SourceFailureWrapped(t *testing.T) {
	svc := testService(&stubSource{journalErr: errors.New("connection refused")})

	_, err := svc.Journal(context.Background(), nil)
	require.ErrorIs(t, err, errs.ErrAggregationFailure)
	require.NotContains(t, err.Error(), "connection refused")
}

func TestBalance_GroupsByClassification(t *testing.T) {
	src := &stubSource{activity: []AccountActivity{
		{Code: "5100", Name: "Rent", Classification: book.ClassExpense, Debit: dec("850.00"), Credit: decimal.Zero},
		{Code: "1100", Name: "Cash", Classification: book.ClassAsset, Debit: dec("1000.00"), Credit: dec("850.00")},
		{Code: "4100", Name: "Sales", Classification: book.ClassIncome, Debit: decimal.Zero, Credit: dec("1000.00")},
	}}
	svc := testService(src)

	b, err := svc.Balance(context.Background(), uuid.New())
	require.NoError(t, err)
	require.Len(t, b.Sections, 3)
	require.Equal(t, book.ClassAsset, b.Sections[0].Classification)
	require.Equal(t, book.ClassIncome, b.Sections[1].Classification)
	require.Equal(t, book.ClassExpense, b.Sections[2].Classification)
	require.True(t, b.TotalDebit.Equal(dec("1850.00")))
	require.True(t, b.TotalCredit.Equal(dec("1850.00")))
	require.True(t, b.Difference.IsZero())
	require.False(t, b.Unbalanced)
	require.Equal(t, "2026-08-29", b.GeneratedAt)
}

func TestBalance_AccountsSortedByCode(t *testing.T) {
	src := &stubSource{activity: []AccountActivity{
		{Code: "1200", Name: "Bank", Classification: book.ClassAsset, Debit: dec("50.00")},
		{Code: "1100", Name: "Cash", Classification: book.ClassAsset, Debit: dec("10.00")},
	}}
	svc := testService(src)

	b, err := svc.Balance(context.Background(), uuid.New())
	require.NoError(t, err)
	require.Len(t, b.Sections, 1)
	require.Equal(t, "1100", b.Sections[0].Accounts[0].Code)
	require.Equal(t, "1200", b.Sections[0].Accounts[1].Code)
}

func TestBalance_UnbalancedSurfaced(t *testing.T) {
	src := &stubSource{activity: []AccountActivity{
		{Code: "1100", Classification: book.ClassAsset, Debit: dec("500.00")},
		{Code: "4100", Classification: book.ClassIncome, Credit: dec("480.00")},
	}}
	svc := testService(src)

	b, err := svc.Balance(context.Background(), uuid.New())
	require.NoError(t, err)
	require.True(t, b.Unbalanced)
	require.True(t, b.Difference.Equal(dec("20.00")))
}

func TestBalance_UnknownPeriod(t *testing.T) {
	svc := testService(&stubSource{activityErr: errs.ErrNotFound})

	_, err := svc.Balance(context.Background(), uuid.New())
	require.ErrorIs(t, err, errs.ErrNotFound)
}

func sampleRows() []JournalRow {
	txID := uuid.New()
	return []JournalRow{
		{
			EntryID:         uuid.New(),
			TransactionID:   txID,
			Date:            time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
			Description:     "march <sale>",
			TransactionType: book.TransactionIncome,
			AccountCode:     "1100",
			AccountName:     "Cash",
			Classification:  book.ClassAsset,
			Debit:           dec("250.00"),
			Credit:          decimal.Zero,
		},
		{
			EntryID:         uuid.New(),
			TransactionID:   txID,
			Date:            time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
			Description:     "march <sale>",
			TransactionType: book.TransactionIncome,
			AccountCode:     "4100",
			AccountName:     "Sales",
			Classification:  book.ClassIncome,
			Debit:           decimal.Zero,
			Credit:          dec("250.00"),
		},
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sampleRows()))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 4) // header + 2 rows + totals
	require.True(t, strings.HasPrefix(lines[0], "entry_id,transaction_id,date"))
	require.Contains(t, lines[1], "250.00")
	require.Contains(t, lines[3], "totals")
	require.True(t, strings.HasSuffix(lines[3], "250.00,250.00"))
}

func TestWriteHTML_EscapesAndTotals(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteHTML(&buf, sampleRows()))

	out := buf.String()
	require.Contains(t, out, "march &lt;sale&gt;")
	require.NotContains(t, out, "march <sale>")
	require.Contains(t, out, "250.00")
	require.Contains(t, out, "Totals")
}

func TestWriteExcel_ProducesWorkbook(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteExcel(&buf, sampleRows()))
	// xlsx files are zip archives
	require.Equal(t, []byte{'P', 'K'}, buf.Bytes()[:2])
}

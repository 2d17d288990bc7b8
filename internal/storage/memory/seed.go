package memory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/govalues/money"
	"github.com/shopspring/decimal"

	"github.com/davramirez/contabook/internal/book"
)

// Seed loads a small balanced book for local development: a five-account
// chart, one open annual period, two posted transactions and a billing
// client/product pair. Amounts are chosen so the ledger reconciles to zero.
func (s *Store) Seed(ctx context.Context) error {
	period := book.Period{
		ID:    uuid.New(),
		Start: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC),
		Kind:  book.PeriodAnnual,
		State: book.PeriodOpen,
	}
	if _, err := s.CreatePeriod(ctx, period); err != nil {
		return err
	}

	accounts := []book.Account{
		{ID: uuid.New(), Code: "1100", Name: "Cash", Classification: book.ClassAsset},
		{ID: uuid.New(), Code: "1200", Name: "Accounts Receivable", Classification: book.ClassAsset},
		{ID: uuid.New(), Code: "2100", Name: "Accounts Payable", Classification: book.ClassLiability},
		{ID: uuid.New(), Code: "4100", Name: "Sales Revenue", Classification: book.ClassIncome},
		{ID: uuid.New(), Code: "5100", Name: "Rent Expense", Classification: book.ClassExpense},
	}
	byCode := make(map[string]book.Account, len(accounts))
	for _, a := range accounts {
		if _, err := s.CreateAccount(ctx, a); err != nil {
			return err
		}
		byCode[a.Code] = a
	}

	sale := book.Transaction{
		ID:          uuid.New(),
		Date:        time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC),
		Description: "Consulting invoice F-2026-0001",
		Type:        book.TransactionIncome,
		Currency:    "USD",
		PeriodID:    period.ID,
		CreatedAt:   time.Now().UTC(),
	}
	saleEntries := []book.JournalEntry{
		{ID: uuid.New(), TransactionID: sale.ID, AccountID: byCode["1200"].ID, Debit: decimal.RequireFromString("1500.00"), Credit: decimal.Zero},
		{ID: uuid.New(), TransactionID: sale.ID, AccountID: byCode["4100"].ID, Debit: decimal.Zero, Credit: decimal.RequireFromString("1500.00")},
	}
	if _, _, err := s.CreateTransaction(ctx, sale, saleEntries); err != nil {
		return err
	}

	rent := book.Transaction{
		ID:          uuid.New(),
		Date:        time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC),
		Description: "February office rent",
		Type:        book.TransactionExpense,
		Currency:    "USD",
		PeriodID:    period.ID,
		CreatedAt:   time.Now().UTC(),
	}
	rentEntries := []book.JournalEntry{
		{ID: uuid.New(), TransactionID: rent.ID, AccountID: byCode["5100"].ID, Debit: decimal.RequireFromString("850.00"), Credit: decimal.Zero},
		{ID: uuid.New(), TransactionID: rent.ID, AccountID: byCode["1100"].ID, Debit: decimal.Zero, Credit: decimal.RequireFromString("850.00")},
	}
	if _, _, err := s.CreateTransaction(ctx, rent, rentEntries); err != nil {
		return err
	}

	client := book.Client{
		ID:           uuid.New(),
		Name:         "Acme Corp",
		TaxID:        "0801-199001-101-2",
		Email:        "billing@acme.example",
		Kind:         book.ClientCompany,
		Active:       true,
		RegisteredAt: time.Now().UTC(),
	}
	if _, err := s.CreateClient(ctx, client); err != nil {
		return err
	}

	price, err := money.NewAmountFromMinorUnits("USD", 5000)
	if err != nil {
		return err
	}
	product := book.Product{
		ID:           uuid.New(),
		Code:         "SVC-01",
		Name:         "Consulting hour",
		Kind:         book.KindService,
		Category:     "services",
		UnitPrice:    price,
		Unit:         "hour",
		ApplyVAT:     true,
		Active:       true,
		RegisteredAt: time.Now().UTC(),
	}
	_, err = s.CreateProduct(ctx, product)
	return err
}

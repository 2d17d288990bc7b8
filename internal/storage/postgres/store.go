// Package postgres is the pgx-backed store. It maps the domain entities to
// SQL rows and keeps multi-row writes inside explicit transactions; the
// schema lives under db/migrations. Numeric amounts travel as text and are
// parsed into exact decimals on scan.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/govalues/money"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/davramirez/contabook/internal/book"
	"github.com/davramirez/contabook/internal/errs"
	"github.com/davramirez/contabook/internal/ledger"
	"github.com/davramirez/contabook/internal/report"
	"github.com/davramirez/contabook/internal/service/transaction"
)

// Store holds a pgx connection pool and implements the repository, writer,
// ledger source and report source interfaces. Safe for concurrent use.
type Store struct {
	pool *pgxpool.Pool
}

// Open establishes a pgx pool using the provided connection string and
// verifies connectivity before returning.
func Open(ctx context.Context, dsn string) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, err
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return &Store{pool: pool}, nil
}

// Close releases the underlying pool.
func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Ready pings the pool to verify connectivity.
func (s *Store) Ready(ctx context.Context) error { return s.pool.Ping(ctx) }

func scanDecimal(raw string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("parse numeric %q: %w", raw, err)
	}
	return d, nil
}

// --- accounts ---

func (s *Store) CreateAccount(ctx context.Context, a book.Account) (book.Account, error) {
	_, err := s.pool.Exec(ctx, `
		insert into accounts (id, code, name, classification)
		values ($1,$2,$3,$4)
	`, a.ID, a.Code, a.Name, a.Classification)
	if err != nil {
		return book.Account{}, err
	}
	return a, nil
}

func (s *Store) GetAccount(ctx context.Context, id uuid.UUID) (book.Account, error) {
	var a book.Account
	err := s.pool.QueryRow(ctx, `
		select id, code, name, classification from accounts where id = $1
	`, id).Scan(&a.ID, &a.Code, &a.Name, &a.Classification)
	if errors.Is(err, pgx.ErrNoRows) {
		return book.Account{}, errs.ErrNotFound
	}
	if err != nil {
		return book.Account{}, err
	}
	return a, nil
}

func (s *Store) AccountByCode(ctx context.Context, code string) (book.Account, error) {
	var a book.Account
	err := s.pool.QueryRow(ctx, `
		select id, code, name, classification from accounts where code = $1
	`, code).Scan(&a.ID, &a.Code, &a.Name, &a.Classification)
	if errors.Is(err, pgx.ErrNoRows) {
		return book.Account{}, errs.ErrNotFound
	}
	if err != nil {
		return book.Account{}, err
	}
	return a, nil
}

func (s *Store) ListAccounts(ctx context.Context) ([]book.Account, error) {
	rows, err := s.pool.Query(ctx, `
		select id, code, name, classification from accounts order by code
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]book.Account, 0)
	for rows.Next() {
		var a book.Account
		if err := rows.Scan(&a.ID, &a.Code, &a.Name, &a.Classification); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// --- periods ---

func (s *Store) CreatePeriod(ctx context.Context, p book.Period) (book.Period, error) {
	_, err := s.pool.Exec(ctx, `
		insert into periods (id, start_date, end_date, kind, state)
		values ($1,$2,$3,$4,$5)
	`, p.ID, p.Start, p.End, p.Kind, p.State)
	if err != nil {
		return book.Period{}, err
	}
	return p, nil
}

func (s *Store) UpdatePeriod(ctx context.Context, p book.Period) (book.Period, error) {
	ct, err := s.pool.Exec(ctx, `
		update periods set start_date=$1, end_date=$2, kind=$3, state=$4 where id=$5
	`, p.Start, p.End, p.Kind, p.State, p.ID)
	if err != nil {
		return book.Period{}, err
	}
	if ct.RowsAffected() == 0 {
		return book.Period{}, errs.ErrNotFound
	}
	return p, nil
}

func (s *Store) GetPeriod(ctx context.Context, id uuid.UUID) (book.Period, error) {
	var p book.Period
	err := s.pool.QueryRow(ctx, `
		select id, start_date, end_date, kind, state from periods where id = $1
	`, id).Scan(&p.ID, &p.Start, &p.End, &p.Kind, &p.State)
	if errors.Is(err, pgx.ErrNoRows) {
		return book.Period{}, errs.ErrNotFound
	}
	if err != nil {
		return book.Period{}, err
	}
	return p, nil
}

func (s *Store) ListPeriods(ctx context.Context) ([]book.Period, error) {
	rows, err := s.pool.Query(ctx, `
		select id, start_date, end_date, kind, state from periods order by start_date
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]book.Period, 0)
	for rows.Next() {
		var p book.Period
		if err := rows.Scan(&p.ID, &p.Start, &p.End, &p.Kind, &p.State); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// --- transactions and entries ---

// CreateTransaction inserts the transaction header and its entries in one
// database transaction.
func (s *Store) CreateTransaction(ctx context.Context, t book.Transaction, entries []book.JournalEntry) (book.Transaction, []book.JournalEntry, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return book.Transaction{}, nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()
	if _, err := tx.Exec(ctx, `
		insert into transactions (id, date, description, type, currency, period_id, created_at)
		values ($1,$2,$3,$4,$5,$6,$7)
	`, t.ID, t.Date, t.Description, t.Type, t.Currency, t.PeriodID, t.CreatedAt); err != nil {
		return book.Transaction{}, nil, err
	}
	for _, e := range entries {
		if _, err := tx.Exec(ctx, `
			insert into entries (id, transaction_id, account_id, debit, credit)
			values ($1,$2,$3,$4,$5)
		`, e.ID, e.TransactionID, e.AccountID, e.Debit.StringFixed(2), e.Credit.StringFixed(2)); err != nil {
			return book.Transaction{}, nil, fmt.Errorf("insert entry: %w", err)
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return book.Transaction{}, nil, err
	}
	return t, entries, nil
}

// DeleteTransaction removes the entries then the header inside one database
// transaction.
func (s *Store) DeleteTransaction(ctx context.Context, id uuid.UUID) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()
	if _, err := tx.Exec(ctx, `delete from entries where transaction_id = $1`, id); err != nil {
		return err
	}
	ct, err := tx.Exec(ctx, `delete from transactions where id = $1`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return tx.Commit(ctx)
}

func (s *Store) GetTransaction(ctx context.Context, id uuid.UUID) (book.Transaction, error) {
	var t book.Transaction
	err := s.pool.QueryRow(ctx, `
		select id, date, description, type, currency, period_id, created_at
		from transactions where id = $1
	`, id).Scan(&t.ID, &t.Date, &t.Description, &t.Type, &t.Currency, &t.PeriodID, &t.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return book.Transaction{}, errs.ErrNotFound
	}
	if err != nil {
		return book.Transaction{}, err
	}
	return t, nil
}

func (s *Store) ListTransactions(ctx context.Context, f transaction.Filter) ([]book.Transaction, error) {
	rows, err := s.pool.Query(ctx, `
		select id, date, description, type, currency, period_id, created_at
		from transactions
		where ($1::date is null or date >= $1)
		  and ($2::date is null or date <= $2)
		  and ($3::uuid is null or period_id = $3)
		  and ($4::text is null or type = $4)
		order by date, id
	`, f.DateFrom, f.DateTo, f.PeriodID, f.Type)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]book.Transaction, 0)
	for rows.Next() {
		var t book.Transaction
		if err := rows.Scan(&t.ID, &t.Date, &t.Description, &t.Type, &t.Currency, &t.PeriodID, &t.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (s *Store) CreateEntry(ctx context.Context, e book.JournalEntry) (book.JournalEntry, error) {
	_, err := s.pool.Exec(ctx, `
		insert into entries (id, transaction_id, account_id, debit, credit)
		values ($1,$2,$3,$4,$5)
	`, e.ID, e.TransactionID, e.AccountID, e.Debit.StringFixed(2), e.Credit.StringFixed(2))
	if err != nil {
		return book.JournalEntry{}, err
	}
	return e, nil
}

func (s *Store) UpdateEntry(ctx context.Context, e book.JournalEntry) (book.JournalEntry, error) {
	ct, err := s.pool.Exec(ctx, `
		update entries set transaction_id=$1, account_id=$2, debit=$3, credit=$4 where id=$5
	`, e.TransactionID, e.AccountID, e.Debit.StringFixed(2), e.Credit.StringFixed(2), e.ID)
	if err != nil {
		return book.JournalEntry{}, err
	}
	if ct.RowsAffected() == 0 {
		return book.JournalEntry{}, errs.ErrNotFound
	}
	return e, nil
}

func (s *Store) DeleteEntry(ctx context.Context, id uuid.UUID) error {
	ct, err := s.pool.Exec(ctx, `delete from entries where id = $1`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}

func (s *Store) GetEntry(ctx context.Context, id uuid.UUID) (book.JournalEntry, error) {
	var e book.JournalEntry
	var debit, credit string
	err := s.pool.QueryRow(ctx, `
		select id, transaction_id, account_id, debit::text, credit::text
		from entries where id = $1
	`, id).Scan(&e.ID, &e.TransactionID, &e.AccountID, &debit, &credit)
	if errors.Is(err, pgx.ErrNoRows) {
		return book.JournalEntry{}, errs.ErrNotFound
	}
	if err != nil {
		return book.JournalEntry{}, err
	}
	if e.Debit, err = scanDecimal(debit); err != nil {
		return book.JournalEntry{}, err
	}
	if e.Credit, err = scanDecimal(credit); err != nil {
		return book.JournalEntry{}, err
	}
	return e, nil
}

func (s *Store) EntriesByTransaction(ctx context.Context, txID uuid.UUID) ([]book.JournalEntry, error) {
	rows, err := s.pool.Query(ctx, `
		select id, transaction_id, account_id, debit::text, credit::text
		from entries where transaction_id = $1 order by id
	`, txID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]book.JournalEntry, 0)
	for rows.Next() {
		var e book.JournalEntry
		var debit, credit string
		if err := rows.Scan(&e.ID, &e.TransactionID, &e.AccountID, &debit, &credit); err != nil {
			return nil, err
		}
		if e.Debit, err = scanDecimal(debit); err != nil {
			return nil, err
		}
		if e.Credit, err = scanDecimal(credit); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// --- ledger source ---

// AccountTotals resolves the chart/entries outer join in a single statement.
// Accounts without postings in range come back with zero totals; entries
// whose transaction row is gone have a null date and always match.
func (s *Store) AccountTotals(ctx context.Context, from, to *time.Time) ([]ledger.AccountTotal, error) {
	rows, err := s.pool.Query(ctx, `
		select a.code, a.name, a.classification,
		       coalesce(sum(m.debit), 0)::text,
		       coalesce(sum(m.credit), 0)::text
		from accounts a
		left join (
			select e.account_id, e.debit, e.credit
			from entries e
			left join transactions t on t.id = e.transaction_id
			where t.date is null
			   or (($1::date is null or t.date >= $1) and ($2::date is null or t.date <= $2))
		) m on m.account_id = a.id
		group by a.code, a.name, a.classification
		order by a.code
	`, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]ledger.AccountTotal, 0)
	for rows.Next() {
		var r ledger.AccountTotal
		var debit, credit string
		if err := rows.Scan(&r.Code, &r.Name, &r.Classification, &debit, &credit); err != nil {
			return nil, err
		}
		if r.Debit, err = scanDecimal(debit); err != nil {
			return nil, err
		}
		if r.Credit, err = scanDecimal(credit); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// --- report source ---

func (s *Store) JournalRows(ctx context.Context, periodID *uuid.UUID) ([]report.JournalRow, error) {
	rows, err := s.pool.Query(ctx, `
		select e.id, t.id, t.date, t.description, t.type,
		       a.code, a.name, a.classification, e.debit::text, e.credit::text
		from entries e
		join transactions t on t.id = e.transaction_id
		join accounts a on a.id = e.account_id
		where ($1::uuid is null or t.period_id = $1)
		order by t.date, e.id
	`, periodID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]report.JournalRow, 0)
	for rows.Next() {
		var r report.JournalRow
		var debit, credit string
		if err := rows.Scan(&r.EntryID, &r.TransactionID, &r.Date, &r.Description, &r.TransactionType,
			&r.AccountCode, &r.AccountName, &r.Classification, &debit, &credit); err != nil {
			return nil, err
		}
		if r.Debit, err = scanDecimal(debit); err != nil {
			return nil, err
		}
		if r.Credit, err = scanDecimal(credit); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *Store) PeriodActivity(ctx context.Context, periodID uuid.UUID) ([]report.AccountActivity, error) {
	var exists bool
	if err := s.pool.QueryRow(ctx, `select exists (select 1 from periods where id = $1)`, periodID).Scan(&exists); err != nil {
		return nil, err
	}
	if !exists {
		return nil, errs.ErrNotFound
	}
	rows, err := s.pool.Query(ctx, `
		select a.code, a.name, a.classification,
		       coalesce(sum(e.debit), 0)::text,
		       coalesce(sum(e.credit), 0)::text
		from entries e
		join transactions t on t.id = e.transaction_id
		join accounts a on a.id = e.account_id
		where t.period_id = $1
		group by a.code, a.name, a.classification
		order by a.code
	`, periodID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]report.AccountActivity, 0)
	for rows.Next() {
		var r report.AccountActivity
		var debit, credit string
		if err := rows.Scan(&r.Code, &r.Name, &r.Classification, &debit, &credit); err != nil {
			return nil, err
		}
		if r.Debit, err = scanDecimal(debit); err != nil {
			return nil, err
		}
		if r.Credit, err = scanDecimal(credit); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// --- clients, products, invoices ---

func (s *Store) CreateClient(ctx context.Context, c book.Client) (book.Client, error) {
	_, err := s.pool.Exec(ctx, `
		insert into clients (id, name, tax_id, address, phone, email, kind, notes, active, registered_at)
		values ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
	`, c.ID, c.Name, c.TaxID, c.Address, c.Phone, c.Email, c.Kind, c.Notes, c.Active, c.RegisteredAt)
	if err != nil {
		return book.Client{}, err
	}
	return c, nil
}

func (s *Store) GetClient(ctx context.Context, id uuid.UUID) (book.Client, error) {
	var c book.Client
	err := s.pool.QueryRow(ctx, `
		select id, name, tax_id, address, phone, email, kind, notes, active, registered_at
		from clients where id = $1
	`, id).Scan(&c.ID, &c.Name, &c.TaxID, &c.Address, &c.Phone, &c.Email, &c.Kind, &c.Notes, &c.Active, &c.RegisteredAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return book.Client{}, errs.ErrNotFound
	}
	if err != nil {
		return book.Client{}, err
	}
	return c, nil
}

func (s *Store) ListClients(ctx context.Context) ([]book.Client, error) {
	rows, err := s.pool.Query(ctx, `
		select id, name, tax_id, address, phone, email, kind, notes, active, registered_at
		from clients order by name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]book.Client, 0)
	for rows.Next() {
		var c book.Client
		if err := rows.Scan(&c.ID, &c.Name, &c.TaxID, &c.Address, &c.Phone, &c.Email, &c.Kind, &c.Notes, &c.Active, &c.RegisteredAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *Store) CreateProduct(ctx context.Context, p book.Product) (book.Product, error) {
	minor, ok := p.UnitPrice.MinorUnits()
	if !ok {
		return book.Product{}, fmt.Errorf("%w: unit price out of range", errs.ErrInvalidParameter)
	}
	_, err := s.pool.Exec(ctx, `
		insert into products (id, code, name, description, kind, category, unit_price_minor, currency, unit, apply_vat, active, registered_at)
		values ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
	`, p.ID, p.Code, p.Name, p.Description, p.Kind, p.Category, minor, p.UnitPrice.Curr().Code(), p.Unit, p.ApplyVAT, p.Active, p.RegisteredAt)
	if err != nil {
		return book.Product{}, err
	}
	return p, nil
}

func (s *Store) GetProduct(ctx context.Context, id uuid.UUID) (book.Product, error) {
	row := s.pool.QueryRow(ctx, `
		select id, code, name, description, kind, category, unit_price_minor, currency, unit, apply_vat, active, registered_at
		from products where id = $1
	`, id)
	p, err := scanProduct(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return book.Product{}, errs.ErrNotFound
	}
	return p, err
}

func (s *Store) ListProducts(ctx context.Context) ([]book.Product, error) {
	rows, err := s.pool.Query(ctx, `
		select id, code, name, description, kind, category, unit_price_minor, currency, unit, apply_vat, active, registered_at
		from products order by name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]book.Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func scanProduct(row pgx.Row) (book.Product, error) {
	var p book.Product
	var minor int64
	var currency string
	if err := row.Scan(&p.ID, &p.Code, &p.Name, &p.Description, &p.Kind, &p.Category,
		&minor, &currency, &p.Unit, &p.ApplyVAT, &p.Active, &p.RegisteredAt); err != nil {
		return book.Product{}, err
	}
	price, err := money.NewAmountFromMinorUnits(currency, minor)
	if err != nil {
		return book.Product{}, err
	}
	p.UnitPrice = price
	return p, nil
}

// CreateInvoice inserts the invoice header and its lines in one database
// transaction.
func (s *Store) CreateInvoice(ctx context.Context, inv book.Invoice) (book.Invoice, error) {
	minor, ok := inv.Total.MinorUnits()
	if !ok {
		return book.Invoice{}, fmt.Errorf("%w: invoice total out of range", errs.ErrInvalidParameter)
	}
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return book.Invoice{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()
	if _, err := tx.Exec(ctx, `
		insert into invoices (id, number, client_id, transaction_id, total_minor, currency, issued_at)
		values ($1,$2,$3,$4,$5,$6,$7)
	`, inv.ID, inv.Number, inv.ClientID, inv.TransactionID, minor, inv.Total.Curr().Code(), inv.IssuedAt); err != nil {
		return book.Invoice{}, err
	}
	for _, ln := range inv.Lines {
		if _, err := tx.Exec(ctx, `
			insert into invoice_lines (id, invoice_id, product_id, description, quantity, unit_price, discount_pct, subtotal, vat, total)
			values ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		`, ln.ID, ln.InvoiceID, ln.ProductID, ln.Description, ln.Quantity.String(), ln.UnitPrice.StringFixed(2),
			ln.DiscountPct.String(), ln.Subtotal.StringFixed(2), ln.VAT.StringFixed(2), ln.Total.StringFixed(2)); err != nil {
			return book.Invoice{}, fmt.Errorf("insert invoice line: %w", err)
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return book.Invoice{}, err
	}
	return inv, nil
}

func (s *Store) GetInvoice(ctx context.Context, id uuid.UUID) (book.Invoice, error) {
	var inv book.Invoice
	var minor int64
	var currency string
	err := s.pool.QueryRow(ctx, `
		select id, number, client_id, transaction_id, total_minor, currency, issued_at
		from invoices where id = $1
	`, id).Scan(&inv.ID, &inv.Number, &inv.ClientID, &inv.TransactionID, &minor, &currency, &inv.IssuedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return book.Invoice{}, errs.ErrNotFound
	}
	if err != nil {
		return book.Invoice{}, err
	}
	if inv.Total, err = money.NewAmountFromMinorUnits(currency, minor); err != nil {
		return book.Invoice{}, err
	}
	if inv.Lines, err = s.invoiceLines(ctx, id); err != nil {
		return book.Invoice{}, err
	}
	return inv, nil
}

func (s *Store) ListInvoices(ctx context.Context) ([]book.Invoice, error) {
	rows, err := s.pool.Query(ctx, `
		select id, number, client_id, transaction_id, total_minor, currency, issued_at
		from invoices order by number
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]book.Invoice, 0)
	for rows.Next() {
		var inv book.Invoice
		var minor int64
		var currency string
		if err := rows.Scan(&inv.ID, &inv.Number, &inv.ClientID, &inv.TransactionID, &minor, &currency, &inv.IssuedAt); err != nil {
			return nil, err
		}
		if inv.Total, err = money.NewAmountFromMinorUnits(currency, minor); err != nil {
			return nil, err
		}
		out = append(out, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range out {
		if out[i].Lines, err = s.invoiceLines(ctx, out[i].ID); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (s *Store) invoiceLines(ctx context.Context, invoiceID uuid.UUID) ([]book.InvoiceLine, error) {
	rows, err := s.pool.Query(ctx, `
		select id, invoice_id, product_id, description, quantity::text, unit_price::text,
		       discount_pct::text, subtotal::text, vat::text, total::text
		from invoice_lines where invoice_id = $1 order by id
	`, invoiceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]book.InvoiceLine, 0)
	for rows.Next() {
		var ln book.InvoiceLine
		var qty, price, disc, sub, vat, total string
		if err := rows.Scan(&ln.ID, &ln.InvoiceID, &ln.ProductID, &ln.Description,
			&qty, &price, &disc, &sub, &vat, &total); err != nil {
			return nil, err
		}
		fields := []struct {
			dst *decimal.Decimal
			raw string
		}{
			{&ln.Quantity, qty}, {&ln.UnitPrice, price}, {&ln.DiscountPct, disc},
			{&ln.Subtotal, sub}, {&ln.VAT, vat}, {&ln.Total, total},
		}
		for _, f := range fields {
			if *f.dst, err = scanDecimal(f.raw); err != nil {
				return nil, err
			}
		}
		out = append(out, ln)
	}
	return out, rows.Err()
}

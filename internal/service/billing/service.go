// Package billing implements clients, the product catalog and invoice
// creation. Invoice line math runs in exact decimal (quantity, price,
// discount, VAT) and only converts to currency-tagged amounts at the edges.
package billing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/govalues/money"
	"github.com/shopspring/decimal"

	"github.com/davramirez/contabook/internal/book"
	"github.com/davramirez/contabook/internal/errs"
)

// vatRate is the flat VAT applied to lines of products flagged ApplyVAT.
var vatRate = decimal.RequireFromString("0.13")

// Repo defines read operations needed by the service.
type Repo interface {
	GetClient(ctx context.Context, id uuid.UUID) (book.Client, error)
	ListClients(ctx context.Context) ([]book.Client, error)
	GetProduct(ctx context.Context, id uuid.UUID) (book.Product, error)
	ListProducts(ctx context.Context) ([]book.Product, error)
	GetTransaction(ctx context.Context, id uuid.UUID) (book.Transaction, error)
	GetInvoice(ctx context.Context, id uuid.UUID) (book.Invoice, error)
	ListInvoices(ctx context.Context) ([]book.Invoice, error)
}

// Writer defines write operations needed by the service. CreateInvoice
// persists the invoice and its lines atomically.
type Writer interface {
	CreateClient(ctx context.Context, c book.Client) (book.Client, error)
	CreateProduct(ctx context.Context, p book.Product) (book.Product, error)
	CreateInvoice(ctx context.Context, inv book.Invoice) (book.Invoice, error)
}

// LineInput is one requested invoice line. UnitPrice overrides the catalog
// price when set; DiscountPct is a percentage (10 = 10%).
type LineInput struct {
	ProductID   uuid.UUID
	Description string
	Quantity    decimal.Decimal
	UnitPrice   *decimal.Decimal
	DiscountPct decimal.Decimal
}

// InvoiceInput is a requested invoice. The caller provides the document
// number; numbering policy lives outside this service.
type InvoiceInput struct {
	Number        string
	ClientID      uuid.UUID
	TransactionID uuid.UUID
	IssuedAt      time.Time
	Lines         []LineInput
}

// Service exposes billing operations.
type Service interface {
	CreateClient(ctx context.Context, c book.Client) (book.Client, error)
	ListClients(ctx context.Context) ([]book.Client, error)
	GetClient(ctx context.Context, id uuid.UUID) (book.Client, error)

	CreateProduct(ctx context.Context, p book.Product) (book.Product, error)
	ListProducts(ctx context.Context) ([]book.Product, error)
	GetProduct(ctx context.Context, id uuid.UUID) (book.Product, error)

	CreateInvoice(ctx context.Context, in InvoiceInput) (book.Invoice, error)
	ListInvoices(ctx context.Context) ([]book.Invoice, error)
	GetInvoice(ctx context.Context, id uuid.UUID) (book.Invoice, error)
}

type service struct {
	repo   Repo
	writer Writer
}

// New constructs the billing service.
func New(repo Repo, writer Writer) Service { return &service{repo: repo, writer: writer} }

func (s *service) CreateClient(ctx context.Context, c book.Client) (book.Client, error) {
	if c.Name == "" {
		return book.Client{}, fmt.Errorf("%w: client name is required", errs.ErrInvalidParameter)
	}
	if c.Kind == "" {
		c.Kind = book.ClientIndividual
	}
	c.ID = uuid.New()
	c.Active = true
	c.RegisteredAt = time.Now().UTC()
	return s.writer.CreateClient(ctx, c)
}

func (s *service) ListClients(ctx context.Context) ([]book.Client, error) {
	return s.repo.ListClients(ctx)
}

func (s *service) GetClient(ctx context.Context, id uuid.UUID) (book.Client, error) {
	return s.repo.GetClient(ctx, id)
}

func (s *service) CreateProduct(ctx context.Context, p book.Product) (book.Product, error) {
	if p.Name == "" {
		return book.Product{}, fmt.Errorf("%w: product name is required", errs.ErrInvalidParameter)
	}
	if p.Kind != book.KindProduct && p.Kind != book.KindService {
		return book.Product{}, fmt.Errorf("%w: unknown product kind %q", errs.ErrInvalidParameter, p.Kind)
	}
	p.ID = uuid.New()
	p.Active = true
	p.RegisteredAt = time.Now().UTC()
	return s.writer.CreateProduct(ctx, p)
}

func (s *service) ListProducts(ctx context.Context) ([]book.Product, error) {
	return s.repo.ListProducts(ctx)
}

func (s *service) GetProduct(ctx context.Context, id uuid.UUID) (book.Product, error) {
	return s.repo.GetProduct(ctx, id)
}

// CreateInvoice validates the referenced client, transaction and products,
// computes every line in exact decimal and persists the invoice atomically.
func (s *service) CreateInvoice(ctx context.Context, in InvoiceInput) (book.Invoice, error) {
	if in.Number == "" {
		return book.Invoice{}, fmt.Errorf("%w: invoice number is required", errs.ErrInvalidParameter)
	}
	if len(in.Lines) == 0 {
		return book.Invoice{}, fmt.Errorf("%w: at least one invoice line is required", errs.ErrInvalidParameter)
	}
	client, err := s.repo.GetClient(ctx, in.ClientID)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return book.Invoice{}, fmt.Errorf("%w: client %s", errs.ErrReferenceNotFound, in.ClientID)
		}
		return book.Invoice{}, err
	}
	if !client.Active {
		return book.Invoice{}, fmt.Errorf("%w: client %s is inactive", errs.ErrInvalidParameter, client.Name)
	}
	tx, err := s.repo.GetTransaction(ctx, in.TransactionID)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return book.Invoice{}, fmt.Errorf("%w: transaction %s", errs.ErrReferenceNotFound, in.TransactionID)
		}
		return book.Invoice{}, err
	}

	invID := uuid.New()
	lines := make([]book.InvoiceLine, 0, len(in.Lines))
	grandTotal := decimal.Zero
	for i, ln := range in.Lines {
		product, err := s.repo.GetProduct(ctx, ln.ProductID)
		if err != nil {
			if errors.Is(err, errs.ErrNotFound) {
				return book.Invoice{}, fmt.Errorf("line %d: %w: product %s", i, errs.ErrReferenceNotFound, ln.ProductID)
			}
			return book.Invoice{}, err
		}
		if !product.Active {
			return book.Invoice{}, fmt.Errorf("line %d: %w: product %s is inactive", i, errs.ErrInvalidParameter, product.Name)
		}
		if !ln.Quantity.IsPositive() {
			return book.Invoice{}, fmt.Errorf("line %d: %w: quantity must be positive", i, errs.ErrInvalidParameter)
		}
		if ln.DiscountPct.IsNegative() || ln.DiscountPct.GreaterThan(decimal.NewFromInt(100)) {
			return book.Invoice{}, fmt.Errorf("line %d: %w: discount must be between 0 and 100", i, errs.ErrInvalidParameter)
		}

		price, err := amountToDecimal(product.UnitPrice)
		if err != nil {
			return book.Invoice{}, fmt.Errorf("line %d: %w: %v", i, errs.ErrInvalidParameter, err)
		}
		if ln.UnitPrice != nil {
			price = *ln.UnitPrice
		}
		line := computeLine(ln.Quantity, price, ln.DiscountPct, product.ApplyVAT)
		line.ID = uuid.New()
		line.InvoiceID = invID
		line.ProductID = product.ID
		line.Description = ln.Description
		lines = append(lines, line)
		grandTotal = grandTotal.Add(line.Total)
	}

	total, err := decimalToAmount(tx.Currency, grandTotal)
	if err != nil {
		return book.Invoice{}, fmt.Errorf("%w: invoice total: %s", errs.ErrInvalidParameter, err)
	}
	issued := in.IssuedAt
	if issued.IsZero() {
		issued = time.Now().UTC()
	}
	inv := book.Invoice{
		ID:            invID,
		Number:        in.Number,
		ClientID:      client.ID,
		TransactionID: tx.ID,
		Total:         total,
		IssuedAt:      issued,
		Lines:         lines,
	}
	return s.writer.CreateInvoice(ctx, inv)
}

func (s *service) ListInvoices(ctx context.Context) ([]book.Invoice, error) {
	return s.repo.ListInvoices(ctx)
}

func (s *service) GetInvoice(ctx context.Context, id uuid.UUID) (book.Invoice, error) {
	return s.repo.GetInvoice(ctx, id)
}

// computeLine derives subtotal, VAT and total for one line:
// subtotal = qty*price - discount, VAT = 13% of subtotal when applicable,
// total = subtotal + VAT. Intermediate rounding matches the source data's
// two fractional digits.
func computeLine(qty, price, discountPct decimal.Decimal, applyVAT bool) book.InvoiceLine {
	gross := price.Mul(qty)
	discount := gross.Mul(discountPct.Div(decimal.NewFromInt(100))).Round(2)
	subtotal := gross.Sub(discount)
	vat := decimal.Zero
	if applyVAT {
		vat = subtotal.Mul(vatRate).Round(2)
	}
	return book.InvoiceLine{
		Quantity:    qty,
		UnitPrice:   price,
		DiscountPct: discountPct,
		Subtotal:    subtotal,
		VAT:         vat,
		Total:       subtotal.Add(vat),
	}
}

// amountToDecimal converts a currency-tagged amount to a plain decimal in
// the currency's minor-unit scale.
func amountToDecimal(a money.Amount) (decimal.Decimal, error) {
	minor, ok := a.MinorUnits()
	if !ok {
		return decimal.Decimal{}, fmt.Errorf("amount %v exceeds minor-unit range", a)
	}
	return decimal.New(minor, -int32(a.Curr().Scale())), nil
}

// decimalToAmount converts a decimal back to a currency-tagged amount,
// rounding to the currency's minor-unit scale.
func decimalToAmount(currency string, d decimal.Decimal) (money.Amount, error) {
	curr, err := money.ParseCurr(currency)
	if err != nil {
		return money.Amount{}, err
	}
	scale := int32(curr.Scale())
	minor := d.Round(scale).Shift(scale).IntPart()
	return money.NewAmountFromMinorUnits(currency, minor)
}

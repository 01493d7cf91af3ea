package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dukerupert/tradedesk/internal/domain"
	"github.com/dukerupert/tradedesk/internal/service"
	"github.com/dukerupert/tradedesk/internal/tax"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

// QuoteRepository stores quotes and their per-line breakdown verbatim.
type QuoteRepository struct {
	db TxBeginner
}

// Compile-time check that QuoteRepository implements service.QuoteRepository.
var _ service.QuoteRepository = (*QuoteRepository)(nil)

// NewQuoteRepository creates a PostgreSQL-backed quote repository.
func NewQuoteRepository(db TxBeginner) *QuoteRepository {
	return &QuoteRepository{db: db}
}

const insertQuoteSQL = `
INSERT INTO quotes (
    id, company_id, destination, region, currency,
    subtotal, predicted_shipping, vat_rate, vat_amount, vat_exempt_reason, total,
    shipping_matched, shipping_rule
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
RETURNING created_at`

const insertQuoteLineSQL = `
INSERT INTO quote_lines (
    quote_id, line_no, product_code, quantity, unit_price, price_source, price_defaulted, line_total
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

// SaveQuote inserts the quote header and lines in one transaction and sets
// q.ID and q.CreatedAt.
func (r *QuoteRepository) SaveQuote(ctx context.Context, q *service.Quote) (err error) {
	const op = "postgres.save_quote"

	id := uuid.New()

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return domain.Internal(err, op, "failed to begin transaction")
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	var createdAt time.Time
	err = tx.QueryRow(ctx, insertQuoteSQL,
		id.String(), q.CompanyID, q.Destination, string(q.Region), q.Currency,
		numericFromDecimal(q.Totals.Subtotal),
		numericFromDecimal(q.Totals.PredictedShipping),
		numericFromDecimal(q.Totals.VATRate),
		numericFromDecimal(q.Totals.VATAmount),
		textOrNull(q.Totals.VATExemptReason),
		numericFromDecimal(q.Totals.Total),
		q.ShippingMatched, q.ShippingRule,
	).Scan(&createdAt)
	if err != nil {
		return domain.Internal(err, op, "failed to insert quote")
	}

	for i, line := range q.Lines {
		_, err = tx.Exec(ctx, insertQuoteLineSQL,
			id.String(), i+1, line.ProductCode, line.Quantity,
			numericFromDecimal(line.UnitPrice), string(line.PriceSource), line.PriceDefaulted,
			numericFromDecimal(line.LineTotal),
		)
		if err != nil {
			return domain.Internal(err, op, fmt.Sprintf("failed to insert quote line %d", i+1))
		}
	}

	if err = tx.Commit(ctx); err != nil {
		return domain.Internal(err, op, "failed to commit quote")
	}

	q.ID = id.String()
	q.CreatedAt = createdAt
	return nil
}

const getQuoteSQL = `
SELECT id, company_id, destination, region, currency,
       subtotal, predicted_shipping, vat_rate, vat_amount, vat_exempt_reason, total,
       shipping_matched, shipping_rule, created_at
FROM quotes
WHERE id = $1`

const listQuoteLinesSQL = `
SELECT product_code, quantity, unit_price, price_source, price_defaulted, line_total
FROM quote_lines
WHERE quote_id = $1
ORDER BY line_no`

// GetQuote loads a stored quote with its lines in their original order.
func (r *QuoteRepository) GetQuote(ctx context.Context, id string) (*service.Quote, error) {
	const op = "postgres.get_quote"

	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.NotFound(op, "quote", id)
	}

	var (
		q                                    service.Quote
		region                               string
		subtotal, shipping, rate, vat, total pgtype.Numeric
		exemptReason                         pgtype.Text
	)
	err := r.db.QueryRow(ctx, getQuoteSQL, id).Scan(
		&q.ID, &q.CompanyID, &q.Destination, &region, &q.Currency,
		&subtotal, &shipping, &rate, &vat, &exemptReason, &total,
		&q.ShippingMatched, &q.ShippingRule, &q.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NotFound(op, "quote", id)
		}
		return nil, domain.Internal(err, op, "failed to load quote")
	}
	q.Region = tax.Region(region)
	q.Totals.VATExemptReason = exemptReason.String

	for _, f := range []struct {
		dst *decimal.Decimal
		src pgtype.Numeric
	}{
		{&q.Totals.Subtotal, subtotal},
		{&q.Totals.PredictedShipping, shipping},
		{&q.Totals.VATRate, rate},
		{&q.Totals.VATAmount, vat},
		{&q.Totals.Total, total},
	} {
		v, err := decimalFromNumeric(f.src)
		if err != nil {
			return nil, domain.Internal(err, op, "invalid quote amount")
		}
		*f.dst = v
	}

	lines, err := r.listLines(ctx, id)
	if err != nil {
		return nil, domain.Internal(err, op, "failed to load quote lines")
	}
	q.Lines = lines

	return &q, nil
}

func (r *QuoteRepository) listLines(ctx context.Context, quoteID string) ([]domain.OrderLine, error) {
	rows, err := r.db.Query(ctx, listQuoteLinesSQL, quoteID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lines []domain.OrderLine
	for rows.Next() {
		var (
			line            domain.OrderLine
			source          string
			unit, lineTotal pgtype.Numeric
		)
		if err := rows.Scan(&line.ProductCode, &line.Quantity, &unit, &source, &line.PriceDefaulted, &lineTotal); err != nil {
			return nil, err
		}
		line.PriceSource = domain.PriceSource(source)
		if line.UnitPrice, err = decimalFromNumeric(unit); err != nil {
			return nil, err
		}
		if line.LineTotal, err = decimalFromNumeric(lineTotal); err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}
	return lines, rows.Err()
}

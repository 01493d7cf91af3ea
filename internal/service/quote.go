package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/dukerupert/tradedesk/internal/domain"
	"github.com/dukerupert/tradedesk/internal/pricing"
	"github.com/dukerupert/tradedesk/internal/shipping"
	"github.com/dukerupert/tradedesk/internal/tax"
	"github.com/shopspring/decimal"
)

// DefaultCurrency is the single currency every quote is priced in.
const DefaultCurrency = "GBP"

// VAT treatment labels used in metrics and API responses.
const (
	VATTreatmentCharged       = "charged"
	VATTreatmentReverseCharge = "reverse_charge"
	VATTreatmentExport        = "export"
)

// QuoteService prices orders: unit prices, shipping, VAT and grand total.
type QuoteService interface {
	// Calculate prices lines for company shipped to destination.
	// Any invalid line aborts the whole calculation.
	Calculate(ctx context.Context, company domain.Company, lines []domain.LineRequest, destination string) (*Quote, error)

	// QuoteForCompany loads the company, then calls Calculate.
	QuoteForCompany(ctx context.Context, companyID string, lines []domain.LineRequest, destination string) (*Quote, error)

	// CreateQuote calculates and persists a quote.
	CreateQuote(ctx context.Context, companyID string, lines []domain.LineRequest, destination string) (*Quote, error)

	// GetQuote returns a persisted quote exactly as it was stored.
	GetQuote(ctx context.Context, id string) (*Quote, error)
}

// Quote is a priced order. Every call returns a freshly allocated Quote that
// shares nothing with the stores it was priced from.
type Quote struct {
	// ID and CreatedAt are set once the quote is persisted.
	ID        string
	CreatedAt time.Time

	CompanyID   string
	Destination string
	Region      tax.Region
	Currency    string

	Lines  []domain.OrderLine
	Totals domain.OrderTotals

	// ShippingMatched is false when no rate matched and the default was used.
	ShippingMatched bool
	ShippingRule    string
}

// VATTreatment labels how VAT was handled on the quote.
func (q *Quote) VATTreatment() string {
	return VATTreatmentFor(q.Totals.VATExemptReason)
}

// VATTreatmentFor maps a VAT exemption reason to its treatment label.
func VATTreatmentFor(exemptReason string) string {
	switch exemptReason {
	case "":
		return VATTreatmentCharged
	case tax.ExemptReasonReverseCharge:
		return VATTreatmentReverseCharge
	default:
		return VATTreatmentExport
	}
}

// CompanyStore looks up companies. Returns ENOTFOUND for unknown IDs.
type CompanyStore interface {
	GetCompany(ctx context.Context, id string) (*domain.Company, error)
}

// PriceResolver resolves one unit price. pricing.Resolver implements it.
type PriceResolver interface {
	ResolveUnitPrice(ctx context.Context, companyID string, companyType domain.CompanyType, productCode string) (pricing.Resolution, error)
}

// QuoteRepository persists quotes verbatim. postgres.QuoteRepository implements it.
type QuoteRepository interface {
	// SaveQuote stores q and sets its ID and CreatedAt.
	SaveQuote(ctx context.Context, q *Quote) error

	// GetQuote returns ENOTFOUND when no quote has the given ID.
	GetQuote(ctx context.Context, id string) (*Quote, error)
}

// QuoteObserver receives quote outcomes. telemetry.PricingMetrics implements it.
type QuoteObserver interface {
	ObserveQuote(region, vatTreatment string, lines int, total decimal.Decimal)
	ObserveQuoteFailure(err error)
	ObserveShippingMiss(destination string)
}

// QuoteOption configures a quote service.
type QuoteOption func(*quoteService)

// WithQuoteLogger sets the service logger.
func WithQuoteLogger(logger *slog.Logger) QuoteOption {
	return func(s *quoteService) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithQuoteObserver registers an observer for quote outcomes.
func WithQuoteObserver(o QuoteObserver) QuoteOption {
	return func(s *quoteService) {
		s.observer = o
	}
}

// WithQuoteRepository enables CreateQuote and GetQuote.
func WithQuoteRepository(repo QuoteRepository) QuoteOption {
	return func(s *quoteService) {
		s.repo = repo
	}
}

// WithCurrency overrides DefaultCurrency.
func WithCurrency(code string) QuoteOption {
	return func(s *quoteService) {
		if code != "" {
			s.currency = strings.ToUpper(code)
		}
	}
}

type quoteService struct {
	companies CompanyStore
	prices    PriceResolver
	shipping  shipping.Estimator
	vat       tax.Resolver
	repo      QuoteRepository
	observer  QuoteObserver
	logger    *slog.Logger
	currency  string
}

// NewQuoteService creates a QuoteService over the given lookups.
func NewQuoteService(
	companies CompanyStore,
	prices PriceResolver,
	estimator shipping.Estimator,
	vat tax.Resolver,
	opts ...QuoteOption,
) QuoteService {
	s := &quoteService{
		companies: companies,
		prices:    prices,
		shipping:  estimator,
		vat:       vat,
		logger:    slog.Default(),
		currency:  DefaultCurrency,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Calculate prices an order in one pass:
//
//	subtotal = Σ unit price × quantity
//	shipping = estimate(destination, subtotal)
//	VAT      = resolve(subtotal + shipping, destination, company VAT number)
//	total    = subtotal + shipping + VAT
func (s *quoteService) Calculate(ctx context.Context, company domain.Company, lines []domain.LineRequest, destination string) (*Quote, error) {
	q, err := s.calculate(ctx, company, lines, destination)
	if err != nil {
		if s.observer != nil {
			s.observer.ObserveQuoteFailure(err)
		}
		return nil, err
	}

	if s.observer != nil {
		s.observer.ObserveQuote(string(q.Region), q.VATTreatment(), len(q.Lines), q.Totals.Total)
	}
	return q, nil
}

func (s *quoteService) calculate(ctx context.Context, company domain.Company, lines []domain.LineRequest, destination string) (*Quote, error) {
	const op = "quote.calculate"

	destination = strings.ToUpper(strings.TrimSpace(destination))
	if err := validateQuoteRequest(op, lines, destination); err != nil {
		return nil, err
	}

	orderLines := make([]domain.OrderLine, 0, len(lines))
	subtotal := decimal.Zero
	for i, line := range lines {
		res, err := s.prices.ResolveUnitPrice(ctx, company.ID, company.Type, line.ProductCode)
		if err != nil {
			if domain.IsCode(err, domain.EINVALID) {
				return nil, invalidLine(op, i, line.ProductCode, err)
			}
			return nil, err
		}

		lineTotal := res.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity)))
		subtotal = subtotal.Add(lineTotal)

		orderLines = append(orderLines, domain.OrderLine{
			ProductCode:    line.ProductCode,
			Quantity:       line.Quantity,
			UnitPrice:      res.UnitPrice,
			PriceSource:    res.Source,
			PriceDefaulted: res.Defaulted,
			LineTotal:      lineTotal,
		})
	}

	est := s.shipping.Estimate(ctx, destination, subtotal)
	if !est.Matched {
		s.logger.WarnContext(ctx, "no shipping rate matched, using default",
			slog.String("destination", destination),
			slog.String("subtotal", subtotal.StringFixed(2)),
			slog.String("default_cost", est.Cost.StringFixed(2)),
		)
		if s.observer != nil {
			s.observer.ObserveShippingMiss(destination)
		}
	}

	taxable := subtotal.Add(est.Cost)
	vat, err := s.vat.Resolve(taxable, destination, company.VATNumber)
	if err != nil {
		return nil, domain.Internal(err, op, "failed to resolve VAT")
	}

	return &Quote{
		CompanyID:   company.ID,
		Destination: destination,
		Region:      vat.Region,
		Currency:    s.currency,
		Lines:       orderLines,
		Totals: domain.OrderTotals{
			Subtotal:          subtotal,
			PredictedShipping: est.Cost,
			VATRate:           vat.Rate,
			VATAmount:         vat.Amount,
			VATExemptReason:   vat.ExemptReason,
			Total:             taxable.Add(vat.Amount),
		},
		ShippingMatched: est.Matched,
		ShippingRule:    est.Rule,
	}, nil
}

// validateQuoteRequest rejects malformed input before any lookup runs.
func validateQuoteRequest(op string, lines []domain.LineRequest, destination string) error {
	if len(lines) == 0 {
		return ErrNoLines
	}
	for i, line := range lines {
		if strings.TrimSpace(line.ProductCode) == "" {
			return invalidLine(op, i, line.ProductCode, ErrMissingProductCode)
		}
		if line.Quantity <= 0 {
			return invalidLine(op, i, line.ProductCode, ErrInvalidQuantity)
		}
	}
	if destination == "" {
		return ErrMissingDestination
	}
	if !isCountryCode(destination) {
		return ErrInvalidDestination
	}
	return nil
}

// isCountryCode reports whether code is two ASCII letters.
func isCountryCode(code string) bool {
	if len(code) != 2 {
		return false
	}
	for _, c := range code {
		if c < 'A' || c > 'Z' {
			return false
		}
	}
	return true
}

// QuoteForCompany loads the company, then prices the order.
func (s *quoteService) QuoteForCompany(ctx context.Context, companyID string, lines []domain.LineRequest, destination string) (*Quote, error) {
	const op = "quote.for_company"

	company, err := s.companies.GetCompany(ctx, companyID)
	if err != nil {
		if domain.IsCode(err, domain.ENOTFOUND) {
			err = ErrMissingCompany
		} else {
			err = domain.Internal(err, op, "failed to load company")
		}
		if s.observer != nil {
			s.observer.ObserveQuoteFailure(err)
		}
		return nil, err
	}

	return s.Calculate(ctx, *company, lines, destination)
}

// CreateQuote prices the order and stores it with its per-line breakdown.
func (s *quoteService) CreateQuote(ctx context.Context, companyID string, lines []domain.LineRequest, destination string) (*Quote, error) {
	const op = "quote.create"

	if s.repo == nil {
		return nil, domain.Errorf(domain.ENOTIMPL, op, "Quote storage is not configured")
	}

	q, err := s.QuoteForCompany(ctx, companyID, lines, destination)
	if err != nil {
		return nil, err
	}

	if err := s.repo.SaveQuote(ctx, q); err != nil {
		return nil, domain.Internal(err, op, "failed to save quote")
	}

	s.logger.InfoContext(ctx, "quote created",
		slog.String("quote_id", q.ID),
		slog.String("company_id", q.CompanyID),
		slog.String("destination", q.Destination),
		slog.String("total", q.Totals.Total.StringFixed(2)),
	)

	return q, nil
}

// GetQuote returns a stored quote.
func (s *quoteService) GetQuote(ctx context.Context, id string) (*Quote, error) {
	const op = "quote.get"

	if s.repo == nil {
		return nil, domain.Errorf(domain.ENOTIMPL, op, "Quote storage is not configured")
	}

	q, err := s.repo.GetQuote(ctx, id)
	if err != nil {
		if domain.IsCode(err, domain.ENOTFOUND) {
			return nil, ErrQuoteNotFound
		}
		return nil, domain.Internal(err, op, "failed to load quote")
	}
	return q, nil
}

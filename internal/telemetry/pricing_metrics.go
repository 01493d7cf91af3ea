package telemetry

import (
	"time"

	"github.com/dukerupert/tradedesk/internal/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/shopspring/decimal"
)

// PricingMetrics holds Prometheus metrics for quoting and pricing.
// The metrics only observe; nothing reads them back into a calculation.
type PricingMetrics struct {
	// Quotes
	QuotesCalculated *prometheus.CounterVec
	QuoteFailures    *prometheus.CounterVec
	QuoteValue       *prometheus.HistogramVec
	QuoteLineCount   prometheus.Histogram

	// Price resolution
	PriceResolutions  *prometheus.CounterVec
	BasePriceDefaults prometheus.Counter

	// Shipping
	ShippingMisses *prometheus.CounterVec

	// Payments
	PaymentIntentsCreated prometheus.Counter
	StripeAPILatency      *prometheus.HistogramVec
}

// NewPricingMetrics creates the metrics and registers them with reg.
// Pass prometheus.DefaultRegisterer in production and a fresh registry in tests.
func NewPricingMetrics(reg prometheus.Registerer, namespace string) *PricingMetrics {
	if namespace == "" {
		namespace = "tradedesk"
	}

	subsystem := "pricing"
	factory := promauto.With(reg)

	return &PricingMetrics{
		// =======================================================================
		// Quotes
		// =======================================================================
		QuotesCalculated: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "quotes_calculated_total",
				Help:      "Total quotes calculated",
			},
			[]string{"region", "vat_treatment"}, // vat_treatment: charged, reverse_charge, export
		),
		QuoteFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "quote_failures_total",
				Help:      "Total quote calculations rejected, by error code",
			},
			[]string{"code"},
		),
		QuoteValue: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "quote_total_gbp",
				Help:      "Quote grand total distribution",
				Buckets:   []float64{50, 100, 250, 500, 1000, 2500, 5000, 10000, 25000},
			},
			[]string{"region"},
		),
		QuoteLineCount: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "quote_lines",
				Help:      "Number of lines per quote",
				Buckets:   []float64{1, 2, 5, 10, 25, 50, 100},
			},
		),

		// =======================================================================
		// Price Resolution
		// =======================================================================
		PriceResolutions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "price_resolutions_total",
				Help:      "Unit price resolutions by override level",
			},
			[]string{"source"}, // source: CUSTOM, STANDARD, BASE
		),
		BasePriceDefaults: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "base_price_defaults_total",
				Help:      "Resolutions that fell back to zero because the product has no base price",
			},
		),

		// =======================================================================
		// Shipping
		// =======================================================================
		ShippingMisses: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "shipping_rate_misses_total",
				Help:      "Shipping estimates that used the default because no rate matched",
			},
			[]string{"destination"},
		),

		// =======================================================================
		// Payments
		// =======================================================================
		PaymentIntentsCreated: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "payment_intents_created_total",
				Help:      "Payment intents created for quotes",
			},
		),
		StripeAPILatency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "stripe_api_duration_seconds",
				Help:      "Stripe API call duration",
				Buckets:   []float64{.1, .25, .5, 1, 2.5, 5, 10, 30},
			},
			[]string{"operation"},
		),
	}
}

// ObservePriceResolution implements pricing.Observer.
func (m *PricingMetrics) ObservePriceResolution(source domain.PriceSource, defaulted bool) {
	m.PriceResolutions.WithLabelValues(string(source)).Inc()
	if defaulted {
		m.BasePriceDefaults.Inc()
	}
}

// ObserveQuote records a successful quote.
func (m *PricingMetrics) ObserveQuote(region, vatTreatment string, lines int, total decimal.Decimal) {
	m.QuotesCalculated.WithLabelValues(region, vatTreatment).Inc()
	m.QuoteValue.WithLabelValues(region).Observe(total.InexactFloat64())
	m.QuoteLineCount.Observe(float64(lines))
}

// ObserveQuoteFailure records a rejected quote by domain error code.
func (m *PricingMetrics) ObserveQuoteFailure(err error) {
	m.QuoteFailures.WithLabelValues(domain.ErrorCode(err)).Inc()
}

// ObserveShippingMiss records a shipping estimate that fell back to the default.
func (m *PricingMetrics) ObserveShippingMiss(destination string) {
	m.ShippingMisses.WithLabelValues(destination).Inc()
}

// ObserveStripeCall records the latency of one Stripe API call.
func (m *PricingMetrics) ObserveStripeCall(operation string, d time.Duration) {
	m.StripeAPILatency.WithLabelValues(operation).Observe(d.Seconds())
}

// ObservePaymentIntent records a created payment intent.
func (m *PricingMetrics) ObservePaymentIntent() {
	m.PaymentIntentsCreated.Inc()
}

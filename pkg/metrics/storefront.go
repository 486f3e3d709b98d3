package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// StorefrontMetrics records commerce-engine activity: quote fetches,
// checkout attempts, and catalog loads.
type StorefrontMetrics struct {
	quoteFetchDuration *prometheus.HistogramVec
	quoteFetchTotal    *prometheus.CounterVec
	checkoutTotal      *prometheus.CounterVec
	catalogLoadTotal   *prometheus.CounterVec
}

// NewStorefrontMetrics registers the storefront metrics on the provided registerer.
func NewStorefrontMetrics(reg prometheus.Registerer) *StorefrontMetrics {
	if reg == nil {
		return &StorefrontMetrics{}
	}
	quoteDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "shipping_quote_fetch_duration_seconds",
		Help:    "Duration of shipping rate fetches in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"outcome"})
	quoteTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "shipping_quote_fetch_total",
		Help: "Shipping rate fetches by outcome.",
	}, []string{"outcome"})
	checkoutTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_attempt_total",
		Help: "Checkout attempts by outcome.",
	}, []string{"outcome"})
	catalogTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_load_total",
		Help: "Catalog loads by outcome.",
	}, []string{"outcome"})
	reg.MustRegister(quoteDuration, quoteTotal, checkoutTotal, catalogTotal)
	return &StorefrontMetrics{
		quoteFetchDuration: quoteDuration,
		quoteFetchTotal:    quoteTotal,
		checkoutTotal:      checkoutTotal,
		catalogLoadTotal:   catalogTotal,
	}
}

// ObserveQuoteFetch records a shipping rate fetch with its duration.
func (m *StorefrontMetrics) ObserveQuoteFetch(outcome string, duration time.Duration) {
	if m == nil || m.quoteFetchTotal == nil {
		return
	}
	m.quoteFetchTotal.WithLabelValues(outcome).Inc()
	m.quoteFetchDuration.WithLabelValues(outcome).Observe(duration.Seconds())
}

// IncCheckout counts a checkout attempt by outcome.
func (m *StorefrontMetrics) IncCheckout(outcome string) {
	if m == nil || m.checkoutTotal == nil {
		return
	}
	m.checkoutTotal.WithLabelValues(outcome).Inc()
}

// IncCatalogLoad counts a catalog load by outcome.
func (m *StorefrontMetrics) IncCatalogLoad(outcome string) {
	if m == nil || m.catalogLoadTotal == nil {
		return
	}
	m.catalogLoadTotal.WithLabelValues(outcome).Inc()
}

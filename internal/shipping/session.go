package shipping

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/turboost/turboost-backend/internal/cart"
	pkgerrors "github.com/turboost/turboost-backend/pkg/errors"
	"github.com/turboost/turboost-backend/pkg/metrics"
)

// State names the phases of a quote session.
type State string

const (
	// StateIdle means no postal code has been successfully quoted yet.
	StateIdle State = "idle"
	// StateFetching means a rate request is in flight.
	StateFetching State = "fetching"
	// StateQuoted means rates are available for the recorded cart revision.
	StateQuoted State = "quoted"
	// StateStale means the cart or postal code changed after quoting.
	StateStale State = "stale"
)

const postalCodeLength = 8

var (
	// ErrInvalidSelection rejects selecting a quote outside the Quoted state.
	ErrInvalidSelection = pkgerrors.New(pkgerrors.CodeStateConflict, "no current quotes to select from")
	// ErrSuperseded reports that a newer postal code entry replaced this fetch.
	ErrSuperseded = pkgerrors.New(pkgerrors.CodeStateConflict, "quote request superseded by newer input")
)

// Quote is one priced shipping option. Immutable once returned.
type Quote struct {
	CarrierCode  string          `json:"carrier_code"`
	CarrierName  string          `json:"carrier_name"`
	Price        decimal.Decimal `json:"price"`
	DeliveryDays int             `json:"delivery_days"`
}

// RateFetcher produces quotes for a destination and cart contents. An
// empty result is a valid "no options" answer, not an error.
type RateFetcher interface {
	FetchRates(ctx context.Context, postalCode string, items []cart.LineItem) ([]Quote, error)
}

// Session tracks one storefront session's shipping quotes and selection.
// Quotes are keyed to the cart revision they were fetched against; any
// cart mutation afterwards marks the session stale and clears the
// selection.
type Session struct {
	mu      sync.Mutex
	fetcher RateFetcher
	timeout time.Duration
	metrics *metrics.StorefrontMetrics

	state          State
	postalCode     string
	quotes         []Quote
	selected       *Quote
	quotedRevision uint64
	generation     uint64
}

func newSession(fetcher RateFetcher, timeout time.Duration, m *metrics.StorefrontMetrics) *Session {
	if timeout <= 0 {
		timeout = 8 * time.Second
	}
	return &Session{
		fetcher: fetcher,
		timeout: timeout,
		metrics: m,
		state:   StateIdle,
	}
}

// NormalizePostalCode strips everything but digits.
func NormalizePostalCode(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// SetPostalCode validates the code, fetches rates for the given cart
// snapshot, and returns the quotes. A newer SetPostalCode call issued
// while this one is in flight wins; the older result is discarded and
// the older caller gets ErrSuperseded.
func (s *Session) SetPostalCode(ctx context.Context, raw string, items []cart.LineItem, cartRevision uint64) ([]Quote, error) {
	code := NormalizePostalCode(raw)
	if len(code) != postalCodeLength {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "postal code must have 8 digits")
	}

	s.mu.Lock()
	s.generation++
	generation := s.generation
	s.state = StateFetching
	s.postalCode = code
	s.quotedRevision = cartRevision
	s.selected = nil
	s.mu.Unlock()

	fetchCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	started := time.Now()
	quotes, err := s.fetcher.FetchRates(fetchCtx, code, items)
	elapsed := time.Since(started)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.generation != generation {
		s.metrics.ObserveQuoteFetch("superseded", elapsed)
		return nil, ErrSuperseded
	}

	if err != nil {
		// a failed fetch leaves the code unquoted so re-entry retries
		s.state = StateIdle
		s.postalCode = ""
		s.quotes = nil
		s.metrics.ObserveQuoteFetch("error", elapsed)
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "fetch shipping rates")
	}

	s.state = StateQuoted
	s.quotes = quotes
	s.selected = nil
	s.metrics.ObserveQuoteFetch("ok", elapsed)

	out := make([]Quote, len(quotes))
	copy(out, quotes)
	return out, nil
}

// Invalidate reacts to a cart mutation. Quotes fetched for an older
// cart are no longer trustworthy, so the selection is cleared and the
// session goes stale. An in-flight fetch is superseded.
func (s *Session) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch s.state {
	case StateQuoted:
		s.state = StateStale
		s.selected = nil
	case StateFetching:
		s.generation++
		s.state = StateStale
		s.selected = nil
	}
}

// Select marks one of the current quotes as chosen. Valid only in the
// Quoted state.
func (s *Session) Select(carrierCode string) (*Quote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateQuoted {
		return nil, ErrInvalidSelection
	}
	for i := range s.quotes {
		if s.quotes[i].CarrierCode == carrierCode {
			chosen := s.quotes[i]
			s.selected = &chosen
			return &chosen, nil
		}
	}
	return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown carrier code")
}

// State returns the current phase.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// PostalCode returns the last successfully recorded destination.
func (s *Session) PostalCode() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.postalCode
}

// Quotes returns a copy of the current quote list.
func (s *Session) Quotes() []Quote {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Quote, len(s.quotes))
	copy(out, s.quotes)
	return out
}

// Selection returns the chosen quote, if any.
func (s *Session) Selection() (Quote, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.selected == nil {
		return Quote{}, false
	}
	return *s.selected, true
}

// ConfirmedFor reports whether the session holds a selection whose
// recorded cart revision matches the given one. Checkout refuses to
// proceed otherwise.
func (s *Session) ConfirmedFor(cartRevision uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state == StateQuoted && s.selected != nil && s.quotedRevision == cartRevision
}

package shipping

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/turboost/turboost-backend/internal/cart"
	pkgerrors "github.com/turboost/turboost-backend/pkg/errors"
)

type stubFetcher struct {
	mu      sync.Mutex
	quotes  []Quote
	err     error
	block   chan struct{}
	calls   int
	lastCEP string
}

func (s *stubFetcher) FetchRates(ctx context.Context, postalCode string, items []cart.LineItem) ([]Quote, error) {
	s.mu.Lock()
	s.calls++
	s.lastCEP = postalCode
	block := s.block
	quotes, err := s.quotes, s.err
	s.mu.Unlock()
	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return quotes, err
}

func testQuotes() []Quote {
	return []Quote{
		{CarrierCode: "04510", CarrierName: "PAC", Price: decimal.RequireFromString("15.00"), DeliveryDays: 8},
		{CarrierCode: "04014", CarrierName: "SEDEX", Price: decimal.RequireFromString("41.70"), DeliveryDays: 3},
	}
}

func TestSessionStateMachine(t *testing.T) {
	ctx := context.Background()

	t.Run("successful fetch moves to quoted with no selection", func(t *testing.T) {
		session := newSession(&stubFetcher{quotes: testQuotes()}, time.Second, nil)
		quotes, err := session.SetPostalCode(ctx, "04571-010", nil, 3)
		if err != nil {
			t.Fatalf("set postal code: %v", err)
		}
		if len(quotes) != 2 {
			t.Fatalf("expected 2 quotes, got %d", len(quotes))
		}
		if session.State() != StateQuoted {
			t.Fatalf("state = %s, want quoted", session.State())
		}
		if _, ok := session.Selection(); ok {
			t.Fatal("expected selection cleared after fetch")
		}
		if session.PostalCode() != "04571010" {
			t.Fatalf("postal code = %q, want normalized digits", session.PostalCode())
		}
	})

	t.Run("empty quote list is quoted with no options, not an error", func(t *testing.T) {
		session := newSession(&stubFetcher{}, time.Second, nil)
		quotes, err := session.SetPostalCode(ctx, "04571010", nil, 1)
		if err != nil {
			t.Fatalf("set postal code: %v", err)
		}
		if len(quotes) != 0 || session.State() != StateQuoted {
			t.Fatalf("expected quoted with no options, got state %s quotes %v", session.State(), quotes)
		}
	})

	t.Run("fetch failure returns to idle so re-entry retries", func(t *testing.T) {
		session := newSession(&stubFetcher{err: errors.New("timeout")}, time.Second, nil)
		_, err := session.SetPostalCode(ctx, "04571010", nil, 1)
		if appErr := pkgerrors.As(err); appErr == nil || appErr.Code() != pkgerrors.CodeDependency {
			t.Fatalf("expected dependency error, got %v", err)
		}
		if session.State() != StateIdle {
			t.Fatalf("state = %s, want idle", session.State())
		}
		if session.PostalCode() != "" {
			t.Fatal("failed fetch should not record the postal code as quoted")
		}
	})

	t.Run("short postal codes are rejected before fetching", func(t *testing.T) {
		fetcher := &stubFetcher{quotes: testQuotes()}
		session := newSession(fetcher, time.Second, nil)
		_, err := session.SetPostalCode(ctx, "1234", nil, 1)
		if appErr := pkgerrors.As(err); appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
			t.Fatalf("expected validation error, got %v", err)
		}
		if fetcher.calls != 0 {
			t.Fatal("fetcher should not be called for invalid input")
		}
	})

	t.Run("selection only valid while quoted", func(t *testing.T) {
		session := newSession(&stubFetcher{quotes: testQuotes()}, time.Second, nil)
		if _, err := session.Select("04510"); !errors.Is(err, ErrInvalidSelection) {
			t.Fatalf("expected ErrInvalidSelection in idle, got %v", err)
		}

		if _, err := session.SetPostalCode(ctx, "04571010", nil, 5); err != nil {
			t.Fatalf("set postal code: %v", err)
		}
		quote, err := session.Select("04510")
		if err != nil {
			t.Fatalf("select: %v", err)
		}
		if quote.CarrierName != "PAC" {
			t.Fatalf("unexpected selection %+v", quote)
		}
		if !session.ConfirmedFor(5) {
			t.Fatal("expected confirmation for the quoted revision")
		}
		if session.ConfirmedFor(6) {
			t.Fatal("confirmation must be revision-exact")
		}

		if _, err := session.Select("99999"); err == nil {
			t.Fatal("expected error for unknown carrier code")
		}
	})

	t.Run("cart mutation while quoted goes stale and clears selection", func(t *testing.T) {
		session := newSession(&stubFetcher{quotes: testQuotes()}, time.Second, nil)
		if _, err := session.SetPostalCode(ctx, "04571010", nil, 1); err != nil {
			t.Fatalf("set postal code: %v", err)
		}
		if _, err := session.Select("04014"); err != nil {
			t.Fatalf("select: %v", err)
		}

		session.Invalidate()
		if session.State() != StateStale {
			t.Fatalf("state = %s, want stale", session.State())
		}
		if _, ok := session.Selection(); ok {
			t.Fatal("expected selection cleared")
		}
		if session.ConfirmedFor(1) {
			t.Fatal("stale session must not confirm")
		}
		if _, err := session.Select("04014"); !errors.Is(err, ErrInvalidSelection) {
			t.Fatalf("expected ErrInvalidSelection while stale, got %v", err)
		}
	})

	t.Run("newer postal code supersedes an in-flight fetch", func(t *testing.T) {
		fetcher := &stubFetcher{quotes: testQuotes(), block: make(chan struct{})}
		session := newSession(fetcher, time.Second, nil)

		firstDone := make(chan error, 1)
		go func() {
			_, err := session.SetPostalCode(ctx, "01001000", nil, 1)
			firstDone <- err
		}()

		// wait for the first fetch to be in flight
		deadline := time.After(time.Second)
		for {
			fetcher.mu.Lock()
			started := fetcher.calls == 1
			fetcher.mu.Unlock()
			if started {
				break
			}
			select {
			case <-deadline:
				t.Fatal("first fetch never started")
			default:
				time.Sleep(time.Millisecond)
			}
		}

		fetcher.mu.Lock()
		blocked := fetcher.block
		fetcher.block = nil
		fetcher.mu.Unlock()
		if _, err := session.SetPostalCode(ctx, "04571010", nil, 1); err != nil {
			t.Fatalf("second set postal code: %v", err)
		}

		close(blocked)
		if err := <-firstDone; !errors.Is(err, ErrSuperseded) {
			t.Fatalf("expected ErrSuperseded for the first fetch, got %v", err)
		}
		if session.State() != StateQuoted || session.PostalCode() != "04571010" {
			t.Fatalf("expected the newer quote to win, state %s cep %s", session.State(), session.PostalCode())
		}
	})
}

func TestManager(t *testing.T) {
	fetcher := &stubFetcher{quotes: testQuotes()}
	manager, err := NewManager(fetcher, time.Second, nil)
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}

	a := manager.Get("sess-a")
	if manager.Get("sess-a") != a {
		t.Fatal("expected the same session per id")
	}
	if manager.Get("sess-b") == a {
		t.Fatal("expected distinct sessions per id")
	}

	if _, err := a.SetPostalCode(context.Background(), "04571010", nil, 1); err != nil {
		t.Fatalf("set postal code: %v", err)
	}
	manager.Invalidate("sess-a")
	if a.State() != StateStale {
		t.Fatalf("state = %s, want stale", a.State())
	}
	// unknown ids are ignored
	manager.Invalidate("sess-z")

	manager.Drop("sess-a")
	if manager.Get("sess-a") == a {
		t.Fatal("expected a fresh session after drop")
	}
}

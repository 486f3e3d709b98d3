package cart

import (
	"context"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"

	pkgerrors "github.com/turboost/turboost-backend/pkg/errors"
)

// ErrInvalidQuantity rejects negative quantities.
var ErrInvalidQuantity = pkgerrors.New(pkgerrors.CodeValidation, "quantity must not be negative")

// LineItem references a product by id with a quantity of at least 1.
// At most one line exists per product id.
type LineItem struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// Storage persists a session's line items. Derived totals and the
// revision counter are never stored.
type Storage interface {
	Save(ctx context.Context, sessionID string, lines []LineItem) error
	Load(ctx context.Context, sessionID string) ([]LineItem, error)
}

// PriceSource resolves the current unit price for a product. Subtotals
// are always computed from current prices, never cached.
type PriceSource interface {
	UnitPrice(productID string) (decimal.Decimal, bool)
}

// Store owns one session's cart. Every mutation persists the full line
// list before it is reported as applied; a failed persist rolls the
// in-memory state back. The revision counter increases on every applied
// mutation and is how dependent state detects staleness.
type Store struct {
	mu        sync.Mutex
	sessionID string
	storage   Storage
	lines     []LineItem
	revision  uint64
	onMutate  []func(revision uint64)
}

// NewStore builds an empty store for the session. Call Load to pick up
// previously persisted lines.
func NewStore(sessionID string, storage Storage) (*Store, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("session id required")
	}
	if storage == nil {
		return nil, fmt.Errorf("cart storage required")
	}
	return &Store{sessionID: sessionID, storage: storage}, nil
}

// OnMutate registers a hook called after every applied mutation, with
// the new revision. Hooks run outside the store lock.
func (s *Store) OnMutate(fn func(revision uint64)) {
	if fn == nil {
		return
	}
	s.mu.Lock()
	s.onMutate = append(s.onMutate, fn)
	s.mu.Unlock()
}

// Load replaces the in-memory lines with the persisted ones. A missing
// or corrupt document yields an empty cart, never an error; only a
// transport failure is returned.
func (s *Store) Load(ctx context.Context) error {
	lines, err := s.storage.Load(ctx, s.sessionID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load persisted cart")
	}
	s.mu.Lock()
	s.lines = lines
	s.mu.Unlock()
	return nil
}

// Add appends a new line with quantity 1, or increments the existing
// line for the product.
func (s *Store) Add(ctx context.Context, productID string) error {
	if productID == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	return s.mutate(ctx, func(lines []LineItem) ([]LineItem, bool) {
		for i := range lines {
			if lines[i].ProductID == productID {
				lines[i].Quantity++
				return lines, true
			}
		}
		return append(lines, LineItem{ProductID: productID, Quantity: 1}), true
	})
}

// SetQuantity replaces a line's quantity. Zero removes the line,
// negative fails with ErrInvalidQuantity and leaves the cart unchanged.
func (s *Store) SetQuantity(ctx context.Context, productID string, qty int) error {
	if qty < 0 {
		return ErrInvalidQuantity
	}
	if qty == 0 {
		return s.Remove(ctx, productID)
	}
	return s.mutate(ctx, func(lines []LineItem) ([]LineItem, bool) {
		for i := range lines {
			if lines[i].ProductID == productID {
				if lines[i].Quantity == qty {
					return lines, false
				}
				lines[i].Quantity = qty
				return lines, true
			}
		}
		return lines, false
	})
}

// Remove drops the product's line. Removing an absent product is a
// no-op, not an error.
func (s *Store) Remove(ctx context.Context, productID string) error {
	return s.mutate(ctx, func(lines []LineItem) ([]LineItem, bool) {
		for i := range lines {
			if lines[i].ProductID == productID {
				return append(lines[:i], lines[i+1:]...), true
			}
		}
		return lines, false
	})
}

// Clear empties the cart.
func (s *Store) Clear(ctx context.Context) error {
	return s.mutate(ctx, func(lines []LineItem) ([]LineItem, bool) {
		return nil, true
	})
}

// mutate applies fn to a copy of the lines, persists the result, and
// only then makes it visible. A persist failure leaves the previous
// state in place.
func (s *Store) mutate(ctx context.Context, fn func(lines []LineItem) ([]LineItem, bool)) error {
	s.mu.Lock()

	next := make([]LineItem, len(s.lines))
	copy(next, s.lines)
	next, changed := fn(next)
	if !changed {
		s.mu.Unlock()
		return nil
	}

	if err := s.storage.Save(ctx, s.sessionID, next); err != nil {
		s.mu.Unlock()
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist cart")
	}

	s.lines = next
	s.revision++
	revision := s.revision
	hooks := append([]func(uint64){}, s.onMutate...)
	s.mu.Unlock()

	for _, hook := range hooks {
		hook(revision)
	}
	return nil
}

// Lines returns a copy of the line items in insertion order.
func (s *Store) Lines() []LineItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]LineItem, len(s.lines))
	copy(out, s.lines)
	return out
}

// Revision returns the current mutation counter.
func (s *Store) Revision() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.revision
}

// IsEmpty reports whether the cart has no line items.
func (s *Store) IsEmpty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.lines) == 0
}

// TotalItemCount sums the quantities across all lines. Zero is the
// valid empty state.
func (s *Store) TotalItemCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := 0
	for _, line := range s.lines {
		total += line.Quantity
	}
	return total
}

// Subtotal computes price * quantity over all lines from the current
// prices. Lines whose product is no longer priced are skipped.
func (s *Store) Subtotal(prices PriceSource) decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := decimal.Zero
	if prices == nil {
		return total
	}
	for _, line := range s.lines {
		price, ok := prices.UnitPrice(line.ProductID)
		if !ok {
			continue
		}
		total = total.Add(price.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	return total
}

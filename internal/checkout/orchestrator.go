package checkout

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/turboost/turboost-backend/internal/cart"
	"github.com/turboost/turboost-backend/internal/shipping"
	"github.com/turboost/turboost-backend/pkg/db/models"
	pkgerrors "github.com/turboost/turboost-backend/pkg/errors"
	"github.com/turboost/turboost-backend/pkg/metrics"
)

var (
	// ErrEmptyCart rejects checkout on a cart with no line items.
	ErrEmptyCart = pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	// ErrShippingNotConfirmed rejects checkout without a shipping
	// selection valid for the cart's current revision.
	ErrShippingNotConfirmed = pkgerrors.New(pkgerrors.CodeStateConflict, "shipping selection missing or out of date")
	// ErrNotAuthenticated rejects checkout for anonymous buyers.
	ErrNotAuthenticated = pkgerrors.New(pkgerrors.CodeUnauthorized, "buyer identity not established")
	// ErrProductUnavailable rejects checkout when a cart line points at
	// a product the catalog no longer carries. The buyer has to remove
	// the line before the snapshot can be priced.
	ErrProductUnavailable = pkgerrors.New(pkgerrors.CodeStateConflict, "cart references a product no longer for sale")
	// ErrPaymentSessionFailed reports a payment provider failure. No
	// checkout state survives it; a retry re-validates from scratch.
	ErrPaymentSessionFailed = pkgerrors.New(pkgerrors.CodeDependency, "payment session could not be created")
)

// Identity is the buyer as the payment provider needs to see them.
type Identity struct {
	Authenticated bool
	Name          string
	Email         string
}

// SnapshotLine is one priced cart line at checkout time.
type SnapshotLine struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// Snapshot captures the totals a payment session is created against.
// It is computed at the moment checkout is attempted, used once, and
// never persisted.
type Snapshot struct {
	Lines        []SnapshotLine  `json:"lines"`
	Subtotal     decimal.Decimal `json:"subtotal"`
	Shipping     shipping.Quote  `json:"shipping"`
	ShippingCost decimal.Decimal `json:"shipping_cost"`
	Total        decimal.Decimal `json:"total"`
	CartRevision uint64          `json:"cart_revision"`
}

// PaymentGateway creates the external payment session and returns the
// redirect target.
type PaymentGateway interface {
	CreateSession(ctx context.Context, snapshot *Snapshot, buyer Identity) (string, error)
}

type cartView interface {
	IsEmpty() bool
	Revision() uint64
	Lines() []cart.LineItem
}

type shippingView interface {
	ConfirmedFor(cartRevision uint64) bool
	Selection() (shipping.Quote, bool)
}

type productSource interface {
	Product(id string) (models.Product, bool)
}

// Orchestrator validates a cart and shipping selection against each
// other and hands the priced snapshot to the payment gateway.
type Orchestrator struct {
	products productSource
	gateway  PaymentGateway
	metrics  *metrics.StorefrontMetrics
}

// NewOrchestrator builds the checkout entry point. Metrics may be nil.
func NewOrchestrator(products productSource, gateway PaymentGateway, m *metrics.StorefrontMetrics) (*Orchestrator, error) {
	if products == nil {
		return nil, fmt.Errorf("product source required")
	}
	if gateway == nil {
		return nil, fmt.Errorf("payment gateway required")
	}
	return &Orchestrator{products: products, gateway: gateway, metrics: m}, nil
}

// AttemptCheckout checks the preconditions in order, first failure
// wins: non-empty cart, then a shipping selection confirmed for the
// cart's current revision, then an authenticated buyer. On success it
// builds the snapshot, creates the payment session, and returns the
// redirect target.
func (o *Orchestrator) AttemptCheckout(ctx context.Context, cartState cartView, shippingState shippingView, buyer Identity) (*Snapshot, string, error) {
	if cartState.IsEmpty() {
		o.metrics.IncCheckout("empty_cart")
		return nil, "", ErrEmptyCart
	}

	revision := cartState.Revision()
	if !shippingState.ConfirmedFor(revision) {
		o.metrics.IncCheckout("shipping_not_confirmed")
		return nil, "", ErrShippingNotConfirmed
	}
	selection, ok := shippingState.Selection()
	if !ok {
		o.metrics.IncCheckout("shipping_not_confirmed")
		return nil, "", ErrShippingNotConfirmed
	}

	if !buyer.Authenticated {
		o.metrics.IncCheckout("not_authenticated")
		return nil, "", ErrNotAuthenticated
	}

	snapshot, err := o.buildSnapshot(cartState.Lines(), revision, selection)
	if err != nil {
		o.metrics.IncCheckout("product_unavailable")
		return nil, "", err
	}

	redirect, err := o.gateway.CreateSession(ctx, snapshot, buyer)
	if err != nil {
		o.metrics.IncCheckout("payment_failed")
		return nil, "", pkgerrors.Wrap(ErrPaymentSessionFailed.Code(), err, ErrPaymentSessionFailed.Message())
	}

	o.metrics.IncCheckout("ok")
	return snapshot, redirect, nil
}

func (o *Orchestrator) buildSnapshot(lines []cart.LineItem, revision uint64, selection shipping.Quote) (*Snapshot, error) {
	snapshot := &Snapshot{
		Lines:        make([]SnapshotLine, 0, len(lines)),
		Subtotal:     decimal.Zero,
		Shipping:     selection,
		ShippingCost: selection.Price,
		CartRevision: revision,
	}
	for _, line := range lines {
		product, ok := o.products.Product(line.ProductID)
		if !ok {
			return nil, pkgerrors.New(ErrProductUnavailable.Code(), ErrProductUnavailable.Message()).
				WithDetails(map[string]any{"product_id": line.ProductID})
		}
		snapshot.Lines = append(snapshot.Lines, SnapshotLine{
			ProductID: line.ProductID,
			Name:      product.Name,
			Quantity:  line.Quantity,
			UnitPrice: product.Price,
		})
		snapshot.Subtotal = snapshot.Subtotal.Add(product.Price.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	snapshot.Total = snapshot.Subtotal.Add(snapshot.ShippingCost)
	return snapshot, nil
}

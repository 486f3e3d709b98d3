package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/turboost/turboost-backend/api/middleware"
	"github.com/turboost/turboost-backend/api/responses"
	"github.com/turboost/turboost-backend/api/validators"
	cartsvc "github.com/turboost/turboost-backend/internal/cart"
	"github.com/turboost/turboost-backend/internal/catalog"
	pkgerrors "github.com/turboost/turboost-backend/pkg/errors"
	"github.com/turboost/turboost-backend/pkg/logger"
)

// indexPrices adapts the catalog index to the cart's price lookup.
type indexPrices struct {
	index *catalog.Index
}

func (p indexPrices) UnitPrice(productID string) (decimal.Decimal, bool) {
	product, ok := p.index.Product(productID)
	if !ok {
		return decimal.Decimal{}, false
	}
	return product.Price, true
}

// CartGet returns the visitor's cart with live prices.
func CartGet(carts *cartsvc.Manager, index *catalog.Index, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store, err := sessionCart(w, r, carts, logg)
		if err != nil {
			return
		}

		responses.WriteSuccess(w, newCartResponse(store, index))
	}
}

type addToCartRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid4"`
}

// CartAdd adds one unit of a product to the cart.
func CartAdd(carts *cartsvc.Manager, index *catalog.Index, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var payload addToCartRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if index != nil {
			if _, ok := index.Product(payload.ProductID); !ok {
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "product not found"))
				return
			}
		}

		store, err := sessionCart(w, r, carts, logg)
		if err != nil {
			return
		}

		if err := store.Add(ctx, payload.ProductID); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, newCartResponse(store, index))
	}
}

type setQuantityRequest struct {
	Quantity int `json:"quantity" validate:"min=0"`
}

// CartSetQuantity sets the quantity of a cart line. Zero removes the line.
func CartSetQuantity(carts *cartsvc.Manager, index *catalog.Index, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		productID := strings.TrimSpace(chi.URLParam(r, "productId"))
		if _, err := uuid.Parse(productID); err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id"))
			return
		}

		var payload setQuantityRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		store, err := sessionCart(w, r, carts, logg)
		if err != nil {
			return
		}

		if err := store.SetQuantity(ctx, productID, payload.Quantity); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, newCartResponse(store, index))
	}
}

// CartRemove drops a line from the cart.
func CartRemove(carts *cartsvc.Manager, index *catalog.Index, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		productID := strings.TrimSpace(chi.URLParam(r, "productId"))
		if _, err := uuid.Parse(productID); err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id"))
			return
		}

		store, err := sessionCart(w, r, carts, logg)
		if err != nil {
			return
		}

		if err := store.Remove(ctx, productID); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, newCartResponse(store, index))
	}
}

// CartClear empties the cart.
func CartClear(carts *cartsvc.Manager, index *catalog.Index, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		store, err := sessionCart(w, r, carts, logg)
		if err != nil {
			return
		}

		if err := store.Clear(ctx); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, newCartResponse(store, index))
	}
}

// sessionCart resolves the visitor's cart store, writing the error
// response itself when resolution fails.
func sessionCart(w http.ResponseWriter, r *http.Request, carts *cartsvc.Manager, logg *logger.Logger) (*cartsvc.Store, error) {
	ctx := r.Context()
	if carts == nil {
		err := pkgerrors.New(pkgerrors.CodeInternal, "cart unavailable")
		responses.WriteError(ctx, logg, w, err)
		return nil, err
	}

	sessionID := middleware.SessionIDFromContext(ctx)
	if sessionID == "" {
		err := pkgerrors.New(pkgerrors.CodeUnauthorized, "session missing")
		responses.WriteError(ctx, logg, w, err)
		return nil, err
	}

	store, err := carts.Get(ctx, sessionID)
	if err != nil {
		responses.WriteError(ctx, logg, w, err)
		return nil, err
	}
	return store, nil
}

type cartLineResponse struct {
	ProductID string           `json:"product_id"`
	Name      string           `json:"name,omitempty"`
	Quantity  int              `json:"quantity"`
	UnitPrice *decimal.Decimal `json:"unit_price,omitempty"`
	LineTotal *decimal.Decimal `json:"line_total,omitempty"`
}

type cartResponse struct {
	Lines     []cartLineResponse `json:"lines"`
	ItemCount int                `json:"item_count"`
	Subtotal  decimal.Decimal    `json:"subtotal"`
	Revision  uint64             `json:"revision"`
}

func newCartResponse(store *cartsvc.Store, index *catalog.Index) cartResponse {
	lines := store.Lines()
	out := make([]cartLineResponse, 0, len(lines))
	subtotal := decimal.Zero

	for _, line := range lines {
		entry := cartLineResponse{ProductID: line.ProductID, Quantity: line.Quantity}
		if index != nil {
			if product, ok := index.Product(line.ProductID); ok {
				unit := product.Price
				total := unit.Mul(decimal.NewFromInt(int64(line.Quantity)))
				entry.Name = product.Name
				entry.UnitPrice = &unit
				entry.LineTotal = &total
			}
		}
		out = append(out, entry)
	}

	if index != nil {
		subtotal = store.Subtotal(indexPrices{index: index})
	}

	return cartResponse{
		Lines:     out,
		ItemCount: store.TotalItemCount(),
		Subtotal:  subtotal,
		Revision:  store.Revision(),
	}
}

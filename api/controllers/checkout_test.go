package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	cartsvc "github.com/turboost/turboost-backend/internal/cart"
	checkoutsvc "github.com/turboost/turboost-backend/internal/checkout"
	shippingsvc "github.com/turboost/turboost-backend/internal/shipping"
	"github.com/turboost/turboost-backend/pkg/db/models"
)

type stubRateFetcher struct {
	quotes []shippingsvc.Quote
	err    error
}

func (s stubRateFetcher) FetchRates(ctx context.Context, postalCode string, items []cartsvc.LineItem) ([]shippingsvc.Quote, error) {
	return s.quotes, s.err
}

type stubGateway struct {
	redirect string
	err      error
	snapshot *checkoutsvc.Snapshot
}

func (s *stubGateway) CreateSession(ctx context.Context, snapshot *checkoutsvc.Snapshot, buyer checkoutsvc.Identity) (string, error) {
	s.snapshot = snapshot
	if s.err != nil {
		return "", s.err
	}
	return s.redirect, nil
}

type storefrontHarness struct {
	router   *chi.Mux
	gateway  *stubGateway
	products []models.Product
}

func newStorefrontHarness(t *testing.T) *storefrontHarness {
	t.Helper()

	products := catalogProducts(t)
	index := testIndex(t, products)

	fetcher := stubRateFetcher{quotes: []shippingsvc.Quote{
		{CarrierCode: "04510", CarrierName: "PAC", Price: decimal.NewFromFloat(25.5), DeliveryDays: 8},
		{CarrierCode: "04014", CarrierName: "SEDEX", Price: decimal.NewFromFloat(42), DeliveryDays: 3},
	}}
	shippingMgr, err := shippingsvc.NewManager(fetcher, time.Second, nil)
	if err != nil {
		t.Fatalf("new shipping manager: %v", err)
	}

	carts, err := cartsvc.NewManager(newMemCartStorage(), func(sessionID string, revision uint64) {
		shippingMgr.Invalidate(sessionID)
	})
	if err != nil {
		t.Fatalf("new cart manager: %v", err)
	}

	gateway := &stubGateway{redirect: "https://pay.example/init"}
	orchestrator, err := checkoutsvc.NewOrchestrator(index, gateway, nil)
	if err != nil {
		t.Fatalf("new orchestrator: %v", err)
	}

	router := chi.NewRouter()
	router.Post("/cart/items", CartAdd(carts, index, nil))
	router.Post("/shipping/postal-code", ShippingSetPostalCode(shippingMgr, carts, nil))
	router.Get("/shipping/options", ShippingOptions(shippingMgr, nil))
	router.Post("/shipping/select", ShippingSelect(shippingMgr, nil))
	router.Post("/checkout", Checkout(orchestrator, carts, shippingMgr, nil))

	return &storefrontHarness{router: router, gateway: gateway, products: products}
}

func (h *storefrontHarness) do(t *testing.T, method, target, body, sessionID string) *httptest.ResponseRecorder {
	t.Helper()
	resp := httptest.NewRecorder()
	h.router.ServeHTTP(resp, sessionRequest(t, method, target, body, sessionID))
	return resp
}

func TestCheckoutHappyPath(t *testing.T) {
	h := newStorefrontHarness(t)
	sessionID := uuid.NewString()
	productID := h.seedCart(t, sessionID)

	if resp := h.do(t, http.MethodPost, "/shipping/postal-code", `{"postal_code":"01310-100"}`, sessionID); resp.Code != http.StatusOK {
		t.Fatalf("postal code: expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if resp := h.do(t, http.MethodPost, "/shipping/select", `{"carrier_code":"04510"}`, sessionID); resp.Code != http.StatusOK {
		t.Fatalf("select: expected 200 got %d: %s", resp.Code, resp.Body.String())
	}

	resp := h.do(t, http.MethodPost, "/checkout", `{"name":"Maria Silva","email":"maria@example.com"}`, sessionID)
	if resp.Code != http.StatusOK {
		t.Fatalf("checkout: expected 200 got %d: %s", resp.Code, resp.Body.String())
	}

	var envelope struct {
		Data struct {
			Snapshot    checkoutsvc.Snapshot `json:"snapshot"`
			RedirectURL string               `json:"redirect_url"`
		} `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode checkout response: %v", err)
	}
	if envelope.Data.RedirectURL != "https://pay.example/init" {
		t.Fatalf("unexpected redirect %q", envelope.Data.RedirectURL)
	}
	if got := envelope.Data.Snapshot.Total.String(); got != "375.5" {
		t.Fatalf("expected total 375.5 got %s", got)
	}
	if h.gateway.snapshot == nil || h.gateway.snapshot.Lines[0].ProductID != productID {
		t.Fatalf("gateway saw wrong snapshot %+v", h.gateway.snapshot)
	}
}

func TestCheckoutEmptyCart(t *testing.T) {
	h := newStorefrontHarness(t)

	resp := h.do(t, http.MethodPost, "/checkout", `{"name":"Maria Silva","email":"maria@example.com"}`, uuid.NewString())
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestCheckoutAfterCartMutationIsRejected(t *testing.T) {
	h := newStorefrontHarness(t)
	sessionID := uuid.NewString()
	productID := h.seedCart(t, sessionID)

	if resp := h.do(t, http.MethodPost, "/shipping/postal-code", `{"postal_code":"01310100"}`, sessionID); resp.Code != http.StatusOK {
		t.Fatalf("postal code: expected 200 got %d", resp.Code)
	}
	if resp := h.do(t, http.MethodPost, "/shipping/select", `{"carrier_code":"04014"}`, sessionID); resp.Code != http.StatusOK {
		t.Fatalf("select: expected 200 got %d", resp.Code)
	}

	// mutating the cart invalidates the confirmed shipping selection
	if resp := h.do(t, http.MethodPost, "/cart/items", `{"product_id":"`+productID+`"}`, sessionID); resp.Code != http.StatusOK {
		t.Fatalf("add: expected 200 got %d", resp.Code)
	}

	resp := h.do(t, http.MethodPost, "/checkout", `{"name":"Maria Silva","email":"maria@example.com"}`, sessionID)
	if resp.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 got %d: %s", resp.Code, resp.Body.String())
	}

	var envelope struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode error response: %v", err)
	}
	if envelope.Error.Code != "STATE_CONFLICT" {
		t.Fatalf("unexpected error code %q", envelope.Error.Code)
	}
}

func TestShippingSelectWithoutQuotes(t *testing.T) {
	h := newStorefrontHarness(t)

	resp := h.do(t, http.MethodPost, "/shipping/select", `{"carrier_code":"04510"}`, uuid.NewString())
	if resp.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 got %d: %s", resp.Code, resp.Body.String())
	}
}

// seedCart adds one unit of the first catalog product to the session's
// cart and returns its id.
func (h *storefrontHarness) seedCart(t *testing.T, sessionID string) string {
	t.Helper()
	productID := h.products[0].ID.String()
	if resp := h.do(t, http.MethodPost, "/cart/items", `{"product_id":"`+productID+`"}`, sessionID); resp.Code != http.StatusOK {
		t.Fatalf("seed cart: expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	return productID
}

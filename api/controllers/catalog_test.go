package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/turboost/turboost-backend/internal/catalog"
	"github.com/turboost/turboost-backend/pkg/db/models"
	"github.com/turboost/turboost-backend/pkg/types"
)

type stubCatalogSource struct {
	products []models.Product
	err      error
}

func (s stubCatalogSource) ListAll(ctx context.Context) ([]models.Product, error) {
	return s.products, s.err
}

func testIndex(t *testing.T, products []models.Product) *catalog.Index {
	t.Helper()
	index, err := catalog.NewIndex(stubCatalogSource{products: products}, nil)
	if err != nil {
		t.Fatalf("new index: %v", err)
	}
	if err := index.Load(context.Background()); err != nil {
		t.Fatalf("load index: %v", err)
	}
	return index
}

func catalogProducts(t *testing.T) []models.Product {
	t.Helper()
	return []models.Product{
		{ID: uuid.New(), Name: "Escapamento Esportivo", Brand: "Fiat", Model: "Uno", Years: types.YearSet{2010, 2012}, Price: decimal.NewFromFloat(350)},
		{ID: uuid.New(), Name: "Filtro de Ar", Brand: "VW", Model: "Gol", Years: types.YearSet{2015}, Price: decimal.NewFromFloat(80)},
	}
}

func TestCatalogListFiltersByBrand(t *testing.T) {
	index := testIndex(t, catalogProducts(t))
	handler := CatalogList(index, nil)

	req := httptest.NewRequest(http.MethodGet, "/products?brand=Fiat", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}

	var envelope struct {
		Data struct {
			Products []productResponse `json:"products"`
			Facets   catalog.Facets    `json:"facets"`
		} `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(envelope.Data.Products) != 1 || envelope.Data.Products[0].Brand != "Fiat" {
		t.Fatalf("unexpected products %+v", envelope.Data.Products)
	}
	// facets describe the whole catalog even when the listing is filtered
	if len(envelope.Data.Facets.Brands) != 2 {
		t.Fatalf("expected both brands in facets got %v", envelope.Data.Facets.Brands)
	}
}

func TestCatalogListRejectsBadYear(t *testing.T) {
	index := testIndex(t, catalogProducts(t))
	handler := CatalogList(index, nil)

	req := httptest.NewRequest(http.MethodGet, "/products?year=nope", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestCatalogGetNotFound(t *testing.T) {
	index := testIndex(t, catalogProducts(t))

	router := chi.NewRouter()
	router.Get("/products/{id}", CatalogGet(index, nil))

	req := httptest.NewRequest(http.MethodGet, "/products/"+uuid.NewString(), nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", resp.Code)
	}
}

func TestCatalogGetReturnsProduct(t *testing.T) {
	products := catalogProducts(t)
	index := testIndex(t, products)

	router := chi.NewRouter()
	router.Get("/products/{id}", CatalogGet(index, nil))

	req := httptest.NewRequest(http.MethodGet, "/products/"+products[0].ID.String(), nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}

	var envelope struct {
		Data productResponse `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.Name != "Escapamento Esportivo" {
		t.Fatalf("unexpected product %+v", envelope.Data)
	}
}

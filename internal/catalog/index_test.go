package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/turboost/turboost-backend/pkg/db/models"
	pkgerrors "github.com/turboost/turboost-backend/pkg/errors"
	"github.com/turboost/turboost-backend/pkg/types"
)

type stubSource struct {
	products []models.Product
	err      error
	calls    int
}

func (s *stubSource) ListAll(ctx context.Context) ([]models.Product, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.products, nil
}

func sampleProducts() []models.Product {
	return []models.Product{
		{
			ID:    uuid.New(),
			Name:  "Escapamento Esportivo Inox",
			Brand: "Fiat",
			Model: "Uno",
			Years: types.YearSet{2010, 2012},
			Price: decimal.RequireFromString("450.00"),
		},
		{
			ID:    uuid.New(),
			Name:  "Ponteira Dupla Cromada",
			Brand: "Volkswagen",
			Model: "Gol",
			Years: types.YearSet{2015, 2018, 2012},
			Price: decimal.RequireFromString("180.50"),
		},
		{
			ID:    uuid.New(),
			Name:  "Abafador Turbo",
			Brand: "Fiat",
			Model: "Palio",
			Years: types.YearSet{2008},
			Price: decimal.RequireFromString("320.00"),
		},
	}
}

func TestIndexLoad(t *testing.T) {
	t.Run("derives sorted facets from the collection", func(t *testing.T) {
		source := &stubSource{products: sampleProducts()}
		index, err := NewIndex(source, nil)
		if err != nil {
			t.Fatalf("new index: %v", err)
		}
		if err := index.Load(context.Background()); err != nil {
			t.Fatalf("load: %v", err)
		}
		if !index.Loaded() {
			t.Fatal("expected index to be loaded")
		}

		facets := index.Facets()
		wantBrands := []string{"Fiat", "Volkswagen"}
		if len(facets.Brands) != len(wantBrands) {
			t.Fatalf("brands = %v, want %v", facets.Brands, wantBrands)
		}
		for i, b := range wantBrands {
			if facets.Brands[i] != b {
				t.Fatalf("brands = %v, want %v", facets.Brands, wantBrands)
			}
		}
		wantYears := []int{2018, 2015, 2012, 2010, 2008}
		if len(facets.Years) != len(wantYears) {
			t.Fatalf("years = %v, want %v", facets.Years, wantYears)
		}
		for i, y := range wantYears {
			if facets.Years[i] != y {
				t.Fatalf("years = %v, want %v", facets.Years, wantYears)
			}
		}
	})

	t.Run("failed reload keeps the previous collection", func(t *testing.T) {
		source := &stubSource{products: sampleProducts()}
		index, err := NewIndex(source, nil)
		if err != nil {
			t.Fatalf("new index: %v", err)
		}
		if err := index.Load(context.Background()); err != nil {
			t.Fatalf("initial load: %v", err)
		}

		source.err = errors.New("connection refused")
		err = index.Load(context.Background())
		if appErr := pkgerrors.As(err); appErr == nil || appErr.Code() != pkgerrors.CodeDependency {
			t.Fatalf("expected dependency error, got %v", err)
		}
		if got := len(index.Products()); got != 3 {
			t.Fatalf("expected previous collection to survive, got %d products", got)
		}
		if got := len(index.Facets().Brands); got != 2 {
			t.Fatalf("expected previous facets to survive, got %d brands", got)
		}
	})

	t.Run("looks up products by id", func(t *testing.T) {
		products := sampleProducts()
		source := &stubSource{products: products}
		index, err := NewIndex(source, nil)
		if err != nil {
			t.Fatalf("new index: %v", err)
		}
		if err := index.Load(context.Background()); err != nil {
			t.Fatalf("load: %v", err)
		}
		got, ok := index.Product(products[1].ID.String())
		if !ok || got.Name != products[1].Name {
			t.Fatalf("lookup failed, got %+v ok=%v", got, ok)
		}
		if _, ok := index.Product(uuid.NewString()); ok {
			t.Fatal("expected unknown id to miss")
		}
	})
}

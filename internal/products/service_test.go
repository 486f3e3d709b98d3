package products

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/turboost/turboost-backend/pkg/db/models"
	pkgerrors "github.com/turboost/turboost-backend/pkg/errors"
	"github.com/turboost/turboost-backend/pkg/types"
)

type stubRepo struct {
	products map[uuid.UUID]*models.Product
	created  *models.Product
	updated  *models.Product
}

func newStubRepo() *stubRepo {
	return &stubRepo{products: map[uuid.UUID]*models.Product{}}
}

func (s *stubRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	p, ok := s.products[id]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	copied := *p
	return &copied, nil
}

func (s *stubRepo) ListAll(ctx context.Context) ([]models.Product, error) {
	out := make([]models.Product, 0, len(s.products))
	for _, p := range s.products {
		out = append(out, *p)
	}
	return out, nil
}

func (s *stubRepo) Create(ctx context.Context, product *models.Product) error {
	s.created = product
	s.products[product.ID] = product
	return nil
}

func (s *stubRepo) Update(ctx context.Context, product *models.Product) error {
	if _, ok := s.products[product.ID]; !ok {
		return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	s.updated = product
	s.products[product.ID] = product
	return nil
}

func (s *stubRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := s.products[id]; !ok {
		return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	delete(s.products, id)
	return nil
}

func validCreateInput() CreateProductInput {
	return CreateProductInput{
		Name:     "Escapamento Esportivo Inox",
		Brand:    "Fiat",
		Model:    "Uno",
		Years:    []int{2010, 2014, 2012},
		Price:    decimal.RequireFromString("450.00"),
		WeightKG: 6.5,
		LengthCM: 80,
		HeightCM: 20,
		WidthCM:  25,
	}
}

func TestServiceCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("creates a product with years sorted descending", func(t *testing.T) {
		repo := newStubRepo()
		svc, err := NewService(repo)
		if err != nil {
			t.Fatalf("new service: %v", err)
		}
		product, err := svc.Create(ctx, validCreateInput())
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		if product.ID == uuid.Nil {
			t.Fatal("expected an assigned id")
		}
		want := types.YearSet{2014, 2012, 2010}
		if len(product.Years) != 3 || product.Years[0] != want[0] || product.Years[2] != want[2] {
			t.Fatalf("years = %v, want %v", product.Years, want)
		}
		if repo.created == nil {
			t.Fatal("expected repository create call")
		}
	})

	t.Run("rejects incomplete payloads", func(t *testing.T) {
		repo := newStubRepo()
		svc, _ := NewService(repo)
		cases := map[string]func(*CreateProductInput){
			"missing name":       func(in *CreateProductInput) { in.Name = "  " },
			"missing brand":      func(in *CreateProductInput) { in.Brand = "" },
			"missing model":      func(in *CreateProductInput) { in.Model = "" },
			"no years":           func(in *CreateProductInput) { in.Years = nil },
			"negative price":     func(in *CreateProductInput) { in.Price = decimal.RequireFromString("-1") },
			"negative weight":    func(in *CreateProductInput) { in.WeightKG = -1 },
			"negative footprint": func(in *CreateProductInput) { in.WidthCM = -5 },
		}
		for name, mutate := range cases {
			input := validCreateInput()
			mutate(&input)
			_, err := svc.Create(ctx, input)
			if appErr := pkgerrors.As(err); appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
				t.Fatalf("%s: expected validation error, got %v", name, err)
			}
		}
		if repo.created != nil {
			t.Fatal("rejected payloads must not reach the repository")
		}
	})
}

func TestServiceUpdate(t *testing.T) {
	ctx := context.Background()
	repo := newStubRepo()
	svc, _ := NewService(repo)

	created, err := svc.Create(ctx, validCreateInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	t.Run("applies only the provided fields", func(t *testing.T) {
		newPrice := decimal.RequireFromString("399.90")
		featured := true
		updated, err := svc.Update(ctx, created.ID, UpdateProductInput{Price: &newPrice, IsFeatured: &featured})
		if err != nil {
			t.Fatalf("update: %v", err)
		}
		if updated.Price.String() != "399.9" || !updated.IsFeatured {
			t.Fatalf("unexpected update %+v", updated)
		}
		if updated.Name != created.Name {
			t.Fatal("untouched fields must survive")
		}
	})

	t.Run("rejects updates that would invalidate the product", func(t *testing.T) {
		empty := ""
		_, err := svc.Update(ctx, created.ID, UpdateProductInput{Name: &empty})
		if appErr := pkgerrors.As(err); appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
			t.Fatalf("expected validation error, got %v", err)
		}
	})

	t.Run("unknown products are not found", func(t *testing.T) {
		_, err := svc.Update(ctx, uuid.New(), UpdateProductInput{})
		if appErr := pkgerrors.As(err); appErr == nil || appErr.Code() != pkgerrors.CodeNotFound {
			t.Fatalf("expected not found, got %v", err)
		}
	})
}

func TestServiceDelete(t *testing.T) {
	ctx := context.Background()
	repo := newStubRepo()
	svc, _ := NewService(repo)

	created, err := svc.Create(ctx, validCreateInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := svc.Delete(ctx, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := svc.Delete(ctx, created.ID); err == nil {
		t.Fatal("expected not found on second delete")
	}
	if err := svc.Delete(ctx, uuid.Nil); err == nil {
		t.Fatal("expected validation error for nil id")
	}
}

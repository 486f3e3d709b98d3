package products

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/turboost/turboost-backend/pkg/db/models"
	pkgerrors "github.com/turboost/turboost-backend/pkg/errors"
	"github.com/turboost/turboost-backend/pkg/types"
)

// Service exposes catalog reads and admin product management.
type Service interface {
	ListAll(ctx context.Context) ([]models.Product, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Product, error)
	Create(ctx context.Context, input CreateProductInput) (*models.Product, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateProductInput) (*models.Product, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	ListAll(ctx context.Context) ([]models.Product, error)
	Create(ctx context.Context, product *models.Product) error
	Update(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo repository
}

// NewService builds the product service.
func NewService(repo repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	return &service{repo: repo}, nil
}

// CreateProductInput holds the validated payload to create a product.
type CreateProductInput struct {
	Name       string
	Brand      string
	Model      string
	Years      []int
	Price      decimal.Decimal
	WeightKG   float64
	LengthCM   float64
	HeightCM   float64
	WidthCM    float64
	ImageURL1  *string
	ImageURL2  *string
	ImageURL3  *string
	SoundStock *string
	SoundIdle  *string
	SoundRev   *string
	IsFeatured bool
}

// UpdateProductInput holds optional mutation values for a product.
type UpdateProductInput struct {
	Name       *string
	Brand      *string
	Model      *string
	Years      *[]int
	Price      *decimal.Decimal
	WeightKG   *float64
	LengthCM   *float64
	HeightCM   *float64
	WidthCM    *float64
	ImageURL1  *string
	ImageURL2  *string
	ImageURL3  *string
	SoundStock *string
	SoundIdle  *string
	SoundRev   *string
	IsFeatured *bool
}

func (s *service) ListAll(ctx context.Context) ([]models.Product, error) {
	return s.repo.ListAll(ctx)
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	return s.repo.FindByID(ctx, id)
}

func (s *service) Create(ctx context.Context, input CreateProductInput) (*models.Product, error) {
	if err := validateCore(input.Name, input.Brand, input.Model, input.Years, input.Price); err != nil {
		return nil, err
	}
	if err := validateDimensions(input.WeightKG, input.LengthCM, input.HeightCM, input.WidthCM); err != nil {
		return nil, err
	}

	product := &models.Product{
		ID:         uuid.New(),
		Name:       strings.TrimSpace(input.Name),
		Brand:      strings.TrimSpace(input.Brand),
		Model:      strings.TrimSpace(input.Model),
		Years:      types.YearSet(types.YearSet(input.Years).SortedDesc()),
		Price:      input.Price,
		WeightKG:   input.WeightKG,
		LengthCM:   input.LengthCM,
		HeightCM:   input.HeightCM,
		WidthCM:    input.WidthCM,
		ImageURL1:  input.ImageURL1,
		ImageURL2:  input.ImageURL2,
		ImageURL3:  input.ImageURL3,
		SoundStock: input.SoundStock,
		SoundIdle:  input.SoundIdle,
		SoundRev:   input.SoundRev,
		IsFeatured: input.IsFeatured,
	}
	if err := s.repo.Create(ctx, product); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create product")
	}
	return product, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateProductInput) (*models.Product, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	applyUpdate(product, input)

	if err := validateCore(product.Name, product.Brand, product.Model, product.Years, product.Price); err != nil {
		return nil, err
	}
	if err := validateDimensions(product.WeightKG, product.LengthCM, product.HeightCM, product.WidthCM); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	return s.repo.Delete(ctx, id)
}

func applyUpdate(product *models.Product, input UpdateProductInput) {
	if input.Name != nil {
		product.Name = strings.TrimSpace(*input.Name)
	}
	if input.Brand != nil {
		product.Brand = strings.TrimSpace(*input.Brand)
	}
	if input.Model != nil {
		product.Model = strings.TrimSpace(*input.Model)
	}
	if input.Years != nil {
		product.Years = types.YearSet(types.YearSet(*input.Years).SortedDesc())
	}
	if input.Price != nil {
		product.Price = *input.Price
	}
	if input.WeightKG != nil {
		product.WeightKG = *input.WeightKG
	}
	if input.LengthCM != nil {
		product.LengthCM = *input.LengthCM
	}
	if input.HeightCM != nil {
		product.HeightCM = *input.HeightCM
	}
	if input.WidthCM != nil {
		product.WidthCM = *input.WidthCM
	}
	if input.ImageURL1 != nil {
		product.ImageURL1 = input.ImageURL1
	}
	if input.ImageURL2 != nil {
		product.ImageURL2 = input.ImageURL2
	}
	if input.ImageURL3 != nil {
		product.ImageURL3 = input.ImageURL3
	}
	if input.SoundStock != nil {
		product.SoundStock = input.SoundStock
	}
	if input.SoundIdle != nil {
		product.SoundIdle = input.SoundIdle
	}
	if input.SoundRev != nil {
		product.SoundRev = input.SoundRev
	}
	if input.IsFeatured != nil {
		product.IsFeatured = *input.IsFeatured
	}
}

func validateCore(name, brand, model string, years []int, price decimal.Decimal) error {
	if strings.TrimSpace(name) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "product name is required")
	}
	if strings.TrimSpace(brand) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "product brand is required")
	}
	if strings.TrimSpace(model) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "product model is required")
	}
	if len(years) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "product needs at least one model year")
	}
	if price.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "product price must not be negative")
	}
	return nil
}

func validateDimensions(weight, length, height, width float64) error {
	if weight < 0 || length < 0 || height < 0 || width < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "package dimensions must not be negative")
	}
	return nil
}

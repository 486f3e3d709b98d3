package controllers

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/turboost/turboost-backend/api/responses"
	"github.com/turboost/turboost-backend/api/validators"
	"github.com/turboost/turboost-backend/internal/catalog"
	productsvc "github.com/turboost/turboost-backend/internal/products"
	pkgerrors "github.com/turboost/turboost-backend/pkg/errors"
	"github.com/turboost/turboost-backend/pkg/logger"
)

// AdminListProducts returns every product, featured first.
func AdminListProducts(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		products, err := svc.ListAll(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		items := make([]productResponse, 0, len(products))
		for _, p := range products {
			items = append(items, newProductResponse(p))
		}
		responses.WriteSuccess(w, items)
	}
}

type createProductRequest struct {
	Name       string  `json:"name" validate:"required"`
	Brand      string  `json:"brand" validate:"required"`
	Model      string  `json:"model" validate:"required"`
	Years      []int   `json:"years" validate:"required,min=1"`
	Price      string  `json:"price" validate:"required"`
	WeightKG   float64 `json:"weight_kg"`
	LengthCM   float64 `json:"length_cm"`
	HeightCM   float64 `json:"height_cm"`
	WidthCM    float64 `json:"width_cm"`
	ImageURL1  *string `json:"image_url_1"`
	ImageURL2  *string `json:"image_url_2"`
	ImageURL3  *string `json:"image_url_3"`
	SoundStock *string `json:"sound_stock_url"`
	SoundIdle  *string `json:"sound_idle_url"`
	SoundRev   *string `json:"sound_rev_url"`
	IsFeatured bool    `json:"is_featured"`
}

// AdminCreateProduct adds a catalog entry and refreshes the index.
func AdminCreateProduct(svc productsvc.Service, index *catalog.Index, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		var payload createProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		price, err := decimal.NewFromString(payload.Price)
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid price"))
			return
		}

		product, err := svc.Create(ctx, productsvc.CreateProductInput{
			Name:       payload.Name,
			Brand:      payload.Brand,
			Model:      payload.Model,
			Years:      payload.Years,
			Price:      price,
			WeightKG:   payload.WeightKG,
			LengthCM:   payload.LengthCM,
			HeightCM:   payload.HeightCM,
			WidthCM:    payload.WidthCM,
			ImageURL1:  payload.ImageURL1,
			ImageURL2:  payload.ImageURL2,
			ImageURL3:  payload.ImageURL3,
			SoundStock: payload.SoundStock,
			SoundIdle:  payload.SoundIdle,
			SoundRev:   payload.SoundRev,
			IsFeatured: payload.IsFeatured,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		refreshCatalog(ctx, index, logg)
		responses.WriteSuccessStatus(w, http.StatusCreated, newProductResponse(*product))
	}
}

type updateProductRequest struct {
	Name       *string  `json:"name"`
	Brand      *string  `json:"brand"`
	Model      *string  `json:"model"`
	Years      *[]int   `json:"years"`
	Price      *string  `json:"price"`
	WeightKG   *float64 `json:"weight_kg"`
	LengthCM   *float64 `json:"length_cm"`
	HeightCM   *float64 `json:"height_cm"`
	WidthCM    *float64 `json:"width_cm"`
	ImageURL1  *string  `json:"image_url_1"`
	ImageURL2  *string  `json:"image_url_2"`
	ImageURL3  *string  `json:"image_url_3"`
	SoundStock *string  `json:"sound_stock_url"`
	SoundIdle  *string  `json:"sound_idle_url"`
	SoundRev   *string  `json:"sound_rev_url"`
	IsFeatured *bool    `json:"is_featured"`
}

// AdminUpdateProduct applies a partial update and refreshes the index.
func AdminUpdateProduct(svc productsvc.Service, index *catalog.Index, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		id, err := parseProductID(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var payload updateProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		input := productsvc.UpdateProductInput{
			Name:       payload.Name,
			Brand:      payload.Brand,
			Model:      payload.Model,
			Years:      payload.Years,
			WeightKG:   payload.WeightKG,
			LengthCM:   payload.LengthCM,
			HeightCM:   payload.HeightCM,
			WidthCM:    payload.WidthCM,
			ImageURL1:  payload.ImageURL1,
			ImageURL2:  payload.ImageURL2,
			ImageURL3:  payload.ImageURL3,
			SoundStock: payload.SoundStock,
			SoundIdle:  payload.SoundIdle,
			SoundRev:   payload.SoundRev,
			IsFeatured: payload.IsFeatured,
		}
		if payload.Price != nil {
			price, err := decimal.NewFromString(*payload.Price)
			if err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid price"))
				return
			}
			input.Price = &price
		}

		product, err := svc.Update(ctx, id, input)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		refreshCatalog(ctx, index, logg)
		responses.WriteSuccess(w, newProductResponse(*product))
	}
}

// AdminDeleteProduct removes a product and refreshes the index.
func AdminDeleteProduct(svc productsvc.Service, index *catalog.Index, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		id, err := parseProductID(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if err := svc.Delete(ctx, id); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		refreshCatalog(ctx, index, logg)
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

func parseProductID(r *http.Request) (uuid.UUID, error) {
	raw := strings.TrimSpace(chi.URLParam(r, "id"))
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id")
	}
	return id, nil
}

// refreshCatalog reloads the in-memory index after an admin mutation.
// A failed reload keeps serving the previous snapshot, so it only logs.
func refreshCatalog(ctx context.Context, index *catalog.Index, logg *logger.Logger) {
	if index == nil {
		return
	}
	if err := index.Load(ctx); err != nil && logg != nil {
		logg.Error(ctx, "catalog.reload", err)
	}
}

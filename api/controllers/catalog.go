package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/turboost/turboost-backend/api/responses"
	"github.com/turboost/turboost-backend/api/validators"
	"github.com/turboost/turboost-backend/internal/catalog"
	"github.com/turboost/turboost-backend/pkg/db/models"
	pkgerrors "github.com/turboost/turboost-backend/pkg/errors"
	"github.com/turboost/turboost-backend/pkg/logger"
)

// CatalogList returns the filtered product listing together with the
// facet values derived from the full collection. Facets always describe
// the whole catalog, never the filtered subset.
func CatalogList(index *catalog.Index, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if index == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog unavailable"))
			return
		}

		year, err := validators.ParseQueryInt(r, "year", 0, 0, 2100)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		criteria := catalog.Criteria{
			Search: strings.TrimSpace(r.URL.Query().Get("search")),
			Brand:  strings.TrimSpace(r.URL.Query().Get("brand")),
			Model:  strings.TrimSpace(r.URL.Query().Get("model")),
			Year:   year,
		}

		filtered := catalog.ApplyFilter(index.Products(), criteria)

		items := make([]productResponse, 0, len(filtered))
		for _, p := range filtered {
			items = append(items, newProductResponse(p))
		}

		responses.WriteSuccess(w, map[string]any{
			"products": items,
			"facets":   index.Facets(),
		})
	}
}

// CatalogGet returns a single product by id.
func CatalogGet(index *catalog.Index, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if index == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog unavailable"))
			return
		}

		id := strings.TrimSpace(chi.URLParam(r, "id"))
		if _, err := uuid.Parse(id); err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id"))
			return
		}

		product, ok := index.Product(id)
		if !ok {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "product not found"))
			return
		}

		responses.WriteSuccess(w, newProductResponse(product))
	}
}

type productResponse struct {
	ID         uuid.UUID       `json:"id"`
	Name       string          `json:"name"`
	Brand      string          `json:"brand"`
	Model      string          `json:"model"`
	Years      []int           `json:"years"`
	Price      decimal.Decimal `json:"price"`
	WeightKG   float64         `json:"weight_kg"`
	LengthCM   float64         `json:"length_cm"`
	HeightCM   float64         `json:"height_cm"`
	WidthCM    float64         `json:"width_cm"`
	ImageURL1  *string         `json:"image_url_1,omitempty"`
	ImageURL2  *string         `json:"image_url_2,omitempty"`
	ImageURL3  *string         `json:"image_url_3,omitempty"`
	SoundStock *string         `json:"sound_stock_url,omitempty"`
	SoundIdle  *string         `json:"sound_idle_url,omitempty"`
	SoundRev   *string         `json:"sound_rev_url,omitempty"`
	IsFeatured bool            `json:"is_featured"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

func newProductResponse(p models.Product) productResponse {
	return productResponse{
		ID:         p.ID,
		Name:       p.Name,
		Brand:      p.Brand,
		Model:      p.Model,
		Years:      []int(p.Years),
		Price:      p.Price,
		WeightKG:   p.WeightKG,
		LengthCM:   p.LengthCM,
		HeightCM:   p.HeightCM,
		WidthCM:    p.WidthCM,
		ImageURL1:  p.ImageURL1,
		ImageURL2:  p.ImageURL2,
		ImageURL3:  p.ImageURL3,
		SoundStock: p.SoundStock,
		SoundIdle:  p.SoundIdle,
		SoundRev:   p.SoundRev,
		IsFeatured: p.IsFeatured,
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	}
}

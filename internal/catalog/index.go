package catalog

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/turboost/turboost-backend/pkg/db/models"
	pkgerrors "github.com/turboost/turboost-backend/pkg/errors"
	"github.com/turboost/turboost-backend/pkg/metrics"
)

// Source loads the full product collection, usually from the products
// repository.
type Source interface {
	ListAll(ctx context.Context) ([]models.Product, error)
}

// Facets are the distinct filterable values derived from the loaded
// collection. Brands and models are sorted lexicographically, years
// descending.
type Facets struct {
	Brands []string `json:"brands"`
	Models []string `json:"models"`
	Years  []int    `json:"years"`
}

// Index caches the product collection and its derived facets. A failed
// reload keeps the previously loaded collection intact.
type Index struct {
	mu      sync.RWMutex
	source  Source
	metrics *metrics.StorefrontMetrics

	products []models.Product
	facets   Facets
	loaded   bool
}

// NewIndex builds an index over the given source. Metrics may be nil.
func NewIndex(source Source, m *metrics.StorefrontMetrics) (*Index, error) {
	if source == nil {
		return nil, fmt.Errorf("catalog source required")
	}
	return &Index{source: source, metrics: m}, nil
}

// Load fetches the collection and recomputes facets. On failure the
// previous collection and facets remain untouched and the error is
// returned to the caller; retry policy belongs there.
func (i *Index) Load(ctx context.Context) error {
	products, err := i.source.ListAll(ctx)
	if err != nil {
		i.metrics.IncCatalogLoad("error")
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product catalog")
	}

	facets := deriveFacets(products)

	i.mu.Lock()
	i.products = products
	i.facets = facets
	i.loaded = true
	i.mu.Unlock()

	i.metrics.IncCatalogLoad("ok")
	return nil
}

// Loaded reports whether at least one Load has succeeded.
func (i *Index) Loaded() bool {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.loaded
}

// Products returns a copy of the current collection in load order.
func (i *Index) Products() []models.Product {
	i.mu.RLock()
	defer i.mu.RUnlock()
	out := make([]models.Product, len(i.products))
	copy(out, i.products)
	return out
}

// Facets returns the facet sets derived from the current collection.
func (i *Index) Facets() Facets {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return Facets{
		Brands: append([]string(nil), i.facets.Brands...),
		Models: append([]string(nil), i.facets.Models...),
		Years:  append([]int(nil), i.facets.Years...),
	}
}

// Product looks up one product by id in the current collection.
func (i *Index) Product(id string) (models.Product, bool) {
	i.mu.RLock()
	defer i.mu.RUnlock()
	for _, p := range i.products {
		if p.ID.String() == id {
			return p, true
		}
	}
	return models.Product{}, false
}

func deriveFacets(products []models.Product) Facets {
	brandSet := map[string]struct{}{}
	modelSet := map[string]struct{}{}
	yearSet := map[int]struct{}{}

	for _, p := range products {
		if p.Brand != "" {
			brandSet[p.Brand] = struct{}{}
		}
		if p.Model != "" {
			modelSet[p.Model] = struct{}{}
		}
		for _, y := range p.Years {
			yearSet[y] = struct{}{}
		}
	}

	facets := Facets{
		Brands: make([]string, 0, len(brandSet)),
		Models: make([]string, 0, len(modelSet)),
		Years:  make([]int, 0, len(yearSet)),
	}
	for b := range brandSet {
		facets.Brands = append(facets.Brands, b)
	}
	for m := range modelSet {
		facets.Models = append(facets.Models, m)
	}
	for y := range yearSet {
		facets.Years = append(facets.Years, y)
	}

	sort.Strings(facets.Brands)
	sort.Strings(facets.Models)
	sort.Sort(sort.Reverse(sort.IntSlice(facets.Years)))
	return facets
}

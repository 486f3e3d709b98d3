package catalog

import (
	"strings"

	"github.com/turboost/turboost-backend/pkg/db/models"
)

// Criteria restricts a product listing. A zero-value field places no
// restriction.
type Criteria struct {
	Search string
	Brand  string
	Model  string
	Year   int
}

// ApplyFilter returns the products matching every set criterion, in the
// input's relative order. It is a pure function with no side effects.
func ApplyFilter(products []models.Product, criteria Criteria) []models.Product {
	term := strings.ToLower(strings.TrimSpace(criteria.Search))

	out := make([]models.Product, 0, len(products))
	for _, p := range products {
		if !matchesSearch(p, term) {
			continue
		}
		if criteria.Brand != "" && p.Brand != criteria.Brand {
			continue
		}
		if criteria.Model != "" && p.Model != criteria.Model {
			continue
		}
		if criteria.Year != 0 && !p.Years.Contains(criteria.Year) {
			continue
		}
		out = append(out, p)
	}
	return out
}

func matchesSearch(p models.Product, term string) bool {
	if term == "" {
		return true
	}
	return strings.Contains(strings.ToLower(p.Name), term) ||
		strings.Contains(strings.ToLower(p.Brand), term) ||
		strings.Contains(strings.ToLower(p.Model), term)
}

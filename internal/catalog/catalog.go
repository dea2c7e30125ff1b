package catalog

import (
	"sort"
	"storefront-delivery-service/internal/domain"
	"storefront-delivery-service/internal/textnorm"
	"strings"
)

// Catalog is an immutable, indexed product list.
type Catalog struct {
	products []domain.Product
	byID     map[string]domain.Product
}

func New(products []domain.Product) *Catalog {
	c := &Catalog{
		products: make([]domain.Product, len(products)),
		byID:     make(map[string]domain.Product, len(products)),
	}
	copy(c.products, products)
	for _, p := range products {
		if _, dup := c.byID[p.ID]; !dup {
			c.byID[p.ID] = p
		}
	}
	return c
}

func (c *Catalog) Find(id string) (domain.Product, bool) {
	p, ok := c.byID[strings.TrimSpace(id)]
	return p, ok
}

func (c *Catalog) All() []domain.Product {
	out := make([]domain.Product, len(c.products))
	copy(out, c.products)
	return out
}

// ByCategory returns the products whose category folds to the same key as
// category. An empty category returns everything.
func (c *Catalog) ByCategory(category string) []domain.Product {
	if strings.TrimSpace(category) == "" {
		return c.All()
	}

	want := textnorm.Fold(category)
	var out []domain.Product
	for _, p := range c.products {
		if textnorm.Fold(p.Category) == want {
			out = append(out, p)
		}
	}
	return out
}

// Categories lists the distinct categories, lower-cased and sorted.
func (c *Catalog) Categories() []string {
	seen := make(map[string]struct{})
	for _, p := range c.products {
		cat := strings.ToLower(strings.TrimSpace(p.Category))
		if cat == "" {
			continue
		}
		seen[cat] = struct{}{}
	}

	out := make([]string, 0, len(seen))
	for cat := range seen {
		out = append(out, cat)
	}
	sort.Strings(out)
	return out
}

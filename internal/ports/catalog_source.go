package ports

import (
	"context"
	"storefront-delivery-service/internal/domain"
)

// Port: a boundary for the published menu.
type CatalogSource interface {
	ListProducts(ctx context.Context) ([]domain.Product, error)
}

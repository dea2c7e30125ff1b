package ports

import (
	"context"
	"storefront-delivery-service/internal/domain"
)

// Port: a destination for submitted orders (database, spreadsheet log).
type OrderSink interface {
	SaveOrder(ctx context.Context, order *domain.Order) error
}

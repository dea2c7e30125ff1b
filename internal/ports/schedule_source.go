package ports

import (
	"context"
	"storefront-delivery-service/internal/domain"
)

// Port: a boundary for the store's weekly opening hours.
type ScheduleSource interface {
	// Fetch a complete week. Implementations never return a partial week
	// together with a nil error.
	FetchWeek(ctx context.Context) (domain.Week, error)
}

package sheets

import (
	"context"
	"errors"
	"fmt"
	"storefront-delivery-service/internal/domain"
	"storefront-delivery-service/internal/orders"
	"storefront-delivery-service/internal/platform/obs"
	"time"
)

// OrderLogger appends submitted orders to the order log sheet.
type OrderLogger struct {
	client *Client
	url    string
	loc    *time.Location
}

func NewOrderLogger(client *Client, url string, loc *time.Location) (*OrderLogger, error) {
	if client == nil {
		return nil, errors.New("NewOrderLogger: client is nil")
	}
	if url == "" {
		return nil, errors.New("NewOrderLogger: url is empty")
	}
	if loc == nil {
		loc = time.UTC
	}
	return &OrderLogger{client: client, url: url, loc: loc}, nil
}

func (l *OrderLogger) SaveOrder(ctx context.Context, order *domain.Order) (err error) {
	defer obs.Time(ctx, "sheets.SaveOrder")(&err)

	if order == nil {
		return errors.New("SaveOrder: order is nil")
	}

	if err := l.client.PostJSON(ctx, l.url, orders.NewSheetRecord(order, l.loc)); err != nil {
		return fmt.Errorf("SaveOrder: invoice %s: %w", order.Invoice, err)
	}
	return nil
}

package services

import (
	"context"
	"errors"
	"fmt"
	"storefront-delivery-service/internal/domain"
	"storefront-delivery-service/internal/orders"
	"storefront-delivery-service/internal/platform/metrics"
	"storefront-delivery-service/internal/platform/obs"
	"storefront-delivery-service/internal/ports"
	"strings"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

var (
	ErrStoreClosed     = errors.New("the store is closed")
	ErrUnknownProduct  = errors.New("unknown product")
	ErrInactiveProduct = errors.New("product is not available")
)

// StatusReader reports whether the store is open at a moment.
type StatusReader interface {
	Status(now time.Time) domain.StoreStatus
}

type OrderItemRequest struct {
	ProductID    string
	Name         string
	Quantity     int
	UnitPrice    int64
	Instructions string
}

type SubmitOrderRequest struct {
	DeliveryType  domain.DeliveryType
	Customer      domain.Customer
	Address       string
	Reference     string
	Neighborhood  string
	Destination   *domain.Coordinates
	Items         []OrderItemRequest
	PaymentMethod string
	Notes         string
}

type SubmitOrderResult struct {
	Order           *domain.Order
	WhatsAppMessage string
	WhatsAppURL     string
}

// OrderService accepts orders. Menu, Status, Repository and SheetLog are
// optional. The repository is authoritative; the sheet log is best-effort.
type OrderService struct {
	Quoter           *Quoter
	Menu             *Menu
	Status           StatusReader
	Repository       ports.OrderSink
	SheetLog         ports.OrderSink
	WhatsAppNumber   string
	EnforceOpenHours bool
	Location         *time.Location
	Now              func() time.Time
}

func (s *OrderService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *OrderService) location() *time.Location {
	if s.Location != nil {
		return s.Location
	}
	return time.UTC
}

// SubmitOrder validates, prices and records an order, and returns the
// WhatsApp message the customer sends to the store.
func (s *OrderService) SubmitOrder(ctx context.Context, req SubmitOrderRequest) (_ *SubmitOrderResult, err error) {
	defer obs.Time(ctx, "services.SubmitOrder")(&err)

	now := s.now()

	if s.EnforceOpenHours && s.Status != nil {
		if st := s.Status.Status(now); !st.IsOpen {
			return nil, fmt.Errorf("submit order: %s: %w", st.SubMessage, ErrStoreClosed)
		}
	}

	items, err := s.priceItems(ctx, req.Items)
	if err != nil {
		return nil, fmt.Errorf("submit order: %w", err)
	}

	address := strings.TrimSpace(req.Address)
	if address == "" {
		address = strings.TrimSpace(req.Neighborhood)
	}

	order := &domain.Order{
		DeliveryType:  req.DeliveryType,
		Customer:      trimCustomer(req.Customer),
		Address:       address,
		Reference:     strings.TrimSpace(req.Reference),
		Destination:   req.Destination,
		Items:         items,
		PaymentMethod: strings.TrimSpace(req.PaymentMethod),
		Notes:         strings.TrimSpace(req.Notes),
	}
	if err := orders.Validate(order); err != nil {
		return nil, fmt.Errorf("submit order: %w", err)
	}

	if order.DeliveryType == domain.DeliveryTypeDelivery {
		if s.Quoter == nil {
			return nil, errors.New("submit order: delivery quoting is not configured")
		}
		quote, err := s.Quoter.QuoteDelivery(ctx, QuoteRequest{
			Destination:  req.Destination,
			Neighborhood: req.Neighborhood,
			Address:      req.Address,
		})
		if err != nil {
			return nil, fmt.Errorf("submit order: %w", err)
		}
		dest := quote.Destination
		order.Destination = &dest
		order.Delivery = &quote.Fee
	} else {
		order.Destination = nil
	}

	order.ID = uuid.NewString()
	order.CreatedAt = now
	order.Invoice = orders.NewInvoice(now.In(s.location()))
	orders.Finalize(order)

	if err := s.record(ctx, order); err != nil {
		return nil, fmt.Errorf("submit order: %w", err)
	}

	metrics.OrdersSubmitted.WithLabelValues(string(order.DeliveryType)).Inc()
	obs.Logger(ctx).WithFields(log.Fields{
		"invoice":       order.Invoice,
		"delivery_type": order.DeliveryType,
		"total":         order.Total,
	}).Info("order submitted")

	msg := orders.BuildWhatsAppMessage(order, s.location())
	result := &SubmitOrderResult{Order: order, WhatsAppMessage: msg}
	if s.WhatsAppNumber != "" {
		result.WhatsAppURL = orders.WhatsAppURL(s.WhatsAppNumber, msg)
	}

	return result, nil
}

// priceItems replaces client-supplied names and prices with the catalog's.
// Without a menu the request is trusted as sent.
func (s *OrderService) priceItems(ctx context.Context, reqs []OrderItemRequest) ([]domain.OrderItem, error) {
	items := make([]domain.OrderItem, 0, len(reqs))
	for _, r := range reqs {
		items = append(items, domain.OrderItem{
			ProductID:    strings.TrimSpace(r.ProductID),
			Name:         strings.TrimSpace(r.Name),
			Quantity:     r.Quantity,
			UnitPrice:    r.UnitPrice,
			Instructions: strings.TrimSpace(r.Instructions),
		})
	}

	if s.Menu == nil {
		return items, nil
	}

	cat, err := s.Menu.Get(ctx)
	if err != nil {
		return nil, err
	}

	for i := range items {
		p, ok := cat.Find(items[i].ProductID)
		if !ok {
			return nil, fmt.Errorf("item #%d %q: %w", i+1, items[i].ProductID, ErrUnknownProduct)
		}
		if !p.Active {
			return nil, fmt.Errorf("item #%d %q: %w", i+1, p.Name, ErrInactiveProduct)
		}
		items[i].Name = p.Name
		items[i].UnitPrice = p.Price
	}

	return items, nil
}

// record fans the order out to the configured sinks.
func (s *OrderService) record(ctx context.Context, order *domain.Order) error {
	var g errgroup.Group

	if s.Repository != nil {
		g.Go(func() error {
			if err := s.Repository.SaveOrder(ctx, order); err != nil {
				return fmt.Errorf("save order: %w", err)
			}
			return nil
		})
	}

	if s.SheetLog != nil {
		g.Go(func() error {
			if err := s.SheetLog.SaveOrder(ctx, order); err != nil {
				obs.Logger(ctx).WithError(err).WithField("invoice", order.Invoice).
					Warn("order sheet log failed")
			}
			return nil
		})
	}

	return g.Wait()
}

func trimCustomer(c domain.Customer) domain.Customer {
	return domain.Customer{
		Name:  strings.TrimSpace(c.Name),
		Phone: strings.TrimSpace(c.Phone),
		Table: strings.TrimSpace(c.Table),
	}
}

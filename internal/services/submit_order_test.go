package services

import (
	"context"
	"errors"
	"storefront-delivery-service/internal/domain"
	"storefront-delivery-service/internal/orders"
	"strings"
	"sync"
	"testing"
	"time"
)

type recordingSink struct {
	mu     sync.Mutex
	orders []*domain.Order
	err    error
}

func (s *recordingSink) SaveOrder(ctx context.Context, o *domain.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.orders = append(s.orders, o)
	return nil
}

type fixedStatus struct{ open bool }

func (f fixedStatus) Status(now time.Time) domain.StoreStatus {
	if f.open {
		return domain.StoreStatus{IsOpen: true, Message: "open"}
	}
	return domain.StoreStatus{Message: "closed", SubMessage: "Opens at 11:00 AM"}
}

func newOrderService(t *testing.T) (*OrderService, *recordingSink, *recordingSink) {
	t.Helper()

	menu := NewMenu(&stubCatalog{products: []domain.Product{
		{ID: "p1", Name: "Pizza", Price: 25000, Active: true},
		{ID: "p2", Name: "Limonada", Price: 5000, Active: true},
		{ID: "p3", Name: "Postre", Price: 7000, Active: false},
	}}, time.Minute)

	repo, sheet := &recordingSink{}, &recordingSink{}
	svc := &OrderService{
		Quoter:           newQuoter(t, afternoon),
		Menu:             menu,
		Status:           fixedStatus{open: true},
		Repository:       repo,
		SheetLog:         sheet,
		WhatsAppNumber:   "+57 300 123 4567",
		EnforceOpenHours: true,
		Location:         bogota,
		Now:              func() time.Time { return afternoon },
	}
	return svc, repo, sheet
}

func deliveryRequest() SubmitOrderRequest {
	return SubmitOrderRequest{
		DeliveryType: domain.DeliveryTypeDelivery,
		Customer:     domain.Customer{Name: " Ana ", Phone: "3001234567"},
		Neighborhood: "Manga",
		Items: []OrderItemRequest{
			{ProductID: "p1", Name: "Pizza gratis", Quantity: 2, UnitPrice: 1},
			{ProductID: "p2", Quantity: 1, Instructions: "sin hielo"},
		},
		PaymentMethod: "Efectivo",
	}
}

func TestSubmitOrderDelivery(t *testing.T) {
	svc, repo, sheet := newOrderService(t)

	res, err := svc.SubmitOrder(context.Background(), deliveryRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	o := res.Order
	if o.Items[0].Name != "Pizza" || o.Items[0].UnitPrice != 25000 {
		t.Fatalf("item not re-priced from the menu: %+v", o.Items[0])
	}
	if o.Subtotal != 55000 || o.DeliveryAmount() != 11400 || o.Total != 66400 {
		t.Fatalf("unexpected totals: subtotal=%d fee=%d total=%d", o.Subtotal, o.DeliveryAmount(), o.Total)
	}
	if o.Tip != 6640 || o.TotalWithTip != 73040 {
		t.Fatalf("unexpected tip: %d / %d", o.Tip, o.TotalWithTip)
	}
	if o.Destination == nil || *o.Destination != manga || o.Address != "Manga" {
		t.Fatalf("unexpected destination: %+v %q", o.Destination, o.Address)
	}
	if o.Customer.Name != "Ana" || o.ID == "" || !strings.HasPrefix(o.Invoice, "FAC-20260313-") {
		t.Fatalf("unexpected identity: %+v", o)
	}

	if len(repo.orders) != 1 || len(sheet.orders) != 1 {
		t.Fatalf("sinks: repo=%d sheet=%d", len(repo.orders), len(sheet.orders))
	}

	if !strings.Contains(res.WhatsAppMessage, o.Invoice) {
		t.Fatalf("message lacks invoice: %s", res.WhatsAppMessage)
	}
	if !strings.HasPrefix(res.WhatsAppURL, "https://wa.me/573001234567?text=") {
		t.Fatalf("WhatsAppURL = %q", res.WhatsAppURL)
	}
	if res.WhatsAppURL != orders.WhatsAppURL(svc.WhatsAppNumber, res.WhatsAppMessage) {
		t.Fatalf("WhatsAppURL does not encode the message")
	}
}

func TestSubmitOrderPickupHasNoFee(t *testing.T) {
	svc, _, _ := newOrderService(t)

	req := deliveryRequest()
	req.DeliveryType = domain.DeliveryTypePickup
	req.Destination = &bocagrande

	res, err := svc.SubmitOrder(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Order.Delivery != nil || res.Order.Destination != nil || res.Order.Total != 55000 {
		t.Fatalf("pickup order carries delivery data: %+v", res.Order)
	}
}

func TestSubmitOrderRejections(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*OrderService, *SubmitOrderRequest)
		want   error
	}{
		{
			name:   "store closed",
			mutate: func(s *OrderService, _ *SubmitOrderRequest) { s.Status = fixedStatus{open: false} },
			want:   ErrStoreClosed,
		},
		{
			name:   "unknown product",
			mutate: func(_ *OrderService, r *SubmitOrderRequest) { r.Items[0].ProductID = "zz" },
			want:   ErrUnknownProduct,
		},
		{
			name:   "inactive product",
			mutate: func(_ *OrderService, r *SubmitOrderRequest) { r.Items[0].ProductID = "p3" },
			want:   ErrInactiveProduct,
		},
		{
			name:   "missing customer",
			mutate: func(_ *OrderService, r *SubmitOrderRequest) { r.Customer.Phone = " " },
			want:   orders.ErrMissingCustomer,
		},
		{
			name:   "table without number",
			mutate: func(_ *OrderService, r *SubmitOrderRequest) { r.DeliveryType = domain.DeliveryTypeTable },
			want:   orders.ErrMissingTable,
		},
		{
			name:   "unknown neighborhood",
			mutate: func(_ *OrderService, r *SubmitOrderRequest) { r.Neighborhood = "Atlantis" },
			want:   ErrUnknownNeighborhood,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc, repo, _ := newOrderService(t)
			req := deliveryRequest()
			tc.mutate(svc, &req)

			_, err := svc.SubmitOrder(context.Background(), req)
			if !errors.Is(err, tc.want) {
				t.Fatalf("err = %v, want %v", err, tc.want)
			}
			if len(repo.orders) != 0 {
				t.Fatalf("rejected order was stored")
			}
		})
	}
}

func TestSubmitOrderWithoutMenuChecksClientPrices(t *testing.T) {
	svc, repo, sheet := newOrderService(t)
	svc.Menu = nil

	req := deliveryRequest()
	req.DeliveryType = domain.DeliveryTypePickup
	req.Items = []OrderItemRequest{{ProductID: "p1", Name: "Pizza", Quantity: 2, UnitPrice: -50000}}

	if _, err := svc.SubmitOrder(context.Background(), req); !errors.Is(err, orders.ErrInvalidPrice) {
		t.Fatalf("err = %v, want ErrInvalidPrice", err)
	}
	if len(repo.orders) != 0 || len(sheet.orders) != 0 {
		t.Fatalf("rejected order was recorded")
	}

	req.Items[0].UnitPrice = orders.MaxUnitPrice + 1
	if _, err := svc.SubmitOrder(context.Background(), req); !errors.Is(err, orders.ErrInvalidPrice) {
		t.Fatalf("err = %v, want ErrInvalidPrice", err)
	}

	req.Items[0].UnitPrice = 25000
	res, err := svc.SubmitOrder(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Order.Total != 50000 || res.Order.Items[0].Name != "Pizza" {
		t.Fatalf("unexpected order: %+v", res.Order)
	}
}

func TestSubmitOrderClosedStoreAllowedWithoutEnforcement(t *testing.T) {
	svc, _, _ := newOrderService(t)
	svc.Status = fixedStatus{open: false}
	svc.EnforceOpenHours = false

	if _, err := svc.SubmitOrder(context.Background(), deliveryRequest()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestSubmitOrderSinkFailures(t *testing.T) {
	svc, repo, sheet := newOrderService(t)
	sheet.err = errors.New("sheet down")

	if _, err := svc.SubmitOrder(context.Background(), deliveryRequest()); err != nil {
		t.Fatalf("sheet failure should be tolerated: %v", err)
	}

	repo.err = errors.New("db down")
	if _, err := svc.SubmitOrder(context.Background(), deliveryRequest()); err == nil {
		t.Fatalf("repository failure should fail the order")
	}
}

package domain

import "time"

type DeliveryType string

const (
	DeliveryTypeDelivery DeliveryType = "Domicilio"
	DeliveryTypePickup   DeliveryType = "Recoger en tienda"
	DeliveryTypeTable    DeliveryType = "Mesa"
)

func (t DeliveryType) Valid() bool {
	switch t {
	case DeliveryTypeDelivery, DeliveryTypePickup, DeliveryTypeTable:
		return true
	}
	return false
}

type Customer struct {
	Name  string
	Phone string
	Table string
}

// OrderItem is one cart line. UnitPrice is in whole pesos.
type OrderItem struct {
	ProductID    string
	Name         string
	Quantity     int
	UnitPrice    int64
	Instructions string
}

func (i OrderItem) LineTotal() int64 { return i.UnitPrice * int64(i.Quantity) }

// Order is a submitted cart with its pricing resolved.
type Order struct {
	ID            string
	Invoice       string
	DeliveryType  DeliveryType
	CreatedAt     time.Time
	Customer      Customer
	Address       string
	Reference     string
	Destination   *Coordinates
	Items         []OrderItem
	Subtotal      int64
	Delivery      *DeliveryFee
	Total         int64
	Tip           int64
	TotalWithTip  int64
	PaymentMethod string
	Notes         string
	MapsURL       string
}

// DeliveryAmount returns the delivery fee amount or 0 for non-delivery orders.
func (o *Order) DeliveryAmount() int64 {
	if o.Delivery == nil {
		return 0
	}
	return o.Delivery.Amount
}

// Package orders prices carts and renders them for the store's channels.
package orders

import (
	"errors"
	"fmt"
	"storefront-delivery-service/internal/domain"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TipPercent is the suggested voluntary tip.
const TipPercent = 10

const MaxQuantity = 99

// MaxUnitPrice bounds a line at MaxQuantity*MaxUnitPrice, far below int64 overflow.
const MaxUnitPrice = 100_000_000

var (
	ErrEmptyOrder      = errors.New("order has no items")
	ErrInvalidQuantity = errors.New("invalid item quantity")
	ErrMissingCustomer = errors.New("customer name and phone are required")
	ErrMissingAddress  = errors.New("delivery orders need an address or destination")
	ErrMissingTable    = errors.New("table orders need a table number")
	ErrInvalidDelivery = errors.New("invalid delivery type")
	ErrInvalidPrice    = errors.New("invalid item price")
)

// Validate checks the parts of an order the customer supplies.
func Validate(o *domain.Order) error {
	if !o.DeliveryType.Valid() {
		return fmt.Errorf("validate order: %q: %w", o.DeliveryType, ErrInvalidDelivery)
	}
	if len(o.Items) == 0 {
		return fmt.Errorf("validate order: %w", ErrEmptyOrder)
	}
	for i, it := range o.Items {
		if it.Quantity <= 0 || it.Quantity > MaxQuantity {
			return fmt.Errorf("validate order: item #%d: %w", i+1, ErrInvalidQuantity)
		}
		if it.UnitPrice < 0 || it.UnitPrice > MaxUnitPrice {
			return fmt.Errorf("validate order: item #%d: %w", i+1, ErrInvalidPrice)
		}
	}
	if strings.TrimSpace(o.Customer.Name) == "" || strings.TrimSpace(o.Customer.Phone) == "" {
		return fmt.Errorf("validate order: %w", ErrMissingCustomer)
	}

	switch o.DeliveryType {
	case domain.DeliveryTypeDelivery:
		if o.Destination == nil && strings.TrimSpace(o.Address) == "" {
			return fmt.Errorf("validate order: %w", ErrMissingAddress)
		}
	case domain.DeliveryTypeTable:
		if strings.TrimSpace(o.Customer.Table) == "" {
			return fmt.Errorf("validate order: %w", ErrMissingTable)
		}
	}

	return nil
}

// Finalize fills in the derived money fields from the items and delivery fee.
func Finalize(o *domain.Order) {
	var subtotal int64
	for _, it := range o.Items {
		subtotal += it.LineTotal()
	}

	o.Subtotal = subtotal
	o.Total = subtotal + o.DeliveryAmount()
	o.Tip = Tip(o.Total)
	o.TotalWithTip = o.Total + o.Tip

	if o.Destination != nil {
		o.MapsURL = MapsURL(*o.Destination)
	}
}

// Tip is TipPercent of total, rounded to the nearest peso.
func Tip(total int64) int64 {
	if total <= 0 {
		return 0
	}
	return decimal.NewFromInt(total).
		Mul(decimal.NewFromInt(TipPercent)).
		Div(decimal.NewFromInt(100)).
		Round(0).
		IntPart()
}

// NewInvoice returns a short human-friendly invoice number for the local date
// of now, e.g. "FAC-20260313-4F9A1C".
func NewInvoice(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:6])
	return fmt.Sprintf("FAC-%s-%s", now.Format("20060102"), suffix)
}

func MapsURL(c domain.Coordinates) string {
	return fmt.Sprintf("https://www.google.com/maps?q=%.6f,%.6f", c.Lat, c.Lon)
}

package orders

import (
	"errors"
	"net/url"
	"regexp"
	"storefront-delivery-service/internal/domain"
	"strings"
	"testing"
	"time"
)

var bogota = time.FixedZone("America/Bogota", -5*60*60)

func sampleOrder() *domain.Order {
	dest := domain.Coordinates{Lat: 10.405891, Lon: -75.552825}
	o := &domain.Order{
		Invoice:      "FAC-20260313-ABC123",
		DeliveryType: domain.DeliveryTypeDelivery,
		CreatedAt:    time.Date(2026, 3, 14, 2, 5, 0, 0, time.UTC), // 21:05 on the 13th in Bogota
		Customer:     domain.Customer{Name: "Ana", Phone: "3001234567"},
		Address:      "Cra 1 # 2-3",
		Destination:  &dest,
		Items: []domain.OrderItem{
			{ProductID: "p1", Name: "Hamburguesa", Quantity: 2, UnitPrice: 18000, Instructions: "sin cebolla"},
			{ProductID: "p2", Name: "Limonada", Quantity: 1, UnitPrice: 5000},
		},
		Delivery:      &domain.DeliveryFee{Amount: 18900, SurchargeApplied: true, SurchargePercent: 40},
		PaymentMethod: "Efectivo",
	}
	Finalize(o)
	return o
}

func TestFinalize(t *testing.T) {
	o := sampleOrder()

	if o.Subtotal != 41000 {
		t.Fatalf("Subtotal = %d, want 41000", o.Subtotal)
	}
	if o.Total != 59900 {
		t.Fatalf("Total = %d, want 59900", o.Total)
	}
	if o.Tip != 5990 || o.TotalWithTip != 65890 {
		t.Fatalf("Tip = %d, TotalWithTip = %d", o.Tip, o.TotalWithTip)
	}
	if o.MapsURL != "https://www.google.com/maps?q=10.405891,-75.552825" {
		t.Fatalf("MapsURL = %q", o.MapsURL)
	}
}

func TestTipRoundsToNearestPeso(t *testing.T) {
	cases := map[int64]int64{0: 0, 15: 2, 14: 1, 3000: 300, -50: 0}
	for total, want := range cases {
		if got := Tip(total); got != want {
			t.Fatalf("Tip(%d) = %d, want %d", total, got, want)
		}
	}
}

func TestFormatPesos(t *testing.T) {
	cases := map[int64]string{
		18900:   "$18.900",
		3000:    "$3.000",
		500:     "$500",
		1250000: "$1.250.000",
	}
	for in, want := range cases {
		if got := FormatPesos(in); got != want {
			t.Fatalf("FormatPesos(%d) = %q, want %q", in, got, want)
		}
	}
}

func TestBuildWhatsAppMessage(t *testing.T) {
	msg := BuildWhatsAppMessage(sampleOrder(), bogota)

	want := []string{
		"*DOMICILIO*\n\n",
		"*FACTURA Nº:* FAC-20260313-ABC123\n",
		"*FECHA:* 13/03/2026\n",
		"*HORA:* 09:05 PM\n",
		"*DIRECCIÓN:* Cra 1 # 2-3\n",
		"*PUNTO DE REFERENCIA:* Sin referencia\n",
		"*x2 - Hamburguesa - $18.000 = $36.000*\n_sin cebolla_\n",
		"*x1 - Limonada - $5.000 = $5.000*\n__\n",
		"*TOTAL PRODUCTOS:* $41.000\n",
		"*COSTO DE DOMICILIO:* $18.900 (+40%)\n",
		"*TOTAL A PAGAR:* $59.900\n",
		"*PROPINA VOLUNTARIA (10%):* $5.990\n",
		"*TOTAL CON PROPINA:* $65.890\n",
		"*OBSERVACIONES:*\n____\n",
		"*Ubicación en Google Maps:*\nhttps://www.google.com/maps?q=10.405891,-75.552825\n",
	}
	for _, w := range want {
		if !strings.Contains(msg, w) {
			t.Fatalf("message missing %q\n---\n%s", w, msg)
		}
	}
}

func TestBuildWhatsAppMessagePickupOmitsAddress(t *testing.T) {
	o := sampleOrder()
	o.DeliveryType = domain.DeliveryTypePickup
	o.Delivery = nil
	o.Destination = nil
	o.MapsURL = ""
	Finalize(o)

	msg := BuildWhatsAppMessage(o, bogota)

	if strings.Contains(msg, "DIRECCIÓN") || strings.Contains(msg, "COSTO DE DOMICILIO") {
		t.Fatalf("pickup message should not carry delivery details:\n%s", msg)
	}
	if !strings.HasPrefix(msg, "*RECOGER EN TIENDA*") {
		t.Fatalf("unexpected header:\n%s", msg)
	}
}

func TestWhatsAppURL(t *testing.T) {
	link := WhatsAppURL("+57 302 266 6530", "Hola & bienvenidos")

	if !strings.HasPrefix(link, "https://wa.me/573022666530?text=") {
		t.Fatalf("unexpected link: %s", link)
	}
	if strings.Contains(link, "+") {
		t.Fatalf("spaces should be percent-encoded: %s", link)
	}

	u, err := url.Parse(link)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := u.Query().Get("text"); got != "Hola & bienvenidos" {
		t.Fatalf("text = %q", got)
	}
}

func TestNewSheetRecord(t *testing.T) {
	rec := NewSheetRecord(sampleOrder(), bogota)

	if rec.DeliveryType != "Domicilio" || rec.Invoice != "FAC-20260313-ABC123" {
		t.Fatalf("unexpected record header: %+v", rec)
	}
	if rec.Date != "13/03/2026" || rec.Time != "09:05 PM" {
		t.Fatalf("unexpected date/time: %q %q", rec.Date, rec.Time)
	}
	if rec.Products != "Hamburguesa x2 - $18000 (sin cebolla)\nLimonada x1 - $5000" {
		t.Fatalf("Products = %q", rec.Products)
	}
	if rec.ProductsTotal != 41000 || rec.DeliveryCost != 18900 || rec.TotalToPay != 59900 {
		t.Fatalf("unexpected totals: %+v", rec)
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(o *domain.Order)
		want   error
	}{
		{"valid", func(o *domain.Order) {}, nil},
		{"no items", func(o *domain.Order) { o.Items = nil }, ErrEmptyOrder},
		{"zero quantity", func(o *domain.Order) { o.Items[0].Quantity = 0 }, ErrInvalidQuantity},
		{"no phone", func(o *domain.Order) { o.Customer.Phone = " " }, ErrMissingCustomer},
		{"no address", func(o *domain.Order) { o.Address = ""; o.Destination = nil }, ErrMissingAddress},
		{"table without number", func(o *domain.Order) { o.DeliveryType = domain.DeliveryTypeTable }, ErrMissingTable},
		{"bad type", func(o *domain.Order) { o.DeliveryType = "Drone" }, ErrInvalidDelivery},
		{"negative price", func(o *domain.Order) { o.Items[0].UnitPrice = -50000 }, ErrInvalidPrice},
		{"price above cap", func(o *domain.Order) { o.Items[0].UnitPrice = MaxUnitPrice + 1 }, ErrInvalidPrice},
		{"free item", func(o *domain.Order) { o.Items[0].UnitPrice = 0 }, nil},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			o := sampleOrder()
			tc.mutate(o)

			err := Validate(o)
			if tc.want == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tc.want) {
				t.Fatalf("err = %v, want %v", err, tc.want)
			}
		})
	}
}

func TestNewInvoice(t *testing.T) {
	inv := NewInvoice(time.Date(2026, 3, 13, 21, 0, 0, 0, bogota))

	if !regexp.MustCompile(`^FAC-20260313-[0-9A-F]{6}$`).MatchString(inv) {
		t.Fatalf("unexpected invoice: %q", inv)
	}
}

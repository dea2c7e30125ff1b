package orders

import (
	"fmt"
	"net/url"
	"storefront-delivery-service/internal/domain"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var pesos = message.NewPrinter(language.MustParse("es-CO"))

// FormatPesos renders whole pesos the Colombian way: 18900 -> "$18.900".
func FormatPesos(v int64) string {
	return pesos.Sprintf("$%d", v)
}

// BuildWhatsAppMessage renders the order as the chat message the store
// receives. Times are shown in loc.
func BuildWhatsAppMessage(o *domain.Order, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	created := o.CreatedAt.In(loc)

	var b strings.Builder

	b.WriteString("*" + strings.ToUpper(string(o.DeliveryType)) + "*\n\n")
	b.WriteString("*FACTURA Nº:* " + o.Invoice + "\n\n")
	b.WriteString("*FECHA:* " + created.Format("02/01/2006") + "\n")
	b.WriteString("*HORA:* " + created.Format("03:04 PM") + "\n\n")

	b.WriteString("*DATOS DEL USUARIO:*\n")
	b.WriteString("*NOMBRE:* " + orDefault(o.Customer.Name, "Sin nombre") + "\n")
	b.WriteString("*TELÉFONO:* " + orDefault(o.Customer.Phone, "Sin teléfono") + "\n")
	if o.DeliveryType == domain.DeliveryTypeTable {
		b.WriteString("*MESA:* " + o.Customer.Table + "\n")
	}
	b.WriteString("\n")

	if o.DeliveryType == domain.DeliveryTypeDelivery {
		b.WriteString("*DIRECCIÓN:* " + orDefault(o.Address, "Sin dirección") + "\n")
		b.WriteString("*PUNTO DE REFERENCIA:* " + orDefault(o.Reference, "Sin referencia") + "\n\n")
	}

	b.WriteString("*PRODUCTOS SELECCIONADOS:*\n\n")
	for _, it := range o.Items {
		b.WriteString(fmt.Sprintf("*x%d - %s - %s = %s*\n",
			it.Quantity, it.Name, FormatPesos(it.UnitPrice), FormatPesos(it.LineTotal())))

		if note := strings.TrimSpace(it.Instructions); note != "" {
			b.WriteString("_" + note + "_\n\n")
		} else {
			b.WriteString("__\n")
		}
	}

	b.WriteString("\n*TOTAL PRODUCTOS:* " + FormatPesos(o.Subtotal) + "\n")
	if fee := o.DeliveryAmount(); fee > 0 {
		b.WriteString("*COSTO DE DOMICILIO:* " + FormatPesos(fee) + o.Delivery.SurchargeLabel() + "\n\n")
	}

	b.WriteString("*TOTAL A PAGAR:* " + FormatPesos(o.Total) + "\n")
	b.WriteString("*MÉTODO DE PAGO:* " + orDefault(o.PaymentMethod, "No especificado") + "\n\n")

	b.WriteString("*PROPINA VOLUNTARIA (10%):* " + FormatPesos(o.Tip) + "\n")
	b.WriteString("*TOTAL CON PROPINA:* " + FormatPesos(o.TotalWithTip) + "\n\n")

	b.WriteString("*OBSERVACIONES:*\n" + orDefault(o.Notes, "____") + "\n\n")

	if o.MapsURL != "" {
		b.WriteString("*Ubicación en Google Maps:*\n" + o.MapsURL + "\n\n")
	}

	b.WriteString("*Envía tu pedido aqui --------->*")

	return b.String()
}

// WhatsAppURL builds a wa.me deep link. Non-digits in number are dropped.
func WhatsAppURL(number, msg string) string {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, number)

	return "https://wa.me/" + digits + "?text=" + strings.ReplaceAll(url.QueryEscape(msg), "+", "%20")
}

func orDefault(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}

package orders

import (
	"fmt"
	"storefront-delivery-service/internal/domain"
	"strings"
	"time"
)

// SheetRecord is one row of the orders spreadsheet. Field names are the
// column keys the sheet endpoint expects.
type SheetRecord struct {
	DeliveryType  string `json:"tipoEntrega"`
	Invoice       string `json:"numeroFactura"`
	Date          string `json:"fecha"`
	Time          string `json:"hora"`
	Name          string `json:"nombre"`
	Phone         string `json:"telefono"`
	Table         string `json:"mesa"`
	Address       string `json:"direccion"`
	Reference     string `json:"puntoReferencia"`
	Products      string `json:"productos"`
	ProductsTotal int64  `json:"totalProductos"`
	DeliveryCost  int64  `json:"costoDomicilio"`
	TotalToPay    int64  `json:"totalPagar"`
	PaymentMethod string `json:"metodoPago"`
	MapsURL       string `json:"ubicacionGoogleMaps"`
	Notes         string `json:"observaciones"`
}

// NewSheetRecord flattens o into a spreadsheet row. Times are shown in loc.
func NewSheetRecord(o *domain.Order, loc *time.Location) SheetRecord {
	if loc == nil {
		loc = time.UTC
	}
	created := o.CreatedAt.In(loc)

	lines := make([]string, 0, len(o.Items))
	for _, it := range o.Items {
		line := fmt.Sprintf("%s x%d - $%d", it.Name, it.Quantity, it.UnitPrice)
		if note := strings.TrimSpace(it.Instructions); note != "" {
			line += " (" + note + ")"
		}
		lines = append(lines, line)
	}

	return SheetRecord{
		DeliveryType:  string(o.DeliveryType),
		Invoice:       o.Invoice,
		Date:          created.Format("02/01/2006"),
		Time:          created.Format("03:04 PM"),
		Name:          o.Customer.Name,
		Phone:         o.Customer.Phone,
		Table:         o.Customer.Table,
		Address:       o.Address,
		Reference:     o.Reference,
		Products:      strings.Join(lines, "\n"),
		ProductsTotal: o.Subtotal,
		DeliveryCost:  o.DeliveryAmount(),
		TotalToPay:    o.Subtotal + o.DeliveryAmount(),
		PaymentMethod: orDefault(o.PaymentMethod, "No especificado"),
		MapsURL:       o.MapsURL,
		Notes:         o.Notes,
	}
}

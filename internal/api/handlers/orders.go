package handlers

import (
	"net/http"
	"storefront-delivery-service/internal/api/dto"
	"storefront-delivery-service/internal/domain"
	"storefront-delivery-service/internal/services"
	"storefront-delivery-service/internal/textnorm"
)

type OrderHandler struct {
	Service *services.OrderService
}

var deliveryTypes = map[string]domain.DeliveryType{
	"delivery":        domain.DeliveryTypeDelivery,
	"domicilio":       domain.DeliveryTypeDelivery,
	"pickup":          domain.DeliveryTypePickup,
	"recogerentienda": domain.DeliveryTypePickup,
	"table":           domain.DeliveryTypeTable,
	"mesa":            domain.DeliveryTypeTable,
}

// parseDeliveryType accepts the English keys and the storefront's Spanish labels.
func parseDeliveryType(s string) (domain.DeliveryType, bool) {
	t, ok := deliveryTypes[textnorm.Fold(s)]
	return t, ok
}

// Submit accepts an order and returns it priced, with the WhatsApp hand-off link.
func (h *OrderHandler) Submit(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	var req dto.OrderRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	deliveryType, ok := parseDeliveryType(req.DeliveryType)
	if !ok {
		writeError(w, r, http.StatusBadRequest, "delivery_type must be delivery, pickup or table")
		return
	}

	dest, ok := coordinates(req.Lat, req.Lon)
	if !ok {
		writeError(w, r, http.StatusBadRequest, "lat and lon must be given together")
		return
	}

	items := make([]services.OrderItemRequest, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, services.OrderItemRequest{
			ProductID:    it.ProductID,
			Name:         it.Name,
			Quantity:     it.Quantity,
			UnitPrice:    it.UnitPrice,
			Instructions: it.Instructions,
		})
	}

	result, err := h.Service.SubmitOrder(r.Context(), services.SubmitOrderRequest{
		DeliveryType: deliveryType,
		Customer: domain.Customer{
			Name:  req.Customer.Name,
			Phone: req.Customer.Phone,
			Table: req.Customer.Table,
		},
		Address:       req.Address,
		Reference:     req.Reference,
		Neighborhood:  req.Neighborhood,
		Destination:   dest,
		Items:         items,
		PaymentMethod: req.PaymentMethod,
		Notes:         req.Notes,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusCreated, orderResponse(result))
}

func orderResponse(result *services.SubmitOrderResult) dto.OrderResponse {
	o := result.Order

	res := dto.OrderResponse{
		ID:              o.ID,
		Invoice:         o.Invoice,
		CreatedAt:       o.CreatedAt,
		DeliveryType:    string(o.DeliveryType),
		Items:           make([]dto.OrderItemResponse, 0, len(o.Items)),
		Subtotal:        o.Subtotal,
		Total:           o.Total,
		Tip:             o.Tip,
		TotalWithTip:    o.TotalWithTip,
		MapsURL:         o.MapsURL,
		WhatsAppMessage: result.WhatsAppMessage,
		WhatsAppURL:     result.WhatsAppURL,
	}
	for _, it := range o.Items {
		res.Items = append(res.Items, dto.OrderItemResponse{
			ProductID:    it.ProductID,
			Name:         it.Name,
			Quantity:     it.Quantity,
			UnitPrice:    it.UnitPrice,
			LineTotal:    it.LineTotal(),
			Instructions: it.Instructions,
		})
	}
	if o.Destination != nil {
		res.Destination = &dto.CoordinatesResponse{Lat: o.Destination.Lat, Lon: o.Destination.Lon}
	}
	if o.Delivery != nil {
		fee := feeResponse(*o.Delivery)
		res.Delivery = &fee
	}

	return res
}

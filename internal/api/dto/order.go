package dto

import "time"

type CustomerRequest struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Table string `json:"table"`
}

type OrderItemRequest struct {
	ProductID    string `json:"product_id"`
	Name         string `json:"name"`
	Quantity     int    `json:"quantity"`
	UnitPrice    int64  `json:"unit_price"`
	Instructions string `json:"instructions"`
}

type OrderRequest struct {
	DeliveryType  string             `json:"delivery_type"`
	Customer      CustomerRequest    `json:"customer"`
	Address       string             `json:"address"`
	Reference     string             `json:"reference"`
	Neighborhood  string             `json:"neighborhood"`
	Lat           *float64           `json:"lat"`
	Lon           *float64           `json:"lon"`
	Items         []OrderItemRequest `json:"items"`
	PaymentMethod string             `json:"payment_method"`
	Notes         string             `json:"notes"`
}

type OrderItemResponse struct {
	ProductID    string `json:"product_id"`
	Name         string `json:"name"`
	Quantity     int    `json:"quantity"`
	UnitPrice    int64  `json:"unit_price"`
	LineTotal    int64  `json:"line_total"`
	Instructions string `json:"instructions,omitempty"`
}

type OrderResponse struct {
	ID              string               `json:"id"`
	Invoice         string               `json:"invoice"`
	CreatedAt       time.Time            `json:"created_at"`
	DeliveryType    string               `json:"delivery_type"`
	Items           []OrderItemResponse  `json:"items"`
	Destination     *CoordinatesResponse `json:"destination,omitempty"`
	Subtotal        int64                `json:"subtotal"`
	Delivery        *FeeResponse         `json:"delivery,omitempty"`
	Total           int64                `json:"total"`
	Tip             int64                `json:"tip"`
	TotalWithTip    int64                `json:"total_with_tip"`
	MapsURL         string               `json:"maps_url,omitempty"`
	WhatsAppMessage string               `json:"whatsapp_message"`
	WhatsAppURL     string               `json:"whatsapp_url,omitempty"`
}

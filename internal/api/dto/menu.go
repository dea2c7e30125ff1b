package dto

type ProductResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Category    string `json:"category"`
	Price       int64  `json:"price"`
	PriceLabel  string `json:"price_label"`
	Image       string `json:"image,omitempty"`
	Description string `json:"description,omitempty"`
	Config      string `json:"config,omitempty"`
}

type MenuResponse struct {
	Categories []string          `json:"categories"`
	Products   []ProductResponse `json:"products"`
}

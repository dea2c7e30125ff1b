package handlers

import (
	"net/http"
	"storefront-delivery-service/internal/api/dto"
	"storefront-delivery-service/internal/orders"
	"storefront-delivery-service/internal/services"
)

type MenuHandler struct {
	Menu *services.Menu
}

// List returns the active products, optionally filtered by ?category=.
func (h *MenuHandler) List(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	cat, err := h.Menu.Get(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	res := dto.MenuResponse{
		Categories: cat.Categories(),
		Products:   []dto.ProductResponse{},
	}
	for _, p := range cat.ByCategory(r.URL.Query().Get("category")) {
		if !p.Active {
			continue
		}
		res.Products = append(res.Products, dto.ProductResponse{
			ID:          p.ID,
			Name:        p.Name,
			Category:    p.Category,
			Price:       p.Price,
			PriceLabel:  orders.FormatPesos(p.Price),
			Image:       p.Image,
			Description: p.Description,
			Config:      p.Config,
		})
	}

	writeJSON(w, r, http.StatusOK, res)
}

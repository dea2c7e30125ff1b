package handlers

import (
	"net/http"
	"storefront-delivery-service/internal/api/dto"
	"storefront-delivery-service/internal/services"
)

type QuoteHandler struct {
	Quoter *services.Quoter
}

// Quote prices a delivery from the store to the requested destination.
func (h *QuoteHandler) Quote(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	var req dto.QuoteRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	dest, ok := coordinates(req.Lat, req.Lon)
	if !ok {
		writeError(w, r, http.StatusBadRequest, "lat and lon must be given together")
		return
	}

	quote, err := h.Quoter.QuoteDelivery(r.Context(), services.QuoteRequest{
		Destination:  dest,
		Neighborhood: req.Neighborhood,
		Address:      req.Address,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.QuoteResponse{
		Destination:     dto.CoordinatesResponse{Lat: quote.Destination.Lat, Lon: quote.Destination.Lon},
		Label:           quote.Label,
		DistanceMeters:  quote.Route.DistanceMeters,
		DurationSeconds: quote.Route.DurationSeconds,
		Fee:             feeResponse(quote.Fee),
		QuotedAt:        quote.QuotedAt,
	})
}

package handlers

import (
	"net/http"
	"storefront-delivery-service/internal/api/dto"
	"storefront-delivery-service/internal/places"
	"storefront-delivery-service/internal/ports"
	"storefront-delivery-service/internal/services"
	"strconv"
	"strings"
)

const defaultSearchLimit = 20

type PlacesHandler struct {
	Places   *places.Directory
	Quoter   *services.Quoter
	Geocoder ports.Geocoder
}

// Neighborhoods searches the directory with ?q= (all when empty). With
// ?with_fees=true each result carries its current delivery fee.
func (h *PlacesHandler) Neighborhoods(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	q := r.URL.Query()

	limit := defaultSearchLimit
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 500 {
			writeError(w, r, http.StatusBadRequest, "limit must be between 1 and 500")
			return
		}
		limit = n
	}

	var list []places.Neighborhood
	if term := strings.TrimSpace(q.Get("q")); term != "" {
		list = h.Places.Search(term, limit)
	} else {
		list = h.Places.All()
		if len(list) > limit {
			list = list[:limit]
		}
	}

	res := dto.ListNeighborhoodsResponse{Neighborhoods: make([]dto.NeighborhoodResponse, 0, len(list))}

	withFees, _ := strconv.ParseBool(q.Get("with_fees"))
	if withFees {
		quotes, err := h.Quoter.QuoteNeighborhoods(r.Context(), list)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		for _, nq := range quotes {
			fee := feeResponse(nq.Fee)
			meters := nq.Route.DistanceMeters
			res.Neighborhoods = append(res.Neighborhoods, dto.NeighborhoodResponse{
				Name:           nq.Neighborhood.Name,
				Lat:            nq.Neighborhood.Coords.Lat,
				Lon:            nq.Neighborhood.Coords.Lon,
				DistanceMeters: &meters,
				Fee:            &fee,
			})
		}
		writeJSON(w, r, http.StatusOK, res)
		return
	}

	for _, n := range list {
		res.Neighborhoods = append(res.Neighborhoods, dto.NeighborhoodResponse{
			Name: n.Name,
			Lat:  n.Coords.Lat,
			Lon:  n.Coords.Lon,
		})
	}
	writeJSON(w, r, http.StatusOK, res)
}

// ReverseGeocode returns a display address for ?lat=&lon=.
func (h *PlacesHandler) ReverseGeocode(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}
	if h.Geocoder == nil {
		writeError(w, r, http.StatusNotImplemented, "address lookup is not configured")
		return
	}

	lat, errLat := strconv.ParseFloat(r.URL.Query().Get("lat"), 64)
	lon, errLon := strconv.ParseFloat(r.URL.Query().Get("lon"), 64)
	if errLat != nil || errLon != nil {
		writeError(w, r, http.StatusBadRequest, "lat and lon query parameters are required")
		return
	}

	dest, _ := coordinates(&lat, &lon)
	label, err := h.Geocoder.ReverseGeocode(r.Context(), *dest)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.ReverseGeocodeResponse{Lat: lat, Lon: lon, Label: label})
}

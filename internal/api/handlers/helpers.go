package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"storefront-delivery-service/internal/adapters/distance"
	"storefront-delivery-service/internal/api/dto"
	"storefront-delivery-service/internal/domain"
	"storefront-delivery-service/internal/orders"
	"storefront-delivery-service/internal/platform/obs"
	"storefront-delivery-service/internal/pricing"
	"storefront-delivery-service/internal/services"
)

const maxBodyBytes = 1 << 20

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		obs.Logger(r.Context()).WithError(err).WithField("path", r.URL.Path).Error("encode failed")
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, r, status, map[string]string{"error": msg})
}

func allowMethod(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method == method {
		return true
	}
	w.Header().Set("Allow", method)
	writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
	return false
}

// decodeJSON reads exactly one JSON object with no unknown fields.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(v); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return false
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "body must contain only one JSON object")
		return false
	}
	return true
}

// writeServiceError maps domain errors to client statuses. Anything
// unrecognized is logged and reported as a 500.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var status int
	switch {
	case errors.Is(err, services.ErrMissingDestination),
		errors.Is(err, services.ErrUnknownNeighborhood),
		errors.Is(err, services.ErrInvalidDestination),
		errors.Is(err, distance.ErrInvalidCoordinates),
		errors.Is(err, pricing.ErrInvalidDistance),
		errors.Is(err, orders.ErrEmptyOrder),
		errors.Is(err, orders.ErrInvalidQuantity),
		errors.Is(err, orders.ErrInvalidPrice),
		errors.Is(err, orders.ErrMissingCustomer),
		errors.Is(err, orders.ErrMissingAddress),
		errors.Is(err, orders.ErrMissingTable),
		errors.Is(err, orders.ErrInvalidDelivery):
		status = http.StatusBadRequest
	case errors.Is(err, distance.ErrAddressNotFound):
		status = http.StatusNotFound
	case errors.Is(err, services.ErrStoreClosed):
		status = http.StatusConflict
	case errors.Is(err, distance.ErrNoRoute),
		errors.Is(err, services.ErrUnknownProduct),
		errors.Is(err, services.ErrInactiveProduct):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, services.ErrGeocoderUnavailable):
		status = http.StatusNotImplemented
	default:
		obs.Logger(r.Context()).WithError(err).WithField("path", r.URL.Path).Error("request failed")
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	writeError(w, r, status, errorMessage(err))
}

// errorMessage returns the innermost sentinel's text so clients never see
// upstream details.
func errorMessage(err error) string {
	for _, sentinel := range []error{
		services.ErrMissingDestination, services.ErrUnknownNeighborhood, services.ErrInvalidDestination,
		services.ErrStoreClosed,
		services.ErrUnknownProduct, services.ErrInactiveProduct, services.ErrGeocoderUnavailable,
		distance.ErrInvalidCoordinates, distance.ErrAddressNotFound, distance.ErrNoRoute,
		pricing.ErrInvalidDistance,
		orders.ErrEmptyOrder, orders.ErrInvalidQuantity, orders.ErrInvalidPrice, orders.ErrMissingCustomer,
		orders.ErrMissingAddress, orders.ErrMissingTable, orders.ErrInvalidDelivery,
	} {
		if errors.Is(err, sentinel) {
			return sentinel.Error()
		}
	}
	return err.Error()
}

func coordinates(lat, lon *float64) (*domain.Coordinates, bool) {
	if lat == nil && lon == nil {
		return nil, true
	}
	if lat == nil || lon == nil {
		return nil, false
	}
	return &domain.Coordinates{Lat: *lat, Lon: *lon}, true
}

func feeResponse(f domain.DeliveryFee) dto.FeeResponse {
	return dto.FeeResponse{
		Amount:           f.Amount,
		BaseAmount:       f.BaseAmount,
		DistanceKm:       f.DistanceKm,
		SurchargeApplied: f.SurchargeApplied,
		SurchargePercent: f.SurchargePercent,
		Display:          orders.FormatPesos(f.Amount) + f.SurchargeLabel(),
	}
}

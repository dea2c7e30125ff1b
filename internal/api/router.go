package api

import (
	"net/http"
	"storefront-delivery-service/internal/api/handlers"
	"storefront-delivery-service/internal/places"
	"storefront-delivery-service/internal/ports"
	"storefront-delivery-service/internal/schedule"
	"storefront-delivery-service/internal/services"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Deps are the collaborators the HTTP layer needs. Menu and Geocoder may be nil;
// their endpoints then answer 501.
type Deps struct {
	Quoter     *services.Quoter
	Orders     *services.OrderService
	Menu       *services.Menu
	Monitor    *schedule.Monitor
	Places     *places.Directory
	Geocoder   ports.Geocoder
	CORSOrigin string
}

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(deps Deps) http.Handler {
	mux := http.NewServeMux()

	quoteHandler := &handlers.QuoteHandler{Quoter: deps.Quoter}
	storeHandler := &handlers.StoreHandler{Monitor: deps.Monitor}
	placesHandler := &handlers.PlacesHandler{
		Places:   deps.Places,
		Quoter:   deps.Quoter,
		Geocoder: deps.Geocoder,
	}
	orderHandler := &handlers.OrderHandler{Service: deps.Orders}

	mux.HandleFunc("/health", handlers.Health)
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/delivery/quote", quoteHandler.Quote)
	mux.HandleFunc("/store/status", storeHandler.Status)
	mux.HandleFunc("/store/hours", storeHandler.Hours)
	mux.HandleFunc("/neighborhoods", placesHandler.Neighborhoods)
	mux.HandleFunc("/geocode/reverse", placesHandler.ReverseGeocode)
	mux.HandleFunc("/orders", orderHandler.Submit)

	if deps.Menu != nil {
		menuHandler := &handlers.MenuHandler{Menu: deps.Menu}
		mux.HandleFunc("/menu", menuHandler.List)
	} else {
		mux.HandleFunc("/menu", handlers.NotConfigured("menu"))
	}

	return requestIDMiddleware(corsMiddleware(deps.CORSOrigin)(loggingMiddleware(mux)))
}

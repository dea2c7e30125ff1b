package dto

import "time"

type CoordinatesResponse struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// QuoteRequest names the destination by coordinates, neighborhood or address.
type QuoteRequest struct {
	Lat          *float64 `json:"lat"`
	Lon          *float64 `json:"lon"`
	Neighborhood string   `json:"neighborhood"`
	Address      string   `json:"address"`
}

type FeeResponse struct {
	Amount           int64   `json:"amount"`
	BaseAmount       int64   `json:"base_amount"`
	DistanceKm       float64 `json:"distance_km"`
	SurchargeApplied bool    `json:"surcharge_applied"`
	SurchargePercent int     `json:"surcharge_percent"`
	Display          string  `json:"display"`
}

type QuoteResponse struct {
	Destination     CoordinatesResponse `json:"destination"`
	Label           string              `json:"label,omitempty"`
	DistanceMeters  int                 `json:"distance_meters"`
	DurationSeconds int                 `json:"duration_seconds"`
	Fee             FeeResponse         `json:"fee"`
	QuotedAt        time.Time           `json:"quoted_at"`
}

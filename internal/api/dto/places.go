package dto

type NeighborhoodResponse struct {
	Name           string       `json:"name"`
	Lat            float64      `json:"lat"`
	Lon            float64      `json:"lon"`
	DistanceMeters *int         `json:"distance_meters,omitempty"`
	Fee            *FeeResponse `json:"fee,omitempty"`
}

type ListNeighborhoodsResponse struct {
	Neighborhoods []NeighborhoodResponse `json:"neighborhoods"`
}

type ReverseGeocodeResponse struct {
	Lat   float64 `json:"lat"`
	Lon   float64 `json:"lon"`
	Label string  `json:"label"`
}

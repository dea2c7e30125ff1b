package dto

import "time"

type StoreStatusResponse struct {
	IsOpen     bool       `json:"is_open"`
	Message    string     `json:"message"`
	SubMessage string     `json:"sub_message"`
	Day        string     `json:"day"`
	OpensAt    *time.Time `json:"opens_at,omitempty"`
	ClosesAt   *time.Time `json:"closes_at,omitempty"`
	Fallback   bool       `json:"fallback"`
	Stale      bool       `json:"stale"`
	FetchedAt  *time.Time `json:"fetched_at,omitempty"`
}

type DayHoursResponse struct {
	Weekday int    `json:"weekday"`
	Day     string `json:"day"`
	Open    string `json:"open"`
	Close   string `json:"close"`
	Display string `json:"display"`
	IsOpen  bool   `json:"is_open"`
}

type StoreHoursResponse struct {
	Timezone string             `json:"timezone"`
	Fallback bool               `json:"fallback"`
	Days     []DayHoursResponse `json:"days"`
}
